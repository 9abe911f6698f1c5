package effects

import "github.com/solenne/loom/engine/movement"

func applyMovement(ctx *Context, req movement.Request) {
	res, err := movement.Perform(ctx.Defs, ctx.State, ctx.Eval, req)
	if err != nil {
		ctx.warnf("movement rejected: %v", err)
		return
	}
	ctx.PendingMinutes += res.Minutes
	ctx.LocationChanged = true
}
