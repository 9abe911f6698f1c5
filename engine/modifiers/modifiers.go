// Package modifiers drives modifier lifecycle outside explicit effects:
// guard-based auto-activation each turn and duration ticking when time
// advances. Activation itself lives in the effects package so manual and
// automatic paths share one enter/exit contract.
package modifiers

import (
	"sort"

	"github.com/solenne/loom/engine/effects"
	"github.com/solenne/loom/engine/state"
)

// Refresh evaluates every guarded modifier definition against the
// current state and activates or deactivates on edges. Guard-driven
// modifiers attach to the player.
func Refresh(ctx *effects.Context) {
	for _, id := range ctx.Defs.ModOrder {
		md, ok := ctx.Defs.Modifiers[id]
		if !ok || md.Guard.Empty() {
			continue
		}
		_, active := ctx.State.Modifiers[state.Player][id]
		holds := ctx.Eval.Pass(md.Guard)
		switch {
		case holds && !active:
			effects.Activate(ctx, state.Player, id, 0)
		case !holds && active:
			effects.Deactivate(ctx, state.Player, id)
		}
	}
}

// TickDurations subtracts elapsed minutes from every durationed active
// modifier on every owner; any reaching zero deactivates and its exit
// effects fire.
func TickDurations(ctx *effects.Context, minutes int) {
	if minutes <= 0 {
		return
	}
	owners := make([]string, 0, len(ctx.State.Modifiers))
	for owner := range ctx.State.Modifiers {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		for _, id := range state.ActiveModifiers(ctx.State, owner) {
			ms := ctx.State.Modifiers[owner][id]
			if ms == nil || ms.Remaining == nil {
				continue
			}
			*ms.Remaining -= minutes
			if *ms.Remaining <= 0 {
				effects.Deactivate(ctx, owner, id)
			}
		}
	}
}
