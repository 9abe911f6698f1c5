package effects

import (
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// checkItem validates an inventory reference: the ID must exist, and an
// explicit kind must match what the definitions say it is.
func (ctx *Context) checkItem(kind types.ItemKind, item string) bool {
	actual, ok := state.ItemKind(ctx.Defs, item)
	if !ok {
		ctx.warnf("inventory effect on unknown id %q", item)
		return false
	}
	if kind != "" && kind != actual {
		ctx.warnf("inventory effect: %q is %s, not %s", item, actual, kind)
		return false
	}
	return true
}

func countOr1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func applyInventoryAdd(ctx *Context, e *types.InventoryAdd) {
	if !ctx.checkItem(e.Kind, e.Item) {
		return
	}
	state.AddItem(ctx.State, ctx.ownerOrPlayer(e.Target), e.Item, countOr1(e.Count))
}

func applyInventoryRemove(ctx *Context, e *types.InventoryRemove) {
	if !ctx.checkItem(e.Kind, e.Item) {
		return
	}
	owner := ctx.ownerOrPlayer(e.Target)
	if state.RemoveItem(ctx.State, owner, e.Item, countOr1(e.Count)) == 0 {
		ctx.warnf("remove: %s holds no %q", owner, e.Item)
	}
}

func applyInventoryTake(ctx *Context, e *types.InventoryTake) {
	if !ctx.checkItem(e.Kind, e.Item) {
		return
	}
	source := e.Source
	if source == "" {
		source = ctx.State.LocationCurrent
	}
	moved := state.RemoveItem(ctx.State, source, e.Item, countOr1(e.Count))
	if moved == 0 {
		ctx.warnf("take: %s holds no %q", source, e.Item)
		return
	}
	state.AddItem(ctx.State, ctx.ownerOrPlayer(e.Target), e.Item, moved)
}

func applyInventoryDrop(ctx *Context, e *types.InventoryDrop) {
	if !ctx.checkItem(e.Kind, e.Item) {
		return
	}
	owner := ctx.ownerOrPlayer(e.Target)
	moved := state.RemoveItem(ctx.State, owner, e.Item, countOr1(e.Count))
	if moved == 0 {
		ctx.warnf("drop: %s holds no %q", owner, e.Item)
		return
	}
	state.AddItem(ctx.State, ctx.State.LocationCurrent, e.Item, moved)
}

func applyInventoryGive(ctx *Context, e *types.InventoryGive) {
	if !ctx.checkItem(e.Kind, e.Item) {
		return
	}
	source := ctx.ownerOrPlayer(e.Source)
	moved := state.RemoveItem(ctx.State, source, e.Item, countOr1(e.Count))
	if moved == 0 {
		ctx.warnf("give: %s holds no %q", source, e.Item)
		return
	}
	state.AddItem(ctx.State, ctx.ownerOrPlayer(e.Target), e.Item, moved)
}

func applyInventoryPurchase(ctx *Context, e *types.InventoryPurchase) {
	ctx.trade(e.Kind, e.Item, countOr1(e.Count), e.Price,
		ctx.ownerOrPlayer(e.Target), tradeSource(ctx, e.Source))
}

func applyInventorySell(ctx *Context, e *types.InventorySell) {
	ctx.trade(e.Kind, e.Item, countOr1(e.Count), e.Price,
		tradeSource(ctx, e.Source), ctx.ownerOrPlayer(e.Target))
}

func tradeSource(ctx *Context, source string) string {
	if source == "" {
		return ctx.State.LocationCurrent
	}
	return source
}

// trade moves count items from seller to buyer and the price the other
// way along the money meter. The buyer must afford the whole lot and the
// seller must hold it; otherwise nothing changes.
func (ctx *Context) trade(kind types.ItemKind, item string, count int, unitPrice float64, buyer, seller string) {
	if !ctx.checkItem(kind, item) {
		return
	}
	if unitPrice <= 0 {
		unitPrice = state.ItemValue(ctx.Defs, item)
	}
	total := unitPrice * float64(count)

	money := ctx.Defs.Time.MoneyMeter
	if money == "" {
		money = "money"
	}
	funds, ok := state.Meter(ctx.State, buyer, money)
	if total > 0 {
		if !ok {
			ctx.warnf("trade: %s has no %q meter", buyer, money)
			return
		}
		if funds < total {
			ctx.warnf("trade: %s cannot afford %d x %q", buyer, count, item)
			return
		}
	}
	if state.Count(ctx.State, seller, item) < count {
		ctx.warnf("trade: %s holds fewer than %d of %q", seller, count, item)
		return
	}

	state.RemoveItem(ctx.State, seller, item, count)
	state.AddItem(ctx.State, buyer, item, count)
	if total > 0 {
		state.SetMeter(ctx.State, buyer, money, funds-total)
		if sellerFunds, ok := state.Meter(ctx.State, seller, money); ok {
			if min, max, has := state.EffectiveRange(ctx.State, ctx.Defs, seller, money); has {
				v := sellerFunds + total
				if v > max {
					v = max
				}
				if v < min {
					v = min
				}
				state.SetMeter(ctx.State, seller, money, v)
			} else {
				state.SetMeter(ctx.State, seller, money, sellerFunds+total)
			}
		}
	}
}
