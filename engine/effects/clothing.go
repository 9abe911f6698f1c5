package effects

import (
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

func applyClothingPutOn(ctx *Context, e *types.ClothingPutOn) {
	owner := ctx.ownerOrPlayer(e.Target)
	if _, ok := ctx.Defs.Clothing[e.Item]; !ok {
		ctx.warnf("put_on unknown clothing %q", e.Item)
		return
	}
	if state.Count(ctx.State, owner, e.Item) <= 0 {
		ctx.warnf("put_on: %s does not own %q", owner, e.Item)
		return
	}
	cs := state.Worn(ctx.State, owner)
	if _, already := cs.Items[e.Item]; !already {
		if holder, conflict := state.SlotConflict(ctx.State, ctx.Defs, owner, e.Item); conflict {
			ctx.warnf("put_on: %q conflicts with worn %q on %s", e.Item, holder, owner)
			return
		}
	}
	cs.Items[e.Item] = clothCondition(e.Condition)
}

func applyClothingTakeOff(ctx *Context, e *types.ClothingTakeOff) {
	owner := ctx.ownerOrPlayer(e.Target)
	cs := state.Worn(ctx.State, owner)
	if _, worn := cs.Items[e.Item]; !worn {
		ctx.warnf("take_off: %s is not wearing %q", owner, e.Item)
		return
	}
	delete(cs.Items, e.Item)
}

func applyClothingState(ctx *Context, e *types.ClothingSetState) {
	owner := ctx.ownerOrPlayer(e.Target)
	cs := state.Worn(ctx.State, owner)
	if _, worn := cs.Items[e.Item]; !worn {
		ctx.warnf("clothing_state: %s is not wearing %q", owner, e.Item)
		return
	}
	cs.Items[e.Item] = clothCondition(e.Condition)
}

func applyClothingSlotState(ctx *Context, e *types.ClothingSlotState) {
	owner := ctx.ownerOrPlayer(e.Target)
	item, ok := state.SlotOccupant(ctx.State, ctx.Defs, owner, e.Slot)
	if !ok {
		ctx.warnf("slot_state: nothing occupies %q on %s", e.Slot, owner)
		return
	}
	state.Worn(ctx.State, owner).Items[item] = clothCondition(e.Condition)
}

func applyOutfitPutOn(ctx *Context, e *types.OutfitPutOn) {
	owner := ctx.ownerOrPlayer(e.Target)
	od, ok := ctx.Defs.Outfits[e.Outfit]
	if !ok {
		ctx.warnf("put_on unknown outfit %q", e.Outfit)
		return
	}
	if !state.CanWearOutfit(ctx.State, ctx.Defs, owner, e.Outfit) {
		ctx.warnf("put_on: %s cannot wear outfit %q", owner, e.Outfit)
		return
	}
	cs := state.Worn(ctx.State, owner)
	// Pieces merge in declaration order; a later piece displaces whatever
	// already holds its slots, authored or previously merged.
	for _, piece := range od.Pieces {
		cd, exists := ctx.Defs.Clothing[piece.Item]
		if !exists {
			ctx.warnf("outfit %q references unknown clothing %q", e.Outfit, piece.Item)
			continue
		}
		for _, slot := range cd.Occupies {
			if holder, taken := state.SlotOccupant(ctx.State, ctx.Defs, owner, slot); taken && holder != piece.Item {
				delete(cs.Items, holder)
			}
		}
		cs.Items[piece.Item] = clothCondition(piece.Condition)
	}
	cs.Outfit = e.Outfit
}

func applyOutfitTakeOff(ctx *Context, e *types.OutfitTakeOff) {
	owner := ctx.ownerOrPlayer(e.Target)
	od, ok := ctx.Defs.Outfits[e.Outfit]
	if !ok {
		ctx.warnf("take_off unknown outfit %q", e.Outfit)
		return
	}
	cs := state.Worn(ctx.State, owner)
	for _, piece := range od.Pieces {
		delete(cs.Items, piece.Item)
	}
	if cs.Outfit == e.Outfit {
		cs.Outfit = ""
	}
}

func clothCondition(c types.ClothState) types.ClothState {
	if c == "" {
		return types.ClothIntact
	}
	return c
}
