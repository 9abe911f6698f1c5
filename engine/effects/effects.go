// Package effects applies ordered effect lists to the game state. Every
// effect is independently guarded; a false guard skips silently, an
// invalid effect is dropped with a warning, and the rest of the list
// still applies. The effect catalog is the closed sum type in types.
package effects

import (
	"fmt"
	"log/slog"

	"github.com/solenne/loom/engine/eval"
	"github.com/solenne/loom/engine/movement"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// Rand is the slice of the turn RNG the resolver needs.
type Rand interface {
	// WeightedSelect returns an index drawn proportionally to weights.
	WeightedSelect(weights []int) int
	// Percent reports a draw with probability p in [0,100].
	Percent(p float64) bool
}

// MeterKey identifies one (owner, meter) pair in the per-turn ledger.
type MeterKey struct {
	Owner string
	Meter string
}

// Context carries everything one turn's effect applications share: the
// evaluator, the turn RNG, the cumulative meter-delta ledger, pending
// time, and any forced node transition. One Context lives per turn.
type Context struct {
	Defs  *types.GameDef
	State *types.GameState
	Eval  *eval.Evaluator
	RNG   Rand

	// MeterLedger accumulates absolute applied deltas per (owner, meter)
	// across every effect source this turn, enforcing delta_cap_per_turn
	// as a shared budget.
	MeterLedger map[MeterKey]float64

	// PendingMinutes accumulates advance_time and movement costs; the
	// clock advances once, at the time phase.
	PendingMinutes int

	// ForcedGoto is the node forced by a goto effect, if any.
	ForcedGoto string

	// LocationChanged is set when a movement effect succeeds.
	LocationChanged bool

	// WarnFunc receives effect warnings; defaults to slog.
	WarnFunc func(format string, args ...any)
}

// NewContext builds the per-turn effect context.
func NewContext(defs *types.GameDef, s *types.GameState, ev *eval.Evaluator, rng Rand) *Context {
	return &Context{
		Defs:        defs,
		State:       s,
		Eval:        ev,
		RNG:         rng,
		MeterLedger: map[MeterKey]float64{},
	}
}

// ownerOrPlayer resolves an empty effect target to the player.
func (ctx *Context) ownerOrPlayer(target string) string {
	if target == "" {
		return state.Player
	}
	return target
}

func (ctx *Context) warnf(format string, args ...any) {
	if ctx.WarnFunc != nil {
		ctx.WarnFunc(format, args...)
		return
	}
	slog.Warn("effect skipped", "detail", fmt.Sprintf(format, args...))
}

// Apply applies each effect strictly in list order. It never fails the
// turn: bad effects are skipped with a warning.
func Apply(ctx *Context, effs []types.Effect) {
	for _, eff := range effs {
		applyOne(ctx, eff)
	}
}

func applyOne(ctx *Context, eff types.Effect) {
	if eff == nil {
		return
	}

	// Conditional is the one kind whose guard selects a branch instead
	// of skipping: evaluate once, apply exactly one branch. Effects
	// inside either branch still carry their own guards.
	if c, ok := eff.(*types.Conditional); ok {
		if ctx.Eval.Pass(c.Guard) {
			Apply(ctx, c.Then)
		} else {
			Apply(ctx, c.Otherwise)
		}
		return
	}

	// Guard false: silent skip, not an error.
	if !ctx.Eval.Pass(eff.EffectGuard()) {
		return
	}

	switch e := eff.(type) {
	case *types.MeterChange:
		applyMeterChange(ctx, e)
	case *types.FlagSet:
		applyFlagSet(ctx, e)

	case *types.InventoryAdd:
		applyInventoryAdd(ctx, e)
	case *types.InventoryRemove:
		applyInventoryRemove(ctx, e)
	case *types.InventoryTake:
		applyInventoryTake(ctx, e)
	case *types.InventoryDrop:
		applyInventoryDrop(ctx, e)
	case *types.InventoryGive:
		applyInventoryGive(ctx, e)
	case *types.InventoryPurchase:
		applyInventoryPurchase(ctx, e)
	case *types.InventorySell:
		applyInventorySell(ctx, e)

	case *types.ClothingPutOn:
		applyClothingPutOn(ctx, e)
	case *types.ClothingTakeOff:
		applyClothingTakeOff(ctx, e)
	case *types.ClothingSetState:
		applyClothingState(ctx, e)
	case *types.ClothingSlotState:
		applyClothingSlotState(ctx, e)
	case *types.OutfitPutOn:
		applyOutfitPutOn(ctx, e)
	case *types.OutfitTakeOff:
		applyOutfitTakeOff(ctx, e)

	case *types.Move:
		applyMovement(ctx, movement.Request{Kind: movement.Local, Direction: e.Direction, With: e.With})
	case *types.MoveTo:
		applyMovement(ctx, movement.Request{Kind: movement.LocalTo, Location: e.Location, With: e.With})
	case *types.TravelTo:
		applyMovement(ctx, movement.Request{Kind: movement.Zone, Location: e.Location, Method: e.Method, With: e.With})

	case *types.AdvanceTime:
		if e.Minutes > 0 {
			ctx.PendingMinutes += e.Minutes
		}

	case *types.Goto:
		if _, ok := ctx.Defs.Nodes[e.Node]; !ok {
			ctx.warnf("goto to unknown node %q", e.Node)
			return
		}
		ctx.ForcedGoto = e.Node

	case *types.Random:
		applyRandom(ctx, e)

	case *types.ApplyModifier:
		Activate(ctx, e.Target, e.Modifier, e.Duration)
	case *types.RemoveModifier:
		Deactivate(ctx, e.Target, e.Modifier)

	case *types.Unlock:
		applyUnlock(ctx, e, true)
	case *types.Lock:
		applyUnlock(ctx, e, false)

	default:
		ctx.warnf("unknown effect kind %T", eff)
	}
}

func applyRandom(ctx *Context, e *types.Random) {
	if len(e.Choices) == 0 {
		ctx.warnf("random effect with no choices")
		return
	}
	weights := make([]int, len(e.Choices))
	total := 0
	for i, c := range e.Choices {
		w := c.Weight
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		ctx.warnf("random effect with non-positive total weight")
		return
	}
	idx := ctx.RNG.WeightedSelect(weights)
	Apply(ctx, e.Choices[idx].Effects)
}

func applyUnlock(ctx *Context, e types.Effect, unlock bool) {
	var sets map[types.UnlockKind][]string
	switch t := e.(type) {
	case *types.Unlock:
		sets = map[types.UnlockKind][]string{
			types.UnlockItems: t.Items, types.UnlockClothing: t.Clothing,
			types.UnlockOutfits: t.Outfits, types.UnlockZones: t.Zones,
			types.UnlockLocations: t.Locations, types.UnlockActions: t.Actions,
			types.UnlockEndings: t.Endings,
		}
	case *types.Lock:
		sets = map[types.UnlockKind][]string{
			types.UnlockItems: t.Items, types.UnlockClothing: t.Clothing,
			types.UnlockOutfits: t.Outfits, types.UnlockZones: t.Zones,
			types.UnlockLocations: t.Locations, types.UnlockActions: t.Actions,
			types.UnlockEndings: t.Endings,
		}
	}
	for kind, ids := range sets {
		for _, id := range ids {
			if unlock {
				state.SetUnlocked(ctx.State, kind, id)
			} else {
				state.SetLocked(ctx.State, kind, id)
			}
		}
	}
}
