// Package events runs the per-turn event scan. At most one event fires
// per turn: guard-passing events with probability 100 fire immediately
// in authoring order, everything else with a passing guard enters one
// weighted pool for a single seeded draw.
package events

import (
	"github.com/solenne/loom/engine/effects"
	"github.com/solenne/loom/types"
)

// Fired describes the event that fired this turn.
type Fired struct {
	ID   string
	Def  types.EventDef
	Goto string // node forced by a trigger, if any
}

// TickCooldowns decrements every event cooldown by one turn. It runs
// every turn, whether or not an event fires.
func TickCooldowns(s *types.GameState) {
	for id, left := range s.Cooldowns {
		if left <= 1 {
			delete(s.Cooldowns, id)
			continue
		}
		s.Cooldowns[id] = left - 1
	}
}

// Scan evaluates eligibility in authoring order and fires at most one
// event. Returns nil when nothing fires.
func Scan(ctx *effects.Context) *Fired {
	var (
		poolIDs []string
		weights []int
	)
	for _, id := range ctx.Defs.EventOrder {
		ed, ok := ctx.Defs.Events[id]
		if !ok {
			continue
		}
		if ctx.State.FiredOnce[id] || ctx.State.Cooldowns[id] > 0 {
			continue
		}
		if !ctx.Eval.Pass(ed.Guard) {
			continue
		}
		if ed.Probability <= 0 || ed.Probability >= 100 {
			return fire(ctx, id, ed)
		}
		poolIDs = append(poolIDs, id)
		weights = append(weights, ed.Probability)
	}
	if len(poolIDs) == 0 {
		return nil
	}
	idx := ctx.RNG.WeightedSelect(weights)
	return fire(ctx, poolIDs[idx], ctx.Defs.Events[poolIDs[idx]])
}

// fire applies the event's effect surfaces in order: on_enter, then the
// triggers (stopping at the first that forces a node transition), then
// on_exit. Cooldown and history bookkeeping always happens, even when a
// trigger short-circuits the rest of the turn.
func fire(ctx *effects.Context, id string, ed types.EventDef) *Fired {
	f := &Fired{ID: id, Def: ed}

	effects.Apply(ctx, ed.OnEnter)
	for _, tr := range ed.Triggers {
		if !ctx.Eval.Pass(tr.Guard) {
			continue
		}
		before := ctx.ForcedGoto
		effects.Apply(ctx, tr.Effects)
		if ctx.ForcedGoto != "" && ctx.ForcedGoto != before {
			f.Goto = ctx.ForcedGoto
			break
		}
	}
	effects.Apply(ctx, ed.OnExit)

	if ed.Cooldown > 0 {
		ctx.State.Cooldowns[id] = ed.Cooldown
	}
	if ed.OncePerGame {
		ctx.State.FiredOnce[id] = true
	}
	ctx.State.EventsHistory = append(ctx.State.EventsHistory, id)
	return f
}
