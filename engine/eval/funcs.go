package eval

import (
	"github.com/solenne/loom/engine/expr"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// Call implements expr.Env: the state-dependent builtin catalog. All
// builtins are pure given the turn context. Owner arguments may be
// omitted, defaulting to the player.
func (ev *Evaluator) Call(name string, args []expr.Value) (expr.Value, bool) {
	s, defs := ev.State, ev.Defs

	owner, id, ok := ownerAndID(args)
	switch name {
	case "has":
		if !ok {
			return argWarn(ev, name)
		}
		return expr.BoolVal(state.Count(s, owner, id) > 0), true

	case "has_item":
		if !ok {
			return argWarn(ev, name)
		}
		kind, known := state.ItemKind(defs, id)
		return expr.BoolVal(known && kind == types.KindItem && state.Count(s, owner, id) > 0), true

	case "has_clothing":
		if !ok {
			return argWarn(ev, name)
		}
		kind, known := state.ItemKind(defs, id)
		return expr.BoolVal(known && kind == types.KindClothing && state.Count(s, owner, id) > 0), true

	case "has_outfit", "knows_outfit":
		if !ok {
			return argWarn(ev, name)
		}
		return expr.BoolVal(state.KnowsOutfit(s, owner, id)), true

	case "can_wear_outfit":
		if !ok {
			return argWarn(ev, name)
		}
		return expr.BoolVal(state.CanWearOutfit(s, defs, owner, id)), true

	case "wears_outfit":
		if !ok {
			return argWarn(ev, name)
		}
		cs, exists := s.Clothing[owner]
		return expr.BoolVal(exists && cs.Outfit == id), true

	case "wears":
		if !ok {
			return argWarn(ev, name)
		}
		return expr.BoolVal(state.Wears(s, owner, id)), true

	case "npc_present":
		if len(args) != 1 || args[0].Kind != expr.KindStr {
			return argWarn(ev, name)
		}
		return expr.BoolVal(state.IsPresent(s, args[0].Str)), true

	case "discovered":
		if len(args) != 1 || args[0].Kind != expr.KindStr {
			return argWarn(ev, name)
		}
		target := args[0].Str
		return expr.BoolVal(s.DiscoveredLocations[target] || s.DiscoveredZones[target]), true

	case "unlocked":
		if len(args) != 1 || args[0].Kind != expr.KindStr {
			return argWarn(ev, name)
		}
		return expr.BoolVal(ev.anyUnlocked(args[0].Str)), true
	}
	return expr.Null, false
}

// ownerAndID splits the common (owner?, id) argument shapes: one string
// argument means the player owns it.
func ownerAndID(args []expr.Value) (owner, id string, ok bool) {
	switch len(args) {
	case 1:
		if args[0].Kind != expr.KindStr {
			return "", "", false
		}
		return state.Player, args[0].Str, true
	case 2:
		if args[0].Kind != expr.KindStr || args[1].Kind != expr.KindStr {
			return "", "", false
		}
		return args[0].Str, args[1].Str, true
	}
	return "", "", false
}

func (ev *Evaluator) anyUnlocked(id string) bool {
	for _, kind := range []types.UnlockKind{
		types.UnlockItems, types.UnlockClothing, types.UnlockOutfits,
		types.UnlockZones, types.UnlockLocations, types.UnlockActions,
		types.UnlockEndings,
	} {
		if ev.State.Unlocked[kind][id] {
			return true
		}
	}
	if ad, ok := ev.Defs.Actions[id]; ok && ad.Unlocked && !ev.State.Locked[types.UnlockActions][id] {
		return true
	}
	return false
}

func argWarn(ev *Evaluator, name string) (expr.Value, bool) {
	ev.Warnf("bad arguments to %s", name)
	return expr.False, true
}
