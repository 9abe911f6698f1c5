package eval

import (
	"sort"

	"github.com/solenne/loom/engine/expr"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// Lookup implements expr.Env. Paths address read-only namespaces over the
// definitions, the state, and the turn's gate snapshot.
func (ev *Evaluator) Lookup(path []string) (expr.Value, bool) {
	if len(path) == 0 {
		return expr.Null, false
	}
	s, defs := ev.State, ev.Defs

	switch path[0] {
	case "turn":
		if len(path) == 1 {
			return expr.NumVal(float64(s.TurnCount)), true
		}

	case "time":
		if len(path) != 2 {
			return expr.Null, false
		}
		switch path[1] {
		case "day":
			return expr.NumVal(float64(s.Time.Day)), true
		case "minutes":
			return expr.NumVal(float64(s.Time.Minutes)), true
		case "weekday":
			return expr.StrVal(s.Time.Weekday), true
		case "slot":
			return expr.StrVal(state.Slot(defs, s.Time.Minutes)), true
		}

	case "location":
		if len(path) != 2 {
			return expr.Null, false
		}
		switch path[1] {
		case "id":
			return expr.StrVal(s.LocationCurrent), true
		case "previous":
			return expr.StrVal(s.LocationPrevious), true
		case "zone":
			return expr.StrVal(s.ZoneCurrent), true
		case "name":
			if ld, ok := defs.Locations[s.LocationCurrent]; ok {
				return expr.StrVal(ld.Name), true
			}
			return expr.StrVal(""), true
		}

	case "node":
		if len(path) == 2 && path[1] == "id" {
			return expr.StrVal(s.CurrentNode), true
		}

	case "characters":
		if len(path) == 1 {
			ids := make([]string, 0, len(defs.Characters))
			for id := range defs.Characters {
				if id != state.Player {
					ids = append(ids, id)
				}
			}
			sort.Strings(ids)
			return expr.StrListVal(ids), true
		}

	case "present":
		if len(path) == 1 {
			return expr.StrListVal(s.PresentCharacters), true
		}

	case "meters":
		if len(path) != 3 {
			return expr.Null, false
		}
		if v, ok := state.Meter(s, path[1], path[2]); ok {
			return expr.NumVal(v), true
		}
		return expr.Null, false

	case "flags":
		if len(path) != 2 {
			return expr.Null, false
		}
		v, ok := s.Flags[path[1]]
		if !ok {
			return expr.Null, false
		}
		return flagValue(v), true

	case "modifiers":
		if len(path) == 2 {
			return expr.StrListVal(state.ActiveModifiers(s, path[1])), true
		}

	case "inventory":
		return ev.lookupInventory(path)

	case "clothing":
		return ev.lookupClothing(path)

	case "gates":
		if len(path) != 3 {
			return expr.Null, false
		}
		char, ok := ev.Gates[path[1]]
		if !ok {
			return expr.Null, false
		}
		res, ok := char[path[2]]
		if !ok {
			return expr.Null, false
		}
		return expr.BoolVal(res.Allow), true

	case "arcs":
		if len(path) != 3 {
			return expr.Null, false
		}
		as, ok := s.Arcs[path[1]]
		if !ok {
			if _, defined := defs.Arcs[path[1]]; !defined {
				return expr.Null, false
			}
			as = &types.ArcState{}
		}
		switch path[2] {
		case "stage":
			if as.Stage == "" {
				return expr.Null, true
			}
			return expr.StrVal(as.Stage), true
		case "history":
			return expr.StrListVal(as.History), true
		}

	case "discovered":
		if len(path) != 2 {
			return expr.Null, false
		}
		switch path[1] {
		case "zones":
			return expr.StrListVal(state.DiscoveredList(s.DiscoveredZones)), true
		case "locations":
			return expr.StrListVal(state.DiscoveredList(s.DiscoveredLocations)), true
		}

	case "unlocked":
		if len(path) != 2 {
			return expr.Null, false
		}
		switch path[1] {
		case "endings":
			return expr.StrListVal(state.Unlocked(s, types.UnlockEndings)), true
		case "actions":
			ids := state.Unlocked(s, types.UnlockActions)
			for id, ad := range defs.Actions {
				if ad.Unlocked && !s.Locked[types.UnlockActions][id] {
					ids = append(ids, id)
				}
			}
			sort.Strings(ids)
			return expr.StrListVal(dedup(ids)), true
		}
	}
	return expr.Null, false
}

// lookupInventory resolves inventory.<owner>.<category>.<id> (count) and
// inventory.<owner>.<id> (count across the shared namespace).
func (ev *Evaluator) lookupInventory(path []string) (expr.Value, bool) {
	s := ev.State
	switch len(path) {
	case 3:
		return expr.NumVal(float64(state.Count(s, path[1], path[2]))), true
	case 4:
		kind, ok := state.ItemKind(ev.Defs, path[3])
		if !ok {
			return expr.Null, false
		}
		if !categoryMatches(path[2], kind) {
			return expr.NumVal(0), true
		}
		return expr.NumVal(float64(state.Count(s, path[1], path[3]))), true
	}
	return expr.Null, false
}

// lookupClothing resolves clothing.<owner>.outfit and
// clothing.<owner>.items.<id> (condition string).
func (ev *Evaluator) lookupClothing(path []string) (expr.Value, bool) {
	if len(path) < 3 {
		return expr.Null, false
	}
	cs, ok := ev.State.Clothing[path[1]]
	if !ok {
		return expr.Null, false
	}
	switch path[2] {
	case "outfit":
		if len(path) == 3 {
			if cs.Outfit == "" {
				return expr.Null, true
			}
			return expr.StrVal(cs.Outfit), true
		}
	case "items":
		if len(path) == 4 {
			cond, worn := cs.Items[path[3]]
			if !worn {
				return expr.Null, false
			}
			return expr.StrVal(string(cond)), true
		}
	}
	return expr.Null, false
}

func categoryMatches(category string, kind types.ItemKind) bool {
	switch category {
	case "items":
		return kind == types.KindItem
	case "clothing":
		return kind == types.KindClothing
	case "outfits":
		return kind == types.KindOutfit
	}
	return false
}

func flagValue(v any) expr.Value {
	switch t := v.(type) {
	case bool:
		return expr.BoolVal(t)
	case float64:
		return expr.NumVal(t)
	case int:
		return expr.NumVal(float64(t))
	case int64:
		return expr.NumVal(float64(t))
	case string:
		return expr.StrVal(t)
	}
	return expr.Null
}

func dedup(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
