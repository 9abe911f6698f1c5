package ai

import (
	"fmt"
	"sort"

	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// Validated is the portion of a Checker delta that survived validation,
// expressed as ordinary effects plus the bookkeeping the resolver does
// not own.
type Validated struct {
	Effects         []types.Effect
	NodeTransition  string
	Memories        map[string][]string
	Summary         string
	EventsEchoed    []string
	Discovered      []string // location IDs
	DiscoveredZones []string
	Warnings        []string
}

// Rejection reports a wholesale delta rejection. None of the delta
// applies; the engine narrates a refusal instead.
type Rejection struct {
	Violations []string
}

// Validate screens a Checker delta against the definitions and the
// turn's gate snapshot. Unknown references are dropped one by one with
// warnings; a safety failure rejects the whole delta.
func Validate(defs *types.GameDef, s *types.GameState, pass state.GuardFunc, d *Delta) (*Validated, *Rejection) {
	if !d.Safety.OK || len(d.Safety.Violations) > 0 {
		return nil, &Rejection{Violations: d.Safety.Violations}
	}

	v := &Validated{Memories: map[string][]string{}}
	warn := func(format string, args ...any) {
		v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
	}

	for _, owner := range sortedKeys(d.Meters) {
		if !knownOwner(defs, owner) {
			warn("meters: unknown owner %q", owner)
			continue
		}
		changes := d.Meters[owner]
		for _, meter := range sortedKeys(changes) {
			if _, ok := defs.Meters[meter]; !ok {
				warn("meters: unknown meter %q", meter)
				continue
			}
			op, val, err := parseChange(changes[meter])
			if err != nil {
				warn("meters: %s.%s: %v", owner, meter, err)
				continue
			}
			v.Effects = append(v.Effects, &types.MeterChange{
				Target: owner, Meter: meter, Op: op, Value: val,
				RespectCaps: true, CapPerTurn: true,
			})
		}
	}

	for _, key := range sortedKeys(d.Flags) {
		if _, ok := defs.Flags[key]; !ok {
			warn("flags: unknown flag %q", key)
			continue
		}
		v.Effects = append(v.Effects, &types.FlagSet{Key: key, Value: d.Flags[key]})
	}

	for _, inv := range d.Inventory {
		owner := inv.Owner
		if owner == "" {
			owner = state.Player
		}
		if !knownHolder(defs, owner) {
			warn("inventory: unknown owner %q", inv.Owner)
			continue
		}
		if _, ok := state.ItemKind(defs, inv.Item); !ok {
			warn("inventory: unknown item %q", inv.Item)
			continue
		}
		op, val, err := parseChange(inv.Count)
		if err != nil || val != float64(int(val)) || val <= 0 {
			warn("inventory: bad count %q for %q", inv.Count, inv.Item)
			continue
		}
		count := int(val)
		switch op {
		case types.OpAdd:
			v.Effects = append(v.Effects, &types.InventoryAdd{Target: owner, Item: inv.Item, Count: count})
		case types.OpSubtract:
			v.Effects = append(v.Effects, &types.InventoryRemove{Target: owner, Item: inv.Item, Count: count})
		default:
			warn("inventory: count %q must be relative", inv.Count)
		}
	}

	for _, cl := range d.Clothing {
		owner := cl.Owner
		if owner == "" {
			owner = state.Player
		}
		if !knownOwner(defs, owner) {
			warn("clothing: unknown owner %q", cl.Owner)
			continue
		}
		if _, ok := defs.Clothing[cl.Item]; !ok {
			warn("clothing: unknown item %q", cl.Item)
			continue
		}
		switch cl.Change {
		case "put_on":
			v.Effects = append(v.Effects, &types.ClothingPutOn{Target: owner, Item: cl.Item})
		case "take_off":
			v.Effects = append(v.Effects, &types.ClothingTakeOff{Target: owner, Item: cl.Item})
		case string(types.ClothIntact), string(types.ClothOpened), string(types.ClothDisplaced), string(types.ClothRemoved):
			v.Effects = append(v.Effects, &types.ClothingSetState{Target: owner, Item: cl.Item, Condition: types.ClothState(cl.Change)})
		default:
			warn("clothing: unknown change %q", cl.Change)
		}
	}

	for _, mv := range d.Movement {
		if !connectedTo(defs, s, mv.To) {
			warn("movement: %q is not one step from %q", mv.To, s.LocationCurrent)
			continue
		}
		if state.LocationLocked(s, defs, mv.To, pass) {
			warn("movement: %q is locked", mv.To)
			continue
		}
		v.Effects = append(v.Effects, &types.MoveTo{Location: mv.To})
	}

	for _, add := range d.Modifiers.Add {
		owner := add.Owner
		if owner == "" {
			owner = state.Player
		}
		if _, ok := defs.Modifiers[add.ID]; !ok {
			warn("modifiers: unknown modifier %q", add.ID)
			continue
		}
		if !knownOwner(defs, owner) {
			warn("modifiers: unknown owner %q", add.Owner)
			continue
		}
		v.Effects = append(v.Effects, &types.ApplyModifier{Target: owner, Modifier: add.ID, Duration: add.Duration})
	}
	for _, rm := range d.Modifiers.Remove {
		owner := rm.Owner
		if owner == "" {
			owner = state.Player
		}
		if _, ok := defs.Modifiers[rm.ID]; !ok {
			warn("modifiers: unknown modifier %q", rm.ID)
			continue
		}
		v.Effects = append(v.Effects, &types.RemoveModifier{Target: owner, Modifier: rm.ID})
	}

	for _, zone := range d.Discoveries.Zones {
		if _, ok := defs.Zones[zone]; !ok {
			warn("discoveries: unknown zone %q", zone)
			continue
		}
		v.DiscoveredZones = append(v.DiscoveredZones, zone)
	}
	for _, loc := range d.Discoveries.Locations {
		if _, ok := defs.Locations[loc]; !ok {
			warn("discoveries: unknown location %q", loc)
			continue
		}
		v.Discovered = append(v.Discovered, loc)
	}

	for _, ev := range d.EventsFired {
		if _, ok := defs.Events[ev]; ok {
			v.EventsEchoed = append(v.EventsEchoed, ev)
		}
	}

	if d.NodeTransition != "" {
		if _, ok := defs.Nodes[d.NodeTransition]; ok {
			v.NodeTransition = d.NodeTransition
		} else {
			warn("node_transition: unknown node %q", d.NodeTransition)
		}
	}

	for _, char := range sortedKeys(d.CharacterMemories) {
		if _, ok := defs.Characters[char]; !ok {
			warn("character_memories: unknown character %q", char)
			continue
		}
		v.Memories[char] = append(v.Memories[char], d.CharacterMemories[char]...)
	}
	v.Summary = d.NarrativeSummary

	return v, nil
}

func knownOwner(defs *types.GameDef, owner string) bool {
	if owner == state.Player {
		return true
	}
	_, ok := defs.Characters[owner]
	return ok
}

// knownHolder accepts characters and locations; both hold inventory.
func knownHolder(defs *types.GameDef, owner string) bool {
	if knownOwner(defs, owner) {
		return true
	}
	_, ok := defs.Locations[owner]
	return ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func connectedTo(defs *types.GameDef, s *types.GameState, dest string) bool {
	cur, ok := defs.Locations[s.LocationCurrent]
	if !ok {
		return false
	}
	for _, to := range cur.Connections {
		if to == dest {
			return true
		}
	}
	return false
}
