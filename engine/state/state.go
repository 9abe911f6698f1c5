// Package state creates and reads the mutable game state. Mutation goes
// through the effects package; this package owns initialization from the
// definitions and the derived lookups (meter ranges, clothing occupancy,
// presence, locks) that the rest of the engine shares.
package state

import (
	"sort"

	"github.com/solenne/loom/types"
)

// Player is the reserved owner ID for the player character.
const Player = "player"

// NewState builds a fresh session state from the definitions: meters at
// their defaults, flags at their defaults, starting inventory and clothing
// from the character definitions, starting location and node from the meta.
func NewState(defs *types.GameDef) *types.GameState {
	s := &types.GameState{
		Meters:              map[string]map[string]float64{},
		Flags:               map[string]any{},
		Inventory:           map[string]map[string]int{},
		Clothing:            map[string]*types.ClothingState{},
		Modifiers:           map[string]map[string]*types.ModifierState{},
		Arcs:                map[string]*types.ArcState{},
		DiscoveredLocations: map[string]bool{},
		DiscoveredZones:     map[string]bool{},
		Cooldowns:           map[string]int{},
		FiredOnce:           map[string]bool{},
		Unlocked:            map[types.UnlockKind]map[string]bool{},
		Locked:              map[types.UnlockKind]map[string]bool{},
		MemoryLog:           map[string][]string{},
		LocationCurrent:     defs.Meta.StartLocation,
		ZoneCurrent:         defs.Meta.StartZone,
		CurrentNode:         defs.Meta.StartNode,
		RNGBaseSeed:         defs.Meta.Seed,
		Time: types.Clock{
			Day:     defs.Time.StartDay,
			Minutes: defs.Time.StartMinutes,
			Weekday: defs.Time.StartWeekday,
		},
	}
	if s.Time.Day < 1 {
		s.Time.Day = 1
	}
	if s.Time.Weekday == "" {
		s.Time.Weekday = Weekdays(defs)[0]
	}

	for id, fd := range defs.Flags {
		s.Flags[id] = fd.Default
	}

	for _, owner := range meterOwners(defs) {
		s.Meters[owner] = map[string]float64{}
		for mid, md := range defs.Meters {
			if !meterApplies(md, owner) {
				continue
			}
			s.Meters[owner][mid] = md.Default
		}
	}

	ids := make([]string, 0, len(defs.Characters))
	for id := range defs.Characters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		cd := defs.Characters[id]
		for mid, v := range cd.Meters {
			if s.Meters[id] == nil {
				s.Meters[id] = map[string]float64{}
			}
			s.Meters[id][mid] = v
		}
		for item, count := range cd.Inventory {
			AddItem(s, id, item, count)
		}
		for _, item := range cd.Wardrobe {
			AddItem(s, id, item, 1)
		}
		if cd.Outfit != "" {
			AddItem(s, id, cd.Outfit, 1)
			if od, ok := defs.Outfits[cd.Outfit]; ok {
				cs := ensureClothing(s, id)
				cs.Outfit = cd.Outfit
				for _, piece := range od.Pieces {
					AddItem(s, id, piece.Item, 1)
					cond := piece.Condition
					if cond == "" {
						cond = types.ClothIntact
					}
					cs.Items[piece.Item] = cond
				}
			}
		}
	}

	if s.LocationCurrent != "" {
		s.DiscoveredLocations[s.LocationCurrent] = true
	}
	if s.ZoneCurrent != "" {
		s.DiscoveredZones[s.ZoneCurrent] = true
	}
	if s.CurrentNode != "" {
		s.VisitedNodes = append(s.VisitedNodes, s.CurrentNode)
	}
	return s
}

// meterOwners returns player plus every defined character, sorted.
func meterOwners(defs *types.GameDef) []string {
	owners := []string{Player}
	for id := range defs.Characters {
		if id != Player {
			owners = append(owners, id)
		}
	}
	sort.Strings(owners)
	return owners
}

func meterApplies(md types.MeterDef, owner string) bool {
	switch md.Scope {
	case "player":
		return owner == Player
	case "character":
		return owner != Player
	}
	return true
}

// Weekdays returns the configured weekday cycle, defaulting to the seven
// English names starting Monday.
func Weekdays(defs *types.GameDef) []string {
	if len(defs.Time.Weekdays) > 0 {
		return defs.Time.Weekdays
	}
	return []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
}

// Slot returns the display slot name for the given minutes, or "".
func Slot(defs *types.GameDef, minutes int) string {
	for _, sl := range defs.Time.Slots {
		if minutes >= sl.From && minutes < sl.To {
			return sl.Name
		}
	}
	return ""
}

func ensureClothing(s *types.GameState, owner string) *types.ClothingState {
	cs, ok := s.Clothing[owner]
	if !ok || cs == nil {
		cs = &types.ClothingState{Items: map[string]types.ClothState{}}
		s.Clothing[owner] = cs
	}
	if cs.Items == nil {
		cs.Items = map[string]types.ClothState{}
	}
	return cs
}

// GuardFunc evaluates a guard against the current turn context. It is
// supplied by the engine to break the dependency on the evaluator.
type GuardFunc func(types.Guard) bool

// RefreshPresence recomputes the present-character list from schedules.
// Characters whose schedule places them at the current location during the
// current day/minutes (and whose entry guard passes) are present, in
// sorted ID order for determinism. Extras are characters present outside
// their schedule, such as companions who just followed the player here.
func RefreshPresence(s *types.GameState, defs *types.GameDef, pass GuardFunc, extras ...string) {
	ids := make([]string, 0, len(defs.Characters))
	for id := range defs.Characters {
		if id != Player {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	seen := map[string]bool{}
	var present []string
	for _, id := range extras {
		if _, ok := defs.Characters[id]; !ok || id == Player || seen[id] {
			continue
		}
		seen[id] = true
		present = append(present, id)
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		cd := defs.Characters[id]
		for _, entry := range cd.Schedule {
			if entry.Location != s.LocationCurrent {
				continue
			}
			if !dayMatches(entry.Days, s.Time.Weekday) {
				continue
			}
			if !minutesInWindow(s.Time.Minutes, entry.From, entry.To) {
				continue
			}
			if !entry.Guard.Empty() && !pass(entry.Guard) {
				continue
			}
			present = append(present, id)
			break
		}
	}
	sort.Strings(present)
	s.PresentCharacters = present
}

func dayMatches(days []string, weekday string) bool {
	if len(days) == 0 {
		return true
	}
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}

// minutesInWindow handles windows that wrap past midnight (From > To).
func minutesInWindow(m, from, to int) bool {
	if from == 0 && to == 0 {
		return true
	}
	if from <= to {
		return m >= from && m < to
	}
	return m >= from || m < to
}

// IsPresent reports whether the character is in the present list.
func IsPresent(s *types.GameState, id string) bool {
	for _, p := range s.PresentCharacters {
		if p == id {
			return true
		}
	}
	return false
}
