package state

import (
	"sort"

	"github.com/solenne/loom/types"
)

// Flag returns a flag value; unknown flags return nil.
func Flag(s *types.GameState, key string) any {
	return s.Flags[key]
}

// SetUnlocked records a runtime unlock, clearing any runtime lock.
func SetUnlocked(s *types.GameState, kind types.UnlockKind, id string) {
	if s.Unlocked[kind] == nil {
		s.Unlocked[kind] = map[string]bool{}
	}
	s.Unlocked[kind][id] = true
	delete(s.Locked[kind], id)
}

// SetLocked records a runtime lock, clearing any runtime unlock.
func SetLocked(s *types.GameState, kind types.UnlockKind, id string) {
	if s.Locked[kind] == nil {
		s.Locked[kind] = map[string]bool{}
	}
	s.Locked[kind][id] = true
	delete(s.Unlocked[kind], id)
}

// Unlocked lists runtime-unlocked IDs of a kind, sorted.
func Unlocked(s *types.GameState, kind types.UnlockKind) []string {
	ids := make([]string, 0, len(s.Unlocked[kind]))
	for id := range s.Unlocked[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LocationLocked resolves the effective lock of a location: a runtime
// unlock wins, then a runtime lock, then the authored lock guard.
func LocationLocked(s *types.GameState, defs *types.GameDef, id string, pass GuardFunc) bool {
	if s.Unlocked[types.UnlockLocations][id] {
		return false
	}
	if s.Locked[types.UnlockLocations][id] {
		return true
	}
	ld, ok := defs.Locations[id]
	if !ok {
		return true
	}
	return !ld.Locked.Empty() && pass(ld.Locked)
}

// ZoneLocked resolves the effective lock of a zone.
func ZoneLocked(s *types.GameState, defs *types.GameDef, id string, pass GuardFunc) bool {
	if s.Unlocked[types.UnlockZones][id] {
		return false
	}
	if s.Locked[types.UnlockZones][id] {
		return true
	}
	zd, ok := defs.Zones[id]
	if !ok {
		return true
	}
	return !zd.Locked.Empty() && pass(zd.Locked)
}

// ActionAvailable reports whether a global action is unlocked for use.
func ActionAvailable(s *types.GameState, defs *types.GameDef, id string) bool {
	ad, ok := defs.Actions[id]
	if !ok {
		return false
	}
	if s.Locked[types.UnlockActions][id] {
		return false
	}
	if ad.Unlocked {
		return true
	}
	return s.Unlocked[types.UnlockActions][id]
}

// Discover adds a location to the discovered set, along with its zone.
func Discover(s *types.GameState, defs *types.GameDef, location string) {
	s.DiscoveredLocations[location] = true
	if ld, ok := defs.Locations[location]; ok && ld.Zone != "" {
		s.DiscoveredZones[ld.Zone] = true
	}
}

// DiscoveredList returns a sorted slice from a discovery set.
func DiscoveredList(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ActiveModifiers lists an owner's active modifier IDs, sorted.
func ActiveModifiers(s *types.GameState, owner string) []string {
	ids := make([]string, 0, len(s.Modifiers[owner]))
	for id := range s.Modifiers[owner] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
