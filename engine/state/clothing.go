package state

import (
	"sort"

	"github.com/solenne/loom/types"
)

// Worn returns the clothing state for a character, creating it lazily.
func Worn(s *types.GameState, owner string) *types.ClothingState {
	return ensureClothing(s, owner)
}

// Occupancy derives slot -> occupying item from the worn items' static
// Occupies lists. Removed items do not occupy. There is no stored
// slot map; this scan is the source of truth.
func Occupancy(s *types.GameState, defs *types.GameDef, owner string) map[string]string {
	cs, ok := s.Clothing[owner]
	if !ok {
		return nil
	}
	occ := map[string]string{}
	for _, item := range sortedWorn(cs) {
		if cs.Items[item] == types.ClothRemoved {
			continue
		}
		cd, exists := defs.Clothing[item]
		if !exists {
			continue
		}
		for _, slot := range cd.Occupies {
			occ[slot] = item
		}
	}
	return occ
}

// SlotConflict reports whether wearing the item would claim a slot already
// occupied by a different non-removed item. Layering is deliberate only
// through outfits; direct put-on refuses conflicts.
func SlotConflict(s *types.GameState, defs *types.GameDef, owner, item string) (string, bool) {
	cd, ok := defs.Clothing[item]
	if !ok {
		return "", false
	}
	occ := Occupancy(s, defs, owner)
	for _, slot := range cd.Occupies {
		if holder, taken := occ[slot]; taken && holder != item {
			return holder, true
		}
	}
	return "", false
}

// SlotOccupant returns the item currently occupying a slot, if any.
func SlotOccupant(s *types.GameState, defs *types.GameDef, owner, slot string) (string, bool) {
	occ := Occupancy(s, defs, owner)
	item, ok := occ[slot]
	return item, ok
}

// Wears reports whether the character wears the item in a non-removed
// condition.
func Wears(s *types.GameState, owner, item string) bool {
	cs, ok := s.Clothing[owner]
	if !ok {
		return false
	}
	cond, worn := cs.Items[item]
	return worn && cond != types.ClothRemoved
}

// VisibleItems returns worn items that are neither removed nor concealed
// by another worn piece. A concealing piece hides the slots it conceals
// only while intact or opened; displaced or removed pieces conceal nothing.
func VisibleItems(s *types.GameState, defs *types.GameDef, owner string) []string {
	cs, ok := s.Clothing[owner]
	if !ok {
		return nil
	}

	concealed := map[string]bool{}
	for item, cond := range cs.Items {
		if cond != types.ClothIntact && cond != types.ClothOpened {
			continue
		}
		cd, exists := defs.Clothing[item]
		if !exists {
			continue
		}
		for _, slot := range cd.Conceals {
			concealed[slot] = true
		}
	}

	var visible []string
	for _, item := range sortedWorn(cs) {
		cond := cs.Items[item]
		if cond == types.ClothRemoved {
			continue
		}
		cd, exists := defs.Clothing[item]
		if !exists {
			continue
		}
		hidden := len(cd.Occupies) > 0
		for _, slot := range cd.Occupies {
			if !concealed[slot] {
				hidden = false
				break
			}
		}
		if !hidden {
			visible = append(visible, item)
		}
	}
	return visible
}

func sortedWorn(cs *types.ClothingState) []string {
	items := make([]string, 0, len(cs.Items))
	for item := range cs.Items {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}
