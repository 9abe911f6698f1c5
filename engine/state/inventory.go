package state

import "github.com/solenne/loom/types"

// Count returns how many of an item an owner holds. Owners may be
// characters or locations; the namespace is shared between plain items,
// clothing pieces, and outfit recipes.
func Count(s *types.GameState, owner, item string) int {
	return s.Inventory[owner][item]
}

// AddItem adds count of an item to an owner, creating maps as needed.
func AddItem(s *types.GameState, owner, item string, count int) {
	if count <= 0 {
		return
	}
	inv, ok := s.Inventory[owner]
	if !ok {
		inv = map[string]int{}
		s.Inventory[owner] = inv
	}
	inv[item] += count
}

// RemoveItem removes up to count of an item. It returns how many were
// actually removed. Zero-count entries are deleted.
func RemoveItem(s *types.GameState, owner, item string, count int) int {
	inv, ok := s.Inventory[owner]
	if !ok {
		return 0
	}
	have := inv[item]
	if have <= 0 {
		return 0
	}
	if count > have {
		count = have
	}
	inv[item] -= count
	if inv[item] <= 0 {
		delete(inv, item)
	}
	return count
}

// ItemKind classifies an inventory ID against the definitions.
func ItemKind(defs *types.GameDef, id string) (types.ItemKind, bool) {
	if _, ok := defs.Items[id]; ok {
		return types.KindItem, true
	}
	if _, ok := defs.Clothing[id]; ok {
		return types.KindClothing, true
	}
	if _, ok := defs.Outfits[id]; ok {
		return types.KindOutfit, true
	}
	return "", false
}

// ItemValue returns the defined base price of an item or clothing piece.
func ItemValue(defs *types.GameDef, id string) float64 {
	if d, ok := defs.Items[id]; ok {
		return d.Value
	}
	if d, ok := defs.Clothing[id]; ok {
		return d.Value
	}
	return 0
}

// KnowsOutfit reports whether an owner holds the outfit recipe.
func KnowsOutfit(s *types.GameState, owner, outfit string) bool {
	return Count(s, owner, outfit) > 0
}

// CanWearOutfit reports whether the owner knows the outfit and owns every
// piece of it.
func CanWearOutfit(s *types.GameState, defs *types.GameDef, owner, outfit string) bool {
	if !KnowsOutfit(s, owner, outfit) {
		return false
	}
	od, ok := defs.Outfits[outfit]
	if !ok {
		return false
	}
	for _, piece := range od.Pieces {
		if Count(s, owner, piece.Item) <= 0 {
			return false
		}
	}
	return true
}
