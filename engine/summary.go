package engine

import (
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// buildSummary assembles the visibility-filtered state view returned to
// clients: hidden meters and flags are omitted, clothing is reduced to
// what is actually visible.
func (e *Engine) buildSummary() types.StateSummary {
	s := e.State
	defs := e.Defs

	sum := types.StateSummary{
		Node:      s.CurrentNode,
		Location:  s.LocationCurrent,
		Zone:      s.ZoneCurrent,
		Day:       s.Time.Day,
		Minutes:   s.Time.Minutes,
		Weekday:   s.Time.Weekday,
		Slot:      state.Slot(defs, s.Time.Minutes),
		Present:   append([]string(nil), s.PresentCharacters...),
		Meters:    map[string]map[string]float64{},
		Flags:     map[string]any{},
		Inventory: map[string]map[string]int{},
		Clothing:  map[string]types.WornSummary{},
		Modifiers: map[string][]string{},
	}
	if nd, ok := defs.Nodes[s.CurrentNode]; ok {
		sum.NodeTitle = nd.Title
		if nd.Type == types.NodeEnding {
			sum.GameOver = true
			sum.EndingID = s.CurrentNode
		}
	}

	owners := append([]string{state.Player}, s.PresentCharacters...)
	for _, owner := range owners {
		meters := map[string]float64{}
		for meter, v := range s.Meters[owner] {
			if md, ok := defs.Meters[meter]; ok && md.Hidden {
				continue
			}
			meters[meter] = v
		}
		if len(meters) > 0 {
			sum.Meters[owner] = meters
		}

		if inv := s.Inventory[owner]; len(inv) > 0 {
			items := make(map[string]int, len(inv))
			for item, count := range inv {
				items[item] = count
			}
			sum.Inventory[owner] = items
		}

		worn := types.WornSummary{Visible: state.VisibleItems(s, defs, owner)}
		if cs, ok := s.Clothing[owner]; ok {
			worn.Outfit = cs.Outfit
		}
		if worn.Outfit != "" || len(worn.Visible) > 0 {
			sum.Clothing[owner] = worn
		}

		if mods := state.ActiveModifiers(s, owner); len(mods) > 0 {
			sum.Modifiers[owner] = mods
		}
	}

	for key, v := range s.Flags {
		if fd, ok := defs.Flags[key]; ok && fd.Hidden {
			continue
		}
		sum.Flags[key] = v
	}
	return sum
}
