package engine

import (
	"fmt"
	"sort"

	"github.com/solenne/loom/engine/eval"
	"github.com/solenne/loom/engine/events"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// buildChoices assembles the guard-filtered option list for the next
// turn: node choices, the fired event's choices, movement and travel
// options, and unlocked global actions.
func (e *Engine) buildChoices(ev *eval.Evaluator, fired *events.Fired) []types.Choice {
	var out []types.Choice

	if nd, ok := e.Defs.Nodes[e.State.CurrentNode]; ok {
		for _, cd := range nd.Choices {
			if !ev.Pass(cd.Guard) {
				continue
			}
			out = append(out, types.Choice{ID: cd.ID, Text: cd.Text, Type: "node"})
		}
	}

	if fired != nil {
		for _, cd := range fired.Def.Choices {
			if !ev.Pass(cd.Guard) {
				continue
			}
			out = append(out, types.Choice{ID: cd.ID, Text: cd.Text, Type: "event"})
		}
	}

	out = append(out, e.movementChoices(ev)...)
	out = append(out, e.travelChoices(ev)...)

	for _, id := range sortedIDs(e.Defs.Actions) {
		ad := e.Defs.Actions[id]
		if !state.ActionAvailable(e.State, e.Defs, id) {
			continue
		}
		if !ev.Pass(ad.Guard) {
			continue
		}
		out = append(out, types.Choice{ID: id, Text: ad.Text, Type: "action"})
	}
	return out
}

func (e *Engine) movementChoices(ev *eval.Evaluator) []types.Choice {
	cur, ok := e.Defs.Locations[e.State.LocationCurrent]
	if !ok {
		return nil
	}
	dirs := make([]string, 0, len(cur.Connections))
	for dir := range cur.Connections {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var out []types.Choice
	for _, dir := range dirs {
		dest := cur.Connections[dir]
		ld, ok := e.Defs.Locations[dest]
		if !ok || ld.Zone != e.State.ZoneCurrent {
			continue
		}
		locked := state.LocationLocked(e.State, e.Defs, dest, ev.Pass)
		out = append(out, types.Choice{
			ID:       "move:" + dir,
			Text:     fmt.Sprintf("Go %s to %s", dir, ld.Name),
			Type:     "move",
			Disabled: locked,
			Metadata: map[string]string{"direction": dir, "location": dest},
		})
	}
	return out
}

// travelChoices offers each discovered, unlocked location in other
// discovered zones, once per travel method.
func (e *Engine) travelChoices(ev *eval.Evaluator) []types.Choice {
	methods := sortedIDs(e.Defs.Movement.Methods)
	if len(methods) == 0 {
		return nil
	}
	var out []types.Choice
	for _, loc := range state.DiscoveredList(e.State.DiscoveredLocations) {
		ld, ok := e.Defs.Locations[loc]
		if !ok || ld.Zone == e.State.ZoneCurrent || !e.State.DiscoveredZones[ld.Zone] {
			continue
		}
		if state.ZoneLocked(e.State, e.Defs, ld.Zone, ev.Pass) {
			continue
		}
		locked := state.LocationLocked(e.State, e.Defs, loc, ev.Pass)
		for _, method := range methods {
			md := e.Defs.Movement.Methods[method]
			out = append(out, types.Choice{
				ID:       "travel:" + loc + ":" + method,
				Text:     fmt.Sprintf("Travel to %s (%s)", ld.Name, md.Name),
				Type:     "travel",
				Disabled: locked,
				Metadata: map[string]string{"location": loc, "method": method},
			})
		}
	}
	return out
}
