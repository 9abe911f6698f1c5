// Package gates evaluates every character's behavior gates once per
// turn. The snapshot feeds the DSL's gates namespace, companion
// willingness checks, and the character cards handed to the AI boundary.
package gates

import (
	"sort"

	"github.com/solenne/loom/engine/eval"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// EvaluateAll evaluates each gate of each character against the current
// state. Active modifiers on a character may force individual gates open
// or shut regardless of the guard; a forced-shut gate wins over a
// forced-open one.
func EvaluateAll(defs *types.GameDef, s *types.GameState, ev *eval.Evaluator) map[string]map[string]types.GateResult {
	ids := make([]string, 0, len(defs.Characters))
	for id := range defs.Characters {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := map[string]map[string]types.GateResult{}
	for _, id := range ids {
		cd := defs.Characters[id]
		if len(cd.Gates) == 0 {
			continue
		}
		forced := forcedGates(defs, s, id)
		per := make(map[string]types.GateResult, len(cd.Gates))
		for _, gd := range cd.Gates {
			allow := ev.Pass(gd.Guard)
			if v, ok := forced[gd.ID]; ok {
				allow = v
			}
			text := gd.Acceptance
			if !allow {
				text = gd.Refusal
			}
			per[gd.ID] = types.GateResult{Allow: allow, Text: text}
		}
		results[id] = per
	}
	return results
}

// forcedGates collects the gate overrides from a character's active
// modifiers. Disallow entries override allow entries.
func forcedGates(defs *types.GameDef, s *types.GameState, owner string) map[string]bool {
	forced := map[string]bool{}
	for _, id := range state.ActiveModifiers(s, owner) {
		md, ok := defs.Modifiers[id]
		if !ok {
			continue
		}
		for _, gate := range md.AllowGates {
			forced[gate] = true
		}
	}
	for _, id := range state.ActiveModifiers(s, owner) {
		md, ok := defs.Modifiers[id]
		if !ok {
			continue
		}
		for _, gate := range md.DisallowGates {
			forced[gate] = false
		}
	}
	return forced
}
