// Package engine wires the sub-engines into the per-turn pipeline: one
// fixed phase sequence that runs identically for every action type, with
// the AI round-trip as its only conditional phase.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/solenne/loom/engine/ai"
	"github.com/solenne/loom/engine/arcs"
	"github.com/solenne/loom/engine/clock"
	"github.com/solenne/loom/engine/effects"
	"github.com/solenne/loom/engine/eval"
	"github.com/solenne/loom/engine/events"
	"github.com/solenne/loom/engine/expr"
	"github.com/solenne/loom/engine/gates"
	"github.com/solenne/loom/engine/modifiers"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// Persister saves session state after each turn. The save package's
// Store satisfies it.
type Persister interface {
	Save(sessionID string, s *types.GameState) error
}

// Engine processes turns for one session. One turn is in flight at a
// time; the definitions are read-only and shared.
type Engine struct {
	Defs    *types.GameDef
	State   *types.GameState
	Writer  ai.Writer
	Checker ai.Checker

	// Store and SessionID enable per-turn persistence when set.
	Store     Persister
	SessionID string

	// exprCache holds compiled guard programs across turns.
	exprCache map[string]*expr.Program
}

// New creates an engine with a fresh session state. The start node's
// enter effects run immediately.
func New(defs *types.GameDef, w ai.Writer, c ai.Checker) *Engine {
	e := &Engine{
		Defs:    defs,
		State:   state.NewState(defs),
		Writer:  w,
		Checker: c,
	}
	ev := e.evaluator(NewRNG(e.State.RNGBaseSeed))
	state.RefreshPresence(e.State, defs, ev.Pass)
	if nd, ok := defs.Nodes[e.State.CurrentNode]; ok && len(nd.OnEnter) > 0 {
		ectx := effects.NewContext(defs, e.State, ev, TurnRNG(e.State.RNGBaseSeed, 0))
		effects.Apply(ectx, nd.OnEnter)
	}
	return e
}

// Restore creates an engine over a previously saved state.
func Restore(defs *types.GameDef, s *types.GameState, w ai.Writer, c ai.Checker) *Engine {
	return &Engine{Defs: defs, State: s, Writer: w, Checker: c}
}

func (e *Engine) evaluator(rng *RNG) *eval.Evaluator {
	if e.exprCache == nil {
		e.exprCache = map[string]*expr.Program{}
	}
	ev := eval.NewCached(e.Defs, e.State, e.exprCache)
	ev.RandFunc = rng.Percent
	return ev
}

// ProcessTurn runs one player action through the full pipeline. It
// returns an error only for hard preconditions (action against an
// ending node, unresolvable action reference) and AI round-trip
// failures; everything else degrades to warnings inside the result.
func (e *Engine) ProcessTurn(ctx context.Context, action types.Action) (*types.TurnResult, error) {
	s := e.State
	defs := e.Defs

	// 2. Hard precondition: the story is over at an ending node.
	if nd, ok := defs.Nodes[s.CurrentNode]; ok && nd.Type == types.NodeEnding {
		return nil, fmt.Errorf("the story has ended at %q; start a new session", s.CurrentNode)
	}
	// Resolve action references before consuming a turn.
	plan, err := e.planAction(action)
	if err != nil {
		return nil, err
	}

	// 1. Turn context: counter, per-turn RNG, effect context.
	s.TurnCount++
	rng := TurnRNG(s.RNGBaseSeed, s.TurnCount)
	ev := e.evaluator(rng)
	ectx := effects.NewContext(defs, s, ev, rng)
	startNode := s.CurrentNode

	result := &types.TurnResult{}

	// 3. Presence from schedules.
	state.RefreshPresence(s, defs, ev.Pass)

	// 4. Gates, every turn, before any effect or event runs.
	ev.Gates = gates.EvaluateAll(defs, s, ev)

	// 5. Human-readable action summary.
	result.ActionSummary = plan.summary

	// 6. The action's own effects.
	effects.Apply(ectx, plan.effects)
	if plan.gotoNode != "" && ectx.ForcedGoto == "" {
		ectx.ForcedGoto = plan.gotoNode
	}

	// 7. Events. A trigger goto short-circuits the AI phase.
	var beats []string
	if nd, ok := defs.Nodes[s.CurrentNode]; ok {
		beats = append(beats, nd.Beats...)
	}
	fired := events.Scan(ectx)
	if fired != nil {
		result.EventsFired = append(result.EventsFired, fired.ID)
		beats = append(beats, fired.Def.Beats...)
	}
	shortCircuit := fired != nil && fired.Goto != ""

	// 8. AI round-trip, only for narrated actions.
	if plan.needsAI && !shortCircuit {
		if err := e.aiPhase(ctx, ectx, ev, beats, plan, result); err != nil {
			return nil, err
		}
	} else {
		result.Narrative = plan.summary
	}
	effects.Apply(ectx, plan.deferred)
	s.NarrativeHistory = append(s.NarrativeHistory, types.NarrativeEntry{
		Turn:   s.TurnCount,
		Action: result.ActionSummary,
		Text:   result.Narrative,
	})

	// 9. Node transitions: forced goto wins over authored conditions.
	e.transition(ectx, ev)

	// 10. Modifier auto-activation.
	modifiers.Refresh(ectx)

	// 11. Discovery sweep.
	e.sweepDiscovery(ev)

	// 12. Time: action cost plus accumulated effect minutes, then
	// modifier durations, event cooldowns, and the clock itself.
	minutes := e.resolveMinutes(plan, ectx)
	events.TickCooldowns(s)
	modifiers.TickDurations(ectx, minutes)
	clock.Advance(s, defs, minutes, func(effs []types.Effect) {
		effects.Apply(ectx, effs)
	})
	result.TimeAdvanced = minutes
	result.LocationChanged = ectx.LocationChanged || s.CurrentNode != startNode

	// 13. Arcs.
	for _, m := range arcs.Advance(ectx) {
		result.Milestones = append(result.Milestones, m.Arc+":"+m.Stage)
	}

	// 14. Available choices.
	result.Choices = e.buildChoices(ev, fired)

	// 15. State summary for the caller.
	result.Summary = e.buildSummary()

	// 16. Persist and return.
	if e.Store != nil && e.SessionID != "" {
		if err := e.Store.Save(e.SessionID, s); err != nil {
			slog.Warn("session save failed", "session", e.SessionID, "error", err)
			result.Errors = append(result.Errors, "session save failed")
		}
	}
	return result, nil
}

// aiPhase runs Writer then Checker, validates the delta, and applies it.
// Nothing from a failed or rejected round-trip touches state.
func (e *Engine) aiPhase(ctx context.Context, ectx *effects.Context, ev *eval.Evaluator, beats []string, plan *actionPlan, result *types.TurnResult) error {
	env := ai.BuildEnvelope(e.Defs, e.State, ev.Gates, beats, plan.summary)

	narrative, err := e.Writer.Narrate(ctx, env)
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	delta, err := e.Checker.Check(ctx, env, narrative)
	if err != nil {
		return fmt.Errorf("checker: %w", err)
	}

	validated, rejection := ai.Validate(e.Defs, e.State, ev.Pass, delta)
	if rejection != nil {
		result.Narrative = refusalNarrative(ev, e.State)
		result.Errors = append(result.Errors, rejection.Violations...)
		return nil
	}

	result.Narrative = narrative
	for _, w := range validated.Warnings {
		slog.Warn("checker delta dropped", "detail", w)
	}
	effects.Apply(ectx, validated.Effects)
	for _, zone := range validated.DiscoveredZones {
		e.State.DiscoveredZones[zone] = true
	}
	for _, loc := range validated.Discovered {
		state.Discover(e.State, e.Defs, loc)
	}
	for char, mems := range validated.Memories {
		e.State.MemoryLog[char] = append(e.State.MemoryLog[char], mems...)
	}
	if validated.Summary != "" {
		e.State.MemoryLog[narratorMemory] = append(e.State.MemoryLog[narratorMemory], validated.Summary)
	}
	if validated.NodeTransition != "" && ectx.ForcedGoto == "" {
		ectx.ForcedGoto = validated.NodeTransition
	}
	return nil
}

// narratorMemory is the memory-log key for cross-turn narrative summaries.
const narratorMemory = "narrator"

// refusalNarrative surfaces a rejected turn in character: the refusal
// text of a present character's shut gate when one exists, else a
// generic beat.
func refusalNarrative(ev *eval.Evaluator, s *types.GameState) string {
	for _, char := range s.PresentCharacters {
		ids := make([]string, 0, len(ev.Gates[char]))
		for id := range ev.Gates[char] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			res := ev.Gates[char][id]
			if !res.Allow && res.Text != "" {
				return res.Text
			}
		}
	}
	return "That doesn't happen. The moment passes, and the scene settles back to where it was."
}

// transition applies node transitions: a forced goto first, else the
// first authored transition whose guard passes. Entering a node runs the
// old node's exit effects, then the new node's enter effects, and resets
// the per-visit conversation budget.
func (e *Engine) transition(ectx *effects.Context, ev *eval.Evaluator) {
	s := e.State
	next := ectx.ForcedGoto
	if next == "" {
		if nd, ok := e.Defs.Nodes[s.CurrentNode]; ok {
			for _, tr := range nd.Transitions {
				if _, ok := e.Defs.Nodes[tr.To]; !ok {
					continue
				}
				if ev.Pass(tr.Guard) {
					next = tr.To
					break
				}
			}
		}
	}
	if next == "" || next == s.CurrentNode {
		return
	}

	if old, ok := e.Defs.Nodes[s.CurrentNode]; ok {
		effects.Apply(ectx, old.OnExit)
	}
	nd, ok := e.Defs.Nodes[next]
	if !ok {
		return
	}
	s.CurrentNode = next
	s.VisitedNodes = append(s.VisitedNodes, next)
	s.NodeVisitMinutes = 0
	ectx.ForcedGoto = ""
	effects.Apply(ectx, nd.OnEnter)
	if nd.Type == types.NodeEnding {
		state.SetUnlocked(s, types.UnlockEndings, next)
	}
}

// sweepDiscovery adds zones and locations whose discovery guard newly
// holds.
func (e *Engine) sweepDiscovery(ev *eval.Evaluator) {
	s := e.State
	for _, id := range sortedIDs(e.Defs.Zones) {
		zd := e.Defs.Zones[id]
		if s.DiscoveredZones[id] || zd.DiscoverWhen.Empty() {
			continue
		}
		if ev.Pass(zd.DiscoverWhen) {
			s.DiscoveredZones[id] = true
		}
	}
	for _, id := range sortedIDs(e.Defs.Locations) {
		ld := e.Defs.Locations[id]
		if s.DiscoveredLocations[id] || ld.DiscoverWhen.Empty() {
			continue
		}
		if ev.Pass(ld.DiscoverWhen) {
			state.Discover(s, e.Defs, id)
		}
	}
}

// resolveMinutes turns the action's base cost and the turn's pending
// effect minutes into the final advance. Movement cost arrives through
// PendingMinutes already scaled; only the action's own cost takes the
// modifier multiplier here.
func (e *Engine) resolveMinutes(plan *actionPlan, ectx *effects.Context) int {
	s := e.State
	var node *types.NodeDef
	if nd, ok := e.Defs.Nodes[s.CurrentNode]; ok {
		node = &nd
	}
	var minutes int
	if !plan.moveOnly {
		base, capped := clock.ActionCost(e.Defs, node, plan.timeCost, plan.timeCategory, plan.class)
		minutes = clock.Scale(base, clock.Multiplier(s, e.Defs))
		if capped {
			minutes = clock.CapConversation(s, e.Defs, minutes)
			s.NodeVisitMinutes += minutes
		}
	}
	return minutes + ectx.PendingMinutes
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
