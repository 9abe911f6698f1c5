package engine

import (
	"fmt"
	"strings"

	"github.com/solenne/loom/engine/clock"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// actionPlan is a resolved action: its summary line, its immediate and
// deferred effects, and how its time cost resolves.
type actionPlan struct {
	summary      string
	effects      []types.Effect
	deferred     []types.Effect // item-use effects, applied after the AI phase
	gotoNode     string
	timeCost     int
	timeCategory string
	class        clock.Class
	moveOnly     bool // time comes entirely from the movement itself
	needsAI      bool
}

// planAction resolves an action's references and formats its summary.
// Unresolvable references fail the turn before any state changes.
func (e *Engine) planAction(action types.Action) (*actionPlan, error) {
	switch action.Type {
	case types.ActionSay:
		text := strings.TrimSpace(action.Text)
		if text == "" {
			return nil, fmt.Errorf("nothing to say")
		}
		return &actionPlan{
			summary: fmt.Sprintf("You say: %q", text),
			class:   clock.Conversation,
			needsAI: true,
		}, nil

	case types.ActionDo:
		text := strings.TrimSpace(action.Text)
		if text == "" {
			return nil, fmt.Errorf("nothing to do")
		}
		return &actionPlan{
			summary: "You " + text,
			class:   clock.Conversation,
			needsAI: true,
		}, nil

	case types.ActionChoice:
		cd, err := e.findChoice(action.ChoiceID)
		if err != nil {
			return nil, err
		}
		return &actionPlan{
			summary:      cd.Text,
			effects:      cd.Effects,
			gotoNode:     cd.Goto,
			timeCost:     cd.TimeCost,
			timeCategory: cd.TimeCategory,
			class:        clock.Choice,
			needsAI:      !cd.SkipAI,
		}, nil

	case types.ActionMove:
		if action.Target == "" {
			return nil, fmt.Errorf("move needs a direction")
		}
		return &actionPlan{
			summary:  "You head " + action.Target + ".",
			effects:  []types.Effect{&types.Move{Direction: action.Target, With: action.With}},
			class:    clock.Movement,
			moveOnly: true,
		}, nil

	case types.ActionTravel:
		if action.Target == "" || action.Method == "" {
			return nil, fmt.Errorf("travel needs a destination and a method")
		}
		summary := fmt.Sprintf("You travel to %s by %s.", e.locationName(action.Target), action.Method)
		return &actionPlan{
			summary:  summary,
			effects:  []types.Effect{&types.TravelTo{Location: action.Target, Method: action.Method, With: action.With}},
			class:    clock.Movement,
			moveOnly: true,
		}, nil

	case types.ActionUse:
		id, ok := e.Defs.Items[action.Item]
		if !ok {
			return nil, fmt.Errorf("unknown item %q", action.Item)
		}
		if !id.Usable {
			return nil, fmt.Errorf("%s cannot be used", id.Name)
		}
		if state.Count(e.State, state.Player, action.Item) <= 0 {
			return nil, fmt.Errorf("you do not have %s", id.Name)
		}
		return &actionPlan{
			summary:  "You use " + id.Name + ".",
			deferred: id.UseEffects,
			class:    clock.Conversation,
			needsAI:  true,
		}, nil

	case types.ActionGlobal:
		ad, ok := e.Defs.Actions[action.ChoiceID]
		if !ok {
			return nil, fmt.Errorf("unknown action %q", action.ChoiceID)
		}
		if !state.ActionAvailable(e.State, e.Defs, action.ChoiceID) {
			return nil, fmt.Errorf("%s is not available", ad.Text)
		}
		return &actionPlan{
			summary:      ad.Text,
			effects:      ad.Effects,
			timeCost:     ad.TimeCost,
			timeCategory: ad.TimeCategory,
			class:        clock.Choice,
			needsAI:      !ad.SkipAI,
		}, nil

	case types.ActionWait:
		return &actionPlan{
			summary: "You wait a while.",
			class:   clock.Choice,
		}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", action.Type)
}

// findChoice resolves a choice ID against the current node first, then
// the authored events. Choice IDs are unique across the content, so the
// event scan is unambiguous.
func (e *Engine) findChoice(id string) (types.ChoiceDef, error) {
	if id == "" {
		return types.ChoiceDef{}, fmt.Errorf("choice needs an id")
	}
	if nd, ok := e.Defs.Nodes[e.State.CurrentNode]; ok {
		for _, cd := range nd.Choices {
			if cd.ID == id {
				return cd, nil
			}
		}
	}
	for _, evID := range sortedIDs(e.Defs.Events) {
		for _, cd := range e.Defs.Events[evID].Choices {
			if cd.ID == id {
				return cd, nil
			}
		}
	}
	return types.ChoiceDef{}, fmt.Errorf("unknown choice %q", id)
}

func (e *Engine) locationName(id string) string {
	if ld, ok := e.Defs.Locations[id]; ok && ld.Name != "" {
		return ld.Name
	}
	return id
}
