package cli

import (
	"reflect"
	"testing"

	"github.com/solenne/loom/types"
)

func parseChoices() []types.Choice {
	return []types.Choice{
		{ID: "pour_tea", Type: "node", Text: "Pour the tea"},
		{ID: "ev_listen", Type: "event", Text: "Listen at the door"},
		{ID: "mv1", Type: "move", Text: "Go north", Metadata: map[string]string{"direction": "north", "location": "bedroom"}},
		{ID: "tr1", Type: "travel", Text: "Take the bus downtown", Metadata: map[string]string{"location": "market", "method": "bus"}},
		{ID: "exercise", Type: "action", Text: "Work out"},
		{ID: "broken", Type: "node", Text: "Not now", Disabled: true},
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  types.Action
	}{
		{"1", types.Action{Type: types.ActionChoice, ChoiceID: "pour_tea"}},
		{"2", types.Action{Type: types.ActionChoice, ChoiceID: "ev_listen"}},
		{"3", types.Action{Type: types.ActionMove, Target: "north"}},
		{"4", types.Action{Type: types.ActionTravel, Target: "market", Method: "bus"}},
		{"5", types.Action{Type: types.ActionGlobal, ChoiceID: "exercise"}},

		{"n", types.Action{Type: types.ActionMove, Target: "north"}},
		{"SW", types.Action{Type: types.ActionMove, Target: "southwest"}},
		{"down", types.Action{Type: types.ActionMove, Target: "down"}},
		{"go north", types.Action{Type: types.ActionMove, Target: "north"}},
		{"walk East", types.Action{Type: types.ActionMove, Target: "east"}},

		{"say hello there", types.Action{Type: types.ActionSay, Text: "hello there"}},
		{"ask about the letter", types.Action{Type: types.ActionSay, Text: "about the letter"}},
		{`"I missed you."`, types.Action{Type: types.ActionSay, Text: "I missed you."}},

		{"use tonic", types.Action{Type: types.ActionUse, Item: "tonic"}},
		{"drink tonic", types.Action{Type: types.ActionUse, Item: "tonic"}},

		{"travel market bus", types.Action{Type: types.ActionTravel, Target: "market", Method: "bus"}},
		{"travel market", types.Action{Type: types.ActionTravel, Target: "market"}},

		{"wait", types.Action{Type: types.ActionWait}},
		{"rest", types.Action{Type: types.ActionWait}},

		{"do stretch by the window", types.Action{Type: types.ActionDo, Text: "stretch by the window"}},
		{"stretch by the window", types.Action{Type: types.ActionDo, Text: "stretch by the window"}},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.input, parseChoices())
		if err != nil {
			t.Errorf("ParseAction(%q): %v", tt.input, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseAction(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestParseActionRejects(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"0",
		"7",
		"6", // disabled option
		"say",
		"use",
		"go",
		"travel",
	}
	for _, input := range tests {
		if _, err := ParseAction(input, parseChoices()); err == nil {
			t.Errorf("ParseAction(%q) should fail", input)
		}
	}
}
