package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solenne/loom/types"
)

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
	"u":  "up",
	"d":  "down",
}

// Full direction names that are standalone shortcuts for "go <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"up": true, "down": true, "in": true, "out": true,
}

var verbAliases = map[string]string{
	// Speech
	"tell":    "say",
	"ask":     "say",
	"reply":   "say",
	"whisper": "say",
	"shout":   "say",

	// Movement
	"walk":    "go",
	"head":    "go",
	"move":    "go",
	"enter":   "go",
	"proceed": "go",

	// Items
	"consume": "use",
	"drink":   "use",
	"eat":     "use",
	"read":    "use",

	// Waiting
	"z":      "wait",
	"rest":   "wait",
	"linger": "wait",
}

// ParseAction turns one input line into an Action. A bare number picks
// from the given option list; a leading verb selects the action type;
// quoted text is speech; anything else is something the player does.
func ParseAction(input string, choices []types.Choice) (types.Action, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Action{}, fmt.Errorf("nothing to do")
	}

	if n, err := strconv.Atoi(input); err == nil {
		return numberedAction(n, choices)
	}

	// Direction shortcut: bare "n", "south" etc.
	lower := strings.ToLower(input)
	if !strings.Contains(lower, " ") {
		if dir, ok := directionExpansions[lower]; ok {
			return types.Action{Type: types.ActionMove, Target: dir}, nil
		}
		if directionNames[lower] {
			return types.Action{Type: types.ActionMove, Target: lower}, nil
		}
	}

	verb, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)
	verbLower := strings.ToLower(verb)
	if alias, ok := verbAliases[verbLower]; ok {
		verbLower = alias
	}

	switch verbLower {
	case "say":
		if rest == "" {
			return types.Action{}, fmt.Errorf("say what?")
		}
		return types.Action{Type: types.ActionSay, Text: rest}, nil
	case "do":
		if rest == "" {
			return types.Action{}, fmt.Errorf("do what?")
		}
		return types.Action{Type: types.ActionDo, Text: rest}, nil
	case "use":
		if rest == "" {
			return types.Action{}, fmt.Errorf("use what?")
		}
		return types.Action{Type: types.ActionUse, Item: rest}, nil
	case "go":
		if rest == "" {
			return types.Action{}, fmt.Errorf("go where?")
		}
		return types.Action{Type: types.ActionMove, Target: strings.ToLower(rest)}, nil
	case "travel":
		dest, method, _ := strings.Cut(rest, " ")
		if dest == "" {
			return types.Action{}, fmt.Errorf("travel where?")
		}
		return types.Action{Type: types.ActionTravel, Target: dest, Method: strings.TrimSpace(method)}, nil
	case "wait":
		if rest == "" {
			return types.Action{Type: types.ActionWait}, nil
		}
	}

	// Quoted text is spoken; other free text is something the player does.
	if strings.HasPrefix(input, "\"") {
		return types.Action{Type: types.ActionSay, Text: strings.Trim(input, "\"")}, nil
	}
	return types.Action{Type: types.ActionDo, Text: input}, nil
}

// numberedAction maps a 1-based option number to the action it stands for.
func numberedAction(n int, choices []types.Choice) (types.Action, error) {
	if n < 1 || n > len(choices) {
		return types.Action{}, fmt.Errorf("no option %d", n)
	}
	ch := choices[n-1]
	if ch.Disabled {
		return types.Action{}, fmt.Errorf("that option is not available right now")
	}
	switch ch.Type {
	case "move":
		return types.Action{Type: types.ActionMove, Target: ch.Metadata["direction"]}, nil
	case "travel":
		return types.Action{Type: types.ActionTravel, Target: ch.Metadata["location"], Method: ch.Metadata["method"]}, nil
	case "action":
		return types.Action{Type: types.ActionGlobal, ChoiceID: ch.ID}, nil
	default:
		return types.Action{Type: types.ActionChoice, ChoiceID: ch.ID}, nil
	}
}
