package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/solenne/loom/types"
)

// Delta is the Checker's JSON contract. Numeric changes use string
// encoding: "+N" and "-N" are relative, "=N" is absolute.
type Delta struct {
	Safety struct {
		OK         bool     `json:"ok"`
		Violations []string `json:"violations,omitempty"`
	} `json:"safety"`

	Meters    map[string]map[string]string `json:"meters,omitempty"` // owner -> meter -> encoded change
	Flags     map[string]any               `json:"flags,omitempty"`
	Inventory []InventoryDelta             `json:"inventory,omitempty"`
	Clothing  []ClothingDelta              `json:"clothing,omitempty"`
	Movement  []MovementDelta              `json:"movement,omitempty"`

	Modifiers struct {
		Add    []ModifierAdd `json:"add,omitempty"`
		Remove []ModifierRef `json:"remove,omitempty"`
	} `json:"modifiers"`

	Discoveries struct {
		Zones     []string `json:"zones,omitempty"`
		Locations []string `json:"locations,omitempty"`
	} `json:"discoveries"`

	EventsFired       []string            `json:"events_fired,omitempty"`
	NodeTransition    string              `json:"node_transition,omitempty"`
	CharacterMemories map[string][]string `json:"character_memories,omitempty"`
	NarrativeSummary  string              `json:"narrative_summary,omitempty"`
}

// InventoryDelta is one inventory count change.
type InventoryDelta struct {
	Owner string `json:"owner"`
	Item  string `json:"item"`
	Count string `json:"count"` // "+N" or "-N"
}

// ClothingDelta is one clothing change: an action ("put_on"/"take_off")
// or a condition name ("intact"/"opened"/"displaced"/"removed").
type ClothingDelta struct {
	Owner  string `json:"owner"`
	Item   string `json:"item"`
	Change string `json:"change"`
}

// MovementDelta is a single-step player move to a connected location.
type MovementDelta struct {
	To string `json:"to"`
}

// ModifierAdd activates a modifier on an owner.
type ModifierAdd struct {
	Owner    string `json:"owner"`
	ID       string `json:"id"`
	Duration int    `json:"duration,omitempty"`
}

// ModifierRef removes a modifier from an owner.
type ModifierRef struct {
	Owner string `json:"owner"`
	ID    string `json:"id"`
}

// ParseDelta decodes a Checker response, tolerating markdown fences.
func ParseDelta(raw string) (*Delta, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var d Delta
	if err := json.Unmarshal([]byte(clean), &d); err != nil {
		return nil, fmt.Errorf("checker response is not valid JSON: %w", err)
	}
	return &d, nil
}

// parseChange decodes one "+N"/"-N"/"=N" encoded number. A bare number
// is treated as absolute.
func parseChange(s string) (types.MeterOp, float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", 0, fmt.Errorf("empty change")
	}
	op := types.OpSet
	switch s[0] {
	case '+':
		op = types.OpAdd
		s = s[1:]
	case '-':
		op = types.OpSubtract
		s = s[1:]
	case '=':
		s = s[1:]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad change %q: %w", s, err)
	}
	return op, v, nil
}
