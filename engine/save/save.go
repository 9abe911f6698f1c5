// Package save persists sessions: a JSON codec for the full game state
// and a SQLite store keyed by session ID.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/solenne/loom/types"
)

// FormatVersion guards against loading saves from incompatible builds.
const FormatVersion = "1"

// SaveData is the JSON save envelope.
type SaveData struct {
	Version string           `json:"version"`
	Game    string           `json:"game"`
	Turn    int              `json:"turn"`
	State   *types.GameState `json:"state"`
}

// Encode serializes a session to JSON bytes.
func Encode(s *types.GameState, meta types.GameMeta) ([]byte, error) {
	data := SaveData{
		Version: FormatVersion,
		Game:    meta.Title,
		Turn:    s.TurnCount,
		State:   s,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Decode deserializes JSON bytes into a game state. Maps that were
// empty at save time come back non-nil so the engine never checks.
func Decode(data []byte) (*types.GameState, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if sd.Version != FormatVersion {
		return nil, fmt.Errorf("save format %q is not supported", sd.Version)
	}
	if sd.State == nil {
		return nil, fmt.Errorf("save has no state")
	}
	Normalize(sd.State)
	return sd.State, nil
}

// Normalize replaces nil maps with empty ones after a load.
func Normalize(s *types.GameState) {
	if s.Meters == nil {
		s.Meters = map[string]map[string]float64{}
	}
	if s.Flags == nil {
		s.Flags = map[string]any{}
	}
	if s.Inventory == nil {
		s.Inventory = map[string]map[string]int{}
	}
	if s.Clothing == nil {
		s.Clothing = map[string]*types.ClothingState{}
	}
	for _, cs := range s.Clothing {
		if cs != nil && cs.Items == nil {
			cs.Items = map[string]types.ClothState{}
		}
	}
	if s.Modifiers == nil {
		s.Modifiers = map[string]map[string]*types.ModifierState{}
	}
	if s.Arcs == nil {
		s.Arcs = map[string]*types.ArcState{}
	}
	if s.DiscoveredLocations == nil {
		s.DiscoveredLocations = map[string]bool{}
	}
	if s.DiscoveredZones == nil {
		s.DiscoveredZones = map[string]bool{}
	}
	if s.Cooldowns == nil {
		s.Cooldowns = map[string]int{}
	}
	if s.FiredOnce == nil {
		s.FiredOnce = map[string]bool{}
	}
	if s.Unlocked == nil {
		s.Unlocked = map[types.UnlockKind]map[string]bool{}
	}
	if s.Locked == nil {
		s.Locked = map[types.UnlockKind]map[string]bool{}
	}
	if s.MemoryLog == nil {
		s.MemoryLog = map[string][]string{}
	}
}
