package save

import (
	"strings"
	"testing"

	"github.com/solenne/loom/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := &types.GameState{
		Meters:          map[string]map[string]float64{"player": {"trust": 62.5}},
		Flags:           map[string]any{"met_mira": true},
		LocationCurrent: "kitchen",
		ZoneCurrent:     "apartment",
		Time:            types.Clock{Day: 3, Minutes: 610, Weekday: "wednesday"},
		TurnCount:       17,
		RNGBaseSeed:     42,
	}
	meta := types.GameMeta{Title: "The Long Evening"}

	blob, err := Encode(s, meta)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(blob), `"game": "The Long Evening"`) {
		t.Error("envelope is missing the game title")
	}

	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.TurnCount != 17 || got.RNGBaseSeed != 42 {
		t.Errorf("turn %d seed %d", got.TurnCount, got.RNGBaseSeed)
	}
	if got.Meters["player"]["trust"] != 62.5 {
		t.Errorf("trust = %v", got.Meters["player"]["trust"])
	}
	if got.Time.Day != 3 || got.Time.Weekday != "wednesday" {
		t.Errorf("clock = %+v", got.Time)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	if _, err := Decode([]byte("{broken")); err == nil {
		t.Error("malformed JSON accepted")
	}
	if _, err := Decode([]byte(`{"version":"99","state":{}}`)); err == nil {
		t.Error("unknown format version accepted")
	}
	if _, err := Decode([]byte(`{"version":"1"}`)); err == nil {
		t.Error("stateless save accepted")
	}
}

func TestDecodeNormalizesMaps(t *testing.T) {
	blob := []byte(`{"version":"1","state":{"turn_count":1,"clothing":{"mira":{"outfit":"workday"}}}}`)
	s, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Meters == nil || s.Flags == nil || s.Cooldowns == nil || s.Unlocked == nil || s.MemoryLog == nil {
		t.Error("nil maps survived normalization")
	}
	cs := s.Clothing["mira"]
	if cs == nil || cs.Items == nil {
		t.Fatalf("clothing state = %+v", cs)
	}
	if cs.Outfit != "workday" {
		t.Errorf("outfit = %q", cs.Outfit)
	}
}

func TestNewSessionIDIsUnique(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == "" || a == b {
		t.Errorf("ids %q and %q", a, b)
	}
}
