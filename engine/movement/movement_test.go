package movement

import (
	"testing"

	"github.com/solenne/loom/engine/eval"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

func testDefs() *types.GameDef {
	return &types.GameDef{
		Meta: types.GameMeta{
			StartNode:     "intro",
			StartLocation: "kitchen",
			StartZone:     "apartment",
		},
		Flags: map[string]types.FlagDef{
			"sealed":  {ID: "sealed", Default: true},
			"willing": {ID: "willing", Default: false},
		},
		Characters: map[string]types.CharacterDef{
			"mira": {
				ID: "mira",
				Gates: []types.GateDef{
					{ID: "follow_player", Guard: types.Guard{When: "flags.willing"}},
				},
			},
			"tess": {
				ID: "tess",
				Gates: []types.GateDef{
					{ID: "follow_player_travel", Guard: types.Guard{When: "flags.willing"}},
				},
			},
		},
		Zones: map[string]types.ZoneDef{
			"apartment": {ID: "apartment", Locations: []string{"kitchen", "bedroom", "cellar"}, TimeCost: 3},
			"city":      {ID: "city", Locations: []string{"market"}},
		},
		Locations: map[string]types.LocationDef{
			"kitchen": {ID: "kitchen", Zone: "apartment", Connections: map[string]string{
				"north": "bedroom",
				"down":  "cellar",
			}},
			"bedroom": {ID: "bedroom", Zone: "apartment"},
			"cellar":  {ID: "cellar", Zone: "apartment", Locked: types.Guard{When: "flags.sealed"}},
			"market":  {ID: "market", Zone: "city"},
		},
		Movement: types.MovementConfig{
			Methods: map[string]types.TravelMethodDef{
				"walk": {ID: "walk", TimeCostPerDistance: 10},
				"bus":  {ID: "bus", Speed: 30},
				"cab":  {ID: "cab", Category: "ride", Active: true},
			},
			Distances: map[string]map[string]float64{
				"apartment": {"city": 2},
			},
		},
		Time: types.TimeConfig{
			Categories:      map[string]int{"ride": 5},
			DefaultMovement: 5,
		},
	}
}

func setup() (*types.GameDef, *types.GameState, *eval.Evaluator) {
	defs := testDefs()
	s := state.NewState(defs)
	ev := eval.New(defs, s)
	ev.WarnFunc = func(string, ...any) {}
	return defs, s, ev
}

func TestLocalMoveByDirection(t *testing.T) {
	defs, s, ev := setup()
	res, err := Perform(defs, s, ev, Request{Kind: Local, Direction: "north"})
	if err != nil {
		t.Fatalf("move north: %v", err)
	}
	if res.Destination != "bedroom" || res.Minutes != 3 {
		t.Errorf("result = %+v, want bedroom in 3 minutes", res)
	}
	if s.LocationCurrent != "bedroom" || s.LocationPrevious != "kitchen" {
		t.Errorf("location = %s from %s", s.LocationCurrent, s.LocationPrevious)
	}
	if !s.DiscoveredLocations["bedroom"] {
		t.Error("destination not discovered")
	}
}

func TestLocalMoveRejections(t *testing.T) {
	defs, s, ev := setup()
	cases := []struct {
		name string
		req  Request
	}{
		{"no such connection", Request{Kind: Local, Direction: "west"}},
		{"cross-zone by id", Request{Kind: LocalTo, Location: "market"}},
		{"locked destination", Request{Kind: Local, Direction: "down"}},
		{"unknown destination", Request{Kind: LocalTo, Location: "attic"}},
	}
	for _, tc := range cases {
		if _, err := Perform(defs, s, ev, tc.req); err == nil {
			t.Errorf("%s: move succeeded", tc.name)
		}
		if s.LocationCurrent != "kitchen" {
			t.Fatalf("%s: failed move changed location to %s", tc.name, s.LocationCurrent)
		}
	}
}

func TestRuntimeUnlockOpensLocation(t *testing.T) {
	defs, s, ev := setup()
	state.SetUnlocked(s, types.UnlockLocations, "cellar")
	res, err := Perform(defs, s, ev, Request{Kind: Local, Direction: "down"})
	if err != nil {
		t.Fatalf("move down: %v", err)
	}
	if res.Destination != "cellar" {
		t.Errorf("destination = %q, want cellar", res.Destination)
	}
}

func TestZoneTravelCosts(t *testing.T) {
	cases := []struct {
		method string
		want   int
	}{
		{"walk", 20}, // 2 distance x 10 min
		{"bus", 4},   // 2 distance at 30/h
		{"cab", 10},  // 2 distance x 5 min category
	}
	for _, tc := range cases {
		defs, s, ev := setup()
		res, err := Perform(defs, s, ev, Request{Kind: Zone, Location: "market", Method: tc.method})
		if err != nil {
			t.Fatalf("travel by %s: %v", tc.method, err)
		}
		if res.Minutes != tc.want {
			t.Errorf("travel by %s = %d minutes, want %d", tc.method, res.Minutes, tc.want)
		}
		if s.ZoneCurrent != "city" || s.LocationCurrent != "market" {
			t.Errorf("travel by %s landed at %s/%s", tc.method, s.ZoneCurrent, s.LocationCurrent)
		}
	}
}

func TestZoneTravelUsesReverseDistance(t *testing.T) {
	defs, s, ev := setup()
	if _, err := Perform(defs, s, ev, Request{Kind: Zone, Location: "market", Method: "walk"}); err != nil {
		t.Fatalf("outbound travel: %v", err)
	}
	res, err := Perform(defs, s, ev, Request{Kind: Zone, Location: "kitchen", Method: "walk"})
	if err != nil {
		t.Fatalf("return travel: %v", err)
	}
	if res.Minutes != 20 {
		t.Errorf("return trip = %d minutes, want 20", res.Minutes)
	}
}

func TestZoneTravelRejections(t *testing.T) {
	defs, s, ev := setup()
	cases := []Request{
		{Kind: Zone, Location: "bedroom", Method: "walk"}, // same zone
		{Kind: Zone, Location: "market", Method: "wings"}, // unknown method
		{Kind: Zone, Location: "nowhere", Method: "walk"},
	}
	for _, req := range cases {
		if _, err := Perform(defs, s, ev, req); err == nil {
			t.Errorf("travel %+v succeeded", req)
		}
	}
}

func TestCompanionWillingness(t *testing.T) {
	defs, s, ev := setup()
	s.PresentCharacters = []string{"mira"}

	if _, err := Perform(defs, s, ev, Request{Kind: Local, Direction: "north", With: []string{"mira"}}); err == nil {
		t.Fatal("unwilling companion did not reject the move")
	}
	if s.LocationCurrent != "kitchen" {
		t.Fatalf("rejected move changed location to %s", s.LocationCurrent)
	}

	s.Flags["willing"] = true
	res, err := Perform(defs, s, ev, Request{Kind: Local, Direction: "north", With: []string{"mira"}})
	if err != nil {
		t.Fatalf("move with companion: %v", err)
	}
	if res.Destination != "bedroom" {
		t.Errorf("destination = %q", res.Destination)
	}
	// The companion comes along even without a schedule window here.
	if !state.IsPresent(s, "mira") {
		t.Error("companion not present after the move")
	}
}

func TestCompanionMustBePresent(t *testing.T) {
	defs, s, ev := setup()
	s.Flags["willing"] = true
	if _, err := Perform(defs, s, ev, Request{Kind: Local, Direction: "north", With: []string{"mira"}}); err == nil {
		t.Error("absent companion did not reject the move")
	}
	if _, err := Perform(defs, s, ev, Request{Kind: Local, Direction: "north", With: []string{"ghost"}}); err == nil {
		t.Error("unknown companion did not reject the move")
	}
}

func TestWillingGateResolution(t *testing.T) {
	defs, _, ev := setup()

	// tess defines only the travel-specific gate.
	if Willing(defs, ev, "tess", "travel") {
		t.Error("travel-specific gate ignored")
	}
	if !Willing(defs, ev, "tess", "move") {
		t.Error("move blocked by a travel-only gate")
	}

	// A character with no follow gates follows freely.
	defs.Characters["free"] = types.CharacterDef{ID: "free"}
	if !Willing(defs, ev, "free", "move") {
		t.Error("gateless character refused")
	}

	// The per-turn gate snapshot overrides the raw guard.
	ev.Gates = map[string]map[string]types.GateResult{
		"tess": {"follow_player_travel": {Allow: true}},
	}
	if !Willing(defs, ev, "tess", "travel") {
		t.Error("snapshot result ignored")
	}
}
