package eval

import (
	"testing"

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
		Meters: map[string]types.MeterDef{
			"trust":  {ID: "trust", Min: 0, Max: 100, Default: 50},
			"money":  {ID: "money", Min: 0, Max: 9999, Default: 20, Scope: "player"},
			"energy": {ID: "energy", Min: 0, Max: 100, Default: 100},
		},
		Flags: map[string]types.FlagDef{
			"met_mira": {ID: "met_mira", Default: false},
			"mood":     {ID: "mood", Default: "calm"},
		},
		Items: map[string]types.ItemDef{
			"coin": {ID: "coin", Name: "Coin", Value: 1},
		},
		Clothing: map[string]types.ClothingDef{
			"jacket": {ID: "jacket", Name: "Jacket", Occupies: []string{"torso"}},
		},
		Outfits: map[string]types.OutfitDef{
			"casual": {ID: "casual", Pieces: []types.OutfitPiece{{Item: "jacket"}}},
		},
		Characters: map[string]types.CharacterDef{
			"player": {ID: "player", Name: "You", Inventory: map[string]int{"coin": 3}},
			"mira": {
				ID:   "mira",
				Name: "Mira",
				Schedule: []types.ScheduleEntry{
					{Location: "kitchen", From: 0, To: 1440},
				},
			},
		},
		Zones: map[string]types.ZoneDef{
			"apartment": {ID: "apartment", Locations: []string{"kitchen", "bedroom"}},
		},
		Locations: map[string]types.LocationDef{
			"kitchen": {ID: "kitchen", Name: "Kitchen", Zone: "apartment",
				Connections: map[string]string{"north": "bedroom"}},
			"bedroom": {ID: "bedroom", Name: "Bedroom", Zone: "apartment"},
		},
		Nodes: map[string]types.NodeDef{
			"intro": {ID: "intro", Title: "Intro", Type: types.NodeScene},
		},
		Arcs: map[string]types.ArcDef{
			"friendship": {ID: "friendship", Stages: []types.StageDef{{ID: "spark"}}},
		},
		Actions: map[string]types.ActionDef{
			"nap": {ID: "nap", Text: "Take a nap", Unlocked: true},
		},
		Time: types.TimeConfig{
			StartDay:     1,
			StartMinutes: 540,
			StartWeekday: "monday",
			Weekdays:     []string{"monday", "tuesday"},
			Slots: []types.SlotDef{
				{Name: "morning", From: 300, To: 720},
				{Name: "evening", From: 720, To: 1440},
			},
		},
	}
}

func testEval(t *testing.T) *Evaluator {
	t.Helper()
	defs := testDefs()
	s := state.NewState(defs)
	ev := New(defs, s)
	ev.WarnFunc = func(string, ...any) {}
	return ev
}

func TestPathNamespaces(t *testing.T) {
	ev := testEval(t)
	ev.State.PresentCharacters = []string{"mira"}
	ev.State.Flags["met_mira"] = true

	cases := []struct {
		src  string
		want bool
	}{
		{"meters.player.trust == 50", true},
		{"meters.player.money == 20", true},
		{"meters.mira.trust == 50", true},
		{"flags.met_mira", true},
		{"flags.mood == \"calm\"", true},
		{"location.id == \"kitchen\"", true},
		{"location.zone == \"apartment\"", true},
		{"location.name == \"Kitchen\"", true},
		{"node.id == \"intro\"", true},
		{"time.day == 1", true},
		{"time.minutes == 540", true},
		{"time.weekday == \"monday\"", true},
		{"time.slot == \"morning\"", true},
		{"turn == 0", true},
		{"\"mira\" in present", true},
		{"\"mira\" in characters", true},
		{"inventory.player.coin == 3", true},
		{"inventory.player.items.coin == 3", true},
		{"inventory.player.clothing.coin == 0", true},
	}
	for _, tc := range cases {
		if got := ev.Truthy(tc.src); got != tc.want {
			t.Errorf("%q = %v, want %v", tc.src, got, tc.want)
		}
	}
}

func TestScopedMeterNotOnCharacters(t *testing.T) {
	ev := testEval(t)
	// money is player-scoped, so mira has no value for it.
	if ev.Truthy("meters.mira.money == 0") {
		t.Error("player-scoped meter resolved for a character")
	}
}

func TestBuiltins(t *testing.T) {
	ev := testEval(t)
	s := ev.State
	s.PresentCharacters = []string{"mira"}
	state.AddItem(s, "player", "jacket", 1)
	s.Clothing["player"] = &types.ClothingState{
		Outfit: "casual",
		Items:  map[string]types.ClothState{"jacket": types.ClothIntact},
	}

	cases := []struct {
		src  string
		want bool
	}{
		{"has_item(\"coin\")", true},
		{"has_item(\"jacket\")", false},
		{"has_clothing(\"jacket\")", true},
		{"has(\"mira\", \"coin\")", false},
		{"wears(\"jacket\")", true},
		{"wears(\"mira\", \"jacket\")", false},
		{"wears_outfit(\"casual\")", true},
		{"can_wear_outfit(\"casual\")", true},
		{"npc_present(\"mira\")", true},
		{"npc_present(\"ghost\")", false},
		{"discovered(\"kitchen\")", true},
		{"discovered(\"nowhere\")", false},
		{"unlocked(\"nap\")", true},
		{"unlocked(\"secret\")", false},
	}
	for _, tc := range cases {
		if got := ev.Truthy(tc.src); got != tc.want {
			t.Errorf("%q = %v, want %v", tc.src, got, tc.want)
		}
	}
}

func TestGateSnapshotLookup(t *testing.T) {
	ev := testEval(t)
	ev.Gates = map[string]map[string]types.GateResult{
		"mira": {"hold_hands": {Allow: true}},
	}
	if !ev.Truthy("gates.mira.hold_hands") {
		t.Error("expected gate snapshot lookup to pass")
	}
	if ev.Truthy("gates.mira.kiss") {
		t.Error("unknown gate must be falsey")
	}
}

func TestArcLookup(t *testing.T) {
	ev := testEval(t)
	if ev.Truthy("arcs.friendship.stage == \"spark\"") {
		t.Error("unstarted arc must have a null stage")
	}
	ev.State.Arcs["friendship"] = &types.ArcState{Stage: "spark", History: []string{"spark"}}
	if !ev.Truthy("arcs.friendship.stage == \"spark\"") {
		t.Error("expected started arc stage")
	}
	if !ev.Truthy("\"spark\" in arcs.friendship.history") {
		t.Error("expected stage history membership")
	}
}

func TestPass(t *testing.T) {
	ev := testEval(t)
	cases := []struct {
		name  string
		guard types.Guard
		want  bool
	}{
		{"empty", types.Guard{}, true},
		{"when true", types.Guard{When: "time.day == 1"}, true},
		{"when false", types.Guard{When: "time.day == 2"}, false},
		{"all pass", types.Guard{WhenAll: []string{"time.day == 1", "turn == 0"}}, true},
		{"all with one failing", types.Guard{WhenAll: []string{"time.day == 1", "turn == 5"}}, false},
		{"any with one passing", types.Guard{WhenAny: []string{"time.day == 2", "turn == 0"}}, true},
		{"any all failing", types.Guard{WhenAny: []string{"time.day == 2", "turn == 5"}}, false},
	}
	for _, tc := range cases {
		if got := ev.Pass(tc.guard); got != tc.want {
			t.Errorf("%s: Pass = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIncompletePathsAreFalsey(t *testing.T) {
	ev := testEval(t)
	// Populated maps must not change the outcome for truncated paths.
	ev.State.Clothing["player"] = &types.ClothingState{
		Outfit: "casual",
		Items:  map[string]types.ClothState{"jacket": types.ClothIntact},
	}
	ev.Gates = map[string]map[string]types.GateResult{
		"mira": {"hold_hands": {Allow: true}},
	}

	cases := []string{
		"time",
		"time.day.extra",
		"location",
		"node",
		"meters",
		"meters.player",
		"flags",
		"modifiers",
		"inventory",
		"inventory.player",
		"clothing",
		"clothing.player",
		"gates",
		"gates.mira",
		"arcs",
		"arcs.friendship",
		"discovered",
		"unlocked",
		"wardrobe",
	}
	for _, src := range cases {
		if ev.Truthy(src) {
			t.Errorf("%q must be falsey", src)
		}
		if ev.Pass(types.Guard{When: src}) {
			t.Errorf("guard %q must not pass", src)
		}
	}
}

func TestMalformedExpressionIsFalseAndCached(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)
	ev := New(defs, s)
	warns := 0
	ev.WarnFunc = func(string, ...any) { warns++ }

	if ev.Truthy("1 +") {
		t.Fatal("malformed expression must be false")
	}
	if warns != 1 {
		t.Fatalf("expected one compile warning, got %d", warns)
	}
	// Second evaluation hits the rejected-program cache without rewarning.
	if ev.Truthy("1 +") {
		t.Fatal("malformed expression must stay false")
	}
	if warns != 1 {
		t.Errorf("expected cached rejection, got %d warnings", warns)
	}
}
