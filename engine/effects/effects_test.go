package effects

import (
	"testing"

	"github.com/solenne/loom/engine/eval"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

type fakeRand struct {
	pick int
	seen []int
}

func (f *fakeRand) WeightedSelect(weights []int) int {
	f.seen = append(f.seen, weights...)
	return f.pick
}

func (f *fakeRand) Percent(p float64) bool { return false }

func fptr(v float64) *float64 { return &v }

func testDefs() *types.GameDef {
	return &types.GameDef{
		Meta: types.GameMeta{
			StartNode:     "intro",
			StartLocation: "kitchen",
			StartZone:     "apartment",
		},
		Meters: map[string]types.MeterDef{
			"trust":  {ID: "trust", Min: 0, Max: 100, Default: 50, DeltaCapPerTurn: 10},
			"energy": {ID: "energy", Min: 0, Max: 100, Default: 80},
			"money":  {ID: "money", Min: 0, Max: 150, Default: 100},
		},
		Flags: map[string]types.FlagDef{
			"met_mira": {ID: "met_mira", Default: false},
			"mood":     {ID: "mood", Default: ""},
		},
		Items: map[string]types.ItemDef{
			"coin":  {ID: "coin", Value: 1},
			"tonic": {ID: "tonic", Value: 8},
			"relic": {ID: "relic", Value: 500},
		},
		Clothing: map[string]types.ClothingDef{
			"shirt": {ID: "shirt", Occupies: []string{"torso"}},
			"vest":  {ID: "vest", Occupies: []string{"torso"}},
			"coat":  {ID: "coat", Occupies: []string{"torso_outer"}, Conceals: []string{"torso"}},
			"hat":   {ID: "hat", Occupies: []string{"head"}},
		},
		Outfits: map[string]types.OutfitDef{
			"workday": {ID: "workday", Pieces: []types.OutfitPiece{{Item: "shirt"}, {Item: "coat"}}},
		},
		Characters: map[string]types.CharacterDef{
			"vendor": {
				ID:        "vendor",
				Name:      "Vendor",
				Inventory: map[string]int{"tonic": 2, "relic": 1},
				Meters:    map[string]float64{"money": 140},
			},
		},
		Zones: map[string]types.ZoneDef{
			"apartment": {ID: "apartment", Locations: []string{"kitchen"}},
		},
		Locations: map[string]types.LocationDef{
			"kitchen": {ID: "kitchen", Zone: "apartment"},
		},
		Nodes: map[string]types.NodeDef{
			"intro": {ID: "intro"},
			"den":   {ID: "den"},
		},
		Modifiers: map[string]types.ModifierDef{
			"blessed": {
				ID: "blessed", Group: "vigor", Stacking: types.StackHighest, Priority: 2,
				OnEnter: []types.Effect{&types.FlagSet{Key: "mood", Value: "bright"}},
				OnExit:  []types.Effect{&types.FlagSet{Key: "mood", Value: "dim"}},
			},
			"tired": {
				ID: "tired", Group: "vigor", Stacking: types.StackHighest, Priority: 1,
				ClampMeters: map[string]types.MeterClamp{"energy": {Max: fptr(40)}},
			},
			"focused": {ID: "focused", Duration: 30},
		},
		ModOrder: []string{"blessed", "tired", "focused"},
	}
}

func testCtx() *Context {
	defs := testDefs()
	s := state.NewState(defs)
	ev := eval.New(defs, s)
	ev.WarnFunc = func(string, ...any) {}
	ctx := NewContext(defs, s, ev, &fakeRand{})
	ctx.WarnFunc = func(string, ...any) {}
	return ctx
}

func countWarns(ctx *Context) *int {
	n := new(int)
	ctx.WarnFunc = func(string, ...any) { *n++ }
	return n
}

func meter(t *testing.T, ctx *Context, owner, id string) float64 {
	t.Helper()
	v, ok := state.Meter(ctx.State, owner, id)
	if !ok {
		t.Fatalf("owner %q has no meter %q", owner, id)
	}
	return v
}

func TestMeterChangeOps(t *testing.T) {
	cases := []struct {
		op    types.MeterOp
		value float64
		want  float64
	}{
		{types.OpAdd, 10, 90},
		{types.OpSubtract, 30, 50},
		{types.OpSet, 25, 25},
		{types.OpMultiply, 0.5, 40},
		{types.OpDivide, 4, 20},
	}
	for _, tc := range cases {
		ctx := testCtx()
		Apply(ctx, []types.Effect{&types.MeterChange{
			Meter: "energy", Op: tc.op, Value: tc.value, RespectCaps: true,
		}})
		if got := meter(t, ctx, "player", "energy"); got != tc.want {
			t.Errorf("%s %v: energy = %v, want %v", tc.op, tc.value, got, tc.want)
		}
	}
}

func TestMeterChangeCaps(t *testing.T) {
	ctx := testCtx()
	Apply(ctx, []types.Effect{&types.MeterChange{
		Meter: "energy", Op: types.OpAdd, Value: 500, RespectCaps: true,
	}})
	if got := meter(t, ctx, "player", "energy"); got != 100 {
		t.Errorf("capped energy = %v, want 100", got)
	}

	ctx = testCtx()
	Apply(ctx, []types.Effect{&types.MeterChange{
		Meter: "energy", Op: types.OpAdd, Value: 500,
	}})
	if got := meter(t, ctx, "player", "energy"); got != 580 {
		t.Errorf("uncapped energy = %v, want 580", got)
	}
}

func TestMeterDeltaBudget(t *testing.T) {
	// trust starts at 50 with a per-turn delta budget of 10.
	ctx := testCtx()
	Apply(ctx, []types.Effect{&types.MeterChange{
		Meter: "trust", Op: types.OpAdd, Value: 500, RespectCaps: true, CapPerTurn: true,
	}})
	if got := meter(t, ctx, "player", "trust"); got != 60 {
		t.Fatalf("budget-truncated trust = %v, want 60", got)
	}

	// Budget is spent for the rest of the turn.
	Apply(ctx, []types.Effect{&types.MeterChange{
		Meter: "trust", Op: types.OpSubtract, Value: 5, RespectCaps: true, CapPerTurn: true,
	}})
	if got := meter(t, ctx, "player", "trust"); got != 60 {
		t.Errorf("trust after spent budget = %v, want 60", got)
	}

	// cap_per_turn=false bypasses the ledger entirely.
	Apply(ctx, []types.Effect{&types.MeterChange{
		Meter: "trust", Op: types.OpAdd, Value: 20, RespectCaps: true,
	}})
	if got := meter(t, ctx, "player", "trust"); got != 80 {
		t.Errorf("ledger-bypassing trust = %v, want 80", got)
	}
}

func TestMeterBudgetAccumulates(t *testing.T) {
	ctx := testCtx()
	add := func(v float64) {
		Apply(ctx, []types.Effect{&types.MeterChange{
			Meter: "trust", Op: types.OpAdd, Value: v, RespectCaps: true, CapPerTurn: true,
		}})
	}
	add(4)
	add(4)
	add(4) // only 2 left in the budget
	add(1) // budget exhausted
	if got := meter(t, ctx, "player", "trust"); got != 60 {
		t.Errorf("trust = %v, want 60", got)
	}
}

func TestMeterSetCountsAsDelta(t *testing.T) {
	ctx := testCtx()
	Apply(ctx, []types.Effect{&types.MeterChange{
		Meter: "trust", Op: types.OpSet, Value: 0, RespectCaps: true, CapPerTurn: true,
	}})
	if got := meter(t, ctx, "player", "trust"); got != 40 {
		t.Errorf("set within budget: trust = %v, want 40", got)
	}
}

func TestMeterChangeInvalid(t *testing.T) {
	ctx := testCtx()
	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{
		&types.MeterChange{Meter: "energy", Op: types.OpDivide, Value: 0},
		&types.MeterChange{Meter: "nope", Op: types.OpAdd, Value: 1},
		&types.MeterChange{Meter: "energy", Op: "square", Value: 2},
	})
	if got := meter(t, ctx, "player", "energy"); got != 80 {
		t.Errorf("energy = %v, want 80 untouched", got)
	}
	if *warns != 3 {
		t.Errorf("warnings = %d, want 3", *warns)
	}
}

func TestFlagSet(t *testing.T) {
	ctx := testCtx()
	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{
		&types.FlagSet{Key: "met_mira", Value: true},
		&types.FlagSet{Key: "mood", Value: 7},      // type mismatch
		&types.FlagSet{Key: "ghost", Value: true},  // undefined
	})
	if v := ctx.State.Flags["met_mira"]; v != true {
		t.Errorf("met_mira = %v, want true", v)
	}
	if v := ctx.State.Flags["mood"]; v != "" {
		t.Errorf("mood = %v, want unchanged empty string", v)
	}
	if _, ok := ctx.State.Flags["ghost"]; ok {
		t.Error("undefined flag was written")
	}
	if *warns != 2 {
		t.Errorf("warnings = %d, want 2", *warns)
	}
}

func TestGuardFalseSkipsSilently(t *testing.T) {
	ctx := testCtx()
	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{&types.MeterChange{
		Guarded: types.Guarded{Guard: types.Guard{When: "flags.met_mira"}},
		Meter:   "energy", Op: types.OpAdd, Value: 10, RespectCaps: true,
	}})
	if got := meter(t, ctx, "player", "energy"); got != 80 {
		t.Errorf("energy = %v, want 80", got)
	}
	if *warns != 0 {
		t.Errorf("warnings = %d, want 0", *warns)
	}
}

func TestConditionalBranches(t *testing.T) {
	cond := &types.Conditional{
		Guarded:   types.Guarded{Guard: types.Guard{When: "flags.met_mira"}},
		Then:      []types.Effect{&types.FlagSet{Key: "mood", Value: "warm"}},
		Otherwise: []types.Effect{&types.FlagSet{Key: "mood", Value: "cold"}},
	}

	ctx := testCtx()
	Apply(ctx, []types.Effect{cond})
	if v := ctx.State.Flags["mood"]; v != "cold" {
		t.Errorf("otherwise branch: mood = %v, want cold", v)
	}

	ctx.State.Flags["met_mira"] = true
	Apply(ctx, []types.Effect{cond})
	if v := ctx.State.Flags["mood"]; v != "warm" {
		t.Errorf("then branch: mood = %v, want warm", v)
	}
}

func TestRandomWeighted(t *testing.T) {
	ctx := testCtx()
	rng := &fakeRand{pick: 1}
	ctx.RNG = rng
	Apply(ctx, []types.Effect{&types.Random{Choices: []types.WeightedEffects{
		{Weight: -5, Effects: []types.Effect{&types.FlagSet{Key: "mood", Value: "a"}}},
		{Weight: 3, Effects: []types.Effect{&types.FlagSet{Key: "mood", Value: "b"}}},
	}}})
	if v := ctx.State.Flags["mood"]; v != "b" {
		t.Errorf("mood = %v, want b", v)
	}
	// Negative weights are floored at zero before the draw.
	if len(rng.seen) != 2 || rng.seen[0] != 0 || rng.seen[1] != 3 {
		t.Errorf("weights seen by RNG = %v, want [0 3]", rng.seen)
	}
}

func TestRandomDegenerate(t *testing.T) {
	ctx := testCtx()
	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{
		&types.Random{},
		&types.Random{Choices: []types.WeightedEffects{{Weight: 0}, {Weight: -1}}},
	})
	if *warns != 2 {
		t.Errorf("warnings = %d, want 2", *warns)
	}
}

func TestInventoryAddRemove(t *testing.T) {
	ctx := testCtx()
	Apply(ctx, []types.Effect{
		&types.InventoryAdd{Item: "coin"}, // count defaults to 1
		&types.InventoryAdd{Item: "coin", Count: 3},
		&types.InventoryRemove{Item: "coin", Count: 2},
	})
	if got := state.Count(ctx.State, "player", "coin"); got != 2 {
		t.Errorf("coin count = %d, want 2", got)
	}

	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{
		&types.InventoryRemove{Item: "tonic"},                      // holds none
		&types.InventoryAdd{Kind: types.KindItem, Item: "shirt"},   // kind mismatch
		&types.InventoryAdd{Item: "ghost"},                         // unknown id
	})
	if *warns != 3 {
		t.Errorf("warnings = %d, want 3", *warns)
	}
	if got := state.Count(ctx.State, "player", "shirt"); got != 0 {
		t.Errorf("mismatched add went through: shirt count = %d", got)
	}
}

func TestInventoryTakeDrop(t *testing.T) {
	ctx := testCtx()
	state.AddItem(ctx.State, "kitchen", "coin", 2)

	// Take defaults its source to the current location.
	Apply(ctx, []types.Effect{&types.InventoryTake{Item: "coin", Count: 2}})
	if got := state.Count(ctx.State, "player", "coin"); got != 2 {
		t.Fatalf("taken coins = %d, want 2", got)
	}
	if got := state.Count(ctx.State, "kitchen", "coin"); got != 0 {
		t.Errorf("kitchen coins = %d, want 0", got)
	}

	Apply(ctx, []types.Effect{&types.InventoryDrop{Item: "coin"}})
	if got := state.Count(ctx.State, "player", "coin"); got != 1 {
		t.Errorf("player coins after drop = %d, want 1", got)
	}
	if got := state.Count(ctx.State, "kitchen", "coin"); got != 1 {
		t.Errorf("kitchen coins after drop = %d, want 1", got)
	}

	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{&types.InventoryTake{Item: "tonic"}})
	if *warns != 1 {
		t.Errorf("empty take warnings = %d, want 1", *warns)
	}
}

func TestInventoryGive(t *testing.T) {
	ctx := testCtx()
	Apply(ctx, []types.Effect{&types.InventoryGive{Source: "vendor", Item: "tonic"}})
	if got := state.Count(ctx.State, "player", "tonic"); got != 1 {
		t.Errorf("player tonic = %d, want 1", got)
	}
	if got := state.Count(ctx.State, "vendor", "tonic"); got != 1 {
		t.Errorf("vendor tonic = %d, want 1", got)
	}
}

func TestTradePurchase(t *testing.T) {
	ctx := testCtx()
	// Price 0 falls back to the item's defined value (8).
	Apply(ctx, []types.Effect{&types.InventoryPurchase{Source: "vendor", Item: "tonic", Count: 2}})
	if got := state.Count(ctx.State, "player", "tonic"); got != 2 {
		t.Errorf("player tonic = %d, want 2", got)
	}
	if got := meter(t, ctx, "player", "money"); got != 84 {
		t.Errorf("player money = %v, want 84", got)
	}
	// The seller's gain clamps to the meter range.
	if got := meter(t, ctx, "vendor", "money"); got != 150 {
		t.Errorf("vendor money = %v, want 150", got)
	}
}

func TestTradeRefusals(t *testing.T) {
	ctx := testCtx()
	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{
		&types.InventoryPurchase{Source: "vendor", Item: "relic"},          // cannot afford 500
		&types.InventoryPurchase{Source: "vendor", Item: "tonic", Count: 5}, // vendor holds 2
	})
	if *warns != 2 {
		t.Fatalf("warnings = %d, want 2", *warns)
	}
	if got := meter(t, ctx, "player", "money"); got != 100 {
		t.Errorf("player money = %v, want 100 untouched", got)
	}
	if got := state.Count(ctx.State, "vendor", "relic"); got != 1 {
		t.Errorf("vendor relic = %d, want 1", got)
	}
}

func TestTradeSell(t *testing.T) {
	ctx := testCtx()
	state.AddItem(ctx.State, "player", "coin", 2)
	Apply(ctx, []types.Effect{&types.InventorySell{Source: "vendor", Item: "coin", Count: 2, Price: 3}})
	if got := state.Count(ctx.State, "player", "coin"); got != 0 {
		t.Errorf("player coins = %d, want 0", got)
	}
	if got := state.Count(ctx.State, "vendor", "coin"); got != 2 {
		t.Errorf("vendor coins = %d, want 2", got)
	}
	if got := meter(t, ctx, "player", "money"); got != 106 {
		t.Errorf("player money = %v, want 106", got)
	}
	if got := meter(t, ctx, "vendor", "money"); got != 134 {
		t.Errorf("vendor money = %v, want 134", got)
	}
}

func TestClothingPutOn(t *testing.T) {
	ctx := testCtx()
	state.AddItem(ctx.State, "player", "shirt", 1)
	state.AddItem(ctx.State, "player", "vest", 1)
	state.AddItem(ctx.State, "player", "hat", 1)

	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{
		&types.ClothingPutOn{Item: "shirt"},
		&types.ClothingPutOn{Item: "vest"}, // torso already taken
		&types.ClothingPutOn{Item: "hat"},
		&types.ClothingPutOn{Item: "coat"}, // not owned
	})
	cs := state.Worn(ctx.State, "player")
	if cs.Items["shirt"] != types.ClothIntact {
		t.Errorf("shirt state = %q, want intact", cs.Items["shirt"])
	}
	if _, worn := cs.Items["vest"]; worn {
		t.Error("conflicting vest was worn")
	}
	if _, worn := cs.Items["hat"]; !worn {
		t.Error("hat was not worn")
	}
	if *warns != 2 {
		t.Errorf("warnings = %d, want 2", *warns)
	}

	// Re-wearing a worn item skips the conflict check and just sets the state.
	Apply(ctx, []types.Effect{&types.ClothingPutOn{Item: "shirt", Condition: types.ClothOpened}})
	if cs.Items["shirt"] != types.ClothOpened {
		t.Errorf("re-worn shirt state = %q, want opened", cs.Items["shirt"])
	}
}

func TestClothingStateAndSlots(t *testing.T) {
	ctx := testCtx()
	state.AddItem(ctx.State, "player", "shirt", 1)
	Apply(ctx, []types.Effect{
		&types.ClothingPutOn{Item: "shirt"},
		&types.ClothingSetState{Item: "shirt", Condition: types.ClothOpened},
	})
	cs := state.Worn(ctx.State, "player")
	if cs.Items["shirt"] != types.ClothOpened {
		t.Fatalf("shirt state = %q, want opened", cs.Items["shirt"])
	}

	Apply(ctx, []types.Effect{&types.ClothingSlotState{Slot: "torso", Condition: types.ClothDisplaced}})
	if cs.Items["shirt"] != types.ClothDisplaced {
		t.Errorf("shirt state = %q, want displaced", cs.Items["shirt"])
	}

	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{
		&types.ClothingSlotState{Slot: "head", Condition: types.ClothOpened},
		&types.ClothingTakeOff{Item: "hat"},
	})
	if *warns != 2 {
		t.Errorf("warnings = %d, want 2", *warns)
	}
}

func TestOutfitPutOnDisplaces(t *testing.T) {
	ctx := testCtx()
	state.AddItem(ctx.State, "player", "workday", 1)
	state.AddItem(ctx.State, "player", "shirt", 1)
	state.AddItem(ctx.State, "player", "coat", 1)
	state.AddItem(ctx.State, "player", "vest", 1)
	Apply(ctx, []types.Effect{&types.ClothingPutOn{Item: "vest"}})

	Apply(ctx, []types.Effect{&types.OutfitPutOn{Outfit: "workday"}})
	cs := state.Worn(ctx.State, "player")
	if cs.Outfit != "workday" {
		t.Errorf("outfit = %q, want workday", cs.Outfit)
	}
	if _, worn := cs.Items["vest"]; worn {
		t.Error("vest still worn after the outfit claimed its slot")
	}
	for _, item := range []string{"shirt", "coat"} {
		if cs.Items[item] != types.ClothIntact {
			t.Errorf("%s state = %q, want intact", item, cs.Items[item])
		}
	}

	Apply(ctx, []types.Effect{&types.OutfitTakeOff{Outfit: "workday"}})
	if len(cs.Items) != 0 || cs.Outfit != "" {
		t.Errorf("after take_off: items = %v outfit = %q, want empty", cs.Items, cs.Outfit)
	}
}

func TestOutfitRequiresRecipeAndPieces(t *testing.T) {
	ctx := testCtx()
	state.AddItem(ctx.State, "player", "shirt", 1)
	state.AddItem(ctx.State, "player", "coat", 1)
	warns := countWarns(ctx)
	// The recipe itself is not owned.
	Apply(ctx, []types.Effect{&types.OutfitPutOn{Outfit: "workday"}})
	if *warns != 1 {
		t.Errorf("warnings = %d, want 1", *warns)
	}
	if cs := state.Worn(ctx.State, "player"); len(cs.Items) != 0 {
		t.Errorf("worn items = %v, want none", cs.Items)
	}
}

func TestAdvanceTimeAndGoto(t *testing.T) {
	ctx := testCtx()
	Apply(ctx, []types.Effect{
		&types.AdvanceTime{Minutes: 30},
		&types.AdvanceTime{Minutes: 15},
		&types.AdvanceTime{Minutes: -5},
		&types.Goto{Node: "den"},
	})
	if ctx.PendingMinutes != 45 {
		t.Errorf("pending minutes = %d, want 45", ctx.PendingMinutes)
	}
	if ctx.ForcedGoto != "den" {
		t.Errorf("forced goto = %q, want den", ctx.ForcedGoto)
	}

	warns := countWarns(ctx)
	Apply(ctx, []types.Effect{&types.Goto{Node: "nowhere"}})
	if *warns != 1 || ctx.ForcedGoto != "den" {
		t.Errorf("unknown goto: warnings = %d goto = %q", *warns, ctx.ForcedGoto)
	}
}

func TestUnlockAndLock(t *testing.T) {
	ctx := testCtx()
	Apply(ctx, []types.Effect{&types.Unlock{
		Actions:   []string{"nap"},
		Locations: []string{"attic"},
	}})
	if !ctx.State.Unlocked[types.UnlockActions]["nap"] {
		t.Error("nap not unlocked")
	}
	if !ctx.State.Unlocked[types.UnlockLocations]["attic"] {
		t.Error("attic not unlocked")
	}

	Apply(ctx, []types.Effect{&types.Lock{Actions: []string{"nap"}}})
	if ctx.State.Unlocked[types.UnlockActions]["nap"] {
		t.Error("lock left the runtime unlock in place")
	}
	if !ctx.State.Locked[types.UnlockActions]["nap"] {
		t.Error("nap not locked")
	}
}

func TestModifierGroupStacking(t *testing.T) {
	ctx := testCtx()
	Activate(ctx, "", "tired", 0)
	if _, ok := ctx.State.Modifiers["player"]["tired"]; !ok {
		t.Fatal("tired not active")
	}

	// Higher priority in the same highest-stacking group evicts the holder.
	Activate(ctx, "", "blessed", 0)
	if _, ok := ctx.State.Modifiers["player"]["tired"]; ok {
		t.Error("tired survived a higher-priority activation")
	}
	if _, ok := ctx.State.Modifiers["player"]["blessed"]; !ok {
		t.Error("blessed not active")
	}
	if v := ctx.State.Flags["mood"]; v != "bright" {
		t.Errorf("on_enter flag = %v, want bright", v)
	}

	// A lower-priority activation loses against the active holder.
	Activate(ctx, "", "tired", 0)
	if _, ok := ctx.State.Modifiers["player"]["tired"]; ok {
		t.Error("tired activated despite losing the group")
	}
}

func TestModifierClampOnEnter(t *testing.T) {
	ctx := testCtx()
	Activate(ctx, "", "tired", 0)
	if got := meter(t, ctx, "player", "energy"); got != 40 {
		t.Errorf("energy after clamp = %v, want 40", got)
	}
}

func TestModifierDuration(t *testing.T) {
	ctx := testCtx()
	Activate(ctx, "", "focused", 0)
	ms := ctx.State.Modifiers["player"]["focused"]
	if ms == nil || ms.Remaining == nil || *ms.Remaining != 30 {
		t.Fatalf("remaining = %v, want default 30", ms)
	}

	// Re-activation refreshes the clock.
	Activate(ctx, "", "focused", 45)
	if ms.Remaining == nil || *ms.Remaining != 45 {
		t.Errorf("refreshed remaining = %v, want 45", ms.Remaining)
	}
}

func TestModifierDeactivate(t *testing.T) {
	ctx := testCtx()
	Activate(ctx, "", "blessed", 0)
	Deactivate(ctx, "", "blessed")
	if _, ok := ctx.State.Modifiers["player"]["blessed"]; ok {
		t.Fatal("blessed still active")
	}
	if v := ctx.State.Flags["mood"]; v != "dim" {
		t.Errorf("on_exit flag = %v, want dim", v)
	}

	// Deactivating an inactive modifier is a no-op.
	warns := countWarns(ctx)
	Deactivate(ctx, "", "blessed")
	if *warns != 0 {
		t.Errorf("warnings = %d, want 0", *warns)
	}
}
