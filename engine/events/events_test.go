package events

import (
	"testing"

	"github.com/solenne/loom/engine/effects"
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

func testDefs() *types.GameDef {
	return &types.GameDef{
		Meta: types.GameMeta{
			StartNode:     "intro",
			StartLocation: "kitchen",
			StartZone:     "apartment",
		},
		Flags: map[string]types.FlagDef{
			"storm":  {ID: "storm", Default: false},
			"social": {ID: "social", Default: false},
			"omen":   {ID: "omen", Default: false},
			"mark1":  {ID: "mark1", Default: false},
			"mark2":  {ID: "mark2", Default: false},
			"exited": {ID: "exited", Default: false},
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
		Events: map[string]types.EventDef{
			"storm_hits": {
				ID:          "storm_hits",
				Guard:       types.Guard{When: "flags.storm"},
				Probability: 100,
				OncePerGame: true,
			},
			"small_talk": {
				ID:          "small_talk",
				Guard:       types.Guard{When: "flags.social"},
				Probability: 30,
			},
			"loud_talk": {
				ID:          "loud_talk",
				Guard:       types.Guard{When: "flags.social"},
				Probability: 70,
				Cooldown:    2,
			},
			"dark_omen": {
				ID:          "dark_omen",
				Guard:       types.Guard{When: "flags.omen"},
				Probability: 100,
				Triggers: []types.TriggerDef{
					{Effects: []types.Effect{
						&types.Goto{Node: "den"},
						&types.FlagSet{Key: "mark1", Value: true},
					}},
					{Effects: []types.Effect{
						&types.FlagSet{Key: "mark2", Value: true},
					}},
				},
				OnExit: []types.Effect{&types.FlagSet{Key: "exited", Value: true}},
			},
		},
		EventOrder: []string{"storm_hits", "dark_omen", "small_talk", "loud_talk"},
	}
}

func testCtx(rng effects.Rand) *effects.Context {
	defs := testDefs()
	s := state.NewState(defs)
	ev := eval.New(defs, s)
	ev.WarnFunc = func(string, ...any) {}
	ctx := effects.NewContext(defs, s, ev, rng)
	ctx.WarnFunc = func(string, ...any) {}
	return ctx
}

func TestScanNothingEligible(t *testing.T) {
	ctx := testCtx(&fakeRand{})
	if f := Scan(ctx); f != nil {
		t.Fatalf("fired %q with no eligible event", f.ID)
	}
	if len(ctx.State.EventsHistory) != 0 {
		t.Errorf("history = %v, want empty", ctx.State.EventsHistory)
	}
}

func TestScanImmediateFireWinsOverPool(t *testing.T) {
	rng := &fakeRand{}
	ctx := testCtx(rng)
	ctx.State.Flags["storm"] = true
	ctx.State.Flags["social"] = true

	f := Scan(ctx)
	if f == nil || f.ID != "storm_hits" {
		t.Fatalf("fired = %v, want storm_hits", f)
	}
	if len(rng.seen) != 0 {
		t.Errorf("pool was drawn despite an immediate fire: %v", rng.seen)
	}
	if !ctx.State.FiredOnce["storm_hits"] {
		t.Error("once_per_game event not recorded")
	}

	// Second scan: the once-fired event is out, the pool takes over.
	rng.pick = 0
	f = Scan(ctx)
	if f == nil || f.ID != "small_talk" {
		t.Fatalf("second fire = %v, want small_talk", f)
	}
	if len(rng.seen) != 2 || rng.seen[0] != 30 || rng.seen[1] != 70 {
		t.Errorf("pool weights = %v, want [30 70]", rng.seen)
	}
}

func TestScanCooldown(t *testing.T) {
	rng := &fakeRand{pick: 1}
	ctx := testCtx(rng)
	ctx.State.Flags["social"] = true

	f := Scan(ctx)
	if f == nil || f.ID != "loud_talk" {
		t.Fatalf("fired = %v, want loud_talk", f)
	}
	if ctx.State.Cooldowns["loud_talk"] != 2 {
		t.Fatalf("cooldown = %d, want 2", ctx.State.Cooldowns["loud_talk"])
	}

	// While cooling down, only the other pool event is eligible.
	rng.pick, rng.seen = 0, nil
	f = Scan(ctx)
	if f == nil || f.ID != "small_talk" {
		t.Fatalf("fired during cooldown = %v, want small_talk", f)
	}
	if len(rng.seen) != 1 || rng.seen[0] != 30 {
		t.Errorf("pool weights = %v, want [30]", rng.seen)
	}

	TickCooldowns(ctx.State)
	if ctx.State.Cooldowns["loud_talk"] != 1 {
		t.Errorf("cooldown after tick = %d, want 1", ctx.State.Cooldowns["loud_talk"])
	}
	TickCooldowns(ctx.State)
	if _, ok := ctx.State.Cooldowns["loud_talk"]; ok {
		t.Error("expired cooldown not removed")
	}
}

func TestTriggerGotoStopsRemainingTriggers(t *testing.T) {
	ctx := testCtx(&fakeRand{})
	ctx.State.Flags["omen"] = true

	f := Scan(ctx)
	if f == nil || f.ID != "dark_omen" {
		t.Fatalf("fired = %v, want dark_omen", f)
	}
	if f.Goto != "den" {
		t.Errorf("goto = %q, want den", f.Goto)
	}
	if v := ctx.State.Flags["mark1"]; v != true {
		t.Error("effects alongside the goto were skipped")
	}
	if v := ctx.State.Flags["mark2"]; v != false {
		t.Error("trigger after the goto still ran")
	}
	// Exit effects and history bookkeeping still happen.
	if v := ctx.State.Flags["exited"]; v != true {
		t.Error("on_exit skipped after a trigger goto")
	}
	if len(ctx.State.EventsHistory) != 1 || ctx.State.EventsHistory[0] != "dark_omen" {
		t.Errorf("history = %v, want [dark_omen]", ctx.State.EventsHistory)
	}
}
