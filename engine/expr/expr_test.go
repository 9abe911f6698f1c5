package expr

import (
	"strings"
	"testing"
)

// fakeEnv resolves paths from a flat map and records warnings.
type fakeEnv struct {
	vars     map[string]Value
	warnings []string
	randHits []float64
	randVal  bool
}

func (e *fakeEnv) Lookup(path []string) (Value, bool) {
	v, ok := e.vars[strings.Join(path, ".")]
	return v, ok
}

func (e *fakeEnv) Call(name string, args []Value) (Value, bool) {
	switch name {
	case "has_item":
		if len(args) == 1 && args[0].Str == "key" {
			return True, true
		}
		return False, true
	case "count":
		return NumVal(float64(len(args))), true
	}
	return Null, false
}

func (e *fakeEnv) Rand(p float64) bool {
	e.randHits = append(e.randHits, p)
	return e.randVal
}

func (e *fakeEnv) Warnf(format string, args ...any) {
	e.warnings = append(e.warnings, format)
}

func env() *fakeEnv {
	return &fakeEnv{vars: map[string]Value{
		"meters.player.trust":  NumVal(40),
		"meters.player.energy": NumVal(0),
		"flags.met_mira":       True,
		"flags.name":           StrVal("Tam"),
		"location.current":     StrVal("atrium"),
		"tags":                 StrListVal([]string{"quiet", "indoor"}),
	}}
}

func evalStr(t *testing.T, e *fakeEnv, src string) Value {
	t.Helper()
	p, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return p.Eval(e)
}

func TestCompileErrors(t *testing.T) {
	cases := []string{
		"",
		"1 +",
		"(1 + 2",
		"meters..trust",
		"== 3",
		"\"unterminated",
		"[1, 2",
		"1 2",
	}
	for _, src := range cases {
		if _, err := Compile(src); err == nil {
			t.Errorf("Compile(%q): expected error", src)
		}
	}
}

func TestCompileLengthLimit(t *testing.T) {
	src := "1 + " + strings.Repeat("1 + ", MaxExprLen/4) + "1"
	if _, err := Compile(src); err == nil {
		t.Fatalf("expected length error for %d-byte expression", len(src))
	}
}

func TestCompileDepthLimit(t *testing.T) {
	src := strings.Repeat("(", MaxDepth+1) + "1" + strings.Repeat(")", MaxDepth+1)
	if _, err := Compile(src); err == nil {
		t.Fatal("expected nesting depth error")
	}
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"1 + 2", 3},
		{"2 * 3 + 4", 10},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 2 - 3", 5},
		{"-5 + 2", -3},
		{"min(3, 7)", 3},
		{"max(3, 7)", 7},
		{"abs(-4)", 4},
		{"clamp(120, 0, 100)", 100},
		{"meters.player.trust / 4", 10},
	}
	for _, tc := range cases {
		got := evalStr(t, env(), tc.src)
		if got.Kind != KindNum || got.Num != tc.want {
			t.Errorf("%q = %s, want %g", tc.src, got, tc.want)
		}
	}
}

func TestComparisonAndLogic(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"meters.player.trust >= 40", true},
		{"meters.player.trust > 40", false},
		{"meters.player.trust == 40", true},
		{"meters.player.trust != 40", false},
		{"flags.met_mira and meters.player.trust > 10", true},
		{"flags.met_mira and meters.player.trust > 100", false},
		{"flags.met_mira or meters.player.trust > 100", true},
		{"not flags.met_mira", false},
		{"flags.name == \"Tam\"", true},
		{"location.current in [\"atrium\", \"garden\"]", true},
		{"\"quiet\" in tags", true},
		{"\"loud\" in tags", false},
	}
	for _, tc := range cases {
		got := evalStr(t, env(), tc.src)
		if got.Truthy() != tc.want {
			t.Errorf("%q = %s, want %v", tc.src, got, tc.want)
		}
	}
}

func TestShortCircuit(t *testing.T) {
	e := env()
	// The right side calls an unknown function; with short-circuit it
	// is never evaluated.
	got := evalStr(t, e, "flags.met_mira or bogus()")
	if !got.Truthy() {
		t.Fatalf("expected true, got %s", got)
	}
	if len(e.warnings) != 0 {
		t.Errorf("right side was evaluated: warnings %v", e.warnings)
	}
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"0", false},
		{"1", true},
		{"-1", true},
		{"\"\"", false},
		{"\"x\"", true},
		{"meters.player.energy", false},
		{"[]", false},
		{"[0]", true},
	}
	for _, tc := range cases {
		if got := evalStr(t, env(), tc.src).Truthy(); got != tc.want {
			t.Errorf("truthy(%q) = %v, want %v", tc.src, got, tc.want)
		}
	}
}

func TestMissingPathDegradesToFalse(t *testing.T) {
	e := env()
	got := evalStr(t, e, "meters.player.nonsense > 3")
	if got.Truthy() {
		t.Fatalf("expected false, got %s", got)
	}
	if len(e.warnings) == 0 {
		t.Error("expected a warning for the missing path")
	}
}

func TestTypeMismatchDegradesToFalse(t *testing.T) {
	e := env()
	got := evalStr(t, e, "flags.name + 3")
	if got.Truthy() {
		t.Fatalf("expected false, got %s", got)
	}
	if len(e.warnings) == 0 {
		t.Error("expected a warning for the type mismatch")
	}
}

func TestDivisionByZero(t *testing.T) {
	e := env()
	got := evalStr(t, e, "10 / meters.player.energy")
	if got.Truthy() {
		t.Fatalf("expected false, got %s", got)
	}
	if len(e.warnings) == 0 {
		t.Error("expected a warning for division by zero")
	}
}

func TestFunctionCalls(t *testing.T) {
	e := env()
	if got := evalStr(t, e, "has_item(\"key\")"); !got.Truthy() {
		t.Errorf("has_item(\"key\") = %s, want true", got)
	}
	if got := evalStr(t, e, "has_item(\"rock\")"); got.Truthy() {
		t.Errorf("has_item(\"rock\") = %s, want false", got)
	}
}

func TestGetDefault(t *testing.T) {
	e := env()
	if got := evalStr(t, e, "get(flags.unset, 5) == 5"); !got.Truthy() {
		t.Errorf("get with missing path = %s, want default", got)
	}
	if len(e.warnings) != 0 {
		t.Errorf("get must not warn on a missing path: %v", e.warnings)
	}
	if got := evalStr(t, e, "get(meters.player.trust, 0) == 40"); !got.Truthy() {
		t.Errorf("get with present path = %s, want stored value", got)
	}
}

func TestUnknownFunctionWarns(t *testing.T) {
	e := env()
	got := evalStr(t, e, "definitely_not_a_builtin(1)")
	if got.Truthy() {
		t.Fatalf("expected false, got %s", got)
	}
	if len(e.warnings) == 0 {
		t.Error("expected a warning for the unknown function")
	}
}

func TestRandUsesEnvRand(t *testing.T) {
	e := env()
	e.randVal = true
	if got := evalStr(t, e, "rand(30)"); !got.Truthy() {
		t.Fatalf("rand(30) = %s, want env rand result", got)
	}
	if len(e.randHits) != 1 || e.randHits[0] != 30 {
		t.Errorf("rand called with %v, want [30]", e.randHits)
	}
}

func TestBracketPath(t *testing.T) {
	e := env()
	got := evalStr(t, e, "meters[\"player\"][\"trust\"] == 40")
	if !got.Truthy() {
		t.Errorf("bracket path lookup = %s, want true", got)
	}
}
