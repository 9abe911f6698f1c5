// Package expr implements the guard expression language: a small,
// non-Turing-complete DSL evaluated against a read-only per-turn
// environment. Evaluation is structurally incapable of panicking; every
// failure mode resolves to a falsey value plus a warning on the Env.
package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNum
	KindStr
	KindList
)

// Value is one DSL runtime value. The zero value is null.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string
	List []Value
}

// Null is the missing-path value.
var Null = Value{}

// False and True are the boolean constants.
var (
	False = Value{Kind: KindBool, Bool: false}
	True  = Value{Kind: KindBool, Bool: true}
)

func BoolVal(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func NumVal(n float64) Value { return Value{Kind: KindNum, Num: n} }
func StrVal(s string) Value { return Value{Kind: KindStr, Str: s} }
func ListVal(vs []Value) Value { return Value{Kind: KindList, List: vs} }

// StrListVal builds a list value from strings, the common lookup shape.
func StrListVal(ss []string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = StrVal(s)
	}
	return ListVal(vs)
}

// Truthy implements DSL truthiness: false, 0, "", [], and null are falsey.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindNum:
		return v.Num != 0
	case KindStr:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	}
	return false
}

// Equal compares two values. Values of different kinds are unequal;
// null equals only null.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNum:
		return a.Num == b.Num
	case KindStr:
		return a.Str == b.Str
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders a value for warnings and traces.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNum:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindStr:
		return fmt.Sprintf("%q", v.Str)
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "?"
}

// Env is the read-only world an expression evaluates against.
type Env interface {
	// Lookup resolves a dotted/bracketed path. Missing paths return
	// (Null, false); the evaluator warns and carries on.
	Lookup(path []string) (Value, bool)
	// Call invokes a state-dependent builtin (has_item, wears, ...).
	// Unknown names return (Null, false).
	Call(name string, args []Value) (Value, bool)
	// Rand draws a deterministic boolean from the turn's seeded RNG.
	Rand(p float64) bool
	// Warnf records a non-fatal evaluation warning.
	Warnf(format string, args ...any)
}
