package expr

import (
	"math"
	"strconv"
	"strings"
)

// Eval evaluates the program against env. It never panics and never
// returns an error: unresolvable input degrades to false with a warning.
func (p *Program) Eval(env Env) Value {
	v, ok := eval(p.root, env)
	if !ok {
		return False
	}
	return v
}

// EvalTruthy is Eval folded through DSL truthiness.
func (p *Program) EvalTruthy(env Env) bool {
	return p.Eval(env).Truthy()
}

// eval walks the tree. ok=false signals a hard type failure: the whole
// expression resolves to false. Missing paths are soft — they yield null
// and evaluation continues.
func eval(n node, env Env) (Value, bool) {
	switch t := n.(type) {
	case litNode:
		return t.v, true

	case listNode:
		elems := make([]Value, 0, len(t.elems))
		kind := KindNull
		for _, e := range t.elems {
			v, ok := eval(e, env)
			if !ok {
				return Null, false
			}
			if v.Kind != KindNull {
				if kind == KindNull {
					kind = v.Kind
				} else if v.Kind != kind {
					env.Warnf("heterogeneous list in expression")
					return Null, false
				}
			}
			elems = append(elems, v)
		}
		return ListVal(elems), true

	case pathNode:
		return evalPath(t, env)

	case callNode:
		return evalCall(t, env)

	case unaryNode:
		return evalUnary(t, env)

	case binNode:
		return evalBinary(t, env)
	}
	return Null, false
}

func evalPath(t pathNode, env Env) (Value, bool) {
	parts := make([]string, 0, len(t.segs))
	for _, seg := range t.segs {
		if seg.index == nil {
			parts = append(parts, seg.ident)
			continue
		}
		idx, ok := eval(seg.index, env)
		if !ok {
			return Null, false
		}
		switch idx.Kind {
		case KindStr:
			parts = append(parts, idx.Str)
		case KindNum:
			parts = append(parts, strconv.FormatFloat(idx.Num, 'g', -1, 64))
		default:
			env.Warnf("path index must be a string or number, got %s", idx)
			return Null, false
		}
	}
	v, found := env.Lookup(parts)
	if !found {
		env.Warnf("unknown path %v resolves to null", parts)
		return Null, true
	}
	return v, true
}

func evalCall(t callNode, env Env) (Value, bool) {
	// get(path, default) reads its first argument unevaluated.
	if t.name == "get" {
		return evalGet(t, env)
	}

	args := make([]Value, len(t.args))
	for i, a := range t.args {
		v, ok := eval(a, env)
		if !ok {
			return Null, false
		}
		args[i] = v
	}

	switch t.name {
	case "rand":
		if len(args) != 1 || args[0].Kind != KindNum {
			env.Warnf("rand wants one numeric argument")
			return Null, false
		}
		return BoolVal(env.Rand(args[0].Num)), true

	case "min", "max":
		if len(args) == 0 {
			env.Warnf("%s wants at least one argument", t.name)
			return Null, false
		}
		best := math.Inf(1)
		if t.name == "max" {
			best = math.Inf(-1)
		}
		for _, a := range args {
			if a.Kind != KindNum {
				env.Warnf("%s wants numeric arguments, got %s", t.name, a)
				return Null, false
			}
			if t.name == "min" {
				best = math.Min(best, a.Num)
			} else {
				best = math.Max(best, a.Num)
			}
		}
		return NumVal(best), true

	case "abs":
		if len(args) != 1 || args[0].Kind != KindNum {
			env.Warnf("abs wants one numeric argument")
			return Null, false
		}
		return NumVal(math.Abs(args[0].Num)), true

	case "clamp":
		if len(args) != 3 || args[0].Kind != KindNum || args[1].Kind != KindNum || args[2].Kind != KindNum {
			env.Warnf("clamp wants three numeric arguments")
			return Null, false
		}
		return NumVal(math.Min(math.Max(args[0].Num, args[1].Num), args[2].Num)), true
	}

	v, known := env.Call(t.name, args)
	if !known {
		env.Warnf("unknown function %q", t.name)
		return Null, false
	}
	return v, true
}

func evalGet(t callNode, env Env) (Value, bool) {
	if len(t.args) != 2 {
		env.Warnf("get wants (path, default)")
		return Null, false
	}
	pn, isPath := t.args[0].(pathNode)
	if !isPath {
		env.Warnf("get's first argument must be a path")
		return Null, false
	}
	parts := make([]string, 0, len(pn.segs))
	for _, seg := range pn.segs {
		if seg.index == nil {
			parts = append(parts, seg.ident)
			continue
		}
		idx, ok := eval(seg.index, env)
		if !ok || idx.Kind != KindStr && idx.Kind != KindNum {
			return Null, false
		}
		if idx.Kind == KindStr {
			parts = append(parts, idx.Str)
		} else {
			parts = append(parts, strconv.FormatFloat(idx.Num, 'g', -1, 64))
		}
	}
	if v, found := env.Lookup(parts); found {
		return v, true
	}
	return eval(t.args[1], env)
}

func evalUnary(t unaryNode, env Env) (Value, bool) {
	v, ok := eval(t.x, env)
	if !ok {
		return Null, false
	}
	switch t.op {
	case "not":
		return BoolVal(!v.Truthy()), true
	case "-":
		if v.Kind != KindNum {
			env.Warnf("unary minus on non-number %s", v)
			return Null, false
		}
		return NumVal(-v.Num), true
	}
	return Null, false
}

func evalBinary(t binNode, env Env) (Value, bool) {
	// Boolean operators short-circuit left to right.
	if t.op == "and" || t.op == "or" {
		lhs, ok := eval(t.lhs, env)
		if !ok {
			return Null, false
		}
		if t.op == "and" && !lhs.Truthy() {
			return False, true
		}
		if t.op == "or" && lhs.Truthy() {
			return True, true
		}
		rhs, ok := eval(t.rhs, env)
		if !ok {
			return Null, false
		}
		return BoolVal(rhs.Truthy()), true
	}

	lhs, ok := eval(t.lhs, env)
	if !ok {
		return Null, false
	}
	rhs, ok := eval(t.rhs, env)
	if !ok {
		return Null, false
	}

	switch t.op {
	case "==":
		return BoolVal(Equal(lhs, rhs)), true
	case "!=":
		return BoolVal(!Equal(lhs, rhs)), true

	case "<", "<=", ">", ">=":
		return compare(t.op, lhs, rhs, env)

	case "in":
		return contains(lhs, rhs, env)

	case "+":
		if lhs.Kind == KindNum && rhs.Kind == KindNum {
			return NumVal(lhs.Num + rhs.Num), true
		}
		if lhs.Kind == KindStr && rhs.Kind == KindStr {
			return StrVal(lhs.Str + rhs.Str), true
		}
		env.Warnf("cannot add %s and %s", lhs, rhs)
		return Null, false

	case "-", "*", "/":
		if lhs.Kind != KindNum || rhs.Kind != KindNum {
			env.Warnf("cannot apply %q to %s and %s", t.op, lhs, rhs)
			return Null, false
		}
		switch t.op {
		case "-":
			return NumVal(lhs.Num - rhs.Num), true
		case "*":
			return NumVal(lhs.Num * rhs.Num), true
		case "/":
			if rhs.Num == 0 {
				env.Warnf("division by zero")
				return Null, false
			}
			return NumVal(lhs.Num / rhs.Num), true
		}
	}
	return Null, false
}

func compare(op string, lhs, rhs Value, env Env) (Value, bool) {
	var cmp int
	switch {
	case lhs.Kind == KindNum && rhs.Kind == KindNum:
		switch {
		case lhs.Num < rhs.Num:
			cmp = -1
		case lhs.Num > rhs.Num:
			cmp = 1
		}
	case lhs.Kind == KindStr && rhs.Kind == KindStr:
		switch {
		case lhs.Str < rhs.Str:
			cmp = -1
		case lhs.Str > rhs.Str:
			cmp = 1
		}
	default:
		env.Warnf("cannot order %s and %s", lhs, rhs)
		return Null, false
	}
	switch op {
	case "<":
		return BoolVal(cmp < 0), true
	case "<=":
		return BoolVal(cmp <= 0), true
	case ">":
		return BoolVal(cmp > 0), true
	case ">=":
		return BoolVal(cmp >= 0), true
	}
	return Null, false
}

func contains(needle, haystack Value, env Env) (Value, bool) {
	switch haystack.Kind {
	case KindList:
		for _, e := range haystack.List {
			if Equal(needle, e) {
				return True, true
			}
		}
		return False, true
	case KindStr:
		if needle.Kind != KindStr {
			env.Warnf("'in' on a string wants a string needle, got %s", needle)
			return Null, false
		}
		return BoolVal(strings.Contains(haystack.Str, needle.Str)), true
	}
	env.Warnf("'in' wants a list or string on the right, got %s", haystack)
	return Null, false
}
