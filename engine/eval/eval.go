// Package eval binds the expression DSL to a live game. An Evaluator
// carries the definitions, the session state, the per-turn gate snapshot,
// and the turn RNG, and exposes the path namespaces and builtin functions
// the DSL reads.
package eval

import (
	"fmt"
	"log/slog"

	"github.com/solenne/loom/engine/expr"
	"github.com/solenne/loom/types"
)

// Evaluator implements expr.Env over one session. It is rebuilt cheaply
// per turn with that turn's RNG and gate snapshot; the compiled-program
// cache persists for the engine's lifetime.
type Evaluator struct {
	Defs  *types.GameDef
	State *types.GameState

	// Gates is the per-turn gate snapshot, set once gates are evaluated.
	Gates map[string]map[string]types.GateResult

	// RandFunc draws from the turn's seeded RNG; p is a percentage.
	RandFunc func(p float64) bool

	// WarnFunc receives non-fatal evaluation warnings. Defaults to slog.
	WarnFunc func(format string, args ...any)

	cache map[string]*expr.Program
}

// New creates an evaluator for one session.
func New(defs *types.GameDef, st *types.GameState) *Evaluator {
	return NewCached(defs, st, map[string]*expr.Program{})
}

// NewCached creates an evaluator over a shared compile cache, so an
// engine rebuilding its evaluator each turn compiles every guard once.
func NewCached(defs *types.GameDef, st *types.GameState, cache map[string]*expr.Program) *Evaluator {
	return &Evaluator{
		Defs:  defs,
		State: st,
		cache: cache,
	}
}

// Eval evaluates one expression; malformed or unresolvable input yields
// a falsey value, never an error.
func (ev *Evaluator) Eval(src string) expr.Value {
	prog, ok := ev.compiled(src)
	if !ok {
		return expr.False
	}
	return prog.Eval(ev)
}

// Truthy evaluates one expression to a boolean.
func (ev *Evaluator) Truthy(src string) bool {
	return ev.Eval(src).Truthy()
}

// Pass evaluates an effect/gate guard. Empty guards pass.
func (ev *Evaluator) Pass(g types.Guard) bool {
	switch {
	case g.When != "":
		return ev.Truthy(g.When)
	case len(g.WhenAll) > 0:
		for _, e := range g.WhenAll {
			if !ev.Truthy(e) {
				return false
			}
		}
		return true
	case len(g.WhenAny) > 0:
		for _, e := range g.WhenAny {
			if ev.Truthy(e) {
				return true
			}
		}
		return false
	}
	return true
}

// compiled returns the cached program for src, compiling on first use.
// Expressions that fail to compile are cached as rejected and stay false.
func (ev *Evaluator) compiled(src string) (*expr.Program, bool) {
	if prog, seen := ev.cache[src]; seen {
		return prog, prog != nil
	}
	prog, err := expr.Compile(src)
	if err != nil {
		ev.Warnf("rejecting expression %q: %v", src, err)
		ev.cache[src] = nil
		return nil, false
	}
	ev.cache[src] = prog
	return prog, true
}

// Warnf implements expr.Env.
func (ev *Evaluator) Warnf(format string, args ...any) {
	if ev.WarnFunc != nil {
		ev.WarnFunc(format, args...)
		return
	}
	slog.Warn("expression warning", "detail", fmt.Sprintf(format, args...))
}

// Rand implements expr.Env. p is a percentage chance in [0,100].
func (ev *Evaluator) Rand(p float64) bool {
	if ev.RandFunc == nil {
		return false
	}
	return ev.RandFunc(p)
}
