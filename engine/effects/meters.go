package effects

import (
	"math"

	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

func applyMeterChange(ctx *Context, e *types.MeterChange) {
	owner := ctx.ownerOrPlayer(e.Target)
	def, ok := ctx.Defs.Meters[e.Meter]
	if !ok {
		ctx.warnf("meter_change on unknown meter %q", e.Meter)
		return
	}
	cur, ok := state.Meter(ctx.State, owner, e.Meter)
	if !ok {
		ctx.warnf("meter_change: owner %q has no meter %q", owner, e.Meter)
		return
	}

	var next float64
	switch e.Op {
	case types.OpAdd:
		next = cur + e.Value
	case types.OpSubtract:
		next = cur - e.Value
	case types.OpSet:
		next = e.Value
	case types.OpMultiply:
		next = cur * e.Value
	case types.OpDivide:
		if e.Value == 0 {
			ctx.warnf("meter_change: divide %s.%s by zero", owner, e.Meter)
			return
		}
		next = cur / e.Value
	default:
		ctx.warnf("meter_change: unknown op %q", e.Op)
		return
	}

	// The per-turn budget is shared across every effect source of the
	// turn. Set operations are expressed as their implied delta.
	if e.CapPerTurn && def.DeltaCapPerTurn > 0 {
		key := MeterKey{Owner: owner, Meter: e.Meter}
		spent := ctx.MeterLedger[key]
		budget := def.DeltaCapPerTurn - spent
		if budget <= 0 {
			return
		}
		delta := next - cur
		if math.Abs(delta) > budget {
			if delta > 0 {
				next = cur + budget
			} else {
				next = cur - budget
			}
		}
	}

	if e.RespectCaps {
		min, max, ok := state.EffectiveRange(ctx.State, ctx.Defs, owner, e.Meter)
		if ok {
			if next < min {
				next = min
			} else if next > max {
				next = max
			}
		}
	}

	if e.CapPerTurn && def.DeltaCapPerTurn > 0 {
		key := MeterKey{Owner: owner, Meter: e.Meter}
		ctx.MeterLedger[key] += math.Abs(next - cur)
	}
	state.SetMeter(ctx.State, owner, e.Meter, next)
}

func applyFlagSet(ctx *Context, e *types.FlagSet) {
	def, ok := ctx.Defs.Flags[e.Key]
	if !ok {
		ctx.warnf("flag_set on unknown flag %q", e.Key)
		return
	}
	if !sameFlagType(def.Default, e.Value) {
		ctx.warnf("flag_set: %q value %T does not match its definition", e.Key, e.Value)
		return
	}
	ctx.State.Flags[e.Key] = e.Value
}

// sameFlagType treats every numeric representation as one type; flag
// numbers normalize to float64 through JSON round-trips anyway.
func sameFlagType(def, v any) bool {
	return flagTypeName(def) == flagTypeName(v)
}

func flagTypeName(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case string:
		return "string"
	case int, int64, float64:
		return "number"
	default:
		return "other"
	}
}
