package state

import "github.com/solenne/loom/types"

// Meter returns the current value of a meter, or (0, false) when the
// owner or meter does not exist.
func Meter(s *types.GameState, owner, meter string) (float64, bool) {
	om, ok := s.Meters[owner]
	if !ok {
		return 0, false
	}
	v, ok := om[meter]
	return v, ok
}

// SetMeter writes a meter value without clamping. Callers that want the
// clamp invariant use EffectiveRange first; the effects resolver is the
// only writer in practice.
func SetMeter(s *types.GameState, owner, meter string, v float64) {
	om, ok := s.Meters[owner]
	if !ok {
		om = map[string]float64{}
		s.Meters[owner] = om
	}
	om[meter] = v
}

// EffectiveRange returns the clamp range for a meter on an owner,
// tightened by any active modifier's ClampMeters entries.
func EffectiveRange(s *types.GameState, defs *types.GameDef, owner, meter string) (min, max float64, ok bool) {
	md, found := defs.Meters[meter]
	if !found {
		return 0, 0, false
	}
	min, max = md.Min, md.Max
	for id := range s.Modifiers[owner] {
		def, exists := defs.Modifiers[id]
		if !exists {
			continue
		}
		clamp, has := def.ClampMeters[meter]
		if !has {
			continue
		}
		if clamp.Min != nil && *clamp.Min > min {
			min = *clamp.Min
		}
		if clamp.Max != nil && *clamp.Max < max {
			max = *clamp.Max
		}
	}
	if min > max {
		min = max
	}
	return min, max, true
}

// ClampMeter re-applies the effective range to one meter in place.
// Used when a clamping modifier activates.
func ClampMeter(s *types.GameState, defs *types.GameDef, owner, meter string) {
	v, ok := Meter(s, owner, meter)
	if !ok {
		return
	}
	min, max, ok := EffectiveRange(s, defs, owner, meter)
	if !ok {
		return
	}
	if v < min {
		SetMeter(s, owner, meter, min)
	} else if v > max {
		SetMeter(s, owner, meter, max)
	}
}
