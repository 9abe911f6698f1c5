// Package clock resolves action time costs and advances the unified
// minutes-based game clock, including day rollover. Day-end effects run
// before normalization and day-start effects after, so authors can key
// either side off the day counter.
package clock

import (
	"math"
	"sort"

	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// DayMinutes is the length of one in-game day.
const DayMinutes = 1440

// Class is the broad kind of player action for default time costing.
type Class int

const (
	Conversation Class = iota // AI-narrated free actions
	Choice                    // deterministic choices
	Movement                  // local movement without a zone cost
)

// CategoryMinutes looks up a named time category.
func CategoryMinutes(defs *types.GameDef, category string) (int, bool) {
	m, ok := defs.Time.Categories[category]
	return m, ok
}

// Multiplier returns the product of the player's active modifiers'
// time multipliers, clamped to [0.5, 2.0]. A zero multiplier on a
// modifier means unset and contributes nothing.
func Multiplier(s *types.GameState, defs *types.GameDef) float64 {
	mult := 1.0
	for id := range s.Modifiers[state.Player] {
		def, ok := defs.Modifiers[id]
		if !ok || def.TimeMultiplier == 0 {
			continue
		}
		mult *= def.TimeMultiplier
	}
	if mult < 0.5 {
		mult = 0.5
	} else if mult > 2.0 {
		mult = 2.0
	}
	return mult
}

// Scale applies a multiplier to base minutes, rounding to the nearest
// whole minute.
func Scale(base int, mult float64) int {
	if base <= 0 {
		return 0
	}
	return int(math.Round(float64(base) * mult))
}

// ActionCost resolves the base minutes of an action. Priority: explicit
// cost, then named category, then the node's time_behavior category for
// conversation actions, then the class default. The returned capped flag
// reports whether the per-node conversation budget applies; explicit and
// category costs bypass it.
func ActionCost(defs *types.GameDef, node *types.NodeDef, explicit int, category string, class Class) (minutes int, capped bool) {
	if explicit > 0 {
		return explicit, false
	}
	if category != "" {
		if m, ok := CategoryMinutes(defs, category); ok {
			return m, false
		}
	}
	if class == Conversation && node != nil && node.TimeBehavior != "" {
		if m, ok := CategoryMinutes(defs, node.TimeBehavior); ok {
			return m, true
		}
	}
	switch class {
	case Conversation:
		return defs.Time.DefaultConversation, true
	case Choice:
		return defs.Time.DefaultChoice, false
	default:
		return defs.Time.DefaultMovement, false
	}
}

// CapConversation clamps conversation minutes to what remains of the
// current node visit's budget. Zero cap means unlimited.
func CapConversation(s *types.GameState, defs *types.GameDef, minutes int) int {
	budget := defs.Time.NodeVisitCap
	if budget <= 0 {
		return minutes
	}
	remain := budget - s.NodeVisitMinutes
	if remain < 0 {
		remain = 0
	}
	if minutes > remain {
		minutes = remain
	}
	return minutes
}

// Advance adds minutes to the clock. On crossing midnight the day-end
// effects run first, then the clock normalizes and meters decay, then the
// day-start effects run. The apply callback routes authored effect lists
// through the resolver.
func Advance(s *types.GameState, defs *types.GameDef, minutes int, apply func([]types.Effect)) {
	if minutes <= 0 {
		return
	}
	s.Time.Minutes += minutes
	for s.Time.Minutes >= DayMinutes {
		if apply != nil {
			apply(defs.Time.DayEndEffects)
		}
		s.Time.Minutes -= DayMinutes
		s.Time.Day++
		s.Time.Weekday = nextWeekday(defs, s.Time.Weekday)
		decayMeters(s, defs)
		if apply != nil {
			apply(defs.Time.DayStartEffects)
		}
	}
}

func nextWeekday(defs *types.GameDef, current string) string {
	days := state.Weekdays(defs)
	for i, d := range days {
		if d == current {
			return days[(i+1)%len(days)]
		}
	}
	return days[0]
}

// decayMeters applies each meter's day_decay to every owner carrying it,
// clamped to the effective range.
func decayMeters(s *types.GameState, defs *types.GameDef) {
	owners := make([]string, 0, len(s.Meters))
	for owner := range s.Meters {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		for meter, v := range s.Meters[owner] {
			md, ok := defs.Meters[meter]
			if !ok || md.DayDecay == 0 {
				continue
			}
			next := v - md.DayDecay
			if min, max, has := state.EffectiveRange(s, defs, owner, meter); has {
				if next < min {
					next = min
				} else if next > max {
					next = max
				}
			}
			state.SetMeter(s, owner, meter, next)
		}
	}
}
