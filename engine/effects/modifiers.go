package effects

import (
	"sort"

	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// Activate applies a modifier to an owner. Group stacking is resolved
// here: under highest/lowest the loser is deactivated, and on a priority
// tie the incoming modifier wins. Re-activating an active modifier only
// refreshes its remaining duration.
func Activate(ctx *Context, target, id string, duration int) {
	owner := ctx.ownerOrPlayer(target)
	def, ok := ctx.Defs.Modifiers[id]
	if !ok {
		ctx.warnf("apply_modifier: unknown modifier %q", id)
		return
	}

	if duration <= 0 {
		duration = def.Duration
	}
	var remaining *int
	if duration > 0 {
		d := duration
		remaining = &d
	}

	active := ctx.State.Modifiers[owner]
	if ms, already := active[id]; already {
		ms.Remaining = remaining
		return
	}

	if def.Group != "" && def.Stacking != types.StackAll && def.Stacking != "" {
		for _, other := range sortedModifiers(active) {
			od, exists := ctx.Defs.Modifiers[other]
			if !exists || od.Group != def.Group {
				continue
			}
			keep := od.Priority > def.Priority
			if def.Stacking == types.StackLowest {
				keep = od.Priority < def.Priority
			}
			if keep {
				return
			}
			Deactivate(ctx, owner, other)
		}
	}

	if active == nil {
		active = map[string]*types.ModifierState{}
		ctx.State.Modifiers[owner] = active
	}
	active[id] = &types.ModifierState{Remaining: remaining}

	Apply(ctx, def.OnEnter)
	for meter := range def.ClampMeters {
		state.ClampMeter(ctx.State, ctx.Defs, owner, meter)
	}
}

// Deactivate removes an active modifier and runs its exit effects.
func Deactivate(ctx *Context, target, id string) {
	owner := ctx.ownerOrPlayer(target)
	active := ctx.State.Modifiers[owner]
	if _, ok := active[id]; !ok {
		return
	}
	delete(active, id)
	if def, exists := ctx.Defs.Modifiers[id]; exists {
		Apply(ctx, def.OnExit)
	}
}

func sortedModifiers(active map[string]*types.ModifierState) []string {
	ids := make([]string, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
