// Package arcs advances ordered milestone progressions. Each turn an
// arc moves at most one stage forward, when the next stage's guard
// holds. Stages never regress.
package arcs

import (
	"github.com/solenne/loom/engine/effects"
	"github.com/solenne/loom/types"
)

// Milestone is one stage reached this turn.
type Milestone struct {
	Arc   string
	Stage string
}

// Advance checks every arc in authoring order and returns the milestones
// reached. Entering a stage runs the current stage's exit effects first,
// then the new stage's enter effects.
func Advance(ctx *effects.Context) []Milestone {
	var reached []Milestone
	for _, id := range ctx.Defs.ArcOrder {
		ad, ok := ctx.Defs.Arcs[id]
		if !ok || len(ad.Stages) == 0 {
			continue
		}
		as := ctx.State.Arcs[id]
		cur := ""
		if as != nil {
			cur = as.Stage
		}
		next, curStage, ok := nextStage(ad, cur)
		if !ok {
			continue
		}
		if !ad.Repeatable && entered(as, next.ID) {
			continue
		}
		if !ctx.Eval.Pass(next.Guard) {
			continue
		}

		if curStage != nil {
			effects.Apply(ctx, curStage.OnExit)
		}
		effects.Apply(ctx, next.OnEnter)

		if as == nil {
			as = &types.ArcState{}
			ctx.State.Arcs[id] = as
		}
		as.Stage = next.ID
		as.History = append(as.History, next.ID)
		reached = append(reached, Milestone{Arc: id, Stage: next.ID})
	}
	return reached
}

// nextStage returns the stage after cur in authoring order, plus the
// current stage's definition when there is one. An empty cur means the
// arc has not started and the first stage is next.
func nextStage(ad types.ArcDef, cur string) (next types.StageDef, current *types.StageDef, ok bool) {
	if cur == "" {
		return ad.Stages[0], nil, true
	}
	for i := range ad.Stages {
		if ad.Stages[i].ID != cur {
			continue
		}
		if i+1 >= len(ad.Stages) {
			return types.StageDef{}, nil, false
		}
		return ad.Stages[i+1], &ad.Stages[i], true
	}
	return types.StageDef{}, nil, false
}

func entered(as *types.ArcState, stage string) bool {
	if as == nil {
		return false
	}
	for _, s := range as.History {
		if s == stage {
			return true
		}
	}
	return false
}
