package ai

import (
	"context"
	"fmt"
	"strings"
)

// Stub is an offline Writer and Checker for play without an API key and
// for deterministic tests. The narrative is a plain restatement of the
// scene; the delta is always empty and safe.
type Stub struct{}

// Narrate implements Writer.
func (Stub) Narrate(_ context.Context, env *Envelope) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.", env.Action)
	if len(env.Characters) > 0 {
		names := make([]string, len(env.Characters))
		for i, c := range env.Characters {
			names[i] = c.Name
		}
		fmt.Fprintf(&b, " %s %s here.", strings.Join(names, " and "), isAre(len(names)))
	}
	if len(env.Beats) > 0 {
		fmt.Fprintf(&b, " %s", env.Beats[0])
	}
	return b.String(), nil
}

// Check implements Checker.
func (Stub) Check(_ context.Context, _ *Envelope, _ string) (*Delta, error) {
	d := &Delta{}
	d.Safety.OK = true
	return d, nil
}

func isAre(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
