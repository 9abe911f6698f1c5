// Package ai is the engine's prose boundary. The Writer turns a turn
// envelope into narrative text; the Checker reads that narrative back
// into a structured delta. The engine validates every delta before any
// of it touches state; a rejected delta costs the turn nothing.
package ai

import (
	"context"
	"errors"
)

// ErrUnavailable reports that no AI backend is configured.
var ErrUnavailable = errors.New("ai backend unavailable")

// Writer generates the turn's narrative prose.
type Writer interface {
	Narrate(ctx context.Context, env *Envelope) (string, error)
}

// Checker extracts state changes implied by the narrative as a
// structured delta.
type Checker interface {
	Check(ctx context.Context, env *Envelope, narrative string) (*Delta, error)
}
