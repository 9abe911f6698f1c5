package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every call, enabling exact replay.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// TurnRNG derives the RNG for one turn from the session base seed and
// the turn counter. Same base seed and turn always yield the same draws,
// independent of how many draws earlier turns made.
func TurnRNG(baseSeed int64, turn int) *RNG {
	return NewRNG(baseSeed + int64(turn)*0x9E3779B9)
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with a positive total.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r.pos++
	roll := r.src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Percent reports a draw with probability p, where p is a percentage.
// p <= 0 never passes and p >= 100 always passes.
func (r *RNG) Percent(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 100 {
		return true
	}
	r.pos++
	return r.src.Float64()*100 < p
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
