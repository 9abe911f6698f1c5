package engine

import "testing"

func TestTurnRNGIsReproducible(t *testing.T) {
	a := TurnRNG(42, 3)
	b := TurnRNG(42, 3)
	for i := 0; i < 20; i++ {
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
	if a.Position() != 20 {
		t.Errorf("position = %d, want 20", a.Position())
	}
}

func TestTurnRNGVariesByTurn(t *testing.T) {
	a := TurnRNG(42, 3)
	b := TurnRNG(42, 4)
	same := true
	for i := 0; i < 10; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			same = false
		}
	}
	if same {
		t.Error("different turns produced identical draw sequences")
	}
}

func TestWeightedSelectRespectsWeights(t *testing.T) {
	r := NewRNG(7)
	counts := [3]int{}
	for i := 0; i < 3000; i++ {
		counts[r.WeightedSelect([]int{0, 1, 9})]++
	}
	if counts[0] != 0 {
		t.Errorf("zero-weight index drawn %d times", counts[0])
	}
	if counts[2] < counts[1] {
		t.Errorf("weight 9 drawn %d times, weight 1 drawn %d", counts[2], counts[1])
	}
}

func TestPercentBounds(t *testing.T) {
	r := NewRNG(7)
	if r.Percent(0) || r.Percent(-5) {
		t.Error("non-positive probability passed")
	}
	if !r.Percent(100) || !r.Percent(150) {
		t.Error("certain probability failed")
	}
	// Bound checks make no draws, so the position is untouched.
	if r.Position() != 0 {
		t.Errorf("position = %d, want 0", r.Position())
	}

	hits := 0
	for i := 0; i < 2000; i++ {
		if r.Percent(30) {
			hits++
		}
	}
	if hits < 400 || hits > 800 {
		t.Errorf("30%% draw hit %d of 2000", hits)
	}
}
