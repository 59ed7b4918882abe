package core

import "testing"

func TestRNGDeterministicForSeed(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 100; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("float draw %d differs: %f vs %f", i, x, y)
		}
	}
	if a.Seed() != 42 {
		t.Fatalf("expected seed 42, got %d", a.Seed())
	}
}

func TestRNGIntNDegenerate(t *testing.T) {
	r := NewRNG(1)
	if got := r.IntN(0); got != 0 {
		t.Fatalf("IntN(0) = %d, want 0", got)
	}
	if got := r.IntN(-3); got != 0 {
		t.Fatalf("IntN(-3) = %d, want 0", got)
	}
	for i := 0; i < 50; i++ {
		if got := r.IntN(1); got != 0 {
			t.Fatalf("IntN(1) = %d, want 0", got)
		}
	}
}

func TestShufflePreservesElements(t *testing.T) {
	r := NewRNG(7)
	vals := []int{1, 1, 1, -1, -1, -1, -1}
	r.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
	sum := 0
	for _, v := range vals {
		sum += v
	}
	if sum != -1 {
		t.Fatalf("shuffle changed the multiset, sum=%d", sum)
	}
}
