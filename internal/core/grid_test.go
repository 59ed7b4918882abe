package core

import "testing"

func TestSpinGridWrap(t *testing.T) {
	g := NewSpinGrid(4)
	cases := []struct {
		i, j   int
		wi, wj int
	}{
		{0, 0, 0, 0},
		{4, 0, 0, 0},
		{-1, 0, 3, 0},
		{0, -1, 0, 3},
		{5, 9, 1, 1},
		{-5, -9, 3, 3},
	}
	for _, tc := range cases {
		i, j := g.Wrap(tc.i, tc.j)
		if i != tc.wi || j != tc.wj {
			t.Fatalf("Wrap(%d,%d) = (%d,%d), want (%d,%d)", tc.i, tc.j, i, j, tc.wi, tc.wj)
		}
	}
}

func TestSpinGridFlipAndCount(t *testing.T) {
	g := NewSpinGrid(3)
	if g.CountUp() != 0 || g.Sum() != -9 {
		t.Fatalf("new grid should be all down, up=%d sum=%d", g.CountUp(), g.Sum())
	}
	g.Flip(3, 3) // wraps to (0,0)
	if g.At(0, 0) != SpinUp {
		t.Fatal("flip through wrapped coordinates should reach (0,0)")
	}
	if g.CountUp() != 1 || g.Sum() != -7 {
		t.Fatalf("expected one up spin, up=%d sum=%d", g.CountUp(), g.Sum())
	}
	g.Flip(0, 0)
	if g.At(0, 0) != SpinDown {
		t.Fatal("double flip should restore the spin")
	}
}

func TestSpinGridCloneEqual(t *testing.T) {
	g := NewSpinGrid(5)
	g.Set(2, 3, SpinUp)
	c := g.Clone()
	if !g.Equal(c) {
		t.Fatal("clone should equal original")
	}
	c.Flip(1, 1)
	if g.Equal(c) {
		t.Fatal("clone must not share storage with the original")
	}
	if g.Equal(NewSpinGrid(4)) {
		t.Fatal("grids of different size must not be equal")
	}
}

func TestNewSpinGridClampsSize(t *testing.T) {
	g := NewSpinGrid(0)
	if g.N != 1 || g.Len() != 1 {
		t.Fatalf("expected 1x1 grid, got N=%d len=%d", g.N, g.Len())
	}
}
