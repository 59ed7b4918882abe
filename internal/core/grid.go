package core

// Spin values stored in a SpinGrid.
const (
	SpinUp   int8 = 1
	SpinDown int8 = -1
)

// SpinGrid stores an n x n lattice of +1/-1 spins in row-major order. Row i and
// column j address the cell; all accessors wrap coordinates so the lattice
// behaves as a torus.
type SpinGrid struct {
	N    int
	data []int8
}

// NewSpinGrid allocates an n x n grid with every spin down.
func NewSpinGrid(n int) *SpinGrid {
	if n <= 0 {
		n = 1
	}
	g := &SpinGrid{N: n, data: make([]int8, n*n)}
	g.Fill(SpinDown)
	return g
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *SpinGrid) Cells() []int8 { return g.data }

// Len returns the number of cells, n*n.
func (g *SpinGrid) Len() int { return len(g.data) }

// Index returns the linear slice index for already wrapped coordinates (i, j).
func (g *SpinGrid) Index(i, j int) int { return i*g.N + j }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *SpinGrid) Wrap(i, j int) (int, int) {
	i = (i%g.N + g.N) % g.N
	j = (j%g.N + g.N) % g.N
	return i, j
}

// At returns the spin at (i, j) after wrapping.
func (g *SpinGrid) At(i, j int) int8 {
	i, j = g.Wrap(i, j)
	return g.data[i*g.N+j]
}

// Set writes the spin at (i, j) after wrapping.
func (g *SpinGrid) Set(i, j int, s int8) {
	i, j = g.Wrap(i, j)
	g.data[i*g.N+j] = s
}

// Flip negates the spin at (i, j).
func (g *SpinGrid) Flip(i, j int) {
	i, j = g.Wrap(i, j)
	g.data[i*g.N+j] = -g.data[i*g.N+j]
}

// Fill sets every cell to s.
func (g *SpinGrid) Fill(s int8) {
	for i := range g.data {
		g.data[i] = s
	}
}

// Sum returns the sum of all spins.
func (g *SpinGrid) Sum() int {
	total := 0
	for _, s := range g.data {
		total += int(s)
	}
	return total
}

// CountUp returns the number of +1 spins.
func (g *SpinGrid) CountUp() int {
	up := 0
	for _, s := range g.data {
		if s == SpinUp {
			up++
		}
	}
	return up
}

// Clone returns an independent copy of the grid.
func (g *SpinGrid) Clone() *SpinGrid {
	return &SpinGrid{N: g.N, data: append([]int8(nil), g.data...)}
}

// Equal reports whether both grids hold identical spins.
func (g *SpinGrid) Equal(other *SpinGrid) bool {
	if other == nil || other.N != g.N {
		return false
	}
	for i, s := range g.data {
		if other.data[i] != s {
			return false
		}
	}
	return true
}
