package ising

import "mad-ising/internal/core"

// LocalEnergy returns the energy of cell (i, j) with its four cardinal
// neighbours plus its field term:
//
//	E = -J*s(i,j)*(up+down+left+right) - B*s(i,j)
//
// Only bonds touching (i, j) enter, which is what the Metropolis difference
// needs. A 3x3 patch sum would also count bonds between neighbours and skew the
// acceptance probabilities.
func LocalEnergy(g *core.SpinGrid, i, j int, J, B float64) float64 {
	s := float64(g.At(i, j))
	nb := float64(g.At(i-1, j)) + float64(g.At(i+1, j)) + float64(g.At(i, j-1)) + float64(g.At(i, j+1))
	return -J*s*nb - B*s
}

// TotalEnergy sums every bond exactly once by pairing each cell with its right
// and down neighbours only, plus the field energy of all spins.
func TotalEnergy(g *core.SpinGrid, J, B float64) float64 {
	n := g.N
	cells := g.Cells()
	bonds := 0
	field := 0
	for i := 0; i < n; i++ {
		down := ((i + 1) % n) * n
		row := i * n
		for j := 0; j < n; j++ {
			s := int(cells[row+j])
			right := int(cells[row+(j+1)%n])
			below := int(cells[down+j])
			bonds += s * (right + below)
			field += s
		}
	}
	e := -J*float64(bonds) - B*float64(field)
	if e == 0 {
		// -0 would print as "-0.0".
		return 0
	}
	return e
}

// Magnetisation returns the mean spin, in [-1, 1].
func Magnetisation(g *core.SpinGrid) float64 {
	return float64(g.Sum()) / float64(g.Len())
}
