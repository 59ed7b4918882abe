package ising

import (
	"errors"
	"math"

	"mad-ising/internal/core"
	rng "mad-ising/pkg/core"
)

// UpCount returns floor(rho*n*n), the number of up spins placed at
// initialization.
func UpCount(n int, rho float64) int {
	return int(math.Floor(rho * float64(n*n)))
}

// Initialize builds an n x n lattice holding exactly UpCount(n, rho) up spins at
// uniformly random positions.
func Initialize(n int, rho float64, r *rng.RNG) (*core.SpinGrid, error) {
	var errs []error
	if n < 1 {
		errs = append(errs, configErr("size", n, "must be at least 1"))
	}
	if !finite(rho) || rho < 0 || rho > 1 {
		errs = append(errs, configErr("rho", rho, "must be within [0, 1]"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	g := core.NewSpinGrid(n)
	populate(g, UpCount(n, rho), r)
	return g, nil
}

// populate writes up spins into the first `up` cells, the rest down, then
// permutes the cells.
func populate(g *core.SpinGrid, up int, r *rng.RNG) {
	cells := g.Cells()
	for i := range cells {
		if i < up {
			cells[i] = core.SpinUp
			continue
		}
		cells[i] = core.SpinDown
	}
	r.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
}
