package ising

import (
	"math"

	"mad-ising/internal/core"
	rng "mad-ising/pkg/core"
)

// Trial records one proposed single-spin flip.
type Trial struct {
	I, J     int
	Before   float64
	After    float64
	Accepted bool
}

// Delta returns After - Before.
func (t Trial) Delta() float64 { return t.After - t.Before }

// Accept applies the Metropolis criterion. Energy-lowering moves are taken
// without consuming a random draw; otherwise one uniform p is drawn and the move
// is accepted iff p < exp(-beta*dE).
func Accept(dE, beta float64, r *rng.RNG) bool {
	if dE < 0 {
		return true
	}
	return r.Float64() < math.Exp(-beta*dE)
}

// Step performs one Metropolis trial on a uniformly chosen cell. The flip is
// applied, evaluated and reverted on rejection, so a rejected trial leaves the
// grid unchanged.
func Step(g *core.SpinGrid, p Params, r *rng.RNG) Trial {
	i := r.IntN(g.N)
	j := r.IntN(g.N)
	t := Trial{I: i, J: j}
	t.Before = LocalEnergy(g, i, j, p.J, p.B)
	g.Flip(i, j)
	t.After = LocalEnergy(g, i, j, p.J, p.B)
	t.Accepted = Accept(t.Delta(), p.Beta, r)
	if !t.Accepted {
		g.Flip(i, j)
	}
	return t
}
