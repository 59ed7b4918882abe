package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a metrics trace. Energies are per spin.
type Summary struct {
	Samples int

	MeanMag    float64
	StdMag     float64
	MeanAbsMag float64

	MeanEnergy float64
	StdEnergy  float64

	// HeatCapacity is beta^2 * N * Var(e) per spin.
	HeatCapacity float64
	// Susceptibility is beta * N * Var(|m|) per spin.
	Susceptibility float64
}

// Summarize computes trace statistics over records after discarding the first
// burnIn of them. spins is n*n; beta scales the fluctuation estimates.
func Summarize(records []Record, burnIn, spins int, beta float64) Summary {
	if burnIn < 0 {
		burnIn = 0
	}
	if burnIn >= len(records) || spins <= 0 {
		return Summary{}
	}
	kept := records[burnIn:]
	mags := Magnetisations(kept)
	abs := make([]float64, len(mags))
	for i, m := range mags {
		abs[i] = math.Abs(m)
	}
	energies := Energies(kept)
	for i := range energies {
		energies[i] /= float64(spins)
	}

	s := Summary{Samples: len(kept)}
	s.MeanMag = stat.Mean(mags, nil)
	s.MeanAbsMag = stat.Mean(abs, nil)
	s.MeanEnergy = stat.Mean(energies, nil)
	if len(kept) < 2 {
		return s
	}
	s.StdMag = stat.StdDev(mags, nil)
	s.StdEnergy = stat.StdDev(energies, nil)
	s.HeatCapacity = beta * beta * float64(spins) * stat.Variance(energies, nil)
	s.Susceptibility = beta * float64(spins) * stat.Variance(abs, nil)
	return s
}
