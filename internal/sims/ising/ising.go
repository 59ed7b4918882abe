package ising

import (
	"mad-ising/internal/core"
	rng "mad-ising/pkg/core"
)

// Model owns one lattice and the random stream driving it. Step advances the
// chain by one sweep of n*n Metropolis trials.
type Model struct {
	cfg Config

	grid *core.SpinGrid
	rng  *rng.RNG

	sweeps    int
	attempted uint64
	accepted  uint64
}

// New returns a model of the given size using defaults for everything else.
func New(n int) (*Model, error) {
	cfg := DefaultConfig()
	cfg.Size = n
	return NewWithConfig(cfg)
}

// NewWithConfig validates cfg and returns a model initialized from cfg.Seed.
func NewWithConfig(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		cfg:  cfg,
		grid: core.NewSpinGrid(cfg.Size),
	}
	m.Reset(cfg.Seed)
	return m, nil
}

// Name returns the simulation identifier.
func (m *Model) Name() string { return "ising" }

// Size reports the grid dimensions.
func (m *Model) Size() core.Size { return core.Size{W: m.cfg.Size, H: m.cfg.Size} }

// Config returns the configuration the model was built with.
func (m *Model) Config() Config { return m.cfg }

// Params returns the current couplings.
func (m *Model) Params() Params { return m.cfg.Params }

// Grid exposes the lattice. Callers must not retain it across Reset.
func (m *Model) Grid() *core.SpinGrid { return m.grid }

// Seed reports the seed of the active random stream.
func (m *Model) Seed() int64 { return m.rng.Seed() }

// Sweeps returns the number of completed sweeps since the last Reset.
func (m *Model) Sweeps() int { return m.sweeps }

// Acceptance returns the attempted and accepted trial counts since the last
// Reset.
func (m *Model) Acceptance() (attempted, accepted uint64) { return m.attempted, m.accepted }

// AcceptanceRatio returns accepted/attempted, or 0 before the first trial.
func (m *Model) AcceptanceRatio() float64 {
	if m.attempted == 0 {
		return 0
	}
	return float64(m.accepted) / float64(m.attempted)
}

// Reset rebuilds the lattice with a fresh random stream. A zero seed falls back
// to the configured seed.
func (m *Model) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = m.cfg.Seed
	}
	m.rng = rng.NewRNG(effective)
	populate(m.grid, UpCount(m.cfg.Size, m.cfg.Rho), m.rng)
	m.sweeps = 0
	m.attempted = 0
	m.accepted = 0
}

// Trial performs a single Metropolis trial.
func (m *Model) Trial() Trial {
	t := Step(m.grid, m.cfg.Params, m.rng)
	m.attempted++
	if t.Accepted {
		m.accepted++
	}
	return t
}

// Step advances the simulation by one sweep of n*n trials.
func (m *Model) Step() {
	total := m.grid.Len()
	for k := 0; k < total; k++ {
		m.Trial()
	}
	m.sweeps++
}

// Magnetisation returns the mean spin of the current lattice.
func (m *Model) Magnetisation() float64 { return Magnetisation(m.grid) }

// Energy returns the total energy of the current lattice.
func (m *Model) Energy() float64 {
	return TotalEnergy(m.grid, m.cfg.Params.J, m.cfg.Params.B)
}
