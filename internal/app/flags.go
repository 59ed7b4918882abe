package app

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"mad-ising/internal/sims/ising"
)

// Config represents the command-line parameters of the live viewer.
type Config struct {
	Sim ising.Config

	Scale         int
	TPS           int
	HUDWidth      int
	SweepsPerTick int
	TraceLength   int
}

// NewConfig returns a Config populated with viewer defaults.
func NewConfig() *Config {
	sim := ising.DefaultConfig()
	sim.Size = 128
	return &Config{
		Sim:           sim,
		Scale:         4,
		TPS:           30,
		HUDWidth:      240,
		SweepsPerTick: 1,
		TraceLength:   256,
	}
}

// Bind attaches the configuration to the provided FlagSet. Model flags use
// the same names as the batch command.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.IntVarP(&c.Sim.Size, "size", "s", c.Sim.Size, "lattice side length n")
	fs.Float64VarP(&c.Sim.Rho, "rho", "r", c.Sim.Rho, "initial fraction of up spins")
	fs.Float64VarP(&c.Sim.Params.J, "J_value", "J", c.Sim.Params.J, "exchange coupling J")
	fs.Float64VarP(&c.Sim.Params.B, "B_value", "B", c.Sim.Params.B, "external field B")
	fs.Float64VarP(&c.Sim.Params.Beta, "beta_value", "b", c.Sim.Params.Beta, "inverse temperature beta")
	fs.Int64Var(&c.Sim.Seed, "seed", c.Sim.Seed, "seed for simulation reset")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.HUDWidth, "hud-width", c.HUDWidth, "width of the control panel in pixels; 0 hides it")
	fs.IntVar(&c.SweepsPerTick, "sweeps-per-tick", c.SweepsPerTick, "sweeps performed per tick")
	fs.IntVar(&c.TraceLength, "trace", c.TraceLength, "magnetisation samples kept by the overlay")
}

// Validate checks the viewer settings and the model configuration.
func (c *Config) Validate() error {
	errs := []error{c.Sim.Validate()}
	if c.Scale < 1 {
		errs = append(errs, fmt.Errorf("scale %d: must be at least 1", c.Scale))
	}
	if c.TPS < 1 {
		errs = append(errs, fmt.Errorf("tps %d: must be at least 1", c.TPS))
	}
	if c.HUDWidth < 0 {
		errs = append(errs, fmt.Errorf("hud-width %d: must not be negative", c.HUDWidth))
	}
	if c.SweepsPerTick < 1 {
		errs = append(errs, fmt.Errorf("sweeps-per-tick %d: must be at least 1", c.SweepsPerTick))
	}
	return errors.Join(errs...)
}
