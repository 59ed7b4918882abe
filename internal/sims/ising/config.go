package ising

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Params holds the physical couplings of the model.
type Params struct {
	J    float64 `yaml:"J"`
	B    float64 `yaml:"B"`
	Beta float64 `yaml:"beta"`
}

// Config controls the lattice dimensions, initial density and run length.
type Config struct {
	Size  int     `yaml:"size"`
	Rho   float64 `yaml:"rho"`
	Steps int     `yaml:"steps"`
	Seed  int64   `yaml:"seed"`

	Params Params `yaml:",inline"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Size:  64,
		Rho:   0.5,
		Steps: 100,
		Seed:  1337,
		Params: Params{
			J:    1,
			B:    0,
			Beta: 0.5,
		},
	}
}

// Spins returns the number of lattice sites, n*n.
func (c Config) Spins() int { return c.Size * c.Size }

// Validate rejects sizes below one, densities outside [0,1], negative beta,
// a non-positive step count and non-finite couplings. All violations are
// reported together.
func (c Config) Validate() error {
	var errs []error
	if c.Size < 1 {
		errs = append(errs, configErr("size", c.Size, "must be at least 1"))
	}
	if !finite(c.Rho) || c.Rho < 0 || c.Rho > 1 {
		errs = append(errs, configErr("rho", c.Rho, "must be within [0, 1]"))
	}
	if c.Steps < 1 {
		errs = append(errs, configErr("steps", c.Steps, "must be at least 1"))
	}
	if !finite(c.Params.J) {
		errs = append(errs, configErr("J", c.Params.J, "must be finite"))
	}
	if !finite(c.Params.B) {
		errs = append(errs, configErr("B", c.Params.B, "must be finite"))
	}
	if !finite(c.Params.Beta) || c.Params.Beta < 0 {
		errs = append(errs, configErr("beta", c.Params.Beta, "must be finite and non-negative"))
	}
	return errors.Join(errs...)
}

// FromMap populates the config from a string map (flag-style key/value pairs)
// on top of the defaults.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	var errs []error
	for k, v := range cfg {
		if err := c.Set(k, v); err != nil {
			errs = append(errs, err)
		}
	}
	return c, errors.Join(errs...)
}

// Set assigns a single value by key. Keys accept both the long names and the
// single-letter aliases of the command line (n, S, b).
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "size", "n":
		v, err := strconv.Atoi(value)
		if err != nil {
			return configErr(key, value, "not an integer")
		}
		c.Size = v
	case "rho":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return configErr(key, value, "not a number")
		}
		c.Rho = v
	case "steps", "S":
		v, err := strconv.Atoi(value)
		if err != nil {
			return configErr(key, value, "not an integer")
		}
		c.Steps = v
	case "seed":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return configErr(key, value, "not an integer")
		}
		c.Seed = v
	case "J", "j":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return configErr(key, value, "not a number")
		}
		c.Params.J = v
	case "B":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return configErr(key, value, "not a number")
		}
		c.Params.B = v
	case "beta", "b":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return configErr(key, value, "not a number")
		}
		c.Params.Beta = v
	default:
		return configErr("key", key, "unknown parameter")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
