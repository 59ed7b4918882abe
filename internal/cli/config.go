package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"mad-ising/internal/sims/ising"
)

// DefaultEnergyFile is the energy trace written unless disabled.
const DefaultEnergyFile = "energy.txt"

// DefaultSnapshotPrefix is used when an animation is requested without a
// snapshot prefix.
const DefaultSnapshotPrefix = "image_"

// OutputConfig selects the optional outputs of a run. Empty names disable
// the corresponding output.
type OutputConfig struct {
	Prefix        string `yaml:"prefix"`
	Animation     string `yaml:"animation"`
	Magnetisation string `yaml:"magnetisation"`
	Energy        string `yaml:"energy"`
	Plot          string `yaml:"plot"`
	DB            string `yaml:"db"`
	Scale         int    `yaml:"scale"`
	BurnIn        int    `yaml:"burn_in"`
}

// RunFile is the YAML layout accepted by --config.
type RunFile struct {
	Simulation ising.Config `yaml:"simulation"`
	Output     OutputConfig `yaml:"output"`
}

// DefaultRunFile returns the settings used when nothing is configured.
func DefaultRunFile() RunFile {
	return RunFile{
		Simulation: ising.DefaultConfig(),
		Output: OutputConfig{
			Energy: DefaultEnergyFile,
			Scale:  1,
		},
	}
}

// LoadRunFile decodes a YAML run file over rf. Unknown keys are rejected.
func LoadRunFile(path string, rf *RunFile) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(rf); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// MagnetisationPath appends ".txt" to names without an extension.
func MagnetisationPath(name string) string {
	if name == "" || filepath.Ext(name) != "" {
		return name
	}
	return name + ".txt"
}

// Validate checks the output settings that do not belong to the model.
func (o OutputConfig) Validate() error {
	var errs []error
	if o.Scale < 1 {
		errs = append(errs, &ising.ConfigError{Field: "scale", Value: fmt.Sprint(o.Scale), Reason: "must be at least 1"})
	}
	if o.BurnIn < 0 {
		errs = append(errs, &ising.ConfigError{Field: "burn-in", Value: fmt.Sprint(o.BurnIn), Reason: "must not be negative"})
	}
	return errors.Join(errs...)
}

// simFlags binds the model flags into a scratch config; only flags the user
// actually set are copied onto the resolved configuration.
type simFlags struct {
	cfg  ising.Config
	sets []string
}

func (f *simFlags) bind(fs *pflag.FlagSet) {
	d := ising.DefaultConfig()
	f.cfg = d
	fs.IntVarP(&f.cfg.Size, "size", "s", d.Size, "lattice side length n")
	fs.Float64VarP(&f.cfg.Rho, "rho", "r", d.Rho, "initial fraction of up spins")
	fs.Float64VarP(&f.cfg.Params.J, "J_value", "J", d.Params.J, "exchange coupling J")
	fs.Float64VarP(&f.cfg.Params.B, "B_value", "B", d.Params.B, "external field B")
	fs.Float64VarP(&f.cfg.Params.Beta, "beta_value", "b", d.Params.Beta, "inverse temperature beta")
	fs.IntVarP(&f.cfg.Steps, "steps", "S", d.Steps, "number of macrosteps")
	fs.Int64Var(&f.cfg.Seed, "seed", d.Seed, "random seed")
	fs.StringArrayVar(&f.sets, "set", nil, "parameter override in key=value form (repeatable)")
}

// apply layers --set overrides and then explicitly changed flags onto cfg.
func (f *simFlags) apply(fs *pflag.FlagSet, cfg *ising.Config) error {
	var errs []error
	for _, kv := range f.sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			errs = append(errs, &ising.ConfigError{Field: "set", Value: kv, Reason: "expected key=value"})
			continue
		}
		if err := cfg.Set(strings.TrimSpace(key), value); err != nil {
			errs = append(errs, err)
		}
	}
	copyIfChanged(fs, "size", &cfg.Size, f.cfg.Size)
	copyIfChanged(fs, "rho", &cfg.Rho, f.cfg.Rho)
	copyIfChanged(fs, "J_value", &cfg.Params.J, f.cfg.Params.J)
	copyIfChanged(fs, "B_value", &cfg.Params.B, f.cfg.Params.B)
	copyIfChanged(fs, "beta_value", &cfg.Params.Beta, f.cfg.Params.Beta)
	copyIfChanged(fs, "steps", &cfg.Steps, f.cfg.Steps)
	copyIfChanged(fs, "seed", &cfg.Seed, f.cfg.Seed)
	return errors.Join(errs...)
}

type outputFlags struct {
	out OutputConfig
}

func (f *outputFlags) bind(fs *pflag.FlagSet) {
	d := DefaultRunFile().Output
	f.out = d
	fs.StringVarP(&f.out.Prefix, "prefix", "p", d.Prefix, "snapshot file prefix; writes {prefix}{step}.png")
	fs.StringVarP(&f.out.Animation, "animation", "a", d.Animation, "animation name (.gif appended without extension, .avi for video)")
	fs.StringVarP(&f.out.Magnetisation, "magnetisation", "m", d.Magnetisation, "magnetisation trace file (.txt appended without extension)")
	fs.StringVar(&f.out.Energy, "energy", d.Energy, "energy trace file; empty disables")
	fs.StringVar(&f.out.Plot, "plot", d.Plot, "write a PNG chart of the traces")
	fs.StringVar(&f.out.DB, "db", d.DB, "SQLite database recording the run")
	fs.IntVar(&f.out.Scale, "scale", d.Scale, "snapshot pixel scale")
	fs.IntVar(&f.out.BurnIn, "burn-in", d.BurnIn, "macrosteps excluded from the summary statistics")
}

func (f *outputFlags) apply(fs *pflag.FlagSet, out *OutputConfig) {
	copyIfChanged(fs, "prefix", &out.Prefix, f.out.Prefix)
	copyIfChanged(fs, "animation", &out.Animation, f.out.Animation)
	copyIfChanged(fs, "magnetisation", &out.Magnetisation, f.out.Magnetisation)
	copyIfChanged(fs, "energy", &out.Energy, f.out.Energy)
	copyIfChanged(fs, "plot", &out.Plot, f.out.Plot)
	copyIfChanged(fs, "db", &out.DB, f.out.DB)
	copyIfChanged(fs, "scale", &out.Scale, f.out.Scale)
	copyIfChanged(fs, "burn-in", &out.BurnIn, f.out.BurnIn)
}

func copyIfChanged[T any](fs *pflag.FlagSet, name string, dst *T, v T) {
	if fs.Lookup(name) != nil && fs.Changed(name) {
		*dst = v
	}
}

// resolveRunFile layers defaults, the optional YAML file, --set overrides and
// explicit flags, then validates the result.
func resolveRunFile(fs *pflag.FlagSet, configPath string, sim *simFlags, out *outputFlags) (RunFile, error) {
	rf := DefaultRunFile()
	if configPath != "" {
		if err := LoadRunFile(configPath, &rf); err != nil {
			return RunFile{}, err
		}
	}
	if err := sim.apply(fs, &rf.Simulation); err != nil {
		return RunFile{}, err
	}
	if out != nil {
		out.apply(fs, &rf.Output)
	}
	errs := []error{rf.Simulation.Validate()}
	if out != nil {
		errs = append(errs, rf.Output.Validate())
		if rf.Output.Plot != "" && rf.Simulation.Steps < 2 {
			errs = append(errs, &ising.ConfigError{Field: "plot", Value: rf.Output.Plot, Reason: "a chart needs at least 2 steps"})
		}
	}
	if err := errors.Join(errs...); err != nil {
		return RunFile{}, err
	}
	return rf, nil
}
