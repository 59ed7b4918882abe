package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mad-ising/internal/core"
	"mad-ising/internal/sims/ising"
)

// ParamsOptions holds flags for the params command.
type ParamsOptions struct {
	*RootOptions
	ConfigPath string
	Format     string

	sim simFlags
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParamsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the resolved parameters and initial observables",
		Long: `Resolve defaults, the optional run file, --set overrides and flags exactly
as "run" does, build the initial lattice and print the parameter groups.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showParams(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML run file")
	fs.StringVar(&opts.Format, "format", "text", "output format (text|yaml)")
	opts.sim.bind(fs)

	return cmd
}

func showParams(cmd *cobra.Command, opts *ParamsOptions) error {
	if opts.Format != "text" && opts.Format != "yaml" {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be text or yaml", opts.Format))
	}
	rf, err := resolveRunFile(cmd.Flags(), opts.ConfigPath, &opts.sim, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	model, err := ising.NewWithConfig(rf.Simulation)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	w := cmd.OutOrStdout()
	if opts.Format == "yaml" {
		return writeSnapshotYAML(w, model.Parameters())
	}
	writeSnapshot(w, model.Parameters())
	return nil
}

func writeSnapshot(w io.Writer, snap core.ParameterSnapshot) {
	for i, g := range snap.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(w, "  %-14s %-22s %s\n", p.Key, p.Label, p.Value)
		}
	}
}

type yamlParam struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

type yamlGroup struct {
	Name   string      `yaml:"name"`
	Params []yamlParam `yaml:"params"`
}

func writeSnapshotYAML(w io.Writer, snap core.ParameterSnapshot) error {
	groups := make([]yamlGroup, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		yg := yamlGroup{Name: g.Name}
		for _, p := range g.Params {
			yg.Params = append(yg.Params, yamlParam{Key: p.Key, Label: p.Label, Type: string(p.Type), Value: p.Value})
		}
		groups = append(groups, yg)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(groups); err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	return enc.Close()
}
