// Package cli implements the ising command line: single runs, temperature
// sweeps, parameter inspection and run history.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the ising CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ising",
		Short: "2D Ising model Metropolis Monte Carlo simulator",
		Long: `Simulate a square lattice of +/-1 spins with periodic boundaries using
single-spin-flip Metropolis updates. Each macrostep performs n*n trials and
records magnetisation and energy; snapshots, animations, charts and a SQLite
run history are optional outputs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))

	return cmd
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
