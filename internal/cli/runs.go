package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mad-ising/internal/metrics"
	"mad-ising/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded runs or print the trace of one run",
		Long: `Without arguments, list every run stored in the database. With a run id,
print its trace as "{step}\t{magnetisation}\t{energy}" lines.

Example:
  ising runs --db runs.db
  ising runs --db runs.db 018f3c1e-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listRuns(cmd *cobra.Command, opts *RunsOptions, args []string) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		if _, err := st.Run(ctx, args[0]); err != nil {
			return WrapExitError(ExitCommandError, "unknown run", err)
		}
		records, err := st.Records(ctx, args[0])
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read metrics", err)
		}
		for _, rec := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\n", rec.Step, metrics.FormatValue(rec.Magnetisation), metrics.FormatValue(rec.Energy))
		}
		return nil
	}

	runs, err := st.Runs(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read runs", err)
	}
	fmt.Fprintf(w, "%-36s  %-11s  %5s  %7s  %7s  %7s  %9s  %s\n",
		"id", "status", "n", "beta", "J", "B", "steps", "started")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-11s  %5d  %7.4f  %7.4f  %7.4f  %4d/%-4d  %s\n",
			r.ID, r.Status, r.Config.Size, r.Config.Params.Beta, r.Config.Params.J, r.Config.Params.B,
			r.Completed, r.Config.Steps, r.StartedAt.Local().Format(time.DateTime))
	}
	return nil
}
