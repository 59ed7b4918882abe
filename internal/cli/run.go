package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mad-ising/internal/driver"
	"mad-ising/internal/metrics"
	"mad-ising/internal/render"
	"mad-ising/internal/sims/ising"
	"mad-ising/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath string
	NoProgress bool

	sim simFlags
	out outputFlags
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one Metropolis chain",
		Long: `Run a single Metropolis chain for S macrosteps of n*n trials each.

Magnetisation and energy are appended to their trace files after every
macrostep as "{step}\t{value}" lines. With --prefix every macrostep is also
saved as a grayscale PNG, and --animation assembles those frames afterwards.

Example:
  ising run -s 64 -b 0.44 -S 200 -m magnetisation
  ising run --config run.yaml --set beta=0.6 -p frames/image_ -a ising`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML run file")
	fs.BoolVar(&opts.NoProgress, "no-progress", false, "disable the progress display")
	opts.sim.bind(fs)
	opts.out.bind(fs)

	return cmd
}

func runSimulation(cmd *cobra.Command, opts *RunOptions) error {
	logger := NewLogger(cmd.ErrOrStderr(), opts.Verbose)

	rf, err := resolveRunFile(cmd.Flags(), opts.ConfigPath, &opts.sim, &opts.out)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	model, err := ising.NewWithConfig(rf.Simulation)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, err := openSinks(ctx, rf, logger)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to open outputs", err)
	}
	defer sinks.close(logger)

	timings := metrics.NewTimings()
	dopts := sinks.options
	dopts.Logger = logger
	dopts.Timings = timings
	if !opts.NoProgress {
		dopts.Progress = driver.NewReporter(cmd.ErrOrStderr(), logger)
	}

	res, runErr := driver.New(model, dopts).Run(ctx)
	var finalizeErr *driver.FinalizeError
	interrupted := res.Interrupted && errors.Is(runErr, context.Canceled) && !errors.As(runErr, &finalizeErr)

	if err := sinks.finish(res, runErr); err != nil {
		logger.Error("failed to record run outcome", "error", err)
	}

	if runErr != nil && !interrupted {
		return WrapExitError(ExitFailure, "run failed", runErr)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Time: %.3f s\n", res.Duration.Seconds())
	summary := metrics.Summarize(sinks.series.Records(), rf.Output.BurnIn, rf.Simulation.Spins(), rf.Simulation.Params.Beta)
	printSummary(w, res, summary, timings, sinks.runID())
	if interrupted {
		logger.Warn("run interrupted; outputs cover the completed macrosteps", "completed", res.Completed)
	}
	return nil
}

// runSinks owns every output opened for a run.
type runSinks struct {
	options driver.Options
	series  *metrics.Series
	files   *metrics.Files
	db      *store.Store
	dbRun   *store.RunWriter
}

func openSinks(ctx context.Context, rf RunFile, logger *slog.Logger) (*runSinks, error) {
	s := &runSinks{series: &metrics.Series{}}
	s.options.Metrics = append(s.options.Metrics, s.series)

	out := rf.Output
	files, err := metrics.OpenFiles(MagnetisationPath(out.Magnetisation), out.Energy)
	if err != nil {
		return nil, err
	}
	s.files = files
	s.options.Metrics = append(s.options.Metrics, files)
	for _, p := range files.Paths() {
		logger.Debug("trace file opened", "path", p)
	}

	if out.DB != "" {
		db, err := store.Open(out.DB)
		if err != nil {
			s.close(logger)
			return nil, err
		}
		s.db = db
		run, err := db.BeginRun(ctx, rf.Simulation)
		if err != nil {
			s.close(logger)
			return nil, err
		}
		s.dbRun = run
		s.options.Metrics = append(s.options.Metrics, run)
		logger.Info("recording run", "db", out.DB, "run", run.ID())
	}

	prefix := out.Prefix
	if prefix == "" && out.Animation != "" {
		prefix = DefaultSnapshotPrefix
	}
	if prefix != "" {
		s.options.Snapshots = &render.PNGSnapshots{Prefix: prefix, Scale: out.Scale}
	}

	if out.Plot != "" {
		plot := &metrics.Plot{Path: out.Plot, Spins: rf.Simulation.Spins()}
		s.options.Metrics = append(s.options.Metrics, plot)
		s.options.Finalizers = append(s.options.Finalizers, plot)
	}
	if out.Animation != "" {
		s.options.Finalizers = append(s.options.Finalizers, &render.Animation{Prefix: prefix, Name: out.Animation})
	}
	return s, nil
}

func (s *runSinks) runID() string {
	if s.dbRun == nil {
		return ""
	}
	return s.dbRun.ID()
}

func (s *runSinks) finish(res driver.Result, runErr error) error {
	if s.dbRun == nil {
		return nil
	}
	return s.dbRun.Finish(store.Outcome{
		Status:    runStatus(res, runErr),
		Completed: res.Completed,
		Attempted: res.Attempted,
		Accepted:  res.Accepted,
		Duration:  res.Duration,
	})
}

func (s *runSinks) close(logger *slog.Logger) {
	if s.files != nil {
		if err := s.files.Close(); err != nil {
			logger.Error("error closing trace files", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}
}

func printSummary(w io.Writer, res driver.Result, s metrics.Summary, timings *metrics.Timings, runID string) {
	fmt.Fprintf(w, "Macrosteps:     %d/%d\n", res.Completed, res.Steps)
	fmt.Fprintf(w, "Acceptance:     %.4f\n", res.AcceptanceRatio())
	if s.Samples > 0 {
		fmt.Fprintf(w, "Samples:        %d\n", s.Samples)
		fmt.Fprintf(w, "<m>:            %.6f +/- %.6f\n", s.MeanMag, s.StdMag)
		fmt.Fprintf(w, "<|m|>:          %.6f\n", s.MeanAbsMag)
		fmt.Fprintf(w, "<E>/N:          %.6f +/- %.6f\n", s.MeanEnergy, s.StdEnergy)
		fmt.Fprintf(w, "Heat capacity:  %.6f\n", s.HeatCapacity)
		fmt.Fprintf(w, "Susceptibility: %.6f\n", s.Susceptibility)
	}
	for _, ts := range timings.All() {
		fmt.Fprintf(w, "Phase %-9s n=%-6d total=%.3fs mean=%.6fs sd=%.6fs\n",
			ts.Name, ts.Count, ts.Total.Seconds(), ts.Mean, ts.StdDev)
	}
	if runID != "" {
		fmt.Fprintf(w, "Run ID:         %s\n", runID)
	}
}

// runStatus maps a driver outcome to the stored status. A failed finalizer
// marks the run failed even after an interrupt.
func runStatus(res driver.Result, runErr error) string {
	var finalizeErr *driver.FinalizeError
	switch {
	case errors.As(runErr, &finalizeErr):
		return store.StatusFailed
	case res.Interrupted:
		return store.StatusInterrupted
	case runErr != nil:
		return store.StatusFailed
	}
	return store.StatusCompleted
}
