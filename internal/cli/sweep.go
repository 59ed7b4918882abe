package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mad-ising/internal/driver"
	"mad-ising/internal/metrics"
	"mad-ising/internal/sims/ising"
	"mad-ising/internal/store"
)

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	ConfigPath string
	Betas      []float64
	From       float64
	To         float64
	Points     int
	Workers    int
	BurnIn     int
	DB         string

	sim simFlags
}

type sweepResult struct {
	index    int
	beta     float64
	seed     int64
	summary  metrics.Summary
	result   driver.Result
	runID    string
	duration time.Duration
	err      error
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run independent chains across inverse temperatures",
		Long: `Run one chain per beta value on a worker pool and print summary
statistics per temperature. Every chain owns its lattice and random stream;
chain k is seeded with seed+k.

Example:
  ising sweep -s 32 -S 400 --burn-in 100 --from 0.2 --to 0.7 --points 11
  ising sweep --betas 0.3,0.44,0.6 --workers 2 --db sweep.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML run file (simulation section)")
	fs.Float64SliceVar(&opts.Betas, "betas", nil, "explicit beta values")
	fs.Float64Var(&opts.From, "from", 0.1, "first beta of the range")
	fs.Float64Var(&opts.To, "to", 1.0, "last beta of the range")
	fs.IntVar(&opts.Points, "points", 10, "number of beta values in the range")
	fs.IntVar(&opts.Workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	fs.IntVar(&opts.BurnIn, "burn-in", 0, "macrosteps excluded from the statistics")
	fs.StringVar(&opts.DB, "db", "", "SQLite database recording every chain")
	opts.sim.bind(fs)

	return cmd
}

// BetaRange returns points evenly spaced values from lo to hi inclusive.
func BetaRange(lo, hi float64, points int) []float64 {
	if points < 1 {
		return nil
	}
	if points == 1 {
		return []float64{lo}
	}
	out := make([]float64, points)
	step := (hi - lo) / float64(points-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[points-1] = hi
	return out
}

func runSweep(cmd *cobra.Command, opts *SweepOptions) error {
	logger := NewLogger(cmd.ErrOrStderr(), opts.Verbose)

	rf, err := resolveRunFile(cmd.Flags(), opts.ConfigPath, &opts.sim, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	base := rf.Simulation

	betas := opts.Betas
	if len(betas) == 0 {
		betas = BetaRange(opts.From, opts.To, opts.Points)
	}
	if len(betas) == 0 {
		return NewExitError(ExitCommandError, "no beta values to sweep")
	}
	if opts.BurnIn < 0 {
		return NewExitError(ExitCommandError, "burn-in must not be negative")
	}
	var cfgErrs []error
	configs := make([]ising.Config, len(betas))
	for i, beta := range betas {
		cfg := base
		cfg.Params.Beta = beta
		cfg.Seed = base.Seed + int64(i)
		if err := cfg.Validate(); err != nil {
			cfgErrs = append(cfgErrs, err)
		}
		configs[i] = cfg
	}
	if err := errors.Join(cfgErrs...); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var db *store.Store
	if opts.DB != "" {
		db, err = store.Open(opts.DB)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to open database", err)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("sweep starting", "chains", len(configs), "workers", workers,
		"size", base.Size, "steps", base.Steps)

	jobs := make(chan int)
	results := make(chan sweepResult)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results <- runChain(ctx, idx, configs[idx], opts.BurnIn, db, logger)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for idx := range configs {
			select {
			case jobs <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	start := time.Now()
	var all []sweepResult
	var errs []error
	for res := range results {
		if res.err != nil && !errors.Is(res.err, context.Canceled) {
			errs = append(errs, fmt.Errorf("beta %g: %w", res.beta, res.err))
		}
		logger.Debug("chain finished", "beta", res.beta, "seed", res.seed, "run", res.runID,
			"abs_mag", res.summary.MeanAbsMag, "duration", res.duration.Round(time.Millisecond))
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].index < all[j].index })

	w := cmd.OutOrStdout()
	printSweep(w, all)
	fmt.Fprintf(w, "Time: %.3f s\n", time.Since(start).Seconds())

	if err := errors.Join(errs...); err != nil {
		return WrapExitError(ExitFailure, "sweep failed", err)
	}
	if ctx.Err() != nil {
		logger.Warn("sweep interrupted", "finished", len(all), "chains", len(configs))
	}
	return nil
}

func runChain(ctx context.Context, idx int, cfg ising.Config, burnIn int, db *store.Store, logger *slog.Logger) sweepResult {
	out := sweepResult{index: idx, beta: cfg.Params.Beta, seed: cfg.Seed}
	model, err := ising.NewWithConfig(cfg)
	if err != nil {
		out.err = err
		return out
	}

	series := &metrics.Series{}
	dopts := driver.Options{
		Logger:  logger,
		Metrics: []driver.MetricsSink{series},
	}
	var run *store.RunWriter
	if db != nil {
		run, err = db.BeginRun(ctx, cfg)
		if err != nil {
			out.err = err
			return out
		}
		out.runID = run.ID()
		dopts.Metrics = append(dopts.Metrics, run)
	}

	res, err := driver.New(model, dopts).Run(ctx)
	out.result = res
	out.duration = res.Duration
	out.err = err
	out.summary = metrics.Summarize(series.Records(), burnIn, cfg.Spins(), cfg.Params.Beta)

	if run != nil {
		finishErr := run.Finish(store.Outcome{
			Status:    runStatus(res, err),
			Completed: res.Completed,
			Attempted: res.Attempted,
			Accepted:  res.Accepted,
			Duration:  res.Duration,
		})
		if finishErr != nil && out.err == nil {
			out.err = finishErr
		}
	}
	return out
}

func printSweep(w io.Writer, results []sweepResult) {
	fmt.Fprintf(w, "%8s %8s %10s %10s %10s %10s %10s %8s\n",
		"beta", "steps", "<m>", "<|m|>", "<E>/N", "C", "chi", "accept")
	for _, r := range results {
		s := r.summary
		fmt.Fprintf(w, "%8.4f %8d %10.5f %10.5f %10.5f %10.5f %10.5f %8.4f\n",
			r.beta, r.result.Completed, s.MeanMag, s.MeanAbsMag, s.MeanEnergy,
			s.HeatCapacity, s.Susceptibility, r.result.AcceptanceRatio())
	}
}
