//go:build ebiten

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"mad-ising/internal/app"
	"mad-ising/internal/cli"
	"mad-ising/internal/sims/ising"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(pflag.CommandLine)
	verbose := pflag.BoolP("verbose", "v", false, "verbose output")
	pflag.Parse()

	logger := cli.NewLogger(os.Stderr, *verbose)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(cli.ExitCommandError)
	}

	model, err := ising.NewWithConfig(cfg.Sim)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(cli.ExitCommandError)
	}

	game := app.New(model, cfg)
	size := model.Size()

	ebiten.SetWindowTitle(fmt.Sprintf("mad-ising: n=%d beta=%g", size.W, cfg.Sim.Params.Beta))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	logger.Info("viewer starting", "size", size.W, "seed", cfg.Sim.Seed, "tps", cfg.TPS)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("viewer stopped", "error", err)
		os.Exit(cli.ExitFailure)
	}
}
