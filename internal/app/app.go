//go:build ebiten

package app

import (
	"time"

	"mad-ising/internal/render"
	"mad-ising/internal/sims/ising"
	"mad-ising/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts an Ising model to the ebiten.Game interface. Every tick advances
// the model by a configurable number of sweeps.
type Game struct {
	sim     *ising.Model
	painter *render.LatticePainter
	hud     *ui.HUD
	overlay *ui.Overlay

	scale         int
	hudWidth      int
	sweepsPerTick int
	paused        bool
	tickOnce      bool
	seed          int64
}

// New constructs a Game for the provided model.
func New(sim *ising.Model, cfg *Config) *Game {
	g := &Game{
		sim:           sim,
		painter:       render.NewLatticePainter(render.DefaultSpinColors),
		hud:           ui.NewHUD(sim, cfg.HUDWidth),
		overlay:       ui.NewOverlay(sim, cfg.Scale, cfg.TraceLength),
		scale:         cfg.Scale,
		hudWidth:      cfg.HUDWidth,
		sweepsPerTick: cfg.SweepsPerTick,
		seed:          cfg.Sim.Seed,
	}
	if g.sweepsPerTick < 1 {
		g.sweepsPerTick = 1
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.overlay.Reset()
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.hud.Update(g.sim.Size().W * g.scale)
	g.overlay.Update()

	if !g.paused || g.tickOnce {
		for i := 0; i < g.sweepsPerTick; i++ {
			g.sim.Step()
		}
		g.overlay.Record()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the lattice, the trace overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Paint(screen, g.sim.Grid(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
