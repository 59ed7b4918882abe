//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"mad-ising/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type observableProvider interface {
	Magnetisation() float64
}

// Overlay plots the recent magnetisation over the lower part of the lattice
// view. Key T toggles it.
type Overlay struct {
	sim   core.Sim
	scale int
	show  bool
	trace *Trace
	pixel *ebiten.Image
}

// NewOverlay constructs an overlay remembering the last capacity samples.
func NewOverlay(sim core.Sim, scale, capacity int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, show: true, trace: NewTrace(capacity)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		o.show = !o.show
	}
}

// Record samples the observables after a sweep.
func (o *Overlay) Record() {
	if p, ok := o.sim.(observableProvider); ok {
		o.trace.Push(p.Magnetisation())
	}
}

// Reset clears the plotted history.
func (o *Overlay) Reset() { o.trace.Reset() }

// Draw renders the trace onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.show || o.trace.Len() < 2 {
		return
	}
	size := o.sim.Size()
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	w := float64(size.W * scale)
	h := float64(size.H*scale) / 4
	top := float64(size.H*scale) - h

	o.drawRect(screen, 0, top, w, h, color.RGBA{R: 0, G: 0, B: 0, A: 160})
	mid := top + h/2
	o.drawLine(screen, 0, mid, w, mid, 1, color.RGBA{R: 90, G: 90, B: 100, A: 200})

	values := o.trace.Values()
	dx := w / float64(len(values)-1)
	y := func(m float64) float64 { return mid - m*(h/2-2) }
	for i := 1; i < len(values); i++ {
		o.drawLine(screen, float64(i-1)*dx, y(values[i-1]), float64(i)*dx, y(values[i]), 2,
			color.RGBA{R: 255, G: 120, B: 40, A: 255})
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
