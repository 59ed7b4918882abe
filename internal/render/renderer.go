//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"mad-ising/internal/core"
)

// LatticePainter uploads the spin lattice into a texture once per frame and
// draws it with every cell as a scale x scale square.
type LatticePainter struct {
	colors SpinColors
	n      int
	img    *ebiten.Image
	buf    []byte
}

// NewLatticePainter returns a painter drawing spins in colors. The texture is
// sized on first use.
func NewLatticePainter(colors SpinColors) *LatticePainter {
	return &LatticePainter{colors: colors}
}

// Paint draws g onto dst at the top-left corner.
func (p *LatticePainter) Paint(dst *ebiten.Image, g *core.SpinGrid, scale int) {
	if g == nil || g.N < 1 {
		return
	}
	if scale < 1 {
		scale = 1
	}
	if p.img == nil || p.n != g.N {
		p.n = g.N
		p.img = ebiten.NewImage(g.N, g.N)
		p.buf = make([]byte, 4*g.Len())
	}
	fillSpinRGBA(p.buf, g.Cells(), p.colors)
	p.img.WritePixels(p.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}
