package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"mad-ising/internal/core"
)

// Gray levels used for spins in snapshots.
const (
	GrayUp   uint8 = 255
	GrayDown uint8 = 0
)

// SpinColors holds the display colors of the two spin states.
type SpinColors struct {
	Up, Down color.RGBA
}

// DefaultSpinColors matches the snapshot palette: up white, down black.
var DefaultSpinColors = SpinColors{
	Up:   color.RGBA{R: GrayUp, G: GrayUp, B: GrayUp, A: 255},
	Down: color.RGBA{R: GrayDown, G: GrayDown, B: GrayDown, A: 255},
}

// fillSpinRGBA writes one RGBA pixel per spin into buf.
func fillSpinRGBA(buf []byte, spins []int8, c SpinColors) {
	up := [4]byte{c.Up.R, c.Up.G, c.Up.B, c.Up.A}
	down := [4]byte{c.Down.R, c.Down.G, c.Down.B, c.Down.A}
	for i, s := range spins {
		px := down
		if s == core.SpinUp {
			px = up
		}
		copy(buf[i*4:i*4+4], px[:])
	}
}

// GrayImage renders the lattice as an 8-bit grayscale image, up spins white and
// down spins black. Pixel (x, y) is cell (row y, column x).
func GrayImage(g *core.SpinGrid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.N, g.N))
	for i, s := range g.Cells() {
		if s == core.SpinUp {
			img.Pix[i] = GrayUp
			continue
		}
		img.Pix[i] = GrayDown
	}
	return img
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling so
// every cell stays a crisp square. Factors below 2 return img unchanged.
func Upscale(img *image.Gray, factor int) *image.Gray {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
