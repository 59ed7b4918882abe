//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"

	"mad-ising/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the coupling controls and live observables to the right of the
// lattice view. Controls respond to the mouse and to the arrow keys.
type HUD struct {
	sim      core.Sim
	width    int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	snapshot core.ParameterSnapshot

	controls []core.ParameterControl
	states   []ControlState
	rects    []controlRects
	setter   core.FloatParameterSetter
	selected int

	panelOffsetX int
	title        string
}

type controlRects struct {
	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, width: width, title: fmt.Sprintf("%s controls", sim.Name())}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		h.controls = provider.ParameterControls()
		h.layoutControls()
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		h.setter = setter
	}
	return h
}

// Update refreshes the snapshot and applies pending input.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
	h.states = ControlStates(h.controls, h.snapshot)
	h.handleKeys()
	h.handleMouse()
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawControls()
	h.drawObservables()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) handleKeys() {
	if len(h.states) == 0 {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		h.selected = (h.selected + 1) % len(h.states)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		h.selected = (h.selected + len(h.states) - 1) % len(h.states)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		h.adjust(h.selected, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		h.adjust(h.selected, -1)
	}
}

func (h *HUD) handleMouse() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i, r := range h.rects {
		if image.Pt(px, my).In(r.minus) {
			h.selected = i
			h.adjust(i, -1)
			return
		}
		if image.Pt(px, my).In(r.plus) {
			h.selected = i
			h.adjust(i, 1)
			return
		}
	}
}

func (h *HUD) adjust(i, direction int) {
	if h.setter == nil || i < 0 || i >= len(h.states) {
		return
	}
	state := &h.states[i]
	if !state.HasValue {
		return
	}
	target, ok := NextValue(state.Control, state.Value, direction)
	if !ok {
		return
	}
	if h.setter.SetFloatParameter(state.Control.Key, target) {
		state.Value = target
		state.Text = FormatControlValue(state.Control, target)
	}
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	h.rects = make([]controlRects, len(h.controls))
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		h.rects[i] = controlRects{top: top, minus: minus, plus: plus}
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, headerColor)
	if len(h.states) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, panelPadding+headerBaseline+infoSpacing, dimColor)
		return
	}
	for i, state := range h.states {
		r := h.rects[i]
		labelColor := textColor
		if i == h.selected {
			labelColor = selectedColor
		}
		text.Draw(h.panel, state.Control.Label, face, panelPadding, r.top+labelBaseline, labelColor)

		valueColor := textColor
		if !state.HasValue {
			valueColor = dimColor
		}
		width := text.BoundString(face, state.Text).Dx()
		text.Draw(h.panel, state.Text, face, r.minus.Min.X-buttonGap-width, r.top+labelBaseline, valueColor)

		_, canDown := NextValue(state.Control, state.Value, -1)
		_, canUp := NextValue(state.Control, state.Value, 1)
		h.drawButton(r.minus, "-", state.HasValue && h.setter != nil && canDown)
		h.drawButton(r.plus, "+", state.HasValue && h.setter != nil && canUp)
	}
}

func (h *HUD) drawObservables() {
	face := basicfont.Face7x13
	y := controlsTop + len(h.controls)*lineHeight + infoSpacing
	for _, group := range h.snapshot.Groups {
		if group.Name != "Run" && group.Name != "Observables" {
			continue
		}
		text.Draw(h.panel, group.Name, face, panelPadding, y, headerColor)
		y += rowHeight
		for _, p := range group.Params {
			text.Draw(h.panel, p.Label, face, panelPadding, y, dimColor)
			width := text.BoundString(face, p.Value).Dx()
			text.Draw(h.panel, p.Value, face, h.width-panelPadding-width, y, textColor)
			y += rowHeight
		}
		y += rowHeight / 2
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

var (
	headerColor   = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	textColor     = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor      = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	selectedColor = color.RGBA{R: 255, G: 200, B: 90, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 36
	rowHeight      = 16
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	controlsTop    = panelPadding + headerBaseline + 14
)
