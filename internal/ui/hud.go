//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"gpu-life/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	panelBG   = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	textFG    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	textDim   = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonBG  = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOff = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

// HUD renders the parameter panel along the right edge of the screen.
type HUD struct {
	*Panel
	title   string
	offsetX int
	canvas  *ebiten.Image
}

// NewHUD constructs a HUD for sim. A non-positive width disables it.
func NewHUD(sim core.ParameterProvider, name string, width int) *HUD {
	if width <= 0 {
		return nil
	}
	title := "controls"
	if name != "" {
		title = name + " controls"
	}
	return &HUD{Panel: NewPanel(sim, width), title: title}
}

// Update refreshes the parameter values and applies a click on a button.
func (h *HUD) Update(offsetX int) {
	if h == nil {
		return
	}
	h.offsetX = offsetX
	h.Refresh()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if mx >= offsetX {
			h.Click(mx-offsetX, my)
		}
	}
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Contains reports whether a screen position falls on the panel.
func (h *HUD) Contains(x, _ int) bool {
	return h != nil && x >= h.offsetX
}

// Draw paints the panel at offsetX, spanning height pixels.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || height <= 0 {
		return
	}
	if h.canvas == nil || h.canvas.Bounds().Dy() != height {
		if h.canvas != nil {
			h.canvas.Dispose()
		}
		h.canvas = ebiten.NewImage(h.width, height)
	}
	h.canvas.Fill(panelBG)

	face := basicfont.Face7x13
	text.Draw(h.canvas, h.title, face, panelPadding, panelPadding+headerBaseline, textFG)
	for i := range h.rows {
		r := &h.rows[i]
		y := rowsTop + i*rowHeight + labelBaseline
		text.Draw(h.canvas, r.ctrl.Label, face, panelPadding, y, textFG)
		val := r.text()
		fg := textFG
		if !r.known {
			fg = textDim
		}
		text.Draw(h.canvas, val, face, r.minus.Min.X-buttonGap-text.BoundString(face, val).Dx(), y, fg)
		h.button(r.minus, "-", r, -1)
		h.button(r.plus, "+", r, 1)
	}
	y := rowsTop + len(h.rows)*rowHeight + statusGap
	for _, line := range h.status() {
		text.Draw(h.canvas, line, face, panelPadding, y, textDim)
		y += statusLine
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.canvas, op)
}

func (h *HUD) button(rect image.Rectangle, label string, r *row, dir int) {
	bg, fg := buttonBG, textFG
	if _, ok := r.target(dir); !ok {
		bg, fg = buttonOff, textDim
	}
	vector.DrawFilledRect(h.canvas, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), bg, false)
	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.canvas, label, face, x, y, fg)
}
