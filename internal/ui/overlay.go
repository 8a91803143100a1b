//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Overlay draws the brush outline and a frame-rate line over the grid.
type Overlay struct {
	showBrush bool
	showStats bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay {
	return &Overlay{showBrush: true}
}

// Update toggles the brush outline (B) and the stats line (F).
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		o.showBrush = !o.showBrush
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		o.showStats = !o.showStats
	}
}

// Draw paints a ring of radius r screen pixels around (cx, cy) and, when
// enabled, the frame rate followed by status.
func (o *Overlay) Draw(screen *ebiten.Image, cx, cy, r float64, status string) {
	if o.showBrush && r > 0 {
		vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), 1, color.RGBA{R: 90, G: 200, B: 255, A: 200}, true)
	}
	if o.showStats {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  FPS %.0f  %s", ebiten.ActualTPS(), ebiten.ActualFPS(), status), 4, 4)
	}
}
