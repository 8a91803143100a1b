//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"gpu-life/internal/core"
)

// GridPainter uploads host cells into an image and draws it scaled to the
// screen. The image is recreated when the grid size changes.
type GridPainter struct {
	size core.Size
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter returns an empty painter.
func NewGridPainter() *GridPainter { return &GridPainter{} }

// Blit draws cells stretched over a dstW x dstH area of dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, size core.Size, on, off color.Color, dstW, dstH int) {
	if len(cells) != size.Cells() || size.Cells() == 0 {
		return
	}
	if gp.img == nil || gp.size != size {
		if gp.img != nil {
			gp.img.Dispose()
		}
		gp.img = ebiten.NewImage(size.W, size.H)
		gp.buf = make([]byte, 4*size.Cells())
		gp.size = size
	}
	FillRGBA(gp.buf, cells, on, off)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dstW)/float64(size.W), float64(dstH)/float64(size.H))
	dst.DrawImage(gp.img, op)
}
