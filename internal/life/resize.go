package life

import (
	"math"

	"gpu-life/internal/core"
)

// ResizePolicy turns viewport sizes into grid sizes and remembers the last
// viewport it saw. Each simulation driver owns its own policy.
type ResizePolicy struct {
	Scale float64
	// Width and Height pin the grid size when positive.
	Width  int
	Height int

	lastW, lastH int
}

// NewResizePolicy builds a policy from the scale and fixed-size overrides in cfg.
func NewResizePolicy(cfg Config) *ResizePolicy {
	cfg = cfg.Normalize()
	return &ResizePolicy{Scale: cfg.ResolutionScale, Width: cfg.Width, Height: cfg.Height}
}

// Target returns the grid size for a viewport: floor(view * scale), at least
// 1x1, unless pinned.
func (p *ResizePolicy) Target(viewW, viewH int) core.Size {
	scale := p.Scale
	if !(scale > 0) {
		scale = 1
	}
	size := core.Size{
		W: max(1, int(math.Floor(float64(viewW)*scale))),
		H: max(1, int(math.Floor(float64(viewH)*scale))),
	}
	if p.Width > 0 {
		size.W = p.Width
	}
	if p.Height > 0 {
		size.H = p.Height
	}
	return size
}

// Observe records the viewport and reports whether it differs from the
// previous observation. The first observation is always a change.
func (p *ResizePolicy) Observe(viewW, viewH int) (core.Size, bool) {
	changed := viewW != p.lastW || viewH != p.lastH
	if changed {
		p.lastW, p.lastH = viewW, viewH
	}
	return p.Target(p.lastW, p.lastH), changed
}

// ToGrid maps a viewport position to grid coordinates for a grid of the given size.
func (p *ResizePolicy) ToGrid(x, y float64, grid core.Size) Point {
	if p.lastW <= 0 || p.lastH <= 0 {
		return Point{X: x, Y: y}
	}
	return Point{
		X: x * float64(grid.W) / float64(p.lastW),
		Y: y * float64(grid.H) / float64(p.lastH),
	}
}
