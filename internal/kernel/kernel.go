// Package kernel holds the per-cell Game of Life transition and the pointer
// injection, written over row ranges so backends can tile them freely.
package kernel

import (
	"math"

	"gpu-life/internal/core"
)

// Next applies B3/S23 to a single cell.
func Next(alive bool, neighbors int) uint8 {
	if neighbors == 3 || (alive && neighbors == 2) {
		return 1
	}
	return 0
}

// StepRows computes rows [y0, y1) of the next generation of src into dst.
// src is never written, and each dst cell depends only on src, so disjoint
// row ranges may run concurrently.
func StepRows(src, dst *core.ByteGrid, y0, y1 int, b core.Boundary) {
	w, h := src.W, src.H
	cur := src.Cells()
	nxt := dst.Cells()
	for y := y0; y < y1; y++ {
		interior := y > 0 && y < h-1
		for x := 0; x < w; x++ {
			neighbors := 0
			if interior && x > 0 && x < w-1 {
				up := (y-1)*w + x
				mid := y*w + x
				down := (y+1)*w + x
				neighbors = int(cur[up-1]) + int(cur[up]) + int(cur[up+1]) +
					int(cur[mid-1]) + int(cur[mid+1]) +
					int(cur[down-1]) + int(cur[down]) + int(cur[down+1])
			} else {
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						neighbors += int(src.At(x+dx, y+dy, b))
					}
				}
			}
			idx := y*w + x
			nxt[idx] = Next(cur[idx] == 1, neighbors)
		}
	}
}

// Step computes the full next generation of src into dst.
func Step(src, dst *core.ByteGrid, b core.Boundary) {
	StepRows(src, dst, 0, src.H, b)
}

// InjectRows marks alive every cell in rows [y0, y1) whose centre lies within
// radius of (px, py). Cells are only ever set, never cleared.
func InjectRows(g *core.ByteGrid, px, py, radius float64, y0, y1 int) {
	if radius < 0 {
		return
	}
	r2 := radius * radius
	lo, hi := columnSpan(g.W, px, radius)
	cells := g.Cells()
	for y := y0; y < y1; y++ {
		dy := float64(y) - py
		if dy*dy > r2 {
			continue
		}
		for x := lo; x <= hi; x++ {
			dx := float64(x) - px
			if dx*dx+dy*dy <= r2 {
				cells[y*g.W+x] = 1
			}
		}
	}
}

// Inject applies InjectRows to the whole grid.
func Inject(g *core.ByteGrid, px, py, radius float64) {
	y0, y1 := RowSpan(g.H, py, radius)
	InjectRows(g, px, py, radius, y0, y1)
}

// RowSpan returns the half-open row range a disc can touch, clipped to h.
func RowSpan(h int, py, radius float64) (int, int) {
	lo, hi := columnSpan(h, py, radius)
	if hi < lo {
		return 0, 0
	}
	return lo, hi + 1
}

func columnSpan(n int, c, radius float64) (int, int) {
	lo := math.Ceil(c - radius)
	hi := math.Floor(c + radius)
	if lo < 0 {
		lo = 0
	}
	if hi > float64(n-1) {
		hi = float64(n - 1)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || hi < lo {
		return 0, -1
	}
	return int(lo), int(hi)
}
