package core

// ByteGrid stores a 2D grid of cells in row-major order, one byte per cell.
// A cell is alive when its value is 1.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a zeroed grid after validating the dimensions.
func NewByteGrid(w, h int) (*ByteGrid, error) {
	if err := ValidateDimensions(w, h); err != nil {
		return nil, err
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}, nil
}

// Size reports the grid dimensions.
func (g *ByteGrid) Size() Size { return Size{W: g.W, H: g.H} }

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *ByteGrid) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// At returns the cell at (x, y) under the given boundary policy. Outside the
// grid a dead boundary reads as 0.
func (g *ByteGrid) At(x, y int, b Boundary) uint8 {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		if b == BoundaryDead {
			return 0
		}
		x, y = g.Wrap(x, y)
	}
	return g.data[y*g.W+x]
}

// Set stores v at (x, y). Out of range coordinates are ignored.
func (g *ByteGrid) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.data[y*g.W+x] = v
}

// Population counts live cells.
func (g *ByteGrid) Population() int {
	n := 0
	for _, c := range g.data {
		if c != 0 {
			n++
		}
	}
	return n
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
