package life

import (
	"fmt"

	"gpu-life/internal/core"
)

// GridState owns the read and write buffers. Only GridState allocates,
// releases or swaps them; the read buffer is the current generation and the
// write buffer is never observed outside a step.
type GridState struct {
	backend core.Backend

	size  core.Size
	read  core.Buffer
	write core.Buffer

	seed       int64
	generation uint64
	host       []uint8
}

// NewGridState returns an empty state backed by b.
func NewGridState(b core.Backend) *GridState {
	return &GridState{backend: b}
}

// Reset allocates a w x h buffer pair and seeds the read buffer: cells are
// visited in row-major order and each is alive iff its draw from an RNG
// seeded with seed is below aliveRate. aliveRate is clamped to [0, 1].
//
// The existing pair is only released once the new pair is allocated and
// seeded; on error the previous state is left as it was.
func (g *GridState) Reset(w, h int, seed int64, aliveRate float64) error {
	if err := core.ValidateDimensions(w, h); err != nil {
		return err
	}
	aliveRate = Config{AliveRate: aliveRate}.Normalize().AliveRate
	size := core.Size{W: w, H: h}

	read, err := g.backend.Alloc(size)
	if err != nil {
		return fmt.Errorf("allocate read buffer %dx%d: %w", w, h, err)
	}
	write, err := g.backend.Alloc(size)
	if err != nil {
		g.backend.Release(read)
		return fmt.Errorf("allocate write buffer %dx%d: %w", w, h, err)
	}

	cells := g.scratch(size.Cells())
	core.FillAlive(core.NewRNG(seed).Source(), cells, aliveRate)
	if err := g.backend.Upload(read, cells); err != nil {
		g.backend.Release(read)
		g.backend.Release(write)
		return fmt.Errorf("seed %dx%d grid: %w", w, h, err)
	}

	g.backend.Release(g.read)
	g.backend.Release(g.write)
	g.read, g.write = read, write
	g.size = size
	g.seed = seed
	g.generation = 0
	return nil
}

// Advance runs the transition kernel from the read buffer into the write
// buffer and swaps them.
func (g *GridState) Advance(b core.Boundary) error {
	if g.read == nil {
		return fmt.Errorf("advance: %w", core.ErrReleased)
	}
	if err := g.backend.Step(g.read, g.write, b); err != nil {
		return fmt.Errorf("step generation %d: %w", g.generation+1, err)
	}
	g.Swap()
	g.generation++
	return nil
}

// Swap exchanges the roles of the two buffers.
func (g *GridState) Swap() { g.read, g.write = g.write, g.read }

// Current returns the authoritative generation, or nil before the first Reset.
func (g *GridState) Current() core.Buffer { return g.read }

// Allocated reports whether a buffer pair exists.
func (g *GridState) Allocated() bool { return g.read != nil }

// Size returns the grid dimensions.
func (g *GridState) Size() core.Size { return g.size }

// Seed returns the seed of the last successful Reset.
func (g *GridState) Seed() int64 { return g.seed }

// Generation counts steps since the last Reset.
func (g *GridState) Generation() uint64 { return g.generation }

// Snapshot copies the current generation into a host slice. The returned
// slice is reused by later calls.
func (g *GridState) Snapshot() ([]uint8, error) {
	if g.read == nil {
		return nil, fmt.Errorf("snapshot: %w", core.ErrReleased)
	}
	cells := g.scratch(g.size.Cells())
	if err := g.backend.Read(g.read, cells); err != nil {
		return nil, err
	}
	return cells, nil
}

// Release frees both buffers. It is safe to call more than once.
func (g *GridState) Release() {
	g.backend.Release(g.read)
	g.backend.Release(g.write)
	g.read, g.write = nil, nil
	g.size = core.Size{}
	g.host = nil
}

func (g *GridState) scratch(n int) []uint8 {
	if cap(g.host) < n {
		g.host = make([]uint8, n)
	}
	return g.host[:n]
}
