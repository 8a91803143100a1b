// Package parallel provides a host backend that tiles each kernel dispatch
// into row bands and runs them on a bounded set of goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"gpu-life/internal/compute/cpu"
	"gpu-life/internal/core"
	"gpu-life/internal/kernel"
)

// Name is the registry key of this backend.
const Name = "parallel"

// DefaultTileRows is the band height used when none is configured.
const DefaultTileRows = 32

// Backend dispatches row bands across goroutines. Buffers are shared with the
// cpu backend.
type Backend struct {
	cpu.Backend

	workers  int
	tileRows int
}

// New returns a backend using up to workers goroutines per dispatch and bands
// of tileRows rows. Non-positive values select GOMAXPROCS and DefaultTileRows.
func New(workers, tileRows int) *Backend {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if tileRows <= 0 {
		tileRows = DefaultTileRows
	}
	return &Backend{workers: workers, tileRows: tileRows}
}

// Name identifies the backend.
func (*Backend) Name() string { return Name }

// Workers returns the concurrency limit.
func (b *Backend) Workers() int { return b.workers }

// TileRows returns the band height.
func (b *Backend) TileRows() int { return b.tileRows }

// Groups returns the number of bands a grid of height h is split into.
func (b *Backend) Groups(h int) int {
	return (h + b.tileRows - 1) / b.tileRows
}

// Step advances read into write one band per task and returns once every
// band has been written.
func (b *Backend) Step(read, write core.Buffer, boundary core.Boundary) error {
	src, dst, err := cpu.Pair(read, write)
	if err != nil {
		return err
	}
	b.dispatch(0, src.H, func(y0, y1 int) {
		kernel.StepRows(src, dst, y0, y1, boundary)
	})
	return nil
}

// Inject paints a disc of live cells, splitting only the rows the disc covers.
func (b *Backend) Inject(buf core.Buffer, x, y, radius float64) error {
	g, err := cpu.Grid(buf)
	if err != nil {
		return err
	}
	y0, y1 := kernel.RowSpan(g.H, y, radius)
	b.dispatch(y0, y1, func(lo, hi int) {
		kernel.InjectRows(g, x, y, radius, lo, hi)
	})
	return nil
}

func (b *Backend) dispatch(y0, y1 int, fn func(lo, hi int)) {
	if y1-y0 <= b.tileRows || b.workers == 1 {
		fn(y0, y1)
		return
	}
	var g errgroup.Group
	g.SetLimit(b.workers)
	for lo := y0; lo < y1; lo += b.tileRows {
		lo, hi := lo, min(lo+b.tileRows, y1)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

func init() {
	core.RegisterBackend(Name, func() (core.Backend, error) { return New(0, 0), nil })
}
