// Package cpu provides the serial host-memory compute backend.
package cpu

import (
	"fmt"

	"gpu-life/internal/core"
	"gpu-life/internal/kernel"
)

// Name is the registry key of this backend.
const Name = "cpu"

// Buffer is host cell storage handed out by the CPU backends.
type Buffer struct {
	grid     *core.ByteGrid
	released bool
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() core.Size { return b.grid.Size() }

// Grid exposes the cells for zero-copy display. It returns nil once released.
func (b *Buffer) Grid() *core.ByteGrid {
	if b.released {
		return nil
	}
	return b.grid
}

// Backend runs both kernels on the calling goroutine.
type Backend struct{}

// New returns a serial backend.
func New() *Backend { return &Backend{} }

// Name identifies the backend.
func (*Backend) Name() string { return Name }

// Alloc returns a zeroed host buffer.
func (*Backend) Alloc(size core.Size) (core.Buffer, error) {
	b, err := Alloc(size)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Upload copies cells into dst.
func (*Backend) Upload(dst core.Buffer, cells []uint8) error {
	g, err := Grid(dst)
	if err != nil {
		return err
	}
	if len(cells) != len(g.Cells()) {
		return fmt.Errorf("cpu: upload of %d cells into %dx%d buffer", len(cells), g.W, g.H)
	}
	copy(g.Cells(), cells)
	return nil
}

// Read copies src into dst.
func (*Backend) Read(src core.Buffer, dst []uint8) error {
	g, err := Grid(src)
	if err != nil {
		return err
	}
	if len(dst) != len(g.Cells()) {
		return fmt.Errorf("cpu: read of %dx%d buffer into %d cells", g.W, g.H, len(dst))
	}
	copy(dst, g.Cells())
	return nil
}

// Step advances read into write.
func (*Backend) Step(read, write core.Buffer, boundary core.Boundary) error {
	src, dst, err := Pair(read, write)
	if err != nil {
		return err
	}
	kernel.Step(src, dst, boundary)
	return nil
}

// Inject paints a disc of live cells into buf.
func (*Backend) Inject(buf core.Buffer, x, y, radius float64) error {
	g, err := Grid(buf)
	if err != nil {
		return err
	}
	kernel.Inject(g, x, y, radius)
	return nil
}

// Release drops the buffer's storage.
func (*Backend) Release(buf core.Buffer) {
	if b, ok := buf.(*Buffer); ok && b != nil {
		b.released = true
		b.grid = nil
	}
}

// Alloc validates size and allocates a host buffer.
func Alloc(size core.Size) (*Buffer, error) {
	g, err := core.NewByteGrid(size.W, size.H)
	if err != nil {
		return nil, err
	}
	return &Buffer{grid: g}, nil
}

// Grid unwraps a live host buffer.
func Grid(buf core.Buffer) (*core.ByteGrid, error) {
	b, ok := buf.(*Buffer)
	if !ok || b == nil {
		return nil, fmt.Errorf("cpu: foreign buffer %T", buf)
	}
	if b.released {
		return nil, fmt.Errorf("cpu: %w", core.ErrReleased)
	}
	return b.grid, nil
}

// Pair unwraps a read/write pair of equal size.
func Pair(read, write core.Buffer) (*core.ByteGrid, *core.ByteGrid, error) {
	src, err := Grid(read)
	if err != nil {
		return nil, nil, err
	}
	dst, err := Grid(write)
	if err != nil {
		return nil, nil, err
	}
	if src == dst {
		return nil, nil, fmt.Errorf("cpu: step read and write must be distinct buffers")
	}
	if src.Size() != dst.Size() {
		return nil, nil, fmt.Errorf("cpu: step between %v and %v buffers", src.Size(), dst.Size())
	}
	return src, dst, nil
}

func init() {
	core.RegisterBackend(Name, func() (core.Backend, error) { return New(), nil })
}
