package core

import (
	"fmt"
	"sort"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Cells returns W*H.
func (s Size) Cells() int { return s.W * s.H }

// Boundary selects how neighbour lookups behave at the grid edge.
type Boundary uint8

const (
	// BoundaryWrap treats the grid as a torus.
	BoundaryWrap Boundary = iota
	// BoundaryDead treats every cell outside the grid as dead.
	BoundaryDead
)

func (b Boundary) String() string {
	if b == BoundaryDead {
		return "dead"
	}
	return "wrap"
}

// ParseBoundary maps "wrap"/"torus" and "dead"/"clamp" to a Boundary.
func ParseBoundary(s string) (Boundary, bool) {
	switch s {
	case "wrap", "torus":
		return BoundaryWrap, true
	case "dead", "clamp":
		return BoundaryDead, true
	}
	return BoundaryWrap, false
}

// Buffer is an opaque handle to backend-owned cell storage.
type Buffer interface {
	Size() Size
}

// Backend runs the two simulation kernels over buffers it allocates. Every
// call blocks until the backend's writes are complete.
type Backend interface {
	Name() string
	// Alloc returns a zeroed buffer for the given size.
	Alloc(size Size) (Buffer, error)
	// Upload replaces the contents of dst with cells (0/1, row-major).
	Upload(dst Buffer, cells []uint8) error
	// Read copies the contents of src into dst as 0/1 values.
	Read(src Buffer, dst []uint8) error
	// Step writes the next generation of read into write.
	Step(read, write Buffer, boundary Boundary) error
	// Inject marks every cell within radius of (x, y) alive in buf.
	Inject(buf Buffer, x, y, radius float64) error
	// Release frees buffer storage. Releasing nil or twice is a no-op.
	Release(buf Buffer)
}

// BackendFactory constructs a Backend.
type BackendFactory func() (Backend, error)

var backends = map[string]BackendFactory{}

// RegisterBackend adds a backend factory under the provided name.
func RegisterBackend(name string, f BackendFactory) {
	if name == "" || f == nil {
		return
	}
	backends[name] = f
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBackend constructs the backend registered under name.
func NewBackend(name string) (Backend, error) {
	f, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (have %v)", name, Backends())
	}
	return f()
}
