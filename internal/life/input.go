package life

import "fmt"

// Point is a position in grid coordinates.
type Point struct {
	X, Y float64
}

// InputInjector paints live cells around a pointer into the current buffer.
type InputInjector struct {
	Radius float64
}

// Apply marks alive every cell within Radius of p. Existing live cells stay
// alive and no cell is ever cleared.
func (in *InputInjector) Apply(g *GridState, p Point) error {
	if g.read == nil {
		return nil
	}
	if err := g.backend.Inject(g.read, p.X, p.Y, in.Radius); err != nil {
		return fmt.Errorf("inject at (%.1f, %.1f): %w", p.X, p.Y, err)
	}
	return nil
}
