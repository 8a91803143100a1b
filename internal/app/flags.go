package app

import (
	"flag"
	"fmt"

	"gpu-life/internal/core"
	"gpu-life/internal/life"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Backend string
	Width   int
	Height  int
	TPS     int
	HUD     int

	Seed     int64
	Step     float64
	Alive    float64
	Radius   float64
	Res      float64
	GridW    int
	GridH    int
	Boundary string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	d := life.DefaultConfig()
	return &Config{
		Backend:  "parallel",
		Width:    1280,
		Height:   720,
		TPS:      60,
		HUD:      240,
		Step:     d.StepInterval,
		Alive:    d.AliveRate,
		Radius:   d.InputRadius,
		Res:      d.ResolutionScale,
		Boundary: d.Boundary.String(),
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Backend, "backend", c.Backend, fmt.Sprintf("compute backend %v", core.Backends()))
	fs.IntVar(&c.Width, "width", c.Width, "initial window width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "initial window height in pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.HUD, "hud", c.HUD, "HUD panel width in pixels (0 hides it)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for every reseed (0 derives one from the clock)")
	fs.Float64Var(&c.Step, "step", c.Step, "seconds between generations")
	fs.Float64Var(&c.Alive, "alive", c.Alive, "probability a cell starts alive")
	fs.Float64Var(&c.Radius, "radius", c.Radius, "brush radius in cells")
	fs.Float64Var(&c.Res, "res", c.Res, "grid cells per screen pixel")
	fs.IntVar(&c.GridW, "w", c.GridW, "fixed grid width (0 follows the window)")
	fs.IntVar(&c.GridH, "h", c.GridH, "fixed grid height (0 follows the window)")
	fs.StringVar(&c.Boundary, "boundary", c.Boundary, "edge policy: wrap or dead")
}

// Life converts the flags into a simulation configuration.
func (c *Config) Life() (life.Config, error) {
	boundary, ok := core.ParseBoundary(c.Boundary)
	if !ok {
		return life.Config{}, fmt.Errorf("unknown boundary %q", c.Boundary)
	}
	return life.Config{
		StepInterval:    c.Step,
		AliveRate:       c.Alive,
		InputRadius:     c.Radius,
		ResolutionScale: c.Res,
		Seed:            c.Seed,
		Width:           c.GridW,
		Height:          c.GridH,
		Boundary:        boundary,
	}.Normalize(), nil
}
