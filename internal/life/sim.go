// Package life drives a double-buffered Game of Life grid one tick at a time:
// resize, then pointer injection, then at most one fixed-interval generation.
package life

import (
	"errors"
	"fmt"
	"time"

	"gpu-life/internal/core"
)

// StepRequest is the per-tick input from the driver.
type StepRequest struct {
	// IsResize requests a reallocation to Width x Height (grid cells).
	IsResize bool
	Width    int
	Height   int
	// RandomSeed is used for a reseed when no seed override is configured.
	// Zero means derive one from the clock.
	RandomSeed int64

	InputEnabled  bool
	InputPosition Point

	// DeltaTime is the seconds elapsed since the previous tick.
	DeltaTime float64
	// Paused skips scheduling; resize and input still apply.
	Paused bool
}

// TickResult reports what a tick did.
type TickResult struct {
	Resized    bool
	Injected   bool
	Stepped    bool
	Size       core.Size
	Seed       int64
	Generation uint64
}

// Simulation is the tick-driven core. It is not safe for concurrent use.
type Simulation struct {
	cfg      Config
	backend  core.Backend
	grid     *GridState
	sched    *core.FixedStep
	injector InputInjector
	now      func() time.Time
	closed   bool
}

// New returns a simulation that allocates nothing until its first resize.
func New(cfg Config, backend core.Backend) *Simulation {
	cfg = cfg.Normalize()
	return &Simulation{
		cfg:      cfg,
		backend:  backend,
		grid:     NewGridState(backend),
		sched:    core.NewFixedStep(cfg.StepInterval),
		injector: InputInjector{Radius: cfg.InputRadius},
		now:      time.Now,
	}
}

// Tick runs one ordered update. A resize happens when requested or when no
// grid exists yet; a failed resize aborts the tick and leaves the previous
// grid untouched.
func (s *Simulation) Tick(req StepRequest) (TickResult, error) {
	if s.closed {
		return TickResult{}, fmt.Errorf("tick: %w", core.ErrReleased)
	}
	var res TickResult
	if req.IsResize || !s.grid.Allocated() {
		if err := s.reset(req.Width, req.Height, req.RandomSeed); err != nil {
			return s.result(res), err
		}
		res.Resized = true
	}
	if req.InputEnabled {
		if err := s.injector.Apply(s.grid, req.InputPosition); err != nil {
			return s.result(res), err
		}
		res.Injected = true
	}
	if !req.Paused && s.sched.Advance(req.DeltaTime) {
		if err := s.grid.Advance(s.cfg.Boundary); err != nil {
			return s.result(res), err
		}
		s.sched.Complete()
		res.Stepped = true
	}
	return s.result(res), nil
}

// StepOnce runs a single generation outside the scheduler.
func (s *Simulation) StepOnce() error {
	if s.closed {
		return fmt.Errorf("step: %w", core.ErrReleased)
	}
	return s.grid.Advance(s.cfg.Boundary)
}

// Reseed rebuilds the current grid size from seed (zero derives one).
func (s *Simulation) Reseed(seed int64) error {
	if s.closed {
		return fmt.Errorf("reseed: %w", core.ErrReleased)
	}
	if !s.grid.Allocated() {
		return errors.New("reseed: no grid allocated")
	}
	size := s.grid.Size()
	return s.resetWithSeed(size.W, size.H, s.pickSeed(seed))
}

// Command is a manual control issued by a driver between ticks.
type Command uint8

const (
	// CommandStep runs one generation.
	CommandStep Command = iota + 1
	// CommandRestart reseeds with the current seed.
	CommandRestart
	// CommandReseed reseeds with a fresh seed.
	CommandReseed
)

// Apply runs cmd against the current grid. Commands that arrive before the
// first resize has allocated a grid are dropped.
func (s *Simulation) Apply(cmd Command) error {
	if !s.closed && !s.grid.Allocated() {
		return nil
	}
	switch cmd {
	case CommandStep:
		return s.StepOnce()
	case CommandRestart:
		return s.Reseed(s.grid.Seed())
	case CommandReseed:
		return s.Reseed(0)
	}
	return fmt.Errorf("unknown command %d", cmd)
}

// Shutdown releases the buffers. Further ticks fail with core.ErrReleased.
func (s *Simulation) Shutdown() {
	if s.closed {
		return
	}
	s.grid.Release()
	s.closed = true
}

func (s *Simulation) reset(w, h int, requested int64) error {
	if s.cfg.Width > 0 {
		w = s.cfg.Width
	}
	if s.cfg.Height > 0 {
		h = s.cfg.Height
	}
	seed := requested
	if s.cfg.Seed != 0 {
		seed = s.cfg.Seed
	}
	return s.resetWithSeed(w, h, s.pickSeed(seed))
}

func (s *Simulation) resetWithSeed(w, h int, seed int64) error {
	if err := s.grid.Reset(w, h, seed, s.cfg.AliveRate); err != nil {
		return fmt.Errorf("reset %s grid: %w", s.backend.Name(), err)
	}
	return nil
}

func (s *Simulation) pickSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	if seed = s.now().UnixNano(); seed == 0 {
		seed = 1
	}
	return seed
}

func (s *Simulation) result(res TickResult) TickResult {
	res.Size = s.grid.Size()
	res.Seed = s.grid.Seed()
	res.Generation = s.grid.Generation()
	return res
}

// Config returns the active configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Backend returns the compute backend.
func (s *Simulation) Backend() core.Backend { return s.backend }

// Current returns the authoritative buffer for display, or nil before the
// first resize.
func (s *Simulation) Current() core.Buffer { return s.grid.Current() }

// Size returns the grid dimensions.
func (s *Simulation) Size() core.Size { return s.grid.Size() }

// Seed returns the seed of the last reset. Feeding it back as Config.Seed
// reproduces the run.
func (s *Simulation) Seed() int64 { return s.grid.Seed() }

// Generation counts generations since the last reset.
func (s *Simulation) Generation() uint64 { return s.grid.Generation() }

// Cells copies the current generation to host memory. The slice is reused.
func (s *Simulation) Cells() ([]uint8, error) { return s.grid.Snapshot() }

// Population counts live cells in the current generation.
func (s *Simulation) Population() (int, error) {
	cells, err := s.grid.Snapshot()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range cells {
		n += int(c)
	}
	return n, nil
}
