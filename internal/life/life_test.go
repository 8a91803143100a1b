package life

import (
	"errors"
	"slices"
	"testing"
	"time"

	"gpu-life/internal/compute/cpu"
	"gpu-life/internal/compute/parallel"
	"gpu-life/internal/core"
)

// flakyBackend fails the allocation with index failAt (counting from 1).
type flakyBackend struct {
	*cpu.Backend
	allocs   int
	failAt   int
	released int
}

func (f *flakyBackend) Alloc(size core.Size) (core.Buffer, error) {
	f.allocs++
	if f.allocs == f.failAt {
		return nil, core.ErrAllocation
	}
	return f.Backend.Alloc(size)
}

func (f *flakyBackend) Release(buf core.Buffer) {
	if buf != nil {
		f.released++
	}
	f.Backend.Release(buf)
}

func cells(t *testing.T, g *GridState) []uint8 {
	t.Helper()
	out, err := g.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	return slices.Clone(out)
}

func TestResetDeterministic(t *testing.T) {
	a := NewGridState(cpu.New())
	b := NewGridState(parallel.New(3, 4))
	if err := a.Reset(40, 30, 1234, 0.3); err != nil {
		t.Fatal(err)
	}
	first := cells(t, a)
	if err := b.Reset(40, 30, 1234, 0.3); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(first, cells(t, b)) {
		t.Fatal("identical reset parameters produced different grids")
	}
	if err := a.Reset(40, 30, 1234, 0.3); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(first, cells(t, a)) {
		t.Fatal("second reset differs from the first")
	}
	if err := a.Reset(40, 30, 4321, 0.3); err != nil {
		t.Fatal(err)
	}
	if slices.Equal(first, cells(t, a)) {
		t.Fatal("different seeds produced identical grids")
	}
}

func TestResetClampsAliveRate(t *testing.T) {
	g := NewGridState(cpu.New())
	if err := g.Reset(6, 6, 1, 7); err != nil {
		t.Fatal(err)
	}
	if slices.Contains(cells(t, g), 0) {
		t.Fatal("rate above 1 should produce a full grid")
	}
	if err := g.Reset(6, 6, 1, -3); err != nil {
		t.Fatal(err)
	}
	if slices.Contains(cells(t, g), 1) {
		t.Fatal("rate below 0 should produce an empty grid")
	}
}

func TestResetRejectsInvalidDimensions(t *testing.T) {
	be := &flakyBackend{Backend: cpu.New()}
	g := NewGridState(be)
	for _, dims := range [][2]int{{0, 5}, {5, -1}, {core.MaxCells, 4}} {
		if err := g.Reset(dims[0], dims[1], 1, 0.5); !errors.Is(err, core.ErrInvalidDimensions) {
			t.Fatalf("Reset(%v) err = %v", dims, err)
		}
	}
	if be.allocs != 0 {
		t.Fatalf("invalid dimensions reached the backend (%d allocs)", be.allocs)
	}
	if g.Allocated() {
		t.Fatal("state allocated after rejected reset")
	}
}

func TestResetAllocationFailureKeepsPreviousGrid(t *testing.T) {
	for _, failAt := range []int{3, 4} {
		be := &flakyBackend{Backend: cpu.New(), failAt: failAt}
		g := NewGridState(be)
		if err := g.Reset(8, 8, 5, 0.5); err != nil {
			t.Fatal(err)
		}
		before := cells(t, g)
		read := g.Current()

		err := g.Reset(16, 16, 6, 0.5)
		if !errors.Is(err, core.ErrAllocation) {
			t.Fatalf("failAt=%d: err = %v, want ErrAllocation", failAt, err)
		}
		if g.Current() != read || g.Size() != (core.Size{W: 8, H: 8}) || g.Seed() != 5 {
			t.Fatalf("failAt=%d: state changed after failed reset", failAt)
		}
		if !slices.Equal(before, cells(t, g)) {
			t.Fatalf("failAt=%d: cells changed after failed reset", failAt)
		}
		if failAt == 4 && be.released != 1 {
			t.Fatalf("partially allocated pair not released (%d releases)", be.released)
		}
	}
}

func TestResetReleasesOldBuffers(t *testing.T) {
	be := &flakyBackend{Backend: cpu.New()}
	g := NewGridState(be)
	if err := g.Reset(4, 4, 1, 0.5); err != nil {
		t.Fatal(err)
	}
	old := g.Current()
	if err := g.Reset(5, 5, 1, 0.5); err != nil {
		t.Fatal(err)
	}
	if be.released != 2 {
		t.Fatalf("released %d buffers, want 2", be.released)
	}
	if _, err := cpu.Grid(old); !errors.Is(err, core.ErrReleased) {
		t.Fatalf("old buffer still live: %v", err)
	}
	g.Release()
	g.Release()
	if be.released != 4 || g.Allocated() {
		t.Fatalf("Release freed %d buffers total, allocated=%v", be.released, g.Allocated())
	}
}

func TestSwapParity(t *testing.T) {
	for n := 1; n <= 6; n++ {
		g := NewGridState(cpu.New())
		if err := g.Reset(6, 6, 9, 0.4); err != nil {
			t.Fatal(err)
		}
		firstWrite := g.write
		for i := 0; i < n; i++ {
			if err := g.Advance(core.BoundaryWrap); err != nil {
				t.Fatal(err)
			}
		}
		if got := g.Current() == firstWrite; got != (n%2 == 1) {
			t.Fatalf("after %d steps first write buffer current=%v", n, got)
		}
		if g.Generation() != uint64(n) {
			t.Fatalf("generation = %d, want %d", g.Generation(), n)
		}
	}
}

func TestAdvanceNeedsGrid(t *testing.T) {
	g := NewGridState(cpu.New())
	if err := g.Advance(core.BoundaryWrap); !errors.Is(err, core.ErrReleased) {
		t.Fatalf("err = %v", err)
	}
}

func newSim(t *testing.T, cfg Config) *Simulation {
	t.Helper()
	s := New(cfg, cpu.New())
	s.now = func() time.Time { return time.Unix(0, 777) }
	t.Cleanup(s.Shutdown)
	return s
}

func TestTickCadence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepInterval = 0.1
	s := newSim(t, cfg)

	steps := 0
	for i, dt := range []float64{0.1, 0.1, 0.15} {
		res, err := s.Tick(StepRequest{IsResize: i == 0, Width: 10, Height: 10, DeltaTime: dt})
		if err != nil {
			t.Fatal(err)
		}
		if res.Resized != (i == 0) {
			t.Fatalf("tick %d resized=%v", i, res.Resized)
		}
		if res.Stepped {
			steps++
		}
	}
	if steps != 3 {
		t.Fatalf("0.35s of ticks produced %d steps, want 3", steps)
	}
	if s.Generation() != 3 {
		t.Fatalf("generation = %d", s.Generation())
	}
}

func TestFirstTickAfterResizeSteps(t *testing.T) {
	s := newSim(t, DefaultConfig())
	res, err := s.Tick(StepRequest{IsResize: true, Width: 10, Height: 10, DeltaTime: 1.0 / 60})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Resized || !res.Stepped || res.Generation != 1 {
		t.Fatalf("first tick result %+v", res)
	}
}

func TestResizeKeepsSchedulerState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepInterval = 0.1
	s := newSim(t, cfg)
	if res, err := s.Tick(StepRequest{IsResize: true, Width: 6, Height: 6, DeltaTime: 0.05}); err != nil || !res.Stepped {
		t.Fatalf("first tick %+v, err %v", res, err)
	}
	if got := s.sched.Remaining(); got != 0.05 {
		t.Fatalf("remaining = %v, want 0.05", got)
	}

	res, err := s.Tick(StepRequest{IsResize: true, Width: 8, Height: 8, RandomSeed: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Resized || res.Stepped {
		t.Fatalf("resize tick %+v", res)
	}
	if got := s.sched.Remaining(); got != 0.05 {
		t.Fatalf("remaining after resize = %v, want 0.05", got)
	}
	if err := s.Reseed(3); err != nil {
		t.Fatal(err)
	}
	if got := s.sched.Remaining(); got != 0.05 {
		t.Fatalf("remaining after reseed = %v, want 0.05", got)
	}
	if res, _ = s.Tick(StepRequest{DeltaTime: 0.05}); !res.Stepped {
		t.Fatal("carried deficit did not produce a step")
	}
}

func TestTickPausedSkipsScheduling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepInterval = 0
	s := newSim(t, cfg)
	res, err := s.Tick(StepRequest{Width: 4, Height: 4, Paused: true, DeltaTime: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stepped || !res.Resized {
		t.Fatalf("paused tick result %+v", res)
	}
	if res, _ = s.Tick(StepRequest{DeltaTime: 0}); !res.Stepped {
		t.Fatal("zero interval should step every tick")
	}
}

func TestTickInjectsBeforeStepping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AliveRate = 0
	cfg.InputRadius = 1
	cfg.StepInterval = 10
	s := newSim(t, cfg)

	res, err := s.Tick(StepRequest{IsResize: true, Width: 9, Height: 9, Paused: true, InputEnabled: true, InputPosition: Point{X: 4, Y: 4}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Injected || res.Stepped {
		t.Fatalf("result %+v", res)
	}
	got, _ := s.Cells()
	plus := map[int]bool{3*9 + 4: true, 4*9 + 3: true, 4*9 + 4: true, 4*9 + 5: true, 5*9 + 4: true}
	for i, c := range got {
		if (c == 1) != plus[i] {
			t.Fatalf("cell %d = %d after injection", i, c)
		}
	}

	// The injected plus is stepped in the same tick once a step is due.
	s.SetFloatParameter("step_interval", 0)
	if _, err := s.Tick(StepRequest{InputEnabled: true, InputPosition: Point{X: 4, Y: 4}}); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Population(); n != 8 {
		t.Fatalf("population after stepping the plus = %d, want 8", n)
	}
}

func TestResizeDiscardsPriorCells(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputRadius = 100
	s := newSim(t, cfg)
	if _, err := s.Tick(StepRequest{IsResize: true, Width: 8, Height: 8, RandomSeed: 3, InputEnabled: true, Paused: true}); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Population(); n != 64 {
		t.Fatalf("population = %d, want full grid", n)
	}

	res, err := s.Tick(StepRequest{IsResize: true, Width: 12, Height: 10, RandomSeed: 4, Paused: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Size != (core.Size{W: 12, H: 10}) || res.Seed != 4 || res.Generation != 0 {
		t.Fatalf("result %+v", res)
	}
	fresh := NewGridState(cpu.New())
	if err := fresh.Reset(12, 10, 4, cfg.AliveRate); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Cells()
	if !slices.Equal(got, cells(t, fresh)) {
		t.Fatal("resized grid carries cells from before the resize")
	}
}

func TestResizeSeedSelection(t *testing.T) {
	s := newSim(t, DefaultConfig())
	res, err := s.Tick(StepRequest{Width: 5, Height: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Seed != 777 {
		t.Fatalf("clock seed = %d, want 777", res.Seed)
	}

	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Width = 7
	s = newSim(t, cfg)
	res, err = s.Tick(StepRequest{Width: 5, Height: 5, RandomSeed: 9})
	if err != nil {
		t.Fatal(err)
	}
	if res.Seed != 42 || res.Size != (core.Size{W: 7, H: 5}) {
		t.Fatalf("overrides ignored: %+v", res)
	}
}

func TestTickFailedResizeKeepsGrid(t *testing.T) {
	s := newSim(t, DefaultConfig())
	if _, err := s.Tick(StepRequest{Width: 5, Height: 5, RandomSeed: 1}); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Cells()
	before = slices.Clone(before)
	if _, err := s.Tick(StepRequest{IsResize: true, Width: 0, Height: 5}); !errors.Is(err, core.ErrInvalidDimensions) {
		t.Fatalf("err = %v", err)
	}
	after, _ := s.Cells()
	if s.Size() != (core.Size{W: 5, H: 5}) || !slices.Equal(before, after) {
		t.Fatal("failed resize altered the grid")
	}
}

func TestReseedAndStepOnce(t *testing.T) {
	s := newSim(t, DefaultConfig())
	if err := s.Reseed(1); err == nil {
		t.Fatal("reseed without a grid should fail")
	}
	if _, err := s.Tick(StepRequest{Width: 20, Height: 20, RandomSeed: 8, Paused: true}); err != nil {
		t.Fatal(err)
	}
	initial, _ := s.Cells()
	initial = slices.Clone(initial)
	if err := s.StepOnce(); err != nil {
		t.Fatal(err)
	}
	if err := s.Reseed(8); err != nil {
		t.Fatal(err)
	}
	again, _ := s.Cells()
	if !slices.Equal(initial, again) || s.Generation() != 0 {
		t.Fatal("reseed with the same seed did not restore the initial grid")
	}
}

func TestApplyBeforeFirstResize(t *testing.T) {
	s := newSim(t, DefaultConfig())
	for _, cmd := range []Command{CommandStep, CommandRestart, CommandReseed} {
		if err := s.Apply(cmd); err != nil {
			t.Fatalf("command %d before first resize: %v", cmd, err)
		}
	}
	if s.Current() != nil {
		t.Fatal("command allocated a grid")
	}

	if _, err := s.Tick(StepRequest{Width: 6, Height: 6, RandomSeed: 5, Paused: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(CommandStep); err != nil || s.Generation() != 1 {
		t.Fatalf("step: generation %d, err %v", s.Generation(), err)
	}
	if err := s.Apply(CommandRestart); err != nil || s.Seed() != 5 || s.Generation() != 0 {
		t.Fatalf("restart: seed %d generation %d, err %v", s.Seed(), s.Generation(), err)
	}
	if err := s.Apply(CommandReseed); err != nil || s.Seed() != 777 {
		t.Fatalf("reseed: seed %d, err %v", s.Seed(), err)
	}
	if err := s.Apply(Command(0)); err == nil {
		t.Fatal("unknown command accepted")
	}
	s.Shutdown()
	if err := s.Apply(CommandStep); !errors.Is(err, core.ErrReleased) {
		t.Fatalf("command after shutdown err = %v", err)
	}
}

func TestShutdown(t *testing.T) {
	s := New(DefaultConfig(), cpu.New())
	if _, err := s.Tick(StepRequest{Width: 3, Height: 3, RandomSeed: 1}); err != nil {
		t.Fatal(err)
	}
	s.Shutdown()
	s.Shutdown()
	if _, err := s.Tick(StepRequest{}); !errors.Is(err, core.ErrReleased) {
		t.Fatalf("tick after shutdown err = %v", err)
	}
	if s.Current() != nil {
		t.Fatal("buffers survive shutdown")
	}
}

func TestParameters(t *testing.T) {
	s := newSim(t, DefaultConfig())
	if _, err := s.Tick(StepRequest{Width: 6, Height: 4, RandomSeed: 2}); err != nil {
		t.Fatal(err)
	}
	snap := s.Parameters()
	if p, ok := snap.Lookup("w"); !ok || p.Value != "6" {
		t.Fatalf("w = %+v", p)
	}
	if p, ok := snap.Lookup("backend"); !ok || p.Value != cpu.Name {
		t.Fatalf("backend = %+v", p)
	}
	if !s.SetFloatParameter("alive_rate", 3) || s.Config().AliveRate != 1 {
		t.Fatalf("alive rate = %v, want clamped 1", s.Config().AliveRate)
	}
	if s.SetFloatParameter("unknown", 1) {
		t.Fatal("unknown key accepted")
	}
	if !s.SetIntParameter("seed", 99) || s.Seed() != 99 {
		t.Fatalf("seed = %d after SetIntParameter", s.Seed())
	}
	if n, _ := s.Population(); n != 24 {
		t.Fatalf("population = %d after reseed at rate 1", n)
	}
	if len(s.ParameterControls()) == 0 {
		t.Fatal("no controls")
	}
}

func TestConfigFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"step": "0.25", "alive": "1.5", "radius": "-2", "res": "0",
		"seed": "17", "w": "64", "h": "x", "boundary": "dead",
	})
	if c.StepInterval != 0.25 || c.AliveRate != 1 || c.InputRadius != 0 {
		t.Fatalf("parsed %+v", c)
	}
	if c.ResolutionScale != 0.5 || c.Seed != 17 || c.Width != 64 || c.Height != 0 {
		t.Fatalf("parsed %+v", c)
	}
	if c.Boundary != core.BoundaryDead {
		t.Fatal("boundary not parsed")
	}
	if FromMap(nil) != DefaultConfig() {
		t.Fatal("nil map should yield defaults")
	}
}

func TestResizePolicy(t *testing.T) {
	p := NewResizePolicy(DefaultConfig())
	size, changed := p.Observe(801, 600)
	if !changed || size != (core.Size{W: 400, H: 300}) {
		t.Fatalf("Observe = %v, %v", size, changed)
	}
	if _, changed = p.Observe(801, 600); changed {
		t.Fatal("unchanged viewport reported as resize")
	}
	if size, _ = p.Observe(1, 1); size != (core.Size{W: 1, H: 1}) {
		t.Fatalf("minimum size = %v", size)
	}
	p.Observe(800, 600)
	pt := p.ToGrid(100, 50, core.Size{W: 400, H: 300})
	if pt.X != 50 || pt.Y != 25 {
		t.Fatalf("ToGrid = %+v", pt)
	}

	pinned := NewResizePolicy(Config{ResolutionScale: 1, Width: 32})
	if size := pinned.Target(100, 50); size != (core.Size{W: 32, H: 50}) {
		t.Fatalf("pinned target = %v", size)
	}
}
