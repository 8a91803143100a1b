package core

import "time"

// StepState is the scheduler state for the current tick.
type StepState uint8

const (
	// Idle means not enough time has accumulated for a generation.
	Idle StepState = iota
	// Stepping means a generation is due this tick.
	Stepping
)

// FixedStep decides once per tick whether a generation is due, independent of
// how often ticks arrive. The accumulator counts down by the elapsed time and
// is refilled by one interval per generation, keeping any deficit down to
// zero.
type FixedStep struct {
	interval    float64
	accumulator float64
	state       StepState
}

// NewFixedStep constructs a scheduler with interval seconds between
// generations. A non-positive interval steps on every tick.
func NewFixedStep(interval float64) *FixedStep {
	return &FixedStep{interval: interval}
}

// SetInterval changes the generation interval. The time remaining never
// exceeds the new interval.
func (f *FixedStep) SetInterval(interval float64) {
	f.interval = interval
	f.accumulator = min(f.accumulator, max(0, interval))
}

// Interval returns the configured generation interval in seconds.
func (f *FixedStep) Interval() float64 { return f.interval }

// Remaining returns the time left before the next generation is due.
func (f *FixedStep) Remaining() float64 { return f.accumulator }

// State reports whether the last Advance made a generation due.
func (f *FixedStep) State() StepState { return f.state }

// Reset empties the accumulator so the next tick steps.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.state = Idle
}

// Advance consumes dt seconds and reports whether a generation is due. The
// caller runs the generation and then calls Complete.
func (f *FixedStep) Advance(dt float64) bool {
	if dt < 0 {
		dt = 0
	}
	f.accumulator -= dt
	if f.accumulator <= 0 {
		f.state = Stepping
		return true
	}
	f.state = Idle
	return false
}

// Complete records that the due generation ran.
func (f *FixedStep) Complete() {
	if f.state != Stepping {
		return
	}
	f.accumulator = max(0, f.accumulator+f.interval)
	f.state = Idle
}

// Stopwatch measures wall-clock time between successive ticks.
type Stopwatch struct {
	last time.Time
}

// Lap returns the seconds elapsed since the previous Lap. The first call
// returns 0.
func (s *Stopwatch) Lap(now time.Time) float64 {
	if s.last.IsZero() {
		s.last = now
	}
	delta := now.Sub(s.last)
	s.last = now
	return delta.Seconds()
}
