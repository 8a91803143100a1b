package life

import (
	"strconv"

	"gpu-life/internal/core"
)

// Config holds the simulation parameters. They change only through explicit
// reconfiguration.
type Config struct {
	// StepInterval is the number of seconds between generations. Zero or
	// less steps on every tick.
	StepInterval float64
	// AliveRate is the probability a cell starts alive after a reseed.
	AliveRate float64
	// InputRadius is the injection radius in grid cells.
	InputRadius float64
	// ResolutionScale maps viewport pixels to grid cells.
	ResolutionScale float64

	// Seed overrides the reseed seed when non-zero.
	Seed int64
	// Width and Height override the viewport-derived grid size when positive.
	Width  int
	Height int

	Boundary core.Boundary
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		StepInterval:    0.1,
		AliveRate:       0.2,
		InputRadius:     10,
		ResolutionScale: 0.5,
		Boundary:        core.BoundaryWrap,
	}
}

// Normalize clamps out-of-range values in place and returns the result.
// AliveRate is clamped to [0, 1], negative radii and sizes become zero and a
// non-positive resolution scale falls back to the default.
func (c Config) Normalize() Config {
	switch {
	case !(c.AliveRate >= 0):
		c.AliveRate = 0
	case c.AliveRate > 1:
		c.AliveRate = 1
	}
	if !(c.InputRadius >= 0) {
		c.InputRadius = 0
	}
	if !(c.ResolutionScale > 0) {
		c.ResolutionScale = DefaultConfig().ResolutionScale
	}
	if c.Width < 0 {
		c.Width = 0
	}
	if c.Height < 0 {
		c.Height = 0
	}
	return c
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["step"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.StepInterval = parsed
		}
	}
	if v, ok := cfg["alive"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.AliveRate = parsed
		}
	}
	if v, ok := cfg["radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.InputRadius = parsed
		}
	}
	if v, ok := cfg["res"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.ResolutionScale = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["boundary"]; ok {
		if parsed, ok := core.ParseBoundary(v); ok {
			c.Boundary = parsed
		}
	}
	return c.Normalize()
}
