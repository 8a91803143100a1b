package life

import (
	"strconv"

	"gpu-life/internal/core"
)

// Parameters reports the configuration and grid state for the HUD.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	size := s.grid.Size()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				intParam("w", "Width", size.W),
				intParam("h", "Height", size.H),
				int64Param("seed", "Seed", s.grid.Seed()),
				stringParam("boundary", "Boundary", s.cfg.Boundary.String()),
				stringParam("backend", "Backend", s.backend.Name()),
				stringParam("generation", "Generation", strconv.FormatUint(s.grid.Generation(), 10)),
			},
		},
		{
			Name: "Timing",
			Params: []core.Parameter{
				floatParam("step_interval", "Step interval (s)", s.cfg.StepInterval),
			},
		},
		{
			Name: "Seeding",
			Params: []core.Parameter{
				floatParam("alive_rate", "Alive rate", s.cfg.AliveRate),
			},
		},
		{
			Name: "Input",
			Params: []core.Parameter{
				floatParam("input_radius", "Brush radius", s.cfg.InputRadius),
			},
		},
	}}
}

// ParameterControls lists the values the HUD may adjust.
func (s *Simulation) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "step_interval", Label: "Step interval", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, HasMin: true, Max: 2, HasMax: true},
		{Key: "alive_rate", Label: "Alive rate", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, HasMin: true, Max: 1, HasMax: true},
		{Key: "input_radius", Label: "Brush radius", Type: core.ParamTypeFloat, Step: 1, Min: 0, HasMin: true, Max: 200, HasMax: true},
		{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true},
	}
}

// SetFloatParameter applies a runtime change. The alive rate takes effect at
// the next reseed.
func (s *Simulation) SetFloatParameter(key string, value float64) bool {
	cfg := s.cfg
	switch key {
	case "step_interval":
		cfg.StepInterval = value
	case "alive_rate":
		cfg.AliveRate = value
	case "input_radius":
		cfg.InputRadius = value
	default:
		return false
	}
	s.cfg = cfg.Normalize()
	s.sched.SetInterval(s.cfg.StepInterval)
	s.injector.Radius = s.cfg.InputRadius
	return true
}

// SetIntParameter handles "seed": it pins the seed and reseeds immediately.
func (s *Simulation) SetIntParameter(key string, value int) bool {
	if key != "seed" || value == 0 {
		return false
	}
	s.cfg.Seed = int64(value)
	if !s.grid.Allocated() {
		return true
	}
	return s.Reseed(s.cfg.Seed) == nil
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: value}
}
