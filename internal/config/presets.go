package config

var presets = map[string]map[string]*Config{
	"oscillator": {
		"default": {
			Model: "oscillator", Stepper: DefaultStepper,
			End: 10.0, Framerate: 60,
			InternalDt: DefaultInternalDt, Tolerance: DefaultTolerance,
			Params: map[string]float64{"mass": 1.0, "stiffness": 1.0, "x0": 1.0},
		},
		"stiff": {
			Model: "oscillator", Stepper: DefaultStepper,
			End: 5.0, Framerate: 120,
			InternalDt: 1e-4, Tolerance: 1e-8,
			Params: map[string]float64{"mass": 0.5, "stiffness": 400.0, "x0": 0.2},
		},
	},
	"pendulum": {
		"small": {
			Model: "pendulum", Stepper: DefaultStepper,
			End: 10.0, Framerate: 60,
			InternalDt: DefaultInternalDt, Tolerance: DefaultTolerance,
			Params: map[string]float64{"theta": 0.2},
		},
		"swing": {
			Model: "pendulum", Stepper: DefaultStepper,
			End: 20.0, Framerate: 60,
			InternalDt: DefaultInternalDt, Tolerance: DefaultTolerance,
			Params: map[string]float64{"theta": 2.8, "damping": 0.02},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if absent.
func GetPreset(model, name string) *Config {
	group, ok := presets[model]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

// ListPresets returns the preset names for a model, or nil.
func ListPresets(model string) []string {
	group, ok := presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
