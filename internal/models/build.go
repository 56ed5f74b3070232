package models

import (
	"fmt"

	"github.com/calebmah/odekit/internal/solver"
)

// SystemSpec is a wired example system plus presentation hints for the
// CLI: the model name and the default series to plot.
type SystemSpec struct {
	Name    string
	System  *solver.System
	PlotVar string
}

// Build returns a wired System for a named example model. params may
// override the model's physical constants; unknown params are ignored.
func Build(name string, params map[string]float64) (*SystemSpec, error) {
	switch name {
	case "oscillator":
		sys, err := NewOscillator(
			param(params, "mass", 1.0),
			param(params, "stiffness", 1.0),
			param(params, "x0", 1.0),
			param(params, "v0", 0.0),
		)
		if err != nil {
			return nil, err
		}
		return &SystemSpec{Name: name, System: sys, PlotVar: VarPosition}, nil
	case "pendulum":
		pend := NewPendulum()
		pend.Mass = param(params, "mass", pend.Mass)
		pend.Length = param(params, "length", pend.Length)
		pend.Damping = param(params, "damping", pend.Damping)
		pend.Gravity = param(params, "gravity", pend.Gravity)
		pend.Theta0 = param(params, "theta", pend.Theta0)
		pend.Omega0 = param(params, "omega", pend.Omega0)
		sys, err := NewPendulumSystem(pend)
		if err != nil {
			return nil, err
		}
		return &SystemSpec{Name: name, System: sys, PlotVar: VarTheta}, nil
	default:
		return nil, fmt.Errorf("models: unknown model %q", name)
	}
}

// Names lists the available example models.
func Names() []string {
	return []string{"oscillator", "pendulum"}
}

func param(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}
