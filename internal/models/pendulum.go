package models

import (
	"math"

	"github.com/calebmah/odekit/internal/solver"
)

// Variable names owned by Pendulum.
const (
	VarTheta = "theta"
	VarOmega = "omega"
)

// Pendulum is a damped pendulum as a single self-contained component.
// The embedded StepCache memoizes the energy within a step so the stage
// call and any observer share one computation.
type Pendulum struct {
	solver.StepCache

	Mass    float64
	Length  float64
	Damping float64
	Gravity float64

	Theta0 float64
	Omega0 float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
		Theta0:  0.5,
	}
}

func (p *Pendulum) Vars() []solver.Var {
	return []solver.Var{
		{Name: VarTheta, Init: []float64{p.Theta0}},
		{Name: VarOmega, Init: []float64{p.Omega0}},
	}
}

func (p *Pendulum) Derivs(state solver.State, t float64, log *solver.Log) (map[string][]float64, error) {
	theta := state[VarTheta].Scalar()
	omega := state[VarOmega].Scalar()

	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta)) /
		(p.Mass * p.Length * p.Length)

	return map[string][]float64{
		VarTheta: {omega},
		VarOmega: {alpha},
	}, nil
}

// Energy returns kinetic plus potential energy for the current state,
// computed at most once per step.
func (p *Pendulum) Energy(state solver.State) float64 {
	return p.Value("energy", func() float64 {
		theta := state[VarTheta].Scalar()
		omega := state[VarOmega].Scalar()
		v := p.Length * omega
		ke := 0.5 * p.Mass * v * v
		pe := p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(theta))
		return ke + pe
	})
}

// RecordEnergy is a stage call that logs the energy each frame.
func (p *Pendulum) RecordEnergy(state solver.State, t float64, log *solver.Log) error {
	log.Record("energy", p.Energy(state))
	return nil
}

// NewPendulumSystem wires a pendulum with its energy stage call.
func NewPendulumSystem(pend *Pendulum) (*solver.System, error) {
	sys := solver.New()
	if err := sys.AddComponent("pendulum", pend, pend.Derivs); err != nil {
		return nil, err
	}
	if err := sys.AddStageCall("pendulum", "record_energy", pend.RecordEnergy); err != nil {
		return nil, err
	}
	return sys, nil
}
