// Package models contains example components that exercise the solver
// core: a particle driven by an injected force, force sources, and the
// coupling assembly that wires them together through the stage pipeline.
package models

import (
	"github.com/calebmah/odekit/internal/solver"
)

// Variable names owned by Particle.
const (
	VarPosition = "position"
	VarVelocity = "velocity"
)

// Particle owns a position/velocity pair. It does not compute its own
// force; a coupling stage call injects the net force before the
// derivative method runs.
type Particle struct {
	Mass float64

	x0, v0 []float64
	force  []float64
}

func NewParticle(mass float64, x0, v0 []float64) *Particle {
	return &Particle{
		Mass:  mass,
		x0:    append([]float64(nil), x0...),
		v0:    append([]float64(nil), v0...),
		force: make([]float64, len(x0)),
	}
}

func (p *Particle) Vars() []solver.Var {
	return []solver.Var{
		{Name: VarPosition, Init: p.x0},
		{Name: VarVelocity, Init: p.v0},
	}
}

// SetForce injects the net force for the current step.
func (p *Particle) SetForce(f []float64) {
	copy(p.force, f)
}

func (p *Particle) Derivs(state solver.State, t float64, log *solver.Log) (map[string][]float64, error) {
	vel := state[VarVelocity].Values()
	acc := make([]float64, len(p.force))
	for i := range acc {
		acc[i] = p.force[i] / p.Mass
	}
	return map[string][]float64{
		VarPosition: vel,
		VarVelocity: acc,
	}, nil
}

// ForceSource computes a force from the current state.
type ForceSource interface {
	Force(state solver.State, t float64) []float64
}

// ConstantForce applies a fixed force. Declares no variables.
type ConstantForce struct {
	F []float64
}

func (c *ConstantForce) Vars() []solver.Var { return nil }

func (c *ConstantForce) Force(state solver.State, t float64) []float64 {
	return c.F
}

// Spring pulls the particle toward the origin with stiffness K.
type Spring struct {
	K float64
}

func (s *Spring) Vars() []solver.Var { return nil }

func (s *Spring) Force(state solver.State, t float64) []float64 {
	f := state[VarPosition].Values()
	for i := range f {
		f[i] *= -s.K
	}
	return f
}

// Coupling is the assembly handling the particle's dependency on its
// force source. Its Inject stage call runs before any derivative method,
// reading the force from the source and pushing it into the particle's
// private state.
type Coupling struct {
	particle *Particle
	source   ForceSource
}

func NewCoupling(p *Particle, src ForceSource) *Coupling {
	return &Coupling{particle: p, source: src}
}

func (c *Coupling) Vars() []solver.Var { return nil }

func (c *Coupling) Inject(state solver.State, t float64, log *solver.Log) error {
	f := c.source.Force(state, t)
	c.particle.SetForce(f)
	log.Record("force", f[0])
	return nil
}

// StopAfter raises the stop flag once a frame at or past T is logged.
type StopAfter struct {
	T float64
}

func (s *StopAfter) Vars() []solver.Var { return nil }

func (s *StopAfter) Check(state solver.State, t float64, log *solver.Log) error {
	if log != nil && t >= s.T {
		log.Stop = true
	}
	return nil
}

// NewOscillator wires a spring-mass oscillator: particle, spring and
// coupling, with the coupling's Inject as the single stage call.
func NewOscillator(mass, stiffness, x0, v0 float64) (*solver.System, error) {
	particle := NewParticle(mass, []float64{x0}, []float64{v0})
	spring := &Spring{K: stiffness}
	coupling := NewCoupling(particle, spring)

	sys := solver.New()
	if err := sys.AddComponent("particle", particle, particle.Derivs); err != nil {
		return nil, err
	}
	if err := sys.AddComponent("spring", spring, nil); err != nil {
		return nil, err
	}
	if err := sys.AddComponent("coupling", coupling, nil); err != nil {
		return nil, err
	}
	if err := sys.SetStageCalls([]solver.StageCall{
		{Component: "coupling", Label: "inject", Fn: coupling.Inject},
	}); err != nil {
		return nil, err
	}
	return sys, nil
}
