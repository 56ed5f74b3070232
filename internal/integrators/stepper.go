package integrators

import "fmt"

// Func is the derivative callback a stepper integrates: given time t and
// state y it returns dy/dt as a same-length vector. System.TStep matches
// this signature directly.
type Func func(t float64, y []float64) ([]float64, error)

// Stepper advances a state vector by one step of size dt.
type Stepper interface {
	Step(f Func, t float64, y []float64, dt float64) ([]float64, error)
}

// AdaptiveStepper additionally proposes the next step size from a local
// error estimate.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(f Func, t float64, y []float64, dt, tol float64) ([]float64, float64, error)
}

// New returns the named stepper: "euler", "rk4" or "rk45".
func New(name string) (Stepper, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	case "rk45":
		return NewRK45(), nil
	default:
		return nil, fmt.Errorf("integrators: unknown stepper %q", name)
	}
}
