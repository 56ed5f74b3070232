// Package runner drives a solver.System across a time range at a fixed
// output frame rate, decoupling the logging cadence from the internal
// (possibly adaptive) integrator substeps.
package runner

import (
	"fmt"
	"math"

	"github.com/calebmah/odekit/internal/integrators"
	"github.com/calebmah/odekit/internal/solver"
)

// Observer is notified once per logged output frame, never on internal
// substeps.
type Observer interface {
	OnFrame(t float64, vec []float64, log *solver.Log)
}

// Runner advances a System to each output-grid time with an underlying
// stepper, logging one deterministic frame per grid point. A stop flag
// set during a frame ends the run after that frame.
type Runner struct {
	Framerate  float64
	Stepper    integrators.Stepper
	InternalDt float64 // initial / fixed internal step size
	Tolerance  float64 // adaptive error tolerance
	MinDt      float64
	MaxDt      float64

	observers []Observer
}

// New returns a Runner with 60 fps output and an adaptive RK45 stepper.
func New() *Runner {
	return &Runner{
		Framerate:  60.0,
		Stepper:    integrators.NewRK45(),
		InternalDt: 1e-3,
		Tolerance:  1e-6,
		MinDt:      1e-8,
		MaxDt:      0.1,
	}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run integrates sys from 0 to end, logging frames at i/Framerate for
// i = 0..floor(end*Framerate). The last frame lands exactly on a frame
// boundary rather than overshooting end. Sets the System up with its
// declared initial values if the caller has not done so.
func (r *Runner) Run(sys *solver.System, end float64) (*Recording, error) {
	if r.Framerate <= 0 {
		return nil, fmt.Errorf("runner: framerate must be positive, got %f", r.Framerate)
	}
	if end <= 0 {
		return nil, fmt.Errorf("runner: end must be positive, got %f", end)
	}
	if !sys.Ready() {
		if err := sys.Setup(nil); err != nil {
			return nil, err
		}
	}

	// Internal substeps never see a Log; only finalized frames do.
	f := func(t float64, y []float64) ([]float64, error) {
		return sys.TStep(t, y, nil)
	}

	frames := int(math.Floor(end*r.Framerate + 1e-9))
	rec := newRecording(sys.Slicer().Names())
	y := sys.InitVec()

	stop, err := r.frame(sys, rec, 0, y)
	if err != nil {
		return nil, err
	}
	for i := 1; i <= frames && !stop; i++ {
		tPrev := float64(i-1) / r.Framerate
		tNext := float64(i) / r.Framerate
		y, err = r.advance(f, tPrev, tNext, y)
		if err != nil {
			return nil, err
		}
		stop, err = r.frame(sys, rec, tNext, y)
		if err != nil {
			return nil, err
		}
	}
	sys.Finish()
	return rec, nil
}

// frame logs one output sample: a full Step at the exact grid time with a
// fresh Log, so stage calls can record auxiliary values and check
// finalized state.
func (r *Runner) frame(sys *solver.System, rec *Recording, t float64, y []float64) (bool, error) {
	log := solver.NewLog()
	if _, err := sys.Step(y, t, log); err != nil {
		return false, err
	}
	vals, err := sys.Unpack(y)
	if err != nil {
		return false, err
	}
	rec.append(t, vals, log)
	for _, o := range r.observers {
		o.OnFrame(t, y, log)
	}
	return log.Stop, nil
}

// advance integrates from t0 to t1, taking as many internal substeps as
// the stepper needs and clipping the final substep to land on t1.
func (r *Runner) advance(f integrators.Func, t0, t1 float64, y []float64) ([]float64, error) {
	const eps = 1e-12

	if as, ok := r.Stepper.(integrators.AdaptiveStepper); ok {
		t := t0
		dt := math.Min(r.InternalDt, t1-t0)
		for t1-t > eps {
			if t+dt > t1 {
				dt = t1 - t
			}
			yNew, dtNext, err := as.StepAdaptive(f, t, y, dt, r.Tolerance)
			if err != nil {
				return nil, err
			}
			y = yNew
			t += dt
			dt = math.Min(math.Max(dtNext, r.MinDt), r.MaxDt)
		}
		return y, nil
	}

	t := t0
	for t1-t > eps {
		dt := math.Min(r.InternalDt, t1-t)
		yNew, err := r.Stepper.Step(f, t, y, dt)
		if err != nil {
			return nil, err
		}
		y = yNew
		t += dt
	}
	return y, nil
}
