package runner_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/calebmah/odekit/internal/integrators"
	"github.com/calebmah/odekit/internal/models"
	"github.com/calebmah/odekit/internal/runner"
	"github.com/calebmah/odekit/internal/solver"
)

// decay owns a single variable with dx/dt = -x, so x(t) = e^-t.
type decay struct{}

func (d *decay) Vars() []solver.Var {
	return []solver.Var{{Name: "x", Init: []float64{1.0}}}
}

func (d *decay) Derivs(state solver.State, t float64, log *solver.Log) (map[string][]float64, error) {
	return map[string][]float64{"x": {-state["x"].Scalar()}}, nil
}

func decaySystem() *solver.System {
	sys := solver.New()
	d := &decay{}
	Expect(sys.AddComponent("decay", d, d.Derivs)).To(Succeed())
	return sys
}

var _ = Describe("Runner", func() {
	Describe("output frame grid", func() {
		It("rounds the grid down to whole frames", func() {
			r := runner.New()
			r.Framerate = 3

			rec, err := r.Run(decaySystem(), 1.0)
			Expect(err).NotTo(HaveOccurred())
			// floor(1.0*3)+1 samples, ending exactly on a frame boundary.
			Expect(rec.Frames()).To(Equal(4))
			Expect(rec.Time[0]).To(Equal(0.0))
			Expect(rec.Time[3]).To(Equal(1.0))
		})

		It("never overshoots the end time", func() {
			r := runner.New()
			r.Framerate = 3

			rec, err := r.Run(decaySystem(), 1.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Frames()).To(Equal(4))
			Expect(rec.Time[rec.Frames()-1]).To(BeNumerically("<=", 1.1))
		})

		It("rejects a non-positive framerate", func() {
			r := runner.New()
			r.Framerate = 0
			_, err := r.Run(decaySystem(), 1.0)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive end time", func() {
			r := runner.New()
			_, err := r.Run(decaySystem(), 0)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("early stop", func() {
		It("keeps every frame up to and including the stopping frame", func() {
			sys := decaySystem()
			stopper := &models.StopAfter{T: 5.0 / 60.0}
			Expect(sys.AddComponent("stopper", stopper, nil)).To(Succeed())
			Expect(sys.AddStageCall("stopper", "check", stopper.Check)).To(Succeed())

			r := runner.New()
			r.Framerate = 60

			rec, err := r.Run(sys, 10.0)
			Expect(err).NotTo(HaveOccurred())
			// Stop raised at frame index 5: frames 0..5 inclusive.
			Expect(rec.Frames()).To(Equal(6))
		})
	})

	Describe("trajectory accuracy", func() {
		It("tracks the analytic solution with the adaptive stepper", func() {
			rec, err := runner.New().Run(decaySystem(), 2.0)
			Expect(err).NotTo(HaveOccurred())

			xs := rec.Scalars("x")
			Expect(xs).To(HaveLen(rec.Frames()))
			for i, tv := range rec.Time {
				Expect(xs[i]).To(BeNumerically("~", math.Exp(-tv), 1e-4))
			}
		})

		It("tracks the analytic solution with a fixed-step stepper", func() {
			r := runner.New()
			r.Stepper = integrators.NewRK4()
			r.InternalDt = 1e-3
			r.Framerate = 10

			rec, err := r.Run(decaySystem(), 1.0)
			Expect(err).NotTo(HaveOccurred())
			last := rec.Scalars("x")[rec.Frames()-1]
			Expect(last).To(BeNumerically("~", math.Exp(-1.0), 1e-6))
		})

		It("reproduces the spring-mass oscillation", func() {
			spec, err := models.Build("oscillator", map[string]float64{
				"mass": 1.0, "stiffness": 1.0, "x0": 1.0, "v0": 0.0,
			})
			Expect(err).NotTo(HaveOccurred())

			rec, err := runner.New().Run(spec.System, 2.0)
			Expect(err).NotTo(HaveOccurred())

			xs := rec.Scalars(models.VarPosition)
			for i, tv := range rec.Time {
				Expect(xs[i]).To(BeNumerically("~", math.Cos(tv), 1e-4))
			}
		})
	})

	Describe("auxiliary series", func() {
		It("records values logged by stage calls once per frame", func() {
			spec, err := models.Build("pendulum", nil)
			Expect(err).NotTo(HaveOccurred())

			rec, err := runner.New().Run(spec.System, 1.0)
			Expect(err).NotTo(HaveOccurred())

			Expect(rec.Names()).To(ContainElement("energy"))
			energy := rec.Scalars("energy")
			Expect(energy).To(HaveLen(rec.Frames()))
			// Damped pendulum: energy must not grow.
			Expect(energy[len(energy)-1]).To(BeNumerically("<=", energy[0]))
		})
	})

	Describe("observers", func() {
		It("sees one callback per logged frame", func() {
			r := runner.New()
			r.Framerate = 5

			obs := &countingObserver{}
			r.AddObserver(obs)

			rec, err := r.Run(decaySystem(), 1.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.frames).To(Equal(rec.Frames()))
		})
	})
})

type countingObserver struct {
	frames int
}

func (c *countingObserver) OnFrame(t float64, vec []float64, log *solver.Log) {
	c.frames++
}
