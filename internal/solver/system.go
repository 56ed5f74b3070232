package solver

import "fmt"

// State is the read-only view map handed to components during stage and
// derivative calls. Components must not retain it past the call.
type State map[string]View

// Var is one declared variable: a unique name plus its default initial
// value, whose length fixes the variable's arity.
type Var struct {
	Name string
	Init []float64
}

// Component is the minimal contract for objects added to a System. Vars
// returns the variables the component owns, in declaration order; the
// slice may be empty for components that only participate in stage calls.
type Component interface {
	Vars() []Var
}

// Finisher is implemented by components that hold transient per-run state
// to release once a run completes.
type Finisher interface {
	Finish()
}

// StageFunc is a pre-derivative call. Stage functions may mutate private
// fields on their own component or assembly, never the shared state.
type StageFunc func(state State, t float64, log *Log) error

// DerivFunc returns the time derivatives of the variables a component
// owns, keyed by variable name.
type DerivFunc func(state State, t float64, log *Log) (map[string][]float64, error)

// StageCall is the declarative form used with SetStageCalls and
// SetInitCalls. Component must name a registered component; Label
// identifies the method in error attribution.
type StageCall struct {
	Component string
	Label     string
	Fn        StageFunc
}

type componentRecord struct {
	name  string
	comp  Component
	deriv DerivFunc
}

type stageRecord struct {
	component string
	label     string
	fn        StageFunc
}

// System ties the Slicer, the component registry and the stage pipeline
// together behind the step signature external integrators expect.
//
// Lifecycle: register components and stage calls, call Setup once, then
// Step or TStep any number of times.
type System struct {
	components []componentRecord
	byName     map[string]Component
	stageCalls []stageRecord
	initCalls  []stageRecord
	cachers    []StepCacher

	slicer   *Slicer
	stateVec []float64
	retVec   []float64
	initVec  []float64
	state    State
	ret      map[string]View
	ready    bool
}

// New returns an empty System.
func New() *System {
	return &System{byName: make(map[string]Component)}
}

// AddComponent registers comp under a unique name. deriv is the method
// called at the end of each step to produce the component's partial
// derivatives; it may be nil for components that only participate in
// stage calls. Methods are bound function values, so there is no name
// lookup on the step path.
func (s *System) AddComponent(name string, comp Component, deriv DerivFunc) error {
	if comp == nil {
		return fmt.Errorf("%w: component %q is nil", ErrNilMethod, name)
	}
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, name)
	}
	s.byName[name] = comp
	s.components = append(s.components, componentRecord{name: name, comp: comp, deriv: deriv})
	if c, ok := comp.(StepCacher); ok {
		s.cachers = append(s.cachers, c)
	}
	return nil
}

// Component returns the registered component for name.
func (s *System) Component(name string) (Component, error) {
	comp, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	return comp, nil
}

// AddStageCall appends a call to the stage pipeline. Stage calls run
// strictly in registration order at every step, before any derivative
// method. The component must already be registered.
func (s *System) AddStageCall(componentName, label string, fn StageFunc) error {
	rec, err := s.resolveCall(componentName, label, fn)
	if err != nil {
		return err
	}
	s.stageCalls = append(s.stageCalls, rec)
	return nil
}

// SetStageCalls replaces the whole stage pipeline, applying AddStageCall
// for each entry in order.
func (s *System) SetStageCalls(calls []StageCall) error {
	s.stageCalls = s.stageCalls[:0]
	for _, c := range calls {
		if err := s.AddStageCall(c.Component, c.Label, c.Fn); err != nil {
			return err
		}
	}
	return nil
}

// AddInitCall appends a one-time call run during Setup at t=0.
func (s *System) AddInitCall(componentName, label string, fn StageFunc) error {
	rec, err := s.resolveCall(componentName, label, fn)
	if err != nil {
		return err
	}
	s.initCalls = append(s.initCalls, rec)
	return nil
}

// SetInitCalls replaces all one-time initialisation calls.
func (s *System) SetInitCalls(calls []StageCall) error {
	s.initCalls = s.initCalls[:0]
	for _, c := range calls {
		if err := s.AddInitCall(c.Component, c.Label, c.Fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *System) resolveCall(componentName, label string, fn StageFunc) (stageRecord, error) {
	if _, ok := s.byName[componentName]; !ok {
		return stageRecord{}, fmt.Errorf("%w: %q (add the component first)",
			ErrComponentNotFound, componentName)
	}
	if fn == nil {
		return stageRecord{}, fmt.Errorf("%w: %q on component %q",
			ErrNilMethod, label, componentName)
	}
	return stageRecord{component: componentName, label: label, fn: fn}, nil
}

// Setup collects every component's declared variables in registration
// order, builds the Slicer and the state and return buffers, constructs
// the view maps once, snapshots the initial vector and runs the
// registered init calls at t=0.
//
// Initial values come from the component declarations. overrides may
// replace the value of any declared variable; overriding an undeclared
// name or changing a variable's arity is an error. A variable declared
// by two components is an error at merge time.
func (s *System) Setup(overrides map[string][]float64) error {
	slicer := NewSlicer()
	inits := make(map[string][]float64)
	owner := make(map[string]string)
	for _, rec := range s.components {
		for _, v := range rec.comp.Vars() {
			if prev, ok := owner[v.Name]; ok {
				return fmt.Errorf("%w: %q declared by components %q and %q",
					ErrDuplicateVariable, v.Name, prev, rec.name)
			}
			owner[v.Name] = rec.name
			init := v.Init
			if over, ok := overrides[v.Name]; ok {
				if len(v.Init) > 0 && len(over) != len(v.Init) {
					return fmt.Errorf("%w: override for %q has length %d, want %d",
						ErrLengthMismatch, v.Name, len(over), len(v.Init))
				}
				init = over
			}
			if len(init) == 0 {
				return fmt.Errorf("%w: %q (component %q)",
					ErrMissingVariable, v.Name, rec.name)
			}
			if err := slicer.Add(v.Name, init); err != nil {
				return err
			}
			inits[v.Name] = init
		}
	}
	for name := range overrides {
		if _, ok := owner[name]; !ok {
			return fmt.Errorf("%w: override for %q: no component declares it",
				ErrUnknownVariable, name)
		}
	}

	stateVec, err := slicer.BuildVector(inits)
	if err != nil {
		return err
	}
	retVec := make([]float64, slicer.Len())
	state, err := slicer.Views(stateVec, nil, false)
	if err != nil {
		return err
	}
	ret, err := slicer.Views(retVec, nil, true)
	if err != nil {
		return err
	}

	s.slicer = slicer
	s.stateVec = stateVec
	s.retVec = retVec
	s.initVec = append([]float64(nil), stateVec...)
	s.state = state
	s.ret = ret
	s.ready = true

	for _, ic := range s.initCalls {
		if err := ic.fn(s.state, 0.0, nil); err != nil {
			return &StepError{Component: ic.component, Method: ic.label, Time: 0, Wrapped: err}
		}
	}
	return nil
}

// Ready reports whether Setup has completed.
func (s *System) Ready() bool { return s.ready }

// Len returns the total state vector length. Zero before Setup.
func (s *System) Len() int {
	if !s.ready {
		return 0
	}
	return s.slicer.Len()
}

// Slicer returns the slice mapping built at Setup.
func (s *System) Slicer() *Slicer { return s.slicer }

// InitVec returns a copy of the initial state vector, the starting point
// for an external integrator.
func (s *System) InitVec() []float64 {
	return append([]float64(nil), s.initVec...)
}

// Step copies vec into the live state buffer, runs the stage pipeline in
// order, then each derivative method in registration order, scattering
// the returned partial derivatives into the shared return buffer. The
// returned slice is that buffer: valid until the next Step.
//
// Stage calls see the state fully updated from vec and complete before
// any derivative method runs; every derivative method sees the same
// state.
func (s *System) Step(vec []float64, t float64, log *Log) ([]float64, error) {
	if !s.ready {
		return nil, ErrNotSetUp
	}
	if len(vec) != len(s.stateVec) {
		return nil, fmt.Errorf("%w: step vector has length %d, want %d",
			ErrLengthMismatch, len(vec), len(s.stateVec))
	}
	copy(s.stateVec, vec)
	for _, c := range s.cachers {
		c.ClearStepCache()
	}
	for _, sc := range s.stageCalls {
		if err := sc.fn(s.state, t, log); err != nil {
			return nil, &StepError{Component: sc.component, Method: sc.label, Time: t, Wrapped: err}
		}
	}
	for _, rec := range s.components {
		if rec.deriv == nil {
			continue
		}
		derivs, err := rec.deriv(s.state, t, log)
		if err != nil {
			return nil, &StepError{Component: rec.name, Method: "derivatives", Time: t, Wrapped: err}
		}
		if derivs == nil {
			return nil, &StepError{Component: rec.name, Method: "derivatives", Time: t,
				Wrapped: fmt.Errorf("returned no derivative map")}
		}
		for name, val := range derivs {
			view, ok := s.ret[name]
			if !ok {
				return nil, &StepError{Component: rec.name, Method: "derivatives", Time: t,
					Wrapped: fmt.Errorf("%w: returned %q", ErrUnknownVariable, name)}
			}
			if len(val) != view.Len() {
				return nil, &StepError{Component: rec.name, Method: "derivatives", Time: t,
					Wrapped: fmt.Errorf("%w: %q has length %d, want %d",
						ErrLengthMismatch, name, len(val), view.Len())}
			}
			view.Copy(val)
		}
	}
	return s.retVec, nil
}

// TStep is identical to Step with the time argument first, matching
// integrators that pass time before the state vector.
func (s *System) TStep(t float64, vec []float64, log *Log) ([]float64, error) {
	return s.Step(vec, t, log)
}

// Unpack returns a name-to-value map of copies of vec's sub-ranges.
func (s *System) Unpack(vec []float64) (map[string][]float64, error) {
	if !s.ready {
		return nil, ErrNotSetUp
	}
	views, err := s.slicer.Views(vec, nil, false)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float64, len(views))
	for name, v := range views {
		out[name] = v.Values()
	}
	return out, nil
}

// Finish notifies components implementing Finisher that the run is over.
func (s *System) Finish() {
	for _, rec := range s.components {
		if f, ok := rec.comp.(Finisher); ok {
			f.Finish()
		}
	}
}
