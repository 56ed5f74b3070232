package solver

import (
	"errors"
	"fmt"
)

// Configuration errors. All are raised at registration or setup time,
// never deferred to the step path.
var (
	// ErrDuplicateVariable indicates a variable name declared by more
	// than one component, or re-added to a Slicer.
	ErrDuplicateVariable = errors.New("solver: duplicate variable")

	// ErrUnknownVariable indicates a name that was never registered.
	ErrUnknownVariable = errors.New("solver: unknown variable")

	// ErrMissingVariable indicates a declared variable with no initial value.
	ErrMissingVariable = errors.New("solver: missing initial value")

	// ErrDuplicateComponent indicates a component name added twice.
	ErrDuplicateComponent = errors.New("solver: duplicate component")

	// ErrComponentNotFound indicates a stage or init call referencing an
	// unregistered component.
	ErrComponentNotFound = errors.New("solver: component not found")

	// ErrNilMethod indicates a nil stage, init or derivative function.
	ErrNilMethod = errors.New("solver: nil method")

	// ErrNotSetUp indicates a step was attempted before Setup.
	ErrNotSetUp = errors.New("solver: system not set up")

	// ErrLengthMismatch indicates a value whose length does not match the
	// variable's declared arity, or a vector of the wrong total length.
	ErrLengthMismatch = errors.New("solver: length mismatch")
)

// StepError attributes a step-time failure to the component and method
// that produced it.
type StepError struct {
	Component string
	Method    string
	Time      float64
	Wrapped   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("component %q method %q at t=%g: %v",
		e.Component, e.Method, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
