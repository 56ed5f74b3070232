package solver

// Log is the per-step side channel threaded through stage and derivative
// calls. Components may record auxiliary values to be captured alongside
// the state at each output frame, and may set Stop to end a run after the
// current frame.
//
// The caller owns the Log: the integrator adapter constructs a fresh one
// per frame and passes nil during internal substeps, so a nil *Log is
// valid and all methods are no-ops on it.
type Log struct {
	// Stop requests cooperative termination after this frame.
	Stop bool

	values map[string]float64
	order  []string
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{values: make(map[string]float64)}
}

// Record stores an auxiliary value under name. Recording under an
// existing name overwrites the value and keeps its position.
func (l *Log) Record(name string, v float64) {
	if l == nil {
		return
	}
	if _, ok := l.values[name]; !ok {
		l.order = append(l.order, name)
	}
	l.values[name] = v
}

// Value returns the recorded value for name.
func (l *Log) Value(name string) (float64, bool) {
	if l == nil {
		return 0, false
	}
	v, ok := l.values[name]
	return v, ok
}

// Names returns the recorded names in first-recorded order.
func (l *Log) Names() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}
