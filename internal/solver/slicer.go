package solver

import "fmt"

// Range is a half-open index range [Start, End) within the flat buffer.
type Range struct {
	Start int
	End   int
}

// Len returns the number of elements covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// Slicer assigns each variable name a fixed, non-overlapping range within
// one contiguous buffer. Ranges are assigned in insertion order and cover
// [0, Len()) exactly. Once a System is set up the mapping is read-only.
type Slicer struct {
	ranges map[string]Range
	order  []string
	n      int
}

// NewSlicer returns an empty Slicer.
func NewSlicer() *Slicer {
	return &Slicer{ranges: make(map[string]Range)}
}

// Add registers a variable whose length is inferred from the template
// value. Re-adding a name is a hard error.
func (s *Slicer) Add(name string, template []float64) error {
	if _, ok := s.ranges[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateVariable, name)
	}
	if len(template) == 0 {
		return fmt.Errorf("%w: %q", ErrMissingVariable, name)
	}
	s.ranges[name] = Range{Start: s.n, End: s.n + len(template)}
	s.order = append(s.order, name)
	s.n += len(template)
	return nil
}

// AddAll registers each named variable in order, taking templates from
// vals. The explicit name list fixes the range order.
func (s *Slicer) AddAll(names []string, vals map[string][]float64) error {
	for _, name := range names {
		if err := s.Add(name, vals[name]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the total buffer length.
func (s *Slicer) Len() int { return s.n }

// Names returns the variable names in range order.
func (s *Slicer) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Range returns the assigned range for a name.
func (s *Slicer) Range(name string) (Range, error) {
	r, ok := s.ranges[name]
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	return r, nil
}

// BuildVector allocates a zero buffer of total length and scatters each
// entry of vals into its assigned range.
func (s *Slicer) BuildVector(vals map[string][]float64) ([]float64, error) {
	vec := make([]float64, s.n)
	for name, val := range vals {
		r, ok := s.ranges[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
		}
		if len(val) != r.Len() {
			return nil, fmt.Errorf("%w: %q has length %d, want %d",
				ErrLengthMismatch, name, len(val), r.Len())
		}
		copy(vec[r.Start:r.End], val)
	}
	return vec, nil
}

// View returns a zero-copy view of buf for the named variable.
func (s *Slicer) View(buf []float64, name string, writable bool) (View, error) {
	if len(buf) != s.n {
		return View{}, fmt.Errorf("%w: buffer has length %d, want %d",
			ErrLengthMismatch, len(buf), s.n)
	}
	r, err := s.Range(name)
	if err != nil {
		return View{}, err
	}
	return View{data: buf[r.Start:r.End], writable: writable}, nil
}

// Views returns a name-to-view map for the given names, or for every
// registered variable when names is nil. Built once per setup so the step
// path never rebuilds dictionaries.
func (s *Slicer) Views(buf []float64, names []string, writable bool) (map[string]View, error) {
	if names == nil {
		names = s.order
	}
	out := make(map[string]View, len(names))
	for _, name := range names {
		v, err := s.View(buf, name, writable)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
