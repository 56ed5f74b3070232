package solver

import (
	"errors"
	"sort"
	"testing"
)

func TestSlicerAdd(t *testing.T) {
	s := NewSlicer()
	if err := s.Add("test_key_1", []float64{2.0, 3.0}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := s.Add("test_key_2", []float64{7.0}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if s.Len() != 3 {
		t.Errorf("expected length 3, got %d", s.Len())
	}
	r1, _ := s.Range("test_key_1")
	r2, _ := s.Range("test_key_2")
	if r1 != (Range{0, 2}) {
		t.Errorf("expected [0,2), got %+v", r1)
	}
	if r2 != (Range{2, 3}) {
		t.Errorf("expected [2,3), got %+v", r2)
	}
}

func TestSlicerDuplicateAdd(t *testing.T) {
	s := NewSlicer()
	if err := s.Add("x", []float64{1.0}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	err := s.Add("x", []float64{2.0})
	if !errors.Is(err, ErrDuplicateVariable) {
		t.Errorf("expected ErrDuplicateVariable, got %v", err)
	}
}

func TestSlicerEmptyTemplate(t *testing.T) {
	s := NewSlicer()
	err := s.Add("x", nil)
	if !errors.Is(err, ErrMissingVariable) {
		t.Errorf("expected ErrMissingVariable, got %v", err)
	}
}

func TestSlicerContiguity(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		sizes []int
	}{
		{"scalars", []string{"a", "b", "c"}, []int{1, 1, 1}},
		{"mixed", []string{"b", "a", "c"}, []int{3, 1, 2}},
		{"single", []string{"only"}, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlicer()
			total := 0
			for i, name := range tt.names {
				if err := s.Add(name, make([]float64, tt.sizes[i])); err != nil {
					t.Fatalf("add %q: %v", name, err)
				}
				total += tt.sizes[i]
			}
			if s.Len() != total {
				t.Fatalf("expected total %d, got %d", total, s.Len())
			}

			ranges := make([]Range, 0, len(tt.names))
			for _, name := range s.Names() {
				r, err := s.Range(name)
				if err != nil {
					t.Fatalf("range %q: %v", name, err)
				}
				ranges = append(ranges, r)
			}
			sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
			prev := 0
			for _, r := range ranges {
				if r.Start != prev {
					t.Errorf("gap or overlap at %d: range starts at %d", prev, r.Start)
				}
				prev = r.End
			}
			if prev != total {
				t.Errorf("ranges cover [0,%d), want [0,%d)", prev, total)
			}
		})
	}
}

func TestSlicerInsertionOrder(t *testing.T) {
	s := NewSlicer()
	names := []string{"z", "a", "m"}
	vals := map[string][]float64{
		"z": {1},
		"a": {2, 3},
		"m": {4},
	}
	if err := s.AddAll(names, vals); err != nil {
		t.Fatalf("add all: %v", err)
	}
	got := s.Names()
	for i, name := range names {
		if got[i] != name {
			t.Errorf("position %d: expected %q, got %q", i, name, got[i])
		}
	}
}

func TestBuildVectorRoundTrip(t *testing.T) {
	s := NewSlicer()
	vals := map[string][]float64{
		"test_key_1": {2.0, 3.0},
		"test_key_2": {7.0},
	}
	if err := s.AddAll([]string{"test_key_1", "test_key_2"}, vals); err != nil {
		t.Fatalf("add all: %v", err)
	}

	vec, err := s.BuildVector(vals)
	if err != nil {
		t.Fatalf("build vector: %v", err)
	}
	want := []float64{2.0, 3.0, 7.0}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want[i])
		}
	}

	views, err := s.Views(vec, nil, false)
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	// No arithmetic on this path: values must round-trip bit for bit.
	for name, orig := range vals {
		got := views[name].Values()
		if len(got) != len(orig) {
			t.Fatalf("%q: length %d, want %d", name, len(got), len(orig))
		}
		for i := range orig {
			if got[i] != orig[i] {
				t.Errorf("%q[%d] = %v, want %v", name, i, got[i], orig[i])
			}
		}
	}
}

func TestBuildVectorUnknownName(t *testing.T) {
	s := NewSlicer()
	if err := s.Add("a", []float64{1}); err != nil {
		t.Fatal(err)
	}
	_, err := s.BuildVector(map[string][]float64{"missing": {1}})
	if !errors.Is(err, ErrUnknownVariable) {
		t.Errorf("expected ErrUnknownVariable, got %v", err)
	}
}

func TestBuildVectorLengthMismatch(t *testing.T) {
	s := NewSlicer()
	if err := s.Add("a", []float64{1, 2}); err != nil {
		t.Fatal(err)
	}
	_, err := s.BuildVector(map[string][]float64{"a": {1}})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestViewWrongBufferLength(t *testing.T) {
	s := NewSlicer()
	if err := s.Add("a", []float64{1, 2}); err != nil {
		t.Fatal(err)
	}
	_, err := s.View([]float64{1}, "a", false)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}
