package solver

import "fmt"

// View is a zero-copy window over a sub-range of a flat buffer. Read-only
// views reject in-place mutation; writable views mutate the shared backing
// array directly, so writes are visible through every other view of the
// same range.
type View struct {
	data     []float64
	writable bool
}

// Len returns the number of elements in the view.
func (v View) Len() int { return len(v.data) }

// Writable reports whether the view accepts mutation.
func (v View) Writable() bool { return v.writable }

// At returns the element at index i.
func (v View) At(i int) float64 { return v.data[i] }

// Scalar returns the first element. Convenience for length-1 variables.
func (v View) Scalar() float64 { return v.data[0] }

// Values returns a copy of the viewed range.
func (v View) Values() []float64 {
	out := make([]float64, len(v.data))
	copy(out, v.data)
	return out
}

// Set writes the element at index i. Panics on a read-only view.
func (v View) Set(i int, x float64) {
	v.check()
	v.data[i] = x
}

// Fill sets every element to x. Panics on a read-only view.
func (v View) Fill(x float64) {
	v.check()
	for i := range v.data {
		v.data[i] = x
	}
}

// Copy writes src into the viewed range. Panics on a read-only view or a
// length mismatch.
func (v View) Copy(src []float64) {
	v.check()
	if len(src) != len(v.data) {
		panic(fmt.Sprintf("solver: copy of %d values into view of length %d",
			len(src), len(v.data)))
	}
	copy(v.data, src)
}

func (v View) check() {
	if !v.writable {
		panic("solver: write to read-only view")
	}
}
