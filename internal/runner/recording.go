package runner

import (
	"math"

	"github.com/calebmah/odekit/internal/solver"
)

// Recording is the assembled trajectory of a run: one evenly spaced time
// axis plus, for each variable and each logged auxiliary key, one series
// with a row per frame. The time axis is held separately from the named
// series; "time" is reserved.
type Recording struct {
	Time []float64

	varNames []string
	names    []string // variables first, then aux keys in first-seen order
	series   map[string][][]float64
}

func newRecording(varNames []string) *Recording {
	rec := &Recording{
		varNames: varNames,
		names:    append([]string(nil), varNames...),
		series:   make(map[string][][]float64, len(varNames)),
	}
	return rec
}

// append adds one frame. Auxiliary keys that first appear mid-run are
// backfilled with NaN for earlier frames; keys absent from this frame get
// NaN for it. Variable rows are always present.
func (rec *Recording) append(t float64, vals map[string][]float64, log *solver.Log) {
	rec.Time = append(rec.Time, t)
	for _, name := range rec.varNames {
		rec.series[name] = append(rec.series[name], vals[name])
	}
	for _, name := range log.Names() {
		if _, ok := rec.series[name]; !ok {
			rec.names = append(rec.names, name)
			backfill := make([][]float64, len(rec.Time)-1)
			for i := range backfill {
				backfill[i] = []float64{math.NaN()}
			}
			rec.series[name] = backfill
		}
		v, _ := log.Value(name)
		rec.series[name] = append(rec.series[name], []float64{v})
	}
	for _, name := range rec.names[len(rec.varNames):] {
		if len(rec.series[name]) < len(rec.Time) {
			rec.series[name] = append(rec.series[name], []float64{math.NaN()})
		}
	}
}

// Frames returns the number of logged frames.
func (rec *Recording) Frames() int { return len(rec.Time) }

// Names returns the series names: variables in slice order, then
// auxiliary keys in first-recorded order. The time axis is not included.
func (rec *Recording) Names() []string {
	out := make([]string, len(rec.names))
	copy(out, rec.names)
	return out
}

// Series returns the per-frame rows for a named series.
func (rec *Recording) Series(name string) ([][]float64, bool) {
	s, ok := rec.series[name]
	return s, ok
}

// Scalars returns the first element of each frame row, the natural form
// for length-1 variables and auxiliary keys.
func (rec *Recording) Scalars(name string) []float64 {
	rows, ok := rec.series[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			out[i] = row[0]
		}
	}
	return out
}
