// Package viz renders recorded trajectories as terminal charts and
// provides a live view that follows a run frame by frame.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/calebmah/odekit/internal/runner"
)

const (
	plotWidth  = 70
	plotHeight = 10
)

// Plot renders one chart per named series. An empty names slice plots
// everything the recording holds. Frames where a series is NaN (an
// auxiliary key that appeared mid-run) are skipped.
func Plot(rec *runner.Recording, names []string) string {
	if len(names) == 0 {
		names = rec.Names()
	}
	var b strings.Builder
	for _, name := range names {
		vals := finite(rec.Scalars(name))
		if len(vals) < 2 {
			continue
		}
		chart := asciigraph.Plot(vals,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(name))
		b.WriteString(chart)
		b.WriteString("\n\n")
	}
	return b.String()
}

// PlotSeries charts a single series loaded from storage.
func PlotSeries(name string, vals []float64) string {
	vals = finite(vals)
	if len(vals) < 2 {
		return fmt.Sprintf("%s: not enough samples to plot\n", name)
	}
	return asciigraph.Plot(vals,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(name)) + "\n"
}

func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
