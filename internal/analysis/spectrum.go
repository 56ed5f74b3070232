// Package analysis inspects recorded series: power spectra, dominant
// frequencies and basic signal statistics.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform with a radix-2
// Cooley-Tukey recursion. The input length must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}
	if n%2 != 0 {
		panic("analysis: fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of each frequency bin up to the
// Nyquist frequency. The series is truncated to the largest power of two
// and has its mean removed first, so the DC bin does not swamp the
// physical peaks.
func PowerSpectrum(vals []float64) []float64 {
	n := largestPow2(len(vals))
	if n < 2 {
		return nil
	}
	trimmed := make([]float64, n)
	copy(trimmed, vals[:n])

	mean := 0.0
	for _, v := range trimmed {
		mean += v
	}
	mean /= float64(n)
	for i := range trimmed {
		trimmed[i] -= mean
	}

	fft := FFT(trimmed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantFrequency returns the strongest frequency in a series sampled
// at the given rate, in the same unit as the rate.
func DominantFrequency(vals []float64, sampleRate float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("analysis: sample rate must be positive, got %f", sampleRate)
	}
	ps := PowerSpectrum(vals)
	if len(ps) < 2 {
		return 0, fmt.Errorf("analysis: series too short for a spectrum (%d samples)", len(vals))
	}
	n := largestPow2(len(vals))

	// Bin 0 is what is left of the mean; skip it.
	peak, peakMag := 1, ps[1]
	for i := 2; i < len(ps); i++ {
		if ps[i] > peakMag {
			peak, peakMag = i, ps[i]
		}
	}
	return float64(peak) * sampleRate / float64(n), nil
}

// Stats summarises a series.
type Stats struct {
	Min, Max, Mean, RMS float64
}

func Summarize(vals []float64) Stats {
	if len(vals) == 0 {
		return Stats{}
	}
	s := Stats{Min: vals[0], Max: vals[0]}
	sumSq := 0.0
	for _, v := range vals {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		s.Mean += v
		sumSq += v * v
	}
	s.Mean /= float64(len(vals))
	s.RMS = math.Sqrt(sumSq / float64(len(vals)))
	return s
}

func largestPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
