package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"golang.org/x/exp/constraints"
)

// PowerSpectrum returns |X[k]| for the first half of the spectrum.
func PowerSpectrum[T constraints.Float](data []T) []float64 {
	if len(data) == 0 {
		return []float64{}
	}
	x := make([]float64, len(data))
	for i, v := range data {
		x[i] = float64(v)
	}

	spec := fft.FFTReal(x)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of a series sampled every dt seconds. It returns 0 for series too short
// to carry one.
func DominantFrequency[T constraints.Float](data []T, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(data)

	maxIdx := 0
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	return float64(maxIdx) / (float64(len(data)) * dt)
}

// PadPow2 copies data into a zero-padded slice whose length is a power of two.
func PadPow2[T constraints.Float](data []T) []T {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]T, n)
	copy(padded, data)
	return padded
}
