package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the discrete
// Fourier transform of series, with the mean removed first.
func PowerSpectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}
	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// MeanSpectrum averages PowerSpectrum over equally long series.
func MeanSpectrum(series [][]float64) []float64 {
	var sum []float64
	n := 0
	for _, s := range series {
		ps := PowerSpectrum(s)
		if ps == nil {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(ps))
		}
		if len(ps) != len(sum) {
			continue
		}
		for i, v := range ps {
			sum[i] += v
		}
		n++
	}
	for i := range sum {
		sum[i] /= float64(n)
	}
	return sum
}
