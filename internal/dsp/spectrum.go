package dsp

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// MagnitudeSpectrum computes |rfft(x)| over size points, zero-padding or
// truncating x as needed. The result has size/2 + 1 bins.
func MagnitudeSpectrum(x []float64, size int) []float64 {
	if size <= 0 {
		return nil
	}

	seq := make([]float64, size)
	copy(seq, x)

	fft := fourier.NewFFT(size)
	coeff := fft.Coefficients(nil, seq)

	mag := make([]float64, len(coeff))
	for i, c := range coeff {
		mag[i] = cmplx.Abs(c)
	}
	return mag
}
