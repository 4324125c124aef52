package dsp

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Envelope returns the amplitude envelope of x, computed as the magnitude
// of the analytic signal (Hilbert transform via FFT).
func Envelope(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	seq := make([]complex128, n)
	for i, v := range x {
		seq[i] = complex(v, 0)
	}

	fft := fourier.NewCmplxFFT(n)
	coeff := fft.Coefficients(nil, seq)

	// Zero the negative frequencies and double the positive ones; DC and
	// Nyquist keep unit weight.
	half := n / 2
	for i := 1; i < half; i++ {
		coeff[i] *= 2
	}
	if n%2 == 0 {
		for i := half + 1; i < n; i++ {
			coeff[i] = 0
		}
	} else {
		for i := half + 1; i < n; i++ {
			coeff[i] = 0
		}
		if half >= 1 {
			coeff[half] *= 2
		}
	}

	analytic := fft.Sequence(nil, coeff)
	env := make([]float64, n)
	for i, c := range analytic {
		env[i] = cmplx.Abs(c / complex(float64(n), 0))
	}
	return env
}
