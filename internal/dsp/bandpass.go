package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

var ErrBadBand = errors.New("invalid bandpass corner frequencies")

// BandpassFilter is a digital Butterworth bandpass filter. Apply runs it
// forward and backward so the output has zero phase lag.
type BandpassFilter struct {
	b, a []float64
}

// NewBandpass designs a Butterworth bandpass of the given order between
// low and high Hz for signals sampled at sampleRate Hz. The analog
// prototype is frequency-warped and mapped to the z-domain with the
// bilinear transform.
func NewBandpass(low, high, sampleRate float64, order int) (*BandpassFilter, error) {
	if order <= 0 {
		return nil, fmt.Errorf("%w: order must be positive", ErrBadBand)
	}
	nyquist := sampleRate / 2
	if low <= 0 || high <= low || high >= nyquist {
		return nil, fmt.Errorf("%w: need 0 < low < high < %.1f Hz", ErrBadBand, nyquist)
	}

	// Pre-warp the normalized corner frequencies (fs = 2 convention).
	const fs = 2.0
	w1 := 2 * fs * math.Tan(math.Pi*(low/nyquist)/fs)
	w2 := 2 * fs * math.Tan(math.Pi*(high/nyquist)/fs)
	bw := w2 - w1
	w0 := math.Sqrt(w1 * w2)

	// Analog lowpass prototype poles on the unit circle, left half-plane.
	prototype := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * float64(2*k+1) / float64(2*order)
		prototype[k] = complex(-math.Sin(theta), math.Cos(theta))
	}

	// Lowpass-to-bandpass transform: each prototype pole splits in two.
	poles := make([]complex128, 0, 2*order)
	for _, p := range prototype {
		s := p * complex(bw/2, 0)
		d := cmplx.Sqrt(s*s - complex(w0*w0, 0))
		poles = append(poles, s+d, s-d)
	}
	// n zeros at s = 0, overall gain bw^n.
	gain := math.Pow(bw, float64(order))

	// Bilinear transform to the z-domain.
	const fs2 = 2 * fs
	zPoles := make([]complex128, len(poles))
	prodPoles := complex(1, 0)
	for i, p := range poles {
		zPoles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
		prodPoles *= complex(fs2, 0) - p
	}
	// The s-plane zeros at 0 map to z = 1; the remaining order zeros at
	// infinity map to z = -1.
	zZeros := make([]complex128, 0, 2*order)
	prodZeros := complex(1, 0)
	for i := 0; i < order; i++ {
		zZeros = append(zZeros, complex(1, 0))
		prodZeros *= complex(fs2, 0)
	}
	for i := 0; i < order; i++ {
		zZeros = append(zZeros, complex(-1, 0))
	}
	k := gain * real(prodZeros/prodPoles)

	b := polynomial(zZeros)
	a := polynomial(zPoles)
	bReal := make([]float64, len(b))
	aReal := make([]float64, len(a))
	for i := range b {
		bReal[i] = k * real(b[i])
	}
	for i := range a {
		aReal[i] = real(a[i])
	}

	return &BandpassFilter{b: bReal, a: aReal}, nil
}

// polynomial expands monic polynomial coefficients from its roots.
func polynomial(roots []complex128) []complex128 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	return coeffs
}

// Apply filters x forward and backward (zero phase). Edge transients are
// suppressed by odd-reflection padding before filtering.
func (f *BandpassFilter) Apply(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	padlen := 3 * (len(f.b) - 1)
	if padlen >= n {
		padlen = n - 1
	}

	ext := make([]float64, 0, n+2*padlen)
	for i := padlen; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := n - 2; i >= n-1-padlen && i >= 0; i-- {
		ext = append(ext, 2*x[n-1]-x[i])
	}

	y := lfilter(f.b, f.a, ext)
	reverse(y)
	y = lfilter(f.b, f.a, y)
	reverse(y)

	out := make([]float64, n)
	copy(out, y[padlen:padlen+n])
	return out
}

// lfilter runs a direct form II transposed IIR filter with zero initial
// state. a[0] is assumed to be 1 (monic denominator from the design).
func lfilter(b, a, x []float64) []float64 {
	order := len(b)
	z := make([]float64, order-1)
	y := make([]float64, len(x))
	for i, xi := range x {
		yi := b[0]*xi + z[0]
		for j := 1; j < order-1; j++ {
			z[j-1] = b[j]*xi + z[j] - a[j]*yi
		}
		z[order-2] = b[order-1]*xi - a[order-1]*yi
		y[i] = yi
	}
	return y
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
