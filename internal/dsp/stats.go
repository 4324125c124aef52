package dsp

import "math"

// Epsilon floors divisors so degenerate windows produce defined values
// instead of NaN or Inf.
const Epsilon = 1e-12

func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// StdDev is the population standard deviation (no bias correction).
func StdDev(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := Mean(x)
	var sum float64
	for _, v := range x {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(x)))
}

func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Skewness is the population third standardized moment. A zero-variance
// signal yields 0.
func Skewness(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := Mean(x)
	std := StdDev(x)
	if std < Epsilon {
		return 0
	}
	var sum float64
	for _, v := range x {
		d := (v - m) / std
		sum += d * d * d
	}
	return sum / float64(len(x))
}

// ExKurtosis is the population excess kurtosis (Gaussian signals score 0).
// A zero-variance signal yields 0.
func ExKurtosis(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := Mean(x)
	std := StdDev(x)
	if std < Epsilon {
		return 0
	}
	var sum float64
	for _, v := range x {
		d := (v - m) / std
		sum += d * d * d * d
	}
	return sum/float64(len(x)) - 3
}
