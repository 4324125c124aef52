package models

// FeatureSet holds the fixed-width feature vector extracted from one
// sample window, plus the derived health index.
type FeatureSet struct {
	RMS            float64   `json:"rms"`
	EnvelopeMean   float64   `json:"env_mean"`
	EnvelopeStd    float64   `json:"env_std"`
	Kurtosis       float64   `json:"kurtosis"`
	Skewness       float64   `json:"skewness"`
	Temperature    float64   `json:"temperature"`
	SpectrumSample []float64 `json:"fft_mag_sample"`

	// HealthIndex is always in (0, 1]; lower means less healthy.
	HealthIndex float64 `json:"health_index"`
}

// Clone returns a deep copy so stored features are never aliased by callers.
func (f FeatureSet) Clone() FeatureSet {
	c := f
	if f.SpectrumSample != nil {
		c.SpectrumSample = make([]float64, len(f.SpectrumSample))
		copy(c.SpectrumSample, f.SpectrumSample)
	}
	return c
}
