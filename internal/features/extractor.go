package features

import (
	"errors"
	"fmt"

	"github.com/machinepulse/machinepulse/internal/dsp"
	"github.com/machinepulse/machinepulse/internal/logger"
	"github.com/machinepulse/machinepulse/pkg/models"
)

var ErrNilWindow = errors.New("nil sample window")

const defaultSpectrumBins = 16

type Config struct {
	SampleRate   float64
	BandLow      float64
	BandHigh     float64
	FFTSize      int
	FilterOrder  int
	SpectrumBins int
}

// Extractor turns a raw vibration window into a fixed feature vector and a
// scalar health index. The bandpass filter is designed once at
// construction; windows are expected at the configured sample rate.
type Extractor struct {
	config Config
	filter *dsp.BandpassFilter
}

func New(cfg Config) (*Extractor, error) {
	if cfg.FilterOrder == 0 {
		cfg.FilterOrder = 4
	}
	if cfg.SpectrumBins == 0 {
		cfg.SpectrumBins = defaultSpectrumBins
	}
	if cfg.FFTSize == 0 {
		cfg.FFTSize = 512
	}

	filter, err := dsp.NewBandpass(cfg.BandLow, cfg.BandHigh, cfg.SampleRate, cfg.FilterOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to design bandpass filter: %w", err)
	}

	return &Extractor{config: cfg, filter: filter}, nil
}

// Extract computes the feature set for one window. Degenerate windows
// (empty or all-zero) produce zero-valued features and a health index of 1
// rather than an error.
func (e *Extractor) Extract(window *models.SampleWindow) (*models.FeatureSet, error) {
	if window == nil {
		return nil, ErrNilWindow
	}

	filtered := e.filter.Apply(window.Samples)
	envelope := dsp.Envelope(filtered)
	spectrum := dsp.MagnitudeSpectrum(filtered, e.config.FFTSize)

	rms := dsp.RMS(filtered)
	envMean := dsp.Mean(envelope)
	envStd := dsp.StdDev(envelope) + 1e-6

	bins := e.config.SpectrumBins
	if bins > len(spectrum) {
		bins = len(spectrum)
	}
	sample := make([]float64, bins)
	copy(sample, spectrum[:bins])

	// Higher vibration energy and envelope amplitude indicate wear, so
	// health decreases monotonically with envMean + rms and stays in (0, 1].
	health := 1.0 / (1.0 + envMean + rms)

	fs := &models.FeatureSet{
		RMS:            rms,
		EnvelopeMean:   envMean,
		EnvelopeStd:    envStd,
		Kurtosis:       dsp.ExKurtosis(filtered),
		Skewness:       dsp.Skewness(filtered),
		Temperature:    window.Temperature,
		SpectrumSample: sample,
		HealthIndex:    health,
	}

	logger.WithMachine(window.MachineID).Debugf(
		"Extracted features: health=%.4f rms=%.4f env_mean=%.4f",
		health, rms, envMean,
	)

	return fs, nil
}
