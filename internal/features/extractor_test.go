package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinepulse/machinepulse/pkg/models"
)

func testConfig() Config {
	return Config{
		SampleRate: 2000,
		BandLow:    10,
		BandHigh:   800,
		FFTSize:    512,
	}
}

func testWindow(samples []float64) *models.SampleWindow {
	return &models.SampleWindow{
		MachineID:   "EQP-001",
		Samples:     samples,
		SampleRate:  2000,
		Temperature: 55.0,
		Timestamp:   time.Now(),
	}
}

func vibrationSignal(n int, harmonicGain float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		ti := float64(i) / 2000.0
		x[i] = 0.8*math.Sin(2*math.Pi*50*ti) + 0.2*harmonicGain*math.Sin(2*math.Pi*250*ti)
	}
	return x
}

func TestNew_InvalidBand(t *testing.T) {
	cfg := testConfig()
	cfg.BandHigh = 5000 // above Nyquist

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestExtract_NilWindow(t *testing.T) {
	e, err := New(testConfig())
	require.NoError(t, err)

	_, err = e.Extract(nil)
	assert.ErrorIs(t, err, ErrNilWindow)
}

func TestExtract_HealthInUnitInterval(t *testing.T) {
	e, err := New(testConfig())
	require.NoError(t, err)

	for _, gain := range []float64{0.5, 1.0, 2.0, 10.0} {
		fs, err := e.Extract(testWindow(vibrationSignal(512, gain)))
		require.NoError(t, err)

		assert.Greater(t, fs.HealthIndex, 0.0)
		assert.LessOrEqual(t, fs.HealthIndex, 1.0)
	}
}

func TestExtract_HealthDecreasesWithEnergy(t *testing.T) {
	e, err := New(testConfig())
	require.NoError(t, err)

	quiet, err := e.Extract(testWindow(vibrationSignal(512, 1.0)))
	require.NoError(t, err)

	loud, err := e.Extract(testWindow(vibrationSignal(512, 10.0)))
	require.NoError(t, err)

	assert.Less(t, loud.HealthIndex, quiet.HealthIndex)
	assert.Greater(t, loud.RMS, quiet.RMS)
	assert.Greater(t, loud.EnvelopeMean, quiet.EnvelopeMean)
}

func TestExtract_ZeroWindow(t *testing.T) {
	e, err := New(testConfig())
	require.NoError(t, err)

	fs, err := e.Extract(testWindow(make([]float64, 512)))
	require.NoError(t, err)

	// No vibration energy at all reads as a perfectly healthy machine.
	assert.Equal(t, 1.0, fs.HealthIndex)
	assert.Equal(t, 0.0, fs.RMS)
	assert.Equal(t, 0.0, fs.Kurtosis)
	assert.Equal(t, 0.0, fs.Skewness)
}

func TestExtract_FeatureShape(t *testing.T) {
	e, err := New(testConfig())
	require.NoError(t, err)

	fs, err := e.Extract(testWindow(vibrationSignal(512, 1.0)))
	require.NoError(t, err)

	assert.Len(t, fs.SpectrumSample, defaultSpectrumBins)
	assert.Equal(t, 55.0, fs.Temperature)
	// Envelope std carries the stabilizing epsilon.
	assert.Greater(t, fs.EnvelopeStd, 0.0)
}
