package acquisition

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/machinepulse/machinepulse/internal/logger"
	"github.com/machinepulse/machinepulse/pkg/models"
)

// Simulator synthesizes vibration windows for a rotating machine: a base
// shaft harmonic plus a higher-frequency component and Gaussian noise. A
// degrading machine amplifies the high-frequency component and noise a
// little more every cycle, and its temperature drifts upward.
type Simulator struct {
	config SimulatorConfig
	rng    *rand.Rand
	t      []float64
	cycle  int
	lastTS time.Time
}

type SimulatorConfig struct {
	MachineID         string
	SampleRate        float64
	WindowSize        int
	BaseFrequency     float64
	HarmonicFrequency float64
	BaseAmplitude     float64
	HarmonicAmplitude float64
	NoiseLevel        float64
	DegradationRate   float64 // per-cycle growth factor, 0 for a healthy machine
	TempBaseline      float64
	TempVariation     float64
	Seed              int64
}

func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 2000
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 512
	}
	if cfg.BaseFrequency == 0 {
		cfg.BaseFrequency = 50.0
	}
	if cfg.HarmonicFrequency == 0 {
		cfg.HarmonicFrequency = 250.0
	}
	if cfg.BaseAmplitude == 0 {
		cfg.BaseAmplitude = 0.8
	}
	if cfg.HarmonicAmplitude == 0 {
		cfg.HarmonicAmplitude = 0.2
	}
	if cfg.NoiseLevel == 0 {
		cfg.NoiseLevel = 0.1
	}
	if cfg.TempBaseline == 0 {
		cfg.TempBaseline = 55.0
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	t := make([]float64, cfg.WindowSize)
	for i := range t {
		t[i] = float64(i) / cfg.SampleRate
	}

	return &Simulator{
		config: cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		t:      t,
	}
}

func (s *Simulator) Acquire(ctx context.Context) (*models.SampleWindow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.cycle++

	degradation := 1.0 + s.config.DegradationRate*float64(s.cycle)

	samples := make([]float64, s.config.WindowSize)
	for i, ti := range s.t {
		base := s.config.BaseAmplitude * math.Sin(2*math.Pi*s.config.BaseFrequency*ti)
		harmonic := s.config.HarmonicAmplitude * degradation * math.Sin(2*math.Pi*s.config.HarmonicFrequency*ti)
		noise := s.config.NoiseLevel * degradation * s.rng.NormFloat64()
		samples[i] = base + harmonic + noise
	}

	tempDrift := 0.0
	if s.config.DegradationRate > 0 {
		tempDrift = 0.01 * float64(s.cycle)
	}
	temperature := s.config.TempBaseline + tempDrift + s.rng.NormFloat64()*0.5

	timestamp := time.Now()
	if !timestamp.After(s.lastTS) {
		timestamp = s.lastTS.Add(time.Nanosecond)
	}
	s.lastTS = timestamp

	logger.WithMachine(s.config.MachineID).Debugf(
		"Acquired window #%d (temp=%.2fC)", s.cycle, temperature,
	)

	return &models.SampleWindow{
		MachineID:   s.config.MachineID,
		Samples:     samples,
		SampleRate:  s.config.SampleRate,
		Temperature: temperature,
		Timestamp:   timestamp,
	}, nil
}

func (s *Simulator) Close() error {
	return nil
}
