package rul

import (
	"math"

	"github.com/machinepulse/machinepulse/pkg/models"
)

const epsilon = 1e-6

type Config struct {
	InitialHealth   float64
	DegradationRate float64
}

// Estimator projects remaining useful life with a linear-degradation
// inverse model: health decays at a fixed rate per cycle, so cycles
// remaining is health divided by the per-cycle decay. It is deliberately
// simple and stateless given the latest health value; it does not fit a
// trend from history.
type Estimator struct {
	config Config
}

func NewEstimator(cfg Config) *Estimator {
	if cfg.InitialHealth == 0 {
		cfg.InitialHealth = 1.0
	}
	if cfg.DegradationRate == 0 {
		cfg.DegradationRate = 0.0008
	}
	return &Estimator{config: cfg}
}

// Estimate returns the RUL for the machine. With no stored health values
// the machine is assumed brand new at full health.
func (e *Estimator) Estimate(history *models.MachineHistory) float64 {
	rate := math.Max(e.config.DegradationRate, epsilon)

	health, ok := history.LatestHealth()
	if !ok {
		return e.config.InitialHealth / rate
	}
	return math.Max(health/rate, 0)
}
