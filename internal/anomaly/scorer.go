package anomaly

import "math"

const epsilon = 1e-6

type Config struct {
	BaselineMean float64
	BaselineStd  float64
}

// Scorer compares a health index to a fixed baseline distribution. The
// baseline mean and std are deployment-time calibration constants; they are
// not re-estimated online.
type Scorer struct {
	config Config
}

func NewScorer(cfg Config) *Scorer {
	if cfg.BaselineMean == 0 {
		cfg.BaselineMean = 0.1
	}
	if cfg.BaselineStd == 0 {
		cfg.BaselineStd = 0.05
	}
	return &Scorer{config: cfg}
}

// Score returns the z-score magnitude of the health index against the
// baseline. Larger is more anomalous; there is no upper bound.
func (s *Scorer) Score(healthIndex float64) float64 {
	z := (healthIndex - s.config.BaselineMean) / (s.config.BaselineStd + epsilon)
	return math.Abs(z)
}
