package models

import "time"

// Observation is the durable unit stored per monitoring cycle.
type Observation struct {
	MachineID string     `json:"machine_id"`
	Health    float64    `json:"health"`
	Anomaly   float64    `json:"anomaly"`
	RUL       float64    `json:"rul"`
	Timestamp time.Time  `json:"timestamp"`
	Features  FeatureSet `json:"features"`
}

// MachineHistory is a snapshot of one machine's rolling history. The five
// sequences are time-aligned and always have identical length.
type MachineHistory struct {
	MachineID  string       `json:"machine_id"`
	Health     []float64    `json:"health"`
	Anomaly    []float64    `json:"anomaly"`
	RUL        []float64    `json:"rul"`
	Timestamps []time.Time  `json:"timestamps"`
	Features   []FeatureSet `json:"features"`
}

func (h *MachineHistory) Len() int {
	return len(h.Health)
}

// LatestHealth returns the most recent health value, if any.
func (h *MachineHistory) LatestHealth() (float64, bool) {
	if len(h.Health) == 0 {
		return 0, false
	}
	return h.Health[len(h.Health)-1], true
}
