package models

import "time"

// SampleWindow is one acquisition window of raw vibration samples.
// It is immutable once produced; the acquiring cycle owns it until the
// feature extractor consumes it.
type SampleWindow struct {
	MachineID   string    `json:"machine_id"`
	Samples     []float64 `json:"samples"`
	SampleRate  float64   `json:"sample_rate"`
	Temperature float64   `json:"temperature"`
	Timestamp   time.Time `json:"timestamp"`
}

func (w *SampleWindow) Len() int {
	return len(w.Samples)
}
