package history

import (
	"sort"
	"sync"
	"time"

	"github.com/machinepulse/machinepulse/pkg/models"
)

const defaultCapacity = 500

// Store is the shared rolling history of past observations, one bounded
// FIFO sequence per machine. It is the only mutable state shared across
// machine workers; a single coarse mutex guards the whole store, held only
// for the duration of one read or write. Reads return independent copies so
// callers never observe a history mutated mid-iteration.
type Store struct {
	mu       sync.Mutex
	capacity int
	machines map[string][]models.Observation
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Store{
		capacity: capacity,
		machines: make(map[string][]models.Observation),
	}
}

// Register creates empty histories for the given machines so the tracked
// set does not depend on store order. Store still creates unknown machines
// lazily.
func (s *Store) Register(machineIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range machineIDs {
		if _, ok := s.machines[id]; !ok {
			s.machines[id] = make([]models.Observation, 0, s.capacity)
		}
	}
}

// Store appends one observation atomically. The oldest entry is evicted
// once the machine's history exceeds capacity.
func (s *Store) Store(obs models.Observation) {
	obs.Features = obs.Features.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	observations := append(s.machines[obs.MachineID], obs)
	if len(observations) > s.capacity {
		trimmed := make([]models.Observation, s.capacity)
		copy(trimmed, observations[len(observations)-s.capacity:])
		observations = trimmed
	}
	s.machines[obs.MachineID] = observations
}

// GetHistory returns a deep-copied snapshot of the machine's history, or an
// empty history for unknown machines.
func (s *Store) GetHistory(machineID string) *models.MachineHistory {
	s.mu.Lock()
	defer s.mu.Unlock()

	observations := s.machines[machineID]
	hist := &models.MachineHistory{
		MachineID:  machineID,
		Health:     make([]float64, len(observations)),
		Anomaly:    make([]float64, len(observations)),
		RUL:        make([]float64, len(observations)),
		Timestamps: make([]time.Time, len(observations)),
		Features:   make([]models.FeatureSet, len(observations)),
	}
	for i, obs := range observations {
		hist.Health[i] = obs.Health
		hist.Anomaly[i] = obs.Anomaly
		hist.RUL[i] = obs.RUL
		hist.Timestamps[i] = obs.Timestamp
		hist.Features[i] = obs.Features.Clone()
	}
	return hist
}

// Latest returns the most recent observation for the machine.
func (s *Store) Latest(machineID string) (models.Observation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	observations := s.machines[machineID]
	if len(observations) == 0 {
		return models.Observation{}, false
	}
	obs := observations[len(observations)-1]
	obs.Features = obs.Features.Clone()
	return obs, true
}

// ListMachines returns the ids of all tracked machines, sorted.
func (s *Store) ListMachines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.machines))
	for id := range s.machines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) Capacity() int {
	return s.capacity
}
