package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinepulse/machinepulse/pkg/models"
)

func obs(machineID string, health float64) models.Observation {
	return models.Observation{
		MachineID: machineID,
		Health:    health,
		Anomaly:   health * 2,
		RUL:       health * 100,
		Timestamp: time.Now(),
		Features:  models.FeatureSet{RMS: health, SpectrumSample: []float64{1, 2, 3}},
	}
}

func TestStore_AppendAndRetrieve(t *testing.T) {
	s := NewStore(10)

	s.Store(obs("EQP-001", 0.9))
	s.Store(obs("EQP-001", 0.8))

	hist := s.GetHistory("EQP-001")
	require.Equal(t, 2, hist.Len())
	assert.Equal(t, []float64{0.9, 0.8}, hist.Health)
}

func TestStore_ParallelSequencesStayAligned(t *testing.T) {
	s := NewStore(10)

	for i := 0; i < 5; i++ {
		s.Store(obs("EQP-001", float64(i)/10))
	}

	hist := s.GetHistory("EQP-001")
	assert.Len(t, hist.Health, 5)
	assert.Len(t, hist.Anomaly, 5)
	assert.Len(t, hist.RUL, 5)
	assert.Len(t, hist.Timestamps, 5)
	assert.Len(t, hist.Features, 5)
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	s := NewStore(3)

	for i := 1; i <= 4; i++ {
		s.Store(obs("EQP-001", float64(i)))
	}

	hist := s.GetHistory("EQP-001")
	require.Equal(t, 3, hist.Len())
	// The first entry (health=1) was evicted.
	assert.Equal(t, []float64{2, 3, 4}, hist.Health)
}

func TestStore_UnknownMachineEmptyHistory(t *testing.T) {
	s := NewStore(10)

	hist := s.GetHistory("EQP-404")
	require.NotNil(t, hist)
	assert.Equal(t, 0, hist.Len())
	assert.NotNil(t, hist.Health)

	_, ok := s.Latest("EQP-404")
	assert.False(t, ok)
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore(10)
	s.Store(obs("EQP-001", 0.9))

	hist := s.GetHistory("EQP-001")
	hist.Health[0] = -1
	hist.Features[0].SpectrumSample[0] = -1

	fresh := s.GetHistory("EQP-001")
	assert.Equal(t, 0.9, fresh.Health[0])
	assert.Equal(t, 1.0, fresh.Features[0].SpectrumSample[0])
}

func TestStore_StoreCopiesFeatures(t *testing.T) {
	s := NewStore(10)

	o := obs("EQP-001", 0.9)
	s.Store(o)
	o.Features.SpectrumSample[0] = -42

	hist := s.GetHistory("EQP-001")
	assert.Equal(t, 1.0, hist.Features[0].SpectrumSample[0])
}

func TestStore_Latest(t *testing.T) {
	s := NewStore(10)
	s.Store(obs("EQP-001", 0.9))
	s.Store(obs("EQP-001", 0.7))

	latest, ok := s.Latest("EQP-001")
	require.True(t, ok)
	assert.Equal(t, 0.7, latest.Health)
}

func TestStore_RegisterAndList(t *testing.T) {
	s := NewStore(10)
	s.Register("EQP-002", "EQP-001")

	assert.Equal(t, []string{"EQP-001", "EQP-002"}, s.ListMachines())

	// Registered machines have empty but present histories.
	assert.Equal(t, 0, s.GetHistory("EQP-002").Len())

	// Unregistered machines are still created lazily.
	s.Store(obs("EQP-003", 0.5))
	assert.Equal(t, []string{"EQP-001", "EQP-002", "EQP-003"}, s.ListMachines())
}

func TestStore_ConcurrentWritersStayIsolated(t *testing.T) {
	const (
		workers = 8
		entries = 200
	)
	s := NewStore(entries)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := fmt.Sprintf("EQP-%03d", w)
			for i := 0; i < entries; i++ {
				s.Store(obs(id, float64(w)))
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		id := fmt.Sprintf("EQP-%03d", w)
		hist := s.GetHistory(id)
		require.Equal(t, entries, hist.Len())
		for _, h := range hist.Health {
			assert.Equal(t, float64(w), h)
		}
	}
}
