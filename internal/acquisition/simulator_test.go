package acquisition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinepulse/machinepulse/internal/dsp"
)

func TestSimulator_WindowShape(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{MachineID: "EQP-001", Seed: 1})

	w, err := sim.Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "EQP-001", w.MachineID)
	assert.Len(t, w.Samples, 512)
	assert.Equal(t, 2000.0, w.SampleRate)
	assert.InDelta(t, 55.0, w.Temperature, 5.0)
}

func TestSimulator_TimestampsMonotonic(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{MachineID: "EQP-001", Seed: 1})

	prev, err := sim.Acquire(context.Background())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		w, err := sim.Acquire(context.Background())
		require.NoError(t, err)
		assert.False(t, w.Timestamp.Before(prev.Timestamp),
			"timestamps must be non-decreasing")
		prev = w
	}
}

func TestSimulator_DeterministicWithSeed(t *testing.T) {
	a := NewSimulator(SimulatorConfig{MachineID: "EQP-001", Seed: 7})
	b := NewSimulator(SimulatorConfig{MachineID: "EQP-001", Seed: 7})

	wa, err := a.Acquire(context.Background())
	require.NoError(t, err)
	wb, err := b.Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, wa.Samples, wb.Samples)
}

func TestSimulator_DegradationGrowsEnergy(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{
		MachineID:       "EQP-002",
		DegradationRate: 0.01,
		Seed:            3,
	})

	first, err := sim.Acquire(context.Background())
	require.NoError(t, err)

	var last []float64
	for i := 0; i < 199; i++ {
		w, err := sim.Acquire(context.Background())
		require.NoError(t, err)
		last = w.Samples
	}

	// After 200 cycles at 1% growth per cycle the harmonic and noise
	// components have tripled.
	assert.Greater(t, dsp.RMS(last), 1.2*dsp.RMS(first.Samples))
}

func TestSimulator_HealthyMachineStable(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{MachineID: "EQP-001", Seed: 5})

	first, err := sim.Acquire(context.Background())
	require.NoError(t, err)

	var last []float64
	for i := 0; i < 99; i++ {
		w, err := sim.Acquire(context.Background())
		require.NoError(t, err)
		last = w.Samples
	}

	assert.InDelta(t, dsp.RMS(first.Samples), dsp.RMS(last), 0.1*dsp.RMS(first.Samples))
}

func TestSimulator_CancelledContext(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{MachineID: "EQP-001", Seed: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
