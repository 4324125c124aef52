package alert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	ticketID string
	err      error
	calls    int
}

func (s *fakeSink) CreateTicket(ctx context.Context, machineID string, anomalyScore, rul float64) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.ticketID, nil
}

func (s *fakeSink) Close() error { return nil }

func TestDecide_NoAlertBelowThresholds(t *testing.T) {
	sink := &fakeSink{ticketID: "TCK-EQP-001-1"}
	d := NewDecider(Config{}, sink)

	event := d.Decide(context.Background(), "EQP-001", 0.1, 2.99, 50.01)

	assert.Nil(t, event)
	assert.Zero(t, sink.calls)
}

func TestDecide_ThresholdsAreInclusive(t *testing.T) {
	tests := []struct {
		name    string
		anomaly float64
		rul     float64
	}{
		{"anomaly exactly at threshold", 3.0, 1000},
		{"rul exactly at threshold", 0.5, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{ticketID: "TCK-EQP-001-1"}
			d := NewDecider(Config{}, sink)

			event := d.Decide(context.Background(), "EQP-001", 0.1, tt.anomaly, tt.rul)

			require.NotNil(t, event)
			assert.Equal(t, 1, sink.calls)
			assert.Equal(t, "TCK-EQP-001-1", event.TicketID)
		})
	}
}

func TestDecide_AnomalyReasonListedFirst(t *testing.T) {
	sink := &fakeSink{ticketID: "TCK-EQP-001-1"}
	d := NewDecider(Config{}, sink)

	event := d.Decide(context.Background(), "EQP-001", 0.1, 5.0, 10.0)

	require.NotNil(t, event)
	require.Len(t, event.Reasons, 2)
	assert.Contains(t, event.Reasons[0], "anomaly_score")
	assert.Contains(t, event.Reasons[1], "rul")
}

func TestDecide_SingleReasonPerTrigger(t *testing.T) {
	sink := &fakeSink{ticketID: "TCK-EQP-001-1"}
	d := NewDecider(Config{}, sink)

	event := d.Decide(context.Background(), "EQP-001", 0.1, 5.0, 1000)
	require.NotNil(t, event)
	require.Len(t, event.Reasons, 1)
	assert.Contains(t, event.Reasons[0], "anomaly_score")

	event = d.Decide(context.Background(), "EQP-001", 0.1, 1.0, 10.0)
	require.NotNil(t, event)
	require.Len(t, event.Reasons, 1)
	assert.Contains(t, event.Reasons[0], "rul")
}

func TestDecide_SinkFailureFallsBackToLocalTicket(t *testing.T) {
	sink := &fakeSink{err: errors.New("cmms unreachable")}
	d := NewDecider(Config{}, sink)

	event := d.Decide(context.Background(), "EQP-001", 0.1, 5.0, 10.0)

	require.NotNil(t, event)
	assert.True(t, strings.HasPrefix(event.TicketID, "LOCAL-EQP-001-"))
}

func TestDecide_PayloadCarriesObservation(t *testing.T) {
	sink := &fakeSink{ticketID: "TCK-EQP-001-1"}
	d := NewDecider(Config{ServerLabel: "cmms-prod", ToolName: "open_ticket"}, sink)

	event := d.Decide(context.Background(), "EQP-001", 0.04, 4.2, 12.5)

	require.NotNil(t, event)
	assert.Equal(t, "cmms-prod", event.Payload.ServerLabel)
	assert.Equal(t, "open_ticket", event.Payload.Tool)
	assert.Equal(t, "EQP-001", event.Payload.MachineID)
	assert.Equal(t, 0.04, event.Payload.Health)
	assert.Equal(t, 4.2, event.Payload.AnomalyScore)
	assert.Equal(t, 12.5, event.Payload.RUL)
}

func TestDecide_CustomThresholds(t *testing.T) {
	sink := &fakeSink{ticketID: "TCK-EQP-001-1"}
	d := NewDecider(Config{ZThreshold: 10.0, RULWarning: 5.0}, sink)

	assert.Nil(t, d.Decide(context.Background(), "EQP-001", 0.1, 9.9, 5.1))
	assert.NotNil(t, d.Decide(context.Background(), "EQP-001", 0.1, 10.0, 100))
}
