package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/machinepulse/machinepulse/internal/logger"
)

// LocalSink is the deterministic in-process stand-in for a real CMMS
// backend, selected by configuration for local runs and tests.
type LocalSink struct{}

func NewLocalSink() *LocalSink {
	return &LocalSink{}
}

func (s *LocalSink) CreateTicket(ctx context.Context, machineID string, anomalyScore, rul float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ticketID := fmt.Sprintf("TCK-%s-%d", machineID, time.Now().Unix())
	logger.WithMachine(machineID).Infof(
		"Local maintenance ticket created: %s (anomaly=%.2f, rul=%.1f)",
		ticketID, anomalyScore, rul,
	)
	return ticketID, nil
}

func (s *LocalSink) Close() error {
	return nil
}
