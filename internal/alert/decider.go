package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/machinepulse/machinepulse/internal/logger"
	"github.com/machinepulse/machinepulse/internal/metrics"
	"github.com/machinepulse/machinepulse/internal/ticket"
	"github.com/machinepulse/machinepulse/pkg/models"
)

type Config struct {
	ZThreshold  float64
	RULWarning  float64
	SinkTimeout time.Duration
	ServerLabel string
	ToolName    string
}

// Decider evaluates the latest health/anomaly/RUL triple against the
// configured thresholds and, on trigger, opens a maintenance ticket. The
// ticket call is a best-effort side effect: a sink failure degrades to a
// locally generated placeholder id and never fails the cycle.
type Decider struct {
	config Config
	sink   ticket.Sink
}

func NewDecider(cfg Config, sink ticket.Sink) *Decider {
	if cfg.ZThreshold == 0 {
		cfg.ZThreshold = 3.0
	}
	if cfg.RULWarning == 0 {
		cfg.RULWarning = 50.0
	}
	if cfg.SinkTimeout == 0 {
		cfg.SinkTimeout = 5 * time.Second
	}
	if cfg.ServerLabel == "" {
		cfg.ServerLabel = "maintenance_cmms"
	}
	if cfg.ToolName == "" {
		cfg.ToolName = "create_maintenance_ticket"
	}

	return &Decider{config: cfg, sink: sink}
}

// Decide returns nil when no threshold condition holds. Both thresholds
// are inclusive; when both trigger, the anomaly reason is listed first.
func (d *Decider) Decide(ctx context.Context, machineID string, health, anomalyScore, rulEstimate float64) *models.AlertEvent {
	triggerAnomaly := anomalyScore >= d.config.ZThreshold
	triggerRUL := rulEstimate <= d.config.RULWarning

	if !triggerAnomaly && !triggerRUL {
		logger.WithMachine(machineID).Debugf(
			"No alert: health=%.4f anomaly=%.2f rul=%.2f",
			health, anomalyScore, rulEstimate,
		)
		return nil
	}

	var reasons []string
	if triggerAnomaly {
		reasons = append(reasons, fmt.Sprintf("anomaly_score=%.2f >= %.2f", anomalyScore, d.config.ZThreshold))
	}
	if triggerRUL {
		reasons = append(reasons, fmt.Sprintf("rul=%.2f <= %.2f", rulEstimate, d.config.RULWarning))
	}

	event := &models.AlertEvent{
		MachineID:    machineID,
		Health:       health,
		AnomalyScore: anomalyScore,
		RUL:          rulEstimate,
		Reasons:      reasons,
		Timestamp:    time.Now(),
		Payload: models.TicketPayload{
			ServerLabel:  d.config.ServerLabel,
			Tool:         d.config.ToolName,
			MachineID:    machineID,
			Health:       health,
			AnomalyScore: anomalyScore,
			RUL:          rulEstimate,
		},
	}

	logger.WithMachine(machineID).Warnf("Triggering maintenance ticket: %v", reasons)

	event.TicketID = d.createTicket(ctx, machineID, anomalyScore, rulEstimate)
	return event
}

func (d *Decider) createTicket(ctx context.Context, machineID string, anomalyScore, rulEstimate float64) string {
	ctx, cancel := context.WithTimeout(ctx, d.config.SinkTimeout)
	defer cancel()

	ticketID, err := d.sink.CreateTicket(ctx, machineID, anomalyScore, rulEstimate)
	if err != nil {
		ticketID = fmt.Sprintf("LOCAL-%s-%s", machineID, models.NewUUID()[:8])
		logger.WithMachine(machineID).Warnf(
			"Ticket sink unavailable (%v), using placeholder ticket %s", err, ticketID,
		)
		metrics.Get().ObserveTicket(machineID, "fallback")
		return ticketID
	}

	logger.WithMachine(machineID).Infof("Maintenance ticket created: %s", ticketID)
	metrics.Get().ObserveTicket(machineID, "created")
	return ticketID
}
