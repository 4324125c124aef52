package events

import (
	"fmt"

	"github.com/machinepulse/machinepulse/pkg/models"
)

type Publisher struct {
	bus *EventBus
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) MachineStarted(machineID string) {
	p.bus.Publish(models.NewEvent(models.EventTypeMachineStarted, machineID, "Monitoring started"))
}

func (p *Publisher) MachineStopped(machineID string) {
	p.bus.Publish(models.NewEvent(models.EventTypeMachineStopped, machineID, "Monitoring stopped"))
}

func (p *Publisher) ObservationStored(machineID string, obs *models.Observation) {
	msg := fmt.Sprintf("Observation stored: health=%.4f anomaly=%.2f rul=%.1f",
		obs.Health, obs.Anomaly, obs.RUL)
	event := models.NewEvent(models.EventTypeObservationStored, machineID, msg).
		WithData(obs)
	p.bus.Publish(event)
}

func (p *Publisher) AlertRaised(machineID string, alert *models.AlertEvent) {
	msg := "Maintenance alert: " + joinReasons(alert.Reasons)
	event := models.NewEvent(models.EventTypeAlertRaised, machineID, msg).
		WithData(alert).
		WithSeverity(models.SeverityCritical)
	p.bus.Publish(event)
}

func (p *Publisher) TicketCreated(machineID, ticketID string) {
	event := models.NewEvent(models.EventTypeTicketCreated, machineID, "Ticket created: "+ticketID).
		WithSeverity(models.SeverityWarning)
	p.bus.Publish(event)
}

func (p *Publisher) CycleFailed(machineID string, result *models.CycleResult) {
	msg := fmt.Sprintf("Cycle %d failed at stage %s: %v", result.Cycle, result.Stage, result.Err)
	event := models.NewEvent(models.EventTypeCycleFailed, machineID, msg).
		WithData(result).
		WithSeverity(models.SeverityWarning)
	p.bus.Publish(event)
}

func (p *Publisher) Error(machineID, message string, err error) {
	event := models.NewEvent(models.EventTypeError, machineID, fmt.Sprintf("%s: %v", message, err)).
		WithSeverity(models.SeverityCritical)
	p.bus.Publish(event)
}

func joinReasons(reasons []string) string {
	if len(reasons) == 0 {
		return ""
	}
	out := reasons[0]
	for _, r := range reasons[1:] {
		out += "; " + r
	}
	return out
}
