package models

import "time"

// TicketPayload is the structured payload handed to the maintenance sink.
type TicketPayload struct {
	ServerLabel  string  `json:"server_label"`
	Tool         string  `json:"tool"`
	MachineID    string  `json:"machine_id"`
	Health       float64 `json:"health"`
	AnomalyScore float64 `json:"anomaly_score"`
	RUL          float64 `json:"rul"`
}

// AlertEvent is constructed only when at least one threshold condition
// holds. It is never persisted; the ticket id is observed and logged only.
type AlertEvent struct {
	MachineID    string        `json:"machine_id"`
	Health       float64       `json:"health"`
	AnomalyScore float64       `json:"anomaly_score"`
	RUL          float64       `json:"rul"`
	Reasons      []string      `json:"reasons"`
	Payload      TicketPayload `json:"payload"`
	TicketID     string        `json:"ticket_id"`
	Timestamp    time.Time     `json:"timestamp"`
}
