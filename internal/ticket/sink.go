package ticket

import (
	"context"
	"errors"
)

var (
	ErrTicketFailed = errors.New("ticket creation failed")
	ErrTimeout      = errors.New("ticket creation timeout")
)

// Sink is the capability interface for the external maintenance/CMMS
// integration. Implementations must be bounded-time from the pipeline's
// perspective; retry policy is the backend's concern, not the caller's.
type Sink interface {
	// CreateTicket opens a maintenance ticket and returns its identifier.
	CreateTicket(ctx context.Context, machineID string, anomalyScore, rul float64) (string, error)

	// Close releases any resources held by the sink
	Close() error
}
