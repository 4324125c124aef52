package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/machinepulse/machinepulse/internal/logger"
)

// CMMSSink posts ticket requests to a CMMS HTTP endpoint.
type CMMSSink struct {
	client   *http.Client
	endpoint string
}

type CMMSSinkConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func NewCMMSSink(cfg CMMSSinkConfig) *CMMSSink {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &CMMSSink{
		client: &http.Client{
			Timeout: timeout,
		},
		endpoint: cfg.Endpoint,
	}
}

type ticketRequest struct {
	MachineID    string  `json:"machine_id"`
	AnomalyScore float64 `json:"anomaly_score"`
	RUL          float64 `json:"rul"`
}

type ticketResponse struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
}

func (s *CMMSSink) CreateTicket(ctx context.Context, machineID string, anomalyScore, rul float64) (string, error) {
	body, err := json.Marshal(ticketRequest{
		MachineID:    machineID,
		AnomalyScore: anomalyScore,
		RUL:          rul,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", ErrTicketFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrTicketFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.WithMachine(machineID).Debugf("Creating maintenance ticket via %s", s.endpoint)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrTicketFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: unexpected status %d", ErrTicketFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrTicketFailed, err)
	}

	var ticketResp ticketResponse
	if err := json.Unmarshal(data, &ticketResp); err != nil {
		return "", fmt.Errorf("%w: invalid response body: %v", ErrTicketFailed, err)
	}
	if ticketResp.TicketID == "" {
		return "", fmt.Errorf("%w: response missing ticket_id", ErrTicketFailed)
	}

	return ticketResp.TicketID, nil
}

func (s *CMMSSink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
