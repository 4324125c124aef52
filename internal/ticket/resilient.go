package ticket

import (
	"context"
	"time"

	"github.com/machinepulse/machinepulse/internal/logger"
	"github.com/machinepulse/machinepulse/internal/metrics"
	"github.com/machinepulse/machinepulse/internal/resilience"
)

// ResilientSink wraps another sink behind a circuit breaker so a failing
// CMMS backend sheds load instead of being hammered every alert. It does
// not retry; the alert decider degrades to a local placeholder ticket on
// any error.
type ResilientSink struct {
	sink           Sink
	circuitBreaker *resilience.CircuitBreaker
}

type ResilientSinkConfig struct {
	Sink        Sink
	MaxFailures int
	Timeout     time.Duration
}

func NewResilientSink(cfg ResilientSinkConfig) *ResilientSink {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "ticket_sink",
		MaxFailures: cfg.MaxFailures,
		Timeout:     cfg.Timeout,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
			metrics.Get().SetCircuitBreakerState(name, int(to))
		},
	})

	return &ResilientSink{
		sink:           cfg.Sink,
		circuitBreaker: cb,
	}
}

func (s *ResilientSink) CreateTicket(ctx context.Context, machineID string, anomalyScore, rul float64) (string, error) {
	var ticketID string

	err := s.circuitBreaker.Execute(func() error {
		var err error
		ticketID, err = s.sink.CreateTicket(ctx, machineID, anomalyScore, rul)
		return err
	})
	if err != nil {
		return "", err
	}

	return ticketID, nil
}

func (s *ResilientSink) Close() error {
	return s.sink.Close()
}

func (s *ResilientSink) CircuitState() resilience.State {
	return s.circuitBreaker.State()
}
