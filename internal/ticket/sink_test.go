package ticket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinepulse/machinepulse/internal/resilience"
)

func TestLocalSink_TicketIDFormat(t *testing.T) {
	s := NewLocalSink()

	id, err := s.CreateTicket(context.Background(), "EQP-002", 4.5, 12.0)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "TCK-EQP-002-"))
}

func TestLocalSink_RespectsContext(t *testing.T) {
	s := NewLocalSink()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateTicket(ctx, "EQP-002", 4.5, 12.0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCMMSSink_CreatesTicket(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"ticket_id": "TCK-EQP-002-1700000000",
			"status":    "created",
		})
	}))
	defer srv.Close()

	s := NewCMMSSink(CMMSSinkConfig{Endpoint: srv.URL})

	id, err := s.CreateTicket(context.Background(), "EQP-002", 4.5, 12.0)

	require.NoError(t, err)
	assert.Equal(t, "TCK-EQP-002-1700000000", id)
	assert.Equal(t, "EQP-002", received["machine_id"])
	assert.Equal(t, 4.5, received["anomaly_score"])
	assert.Equal(t, 12.0, received["rul"])
}

func TestCMMSSink_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewCMMSSink(CMMSSinkConfig{Endpoint: srv.URL})

	_, err := s.CreateTicket(context.Background(), "EQP-002", 4.5, 12.0)
	assert.ErrorIs(t, err, ErrTicketFailed)
}

func TestCMMSSink_MissingTicketID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"created"}`))
	}))
	defer srv.Close()

	s := NewCMMSSink(CMMSSinkConfig{Endpoint: srv.URL})

	_, err := s.CreateTicket(context.Background(), "EQP-002", 4.5, 12.0)
	assert.ErrorIs(t, err, ErrTicketFailed)
}

func TestCMMSSink_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	s := NewCMMSSink(CMMSSinkConfig{Endpoint: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.CreateTicket(ctx, "EQP-002", 4.5, 12.0)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestResilientSink_OpensAfterRepeatedFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewResilientSink(ResilientSinkConfig{
		Sink:        NewCMMSSink(CMMSSinkConfig{Endpoint: srv.URL}),
		MaxFailures: 3,
		Timeout:     time.Hour,
	})

	for i := 0; i < 3; i++ {
		_, err := s.CreateTicket(context.Background(), "EQP-002", 4.5, 12.0)
		assert.ErrorIs(t, err, ErrTicketFailed)
	}

	assert.Equal(t, resilience.StateOpen, s.CircuitState())

	// Once open, the breaker sheds the call without touching the backend.
	_, err := s.CreateTicket(context.Background(), "EQP-002", 4.5, 12.0)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 3, calls)
}

func TestResilientSink_PassesThroughSuccess(t *testing.T) {
	s := NewResilientSink(ResilientSinkConfig{Sink: NewLocalSink()})

	id, err := s.CreateTicket(context.Background(), "EQP-002", 4.5, 12.0)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "TCK-EQP-002-"))
	assert.Equal(t, resilience.StateClosed, s.CircuitState())
}
