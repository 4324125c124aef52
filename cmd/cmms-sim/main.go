package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/machinepulse/machinepulse/internal/logger"
)

// cmms-sim is a stand-in CMMS backend for local runs: it accepts ticket
// requests from the monitor and answers with generated ticket ids.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type ticketRequest struct {
	MachineID    string  `json:"machine_id" binding:"required"`
	AnomalyScore float64 `json:"anomaly_score"`
	RUL          float64 `json:"rul"`
}

type ticketRecord struct {
	TicketID     string    `json:"ticket_id"`
	MachineID    string    `json:"machine_id"`
	AnomalyScore float64   `json:"anomaly_score"`
	RUL          float64   `json:"rul"`
	CreatedAt    time.Time `json:"created_at"`
}

type ticketStore struct {
	mu      sync.Mutex
	tickets []ticketRecord
}

func (s *ticketStore) add(rec ticketRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = append(s.tickets, rec)
}

func (s *ticketStore) list() []ticketRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ticketRecord, len(s.tickets))
	copy(out, s.tickets)
	return out
}

func run() error {
	port := flag.Int("port", 9000, "port to listen on")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.Setup(*logLevel, "development")

	store := &ticketStore{}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/tickets", func(c *gin.Context) {
		var req ticketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec := ticketRecord{
			TicketID:     fmt.Sprintf("TCK-%s-%d", req.MachineID, time.Now().Unix()),
			MachineID:    req.MachineID,
			AnomalyScore: req.AnomalyScore,
			RUL:          req.RUL,
			CreatedAt:    time.Now(),
		}
		store.add(rec)

		logger.WithMachine(req.MachineID).Infof(
			"Ticket %s created (anomaly=%.2f, rul=%.1f)",
			rec.TicketID, req.AnomalyScore, req.RUL,
		)

		c.JSON(http.StatusCreated, gin.H{
			"ticket_id": rec.TicketID,
			"status":    "created",
		})
	})

	router.GET("/tickets", func(c *gin.Context) {
		tickets := store.list()
		c.JSON(http.StatusOK, gin.H{
			"tickets": tickets,
			"count":   len(tickets),
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("CMMS simulator listening on port %d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
