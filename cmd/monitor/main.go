package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/machinepulse/machinepulse/api"
	"github.com/machinepulse/machinepulse/internal/acquisition"
	"github.com/machinepulse/machinepulse/internal/history"
	"github.com/machinepulse/machinepulse/internal/logger"
	"github.com/machinepulse/machinepulse/internal/metrics"
	"github.com/machinepulse/machinepulse/internal/orchestrator"
	"github.com/machinepulse/machinepulse/internal/ticket"
	"github.com/machinepulse/machinepulse/pkg/config"
)

// degradingRate is the per-cycle harmonic growth applied to machines
// configured as degrading.
const degradingRate = 0.002

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	store := history.NewStore(cfg.History.Capacity)
	store.Register(cfg.Monitor.Machines...)

	sink, err := buildSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	orch, err := orchestrator.New(cfg, store, sink)
	if err != nil {
		return fmt.Errorf("failed to build orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}

	for _, machineID := range cfg.Monitor.Machines {
		rate := 0.0
		if cfg.Monitor.IsDegrading(machineID) {
			rate = degradingRate
		}

		sim := acquisition.NewSimulator(acquisition.SimulatorConfig{
			MachineID:       machineID,
			SampleRate:      cfg.Sensor.SampleRate,
			WindowSize:      cfg.Sensor.WindowSize,
			TempBaseline:    cfg.Sensor.TempBaseline,
			TempVariation:   cfg.Sensor.TempVariation,
			DegradationRate: rate,
		})

		if err := orch.StartMachine(machineID, sim); err != nil {
			return fmt.Errorf("failed to start machine %s: %w", machineID, err)
		}
	}

	if cfg.Metrics.Enabled {
		metrics.StartServer(cfg.Metrics.Port)
	}

	var server *api.Server
	errChan := make(chan error, 1)
	if cfg.API.Enabled {
		server = api.NewServer(cfg, store, orch)
		go func() {
			logger.Infof("API server listening on port %d", cfg.API.Port)
			if err := server.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()
	}

	// Finite cycle budgets finish on their own; otherwise run until
	// signalled.
	doneChan := make(chan struct{})
	go func() {
		orch.Wait()
		close(doneChan)
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		orch.Stop()
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	case <-doneChan:
		logger.Info("All machine pipelines finished")
	}

	orch.Stop()

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("Monitor stopped gracefully")
	return nil
}

func buildSink(cfg *config.Config) (ticket.Sink, error) {
	var inner ticket.Sink
	switch cfg.Sink.Type {
	case "cmms":
		inner = ticket.NewCMMSSink(ticket.CMMSSinkConfig{
			Endpoint: cfg.Sink.Endpoint,
			Timeout:  cfg.Sink.Timeout,
		})
		logger.Infof("Using CMMS ticket sink at %s", cfg.Sink.Endpoint)
	case "local", "":
		inner = ticket.NewLocalSink()
		logger.Info("Using local ticket sink")
	default:
		return nil, fmt.Errorf("unknown sink type %q", cfg.Sink.Type)
	}

	return ticket.NewResilientSink(ticket.ResilientSinkConfig{
		Sink:        inner,
		MaxFailures: cfg.Sink.CircuitBreaker.MaxFailures,
		Timeout:     cfg.Sink.CircuitBreaker.Timeout,
	}), nil
}
