package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/machinepulse/machinepulse/internal/acquisition"
	"github.com/machinepulse/machinepulse/internal/alert"
	"github.com/machinepulse/machinepulse/internal/anomaly"
	"github.com/machinepulse/machinepulse/internal/events"
	"github.com/machinepulse/machinepulse/internal/features"
	"github.com/machinepulse/machinepulse/internal/history"
	"github.com/machinepulse/machinepulse/internal/logger"
	"github.com/machinepulse/machinepulse/internal/rul"
	"github.com/machinepulse/machinepulse/internal/ticket"
	"github.com/machinepulse/machinepulse/pkg/config"
	"github.com/machinepulse/machinepulse/pkg/models"
)

// Orchestrator owns the per-machine pipelines and the analytic components
// shared between them. Extractor, scorer, estimator and decider are
// stateless after construction, so a single instance of each serves every
// machine; the history store is the one shared mutable piece.
type Orchestrator struct {
	config      *config.Config
	store       *history.Store
	eventBus    *events.EventBus
	eventLogger *events.EventLogger
	extractor   *features.Extractor
	scorer      *anomaly.Scorer
	estimator   *rul.Estimator
	decider     *alert.Decider
	pipelines   map[string]*Pipeline
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

func New(cfg *config.Config, store *history.Store, sink ticket.Sink) (*Orchestrator, error) {
	ctx, cancel := context.WithCancel(context.Background())

	eventBus := events.NewEventBus(100)

	// Subscribe event logger to all events
	allEvents := eventBus.SubscribeAll()
	eventLogger := events.NewEventLogger(allEvents)

	extractor, err := features.New(features.Config{
		SampleRate: cfg.Sensor.SampleRate,
		BandLow:    cfg.Filter.BandLow,
		BandHigh:   cfg.Filter.BandHigh,
		FFTSize:    cfg.Filter.FFTSize,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to build feature extractor: %w", err)
	}

	scorer := anomaly.NewScorer(anomaly.Config{
		BaselineMean: cfg.Anomaly.BaselineMean,
		BaselineStd:  cfg.Anomaly.BaselineStd,
	})

	estimator := rul.NewEstimator(rul.Config{
		InitialHealth:   cfg.RUL.InitialHealth,
		DegradationRate: cfg.RUL.DegradationRate,
	})

	decider := alert.NewDecider(alert.Config{
		ZThreshold:  cfg.Alert.ZThreshold,
		RULWarning:  cfg.Alert.RULWarning,
		SinkTimeout: cfg.Alert.SinkTimeout,
		ServerLabel: cfg.Alert.ServerLabel,
		ToolName:    cfg.Alert.ToolName,
	}, sink)

	return &Orchestrator{
		config:      cfg,
		store:       store,
		eventBus:    eventBus,
		eventLogger: eventLogger,
		extractor:   extractor,
		scorer:      scorer,
		estimator:   estimator,
		decider:     decider,
		pipelines:   make(map[string]*Pipeline),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

func (o *Orchestrator) Start() error {
	logger.Info("Orchestrator starting")
	o.eventLogger.Start()
	return nil
}

func (o *Orchestrator) Stop() {
	logger.Info("Orchestrator stopping")

	// Stop all pipelines
	o.mu.Lock()
	for machineID, pipeline := range o.pipelines {
		logger.Infof("Stopping pipeline for machine %s", machineID)
		pipeline.Stop()
	}
	o.mu.Unlock()

	// Cancel context
	o.cancel()

	// Stop event logger
	o.eventLogger.Stop()

	// Close event bus
	o.eventBus.Close()

	logger.Info("Orchestrator stopped")
}

// StartMachine begins monitoring the given machine using the provided
// sample source. Starting an already-monitored machine is an error.
func (o *Orchestrator) StartMachine(machineID string, provider acquisition.Provider) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.pipelines[machineID]; exists {
		return fmt.Errorf("pipeline already exists for machine %s", machineID)
	}

	publisher := events.NewPublisher(o.eventBus)

	pipeline := NewPipeline(PipelineConfig{
		MachineID:      machineID,
		Cycles:         o.config.Monitor.CyclesPerRun,
		CycleDelay:     o.config.Monitor.CycleDelay,
		Provider:       provider,
		Extractor:      o.extractor,
		Scorer:         o.scorer,
		Estimator:      o.estimator,
		Store:          o.store,
		Decider:        o.decider,
		EventPublisher: publisher,
	})

	if err := pipeline.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}

	o.pipelines[machineID] = pipeline
	publisher.MachineStarted(machineID)
	logger.WithMachine(machineID).Info("Machine pipeline started")

	return nil
}

func (o *Orchestrator) StopMachine(machineID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	pipeline, exists := o.pipelines[machineID]
	if !exists {
		return fmt.Errorf("no pipeline found for machine %s", machineID)
	}

	pipeline.Stop()
	delete(o.pipelines, machineID)
	events.NewPublisher(o.eventBus).MachineStopped(machineID)
	logger.WithMachine(machineID).Info("Machine pipeline stopped")

	return nil
}

// MachineStatus reports whether the machine's pipeline is still running.
func (o *Orchestrator) MachineStatus(machineID string) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	pipeline, exists := o.pipelines[machineID]
	if !exists {
		return false, fmt.Errorf("no pipeline found for machine %s", machineID)
	}

	return pipeline.IsRunning(), nil
}

func (o *Orchestrator) ListRunning() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	machines := make([]string, 0, len(o.pipelines))
	for machineID, pipeline := range o.pipelines {
		if pipeline.IsRunning() {
			machines = append(machines, machineID)
		}
	}
	return machines
}

// Wait blocks until every started pipeline has exhausted its cycle budget
// or been stopped.
func (o *Orchestrator) Wait() {
	o.mu.RLock()
	pipelines := make([]*Pipeline, 0, len(o.pipelines))
	for _, p := range o.pipelines {
		pipelines = append(pipelines, p)
	}
	o.mu.RUnlock()

	for _, p := range pipelines {
		p.Wait()
	}
}

func (o *Orchestrator) SubscribeEvents(eventType models.EventType) <-chan *models.Event {
	return o.eventBus.Subscribe(eventType)
}

func (o *Orchestrator) SubscribeAllEvents() <-chan *models.Event {
	return o.eventBus.SubscribeAll()
}
