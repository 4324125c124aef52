package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/machinepulse/machinepulse/internal/acquisition"
	"github.com/machinepulse/machinepulse/internal/alert"
	"github.com/machinepulse/machinepulse/internal/anomaly"
	"github.com/machinepulse/machinepulse/internal/events"
	"github.com/machinepulse/machinepulse/internal/features"
	"github.com/machinepulse/machinepulse/internal/history"
	"github.com/machinepulse/machinepulse/internal/logger"
	"github.com/machinepulse/machinepulse/internal/metrics"
	"github.com/machinepulse/machinepulse/internal/rul"
	"github.com/machinepulse/machinepulse/pkg/models"
)

type PipelineConfig struct {
	MachineID      string
	Cycles         int // 0 runs until stopped
	CycleDelay     time.Duration
	Provider       acquisition.Provider
	Extractor      *features.Extractor
	Scorer         *anomaly.Scorer
	Estimator      *rul.Estimator
	Store          *history.Store
	Decider        *alert.Decider
	EventPublisher *events.Publisher
}

// Pipeline runs the acquire -> extract -> score -> estimate -> store ->
// decide loop for one machine. Each machine owns its pipeline goroutine;
// the only shared state is the history store.
type Pipeline struct {
	config  PipelineConfig
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.CycleDelay == 0 {
		cfg.CycleDelay = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pipeline{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	p.running = true
	p.wg.Add(1)
	go p.run()

	logger.WithMachine(p.config.MachineID).Info("Pipeline started")
	return nil
}

func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()

	logger.WithMachine(p.config.MachineID).Info("Pipeline stopped")
}

func (p *Pipeline) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Wait blocks until the pipeline's run loop has exited.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

func (p *Pipeline) run() {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	machineID := p.config.MachineID
	m := metrics.Get()

	for cycle := 1; p.config.Cycles == 0 || cycle <= p.config.Cycles; cycle++ {
		if p.ctx.Err() != nil {
			return
		}

		start := time.Now()
		result := p.runCycle(cycle)

		if result.Failed() {
			logger.WithMachine(machineID).Errorf(
				"Cycle %d failed at stage %s: %v", cycle, result.Stage, result.Err,
			)
			m.ObserveFailure(machineID, string(result.Stage))
			p.config.EventPublisher.CycleFailed(machineID, result)
		} else {
			m.ObserveCycle(machineID, time.Since(start))
		}

		select {
		case <-p.ctx.Done():
			return
		case <-time.After(p.config.CycleDelay):
		}
	}

	logger.WithMachine(machineID).Infof("Cycle budget reached (%d cycles)", p.config.Cycles)
}

// runCycle executes one full monitoring cycle. A panic in any stage is
// converted into a failed result so one bad window never takes down the
// machine's worker.
func (p *Pipeline) runCycle(cycle int) (result *models.CycleResult) {
	machineID := p.config.MachineID
	result = &models.CycleResult{MachineID: machineID, Cycle: cycle}

	defer func() {
		if r := recover(); r != nil {
			result.Stage = models.StageRecovered
			result.Err = fmt.Errorf("panic in cycle %d: %v", cycle, r)
		}
	}()

	window, err := p.config.Provider.Acquire(p.ctx)
	if err != nil {
		result.Stage = models.StageAcquire
		result.Err = err
		return result
	}

	featureSet, err := p.config.Extractor.Extract(window)
	if err != nil {
		result.Stage = models.StageExtract
		result.Err = err
		return result
	}

	// Anomaly and RUL both consult the history as it was before this
	// cycle's observation lands.
	hist := p.config.Store.GetHistory(machineID)
	anomalyScore := p.config.Scorer.Score(featureSet.HealthIndex)
	rulEstimate := p.config.Estimator.Estimate(hist)

	obs := models.Observation{
		MachineID: machineID,
		Health:    featureSet.HealthIndex,
		Anomaly:   anomalyScore,
		RUL:       rulEstimate,
		Timestamp: window.Timestamp,
		Features:  *featureSet,
	}
	p.config.Store.Store(obs)

	metrics.Get().ObserveObservation(machineID, obs.Health, obs.Anomaly, obs.RUL)
	p.config.EventPublisher.ObservationStored(machineID, &obs)
	result.Observation = &obs

	if alertEvent := p.config.Decider.Decide(p.ctx, machineID, obs.Health, anomalyScore, rulEstimate); alertEvent != nil {
		metrics.Get().ObserveAlert(machineID)
		p.config.EventPublisher.AlertRaised(machineID, alertEvent)
		p.config.EventPublisher.TicketCreated(machineID, alertEvent.TicketID)
		result.Alert = alertEvent
	}

	return result
}
