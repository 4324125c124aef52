package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/machinepulse/machinepulse/internal/logger"
)

type Metrics struct {
	CyclesTotal   *prometheus.CounterVec
	CycleFailures *prometheus.CounterVec
	CycleDuration *prometheus.HistogramVec

	HealthIndex  *prometheus.GaugeVec
	AnomalyScore *prometheus.GaugeVec
	RULEstimate  *prometheus.GaugeVec

	AlertsTotal  *prometheus.CounterVec
	TicketsTotal *prometheus.CounterVec

	CircuitBreakerState *prometheus.GaugeVec
}

var (
	instance *Metrics
	once     sync.Once
)

func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "monitor_cycles_total",
				Help: "Completed monitoring cycles per machine.",
			}, []string{"machine_id"}),
			CycleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "monitor_cycle_failures_total",
				Help: "Failed monitoring cycles per machine and pipeline stage.",
			}, []string{"machine_id", "stage"}),
			CycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "monitor_cycle_duration_seconds",
				Help:    "Duration of a full acquire-to-decide cycle.",
				Buckets: prometheus.DefBuckets,
			}, []string{"machine_id"}),
			HealthIndex: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "monitor_health_index",
				Help: "Latest health index per machine, in (0, 1].",
			}, []string{"machine_id"}),
			AnomalyScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "monitor_anomaly_score",
				Help: "Latest anomaly z-score per machine.",
			}, []string{"machine_id"}),
			RULEstimate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "monitor_rul_cycles",
				Help: "Latest remaining-useful-life estimate in cycles.",
			}, []string{"machine_id"}),
			AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "monitor_alerts_total",
				Help: "Maintenance alerts raised per machine.",
			}, []string{"machine_id"}),
			TicketsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "monitor_tickets_total",
				Help: "Ticket creation attempts by result (created, fallback).",
			}, []string{"machine_id", "result"}),
			CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "monitor_circuit_breaker_state",
				Help: "Ticket sink circuit breaker state (0=closed, 1=open, 2=half-open).",
			}, []string{"name"}),
		}

		prometheus.MustRegister(
			instance.CyclesTotal,
			instance.CycleFailures,
			instance.CycleDuration,
			instance.HealthIndex,
			instance.AnomalyScore,
			instance.RULEstimate,
			instance.AlertsTotal,
			instance.TicketsTotal,
			instance.CircuitBreakerState,
		)
	})
	return instance
}

func (m *Metrics) ObserveCycle(machineID string, d time.Duration) {
	m.CyclesTotal.WithLabelValues(machineID).Inc()
	m.CycleDuration.WithLabelValues(machineID).Observe(d.Seconds())
}

func (m *Metrics) ObserveFailure(machineID, stage string) {
	m.CycleFailures.WithLabelValues(machineID, stage).Inc()
}

func (m *Metrics) ObserveObservation(machineID string, health, anomaly, rul float64) {
	m.HealthIndex.WithLabelValues(machineID).Set(health)
	m.AnomalyScore.WithLabelValues(machineID).Set(anomaly)
	m.RULEstimate.WithLabelValues(machineID).Set(rul)
}

func (m *Metrics) ObserveAlert(machineID string) {
	m.AlertsTotal.WithLabelValues(machineID).Inc()
}

func (m *Metrics) ObserveTicket(machineID, result string) {
	m.TicketsTotal.WithLabelValues(machineID, result).Inc()
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func StartServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":" + strconv.Itoa(port)
	logger.Infof("Prometheus metrics server listening on %s", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Errorf("Prometheus server error: %v", err)
		}
	}()
}
