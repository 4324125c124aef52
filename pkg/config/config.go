package config

import "time"

// Config is the single immutable configuration structure constructed once
// at startup and passed explicitly into every component constructor.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Sensor    SensorConfig    `mapstructure:"sensor"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Anomaly   AnomalyConfig   `mapstructure:"anomaly"`
	RUL       RULConfig       `mapstructure:"rul"`
	History   HistoryConfig   `mapstructure:"history"`
	Alert     AlertConfig     `mapstructure:"alert"`
	Sink      SinkConfig      `mapstructure:"sink"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	API       APIConfig       `mapstructure:"api"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type SensorConfig struct {
	SampleRate    float64 `mapstructure:"sample_rate"`
	WindowSize    int     `mapstructure:"window_size"`
	TempBaseline  float64 `mapstructure:"temp_baseline"`
	TempVariation float64 `mapstructure:"temp_variation"`
}

type FilterConfig struct {
	BandLow  float64 `mapstructure:"band_low"`
	BandHigh float64 `mapstructure:"band_high"`
	FFTSize  int     `mapstructure:"fft_size"`
}

type AnomalyConfig struct {
	BaselineMean float64 `mapstructure:"baseline_mean"`
	BaselineStd  float64 `mapstructure:"baseline_std"`
}

type RULConfig struct {
	InitialHealth   float64 `mapstructure:"initial_health"`
	DegradationRate float64 `mapstructure:"degradation_rate"`
}

type HistoryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type AlertConfig struct {
	ZThreshold  float64       `mapstructure:"z_threshold"`
	RULWarning  float64       `mapstructure:"rul_warning"`
	SinkTimeout time.Duration `mapstructure:"sink_timeout"`
	ServerLabel string        `mapstructure:"server_label"`
	ToolName    string        `mapstructure:"tool_name"`
}

type SinkConfig struct {
	Type           string               `mapstructure:"type"`
	Endpoint       string               `mapstructure:"endpoint"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type MonitorConfig struct {
	Machines          []string      `mapstructure:"machines"`
	DegradingMachines []string      `mapstructure:"degrading_machines"`
	CyclesPerRun      int           `mapstructure:"cycles_per_run"`
	CycleDelay        time.Duration `mapstructure:"cycle_delay"`
}

type APIConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
}

type WebSocketConfig struct {
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// IsDegrading reports whether a machine is configured to degrade in the
// acquisition simulator.
func (m MonitorConfig) IsDegrading(machineID string) bool {
	for _, id := range m.DegradingMachines {
		if id == machineID {
			return true
		}
	}
	return false
}
