package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/machinepulse")
	}

	// Environment variable settings
	v.SetEnvPrefix("MONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "machinepulse")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "30s")

	// Sensor defaults
	v.SetDefault("sensor.sample_rate", 2000.0)
	v.SetDefault("sensor.window_size", 512)
	v.SetDefault("sensor.temp_baseline", 55.0)
	v.SetDefault("sensor.temp_variation", 4.0)

	// Filter defaults
	v.SetDefault("filter.band_low", 10.0)
	v.SetDefault("filter.band_high", 800.0)
	v.SetDefault("filter.fft_size", 512)

	// Anomaly baseline defaults
	v.SetDefault("anomaly.baseline_mean", 0.1)
	v.SetDefault("anomaly.baseline_std", 0.05)

	// RUL model defaults
	v.SetDefault("rul.initial_health", 1.0)
	v.SetDefault("rul.degradation_rate", 0.0008)

	// History defaults
	v.SetDefault("history.capacity", 500)

	// Alert defaults
	v.SetDefault("alert.z_threshold", 3.0)
	v.SetDefault("alert.rul_warning", 50.0)
	v.SetDefault("alert.sink_timeout", "5s")
	v.SetDefault("alert.server_label", "maintenance_cmms")
	v.SetDefault("alert.tool_name", "create_maintenance_ticket")

	// Sink defaults
	v.SetDefault("sink.type", "local")
	v.SetDefault("sink.endpoint", "http://localhost:9000/tickets")
	v.SetDefault("sink.timeout", "5s")
	v.SetDefault("sink.circuit_breaker.max_failures", 5)
	v.SetDefault("sink.circuit_breaker.timeout", "30s")

	// Monitor defaults
	v.SetDefault("monitor.machines", []string{"EQP-001", "EQP-002", "EQP-003"})
	v.SetDefault("monitor.degrading_machines", []string{"EQP-002"})
	v.SetDefault("monitor.cycles_per_run", 200)
	v.SetDefault("monitor.cycle_delay", "100ms")

	// API defaults
	v.SetDefault("api.enabled", true)
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.rate_limit", 100)

	// WebSocket defaults
	v.SetDefault("websocket.max_connections", 1000)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.broadcast_buffer", 256)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
}
