package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "machinepulse-test",
			Mode:     "development",
			LogLevel: "info",
		},
		Sensor: SensorConfig{
			SampleRate: 2000,
			WindowSize: 512,
		},
		Filter: FilterConfig{
			BandLow:  10,
			BandHigh: 800,
			FFTSize:  512,
		},
		Anomaly: AnomalyConfig{
			BaselineMean: 0.1,
			BaselineStd:  0.05,
		},
		RUL: RULConfig{
			InitialHealth:   1.0,
			DegradationRate: 0.0008,
		},
		History: HistoryConfig{Capacity: 500},
		Alert: AlertConfig{
			ZThreshold:  3.0,
			RULWarning:  50.0,
			SinkTimeout: 5 * time.Second,
		},
		Sink: SinkConfig{Type: "local"},
		Monitor: MonitorConfig{
			Machines:          []string{"EQP-001", "EQP-002"},
			DegradingMachines: []string{"EQP-002"},
			CyclesPerRun:      200,
		},
		API: APIConfig{Enabled: true, Port: 8080},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*Config)
		expectErr   bool
		errContains string
	}{
		{
			name:       "valid config",
			modifyFunc: func(c *Config) {},
			expectErr:  false,
		},
		{
			name: "invalid mode",
			modifyFunc: func(c *Config) {
				c.App.Mode = "staging"
			},
			expectErr:   true,
			errContains: "app.mode",
		},
		{
			name: "band above nyquist",
			modifyFunc: func(c *Config) {
				c.Filter.BandHigh = 1200
			},
			expectErr:   true,
			errContains: "Nyquist",
		},
		{
			name: "band inverted",
			modifyFunc: func(c *Config) {
				c.Filter.BandLow = 500
				c.Filter.BandHigh = 100
			},
			expectErr:   true,
			errContains: "band_high must be greater than band_low",
		},
		{
			name: "initial health out of range",
			modifyFunc: func(c *Config) {
				c.RUL.InitialHealth = 1.5
			},
			expectErr:   true,
			errContains: "initial_health",
		},
		{
			name: "unknown sink type",
			modifyFunc: func(c *Config) {
				c.Sink.Type = "kafka"
			},
			expectErr:   true,
			errContains: "sink.type",
		},
		{
			name: "cmms sink without endpoint",
			modifyFunc: func(c *Config) {
				c.Sink.Type = "cmms"
				c.Sink.Endpoint = ""
			},
			expectErr:   true,
			errContains: "sink.endpoint",
		},
		{
			name: "degrading machine not in roster",
			modifyFunc: func(c *Config) {
				c.Monitor.DegradingMachines = []string{"EQP-999"}
			},
			expectErr:   true,
			errContains: "degrading_machines",
		},
		{
			name: "no machines",
			modifyFunc: func(c *Config) {
				c.Monitor.Machines = nil
				c.Monitor.DegradingMachines = nil
			},
			expectErr:   true,
			errContains: "at least one machine",
		},
		{
			name: "zero history capacity",
			modifyFunc: func(c *Config) {
				c.History.Capacity = 0
			},
			expectErr:   true,
			errContains: "history.capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)

			err := cfg.Validate()

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "machinepulse", cfg.App.Name)
	assert.Equal(t, 2000.0, cfg.Sensor.SampleRate)
	assert.Equal(t, 512, cfg.Sensor.WindowSize)
	assert.Equal(t, 10.0, cfg.Filter.BandLow)
	assert.Equal(t, 800.0, cfg.Filter.BandHigh)
	assert.Equal(t, 0.1, cfg.Anomaly.BaselineMean)
	assert.Equal(t, 0.05, cfg.Anomaly.BaselineStd)
	assert.Equal(t, 1.0, cfg.RUL.InitialHealth)
	assert.Equal(t, 0.0008, cfg.RUL.DegradationRate)
	assert.Equal(t, 500, cfg.History.Capacity)
	assert.Equal(t, 3.0, cfg.Alert.ZThreshold)
	assert.Equal(t, 50.0, cfg.Alert.RULWarning)
	assert.Equal(t, "local", cfg.Sink.Type)
	assert.Equal(t, []string{"EQP-001", "EQP-002", "EQP-003"}, cfg.Monitor.Machines)
	assert.True(t, cfg.Monitor.IsDegrading("EQP-002"))
	assert.False(t, cfg.Monitor.IsDegrading("EQP-001"))

	// Defaults must themselves validate.
	assert.NoError(t, cfg.Validate())
}
