package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Sensor validation
	if c.Sensor.SampleRate <= 0 {
		errs = append(errs, errors.New("sensor.sample_rate must be positive"))
	}
	if c.Sensor.WindowSize <= 0 {
		errs = append(errs, errors.New("sensor.window_size must be positive"))
	}

	// Filter validation
	nyquist := c.Sensor.SampleRate / 2
	if c.Filter.BandLow <= 0 {
		errs = append(errs, errors.New("filter.band_low must be positive"))
	}
	if c.Filter.BandHigh <= c.Filter.BandLow {
		errs = append(errs, errors.New("filter.band_high must be greater than band_low"))
	}
	if c.Filter.BandHigh >= nyquist {
		errs = append(errs, fmt.Errorf("filter.band_high must be below the Nyquist frequency (%.1f Hz)", nyquist))
	}
	if c.Filter.FFTSize <= 0 {
		errs = append(errs, errors.New("filter.fft_size must be positive"))
	}

	// Anomaly validation
	if c.Anomaly.BaselineStd < 0 {
		errs = append(errs, errors.New("anomaly.baseline_std must not be negative"))
	}

	// RUL validation
	if c.RUL.InitialHealth <= 0 || c.RUL.InitialHealth > 1 {
		errs = append(errs, errors.New("rul.initial_health must be in (0, 1]"))
	}
	if c.RUL.DegradationRate <= 0 {
		errs = append(errs, errors.New("rul.degradation_rate must be positive"))
	}

	// History validation
	if c.History.Capacity <= 0 {
		errs = append(errs, errors.New("history.capacity must be positive"))
	}

	// Alert validation
	if c.Alert.ZThreshold <= 0 {
		errs = append(errs, errors.New("alert.z_threshold must be positive"))
	}
	if c.Alert.RULWarning < 0 {
		errs = append(errs, errors.New("alert.rul_warning must not be negative"))
	}
	if c.Alert.SinkTimeout <= 0 {
		errs = append(errs, errors.New("alert.sink_timeout must be positive"))
	}

	// Sink validation
	validSinks := map[string]bool{"local": true, "cmms": true}
	if !validSinks[c.Sink.Type] {
		errs = append(errs, fmt.Errorf("sink.type must be one of: local, cmms"))
	}
	if c.Sink.Type == "cmms" && c.Sink.Endpoint == "" {
		errs = append(errs, errors.New("sink.endpoint is required for the cmms sink"))
	}

	// Monitor validation
	if len(c.Monitor.Machines) == 0 {
		errs = append(errs, errors.New("monitor.machines must list at least one machine"))
	}
	if c.Monitor.CyclesPerRun < 0 {
		errs = append(errs, errors.New("monitor.cycles_per_run must not be negative"))
	}
	for _, id := range c.Monitor.DegradingMachines {
		if !containsMachine(c.Monitor.Machines, id) {
			errs = append(errs, fmt.Errorf("monitor.degrading_machines entry %q is not in monitor.machines", id))
		}
	}

	// API validation
	if c.API.Enabled && (c.API.Port <= 0 || c.API.Port > 65535) {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}

func containsMachine(machines []string, id string) bool {
	for _, m := range machines {
		if m == id {
			return true
		}
	}
	return false
}
