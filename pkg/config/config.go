// Package config holds the coordinator's tunable configuration: YAML-backed,
// environment-overridable, and validated before use.
package config

import (
	"fmt"
	"time"
)

// CoordinatorConfig holds the complete coordinator configuration.
type CoordinatorConfig struct {
	// Tick holds the coordinator loop's timing settings.
	Tick TickConfig `yaml:"tick"`

	// WorldModel holds the world model's neighbor/staleness settings.
	WorldModel WorldModelConfig `yaml:"world_model"`

	// Roles holds the role-assignment engine's thresholds.
	Roles RoleConfig `yaml:"roles"`

	// Logging configures the console logger.
	Logging LoggingConfig `yaml:"logging"`
}

// TickConfig defines the coordinator's loop timing.
type TickConfig struct {
	IntervalMs            int `yaml:"interval_ms"`
	RoleReassignmentTicks int `yaml:"role_reassignment_ticks"`
}

// WorldModelConfig defines the world model's spatial/staleness settings.
type WorldModelConfig struct {
	CommRangeM       float64 `yaml:"comm_range_m"`
	StaleThresholdMs int     `yaml:"stale_threshold_ms"`
}

// RoleConfig defines the role-assignment engine's safety thresholds.
type RoleConfig struct {
	BatteryChargeThreshold  float64 `yaml:"battery_charge_threshold"`
	BatteryReturnThreshold  float64 `yaml:"battery_return_threshold"`
	RoleHysteresisTickCount int     `yaml:"role_hysteresis_tick_count"`
}

// LoggingConfig defines console logging settings.
type LoggingConfig struct {
	ConsoleLevel string `yaml:"console_level"` // "debug", "info", "warn", "error"
	NoColor      bool   `yaml:"no_color"`
}

// Validate checks that the configuration holds values the core can safely
// operate on.
func (c *CoordinatorConfig) Validate() error {
	if c.Tick.IntervalMs <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.Tick.RoleReassignmentTicks <= 0 {
		return fmt.Errorf("role reassignment interval must be positive")
	}
	if c.WorldModel.CommRangeM <= 0 {
		return fmt.Errorf("comm range must be positive")
	}
	if c.WorldModel.StaleThresholdMs <= 0 {
		return fmt.Errorf("stale threshold must be positive")
	}
	if c.Roles.BatteryChargeThreshold < 0 || c.Roles.BatteryChargeThreshold > 1 {
		return fmt.Errorf("battery charge threshold must be between 0.0 and 1.0")
	}
	if c.Roles.BatteryReturnThreshold < 0 || c.Roles.BatteryReturnThreshold > 1 {
		return fmt.Errorf("battery return threshold must be between 0.0 and 1.0")
	}
	if c.Roles.BatteryReturnThreshold <= c.Roles.BatteryChargeThreshold {
		return fmt.Errorf("battery return threshold must exceed the charge threshold")
	}
	if c.Roles.RoleHysteresisTickCount < 0 {
		return fmt.Errorf("role hysteresis tick count cannot be negative")
	}
	switch c.Logging.ConsoleLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown console log level: %s", c.Logging.ConsoleLevel)
	}
	return nil
}

// TickInterval returns the configured tick interval as a time.Duration.
func (c *CoordinatorConfig) TickInterval() time.Duration {
	return time.Duration(c.Tick.IntervalMs) * time.Millisecond
}

// StaleThreshold returns the configured staleness threshold as a
// time.Duration.
func (c *CoordinatorConfig) StaleThreshold() time.Duration {
	return time.Duration(c.WorldModel.StaleThresholdMs) * time.Millisecond
}

// String returns a human-readable representation of the configuration.
func (c *CoordinatorConfig) String() string {
	return fmt.Sprintf(`Coordinator Configuration:
  Tick Interval: %dms
  Role Reassignment: every %d ticks

World Model:
  Comm Range: %.1fm
  Stale Threshold: %dms

Roles:
  Battery Charge Threshold: %.2f
  Battery Return Threshold: %.2f
  Hysteresis Tick Count: %d

Logging:
  Console Level: %s
  No Color: %t`,
		c.Tick.IntervalMs,
		c.Tick.RoleReassignmentTicks,
		c.WorldModel.CommRangeM,
		c.WorldModel.StaleThresholdMs,
		c.Roles.BatteryChargeThreshold,
		c.Roles.BatteryReturnThreshold,
		c.Roles.RoleHysteresisTickCount,
		c.Logging.ConsoleLevel,
		c.Logging.NoColor,
	)
}

// GetDefaultConfig returns the default coordinator configuration, matching
// the defaults named throughout the core's component design.
func GetDefaultConfig() *CoordinatorConfig {
	return &CoordinatorConfig{
		Tick: TickConfig{
			IntervalMs:            10,
			RoleReassignmentTicks: 100,
		},
		WorldModel: WorldModelConfig{
			CommRangeM:       5.0,
			StaleThresholdMs: 500,
		},
		Roles: RoleConfig{
			BatteryChargeThreshold:  0.15,
			BatteryReturnThreshold:  0.90,
			RoleHysteresisTickCount: 10,
		},
		Logging: LoggingConfig{
			ConsoleLevel: "info",
			NoColor:      false,
		},
	}
}
