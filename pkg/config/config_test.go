package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaultConfig(t *testing.T) {
	c := GetDefaultConfig()

	if err := c.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}

	if c.Tick.IntervalMs != 10 {
		t.Errorf("expected default tick interval 10ms, got %d", c.Tick.IntervalMs)
	}

	if c.Tick.RoleReassignmentTicks != 100 {
		t.Errorf("expected default role reassignment interval 100, got %d", c.Tick.RoleReassignmentTicks)
	}

	if c.WorldModel.CommRangeM != 5.0 {
		t.Errorf("expected default comm range 5.0, got %f", c.WorldModel.CommRangeM)
	}

	if c.WorldModel.StaleThresholdMs != 500 {
		t.Errorf("expected default stale threshold 500ms, got %d", c.WorldModel.StaleThresholdMs)
	}

	if c.Roles.BatteryChargeThreshold != 0.15 {
		t.Errorf("expected default battery charge threshold 0.15, got %f", c.Roles.BatteryChargeThreshold)
	}

	if c.Roles.BatteryReturnThreshold != 0.90 {
		t.Errorf("expected default battery return threshold 0.90, got %f", c.Roles.BatteryReturnThreshold)
	}

	if c.Roles.RoleHysteresisTickCount != 10 {
		t.Errorf("expected default hysteresis tick count 10, got %d", c.Roles.RoleHysteresisTickCount)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CoordinatorConfig)
		wantErr bool
	}{
		{"valid default", func(c *CoordinatorConfig) {}, false},
		{"zero tick interval", func(c *CoordinatorConfig) { c.Tick.IntervalMs = 0 }, true},
		{"negative role reassignment", func(c *CoordinatorConfig) { c.Tick.RoleReassignmentTicks = -1 }, true},
		{"zero comm range", func(c *CoordinatorConfig) { c.WorldModel.CommRangeM = 0 }, true},
		{"charge threshold out of range", func(c *CoordinatorConfig) { c.Roles.BatteryChargeThreshold = 1.5 }, true},
		{"return threshold below charge", func(c *CoordinatorConfig) {
			c.Roles.BatteryChargeThreshold = 0.5
			c.Roles.BatteryReturnThreshold = 0.4
		}, true},
		{"negative hysteresis", func(c *CoordinatorConfig) { c.Roles.RoleHysteresisTickCount = -1 }, true},
		{"unknown log level", func(c *CoordinatorConfig) { c.Logging.ConsoleLevel = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := GetDefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	original := GetDefaultConfig()
	original.Tick.IntervalMs = 25
	original.WorldModel.CommRangeM = 8.5

	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Tick.IntervalMs != 25 {
		t.Errorf("expected tick interval 25ms, got %d", loaded.Tick.IntervalMs)
	}

	if loaded.WorldModel.CommRangeM != 8.5 {
		t.Errorf("expected comm range 8.5, got %f", loaded.WorldModel.CommRangeM)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error loading missing config file")
	}
}

func TestMergeWithEnvironment(t *testing.T) {
	os.Setenv("SWARM_TICK_INTERVAL_MS", "50")
	os.Setenv("SWARM_COMM_RANGE_M", "12.5")
	os.Setenv("SWARM_LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SWARM_TICK_INTERVAL_MS")
		os.Unsetenv("SWARM_COMM_RANGE_M")
		os.Unsetenv("SWARM_LOG_LEVEL")
	}()

	c := GetDefaultConfig()
	MergeWithEnvironment(c)

	if c.Tick.IntervalMs != 50 {
		t.Errorf("expected env override tick interval 50ms, got %d", c.Tick.IntervalMs)
	}

	if c.WorldModel.CommRangeM != 12.5 {
		t.Errorf("expected env override comm range 12.5, got %f", c.WorldModel.CommRangeM)
	}

	if c.Logging.ConsoleLevel != "debug" {
		t.Errorf("expected env override log level debug, got %s", c.Logging.ConsoleLevel)
	}
}

func TestLoadConfigOrDefaultFallsBackToDefault(t *testing.T) {
	c, err := LoadConfigOrDefault("")
	if err != nil {
		t.Fatalf("LoadConfigOrDefault failed: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("fallback default config should validate, got: %v", err)
	}
}
