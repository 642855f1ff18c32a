package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*CoordinatorConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := GetDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads config from file or returns default, with
// environment overrides always applied.
func LoadConfigOrDefault(path string) (*CoordinatorConfig, error) {
	var config *CoordinatorConfig
	var err error

	if path != "" {
		config, err = LoadConfig(path)
		if err != nil {
			fmt.Printf("Warning: Could not load config from %s: %v\n", path, err)
			config = nil
		}
	}

	if config == nil {
		defaultPaths := []string{
			"config.yaml",
			"swarm-coord.yaml",
			filepath.Join("cmd", "swarm-core-sim", "config.yaml"),
		}

		for _, p := range defaultPaths {
			if _, statErr := os.Stat(p); statErr == nil {
				config, err = LoadConfig(p)
				if err == nil {
					fmt.Printf("Loaded config from: %s\n", p)
					break
				}
			}
		}
	}

	if config == nil {
		fmt.Println("Using default configuration")
		config = GetDefaultConfig()
	}

	MergeWithEnvironment(config)

	return config, nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *CoordinatorConfig, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// MergeWithEnvironment merges config with environment variable overrides.
func MergeWithEnvironment(config *CoordinatorConfig) {
	if v := os.Getenv("SWARM_TICK_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Tick.IntervalMs = n
		}
	}

	if v := os.Getenv("SWARM_ROLE_REASSIGNMENT_TICKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Tick.RoleReassignmentTicks = n
		}
	}

	if v := os.Getenv("SWARM_COMM_RANGE_M"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			config.WorldModel.CommRangeM = f
		}
	}

	if v := os.Getenv("SWARM_STALE_THRESHOLD_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.WorldModel.StaleThresholdMs = n
		}
	}

	if v := os.Getenv("SWARM_BATTERY_CHARGE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			config.Roles.BatteryChargeThreshold = f
		}
	}

	if v := os.Getenv("SWARM_BATTERY_RETURN_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			config.Roles.BatteryReturnThreshold = f
		}
	}

	if v := os.Getenv("SWARM_ROLE_HYSTERESIS_TICKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			config.Roles.RoleHysteresisTickCount = n
		}
	}

	if v := os.Getenv("SWARM_LOG_LEVEL"); v != "" {
		switch v {
		case "debug", "info", "warn", "error":
			config.Logging.ConsoleLevel = v
		}
	}

	if v := os.Getenv("SWARM_NO_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Logging.NoColor = b
		}
	}
}
