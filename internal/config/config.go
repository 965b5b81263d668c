// Package config loads drivebase configuration from YAML with environment
// overrides. Defaults match the tuning the drivetrain shipped with.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultKp        = 0.05
	DefaultKi        = 0.01
	DefaultKd        = 0.0
	DefaultTolerance = 5.0
	DefaultPeriodMS  = 20
	DefaultPort      = "8708"
)

// Config is the full drivebase configuration.
type Config struct {
	Drive     DriveConfig     `yaml:"drive"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Sim       SimConfig       `yaml:"sim"`
}

// DriveConfig is the heading-loop tuning.
type DriveConfig struct {
	Kp        float64 `yaml:"kp"`
	Ki        float64 `yaml:"ki"`
	Kd        float64 `yaml:"kd"`
	Tolerance float64 `yaml:"tolerance"`
	PeriodMS  int     `yaml:"period_ms"`
}

// Period returns the control loop period as a duration.
func (d DriveConfig) Period() time.Duration {
	return time.Duration(d.PeriodMS) * time.Millisecond
}

// DashboardConfig is the telemetry server settings.
type DashboardConfig struct {
	Port string `yaml:"port"`
}

// SimConfig is the simulated-hardware settings.
type SimConfig struct {
	// Drift is the simulated gyro bias in degrees per second.
	Drift float64 `yaml:"drift"`
}

// Default returns the configuration the drivetrain shipped with.
func Default() *Config {
	return &Config{
		Drive: DriveConfig{
			Kp:        DefaultKp,
			Ki:        DefaultKi,
			Kd:        DefaultKd,
			Tolerance: DefaultTolerance,
			PeriodMS:  DefaultPeriodMS,
		},
		Dashboard: DashboardConfig{
			Port: DefaultPort,
		},
		Sim: SimConfig{
			Drift: 2.0,
		},
	}
}

// Load reads a YAML config file over the defaults, then applies DRIVEBASE_*
// environment overrides. An empty path means defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides fields from DRIVEBASE_* environment variables.
func (c *Config) applyEnv() {
	if v, ok := envFloat("DRIVEBASE_KP"); ok {
		c.Drive.Kp = v
	}
	if v, ok := envFloat("DRIVEBASE_KI"); ok {
		c.Drive.Ki = v
	}
	if v, ok := envFloat("DRIVEBASE_KD"); ok {
		c.Drive.Kd = v
	}
	if v, ok := envFloat("DRIVEBASE_TOLERANCE"); ok {
		c.Drive.Tolerance = v
	}
	if port := os.Getenv("DRIVEBASE_PORT"); port != "" {
		c.Dashboard.Port = port
	}
}

func envFloat(name string) (float64, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
