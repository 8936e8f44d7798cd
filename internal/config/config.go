package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/synaptecltd/reactor"
	"github.com/synaptecltd/reactor/disturbance"
	"gopkg.in/yaml.v2"
)

// Config holds all simulator configuration.
type Config struct {
	Simulation struct {
		TickPeriod     string  `yaml:"tick_period"`      // real time between ticks, e.g. "1s"
		SecondsPerTick float64 `yaml:"seconds_per_tick"` // simulated seconds per tick
		Seed           uint64  `yaml:"seed"`             // seeds both the sensor noise and the disturbances
		Noise          bool    `yaml:"noise"`            // false runs without sensor noise
		Ticks          uint64  `yaml:"ticks"`            // stop after this many ticks, 0 runs until interrupted
	} `yaml:"simulation"`
	Controls struct {
		ControlRods  float64 `yaml:"control_rods"`
		CoolantFlow  float64 `yaml:"coolant_flow"`
		TurbineSpeed float64 `yaml:"turbine_speed"`
	} `yaml:"controls"`
	Schedule struct {
		ReportCron string `yaml:"report_cron"` // when the status summary is logged, empty to disable
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"` // empty records nothing
	} `yaml:"database"`
	Disturbances disturbance.Container `yaml:"disturbances"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Simulation.TickPeriod = "1s"
	cfg.Simulation.SecondsPerTick = 10
	cfg.Simulation.Noise = true
	cfg.Controls.ControlRods = reactor.DefaultControlRods
	cfg.Controls.CoolantFlow = reactor.DefaultCoolantFlow
	cfg.Controls.TurbineSpeed = reactor.DefaultTurbineSpeed
	cfg.Schedule.ReportCron = "@every 30s"
	return cfg
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("REACTOR_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("REACTOR_SEED: %w", err)
		}
		cfg.Simulation.Seed = seed
	}
	if v := os.Getenv("REACTOR_TICK_PERIOD"); v != "" {
		cfg.Simulation.TickPeriod = v
	}
	if v := os.Getenv("REACTOR_TICKS"); v != "" {
		ticks, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("REACTOR_TICKS: %w", err)
		}
		cfg.Simulation.Ticks = ticks
	}
	if v := os.Getenv("REACTOR_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	return cfg, nil
}

// TickSpec returns the cron spec that fires once per tick period.
func (c *Config) TickSpec() string {
	return "@every " + c.Simulation.TickPeriod
}

// InitialControls returns the control settings applied before the run starts.
func (c *Config) InitialControls() reactor.Controls {
	return reactor.Controls{
		ControlRods:  c.Controls.ControlRods,
		CoolantFlow:  c.Controls.CoolantFlow,
		TurbineSpeed: c.Controls.TurbineSpeed,
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	period, err := time.ParseDuration(c.Simulation.TickPeriod)
	if err != nil {
		return fmt.Errorf("simulation.tick_period: %w", err)
	}
	if period <= 0 {
		return fmt.Errorf("simulation.tick_period must be positive")
	}
	if c.Simulation.SecondsPerTick <= 0 {
		return fmt.Errorf("simulation.seconds_per_tick must be positive")
	}

	controls := map[string]float64{
		"controls.control_rods":  c.Controls.ControlRods,
		"controls.coolant_flow":  c.Controls.CoolantFlow,
		"controls.turbine_speed": c.Controls.TurbineSpeed,
	}
	for name, value := range controls {
		if value < reactor.MinPercent || value > reactor.MaxPercent {
			return fmt.Errorf("%s must be between %.0f and %.0f", name, reactor.MinPercent, reactor.MaxPercent)
		}
	}

	if c.Schedule.ReportCron != "" {
		if _, err := cronParser.Parse(c.Schedule.ReportCron); err != nil {
			return fmt.Errorf("schedule.report_cron: %w", err)
		}
	}
	return nil
}

// Same fields as cron.WithSeconds, which the driver schedules with.
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)
