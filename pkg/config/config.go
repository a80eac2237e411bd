package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cmacnab/smstrace/pkg/report"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and parses the derived fields.
func Validate(cfg *Config) error {
	if cfg.TailPercentile <= 0 || cfg.TailPercentile > 100 {
		return fmt.Errorf("tail_percentile: must be in (0, 100], got %v", cfg.TailPercentile)
	}

	if cfg.MissingSample < 0 {
		return errors.New("missing_sample: must be non-negative")
	}

	if cfg.Parallelism < 0 {
		return errors.New("parallelism: must be non-negative")
	}

	cfg.cutoff = time.Time{}
	if cfg.CutoffDate != "" {
		cutoff, err := time.Parse("2006-01-02", cfg.CutoffDate)
		if err != nil {
			return fmt.Errorf("cutoff_date: %w", err)
		}
		cfg.cutoff = cutoff
	}

	window, err := parseWindow(cfg.ReminderWindow)
	if err != nil {
		return fmt.Errorf("reminder_window: %w", err)
	}
	cfg.window = window

	return nil
}

func parseWindow(wc WindowConfig) (report.ReminderWindow, error) {
	var w report.ReminderWindow
	var err error

	if w.StartHour, w.StartMinute, err = parseClock(wc.Start); err != nil {
		return w, fmt.Errorf("start: %w", err)
	}
	if w.EndHour, w.EndMinute, err = parseClock(wc.End); err != nil {
		return w, fmt.Errorf("end: %w", err)
	}

	if w.EndHour*60+w.EndMinute <= w.StartHour*60+w.StartMinute {
		return w, errors.New("end must be after start")
	}
	return w, nil
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// applyEnvironmentOverrides applies environment variable overrides.
func (c *Config) applyEnvironmentOverrides() {
	if dir := os.Getenv(EnvLogDir); dir != "" {
		c.LogDir = dir
	}
	if dir := os.Getenv(EnvOutputDir); dir != "" {
		c.OutputDir = dir
	}
}
