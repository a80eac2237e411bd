// Package config provides configuration loading and validation for smstrace.
package config

import (
	"time"

	"github.com/cmacnab/smstrace/pkg/report"
)

// Config is the root configuration structure loaded from YAML. All options
// are plain scalars; flags override anything set here.
type Config struct {
	// LogDir is the directory holding the gateway log files.
	LogDir string `yaml:"log_dir"`

	// OutputDir is where CSV exports are written.
	OutputDir string `yaml:"output_dir"`

	// TailPercentile is the slow-delivery threshold percentile.
	TailPercentile float64 `yaml:"tail_percentile"`

	// CutoffDate excludes log files dated before it (YYYY-MM-DD). Empty
	// means no cutoff.
	CutoffDate string `yaml:"cutoff_date,omitempty"`

	// ReminderWindow is the daily clock window for the reminder summary.
	ReminderWindow WindowConfig `yaml:"reminder_window"`

	// MissingSample bounds the missing-delivery sample in reports.
	MissingSample int `yaml:"missing_sample"`

	// Parallelism is the number of files parsed concurrently. Correlation
	// itself always runs sequentially in canonical order.
	Parallelism int `yaml:"parallelism"`

	// parsed forms (populated during validation)
	cutoff time.Time
	window report.ReminderWindow
}

// WindowConfig holds the reminder window bounds as HH:MM clock strings.
type WindowConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Cutoff returns the parsed cutoff date; zero when no cutoff is configured.
func (c *Config) Cutoff() time.Time {
	return c.cutoff
}

// Window returns the parsed reminder window.
func (c *Config) Window() report.ReminderWindow {
	return c.window
}
