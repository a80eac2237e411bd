package config

// Default values for configuration.
const (
	DefaultTailPercentile = 95.0
	DefaultWindowStart    = "08:15"
	DefaultWindowEnd      = "08:30"
	DefaultMissingSample  = 10
	DefaultParallelism    = 4
)

// Environment variable names.
const (
	EnvLogDir    = "SMSTRACE_LOG_DIR"
	EnvOutputDir = "SMSTRACE_OUTPUT_DIR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:      ".",
		TailPercentile: DefaultTailPercentile,
		ReminderWindow: WindowConfig{Start: DefaultWindowStart, End: DefaultWindowEnd},
		MissingSample:  DefaultMissingSample,
		Parallelism:    DefaultParallelism,
	}
}
