package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/cmacnab/smstrace/pkg/config"
	"github.com/cmacnab/smstrace/pkg/correlate"
	"github.com/cmacnab/smstrace/pkg/output"
	"github.com/cmacnab/smstrace/pkg/parser"
)

// ExitCode is set by commands to indicate the result.
var ExitCode = 0

// commonOptions are shared by the batch-running commands.
type commonOptions struct {
	ConfigPath     string
	Since          string
	TailPercentile float64
	Output         string
	Verbose        bool
	Quiet          bool
}

// loadConfig loads the config file if given, otherwise defaults, and applies
// flag overrides.
func loadConfig(ctx context.Context, opts *commonOptions) (*config.Config, error) {
	var cfg *config.Config
	if opts.ConfigPath != "" {
		loaded, err := config.Load(ctx, opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	if opts.Since != "" {
		if _, err := time.Parse("2006-01-02", opts.Since); err != nil {
			return nil, fmt.Errorf("invalid --since %q: %w", opts.Since, err)
		}
		cfg.CutoffDate = opts.Since
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	if opts.TailPercentile != 0 {
		cfg.TailPercentile = opts.TailPercentile
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// runBatch discovers the log files and runs the full parse/correlate pass.
func runBatch(ctx context.Context, cfg *config.Config, logDir string) (*correlate.Batch, error) {
	files, err := parser.DiscoverFiles(logDir, cfg.Cutoff())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no gateway log files found in %s", logDir)
	}

	batch, err := correlate.Run(ctx, files, cfg.Parallelism)
	if err != nil {
		return nil, fmt.Errorf("processing logs: %w", err)
	}
	return batch, nil
}

func createFormatter(opts *commonOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text", "":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}
