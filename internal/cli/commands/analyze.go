package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmacnab/smstrace/pkg/report"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	commonOptions
	MissingSample int
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <log-dir>",
		Short: "Analyze delivery times, timeouts, errors, and missing deliveries",
		Long: `Analyze gateway log files for delivery-time patterns.

Reports:
  - Delivery time distribution (mean/median/percentiles/histogram)
  - Slow-delivery tail by hour of day and by date
  - Timeout and error events by provider and hour
  - Messages sent but missing delivery confirmation

Exit codes:
  0 - No missing deliveries
  1 - Missing deliveries found
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (YAML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Since, "since", "", "Ignore log files dated before this date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&opts.TailPercentile, "tail-percentile", 0, "Slow-delivery threshold percentile (default 95)")
	cmd.Flags().IntVar(&opts.MissingSample, "missing-sample", 0, "Max missing-delivery sample entries (default 10)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include per-file and per-bucket detail")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, &opts.commonOptions)
	if err != nil {
		return err
	}
	if opts.MissingSample > 0 {
		cfg.MissingSample = opts.MissingSample
	}

	batch, err := runBatch(ctx, cfg, args[0])
	if err != nil {
		return err
	}

	reportOpts := report.DefaultOptions()
	reportOpts.TailPercentile = cfg.TailPercentile
	reportOpts.MissingSample = cfg.MissingSample
	reportOpts.Window = cfg.Window()
	reportOpts.Lifecycles = false

	rep := report.Build(batch, reportOpts)

	formatter, err := createFormatter(&opts.commonOptions)
	if err != nil {
		return err
	}
	if err := formatter.Format(ctx, rep, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if rep.Missing != nil && rep.Missing.Missing > 0 {
		ExitCode = 1
	}
	return nil
}
