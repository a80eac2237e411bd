package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmacnab/smstrace/pkg/output"
	"github.com/cmacnab/smstrace/pkg/report"
	"github.com/cmacnab/smstrace/pkg/webhook"
)

// SummaryOptions holds command-line options for the summary command.
type SummaryOptions struct {
	commonOptions
	CSVDir       string
	WebhookURL   string
	WebhookToken string
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	opts := &SummaryOptions{}

	cmd := &cobra.Command{
		Use:   "summary <log-dir>",
		Short: "Reconstruct lifecycles and summarize outcomes",
		Long: `Reconstruct each outbound message's lifecycle and report:

  - Outcome counts and percentages
  - Consecutive outcome clusters (run-length over Sent vs Gave up trying)
  - Gave-up streak context
  - Daily reminder summary with problem-day flags

Exit codes:
  0 - No problem days
  1 - Problem days found
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (YAML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Since, "since", "", "Ignore log files dated before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.CSVDir, "csv-dir", "", "Write CSV tables into this directory")
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "POST the JSON report to this endpoint")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include per-file detail")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runSummary(cmd *cobra.Command, args []string, opts *SummaryOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, &opts.commonOptions)
	if err != nil {
		return err
	}

	batch, err := runBatch(ctx, cfg, args[0])
	if err != nil {
		return err
	}

	reportOpts := report.DefaultOptions()
	reportOpts.Window = cfg.Window()
	reportOpts.MissingSample = cfg.MissingSample
	reportOpts.Deliveries = false

	rep := report.Build(batch, reportOpts)

	formatter, err := createFormatter(&opts.commonOptions)
	if err != nil {
		return err
	}
	if err := formatter.Format(ctx, rep, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if opts.CSVDir != "" {
		written, err := output.WriteCSVs(rep, opts.CSVDir)
		if err != nil {
			return fmt.Errorf("writing CSV tables: %w", err)
		}
		for _, path := range written {
			fmt.Fprintf(os.Stderr, "Saved %s\n", path)
		}
	}

	// Webhook failures are reported but don't fail the run.
	if opts.WebhookURL != "" {
		resp := webhook.NewClient().Send(ctx, rep, webhook.SendOptions{
			URL:   opts.WebhookURL,
			Token: opts.WebhookToken,
		})
		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook: sent (%d, %s)\n", resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook: failed (%v)\n", resp.Error)
		}
	}

	for _, day := range rep.Reminders {
		if day.ProblemDay {
			ExitCode = 1
			break
		}
	}
	return nil
}
