package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmacnab/smstrace/pkg/report"
	"github.com/cmacnab/smstrace/pkg/store"
)

// SaveOptions holds command-line options for the save command.
type SaveOptions struct {
	commonOptions
	DBPath string
}

// NewSaveCommand creates the save command.
func NewSaveCommand() *cobra.Command {
	opts := &SaveOptions{}

	cmd := &cobra.Command{
		Use:   "save <log-dir>",
		Short: "Persist batch report tables into a SQLite database",
		Long: `Run the full batch analysis and persist the message summary, cluster,
daily reminder, and missing-delivery tables into a SQLite database.
Existing table contents are replaced, so re-running is idempotent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (YAML)")
	cmd.Flags().StringVar(&opts.Since, "since", "", "Ignore log files dated before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "smstrace.db", "SQLite database path")

	return cmd
}

func runSave(cmd *cobra.Command, args []string, opts *SaveOptions) error {
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

	rep := report.Build(batch, reportOpts)

	db, err := store.Open(ctx, opts.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveReport(ctx, rep); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Saved %d lifecycles, %d clusters, %d reminder days to %s\n",
		len(rep.Summaries), len(rep.Runs), len(rep.Reminders), opts.DBPath)
	return nil
}
