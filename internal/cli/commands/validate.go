package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmacnab/smstrace/pkg/config"
	"github.com/cmacnab/smstrace/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an smstrace configuration file without running analysis.

Checks:
  - YAML syntax
  - Scalar option ranges (percentile, sample sizes, parallelism)
  - Cutoff date and reminder window formats
  - Log directory existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return err
	}

	fmt.Println("Configuration is valid")
	fmt.Printf("  tail percentile: %.1f\n", cfg.TailPercentile)
	fmt.Printf("  reminder window: %s-%s\n", cfg.ReminderWindow.Start, cfg.ReminderWindow.End)
	if cfg.CutoffDate != "" {
		fmt.Printf("  cutoff date: %s\n", cfg.CutoffDate)
	}

	if cfg.LogDir != "" {
		files, err := parser.DiscoverFiles(cfg.LogDir, cfg.Cutoff())
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Warning: log_dir: %v\n", err)
		case len(files) == 0:
			fmt.Fprintf(os.Stderr, "Warning: no gateway log files found in %s\n", cfg.LogDir)
		default:
			fmt.Printf("  log files found: %d\n", len(files))
		}
	}

	return nil
}
