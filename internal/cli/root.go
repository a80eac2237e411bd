// Package cli provides the command-line interface for smstrace.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmacnab/smstrace/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smstrace",
		Short: "Analyze SMS gateway logs",
		Long: `smstrace is a batch analysis tool for SMS gateway event logs.

It reconstructs each outbound message's lifecycle from the gateway's
JSON-lines log files and reports:
  - Delivery time distribution and slow-delivery tail
  - Terminal outcomes (Delivered / Failed / Gave up trying / Unknown)
  - Messages sent without delivery confirmation
  - Consecutive outcome clusters and daily reminder coverage`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewSummaryCommand())
	rootCmd.AddCommand(commands.NewSaveCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
