package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmacnab/smstrace/pkg/detector"
	"github.com/cmacnab/smstrace/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	SampleSize int
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <file-or-dir>...",
		Short: "Check whether files look like gateway event logs",
		Long: `Sample lines from candidate files and report how many parse as gateway
records. Directories are expanded using the gateway log naming convention.

Useful when pointing smstrace at a new log directory: a low confidence
means the wrong files, a changed log format, or a misconfigured gateway.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.SampleSize, "sample-size", 100, "Lines to sample per file")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("stat %s: %w", arg, err)
		}
		if info.IsDir() {
			found, err := parser.DiscoverFiles(arg, time.Time{})
			if err != nil {
				return err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, arg)
	}

	if len(files) == 0 {
		return fmt.Errorf("no candidate files found")
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	allGood := true

	for _, file := range files {
		result, err := d.Detect(ctx, file)
		if err != nil {
			return err
		}

		status := "OK"
		if !result.IsGatewayLog() {
			status = "NOT A GATEWAY LOG"
			allGood = false
		}
		fmt.Printf("%s: %s (%d/%d lines parsed, %.0f%%)\n",
			file, status, result.ParsedLines, result.SampledLines, 100*result.Confidence)
		if result.SampleError != "" && !result.IsGatewayLog() {
			fmt.Printf("  first failure: %s\n", result.SampleError)
		}
	}

	if !allGood {
		ExitCode = 1
	}
	return nil
}
