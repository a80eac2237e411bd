// Package output renders batch reports as text, JSON, or CSV files.
package output

import (
	"context"
	"io"

	"github.com/cmacnab/smstrace/pkg/report"
)

// Formatter renders a report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, r *report.Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose includes per-file parse totals and full bucket tables.
	Verbose bool

	// Quiet emits a one-line summary only.
	Quiet bool
}
