package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/cmacnab/smstrace/pkg/report"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as indented JSON.
func (f *JSONFormatter) Format(ctx context.Context, r *report.Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(struct {
			TotalEvents   int `json:"total_events"`
			TotalRejected int `json:"total_rejected"`
			Lifecycles    int `json:"lifecycles"`
		}{r.TotalEvents, r.TotalRejected, len(r.Summaries)})
	}

	return encoder.Encode(r)
}
