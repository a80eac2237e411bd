// Package detector checks whether files look like gateway event logs by
// sampling lines and measuring how many parse as gateway records.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/cmacnab/smstrace/pkg/parser"
)

// Result holds the detection outcome for one file.
type Result struct {
	// File is the path examined.
	File string

	// SampledLines is the number of non-empty lines examined.
	SampledLines int

	// ParsedLines is the number of lines that parsed as gateway records.
	ParsedLines int

	// Confidence is ParsedLines / SampledLines (0.0 to 1.0).
	Confidence float64

	// SampleError describes the first parse failure, useful when a
	// directory was pointed at the wrong logs.
	SampleError string
}

// IsGatewayLog reports whether the file is confidently a gateway log.
func (r *Result) IsGatewayLog() bool {
	return r.SampledLines > 0 && r.Confidence >= 0.9
}

// Detector samples log files to decide whether they are gateway event logs.
type Detector struct {
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector.
func New(opts ...Option) *Detector {
	d := &Detector{sampleSize: 100}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect samples up to sampleSize non-empty lines from the file and reports
// how many parse as gateway records.
func (d *Detector) Detect(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	result := &Result{File: path}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() && result.SampledLines < d.sampleSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lineNum++
		_, reject := parser.Parse(scanner.Text(), path, lineNum)
		if reject != nil {
			if reject.Reason == parser.RejectEmptyLine {
				continue
			}
			result.SampledLines++
			if result.SampleError == "" {
				result.SampleError = reject.Err.Error()
			}
			continue
		}
		result.SampledLines++
		result.ParsedLines++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if result.SampledLines > 0 {
		result.Confidence = float64(result.ParsedLines) / float64(result.SampledLines)
	}
	return result, nil
}
