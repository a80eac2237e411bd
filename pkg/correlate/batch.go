package correlate

import (
	"context"

	"github.com/cmacnab/smstrace/pkg/parser"
)

// Batch is the result of one full pass over a closed set of log files.
type Batch struct {
	// Files holds per-file parse results, including reject tallies, in
	// canonical file order.
	Files []*parser.FileResult

	// Events is the flattened event stream in canonical order (file name,
	// then line number). The aggregator reads raw events from here for the
	// analyses that are not lifecycle-based (delivery times, timeouts,
	// errors).
	Events []*parser.Event

	// Lifecycles are the reconstructed per-message records, in first-seen
	// entity order.
	Lifecycles []*Lifecycle
}

// Run parses the given files (optionally in parallel), feeds the events
// through the correlation engine in canonical order, and materializes
// lifecycles. The files slice must already be in canonical order; parallel
// parse results are merged back into that order before correlation, which is
// strictly sequential.
func Run(ctx context.Context, files []string, parallelism int) (*Batch, error) {
	results, err := parser.ReadFiles(ctx, files, parallelism)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Files: results}
	state := NewState()

	for _, fr := range results {
		for _, event := range fr.Events {
			state.Observe(event)
			batch.Events = append(batch.Events, event)
		}
	}

	lifecycles, err := state.Lifecycles()
	if err != nil {
		return nil, err
	}
	batch.Lifecycles = lifecycles

	return batch, nil
}

// TotalRejects sums rejected lines across all files.
func (b *Batch) TotalRejects() int {
	total := 0
	for _, f := range b.Files {
		total += f.Rejects.Total
	}
	return total
}
