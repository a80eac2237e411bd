package parser

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// RejectCounts tallies rejected lines for one file.
type RejectCounts struct {
	ByReason map[RejectReason]int
	Total    int
}

func (c *RejectCounts) add(r *Reject) {
	if c.ByReason == nil {
		c.ByReason = make(map[RejectReason]int)
	}
	c.ByReason[r.Reason]++
	c.Total++
}

// FileResult holds the parsed events and reject tally for one file, in line
// order.
type FileResult struct {
	File    string
	Events  []*Event
	Rejects RejectCounts
}

// ReadFile parses every line of one gateway log file. Unparsable lines are
// counted, not fatal; only I/O failures return an error.
func ReadFile(ctx context.Context, path string) (*FileResult, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	result := &FileResult{File: path}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	lineNum := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lineNum++
		event, reject := Parse(scanner.Text(), path, lineNum)
		if reject != nil {
			result.Rejects.add(reject)
			continue
		}
		result.Events = append(result.Events, event)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return result, nil
}

// ReadFiles parses the given files concurrently. Parsing is a pure function
// per file, so files can be read in parallel; results are returned in the
// order of the files argument, which is the canonical order the correlation
// pass consumes them in.
func ReadFiles(ctx context.Context, files []string, parallelism int) ([]*FileResult, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]*FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			r, err := ReadFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
