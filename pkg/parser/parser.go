package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the reject taxonomy.
var (
	ErrEmptyLine        = errors.New("empty line")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrMissingTimestamp = errors.New("missing or unparsable timestamp")
)

// rawRecord mirrors the JSON shape the gateway writes, one record per line.
// All fields are decoded once here; downstream code never re-parses JSON.
type rawRecord struct {
	Timestamp string `json:"Timestamp"`
	Level     string `json:"Level"`
	Provider  string `json:"Provider"`
	EventType string `json:"EventType"`
	MessageId string `json:"MessageId"`
	Details   string `json:"Details"`
}

// Parse converts one raw log line into an Event or a tagged Reject.
// Exactly one of the return values is non-nil. Parse never panics and never
// aborts the batch: malformed input is the caller's to count and report.
func Parse(raw string, sourceFile string, lineNum int) (*Event, *Reject) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &Reject{
			Reason:     RejectEmptyLine,
			SourceFile: sourceFile,
			LineNum:    lineNum,
			Err:        ErrEmptyLine,
		}
	}

	var rec rawRecord
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return nil, &Reject{
			Reason:     RejectMalformedRecord,
			SourceFile: sourceFile,
			LineNum:    lineNum,
			Err:        fmt.Errorf("%w: %v", ErrMalformedRecord, err),
		}
	}

	if rec.Timestamp == "" {
		return nil, &Reject{
			Reason:     RejectMissingTimestamp,
			SourceFile: sourceFile,
			LineNum:    lineNum,
			Err:        ErrMissingTimestamp,
		}
	}

	ts, err := ParseTimestamp(rec.Timestamp)
	if err != nil {
		return nil, &Reject{
			Reason:     RejectMissingTimestamp,
			SourceFile: sourceFile,
			LineNum:    lineNum,
			Err:        fmt.Errorf("%w: %v", ErrMissingTimestamp, err),
		}
	}

	return &Event{
		Timestamp:  ts,
		EventType:  rec.EventType,
		MessageId:  rec.MessageId,
		Details:    rec.Details,
		Level:      rec.Level,
		Provider:   rec.Provider,
		SourceFile: sourceFile,
		LineNum:    lineNum,
		Fields:     ExtractFields(rec.Details),
	}, nil
}

// ParseTimestamp parses a gateway timestamp string. The offset is preserved,
// never truncated. The gateway is known to sometimes double-encode the zone
// offset ("...+13:00+13:00"); the redundant suffix is stripped once and the
// string reparsed. A string that still fails is an error, never defaulted to
// now or epoch.
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return ts, nil
	}

	if stripped, ok := stripRedundantOffset(s); ok {
		if ts, err2 := time.Parse(time.RFC3339Nano, stripped); err2 == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
}

// stripRedundantOffset removes a trailing "+hh:mm"/"-hh:mm" offset when
// another offset (or Z) immediately precedes it. Returns the shortened
// string and true only in that case; a lone offset is left alone.
func stripRedundantOffset(s string) (string, bool) {
	if len(s) < 6 {
		return s, false
	}
	tail := s[len(s)-6:]
	if (tail[0] != '+' && tail[0] != '-') || tail[3] != ':' {
		return s, false
	}
	for _, i := range []int{1, 2, 4, 5} {
		if tail[i] < '0' || tail[i] > '9' {
			return s, false
		}
	}
	head := s[:len(s)-6]
	if strings.HasSuffix(head, "Z") {
		return head, true
	}
	if len(head) >= 6 {
		prev := head[len(head)-6:]
		if (prev[0] == '+' || prev[0] == '-') && prev[3] == ':' {
			return head, true
		}
	}
	return s, false
}
