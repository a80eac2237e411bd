// Package report computes aggregate analyses over reconstructed lifecycles
// and the raw event stream. All results are in-memory structs; rendering is
// the output package's job.
package report

import (
	"time"

	"github.com/cmacnab/smstrace/pkg/correlate"
)

// FileSummary reports per-file parse totals so silent data loss is
// observable in every run.
type FileSummary struct {
	File     string `json:"file"`
	Events   int    `json:"events"`
	Rejected int    `json:"rejected"`
}

// DeliveryRecord is one confirmed delivery with its reported timing.
type DeliveryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	MessageId string    `json:"message_id"`
	Phone     string    `json:"phone"`
	Seconds   float64   `json:"seconds"`
}

// DeliveryStats describes the delivery-time distribution.
type DeliveryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`

	Histogram []HistogramBucket `json:"histogram"`

	ByHour []GroupStats `json:"by_hour"`
	ByDate []GroupStats `json:"by_date"`
}

// HistogramBucket is one fixed-boundary bucket of the delivery-time
// distribution. Lower bound inclusive, upper bound exclusive.
type HistogramBucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// GroupStats holds distribution statistics for one grouping key (an hour of
// day or a calendar date).
type GroupStats struct {
	Key    string  `json:"key"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// TailReport describes the slow end of the delivery-time distribution.
type TailReport struct {
	// Percentile is the configured threshold percentile.
	Percentile float64 `json:"percentile"`

	// Threshold is the delivery-time value at that percentile.
	Threshold float64 `json:"threshold"`

	Count        int     `json:"count"`
	PercentTotal float64 `json:"percent_of_total"`

	// ByHour and ByDate report the tail share of each bucket's own total,
	// not of the global total.
	ByHour []TailBucket `json:"by_hour"`
	ByDate []TailBucket `json:"by_date"`

	// SlowPhones lists phone numbers with more than one slow delivery.
	SlowPhones []SlowPhone `json:"slow_phones"`
}

// TailBucket is one hour or date bucket of the tail analysis.
type TailBucket struct {
	Key   string `json:"key"`
	Tail  int    `json:"tail"`
	Total int    `json:"total"`

	// Share is 100 * Tail / Total for this bucket.
	Share float64 `json:"share"`
}

// SlowPhone is a phone number with repeated slow deliveries.
type SlowPhone struct {
	Phone         string  `json:"phone"`
	Count         int     `json:"count"`
	PercentOfTail float64 `json:"percent_of_tail"`
	AvgSeconds    float64 `json:"avg_seconds"`
}

// MissingReport lists messages sent without delivery confirmation.
type MissingReport struct {
	Sent      int     `json:"sent"`
	Delivered int     `json:"delivered"`
	Missing   int     `json:"missing"`
	Percent   float64 `json:"percent"`

	// Sample is a bounded selection of missing messages for inspection.
	Sample []MissingMessage `json:"sample"`
}

// MissingMessage identifies one sent-but-unconfirmed message.
type MissingMessage struct {
	MessageId string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
	Phone     string    `json:"phone"`
	File      string    `json:"file"`
}

// OutcomeCount is one terminal outcome with its frequency.
type OutcomeCount struct {
	Outcome correlate.Outcome `json:"outcome"`
	Count   int               `json:"count"`
	Percent float64           `json:"percent"`
}

// Run is a maximal consecutive sequence of lifecycles sharing one binarized
// class, ordered by first event time.
type Run struct {
	// Class is "Sent" (Delivered or Failed) or "Gave up trying".
	Class string `json:"class"`

	Size       int       `json:"size"`
	AvgSeconds float64   `json:"avg_seconds"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// GaveUpContext classifies each gave-up lifecycle by its neighbours.
type GaveUpContext struct {
	Inside   int `json:"inside"`
	Starts   int `json:"starts"`
	Ends     int `json:"ends"`
	Isolated int `json:"isolated"`
}

// ReminderDay is one calendar date's reminder counts. Dates with no matching
// lifecycles still appear with zero counts.
type ReminderDay struct {
	Date     string `json:"date"`
	TwoWeek  int    `json:"two_week"`
	OneWeek  int    `json:"one_week"`
	NextDay  int    `json:"next_day"`
	Birthday int    `json:"birthday"`
	Unknown  int    `json:"unknown"`

	// ProblemDay is set when all non-unknown categories are zero.
	ProblemDay bool `json:"problem_day"`
}

// IncidentReport summarizes timeout or error events.
type IncidentReport struct {
	Count       int            `json:"count"`
	ByLevel     []KeyCount     `json:"by_level,omitempty"`
	ByProvider  []KeyCount     `json:"by_provider"`
	ByEventType []KeyCount     `json:"by_event_type,omitempty"`
	ByHour      []KeyCount     `json:"by_hour"`
	ByDate      []KeyCount     `json:"by_date,omitempty"`
	Sample      []IncidentLine `json:"sample"`
}

// KeyCount is a grouping key with its count and percentage of the report
// total.
type KeyCount struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// IncidentLine is one sampled timeout or error event.
type IncidentLine struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level,omitempty"`
	EventType string    `json:"event_type,omitempty"`
	Details   string    `json:"details"`
}

// Report is the complete analysis output for one batch.
type Report struct {
	GeneratedFrom []FileSummary `json:"files"`
	TotalEvents   int           `json:"total_events"`
	TotalRejected int           `json:"total_rejected"`

	Deliveries *DeliveryStats `json:"deliveries,omitempty"`
	Tail       *TailReport    `json:"tail,omitempty"`
	Missing    *MissingReport `json:"missing,omitempty"`
	Timeouts   *IncidentReport `json:"timeouts,omitempty"`
	Errors     *IncidentReport `json:"errors,omitempty"`

	Outcomes  []OutcomeCount `json:"outcomes,omitempty"`
	Runs      []Run          `json:"runs,omitempty"`
	GaveUp    *GaveUpContext `json:"gave_up_context,omitempty"`
	Reminders []ReminderDay  `json:"reminders,omitempty"`

	// Summaries is the per-message lifecycle table.
	Summaries []MessageSummary `json:"summaries,omitempty"`
}

// MessageSummary is the flattened lifecycle row used by CSV export and the
// SQLite store.
type MessageSummary struct {
	MessageId string            `json:"message_id"`
	FirstTime time.Time         `json:"first_time"`
	LastTime  time.Time         `json:"last_time"`
	Seconds   float64           `json:"duration_seconds"`
	Phone     string            `json:"phone"`
	Message   string            `json:"message"`
	Outcome   correlate.Outcome `json:"outcome"`
}
