// Package parser turns raw gateway log lines into structured events.
package parser

import "time"

// Well-known event types emitted by the gateway. The EventType field is an
// open enum: values outside this set are retained as-is, never dropped.
const (
	EventSendAttempt    = "SendAttempt"
	EventSendSuccess    = "SendSuccess"
	EventMessageSent    = "MessageSent"
	EventDeliveryStatus = "DeliveryStatus"
)

// Event is the structured form of a single gateway log line.
type Event struct {
	// Timestamp is the zoned point in time the gateway recorded.
	Timestamp time.Time

	// EventType is the gateway's event classification (open enum).
	EventType string

	// MessageId is the entity key. Empty on some SendAttempt records.
	MessageId string

	// Details is the free-text payload. Sub-fields (phone, delivery time,
	// status word) are extracted by ExtractFields, never re-parsed elsewhere.
	Details string

	// Level and Provider are optional classification fields.
	Level    string
	Provider string

	// SourceFile and LineNum record provenance for traceability.
	SourceFile string
	LineNum    int

	// Fields holds the sub-fields extracted from Details.
	Fields Fields

	// BoundPhone and BoundMessage are filled by the correlation engine when a
	// pending SendAttempt is bound to this SendSuccess event.
	BoundPhone   string
	BoundMessage string
}

// RejectReason categorizes why a line was rejected.
type RejectReason string

const (
	// RejectEmptyLine indicates an empty or whitespace-only line.
	RejectEmptyLine RejectReason = "empty_line"

	// RejectMalformedRecord indicates the line was not valid JSON.
	RejectMalformedRecord RejectReason = "malformed_record"

	// RejectMissingTimestamp indicates a missing or unparsable Timestamp field.
	RejectMissingTimestamp RejectReason = "missing_timestamp"
)

// Reject describes a line that could not be parsed. Rejects are counted per
// file and reported; they never abort the batch.
type Reject struct {
	Reason     RejectReason
	SourceFile string
	LineNum    int
	Err        error
}

// Fields holds sub-fields extracted from a Details string. Each value is
// paired with a presence flag; absence is an explicit state, not an error.
type Fields struct {
	Phone    string
	HasPhone bool

	// DeliverySeconds is the reported delivery duration in seconds.
	DeliverySeconds    float64
	HasDeliverySeconds bool

	Message    string
	HasMessage bool

	// Status is the extracted status word (Delivered, Failed, or other).
	Status    string
	HasStatus bool
}
