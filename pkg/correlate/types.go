// Package correlate reconstructs per-message lifecycles from gateway events.
package correlate

import (
	"fmt"
	"time"

	"github.com/cmacnab/smstrace/pkg/parser"
)

// Outcome is the terminal classification of a lifecycle.
type Outcome string

const (
	// OutcomeDelivered means a delivery status event confirmed delivery.
	OutcomeDelivered Outcome = "Delivered"

	// OutcomeFailed means a delivery status event reported failure.
	OutcomeFailed Outcome = "Failed"

	// OutcomeGaveUp means the message was sent but no terminal delivery
	// signal ever arrived.
	OutcomeGaveUp Outcome = "Gave up trying"

	// OutcomeUnknown is a valid terminal state, not an error.
	OutcomeUnknown Outcome = "Unknown"
)

// Lifecycle is the reconstructed record for one outbound message.
type Lifecycle struct {
	// MessageId is the entity key, unique within a batch.
	MessageId string

	// Events is the correlated event sequence, sorted by timestamp with ties
	// broken by (file, line) provenance for determinism.
	Events []*parser.Event

	FirstTime time.Time
	LastTime  time.Time

	// Duration is LastTime - FirstTime; zero when only one event exists.
	Duration time.Duration

	// Phone and Message are best-effort fields copied from the SendSuccess
	// event's bound attempt extraction.
	Phone   string
	Message string

	Outcome Outcome
}

// HasEventType reports whether any correlated event has the given type.
func (l *Lifecycle) HasEventType(eventType string) bool {
	for _, e := range l.Events {
		if e.EventType == eventType {
			return true
		}
	}
	return false
}

// IncompleteLifecycleError reports an entity with zero resolvable timestamps
// after grouping. This signals an upstream data contract violation and aborts
// the batch; it is never silently dropped.
type IncompleteLifecycleError struct {
	MessageId string
}

func (e *IncompleteLifecycleError) Error() string {
	return fmt.Sprintf("no valid timestamps found for MessageId %s", e.MessageId)
}
