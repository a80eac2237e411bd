package correlate

import (
	"sort"

	"github.com/cmacnab/smstrace/pkg/parser"
)

// sentTypes are the event types that mark an entity as an outbound message.
// Entities never seen with one of these are incidental and are not promoted
// to a lifecycle.
var sentTypes = []string{
	parser.EventSendAttempt,
	parser.EventSendSuccess,
	parser.EventMessageSent,
}

// Lifecycles materializes one Lifecycle per qualifying entity from the
// accumulated correlation state, in first-seen entity order.
//
// An entity with zero resolvable timestamps is a batch-fatal
// IncompleteLifecycleError: the parser guarantees timestamps on every event,
// so hitting it means the upstream data contract was violated and a partial
// report would be wrong.
func (s *State) Lifecycles() ([]*Lifecycle, error) {
	lifecycles := make([]*Lifecycle, 0, len(s.order))

	for _, id := range s.order {
		events := s.groups[id]

		if !containsSentType(events) {
			continue
		}

		lc, err := buildLifecycle(id, events)
		if err != nil {
			return nil, err
		}
		lifecycles = append(lifecycles, lc)
	}

	return lifecycles, nil
}

func containsSentType(events []*parser.Event) bool {
	for _, e := range events {
		for _, t := range sentTypes {
			if e.EventType == t {
				return true
			}
		}
	}
	return false
}

func buildLifecycle(id string, events []*parser.Event) (*Lifecycle, error) {
	valid := make([]*parser.Event, 0, len(events))
	for _, e := range events {
		if !e.Timestamp.IsZero() {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		return nil, &IncompleteLifecycleError{MessageId: id}
	}

	// Chronological order, ties broken by provenance so repeated runs over
	// the same input produce identical sequences.
	sort.SliceStable(valid, func(i, j int) bool {
		a, b := valid[i], valid[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.SourceFile != b.SourceFile {
			return a.SourceFile < b.SourceFile
		}
		return a.LineNum < b.LineNum
	})

	lc := &Lifecycle{
		MessageId: id,
		Events:    valid,
		FirstTime: valid[0].Timestamp,
		LastTime:  valid[len(valid)-1].Timestamp,
	}
	lc.Duration = lc.LastTime.Sub(lc.FirstTime)

	for _, e := range valid {
		if e.EventType == parser.EventSendSuccess {
			lc.Phone = e.BoundPhone
			lc.Message = e.BoundMessage
			break
		}
	}

	lc.Outcome = classifyOutcome(valid)
	return lc, nil
}

// classifyOutcome applies the fixed outcome precedence. First match wins:
// a Delivered marker beats a Failed marker beats GaveUp beats Unknown, even
// when conflicting delivery status events exist for the same entity.
func classifyOutcome(events []*parser.Event) Outcome {
	for _, e := range events {
		if e.EventType == parser.EventDeliveryStatus && parser.HasDeliveredMarker(e.Details) {
			return OutcomeDelivered
		}
	}
	for _, e := range events {
		if e.EventType == parser.EventDeliveryStatus && parser.HasFailedMarker(e.Details) {
			return OutcomeFailed
		}
	}
	for _, e := range events {
		if e.EventType == parser.EventSendSuccess || e.EventType == parser.EventSendAttempt {
			return OutcomeGaveUp
		}
	}
	return OutcomeUnknown
}
