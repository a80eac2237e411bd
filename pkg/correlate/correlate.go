package correlate

import (
	"github.com/cmacnab/smstrace/pkg/parser"
)

// State is the correlation engine's working state for one batch. It is an
// owned value, created by NewState and discarded after lifecycles are
// materialized; nothing else mutates it.
//
// The pending-attempt slot is single and global across the whole ordered
// event stream, not scoped per entity. An attempt for message A immediately
// followed by a success for unrelated message B binds to B. That is the
// historical behavior the reports are defined against, and it is preserved
// exactly rather than replaced with a stricter correlation.
type State struct {
	// pending is the unbound SendAttempt awaiting the next SendSuccess.
	// At most one is outstanding.
	pending *parser.Event

	// groups accumulates events per MessageId.
	groups map[string][]*parser.Event

	// order records first-seen order of MessageIds so downstream iteration
	// is deterministic without depending on map order.
	order []string
}

// NewState creates an empty correlation state for one batch.
func NewState() *State {
	return &State{groups: make(map[string][]*parser.Event)}
}

// Observe feeds one event through the correlation state machine. Events must
// arrive in the canonical order: files sorted by name, lines in file order.
func (s *State) Observe(event *parser.Event) {
	switch {
	case event.EventType == parser.EventSendAttempt:
		// A new attempt replaces any outstanding one. The replaced attempt
		// is discarded unbound and never gets its phone/message attached.
		// Deliberate lossy single-slot policy, not a bug.
		s.pending = event

	case event.EventType == parser.EventSendSuccess && event.MessageId != "":
		if s.pending != nil {
			event.BoundPhone = s.pending.Fields.Phone
			event.BoundMessage = s.pending.Fields.Message
			s.pending = nil
		}
	}

	// Every keyed event accumulates under its entity, regardless of type and
	// regardless of the slot state.
	if event.MessageId != "" {
		if _, seen := s.groups[event.MessageId]; !seen {
			s.order = append(s.order, event.MessageId)
		}
		s.groups[event.MessageId] = append(s.groups[event.MessageId], event)
	}
}

// Pending returns the outstanding unbound attempt, if any. Exposed for tests.
func (s *State) Pending() *parser.Event {
	return s.pending
}

// Groups returns the number of distinct entities observed so far.
func (s *State) Groups() int {
	return len(s.groups)
}
