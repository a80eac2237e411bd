package correlate

import (
	"errors"
	"testing"
	"time"

	"github.com/cmacnab/smstrace/pkg/parser"
)

func buildState(events ...*parser.Event) *State {
	state := NewState()
	for _, e := range events {
		state.Observe(e)
	}
	return state
}

// Full scenario: a key-less attempt, a keyed success one second later, a
// delivered status two seconds after that. One lifecycle: Delivered, 3s
// duration, with the attempt's phone and message carried over.
func TestLifecycles_AttemptSuccessDelivered(t *testing.T) {
	state := buildState(
		newEvent(parser.EventSendAttempt, "",
			"PhoneNumber: +6421000000, Message: TWO WEEKS reminder", testBase, "a.log", 1),
		newEvent(parser.EventSendSuccess, "M1", "", testBase.Add(time.Second), "a.log", 2),
		newEvent(parser.EventDeliveryStatus, "M1",
			"Status: Delivered, Delivery Time: 2.5", testBase.Add(3*time.Second), "a.log", 3),
	)

	lifecycles, err := state.Lifecycles()
	if err != nil {
		t.Fatalf("Lifecycles() error = %v", err)
	}
	if len(lifecycles) != 1 {
		t.Fatalf("got %d lifecycles, want 1", len(lifecycles))
	}

	lc := lifecycles[0]
	if lc.MessageId != "M1" {
		t.Errorf("MessageId = %q, want M1", lc.MessageId)
	}
	if lc.Outcome != OutcomeDelivered {
		t.Errorf("Outcome = %q, want %q", lc.Outcome, OutcomeDelivered)
	}
	if lc.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", lc.Duration)
	}
	if lc.Phone != "+6421000000" {
		t.Errorf("Phone = %q, want +6421000000", lc.Phone)
	}
	if lc.Message != "TWO WEEKS reminder" {
		t.Errorf("Message = %q, want carried-over reminder text", lc.Message)
	}
}

// Delivered beats Failed even when both status events exist for the same
// entity, in any arrival order. First-in-precedence wins, not last-write.
func TestLifecycles_OutcomePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		details []string
		want    Outcome
	}{
		{"failed then delivered", []string{"Status: Failed", "Status: Delivered"}, OutcomeDelivered},
		{"delivered then failed", []string{"Status: Delivered", "Status: Failed"}, OutcomeDelivered},
		{"failed only", []string{"Status: Failed"}, OutcomeFailed},
		{"no status events", nil, OutcomeGaveUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []*parser.Event{
				newEvent(parser.EventSendSuccess, "M1", "", testBase, "a.log", 1),
			}
			for i, d := range tt.details {
				events = append(events, newEvent(parser.EventDeliveryStatus, "M1", d,
					testBase.Add(time.Duration(i+1)*time.Second), "a.log", i+2))
			}

			lifecycles, err := buildState(events...).Lifecycles()
			if err != nil {
				t.Fatalf("Lifecycles() error = %v", err)
			}
			if lifecycles[0].Outcome != tt.want {
				t.Errorf("Outcome = %q, want %q", lifecycles[0].Outcome, tt.want)
			}
		})
	}
}

// A delivered marker only counts on DeliveryStatus events.
func TestLifecycles_MarkerOnWrongTypeIgnored(t *testing.T) {
	state := buildState(
		newEvent(parser.EventSendSuccess, "M1", "queued; will be Delivered later", testBase, "a.log", 1),
	)

	lifecycles, err := state.Lifecycles()
	if err != nil {
		t.Fatalf("Lifecycles() error = %v", err)
	}
	if lifecycles[0].Outcome != OutcomeGaveUp {
		t.Errorf("Outcome = %q, want %q", lifecycles[0].Outcome, OutcomeGaveUp)
	}
}

// Entities never seen with a sent-type event are incidental and do not
// become lifecycles.
func TestLifecycles_IncidentalEntitiesSkipped(t *testing.T) {
	state := buildState(
		newEvent(parser.EventDeliveryStatus, "STRAY", "Status: Delivered", testBase, "a.log", 1),
		newEvent(parser.EventSendSuccess, "M1", "", testBase.Add(time.Second), "a.log", 2),
	)

	lifecycles, err := state.Lifecycles()
	if err != nil {
		t.Fatalf("Lifecycles() error = %v", err)
	}
	if len(lifecycles) != 1 || lifecycles[0].MessageId != "M1" {
		t.Errorf("lifecycles = %v, want only M1", lifecycles)
	}
}

func TestLifecycles_EventsSortedWithProvenanceTiebreak(t *testing.T) {
	// Same timestamp in two files; file order breaks the tie.
	at := testBase
	state := buildState(
		newEvent(parser.EventSendSuccess, "M1", "", at, "b.log", 1),
		newEvent(parser.EventDeliveryStatus, "M1", "Status: Delivered", at, "a.log", 5),
	)

	lifecycles, err := state.Lifecycles()
	if err != nil {
		t.Fatalf("Lifecycles() error = %v", err)
	}

	events := lifecycles[0].Events
	if events[0].SourceFile != "a.log" || events[1].SourceFile != "b.log" {
		t.Errorf("tie-break order = %s, %s; want a.log, b.log",
			events[0].SourceFile, events[1].SourceFile)
	}
	if lifecycles[0].Duration != 0 {
		t.Errorf("Duration = %v, want 0 for identical timestamps", lifecycles[0].Duration)
	}
}

func TestLifecycles_SingleEventZeroDuration(t *testing.T) {
	state := buildState(newEvent(parser.EventSendAttempt, "M1", "", testBase, "a.log", 1))

	lifecycles, err := state.Lifecycles()
	if err != nil {
		t.Fatalf("Lifecycles() error = %v", err)
	}
	lc := lifecycles[0]
	if lc.Duration != 0 {
		t.Errorf("Duration = %v, want 0", lc.Duration)
	}
	if !lc.FirstTime.Equal(lc.LastTime) {
		t.Error("FirstTime != LastTime for single-event lifecycle")
	}
}

// An entity with zero resolvable timestamps violates the upstream contract
// and must abort the batch, not silently vanish.
func TestLifecycles_IncompleteLifecycleFatal(t *testing.T) {
	state := NewState()
	// Bypass Observe to simulate an upstream violation: the parser normally
	// guarantees timestamps.
	state.groups["M1"] = []*parser.Event{
		{EventType: parser.EventSendSuccess, MessageId: "M1"},
	}
	state.order = append(state.order, "M1")

	_, err := state.Lifecycles()
	if err == nil {
		t.Fatal("Lifecycles() error = nil, want IncompleteLifecycleError")
	}
	var incomplete *IncompleteLifecycleError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error = %v, want IncompleteLifecycleError", err)
	}
	if incomplete.MessageId != "M1" {
		t.Errorf("MessageId = %q, want M1", incomplete.MessageId)
	}
}

func TestLifecycles_FirstSeenEntityOrder(t *testing.T) {
	state := buildState(
		newEvent(parser.EventSendSuccess, "ZZZ", "", testBase, "a.log", 1),
		newEvent(parser.EventSendSuccess, "AAA", "", testBase.Add(time.Second), "a.log", 2),
	)

	lifecycles, err := state.Lifecycles()
	if err != nil {
		t.Fatalf("Lifecycles() error = %v", err)
	}
	if lifecycles[0].MessageId != "ZZZ" || lifecycles[1].MessageId != "AAA" {
		t.Errorf("order = %s, %s; want first-seen ZZZ, AAA",
			lifecycles[0].MessageId, lifecycles[1].MessageId)
	}
}
