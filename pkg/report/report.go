package report

import (
	"github.com/cmacnab/smstrace/pkg/correlate"
)

// Options controls which analyses run and their thresholds.
type Options struct {
	// TailPercentile is the slow-delivery threshold percentile.
	TailPercentile float64

	// MissingSample bounds the missing-delivery sample.
	MissingSample int

	// IncidentSample bounds the timeout/error samples.
	IncidentSample int

	// Window is the daily reminder clock window.
	Window ReminderWindow

	// Deliveries enables the distribution/tail/timeout/error/missing
	// analyses over the raw event stream.
	Deliveries bool

	// Lifecycles enables the outcome/cluster/reminder analyses over the
	// reconstructed lifecycles.
	Lifecycles bool
}

// DefaultOptions mirror the historical report settings.
func DefaultOptions() Options {
	return Options{
		TailPercentile: 95.0,
		MissingSample:  10,
		IncidentSample: 5,
		Window:         ReminderWindow{StartHour: 8, StartMinute: 15, EndHour: 8, EndMinute: 30},
		Deliveries:     true,
		Lifecycles:     true,
	}
}

// Build computes the full report for one batch.
func Build(batch *correlate.Batch, opts Options) *Report {
	r := &Report{}

	for _, f := range batch.Files {
		r.GeneratedFrom = append(r.GeneratedFrom, FileSummary{
			File:     f.File,
			Events:   len(f.Events),
			Rejected: f.Rejects.Total,
		})
		r.TotalEvents += len(f.Events)
		r.TotalRejected += f.Rejects.Total
	}

	if opts.Deliveries {
		deliveries := ExtractDeliveries(batch.Events)
		r.Deliveries = ComputeDeliveryStats(deliveries)
		r.Tail = ComputeTail(deliveries, opts.TailPercentile)
		r.Timeouts = ComputeTimeouts(batch.Events, opts.IncidentSample)
		r.Errors = ComputeErrors(batch.Events, opts.IncidentSample)
		r.Missing = ComputeMissing(batch.Lifecycles, opts.MissingSample)
	}

	if opts.Lifecycles {
		r.Outcomes = ComputeOutcomes(batch.Lifecycles)
		r.Runs = ComputeRuns(batch.Lifecycles)
		r.GaveUp = ComputeGaveUpContext(batch.Lifecycles)
		r.Reminders = ComputeReminders(batch.Lifecycles, opts.Window)
		r.Summaries = Summaries(batch.Lifecycles)
	}

	return r
}

// Summaries flattens lifecycles into the per-message table, ordered by first
// event time.
func Summaries(lifecycles []*correlate.Lifecycle) []MessageSummary {
	ordered := ByFirstTime(lifecycles)
	summaries := make([]MessageSummary, 0, len(ordered))
	for _, lc := range ordered {
		summaries = append(summaries, MessageSummary{
			MessageId: lc.MessageId,
			FirstTime: lc.FirstTime,
			LastTime:  lc.LastTime,
			Seconds:   lc.Duration.Seconds(),
			Phone:     lc.Phone,
			Message:   lc.Message,
			Outcome:   lc.Outcome,
		})
	}
	return summaries
}

// HasFindings reports whether the batch warrants a nonzero exit: missing
// deliveries or problem days.
func (r *Report) HasFindings() bool {
	if r.Missing != nil && r.Missing.Missing > 0 {
		return true
	}
	for _, day := range r.Reminders {
		if day.ProblemDay {
			return true
		}
	}
	return false
}
