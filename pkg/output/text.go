package output

import (
	"context"
	"fmt"
	"io"

	"github.com/cmacnab/smstrace/pkg/report"
)

// TextFormatter formats reports as human-readable text, section by section,
// in the same shape as the historical reports.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, r *report.Report, w io.Writer) error {
	if f.opts.Quiet {
		fmt.Fprintf(w, "smstrace: %d events (%d rejected), %d lifecycles\n",
			r.TotalEvents, r.TotalRejected, len(r.Summaries))
		return nil
	}

	f.formatFiles(r, w)

	if r.Deliveries != nil {
		f.formatDeliveries(r.Deliveries, w)
	}
	if r.Tail != nil {
		f.formatTail(r.Tail, w)
	}
	if r.Missing != nil {
		f.formatMissing(r.Missing, w)
	}
	if r.Timeouts != nil {
		f.formatIncidents("TIMEOUT ANALYSIS", r.Timeouts, w)
	}
	if r.Errors != nil {
		f.formatIncidents("ERROR ANALYSIS", r.Errors, w)
	}
	if len(r.Outcomes) > 0 {
		f.formatOutcomes(r, w)
	}
	if len(r.Runs) > 0 {
		f.formatRuns(r.Runs, w)
	}
	if r.GaveUp != nil {
		f.formatGaveUp(r.GaveUp, w)
	}
	if len(r.Reminders) > 0 {
		f.formatReminders(r.Reminders, w)
	}

	return nil
}

func (f *TextFormatter) formatFiles(r *report.Report, w io.Writer) {
	fmt.Fprintf(w, "Processed %d file(s): %d events, %d rejected lines\n",
		len(r.GeneratedFrom), r.TotalEvents, r.TotalRejected)
	if f.opts.Verbose {
		for _, file := range r.GeneratedFrom {
			fmt.Fprintf(w, "  %s: %d events, %d rejected\n", file.File, file.Events, file.Rejected)
		}
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatDeliveries(d *report.DeliveryStats, w io.Writer) {
	fmt.Fprintln(w, "===== DELIVERY TIME ANALYSIS =====")
	fmt.Fprintf(w, "Total messages analyzed: %d\n\n", d.Count)
	fmt.Fprintf(w, "Mean delivery time: %.2f seconds\n", d.Mean)
	fmt.Fprintf(w, "Median delivery time: %.2f seconds\n", d.Median)
	fmt.Fprintf(w, "Min delivery time: %.2f seconds\n", d.Min)
	fmt.Fprintf(w, "Max delivery time: %.2f seconds\n", d.Max)
	fmt.Fprintf(w, "Standard deviation: %.2f seconds\n", d.StdDev)
	fmt.Fprintf(w, "95th percentile: %.2f seconds\n", d.P95)
	fmt.Fprintf(w, "99th percentile: %.2f seconds\n", d.P99)

	fmt.Fprintln(w, "\nDistribution of Delivery Times:")
	for _, b := range d.Histogram {
		fmt.Fprintf(w, "%-7s: %d messages (%.2f%%)\n", b.Label, b.Count, b.Percent)
	}

	if f.opts.Verbose {
		fmt.Fprintln(w, "\nDelivery Times by Hour of Day:")
		f.formatGroupStats(d.ByHour, w)
		fmt.Fprintln(w, "\nDelivery Times by Date:")
		f.formatGroupStats(d.ByDate, w)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatGroupStats(groups []report.GroupStats, w io.Writer) {
	fmt.Fprintf(w, "%-12s %6s %8s %8s %8s %8s %8s\n", "key", "count", "mean", "median", "min", "max", "std")
	for _, g := range groups {
		fmt.Fprintf(w, "%-12s %6d %8.2f %8.2f %8.2f %8.2f %8.2f\n",
			g.Key, g.Count, g.Mean, g.Median, g.Min, g.Max, g.StdDev)
	}
}

func (f *TextFormatter) formatTail(t *report.TailReport, w io.Writer) {
	fmt.Fprintf(w, "===== SLOW DELIVERY ANALYSIS (>= %.2f seconds) =====\n", t.Threshold)
	fmt.Fprintf(w, "Number of slow deliveries: %d (%.2f%% of total)\n", t.Count, t.PercentTotal)

	fmt.Fprintln(w, "\nSlow Deliveries by Hour:")
	for _, b := range t.ByHour {
		fmt.Fprintf(w, "Hour %s: %d slow deliveries out of %d total (%.2f%%)\n",
			b.Key, b.Tail, b.Total, b.Share)
	}

	fmt.Fprintln(w, "\nSlow Deliveries by Date:")
	for _, b := range t.ByDate {
		fmt.Fprintf(w, "Date %s: %d slow deliveries out of %d total (%.2f%%)\n",
			b.Key, b.Tail, b.Total, b.Share)
	}

	if len(t.SlowPhones) > 0 {
		fmt.Fprintln(w, "\nPhone Numbers with Multiple Slow Deliveries:")
		for _, p := range t.SlowPhones {
			fmt.Fprintf(w, "Phone %s: %d slow deliveries (%.2f%% of slow deliveries), avg time: %.2fs\n",
				p.Phone, p.Count, p.PercentOfTail, p.AvgSeconds)
		}
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatMissing(m *report.MissingReport, w io.Writer) {
	fmt.Fprintln(w, "===== MISSING DELIVERY ANALYSIS =====")
	fmt.Fprintf(w, "Total messages sent: %d\n", m.Sent)
	fmt.Fprintf(w, "Messages with delivery confirmation: %d\n", m.Delivered)
	fmt.Fprintf(w, "Messages missing delivery confirmation: %d (%.2f%% of sent messages)\n",
		m.Missing, m.Percent)

	if len(m.Sample) > 0 {
		fmt.Fprintln(w, "\nSample of Messages Missing Delivery Confirmation:")
		for _, msg := range m.Sample {
			fmt.Fprintf(w, "ID: %s, Timestamp: %s, Phone: %s, File: %s\n",
				msg.MessageId, msg.Timestamp.Format("2006-01-02 15:04:05"), msg.Phone, msg.File)
		}
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatIncidents(title string, inc *report.IncidentReport, w io.Writer) {
	fmt.Fprintf(w, "===== %s =====\n", title)
	fmt.Fprintf(w, "Total found: %d\n", inc.Count)

	sections := []struct {
		name   string
		counts []report.KeyCount
	}{
		{"By Level", inc.ByLevel},
		{"By Provider", inc.ByProvider},
		{"By Event Type", inc.ByEventType},
		{"By Hour of Day", inc.ByHour},
		{"By Date", inc.ByDate},
	}
	for _, s := range sections {
		if len(s.counts) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", s.name)
		for _, kc := range s.counts {
			fmt.Fprintf(w, "%s: %d (%.2f%%)\n", kc.Key, kc.Count, kc.Percent)
		}
	}

	if len(inc.Sample) > 0 {
		fmt.Fprintln(w, "\nSample Messages:")
		for _, line := range inc.Sample {
			fmt.Fprintf(w, "[%s] [%s] %s: %s\n",
				line.Timestamp.Format("2006-01-02 15:04:05"), line.Level, line.EventType, line.Details)
		}
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatOutcomes(r *report.Report, w io.Writer) {
	fmt.Fprintln(w, "== Outcome Counts & Percentages ==")
	for _, o := range r.Outcomes {
		fmt.Fprintf(w, "%-15s: %5d (%.2f%%)\n", o.Outcome, o.Count, o.Percent)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatRuns(runs []report.Run, w io.Writer) {
	fmt.Fprintln(w, "== Cluster Analysis ==")
	fmt.Fprintf(w, "%-15s %6s %14s %-20s %-20s\n", "Type", "Size", "AvgDuration(s)", "Start", "End")
	for _, run := range runs {
		fmt.Fprintf(w, "%-15s %6d %14.2f %-20s %-20s\n",
			run.Class, run.Size, run.AvgSeconds,
			run.Start.Format("2006-01-02 15:04:05"),
			run.End.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatGaveUp(g *report.GaveUpContext, w io.Writer) {
	fmt.Fprintln(w, "== Gave Up Trying Context ==")
	fmt.Fprintf(w, "Surrounded by other 'Gave up trying'      : %d\n", g.Inside)
	fmt.Fprintf(w, "Starts a 'Gave up trying' streak          : %d\n", g.Starts)
	fmt.Fprintf(w, "Ends a 'Gave up trying' streak            : %d\n", g.Ends)
	fmt.Fprintf(w, "Isolated 'Gave up trying' message         : %d\n", g.Isolated)
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatReminders(days []report.ReminderDay, w io.Writer) {
	fmt.Fprintln(w, "== Daily Reminder Summary ==")
	fmt.Fprintf(w, "%-12s %7s %7s %8s %9s %8s %s\n",
		"Date", "2 week", "1 week", "next day", "birthday", "unknown", "problem")
	for _, d := range days {
		problem := ""
		if d.ProblemDay {
			problem = "YES"
		}
		fmt.Fprintf(w, "%-12s %7d %7d %8d %9d %8d %s\n",
			d.Date, d.TwoWeek, d.OneWeek, d.NextDay, d.Birthday, d.Unknown, problem)
	}
	fmt.Fprintln(w)
}
