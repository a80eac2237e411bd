package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cmacnab/smstrace/pkg/report"
)

// CSV file names, matching the historical reports.
const (
	SummaryCSV  = "message_summary.csv"
	ClusterCSV  = "cluster_summary.csv"
	ReminderCSV = "daily_reminder_summary.csv"
	GaveUpCSV   = "failure_sequence_context.csv"
	timeLayout  = "2006-01-02 15:04:05"
)

// WriteCSVs writes the lifecycle-derived tables into dir, creating it if
// needed. Returns the paths written.
func WriteCSVs(r *report.Report, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	var written []string

	if len(r.Summaries) > 0 {
		path := filepath.Join(dir, SummaryCSV)
		if err := writeCSV(path, summaryRows(r.Summaries)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if len(r.Runs) > 0 {
		path := filepath.Join(dir, ClusterCSV)
		if err := writeCSV(path, runRows(r.Runs)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if len(r.Reminders) > 0 {
		path := filepath.Join(dir, ReminderCSV)
		if err := writeCSV(path, reminderRows(r.Reminders)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if r.GaveUp != nil {
		path := filepath.Join(dir, GaveUpCSV)
		if err := writeCSV(path, gaveUpRows(r.GaveUp)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func summaryRows(summaries []report.MessageSummary) [][]string {
	rows := [][]string{{"MessageId", "FirstLogTime", "LastLogTime", "DurationSeconds", "PhoneNumber", "Message", "UltimateResult"}}
	for _, s := range summaries {
		rows = append(rows, []string{
			s.MessageId,
			s.FirstTime.Format(timeLayout),
			s.LastTime.Format(timeLayout),
			strconv.FormatFloat(s.Seconds, 'f', -1, 64),
			s.Phone,
			s.Message,
			string(s.Outcome),
		})
	}
	return rows
}

func runRows(runs []report.Run) [][]string {
	rows := [][]string{{"Type", "Size", "AvgDuration_sec", "StartTime", "EndTime"}}
	for _, run := range runs {
		rows = append(rows, []string{
			run.Class,
			strconv.Itoa(run.Size),
			strconv.FormatFloat(run.AvgSeconds, 'f', 2, 64),
			run.Start.Format(timeLayout),
			run.End.Format(timeLayout),
		})
	}
	return rows
}

func reminderRows(days []report.ReminderDay) [][]string {
	rows := [][]string{{"Date", "2 week", "1 week", "next day", "birthday", "unknown", "problem_day"}}
	for _, d := range days {
		rows = append(rows, []string{
			d.Date,
			strconv.Itoa(d.TwoWeek),
			strconv.Itoa(d.OneWeek),
			strconv.Itoa(d.NextDay),
			strconv.Itoa(d.Birthday),
			strconv.Itoa(d.Unknown),
			strconv.FormatBool(d.ProblemDay),
		})
	}
	return rows
}

func gaveUpRows(g *report.GaveUpContext) [][]string {
	return [][]string{
		{"Context", "Count"},
		{"inside_streak", strconv.Itoa(g.Inside)},
		{"starts_streak", strconv.Itoa(g.Starts)},
		{"ends_streak", strconv.Itoa(g.Ends)},
		{"isolated", strconv.Itoa(g.Isolated)},
	}
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path) // #nosec G304 -- user-provided output dir is expected
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
