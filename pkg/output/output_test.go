package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmacnab/smstrace/pkg/correlate"
	"github.com/cmacnab/smstrace/pkg/report"
)

func sampleReport() *report.Report {
	base := time.Date(2025, 3, 1, 8, 20, 0, 0, time.FixedZone("NZDT", 13*3600))
	return &report.Report{
		GeneratedFrom: []report.FileSummary{
			{File: "SMS_Log_20250301.log", Events: 3, Rejected: 1},
		},
		TotalEvents:   3,
		TotalRejected: 1,
		Deliveries: &report.DeliveryStats{
			Count: 1, Mean: 2, Median: 2, Min: 2, Max: 2, P95: 2, P99: 2,
			Histogram: []report.HistogramBucket{{Label: "2-3s", Count: 1, Percent: 100}},
		},
		Missing: &report.MissingReport{Sent: 2, Delivered: 1, Missing: 1, Percent: 50,
			Sample: []report.MissingMessage{
				{MessageId: "M2", Timestamp: base.Add(time.Minute), Phone: "111", File: "SMS_Log_20250301.log"},
			},
		},
		Outcomes: []report.OutcomeCount{
			{Outcome: correlate.OutcomeDelivered, Count: 1, Percent: 50},
			{Outcome: correlate.OutcomeGaveUp, Count: 1, Percent: 50},
		},
		Runs: []report.Run{
			{Class: report.ClassSent, Size: 1, AvgSeconds: 2, Start: base, End: base},
			{Class: report.ClassGaveUp, Size: 1, Start: base.Add(time.Minute), End: base.Add(time.Minute)},
		},
		GaveUp: &report.GaveUpContext{Isolated: 1},
		Reminders: []report.ReminderDay{
			{Date: "2025-03-01", TwoWeek: 1},
			{Date: "2025-03-02", ProblemDay: true},
		},
		Summaries: []report.MessageSummary{
			{MessageId: "M1", FirstTime: base, LastTime: base.Add(2 * time.Second),
				Seconds: 2, Phone: "111", Message: "TWO WEEKS reminder",
				Outcome: correlate.OutcomeDelivered},
			{MessageId: "M2", FirstTime: base.Add(time.Minute), LastTime: base.Add(time.Minute),
				Outcome: correlate.OutcomeGaveUp},
		},
	}
}

func TestTextFormatter_Sections(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{})
	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	wantSections := []string{
		"Processed 1 file(s): 3 events, 1 rejected lines",
		"===== DELIVERY TIME ANALYSIS =====",
		"===== MISSING DELIVERY ANALYSIS =====",
		"== Outcome Counts & Percentages ==",
		"== Cluster Analysis ==",
		"== Gave Up Trying Context ==",
		"== Daily Reminder Summary ==",
	}
	for _, section := range wantSections {
		if !strings.Contains(out, section) {
			t.Errorf("output missing %q", section)
		}
	}

	if !strings.Contains(out, "Messages missing delivery confirmation: 1 (50.00% of sent messages)") {
		t.Error("missing-delivery line not rendered")
	}
	if !strings.Contains(out, "2025-03-02") || !strings.Contains(out, "YES") {
		t.Error("problem day not rendered")
	}
}

func TestTextFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{Quiet: true})
	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if out != "smstrace: 3 events (1 rejected), 2 lifecycles\n" {
		t.Errorf("quiet output = %q", out)
	}
}

func TestTextFormatter_VerboseFileList(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{Verbose: true})
	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "SMS_Log_20250301.log: 3 events, 1 rejected") {
		t.Error("verbose per-file line not rendered")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{})
	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded report.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.TotalEvents != 3 || len(decoded.Summaries) != 2 {
		t.Errorf("decoded = %d events, %d summaries", decoded.TotalEvents, len(decoded.Summaries))
	}
}

func TestJSONFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("quiet output is not valid JSON: %v", err)
	}
	if decoded["total_events"] != float64(3) || decoded["lifecycles"] != float64(2) {
		t.Errorf("quiet output = %v", decoded)
	}
	if _, present := decoded["summaries"]; present {
		t.Error("quiet output should not include the full summary table")
	}
}

func TestFormatterNames(t *testing.T) {
	if got := NewTextFormatter(FormatOptions{}).Name(); got != "text" {
		t.Errorf("text Name() = %q", got)
	}
	if got := NewJSONFormatter(FormatOptions{}).Name(); got != "json" {
		t.Errorf("json Name() = %q", got)
	}
}

func TestWriteCSVs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	written, err := WriteCSVs(sampleReport(), dir)
	if err != nil {
		t.Fatalf("WriteCSVs() error = %v", err)
	}
	if len(written) != 4 {
		t.Fatalf("wrote %d files, want 4: %v", len(written), written)
	}

	rows := readCSV(t, filepath.Join(dir, SummaryCSV))
	if rows[0][0] != "MessageId" || rows[0][6] != "UltimateResult" {
		t.Errorf("summary header = %v", rows[0])
	}
	if len(rows) != 3 {
		t.Fatalf("summary has %d rows, want header + 2", len(rows))
	}
	if rows[1][0] != "M1" || rows[1][6] != "Delivered" {
		t.Errorf("summary row = %v", rows[1])
	}
	if rows[1][3] != "2" {
		t.Errorf("duration column = %q, want 2", rows[1][3])
	}

	rows = readCSV(t, filepath.Join(dir, ClusterCSV))
	if rows[0][0] != "Type" || len(rows) != 3 {
		t.Errorf("cluster rows = %v", rows)
	}

	rows = readCSV(t, filepath.Join(dir, ReminderCSV))
	if len(rows) != 3 {
		t.Fatalf("reminder has %d rows, want header + 2", len(rows))
	}
	if rows[2][6] != "true" {
		t.Errorf("problem_day column = %q, want true", rows[2][6])
	}

	rows = readCSV(t, filepath.Join(dir, GaveUpCSV))
	if len(rows) != 5 {
		t.Fatalf("gave-up context has %d rows, want header + 4", len(rows))
	}
	if rows[4][0] != "isolated" || rows[4][1] != "1" {
		t.Errorf("isolated row = %v", rows[4])
	}
}

func TestWriteCSVs_SkipsEmptyTables(t *testing.T) {
	dir := t.TempDir()
	r := &report.Report{TotalEvents: 1}

	written, err := WriteCSVs(r, dir)
	if err != nil {
		t.Fatalf("WriteCSVs() error = %v", err)
	}
	if len(written) != 0 {
		t.Errorf("wrote %v for an empty report, want nothing", written)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}
