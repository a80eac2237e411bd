package detector

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSample(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const goodLine = `{"Timestamp":"2025-03-01T08:15:30+13:00","EventType":"SendSuccess","MessageId":"M1","Details":""}`

func TestDetect_CleanLog(t *testing.T) {
	path := writeSample(t, goodLine, goodLine, goodLine)

	result, err := New().Detect(context.Background(), path)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if result.SampledLines != 3 || result.ParsedLines != 3 {
		t.Errorf("sampled/parsed = %d/%d, want 3/3", result.SampledLines, result.ParsedLines)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
	if !result.IsGatewayLog() {
		t.Error("IsGatewayLog() = false for a clean log")
	}
}

func TestDetect_ForeignFile(t *testing.T) {
	path := writeSample(t,
		"Mar  1 08:15:30 host sshd[123]: Accepted publickey",
		"Mar  1 08:15:31 host sshd[123]: session opened",
	)

	result, err := New().Detect(context.Background(), path)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if result.ParsedLines != 0 {
		t.Errorf("ParsedLines = %d, want 0", result.ParsedLines)
	}
	if result.IsGatewayLog() {
		t.Error("IsGatewayLog() = true for a foreign file")
	}
	if result.SampleError == "" {
		t.Error("SampleError empty, want first parse failure recorded")
	}
}

// Empty lines are skipped entirely: they neither count toward the sample nor
// drag confidence down.
func TestDetect_EmptyLinesSkipped(t *testing.T) {
	path := writeSample(t, goodLine, "", "", goodLine)

	result, err := New().Detect(context.Background(), path)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if result.SampledLines != 2 || result.Confidence != 1.0 {
		t.Errorf("sampled = %d, confidence = %v; want 2, 1.0", result.SampledLines, result.Confidence)
	}
}

func TestDetect_SampleSizeBound(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = goodLine
	}
	path := writeSample(t, lines...)

	result, err := New(WithSampleSize(4)).Detect(context.Background(), path)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if result.SampledLines != 4 {
		t.Errorf("SampledLines = %d, want 4", result.SampledLines)
	}
}

func TestDetect_MixedConfidence(t *testing.T) {
	path := writeSample(t, goodLine, "junk", goodLine, goodLine)

	result, err := New().Detect(context.Background(), path)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if result.Confidence != 0.75 {
		t.Errorf("Confidence = %v, want 0.75", result.Confidence)
	}
	// 0.75 is below the 0.9 cutoff.
	if result.IsGatewayLog() {
		t.Error("IsGatewayLog() = true at 0.75 confidence")
	}
}

func TestDetect_MissingFile(t *testing.T) {
	if _, err := New().Detect(context.Background(), "/nonexistent.log"); err == nil {
		t.Error("Detect() expected error for missing file")
	}
}

func TestDetect_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := New().Detect(context.Background(), path)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if result.IsGatewayLog() {
		t.Error("IsGatewayLog() = true for an empty file")
	}
}
