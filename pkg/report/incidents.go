package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cmacnab/smstrace/pkg/parser"
)

// classifyIncident reproduces the historical event triage: a confirmed
// delivery with timing is a delivery record; otherwise a timeout beats an
// error; everything else is ignored. An event lands in at most one category.
type incidentKind int

const (
	incidentNone incidentKind = iota
	incidentDelivery
	incidentTimeout
	incidentError
)

func classifyIncident(e *parser.Event) incidentKind {
	if e.EventType == parser.EventDeliveryStatus &&
		e.Fields.HasStatus && e.Fields.Status == "Delivered" &&
		e.Fields.HasDeliverySeconds {
		return incidentDelivery
	}

	if strings.Contains(strings.ToLower(e.Details), "timeout") ||
		strings.Contains(e.EventType, "Timeout") {
		return incidentTimeout
	}

	details := strings.ToLower(e.Details)
	if e.Level == "ERROR" ||
		strings.Contains(details, "error") ||
		strings.Contains(details, "failed") ||
		strings.Contains(strings.ToLower(e.EventType), "fail") {
		return incidentError
	}

	return incidentNone
}

// ComputeTimeouts summarizes timeout events by provider, hour, and date.
func ComputeTimeouts(events []*parser.Event, sampleSize int) *IncidentReport {
	var matched []*parser.Event
	for _, e := range events {
		if classifyIncident(e) == incidentTimeout {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	report := &IncidentReport{Count: len(matched)}
	report.ByProvider = keyCounts(matched, providerKey)
	report.ByHour = keyCounts(matched, hourKey)
	report.ByDate = keyCounts(matched, dateKey)
	report.Sample = sampleIncidents(matched, sampleSize)
	return report
}

// ComputeErrors summarizes error events by level, provider, event type, and
// hour.
func ComputeErrors(events []*parser.Event, sampleSize int) *IncidentReport {
	var matched []*parser.Event
	for _, e := range events {
		if classifyIncident(e) == incidentError {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	report := &IncidentReport{Count: len(matched)}
	report.ByLevel = keyCounts(matched, func(e *parser.Event) string { return e.Level })
	report.ByProvider = keyCounts(matched, providerKey)
	report.ByEventType = keyCounts(matched, func(e *parser.Event) string { return e.EventType })
	report.ByHour = keyCounts(matched, hourKey)
	report.Sample = sampleIncidents(matched, sampleSize)
	return report
}

func providerKey(e *parser.Event) string {
	if e.Provider == "" {
		return "Unknown"
	}
	return e.Provider
}

func hourKey(e *parser.Event) string {
	return fmt.Sprintf("%02d", e.Timestamp.Hour())
}

func dateKey(e *parser.Event) string {
	return e.Timestamp.Format("2006-01-02")
}

func keyCounts(events []*parser.Event, keyFn func(*parser.Event) string) []KeyCount {
	counts := make(map[string]int)
	for _, e := range events {
		counts[keyFn(e)]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]KeyCount, 0, len(keys))
	for _, k := range keys {
		result = append(result, KeyCount{
			Key:     k,
			Count:   counts[k],
			Percent: 100 * float64(counts[k]) / float64(len(events)),
		})
	}
	return result
}

// sampleIncidents takes the first n matched events in canonical order, so
// re-running the batch samples identically.
func sampleIncidents(events []*parser.Event, n int) []IncidentLine {
	if n > len(events) {
		n = len(events)
	}
	sample := make([]IncidentLine, 0, n)
	for _, e := range events[:n] {
		sample = append(sample, IncidentLine{
			Timestamp: e.Timestamp,
			Level:     e.Level,
			EventType: e.EventType,
			Details:   e.Details,
		})
	}
	return sample
}
