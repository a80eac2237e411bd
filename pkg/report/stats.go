package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/cmacnab/smstrace/pkg/parser"
)

// histogram bucket boundaries in seconds. Lower bound inclusive, upper
// bound exclusive; the last bucket is open-ended.
var histogramBounds = []struct {
	Label string
	Lo    float64
	Hi    float64
}{
	{"<1s", 0, 1},
	{"1-2s", 1, 2},
	{"2-3s", 2, 3},
	{"3-4s", 3, 4},
	{"4-5s", 4, 5},
	{"5-10s", 5, 10},
	{"10-30s", 10, 30},
	{"30-60s", 30, 60},
	{"1-2m", 60, 120},
	{">2m", 120, math.Inf(1)},
}

// ExtractDeliveries pulls confirmed delivery records (with timing) out of the
// raw event stream, in canonical order.
func ExtractDeliveries(events []*parser.Event) []DeliveryRecord {
	var records []DeliveryRecord
	for _, e := range events {
		if e.EventType != parser.EventDeliveryStatus {
			continue
		}
		if !e.Fields.HasStatus || e.Fields.Status != "Delivered" {
			continue
		}
		if !e.Fields.HasDeliverySeconds {
			continue
		}
		phone := e.Fields.Phone
		if !e.Fields.HasPhone {
			phone = "Unknown"
		}
		records = append(records, DeliveryRecord{
			Timestamp: e.Timestamp,
			MessageId: e.MessageId,
			Phone:     phone,
			Seconds:   e.Fields.DeliverySeconds,
		})
	}
	return records
}

// ComputeDeliveryStats derives the delivery-time distribution from confirmed
// delivery records. Returns nil when there are no records.
func ComputeDeliveryStats(records []DeliveryRecord) *DeliveryStats {
	if len(records) == 0 {
		return nil
	}

	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Seconds
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	stats := &DeliveryStats{
		Count:  len(values),
		Mean:   mean(values),
		Median: Percentile(sorted, 50),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		StdDev: stdDev(values),
		P95:    Percentile(sorted, 95),
		P99:    Percentile(sorted, 99),
	}

	for _, b := range histogramBounds {
		count := 0
		for _, v := range values {
			if v >= b.Lo && v < b.Hi {
				count++
			}
		}
		stats.Histogram = append(stats.Histogram, HistogramBucket{
			Label:   b.Label,
			Count:   count,
			Percent: 100 * float64(count) / float64(len(values)),
		})
	}

	stats.ByHour = groupStats(records, func(r DeliveryRecord) string {
		return fmt.Sprintf("%02d", r.Timestamp.Hour())
	})
	stats.ByDate = groupStats(records, func(r DeliveryRecord) string {
		return r.Timestamp.Format("2006-01-02")
	})

	return stats
}

func groupStats(records []DeliveryRecord, keyFn func(DeliveryRecord) string) []GroupStats {
	byKey := make(map[string][]float64)
	for _, r := range records {
		k := keyFn(r)
		byKey[k] = append(byKey[k], r.Seconds)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]GroupStats, 0, len(keys))
	for _, k := range keys {
		vals := byKey[k]
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		groups = append(groups, GroupStats{
			Key:    k,
			Count:  len(vals),
			Mean:   mean(vals),
			Median: Percentile(sorted, 50),
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
			StdDev: stdDev(vals),
		})
	}
	return groups
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the sample standard deviation (n-1 denominator), matching the
// historical reports. Zero for fewer than two values.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// Percentile computes the p-th percentile of sorted values using linear
// interpolation between closest ranks, matching the historical reports.
// sorted must be ascending and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
