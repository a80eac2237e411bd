package report

import (
	"fmt"
	"sort"
)

// ComputeTail analyzes deliveries at or above the given percentile of the
// delivery-time distribution. Each hour/date bucket reports the tail share
// of that bucket's own total, not of the global total.
func ComputeTail(records []DeliveryRecord, percentile float64) *TailReport {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]float64, len(records))
	for i, r := range records {
		sorted[i] = r.Seconds
	}
	sort.Float64s(sorted)
	threshold := Percentile(sorted, percentile)

	var tail []DeliveryRecord
	for _, r := range records {
		if r.Seconds >= threshold {
			tail = append(tail, r)
		}
	}

	report := &TailReport{
		Percentile:   percentile,
		Threshold:    threshold,
		Count:        len(tail),
		PercentTotal: 100 * float64(len(tail)) / float64(len(records)),
	}

	hourKey := func(r DeliveryRecord) string { return fmt.Sprintf("%02d", r.Timestamp.Hour()) }
	dateKey := func(r DeliveryRecord) string { return r.Timestamp.Format("2006-01-02") }

	report.ByHour = tailBuckets(records, tail, hourKey)
	report.ByDate = tailBuckets(records, tail, dateKey)
	report.SlowPhones = slowPhones(tail)

	return report
}

// tailBuckets reports, for each bucket that has tail members, the tail count
// against the bucket's own total.
func tailBuckets(all, tail []DeliveryRecord, keyFn func(DeliveryRecord) string) []TailBucket {
	totals := make(map[string]int)
	for _, r := range all {
		totals[keyFn(r)]++
	}
	tails := make(map[string]int)
	for _, r := range tail {
		tails[keyFn(r)]++
	}

	keys := make([]string, 0, len(tails))
	for k := range tails {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]TailBucket, 0, len(keys))
	for _, k := range keys {
		b := TailBucket{Key: k, Tail: tails[k], Total: totals[k]}
		b.Share = 100 * float64(b.Tail) / float64(b.Total)
		buckets = append(buckets, b)
	}
	return buckets
}

// slowPhones lists phone numbers appearing more than once in the tail,
// ordered by count descending then phone for determinism.
func slowPhones(tail []DeliveryRecord) []SlowPhone {
	if len(tail) == 0 {
		return nil
	}

	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, r := range tail {
		counts[r.Phone]++
		sums[r.Phone] += r.Seconds
	}

	var phones []SlowPhone
	for phone, count := range counts {
		if count < 2 {
			continue
		}
		phones = append(phones, SlowPhone{
			Phone:         phone,
			Count:         count,
			PercentOfTail: 100 * float64(count) / float64(len(tail)),
			AvgSeconds:    sums[phone] / float64(count),
		})
	}

	sort.Slice(phones, func(i, j int) bool {
		if phones[i].Count != phones[j].Count {
			return phones[i].Count > phones[j].Count
		}
		return phones[i].Phone < phones[j].Phone
	})
	return phones
}
