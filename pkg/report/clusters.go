package report

import (
	"sort"

	"github.com/cmacnab/smstrace/pkg/correlate"
)

// Binarized class names.
const (
	ClassSent   = "Sent"
	ClassGaveUp = "Gave up trying"
)

// BinarizeOutcome maps a terminal outcome to its run class: Delivered and
// Failed both mean the message left the gateway; everything else is treated
// as gave-up class.
func BinarizeOutcome(outcome correlate.Outcome) string {
	if outcome == correlate.OutcomeDelivered || outcome == correlate.OutcomeFailed {
		return ClassSent
	}
	return ClassGaveUp
}

// ByFirstTime returns the lifecycles sorted by first event time. The sort is
// stable so equal timestamps keep first-seen entity order.
func ByFirstTime(lifecycles []*correlate.Lifecycle) []*correlate.Lifecycle {
	ordered := append([]*correlate.Lifecycle(nil), lifecycles...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].FirstTime.Before(ordered[j].FirstTime)
	})
	return ordered
}

// ComputeRuns partitions lifecycles (ordered by first event time) into
// maximal consecutive runs of one binarized class. Single linear scan: run
// sizes always sum to the lifecycle count and adjacent runs never share a
// class.
func ComputeRuns(lifecycles []*correlate.Lifecycle) []Run {
	ordered := ByFirstTime(lifecycles)

	var runs []Run
	var current []*correlate.Lifecycle
	currentClass := ""

	flush := func() {
		if len(current) == 0 {
			return
		}
		sum := 0.0
		for _, lc := range current {
			sum += lc.Duration.Seconds()
		}
		runs = append(runs, Run{
			Class:      currentClass,
			Size:       len(current),
			AvgSeconds: sum / float64(len(current)),
			Start:      current[0].FirstTime,
			End:        current[len(current)-1].FirstTime,
		})
	}

	for _, lc := range ordered {
		class := BinarizeOutcome(lc.Outcome)
		if class != currentClass && currentClass != "" {
			flush()
			current = current[:0:0]
		}
		currentClass = class
		current = append(current, lc)
	}
	flush()

	return runs
}

// ComputeGaveUpContext classifies each gave-up lifecycle by whether its
// neighbours (in first event time order) also gave up.
func ComputeGaveUpContext(lifecycles []*correlate.Lifecycle) *GaveUpContext {
	ordered := ByFirstTime(lifecycles)
	ctx := &GaveUpContext{}

	for i, lc := range ordered {
		if lc.Outcome != correlate.OutcomeGaveUp {
			continue
		}
		prev := i > 0 && ordered[i-1].Outcome == correlate.OutcomeGaveUp
		next := i < len(ordered)-1 && ordered[i+1].Outcome == correlate.OutcomeGaveUp

		switch {
		case prev && next:
			ctx.Inside++
		case !prev && next:
			ctx.Starts++
		case prev && !next:
			ctx.Ends++
		default:
			ctx.Isolated++
		}
	}

	return ctx
}

// ComputeOutcomes counts terminal outcomes with exact percentages, ordered
// by outcome name for determinism.
func ComputeOutcomes(lifecycles []*correlate.Lifecycle) []OutcomeCount {
	if len(lifecycles) == 0 {
		return nil
	}

	counts := make(map[correlate.Outcome]int)
	for _, lc := range lifecycles {
		counts[lc.Outcome]++
	}

	outcomes := make([]correlate.Outcome, 0, len(counts))
	for o := range counts {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })

	total := float64(len(lifecycles))
	result := make([]OutcomeCount, 0, len(outcomes))
	for _, o := range outcomes {
		result = append(result, OutcomeCount{
			Outcome: o,
			Count:   counts[o],
			Percent: 100 * float64(counts[o]) / total,
		})
	}
	return result
}
