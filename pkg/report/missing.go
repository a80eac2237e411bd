package report

import (
	"github.com/cmacnab/smstrace/pkg/correlate"
	"github.com/cmacnab/smstrace/pkg/parser"
)

// ComputeMissing finds lifecycles with SendSuccess evidence but no delivery
// confirmation. The percentage is exact against the sent count. The sample is
// bounded to sampleSize entries, taken in first-seen entity order.
func ComputeMissing(lifecycles []*correlate.Lifecycle, sampleSize int) *MissingReport {
	report := &MissingReport{}

	for _, lc := range lifecycles {
		success := sendSuccessEvent(lc)
		if success == nil {
			continue
		}
		report.Sent++

		if hasDeliveredStatus(lc) {
			report.Delivered++
			continue
		}

		report.Missing++
		if len(report.Sample) < sampleSize {
			phone := success.Fields.Phone
			if !success.Fields.HasPhone {
				phone = "Unknown"
			}
			report.Sample = append(report.Sample, MissingMessage{
				MessageId: lc.MessageId,
				Timestamp: success.Timestamp,
				Phone:     phone,
				File:      success.SourceFile,
			})
		}
	}

	if report.Sent > 0 {
		report.Percent = 100 * float64(report.Missing) / float64(report.Sent)
	}
	return report
}

func sendSuccessEvent(lc *correlate.Lifecycle) *parser.Event {
	for _, e := range lc.Events {
		if e.EventType == parser.EventSendSuccess {
			return e
		}
	}
	return nil
}

func hasDeliveredStatus(lc *correlate.Lifecycle) bool {
	for _, e := range lc.Events {
		if e.EventType == parser.EventDeliveryStatus &&
			e.Fields.HasStatus && e.Fields.Status == "Delivered" {
			return true
		}
	}
	return false
}
