package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Extraction patterns for the semi-structured Details payload.
//
// Phone precedence is part of the contract: when both "PhoneNumber:" and
// "Number:" appear, "PhoneNumber:" wins. The patterns are tried in the order
// listed here and the first match is taken.
var (
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`PhoneNumber: (\+?\d+)`),
		regexp.MustCompile(`Number: (\+?\d+)`),
	}

	deliveryTimePattern = regexp.MustCompile(`Delivery Time: (\d+\.\d+|\d+)`)
	statusPattern       = regexp.MustCompile(`Status: (\w+)`)
	messagePattern      = regexp.MustCompile(`Message: (.*)$`)
)

// ExtractFields pulls the known sub-fields out of a Details string.
// Extraction is best-effort and tolerant: a pattern that does not match
// yields an unset presence flag, never an error.
func ExtractFields(details string) Fields {
	var f Fields

	for _, p := range phonePatterns {
		if m := p.FindStringSubmatch(details); m != nil {
			f.Phone = m[1]
			f.HasPhone = true
			break
		}
	}

	if m := deliveryTimePattern.FindStringSubmatch(details); m != nil {
		if secs, err := strconv.ParseFloat(m[1], 64); err == nil {
			f.DeliverySeconds = secs
			f.HasDeliverySeconds = true
		}
	}

	if m := statusPattern.FindStringSubmatch(details); m != nil {
		f.Status = m[1]
		f.HasStatus = true
	}

	if m := messagePattern.FindStringSubmatch(details); m != nil {
		f.Message = strings.TrimSpace(m[1])
		f.HasMessage = true
	}

	return f
}

// HasDeliveredMarker reports whether a Details string carries the gateway's
// delivered marker. Matches the literal substring, same as the historical
// reports.
func HasDeliveredMarker(details string) bool {
	return strings.Contains(details, "Delivered")
}

// HasFailedMarker reports whether a Details string carries the failed marker.
func HasFailedMarker(details string) bool {
	return strings.Contains(details, "Failed")
}
