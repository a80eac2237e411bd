package report

import (
	"strings"
	"time"

	"github.com/cmacnab/smstrace/pkg/correlate"
)

// ReminderWindow is the daily clock window the gateway sends its reminder
// batch in. The window is [start, end) on each day's wall clock.
type ReminderWindow struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// Contains reports whether t's wall-clock time of day falls in the window.
func (w ReminderWindow) Contains(t time.Time) bool {
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= w.StartHour*60+w.StartMinute && minutes < w.EndHour*60+w.EndMinute
}

// Reminder taxonomy labels.
const (
	ReminderTwoWeek  = "2 week"
	ReminderOneWeek  = "1 week"
	ReminderNextDay  = "next day"
	ReminderBirthday = "birthday"
	ReminderUnknown  = "unknown"
)

// ClassifyReminder maps a message body to the reminder taxonomy. Keyword
// checks run in a fixed order; the first match wins.
func ClassifyReminder(message string) string {
	switch {
	case strings.Contains(message, "Happy Birthday"):
		return ReminderBirthday
	case strings.Contains(message, "TWO WEEKS"):
		return ReminderTwoWeek
	case strings.Contains(message, "NEXT WEEK"):
		return ReminderOneWeek
	case strings.Contains(message, "Your dental appointment is on"):
		return ReminderNextDay
	default:
		return ReminderUnknown
	}
}

// ComputeReminders builds the daily reminder table. Only lifecycles whose
// first event time falls inside the window count, but every calendar date
// between the earliest and latest lifecycle appears, zeros included, so a
// day the batch never ran is visible rather than absent.
func ComputeReminders(lifecycles []*correlate.Lifecycle, window ReminderWindow) []ReminderDay {
	if len(lifecycles) == 0 {
		return nil
	}

	minDate, maxDate := dateRange(lifecycles)

	byDate := make(map[string]*ReminderDay)
	var days []ReminderDay
	for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
		days = append(days, ReminderDay{Date: d.Format("2006-01-02")})
	}
	for i := range days {
		byDate[days[i].Date] = &days[i]
	}

	for _, lc := range lifecycles {
		if !window.Contains(lc.FirstTime) {
			continue
		}
		day := byDate[lc.FirstTime.Format("2006-01-02")]
		if day == nil {
			continue
		}
		switch ClassifyReminder(lc.Message) {
		case ReminderTwoWeek:
			day.TwoWeek++
		case ReminderOneWeek:
			day.OneWeek++
		case ReminderNextDay:
			day.NextDay++
		case ReminderBirthday:
			day.Birthday++
		default:
			day.Unknown++
		}
	}

	for i := range days {
		d := &days[i]
		d.ProblemDay = d.TwoWeek == 0 && d.OneWeek == 0 && d.NextDay == 0 && d.Birthday == 0
	}

	return days
}

func dateRange(lifecycles []*correlate.Lifecycle) (time.Time, time.Time) {
	min, max := lifecycles[0].FirstTime, lifecycles[0].FirstTime
	for _, lc := range lifecycles[1:] {
		if lc.FirstTime.Before(min) {
			min = lc.FirstTime
		}
		if lc.FirstTime.After(max) {
			max = lc.FirstTime
		}
	}
	truncate := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return truncate(min), truncate(max)
}
