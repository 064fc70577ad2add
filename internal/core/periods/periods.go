// Package periods translates named kiosk periods into calendar date windows.
//
// A window covers whole days. Given today's local date D and a period with
// offsets {start, end}, the window covers the days D+start through D+end,
// both inclusive. As instants it is the half-open range
// [midnight(D+start), midnight(D+end+1)).
//
// Example:
//
//	w := periods.Window(time.Now(), domain.PeriodConfirmed)
//	// w.FirstDay() == today, w.LastDay() == today + 14 days
package periods

import (
	"time"

	"github.com/riordanpawley/sluse/internal/domain"
)

// DateLayout is the day format used on the wire
const DateLayout = "2006-01-02"

// DateRange is a whole-day window expressed as the half-open interval [Start, End)
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Window returns the date range for the period relative to now.
// Days are computed in now's location.
func Window(now time.Time, period domain.Period) DateRange {
	today := midnight(now)
	off := period.Offsets()

	return DateRange{
		Start: today.AddDate(0, 0, off.Start),
		End:   today.AddDate(0, 0, off.End+1),
	}
}

// Windows returns the window of every given period, keyed by period
func Windows(now time.Time, periods []domain.Period) map[domain.Period]DateRange {
	out := make(map[domain.Period]DateRange, len(periods))
	for _, p := range periods {
		out[p] = Window(now, p)
	}
	return out
}

// FirstDay returns the first day covered by the range
func (r DateRange) FirstDay() time.Time {
	return r.Start
}

// LastDay returns the last day covered by the range (inclusive)
func (r DateRange) LastDay() time.Time {
	return r.End.AddDate(0, 0, -1)
}

// Days returns the number of whole days in the range
func (r DateRange) Days() int {
	days := 0
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// From formats the first day for query parameters
func (r DateRange) From() string {
	return r.FirstDay().Format(DateLayout)
}

// To formats the last day for query parameters
func (r DateRange) To() string {
	return r.LastDay().Format(DateLayout)
}

// String renders the range as "from..to"
func (r DateRange) String() string {
	return r.From() + ".." + r.To()
}

// midnight truncates t to the start of its calendar day.
// time.Truncate works in UTC, so the date is rebuilt in t's location instead.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
