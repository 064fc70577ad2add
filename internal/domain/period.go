// Package domain contains core business types for the sluse kiosk.
package domain

import "fmt"

// Period is a named time-window category used to bucket projects on the kiosk
type Period string

const (
	PeriodConfirmed    Period = "confirmed"
	PeriodPrepped      Period = "prepped"
	PeriodOnLocation   Period = "onLocation"
	PeriodDelayed      Period = "delayed"
	PeriodToBeInvoiced Period = "toBeInvoiced"
	PeriodTransport    Period = "transport"
)

// Offsets holds whole-day offsets relative to today.
// Both ends are inclusive days.
type Offsets struct {
	Start int
	End   int
}

var periodOffsets = map[Period]Offsets{
	PeriodConfirmed:    {Start: 0, End: 14},
	PeriodPrepped:      {Start: 0, End: 7},
	PeriodOnLocation:   {Start: -14, End: 0},
	PeriodDelayed:      {Start: -30, End: -1},
	PeriodToBeInvoiced: {Start: -60, End: 0},
	PeriodTransport:    {Start: -1, End: 1},
}

var periodLabels = map[Period]string{
	PeriodConfirmed:    "Confirmed",
	PeriodPrepped:      "Prepped",
	PeriodOnLocation:   "On location",
	PeriodDelayed:      "Delayed",
	PeriodToBeInvoiced: "To be invoiced",
	PeriodTransport:    "Transport",
}

// AllPeriods returns every known period in display order
func AllPeriods() []Period {
	return []Period{
		PeriodConfirmed,
		PeriodPrepped,
		PeriodOnLocation,
		PeriodDelayed,
		PeriodToBeInvoiced,
		PeriodTransport,
	}
}

// KioskPeriods returns the four periods shown on the warehouse kiosk
func KioskPeriods() []Period {
	return []Period{
		PeriodConfirmed,
		PeriodPrepped,
		PeriodOnLocation,
		PeriodDelayed,
	}
}

// ParsePeriod converts a period name into a Period
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if _, ok := periodOffsets[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// Offsets returns the day offsets for the period.
// Unknown periods map to today only.
func (p Period) Offsets() Offsets {
	return periodOffsets[p]
}

// Label returns the human-readable panel title
func (p Period) Label() string {
	if label, ok := periodLabels[p]; ok {
		return label
	}
	return string(p)
}

// String returns the wire name
func (p Period) String() string {
	return string(p)
}
