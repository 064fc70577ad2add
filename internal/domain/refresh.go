package domain

import "time"

// RefreshEntry is one row of the refresh activity log: the outcome of fetching
// a single period during a refresh cycle.
type RefreshEntry struct {
	ID        string
	CycleID   string
	Period    Period
	Count     int
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}

// Failed reports whether the fetch for this period failed
func (e RefreshEntry) Failed() bool {
	return e.Error != ""
}

// ListRefreshOptions filters refresh log queries
type ListRefreshOptions struct {
	Period     Period
	FailedOnly bool
	Limit      int
}
