package domain

import "time"

// Project is a rental/production project as returned by the project API.
// The kiosk never mutates projects.
type Project struct {
	ID          int64      `json:"id"`
	DisplayName string     `json:"displayname"`
	Name        string     `json:"project"`
	Occupancy   string     `json:"occupancy"`
	PrepStart   *time.Time `json:"prep_start,omitempty"`
	PrepEnd     *time.Time `json:"prep_end,omitempty"`
	PrepState   string     `json:"prep_state,omitempty"`
	PackStart   *time.Time `json:"pack_start,omitempty"`
	PackEnd     *time.Time `json:"pack_end,omitempty"`
	PackState   string     `json:"pack_state,omitempty"`
}

// Phase is a scheduled window for one logical phase of a project
type Phase struct {
	Start *time.Time
	End   *time.Time
	State string
}

// Prep returns the prep phase window
func (p Project) Prep() Phase {
	return Phase{Start: p.PrepStart, End: p.PrepEnd, State: p.PrepState}
}

// Pack returns the pack phase window
func (p Project) Pack() Phase {
	return Phase{Start: p.PackStart, End: p.PackEnd, State: p.PackState}
}

// Title returns the name shown on the kiosk, falling back to the project name
func (p Project) Title() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

// BayLabel returns the warehouse bay label, e.g. "Bay C"
func (p Project) BayLabel() string {
	if p.Occupancy == "" {
		return ""
	}
	return "Bay " + p.Occupancy
}

// Scheduled reports whether both ends of the phase are known
func (ph Phase) Scheduled() bool {
	return ph.Start != nil && ph.End != nil
}
