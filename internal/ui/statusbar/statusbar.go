package statusbar

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/sluse/internal/ui/styles"
)

// State is what the status bar reports
type State struct {
	Online     bool
	Refreshing bool
	Countdown  int           // seconds until the next page rotation
	RefreshAge time.Duration // negative when never refreshed
}

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	state  State
	width  int
	styles *styles.Styles
}

// New creates a new StatusBar with the given state, width, and styles
func New(state State, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		state:  state,
		width:  width,
		styles: styles,
	}
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	badge := sb.styles.StatusOnline.Render("ONLINE")
	if !sb.state.Online {
		badge = sb.styles.StatusOffline.Render("OFFLINE")
	}

	separator := sb.styles.Separator.Render(" │ ")
	info := sb.styles.StatusInfo.Render(fmt.Sprintf("next page in %ds", sb.state.Countdown))
	refresh := sb.styles.StatusInfo.Render(RefreshText(sb.state))
	hints := sb.styles.StatusHint.Render(GetHints(sb.state))

	content := lipgloss.JoinHorizontal(lipgloss.Left, badge, separator, info, separator, refresh, separator, hints)

	// Apply status bar style and fill width
	return sb.styles.StatusBar.Width(sb.width).Render(content)
}

// RefreshText describes the refresh state
func RefreshText(s State) string {
	switch {
	case s.Refreshing:
		return "refreshing…"
	case s.RefreshAge < 0:
		return "waiting for data"
	default:
		return "updated " + FormatAge(s.RefreshAge) + " ago"
	}
}

// FormatAge formats a duration as "45s", "3m 05s" or "2h 10m"
func FormatAge(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
