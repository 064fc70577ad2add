package board

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/sluse/internal/domain"
	"github.com/riordanpawley/sluse/internal/ui/styles"
)

// TimeLayout formats phase boundaries
const TimeLayout = "Mon 02 Jan 15:04"

// renderProject renders one project: bay badge and title, then its phases
func renderProject(p domain.Project, width int, s *styles.Styles) string {
	titleLine := s.ProjectTitle.Render(p.Title())
	if bay := p.BayLabel(); bay != "" {
		titleLine = lipgloss.JoinHorizontal(lipgloss.Left, s.BayBadge.Render(bay), " ", titleLine)
	}
	titleLine = ansi.Truncate(titleLine, width, "…")

	lines := []string{titleLine}
	for _, ph := range []struct {
		label string
		phase domain.Phase
	}{
		{"Prep", p.Prep()},
		{"Pack", p.Pack()},
	} {
		if line := renderPhase(ph.label, ph.phase, s); line != "" {
			lines = append(lines, ansi.Truncate(line, width, "…"))
		}
	}

	return s.Project.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderPhase returns "" for phases without any scheduled boundary
func renderPhase(label string, ph domain.Phase, s *styles.Styles) string {
	if ph.Start == nil && ph.End == nil {
		return ""
	}

	line := s.PhaseLabel.Render(label+" ") + s.PhaseTime.Render(FormatWindow(ph))
	if ph.State != "" {
		line += " " + s.PhaseState.Render(ph.State)
	}
	return line
}

// FormatWindow formats a phase as "start → end" in local time, "?" for unknown ends
func FormatWindow(ph domain.Phase) string {
	start, end := "?", "?"
	if ph.Start != nil {
		start = ph.Start.Local().Format(TimeLayout)
	}
	if ph.End != nil {
		end = ph.End.Local().Format(TimeLayout)
	}
	return start + " → " + end
}
