package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/sluse/internal/services/rotation"
	"github.com/riordanpawley/sluse/internal/ui/styles"
)

// EmptyText is shown in panels without projects, including failed fetches
const EmptyText = "No projects"

// renderPanel renders a period header and the projects of its current page
func renderPanel(view rotation.PanelView, width int, height int, s *styles.Styles) string {
	header := renderHeader(view, width, s)

	innerWidth := max(width-4, 1) // border and padding
	var content string
	if len(view.Projects) == 0 {
		content = s.PanelEmpty.Render(EmptyText)
	} else {
		rows := make([]string, 0, len(view.Projects))
		for _, p := range view.Projects {
			rows = append(rows, renderProject(p, innerWidth, s))
		}
		content = strings.Join(rows, "\n")
	}

	bodyHeight := max(height-lipgloss.Height(header)-2, 1)
	content = clipLines(content, bodyHeight)
	body := s.Panel.Width(max(width-2, 1)).Height(bodyHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// renderHeader renders e.g. "─ Confirmed (12) ──────── 1/2"
func renderHeader(view rotation.PanelView, width int, s *styles.Styles) string {
	title := fmt.Sprintf("─ %s (%d) ", view.Period.Label(), view.Total)

	page := ""
	if view.Pages > 1 {
		page = fmt.Sprintf(" %d/%d", view.Page, view.Pages)
	}

	fill := width - ansi.StringWidth(title) - ansi.StringWidth(page)
	if fill > 0 {
		title += strings.Repeat("─", fill)
	}

	return s.PanelTitle(view.Period).Render(title) + s.PanelPage.Render(page)
}

// clipLines keeps at most n lines of s
func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
