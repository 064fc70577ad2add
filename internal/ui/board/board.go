// Package board renders the rotating period panels of the kiosk.
package board

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/sluse/internal/services/rotation"
	"github.com/riordanpawley/sluse/internal/ui/styles"
)

// Render renders one panel per period side by side, evenly distributed
func Render(panels []rotation.PanelView, s *styles.Styles, width int, height int) string {
	if len(panels) == 0 {
		return ""
	}

	panelWidth := width / len(panels)

	var panelStrings []string
	for _, p := range panels {
		panelStr := renderPanel(p, panelWidth, height, s)

		// Force consistent width using lipgloss Width
		sized := lipgloss.NewStyle().Width(panelWidth).Height(height).MaxHeight(height).Render(panelStr)
		panelStrings = append(panelStrings, sized)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, panelStrings...)
}
