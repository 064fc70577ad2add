// Package toast renders the notice stack in the bottom-right corner.
package toast

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/sluse/internal/domain"
	"github.com/riordanpawley/sluse/internal/types"
	"github.com/riordanpawley/sluse/internal/ui/styles"
)

// MaxWidth caps a toast's width
const MaxWidth = 40

// ToastRenderer draws toasts with the board's styles
type ToastRenderer struct {
	styles *styles.Styles
}

// New creates a ToastRenderer
func New(styles *styles.Styles) *ToastRenderer {
	return &ToastRenderer{styles: styles}
}

// Render stacks toasts right-aligned, one box each, at most a third of width wide.
// Returns "" when there is nothing to show.
func (r *ToastRenderer) Render(toasts []types.Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	toastWidth := min(width/3, MaxWidth)

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := r.styleForLevel(t.Level)
		rendered = append(rendered, style.Width(toastWidth).Render(Body(t)))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// Body is the toast text: the message followed by its periods,
// each label in the color of that period's panel
func Body(t types.Toast) string {
	if len(t.Periods) == 0 {
		return t.Message
	}
	return t.Message + " " + PeriodLabels(t.Periods)
}

// PeriodLabels joins period labels, coloring each like its panel title
func PeriodLabels(periods []domain.Period) string {
	labels := make([]string, len(periods))
	for i, p := range periods {
		labels[i] = lipgloss.NewStyle().
			Foreground(styles.PeriodColor(p)).
			Bold(true).
			Render(p.Label())
	}
	return strings.Join(labels, ", ")
}

func (r *ToastRenderer) styleForLevel(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
