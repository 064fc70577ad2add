package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/sluse/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Clock       lipgloss.Style
	RefreshAge  lipgloss.Style

	// Panels
	Panel      lipgloss.Style
	PanelTitle func(period domain.Period) lipgloss.Style
	PanelPage  lipgloss.Style
	PanelEmpty lipgloss.Style

	// Project rows
	Project      lipgloss.Style
	ProjectTitle lipgloss.Style
	BayBadge     lipgloss.Style
	PhaseLabel   lipgloss.Style
	PhaseTime    lipgloss.Style
	PhaseState   lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
	StatusHint    lipgloss.Style
	StatusInfo    lipgloss.Style
	Separator     lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Background(Mantle).
			Padding(0, 1),

		HeaderTitle: lipgloss.NewStyle().
			Foreground(Lavender).
			Bold(true),

		Clock: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true),

		RefreshAge: lipgloss.NewStyle().
			Foreground(Overlay1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1),

		PanelTitle: func(period domain.Period) lipgloss.Style {
			return lipgloss.NewStyle().
				Foreground(PeriodColor(period)).
				Bold(true)
		},

		PanelPage: lipgloss.NewStyle().
			Foreground(Overlay1),

		PanelEmpty: lipgloss.NewStyle().
			Foreground(Overlay0).
			Italic(true),

		Project: lipgloss.NewStyle().
			PaddingBottom(1),

		ProjectTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true),

		BayBadge: lipgloss.NewStyle().
			Foreground(Base).
			Background(Sapphire).
			Padding(0, 1).
			Bold(true),

		PhaseLabel: lipgloss.NewStyle().
			Foreground(Subtext0),

		PhaseTime: lipgloss.NewStyle().
			Foreground(Subtext1),

		PhaseState: lipgloss.NewStyle().
			Foreground(Overlay1).
			Italic(true),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusOnline: lipgloss.NewStyle().
			Background(Green).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusOffline: lipgloss.NewStyle().
			Background(Red).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),
	}
}
