package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/sluse/internal/ui/board"
	"github.com/riordanpawley/sluse/internal/ui/statusbar"
	"github.com/riordanpawley/sluse/internal/ui/toast"
)

// View renders header, panels, rotation progress, status bar and toasts
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.loading {
		return m.renderLoading()
	}

	header := m.renderHeader()
	progressView := m.progress.ViewAs(m.engine.RotationProgress())
	statusBarView := statusbar.New(statusbar.State{
		Online:     m.isOnline,
		Refreshing: m.engine.InFlight(),
		Countdown:  m.engine.Countdown(),
		RefreshAge: m.engine.DataAge(),
	}, m.width, m.styles).Render()

	toastView := ""
	if len(m.toasts) > 0 {
		toastView = toast.New(m.styles).Render(m.toasts, m.width)
	}

	used := lipgloss.Height(header) + lipgloss.Height(progressView) + lipgloss.Height(statusBarView)
	if toastView != "" {
		used += lipgloss.Height(toastView)
	}
	boardHeight := max(m.height-used, 3)

	boardView := board.Render(m.engine.Panels(), m.styles, m.width, boardHeight)

	parts := []string{header, boardView, progressView, statusBarView}
	if toastView != "" {
		// Toasts sit above the status bar, right-aligned
		parts = []string{header, boardView, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toastView), progressView, statusBarView}
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the title on the left and the clock on the right
func (m Model) renderHeader() string {
	title := m.styles.HeaderTitle.Render(m.title)
	clock := m.styles.Clock.Render(m.engine.ClockText())

	gap := m.width - ansi.StringWidth(title) - ansi.StringWidth(clock) - 2 // header padding
	if gap < 1 {
		gap = 1
	}

	line := title + strings.Repeat(" ", gap) + clock
	return m.styles.Header.Width(m.width).Render(line)
}

// renderLoading renders a centered loading spinner with message
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.spinner.View(),
		"Loading projects...",
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
