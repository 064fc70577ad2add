// Package app contains the main application model and TEA implementation.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/sluse/internal/domain"
	"github.com/riordanpawley/sluse/internal/services/network"
	"github.com/riordanpawley/sluse/internal/services/rotation"
	"github.com/riordanpawley/sluse/internal/types"
	"github.com/riordanpawley/sluse/internal/ui/styles"
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast
type ToastLevel = types.ToastLevel

const (
	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastWarning = types.ToastWarning
	ToastError   = types.ToastError
)

const (
	tickInterval  = time.Second
	toastDuration = 8 * time.Second
	recordTimeout = 5 * time.Second
)

// Recorder persists the outcome of refresh cycles
type Recorder interface {
	Log(ctx context.Context, entries []domain.RefreshEntry) error
}

// Options wires the model's collaborators. Engine is required.
type Options struct {
	Title         string
	Engine        *rotation.Engine
	Checker       *network.StatusChecker // optional
	CheckInterval time.Duration
	Recorder      Recorder // optional
	Logger        *slog.Logger
}

// Model is the main application state
type Model struct {
	title  string
	engine *rotation.Engine

	// Toasts
	toasts []Toast

	// Terminal size
	width  int
	height int

	// Styles
	styles *styles.Styles

	// Loading state (until the first refresh completes)
	loading  bool
	spinner  spinner.Model
	progress progress.Model

	// API reachability
	networkChecker *network.StatusChecker
	checkInterval  time.Duration
	isOnline       bool

	recorder Recorder
	logger   *slog.Logger

	// Set when the watchdog asked for a process reload
	reload bool
}

// New creates a new application model
func New(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	p := progress.New(
		progress.WithSolidFill(string(styles.Blue)),
		progress.WithoutPercentage(),
	)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := opts.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}

	title := opts.Title
	if title == "" {
		title = "Sluse"
	}

	return Model{
		title:          title,
		engine:         opts.Engine,
		styles:         styles.New(),
		loading:        true,
		spinner:        s,
		progress:       p,
		networkChecker: opts.Checker,
		checkInterval:  interval,
		isOnline:       true,
		recorder:       opts.Recorder,
		logger:         logger,
	}
}

// Init starts the first refresh, the tick loop and the reachability checks
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.engine.RefreshAll(),
		tickEvery(tickInterval),
	}
	if m.networkChecker != nil {
		cmds = append(cmds, m.networkChecker.CheckCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-2, 1)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.expireToasts()
		return m, tea.Batch(
			m.engine.Advance(),
			tickEvery(tickInterval),
		)

	case rotation.RefreshedMsg:
		m.engine.ApplyRefresh(msg)
		m.loading = false
		if failed := msg.Failed(); len(failed) > 0 {
			m.addPeriodToast(ToastWarning, "No data for", failed)
		}
		return m, m.recordCmd(msg)

	case rotation.ReloadMsg:
		m.logger.Info("reloading", "uptime", msg.Uptime)
		m.reload = true
		return m, tea.Quit

	case network.StatusMsg:
		m.isOnline = msg.Online
		if msg.Changed {
			if msg.Online {
				m.addToast(ToastSuccess, "Project API reachable again")
			} else {
				m.addToast(ToastError, "Project API unreachable")
			}
		}
		if m.networkChecker == nil {
			return m, nil
		}
		return m, m.networkChecker.CheckAfter(m.checkInterval)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		cmd := m.engine.RefreshAll()
		if cmd == nil {
			m.addToast(ToastInfo, "Refresh already running")
			return m, nil
		}
		return m, cmd
	}
	return m, nil
}

// ReloadRequested reports whether the program quit because the watchdog fired
func (m Model) ReloadRequested() bool {
	return m.reload
}

// Messages

type tickMsg time.Time

// tickEvery fires in sync with the system clock
func tickEvery(d time.Duration) tea.Cmd {
	return tea.Every(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// recordCmd writes one activity entry per period. Failures are logged only.
func (m Model) recordCmd(msg rotation.RefreshedMsg) tea.Cmd {
	if m.recorder == nil {
		return nil
	}

	entries := make([]domain.RefreshEntry, 0, len(msg.Results))
	for _, r := range msg.Results {
		e := domain.RefreshEntry{
			CycleID:   msg.CycleID,
			Period:    r.Period,
			Count:     len(r.Projects),
			Duration:  r.Duration,
			CreatedAt: msg.FinishedAt,
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		entries = append(entries, e)
	}

	recorder, logger := m.recorder, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := recorder.Log(ctx, entries); err != nil {
			logger.Warn("failed to record refresh", "cycle", msg.CycleID, "error", err)
		}
		return nil
	}
}

// addToast adds a toast notification to the list
func (m *Model) addToast(level ToastLevel, message string) {
	m.toasts = append(m.toasts, Toast{
		Level:   level,
		Message: message,
		Expires: m.engine.Now().Add(toastDuration),
	})
}

// addPeriodToast adds a toast naming the periods it concerns
func (m *Model) addPeriodToast(level ToastLevel, message string, periods []domain.Period) {
	m.toasts = append(m.toasts, Toast{
		Level:   level,
		Message: message,
		Periods: periods,
		Expires: m.engine.Now().Add(toastDuration),
	})
}

// expireToasts removes expired toasts from the list
func (m *Model) expireToasts() {
	now := m.engine.Now()
	filtered := make([]Toast, 0, len(m.toasts))

	for _, toast := range m.toasts {
		if toast.Active(now) {
			filtered = append(filtered, toast)
		}
	}

	m.toasts = filtered
}

