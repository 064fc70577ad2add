// Package rotation drives the rotating kiosk display.
//
// The Engine owns all display state: one page cursor per tracked period, a
// shared rotation countdown, the refresh-in-flight guard and the watchdog.
// It is meant to be driven from a single goroutine (the Bubble Tea update
// loop): Tick and ApplyRefresh mutate state there, while the command returned
// by RefreshAll performs the network calls elsewhere and reports back with a
// RefreshedMsg. No locking is needed because nothing else touches the state.
package rotation

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/riordanpawley/sluse/internal/core/pager"
	"github.com/riordanpawley/sluse/internal/domain"
)

// ClockLayout formats the clock readout
const ClockLayout = "15:04:05"

// Fetcher loads the project list for a period.
// Implementations return an empty list alongside any error.
type Fetcher interface {
	FetchPeriod(ctx context.Context, period domain.Period) ([]domain.Project, error)
}

// Settings are the fixed operational parameters of the display
type Settings struct {
	PageSize      int           // projects per page
	RotationTicks int           // ticks between page rotations
	StaleAfter    time.Duration // data age that triggers a background refresh
	Watchdog      time.Duration // uptime after which a reload is requested
}

// DefaultSettings returns the reference kiosk parameters
func DefaultSettings() Settings {
	return Settings{
		PageSize:      pager.DefaultPageSize,
		RotationTicks: 30,
		StaleAfter:    120 * time.Second,
		Watchdog:      6 * time.Hour,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.PageSize <= 0 {
		s.PageSize = d.PageSize
	}
	if s.RotationTicks <= 0 {
		s.RotationTicks = d.RotationTicks
	}
	if s.StaleAfter <= 0 {
		s.StaleAfter = d.StaleAfter
	}
	if s.Watchdog <= 0 {
		s.Watchdog = d.Watchdog
	}
	return s
}

// TickResult reports what a tick did
type TickResult struct {
	Rotated bool // page cursors advanced
	Stale   bool // data is older than StaleAfter
	Reload  bool // watchdog fired (at most once per engine)
}

// ReloadMsg asks the program to restart itself
type ReloadMsg struct {
	Uptime time.Duration
}

// panelState is the rotation state of one period
type panelState struct {
	period domain.Period
	pages  []pager.Page[domain.Project]
	index  int
	total  int
	err    error
}

// PanelView is a read-only snapshot of one panel for rendering
type PanelView struct {
	Period   domain.Period
	Projects []domain.Project // current page, nil when there are no pages
	Page     int              // 1-based page number, 0 when there are no pages
	Pages    int
	Total    int
	Err      error // last fetch error, nil on success
}

// Engine is the rotating display state machine
type Engine struct {
	fetcher  Fetcher
	clock    Clock
	logger   *slog.Logger
	settings Settings

	panels []*panelState

	countdown   int
	inFlight    bool
	cycleID     string
	lastRefresh time.Time
	startedAt   time.Time
	reloadSent  bool
	clockText   string
}

// New creates an Engine tracking the given periods in display order
func New(fetcher Fetcher, clock Clock, logger *slog.Logger, settings Settings, periods []domain.Period) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	settings = settings.withDefaults()

	panels := make([]*panelState, 0, len(periods))
	for _, p := range periods {
		panels = append(panels, &panelState{period: p, pages: []pager.Page[domain.Project]{}})
	}

	now := clock.Now()
	return &Engine{
		fetcher:   fetcher,
		clock:     clock,
		logger:    logger,
		settings:  settings,
		panels:    panels,
		countdown: settings.RotationTicks,
		startedAt: now,
		clockText: now.Format(ClockLayout),
	}
}

// Tick advances the engine by one second of display time.
//
// It updates the clock readout, decrements the shared countdown and rotates
// every panel when it runs out, reports staleness, and fires the watchdog
// exactly once when uptime reaches Settings.Watchdog.
func (e *Engine) Tick() TickResult {
	now := e.clock.Now()
	var res TickResult

	e.clockText = now.Format(ClockLayout)

	e.countdown--
	if e.countdown <= 0 {
		e.rotate()
		e.countdown = e.settings.RotationTicks
		res.Rotated = true
	}

	res.Stale = e.IsStale(now)

	if !e.reloadSent && now.Sub(e.startedAt) >= e.settings.Watchdog {
		e.reloadSent = true
		res.Reload = true
		e.logger.Info("watchdog fired, requesting reload", "uptime", now.Sub(e.startedAt))
	}

	return res
}

// Advance runs one Tick and returns the follow-up work: a refresh when the
// data is stale and a ReloadMsg when the watchdog fired.
func (e *Engine) Advance() tea.Cmd {
	res := e.Tick()

	var cmds []tea.Cmd
	if res.Stale {
		if cmd := e.RefreshAll(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if res.Reload {
		uptime := e.Uptime()
		cmds = append(cmds, func() tea.Msg {
			return ReloadMsg{Uptime: uptime}
		})
	}

	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// rotate advances every panel cursor, wrapping against its current page count
func (e *Engine) rotate() {
	for _, p := range e.panels {
		p.index = (p.index + 1) % max(1, len(p.pages))
	}
}

// IsStale reports whether the data needs a refresh at now
func (e *Engine) IsStale(now time.Time) bool {
	if e.lastRefresh.IsZero() {
		return true
	}
	return now.Sub(e.lastRefresh) > e.settings.StaleAfter
}

// Countdown returns the ticks left until the next rotation
func (e *Engine) Countdown() int {
	return e.countdown
}

// RotationProgress returns how far the current rotation interval has run, in [0, 1]
func (e *Engine) RotationProgress() float64 {
	total := e.settings.RotationTicks
	return float64(total-e.countdown) / float64(total)
}

// InFlight reports whether a refresh cycle is running
func (e *Engine) InFlight() bool {
	return e.inFlight
}

// LastRefresh returns when the last refresh cycle completed (zero if never)
func (e *Engine) LastRefresh() time.Time {
	return e.lastRefresh
}

// Now returns the engine clock's current time
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// DataAge returns the time since the last completed refresh, or -1 if none completed yet
func (e *Engine) DataAge() time.Duration {
	if e.lastRefresh.IsZero() {
		return -1
	}
	return e.clock.Now().Sub(e.lastRefresh)
}

// ClockText returns the clock readout of the last tick
func (e *Engine) ClockText() string {
	return e.clockText
}

// Uptime returns the time since the engine was created
func (e *Engine) Uptime() time.Duration {
	return e.clock.Now().Sub(e.startedAt)
}

// Settings returns the effective settings
func (e *Engine) Settings() Settings {
	return e.settings
}

// Periods returns the tracked periods in display order
func (e *Engine) Periods() []domain.Period {
	out := make([]domain.Period, len(e.panels))
	for i, p := range e.panels {
		out[i] = p.period
	}
	return out
}

// Panels returns a snapshot of every panel in display order
func (e *Engine) Panels() []PanelView {
	views := make([]PanelView, len(e.panels))
	for i, p := range e.panels {
		views[i] = p.view()
	}
	return views
}

// Panel returns the snapshot of one period's panel
func (e *Engine) Panel(period domain.Period) (PanelView, bool) {
	p := e.panel(period)
	if p == nil {
		return PanelView{}, false
	}
	return p.view(), true
}

func (e *Engine) panel(period domain.Period) *panelState {
	for _, p := range e.panels {
		if p.period == period {
			return p
		}
	}
	return nil
}

func (p *panelState) view() PanelView {
	v := PanelView{
		Period: p.period,
		Pages:  len(p.pages),
		Total:  p.total,
		Err:    p.err,
	}
	if len(p.pages) > 0 {
		idx := p.index % len(p.pages)
		v.Projects = p.pages[idx]
		v.Page = idx + 1
	}
	return v
}

// newCycleID returns an identifier for a refresh cycle
func newCycleID() string {
	return uuid.NewString()
}
