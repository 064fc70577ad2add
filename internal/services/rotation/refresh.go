package rotation

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/sluse/internal/core/pager"
	"github.com/riordanpawley/sluse/internal/domain"
	"golang.org/x/sync/errgroup"
)

// PeriodResult is the outcome of fetching one period in a refresh cycle
type PeriodResult struct {
	Period   domain.Period
	Projects []domain.Project
	Err      error
	Duration time.Duration
}

// RefreshedMsg is sent when a refresh cycle has fetched every period
type RefreshedMsg struct {
	CycleID    string
	Results    []PeriodResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Failed returns the periods whose fetch failed
func (m RefreshedMsg) Failed() []domain.Period {
	var failed []domain.Period
	for _, r := range m.Results {
		if r.Err != nil {
			failed = append(failed, r.Period)
		}
	}
	return failed
}

// RefreshAll starts a refresh cycle for every tracked period.
//
// If a cycle is already in flight it returns nil and does nothing else.
// Otherwise it marks the engine in flight and returns a command that fetches
// all periods concurrently and always yields a RefreshedMsg, which must be
// handed to ApplyRefresh.
func (e *Engine) RefreshAll() tea.Cmd {
	if e.inFlight {
		e.logger.Debug("refresh already in flight", "cycle", e.cycleID)
		return nil
	}

	e.inFlight = true
	e.cycleID = newCycleID()

	cycleID := e.cycleID
	periods := e.Periods()
	fetcher := e.fetcher
	clock := e.clock

	e.logger.Debug("refresh started", "cycle", cycleID, "periods", len(periods))

	return func() tea.Msg {
		return fetchAll(context.Background(), fetcher, clock, cycleID, periods)
	}
}

// fetchAll fetches every period concurrently and waits for all of them.
// A failing period never cancels or fails its siblings.
func fetchAll(ctx context.Context, fetcher Fetcher, clock Clock, cycleID string, periods []domain.Period) (msg RefreshedMsg) {
	msg = RefreshedMsg{
		CycleID:   cycleID,
		Results:   make([]PeriodResult, len(periods)),
		StartedAt: clock.Now(),
	}

	var g errgroup.Group
	for i, p := range periods {
		g.Go(func() error {
			msg.Results[i] = fetchOne(ctx, fetcher, clock, p)
			return nil
		})
	}
	_ = g.Wait()

	msg.FinishedAt = clock.Now()
	return msg
}

func fetchOne(ctx context.Context, fetcher Fetcher, clock Clock, period domain.Period) (res PeriodResult) {
	start := clock.Now()
	res.Period = period

	defer func() {
		if r := recover(); r != nil {
			res.Projects = []domain.Project{}
			res.Err = fmt.Errorf("fetch %s panicked: %v", period, r)
		}
		res.Duration = clock.Now().Sub(start)
	}()

	projects, err := fetcher.FetchPeriod(ctx, period)
	if err != nil || projects == nil {
		projects = []domain.Project{}
	}
	res.Projects = projects
	res.Err = err
	return res
}

// ApplyRefresh installs the results of a refresh cycle.
//
// Each period's pages are replaced wholesale; its cursor is kept and wrapped
// against the new page count. The countdown is not touched. The in-flight
// guard is always released, even if applying panics.
func (e *Engine) ApplyRefresh(msg RefreshedMsg) {
	defer func() {
		e.inFlight = false
		e.cycleID = ""
	}()

	for _, r := range msg.Results {
		p := e.panel(r.Period)
		if p == nil {
			e.logger.Warn("refresh result for untracked period", "cycle", msg.CycleID, "period", r.Period)
			continue
		}

		p.pages = pager.Paginate(r.Projects, e.settings.PageSize)
		p.total = len(r.Projects)
		p.err = r.Err
		p.index = p.index % max(1, len(p.pages))

		if r.Err != nil {
			e.logger.Warn("period refresh failed, showing no data", "cycle", msg.CycleID, "period", r.Period, "error", r.Err)
		}
	}

	e.lastRefresh = e.clock.Now()
	e.logger.Info("refresh applied",
		"cycle", msg.CycleID,
		"failed", len(msg.Failed()),
		"took", msg.FinishedAt.Sub(msg.StartedAt),
	)
}
