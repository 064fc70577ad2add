package rotation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/sluse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

// fakeFetcher serves canned project counts per period and counts calls
type fakeFetcher struct {
	mu     sync.Mutex
	counts map[domain.Period]int
	errs   map[domain.Period]error
	panics map[domain.Period]bool
	calls  map[domain.Period]int
}

func newFakeFetcher(counts map[domain.Period]int) *fakeFetcher {
	return &fakeFetcher{
		counts: counts,
		errs:   map[domain.Period]error{},
		panics: map[domain.Period]bool{},
		calls:  map[domain.Period]int{},
	}
}

func (f *fakeFetcher) FetchPeriod(ctx context.Context, period domain.Period) ([]domain.Project, error) {
	f.mu.Lock()
	f.calls[period]++
	n := f.counts[period]
	err := f.errs[period]
	panics := f.panics[period]
	f.mu.Unlock()

	if panics {
		panic("renderer exploded")
	}
	if err != nil {
		return []domain.Project{}, err
	}

	out := make([]domain.Project, n)
	for i := range out {
		out[i] = domain.Project{ID: int64(i), DisplayName: fmt.Sprintf("%s-%d", period, i)}
	}
	return out, nil
}

func (f *fakeFetcher) setCount(p domain.Period, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[p] = n
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func newTestEngine(f Fetcher, clock *ManualClock) *Engine {
	return New(f, clock, slog.Default(), DefaultSettings(), domain.KioskPeriods())
}

// refresh runs a full refresh cycle synchronously
func refresh(t *testing.T, e *Engine) RefreshedMsg {
	t.Helper()
	cmd := e.RefreshAll()
	require.NotNil(t, cmd, "refresh should start")
	msg, ok := cmd().(RefreshedMsg)
	require.True(t, ok, "refresh command should yield RefreshedMsg")
	e.ApplyRefresh(msg)
	return msg
}

// tickN advances the clock one second per tick and returns how many ticks rotated
func tickN(e *Engine, clock *ManualClock, n int) int {
	rotations := 0
	for i := 0; i < n; i++ {
		clock.Advance(time.Second)
		if e.Tick().Rotated {
			rotations++
		}
	}
	return rotations
}

func pageOf(t *testing.T, e *Engine, p domain.Period) PanelView {
	t.Helper()
	v, ok := e.Panel(p)
	require.True(t, ok)
	return v
}

func TestNew_Defaults(t *testing.T) {
	clock := NewManualClock(t0)
	e := New(newFakeFetcher(nil), clock, nil, Settings{}, domain.KioskPeriods())

	assert.Equal(t, DefaultSettings(), e.Settings())
	assert.Equal(t, 30, e.Countdown())
	assert.False(t, e.InFlight())
	assert.True(t, e.LastRefresh().IsZero())
	assert.Equal(t, domain.KioskPeriods(), e.Periods())
	assert.Equal(t, "08:00:00", e.ClockText())

	for _, v := range e.Panels() {
		assert.Equal(t, 0, v.Pages)
		assert.Equal(t, 0, v.Page)
		assert.Nil(t, v.Projects)
	}
}

func TestScenario_PageCountsAndRotation(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{
		domain.PeriodConfirmed:  23,
		domain.PeriodPrepped:    0,
		domain.PeriodOnLocation: 9,
		domain.PeriodDelayed:    10,
	})
	e := newTestEngine(f, clock)
	refresh(t, e)

	panels := e.Panels()
	require.Len(t, panels, 4)
	assert.Equal(t, []int{3, 0, 1, 2}, []int{panels[0].Pages, panels[1].Pages, panels[2].Pages, panels[3].Pages})
	assert.Equal(t, 23, panels[0].Total)
	assert.Len(t, panels[0].Projects, 9)

	// First rotation
	require.Equal(t, 1, tickN(e, clock, 30))
	assert.Equal(t, 0, pageOf(t, e, domain.PeriodPrepped).Page, "zero pages stays at the empty state")
	assert.Equal(t, 2, pageOf(t, e, domain.PeriodDelayed).Page)
	assert.Equal(t, 1, pageOf(t, e, domain.PeriodOnLocation).Page)
	assert.Equal(t, 2, pageOf(t, e, domain.PeriodConfirmed).Page)
	assert.Len(t, pageOf(t, e, domain.PeriodDelayed).Projects, 1)

	// Second rotation wraps the two-page panel back to the start
	require.Equal(t, 1, tickN(e, clock, 30))
	assert.Equal(t, 1, pageOf(t, e, domain.PeriodDelayed).Page)
	assert.Equal(t, 3, pageOf(t, e, domain.PeriodConfirmed).Page)
	assert.Equal(t, 0, pageOf(t, e, domain.PeriodPrepped).Page)
}

func TestRotation_PreservesOrderWithinPage(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{domain.PeriodConfirmed: 12})
	e := newTestEngine(f, clock)
	refresh(t, e)

	first := pageOf(t, e, domain.PeriodConfirmed).Projects
	require.Len(t, first, 9)
	for i, p := range first {
		assert.Equal(t, int64(i), p.ID)
	}

	tickN(e, clock, 30)
	second := pageOf(t, e, domain.PeriodConfirmed).Projects
	require.Len(t, second, 3)
	assert.Equal(t, int64(9), second[0].ID)
}

func TestIndexStaysValidAfterShrink(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{domain.PeriodConfirmed: 23})
	e := newTestEngine(f, clock)
	refresh(t, e)

	tickN(e, clock, 60)
	require.Equal(t, 3, pageOf(t, e, domain.PeriodConfirmed).Page)

	// 3 pages -> 2 pages: index 2 wraps to 0
	f.setCount(domain.PeriodConfirmed, 10)
	refresh(t, e)
	v := pageOf(t, e, domain.PeriodConfirmed)
	assert.Equal(t, 2, v.Pages)
	assert.Equal(t, 1, v.Page)

	// 2 pages -> 0 pages
	f.setCount(domain.PeriodConfirmed, 0)
	refresh(t, e)
	v = pageOf(t, e, domain.PeriodConfirmed)
	assert.Equal(t, 0, v.Pages)
	assert.Equal(t, 0, v.Page)
	assert.Nil(t, v.Projects)

	tickN(e, clock, 30)
	assert.Equal(t, 0, pageOf(t, e, domain.PeriodConfirmed).Page)
}

func TestIndexPreservedAcrossRefresh(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{domain.PeriodConfirmed: 30})
	e := newTestEngine(f, clock)
	refresh(t, e)

	tickN(e, clock, 60)
	require.Equal(t, 3, pageOf(t, e, domain.PeriodConfirmed).Page)

	refresh(t, e)
	assert.Equal(t, 3, pageOf(t, e, domain.PeriodConfirmed).Page, "refresh keeps the cursor when it is still valid")
}

func TestIndexAlwaysValid_RandomWalk(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{})
	e := newTestEngine(f, clock)
	rng := rand.New(rand.NewSource(42))

	for step := 0; step < 500; step++ {
		if rng.Intn(4) == 0 {
			for _, p := range domain.KioskPeriods() {
				f.setCount(p, rng.Intn(40))
			}
			refresh(t, e)
		} else {
			tickN(e, clock, 1+rng.Intn(45))
		}

		for _, v := range e.Panels() {
			if v.Pages == 0 {
				require.Equal(t, 0, v.Page, "step %d period %s", step, v.Period)
				require.Nil(t, v.Projects)
				continue
			}
			require.GreaterOrEqual(t, v.Page, 1, "step %d period %s", step, v.Period)
			require.LessOrEqual(t, v.Page, v.Pages, "step %d period %s", step, v.Period)
			require.NotEmpty(t, v.Projects)
		}
	}
}

func TestRefreshAll_WhileInFlightIsNoop(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{domain.PeriodConfirmed: 5})
	e := newTestEngine(f, clock)

	first := e.RefreshAll()
	require.NotNil(t, first)
	assert.True(t, e.InFlight())

	before := e.Panels()
	second := e.RefreshAll()
	assert.Nil(t, second, "second refresh must not start")
	assert.True(t, e.InFlight())
	assert.Equal(t, before, e.Panels())

	msg := first().(RefreshedMsg)
	assert.Equal(t, 4, f.totalCalls(), "exactly one fetch per period")
	for _, p := range domain.KioskPeriods() {
		assert.Equal(t, 1, f.calls[p])
	}

	e.ApplyRefresh(msg)
	assert.False(t, e.InFlight())
	assert.NotNil(t, e.RefreshAll(), "guard is released after apply")
}

func TestScenario_DelayedTimesOut(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{
		domain.PeriodConfirmed:  4,
		domain.PeriodPrepped:    12,
		domain.PeriodOnLocation: 1,
		domain.PeriodDelayed:    7,
	})
	f.errs[domain.PeriodDelayed] = &domain.QueryError{Op: "fetch", Period: domain.PeriodDelayed, Err: context.DeadlineExceeded}
	e := newTestEngine(f, clock)

	msg := refresh(t, e)
	assert.Equal(t, []domain.Period{domain.PeriodDelayed}, msg.Failed())

	delayed := pageOf(t, e, domain.PeriodDelayed)
	assert.Equal(t, 0, delayed.Pages)
	assert.Error(t, delayed.Err)
	assert.ErrorIs(t, delayed.Err, context.DeadlineExceeded)

	assert.Equal(t, 4, pageOf(t, e, domain.PeriodConfirmed).Total)
	assert.Equal(t, 2, pageOf(t, e, domain.PeriodPrepped).Pages)
	assert.Equal(t, 1, pageOf(t, e, domain.PeriodOnLocation).Total)
	assert.NoError(t, pageOf(t, e, domain.PeriodConfirmed).Err)
	assert.False(t, e.InFlight())
}

func TestRefresh_RecoversFromFetcherPanic(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{domain.PeriodConfirmed: 3})
	f.panics[domain.PeriodPrepped] = true
	e := newTestEngine(f, clock)

	msg := refresh(t, e)

	assert.Equal(t, []domain.Period{domain.PeriodPrepped}, msg.Failed())
	assert.Equal(t, 3, pageOf(t, e, domain.PeriodConfirmed).Total)
	assert.False(t, e.InFlight())
}

func TestApplyRefresh_IgnoresUntrackedPeriod(t *testing.T) {
	clock := NewManualClock(t0)
	e := newTestEngine(newFakeFetcher(nil), clock)
	require.NotNil(t, e.RefreshAll())

	e.ApplyRefresh(RefreshedMsg{
		Results: []PeriodResult{{Period: domain.PeriodTransport, Projects: make([]domain.Project, 3)}},
	})

	_, ok := e.Panel(domain.PeriodTransport)
	assert.False(t, ok)
	assert.False(t, e.InFlight())
	assert.Equal(t, t0, e.LastRefresh())
}

func TestCountdown_ExactlyBaseTicksBetweenRotations(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{domain.PeriodConfirmed: 20})
	e := newTestEngine(f, clock)

	var rotatedAt []int
	var pending tea.Cmd
	for tick := 1; tick <= 200; tick++ {
		clock.Advance(time.Second)
		res := e.Tick()
		if res.Rotated {
			rotatedAt = append(rotatedAt, tick)
		}

		// Interleave refresh cycles at awkward moments
		if tick%17 == 0 {
			if pending == nil {
				pending = e.RefreshAll()
			}
		}
		if tick%23 == 0 && pending != nil {
			e.ApplyRefresh(pending().(RefreshedMsg))
			pending = nil
		}
	}
	if pending != nil {
		e.ApplyRefresh(pending().(RefreshedMsg))
	}

	require.NotEmpty(t, rotatedAt)
	assert.Equal(t, 30, rotatedAt[0])
	for i := 1; i < len(rotatedAt); i++ {
		assert.Equal(t, 30, rotatedAt[i]-rotatedAt[i-1])
	}
}

func TestCountdown_Progress(t *testing.T) {
	clock := NewManualClock(t0)
	e := newTestEngine(newFakeFetcher(nil), clock)

	assert.InDelta(t, 0.0, e.RotationProgress(), 1e-9)
	tickN(e, clock, 15)
	assert.Equal(t, 15, e.Countdown())
	assert.InDelta(t, 0.5, e.RotationProgress(), 1e-9)
	tickN(e, clock, 15)
	assert.Equal(t, 30, e.Countdown())
}

func TestStaleness(t *testing.T) {
	clock := NewManualClock(t0)
	e := newTestEngine(newFakeFetcher(nil), clock)

	assert.True(t, e.IsStale(clock.Now()), "never refreshed is stale")

	refresh(t, e)
	clock.Advance(120 * time.Second)
	assert.False(t, e.Tick().Stale, "exactly at the threshold is not stale yet")

	clock.Advance(time.Second)
	assert.True(t, e.Tick().Stale)
}

func TestAdvance_StartsRefreshWhenStale(t *testing.T) {
	clock := NewManualClock(t0)
	f := newFakeFetcher(map[domain.Period]int{domain.PeriodConfirmed: 2})
	e := newTestEngine(f, clock)

	clock.Advance(time.Second)
	cmd := e.Advance()
	require.NotNil(t, cmd)
	assert.True(t, e.InFlight())

	// Still stale, but a refresh is already running
	clock.Advance(time.Second)
	assert.Nil(t, e.Advance())

	e.ApplyRefresh(cmd().(RefreshedMsg))
	clock.Advance(time.Second)
	assert.Nil(t, e.Advance(), "fresh data needs no refresh")
	assert.Equal(t, 4, f.totalCalls())
}

func TestScenario_WatchdogFiresOnceAtSixHours(t *testing.T) {
	clock := NewManualClock(t0)
	e := newTestEngine(newFakeFetcher(nil), clock)

	sixHours := int((6 * time.Hour) / time.Second)
	var firedAt []int
	for tick := 1; tick <= sixHours+3600; tick++ {
		clock.Advance(time.Second)
		if e.Tick().Reload {
			firedAt = append(firedAt, tick)
		}
	}

	assert.Equal(t, []int{sixHours}, firedAt)
}

func TestAdvance_EmitsReloadMsg(t *testing.T) {
	clock := NewManualClock(t0)
	settings := DefaultSettings()
	settings.Watchdog = 3 * time.Second
	e := New(newFakeFetcher(nil), clock, slog.Default(), settings, domain.KioskPeriods())

	// Keep the data fresh so only the watchdog produces work
	refresh(t, e)

	var reloads []ReloadMsg
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		cmd := e.Advance()
		if cmd == nil {
			continue
		}
		if msg, ok := cmd().(ReloadMsg); ok {
			reloads = append(reloads, msg)
		}
	}

	require.Len(t, reloads, 1)
	assert.Equal(t, 3*time.Second, reloads[0].Uptime)
}

func TestTick_UpdatesClockText(t *testing.T) {
	clock := NewManualClock(time.Date(2025, 3, 10, 23, 59, 58, 0, time.UTC))
	e := newTestEngine(newFakeFetcher(nil), clock)

	clock.Advance(time.Second)
	e.Tick()
	assert.Equal(t, "23:59:59", e.ClockText())

	clock.Advance(time.Second)
	e.Tick()
	assert.Equal(t, "00:00:00", e.ClockText())
}

func TestDataAge(t *testing.T) {
	clock := NewManualClock(t0)
	e := newTestEngine(newFakeFetcher(nil), clock)

	assert.Equal(t, time.Duration(-1), e.DataAge(), "no refresh yet")

	refresh(t, e)
	clock.Advance(42 * time.Second)
	assert.Equal(t, 42*time.Second, e.DataAge())
	assert.Equal(t, clock.Now(), e.Now())
}
