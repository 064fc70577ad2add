// Package diagnostics checks the health of the kiosk's dependencies
package diagnostics

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/riordanpawley/sluse/internal/domain"
	"golang.org/x/sync/errgroup"
)

// HealthStatus represents the overall health state
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
	HealthCritical HealthStatus = "critical"
)

// activitySample is how many log rows the store check inspects
const activitySample = 50

// NetworkInfo represents project API reachability
type NetworkInfo struct {
	URL         string
	IsOnline    bool
	LastCheck   time.Time
	Latency     time.Duration
	HealthState HealthStatus
}

// PeriodProbe is the outcome of one test query
type PeriodProbe struct {
	Period  domain.Period
	Count   int
	Latency time.Duration
	Err     error
}

// StoreInfo summarises the refresh activity log
type StoreInfo struct {
	Enabled        bool
	Entries        int // rows inspected
	LastRefresh    time.Time
	RecentFailures int
	Err            error
}

// SystemInfo represents overall system information
type SystemInfo struct {
	GoVersion    string
	OS           string
	Arch         string
	NumGoroutine int
	MemoryUsage  uint64 // Bytes
}

// SystemDiagnostics contains all diagnostic information
type SystemDiagnostics struct {
	Timestamp    time.Time
	OverallState HealthStatus
	Network      NetworkInfo
	Periods      []PeriodProbe
	Store        StoreInfo
	System       SystemInfo
	Warnings     []string
	Errors       []string
}

// Fetcher queries one period
type Fetcher interface {
	FetchPeriod(ctx context.Context, period domain.Period) ([]domain.Project, error)
}

// NetworkChecker probes the API health endpoint
type NetworkChecker interface {
	Check(ctx context.Context) bool
	LastCheck() time.Time
	URL() string
}

// ActivityStore reads the refresh activity log
type ActivityStore interface {
	List(ctx context.Context, opts domain.ListRefreshOptions) ([]domain.RefreshEntry, error)
}

// Service provides system diagnostics and health monitoring
type Service struct {
	mu sync.RWMutex

	// Dependencies
	fetcher        Fetcher
	networkChecker NetworkChecker // optional
	store          ActivityStore  // optional
	periods        []domain.Period

	// Cached diagnostics
	lastDiagnostics *SystemDiagnostics
	lastUpdate      time.Time
}

// NewService creates a new diagnostics service probing the given periods
func NewService(fetcher Fetcher, network NetworkChecker, store ActivityStore, periods []domain.Period) *Service {
	return &Service{
		fetcher:        fetcher,
		networkChecker: network,
		store:          store,
		periods:        periods,
	}
}

// GetSystemStatus returns the overall system health status
func (s *Service) GetSystemStatus(ctx context.Context) HealthStatus {
	return s.CollectDiagnostics(ctx).OverallState
}

// ProbePeriods queries every period concurrently and reports each outcome
func (s *Service) ProbePeriods(ctx context.Context) []PeriodProbe {
	probes := make([]PeriodProbe, len(s.periods))

	var g errgroup.Group
	for i, p := range s.periods {
		g.Go(func() error {
			start := time.Now()
			list, err := s.fetcher.FetchPeriod(ctx, p)
			probes[i] = PeriodProbe{Period: p, Count: len(list), Latency: time.Since(start), Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return probes
}

// GetStoreStatus summarises recent refresh activity
func (s *Service) GetStoreStatus(ctx context.Context) StoreInfo {
	if s.store == nil {
		return StoreInfo{}
	}

	info := StoreInfo{Enabled: true}
	entries, err := s.store.List(ctx, domain.ListRefreshOptions{Limit: activitySample})
	if err != nil {
		info.Err = err
		return info
	}

	info.Entries = len(entries)
	for _, e := range entries {
		if e.CreatedAt.After(info.LastRefresh) {
			info.LastRefresh = e.CreatedAt
		}
		if e.Failed() {
			info.RecentFailures++
		}
	}
	return info
}

// CollectDiagnostics gathers all diagnostic information
func (s *Service) CollectDiagnostics(ctx context.Context) *SystemDiagnostics {
	now := time.Now()

	var warnings []string
	var errors []string

	// Network
	var network NetworkInfo
	if s.networkChecker != nil {
		start := time.Now()
		network.URL = s.networkChecker.URL()
		network.IsOnline = s.networkChecker.Check(ctx)
		network.Latency = time.Since(start)
		network.LastCheck = s.networkChecker.LastCheck()

		if !network.IsOnline {
			network.HealthState = HealthCritical
			errors = append(errors, fmt.Sprintf("Project API unreachable at %s", network.URL))
		} else {
			network.HealthState = HealthHealthy
		}
	} else {
		warnings = append(warnings, "Reachability check not configured")
	}

	// Periods
	probes := s.ProbePeriods(ctx)
	failed := 0
	for _, p := range probes {
		if p.Err != nil {
			failed++
			warnings = append(warnings, fmt.Sprintf("Query %s failed: %v", p.Period, p.Err))
		}
	}
	if len(probes) > 0 && failed == len(probes) {
		errors = append(errors, "Every period query failed")
	}

	// Store
	store := s.GetStoreStatus(ctx)
	switch {
	case !store.Enabled:
		warnings = append(warnings, "Activity log disabled")
	case store.Err != nil:
		warnings = append(warnings, fmt.Sprintf("Activity log unreadable: %v", store.Err))
	case store.RecentFailures > 0:
		warnings = append(warnings, fmt.Sprintf("%d of the last %d fetches failed", store.RecentFailures, store.Entries))
	}

	// Collect system information
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	system := SystemInfo{
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		NumGoroutine: runtime.NumGoroutine(),
		MemoryUsage:  memStats.Alloc,
	}

	// Determine overall health state
	overallState := HealthHealthy
	if len(errors) > 0 {
		overallState = HealthCritical
	} else if len(warnings) > 0 {
		overallState = HealthDegraded
	}

	diag := &SystemDiagnostics{
		Timestamp:    now,
		OverallState: overallState,
		Network:      network,
		Periods:      probes,
		Store:        store,
		System:       system,
		Warnings:     warnings,
		Errors:       errors,
	}

	s.mu.Lock()
	s.lastDiagnostics = diag
	s.lastUpdate = now
	s.mu.Unlock()

	return diag
}

// FormatDiagnostics returns a human-readable diagnostics report
func (s *Service) FormatDiagnostics(diag *SystemDiagnostics) string {
	var b strings.Builder

	// Overall status
	b.WriteString(fmt.Sprintf("System Status: %s\n", strings.ToUpper(string(diag.OverallState))))
	b.WriteString(fmt.Sprintf("Last Updated: %s\n\n", diag.Timestamp.Format("15:04:05")))

	// Errors
	if len(diag.Errors) > 0 {
		b.WriteString("ERRORS:\n")
		for _, err := range diag.Errors {
			b.WriteString(fmt.Sprintf("  ✗ %s\n", err))
		}
		b.WriteString("\n")
	}

	// Warnings
	if len(diag.Warnings) > 0 {
		b.WriteString("WARNINGS:\n")
		for _, warn := range diag.Warnings {
			b.WriteString(fmt.Sprintf("  ⚠ %s\n", warn))
		}
		b.WriteString("\n")
	}

	// Network
	if diag.Network.URL != "" {
		b.WriteString("API:\n")
		if diag.Network.IsOnline {
			b.WriteString(fmt.Sprintf("  ✓ Online (%s)\n", diag.Network.Latency.Round(time.Millisecond)))
		} else {
			b.WriteString("  ✗ Offline\n")
		}
		b.WriteString(fmt.Sprintf("  Health: %s\n\n", diag.Network.URL))
	}

	// Periods
	b.WriteString(fmt.Sprintf("PERIODS: %d probed\n", len(diag.Periods)))
	for _, p := range diag.Periods {
		if p.Err != nil {
			b.WriteString(fmt.Sprintf("  ✗ %s: failed after %s\n", p.Period, p.Latency.Round(time.Millisecond)))
			continue
		}
		b.WriteString(fmt.Sprintf("  ✓ %s: %d projects (%s)\n", p.Period, p.Count, p.Latency.Round(time.Millisecond)))
	}
	b.WriteString("\n")

	// Store
	b.WriteString("ACTIVITY LOG:\n")
	switch {
	case !diag.Store.Enabled:
		b.WriteString("  (disabled)\n")
	case diag.Store.Entries == 0:
		b.WriteString("  (empty)\n")
	default:
		age := diag.Timestamp.Sub(diag.Store.LastRefresh)
		b.WriteString(fmt.Sprintf("  Last refresh: %s (%s ago)\n", diag.Store.LastRefresh.Local().Format("2006-01-02 15:04:05"), formatDuration(age)))
		b.WriteString(fmt.Sprintf("  Recent failures: %d/%d\n", diag.Store.RecentFailures, diag.Store.Entries))
	}
	b.WriteString("\n")

	// System
	b.WriteString("SYSTEM:\n")
	b.WriteString(fmt.Sprintf("  Go: %s\n", diag.System.GoVersion))
	b.WriteString(fmt.Sprintf("  OS: %s/%s\n", diag.System.OS, diag.System.Arch))
	b.WriteString(fmt.Sprintf("  Goroutines: %d\n", diag.System.NumGoroutine))
	b.WriteString(fmt.Sprintf("  Memory: %s\n", formatBytes(diag.System.MemoryUsage)))

	return b.String()
}

// GetCachedDiagnostics returns the last collected diagnostics without refresh
func (s *Service) GetCachedDiagnostics() *SystemDiagnostics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastDiagnostics
}

// Helper functions

// formatDuration formats a duration in a human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// formatBytes formats bytes in a human-readable format
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
