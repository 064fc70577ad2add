// Package network tracks whether the project API is reachable.
package network

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds a single reachability probe
const DefaultTimeout = 5 * time.Second

// StatusChecker monitors reachability of a health endpoint
type StatusChecker struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger

	mu        sync.RWMutex
	isOnline  bool
	lastCheck time.Time
}

// StatusMsg carries the result of a reachability check
type StatusMsg struct {
	Online    bool
	Changed   bool // differs from the previous check
	CheckedAt time.Time
}

// NewStatusChecker creates a checker probing url
func NewStatusChecker(url string, logger *slog.Logger) *StatusChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusChecker{
		url:      url,
		timeout:  DefaultTimeout,
		isOnline: true, // Optimistically assume online
		logger:   logger,
		client: &http.Client{
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
	}
}

// URL returns the probed endpoint
func (s *StatusChecker) URL() string {
	return s.url
}

// Check performs one GET against the health endpoint.
// Any 2xx or 3xx response counts as online.
func (s *StatusChecker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		s.logger.Warn("health check request invalid", "url", s.url, "error", err)
		return s.setOnline(false)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("health check failed", "url", s.url, "error", err)
		return s.setOnline(false)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return s.setOnline(resp.StatusCode >= 200 && resp.StatusCode < 400)
}

// IsOnline returns the cached online status
func (s *StatusChecker) IsOnline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOnline
}

// LastCheck returns the time of the last connectivity check
func (s *StatusChecker) LastCheck() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCheck
}

// setOnline updates the cached status and returns it
func (s *StatusChecker) setOnline(online bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if online != s.isOnline {
		s.logger.Info("api reachability changed", "url", s.url, "online", online)
	}
	s.isOnline = online
	s.lastCheck = time.Now()
	return online
}

func (s *StatusChecker) probe() StatusMsg {
	was := s.IsOnline()
	online := s.Check(context.Background())
	return StatusMsg{Online: online, Changed: online != was, CheckedAt: s.LastCheck()}
}

// CheckCmd returns a tea.Cmd that performs a one-time connectivity check
func (s *StatusChecker) CheckCmd() tea.Cmd {
	return func() tea.Msg {
		return s.probe()
	}
}

// CheckAfter returns a tea.Cmd that checks once interval has elapsed.
// The caller schedules the next check when the StatusMsg arrives.
func (s *StatusChecker) CheckAfter(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return s.probe()
	})
}
