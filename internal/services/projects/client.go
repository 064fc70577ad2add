package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riordanpawley/sluse/internal/core/periods"
	"github.com/riordanpawley/sluse/internal/domain"
)

// DefaultTimeout bounds a single period fetch
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 8 << 20

// Gateway fetches period-scoped project lists from the project API.
// Every call is independent; a Gateway is safe for concurrent use.
type Gateway struct {
	baseURL *url.URL
	client  *http.Client
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Gateway
type Option func(*Gateway)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		g.client = c
	}
}

// WithTimeout overrides the per-fetch timeout
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithNow overrides the clock used to compute period windows
func WithNow(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// NewGateway creates a new Gateway for the API rooted at baseURL
func NewGateway(baseURL string, logger *slog.Logger, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid project API url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid project API url %q: scheme must be http or https", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Gateway{
		baseURL: u,
		client:  &http.Client{},
		timeout: DefaultTimeout,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// FetchPeriod fetches the projects for a period.
//
// On any failure (timeout, transport error, non-2xx status, malformed JSON) it
// returns an empty, non-nil slice together with a *domain.QueryError. Callers
// that only care about the display can ignore the error.
func (g *Gateway) FetchPeriod(ctx context.Context, period domain.Period) ([]domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	projects, err := g.fetch(ctx, period)
	if err != nil {
		g.logger.Warn("period fetch failed", "period", period, "error", err)
		return []domain.Project{}, err
	}

	g.logger.Debug("fetched period", "period", period, "count", len(projects))
	return projects, nil
}

func (g *Gateway) fetch(ctx context.Context, period domain.Period) ([]domain.Project, error) {
	endpoint := g.PeriodURL(period, g.now())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.QueryError{Op: "request", Period: period, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &domain.QueryError{Op: "fetch", Period: period, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &domain.QueryError{Op: "status", Period: period, Status: resp.StatusCode, Err: domain.ErrBadStatus}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.QueryError{Op: "fetch", Period: period, Message: "failed to read body", Err: err}
	}

	var projects []domain.Project
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, &domain.QueryError{Op: "decode", Period: period, Message: "failed to parse JSON", Err: err}
	}
	if projects == nil {
		// A literal null is treated like an empty list
		projects = []domain.Project{}
	}
	return projects, nil
}

// PeriodURL builds the endpoint for a period, e.g.
// https://api.example/kiosk/delayed?from=2025-02-08&to=2025-03-09
func (g *Gateway) PeriodURL(period domain.Period, now time.Time) string {
	w := periods.Window(now, period)

	u := *g.baseURL
	u.Path = u.Path + "/" + url.PathEscape(period.String())
	q := u.Query()
	q.Set("from", w.From())
	q.Set("to", w.To())
	u.RawQuery = q.Encode()
	return u.String()
}

// BaseURL returns the API root
func (g *Gateway) BaseURL() string {
	return g.baseURL.String()
}
