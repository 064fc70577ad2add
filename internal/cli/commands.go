// Package cli implements the one-shot sluse commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/riordanpawley/sluse/internal/config"
	"github.com/riordanpawley/sluse/internal/core/periods"
	"github.com/riordanpawley/sluse/internal/domain"
	"github.com/riordanpawley/sluse/internal/services/diagnostics"
	"github.com/riordanpawley/sluse/internal/services/network"
	"github.com/riordanpawley/sluse/internal/services/projects"
	"github.com/riordanpawley/sluse/internal/services/rotation"
	"github.com/riordanpawley/sluse/internal/storage/sqlite"
)

// ActivityStore reads the refresh activity log
type ActivityStore interface {
	List(ctx context.Context, opts domain.ListRefreshOptions) ([]domain.RefreshEntry, error)
}

// Dependencies holds all the services needed for CLI commands
type Dependencies struct {
	Config   *config.Config
	Projects rotation.Fetcher
	Activity ActivityStore
	Checker  diagnostics.NetworkChecker
	Logger   *slog.Logger
	Out      io.Writer
	Now      func() time.Time

	db *sqlite.DB
}

// NewDependencies creates the project gateway and opens the activity store
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	if logger == nil {
		logger = slog.Default()
	}

	gateway, err := projects.NewGateway(cfg.API.BaseURL, logger, projects.WithTimeout(cfg.API.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("failed to create project gateway: %w", err)
	}
	healthURL, err := cfg.API.HealthURL()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config:   cfg,
		Projects: gateway,
		Activity: sqlite.NewRefreshLogRepository(db),
		Checker:  network.NewStatusChecker(healthURL, logger),
		Logger:   logger,
		Out:      os.Stdout,
		Now:      time.Now,
		db:       db,
	}, nil
}

// Close releases the activity store
func (d *Dependencies) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// PeriodsCommand prints the date window of every period as of now.
// Periods shown on the kiosk are marked with "*".
func PeriodsCommand(deps *Dependencies) error {
	now := deps.Now()

	shown := map[domain.Period]bool{}
	if list, err := deps.Config.Display.PeriodList(); err == nil {
		for _, p := range list {
			shown[p] = true
		}
	}

	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(deps.Out, "%s %s\n\n", bold("Periods as of"), now.Format(periods.DateLayout))

	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " \tPERIOD\tLABEL\tFROM\tTO\tDAYS")
	for _, p := range domain.AllPeriods() {
		r := periods.Window(now, p)
		mark := " "
		if shown[p] {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			mark, cyan(string(p)), p.Label(), r.From(), r.To(), r.Days())
	}
	return w.Flush()
}

// FetchCommand queries one period once and prints the projects.
// Unlike the kiosk, a failed query is reported as an error.
func FetchCommand(ctx context.Context, deps *Dependencies, periodName string, asJSON bool) error {
	period, err := domain.ParsePeriod(periodName)
	if err != nil {
		return err
	}

	list, err := deps.Projects.FetchPeriod(ctx, period)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(deps.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	r := periods.Window(deps.Now(), period)
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(deps.Out, "%s: %s (%s)\n\n", period.Label(), green(fmt.Sprintf("%d projects", len(list))), r)

	if len(list) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBAY\tTITLE\tPREP\tPACK")
	for _, p := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Occupancy, p.Title(), phaseText(p.Prep()), phaseText(p.Pack()))
	}
	return w.Flush()
}

// ActivityCommand prints recent refresh activity, newest first
func ActivityCommand(ctx context.Context, deps *Dependencies, opts domain.ListRefreshOptions) error {
	entries, err := deps.Activity.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list activity: %w", err)
	}

	if len(entries) == 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(deps.Out, "%s\n", yellow("No refresh activity recorded"))
		return nil
	}

	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCYCLE\tPERIOD\tCOUNT\tDURATION\tRESULT")
	for _, e := range entries {
		result := green("ok")
		if e.Failed() {
			result = red(e.Error)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(e.CycleID),
			e.Period,
			e.Count,
			e.Duration.Round(time.Millisecond),
			result,
		)
	}
	return w.Flush()
}

// DoctorCommand probes the API, every kiosk period and the activity log,
// then prints a health report. A critical result is returned as an error.
func DoctorCommand(ctx context.Context, deps *Dependencies) error {
	list, err := deps.Config.Display.PeriodList()
	if err != nil {
		return err
	}

	svc := diagnostics.NewService(deps.Projects, deps.Checker, deps.Activity, list)
	diag := svc.CollectDiagnostics(ctx)

	fmt.Fprint(deps.Out, svc.FormatDiagnostics(diag))

	if diag.OverallState == diagnostics.HealthCritical {
		return fmt.Errorf("system status %s", diag.OverallState)
	}
	return nil
}

func phaseText(ph domain.Phase) string {
	if ph.Start == nil && ph.End == nil {
		return "-"
	}
	const layout = "01-02 15:04"
	start, end := "?", "?"
	if ph.Start != nil {
		start = ph.Start.Local().Format(layout)
	}
	if ph.End != nil {
		end = ph.End.Local().Format(layout)
	}
	return start + ".." + end
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
