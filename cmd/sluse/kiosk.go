package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/sluse/internal/app"
	"github.com/riordanpawley/sluse/internal/logging"
	"github.com/riordanpawley/sluse/internal/services/network"
	"github.com/riordanpawley/sluse/internal/services/projects"
	"github.com/riordanpawley/sluse/internal/services/rotation"
	"github.com/riordanpawley/sluse/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var kioskCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Run the rotating bay board (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKiosk(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(kioskCmd)
}

func runKiosk(ctx context.Context) error {
	logger, logFile, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	res := &resources{}
	res.add(logFile)
	defer res.Close()

	gateway, err := projects.NewGateway(cfg.API.BaseURL, logger, projects.WithTimeout(cfg.API.Timeout()))
	if err != nil {
		return err
	}

	periods, err := cfg.Display.PeriodList()
	if err != nil {
		return err
	}

	engine := rotation.New(gateway, rotation.SystemClock{}, logger, cfg.Display.Settings(), periods)

	opts := app.Options{
		Title:         cfg.Display.Title,
		Engine:        engine,
		CheckInterval: cfg.Network.Interval(),
		Logger:        logger,
	}

	if healthURL, err := cfg.API.HealthURL(); err == nil {
		opts.Checker = network.NewStatusChecker(healthURL, logger)
	} else {
		logger.Warn("api reachability checks disabled", "error", err)
	}

	// The activity log is optional; the board runs without it
	db, err := openStore(ctx, cfg.Store.Path, cfg.Store.Retention())
	if err != nil {
		logger.Warn("refresh activity log disabled", "path", cfg.Store.Path, "error", err)
	} else {
		res.add(db)
		opts.Recorder = sqlite.NewRefreshLogRepository(db)
	}

	logger.Info("kiosk starting", "api", gateway.BaseURL(), "periods", periods)

	program := tea.NewProgram(app.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			logger.Info("kiosk stopped by signal")
			return nil
		}
		return fmt.Errorf("error running program: %w", err)
	}

	if m, ok := final.(app.Model); ok && m.ReloadRequested() {
		logger.Info("watchdog reload", "uptime", engine.Uptime())
		// release the store and log file before exec
		res.Close()
		return reexec()
	}
	return nil
}

// resources are closed once, in reverse order, however many times Close runs
type resources struct {
	closers []io.Closer
	closed  bool
}

func (r *resources) add(c io.Closer) {
	r.closers = append(r.closers, c)
}

// Close closes every resource on the first call and does nothing afterwards
func (r *resources) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openStore opens the activity database and drops entries past retention
func openStore(ctx context.Context, path string, retention time.Duration) (*sqlite.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}

	if retention > 0 {
		repo := sqlite.NewRefreshLogRepository(db)
		if _, err := repo.Prune(ctx, time.Now().Add(-retention)); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
