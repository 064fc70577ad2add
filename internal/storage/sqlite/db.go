// Package sqlite stores the kiosk's refresh activity log in a local SQLite file.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New opens (or creates) the database at dataSourceName and applies the schema
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	wrapped := &DB{db}
	if err := wrapped.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return wrapped, nil
}

// RunMigrations creates the schema if it does not exist yet
func (db *DB) RunMigrations() error {
	migration := `
CREATE TABLE IF NOT EXISTS refresh_log (
    id TEXT PRIMARY KEY,
    cycle_id TEXT NOT NULL,
    period TEXT NOT NULL,
    item_count INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_refresh_log_cycle ON refresh_log(cycle_id);
CREATE INDEX IF NOT EXISTS idx_refresh_log_period ON refresh_log(period);
CREATE INDEX IF NOT EXISTS idx_refresh_log_created ON refresh_log(created_at);
`
	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
