package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riordanpawley/sluse/internal/domain"
)

// defaultListLimit caps List when no limit is given
const defaultListLimit = 50

// RefreshLogRepository persists refresh cycle outcomes
type RefreshLogRepository struct {
	db *DB
}

// NewRefreshLogRepository creates a new RefreshLogRepository
func NewRefreshLogRepository(db *DB) *RefreshLogRepository {
	return &RefreshLogRepository{db: db}
}

// Log inserts the entries of one refresh cycle in a single transaction.
// Missing IDs and timestamps are filled in on the passed entries.
func (r *RefreshLogRepository) Log(ctx context.Context, entries []domain.RefreshEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "log", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO refresh_log (id, cycle_id, period, item_count, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &domain.StoreError{Op: "log", Err: err}
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}

		if _, err := stmt.ExecContext(ctx,
			e.ID,
			e.CycleID,
			string(e.Period),
			e.Count,
			e.Error,
			e.Duration.Milliseconds(),
			e.CreatedAt.UTC(),
		); err != nil {
			return &domain.StoreError{Op: "log", Err: fmt.Errorf("insert %s: %w", e.Period, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "log", Err: err}
	}
	return nil
}

// List returns the most recent entries first
func (r *RefreshLogRepository) List(ctx context.Context, opts domain.ListRefreshOptions) ([]domain.RefreshEntry, error) {
	query := `
		SELECT id, cycle_id, period, item_count, error, duration_ms, created_at
		FROM refresh_log
	`

	var conditions []string
	var args []interface{}
	if opts.Period != "" {
		conditions = append(conditions, "period = ?")
		args = append(args, string(opts.Period))
	}
	if opts.FailedOnly {
		conditions = append(conditions, "error != ''")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	entries := []domain.RefreshEntry{}
	for rows.Next() {
		var (
			e          domain.RefreshEntry
			period     string
			durationMs int64
		)
		if err := rows.Scan(&e.ID, &e.CycleID, &period, &e.Count, &e.Error, &durationMs, &e.CreatedAt); err != nil {
			return nil, &domain.StoreError{Op: "list", Err: err}
		}
		e.Period = domain.Period(period)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	return entries, nil
}

// Prune deletes entries older than cutoff and returns how many were removed
func (r *RefreshLogRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_log WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, &domain.StoreError{Op: "prune", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &domain.StoreError{Op: "prune", Err: err}
	}
	return n, nil
}
