package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores or updates a run.
func (s *runStore) Save(ctx context.Context, run domain.RunRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, archive_hash, outcome, message)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			archive_hash = excluded.archive_hash,
			outcome = excluded.outcome,
			message = excluded.message
	`, run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.ArchiveHash, string(run.Outcome), run.Message)

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, archive_hash, outcome, message
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs, newest first.
// A non-positive limit returns every run.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, archive_hash, outcome, message
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.RunRecord, error) {
	var (
		run                 domain.RunRecord
		startedAt, finished string
		outcome             string
	)
	err := row.Scan(&run.ID, &startedAt, &finished, &run.ArchiveHash, &outcome, &run.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.FinishedAt, err = parseTime(finished); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	run.Outcome = domain.RunOutcome(outcome)

	return &run, nil
}

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}
