package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createRecentFiles = `
CREATE TABLE IF NOT EXISTS recent_files (
	path         TEXT PRIMARY KEY,
	opened_at    TIMESTAMPTZ NOT NULL,
	row_count    INTEGER NOT NULL DEFAULT 0,
	column_count INTEGER NOT NULL DEFAULT 0
)`

const upsertRecentFile = `
INSERT INTO recent_files (path, opened_at, row_count, column_count)
VALUES ($1, $2, $3, $4)
ON CONFLICT (path) DO UPDATE
SET opened_at = EXCLUDED.opened_at,
    row_count = EXCLUDED.row_count,
    column_count = EXCLUDED.column_count`

// Entries past the limit are deleted on every Add so the table stays small.
const trimRecentFiles = `
DELETE FROM recent_files
WHERE path NOT IN (
	SELECT path FROM recent_files ORDER BY opened_at DESC, path LIMIT $1
)`

const listRecentFiles = `
SELECT path, opened_at, row_count, column_count
FROM recent_files
ORDER BY opened_at DESC, path
LIMIT $1`

// PGStore keeps recent files in the recent_files table.
type PGStore struct {
	pool      *pgxpool.Pool
	maxRecent int
}

// NewPGStore creates the recent_files table if needed. The pool is owned by
// the caller; Close does not close it.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool, maxRecent int) (*PGStore, error) {
	if maxRecent <= 0 {
		maxRecent = DefaultMaxRecentFiles
	}
	if _, err := pool.Exec(ctx, createRecentFiles); err != nil {
		return nil, fmt.Errorf("create recent_files: %w", err)
	}
	return &PGStore{pool: pool, maxRecent: maxRecent}, nil
}

// Add upserts e and trims the table in one transaction.
func (s *PGStore) Add(ctx context.Context, e Entry) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertRecentFile, e.Path, e.OpenedAt, e.Rows, e.Columns); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, trimRecentFiles, s.maxRecent)
		return err
	})
	if err != nil {
		return fmt.Errorf("add recent file: %w", err)
	}
	return nil
}

// List returns the newest entries first.
func (s *PGStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, listRecentFiles, s.maxRecent)
	if err != nil {
		return nil, fmt.Errorf("list recent files: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.Path, &e.OpenedAt, &e.Rows, &e.Columns)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("list recent files: %w", err)
	}
	return entries, nil
}

func (s *PGStore) Close() error { return nil }
