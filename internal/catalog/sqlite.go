//go:build sqlite

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveCapture(ctx context.Context, c Capture) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO captures (id, run_id, params, divisor, score, oscillators, missing, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			score = excluded.score,
			oscillators = excluded.oscillators,
			missing = excluded.missing,
			path = excluded.path
	`, c.ID, c.RunID, c.Params, c.Divisor, c.Score, c.Oscillators, c.Missing, c.Path, c.CreatedAt.UTC().UnixNano())
	return err
}

func (s *SQLiteStore) TopCaptures(ctx context.Context, limit int) ([]Capture, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, run_id, params, divisor, score, oscillators, missing, path, created_at
		FROM captures
		ORDER BY score DESC, created_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Capture
	for rows.Next() {
		var (
			c       Capture
			created int64
		)
		if err := rows.Scan(&c.ID, &c.RunID, &c.Params, &c.Divisor, &c.Score, &c.Oscillators, &c.Missing, &c.Path, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS captures (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			params TEXT NOT NULL,
			divisor INTEGER NOT NULL,
			score REAL NOT NULL,
			oscillators REAL NOT NULL,
			missing INTEGER NOT NULL,
			path TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS captures_score ON captures (score DESC);
	`)
	return err
}
