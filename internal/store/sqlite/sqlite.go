// Package sqlite implements the durable store variant on an embedded
// SQLite file. Records survive process restarts of the same backing file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO)

	"shortlink/internal/domain"
	"shortlink/internal/shortener"
	"shortlink/internal/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS url_mapping (
  id       INTEGER PRIMARY KEY AUTOINCREMENT,
  full_url TEXT UNIQUE NOT NULL
);
`

// Store implements store.URLStore backed by SQLite.
type Store struct {
	db       *sql.DB
	initOnce sync.Once
	initErr  error
}

// Open opens (or creates) the SQLite database at path. The schema itself is
// created lazily on first use. Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	// For modernc.org/sqlite, the DSN can be a simple file path.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	// A single connection sidesteps SQLITE_BUSY on concurrent writers; the
	// unique constraint on full_url still guards the allocate race.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
	_, _ = db.Exec("PRAGMA journal_mode = WAL;")

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// ensureSchema creates the backing table exactly once per store instance.
// Concurrent first calls block on the Once instead of racing on DDL.
func (s *Store) ensureSchema(ctx context.Context) error {
	s.initOnce.Do(func() {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			s.initErr = fmt.Errorf("%w: schema init: %v", domain.ErrStorage, err)
		}
	})
	return s.initErr
}

// Allocate returns the existing code for fullURL or inserts a new record.
// The unique constraint on full_url rejects a duplicate concurrent insert;
// losing that race is resolved by re-selecting the winner's id, once.
func (s *Store) Allocate(ctx context.Context, fullURL string) (string, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return "", err
	}

	id, err := s.selectID(ctx, fullURL)
	if err == nil {
		return shortener.Encode(id)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: select id: %v", domain.ErrStorage, err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO url_mapping (full_url) VALUES (?)", fullURL)
	if err != nil {
		if isUniqueViolation(err) {
			// Another caller won the insert race; its record is authoritative.
			id, err := s.selectID(ctx, fullURL)
			if err != nil {
				return "", fmt.Errorf("%w: re-select after conflict: %v", domain.ErrStorage, err)
			}
			return shortener.Encode(id)
		}
		return "", fmt.Errorf("%w: insert: %v", domain.ErrStorage, err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("%w: last insert id: %v", domain.ErrStorage, err)
	}
	return shortener.Encode(id)
}

// Resolve decodes code and looks up the stored URL. Undecodable codes,
// out-of-range ids and unknown ids are all domain.ErrURLNotFound.
func (s *Store) Resolve(ctx context.Context, code string) (string, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return "", err
	}

	id, err := shortener.Decode(code)
	if err != nil {
		return "", domain.ErrURLNotFound
	}

	var fullURL string
	err = s.db.QueryRowContext(ctx,
		"SELECT full_url FROM url_mapping WHERE id = ?", id).Scan(&fullURL)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrURLNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: select url: %v", domain.ErrStorage, err)
	}
	return fullURL, nil
}

func (s *Store) selectID(ctx context.Context, fullURL string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM url_mapping WHERE full_url = ?", fullURL).Scan(&id)
	return id, err
}

// isUniqueViolation detects the expected duplicate-insert rejection.
// Driver-specific error codes vary, so detect by message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}

// Compile-time check: *Store implements store.URLStore.
var _ store.URLStore = (*Store)(nil)
