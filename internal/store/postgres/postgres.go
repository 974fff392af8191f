// Package postgres implements the store variant on a shared PostgreSQL
// instance via GORM. It follows the same one-table contract as the SQLite
// variant and exists for deployments that already run Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"shortlink/internal/domain"
	"shortlink/internal/shortener"
	"shortlink/internal/store"
)

// URLMapping is the persisted record. The code is derived from ID on
// demand, never stored.
type URLMapping struct {
	ID      int64  `gorm:"primaryKey"`
	FullURL string `gorm:"column:full_url;uniqueIndex;not null;type:text"`
}

// TableName specifies the table name for GORM.
func (URLMapping) TableName() string {
	return "url_mapping"
}

// Store implements store.URLStore backed by PostgreSQL.
type Store struct {
	db *gorm.DB
}

// New creates a Postgres store and migrates the backing table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&URLMapping{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", domain.ErrStorage, err)
	}
	return &Store{db: db}, nil
}

// Allocate returns the existing code for fullURL or inserts a new record.
// The unique index on full_url rejects a duplicate concurrent insert; the
// loser re-selects the winner's id, once.
func (s *Store) Allocate(ctx context.Context, fullURL string) (string, error) {
	var rec URLMapping

	result := s.db.WithContext(ctx).Where("full_url = ?", fullURL).First(&rec)
	if result.Error == nil {
		return shortener.Encode(rec.ID)
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: select id: %v", domain.ErrStorage, result.Error)
	}

	rec = URLMapping{FullURL: fullURL}
	result = s.db.WithContext(ctx).Create(&rec)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			var winner URLMapping
			result = s.db.WithContext(ctx).Where("full_url = ?", fullURL).First(&winner)
			if result.Error != nil {
				return "", fmt.Errorf("%w: re-select after conflict: %v", domain.ErrStorage, result.Error)
			}
			return shortener.Encode(winner.ID)
		}
		return "", fmt.Errorf("%w: insert: %v", domain.ErrStorage, result.Error)
	}
	return shortener.Encode(rec.ID)
}

// Resolve decodes code and looks up the stored URL.
func (s *Store) Resolve(ctx context.Context, code string) (string, error) {
	id, err := shortener.Decode(code)
	if err != nil {
		return "", domain.ErrURLNotFound
	}

	var rec URLMapping
	result := s.db.WithContext(ctx).First(&rec, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", domain.ErrURLNotFound
	}
	if result.Error != nil {
		return "", fmt.Errorf("%w: select url: %v", domain.ErrStorage, result.Error)
	}
	return rec.FullURL, nil
}

// isUniqueViolation detects the expected duplicate-insert rejection.
// GORM translates it to ErrDuplicatedKey when the dialector supports it;
// fall back to the SQLSTATE in the message otherwise.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}

// Compile-time check: *Store implements store.URLStore.
var _ store.URLStore = (*Store)(nil)
