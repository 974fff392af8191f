// Package store owns the URL-to-code mapping. The interface is implemented
// by an in-memory variant, a SQLite-backed durable variant, and a
// Postgres-backed variant; callers select one at construction time.
package store

import "context"

// URLStore is the storage capability shared by all variants.
type URLStore interface {
	// Allocate returns the stable code for fullURL, creating a record with
	// the next id on first sight. Idempotent: concurrent calls with the
	// same URL observe exactly one record.
	Allocate(ctx context.Context, fullURL string) (string, error)

	// Resolve decodes code and returns the stored URL. A code that was
	// never issued, fails to decode, or exceeds the backend's key range
	// yields domain.ErrURLNotFound rather than a storage fault.
	Resolve(ctx context.Context, code string) (string, error)
}
