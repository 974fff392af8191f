package service

import "context"

// Shortener is the use-case layer between the wire handlers and the store.
type Shortener interface {
	// Shorten validates and normalizes rawURL, then allocates (or returns)
	// its stable short code.
	Shorten(ctx context.Context, rawURL string) (string, error)

	// Resolve expands a short code back to its full URL.
	Resolve(ctx context.Context, code string) (string, error)
}
