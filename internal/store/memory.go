package store

import (
	"context"
	"errors"
	"sync"

	"shortlink/internal/domain"
	"shortlink/internal/shortener"
)

// Memory is the volatile store variant: two maps and a monotone id counter
// behind a single mutex. Records die with the process.
type Memory struct {
	mu      sync.Mutex
	urlToID map[string]int64
	idToURL map[int64]string
	lastID  int64
}

// NewMemory creates an empty in-memory store. Ids start at 1; 0 is reserved.
func NewMemory() *Memory {
	return &Memory{
		urlToID: make(map[string]int64),
		idToURL: make(map[int64]string),
	}
}

// Allocate looks up fullURL and, when absent, inserts it under the next id.
// The lookup, the counter advance and both map inserts happen under one
// lock acquisition; that atomicity is what prevents the duplicate-record
// race between concurrent callers.
func (m *Memory) Allocate(ctx context.Context, fullURL string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.urlToID[fullURL]; ok {
		return shortener.Encode(id)
	}

	id := m.lastID + 1
	code, err := shortener.Encode(id)
	if err != nil {
		return "", err
	}

	m.urlToID[fullURL] = id
	m.idToURL[id] = fullURL
	m.lastID = id
	return code, nil
}

// Resolve decodes code and performs a single locked lookup. Undecodable
// codes and unknown ids both come back as domain.ErrURLNotFound.
func (m *Memory) Resolve(ctx context.Context, code string) (string, error) {
	id, err := shortener.Decode(code)
	if err != nil {
		if errors.Is(err, domain.ErrEncoding) {
			return "", domain.ErrURLNotFound
		}
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fullURL, ok := m.idToURL[id]
	if !ok {
		return "", domain.ErrURLNotFound
	}
	return fullURL, nil
}

// Compile-time check: *Memory implements URLStore.
var _ URLStore = (*Memory)(nil)
