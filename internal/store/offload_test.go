package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink/internal/domain"
	"shortlink/internal/worker"
)

func TestOffloaded_DelegatesToInnerStore(t *testing.T) {
	pool := worker.NewPool(2, 4)
	defer pool.Close()

	s := NewOffloaded(NewMemory(), pool)
	ctx := context.Background()

	code, err := s.Allocate(ctx, "http://example.com")
	require.NoError(t, err)

	url, err := s.Resolve(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", url)

	_, err = s.Resolve(ctx, "zzzzzz")
	assert.ErrorIs(t, err, domain.ErrURLNotFound)
}
