package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shortlink/internal/domain"
	"shortlink/pkg/logger"
)

// MockURLStore is a mock implementation of store.URLStore.
type MockURLStore struct {
	mock.Mock
}

func (m *MockURLStore) Allocate(ctx context.Context, fullURL string) (string, error) {
	args := m.Called(ctx, fullURL)
	return args.String(0), args.Error(1)
}

func (m *MockURLStore) Resolve(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

// MockCache is a mock implementation of cache.Cache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestShorten_Success(t *testing.T) {
	st := new(MockURLStore)
	c := new(MockCache)
	svc := NewShortener(st, c, time.Hour, logger.NewLogger())
	ctx := context.Background()

	st.On("Allocate", ctx, "http://example.com/long").Return("1", nil)
	c.On("Set", ctx, "1", "http://example.com/long", time.Hour).Return(nil)

	code, err := svc.Shorten(ctx, "http://example.com/long")
	require.NoError(t, err)
	assert.Equal(t, "1", code)

	st.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestShorten_NormalizesBareHost(t *testing.T) {
	st := new(MockURLStore)
	svc := NewShortener(st, nil, 0, logger.NewLogger())
	ctx := context.Background()

	st.On("Allocate", ctx, "http://example.com").Return("1", nil)

	_, err := svc.Shorten(ctx, "example.com")
	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestShorten_InvalidURL(t *testing.T) {
	st := new(MockURLStore)
	svc := NewShortener(st, nil, 0, logger.NewLogger())

	_, err := svc.Shorten(context.Background(), "not a url at all")

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
	st.AssertNotCalled(t, "Allocate")
}

func TestShorten_CacheFailureDoesNotFailRequest(t *testing.T) {
	st := new(MockURLStore)
	c := new(MockCache)
	svc := NewShortener(st, c, time.Hour, logger.NewLogger())
	ctx := context.Background()

	st.On("Allocate", ctx, "http://example.com").Return("1", nil)
	c.On("Set", ctx, "1", "http://example.com", time.Hour).Return(domain.ErrCacheUnavailable)

	code, err := svc.Shorten(ctx, "http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", code)
}

func TestResolve_CacheHit(t *testing.T) {
	st := new(MockURLStore)
	c := new(MockCache)
	svc := NewShortener(st, c, time.Hour, logger.NewLogger())
	ctx := context.Background()

	c.On("Get", ctx, "1").Return("http://example.com/cached", nil)

	url, err := svc.Resolve(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/cached", url)
	st.AssertNotCalled(t, "Resolve")
}

func TestResolve_CacheMissFallsBackToStore(t *testing.T) {
	st := new(MockURLStore)
	c := new(MockCache)
	svc := NewShortener(st, c, time.Hour, logger.NewLogger())
	ctx := context.Background()

	c.On("Get", ctx, "1").Return("", nil)
	st.On("Resolve", ctx, "1").Return("http://example.com/stored", nil)
	c.On("Set", ctx, "1", "http://example.com/stored", time.Hour).Return(nil)

	url, err := svc.Resolve(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/stored", url)

	st.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestResolve_NotFoundPassesThrough(t *testing.T) {
	st := new(MockURLStore)
	svc := NewShortener(st, nil, 0, logger.NewLogger())
	ctx := context.Background()

	st.On("Resolve", ctx, "zzzzzz").Return("", domain.ErrURLNotFound)

	_, err := svc.Resolve(ctx, "zzzzzz")
	assert.ErrorIs(t, err, domain.ErrURLNotFound)
}
