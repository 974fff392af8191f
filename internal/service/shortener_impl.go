package service

import (
	"context"
	"time"

	"shortlink/internal/cache"
	"shortlink/internal/domain"
	"shortlink/internal/store"
	"shortlink/pkg/logger"
	"shortlink/pkg/validator"
)

// shortenerService implements Shortener on top of a store and an optional
// resolve cache.
type shortenerService struct {
	store    store.URLStore
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewShortener creates the use-case service. cache may be nil; the service
// then always goes to the store.
func NewShortener(s store.URLStore, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) Shortener {
	return &shortenerService{
		store:    s,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// Shorten validates and normalizes the URL, then allocates its code.
// Repeated calls with the same URL return the same code.
func (s *shortenerService) Shorten(ctx context.Context, rawURL string) (string, error) {
	normalized := validator.NormalizeURL(rawURL)
	if err := validator.ValidateURL(normalized); err != nil {
		s.logger.Warn("Invalid URL submitted", "url", rawURL, "error", err)
		return "", domain.NewValidationError(err.Error())
	}

	code, err := s.store.Allocate(ctx, normalized)
	if err != nil {
		s.logger.Error("Failed to allocate short code", "error", err)
		return "", err
	}

	// Warm the resolve cache; a failure here never fails the request.
	if s.cache != nil {
		if err := s.cache.Set(ctx, code, normalized, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache allocation", "error", err, "code", code)
		}
	}

	s.logger.Info("URL shortened", "code", code, "url", normalized)
	return code, nil
}

// Resolve expands code, preferring the cache (cache-aside).
func (s *shortenerService) Resolve(ctx context.Context, code string) (string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, code)
		if err == nil && cached != "" {
			s.logger.Debug("Cache hit", "code", code)
			return cached, nil
		}
	}

	fullURL, err := s.store.Resolve(ctx, code)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, code, fullURL, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to update cache", "error", err, "code", code)
		}
	}

	s.logger.Info("URL resolved", "code", code)
	return fullURL, nil
}
