package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterRegistry keeps one token bucket per remote host.
type limiterRegistry struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perMinute int
}

func newLimiterRegistry(perMinute int) *limiterRegistry {
	return &limiterRegistry{
		limiters:  make(map[string]*rate.Limiter),
		perMinute: perMinute,
	}
}

// allow reports whether host still has budget for one more connection.
func (r *limiterRegistry) allow(host string) bool {
	r.mu.Lock()
	limiter, ok := r.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.perMinute)), r.perMinute)
		r.limiters[host] = limiter
	}
	r.mu.Unlock()

	return limiter.Allow()
}
