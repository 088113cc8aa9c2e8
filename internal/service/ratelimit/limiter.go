package ratelimit

import (
	"context"
	"fmt"
	"time"

	"NYCalc/pkg/cache"
)

// Limiter is a fixed-window counter kept in the cache service, so replicas
// sharing Redis share one budget per key.
type Limiter struct {
	store  cache.Service
	limit  int64
	window time.Duration
	now    func() time.Time
}

func New(store cache.Service, limit int64, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window, now: time.Now}
}

// Allow consumes one unit for key. A non-positive limit or window disables limiting.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.limit <= 0 || l.window <= 0 {
		return true, nil
	}

	slot := l.now().UnixNano() / int64(l.window)
	k := cache.GenerateKeyWithParams("ratelimit", key, slot)

	n, err := l.store.Increment(ctx, k)
	if err != nil {
		return false, fmt.Errorf("ratelimit increment: %w", err)
	}
	if n == 1 {
		if _, err := l.store.Expire(ctx, k, l.window); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return n <= l.limit, nil
}
