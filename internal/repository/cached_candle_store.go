package repository

import (
	"context"
	"errors"
	"time"

	"NYCalc/internal/domain/models"
	domrepo "NYCalc/internal/domain/repository"
	"NYCalc/pkg/cache"
	applogger "NYCalc/pkg/logger"
)

// CachedCandleStore serves repeated range reads from a cache.Service.
// Concurrent misses for one range are collapsed behind a cache lock, so the
// underlying store sees a single load.
type CachedCandleStore struct {
	next     domrepo.CandleStore
	cache    cache.Service
	ttl      time.Duration
	lockTTL  time.Duration
	lockPoll time.Duration
	l        *applogger.Logger
}

func NewCachedCandleStore(next domrepo.CandleStore, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedCandleStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedCandleStore{
		next:     next,
		cache:    c,
		ttl:      ttl,
		lockTTL:  30 * time.Second,
		lockPoll: 25 * time.Millisecond,
		l:        l,
	}
}

// CandleKey is the cache key for one range read.
func CandleKey(symbol string, iv domrepo.Interval, from, to time.Time) string {
	return cache.GenerateKeyWithParams("candles", symbol, iv, from.Unix(), to.Unix())
}

func (s *CachedCandleStore) GetCandles(ctx context.Context, symbol string, iv domrepo.Interval, from, to time.Time) ([]models.Candle, error) {
	key := CandleKey(symbol, iv, from, to)

	var out []models.Candle
	err := s.cache.Get(ctx, key, &out)
	switch {
	case err == nil:
		s.l.Debug("candle cache lookup", applogger.String("key", key), applogger.Bool("hit", true))
		return out, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		// cache read failed; the store is still authoritative
		s.l.Warn("candle cache unavailable", applogger.String("key", key), applogger.Error(err))
		return s.next.GetCandles(ctx, symbol, iv, from, to)
	}

	lockKey := key + ":lock"
	for {
		ok, err := s.cache.TryLock(ctx, lockKey, s.lockTTL)
		if err != nil {
			s.l.Warn("candle cache lock failed", applogger.String("key", key), applogger.Error(err))
			return s.load(ctx, key, symbol, iv, from, to)
		}
		if ok {
			defer func() {
				if err := s.cache.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
					s.l.Warn("candle cache unlock failed", applogger.String("key", key), applogger.Error(err))
				}
			}()
			return s.load(ctx, key, symbol, iv, from, to)
		}

		// another caller is loading this range
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.lockPoll):
		}
		if err := s.cache.Get(ctx, key, &out); err == nil {
			s.l.Debug("candle cache lookup", applogger.String("key", key), applogger.Bool("hit", true))
			return out, nil
		}
	}
}

// load re-checks the cache, then reads the store and fills the cache.
// A failed cache write is logged; the loaded candles are still returned.
func (s *CachedCandleStore) load(ctx context.Context, key, symbol string, iv domrepo.Interval, from, to time.Time) ([]models.Candle, error) {
	var loadErr error
	loaded := false
	out, hit, err := cache.GetOrLoad(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]models.Candle, error) {
		loaded = true
		c, err := s.next.GetCandles(ctx, symbol, iv, from, to)
		loadErr = err
		return c, err
	})
	switch {
	case err == nil:
	case loadErr != nil:
		return nil, loadErr
	case loaded:
		s.l.Warn("candle cache store failed", applogger.String("key", key), applogger.Error(err))
	default:
		s.l.Warn("candle cache unavailable", applogger.String("key", key), applogger.Error(err))
		return s.next.GetCandles(ctx, symbol, iv, from, to)
	}
	s.l.Debug("candle cache lookup", applogger.String("key", key), applogger.Bool("hit", hit))
	return out, nil
}
