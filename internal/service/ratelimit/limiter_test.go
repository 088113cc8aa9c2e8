package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NYCalc/pkg/cache"
)

func TestLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	defer store.Close()

	l := New(store, 2, time.Minute)
	now := time.Unix(6000, 0)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_Disabled(t *testing.T) {
	var l *Limiter
	ok, err := l.Allow(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = New(nil, 0, time.Second).Allow(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_ZeroWindowDisables(t *testing.T) {
	store := cache.NewMemoryCache()
	defer store.Close()

	l := New(store, 1, 0)
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(context.Background(), "1.2.3.4:batch")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
