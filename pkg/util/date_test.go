package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, 10, 10, 10, 17, 30, 0, time.UTC)
	from := time.Date(2024, 10, 10, 8, 7, 0, 0, time.UTC).Unix()

	f, to, err := ResolveRange(from, 0, now, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 10, 8, 0, 0, 0, time.UTC), f)
	assert.Equal(t, time.Date(2024, 10, 10, 10, 15, 0, 0, time.UTC), to)
}

func TestResolveRangeExplicitTo(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := from.Add(time.Hour)

	f, to, err := ResolveRange(from.Unix(), end.Unix(), time.Now(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, from, f)
	assert.Equal(t, end, to)
}

func TestResolveRangeEmpty(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := ResolveRange(base.Unix(), base.Add(5*time.Minute).Unix(), time.Now(), 15*time.Minute)
	assert.ErrorIs(t, err, ErrEmptyRange)

	_, _, err = ResolveRange(base.Add(time.Hour).Unix(), base.Unix(), time.Now(), time.Minute)
	assert.ErrorIs(t, err, ErrEmptyRange)
}

func TestAlignFromToDefaultStep(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 42, 0, time.UTC)
	f, to := AlignFromTo(a, a.Add(time.Minute), 0)
	assert.Equal(t, a.Truncate(time.Minute), f)
	assert.Equal(t, a.Add(time.Minute).Truncate(time.Minute), to)
}
