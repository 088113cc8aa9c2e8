package util

import (
	"errors"
	"time"
)

var ErrEmptyRange = errors.New("time range is empty")

// ResolveRange turns unix-second bounds into an aligned [from, to) range.
// A zero to means now. Both ends are truncated to step.
func ResolveRange(from, to int64, now time.Time, step time.Duration) (time.Time, time.Time, error) {
	f := time.Unix(from, 0).UTC()
	t := now.UTC()
	if to > 0 {
		t = time.Unix(to, 0).UTC()
	}
	f, t = AlignFromTo(f, t, step)
	if !f.Before(t) {
		return time.Time{}, time.Time{}, ErrEmptyRange
	}
	return f, t, nil
}

// AlignFromTo rounds the time range down to step boundaries.
func AlignFromTo(from, to time.Time, step time.Duration) (time.Time, time.Time) {
	if step <= 0 {
		step = time.Minute
	}
	return from.Truncate(step), to.Truncate(step)
}
