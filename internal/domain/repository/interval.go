package repository

import "fmt"

// Interval represents a candle resolution bucket.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

var intervalMinutes = map[Interval]int{
	Interval1m:  1,
	Interval3m:  3,
	Interval5m:  5,
	Interval15m: 15,
	Interval30m: 30,
	Interval1h:  60,
	Interval4h:  240,
	Interval1d:  1440,
}

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	_, ok := intervalMinutes[iv]
	return ok
}

// DefaultInterval returns the default interval.
func DefaultInterval() Interval { return Interval15m }

// ParseInterval converts a raw string to an Interval. Empty means default.
func ParseInterval(s string) (Interval, error) {
	if s == "" {
		return DefaultInterval(), nil
	}
	iv := Interval(s)
	if !IsValidInterval(iv) {
		return "", fmt.Errorf("unsupported interval %q", s)
	}
	return iv, nil
}

// Minutes returns the bucket length in minutes, 0 for unknown intervals.
func (iv Interval) Minutes() int { return intervalMinutes[iv] }

// IntervalKey maps a minute count back to its key. Unknown counts fall back to 1d.
func IntervalKey(minutes int) Interval {
	for iv, m := range intervalMinutes {
		if m == minutes {
			return iv
		}
	}
	return Interval1d
}
