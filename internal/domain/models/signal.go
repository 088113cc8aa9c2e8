package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Signal answers "enter now?" for the candle at index with the given open time.
// A miss is never an error, it simply means no signal.
type Signal interface {
	Fires(index int, openTime int64) bool
}

// Positional is a Signal aligned index-for-index with the candle sequence.
type Positional interface {
	Signal
	Len() int
}

// TimeSignal is keyed by candle open time.
type TimeSignal map[int64]bool

func (s TimeSignal) Fires(_ int, openTime int64) bool { return s[openTime] }

// SeriesSignal holds one flag per candle.
type SeriesSignal []bool

func (s SeriesSignal) Fires(index int, _ int64) bool {
	if index < 0 || index >= len(s) {
		return false
	}
	return s[index]
}

func (s SeriesSignal) Len() int { return len(s) }

var ErrBadSignal = errors.New("signal must be a JSON array or object of flags")

// flag accepts 0/1 numbers and booleans. Only 1 and true are set.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true":
		*f = true
		return nil
	case "false", "null":
		*f = false
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("%w: bad flag %s", ErrBadSignal, b)
	}
	*f = v == 1
	return nil
}

// ParseSignal decodes `[0,1,...]` into a SeriesSignal and
// `{"<open_time>": 0|1, ...}` into a TimeSignal.
func ParseSignal(raw json.RawMessage) (Signal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrBadSignal
	}

	switch raw[0] {
	case '[':
		var flags []flag
		if err := json.Unmarshal(raw, &flags); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSignal, err)
		}
		out := make(SeriesSignal, len(flags))
		for i, f := range flags {
			out[i] = bool(f)
		}
		return out, nil
	case '{':
		var flags map[string]flag
		if err := json.Unmarshal(raw, &flags); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSignal, err)
		}
		out := make(TimeSignal, len(flags))
		for k, f := range flags {
			ts, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad timestamp %q", ErrBadSignal, k)
			}
			if f {
				out[ts] = true
			}
		}
		return out, nil
	default:
		return nil, ErrBadSignal
	}
}

// ParseSignals decodes every raw signal, failing on the first bad one.
func ParseSignals(raws []json.RawMessage) ([]Signal, error) {
	out := make([]Signal, 0, len(raws))
	for i, raw := range raws {
		s, err := ParseSignal(raw)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
