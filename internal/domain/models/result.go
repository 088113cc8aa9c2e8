package models

import "time"

// RunResult is the outcome of a single-signal backtest.
type RunResult struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol,omitempty"`
	Interval  string    `json:"interval"`
	Candles   int       `json:"candles"`
	Stats     Stats     `json:"stats"`
	CreatedAt time.Time `json:"created_at"`
}

// BatchResult holds one Stats per actor, in input order.
type BatchResult struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol,omitempty"`
	Interval  string    `json:"interval"`
	Candles   int       `json:"candles"`
	Shards    int       `json:"shards"`
	Results   []Stats   `json:"results"`
	ElapsedMs int64     `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`
}
