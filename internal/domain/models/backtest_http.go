package models

import "encoding/json"

// Requests for backtest endpoints and jobs. Defined in domain for reuse by the
// HTTP handler and the Kafka job handler.

// ParamsRequest carries strategy parameters. Pointers keep an explicit zero
// distinguishable from "not set" when defaults are applied.
type ParamsRequest struct {
	InitialBalance    *float64 `json:"initial_balance" default:"3000" validate:"gt=0"`
	Stake             *float64 `json:"stake" default:"10" validate:"gt=0"`
	Gain              *float64 `json:"gain" default:"1.0" validate:"gte=0"`
	ProfitShare       *float64 `json:"profit_share" default:"0.5" validate:"gte=0,lte=1"`
	LotStep           *float64 `json:"lot_step" default:"1" validate:"gt=0"`
	PriceStep         *float64 `json:"price_step" default:"0.0001" validate:"gt=0"`
	Commission        *float64 `json:"commission" default:"0.001" validate:"gte=0,lt=1"`
	IntervalMinutes   *int     `json:"interval_minutes,omitempty" validate:"omitempty,gt=0"`
	AllowZeroQuantity bool     `json:"allow_zero_quantity"`
}

// Source selects the candles: either inline Candles or a stored range for Symbol.
type Source struct {
	Symbol   string   `json:"symbol" validate:"required_without=Candles"`
	Interval string   `json:"interval" default:"15m" validate:"oneof=1m 3m 5m 15m 30m 1h 4h 1d"`
	From     int64    `json:"from" validate:"gte=0"`
	To       int64    `json:"to" validate:"gte=0"`
	Candles  []Candle `json:"candles,omitempty"`
}

type BacktestRequest struct {
	Source
	Params ParamsRequest   `json:"params"`
	Signal json.RawMessage `json:"signal" validate:"required"`
}

type BatchBacktestRequest struct {
	Source
	Params  ParamsRequest     `json:"params"`
	Signals []json.RawMessage `json:"signals" validate:"required,min=1"`
	// Shards 0 uses the server default.
	Shards int `json:"shards" validate:"gte=0,lte=64"`
}

// BatchJob is the payload consumed from the jobs topic.
type BatchJob struct {
	ID string `json:"id" validate:"required"`
	BatchBacktestRequest
}
