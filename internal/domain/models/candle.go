package models

// Candle is one OHLC bar. OpenTime is unix seconds; the engine only reads
// OpenTime, Open, High and Close, the rest is carried through from storage.
type Candle struct {
	OpenTime int64   `json:"open_time"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume,omitempty"`
	Quote    float64 `json:"quote,omitempty"`
	Trades   int64   `json:"trades,omitempty"`
	BuyBase  float64 `json:"buy_base,omitempty"`
	BuyQuote float64 `json:"buy_quote,omitempty"`
}
