package models

// Position is a single long order.
type Position struct {
	Owner       int     `json:"owner"`
	Seq         int64   `json:"seq"`
	OpenTime    int64   `json:"open_time"`
	CloseTime   int64   `json:"close_time,omitempty"`
	EntryPrice  float64 `json:"entry_price"`
	TargetPrice float64 `json:"target_price"`
	Quantity    float64 `json:"quantity"`
	Commission  float64 `json:"commission"`
	Profit      float64 `json:"profit,omitempty"`
	Closed      bool    `json:"closed"`
}

// IsOpen reports whether the position is still waiting for its target.
func (p Position) IsOpen() bool { return !p.Closed }

// HeldSeconds returns close minus open time, or 0 for an open position.
func (p Position) HeldSeconds() int64 {
	if p.IsOpen() {
		return 0
	}
	return p.CloseTime - p.OpenTime
}
