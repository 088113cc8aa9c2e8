package models

import (
	"encoding/json"
	"math"
)

// Stats is the result record of one run (one actor).
type Stats struct {
	InitialBalance  float64 `json:"initial_balance"`
	MinBalance      float64 `json:"min_balance"`
	Stake           float64 `json:"stake"`
	ProfitShare     float64 `json:"profit"`
	Gain            float64 `json:"gain"`
	Balance         float64 `json:"balance"`
	Wallet          float64 `json:"wallet"`
	BaseReal        float64 `json:"base_real"`
	BaseExpected    float64 `json:"base_expected"`
	Drawdown        float64 `json:"drawdown"`
	OpenedOrders    int     `json:"opened_orders"`
	ExecutedOrders  int     `json:"executed_orders"`
	AvgWait         float64 `json:"avg_wait"`
	SuccessfulRatio float64 `json:"successful_ratio"`
	Score           float64 `json:"score"`
}

// DrawdownDefined is false when open positions exist but their expected value is zero.
func (s Stats) DrawdownDefined() bool { return !math.IsNaN(s.Drawdown) }

type statsAlias Stats

type statsJSON struct {
	statsAlias
	Drawdown *float64 `json:"drawdown"`
}

// MarshalJSON writes an undefined drawdown as null.
func (s Stats) MarshalJSON() ([]byte, error) {
	out := statsJSON{statsAlias: statsAlias(s)}
	if s.DrawdownDefined() {
		d := s.Drawdown
		out.Drawdown = &d
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null drawdown back as NaN.
func (s *Stats) UnmarshalJSON(b []byte) error {
	var in statsJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*s = Stats(in.statsAlias)
	if in.Drawdown == nil {
		s.Drawdown = math.NaN()
	} else {
		s.Drawdown = *in.Drawdown
	}
	return nil
}
