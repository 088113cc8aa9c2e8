package engine

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"NYCalc/internal/domain/models"
)

// scenario is three one-minute candles: (open_time, open, high, low, close).
func scenario() []models.Candle {
	return []models.Candle{
		{OpenTime: 0, Open: 100, High: 110, Low: 95, Close: 105},
		{OpenTime: 60, Open: 105, High: 120, Low: 100, Close: 115},
		{OpenTime: 120, Open: 115, High: 115, Low: 110, Close: 112},
	}
}

// walk builds a seeded random walk around base with 15 minute spacing.
func walk(seed uint64, n int, base float64) []models.Candle {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]models.Candle, n)
	price := base
	for i := range out {
		open := math.Round(price*100) / 100
		drift := (rng.Float64() - 0.5) * 0.04 * open
		closePrice := math.Max(open+drift, base*0.2)
		high := math.Max(open, closePrice) * (1 + rng.Float64()*0.02)
		low := math.Min(open, closePrice) * (1 - rng.Float64()*0.02)
		out[i] = models.Candle{
			OpenTime: 1_600_000_000 + int64(i)*900,
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePrice,
		}
		price = closePrice
	}
	return out
}

// randomSignals alternates map and positional signals firing with probability p.
func randomSignals(seed uint64, candles []models.Candle, actors int, p float64) []models.Signal {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]models.Signal, actors)
	for a := range out {
		if a%2 == 0 {
			s := make(models.TimeSignal)
			for _, c := range candles {
				if rng.Float64() < p {
					s[c.OpenTime] = true
				}
			}
			out[a] = s
			continue
		}
		s := make(models.SeriesSignal, len(candles))
		for i := range s {
			s[i] = rng.Float64() < p
		}
		out[a] = s
	}
	return out
}

// requireSameStats compares records exactly, treating two NaN drawdowns as equal.
func requireSameStats(t *testing.T, want, got models.Stats, msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, want.DrawdownDefined(), got.DrawdownDefined(), msgAndArgs...)
	if !want.DrawdownDefined() {
		want.Drawdown, got.Drawdown = 0, 0
	}
	require.Equal(t, want, got, msgAndArgs...)
}
