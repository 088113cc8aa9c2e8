package engine

import (
	"cmp"
	"math"
	"slices"

	"NYCalc/internal/domain/models"
)

// aggregate reduces the final account and positions into a Stats record.
// Open positions are summed in open order so results do not depend on
// how the book happened to be sorted.
func aggregate(p Params, a account, last models.Candle, open, closed []models.Position) models.Stats {
	open = slices.Clone(open)
	slices.SortFunc(open, func(x, y models.Position) int { return cmp.Compare(x.Seq, y.Seq) })

	var count, expected float64
	for _, pos := range open {
		count += pos.Quantity
		expected += pos.Quantity * pos.TargetPrice
	}
	baseReal := count * last.Close

	drawdown := 1.0
	if len(open) > 0 {
		if expected == 0 {
			drawdown = math.NaN()
		} else {
			drawdown = baseReal / expected
		}
	}

	pad := int64(p.IntervalMinutes*60 - 1)
	var wait int64
	var successful int
	for _, pos := range closed {
		held := pos.HeldSeconds()
		wait += held + pad
		if held < p.SuccessWindow {
			successful++
		}
	}

	var avgWait, successRatio float64
	if n := len(closed); n > 0 {
		avgWait = float64(wait) / float64(n)
		successRatio = float64(successful) / float64(n)
	}

	return models.Stats{
		InitialBalance:  p.InitialBalance,
		MinBalance:      a.minBalance,
		Stake:           p.Stake,
		ProfitShare:     p.ProfitShare,
		Gain:            p.Gain,
		Balance:         a.balance,
		Wallet:          a.wallet,
		BaseReal:        baseReal,
		BaseExpected:    expected,
		Drawdown:        drawdown,
		OpenedOrders:    len(open),
		ExecutedOrders:  len(closed),
		AvgWait:         avgWait,
		SuccessfulRatio: successRatio,
		Score:           a.wallet,
	}
}
