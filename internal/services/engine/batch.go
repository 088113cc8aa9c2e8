package engine

import "NYCalc/internal/domain/models"

// RunBatch evaluates many independent signals in one pass over the candles.
// Result i equals Run(candles, signals[i], p).
func RunBatch(candles []models.Candle, signals []models.Signal, p Params) ([]models.Stats, error) {
	reports, err := SimulateBatch(candles, signals, p)
	if err != nil {
		return nil, err
	}
	return statsOf(reports), nil
}

// SimulateBatch is RunBatch that also returns each actor's positions.
func SimulateBatch(candles []models.Candle, signals []models.Signal, p Params) ([]Report, error) {
	if err := checkRun(candles, signals, p); err != nil {
		return nil, err
	}
	return simulateBatch(candles, signals, p), nil
}

// simulateBatch expects validated input.
func simulateBatch(candles []models.Candle, signals []models.Signal, p Params) []Report {
	r := newRules(p)
	accounts := make([]account, len(signals))
	for i := range accounts {
		accounts[i] = newAccount(p.InitialBalance)
	}

	var open book
	var closed []models.Position

	for i, c := range candles {
		for a := range accounts {
			accounts[a].mark()
		}

		for a, s := range signals {
			if !s.Fires(i, c.OpenTime) {
				continue
			}
			if pos, ok := r.open(&accounts[a], c, a); ok {
				open.push(pos)
			}
		}

		open.settle()
		for {
			pos, ok := open.popBelow(c.High)
			if !ok {
				break
			}
			r.close(&accounts[pos.Owner], &pos, c)
			closed = append(closed, pos)
		}
	}

	openBy := partition(open.items, len(signals))
	closedBy := partition(closed, len(signals))
	last := candles[len(candles)-1]

	reports := make([]Report, len(signals))
	for a := range reports {
		reports[a] = Report{
			Stats:  aggregate(p, accounts[a], last, openBy[a], closedBy[a]),
			Open:   openBy[a],
			Closed: closedBy[a],
		}
	}
	return reports
}

// partition splits pooled positions by owner, keeping their relative order.
func partition(pooled []models.Position, owners int) [][]models.Position {
	out := make([][]models.Position, owners)
	for _, pos := range pooled {
		out[pos.Owner] = append(out[pos.Owner], pos)
	}
	return out
}
