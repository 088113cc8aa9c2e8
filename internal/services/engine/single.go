package engine

import "NYCalc/internal/domain/models"

// Report is the full outcome of one actor's run.
type Report struct {
	Stats  models.Stats
	Open   []models.Position
	Closed []models.Position
}

// Run evaluates one signal over the candles and returns its statistics.
func Run(candles []models.Candle, signal models.Signal, p Params) (models.Stats, error) {
	r, err := Simulate(candles, signal, p)
	if err != nil {
		return models.Stats{}, err
	}
	return r.Stats, nil
}

// Simulate is Run that also returns the positions left open and those closed.
func Simulate(candles []models.Candle, signal models.Signal, p Params) (*Report, error) {
	if err := checkRun(candles, []models.Signal{signal}, p); err != nil {
		return nil, err
	}

	r := newRules(p)
	acc := newAccount(p.InitialBalance)
	var open book
	var closed []models.Position

	for i, c := range candles {
		acc.mark()

		if signal.Fires(i, c.OpenTime) {
			if pos, ok := r.open(&acc, c, 0); ok {
				open.push(pos)
			}
		}

		open.settle()
		for {
			pos, ok := open.popBelow(c.High)
			if !ok {
				break
			}
			r.close(&acc, &pos, c)
			closed = append(closed, pos)
		}
	}

	return &Report{
		Stats:  aggregate(p, acc, candles[len(candles)-1], open.items, closed),
		Open:   open.items,
		Closed: closed,
	}, nil
}
