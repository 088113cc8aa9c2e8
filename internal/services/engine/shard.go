package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"NYCalc/internal/domain/models"
)

// RunSharded splits actors into contiguous shards and runs each shard's batch
// on its own goroutine. Output order matches signals.
func RunSharded(ctx context.Context, candles []models.Candle, signals []models.Signal, p Params, shards int) ([]models.Stats, error) {
	if err := checkRun(candles, signals, p); err != nil {
		return nil, err
	}
	if shards > len(signals) {
		shards = len(signals)
	}
	if shards <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return statsOf(simulateBatch(candles, signals, p)), nil
	}

	size := (len(signals) + shards - 1) / shards
	out := make([]models.Stats, len(signals))

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(signals); start += size {
		end := min(start+size, len(signals))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			copy(out[start:end], statsOf(simulateBatch(candles, signals[start:end], p)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func statsOf(reports []Report) []models.Stats {
	out := make([]models.Stats, len(reports))
	for i := range reports {
		out[i] = reports[i].Stats
	}
	return out
}
