package repository

import (
	"context"
	"time"

	"NYCalc/internal/domain/models"
)

// CandleStore provides read-only access to historical candles.
// Implementations return candles in ascending OpenTime order.
type CandleStore interface {
	GetCandles(ctx context.Context, symbol string, iv Interval, from, to time.Time) ([]models.Candle, error)
}

// ResultPublisher ships finished runs downstream.
type ResultPublisher interface {
	PublishRun(ctx context.Context, r *models.RunResult) error
	PublishBatch(ctx context.Context, r *models.BatchResult) error
	Close() error
}

type Metrics interface {
	RecordRun(mode string, actors int)
	RecordPositions(mode string, opened, executed int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
