package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NYCalc/internal/domain/models"
	domrepo "NYCalc/internal/domain/repository"
	"NYCalc/internal/services/engine"
	applogger "NYCalc/pkg/logger"
)

type stubStore struct {
	candles  []models.Candle
	err      error
	calls    int
	symbol   string
	iv       domrepo.Interval
	from, to time.Time
}

func (s *stubStore) GetCandles(_ context.Context, symbol string, iv domrepo.Interval, from, to time.Time) ([]models.Candle, error) {
	s.calls++
	s.symbol, s.iv, s.from, s.to = symbol, iv, from, to
	return s.candles, s.err
}

type stubPublisher struct {
	runs    []*models.RunResult
	batches []*models.BatchResult
	err     error
}

func (p *stubPublisher) PublishRun(_ context.Context, r *models.RunResult) error {
	p.runs = append(p.runs, r)
	return p.err
}

func (p *stubPublisher) PublishBatch(_ context.Context, r *models.BatchResult) error {
	p.batches = append(p.batches, r)
	return p.err
}

func (p *stubPublisher) Close() error { return nil }

type stubMetrics struct {
	mu     sync.Mutex
	runs   map[string]int
	errors map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{runs: map[string]int{}, errors: map[string]int{}}
}

func (m *stubMetrics) RecordRun(mode string, actors int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[mode] += actors
}
func (m *stubMetrics) RecordPositions(string, int, int) {}
func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}
func (m *stubMetrics) RecordLatency(string, float64) {}

// ladder is a slowly rising series with 15 minute spacing.
func ladder(n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		open := 100 + float64(i%7)*0.8
		out[i] = models.Candle{
			OpenTime: 1_700_000_000 + int64(i)*900,
			Open:     open,
			High:     open * 1.015,
			Low:      open * 0.99,
			Close:    open * 1.005,
		}
	}
	return out
}

func every(n, k int) models.SeriesSignal {
	s := make(models.SeriesSignal, n)
	for i := range s {
		s[i] = i%k == 0
	}
	return s
}

func newTestUseCase(store domrepo.CandleStore, pub domrepo.ResultPublisher, m domrepo.Metrics, limits Limits) *BacktestUseCase {
	uc := NewBacktestUseCase(store, pub, m, nil, limits)
	uc.now = func() time.Time { return time.Unix(1_700_100_000, 0) }
	uc.newID = func() string { return "fixed-id" }
	return uc
}

func TestRunInlineCandles(t *testing.T) {
	candles := ladder(40)
	sig := every(40, 3)
	p := engine.DefaultParams()
	pub := &stubPublisher{}
	m := newStubMetrics()
	uc := newTestUseCase(nil, pub, m, Limits{})

	res, err := uc.Run(context.Background(), RunParams{
		Source: SourceParams{Interval: domrepo.Interval15m, Candles: candles},
		Params: p,
		Signal: sig,
	})
	require.NoError(t, err)

	want, err := engine.Run(candles, sig, p)
	require.NoError(t, err)
	assert.Equal(t, want, res.Stats)
	assert.Equal(t, "fixed-id", res.ID)
	assert.Equal(t, 40, res.Candles)
	assert.Equal(t, "15m", res.Interval)
	require.Len(t, pub.runs, 1)
	assert.Same(t, res, pub.runs[0])
	assert.Equal(t, 1, m.runs["single"])
}

func TestRunLoadsFromStore(t *testing.T) {
	store := &stubStore{candles: ladder(20)}
	uc := newTestUseCase(store, nil, nil, Limits{})

	res, err := uc.Run(context.Background(), RunParams{
		Source: SourceParams{Symbol: "BTCUSDT", Interval: domrepo.Interval15m, From: 1_700_000_100},
		Params: engine.DefaultParams(),
		Signal: every(20, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, "BTCUSDT", store.symbol)
	assert.Equal(t, time.Unix(1_700_000_100, 0).Truncate(15*time.Minute).UTC(), store.from)
	assert.Equal(t, time.Unix(1_700_100_000, 0).Truncate(15*time.Minute).UTC(), store.to)
	assert.Equal(t, "BTCUSDT", res.Symbol)
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	p := engine.DefaultParams()

	t.Run("no store", func(t *testing.T) {
		m := newStubMetrics()
		uc := newTestUseCase(nil, nil, m, Limits{})
		_, err := uc.Run(ctx, RunParams{Source: SourceParams{Symbol: "X", Interval: domrepo.Interval1h}, Params: p, Signal: every(1, 1)})
		assert.ErrorIs(t, err, ErrNoStore)
		assert.Equal(t, 1, m.errors["no_store"])
	})

	t.Run("empty inline candles without store", func(t *testing.T) {
		m := newStubMetrics()
		uc := newTestUseCase(nil, nil, m, Limits{})
		_, err := uc.Run(ctx, RunParams{Source: SourceParams{Interval: domrepo.Interval15m, Candles: []models.Candle{}}, Params: p, Signal: every(1, 1)})
		assert.ErrorIs(t, err, engine.ErrEmptyCandles)
		assert.NotErrorIs(t, err, ErrNoStore)
		assert.Equal(t, 1, m.errors["invalid_input"])
	})

	t.Run("store failure", func(t *testing.T) {
		uc := newTestUseCase(&stubStore{err: errors.New("boom")}, nil, nil, Limits{})
		_, err := uc.Run(ctx, RunParams{Source: SourceParams{Symbol: "X", Interval: domrepo.Interval1h, From: 1}, Params: p, Signal: every(1, 1)})
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("empty range", func(t *testing.T) {
		uc := newTestUseCase(&stubStore{}, nil, nil, Limits{})
		_, err := uc.Run(ctx, RunParams{Source: SourceParams{Symbol: "X", Interval: domrepo.Interval1h, From: 7200, To: 3600}, Params: p, Signal: every(1, 1)})
		assert.ErrorIs(t, err, ErrBadRange)
		assert.ErrorIs(t, err, engine.ErrInvalidInput)
	})

	t.Run("empty store result", func(t *testing.T) {
		m := newStubMetrics()
		uc := newTestUseCase(&stubStore{}, nil, m, Limits{})
		_, err := uc.Run(ctx, RunParams{Source: SourceParams{Symbol: "X", Interval: domrepo.Interval1h, From: 1}, Params: p, Signal: every(1, 1)})
		assert.ErrorIs(t, err, engine.ErrEmptyCandles)
		assert.Equal(t, 1, m.errors["invalid_input"])
	})

	t.Run("too many candles", func(t *testing.T) {
		uc := newTestUseCase(nil, nil, nil, Limits{MaxCandles: 5})
		_, err := uc.Run(ctx, RunParams{Source: SourceParams{Candles: ladder(6)}, Params: p, Signal: every(6, 1)})
		assert.ErrorIs(t, err, ErrTooManyCandles)
	})
}

func TestRunPublishFailureIsNotFatal(t *testing.T) {
	m := newStubMetrics()
	uc := newTestUseCase(nil, &stubPublisher{err: errors.New("kafka down")}, m, Limits{})
	_, err := uc.Run(context.Background(), RunParams{
		Source: SourceParams{Candles: ladder(10), Interval: domrepo.Interval15m},
		Params: engine.DefaultParams(),
		Signal: every(10, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.errors["publish"])
}

func TestRunBatchMatchesSingleRuns(t *testing.T) {
	candles := ladder(60)
	signals := []models.Signal{every(60, 1), every(60, 2), every(60, 5), models.TimeSignal{candles[3].OpenTime: true}}
	p := engine.DefaultParams()
	pub := &stubPublisher{}
	m := newStubMetrics()
	uc := newTestUseCase(nil, pub, m, Limits{Shards: 2})

	res, err := uc.RunBatch(context.Background(), BatchParams{
		ID:      "job-42",
		Source:  SourceParams{Interval: domrepo.Interval15m, Candles: candles},
		Params:  p,
		Signals: signals,
	})
	require.NoError(t, err)
	assert.Equal(t, "job-42", res.ID)
	assert.Equal(t, 2, res.Shards)
	require.Len(t, res.Results, len(signals))
	for i, s := range signals {
		want, err := engine.Run(candles, s, p)
		require.NoError(t, err)
		assert.Equal(t, want, res.Results[i], "actor %d", i)
	}
	require.Len(t, pub.batches, 1)
	assert.Equal(t, len(signals), m.runs["batch"])
}

func TestRunBatchLimits(t *testing.T) {
	uc := newTestUseCase(nil, nil, nil, Limits{MaxActors: 2})
	_, err := uc.RunBatch(context.Background(), BatchParams{
		Source:  SourceParams{Candles: ladder(5)},
		Params:  engine.DefaultParams(),
		Signals: []models.Signal{every(5, 1), every(5, 1), every(5, 1)},
	})
	assert.ErrorIs(t, err, ErrTooManyActors)
}

func TestRunBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc := newTestUseCase(nil, nil, nil, Limits{Shards: 4})
	_, err := uc.RunBatch(ctx, BatchParams{
		Source:  SourceParams{Candles: ladder(5)},
		Params:  engine.DefaultParams(),
		Signals: []models.Signal{every(5, 1), every(5, 2)},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParamsFromRequest(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	p := ParamsFromRequest(models.ParamsRequest{}, domrepo.Interval1h)
	want := engine.DefaultParams()
	want.IntervalMinutes = 60
	assert.Equal(t, want, p)

	minutes := 5
	p = ParamsFromRequest(models.ParamsRequest{
		Stake:             f(1000),
		Gain:              f(0),
		Commission:        f(0),
		IntervalMinutes:   &minutes,
		AllowZeroQuantity: true,
	}, domrepo.Interval1h)
	assert.Equal(t, 1000.0, p.Stake)
	assert.Equal(t, 0.0, p.Gain)
	assert.Equal(t, 0.0, p.Commission)
	assert.Equal(t, 5, p.IntervalMinutes)
	assert.True(t, p.AllowZeroQuantity)
	assert.Equal(t, 3000.0, p.InitialBalance)
}

func TestBatchParamsFromRequest(t *testing.T) {
	req := models.BatchBacktestRequest{
		Source:  models.Source{Interval: "4h", Candles: ladder(3)},
		Signals: []json.RawMessage{json.RawMessage(`[1,0,1]`), json.RawMessage(`{"1700000900": 1}`)},
		Shards:  3,
	}
	in, err := BatchParamsFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, domrepo.Interval4h, in.Source.Interval)
	assert.Equal(t, 240, in.Params.IntervalMinutes)
	assert.Equal(t, 3, in.Shards)
	require.Len(t, in.Signals, 2)
	assert.Equal(t, models.SeriesSignal{true, false, true}, in.Signals[0])

	req.Signals = []json.RawMessage{json.RawMessage(`"nope"`)}
	_, err = BatchParamsFromRequest(req)
	assert.ErrorIs(t, err, models.ErrBadSignal)

	req.Interval = "2h"
	_, err = BatchParamsFromRequest(req)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestRunLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	uc := NewBacktestUseCase(nil, nil, nil, applogger.NewWithWriter(&buf, zerolog.DebugLevel), Limits{})

	res, err := uc.Run(context.Background(), RunParams{
		Source: SourceParams{Interval: domrepo.Interval15m, Candles: ladder(10)},
		Params: engine.DefaultParams(),
		Signal: every(10, 2),
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "backtest done", line["message"])
	assert.Equal(t, float64(10), line["candles"])
	assert.Equal(t, res.Stats.Wallet, line["wallet"])
	assert.Equal(t, res.Stats.Balance, line["balance"])
}
