package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"NYCalc/internal/domain/models"
	domrepo "NYCalc/internal/domain/repository"
	"NYCalc/internal/services/engine"
	applogger "NYCalc/pkg/logger"
	"NYCalc/pkg/util"
)

var (
	ErrTooManyActors  = fmt.Errorf("%w: too many signals", engine.ErrInvalidInput)
	ErrTooManyCandles = fmt.Errorf("%w: too many candles", engine.ErrInvalidInput)
	ErrBadRange       = fmt.Errorf("%w: bad time range", engine.ErrInvalidInput)
	// ErrNoStore is returned for symbol lookups when no candle store is configured.
	ErrNoStore = errors.New("candle store not configured")
)

// Limits bounds the work one request may ask for.
type Limits struct {
	Shards     int
	MaxActors  int
	MaxCandles int
}

// BacktestUseCase loads candles, runs the engine and ships results.
type BacktestUseCase struct {
	store   domrepo.CandleStore
	pub     domrepo.ResultPublisher
	metrics domrepo.Metrics
	l       *applogger.Logger
	limits  Limits

	now   func() time.Time
	newID func() string
}

// NewBacktestUseCase wires the use case. store and pub may be nil.
func NewBacktestUseCase(store domrepo.CandleStore, pub domrepo.ResultPublisher, metrics domrepo.Metrics, l *applogger.Logger, limits Limits) *BacktestUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if limits.Shards < 1 {
		limits.Shards = 1
	}
	return &BacktestUseCase{
		store:   store,
		pub:     pub,
		metrics: metrics,
		l:       l,
		limits:  limits,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SourceParams selects candles: inline Candles win over a stored range.
type SourceParams struct {
	Symbol   string
	Interval domrepo.Interval
	From     int64
	To       int64
	Candles  []models.Candle
}

type RunParams struct {
	Source SourceParams
	Params engine.Params
	Signal models.Signal
}

type BatchParams struct {
	// ID is used as the result id when set, e.g. a job id.
	ID      string
	Source  SourceParams
	Params  engine.Params
	Signals []models.Signal
	// Shards <= 0 uses the configured default.
	Shards int
}

// SourceFromRequest validates the interval of a decoded request source.
func SourceFromRequest(s models.Source) (SourceParams, error) {
	iv, err := domrepo.ParseInterval(s.Interval)
	if err != nil {
		return SourceParams{}, fmt.Errorf("%w: %v", engine.ErrInvalidInput, err)
	}
	return SourceParams{
		Symbol:   s.Symbol,
		Interval: iv,
		From:     s.From,
		To:       s.To,
		Candles:  s.Candles,
	}, nil
}

// ParamsFromRequest overlays the set request fields on the defaults. A missing
// interval_minutes follows the candle interval.
func ParamsFromRequest(r models.ParamsRequest, iv domrepo.Interval) engine.Params {
	p := engine.DefaultParams()
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.InitialBalance, r.InitialBalance)
	set(&p.Stake, r.Stake)
	set(&p.Gain, r.Gain)
	set(&p.ProfitShare, r.ProfitShare)
	set(&p.LotStep, r.LotStep)
	set(&p.PriceStep, r.PriceStep)
	set(&p.Commission, r.Commission)
	switch {
	case r.IntervalMinutes != nil:
		p.IntervalMinutes = *r.IntervalMinutes
	case iv.Minutes() > 0:
		p.IntervalMinutes = iv.Minutes()
	}
	p.AllowZeroQuantity = r.AllowZeroQuantity
	return p
}

// Run backtests one signal.
func (uc *BacktestUseCase) Run(ctx context.Context, in RunParams) (*models.RunResult, error) {
	candles, err := uc.candles(ctx, in.Source)
	if err != nil {
		return nil, uc.fail("single", err)
	}

	start := time.Now()
	stats, err := engine.Run(candles, in.Signal, in.Params)
	uc.metrics.RecordLatency("engine_single", time.Since(start).Seconds())
	if err != nil {
		return nil, uc.fail("single", err)
	}
	uc.metrics.RecordRun("single", 1)
	uc.metrics.RecordPositions("single", stats.OpenedOrders, stats.ExecutedOrders)
	uc.l.Debug("backtest done",
		applogger.Int("candles", len(candles)),
		applogger.Int("opened", stats.OpenedOrders),
		applogger.Int("executed", stats.ExecutedOrders),
		applogger.Float64("wallet", stats.Wallet),
		applogger.Float64("balance", stats.Balance),
	)

	res := &models.RunResult{
		ID:        uc.newID(),
		Symbol:    in.Source.Symbol,
		Interval:  string(in.Source.Interval),
		Candles:   len(candles),
		Stats:     stats,
		CreatedAt: uc.now().UTC(),
	}
	if uc.pub != nil {
		if err := uc.pub.PublishRun(ctx, res); err != nil {
			uc.publishFailed(res.ID, err)
		}
	}
	return res, nil
}

// RunBatch backtests many signals over the same candles. Results keep input order.
func (uc *BacktestUseCase) RunBatch(ctx context.Context, in BatchParams) (*models.BatchResult, error) {
	if uc.limits.MaxActors > 0 && len(in.Signals) > uc.limits.MaxActors {
		return nil, uc.fail("batch", fmt.Errorf("%w: %d > %d", ErrTooManyActors, len(in.Signals), uc.limits.MaxActors))
	}
	candles, err := uc.candles(ctx, in.Source)
	if err != nil {
		return nil, uc.fail("batch", err)
	}

	shards := in.Shards
	if shards <= 0 {
		shards = uc.limits.Shards
	}

	start := time.Now()
	stats, err := engine.RunSharded(ctx, candles, in.Signals, in.Params, shards)
	elapsed := time.Since(start)
	uc.metrics.RecordLatency("engine_batch", elapsed.Seconds())
	if err != nil {
		return nil, uc.fail("batch", err)
	}

	opened, executed := 0, 0
	for _, s := range stats {
		opened += s.OpenedOrders
		executed += s.ExecutedOrders
	}
	uc.metrics.RecordRun("batch", len(stats))
	uc.metrics.RecordPositions("batch", opened, executed)

	id := in.ID
	if id == "" {
		id = uc.newID()
	}
	res := &models.BatchResult{
		ID:        id,
		Symbol:    in.Source.Symbol,
		Interval:  string(in.Source.Interval),
		Candles:   len(candles),
		Shards:    min(shards, len(stats)),
		Results:   stats,
		ElapsedMs: elapsed.Milliseconds(),
		CreatedAt: uc.now().UTC(),
	}
	uc.l.Info("batch backtest done",
		applogger.String("id", id),
		applogger.Int("actors", len(stats)),
		applogger.Int("candles", len(candles)),
		applogger.Int("shards", res.Shards),
		applogger.Duration("duration_ms", elapsed),
	)
	if uc.pub != nil {
		if err := uc.pub.PublishBatch(ctx, res); err != nil {
			uc.publishFailed(id, err)
		}
	}
	return res, nil
}

func (uc *BacktestUseCase) candles(ctx context.Context, src SourceParams) ([]models.Candle, error) {
	candles := src.Candles
	if len(candles) == 0 {
		if src.Symbol == "" {
			return nil, fmt.Errorf("%w: symbol or candles required", engine.ErrEmptyCandles)
		}
		if uc.store == nil {
			return nil, ErrNoStore
		}
		step := time.Duration(src.Interval.Minutes()) * time.Minute
		from, to, err := util.ResolveRange(src.From, src.To, uc.now(), step)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRange, err)
		}

		start := time.Now()
		candles, err = uc.store.GetCandles(ctx, src.Symbol, src.Interval, from, to)
		uc.metrics.RecordLatency("candle_load", time.Since(start).Seconds())
		if err != nil {
			return nil, fmt.Errorf("load candles: %w", err)
		}
	}
	if uc.limits.MaxCandles > 0 && len(candles) > uc.limits.MaxCandles {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyCandles, len(candles), uc.limits.MaxCandles)
	}
	return candles, nil
}

func (uc *BacktestUseCase) fail(mode string, err error) error {
	kind := errorKind(err)
	uc.metrics.RecordError(kind)
	if kind != "invalid_input" && kind != "invalid_params" {
		uc.l.Error("backtest failed", applogger.String("mode", mode), applogger.String("kind", kind), applogger.Error(err))
	}
	return err
}

func (uc *BacktestUseCase) publishFailed(id string, err error) {
	uc.metrics.RecordError("publish")
	uc.l.Warn("publish result failed", applogger.String("id", id), applogger.Error(err))
}

type nopMetrics struct{}

func (nopMetrics) RecordRun(string, int)            {}
func (nopMetrics) RecordPositions(string, int, int) {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordLatency(string, float64)    {}

func errorKind(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidParams):
		return "invalid_params"
	case errors.Is(err, engine.ErrInvalidInput), errors.Is(err, models.ErrBadSignal):
		return "invalid_input"
	case errors.Is(err, ErrNoStore):
		return "no_store"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
