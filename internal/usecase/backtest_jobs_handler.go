package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"NYCalc/internal/domain/models"
	domrepo "NYCalc/internal/domain/repository"
	"NYCalc/internal/services/engine"
	pkgkafka "NYCalc/pkg/kafka"
	applogger "NYCalc/pkg/logger"
)

// BacktestJobsHandler consumes batch jobs and runs them. Results are
// published by the use case.
type BacktestJobsHandler struct {
	topic    string
	uc       *BacktestUseCase
	metrics  domrepo.Metrics
	l        *applogger.Logger
	validate *validator.Validate
}

func NewBacktestJobsHandler(topic string, uc *BacktestUseCase, metrics domrepo.Metrics, l *applogger.Logger) *BacktestJobsHandler {
	if l == nil {
		l = applogger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &BacktestJobsHandler{topic: topic, uc: uc, metrics: metrics, l: l, validate: validator.New()}
}

func (h *BacktestJobsHandler) Topic() string { return h.topic }

// Handle decodes a models.BatchJob. Malformed or invalid jobs are permanent
// failures; anything else is retried by the consumer.
func (h *BacktestJobsHandler) Handle(ctx context.Context, b []byte) error {
	var job models.BatchJob
	if err := json.Unmarshal(b, &job); err != nil {
		h.metrics.RecordError("job_decode")
		return pkgkafka.Permanent(fmt.Errorf("decode job: %w", err))
	}
	if err := defaults.Set(&job); err != nil {
		return pkgkafka.Permanent(fmt.Errorf("job defaults: %w", err))
	}
	if err := h.validate.StructCtx(ctx, &job); err != nil {
		h.metrics.RecordError("job_invalid")
		return pkgkafka.Permanent(fmt.Errorf("job %s: %w", job.ID, err))
	}

	in, err := BatchParamsFromRequest(job.BatchBacktestRequest)
	if err != nil {
		h.metrics.RecordError("job_invalid")
		return pkgkafka.Permanent(fmt.Errorf("job %s: %w", job.ID, err))
	}
	in.ID = job.ID

	l := h.l.With(applogger.String("job_id", job.ID), applogger.String("trace_id", pkgkafka.TraceID(ctx)))
	res, err := h.uc.RunBatch(ctx, in)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) || errors.Is(err, engine.ErrInvalidParams) {
			l.Warn("job rejected", applogger.Error(err))
			return pkgkafka.Permanent(err)
		}
		return err
	}
	l.Info("job done", applogger.Int("actors", len(res.Results)), applogger.Int64("elapsed_ms", res.ElapsedMs))
	return nil
}

// BatchParamsFromRequest converts a validated batch request into engine input.
func BatchParamsFromRequest(req models.BatchBacktestRequest) (BatchParams, error) {
	src, err := SourceFromRequest(req.Source)
	if err != nil {
		return BatchParams{}, err
	}
	signals, err := models.ParseSignals(req.Signals)
	if err != nil {
		return BatchParams{}, err
	}
	return BatchParams{
		Source:  src,
		Params:  ParamsFromRequest(req.Params, src.Interval),
		Signals: signals,
		Shards:  req.Shards,
	}, nil
}

var _ pkgkafka.MessageHandler = (*BacktestJobsHandler)(nil)
