package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"NYCalc/internal/domain/models"
	"NYCalc/internal/service/ratelimit"
	"NYCalc/internal/services/engine"
	"NYCalc/internal/usecase"
	xhttp "NYCalc/pkg/http"
	applogger "NYCalc/pkg/logger"
)

// Backtester is the slice of the use case the handler needs.
type Backtester interface {
	Run(ctx context.Context, in usecase.RunParams) (*models.RunResult, error)
	RunBatch(ctx context.Context, in usecase.BatchParams) (*models.BatchResult, error)
}

// BacktestEchoHandler serves the backtest API.
type BacktestEchoHandler struct {
	uc     Backtester
	rl     *ratelimit.Limiter
	logger *applogger.Logger
}

func NewBacktestEchoHandler(uc Backtester, rl *ratelimit.Limiter, logger *applogger.Logger) *BacktestEchoHandler {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &BacktestEchoHandler{uc: uc, rl: rl, logger: logger}
}

func (h *BacktestEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/backtest", h.Backtest)
	g.POST("/backtest/batch", h.BacktestBatch, h.rateLimited)
}

// Backtest runs one signal and responds with its stats.
func (h *BacktestEchoHandler) Backtest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	src, err := usecase.SourceFromRequest(req.Source)
	if err != nil {
		return h.fail(c, err)
	}
	sig, err := models.ParseSignal(req.Signal)
	if err != nil {
		return h.fail(c, err)
	}

	res, err := h.uc.Run(c.Request().Context(), usecase.RunParams{
		Source: src,
		Params: usecase.ParamsFromRequest(req.Params, src.Interval),
		Signal: sig,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// BacktestBatch runs every signal against the same candles.
func (h *BacktestEchoHandler) BacktestBatch(c echo.Context) error {
	req := &models.BatchBacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	in, err := usecase.BatchParamsFromRequest(*req)
	if err != nil {
		return h.fail(c, err)
	}
	res, err := h.uc.RunBatch(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *BacktestEchoHandler) rateLimited(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ok, err := h.rl.Allow(c.Request().Context(), c.RealIP()+":batch")
		if err != nil {
			// fail open; the limiter store is best effort
			h.logger.Warn("rate limiter unavailable", applogger.Error(err))
			return next(c)
		}
		if !ok {
			h.logger.Warn("batch rate limited", applogger.String("remote", c.RealIP()))
			return xhttp.TooManyRequestsResponse(c)
		}
		return next(c)
	}
}

func (h *BacktestEchoHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidInput),
		errors.Is(err, engine.ErrInvalidParams),
		errors.Is(err, models.ErrBadSignal):
		return xhttp.AppErrorResponse(c, xhttp.InvalidInputError(err))
	case errors.Is(err, usecase.ErrNoStore):
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError(err.Error()))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, "request canceled")
	}
	h.logger.Error("backtest handler error", applogger.String("route", c.Path()), applogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}
