package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "NYCalc/pkg/http"
	pkgkafka "NYCalc/pkg/kafka"
	applogger "NYCalc/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	httpServer      *xhttp.Server
	consumer        *pkgkafka.Consumer
	jobs            pkgkafka.MessageHandler
	l               *applogger.Logger
	shutdownTimeout time.Duration
}

// New creates an App. consumer and jobs may be nil when Kafka is disabled.
func New(l *applogger.Logger, httpServer *xhttp.Server, consumer *pkgkafka.Consumer, jobs pkgkafka.MessageHandler, shutdownTimeout time.Duration) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		httpServer:      httpServer,
		consumer:        consumer,
		jobs:            jobs,
		l:               l,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if a.consumer != nil && a.jobs != nil {
		a.consumer.RegisterHandler(a.jobs)
		if err := a.consumer.Start(); err != nil {
			return err
		}
		a.l.Info("backtest jobs consumer started", applogger.String("topic", a.jobs.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops intake first: HTTP, then the consumer. Clients are closed by
// the DI cleanup afterwards.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.l.Info("shutdown complete")
	return firstErr
}
