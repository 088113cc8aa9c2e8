package di

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"

	domrepo "NYCalc/internal/domain/repository"
	"NYCalc/internal/handler/api"
	internalrepo "NYCalc/internal/repository"
	"NYCalc/internal/service/ratelimit"
	"NYCalc/internal/usecase"
	"NYCalc/pkg/cache"
	pkgch "NYCalc/pkg/clickhouse"
	"NYCalc/pkg/config"
	xhttp "NYCalc/pkg/http"
	pkgkafka "NYCalc/pkg/kafka"
	applogger "NYCalc/pkg/logger"
	"NYCalc/pkg/metrics"
	"NYCalc/pkg/server"
)

// InfraSet holds the clients; each returns a nil value when disabled in config.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideClickHouseClient,
	ProvideCache,
	ProvideKafkaProducer,
	ProvideKafkaConsumer,
)

var AppSet = wire.NewSet(
	ProvideCandleStore,
	ProvideResultPublisher,
	ProvideBacktestUseCase,
	ProvideRateLimiter,
	ProvideHTTPHandler,
	ProvideHTTPServer,
	ProvideJobsHandler,
	ProvideApp,
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, err
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient connects and optionally creates the candles table.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	ch := cfg.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(ch.MaxOpenConns, ch.MaxIdleConns),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if ch.InitSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, internalrepo.CandleSchema(ch.Database)); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	l.Info("clickhouse connected", applogger.String("database", ch.Database))

	return client, func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}, nil
}

// ProvideCache returns Redis behind an in-process L1 when Redis is enabled,
// otherwise an in-process cache only.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	rc := cfg.Redis
	var svc cache.Service
	if rc.Enabled {
		redis, err := cache.NewRedisCache(
			cache.WithRedisHost(rc.Host),
			cache.WithRedisPort(rc.Port),
			cache.WithRedisPassword(rc.Password),
			cache.WithRedisDB(rc.DB),
			cache.WithRedisPrefix(rc.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = cache.NewLayeredCache(redis,
			cache.WithLayeredMemorySize(rc.MemorySize),
			cache.WithLayeredMemoryTTL(rc.MemoryTTL),
		)
		l.Info("redis cache connected", applogger.String("host", rc.Host))
	} else {
		svc = cache.NewMemoryCache(cache.WithMemoryMaxSize(rc.MemorySize))
	}
	return svc, func() {
		if err := svc.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}, nil
}

// ProvideKafkaProducer creates the results producer.
func ProvideKafkaProducer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	k := cfg.Kafka
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithBatching(k.Producer.BatchSize, k.Producer.BatchBytes, k.Producer.Linger),
		pkgkafka.WithTimeouts(k.Producer.WriteTimeout, k.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(k.Producer.MaxAttempts),
		pkgkafka.WithAsync(k.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	l.Info("kafka producer ready",
		applogger.Strings("brokers", k.Brokers),
		applogger.String("results_topic", k.ResultsTopic),
		applogger.String("compression", k.Compression),
	)
	return producer, func() {
		if err := producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}, nil
}

// ProvideKafkaConsumer creates the jobs consumer. The App stops it.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	k := cfg.Kafka
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(k.Brokers),
		pkgkafka.WithConsumerGroupID(k.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(k.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(k.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(k.Consumer.RetryMax, k.Consumer.BackoffMin, k.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(k.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(k.Consumer.MinBytes, k.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.TraceHook())
	return consumer, nil
}

// ProvideCandleStore reads ClickHouse through the cache. Nil without ClickHouse.
func ProvideCandleStore(ch *pkgch.Client, c cache.Service, cfg *config.Config, l *applogger.Logger) domrepo.CandleStore {
	if ch == nil {
		return nil
	}
	store := internalrepo.NewCHCandleStore(ch, l)
	return internalrepo.NewCachedCandleStore(store, c, cfg.Redis.CandleTTL, l)
}

// ProvideResultPublisher publishes to the results topic. Nil without Kafka.
func ProvideResultPublisher(p *pkgkafka.Producer, cfg *config.Config) domrepo.ResultPublisher {
	if p == nil {
		return nil
	}
	return internalrepo.NewKafkaResultPublisher(p, cfg.Kafka.ResultsTopic)
}

func ProvideBacktestUseCase(store domrepo.CandleStore, pub domrepo.ResultPublisher, m domrepo.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.BacktestUseCase {
	return usecase.NewBacktestUseCase(store, pub, m, l, usecase.Limits{
		Shards:     cfg.Engine.Shards,
		MaxActors:  cfg.Engine.MaxActors,
		MaxCandles: cfg.Engine.MaxCandles,
	})
}

func ProvideRateLimiter(c cache.Service, cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(c, cfg.RateLimit.Limit, cfg.RateLimit.Window)
}

func ProvideHTTPHandler(uc *usecase.BacktestUseCase, rl *ratelimit.Limiter, l *applogger.Logger) xhttp.Handler {
	return api.NewBacktestEchoHandler(uc, rl, l)
}

func ProvideHTTPServer(h xhttp.Handler, l *applogger.Logger, cfg *config.Config) *xhttp.Server {
	s := cfg.Server
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithHost(s.Host),
		xhttp.WithPort(s.Port),
		xhttp.WithTimeouts(s.ReadTimeout, s.WriteTimeout, s.ShutdownTimeout),
		xhttp.WithBodyLimit(s.BodyLimit),
		xhttp.WithSlowThreshold(s.SlowThreshold),
		xhttp.WithMetrics(metricsPath, nil, nil),
	)
}

func ProvideJobsHandler(uc *usecase.BacktestUseCase, m domrepo.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.BacktestJobsHandler {
	return usecase.NewBacktestJobsHandler(cfg.Kafka.JobsTopic, uc, m, l)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, consumer *pkgkafka.Consumer, jobs *usecase.BacktestJobsHandler) *server.App {
	return server.New(l, srv, consumer, jobs, cfg.Server.ShutdownTimeout)
}
