package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"NYCalc/internal/domain/models"
	domrepo "NYCalc/internal/domain/repository"
	pkgch "NYCalc/pkg/clickhouse"
	applogger "NYCalc/pkg/logger"
)

// CandleSchema returns the DDL for the candles table in database.
func CandleSchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.candles (
    symbol     LowCardinality(String),
    interval   LowCardinality(String),
    open_time  DateTime('UTC'),
    open       Float64,
    high       Float64,
    low        Float64,
    close      Float64,
    volume     Float64,
    quote      Float64,
    trades     UInt64,
    buy_base   Float64,
    buy_quote  Float64
) ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(open_time)
ORDER BY (symbol, interval, open_time)`, database),
	}
}

// CHCandleStore implements CandleStore backed by ClickHouse.
type CHCandleStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client, l *applogger.Logger) *CHCandleStore {
	return newCHCandleStore(ch.DB(), ch.Database(), l)
}

func newCHCandleStore(db *sql.DB, database string, l *applogger.Logger) *CHCandleStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHCandleStore{db: db, table: database + ".candles", l: l}
}

const candlesQuery = `
        SELECT toUnixTimestamp(open_time), open, high, low, close, volume, quote, trades, buy_base, buy_quote
        FROM %s
        WHERE symbol = ? AND interval = ? AND open_time >= ? AND open_time < ?
        ORDER BY open_time ASC
    `

// GetCandles returns candles with open_time in [from, to), ascending.
func (s *CHCandleStore) GetCandles(ctx context.Context, symbol string, iv domrepo.Interval, from, to time.Time) ([]models.Candle, error) {
	start := time.Now()
	l := s.l.With(
		applogger.String("table", s.table),
		applogger.String("symbol", symbol),
		applogger.String("interval", string(iv)),
	)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(candlesQuery, s.table), symbol, string(iv), from.UTC(), to.UTC())
	if err != nil {
		l.Error("clickhouse get_candles query error", applogger.Error(err))
		return nil, fmt.Errorf("get candles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, 1024)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.OpenTime, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.Quote, &c.Trades, &c.BuyBase, &c.BuyQuote); err != nil {
			l.Error("clickhouse get_candles scan error", applogger.Error(err))
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		l.Error("clickhouse get_candles rows error", applogger.Error(err))
		return nil, fmt.Errorf("rows: %w", err)
	}

	l.Debug("clickhouse get_candles ok",
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}
