// Package writer persists market data artifacts to DuckDB files.
package writer

import (
	"database/sql"
	"math"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/errors"
)

// DuckDBWriter writes bar series and annotated indicator series to a DuckDB
// database file. It is the persistence half of the market data layer: the
// annotated series is the only backtest artifact other tools may chart.
type DuckDBWriter struct {
	db     *sql.DB
	path   string
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBWriter opens (or creates) the database file at path.
func NewDuckDBWriter(path string, log *logger.Logger) (*DuckDBWriter, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to open DuckDB file %s", path)
	}

	return &DuckDBWriter{
		db:     db,
		path:   path,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// WriteBars appends raw bars to the market_data table, creating it on first
// use. Live cycles call this to keep a record of what was analyzed.
func (w *DuckDBWriter) WriteBars(bars []types.Bar) error {
	_, err := w.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create market_data table", err)
	}

	for _, bar := range bars {
		query := w.sq.
			Insert("market_data").
			Columns("time", "symbol", "open", "high", "low", "close", "volume").
			Values(bar.Time, bar.Symbol, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)

		sqlQuery, args, err := query.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to build bar insert", err)
		}

		if _, err := w.db.Exec(sqlQuery, args...); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to insert bar", err)
		}
	}

	w.logger.Debug("bars written", zap.Int("count", len(bars)), zap.String("path", w.path))

	return nil
}

// WriteAnnotatedSeries replaces the annotated_series table with the given
// series. Undefined indicator values are stored as NULL.
func (w *DuckDBWriter) WriteAnnotatedSeries(series types.IndicatorSeries) error {
	if _, err := w.db.Exec(`DROP TABLE IF EXISTS annotated_series`); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to drop annotated_series table", err)
	}

	_, err := w.db.Exec(`
		CREATE TABLE annotated_series (
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE,
			short_ma DOUBLE,
			long_ma DOUBLE,
			signal TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create annotated_series table", err)
	}

	for _, p := range series {
		query := w.sq.
			Insert("annotated_series").
			Columns("time", "symbol", "open", "high", "low", "close", "volume", "short_ma", "long_ma", "signal").
			Values(p.Time, p.Symbol, p.Open, p.High, p.Low, p.Close, p.Volume,
				nullableFloat(p.ShortMA), nullableFloat(p.LongMA), string(p.Signal))

		sqlQuery, args, err := query.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to build annotated point insert", err)
		}

		if _, err := w.db.Exec(sqlQuery, args...); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to insert annotated point", err)
		}
	}

	w.logger.Debug("annotated series written", zap.Int("count", len(series)), zap.String("path", w.path))

	return nil
}

// Close releases the underlying database.
func (w *DuckDBWriter) Close() error {
	return w.db.Close()
}

func nullableFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}

	return v
}
