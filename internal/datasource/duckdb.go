// Package datasource loads historical bar series from disk through DuckDB.
package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/errors"
)

// DuckDBSource reads an ordered bar series from a CSV or Parquet file through
// an in-memory DuckDB instance. The file must expose time, open, high, low,
// close and volume columns.
type DuckDBSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBSource creates a bar source backed by an in-memory DuckDB.
func NewDuckDBSource(log *logger.Logger) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open DuckDB", err)
	}

	return &DuckDBSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize points the source at a data file, replacing any previously
// loaded one. The file format is chosen by extension: .csv or .parquet.
func (d *DuckDBSource) Initialize(path string) error {
	d.logger.Debug("initializing DuckDB bar source", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS bars;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	var reader string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		reader = "read_csv_auto"
	case ".parquet":
		reader = "read_parquet"
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported data file extension: %s", filepath.Ext(path))
	}

	// CREATE VIEW has no placeholder support; the path comes from our own
	// configuration, not user-facing input.
	query := fmt.Sprintf(`CREATE VIEW bars AS SELECT * FROM %s('%s');`, reader, path)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to create view over %s", path)
	}

	return nil
}

// ReadAll returns every bar in time order, stamped with the given symbol,
// optionally bounded by start and end (inclusive).
func (d *DuckDBSource) ReadAll(symbol string, start, end optional.Option[time.Time]) ([]types.Bar, error) {
	query := d.sq.
		Select("time", "open", "high", "low", "close", "volume").
		From("bars").
		OrderBy("time ASC")

	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build bars query", err)
	}

	rows, err := d.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var bar types.Bar
		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		bar.Symbol = symbol
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate bars", err)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no bars found for symbol %s", symbol)
	}

	return bars, nil
}

// Count returns the number of bars within the optional bounds.
func (d *DuckDBSource) Count(start, end optional.Option[time.Time]) (int, error) {
	query := d.sq.Select("COUNT(*)").From("bars")

	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(sqlQuery, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// Close releases the underlying database.
func (d *DuckDBSource) Close() error {
	return d.db.Close()
}
