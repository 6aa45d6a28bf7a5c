package marketdata

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	sq "github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
)

// BarQuery filters the bars read from a Parquet file. Unset fields do not filter.
type BarQuery struct {
	Symbol optional.Option[string]
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
	// Last keeps only the most recent bars.
	Last optional.Option[int]
}

// ReadBars loads bars from a Parquet file written by the market data writers, oldest first.
func ReadBars(path string, query BarQuery) ([]types.MarketData, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	builder := sq.Select("id", "time", "symbol", "open", "high", "low", "close", "volume").
		From(fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(path, "'", "''"))).
		OrderBy("time ASC")

	if symbol, err := query.Symbol.Take(); err == nil {
		builder = builder.Where(sq.Eq{"symbol": symbol})
	}

	if start, err := query.Start.Take(); err == nil {
		builder = builder.Where(sq.GtOrEq{"time": start})
	}

	if end, err := query.End.Take(); err == nil {
		builder = builder.Where(sq.LtOrEq{"time": end})
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build bar query", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read bars from %s", path)
	}
	defer rows.Close()

	var bars []types.MarketData

	for rows.Next() {
		var (
			id  sql.NullString
			bar types.MarketData
		)

		if err := rows.Scan(&id, &bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		bar.Id = id.String
		bar.Time = bar.Time.UTC()
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate bars", err)
	}

	if last, err := query.Last.Take(); err == nil && last > 0 && len(bars) > last {
		bars = bars[len(bars)-last:]
	}

	return bars, nil
}
