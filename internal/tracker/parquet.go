package tracker

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

const tradesTableSchema = `
	CREATE TABLE trades (
		trade_id TEXT,
		symbol TEXT,
		entry_time TIMESTAMP,
		exit_time TIMESTAMP,
		entry_price DOUBLE,
		exit_price DOUBLE,
		position_type TEXT,
		position_size DOUBLE,
		stop_loss DOUBLE,
		take_profit DOUBLE,
		pnl DOUBLE,
		pnl_percentage DOUBLE,
		status TEXT,
		strategy_name TEXT,
		notes TEXT
	)
`

var tradeColumns = []string{
	"trade_id", "symbol", "entry_time", "exit_time", "entry_price", "exit_price",
	"position_type", "position_size", "stop_loss", "take_profit", "pnl",
	"pnl_percentage", "status", "strategy_name", "notes",
}

// ExportParquet writes the whole ledger to a Parquet file at path through an
// in-memory DuckDB table.
func (t *Tracker) ExportParquet(path string) error {
	trades := t.Trades()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to create directory for %s", path)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	if _, err := db.Exec(tradesTableSchema); err != nil {
		return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to create trades table", err)
	}

	sq := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	for _, trade := range trades {
		_, err := sq.Insert("trades").
			Columns(tradeColumns...).
			Values(
				trade.TradeID,
				trade.Symbol,
				trade.EntryTime,
				nullable(trade.ExitTime),
				trade.EntryPrice,
				nullable(trade.ExitPrice),
				string(trade.PositionType),
				trade.PositionSize,
				nullable(trade.StopLoss),
				nullable(trade.TakeProfit),
				nullable(trade.PnL),
				nullable(trade.PnLPercentage),
				string(trade.Status),
				trade.StrategyName,
				trade.Notes,
			).
			RunWith(db).
			Exec()
		if err != nil {
			t.logger.Error("Failed to insert trade for export", zap.String("trade_id", trade.TradeID), zap.Error(err))

			return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to insert trade %s", trade.TradeID)
		}
	}

	query := fmt.Sprintf("COPY trades TO '%s' (FORMAT PARQUET)", escapeSQLString(path))
	if _, err := db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to export trades to %s", path)
	}

	t.logger.Info("Exported trades", zap.String("path", path), zap.Int("count", len(trades)))

	return nil
}

// ReadParquet loads trades previously written by ExportParquet.
func ReadParquet(path string) ([]types.TradeRecord, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	source := fmt.Sprintf("read_parquet('%s')", escapeSQLString(path))

	rows, err := squirrel.Select(tradeColumns...).From(source).OrderBy("entry_time").RunWith(db).Query()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	var trades []types.TradeRecord

	for rows.Next() {
		var (
			trade                           types.TradeRecord
			positionType, status            string
			exitTime                        sql.NullTime
			exitPrice, stopLoss, takeProfit sql.NullFloat64
			pnl, pnlPercentage              sql.NullFloat64
		)

		err := rows.Scan(
			&trade.TradeID, &trade.Symbol, &trade.EntryTime, &exitTime, &trade.EntryPrice, &exitPrice,
			&positionType, &trade.PositionSize, &stopLoss, &takeProfit, &pnl, &pnlPercentage,
			&status, &trade.StrategyName, &trade.Notes,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		trade.PositionType = types.PositionType(positionType)
		trade.Status = types.TradeStatus(status)
		trade.ExitTime = fromNullTime(exitTime)
		trade.ExitPrice = fromNullFloat(exitPrice)
		trade.StopLoss = fromNullFloat(stopLoss)
		trade.TakeProfit = fromNullFloat(takeProfit)
		trade.PnL = fromNullFloat(pnl)
		trade.PnLPercentage = fromNullFloat(pnlPercentage)

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate trades", err)
	}

	return trades, nil
}

func nullable[T any](value optional.Option[T]) any {
	if value.IsNone() {
		return nil
	}

	return value.Unwrap()
}

func fromNullFloat(value sql.NullFloat64) optional.Option[float64] {
	if !value.Valid {
		return optional.None[float64]()
	}

	return optional.Some(value.Float64)
}

func fromNullTime(value sql.NullTime) optional.Option[time.Time] {
	if !value.Valid {
		return optional.None[time.Time]()
	}

	return optional.Some(value.Time)
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
