package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// ArchiveWriter keeps an append-only Parquet archive of bars seen by a live session.
// Bars are keyed by (symbol, time) so re-fetched bars replace older copies.
// The file is named bars_<symbol>_<interval>.parquet and survives restarts.
type ArchiveWriter struct {
	mu         sync.Mutex
	db         *sql.DB
	outputPath string
	logger     *logger.Logger
}

// NewArchiveWriter creates an archive in dataDir for symbol and interval.
func NewArchiveWriter(dataDir, symbol, interval string, log *logger.Logger) *ArchiveWriter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &ArchiveWriter{
		outputPath: filepath.Join(dataDir, fmt.Sprintf("bars_%s_%s.parquet", symbol, interval)),
		logger:     log,
	}
}

// Initialize opens the database and loads the existing archive if there is one.
func (w *ArchiveWriter) Initialize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create archive directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to open DuckDB connection", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			id TEXT,
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE,
			PRIMARY KEY (symbol, time)
		)
	`)
	if err != nil {
		db.Close()

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create table", err)
	}

	w.db = db

	if _, err := os.Stat(w.outputPath); err == nil {
		_, err = w.db.Exec(fmt.Sprintf(`
			INSERT INTO market_data
			SELECT * FROM read_parquet('%s')
			ON CONFLICT (symbol, time) DO NOTHING
		`, quote(w.outputPath)))
		if err != nil {
			// an unreadable archive is replaced on the next export
			w.logger.Warn("Failed to load bar archive", zap.String("path", w.outputPath), zap.Error(err))
		}
	}

	return nil
}

func (w *ArchiveWriter) upsert(data types.MarketData) error {
	id := data.Id
	if id == "" {
		id = uuid.New().String()
	}

	_, err := w.db.Exec(`
		INSERT INTO market_data (id, time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, time) DO UPDATE SET
			id = excluded.id,
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume
	`, id, data.Time, data.Symbol, data.Open, data.High, data.Low, data.Close, data.Volume)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to upsert bar", err)
	}

	return nil
}

// Write upserts one bar and exports the archive.
func (w *ArchiveWriter) Write(data types.MarketData) error {
	return w.Append([]types.MarketData{data})
}

// Append upserts bars and exports the archive once.
func (w *ArchiveWriter) Append(bars []types.MarketData) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	for _, bar := range bars {
		if err := w.upsert(bar); err != nil {
			return err
		}
	}

	return w.export()
}

// Count returns the number of archived bars.
func (w *ArchiveWriter) Count() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return 0, errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	var n int
	if err := w.db.QueryRow(`SELECT COUNT(*) FROM market_data`).Scan(&n); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return n, nil
}

func (w *ArchiveWriter) Finalize() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	if err := w.export(); err != nil {
		return "", err
	}

	return w.outputPath, nil
}

func (w *ArchiveWriter) GetOutputPath() string {
	return w.outputPath
}

func (w *ArchiveWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return nil
	}

	err := w.db.Close()
	w.db = nil

	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close database", err)
	}

	return nil
}

func (w *ArchiveWriter) export() error {
	_, err := w.db.Exec(fmt.Sprintf(`
		COPY (SELECT * FROM market_data ORDER BY time ASC)
		TO '%s' (FORMAT PARQUET)
	`, quote(w.outputPath)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to export to parquet", err)
	}

	return nil
}

var _ MarketDataWriter = (*ArchiveWriter)(nil)
