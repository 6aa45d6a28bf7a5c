package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func bar(symbol string, at time.Time, closePrice float64) types.MarketData {
	return types.MarketData{
		Symbol: symbol,
		Time:   at,
		Open:   closePrice - 1,
		High:   closePrice + 2,
		Low:    closePrice - 2,
		Close:  closePrice,
		Volume: 10,
	}
}

func countRows(path string) (int, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int
	err = db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM read_parquet('%s')", path)).Scan(&n)

	return n, err
}

func (suite *DuckDBWriterTestSuite) TestWriteWithoutInitialize() {
	w := NewDuckDBWriter(filepath.Join(suite.tempDir, "none.parquet"), nil)

	err := w.Write(bar("XAUUSD", time.Now(), 2000))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))

	_, err = w.Finalize()
	suite.Error(err)
}

func (suite *DuckDBWriterTestSuite) TestWriteAndFinalize() {
	out := filepath.Join(suite.tempDir, "nested", "xau.parquet")
	w := NewDuckDBWriter(out, nil)
	suite.Require().NoError(w.Initialize())
	defer w.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		suite.Require().NoError(w.Write(bar("XAUUSD", start.Add(time.Duration(i)*time.Hour), 2000+float64(i))))
	}

	path, err := w.Finalize()
	suite.Require().NoError(err)
	suite.Equal(out, path)
	suite.Equal(out, w.GetOutputPath())

	_, err = os.Stat(out)
	suite.Require().NoError(err)

	n, err := countRows(out)
	suite.Require().NoError(err)
	suite.Equal(5, n)
}

func (suite *DuckDBWriterTestSuite) TestCloseIsIdempotent() {
	w := NewDuckDBWriter(filepath.Join(suite.tempDir, "close.parquet"), nil)
	suite.Require().NoError(w.Initialize())

	suite.NoError(w.Close())
	suite.NoError(w.Close())
}

type ArchiveWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestArchiveWriterSuite(t *testing.T) {
	suite.Run(t, new(ArchiveWriterTestSuite))
}

func (suite *ArchiveWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *ArchiveWriterTestSuite) TestPath() {
	w := NewArchiveWriter(suite.tempDir, "XAUUSD", "1h", nil)
	suite.Equal(filepath.Join(suite.tempDir, "bars_XAUUSD_1h.parquet"), w.GetOutputPath())
}

func (suite *ArchiveWriterTestSuite) TestAppendUpsertsByTime() {
	w := NewArchiveWriter(suite.tempDir, "XAUUSD", "1h", nil)
	suite.Require().NoError(w.Initialize())
	defer w.Close()

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(w.Append([]types.MarketData{
		bar("XAUUSD", start, 2000),
		bar("XAUUSD", start.Add(time.Hour), 2001),
	}))

	// the second bar is re-fetched with a new close
	suite.Require().NoError(w.Append([]types.MarketData{
		bar("XAUUSD", start.Add(time.Hour), 2005),
		bar("XAUUSD", start.Add(2*time.Hour), 2006),
	}))

	n, err := w.Count()
	suite.Require().NoError(err)
	suite.Equal(3, n)

	n, err = countRows(w.GetOutputPath())
	suite.Require().NoError(err)
	suite.Equal(3, n)
}

func (suite *ArchiveWriterTestSuite) TestReloadsExistingArchive() {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	first := NewArchiveWriter(suite.tempDir, "XAUUSD", "1h", nil)
	suite.Require().NoError(first.Initialize())
	suite.Require().NoError(first.Write(bar("XAUUSD", start, 2000)))
	suite.Require().NoError(first.Close())

	second := NewArchiveWriter(suite.tempDir, "XAUUSD", "1h", nil)
	suite.Require().NoError(second.Initialize())
	defer second.Close()

	suite.Require().NoError(second.Write(bar("XAUUSD", start.Add(time.Hour), 2001)))

	n, err := second.Count()
	suite.Require().NoError(err)
	suite.Equal(2, n)

	path, err := second.Finalize()
	suite.Require().NoError(err)
	suite.Equal(second.GetOutputPath(), path)
}

func (suite *ArchiveWriterTestSuite) TestNotInitialized() {
	w := NewArchiveWriter(suite.tempDir, "XAUUSD", "1h", nil)

	suite.Error(w.Append([]types.MarketData{bar("XAUUSD", time.Now(), 1)}))

	_, err := w.Count()
	suite.Error(err)
	suite.NoError(w.Close())
}
