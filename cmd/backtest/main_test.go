package main

import (
	"math"
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/backtest"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type BacktestCmdTestSuite struct {
	suite.Suite
}

func TestBacktestCmdSuite(t *testing.T) {
	suite.Run(t, new(BacktestCmdTestSuite))
}

func (suite *BacktestCmdTestSuite) TestSyntheticBars() {
	bars, err := loadBars("", "XAUUSD", 120, 7, time.Hour)
	suite.Require().NoError(err)
	suite.Len(bars, 120)
	suite.Equal("XAUUSD", bars[0].Symbol)
	suite.Equal(time.Hour, bars[1].Time.Sub(bars[0].Time))

	again, err := loadBars("", "XAUUSD", 120, 7, time.Hour)
	suite.Require().NoError(err)
	suite.Equal(bars, again)
}

func (suite *BacktestCmdTestSuite) TestNoDataSource() {
	_, err := loadBars("", "XAUUSD", 0, 7, time.Hour)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))
}

func (suite *BacktestCmdTestSuite) TestMissingParquetFile() {
	_, err := loadBars(suite.T().TempDir()+"/missing.parquet", "XAUUSD", 0, 7, time.Hour)
	suite.Error(err)
}

func (suite *BacktestCmdTestSuite) TestRenderResult() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := renderResult(backtest.Result{
		Symbol:         "XAUUSD",
		Bars:           500,
		StartTime:      start,
		EndTime:        start.Add(499 * time.Hour),
		InitialBalance: 10000,
		FinalBalance:   10150,
		ReturnPercent:  1.5,
		Signals:        map[types.SignalType]int{types.SignalTypeBuy: 4, types.SignalTypeSell: 3, types.SignalTypeHold: 443},
		Stats: types.PeriodStats{
			TotalTrades:   4,
			WinningTrades: 4,
			Winrate:       100,
			TotalPnL:      150,
			ProfitFactor:  math.Inf(1),
		},
	})

	suite.Contains(out, "Backtest XAUUSD")
	suite.Contains(out, "(500 bars)")
	suite.Contains(out, "10000.00 -> 10150.00")
	suite.Contains(out, "BUY 4  SELL 3  HOLD 443")
	suite.Contains(out, "Winrate: 100.0%")
	suite.Contains(out, "Profit factor: ∞")
}
