package tracker_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/mocks"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TrackerTestSuite struct {
	suite.Suite
	now time.Time
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

func (suite *TrackerTestSuite) SetupTest() {
	// Wednesday
	suite.now = time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)
}

func (suite *TrackerTestSuite) newTracker(trades ...types.TradeRecord) *tracker.Tracker {
	t, err := tracker.New(tracker.NewMemoryStore(trades...), tracker.WithClock(fixedClock(suite.now)))
	suite.Require().NoError(err)

	return t
}

func (suite *TrackerTestSuite) TestCloseLongComputesPnL() {
	t := suite.newTracker()
	suite.Require().NoError(t.AddTrade(openTrade("T1", suite.now, types.PositionTypeLong)))

	ok, err := t.CloseTrade("T1", 2010, time.Time{})
	suite.Require().NoError(err)
	suite.True(ok)

	trade, found := t.Trade("T1")
	suite.Require().True(found)
	suite.Equal(types.TradeStatusClosed, trade.Status)
	suite.InDelta(1.0, trade.PnL.Unwrap(), 1e-9)
	suite.InDelta(0.5, trade.PnLPercentage.Unwrap(), 1e-9)
	suite.True(trade.ExitTime.Unwrap().Equal(suite.now))
}

func (suite *TrackerTestSuite) TestCloseShortComputesPnL() {
	t := suite.newTracker()
	suite.Require().NoError(t.AddTrade(openTrade("T1", suite.now, types.PositionTypeShort)))

	ok, err := t.CloseTrade("T1", 2010, suite.now.Add(time.Hour))
	suite.Require().NoError(err)
	suite.True(ok)

	trade, _ := t.Trade("T1")
	suite.InDelta(-1.0, trade.PnL.Unwrap(), 1e-9)
	suite.InDelta(-0.5, trade.PnLPercentage.Unwrap(), 1e-9)
}

func (suite *TrackerTestSuite) TestUpdateLevelsKeepsTradeOpen() {
	t := suite.newTracker(openTrade("T1", suite.now, types.PositionTypeLong))

	ok, err := t.UpdateTrade("T1", tracker.TradeUpdate{
		StopLoss: optional.Some(1990.0),
		Notes:    optional.Some("moved stop"),
	})
	suite.Require().NoError(err)
	suite.True(ok)

	trade, _ := t.Trade("T1")
	suite.True(trade.IsOpen())
	suite.Equal(1990.0, trade.StopLoss.Unwrap())
	suite.Equal(2080.0, trade.TakeProfit.Unwrap())
	suite.Equal("moved stop", trade.Notes)
	suite.True(trade.PnL.IsNone())
}

func (suite *TrackerTestSuite) TestExitPriceAloneDoesNotClose() {
	t := suite.newTracker(openTrade("T1", suite.now, types.PositionTypeLong))

	_, err := t.UpdateTrade("T1", tracker.TradeUpdate{ExitPrice: optional.Some(2010.0)})
	suite.Require().NoError(err)

	trade, _ := t.Trade("T1")
	suite.True(trade.IsOpen())
	suite.True(trade.PnL.IsNone())

	_, err = t.UpdateTrade("T1", tracker.TradeUpdate{ExitTime: optional.Some(suite.now)})
	suite.Require().NoError(err)

	trade, _ = t.Trade("T1")
	suite.True(trade.IsClosed())
	suite.InDelta(1.0, trade.PnL.Unwrap(), 1e-9)
}

func (suite *TrackerTestSuite) TestUnknownTradeIsNotAnError() {
	t := suite.newTracker()

	ok, err := t.CloseTrade("missing", 2000, suite.now)
	suite.NoError(err)
	suite.False(ok)
}

func (suite *TrackerTestSuite) TestClosedTradeCannotBeUpdated() {
	t := suite.newTracker(closedTrade("T1", suite.now, 5))

	ok, err := t.CloseTrade("T1", 1900, suite.now)
	suite.False(ok)
	suite.Equal(errors.ErrCodeTradeClosed, errors.GetCode(err))

	trade, _ := t.Trade("T1")
	suite.Equal(5.0, trade.PnL.Unwrap())
}

func (suite *TrackerTestSuite) TestAddTradeValidation() {
	t := suite.newTracker(openTrade("T1", suite.now, types.PositionTypeLong))

	err := t.AddTrade(openTrade("T1", suite.now, types.PositionTypeLong))
	suite.Equal(errors.ErrCodeTradeAlreadyExists, errors.GetCode(err))

	noID := openTrade("", suite.now, types.PositionTypeLong)
	suite.Equal(errors.ErrCodeInvalidTrade, errors.GetCode(t.AddTrade(noID)))

	zeroSize := openTrade("T2", suite.now, types.PositionTypeLong)
	zeroSize.PositionSize = 0
	suite.Equal(errors.ErrCodeInvalidTrade, errors.GetCode(t.AddTrade(zeroSize)))

	badType := openTrade("T3", suite.now, "FLAT")
	suite.Equal(errors.ErrCodeInvalidTrade, errors.GetCode(t.AddTrade(badType)))

	openWithPnL := openTrade("T4", suite.now, types.PositionTypeLong)
	openWithPnL.PnL = optional.Some(1.0)
	suite.Equal(errors.ErrCodeInvalidTrade, errors.GetCode(t.AddTrade(openWithPnL)))

	suite.Len(t.Trades(), 1)
}

func (suite *TrackerTestSuite) TestFailedSaveLeavesLedgerUnchanged() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Load().Return(nil, nil)
	store.EXPECT().Save(gomock.Any()).Return(errors.New(errors.ErrCodePersistenceFailed, "disk full"))

	t, err := tracker.New(store)
	suite.Require().NoError(err)

	err = t.AddTrade(openTrade("T1", suite.now, types.PositionTypeLong))
	suite.Equal(errors.ErrCodePersistenceFailed, errors.GetCode(err))
	suite.Empty(t.Trades())
}

func (suite *TrackerTestSuite) TestEveryMutationSavesWholeLedger() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Load().Return([]types.TradeRecord{closedTrade("OLD", suite.now, 1)}, nil)
	gomock.InOrder(
		store.EXPECT().Save(gomock.Len(2)).Return(nil),
		store.EXPECT().Save(gomock.Cond(func(trades []types.TradeRecord) bool {
			return len(trades) == 2 && trades[1].IsClosed()
		})).Return(nil),
	)

	t, err := tracker.New(store)
	suite.Require().NoError(err)
	suite.Require().NoError(t.AddTrade(openTrade("T1", suite.now, types.PositionTypeLong)))

	_, err = t.CloseTrade("T1", 2010, suite.now)
	suite.Require().NoError(err)
}

func (suite *TrackerTestSuite) TestQueries() {
	t := suite.newTracker(
		closedTrade("C1", suite.now.Add(-48*time.Hour), 1),
		closedTrade("C2", suite.now, -1),
		openTrade("O1", suite.now, types.PositionTypeLong),
	)

	suite.Len(t.OpenTrades(), 1)
	suite.Len(t.ClosedTrades(), 2)

	inRange := t.QueryByPeriod(suite.now.Add(-time.Hour), suite.now)
	suite.Require().Len(inRange, 1)
	suite.Equal("C2", inRange[0].TradeID)

	suite.Len(t.QueryByPeriod(suite.now.Add(-48*time.Hour), suite.now), 2)
}

func (suite *TrackerTestSuite) TestWeeklyReportPartitionsHistory() {
	var trades []types.TradeRecord

	// 2024-01-04 .. 2024-01-17, one trade per day
	first := time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 14; i++ {
		trades = append(trades, closedTrade(first.AddDate(0, 0, i).Format("T20060102"), first.AddDate(0, 0, i), 1))
	}

	t := suite.newTracker(trades...)

	reports := t.WeeklyReport(3)
	suite.Require().Len(reports, 3)

	suite.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), reports[0].StartDate)
	suite.Equal(time.Date(2024, 1, 21, 23, 59, 59, 999999999, time.UTC), reports[0].EndDate)
	suite.Equal(3, reports[0].TotalTrades)
	suite.Equal(7, reports[1].TotalTrades)
	suite.Equal(4, reports[2].TotalTrades)
	suite.Equal("Week 15/01/2024 - 21/01/2024", reports[0].Period)

	total := 0
	for _, r := range reports {
		total += r.TotalTrades
	}
	suite.Equal(14, total)
}

func (suite *TrackerTestSuite) TestSubSecondEntriesBeforePeriodEnd() {
	suite.now = time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC)
	lastInstant := 500 * time.Millisecond

	t := suite.newTracker(
		closedTrade("SUN", time.Date(2024, 1, 21, 23, 59, 59, int(lastInstant), time.UTC), 1),
		closedTrade("MON", time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), 1),
		closedTrade("DEC", time.Date(2023, 12, 31, 23, 59, 59, int(lastInstant), time.UTC), 1),
	)

	weeks := t.WeeklyReport(2)
	suite.Require().Len(weeks, 2)
	suite.Equal(1, weeks[0].TotalTrades)
	suite.Equal(1, weeks[1].TotalTrades)

	months := t.MonthlyReportAt(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 2)
	suite.Require().Len(months, 2)
	suite.Equal(2, months[0].TotalTrades)
	suite.Equal(1, months[1].TotalTrades)

	suite.Equal(1, t.DailySummaryFor(time.Date(2024, 1, 21, 8, 0, 0, 0, time.UTC)).Stats.TotalTrades)
}

func (suite *TrackerTestSuite) TestReportsAnchoredAtPastPeriod() {
	t := suite.newTracker(
		closedTrade("PREV", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), 4),
		closedTrade("NOW", suite.now, 1),
	)

	weeks := t.WeeklyReportAt(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), 1)
	suite.Require().Len(weeks, 1)
	suite.Equal(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), weeks[0].StartDate)
	suite.Equal(1, weeks[0].TotalTrades)
	suite.Equal(4.0, weeks[0].TotalPnL)

	summary := t.DailySummaryFor(time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC))
	suite.Equal("2024-01-10", summary.Date)
	suite.Equal(1, summary.Stats.TotalTrades)
}

func (suite *TrackerTestSuite) TestWeekStartOnSunday() {
	sunday := time.Date(2024, 1, 21, 23, 0, 0, 0, time.UTC)
	suite.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), tracker.WeekStart(sunday))

	monday := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	suite.Equal(monday, tracker.WeekStart(monday))
}

func (suite *TrackerTestSuite) TestMonthlyReport() {
	suite.now = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	t := suite.newTracker(
		closedTrade("JAN", time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), 2),
		closedTrade("FEB", time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC), -1),
		closedTrade("MAR", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 3),
	)

	reports := t.MonthlyReport(3)
	suite.Require().Len(reports, 3)
	suite.Equal("March 2024", reports[0].Period)
	suite.Equal("February 2024", reports[1].Period)
	suite.Equal(time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), reports[1].EndDate)

	for _, r := range reports {
		suite.Equal(1, r.TotalTrades, r.Period)
	}

	suite.Len(t.MonthlyReport(0), tracker.DefaultMonthsBack)
}

func (suite *TrackerTestSuite) TestDailySummary() {
	t := suite.newTracker(
		closedTrade("A", suite.now.Add(-2*time.Hour), 2),
		closedTrade("B", suite.now.Add(-time.Hour), -1),
		closedTrade("Y", suite.now.AddDate(0, 0, -1), 5),
		openTrade("O", suite.now, types.PositionTypeLong),
	)

	summary := t.DailySummary()

	suite.Equal("2024-01-17", summary.Date)
	suite.Equal(2, summary.Stats.TotalTrades)
	suite.Equal(1, summary.ActiveTrades)
}

func (suite *TrackerTestSuite) TestOverallStats() {
	t := suite.newTracker(
		closedTrade("B", suite.now, 2),
		closedTrade("A", suite.now.AddDate(0, 0, -30), 1),
		openTrade("O", suite.now, types.PositionTypeLong),
	)

	stats := t.OverallStats()
	suite.Equal(2, stats.TotalTrades)
	suite.Equal(suite.now.AddDate(0, 0, -30), stats.StartDate)
	suite.Equal(suite.now, stats.EndDate)
}

func (suite *TrackerTestSuite) TestGenerateReport() {
	dir := suite.T().TempDir()
	t, err := tracker.New(
		tracker.NewMemoryStore(closedTrade("A", suite.now, 2)),
		tracker.WithClock(fixedClock(suite.now)),
		tracker.WithReportsDir(dir),
	)
	suite.Require().NoError(err)

	report, err := t.GenerateReport(tracker.ReportBoth)
	suite.Require().NoError(err)
	suite.Equal(filepath.Join(dir, "performance_report_20240117_120000.json"), report.Path)

	data, err := os.ReadFile(report.Path)
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal(data, &decoded))
	suite.Equal("both", decoded["report_type"])
	suite.Len(decoded["weekly_reports"], tracker.DefaultWeeksBack)
	suite.Len(decoded["monthly_reports"], tracker.DefaultMonthsBack)

	overall := decoded["overall_stats"].(map[string]any)
	suite.Equal("Infinity", overall["profit_factor"])

	weekly, err := t.GenerateReport(tracker.ReportWeekly)
	suite.Require().NoError(err)
	suite.Empty(weekly.MonthlyReports)

	_, err = t.GenerateReport("yearly")
	suite.Equal(errors.ErrCodeInvalidParameter, errors.GetCode(err))
}

func (suite *TrackerTestSuite) TestGenerateReportNeedsDirectory() {
	t := suite.newTracker()

	_, err := t.GenerateReport(tracker.ReportMonthly)
	suite.Equal(errors.ErrCodeReportFailed, errors.GetCode(err))
}
