package backtest_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/backtest"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/manager"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/monitor"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/risk"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/mocks"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	B = types.SignalTypeBuy
	S = types.SignalTypeSell
	H = types.SignalTypeHold
)

type BacktestTestSuite struct {
	suite.Suite
	ctx  context.Context
	ctrl *gomock.Controller
	cfg  backtest.Config
}

func TestBacktestSuite(t *testing.T) {
	suite.Run(t, new(BacktestTestSuite))
}

func (suite *BacktestTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.ctrl = gomock.NewController(suite.T())
	suite.cfg = backtest.Config{
		Symbol:         "XAUUSD",
		VotingMethod:   manager.MajorityVote,
		InitialBalance: 10000,
		PositionSize:   1,
	}
}

func (suite *BacktestTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// scripted returns a manager whose single strategy emits script[i] on the i-th bar.
func (suite *BacktestTestSuite) scripted(script ...types.SignalType) *manager.Manager {
	s := mocks.NewMockStrategy(suite.ctrl)
	s.EXPECT().Name().Return("Script").AnyTimes()
	s.EXPECT().GenerateSignal(gomock.Any()).DoAndReturn(func(data []types.MarketData) types.Signal {
		return types.Signal{Name: "Script", Type: script[len(data)-1]}
	}).AnyTimes()

	m := manager.NewManager(nil)
	suite.Require().NoError(m.Add(s, 1))

	return m
}

func (suite *BacktestTestSuite) run(closes []float64, script ...types.SignalType) backtest.Result {
	b, err := backtest.NewBacktester(suite.cfg, suite.scripted(script...), nil)
	suite.Require().NoError(err)

	result, err := b.Run(suite.ctx, mocks.FromCloses("XAUUSD", closes, 0.5), backtest.Callbacks{})
	suite.Require().NoError(err)

	return result
}

func (suite *BacktestTestSuite) TestLongOnly() {
	result := suite.run([]float64{100, 101, 102, 103, 104, 105}, H, B, H, S, B, H)

	suite.Require().Len(result.Trades, 2)
	suite.InDelta(101.0, result.Trades[0].EntryPrice, 1e-9)
	suite.InDelta(103.0, result.Trades[0].ExitPrice.Unwrap(), 1e-9)
	suite.InDelta(2.0, result.Trades[0].PnLValue(), 1e-9)
	suite.Contains(result.Trades[0].Notes, backtest.ReasonSignal)
	suite.Contains(result.Trades[1].Notes, backtest.ReasonEndOfData)

	suite.Equal(2, result.Stats.TotalTrades)
	suite.InDelta(3.0, result.Stats.TotalPnL, 1e-9)
	suite.InDelta(10003.0, result.FinalBalance, 1e-9)
	suite.InDelta(0.03, result.ReturnPercent, 1e-9)
	suite.Equal(map[types.SignalType]int{H: 3, B: 2, S: 1}, result.Signals)
	suite.Equal(6, result.Bars)
}

func (suite *BacktestTestSuite) TestSellWhenFlatIsIgnoredWithoutShorts() {
	result := suite.run([]float64{100, 99, 98}, S, S, H)

	suite.Empty(result.Trades)
	suite.InDelta(10000.0, result.FinalBalance, 1e-9)
}

func (suite *BacktestTestSuite) TestShortAndReverse() {
	suite.cfg.AllowShort = true
	result := suite.run([]float64{100, 98, 95, 97}, S, H, B, H)

	suite.Require().Len(result.Trades, 2)
	suite.Equal(types.PositionTypeShort, result.Trades[0].PositionType)
	suite.InDelta(5.0, result.Trades[0].PnLValue(), 1e-9)
	suite.Equal(types.PositionTypeLong, result.Trades[1].PositionType)
	suite.InDelta(2.0, result.Trades[1].PnLValue(), 1e-9)
	suite.InDelta(7.0, result.Stats.TotalPnL, 1e-9)
}

func (suite *BacktestTestSuite) TestRiskLevelsCloseOnStopLoss() {
	suite.cfg.Risk = optional.Some(risk.DefaultConfig())
	result := suite.run([]float64{100, 100.5, 98.9, 99.5}, B, H, H, H)

	suite.Require().Len(result.Trades, 1)
	trade := result.Trades[0]
	suite.InDelta(99.0, trade.StopLoss.Unwrap(), 1e-9)
	suite.InDelta(102.0, trade.TakeProfit.Unwrap(), 1e-9)
	suite.InDelta(98.9, trade.ExitPrice.Unwrap(), 1e-9)
	suite.Contains(trade.Notes, monitor.ReasonStopLoss)
	suite.Equal(1, result.Stats.LosingTrades)
}

func (suite *BacktestTestSuite) TestWarmupSkipsEarlyBars() {
	suite.cfg.Warmup = 3
	result := suite.run([]float64{100, 101, 102, 103}, B, B, H, H)

	suite.Empty(result.Trades)
	suite.Equal(2, result.Signals[H])
	suite.Zero(result.Signals[B])
}

func (suite *BacktestTestSuite) TestCallbacks() {
	b, err := backtest.NewBacktester(suite.cfg, suite.scripted(B, S, H), nil)
	suite.Require().NoError(err)

	var progress []int
	var opened, closed int

	onProcess := backtest.OnProcessDataCallback(func(current, total int) error {
		suite.Equal(3, total)
		progress = append(progress, current)

		return nil
	})
	onOpened := backtest.OnTradeCallback(func(trade types.TradeRecord) error {
		suite.True(trade.IsOpen())
		opened++

		return nil
	})
	onClosed := backtest.OnTradeCallback(func(trade types.TradeRecord) error {
		suite.True(trade.IsClosed())
		closed++

		return nil
	})

	_, err = b.Run(suite.ctx, mocks.FromCloses("XAUUSD", []float64{100, 101, 102}, 0.5), backtest.Callbacks{
		OnProcessData: &onProcess,
		OnTradeOpened: &onOpened,
		OnTradeClosed: &onClosed,
	})
	suite.Require().NoError(err)
	suite.Equal([]int{1, 2, 3}, progress)
	suite.Equal(1, opened)
	suite.Equal(1, closed)
}

func (suite *BacktestTestSuite) TestCallbackErrorAborts() {
	b, err := backtest.NewBacktester(suite.cfg, suite.scripted(H, H, H), nil)
	suite.Require().NoError(err)

	stop := backtest.OnProcessDataCallback(func(current, _ int) error {
		if current == 2 {
			return stderrors.New("stop")
		}

		return nil
	})

	_, err = b.Run(suite.ctx, mocks.FromCloses("XAUUSD", []float64{100, 101, 102}, 0.5), backtest.Callbacks{OnProcessData: &stop})
	suite.EqualError(err, "stop")
}

func (suite *BacktestTestSuite) TestErrors() {
	_, err := backtest.NewBacktester(backtest.Config{Symbol: "XAUUSD", VotingMethod: manager.MajorityVote}, manager.NewManager(nil), nil)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestConfigError))

	cfg := suite.cfg
	cfg.VotingMethod = "unanimous"
	_, err = backtest.NewBacktester(cfg, manager.NewManager(nil), nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidVotingMethod))

	b, err := backtest.NewBacktester(suite.cfg, manager.NewManager(nil), nil)
	suite.Require().NoError(err)

	_, err = b.Run(suite.ctx, nil, backtest.Callbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoData))

	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()
	_, err = b.Run(ctx, mocks.FromCloses("XAUUSD", []float64{100}, 0.5), backtest.Callbacks{})
	suite.Error(err)
}
