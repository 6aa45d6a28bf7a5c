// Package backtest replays historical bars through the strategy manager and records
// simulated trades in an in-memory ledger.
package backtest

import (
	"context"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/manager"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/monitor"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/risk"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StrategyName is recorded on every backtest trade.
const StrategyName = "Backtest"

const (
	ReasonSignal    = "Signal"
	ReasonEndOfData = "End Of Data"
)

// Lifecycle callback types. A callback returning an error aborts the run.

// OnProcessDataCallback is called after each bar is processed.
type OnProcessDataCallback func(current int, total int) error

// OnTradeCallback is called when a trade is opened or closed.
type OnTradeCallback func(trade types.TradeRecord) error

// Callbacks holds the lifecycle callbacks of Run. nil means no callback.
type Callbacks struct {
	OnProcessData *OnProcessDataCallback
	OnTradeOpened *OnTradeCallback
	OnTradeClosed *OnTradeCallback
}

// Config controls the simulation.
type Config struct {
	Symbol         string               `validate:"required"`
	VotingMethod   manager.VotingMethod `validate:"required"`
	InitialBalance float64              `validate:"gt=0"`
	PositionSize   float64              `validate:"gt=0"`
	// AllowShort opens SHORT on SELL when flat and reverses positions on opposite signals.
	AllowShort bool
	// Warmup is the number of bars seen before the first signal is evaluated.
	Warmup int `validate:"gte=0"`
	// Risk, when set, attaches stop loss and take profit levels checked at every close.
	Risk optional.Option[risk.Config]
}

// Result is the outcome of a run.
type Result struct {
	Symbol         string                   `json:"symbol"`
	Bars           int                      `json:"bars"`
	StartTime      time.Time                `json:"start_time"`
	EndTime        time.Time                `json:"end_time"`
	InitialBalance float64                  `json:"initial_balance"`
	FinalBalance   float64                  `json:"final_balance"`
	ReturnPercent  float64                  `json:"return_percent"`
	Signals        map[types.SignalType]int `json:"signals"`
	Trades         []types.TradeRecord      `json:"trades"`
	Stats          types.PeriodStats        `json:"stats"`
}

// Backtester runs one manager over a bar series.
type Backtester struct {
	cfg     Config
	manager *manager.Manager
	logger  *logger.Logger
}

func NewBacktester(cfg Config, m *manager.Manager, log *logger.Logger) (*Backtester, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	if !cfg.VotingMethod.Valid() {
		return nil, errors.Newf(errors.ErrCodeInvalidVotingMethod, "unknown voting method: %s", cfg.VotingMethod)
	}

	if m == nil {
		return nil, errors.New(errors.ErrCodeBacktestConfigError, "manager is required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Backtester{cfg: cfg, manager: m, logger: log}, nil
}

// run holds the state of one replay.
type run struct {
	cfg       Config
	monitor   *monitor.Monitor
	calc      *risk.Calculator
	callbacks Callbacks
	ctx       context.Context
	current   types.MarketData
	open      optional.Option[types.TradeRecord]
}

// Run replays bars oldest first. BUY opens LONG when flat and SELL closes it. With
// AllowShort the mirror image applies. A position still open after the last bar is
// closed at the last close.
func (b *Backtester) Run(ctx context.Context, bars []types.MarketData, callbacks Callbacks) (Result, error) {
	if len(bars) == 0 {
		return Result{}, errors.New(errors.ErrCodeBacktestNoData, "no bars to backtest")
	}

	r := &run{cfg: b.cfg, callbacks: callbacks, ctx: ctx, open: optional.None[types.TradeRecord]()}

	t, err := tracker.New(tracker.NewMemoryStore(), tracker.WithClock(func() time.Time { return r.current.Time }))
	if err != nil {
		return Result{}, err
	}

	r.monitor = monitor.New(t, monitor.WithLogger(b.logger))

	if b.cfg.Risk.IsSome() {
		r.calc = risk.NewCalculator(b.cfg.Risk.Unwrap(), b.logger)
	}

	result := Result{
		Symbol:         b.cfg.Symbol,
		Bars:           len(bars),
		StartTime:      bars[0].Time,
		EndTime:        bars[len(bars)-1].Time,
		InitialBalance: b.cfg.InitialBalance,
		Signals:        make(map[types.SignalType]int, 3),
	}

	for i, bar := range bars {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "backtest cancelled", err)
		}

		r.current = bar

		if err := r.checkLevels(); err != nil {
			return Result{}, err
		}

		if i+1 >= b.cfg.Warmup {
			agg, err := b.manager.CombinedSignal(bars[:i+1], b.cfg.VotingMethod)
			if err != nil {
				return Result{}, err
			}

			result.Signals[agg.Signal]++

			if err := r.apply(agg.Signal); err != nil {
				return Result{}, err
			}
		}

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(i+1, len(bars)); err != nil {
				return Result{}, err
			}
		}
	}

	if r.open.IsSome() {
		if err := r.close(ReasonEndOfData); err != nil {
			return Result{}, err
		}
	}

	result.Trades = t.Trades()
	result.Stats = tracker.CalculatePeriodStats(t.ClosedTrades(), "Backtest", result.StartTime, result.EndTime)

	final := decimal.NewFromFloat(b.cfg.InitialBalance).Add(decimal.NewFromFloat(result.Stats.TotalPnL))
	result.FinalBalance = final.InexactFloat64()
	result.ReturnPercent = final.Sub(decimal.NewFromFloat(b.cfg.InitialBalance)).
		Div(decimal.NewFromFloat(b.cfg.InitialBalance)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()

	b.logger.Info("Backtest finished",
		zap.String("symbol", b.cfg.Symbol),
		zap.Int("bars", len(bars)),
		zap.Int("trades", result.Stats.TotalTrades),
		zap.Float64("final_balance", result.FinalBalance),
	)

	return result, nil
}

func (r *run) apply(signal types.SignalType) error {
	var position optional.Option[types.PositionType]
	if r.open.IsSome() {
		position = optional.Some(r.open.Unwrap().PositionType)
	}

	switch signal {
	case types.SignalTypeBuy:
		if position.IsSome() && position.Unwrap() == types.PositionTypeShort {
			if err := r.close(ReasonSignal); err != nil {
				return err
			}

			return r.openPosition(types.PositionTypeLong)
		}

		if position.IsNone() {
			return r.openPosition(types.PositionTypeLong)
		}
	case types.SignalTypeSell:
		if position.IsSome() && position.Unwrap() == types.PositionTypeLong {
			if err := r.close(ReasonSignal); err != nil {
				return err
			}

			if r.cfg.AllowShort {
				return r.openPosition(types.PositionTypeShort)
			}

			return nil
		}

		if position.IsNone() && r.cfg.AllowShort {
			return r.openPosition(types.PositionTypeShort)
		}
	}

	return nil
}

func (r *run) openPosition(positionType types.PositionType) error {
	req := monitor.OpenTradeRequest{
		Symbol:       r.cfg.Symbol,
		EntryPrice:   r.current.Close,
		PositionType: positionType,
		PositionSize: r.cfg.PositionSize,
		StrategyName: StrategyName,
		StopLoss:     optional.None[float64](),
		TakeProfit:   optional.None[float64](),
	}

	if r.calc != nil {
		metrics, err := r.calc.Calculate(r.current.Close, positionType)
		if err != nil {
			return err
		}

		req.StopLoss = optional.Some(metrics.StopLoss)
		req.TakeProfit = optional.Some(metrics.TakeProfit)
	}

	id, err := r.monitor.OpenTrade(r.ctx, req)
	if err != nil {
		return err
	}

	trade, _ := r.monitor.Tracker().Trade(id)
	r.open = optional.Some(trade)

	return r.notify(r.callbacks.OnTradeOpened, id)
}

func (r *run) close(reason string) error {
	id := r.open.Unwrap().TradeID

	if _, err := r.monitor.CloseTrade(r.ctx, id, r.current.Close, reason); err != nil {
		return err
	}

	r.open = optional.None[types.TradeRecord]()

	return r.notify(r.callbacks.OnTradeClosed, id)
}

// checkLevels closes the open trade when the bar close crossed its stop loss or take profit.
func (r *run) checkLevels() error {
	if r.open.IsNone() || r.calc == nil {
		return nil
	}

	id := r.open.Unwrap().TradeID

	closed := r.monitor.CheckTradeLevels(r.ctx, map[string]float64{r.cfg.Symbol: r.current.Close})
	if len(closed) == 0 {
		return nil
	}

	r.open = optional.None[types.TradeRecord]()

	return r.notify(r.callbacks.OnTradeClosed, id)
}

func (r *run) notify(callback *OnTradeCallback, id string) error {
	if callback == nil {
		return nil
	}

	trade, ok := r.monitor.Tracker().Trade(id)
	if !ok {
		return errors.Newf(errors.ErrCodeTradeNotFound, "trade %s not found", id)
	}

	return (*callback)(trade)
}
