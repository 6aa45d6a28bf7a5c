package trading

import (
	"context"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/manager"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/monitor"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/risk"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

// TradingSystem ties market data, the strategy manager, risk sizing and the trade monitor together.
type TradingSystem struct {
	cfg      Config
	bars     BarSource
	prices   marketdata.PriceSource
	manager  *manager.Manager
	risk     *risk.Calculator
	monitor  *monitor.Monitor
	archive  BarArchive
	reporter PeriodReporter
	recorder Recorder
	logger   *logger.Logger
	now      func() time.Time
	after    func(time.Duration) <-chan time.Time
}

type Option func(*TradingSystem)

func WithLogger(log *logger.Logger) Option {
	return func(s *TradingSystem) {
		s.logger = log
	}
}

// WithPriceSource sets the live quote source. Without one the last close is used.
func WithPriceSource(prices marketdata.PriceSource) Option {
	return func(s *TradingSystem) {
		s.prices = prices
	}
}

// WithArchive stores every fetched bar series in archive.
func WithArchive(archive BarArchive) Option {
	return func(s *TradingSystem) {
		s.archive = archive
	}
}

// WithPeriodReporter sends the daily, weekly and monthly reports of the periods a
// session runs through, each once the period has ended.
func WithPeriodReporter(r PeriodReporter) Option {
	return func(s *TradingSystem) {
		s.reporter = r
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(s *TradingSystem) {
		s.recorder = recorder
	}
}

// WithClock replaces time.Now and time.After.
func WithClock(now func() time.Time, after func(time.Duration) <-chan time.Time) Option {
	return func(s *TradingSystem) {
		s.now = now
		s.after = after
	}
}

// NewTradingSystem creates a TradingSystem. bars, m, calc and mon are required.
func NewTradingSystem(cfg Config, bars BarSource, m *manager.Manager, calc *risk.Calculator, mon *monitor.Monitor, opts ...Option) (*TradingSystem, error) {
	if bars == nil || m == nil || calc == nil || mon == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "bar source, manager, risk calculator and monitor are required")
	}

	if cfg.Symbol == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "symbol is required")
	}

	if !cfg.VotingMethod.Valid() {
		return nil, errors.Newf(errors.ErrCodeInvalidVotingMethod, "unknown voting method: %s", cfg.VotingMethod)
	}

	if cfg.Bars <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "bars must be positive, got %d", cfg.Bars)
	}

	s := &TradingSystem{
		cfg:     cfg,
		bars:    bars,
		manager: m,
		risk:    calc,
		monitor: mon,
		logger:  logger.NewNopLogger(),
		now:     time.Now,
		after:   time.After,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Monitor returns the trade monitor.
func (s *TradingSystem) Monitor() *monitor.Monitor {
	return s.monitor
}

// Analyze fetches bars, combines the strategy signals and attaches the current price and,
// for BUY or SELL, the risk metrics.
func (s *TradingSystem) Analyze(ctx context.Context) (Analysis, error) {
	bars, barSource, err := s.bars.Bars(ctx, s.cfg.Symbol, s.cfg.Interval, s.cfg.Bars)
	if err != nil {
		s.recordError("bars")

		return Analysis{}, err
	}

	if len(bars) == 0 {
		s.recordError("bars")

		return Analysis{}, errors.Newf(errors.ErrCodeDataNotFound, "no bars for %s", s.cfg.Symbol)
	}

	if s.archive != nil {
		if err := s.archive.Append(bars); err != nil {
			s.logger.Warn("Failed to archive bars", zap.Error(err))
		}
	}

	result, err := s.manager.CombinedSignal(bars, s.cfg.VotingMethod)
	if err != nil {
		s.recordError("signal")

		return Analysis{}, err
	}

	last := bars[len(bars)-1]
	analysis := Analysis{
		Symbol:       s.cfg.Symbol,
		Signal:       result.Signal,
		Result:       result,
		CurrentPrice: last.Close,
		PriceSource:  PriceSourceLastClose,
		BarSource:    barSource,
		Bars:         len(bars),
		LastBar:      last,
		Risk:         optional.None[risk.Metrics](),
		AnalysisTime: s.now(),
	}

	if s.prices != nil {
		quote, err := s.prices.Quote(ctx, s.cfg.Symbol)
		if err != nil {
			s.recordError("price")
			s.logger.Warn("Live price unavailable, using last close",
				zap.Float64("last_close", last.Close),
				zap.Error(err),
			)
		} else {
			analysis.CurrentPrice = quote.Price
			analysis.PriceSource = quote.Source
		}
	}

	if analysis.Signal.IsActionable() {
		metrics, err := s.risk.ForSignal(analysis.Signal, analysis.CurrentPrice)
		if err != nil {
			s.logger.Warn("Failed to calculate risk", zap.Error(err))
		} else {
			analysis.Risk = optional.Some(metrics)
		}
	}

	if s.cfg.EntryFilter && analysis.Signal == types.SignalTypeBuy {
		ok, reason := strategy.IsGoodBuyEntry(bars, analysis.CurrentPrice)
		analysis.EntryBlocked = !ok
		analysis.EntryReason = reason
	}

	if s.recorder != nil {
		for _, name := range result.Order {
			s.recorder.RecordStrategySignal(name, result.IndividualSignals[name].Type)
		}

		s.recorder.RecordCombinedSignal(string(s.cfg.VotingMethod), analysis.Signal, analysis.Confidence())
		s.recorder.RecordPrice(s.cfg.Symbol, analysis.CurrentPrice)
	}

	s.logger.Info("Analysis complete",
		zap.String("symbol", s.cfg.Symbol),
		zap.String("signal", string(analysis.Signal)),
		zap.Float64("price", analysis.CurrentPrice),
		zap.String("price_source", analysis.PriceSource),
		zap.String("bar_source", barSource),
		zap.Bool("entry_blocked", analysis.EntryBlocked),
	)

	return analysis, nil
}

// ExecuteTrade opens a trade for an actionable analysis. It returns an empty id when
// the signal is HOLD, the entry filter blocked it or the open-trade cap is reached.
func (s *TradingSystem) ExecuteTrade(ctx context.Context, analysis Analysis) (string, error) {
	if !analysis.Actionable() {
		s.logger.Info("No trade for analysis",
			zap.String("signal", string(analysis.Signal)),
			zap.Bool("entry_blocked", analysis.EntryBlocked),
		)

		return "", nil
	}

	if s.cfg.MaxOpenTrades > 0 && len(s.monitor.ActiveTrades()) >= s.cfg.MaxOpenTrades {
		s.logger.Info("Open trade cap reached", zap.Int("max_open_trades", s.cfg.MaxOpenTrades))

		return "", nil
	}

	id, err := s.monitor.OpenFromRecommendation(ctx, analysis.Recommendation(), analysis.Symbol, s.positionSize(analysis))
	if err != nil {
		s.recordError("open_trade")

		return "", err
	}

	return id, nil
}

func (s *TradingSystem) positionSize(analysis Analysis) float64 {
	if s.cfg.PositionSize > 0 {
		return s.cfg.PositionSize
	}

	if analysis.Risk.IsSome() && analysis.Risk.Unwrap().PositionSize > 0 {
		return analysis.Risk.Unwrap().PositionSize
	}

	return DefaultPositionSize
}

// CurrentPrice returns the live quote, or an error when no price source is configured.
func (s *TradingSystem) CurrentPrice(ctx context.Context) (marketdata.Quote, error) {
	if s.prices == nil {
		return marketdata.Quote{}, errors.New(errors.ErrCodePriceUnavailable, "no price source configured")
	}

	return s.prices.Quote(ctx, s.cfg.Symbol)
}

// CheckLevels closes trades whose stop loss or take profit was hit at the live price.
func (s *TradingSystem) CheckLevels(ctx context.Context) ([]string, error) {
	quote, err := s.CurrentPrice(ctx)
	if err != nil {
		return nil, err
	}

	return s.monitor.CheckTradeLevels(ctx, map[string]float64{s.cfg.Symbol: quote.Price}), nil
}

// CloseAllTrades closes every open trade at the live price.
func (s *TradingSystem) CloseAllTrades(ctx context.Context, reason string) ([]string, error) {
	quote, err := s.CurrentPrice(ctx)
	if err != nil {
		return nil, err
	}

	return s.monitor.CloseAllTrades(ctx, map[string]float64{s.cfg.Symbol: quote.Price}, reason), nil
}

func (s *TradingSystem) recordError(stage string) {
	if s.recorder != nil {
		s.recorder.RecordError(stage)
	}
}
