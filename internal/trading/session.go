package trading

import (
	"context"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/reporter"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"go.uber.org/zap"
)

// Session callbacks. All fields of SessionCallbacks are pointers; nil means no callback.

// OnAnalysisCallback is called after every successful analysis round.
type OnAnalysisCallback func(analysis Analysis)

// OnTradeOpenedCallback is called when a round opens a trade.
type OnTradeOpenedCallback func(tradeID string, analysis Analysis)

// OnTradesClosedCallback is called when a level check closes trades.
type OnTradesClosedCallback func(tradeIDs []string)

// OnErrorCallback is called for every non-fatal round error.
type OnErrorCallback func(err error)

// SessionCallbacks holds the lifecycle callbacks of RunSession.
type SessionCallbacks struct {
	OnAnalysis     *OnAnalysisCallback
	OnTradeOpened  *OnTradeOpenedCallback
	OnTradesClosed *OnTradesClosedCallback
	OnError        *OnErrorCallback
}

// SessionResult summarizes a finished session.
type SessionResult struct {
	StartedAt    time.Time                `json:"started_at"`
	EndedAt      time.Time                `json:"ended_at"`
	Rounds       int                      `json:"rounds"`
	Errors       int                      `json:"errors"`
	Signals      map[types.SignalType]int `json:"signals"`
	TradesOpened []string                 `json:"trades_opened"`
	TradesClosed []string                 `json:"trades_closed"`
	// Reports lists the period reports sent, in order.
	Reports []reporter.Kind `json:"reports"`
	// Err is the configuration error that stopped the session, if any.
	Err error `json:"-"`
}

// RunSession analyses every interval until duration elapses or ctx is done.
// A zero duration runs until ctx is done. Round errors are reported and the session
// keeps going, except configuration errors, which end it and are kept in Err.
// When a round crosses into a new day, week or month, the report of the period that
// just ended is sent.
func (s *TradingSystem) RunSession(ctx context.Context, duration, interval time.Duration, callbacks SessionCallbacks) SessionResult {
	start := s.now()
	result := SessionResult{
		StartedAt: start,
		Signals:   make(map[types.SignalType]int, 3),
	}

	var deadline time.Time
	if duration > 0 {
		deadline = start.Add(duration)
	}

	last := start

	s.logger.Info("Trading session started",
		zap.String("symbol", s.cfg.Symbol),
		zap.Duration("duration", duration),
		zap.Duration("interval", interval),
		zap.Bool("auto_trade", s.cfg.AutoTrade),
	)

loop:
	for {
		if ctx.Err() != nil {
			break
		}

		if !deadline.IsZero() && !s.now().Before(deadline) {
			break
		}

		s.round(ctx, &result, callbacks)
		result.Rounds++

		if result.Err != nil {
			break
		}

		now := s.now()
		s.sendEndedReports(ctx, last, now, &result, callbacks)
		last = now

		select {
		case <-ctx.Done():
			break loop
		case <-s.after(interval):
		}
	}

	result.EndedAt = s.now()

	s.logger.Info("Trading session finished",
		zap.Int("rounds", result.Rounds),
		zap.Int("errors", result.Errors),
		zap.Int("opened", len(result.TradesOpened)),
		zap.Int("closed", len(result.TradesClosed)),
	)

	return result
}

func (s *TradingSystem) round(ctx context.Context, result *SessionResult, callbacks SessionCallbacks) {
	analysis, err := s.Analyze(ctx)
	if err != nil {
		s.fail(result, callbacks, err)

		return
	}

	result.Signals[analysis.Signal]++

	if callbacks.OnAnalysis != nil {
		(*callbacks.OnAnalysis)(analysis)
	}

	if s.cfg.AutoTrade && analysis.Actionable() {
		id, err := s.ExecuteTrade(ctx, analysis)
		if err != nil {
			s.fail(result, callbacks, err)
		} else if id != "" {
			result.TradesOpened = append(result.TradesOpened, id)

			if callbacks.OnTradeOpened != nil {
				(*callbacks.OnTradeOpened)(id, analysis)
			}
		}
	}

	if analysis.CurrentPrice <= 0 {
		return
	}

	closed := s.monitor.CheckTradeLevels(ctx, map[string]float64{analysis.Symbol: analysis.CurrentPrice})
	if len(closed) == 0 {
		return
	}

	result.TradesClosed = append(result.TradesClosed, closed...)

	if callbacks.OnTradesClosed != nil {
		(*callbacks.OnTradesClosed)(closed)
	}
}

// sendEndedReports sends the reports of the periods that contain prev but not now.
func (s *TradingSystem) sendEndedReports(ctx context.Context, prev, now time.Time, result *SessionResult, callbacks SessionCallbacks) {
	if s.reporter == nil {
		return
	}

	var ended []reporter.Kind

	if prev.Format(time.DateOnly) != now.Format(time.DateOnly) {
		ended = append(ended, reporter.KindDaily)
	}

	if !tracker.WeekStart(prev).Equal(tracker.WeekStart(now)) {
		ended = append(ended, reporter.KindWeekly)
	}

	if !tracker.MonthStart(prev).Equal(tracker.MonthStart(now)) {
		ended = append(ended, reporter.KindMonthly)
	}

	for _, kind := range ended {
		if err := s.reporter.SendFor(ctx, kind, prev); err != nil {
			s.fail(result, callbacks, err)

			continue
		}

		result.Reports = append(result.Reports, kind)
	}
}

func (s *TradingSystem) fail(result *SessionResult, callbacks SessionCallbacks, err error) {
	result.Errors++

	switch {
	case errors.IsConfigurationError(err):
		result.Err = err
		s.logger.Error("Trading session stopped by configuration error", zap.Error(err))
	case errors.IsTransient(err):
		s.logger.Warn("Trading round failed, retrying next round", zap.Error(err))
	default:
		s.logger.Error("Trading round failed", zap.Error(err))
	}

	if callbacks.OnError != nil {
		(*callbacks.OnError)(err)
	}
}
