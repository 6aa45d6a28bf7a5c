// Package trading runs analysis rounds against live market data and opens simulated trades.
package trading

import (
	"context"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/manager"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/monitor"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/reporter"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/risk"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/marketdata"
	"github.com/moznion/go-optional"
)

// DefaultPositionSize is used when neither the config nor the risk metrics give a size.
const DefaultPositionSize = 0.1

// PriceSourceLastClose is reported when no live quote was available.
const PriceSourceLastClose = "last_close"

// BarSource returns the most recent bars of a symbol, oldest first, and the name of the source.
type BarSource interface {
	Bars(ctx context.Context, symbol string, interval marketdata.Timespan, limit int) ([]types.MarketData, string, error)
}

// BarArchive keeps fetched bars.
type BarArchive interface {
	Append(bars []types.MarketData) error
}

// PeriodReporter sends the report of kind for the period containing at.
type PeriodReporter interface {
	SendFor(ctx context.Context, kind reporter.Kind, at time.Time) error
}

// Recorder receives analysis metrics.
type Recorder interface {
	RecordStrategySignal(strategy string, signal types.SignalType)
	RecordCombinedSignal(method string, signal types.SignalType, confidence float64)
	RecordPrice(symbol string, price float64)
	RecordError(stage string)
}

// Config holds the analysis and execution settings of a TradingSystem.
type Config struct {
	Symbol       string
	Interval     marketdata.Timespan
	Bars         int
	VotingMethod manager.VotingMethod
	// AutoTrade opens trades on actionable signals during a session.
	AutoTrade bool
	// EntryFilter blocks BUY trades that are not a pullback entry.
	EntryFilter bool
	// MaxOpenTrades caps concurrently open trades. Zero means no cap.
	MaxOpenTrades int
	// PositionSize overrides the risk-derived size when positive.
	PositionSize float64
}

// Analysis is the outcome of one analysis round.
type Analysis struct {
	Symbol string           `json:"symbol"`
	Signal types.SignalType `json:"signal"`
	// Result is the full per-strategy breakdown.
	Result       manager.AggregationResult     `json:"result"`
	CurrentPrice float64                       `json:"current_price"`
	PriceSource  string                        `json:"price_source"`
	BarSource    string                        `json:"bar_source"`
	Bars         int                           `json:"bars"`
	LastBar      types.MarketData              `json:"last_bar"`
	Risk         optional.Option[risk.Metrics] `json:"risk_metrics"`
	// EntryBlocked is set when the entry filter rejected a BUY.
	EntryBlocked bool      `json:"entry_blocked"`
	EntryReason  string    `json:"entry_reason,omitempty"`
	AnalysisTime time.Time `json:"analysis_time"`
}

// Confidence is the share of the total weight that voted for the combined signal.
func (a Analysis) Confidence() float64 {
	if a.Result.TotalWeight <= 0 {
		return 0
	}

	return a.Result.Weights[a.Signal] / a.Result.TotalWeight
}

// Actionable reports whether the analysis should open a trade.
func (a Analysis) Actionable() bool {
	return a.Signal.IsActionable() && !a.EntryBlocked && a.CurrentPrice > 0
}

// Recommendation converts the analysis for the trade monitor.
func (a Analysis) Recommendation() monitor.Recommendation {
	rec := monitor.Recommendation{
		Signal:       a.Signal,
		CurrentPrice: a.CurrentPrice,
		StopLoss:     optional.None[float64](),
		TakeProfit:   optional.None[float64](),
		Algorithms:   a.Result.Order,
		Confidence:   optional.None[float64](),
	}

	if a.Risk.IsSome() {
		metrics := a.Risk.Unwrap()
		rec.StopLoss = optional.Some(metrics.StopLoss)
		rec.TakeProfit = optional.Some(metrics.TakeProfit)
	}

	return rec
}
