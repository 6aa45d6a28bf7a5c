// Package metrics exposes the bot's Prometheus counters.
package metrics

import (
	"context"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dekea"

// Recorder holds every metric of one bot process on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	strategySignals *prometheus.CounterVec
	combinedSignals *prometheus.CounterVec
	confidence      prometheus.Histogram
	tradesOpened    *prometheus.CounterVec
	tradesClosed    *prometheus.CounterVec
	realizedPnL     prometheus.Counter
	openTrades      prometheus.Gauge
	lastPrice       *prometheus.GaugeVec
	priceAttempts   *prometheus.CounterVec
	priceLatency    *prometheus.HistogramVec
	analysisErrors  *prometheus.CounterVec
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		strategySignals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "strategy_signals_total",
				Help:      "Signals produced by each strategy",
			},
			[]string{"strategy", "signal"},
		),
		combinedSignals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "combined_signals_total",
				Help:      "Combined signals by voting method",
			},
			[]string{"method", "signal"},
		),
		confidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "combined_signal_confidence",
				Help:      "Confidence of combined signals",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
		tradesOpened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trades_opened_total",
				Help:      "Trades opened by position type",
			},
			[]string{"position_type"},
		),
		tradesClosed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trades_closed_total",
				Help:      "Trades closed by position type and outcome",
			},
			[]string{"position_type", "outcome"},
		),
		realizedPnL: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "realized_profit_total",
				Help:      "Sum of positive realized pnl",
			},
		),
		openTrades: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "open_trades",
				Help:      "Currently open trades",
			},
		),
		lastPrice: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_price",
				Help:      "Last quoted price by symbol",
			},
			[]string{"symbol"},
		),
		priceAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_attempts_total",
				Help:      "Market data provider attempts by result",
			},
			[]string{"source", "result"},
		),
		priceLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "source_duration_seconds",
				Help:      "Duration of market data provider attempts",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		analysisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Errors by stage",
			},
			[]string{"stage"},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordStrategySignal counts one strategy vote.
func (r *Recorder) RecordStrategySignal(strategy string, signal types.SignalType) {
	r.strategySignals.WithLabelValues(strategy, string(signal)).Inc()
}

// RecordCombinedSignal counts a combined signal and observes its confidence.
func (r *Recorder) RecordCombinedSignal(method string, signal types.SignalType, confidence float64) {
	r.combinedSignals.WithLabelValues(method, string(signal)).Inc()
	r.confidence.Observe(confidence)
}

// RecordTradeOpened counts an opened trade.
func (r *Recorder) RecordTradeOpened(trade types.TradeRecord) {
	r.tradesOpened.WithLabelValues(string(trade.PositionType)).Inc()
	r.openTrades.Inc()
}

// RecordTradeClosed counts a closed trade by outcome.
func (r *Recorder) RecordTradeClosed(trade types.TradeRecord) {
	pnl := trade.PnLValue()

	outcome := "breakeven"

	switch {
	case pnl > 0:
		outcome = "win"

		r.realizedPnL.Add(pnl)
	case pnl < 0:
		outcome = "loss"
	}

	r.tradesClosed.WithLabelValues(string(trade.PositionType), outcome).Inc()
	r.openTrades.Dec()
}

// RecordPrice sets the last price gauge.
func (r *Recorder) RecordPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordError counts an error at stage.
func (r *Recorder) RecordError(stage string) {
	r.analysisErrors.WithLabelValues(stage).Inc()
}

// ObserveAttempt records one provider attempt. Its signature matches marketdata.AttemptObserver.
func (r *Recorder) ObserveAttempt(source string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	r.priceAttempts.WithLabelValues(source, result).Inc()
	r.priceLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// OnTradeOpened lets the recorder listen to a trade monitor.
func (r *Recorder) OnTradeOpened(_ context.Context, trade types.TradeRecord) error {
	r.RecordTradeOpened(trade)

	return nil
}

// OnTradeClosed lets the recorder listen to a trade monitor.
func (r *Recorder) OnTradeClosed(_ context.Context, trade types.TradeRecord, _ string) error {
	r.RecordTradeClosed(trade)

	return nil
}
