// Package monitor manages the lifecycle of open trades on top of the trade ledger.
package monitor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/tracker"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

const (
	ReasonStopLoss   = "Stop Loss Hit"
	ReasonTakeProfit = "Take Profit Hit"
	ReasonManual     = "Manual"
	ReasonCloseAll   = "Close All"
)

// TradeListener is told about every trade the monitor opens or closes.
// Listener errors are logged and never undo the trade.
type TradeListener interface {
	OnTradeOpened(ctx context.Context, trade types.TradeRecord) error
	OnTradeClosed(ctx context.Context, trade types.TradeRecord, reason string) error
}

// OpenTradeRequest describes a trade to open at the current time.
type OpenTradeRequest struct {
	Symbol       string             `validate:"required"`
	EntryPrice   float64            `validate:"gt=0"`
	PositionType types.PositionType `validate:"oneof=LONG SHORT"`
	PositionSize float64            `validate:"gt=0"`
	StrategyName string             `validate:"required"`
	StopLoss     optional.Option[float64]
	TakeProfit   optional.Option[float64]
	Notes        string
}

// Monitor keeps the set of open trades in memory and records every change in the tracker.
// The active set is always equal to the OPEN trades of the ledger.
type Monitor struct {
	mu        sync.Mutex
	tracker   *tracker.Tracker
	active    map[string]types.TradeRecord
	listeners []TradeListener
	logger    *logger.Logger
	validate  *validator.Validate
	newID     func(time.Time) string
}

type Option func(*Monitor)

func WithLogger(log *logger.Logger) Option {
	return func(m *Monitor) {
		m.logger = log
	}
}

// WithListener registers a listener for open and close events.
func WithListener(listener TradeListener) Option {
	return func(m *Monitor) {
		m.listeners = append(m.listeners, listener)
	}
}

// WithIDGenerator replaces the trade id generator.
func WithIDGenerator(newID func(time.Time) string) Option {
	return func(m *Monitor) {
		m.newID = newID
	}
}

// New creates a monitor and rebuilds the active set from the OPEN trades in the ledger.
func New(t *tracker.Tracker, opts ...Option) *Monitor {
	m := &Monitor{
		tracker:  t,
		active:   make(map[string]types.TradeRecord),
		logger:   logger.NewNopLogger(),
		validate: validator.New(),
		newID:    NewTradeID,
	}

	for _, opt := range opts {
		opt(m)
	}

	for _, trade := range t.OpenTrades() {
		m.active[trade.TradeID] = trade
	}

	m.logger.Info("Loaded active trades", zap.Int("count", len(m.active)))

	return m
}

// NewTradeID returns TRADE_YYYYMMDD_HHMMSS_<8 hex chars>.
func NewTradeID(now time.Time) string {
	return fmt.Sprintf("TRADE_%s_%s", now.Format("20060102_150405"), uuid.New().String()[:8])
}

// Tracker returns the underlying ledger.
func (m *Monitor) Tracker() *tracker.Tracker {
	return m.tracker
}

// OpenTrade records a new OPEN trade and returns its id.
func (m *Monitor) OpenTrade(ctx context.Context, req OpenTradeRequest) (string, error) {
	if err := m.validate.Struct(req); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidTrade, "invalid trade request", err)
	}

	m.mu.Lock()

	now := m.tracker.Now()
	trade := types.TradeRecord{
		TradeID:      m.newID(now),
		Symbol:       req.Symbol,
		EntryTime:    now,
		EntryPrice:   req.EntryPrice,
		PositionType: req.PositionType,
		PositionSize: req.PositionSize,
		StopLoss:     req.StopLoss,
		TakeProfit:   req.TakeProfit,
		Status:       types.TradeStatusOpen,
		StrategyName: req.StrategyName,
		Notes:        req.Notes,
	}

	if err := m.tracker.AddTrade(trade); err != nil {
		m.mu.Unlock()

		return "", err
	}

	m.active[trade.TradeID] = trade
	m.mu.Unlock()

	m.logger.Info("Opened trade",
		zap.String("trade_id", trade.TradeID),
		zap.String("symbol", trade.Symbol),
		zap.String("position_type", string(trade.PositionType)),
		zap.Float64("entry_price", trade.EntryPrice),
	)

	for _, listener := range m.listeners {
		if err := listener.OnTradeOpened(ctx, trade); err != nil {
			m.logger.Warn("Trade listener failed", zap.String("trade_id", trade.TradeID), zap.Error(err))
		}
	}

	return trade.TradeID, nil
}

// CloseTrade closes an active trade at exitPrice and appends the reason to its notes.
// An id that is not active returns false without error.
func (m *Monitor) CloseTrade(ctx context.Context, id string, exitPrice float64, reason string) (bool, error) {
	m.mu.Lock()

	trade, ok := m.active[id]
	if !ok {
		m.mu.Unlock()
		m.logger.Warn("Trade not found", zap.String("trade_id", id))

		return false, nil
	}

	if reason == "" {
		reason = ReasonManual
	}

	closed, err := m.tracker.UpdateTrade(id, tracker.TradeUpdate{
		ExitPrice: optional.Some(exitPrice),
		ExitTime:  optional.Some(m.tracker.Now()),
		Notes:     optional.Some(appendExitReason(trade.Notes, reason)),
	})
	if err != nil || !closed {
		m.mu.Unlock()

		return false, err
	}

	delete(m.active, id)
	m.mu.Unlock()

	record, _ := m.tracker.Trade(id)

	m.logger.Info("Closed trade",
		zap.String("trade_id", id),
		zap.Float64("pnl", record.PnLValue()),
		zap.Float64("pnl_percentage", record.PnLPercentage.TakeOr(0)),
		zap.String("reason", reason),
	)

	for _, listener := range m.listeners {
		if err := listener.OnTradeClosed(ctx, record, reason); err != nil {
			m.logger.Warn("Trade listener failed", zap.String("trade_id", id), zap.Error(err))
		}
	}

	return true, nil
}

func appendExitReason(notes, reason string) string {
	return strings.Trim(notes+" | Exit Reason: "+reason, " |")
}

// UpdateTradeLevels changes the stop loss and/or take profit of an active trade.
// It returns false when the trade is not active or nothing was given.
func (m *Monitor) UpdateTradeLevels(id string, stopLoss, takeProfit optional.Option[float64]) (bool, error) {
	if stopLoss.IsNone() && takeProfit.IsNone() {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	trade, ok := m.active[id]
	if !ok {
		m.logger.Warn("Trade not found", zap.String("trade_id", id))

		return false, nil
	}

	updated, err := m.tracker.UpdateTrade(id, tracker.TradeUpdate{StopLoss: stopLoss, TakeProfit: takeProfit})
	if err != nil || !updated {
		return false, err
	}

	if stopLoss.IsSome() {
		trade.StopLoss = stopLoss
	}

	if takeProfit.IsSome() {
		trade.TakeProfit = takeProfit
	}

	m.active[id] = trade

	m.logger.Info("Updated trade levels",
		zap.String("trade_id", id),
		zap.Float64("stop_loss", trade.StopLoss.TakeOr(0)),
		zap.Float64("take_profit", trade.TakeProfit.TakeOr(0)),
	)

	return true, nil
}

// ActiveTrades returns a copy of the open trades keyed by id.
func (m *Monitor) ActiveTrades() map[string]types.TradeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]types.TradeRecord, len(m.active))
	for id, trade := range m.active {
		out[id] = trade
	}

	return out
}

// activeSnapshot returns the active trades in entry order.
func (m *Monitor) activeSnapshot() []types.TradeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	trades := make([]types.TradeRecord, 0, len(m.active))
	for _, trade := range m.active {
		trades = append(trades, trade)
	}

	sort.Slice(trades, func(i, j int) bool {
		if trades[i].EntryTime.Equal(trades[j].EntryTime) {
			return trades[i].TradeID < trades[j].TradeID
		}

		return trades[i].EntryTime.Before(trades[j].EntryTime)
	})

	return trades
}

// levelHit reports whether price crosses the trade's stop loss or take profit.
// Stop loss is checked first.
func levelHit(trade types.TradeRecord, price float64) (string, bool) {
	long := trade.PositionType == types.PositionTypeLong

	if trade.StopLoss.IsSome() {
		sl := trade.StopLoss.Unwrap()
		if (long && price <= sl) || (!long && price >= sl) {
			return ReasonStopLoss, true
		}
	}

	if trade.TakeProfit.IsSome() {
		tp := trade.TakeProfit.Unwrap()
		if (long && price >= tp) || (!long && price <= tp) {
			return ReasonTakeProfit, true
		}
	}

	return "", false
}

// CheckTradeLevels closes every active trade whose symbol has a price that hits
// its stop loss or take profit, and returns the closed ids.
func (m *Monitor) CheckTradeLevels(ctx context.Context, prices map[string]float64) []string {
	var closed []string

	for _, trade := range m.activeSnapshot() {
		price, ok := prices[trade.Symbol]
		if !ok {
			continue
		}

		reason, hit := levelHit(trade, price)
		if !hit {
			continue
		}

		ok, err := m.CloseTrade(ctx, trade.TradeID, price, reason)
		if err != nil {
			m.logger.Error("Failed to close trade", zap.String("trade_id", trade.TradeID), zap.Error(err))

			continue
		}

		if ok {
			closed = append(closed, trade.TradeID)
		}
	}

	return closed
}

// CloseAllTrades closes every active trade whose symbol has a price.
func (m *Monitor) CloseAllTrades(ctx context.Context, prices map[string]float64, reason string) []string {
	if reason == "" {
		reason = ReasonCloseAll
	}

	var closed []string

	for _, trade := range m.activeSnapshot() {
		price, ok := prices[trade.Symbol]
		if !ok {
			m.logger.Warn("No price for trade", zap.String("trade_id", trade.TradeID), zap.String("symbol", trade.Symbol))

			continue
		}

		ok, err := m.CloseTrade(ctx, trade.TradeID, price, reason)
		if err != nil {
			m.logger.Error("Failed to close trade", zap.String("trade_id", trade.TradeID), zap.Error(err))

			continue
		}

		if ok {
			closed = append(closed, trade.TradeID)
		}
	}

	return closed
}

// DailySummary returns today's stats and the number of active trades.
func (m *Monitor) DailySummary() types.DailySummary {
	summary := m.tracker.DailySummary()

	m.mu.Lock()
	summary.ActiveTrades = len(m.active)
	m.mu.Unlock()

	return summary
}
