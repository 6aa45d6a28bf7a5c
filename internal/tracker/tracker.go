// Package tracker is the trade ledger: it records trades, computes PnL on close
// and derives period statistics. The ledger file is the single source of truth.
package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

// TradeUpdate lists the fields UpdateTrade may change. None fields are left untouched.
type TradeUpdate struct {
	ExitPrice  optional.Option[float64]
	ExitTime   optional.Option[time.Time]
	StopLoss   optional.Option[float64]
	TakeProfit optional.Option[float64]
	Notes      optional.Option[string]
}

// Tracker owns the trade ledger.
type Tracker struct {
	mu         sync.RWMutex
	store      Store
	trades     []types.TradeRecord
	logger     *logger.Logger
	now        func() time.Time
	reportsDir string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(t *Tracker) {
		t.logger = log
	}
}

// WithClock sets the clock used for default exit times and report periods.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithReportsDir sets the directory GenerateReport writes to.
func WithReportsDir(dir string) Option {
	return func(t *Tracker) {
		t.reportsDir = dir
	}
}

// New loads the ledger from store.
func New(store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:  store,
		logger: logger.NewNopLogger(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	trades, err := store.Load()
	if err != nil {
		return nil, err
	}

	t.trades = trades
	t.logger.Info("Loaded trades", zap.Int("count", len(trades)))

	return t, nil
}

// Now returns the tracker clock's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// AddTrade appends trade to the ledger and persists it.
func (t *Tracker) AddTrade(trade types.TradeRecord) error {
	if err := validateTrade(trade); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.indexOf(trade.TradeID) >= 0 {
		return errors.Newf(errors.ErrCodeTradeAlreadyExists, "trade %s already exists", trade.TradeID)
	}

	updated := append(append([]types.TradeRecord(nil), t.trades...), trade)
	if err := t.store.Save(updated); err != nil {
		return err
	}

	t.trades = updated
	t.logger.Info("Added trade",
		zap.String("trade_id", trade.TradeID),
		zap.String("position_type", string(trade.PositionType)),
		zap.Float64("entry_price", trade.EntryPrice),
	)

	return nil
}

// UpdateTrade applies update to the trade with id. When both exit price and exit
// time end up set the trade is closed and its PnL computed.
// An unknown id returns false without error; a CLOSED trade cannot be updated.
func (t *Tracker) UpdateTrade(id string, update TradeUpdate) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return false, nil
	}

	trade := t.trades[i]
	if trade.IsClosed() {
		return false, errors.Newf(errors.ErrCodeTradeClosed, "trade %s is already closed", id)
	}

	if update.ExitPrice.IsSome() {
		trade.ExitPrice = update.ExitPrice
	}

	if update.ExitTime.IsSome() {
		trade.ExitTime = update.ExitTime
	}

	if update.StopLoss.IsSome() {
		trade.StopLoss = update.StopLoss
	}

	if update.TakeProfit.IsSome() {
		trade.TakeProfit = update.TakeProfit
	}

	if update.Notes.IsSome() {
		trade.Notes = update.Notes.Unwrap()
	}

	if trade.ExitPrice.IsSome() && trade.ExitTime.IsSome() {
		pnl, pct := trade.CalculatePnL(trade.ExitPrice.Unwrap())
		trade.PnL = optional.Some(pnl)
		trade.PnLPercentage = optional.Some(pct)
		trade.Status = types.TradeStatusClosed
	}

	updated := append([]types.TradeRecord(nil), t.trades...)
	updated[i] = trade

	if err := t.store.Save(updated); err != nil {
		return false, err
	}

	t.trades = updated

	if trade.IsClosed() {
		t.logger.Info("Closed trade",
			zap.String("trade_id", id),
			zap.Float64("exit_price", trade.ExitPrice.Unwrap()),
			zap.Float64("pnl", trade.PnLValue()),
		)
	} else {
		t.logger.Info("Updated trade", zap.String("trade_id", id))
	}

	return true, nil
}

// CloseTrade closes the trade at exitPrice. A zero exitTime means now.
func (t *Tracker) CloseTrade(id string, exitPrice float64, exitTime time.Time) (bool, error) {
	if exitTime.IsZero() {
		exitTime = t.now()
	}

	return t.UpdateTrade(id, TradeUpdate{
		ExitPrice: optional.Some(exitPrice),
		ExitTime:  optional.Some(exitTime),
	})
}

// Trade returns the trade with id.
func (t *Tracker) Trade(id string) (types.TradeRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.indexOf(id)
	if i < 0 {
		return types.TradeRecord{}, false
	}

	return t.trades[i], true
}

// Trades returns a copy of the whole ledger in insertion order.
func (t *Tracker) Trades() []types.TradeRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return append([]types.TradeRecord(nil), t.trades...)
}

// OpenTrades returns the trades still OPEN.
func (t *Tracker) OpenTrades() []types.TradeRecord {
	return t.filter(func(trade types.TradeRecord) bool { return trade.IsOpen() })
}

// ClosedTrades returns the CLOSED trades.
func (t *Tracker) ClosedTrades() []types.TradeRecord {
	return t.filter(func(trade types.TradeRecord) bool { return trade.IsClosed() })
}

// QueryByPeriod returns the CLOSED trades whose entry time is within [start, end].
func (t *Tracker) QueryByPeriod(start, end time.Time) []types.TradeRecord {
	return t.filter(func(trade types.TradeRecord) bool {
		return trade.IsClosed() && !trade.EntryTime.Before(start) && !trade.EntryTime.After(end)
	})
}

// StatsForPeriod is QueryByPeriod followed by CalculatePeriodStats.
func (t *Tracker) StatsForPeriod(period string, start, end time.Time) types.PeriodStats {
	return CalculatePeriodStats(t.QueryByPeriod(start, end), period, start, end)
}

func (t *Tracker) filter(keep func(types.TradeRecord) bool) []types.TradeRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []types.TradeRecord

	for _, trade := range t.trades {
		if keep(trade) {
			out = append(out, trade)
		}
	}

	return out
}

func (t *Tracker) indexOf(id string) int {
	for i := range t.trades {
		if t.trades[i].TradeID == id {
			return i
		}
	}

	return -1
}

func validateTrade(trade types.TradeRecord) error {
	if trade.TradeID == "" {
		return errors.New(errors.ErrCodeInvalidTrade, "trade id is required")
	}

	if trade.PositionSize <= 0 {
		return errors.Newf(errors.ErrCodeInvalidTrade, "position size must be positive, got %g", trade.PositionSize)
	}

	if trade.PositionType != types.PositionTypeLong && trade.PositionType != types.PositionTypeShort {
		return errors.Newf(errors.ErrCodeInvalidTrade, "invalid position type %q", trade.PositionType)
	}

	if trade.Status == types.TradeStatusClosed && (trade.PnL.IsNone() || trade.ExitTime.IsNone()) {
		return errors.New(errors.ErrCodeInvalidTrade, "a closed trade needs exit time and pnl")
	}

	if trade.Status == types.TradeStatusOpen && (trade.PnL.IsSome() || trade.ExitTime.IsSome()) {
		return errors.New(errors.ErrCodeInvalidTrade, "an open trade cannot have exit time or pnl")
	}

	if trade.Status != types.TradeStatusOpen && trade.Status != types.TradeStatusClosed {
		return errors.Newf(errors.ErrCodeInvalidTrade, "invalid status %q", trade.Status)
	}

	return nil
}

// sortedByEntry returns a copy of trades ordered by entry time.
func sortedByEntry(trades []types.TradeRecord) []types.TradeRecord {
	out := append([]types.TradeRecord(nil), trades...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].EntryTime.Before(out[j].EntryTime) })

	return out
}
