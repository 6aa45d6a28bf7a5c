package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

type PositionType string

const (
	PositionTypeLong  PositionType = "LONG"
	PositionTypeShort PositionType = "SHORT"
)

// PositionTypeFromSignal maps BUY to LONG and SELL to SHORT.
// HOLD has no position and returns false.
func PositionTypeFromSignal(signal SignalType) (PositionType, bool) {
	switch signal {
	case SignalTypeBuy:
		return PositionTypeLong, true
	case SignalTypeSell:
		return PositionTypeShort, true
	default:
		return "", false
	}
}

type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "OPEN"
	TradeStatusClosed TradeStatus = "CLOSED"
)

// TradeRecord is one entry of the trade ledger.
// ExitTime, ExitPrice, PnL and PnLPercentage are set iff Status is CLOSED.
type TradeRecord struct {
	TradeID       string                     `json:"trade_id"`
	Symbol        string                     `json:"symbol"`
	EntryTime     time.Time                  `json:"entry_time"`
	ExitTime      optional.Option[time.Time] `json:"exit_time"`
	EntryPrice    float64                    `json:"entry_price"`
	ExitPrice     optional.Option[float64]   `json:"exit_price"`
	PositionType  PositionType               `json:"position_type"`
	PositionSize  float64                    `json:"position_size"`
	StopLoss      optional.Option[float64]   `json:"stop_loss"`
	TakeProfit    optional.Option[float64]   `json:"take_profit"`
	PnL           optional.Option[float64]   `json:"pnl"`
	PnLPercentage optional.Option[float64]   `json:"pnl_percentage"`
	Status        TradeStatus                `json:"status"`
	StrategyName  string                     `json:"strategy_name"`
	Notes         string                     `json:"notes"`
}

func (t TradeRecord) IsOpen() bool {
	return t.Status == TradeStatusOpen
}

func (t TradeRecord) IsClosed() bool {
	return t.Status == TradeStatusClosed
}

// PnLValue returns the realized PnL, or 0 while the trade is open.
func (t TradeRecord) PnLValue() float64 {
	return t.PnL.TakeOr(0)
}

// CalculatePnL returns the PnL and PnL percentage of closing the trade at exitPrice.
// LONG: (exit - entry) * size. SHORT: (entry - exit) * size.
// The percentage is relative to the entry notional (entry * size).
func (t TradeRecord) CalculatePnL(exitPrice float64) (pnl float64, pnlPercentage float64) {
	entryDec := decimal.NewFromFloat(t.EntryPrice)
	exitDec := decimal.NewFromFloat(exitPrice)
	sizeDec := decimal.NewFromFloat(t.PositionSize)

	var pnlDec decimal.Decimal
	if t.PositionType == PositionTypeShort {
		pnlDec = entryDec.Sub(exitDec).Mul(sizeDec)
	} else {
		pnlDec = exitDec.Sub(entryDec).Mul(sizeDec)
	}

	notional := entryDec.Mul(sizeDec)
	if notional.IsZero() {
		return pnlDec.InexactFloat64(), 0
	}

	pctDec := pnlDec.Div(notional).Mul(decimal.NewFromInt(100))

	return pnlDec.InexactFloat64(), pctDec.InexactFloat64()
}
