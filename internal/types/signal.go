package types

import "time"

type SignalType string

const (
	// SignalTypeBuy tells the caller to open or favour a long position
	SignalTypeBuy SignalType = "BUY"
	// SignalTypeSell tells the caller to open or favour a short position
	SignalTypeSell SignalType = "SELL"
	// SignalTypeHold tells the caller to take no action
	SignalTypeHold SignalType = "HOLD"
)

// IsActionable reports whether the signal is BUY or SELL.
func (s SignalType) IsActionable() bool {
	return s == SignalTypeBuy || s == SignalTypeSell
}

// Priority orders signals for the strongest-signal policy. Higher wins.
func (s SignalType) Priority() int {
	switch s {
	case SignalTypeBuy:
		return 2
	case SignalTypeSell:
		return 1
	default:
		return 0
	}
}

type Signal struct {
	// Time is the time of the bar the signal was computed on
	Time time.Time `json:"time"`
	// Type is the type of the signal
	Type SignalType `json:"signal"`
	// Name is the name of the strategy that produced the signal
	Name string `json:"name"`
	// Reason is the reason for the signal
	Reason string `json:"reason,omitempty"`
	// RawValue holds the indicator values that produced the signal, e.g. short_ma and long_ma
	RawValue map[string]float64 `json:"values,omitempty"`
	// Symbol is the symbol of the signal
	Symbol string `json:"symbol,omitempty"`
	// Price is the close price of the bar the signal was computed on
	Price float64 `json:"price"`
	// Strategy is the type of the strategy that generated the signal
	Strategy StrategyType `json:"strategy,omitempty"`
}
