// Package strategy turns OHLC series into BUY, SELL or HOLD signals.
//
// Every strategy inspects only the last two computed rows of its indicators.
// Too little history never fails: it yields HOLD. Each call to GenerateSignal
// appends the emitted signal to the strategy's own log.
package strategy

import (
	"sync"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

// Strategy is one signal producer.
type Strategy interface {
	// Name returns the unique name of the strategy, e.g. MA_Crossover_10_50.
	Name() string
	// GenerateSignal evaluates the series and returns BUY, SELL or HOLD.
	GenerateSignal(data []types.MarketData) types.Signal
	// Signals returns a copy of the signals emitted so far, oldest first.
	Signals() []types.Signal
}

// Trainable is a strategy that needs an offline training step.
// Until Train succeeds GenerateSignal returns HOLD.
type Trainable interface {
	Strategy
	// Train fits the model on the series and returns its held-out accuracy.
	Train(data []types.MarketData) (float64, error)
	IsTrained() bool
}

// SignalLog is the append-only signal history shared by all strategies.
type SignalLog struct {
	mu      sync.RWMutex
	signals []types.Signal
}

// Record appends the signal to the log and returns it.
func (l *SignalLog) Record(signal types.Signal) types.Signal {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.signals = append(l.signals, signal)

	return signal
}

// Signals returns a copy of the log.
func (l *SignalLog) Signals() []types.Signal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.Signal, len(l.signals))
	copy(out, l.signals)

	return out
}

// Len returns the number of recorded signals.
func (l *SignalLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.signals)
}

// NewSignal builds a signal for the last bar of data.
// An empty series produces a signal without time, symbol or price.
func NewSignal(name string, kind types.StrategyType, data []types.MarketData, signalType types.SignalType, reason string, values map[string]float64) types.Signal {
	signal := types.Signal{
		Type:     signalType,
		Name:     name,
		Reason:   reason,
		RawValue: values,
		Strategy: kind,
	}

	if len(data) > 0 {
		last := data[len(data)-1]
		signal.Time = last.Time
		signal.Symbol = last.Symbol
		signal.Price = last.Close
	}

	return signal
}

// crossover applies the crossover rule to two series:
// BUY when fast moves from <= slow to > slow, SELL on the mirrored move.
func crossover(prevFast, curFast, prevSlow, curSlow float64) types.SignalType {
	switch {
	case prevFast <= prevSlow && curFast > curSlow:
		return types.SignalTypeBuy
	case prevFast >= prevSlow && curFast < curSlow:
		return types.SignalTypeSell
	default:
		return types.SignalTypeHold
	}
}

const reasonInsufficientData = "insufficient data"
