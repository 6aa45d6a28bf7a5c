package strategy

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// MACDStrategy emits BUY when the MACD line crosses above its signal line and
// SELL when it crosses below.
type MACDStrategy struct {
	SignalLog
	fast   int
	slow   int
	signal int
}

// NewMACDStrategy creates a MACD crossover strategy.
func NewMACDStrategy(fast, slow, signal int) (*MACDStrategy, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "MACD periods must be positive, got %d/%d/%d", fast, slow, signal)
	}

	if fast >= slow {
		return nil, errors.Newf(errors.ErrCodeStrategyConfigError, "MACD fast period (%d) must be less than slow period (%d)", fast, slow)
	}

	return &MACDStrategy{fast: fast, slow: slow, signal: signal}, nil
}

func (s *MACDStrategy) Name() string {
	return fmt.Sprintf("MACD_%d_%d_%d", s.fast, s.slow, s.signal)
}

func (s *MACDStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *MACDStrategy) evaluate(data []types.MarketData) types.Signal {
	macd, err := indicator.MACD(indicator.Closes(data), s.fast, s.slow, s.signal)
	if err != nil {
		return NewSignal(s.Name(), types.StrategyTypeMACD, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	prevLine, curLine, ok1 := indicator.LastTwo(macd.Line)
	prevSignal, curSignal, ok2 := indicator.LastTwo(macd.Signal)

	if !ok1 || !ok2 {
		return NewSignal(s.Name(), types.StrategyTypeMACD, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	signalType := crossover(prevLine, curLine, prevSignal, curSignal)

	reason := "no crossover"
	switch signalType {
	case types.SignalTypeBuy:
		reason = "MACD crossed above signal line"
	case types.SignalTypeSell:
		reason = "MACD crossed below signal line"
	}

	histogram, _ := indicator.Last(macd.Histogram)

	return NewSignal(s.Name(), types.StrategyTypeMACD, data, signalType, reason, map[string]float64{
		"macd":      curLine,
		"signal":    curSignal,
		"histogram": histogram,
	})
}
