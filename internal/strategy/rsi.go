package strategy

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// RSIStrategy signals when the RSI leaves the oversold or overbought zone.
// BUY when RSI rises from below oversold to at least oversold; SELL when it falls
// from above overbought to at most overbought.
type RSIStrategy struct {
	SignalLog
	period     int
	overbought float64
	oversold   float64
}

// NewRSIStrategy creates an RSI threshold strategy.
func NewRSIStrategy(period int, overbought, oversold float64) (*RSIStrategy, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "RSI period must be positive, got %d", period)
	}

	if oversold < 0 || overbought > 100 || oversold >= overbought {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold, "RSI thresholds must satisfy 0 <= oversold < overbought <= 100, got %g and %g", oversold, overbought)
	}

	return &RSIStrategy{period: period, overbought: overbought, oversold: oversold}, nil
}

func (s *RSIStrategy) Name() string {
	return fmt.Sprintf("RSI_%d_%g_%g", s.period, s.overbought, s.oversold)
}

func (s *RSIStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *RSIStrategy) evaluate(data []types.MarketData) types.Signal {
	rsi, err := indicator.RSI(indicator.Closes(data), s.period)
	if err != nil {
		return NewSignal(s.Name(), types.StrategyTypeRSI, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	prev, cur, ok := indicator.LastTwo(rsi)
	if !ok {
		return NewSignal(s.Name(), types.StrategyTypeRSI, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	signalType := types.SignalTypeHold
	reason := "RSI inside thresholds"

	switch {
	case prev < s.oversold && cur >= s.oversold:
		signalType = types.SignalTypeBuy
		reason = "RSI exited oversold"
	case prev > s.overbought && cur <= s.overbought:
		signalType = types.SignalTypeSell
		reason = "RSI exited overbought"
	}

	return NewSignal(s.Name(), types.StrategyTypeRSI, data, signalType, reason, map[string]float64{
		"rsi":      cur,
		"prev_rsi": prev,
	})
}
