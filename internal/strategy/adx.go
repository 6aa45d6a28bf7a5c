package strategy

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// ADXStrategy only trades strong trends: when ADX is above the threshold the
// dominant directional indicator decides BUY (+DI) or SELL (-DI).
type ADXStrategy struct {
	SignalLog
	period    int
	threshold float64
}

// NewADXStrategy creates an ADX trend strength strategy.
func NewADXStrategy(period int, threshold float64) (*ADXStrategy, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "ADX period must be positive, got %d", period)
	}

	if threshold < 0 || threshold > 100 {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold, "ADX threshold must be within [0, 100], got %g", threshold)
	}

	return &ADXStrategy{period: period, threshold: threshold}, nil
}

func (s *ADXStrategy) Name() string {
	return fmt.Sprintf("ADX_%d_%g", s.period, s.threshold)
}

func (s *ADXStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *ADXStrategy) evaluate(data []types.MarketData) types.Signal {
	adx, err := indicator.ADX(data, s.period)
	if err != nil {
		return NewSignal(s.Name(), types.StrategyTypeADX, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	value, ok1 := indicator.Last(adx.ADX)
	plusDI, ok2 := indicator.Last(adx.PlusDI)
	minusDI, ok3 := indicator.Last(adx.MinusDI)

	if !ok1 || !ok2 || !ok3 {
		return NewSignal(s.Name(), types.StrategyTypeADX, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	signalType := types.SignalTypeHold
	reason := "trend too weak"

	if value > s.threshold {
		switch {
		case plusDI > minusDI:
			signalType = types.SignalTypeBuy
			reason = "strong uptrend"
		case minusDI > plusDI:
			signalType = types.SignalTypeSell
			reason = "strong downtrend"
		default:
			reason = "no dominant direction"
		}
	}

	return NewSignal(s.Name(), types.StrategyTypeADX, data, signalType, reason, map[string]float64{
		"adx":      value,
		"plus_di":  plusDI,
		"minus_di": minusDI,
	})
}
