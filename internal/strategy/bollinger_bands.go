package strategy

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// BollingerBandsStrategy is a mean reversion strategy on the bands.
// BUY when the close crosses up through the lower band, SELL when it crosses
// down through the upper band.
type BollingerBandsStrategy struct {
	SignalLog
	window int
	numStd float64
}

// NewBollingerBandsStrategy creates a Bollinger Bands strategy.
func NewBollingerBandsStrategy(window int, numStd float64) (*BollingerBandsStrategy, error) {
	if window < 2 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "Bollinger window must be at least 2, got %d", window)
	}

	if numStd <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidMultiplier, "Bollinger std multiplier must be positive, got %g", numStd)
	}

	return &BollingerBandsStrategy{window: window, numStd: numStd}, nil
}

func (s *BollingerBandsStrategy) Name() string {
	return fmt.Sprintf("Bollinger_%d_%.1f", s.window, s.numStd)
}

func (s *BollingerBandsStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *BollingerBandsStrategy) evaluate(data []types.MarketData) types.Signal {
	closes := indicator.Closes(data)

	bands, err := indicator.BollingerBands(closes, s.window, s.numStd)
	if err != nil {
		return NewSignal(s.Name(), types.StrategyTypeBollingerBands, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	prevClose, curClose, _ := indicator.LastTwo(closes)
	prevLower, curLower, okLower := indicator.LastTwo(bands.Lower)
	prevUpper, curUpper, okUpper := indicator.LastTwo(bands.Upper)

	if !okLower || !okUpper {
		return NewSignal(s.Name(), types.StrategyTypeBollingerBands, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	signalType := types.SignalTypeHold
	reason := "price inside bands"

	switch {
	case prevClose <= prevLower && curClose > curLower:
		signalType = types.SignalTypeBuy
		reason = "price crossed up through lower band"
	case prevClose >= prevUpper && curClose < curUpper:
		signalType = types.SignalTypeSell
		reason = "price crossed down through upper band"
	}

	middle, _ := indicator.Last(bands.Middle)

	return NewSignal(s.Name(), types.StrategyTypeBollingerBands, data, signalType, reason, map[string]float64{
		"upper":  curUpper,
		"middle": middle,
		"lower":  curLower,
		"close":  curClose,
	})
}
