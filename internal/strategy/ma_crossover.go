package strategy

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// MACrossover emits BUY when the short SMA crosses above the long SMA and SELL
// when it crosses below.
type MACrossover struct {
	SignalLog
	shortWindow int
	longWindow  int
}

// NewMACrossover creates a moving average crossover strategy.
func NewMACrossover(shortWindow, longWindow int) (*MACrossover, error) {
	if shortWindow <= 0 || longWindow <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "MA windows must be positive, got %d and %d", shortWindow, longWindow)
	}

	if shortWindow >= longWindow {
		return nil, errors.Newf(errors.ErrCodeStrategyConfigError, "short window (%d) must be less than long window (%d)", shortWindow, longWindow)
	}

	return &MACrossover{shortWindow: shortWindow, longWindow: longWindow}, nil
}

func (s *MACrossover) Name() string {
	return fmt.Sprintf("MA_Crossover_%d_%d", s.shortWindow, s.longWindow)
}

func (s *MACrossover) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *MACrossover) evaluate(data []types.MarketData) types.Signal {
	closes := indicator.Closes(data)

	shortMA, err := indicator.SMA(closes, s.shortWindow)
	if err != nil {
		return s.hold(data)
	}

	longMA, err := indicator.SMA(closes, s.longWindow)
	if err != nil {
		return s.hold(data)
	}

	prevShort, curShort, ok1 := indicator.LastTwo(shortMA)
	prevLong, curLong, ok2 := indicator.LastTwo(longMA)

	if !ok1 || !ok2 {
		return s.hold(data)
	}

	signalType := crossover(prevShort, curShort, prevLong, curLong)

	reason := "no crossover"
	switch signalType {
	case types.SignalTypeBuy:
		reason = "short MA crossed above long MA"
	case types.SignalTypeSell:
		reason = "short MA crossed below long MA"
	}

	return NewSignal(s.Name(), types.StrategyTypeMACrossover, data, signalType, reason, map[string]float64{
		"short_ma": curShort,
		"long_ma":  curLong,
	})
}

func (s *MACrossover) hold(data []types.MarketData) types.Signal {
	return NewSignal(s.Name(), types.StrategyTypeMACrossover, data, types.SignalTypeHold, reasonInsufficientData, nil)
}
