package strategy

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// SuperTrendStrategy emits BUY when the close crosses above the SuperTrend line
// and SELL when it crosses below.
type SuperTrendStrategy struct {
	SignalLog
	period     int
	multiplier float64
}

// NewSuperTrendStrategy creates a SuperTrend strategy.
func NewSuperTrendStrategy(period int, multiplier float64) (*SuperTrendStrategy, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "SuperTrend period must be positive, got %d", period)
	}

	if multiplier <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidMultiplier, "SuperTrend multiplier must be positive, got %g", multiplier)
	}

	return &SuperTrendStrategy{period: period, multiplier: multiplier}, nil
}

func (s *SuperTrendStrategy) Name() string {
	return fmt.Sprintf("SuperTrend_%d_%.1f", s.period, s.multiplier)
}

func (s *SuperTrendStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *SuperTrendStrategy) evaluate(data []types.MarketData) types.Signal {
	st, err := indicator.SuperTrend(data, s.period, s.multiplier)
	if err != nil {
		return NewSignal(s.Name(), types.StrategyTypeSuperTrend, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	prevClose, curClose, _ := indicator.LastTwo(indicator.Closes(data))

	prevLine, curLine, ok := indicator.LastTwo(st.Line)
	if !ok {
		return NewSignal(s.Name(), types.StrategyTypeSuperTrend, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	signalType := crossover(prevClose, curClose, prevLine, curLine)

	reason := "trend unchanged"
	switch signalType {
	case types.SignalTypeBuy:
		reason = "close crossed above SuperTrend"
	case types.SignalTypeSell:
		reason = "close crossed below SuperTrend"
	}

	direction, _ := indicator.Last(st.Direction)

	return NewSignal(s.Name(), types.StrategyTypeSuperTrend, data, signalType, reason, map[string]float64{
		"supertrend": curLine,
		"direction":  direction,
		"close":      curClose,
	})
}
