package strategy

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// DonchianStrategy is a channel breakout strategy.
// BUY when the close reaches the rolling high after the previous close stayed
// below the previous rolling high; SELL mirrored on the rolling low.
type DonchianStrategy struct {
	SignalLog
	window int
}

// NewDonchianStrategy creates a Donchian breakout strategy.
func NewDonchianStrategy(window int) (*DonchianStrategy, error) {
	if window <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "Donchian window must be positive, got %d", window)
	}

	return &DonchianStrategy{window: window}, nil
}

func (s *DonchianStrategy) Name() string {
	return fmt.Sprintf("Donchian_%d", s.window)
}

func (s *DonchianStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *DonchianStrategy) evaluate(data []types.MarketData) types.Signal {
	channel, err := indicator.Donchian(data, s.window)
	if err != nil {
		return NewSignal(s.Name(), types.StrategyTypeDonchian, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	prevUpper, curUpper, okUpper := indicator.LastTwo(channel.Upper)
	prevLower, curLower, okLower := indicator.LastTwo(channel.Lower)

	if !okUpper || !okLower {
		return NewSignal(s.Name(), types.StrategyTypeDonchian, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	prevClose, curClose, _ := indicator.LastTwo(indicator.Closes(data))

	signalType := types.SignalTypeHold
	reason := "inside channel"

	switch {
	case prevClose < prevUpper && curClose >= curUpper:
		signalType = types.SignalTypeBuy
		reason = "breakout above channel high"
	case prevClose > prevLower && curClose <= curLower:
		signalType = types.SignalTypeSell
		reason = "breakdown below channel low"
	}

	return NewSignal(s.Name(), types.StrategyTypeDonchian, data, signalType, reason, map[string]float64{
		"upper": curUpper,
		"lower": curLower,
		"close": curClose,
	})
}
