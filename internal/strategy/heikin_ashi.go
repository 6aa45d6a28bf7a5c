package strategy

import (
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

// HeikinAshiStrategy emits BUY when the last two Heikin-Ashi bars are both
// bullish and SELL when both are bearish.
type HeikinAshiStrategy struct {
	SignalLog
}

// NewHeikinAshiStrategy creates a Heikin-Ashi two-bar strategy.
func NewHeikinAshiStrategy() *HeikinAshiStrategy {
	return &HeikinAshiStrategy{}
}

func (s *HeikinAshiStrategy) Name() string {
	return "HeikinAshi"
}

func (s *HeikinAshiStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *HeikinAshiStrategy) evaluate(data []types.MarketData) types.Signal {
	if len(data) < 2 {
		return NewSignal(s.Name(), types.StrategyTypeHeikinAshi, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	ha, err := indicator.HeikinAshi(data)
	if err != nil {
		return NewSignal(s.Name(), types.StrategyTypeHeikinAshi, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	prev, cur := ha[len(ha)-2], ha[len(ha)-1]

	signalType := types.SignalTypeHold
	reason := "mixed candles"

	switch {
	case prev.IsBullish() && cur.IsBullish():
		signalType = types.SignalTypeBuy
		reason = "two bullish Heikin-Ashi candles"
	case prev.IsBearish() && cur.IsBearish():
		signalType = types.SignalTypeSell
		reason = "two bearish Heikin-Ashi candles"
	}

	return NewSignal(s.Name(), types.StrategyTypeHeikinAshi, data, signalType, reason, map[string]float64{
		"ha_open":  cur.Open,
		"ha_close": cur.Close,
	})
}
