package strategy

import (
	"math"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// IchimokuStrategy requires every Ichimoku condition to agree.
// BUY: close above both cloud spans, tenkan above kijun and the lagging span above
// the close of Displacement bars ago. SELL: the mirrored set.
type IchimokuStrategy struct {
	SignalLog
	config indicator.IchimokuConfig
}

// NewIchimokuStrategy creates an Ichimoku confluence strategy.
func NewIchimokuStrategy(config indicator.IchimokuConfig) (*IchimokuStrategy, error) {
	if config.Tenkan <= 0 || config.Kijun <= 0 || config.SenkouB <= 0 || config.Displacement <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "Ichimoku periods must be positive, got %+v", config)
	}

	return &IchimokuStrategy{config: config}, nil
}

func (s *IchimokuStrategy) Name() string {
	return "Ichimoku"
}

func (s *IchimokuStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *IchimokuStrategy) evaluate(data []types.MarketData) types.Signal {
	series, err := indicator.Ichimoku(data, s.config)
	if err != nil {
		return NewSignal(s.Name(), types.StrategyTypeIchimoku, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	tenkan, ok1 := indicator.Last(series.Tenkan)
	kijun, ok2 := indicator.Last(series.Kijun)
	senkouA, ok3 := indicator.Last(series.SenkouA)
	senkouB, ok4 := indicator.Last(series.SenkouB)
	reference, ok5 := indicator.Last(series.ChikouReference)

	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return NewSignal(s.Name(), types.StrategyTypeIchimoku, data, types.SignalTypeHold, reasonInsufficientData, nil)
	}

	price := data[len(data)-1].Close
	cloudTop := math.Max(senkouA, senkouB)
	cloudBottom := math.Min(senkouA, senkouB)

	signalType := types.SignalTypeHold
	reason := "conditions not aligned"

	switch {
	case price > cloudTop && tenkan > kijun && price > reference:
		signalType = types.SignalTypeBuy
		reason = "price above cloud with bullish momentum"
	case price < cloudBottom && tenkan < kijun && price < reference:
		signalType = types.SignalTypeSell
		reason = "price below cloud with bearish momentum"
	}

	return NewSignal(s.Name(), types.StrategyTypeIchimoku, data, signalType, reason, map[string]float64{
		"tenkan":   tenkan,
		"kijun":    kijun,
		"senkou_a": senkouA,
		"senkou_b": senkouB,
		"close":    price,
	})
}
