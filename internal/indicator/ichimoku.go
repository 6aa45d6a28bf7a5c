package indicator

import "github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"

// IchimokuConfig holds the window lengths of the Ichimoku lines.
type IchimokuConfig struct {
	Tenkan       int
	Kijun        int
	SenkouB      int
	Displacement int
}

// DefaultIchimokuConfig returns the classic 9/26/52 configuration with a 26 bar displacement.
func DefaultIchimokuConfig() IchimokuConfig {
	return IchimokuConfig{Tenkan: 9, Kijun: 26, SenkouB: 52, Displacement: 26}
}

// IchimokuSeries holds the Ichimoku lines aligned with the input bars.
// SenkouA and SenkouB are already shifted forward by the displacement, so index i
// holds the cloud drawn under bar i. ChikouReference is the close Displacement bars
// earlier, the price the lagging span (the current close) is compared with.
type IchimokuSeries struct {
	Tenkan          []float64
	Kijun           []float64
	SenkouA         []float64
	SenkouB         []float64
	Chikou          []float64
	ChikouReference []float64
}

// Ichimoku computes the Ichimoku Kinko Hyo lines.
// At least cfg.SenkouB bars are required; the cloud at the last bar is defined
// once cfg.SenkouB+cfg.Displacement bars are available.
func Ichimoku(data []types.MarketData, cfg IchimokuConfig) (IchimokuSeries, error) {
	for name, period := range map[string]int{
		"Ichimoku tenkan":       cfg.Tenkan,
		"Ichimoku kijun":        cfg.Kijun,
		"Ichimoku senkou B":     cfg.SenkouB,
		"Ichimoku displacement": cfg.Displacement,
	} {
		if err := validatePeriod(name, period); err != nil {
			return IchimokuSeries{}, err
		}
	}

	if err := requireLength("Ichimoku", len(data), cfg.SenkouB); err != nil {
		return IchimokuSeries{}, err
	}

	highs := Highs(data)
	lows := Lows(data)
	closes := Closes(data)

	tenkan := midpoint(highs, lows, cfg.Tenkan)
	kijun := midpoint(highs, lows, cfg.Kijun)

	spanA := make([]float64, len(data))
	for i := range data {
		spanA[i] = (tenkan[i] + kijun[i]) / 2
	}

	return IchimokuSeries{
		Tenkan:          tenkan,
		Kijun:           kijun,
		SenkouA:         shift(spanA, cfg.Displacement),
		SenkouB:         shift(midpoint(highs, lows, cfg.SenkouB), cfg.Displacement),
		Chikou:          closes,
		ChikouReference: shift(closes, cfg.Displacement),
	}, nil
}

// midpoint is (highest high + lowest low) / 2 over n bars.
func midpoint(highs, lows []float64, n int) []float64 {
	hi := rollingMax(highs, n)
	lo := rollingMin(lows, n)
	out := make([]float64, len(highs))

	for i := range highs {
		out[i] = (hi[i] + lo[i]) / 2
	}

	return out
}
