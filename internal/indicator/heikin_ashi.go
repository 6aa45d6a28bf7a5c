package indicator

import (
	"math"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

// HeikinAshi recolors the bars.
// ha_close is the mean of OHLC; ha_open is the mean of the previous ha_open and
// ha_close, seeded by the first real open. ha_high and ha_low extend to cover the
// real high and low.
func HeikinAshi(data []types.MarketData) ([]types.MarketData, error) {
	if err := requireLength("Heikin-Ashi", len(data), 1); err != nil {
		return nil, err
	}

	out := make([]types.MarketData, len(data))

	for i, bar := range data {
		haClose := (bar.Open + bar.High + bar.Low + bar.Close) / 4

		haOpen := bar.Open
		if i > 0 {
			haOpen = (out[i-1].Open + out[i-1].Close) / 2
		}

		out[i] = types.MarketData{
			Id:     bar.Id,
			Symbol: bar.Symbol,
			Time:   bar.Time,
			Open:   haOpen,
			High:   math.Max(bar.High, math.Max(haOpen, haClose)),
			Low:    math.Min(bar.Low, math.Min(haOpen, haClose)),
			Close:  haClose,
			Volume: bar.Volume,
		}
	}

	return out, nil
}
