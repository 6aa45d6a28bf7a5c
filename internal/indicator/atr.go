package indicator

import (
	"math"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|) per bar.
// The first bar has no previous close and uses high-low.
func TrueRange(data []types.MarketData) []float64 {
	out := make([]float64, len(data))

	for i, bar := range data {
		tr := bar.High - bar.Low
		if i > 0 {
			prevClose := data[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(bar.High-prevClose), math.Abs(bar.Low-prevClose)))
		}

		out[i] = tr
	}

	return out
}

// ATR returns the rolling mean of the true range over period.
func ATR(data []types.MarketData, period int) ([]float64, error) {
	if err := validatePeriod("ATR", period); err != nil {
		return nil, err
	}

	if err := requireLength("ATR", len(data), period); err != nil {
		return nil, err
	}

	return rollingMean(TrueRange(data), period), nil
}
