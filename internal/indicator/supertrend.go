package indicator

import (
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// SuperTrendSeries holds the SuperTrend line and its direction (+1 up, -1 down).
type SuperTrendSeries struct {
	Line      []float64
	Upper     []float64
	Lower     []float64
	Direction []float64
}

// SuperTrend computes the SuperTrend line from hl2 ± multiplier·ATR(period).
// The final bands only tighten while the close stays inside them; the line
// follows the upper band in a downtrend and the lower band in an uptrend.
func SuperTrend(data []types.MarketData, period int, multiplier float64) (SuperTrendSeries, error) {
	if err := validatePeriod("SuperTrend", period); err != nil {
		return SuperTrendSeries{}, err
	}

	if multiplier <= 0 {
		return SuperTrendSeries{}, errors.Newf(errors.ErrCodeInvalidMultiplier, "SuperTrend multiplier must be positive, got %v", multiplier)
	}

	atr, err := ATR(data, period)
	if err != nil {
		return SuperTrendSeries{}, err
	}

	n := len(data)
	upper := newSeries(n)
	lower := newSeries(n)
	line := newSeries(n)
	direction := newSeries(n)

	start := period - 1

	for i := start; i < n; i++ {
		hl2 := (data[i].High + data[i].Low) / 2
		basicUpper := hl2 + multiplier*atr[i]
		basicLower := hl2 - multiplier*atr[i]

		if i == start {
			upper[i], lower[i] = basicUpper, basicLower
			line[i], direction[i] = basicUpper, -1

			continue
		}

		prevClose := data[i-1].Close

		upper[i] = upper[i-1]
		if basicUpper < upper[i-1] || prevClose > upper[i-1] {
			upper[i] = basicUpper
		}

		lower[i] = lower[i-1]
		if basicLower > lower[i-1] || prevClose < lower[i-1] {
			lower[i] = basicLower
		}

		price := data[i].Close

		if direction[i-1] < 0 {
			if price > upper[i] {
				line[i], direction[i] = lower[i], 1
			} else {
				line[i], direction[i] = upper[i], -1
			}
		} else {
			if price < lower[i] {
				line[i], direction[i] = upper[i], -1
			} else {
				line[i], direction[i] = lower[i], 1
			}
		}
	}

	return SuperTrendSeries{Line: line, Upper: upper, Lower: lower, Direction: direction}, nil
}
