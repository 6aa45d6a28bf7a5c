package indicator

import "github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"

// DonchianSeries holds the rolling high, rolling low and their midpoint.
type DonchianSeries struct {
	Upper  []float64
	Lower  []float64
	Middle []float64
}

// Donchian returns the highest high and lowest low over period, including the current bar.
func Donchian(data []types.MarketData, period int) (DonchianSeries, error) {
	if err := validatePeriod("Donchian", period); err != nil {
		return DonchianSeries{}, err
	}

	if err := requireLength("Donchian", len(data), period); err != nil {
		return DonchianSeries{}, err
	}

	upper := rollingMax(Highs(data), period)
	lower := rollingMin(Lows(data), period)
	middle := make([]float64, len(data))

	for i := range data {
		middle[i] = (upper[i] + lower[i]) / 2
	}

	return DonchianSeries{Upper: upper, Lower: lower, Middle: middle}, nil
}
