package indicator

import "math"

// BollingerSeries holds the middle band (SMA) and the upper and lower bands.
type BollingerSeries struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// BollingerBands returns SMA(period) ± stdDev·σ, with σ the sample standard deviation.
func BollingerBands(values []float64, period int, stdDev float64) (BollingerSeries, error) {
	if err := validatePeriod("Bollinger Bands", period); err != nil {
		return BollingerSeries{}, err
	}

	if err := requireLength("Bollinger Bands", len(values), period); err != nil {
		return BollingerSeries{}, err
	}

	middle := rollingMean(values, period)
	std := rollingStd(values, period)
	upper := newSeries(len(values))
	lower := newSeries(len(values))

	for i := range values {
		if math.IsNaN(middle[i]) || math.IsNaN(std[i]) {
			continue
		}

		upper[i] = middle[i] + stdDev*std[i]
		lower[i] = middle[i] - stdDev*std[i]
	}

	return BollingerSeries{Upper: upper, Middle: middle, Lower: lower}, nil
}
