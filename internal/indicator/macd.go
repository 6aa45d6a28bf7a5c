package indicator

import "github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"

// MACDSeries holds the MACD line, its signal line and the histogram.
type MACDSeries struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD returns EMA(fast) - EMA(slow), its EMA(signal) and their difference.
// slow+signal bars are required before the result is considered stable.
func MACD(values []float64, fast, slow, signal int) (MACDSeries, error) {
	for name, period := range map[string]int{"MACD fast": fast, "MACD slow": slow, "MACD signal": signal} {
		if err := validatePeriod(name, period); err != nil {
			return MACDSeries{}, err
		}
	}

	if fast >= slow {
		return MACDSeries{}, errors.Newf(errors.ErrCodeInvalidPeriod, "MACD fast period (%d) must be less than slow period (%d)", fast, slow)
	}

	if err := requireLength("MACD", len(values), slow+signal); err != nil {
		return MACDSeries{}, err
	}

	fastEMA, err := EMA(values, fast)
	if err != nil {
		return MACDSeries{}, err
	}

	slowEMA, err := EMA(values, slow)
	if err != nil {
		return MACDSeries{}, err
	}

	line := make([]float64, len(values))
	for i := range values {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine, err := EMA(line, signal)
	if err != nil {
		return MACDSeries{}, err
	}

	histogram := make([]float64, len(values))
	for i := range values {
		histogram[i] = line[i] - signalLine[i]
	}

	return MACDSeries{Line: line, Signal: signalLine, Histogram: histogram}, nil
}
