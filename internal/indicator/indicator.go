// Package indicator computes technical indicator series from OHLC bars.
//
// Every function returns a series aligned with its input. Positions that do not
// have enough history yet hold NaN. When the input is too short to produce even a
// single defined value the function returns an *errors.InsufficientDataError,
// which callers treat as "not enough data" rather than as a failure.
package indicator

import (
	"math"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// Closes extracts the close prices of the bars.
func Closes(data []types.MarketData) []float64 {
	out := make([]float64, len(data))
	for i, bar := range data {
		out[i] = bar.Close
	}

	return out
}

// Highs extracts the high prices of the bars.
func Highs(data []types.MarketData) []float64 {
	out := make([]float64, len(data))
	for i, bar := range data {
		out[i] = bar.High
	}

	return out
}

// Lows extracts the low prices of the bars.
func Lows(data []types.MarketData) []float64 {
	out := make([]float64, len(data))
	for i, bar := range data {
		out[i] = bar.Low
	}

	return out
}

// Last returns the last value of the series and whether it is defined.
func Last(series []float64) (float64, bool) {
	if len(series) == 0 {
		return math.NaN(), false
	}

	v := series[len(series)-1]

	return v, !math.IsNaN(v)
}

// LastTwo returns the previous and current values of the series.
// ok is false when the series is shorter than two or either value is NaN.
func LastTwo(series []float64) (prev float64, cur float64, ok bool) {
	if len(series) < 2 {
		return math.NaN(), math.NaN(), false
	}

	prev = series[len(series)-2]
	cur = series[len(series)-1]

	return prev, cur, !math.IsNaN(prev) && !math.IsNaN(cur)
}

func newSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

func validatePeriod(name string, period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "%s period must be a positive integer, got %d", name, period)
	}

	return nil
}

func requireLength(name string, actual, required int) error {
	if actual < required {
		return errors.NewInsufficientDataErrorf(required, actual, "", "insufficient data for %s: required %d, got %d", name, required, actual)
	}

	return nil
}

// rollingMean is the trailing mean over n values. A window holding a NaN yields NaN.
func rollingMean(values []float64, n int) []float64 {
	out := newSeries(len(values))

	for i := n - 1; i < len(values); i++ {
		sum := 0.0
		valid := true

		for j := i - n + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				valid = false

				break
			}

			sum += values[j]
		}

		if valid {
			out[i] = sum / float64(n)
		}
	}

	return out
}

// rollingStd is the trailing sample standard deviation (n-1 denominator) over n values.
func rollingStd(values []float64, n int) []float64 {
	out := newSeries(len(values))
	if n < 2 {
		return out
	}

	means := rollingMean(values, n)

	for i := n - 1; i < len(values); i++ {
		if math.IsNaN(means[i]) {
			continue
		}

		sq := 0.0
		for j := i - n + 1; j <= i; j++ {
			d := values[j] - means[i]
			sq += d * d
		}

		out[i] = math.Sqrt(sq / float64(n-1))
	}

	return out
}

func rollingMax(values []float64, n int) []float64 {
	out := newSeries(len(values))

	for i := n - 1; i < len(values); i++ {
		m := math.Inf(-1)
		for j := i - n + 1; j <= i; j++ {
			m = math.Max(m, values[j])
		}

		out[i] = m
	}

	return out
}

func rollingMin(values []float64, n int) []float64 {
	out := newSeries(len(values))

	for i := n - 1; i < len(values); i++ {
		m := math.Inf(1)
		for j := i - n + 1; j <= i; j++ {
			m = math.Min(m, values[j])
		}

		out[i] = m
	}

	return out
}

// shift moves the series forward by k positions (k > 0), padding with NaN.
func shift(values []float64, k int) []float64 {
	out := newSeries(len(values))

	for i := k; i < len(values); i++ {
		out[i] = values[i-k]
	}

	return out
}
