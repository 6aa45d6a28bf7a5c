package indicator

import (
	"math"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

// ADXSeries holds the directional indicators and the average directional index.
type ADXSeries struct {
	PlusDI  []float64
	MinusDI []float64
	ADX     []float64
}

// ADX returns +DI, -DI and ADX over period.
// Directional movement and true range are smoothed with rolling means, and ADX is
// the rolling mean of DX, so the first ADX value needs 2*period bars.
func ADX(data []types.MarketData, period int) (ADXSeries, error) {
	if err := validatePeriod("ADX", period); err != nil {
		return ADXSeries{}, err
	}

	if err := requireLength("ADX", len(data), 2*period); err != nil {
		return ADXSeries{}, err
	}

	n := len(data)
	plusDM := newSeries(n)
	minusDM := newSeries(n)

	for i := 1; i < n; i++ {
		up := data[i].High - data[i-1].High
		down := data[i-1].Low - data[i].Low

		plusDM[i] = 0
		minusDM[i] = 0

		if up > down && up > 0 {
			plusDM[i] = up
		}

		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	atr := rollingMean(TrueRange(data), period)
	plusMean := rollingMean(plusDM, period)
	minusMean := rollingMean(minusDM, period)

	plusDI := newSeries(n)
	minusDI := newSeries(n)
	dx := newSeries(n)

	for i := 0; i < n; i++ {
		if math.IsNaN(atr[i]) || math.IsNaN(plusMean[i]) || math.IsNaN(minusMean[i]) {
			continue
		}

		if atr[i] == 0 {
			plusDI[i], minusDI[i], dx[i] = 0, 0, 0

			continue
		}

		plusDI[i] = 100 * plusMean[i] / atr[i]
		minusDI[i] = 100 * minusMean[i] / atr[i]

		sum := plusDI[i] + minusDI[i]
		if sum == 0 {
			dx[i] = 0

			continue
		}

		dx[i] = math.Abs(plusDI[i]-minusDI[i]) / sum * 100
	}

	return ADXSeries{PlusDI: plusDI, MinusDI: minusDI, ADX: rollingMean(dx, period)}, nil
}
