package indicator

import (
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

// barsFromCloses builds bars whose open is the previous close and whose
// high/low extend spread above/below the body.
func barsFromCloses(closes []float64, spread float64) []types.MarketData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.MarketData, len(closes))

	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		high := max(open, c) + spread
		low := min(open, c) - spread

		bars[i] = types.MarketData{
			Symbol: "XAUUSD",
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  c,
		}
	}

	return bars
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}

	return out
}
