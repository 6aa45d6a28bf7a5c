package strategy

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

const entryFilterWindow = 20

// IsGoodBuyEntry reports whether price is a reasonable long entry: below the
// 20 bar SMA with the last candle closing green. The returned string explains the decision.
func IsGoodBuyEntry(data []types.MarketData, price float64) (bool, string) {
	sma, err := indicator.SMA(indicator.Closes(data), entryFilterWindow)
	if err != nil {
		return false, fmt.Sprintf("need at least %d bars, got %d", entryFilterWindow, len(data))
	}

	average, ok := indicator.Last(sma)
	if !ok {
		return false, "SMA20 unavailable"
	}

	if price >= average {
		return false, fmt.Sprintf("price %.2f is not below SMA20 %.2f", price, average)
	}

	if !data[len(data)-1].IsBullish() {
		return false, "last candle is not green"
	}

	return true, fmt.Sprintf("price %.2f below SMA20 %.2f with a green candle", price, average)
}
