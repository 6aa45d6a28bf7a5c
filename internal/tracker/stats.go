package tracker

import (
	"math"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/shopspring/decimal"
)

// CalculatePeriodStats aggregates trades into a PeriodStats labelled period.
// Trades are evaluated in entry time order on a copy; the input is not modified.
// Only the PnL of each trade is read, so callers pass CLOSED trades.
func CalculatePeriodStats(trades []types.TradeRecord, period string, start, end time.Time) types.PeriodStats {
	stats := types.PeriodStats{
		Period:    period,
		StartDate: start,
		EndDate:   end,
	}

	if len(trades) == 0 {
		return stats
	}

	ordered := sortedByEntry(trades)

	total := decimal.Zero
	grossWin := decimal.Zero
	grossLoss := decimal.Zero

	for i, trade := range ordered {
		pnl := trade.PnLValue()
		pnlDec := decimal.NewFromFloat(pnl)
		total = total.Add(pnlDec)

		switch {
		case pnl > 0:
			stats.WinningTrades++
			grossWin = grossWin.Add(pnlDec)
		case pnl < 0:
			stats.LosingTrades++
			grossLoss = grossLoss.Add(pnlDec)
		}

		if i == 0 || pnl > stats.LargestWin {
			stats.LargestWin = pnl
		}

		if i == 0 || pnl < stats.LargestLoss {
			stats.LargestLoss = pnl
		}
	}

	stats.TotalTrades = len(ordered)
	stats.Winrate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
	stats.TotalPnL = total.InexactFloat64()

	if stats.WinningTrades > 0 {
		stats.AvgWin = grossWin.Div(decimal.NewFromInt(int64(stats.WinningTrades))).InexactFloat64()
	}

	if stats.LosingTrades > 0 {
		stats.AvgLoss = grossLoss.Div(decimal.NewFromInt(int64(stats.LosingTrades))).InexactFloat64()
	}

	stats.ProfitFactor = profitFactor(grossWin, grossLoss)
	stats.MaxDrawdown = maxDrawdown(ordered)
	stats.ConsecutiveWins, stats.ConsecutiveLosses = streaks(ordered)

	return stats
}

// profitFactor is gross win over gross loss magnitude, +Inf without losses.
func profitFactor(grossWin, grossLoss decimal.Decimal) float64 {
	if grossLoss.IsZero() {
		return math.Inf(1)
	}

	return grossWin.Div(grossLoss.Abs()).InexactFloat64()
}

// maxDrawdown is the largest gap between the running peak of cumulative pnl and
// cumulative pnl. The peak starts at the first cumulative value.
func maxDrawdown(ordered []types.TradeRecord) float64 {
	cumulative := decimal.Zero
	peak := decimal.Zero
	worst := decimal.Zero

	for i, trade := range ordered {
		cumulative = cumulative.Add(decimal.NewFromFloat(trade.PnLValue()))

		if i == 0 || cumulative.GreaterThan(peak) {
			peak = cumulative
		}

		if dd := peak.Sub(cumulative); dd.GreaterThan(worst) {
			worst = dd
		}
	}

	return worst.InexactFloat64()
}

// streaks returns the longest runs of winning and losing trades.
// A zero pnl ends both runs.
func streaks(ordered []types.TradeRecord) (maxWins, maxLosses int) {
	wins, losses := 0, 0

	for _, trade := range ordered {
		pnl := trade.PnLValue()

		switch {
		case pnl > 0:
			wins++
			losses = 0
		case pnl < 0:
			losses++
			wins = 0
		default:
			wins, losses = 0, 0
		}

		maxWins = max(maxWins, wins)
		maxLosses = max(maxLosses, losses)
	}

	return maxWins, maxLosses
}
