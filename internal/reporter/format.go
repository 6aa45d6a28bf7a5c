package reporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

const (
	reportWeeks  = 4
	reportMonths = 3
)

// WinrateMarker grades a winrate in percent.
func WinrateMarker(winrate float64) string {
	switch {
	case winrate >= 70:
		return "🔥"
	case winrate >= 50:
		return "✅"
	case winrate > 0:
		return "⚠️"
	default:
		return "❌"
	}
}

// PnLMarker marks profit, loss or flat.
func PnLMarker(pnl float64) string {
	switch {
	case pnl > 0:
		return "💰"
	case pnl < 0:
		return "📉"
	default:
		return "⚖️"
	}
}

// TrendMarker compares a period winrate with the previous period.
func TrendMarker(current, previous float64) string {
	switch {
	case current > previous:
		return "📈"
	case current < previous:
		return "📉"
	default:
		return "➡️"
	}
}

// trend returns the marker against the next (older) period, or "" for the oldest.
func trend(periods []types.PeriodStats, i int) string {
	if i+1 >= len(periods) {
		return ""
	}

	return " " + TrendMarker(periods[i].Winrate, periods[i+1].Winrate)
}

func FormatDailySummary(summary types.DailySummary, at time.Time) string {
	stats := summary.Stats

	var b strings.Builder

	b.WriteString("📊 Daily Trading Summary\n")
	fmt.Fprintf(&b, "🗓️ Date: %s\n\n", summary.Date)
	fmt.Fprintf(&b, "🔢 Total trades: %d\n", stats.TotalTrades)
	fmt.Fprintf(&b, "%s Winrate: %.1f%%\n", WinrateMarker(stats.Winrate), stats.Winrate)
	fmt.Fprintf(&b, "%s Total PnL: %.2f\n", PnLMarker(stats.TotalPnL), stats.TotalPnL)
	fmt.Fprintf(&b, "🔓 Active trades: %d\n", summary.ActiveTrades)

	if stats.TotalTrades > 0 {
		fmt.Fprintf(&b, "\n🏆 Winning trades: %d\n", stats.WinningTrades)
		fmt.Fprintf(&b, "❌ Losing trades: %d\n", stats.LosingTrades)
		fmt.Fprintf(&b, "📊 Average win: %.2f\n", stats.AvgWin)
		fmt.Fprintf(&b, "📉 Average loss: %.2f\n", stats.AvgLoss)
		fmt.Fprintf(&b, "🎯 Largest win: %.2f\n", stats.LargestWin)
		fmt.Fprintf(&b, "⚡ Largest loss: %.2f\n", stats.LargestLoss)
	}

	fmt.Fprintf(&b, "\n⏰ Reported at: %s", at.Format("15:04:05"))

	return b.String()
}

// FormatWeeklyReport renders up to four weeks, most recent first.
func FormatWeeklyReport(weeks []types.PeriodStats, at time.Time) string {
	if len(weeks) > reportWeeks {
		weeks = weeks[:reportWeeks]
	}

	var b strings.Builder

	b.WriteString("📅 Weekly Trading Report\n")
	fmt.Fprintf(&b, "🕐 Generated: %s\n", at.Format("02/01/2006 15:04"))

	for i, week := range weeks {
		fmt.Fprintf(&b, "\n%s Week %d%s\n", WinrateMarker(week.Winrate), i+1, trend(weeks, i))
		fmt.Fprintf(&b, "📊 Trades: %d | Winrate: %.1f%%\n", week.TotalTrades, week.Winrate)
		fmt.Fprintf(&b, "💰 PnL: %.2f | PF: %s\n", week.TotalPnL, types.FormatProfitFactor(week.ProfitFactor))
		fmt.Fprintf(&b, "🏆 Wins: %d | ❌ Losses: %d\n", week.WinningTrades, week.LosingTrades)
	}

	return strings.TrimSpace(b.String())
}

// FormatMonthlyReport renders up to three months, most recent first.
func FormatMonthlyReport(months []types.PeriodStats, at time.Time) string {
	if len(months) > reportMonths {
		months = months[:reportMonths]
	}

	var b strings.Builder

	b.WriteString("📆 Monthly Trading Report\n")
	fmt.Fprintf(&b, "🕐 Generated: %s\n", at.Format("02/01/2006 15:04"))

	for i, month := range months {
		fmt.Fprintf(&b, "\n%s %s%s\n", WinrateMarker(month.Winrate), month.Period, trend(months, i))
		fmt.Fprintf(&b, "📊 Total trades: %d\n", month.TotalTrades)
		fmt.Fprintf(&b, "🎯 Winrate: %.1f%%\n", month.Winrate)
		fmt.Fprintf(&b, "💰 Total PnL: %.2f\n", month.TotalPnL)
		fmt.Fprintf(&b, "📈 Profit Factor: %s\n", types.FormatProfitFactor(month.ProfitFactor))
		fmt.Fprintf(&b, "📉 Max Drawdown: %.2f\n", month.MaxDrawdown)
		fmt.Fprintf(&b, "🏆 Wins: %d | ❌ Losses: %d\n", month.WinningTrades, month.LosingTrades)
		fmt.Fprintf(&b, "💎 Average win: %.2f\n", month.AvgWin)
		fmt.Fprintf(&b, "⚡ Average loss: %.2f\n", month.AvgLoss)
		fmt.Fprintf(&b, "🔥 Longest win streak: %d\n", month.ConsecutiveWins)
		fmt.Fprintf(&b, "❄️ Longest loss streak: %d\n", month.ConsecutiveLosses)
	}

	return strings.TrimSpace(b.String())
}

func FormatTradeOpened(trade types.TradeRecord, at time.Time) string {
	marker := "🔴"
	if trade.PositionType == types.PositionTypeLong {
		marker = "🟢"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s New trade opened\n\n", marker)
	fmt.Fprintf(&b, "🆔 Trade ID: %s\n", trade.TradeID)
	fmt.Fprintf(&b, "💹 Symbol: %s\n", trade.Symbol)
	fmt.Fprintf(&b, "📍 Position: %s\n", trade.PositionType)
	fmt.Fprintf(&b, "💰 Entry Price: %.2f\n", trade.EntryPrice)
	fmt.Fprintf(&b, "📊 Size: %g\n", trade.PositionSize)
	fmt.Fprintf(&b, "🎯 Strategy: %s\n", trade.StrategyName)
	fmt.Fprintf(&b, "⏰ Time: %s", at.Format("02/01/2006 15:04:05"))

	if trade.StopLoss.IsSome() {
		fmt.Fprintf(&b, "\n🛑 Stop Loss: %.2f", trade.StopLoss.Unwrap())
	}

	if trade.TakeProfit.IsSome() {
		fmt.Fprintf(&b, "\n🎯 Take Profit: %.2f", trade.TakeProfit.Unwrap())
	}

	return b.String()
}

func FormatTradeClosed(trade types.TradeRecord, reason string, at time.Time) string {
	pnl := trade.PnLValue()

	marker, pnlMarker := "❌", "📉"
	if pnl > 0 {
		marker, pnlMarker = "✅", "💰"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s Trade closed\n\n", marker)
	fmt.Fprintf(&b, "🆔 Trade ID: %s\n", trade.TradeID)
	fmt.Fprintf(&b, "💰 Exit Price: %.2f\n", trade.ExitPrice.TakeOr(0))
	fmt.Fprintf(&b, "%s PnL: %.2f (%.2f%%)\n", pnlMarker, pnl, trade.PnLPercentage.TakeOr(0))
	fmt.Fprintf(&b, "📝 Reason: %s\n", reason)
	fmt.Fprintf(&b, "⏰ Time: %s", at.Format("02/01/2006 15:04:05"))

	return b.String()
}
