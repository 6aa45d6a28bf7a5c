package main

import (
	"fmt"
	"strings"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/backtest"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	profitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderMoney(value float64) string {
	text := fmt.Sprintf("%+.2f", value)

	switch {
	case value > 0:
		return profitStyle.Render(text)
	case value < 0:
		return lossStyle.Render(text)
	default:
		return text
	}
}

// renderResult prints the balance, the signal counts and the trade statistics of a run.
func renderResult(result backtest.Result) string {
	stats := result.Stats
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Backtest %s", result.Symbol)),
		fmt.Sprintf("Period: %s - %s (%d bars)",
			result.StartTime.Format("2006-01-02 15:04"), result.EndTime.Format("2006-01-02 15:04"), result.Bars),
		fmt.Sprintf("Balance: %.2f -> %.2f (%s%%)",
			result.InitialBalance, result.FinalBalance, renderMoney(result.ReturnPercent)),
		fmt.Sprintf("Signals: BUY %d  SELL %d  HOLD %d",
			result.Signals[types.SignalTypeBuy], result.Signals[types.SignalTypeSell], result.Signals[types.SignalTypeHold]),
		fmt.Sprintf("Trades: %d  Wins: %d  Losses: %d  Winrate: %.1f%%",
			stats.TotalTrades, stats.WinningTrades, stats.LosingTrades, stats.Winrate),
		fmt.Sprintf("PnL: %s  Profit factor: %s  Max drawdown: %.2f",
			renderMoney(stats.TotalPnL), types.FormatProfitFactor(stats.ProfitFactor), stats.MaxDrawdown),
		fmt.Sprintf("Largest win: %.2f  Largest loss: %.2f  Streaks: %dW / %dL",
			stats.LargestWin, stats.LargestLoss, stats.ConsecutiveWins, stats.ConsecutiveLosses),
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
