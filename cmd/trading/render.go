package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/trading"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	buyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	sellStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderSignal(signal types.SignalType) string {
	switch signal {
	case types.SignalTypeBuy:
		return buyStyle.Render(string(signal))
	case types.SignalTypeSell:
		return sellStyle.Render(string(signal))
	default:
		return faintStyle.Render(string(signal))
	}
}

// renderAnalysis prints the combined signal with its breakdown and risk levels.
func renderAnalysis(analysis trading.Analysis) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s @ %.2f", analysis.Symbol, analysis.CurrentPrice)))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  price: %s, bars: %s (%d)", analysis.PriceSource, analysis.BarSource, analysis.Bars)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Signal: %s  Confidence: %.0f%%  Method: %s\n",
		renderSignal(analysis.Signal), analysis.Confidence()*100, analysis.Result.Method)

	for _, name := range analysis.Result.Order {
		signal := analysis.Result.IndividualSignals[name]
		fmt.Fprintf(&b, "  %-22s %-6s %s\n", name, signal.Type, faintStyle.Render(signal.Reason))
	}

	if analysis.Risk.IsSome() {
		metrics := analysis.Risk.Unwrap()
		fmt.Fprintf(&b, "SL: %.2f  TP: %.2f  Size: %.2f lots  Risk: $%.2f\n",
			metrics.StopLoss, metrics.TakeProfit, metrics.PositionSize, metrics.RiskAmount)
	}

	if analysis.EntryBlocked {
		b.WriteString(faintStyle.Render("Entry blocked: " + analysis.EntryReason))
		b.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderSession prints the end-of-session summary.
func renderSession(result trading.SessionResult) string {
	lines := []string{
		titleStyle.Render("Session finished"),
		fmt.Sprintf("Duration: %s", result.EndedAt.Sub(result.StartedAt).Round(time.Second)),
		fmt.Sprintf("Rounds: %d  Errors: %d", result.Rounds, result.Errors),
		fmt.Sprintf("Signals: BUY %d  SELL %d  HOLD %d",
			result.Signals[types.SignalTypeBuy], result.Signals[types.SignalTypeSell], result.Signals[types.SignalTypeHold]),
		fmt.Sprintf("Trades opened: %d  closed: %d", len(result.TradesOpened), len(result.TradesClosed)),
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
