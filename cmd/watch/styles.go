package main

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	BuyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	SellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	HoldStyle = lipgloss.NewStyle().Faint(true)
)

// FormatPriceWithColor formats a price with indicator based on comparison with previous price.
func FormatPriceWithColor(current, previous float64) string {
	priceStr := fmt.Sprintf("%.2f", current)

	if previous == 0 {
		return priceStr
	}

	if current > previous {
		return priceStr + " ▲"
	} else if current < previous {
		return priceStr + " ▼"
	}

	return priceStr
}

// RenderSignal colours a signal by its direction.
func RenderSignal(signal types.SignalType) string {
	switch signal {
	case types.SignalTypeBuy:
		return BuyStyle.Render(string(signal))
	case types.SignalTypeSell:
		return SellStyle.Render(string(signal))
	default:
		return HoldStyle.Render(string(signal))
	}
}
