package main

import (
	"fmt"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/trading"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// NewSpinner creates the spinner shown while the first analysis runs.
func NewSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return s
}

// NewSignalTable creates a new table for the per-strategy breakdown.
func NewSignalTable() table.Model {
	columns := []table.Column{
		{Title: "Strategy", Width: 22},
		{Title: "Signal", Width: 8},
		{Title: "Close", Width: 12},
		{Title: "Reason", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateTableRows fills the table with one row per strategy, in registration order.
func UpdateTableRows(t table.Model, analysis trading.Analysis) table.Model {
	rows := make([]table.Row, 0, len(analysis.Result.Order))

	for _, name := range analysis.Result.Order {
		signal := analysis.Result.IndividualSignals[name]

		rows = append(rows, table.Row{
			name,
			string(signal.Type),
			fmt.Sprintf("%.2f", signal.Price),
			signal.Reason,
		})
	}

	t.SetRows(rows)

	return t
}

// RenderSummary renders the combined signal, the price and the risk levels.
func RenderSummary(analysis trading.Analysis, previousPrice float64) string {
	summary := fmt.Sprintf("Price: %s (%s)\nSignal: %s  Confidence: %.0f%%  Method: %s\n",
		FormatPriceWithColor(analysis.CurrentPrice, previousPrice),
		analysis.PriceSource,
		RenderSignal(analysis.Signal),
		analysis.Confidence()*100,
		analysis.Result.Method,
	)

	if analysis.Risk.IsSome() {
		metrics := analysis.Risk.Unwrap()
		summary += fmt.Sprintf("SL: %.2f  TP: %.2f  Size: %.2f lots\n", metrics.StopLoss, metrics.TakeProfit, metrics.PositionSize)
	}

	if analysis.EntryBlocked {
		summary += HelpStyle.Render("Entry blocked: "+analysis.EntryReason) + "\n"
	}

	return summary
}
