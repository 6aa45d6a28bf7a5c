package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/trading"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Application states.
const (
	StateLoading = iota
	StateDataDisplay
)

const analyzeTimeout = 30 * time.Second

// Analyzer runs one analysis round.
type Analyzer interface {
	Analyze(ctx context.Context) (trading.Analysis, error)
}

// Model is the main Bubble Tea model for the live signal dashboard.
type Model struct {
	state       int
	analyzer    Analyzer
	symbol      string
	interval    string
	refresh     time.Duration
	spinner     spinner.Model
	signalTable table.Model
	analysis    trading.Analysis
	prevPrice   float64
	rounds      int
	seq         int
	err         error
	width       int
	height      int
}

// NewModel creates a new Model with initial state.
func NewModel(analyzer Analyzer, symbol, interval string, refresh time.Duration) Model {
	return Model{
		state:       StateLoading,
		analyzer:    analyzer,
		symbol:      symbol,
		interval:    interval,
		refresh:     refresh,
		spinner:     NewSpinner(),
		signalTable: NewSignalTable(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.analyze())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.seq++
			return m, m.analyze()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.signalTable.SetWidth(msg.Width)
		m.signalTable.SetHeight(msg.Height - 10)
		return m, nil

	case AnalysisMsg:
		if m.rounds > 0 {
			m.prevPrice = m.analysis.CurrentPrice
		}
		m.analysis = msg.Analysis
		m.rounds++
		m.err = nil
		m.state = StateDataDisplay
		m.signalTable = UpdateTableRows(m.signalTable, msg.Analysis)
		return m, m.scheduleRefresh()

	case AnalysisErrorMsg:
		m.err = msg.Err
		return m, m.scheduleRefresh()

	case RefreshMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		return m, m.analyze()

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == StateDataDisplay {
		var cmd tea.Cmd
		m.signalTable, cmd = m.signalTable.Update(msg)
		return m, cmd
	}

	return m, nil
}

// analyze returns a command that runs one analysis round.
func (m Model) analyze() tea.Cmd {
	analyzer := m.analyzer

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		analysis, err := analyzer.Analyze(ctx)
		if err != nil {
			return AnalysisErrorMsg{Err: err}
		}

		return AnalysisMsg{Analysis: analysis}
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	seq := m.seq

	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return RefreshMsg{Seq: seq}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render(fmt.Sprintf("DekEA Signals - %s (%s)", m.symbol, m.interval)))
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	}

	switch m.state {
	case StateLoading:
		s.WriteString(m.spinner.View())
		s.WriteString(" Analyzing...\n")

	case StateDataDisplay:
		s.WriteString(RenderSummary(m.analysis, m.prevPrice))
		s.WriteString("\n")
		s.WriteString(m.signalTable.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render(fmt.Sprintf("Updated %s | round %d",
			m.analysis.AnalysisTime.Format("15:04:05"), m.rounds)))
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render(fmt.Sprintf("q: quit | r: refresh | every %s", m.refresh)))

	return s.String()
}
