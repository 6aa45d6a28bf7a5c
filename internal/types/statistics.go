package types

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PeriodStats aggregates the CLOSED trades of one period.
// It is derived from the trade ledger on demand and never used as a source of truth.
type PeriodStats struct {
	// Period is a human readable label such as "January 2024".
	Period    string    `yaml:"period" json:"period"`
	StartDate time.Time `yaml:"start_date" json:"start_date"`
	EndDate   time.Time `yaml:"end_date" json:"end_date"`
	// Count of all closed trades in the period.
	TotalTrades int `yaml:"total_trades" json:"total_trades"`
	// Count of trades with strictly positive pnl.
	WinningTrades int `yaml:"winning_trades" json:"winning_trades"`
	// Count of trades with strictly negative pnl.
	LosingTrades int `yaml:"losing_trades" json:"losing_trades"`
	// Winrate in percent. 0 when there are no trades.
	Winrate  float64 `yaml:"winrate" json:"winrate"`
	TotalPnL float64 `yaml:"total_pnl" json:"total_pnl"`
	AvgWin   float64 `yaml:"avg_win" json:"avg_win"`
	AvgLoss  float64 `yaml:"avg_loss" json:"avg_loss"`
	// Gross profit over gross loss magnitude. +Inf when there are winners and no losers.
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	// Largest peak to trough decline of cumulative pnl.
	MaxDrawdown       float64 `yaml:"max_drawdown" json:"max_drawdown"`
	LargestWin        float64 `yaml:"largest_win" json:"largest_win"`
	LargestLoss       float64 `yaml:"largest_loss" json:"largest_loss"`
	ConsecutiveWins   int     `yaml:"consecutive_wins" json:"consecutive_wins"`
	ConsecutiveLosses int     `yaml:"consecutive_losses" json:"consecutive_losses"`
}

// profitFactorInfinity is how an unbounded profit factor is written to JSON.
const profitFactorInfinity = "Infinity"

type periodStatsJSON PeriodStats

// FormatProfitFactor renders a profit factor with two decimals, or "∞" when unbounded.
func FormatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞"
	}

	return fmt.Sprintf("%.2f", pf)
}

// MarshalJSON encodes an infinite profit factor as the string "Infinity",
// since encoding/json rejects non-finite floats.
func (p PeriodStats) MarshalJSON() ([]byte, error) {
	if !math.IsInf(p.ProfitFactor, 0) && !math.IsNaN(p.ProfitFactor) {
		return json.Marshal(periodStatsJSON(p))
	}

	finite := p
	finite.ProfitFactor = 0

	return json.Marshal(struct {
		periodStatsJSON
		ProfitFactor string `json:"profit_factor"`
	}{
		periodStatsJSON: periodStatsJSON(finite),
		ProfitFactor:    profitFactorInfinity,
	})
}

// UnmarshalJSON accepts the "Infinity" profit factor written by MarshalJSON.
func (p *PeriodStats) UnmarshalJSON(data []byte) error {
	var raw struct {
		periodStatsJSON
		ProfitFactor json.RawMessage `json:"profit_factor"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = PeriodStats(raw.periodStatsJSON)

	if len(raw.ProfitFactor) == 0 || string(raw.ProfitFactor) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(raw.ProfitFactor, &text); err == nil {
		if text == profitFactorInfinity {
			p.ProfitFactor = math.Inf(1)

			return nil
		}

		return fmt.Errorf("invalid profit_factor %q", text)
	}

	return json.Unmarshal(raw.ProfitFactor, &p.ProfitFactor)
}

// DailySummary is the stats of trades entered today plus the number of still-open trades.
type DailySummary struct {
	Date         string      `yaml:"date" json:"date"`
	Stats        PeriodStats `yaml:"stats" json:"stats"`
	ActiveTrades int         `yaml:"active_trades" json:"active_trades"`
}

// WriteStatsYAML writes any stats value to a yaml file.
func WriteStatsYAML(path string, stats any) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}

	return nil
}
