// Package risk derives stop loss, take profit and position size from an entry price.
package risk

import (
	"fmt"
	"strings"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config holds the risk settings. Percentages are in percent, so 1.0 means 1%.
type Config struct {
	RiskPercent     float64 `yaml:"risk_percent" json:"risk_percent" default:"1.0" validate:"gt=0,lte=100"`
	RiskRewardRatio float64 `yaml:"risk_reward_ratio" json:"risk_reward_ratio" default:"2.0" validate:"gt=0"`
	MaxRiskPercent  float64 `yaml:"max_risk_percent" json:"max_risk_percent" default:"2.0" validate:"gt=0,lte=100"`
	// PipValue is the price move of one pip. 0.1 for gold.
	PipValue       float64 `yaml:"pip_value" json:"pip_value" default:"0.1" validate:"gt=0"`
	AccountBalance float64 `yaml:"account_balance" json:"account_balance" default:"10000" validate:"gt=0"`
}

// DefaultConfig mirrors the struct tag defaults.
func DefaultConfig() Config {
	return Config{
		RiskPercent:     1.0,
		RiskRewardRatio: 2.0,
		MaxRiskPercent:  2.0,
		PipValue:        0.1,
		AccountBalance:  10000,
	}
}

// Metrics is the full risk picture of one prospective trade.
type Metrics struct {
	EntryPrice      float64            `json:"entry_price"`
	StopLoss        float64            `json:"stop_loss"`
	TakeProfit      float64            `json:"take_profit"`
	PositionType    types.PositionType `json:"position_type"`
	RiskPercent     float64            `json:"risk_percent"`
	RiskAmount      float64            `json:"risk_amount"`
	RiskRewardRatio float64            `json:"risk_reward_ratio"`
	PositionSize    float64            `json:"position_size"`
	PipsAtRisk      float64            `json:"pips_at_risk"`
	TargetPips      float64            `json:"target_pips"`
	PotentialProfit float64            `json:"potential_profit"`
	AccountBalance  float64            `json:"account_balance"`
}

// Request overrides the configured defaults for one calculation. Zero fields use the config.
type Request struct {
	EntryPrice      float64
	PositionType    types.PositionType
	AccountBalance  float64
	RiskPercent     float64
	RiskRewardRatio float64
}

type Calculator struct {
	cfg    Config
	logger *logger.Logger
}

func NewCalculator(cfg Config, log *logger.Logger) *Calculator {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Calculator{cfg: cfg, logger: log}
}

// Config returns the calculator settings.
func (c *Calculator) Config() Config {
	return c.cfg
}

// capRisk limits riskPercent to the configured maximum.
func (c *Calculator) capRisk(riskPercent float64) float64 {
	if riskPercent > c.cfg.MaxRiskPercent {
		c.logger.Warn("Risk percent exceeds maximum, using maximum",
			zap.Float64("risk_percent", riskPercent),
			zap.Float64("max_risk_percent", c.cfg.MaxRiskPercent),
		)

		return c.cfg.MaxRiskPercent
	}

	return riskPercent
}

// StopLoss is entry*(1-risk%) for LONG and entry*(1+risk%) for SHORT, with the
// risk capped at the configured maximum.
func (c *Calculator) StopLoss(entry, riskPercent float64, positionType types.PositionType) float64 {
	fraction := decimal.NewFromFloat(c.capRisk(riskPercent)).Div(decimal.NewFromInt(100))
	entryDec := decimal.NewFromFloat(entry)

	if positionType == types.PositionTypeShort {
		return entryDec.Mul(decimal.NewFromInt(1).Add(fraction)).InexactFloat64()
	}

	return entryDec.Mul(decimal.NewFromInt(1).Sub(fraction)).InexactFloat64()
}

// TakeProfit places the target riskRewardRatio times the stop distance away from entry.
func TakeProfit(entry, stopLoss, riskRewardRatio float64, positionType types.PositionType) float64 {
	entryDec := decimal.NewFromFloat(entry)
	reward := entryDec.Sub(decimal.NewFromFloat(stopLoss)).Abs().Mul(decimal.NewFromFloat(riskRewardRatio))

	if positionType == types.PositionTypeShort {
		return entryDec.Sub(reward).InexactFloat64()
	}

	return entryDec.Add(reward).InexactFloat64()
}

// PositionSize is riskAmount divided by the pips at risk, rounded to 2 decimals.
// It is 0 when the stop equals the entry.
func PositionSize(riskAmount, entry, stopLoss, pipValue float64) float64 {
	pips := pipsBetween(entry, stopLoss, pipValue)
	if pips.IsZero() {
		return 0
	}

	return decimal.NewFromFloat(riskAmount).Div(pips).Round(2).InexactFloat64()
}

func pipsBetween(a, b, pipValue float64) decimal.Decimal {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs().Div(decimal.NewFromFloat(pipValue))
}

// Calculate computes metrics with the configured defaults.
func (c *Calculator) Calculate(entry float64, positionType types.PositionType) (Metrics, error) {
	return c.CalculateWith(Request{EntryPrice: entry, PositionType: positionType})
}

// CalculateWith computes metrics for req.
func (c *Calculator) CalculateWith(req Request) (Metrics, error) {
	if req.EntryPrice <= 0 {
		return Metrics{}, errors.Newf(errors.ErrCodeInvalidParameter, "entry price must be positive, got %g", req.EntryPrice)
	}

	if req.PositionType != types.PositionTypeLong && req.PositionType != types.PositionTypeShort {
		return Metrics{}, errors.Newf(errors.ErrCodeInvalidParameter, "invalid position type %q", req.PositionType)
	}

	balance := orDefault(req.AccountBalance, c.cfg.AccountBalance)
	riskPercent := c.capRisk(orDefault(req.RiskPercent, c.cfg.RiskPercent))
	ratio := orDefault(req.RiskRewardRatio, c.cfg.RiskRewardRatio)

	stopLoss := c.StopLoss(req.EntryPrice, riskPercent, req.PositionType)
	takeProfit := TakeProfit(req.EntryPrice, stopLoss, ratio, req.PositionType)
	riskAmount := decimal.NewFromFloat(balance).Mul(decimal.NewFromFloat(riskPercent)).Div(decimal.NewFromInt(100))

	return Metrics{
		EntryPrice:      req.EntryPrice,
		StopLoss:        stopLoss,
		TakeProfit:      takeProfit,
		PositionType:    req.PositionType,
		RiskPercent:     riskPercent,
		RiskAmount:      riskAmount.InexactFloat64(),
		RiskRewardRatio: ratio,
		PositionSize:    PositionSize(riskAmount.InexactFloat64(), req.EntryPrice, stopLoss, c.cfg.PipValue),
		PipsAtRisk:      pipsBetween(req.EntryPrice, stopLoss, c.cfg.PipValue).InexactFloat64(),
		TargetPips:      pipsBetween(req.EntryPrice, takeProfit, c.cfg.PipValue).InexactFloat64(),
		PotentialProfit: riskAmount.Mul(decimal.NewFromFloat(ratio)).InexactFloat64(),
		AccountBalance:  balance,
	}, nil
}

// ForSignal maps BUY to LONG and SELL to SHORT metrics. HOLD returns ErrCodeNoSignal.
func (c *Calculator) ForSignal(signal types.SignalType, entry float64) (Metrics, error) {
	positionType, ok := types.PositionTypeFromSignal(signal)
	if !ok {
		return Metrics{}, errors.Newf(errors.ErrCodeNoSignal, "no position for signal %s", signal)
	}

	return c.Calculate(entry, positionType)
}

func orDefault(value, fallback float64) float64 {
	if value > 0 {
		return value
	}

	return fallback
}

// FormatReport renders metrics as a plain text message.
func FormatReport(m Metrics) string {
	var b strings.Builder

	b.WriteString("📊 Risk Management Report:\n")
	fmt.Fprintf(&b, "🔹 Position: %s\n", m.PositionType)
	fmt.Fprintf(&b, "🔹 Entry Price: %.2f\n", m.EntryPrice)
	fmt.Fprintf(&b, "🛑 Stop Loss: %.2f\n", m.StopLoss)
	fmt.Fprintf(&b, "🎯 Take Profit: %.2f\n", m.TakeProfit)
	fmt.Fprintf(&b, "📈 Risk/Reward: 1:%g\n\n", m.RiskRewardRatio)
	fmt.Fprintf(&b, "💰 Account: $%.2f\n", m.AccountBalance)
	fmt.Fprintf(&b, "⚠️ Risk: %.2f%% ($%.2f)\n", m.RiskPercent, m.RiskAmount)
	fmt.Fprintf(&b, "💵 Position Size: %.2f lots\n", m.PositionSize)
	fmt.Fprintf(&b, "📏 Pips at Risk: %.1f\n", m.PipsAtRisk)
	fmt.Fprintf(&b, "📏 Target Pips: %.1f\n", m.TargetPips)
	fmt.Fprintf(&b, "💸 Potential Profit: $%.2f\n", m.PotentialProfit)

	return b.String()
}
