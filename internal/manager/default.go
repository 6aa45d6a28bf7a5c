package manager

import (
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// DefaultStrategies is the basket used when no algorithms are configured.
func DefaultStrategies() []types.StrategyConfig {
	return []types.StrategyConfig{
		{Type: types.StrategyTypeMACrossover, Weight: 1.0, Params: map[string]float64{"short_window": 10, "long_window": 50}},
		{Type: types.StrategyTypeRSI, Weight: 1.2, Params: map[string]float64{"period": 14, "overbought": 70, "oversold": 30}},
		{Type: types.StrategyTypeBollingerBands, Weight: 1.0, Params: map[string]float64{"window": 20, "num_std": 2}},
		{Type: types.StrategyTypeMACD, Weight: 1.5, Params: map[string]float64{"fast": 12, "slow": 26, "signal": 9}},
	}
}

// NewFromConfig builds a manager holding one strategy per config entry.
func NewFromConfig(registry strategy.Registry, configs []types.StrategyConfig, log *logger.Logger) (*Manager, error) {
	m := NewManager(log)

	for _, config := range configs {
		s, err := registry.Create(config)
		if err != nil {
			return nil, err
		}

		if err := m.Add(s, config.Weight); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid weight for %s", config.Type)
		}
	}

	return m, nil
}

// NewDefaultManager builds the default MA/RSI/Bollinger/MACD basket.
func NewDefaultManager(log *logger.Logger) (*Manager, error) {
	return NewFromConfig(strategy.NewDefaultRegistry(), DefaultStrategies(), log)
}
