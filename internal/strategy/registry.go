package strategy

import (
	"sort"
	"sync"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// Factory builds a strategy from its configuration.
type Factory func(config types.StrategyConfig) (Strategy, error)

// Registry maps strategy types to the factories that build them.
type Registry interface {
	Register(kind types.StrategyType, factory Factory) error
	Create(config types.StrategyConfig) (Strategy, error)
	List() []types.StrategyType
	Remove(kind types.StrategyType) error
}

// RegistryV1 is the default Registry implementation.
type RegistryV1 struct {
	factories map[types.StrategyType]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() Registry {
	return &RegistryV1{
		factories: make(map[types.StrategyType]Factory),
		mu:        sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry holding every indicator based strategy.
// Classifier strategies are added by the ml package.
func NewDefaultRegistry() Registry {
	r := NewRegistry()

	builtins := map[types.StrategyType]Factory{
		types.StrategyTypeMACrossover: func(c types.StrategyConfig) (Strategy, error) {
			return NewMACrossover(ParamInt(c, "short_window", 10), ParamInt(c, "long_window", 50))
		},
		types.StrategyTypeRSI: func(c types.StrategyConfig) (Strategy, error) {
			return NewRSIStrategy(ParamInt(c, "period", 14), ParamFloat(c, "overbought", 70), ParamFloat(c, "oversold", 30))
		},
		types.StrategyTypeBollingerBands: func(c types.StrategyConfig) (Strategy, error) {
			return NewBollingerBandsStrategy(ParamInt(c, "window", 20), ParamFloat(c, "num_std", 2.0))
		},
		types.StrategyTypeMACD: func(c types.StrategyConfig) (Strategy, error) {
			return NewMACDStrategy(ParamInt(c, "fast", 12), ParamInt(c, "slow", 26), ParamInt(c, "signal", 9))
		},
		types.StrategyTypeSuperTrend: func(c types.StrategyConfig) (Strategy, error) {
			return NewSuperTrendStrategy(ParamInt(c, "period", 10), ParamFloat(c, "multiplier", 3.0))
		},
		types.StrategyTypeDonchian: func(c types.StrategyConfig) (Strategy, error) {
			return NewDonchianStrategy(ParamInt(c, "window", 20))
		},
		types.StrategyTypeADX: func(c types.StrategyConfig) (Strategy, error) {
			return NewADXStrategy(ParamInt(c, "period", 14), ParamFloat(c, "threshold", 25))
		},
		types.StrategyTypeHeikinAshi: func(types.StrategyConfig) (Strategy, error) {
			return NewHeikinAshiStrategy(), nil
		},
		types.StrategyTypeIchimoku: func(c types.StrategyConfig) (Strategy, error) {
			defaults := indicator.DefaultIchimokuConfig()

			return NewIchimokuStrategy(indicator.IchimokuConfig{
				Tenkan:       ParamInt(c, "tenkan", defaults.Tenkan),
				Kijun:        ParamInt(c, "kijun", defaults.Kijun),
				SenkouB:      ParamInt(c, "senkou_b", defaults.SenkouB),
				Displacement: ParamInt(c, "displacement", defaults.Displacement),
			})
		},
	}

	for kind, factory := range builtins {
		// the registry is empty, so registration cannot collide
		_ = r.Register(kind, factory)
	}

	return r
}

// Register adds a factory for kind.
func (r *RegistryV1) Register(kind types.StrategyType, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExist, "strategy type %s already registered", kind)
	}

	r.factories[kind] = factory

	return nil
}

// Create builds a strategy from config using the factory registered for config.Type.
func (r *RegistryV1) Create(config types.StrategyConfig) (Strategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[config.Type]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy type: %s", config.Type)
	}

	s, err := factory(config)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to create %s strategy", config.Type)
	}

	return s, nil
}

// List returns the registered strategy types in sorted order.
func (r *RegistryV1) List() []types.StrategyType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]types.StrategyType, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

// Remove removes the factory of kind.
func (r *RegistryV1) Remove(kind types.StrategyType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; !exists {
		return errors.Newf(errors.ErrCodeStrategyNotFound, "strategy type %s not found", kind)
	}

	delete(r.factories, kind)

	return nil
}

// ParamInt reads an integer parameter from the config, falling back when absent.
func ParamInt(config types.StrategyConfig, key string, fallback int) int {
	if v, ok := config.Params[key]; ok {
		return int(v)
	}

	return fallback
}

// ParamFloat reads a float parameter from the config, falling back when absent.
func ParamFloat(config types.StrategyConfig, key string, fallback float64) float64 {
	if v, ok := config.Params[key]; ok {
		return v
	}

	return fallback
}
