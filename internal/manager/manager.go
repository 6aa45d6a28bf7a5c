// Package manager combines the signals of several weighted strategies into one decision.
package manager

import (
	"sync"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AggregationResult is the combined decision with the full per-strategy breakdown.
type AggregationResult struct {
	Signal types.SignalType `json:"signal"`
	Method VotingMethod     `json:"method"`
	// IndividualSignals holds the signal of every strategy by name.
	IndividualSignals map[string]types.Signal `json:"individual_signals"`
	// Order is the registration order of the strategies.
	Order []string `json:"order"`
	// Counts is the number of strategies per signal class.
	Counts map[types.SignalType]int `json:"counts"`
	// Weights is the summed weight per signal class.
	Weights         map[types.SignalType]float64 `json:"weights"`
	TotalAlgorithms int                          `json:"total_algorithms"`
	TotalWeight     float64                      `json:"total_weight"`
	Timestamp       time.Time                    `json:"timestamp"`
}

// Algorithms returns the names of the strategies that emitted signalType, in registration order.
func (r AggregationResult) Algorithms(signalType types.SignalType) []string {
	var names []string

	for _, name := range r.Order {
		if r.IndividualSignals[name].Type == signalType {
			names = append(names, name)
		}
	}

	return names
}

// StrategyMetrics describes one registered strategy.
type StrategyMetrics struct {
	Name             string           `json:"name"`
	Weight           float64          `json:"weight"`
	SignalsGenerated int              `json:"signals_generated"`
	LastSignal       types.SignalType `json:"last_signal,omitempty"`
}

type entry struct {
	strategy strategy.Strategy
	weight   float64
}

// Manager holds weighted strategies in registration order.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
	logger  *logger.Logger
	now     func() time.Time
}

// NewManager creates an empty manager. A nil logger discards logs.
func NewManager(log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Manager{
		entries: make(map[string]entry),
		logger:  log,
		now:     time.Now,
	}
}

// Add registers s with weight. Re-adding a name replaces the strategy and weight
// in place, keeping its position.
func (m *Manager) Add(s strategy.Strategy, weight float64) error {
	if weight <= 0 {
		return errors.Newf(errors.ErrCodeInvalidWeight, "weight of %s must be positive, got %g", s.Name(), weight)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name := s.Name()
	if _, exists := m.entries[name]; exists {
		m.logger.Warn("Replacing strategy", zap.String("name", name), zap.Float64("weight", weight))
	} else {
		m.order = append(m.order, name)
	}

	m.entries[name] = entry{strategy: s, weight: weight}

	return nil
}

// Remove unregisters the named strategy and reports whether it existed.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[name]; !exists {
		return false
	}

	delete(m.entries, name)

	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)

			break
		}
	}

	return true
}

// Len returns the number of registered strategies.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.order)
}

// Names returns the registered names in order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string(nil), m.order...)
}

// Weight returns the weight of the named strategy.
func (m *Manager) Weight(name string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[name]

	return e.weight, ok
}

// CombinedSignal runs every strategy on data and reduces their signals with method.
// An unknown method fails before any strategy runs.
func (m *Manager) CombinedSignal(data []types.MarketData, method VotingMethod) (AggregationResult, error) {
	if !method.Valid() {
		return AggregationResult{}, errors.Newf(errors.ErrCodeInvalidVotingMethod, "unknown voting method: %s", method)
	}

	m.mu.RLock()
	order := append([]string(nil), m.order...)
	entries := make(map[string]entry, len(m.entries))

	for k, v := range m.entries {
		entries[k] = v
	}
	m.mu.RUnlock()

	result := AggregationResult{
		Method:            method,
		IndividualSignals: make(map[string]types.Signal, len(order)),
		Order:             order,
		Counts:            map[types.SignalType]int{types.SignalTypeBuy: 0, types.SignalTypeSell: 0, types.SignalTypeHold: 0},
		Weights:           make(map[types.SignalType]float64, 3),
		TotalAlgorithms:   len(order),
		Timestamp:         m.now(),
	}

	weights := map[types.SignalType]decimal.Decimal{
		types.SignalTypeBuy:  decimal.Zero,
		types.SignalTypeSell: decimal.Zero,
		types.SignalTypeHold: decimal.Zero,
	}
	total := decimal.Zero

	for _, name := range order {
		e := entries[name]
		sig := e.strategy.GenerateSignal(data)

		kind := sig.Type
		if !kind.IsActionable() {
			kind = types.SignalTypeHold
		}

		w := decimal.NewFromFloat(e.weight)

		result.IndividualSignals[name] = sig
		result.Counts[kind]++
		weights[kind] = weights[kind].Add(w)
		total = total.Add(w)
	}

	for kind, w := range weights {
		result.Weights[kind] = w.InexactFloat64()
	}

	result.TotalWeight = total.InexactFloat64()

	switch method {
	case MajorityVote:
		result.Signal = strictMax(
			decimal.NewFromInt(int64(result.Counts[types.SignalTypeBuy])),
			decimal.NewFromInt(int64(result.Counts[types.SignalTypeSell])),
			decimal.NewFromInt(int64(result.Counts[types.SignalTypeHold])),
		)
	case WeightedVote:
		result.Signal = strictMax(weights[types.SignalTypeBuy], weights[types.SignalTypeSell], weights[types.SignalTypeHold])
	case StrongestSignal:
		result.Signal = strongest(result.IndividualSignals)
	}

	m.logger.Debug("Combined signal",
		zap.String("method", string(method)),
		zap.String("signal", string(result.Signal)),
		zap.Int("buy", result.Counts[types.SignalTypeBuy]),
		zap.Int("sell", result.Counts[types.SignalTypeSell]),
		zap.Int("hold", result.Counts[types.SignalTypeHold]),
	)

	return result, nil
}

// strictMax returns BUY or SELL only when its tally is strictly greater than both
// other tallies. Every tie resolves to HOLD.
func strictMax(buy, sell, hold decimal.Decimal) types.SignalType {
	switch {
	case buy.GreaterThan(sell) && buy.GreaterThan(hold):
		return types.SignalTypeBuy
	case sell.GreaterThan(buy) && sell.GreaterThan(hold):
		return types.SignalTypeSell
	default:
		return types.SignalTypeHold
	}
}

func strongest(signals map[string]types.Signal) types.SignalType {
	best := types.SignalTypeHold
	for _, sig := range signals {
		if sig.Type.IsActionable() && sig.Type.Priority() > best.Priority() {
			best = sig.Type
		}
	}

	return best
}

// Metrics returns one entry per strategy in registration order.
func (m *Manager) Metrics() []StrategyMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metrics := make([]StrategyMetrics, 0, len(m.order))

	for _, name := range m.order {
		e := m.entries[name]
		signals := e.strategy.Signals()

		metric := StrategyMetrics{
			Name:             name,
			Weight:           e.weight,
			SignalsGenerated: len(signals),
		}

		if len(signals) > 0 {
			metric.LastSignal = signals[len(signals)-1].Type
		}

		metrics = append(metrics, metric)
	}

	return metrics
}
