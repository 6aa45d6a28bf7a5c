package ml

import (
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

const (
	ModelKNN     = "knn"
	ModelSoftmax = "softmax"
)

// NewClassifier builds the classifier named by config.Model. An empty model is knn.
func NewClassifier(config types.StrategyConfig) (Classifier, error) {
	switch config.Model {
	case "", ModelKNN:
		return NewKNN(strategy.ParamInt(config, "neighbors", 5))
	case ModelSoftmax:
		return NewSoftmaxRegression(strategy.ParamInt(config, "iterations", 300), strategy.ParamFloat(config, "learning_rate", 0.1))
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported model: %s", config.Model)
	}
}

// Register adds the ml_classifier and ml_sequence factories to registry.
func Register(registry strategy.Registry) error {
	err := registry.Register(types.StrategyTypeMLClassifier, func(config types.StrategyConfig) (strategy.Strategy, error) {
		classifier, err := NewClassifier(config)
		if err != nil {
			return nil, err
		}

		return NewClassifierStrategy(classifier), nil
	})
	if err != nil {
		return err
	}

	return registry.Register(types.StrategyTypeMLSequence, func(config types.StrategyConfig) (strategy.Strategy, error) {
		classifier, err := NewClassifier(config)
		if err != nil {
			return nil, err
		}

		return NewSequenceStrategy(classifier, strategy.ParamInt(config, "lookback", DefaultLookback))
	})
}
