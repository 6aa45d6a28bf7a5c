package ml

import (
	"sync"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// minTrainingRows is the fewest complete feature rows Train accepts.
const minTrainingRows = 10

// ClassifierStrategy predicts the next signal from the latest feature row.
type ClassifierStrategy struct {
	strategy.SignalLog
	classifier Classifier

	mu       sync.RWMutex
	trained  bool
	accuracy float64
}

// NewClassifierStrategy wraps classifier into a strategy.
func NewClassifierStrategy(classifier Classifier) *ClassifierStrategy {
	return &ClassifierStrategy{classifier: classifier}
}

func (s *ClassifierStrategy) Name() string {
	return s.classifier.Name()
}

func (s *ClassifierStrategy) IsTrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.trained
}

// Accuracy returns the held-out accuracy of the last successful Train.
func (s *ClassifierStrategy) Accuracy() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accuracy
}

// Train fits the classifier on the first 80% of the feature rows and scores it on the rest.
func (s *ClassifierStrategy) Train(data []types.MarketData) (float64, error) {
	ds, err := BuildFeatures(data)
	if err != nil {
		return 0, err
	}

	if ds.Len() < minTrainingRows {
		return 0, errors.NewInsufficientDataErrorf(minTrainingRows, ds.Len(), "", "need %d feature rows to train %s, got %d", minTrainingRows, s.Name(), ds.Len())
	}

	trainX, trainY, testX, testY := splitChronological(ds.X, ds.Y)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.classifier.Fit(trainX, trainY); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeModelTrainingFailed, err, "failed to train %s", s.classifier.Name())
	}

	acc, err := accuracy(s.classifier, testX, testY)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeModelTrainingFailed, err, "failed to score %s", s.classifier.Name())
	}

	s.trained = true
	s.accuracy = acc

	return acc, nil
}

func (s *ClassifierStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *ClassifierStrategy) evaluate(data []types.MarketData) types.Signal {
	if !s.IsTrained() {
		return s.hold(data, "model not trained", nil)
	}

	ds, err := BuildFeatures(data)
	if err != nil || ds.Len() == 0 || !ds.LastBar {
		return s.hold(data, "insufficient data", nil)
	}

	row := ds.X[ds.Len()-1]
	values := rowValues(row)

	s.mu.RLock()
	label, err := s.classifier.Predict(row)
	s.mu.RUnlock()

	if err != nil {
		return s.hold(data, "prediction failed: "+err.Error(), values)
	}

	return strategy.NewSignal(s.Name(), types.StrategyTypeMLClassifier, data, SignalForLabel(label), "model prediction", values)
}

func (s *ClassifierStrategy) hold(data []types.MarketData, reason string, values map[string]float64) types.Signal {
	return strategy.NewSignal(s.Name(), types.StrategyTypeMLClassifier, data, types.SignalTypeHold, reason, values)
}

func rowValues(row []float64) map[string]float64 {
	values := make(map[string]float64, len(row))
	for i, v := range row {
		values[FeatureColumns[i]] = v
	}

	return values
}
