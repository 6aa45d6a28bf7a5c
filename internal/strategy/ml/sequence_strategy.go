package ml

import (
	"fmt"
	"sync"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/strategy"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// DefaultLookback is the window length of sequence strategies.
const DefaultLookback = 30

// SequenceStrategy predicts from a window of the latest feature rows.
// The window is flattened into one row, so any Classifier can serve as the model.
type SequenceStrategy struct {
	strategy.SignalLog
	classifier Classifier
	lookback   int

	mu       sync.RWMutex
	trained  bool
	accuracy float64
}

// NewSequenceStrategy wraps classifier into a windowed strategy.
func NewSequenceStrategy(classifier Classifier, lookback int) (*SequenceStrategy, error) {
	if lookback <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "lookback must be positive, got %d", lookback)
	}

	return &SequenceStrategy{classifier: classifier, lookback: lookback}, nil
}

func (s *SequenceStrategy) Name() string {
	return fmt.Sprintf("Sequence_%s_%d", s.classifier.Name(), s.lookback)
}

func (s *SequenceStrategy) IsTrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.trained
}

// Accuracy returns the held-out accuracy of the last successful Train.
func (s *SequenceStrategy) Accuracy() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accuracy
}

// Train builds one sample per bar from the lookback rows before it, labelled with
// that bar's trend label.
func (s *SequenceStrategy) Train(data []types.MarketData) (float64, error) {
	ds, err := BuildFeatures(data)
	if err != nil {
		return 0, err
	}

	var x [][]float64

	var y []int

	for i := s.lookback; i < ds.Len(); i++ {
		x = append(x, flatten(ds.X[i-s.lookback:i]))
		y = append(y, ds.Y[i])
	}

	if len(x) < minTrainingRows {
		return 0, errors.NewInsufficientDataErrorf(minTrainingRows+s.lookback, ds.Len(), "", "need %d feature rows to train %s, got %d", minTrainingRows+s.lookback, s.Name(), ds.Len())
	}

	trainX, trainY, testX, testY := splitChronological(x, y)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.classifier.Fit(trainX, trainY); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeModelTrainingFailed, err, "failed to train %s", s.Name())
	}

	acc, err := accuracy(s.classifier, testX, testY)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeModelTrainingFailed, err, "failed to score %s", s.Name())
	}

	s.trained = true
	s.accuracy = acc

	return acc, nil
}

func (s *SequenceStrategy) GenerateSignal(data []types.MarketData) types.Signal {
	return s.Record(s.evaluate(data))
}

func (s *SequenceStrategy) evaluate(data []types.MarketData) types.Signal {
	if !s.IsTrained() {
		return strategy.NewSignal(s.Name(), types.StrategyTypeMLSequence, data, types.SignalTypeHold, "model not trained", nil)
	}

	ds, err := BuildFeatures(data)
	if err != nil || ds.Len() < s.lookback {
		return strategy.NewSignal(s.Name(), types.StrategyTypeMLSequence, data, types.SignalTypeHold, "insufficient data", nil)
	}

	window := flatten(ds.X[ds.Len()-s.lookback:])

	s.mu.RLock()
	label, err := s.classifier.Predict(window)
	s.mu.RUnlock()

	if err != nil {
		return strategy.NewSignal(s.Name(), types.StrategyTypeMLSequence, data, types.SignalTypeHold, "prediction failed: "+err.Error(), nil)
	}

	return strategy.NewSignal(s.Name(), types.StrategyTypeMLSequence, data, SignalForLabel(label), "sequence prediction", rowValues(ds.X[ds.Len()-1]))
}

func flatten(rows [][]float64) []float64 {
	out := make([]float64, 0, len(rows)*len(FeatureColumns))
	for _, row := range rows {
		out = append(out, row...)
	}

	return out
}
