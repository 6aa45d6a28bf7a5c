package ml

import (
	"fmt"
	"math"
	"sort"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Classifier is a supervised model over fixed length feature rows.
type Classifier interface {
	// Fit trains the model. Rows of x all have the same length and len(x) == len(y).
	Fit(x [][]float64, y []int) error
	// Predict returns the label of one row.
	Predict(x []float64) (int, error)
	// Name identifies the model, e.g. KNN_5.
	Name() string
}

// scaler standardizes columns to zero mean and unit variance.
type scaler struct {
	mean []float64
	std  []float64
}

func fitScaler(x [][]float64) scaler {
	cols := len(x[0])
	s := scaler{mean: make([]float64, cols), std: make([]float64, cols)}

	for _, row := range x {
		for j, v := range row {
			s.mean[j] += v
		}
	}

	for j := range s.mean {
		s.mean[j] /= float64(len(x))
	}

	for _, row := range x {
		for j, v := range row {
			d := v - s.mean[j]
			s.std[j] += d * d
		}
	}

	for j := range s.std {
		s.std[j] = math.Sqrt(s.std[j] / float64(len(x)))
		if s.std[j] == 0 {
			s.std[j] = 1
		}
	}

	return s
}

func (s scaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.std[j]
	}

	return out
}

func validateTrainingSet(x [][]float64, y []int) error {
	if len(x) == 0 {
		return errors.New(errors.ErrCodeModelTrainingFailed, "empty training set")
	}

	if len(x) != len(y) {
		return errors.Newf(errors.ErrCodeModelTrainingFailed, "feature rows (%d) and labels (%d) differ", len(x), len(y))
	}

	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return errors.Newf(errors.ErrCodeModelTrainingFailed, "row %d has %d features, expected %d", i, len(row), width)
		}
	}

	return nil
}

// KNN is a k-nearest neighbours classifier on standardized features.
type KNN struct {
	k      int
	scaler scaler
	x      [][]float64
	y      []int
}

// NewKNN creates a KNN classifier with k neighbours.
func NewKNN(k int) (*KNN, error) {
	if k <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "neighbors must be positive, got %d", k)
	}

	return &KNN{k: k}, nil
}

func (m *KNN) Name() string {
	return fmt.Sprintf("KNN_%d", m.k)
}

func (m *KNN) Fit(x [][]float64, y []int) error {
	if err := validateTrainingSet(x, y); err != nil {
		return err
	}

	m.scaler = fitScaler(x)
	m.x = make([][]float64, len(x))

	for i, row := range x {
		m.x[i] = m.scaler.transform(row)
	}

	m.y = append([]int(nil), y...)

	return nil
}

// Predict returns the most common label among the k nearest rows.
// Ties go to the label whose closest member is nearest.
func (m *KNN) Predict(x []float64) (int, error) {
	if len(m.x) == 0 {
		return LabelHold, errors.New(errors.ErrCodeStrategyNotTrained, "KNN is not fitted")
	}

	if len(x) != len(m.x[0]) {
		return LabelHold, errors.Newf(errors.ErrCodeInvalidParameter, "expected %d features, got %d", len(m.x[0]), len(x))
	}

	query := m.scaler.transform(x)

	type neighbour struct {
		dist  float64
		label int
	}

	neighbours := make([]neighbour, len(m.x))
	for i, row := range m.x {
		d := 0.0
		for j := range row {
			diff := row[j] - query[j]
			d += diff * diff
		}

		neighbours[i] = neighbour{dist: d, label: m.y[i]}
	}

	sort.SliceStable(neighbours, func(i, j int) bool { return neighbours[i].dist < neighbours[j].dist })

	k := min(m.k, len(neighbours))
	votes := make(map[int]int)
	order := make([]int, 0, 3)

	for _, n := range neighbours[:k] {
		if votes[n.label] == 0 {
			order = append(order, n.label)
		}

		votes[n.label]++
	}

	best := order[0]
	for _, label := range order[1:] {
		if votes[label] > votes[best] {
			best = label
		}
	}

	return best, nil
}

// SoftmaxRegression is a multinomial logistic regression trained by batch
// gradient descent on standardized features.
type SoftmaxRegression struct {
	iterations   int
	learningRate float64
	scaler       scaler
	classes      []int
	weights      *mat.Dense // classes x (features + 1), last column is the bias
}

// NewSoftmaxRegression creates a logistic regression classifier.
func NewSoftmaxRegression(iterations int, learningRate float64) (*SoftmaxRegression, error) {
	if iterations <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "iterations must be positive, got %d", iterations)
	}

	if learningRate <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "learning rate must be positive, got %g", learningRate)
	}

	return &SoftmaxRegression{iterations: iterations, learningRate: learningRate}, nil
}

func (m *SoftmaxRegression) Name() string {
	return "LogisticRegression"
}

func (m *SoftmaxRegression) Fit(x [][]float64, y []int) error {
	if err := validateTrainingSet(x, y); err != nil {
		return err
	}

	m.scaler = fitScaler(x)
	m.classes = distinct(y)

	index := make(map[int]int, len(m.classes))
	for i, c := range m.classes {
		index[c] = i
	}

	rows, width := len(x), len(x[0])+1

	design := mat.NewDense(rows, width, nil)
	targets := mat.NewDense(rows, len(m.classes), nil)

	for i, row := range x {
		design.SetRow(i, append(m.scaler.transform(row), 1))
		targets.Set(i, index[y[i]], 1)
	}

	m.weights = mat.NewDense(len(m.classes), width, nil)

	var scores, grad mat.Dense

	for iter := 0; iter < m.iterations; iter++ {
		scores.Mul(design, m.weights.T())
		softmaxRows(&scores)
		scores.Sub(&scores, targets)

		grad.Mul(scores.T(), design)
		grad.Scale(m.learningRate/float64(rows), &grad)
		m.weights.Sub(m.weights, &grad)
	}

	return nil
}

func (m *SoftmaxRegression) Predict(x []float64) (int, error) {
	if m.weights == nil {
		return LabelHold, errors.New(errors.ErrCodeStrategyNotTrained, "logistic regression is not fitted")
	}

	_, width := m.weights.Dims()
	if len(x) != width-1 {
		return LabelHold, errors.Newf(errors.ErrCodeInvalidParameter, "expected %d features, got %d", width-1, len(x))
	}

	var scores mat.VecDense
	scores.MulVec(m.weights, mat.NewVecDense(width, append(m.scaler.transform(x), 1)))

	return m.classes[floats.MaxIdx(scores.RawVector().Data)], nil
}

// softmaxRows replaces each row of scores with its class probabilities.
func softmaxRows(scores *mat.Dense) {
	rows, _ := scores.Dims()

	for i := 0; i < rows; i++ {
		row := scores.RawRowView(i)
		top := floats.Max(row)

		for c, v := range row {
			row[c] = math.Exp(v - top)
		}

		floats.Scale(1/floats.Sum(row), row)
	}
}

func distinct(y []int) []int {
	seen := make(map[int]bool)

	var out []int

	for _, v := range y {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	sort.Ints(out)

	return out
}
