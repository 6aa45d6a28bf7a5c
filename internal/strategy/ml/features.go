// Package ml holds the classifier backed strategies.
//
// Models are pluggable through the Classifier interface. Labels follow the EMA
// trend: 1 when EMA10 is above EMA21, -1 when below, 0 otherwise.
package ml

import (
	"math"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/indicator"
	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/types"
)

const (
	LabelSell = -1
	LabelHold = 0
	LabelBuy  = 1
)

// FeatureColumns names the columns of every feature row, in order.
var FeatureColumns = []string{"close", "ema_10", "ema_21", "rsi_14", "bb_upper", "bb_lower"}

// Dataset is a feature matrix with its labels. Row i was computed on the bar at Times[i].
type Dataset struct {
	X     [][]float64
	Y     []int
	Times []time.Time
	// LastBar reports whether the final row belongs to the final input bar.
	LastBar bool
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.X)
}

// BuildFeatures computes the feature rows of data. Bars whose features are not all
// defined yet are dropped.
func BuildFeatures(data []types.MarketData) (Dataset, error) {
	closes := indicator.Closes(data)

	ema10, err := indicator.EMA(closes, 10)
	if err != nil {
		return Dataset{}, err
	}

	ema21, err := indicator.EMA(closes, 21)
	if err != nil {
		return Dataset{}, err
	}

	rsi, err := indicator.RSI(closes, 14)
	if err != nil {
		return Dataset{}, err
	}

	bands, err := indicator.BollingerBands(closes, 20, 2)
	if err != nil {
		return Dataset{}, err
	}

	var ds Dataset

	for i := range data {
		row := []float64{closes[i], ema10[i], ema21[i], rsi[i], bands.Upper[i], bands.Lower[i]}
		if hasNaN(row) {
			continue
		}

		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, trendLabel(ema10[i], ema21[i]))
		ds.Times = append(ds.Times, data[i].Time)
		ds.LastBar = i == len(data)-1
	}

	return ds, nil
}

// SignalForLabel maps a predicted label to a signal.
func SignalForLabel(label int) types.SignalType {
	switch label {
	case LabelBuy:
		return types.SignalTypeBuy
	case LabelSell:
		return types.SignalTypeSell
	default:
		return types.SignalTypeHold
	}
}

func trendLabel(fast, slow float64) int {
	switch {
	case fast > slow:
		return LabelBuy
	case fast < slow:
		return LabelSell
	default:
		return LabelHold
	}
}

func hasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}

	return false
}

// splitChronological keeps the first 80% of rows for training and the rest for testing.
func splitChronological(x [][]float64, y []int) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	cut := len(x) * 8 / 10

	return x[:cut], y[:cut], x[cut:], y[cut:]
}

func accuracy(c Classifier, x [][]float64, y []int) (float64, error) {
	if len(x) == 0 {
		return 0, nil
	}

	correct := 0

	for i := range x {
		pred, err := c.Predict(x[i])
		if err != nil {
			return 0, err
		}

		if pred == y[i] {
			correct++
		}
	}

	return float64(correct) / float64(len(x)), nil
}
