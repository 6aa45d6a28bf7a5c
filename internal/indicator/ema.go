package indicator

import "math"

// EMA returns the exponential moving average with alpha = 2/(period+1).
// The recursion is seeded by the first defined value, so every position from
// there on is defined.
func EMA(values []float64, period int) ([]float64, error) {
	if err := validatePeriod("EMA", period); err != nil {
		return nil, err
	}

	if err := requireLength("EMA", len(values), 1); err != nil {
		return nil, err
	}

	alpha := 2.0 / float64(period+1)
	out := newSeries(len(values))
	seeded := false

	for i, v := range values {
		switch {
		case math.IsNaN(v):
			if seeded {
				out[i] = out[i-1]
			}
		case !seeded:
			out[i] = v
			seeded = true
		default:
			out[i] = alpha*v + (1-alpha)*out[i-1]
		}
	}

	return out, nil
}
