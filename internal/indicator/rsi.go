package indicator

// RSI returns the relative strength index of values over period.
// Average gain and loss are simple trailing means of the last period deltas.
// When the average loss is zero the RSI is 100.
func RSI(values []float64, period int) ([]float64, error) {
	if err := validatePeriod("RSI", period); err != nil {
		return nil, err
	}

	if err := requireLength("RSI", len(values), period+1); err != nil {
		return nil, err
	}

	out := newSeries(len(values))

	for i := period; i < len(values); i++ {
		gain, loss := 0.0, 0.0

		for j := i - period + 1; j <= i; j++ {
			delta := values[j] - values[j-1]
			if delta > 0 {
				gain += delta
			} else {
				loss -= delta
			}
		}

		avgGain := gain / float64(period)
		avgLoss := loss / float64(period)

		if avgLoss == 0 {
			out[i] = 100

			continue
		}

		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}

	return out, nil
}
