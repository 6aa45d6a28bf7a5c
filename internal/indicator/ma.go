package indicator

// SMA returns the simple moving average of values over period.
func SMA(values []float64, period int) ([]float64, error) {
	if err := validatePeriod("SMA", period); err != nil {
		return nil, err
	}

	if err := requireLength("SMA", len(values), period); err != nil {
		return nil, err
	}

	return rollingMean(values, period), nil
}
