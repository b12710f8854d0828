package calculate

// EMASeries computes a recursive exponential moving average over the whole
// input, seeding with the first raw value (no look-ahead). alpha = 2/(span+1).
func EMASeries(values []float64, span int) []float64 {
	return smoothSeries(values, 2.0/float64(span+1))
}

// EMA returns the most recent EMA value.
func EMA(values []float64, span int) float64 {
	if len(values) == 0 {
		return 0
	}
	series := EMASeries(values, span)
	return series[len(series)-1]
}

// WilderSeries applies Wilder smoothing: the same recursion as EMASeries
// but with alpha = 1/period, as used by the RSI/ADX indicator family.
func WilderSeries(values []float64, period int) []float64 {
	return smoothSeries(values, 1.0/float64(period))
}

func smoothSeries(values []float64, alpha float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
