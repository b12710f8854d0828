package calculate

// RSISeries computes the Relative Strength Index for every bar. The series
// is aligned with closes: element i is the RSI as of closes[i], with the
// first element carrying the neutral seed of the smoothing recursion.
//
// Gains and losses are smoothed independently with Wilder's method. When
// the smoothed loss is exactly zero the bar is all-gains and RSI is pinned
// to 100 instead of dividing by zero.
func RSISeries(closes []float64, period int) []float64 {
	if len(closes) == 0 {
		return nil
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain := WilderSeries(gains, period)
	avgLoss := WilderSeries(losses, period)

	rsi := make([]float64, len(closes))
	for i := range rsi {
		if avgLoss[i] == 0 {
			rsi[i] = 100.0
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		rsi[i] = 100.0 - 100.0/(1.0+rs)
	}
	return rsi
}
