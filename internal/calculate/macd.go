package calculate

// MACD computes the Moving Average Convergence/Divergence line and its
// signal line over the full close series, returning the latest values.
// The MACD line is EMA(fast) - EMA(slow) per bar; the signal line is an
// EMA(signal) of the MACD series itself.
func MACD(closes []float64, fastSpan, slowSpan, signalSpan int) (macd, signal float64) {
	if len(closes) == 0 {
		return 0, 0
	}

	fast := EMASeries(closes, fastSpan)
	slow := EMASeries(closes, slowSpan)

	macdSeries := make([]float64, len(closes))
	for i := range macdSeries {
		macdSeries[i] = fast[i] - slow[i]
	}

	signalSeries := EMASeries(macdSeries, signalSpan)
	return macdSeries[len(macdSeries)-1], signalSeries[len(signalSeries)-1]
}
