package calculate

import "math"

// RVI computes the volatility-direction oscillator used by this screen.
// It is deliberately not the textbook Relative Vigor Index: each bar's
// rolling standard deviation of closes is routed into an "up" series when
// the close rose, a "down" series when it fell (zero into both otherwise
// and while the rolling window is still warming up). Both series are
// Wilder-smoothed and the result is 100 * up / (up + down), in [0, 100].
// A zero denominator yields 0.
func RVI(closes []float64, stdWindow, smoothPeriod int) float64 {
	n := len(closes)
	if n == 0 {
		return 0
	}

	up := make([]float64, n)
	down := make([]float64, n)
	for i := stdWindow - 1; i < n; i++ {
		if i == 0 {
			continue
		}
		std := rollingStd(closes[i-stdWindow+1 : i+1])
		diff := closes[i] - closes[i-1]
		switch {
		case diff > 0:
			up[i] = std
		case diff < 0:
			down[i] = std
		}
	}

	avgUp := WilderSeries(up, smoothPeriod)
	avgDown := WilderSeries(down, smoothPeriod)

	u := avgUp[n-1]
	d := avgDown[n-1]
	if u+d == 0 {
		return 0
	}
	return 100 * u / (u + d)
}

// rollingStd is the sample standard deviation of one window.
func rollingStd(window []float64) float64 {
	if len(window) < 2 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(len(window))

	var sq float64
	for _, v := range window {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(window)-1))
}
