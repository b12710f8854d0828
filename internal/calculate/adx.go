package calculate

import (
	"math"

	"github.com/wheelscreener/screener/internal/models"
)

// ADX computes the Average Directional Index over the full bar sequence
// and returns the most recent value.
//
// Directional movement follows the standard exclusivity rule: +DM counts
// only when the up-move both exceeds the down-move and is positive, and
// symmetrically for -DM. True range is the max of high-low,
// |high-prevClose| and |low-prevClose|. TR, +DM and -DM are smoothed with
// Wilder's method, DX is derived from the directional indexes, and ADX is
// the Wilder-smoothed DX. Zero denominators (flat markets) yield 0 rather
// than propagating Inf/NaN into the criteria comparisons.
func ADX(bars []models.Bar, period int) float64 {
	n := len(bars)
	if n < 2 {
		return 0
	}

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n-1)
	for i := 1; i < n; i++ {
		upMove := bars[i].High - bars[i-1].High
		downMove := bars[i-1].Low - bars[i].Low
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}

		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i-1] = math.Max(hl, math.Max(hc, lc))
	}

	atr := WilderSeries(tr, period)
	smPlus := WilderSeries(plusDM, period)
	smMinus := WilderSeries(minusDM, period)

	dx := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		var plusDI, minusDI float64
		if atr[i] != 0 {
			plusDI = 100 * smPlus[i+1] / atr[i]
			minusDI = 100 * smMinus[i+1] / atr[i]
		}
		if sum := plusDI + minusDI; sum != 0 {
			dx[i] = 100 * math.Abs(plusDI-minusDI) / sum
		}
	}

	adx := WilderSeries(dx, period)
	return adx[len(adx)-1]
}
