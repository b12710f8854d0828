package analyze

import (
	"github.com/wheelscreener/screener/internal/models"
)

// Criterion is one named screening predicate evaluated against the latest
// indicator snapshot. The display name appears verbatim in reports.
type Criterion struct {
	Name string
	Eval func(price float64, snap models.IndicatorSnapshot) bool
}

// CriteriaFor returns the fixed criterion set for a mode. Both modes demand
// rising RSI over the last 3 sessions: each screen looks for a reversal
// already in progress, only the price/RSI bands differ.
func CriteriaFor(mode models.Mode) []Criterion {
	rsiRising := Criterion{
		Name: "RSI Rising (3d)",
		Eval: func(_ float64, snap models.IndicatorSnapshot) bool {
			return snap.HasRSI3Ago && snap.RSI > snap.RSI3Ago
		},
	}
	adxWeak := Criterion{
		Name: "ADX < 30",
		Eval: func(_ float64, snap models.IndicatorSnapshot) bool {
			return snap.ADX < 30
		},
	}

	if mode == models.ModeBearishBounce {
		return []Criterion{
			{
				Name: "Price < EMA50",
				Eval: func(price float64, snap models.IndicatorSnapshot) bool {
					return price < snap.EMA50
				},
			},
			adxWeak,
			{
				Name: "15 <= RSI <= 35",
				Eval: func(_ float64, snap models.IndicatorSnapshot) bool {
					return snap.RSI >= 15 && snap.RSI <= 35
				},
			},
			rsiRising,
		}
	}

	return []Criterion{
		{
			Name: "Price > EMA50",
			Eval: func(price float64, snap models.IndicatorSnapshot) bool {
				return price > snap.EMA50
			},
		},
		adxWeak,
		{
			Name: "30 <= RSI <= 50",
			Eval: func(_ float64, snap models.IndicatorSnapshot) bool {
				return snap.RSI >= 30 && snap.RSI <= 50
			},
		},
		rsiRising,
	}
}

// Classify evaluates the mode's criteria and reports the failed names in
// criterion order. Zero failures means PASS, exactly one means NEAR; with
// two or more the ticker produces no record.
func Classify(mode models.Mode, price float64, snap models.IndicatorSnapshot) (models.Status, []string) {
	var failed []string
	for _, c := range CriteriaFor(mode) {
		if !c.Eval(price, snap) {
			failed = append(failed, c.Name)
		}
	}

	switch len(failed) {
	case 0:
		return models.StatusPass, nil
	case 1:
		return models.StatusNear, failed
	default:
		return "", failed
	}
}
