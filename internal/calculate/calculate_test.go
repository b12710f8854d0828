package calculate

import (
	"math"
	"testing"

	"github.com/wheelscreener/screener/internal/models"
)

const epsilon = 1e-9

func TestEMASeriesConstantInput(t *testing.T) {
	values := make([]float64, 80)
	for i := range values {
		values[i] = 42.5
	}

	series := EMASeries(values, 50)
	for i, v := range series {
		if math.Abs(v-42.5) > epsilon {
			t.Fatalf("EMA of constant series diverged at bar %d: got %v", i, v)
		}
	}
}

func TestEMASeriesRecursion(t *testing.T) {
	// span 3 -> alpha 0.5; seed with the first raw value, no look-ahead.
	series := EMASeries([]float64{1, 2, 3}, 3)
	expected := []float64{1, 1.5, 2.25}
	for i := range expected {
		if math.Abs(series[i]-expected[i]) > epsilon {
			t.Errorf("EMASeries[%d] = %v, want %v", i, series[i], expected[i])
		}
	}
}

func TestWilderSeries(t *testing.T) {
	// period 2 -> alpha 0.5
	series := WilderSeries([]float64{10, 20, 30}, 2)
	expected := []float64{10, 15, 22.5}
	for i := range expected {
		if math.Abs(series[i]-expected[i]) > epsilon {
			t.Errorf("WilderSeries[%d] = %v, want %v", i, series[i], expected[i])
		}
	}
}

func TestRSISeriesAllGains(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 50 + float64(i)
	}

	series := RSISeries(closes, 14)
	if len(series) != len(closes) {
		t.Fatalf("series length = %d, want %d", len(series), len(closes))
	}
	for i, v := range series {
		if v != 100.0 {
			t.Fatalf("strictly increasing closes should pin RSI to 100, bar %d got %v", i, v)
		}
	}
}

func TestRSISeriesAllLosses(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}

	series := RSISeries(closes, 14)
	last := series[len(series)-1]
	if math.Abs(last) > epsilon {
		t.Errorf("strictly decreasing closes should drive RSI to 0, got %v", last)
	}
}

func TestRSISeriesBounds(t *testing.T) {
	closes := []float64{44, 44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.1, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.0, 46.03, 46.41, 46.22}

	for _, v := range RSISeries(closes, 14) {
		if v < 0 || v > 100 {
			t.Fatalf("RSI out of [0,100]: %v", v)
		}
	}
}

func TestADXFlatMarket(t *testing.T) {
	bars := generateBars(80, func(int) (float64, float64, float64) {
		return 101, 99, 100
	})

	if adx := ADX(bars, 14); adx != 0 {
		t.Errorf("flat market should yield ADX 0, got %v", adx)
	}
}

func TestADXStrongTrend(t *testing.T) {
	bars := generateBars(100, func(i int) (float64, float64, float64) {
		base := float64(i)
		return base + 2, base + 1, base + 1.5
	})

	adx := ADX(bars, 14)
	// With no down-moves at all, every DX is 100 and so is its smoothing.
	if math.Abs(adx-100) > 1e-6 {
		t.Errorf("one-way trend should saturate ADX at 100, got %v", adx)
	}
}

func TestADXShortSeries(t *testing.T) {
	if adx := ADX(nil, 14); adx != 0 {
		t.Errorf("empty series ADX = %v, want 0", adx)
	}
	bars := generateBars(1, func(int) (float64, float64, float64) { return 2, 1, 1.5 })
	if adx := ADX(bars, 14); adx != 0 {
		t.Errorf("single bar ADX = %v, want 0", adx)
	}
}

func TestMACDConstantInput(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 75
	}

	macd, signal := MACD(closes, 12, 26, 9)
	if math.Abs(macd) > epsilon || math.Abs(signal) > epsilon {
		t.Errorf("constant input MACD = %v signal = %v, want 0, 0", macd, signal)
	}
}

func TestMACDRisingTrendPositive(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 2*float64(i)
	}

	macd, _ := MACD(closes, 12, 26, 9)
	if macd <= 0 {
		t.Errorf("rising trend should give positive MACD, got %v", macd)
	}
}

func TestRVIAllUp(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 10 + float64(i)
	}

	if rvi := RVI(closes, 10, 14); math.Abs(rvi-100) > epsilon {
		t.Errorf("monotonic rise should give RVI 100, got %v", rvi)
	}
}

func TestRVIAllDown(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}

	if rvi := RVI(closes, 10, 14); math.Abs(rvi) > epsilon {
		t.Errorf("monotonic fall should give RVI 0, got %v", rvi)
	}
}

func TestRVIFlatMarketZeroDenominator(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 55
	}

	if rvi := RVI(closes, 10, 14); rvi != 0 {
		t.Errorf("flat market should yield RVI 0, not NaN: got %v", rvi)
	}
}

func TestRollingStd(t *testing.T) {
	// sample std (n-1 denominator) of {2,4,4,4,5,5,7,9} is ~2.138
	got := rollingStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2.13808993529939) > 1e-9 {
		t.Errorf("rollingStd = %v, want ~2.138", got)
	}
}

func generateBars(n int, gen func(i int) (high, low, close float64)) []models.Bar {
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		h, l, c := gen(i)
		bars[i] = models.Bar{High: h, Low: l, Close: c, Open: c}
	}
	return bars
}
