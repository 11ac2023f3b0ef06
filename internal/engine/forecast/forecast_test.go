package forecast

import (
	"math"
	"testing"
)

func TestEWMA(t *testing.T) {
	if EWMA(nil) != 0 {
		t.Error("EWMA(nil) should be 0")
	}
	if EWMA([]float64{500}) != 500 {
		t.Error("single observation should seed the average")
	}
	// 100 -> 0.3*200 + 0.7*100 = 130 -> 0.3*100 + 0.7*130 = 121
	if got := EWMA([]float64{100, 200, 100}); math.Abs(got-121) > 1e-9 {
		t.Errorf("EWMA() = %v, want 121", got)
	}
}

func TestDetectTrend(t *testing.T) {
	cases := []struct {
		values []float64
		want   Trend
	}{
		{[]float64{100, 105, 120}, TrendIncreasing},
		{[]float64{999, 100, 100, 89}, TrendDecreasing},
		{[]float64{100, 200, 105}, TrendStable},
		{[]float64{100}, TrendStable},
		{[]float64{0, 50, 100}, TrendStable},
		{[]float64{100, 111}, TrendIncreasing},
	}
	for _, tc := range cases {
		if got := DetectTrend(tc.values); got != tc.want {
			t.Errorf("DetectTrend(%v) = %v, want %v", tc.values, got, tc.want)
		}
	}
}

func TestPredictNextAppliesTrend(t *testing.T) {
	values := []float64{1000, 1100, 1200}
	f := PredictNext(values)
	if f.Trend != TrendIncreasing {
		t.Fatalf("Trend = %v, want INCREASING", f.Trend)
	}
	want := EWMA(values) * 1.05
	if math.Abs(f.Prediction-want) > 0.01 {
		t.Errorf("Prediction = %v, want %v", f.Prediction, want)
	}
	if f.Confidence != ConfidenceMedium {
		t.Errorf("Confidence = %v, want MEDIUM", f.Confidence)
	}
}

func TestPredictNextDeterministic(t *testing.T) {
	values := []float64{320, 410, 380, 500, 460, 470}
	a, b := PredictNext(values), PredictNext(values)
	if a != b {
		t.Errorf("PredictNext is not deterministic: %+v vs %+v", a, b)
	}
}

func TestPredictNextEmpty(t *testing.T) {
	f := PredictNext(nil)
	if f.Prediction != 0 || f.Confidence != ConfidenceLow {
		t.Errorf("empty forecast = %+v, want zero low-confidence", f)
	}
}

func TestPredictWithConfidence(t *testing.T) {
	values := []float64{1000, 1000, 1000, 1000}
	f := PredictWithConfidence(values, 95)
	if f.InsufficientData {
		t.Fatal("four points should be enough")
	}
	if f.StdDev != 0 || f.Low != 1000 || f.High != 1000 {
		t.Errorf("flat history bounds = [%v, %v], std %v", f.Low, f.High, f.StdDev)
	}
	if f.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %v, want HIGH", f.Confidence)
	}

	values = []float64{800, 1200, 1000, 1400, 600}
	f = PredictWithConfidence(values, 95)
	if !(f.Low < f.Prediction && f.Prediction < f.High) {
		t.Errorf("prediction %v not inside [%v, %v]", f.Prediction, f.Low, f.High)
	}
	if math.Abs((f.High-f.Prediction)-1.96*f.StdDev) > 0.02 {
		t.Errorf("upper band width = %v, want 1.96*%v", f.High-f.Prediction, f.StdDev)
	}
	if math.Abs(f.Volatility-f.StdDev/f.Mean*100) > 0.01 {
		t.Errorf("Volatility = %v", f.Volatility)
	}
}

func TestPredictWithConfidenceInsufficient(t *testing.T) {
	f := PredictWithConfidence([]float64{100, 200}, 95)
	if !f.InsufficientData || f.Confidence != ConfidenceLow || f.Prediction != 0 {
		t.Errorf("got %+v, want insufficient low-confidence zero result", f)
	}
	if f.DataPoints != 2 {
		t.Errorf("DataPoints = %d, want 2", f.DataPoints)
	}
}

func TestZScore(t *testing.T) {
	if z, l := ZScore(99); z != 2.576 || l != 99 {
		t.Errorf("ZScore(99) = %v, %v", z, l)
	}
	if z, l := ZScore(42); z != 1.96 || l != 95 {
		t.Errorf("unsupported level should fall back to 95%%, got %v, %v", z, l)
	}
}

func TestProjectMonthEnd(t *testing.T) {
	if got := ProjectMonthEnd(10000, 10, 30); got != 30000 {
		t.Errorf("ProjectMonthEnd() = %v, want 30000", got)
	}
	if got := ProjectMonthEnd(500, 0, 30); got != 500 {
		t.Errorf("day 0 should return spend as-is, got %v", got)
	}
	if got := ProjectMonthEnd(900, 40, 30); got != 900 {
		t.Errorf("day past month end should clamp, got %v", got)
	}
}
