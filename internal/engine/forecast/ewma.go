// Package forecast predicts next-period amounts from a monthly history using an
// exponentially weighted moving average adjusted for short-term trend.
package forecast

import (
	"github.com/Dan9191/finhealth/internal/utils"
)

// Alpha is the EWMA smoothing factor
const Alpha = 0.3

// Trend is the short-term direction of a series
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendDecreasing Trend = "DECREASING"
	TrendStable     Trend = "STABLE"
)

// Confidence labels a forecast's reliability
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

const (
	trendWindow    = 3
	trendThreshold = 0.10
)

// Forecast is a point prediction for the next period
type Forecast struct {
	Prediction      float64    `json:"prediction"`
	EWMA            float64    `json:"ewma"`
	Trend           Trend      `json:"trend"`
	TrendMultiplier float64    `json:"trend_multiplier"`
	DataPoints      int        `json:"data_points"`
	Confidence      Confidence `json:"confidence"`
}

// EWMA returns the exponentially weighted moving average of values, seeded with the
// first observation. An empty series yields 0.
func EWMA(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := values[0]
	for _, v := range values[1:] {
		avg = Alpha*v + (1-Alpha)*avg
	}
	return avg
}

// DetectTrend compares the first and last of the last three points
func DetectTrend(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	window := values
	if len(window) > trendWindow {
		window = window[len(window)-trendWindow:]
	}
	first, last := window[0], window[len(window)-1]
	if first <= 0 {
		return TrendStable
	}
	change := (last - first) / first
	switch {
	case change > trendThreshold:
		return TrendIncreasing
	case change < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// Multiplier returns the adjustment applied to the EWMA for a trend
func (t Trend) Multiplier() float64 {
	switch t {
	case TrendIncreasing:
		return 1.05
	case TrendDecreasing:
		return 0.95
	default:
		return 1.0
	}
}

// PredictNext forecasts the next value of a series
func PredictNext(values []float64) Forecast {
	if len(values) == 0 {
		return Forecast{Trend: TrendStable, TrendMultiplier: 1, Confidence: ConfidenceLow}
	}
	avg := EWMA(values)
	trend := DetectTrend(values)
	return Forecast{
		Prediction:      utils.Round2(avg * trend.Multiplier()),
		EWMA:            utils.Round2(avg),
		Trend:           trend,
		TrendMultiplier: trend.Multiplier(),
		DataPoints:      len(values),
		Confidence:      confidenceForSize(len(values)),
	}
}

func confidenceForSize(n int) Confidence {
	switch {
	case n >= 6:
		return ConfidenceHigh
	case n >= 3:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
