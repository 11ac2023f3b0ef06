package forecast

import (
	"github.com/Dan9191/finhealth/internal/utils"
)

// MinIntervalPoints is the smallest history for which bounds are computed
const MinIntervalPoints = 3

// DefaultConfidenceLevel is used when an unsupported level is requested
const DefaultConfidenceLevel = 95

var zScores = map[int]float64{
	80: 1.282,
	90: 1.645,
	95: 1.96,
	99: 2.576,
}

// IntervalForecast is a prediction with a confidence band
type IntervalForecast struct {
	Prediction       float64    `json:"prediction"`
	Low              float64    `json:"low"`
	High             float64    `json:"high"`
	Mean             float64    `json:"mean"`
	StdDev           float64    `json:"std_dev"`
	Volatility       float64    `json:"volatility"` // percent
	Trend            Trend      `json:"trend"`
	ConfidenceLevel  int        `json:"confidence_level"`
	Confidence       Confidence `json:"confidence"`
	DataPoints       int        `json:"data_points"`
	InsufficientData bool       `json:"insufficient_data"`
}

// ZScore returns the two-sided z value for a confidence level in percent and the level
// actually used
func ZScore(level int) (float64, int) {
	if z, ok := zScores[level]; ok {
		return z, level
	}
	return zScores[DefaultConfidenceLevel], DefaultConfidenceLevel
}

// PredictWithConfidence forecasts the next value and brackets it with
// prediction +/- z*stddev over the whole history. Fewer than MinIntervalPoints values
// return a zeroed, low-confidence result flagged as insufficient.
func PredictWithConfidence(values []float64, level int) IntervalForecast {
	z, level := ZScore(level)
	if len(values) < MinIntervalPoints {
		return IntervalForecast{
			Trend:            TrendStable,
			ConfidenceLevel:  level,
			Confidence:       ConfidenceLow,
			DataPoints:       len(values),
			InsufficientData: true,
		}
	}

	point := PredictNext(values)
	mean := utils.Mean(values)
	std := utils.StdDev(values)
	volatility := utils.Ratio(std, mean) * 100

	return IntervalForecast{
		Prediction:      point.Prediction,
		Low:             utils.Round2(utils.NonNegative(point.Prediction - z*std)),
		High:            utils.Round2(point.Prediction + z*std),
		Mean:            utils.Round2(mean),
		StdDev:          utils.Round2(std),
		Volatility:      utils.Round2(volatility),
		Trend:           point.Trend,
		ConfidenceLevel: level,
		Confidence:      confidenceForVolatility(volatility),
		DataPoints:      len(values),
	}
}

func confidenceForVolatility(volatility float64) Confidence {
	switch {
	case volatility < 15:
		return ConfidenceHigh
	case volatility < 30:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ProjectMonthEnd extrapolates month-to-date spend to the whole month at the current
// daily rate
func ProjectMonthEnd(spentSoFar float64, dayOfMonth, daysInMonth int) float64 {
	if dayOfMonth <= 0 || daysInMonth <= 0 {
		return utils.Round2(utils.NonNegative(spentSoFar))
	}
	if dayOfMonth > daysInMonth {
		dayOfMonth = daysInMonth
	}
	return utils.Round2(utils.NonNegative(spentSoFar) / float64(dayOfMonth) * float64(daysInMonth))
}
