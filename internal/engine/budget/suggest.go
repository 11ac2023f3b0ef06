// Package budget suggests per-category limits from spending history and builds a plan
// to move unused allowance to categories that ran over.
package budget

import (
	"math"
	"sort"

	"github.com/Dan9191/finhealth/internal/engine/forecast"
	"github.com/Dan9191/finhealth/internal/utils"
)

const (
	baseBuffer         = 10.0
	increasingBuffer   = 20.0
	volatileBuffer     = 15.0
	decreasingBuffer   = 5.0
	halfTrendChange    = 0.15
	highVolatility     = 50.0
	confidencePerMonth = 20.0
	volatilityPenalty  = 20.0
)

// Suggestion is a recommended monthly limit for one category
type Suggestion struct {
	Category        string         `json:"category"`
	MonthsAnalyzed  int            `json:"months_analyzed"`
	Average         float64        `json:"average"`
	StdDev          float64        `json:"std_dev"`
	Volatility      float64        `json:"volatility"` // percent
	Trend           forecast.Trend `json:"trend"`
	BufferPercent   float64        `json:"buffer_percent"`
	SuggestedBudget float64        `json:"suggested_budget"`
	CurrentLimit    float64        `json:"current_limit"`
	Confidence      float64        `json:"confidence"`
}

// HalfTrend compares the average of the second half of a series to the first half
func HalfTrend(values []float64) forecast.Trend {
	if len(values) < 2 {
		return forecast.TrendStable
	}
	mid := len(values) / 2
	first := utils.Mean(values[:mid])
	second := utils.Mean(values[mid:])
	if first <= 0 {
		return forecast.TrendStable
	}
	change := (second - first) / first
	switch {
	case change > halfTrendChange:
		return forecast.TrendIncreasing
	case change < -halfTrendChange:
		return forecast.TrendDecreasing
	default:
		return forecast.TrendStable
	}
}

// Suggest derives a limit for one category from its monthly totals
func Suggest(category string, history []float64) Suggestion {
	s := Suggestion{Category: category, MonthsAnalyzed: len(history), Trend: forecast.TrendStable}
	if len(history) == 0 {
		return s
	}

	mean := utils.Mean(history)
	std := utils.StdDev(history)
	volatility := utils.Ratio(std, mean) * 100
	trend := HalfTrend(history)

	buffer := baseBuffer
	switch trend {
	case forecast.TrendIncreasing:
		buffer += increasingBuffer
	case forecast.TrendDecreasing:
		buffer -= decreasingBuffer
	}
	if volatility > highVolatility {
		buffer += volatileBuffer
	}

	confidence := math.Min(100, float64(len(history))*confidencePerMonth)
	if volatility > highVolatility {
		confidence -= volatilityPenalty
	}

	s.Average = utils.Round2(mean)
	s.StdDev = utils.Round2(std)
	s.Volatility = utils.Round2(volatility)
	s.Trend = trend
	s.BufferPercent = buffer
	s.SuggestedBudget = utils.Round2(mean * (1 + buffer/100))
	s.Confidence = utils.NonNegative(confidence)
	return s
}

// SuggestAll runs Suggest for every category with history, ordered by category.
// limits supplies the current limit for comparison and may be nil.
func SuggestAll(history map[string][]float64, limits map[string]float64) []Suggestion {
	out := make([]Suggestion, 0, len(history))
	for category, values := range history {
		if len(values) == 0 {
			continue
		}
		s := Suggest(category, values)
		s.CurrentLimit = limits[category]
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
