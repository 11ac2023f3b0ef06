package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds a monetary or ratio value half away from zero to the given places.
// NaN and infinities round to 0.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return Round(v, 2)
}

// ParseAmount parses a loosely formatted number ("1,250.50", " 300 ") and returns 0 when
// the input is empty or not numeric
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// NonNegative returns v, or 0 if v is negative
func NonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
