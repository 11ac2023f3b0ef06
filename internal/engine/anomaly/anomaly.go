// Package anomaly flags categories whose current-month spend is out of line with their
// own history.
package anomaly

import (
	"fmt"
	"sort"

	"github.com/Dan9191/finhealth/internal/utils"
)

const (
	// MinIQRPoints is the history length from which the IQR method is used
	MinIQRPoints = 5

	iqrMultiplier    = 1.5
	medianMultiplier = 1.2
	highMultiplier   = 1.5

	fallbackMultiplier = 1.5
	// FallbackFloor is the smallest absolute increase the fallback method flags
	FallbackFloor = 500.0
)

// Method identifies how an anomaly was detected
type Method string

const (
	MethodIQR     Method = "IQR"
	MethodAverage Method = "AVERAGE"
)

// Severity of a detected anomaly
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

// Anomaly is a category whose current spend exceeds its expected range
type Anomaly struct {
	Category      string   `json:"category"`
	Current       float64  `json:"current"`
	Baseline      float64  `json:"baseline"` // median for IQR, average for fallback
	Threshold     float64  `json:"threshold"`
	PercentChange float64  `json:"percent_change"`
	Severity      Severity `json:"severity"`
	Method        Method   `json:"method"`
	Message       string   `json:"message"`
}

// Detect compares each category's current total against its monthly history.
// Categories without history are skipped. Results are ordered by deviation from the
// baseline, largest first.
func Detect(history map[string][]float64, current map[string]float64) []Anomaly {
	var out []Anomaly
	for category, value := range current {
		hist := history[category]
		if len(hist) == 0 || value <= 0 {
			continue
		}
		var (
			a  Anomaly
			ok bool
		)
		if len(hist) >= MinIQRPoints {
			a, ok = detectIQR(hist, value)
		} else {
			a, ok = detectAverage(hist, value)
		}
		if !ok {
			continue
		}
		a.Category = category
		a.Current = utils.Round2(value)
		a.Message = message(a)
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Current-out[i].Baseline, out[j].Current-out[j].Baseline
		if di == dj {
			return out[i].Category < out[j].Category
		}
		return di > dj
	})
	return out
}

func detectIQR(hist []float64, value float64) (Anomaly, bool) {
	q1, median, q3 := utils.Quartiles(hist)
	fence := q3 + iqrMultiplier*(q3-q1)
	if value <= fence || value <= median*medianMultiplier {
		return Anomaly{}, false
	}
	severity := SeverityMedium
	if value > fence*highMultiplier {
		severity = SeverityHigh
	}
	return Anomaly{
		Baseline:      utils.Round2(median),
		Threshold:     utils.Round2(fence),
		PercentChange: percentChange(value, median),
		Severity:      severity,
		Method:        MethodIQR,
	}, true
}

func detectAverage(hist []float64, value float64) (Anomaly, bool) {
	avg := utils.Mean(hist)
	threshold := avg * fallbackMultiplier
	if value <= threshold || value-avg <= FallbackFloor {
		return Anomaly{}, false
	}
	return Anomaly{
		Baseline:      utils.Round2(avg),
		Threshold:     utils.Round2(threshold),
		PercentChange: percentChange(value, avg),
		Severity:      SeverityMedium,
		Method:        MethodAverage,
	}, true
}

func percentChange(value, base float64) float64 {
	if base <= 0 {
		return 100
	}
	return utils.Round2((value - base) / base * 100)
}

func message(a Anomaly) string {
	return fmt.Sprintf("%s spending of %.2f is %.0f%% above the usual %.2f",
		a.Category, a.Current, a.PercentChange, a.Baseline)
}

// Categories returns the set of flagged category names
func Categories(anomalies []Anomaly) []string {
	out := make([]string, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, a.Category)
	}
	return out
}
