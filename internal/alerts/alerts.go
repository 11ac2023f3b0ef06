// Package alerts turns engine results into user-facing notifications. Delivery is
// left to the caller.
package alerts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dan9191/finhealth/internal/engine/anomaly"
	"github.com/Dan9191/finhealth/internal/engine/credit"
	"github.com/Dan9191/finhealth/internal/engine/health"
	"github.com/Dan9191/finhealth/internal/models"
)

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

type Kind string

const (
	KindBudget      Kind = "BUDGET"
	KindAnomaly     Kind = "ANOMALY"
	KindUtilization Kind = "UTILIZATION"
	KindHealth      Kind = "HEALTH"
)

// Alert explains what happened, why it matters and what to do
type Alert struct {
	Kind           Kind     `json:"kind"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Cause          string   `json:"cause"`
	Impact         string   `json:"impact"`
	Recommendation string   `json:"recommendation"`
}

// Input gathers the signals alerts are built from
type Input struct {
	Health      health.Result
	Anomalies   []anomaly.Anomaly
	Utilization []credit.UtilizationForecast
	Budgets     []models.BudgetUsage
}

// Build returns alerts ordered by severity, most severe first
func Build(in Input) []Alert {
	var out []Alert
	out = append(out, budgetAlerts(in.Budgets)...)
	out = append(out, anomalyAlerts(in.Anomalies)...)
	out = append(out, utilizationAlerts(in.Utilization)...)
	if a, ok := healthAlert(in.Health); ok {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i].Severity) < rank(out[j].Severity) })
	return out
}

func rank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

func budgetAlerts(budgets []models.BudgetUsage) []Alert {
	var out []Alert
	for _, b := range budgets {
		if b.Limit <= 0 {
			continue
		}
		used := b.Used()
		threshold := b.Threshold
		if threshold <= 0 {
			threshold = models.DefaultAlertThreshold
		}
		switch {
		case used > 100:
			out = append(out, Alert{
				Kind:           KindBudget,
				Severity:       SeverityCritical,
				Title:          fmt.Sprintf("%s budget exceeded", b.Category),
				Cause:          fmt.Sprintf("You spent %.2f against a limit of %.2f", b.Spent, b.Limit),
				Impact:         fmt.Sprintf("%.2f over budget, which comes out of this month's savings", b.Spent-b.Limit),
				Recommendation: fmt.Sprintf("Pause %s spending for the rest of the month or move allowance from an underused category", strings.ToLower(b.Category)),
			})
		case used >= threshold:
			out = append(out, Alert{
				Kind:           KindBudget,
				Severity:       SeverityWarning,
				Title:          fmt.Sprintf("%s budget at %.0f%%", b.Category, used),
				Cause:          fmt.Sprintf("%.0f%% of the %.2f limit is already used", used, b.Limit),
				Impact:         fmt.Sprintf("Only %.2f left for the rest of the month", b.Limit-b.Spent),
				Recommendation: "Slow down discretionary purchases in this category",
			})
		}
	}
	return out
}

func anomalyAlerts(anomalies []anomaly.Anomaly) []Alert {
	out := make([]Alert, 0, len(anomalies))
	for _, a := range anomalies {
		severity := SeverityWarning
		if a.Severity == anomaly.SeverityHigh {
			severity = SeverityCritical
		}
		out = append(out, Alert{
			Kind:           KindAnomaly,
			Severity:       severity,
			Title:          fmt.Sprintf("Unusual %s spending", a.Category),
			Cause:          a.Message,
			Impact:         fmt.Sprintf("%.2f more than a typical month", a.Current-a.Baseline),
			Recommendation: "Review recent transactions in this category for one-off purchases or subscriptions you no longer use",
		})
	}
	return out
}

func utilizationAlerts(forecasts []credit.UtilizationForecast) []Alert {
	var out []Alert
	for _, f := range forecasts {
		if f.Risk == credit.RiskLow {
			continue
		}
		severity := SeverityWarning
		if f.Risk == credit.RiskHigh {
			severity = SeverityCritical
		}
		out = append(out, Alert{
			Kind:           KindUtilization,
			Severity:       severity,
			Title:          "Card utilization rising",
			Cause:          fmt.Sprintf("At the current pace the card will reach %.0f%% of its limit this cycle", f.ProjectedUtilization),
			Impact:         "High utilization lowers your credit score",
			Recommendation: fmt.Sprintf("Pay %.2f before the statement date to stay at 30%%", f.SuggestedPayment),
		})
	}
	return out
}

func healthAlert(r health.Result) (Alert, bool) {
	if r.Risk != health.RiskWarning && r.Risk != health.RiskCritical {
		return Alert{}, false
	}
	severity := SeverityWarning
	if r.Risk == health.RiskCritical {
		severity = SeverityCritical
	}
	recommendation := "Review your spending plan"
	if len(r.Suggestions) > 0 {
		recommendation = r.Suggestions[0].Message
	}
	return Alert{
		Kind:           KindHealth,
		Severity:       severity,
		Title:          fmt.Sprintf("Financial health is %s", strings.ToLower(string(r.Risk))),
		Cause:          fmt.Sprintf("Your health score dropped to %.0f", r.Score),
		Impact:         fmt.Sprintf("You are saving %.0f%% of income this month", r.SavingsRate),
		Recommendation: recommendation,
	}, true
}
