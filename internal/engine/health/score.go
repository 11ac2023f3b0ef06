// Package health scores a month of personal finances on a 0-100 scale, as a single
// composite with penalties and bonuses and as five weighted dimensions.
package health

import (
	"math"
	"sort"

	"github.com/Dan9191/finhealth/internal/utils"
)

// Risk is the band a health score falls into
type Risk string

const (
	RiskExcellent Risk = "EXCELLENT"
	RiskGood      Risk = "GOOD"
	RiskStable    Risk = "STABLE"
	RiskWarning   Risk = "WARNING"
	RiskCritical  Risk = "CRITICAL"
)

const (
	maxScore = 100.0
	// NeutralScore is returned when there is no income to score against
	NeutralScore = 50.0
)

// Input is one month's normalized figures. Ratios are computed against Income.
type Input struct {
	Income           float64 `json:"income"`
	FixedExpenses    float64 `json:"fixed_expenses"`
	VariableExpenses float64 `json:"variable_expenses"`
	EMI              float64 `json:"emi"`
	PendingBorrowed  float64 `json:"pending_borrowed"`
	CardUtilization  float64 `json:"card_utilization"` // fraction of total card limit
	ProjectedSpend   float64 `json:"projected_spend"`  // projected month-end variable spend

	OverBudget          []string `json:"over_budget,omitempty"`
	ProjectedOverBudget []string `json:"projected_over_budget,omitempty"`
}

// Factor is a single penalty (negative) or bonus (positive) applied to the score
type Factor struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"` // the ratio or percentage that triggered it
	Points float64 `json:"points"`
}

// Result is the composite health score
type Result struct {
	Score       float64      `json:"score"`
	Risk        Risk         `json:"risk"`
	Savings     float64      `json:"savings"`
	SavingsRate float64      `json:"savings_rate"` // percent
	EMIRatio    float64      `json:"emi_ratio"`
	Factors     []Factor     `json:"factors"`
	Suggestions []Suggestion `json:"suggestions"`
}

// RiskFor maps a score to its band
func RiskFor(score float64) Risk {
	switch {
	case score >= 80:
		return RiskExcellent
	case score >= 65:
		return RiskGood
	case score >= 50:
		return RiskStable
	case score >= 35:
		return RiskWarning
	default:
		return RiskCritical
	}
}

// Calculate returns the composite score. Starting from 100, each rule contributes
// independently and the total is clamped to [0, 100].
func Calculate(in Input) Result {
	if in.Income <= 0 {
		return Result{
			Score:   NeutralScore,
			Risk:    RiskFor(NeutralScore),
			Factors: []Factor{},
			Suggestions: []Suggestion{{
				Type:     SuggestionNoIncome,
				Priority: PriorityHigh,
				Message:  "Record this month's income to get a meaningful health score",
			}},
		}
	}

	emiRatio := in.EMI / in.Income
	variableRatio := in.VariableExpenses / in.Income
	borrowRatio := in.PendingBorrowed / in.Income
	velocity := in.ProjectedSpend / in.Income
	savings := in.Income - in.FixedExpenses - in.VariableExpenses - in.EMI
	savingsRate := savings / in.Income * 100

	factors := []Factor{
		{Name: "emi_ratio", Value: emiRatio, Points: -EMIPenalty(emiRatio)},
		{Name: "variable_expenses", Value: variableRatio, Points: -VariablePenalty(variableRatio)},
		{Name: "pending_borrowed", Value: borrowRatio, Points: -BorrowPenalty(borrowRatio)},
		{Name: "savings_rate", Value: savingsRate, Points: SavingsAdjustment(savingsRate)},
		{Name: "card_utilization", Value: in.CardUtilization, Points: -UtilizationPenalty(in.CardUtilization)},
		{Name: "spending_velocity", Value: velocity, Points: -VelocityPenalty(velocity)},
	}

	score := maxScore
	for i := range factors {
		score += factors[i].Points
		factors[i].Value = utils.Round(factors[i].Value, 4)
		factors[i].Points = utils.Round2(factors[i].Points)
	}
	score = utils.Round2(utils.Clamp(score, 0, maxScore))

	return Result{
		Score:       score,
		Risk:        RiskFor(score),
		Savings:     utils.Round2(savings),
		SavingsRate: utils.Round2(savingsRate),
		EMIRatio:    utils.Round(emiRatio, 4),
		Factors:     factors,
		Suggestions: suggest(in, emiRatio, savingsRate),
	}
}

// EMIPenalty grows quadratically once installments exceed 30% of income, capped at 60
func EMIPenalty(ratio float64) float64 {
	if ratio <= 0.3 {
		return 0
	}
	x := (ratio - 0.3) * 10
	return math.Min(60, x*x*1.5)
}

// VariablePenalty is proportional to variable spend, capped at 20
func VariablePenalty(ratio float64) float64 {
	return math.Min(utils.NonNegative(ratio)*40, 20)
}

// BorrowPenalty applies to money lent out and not yet returned
func BorrowPenalty(ratio float64) float64 {
	if ratio > 0.2 {
		return 15
	}
	return utils.NonNegative(ratio) * 60
}

// SavingsAdjustment stacks the savings bonuses, +5 from 20% and a further +10 from
// 30%, and penalizes rates under 10%
func SavingsAdjustment(ratePercent float64) float64 {
	if ratePercent < 10 {
		return -20
	}
	bonus := 0.0
	if ratePercent >= 20 {
		bonus += 5
	}
	if ratePercent >= 30 {
		bonus += 10
	}
	return bonus
}

// UtilizationPenalty grows once card utilization exceeds 30%, capped at 50
func UtilizationPenalty(util float64) float64 {
	if util <= 0.3 {
		return 0
	}
	return math.Min(50, math.Pow((util-0.3)*10, 1.8))
}

// VelocityPenalty applies when projected spend exceeds 60% of income
func VelocityPenalty(ratio float64) float64 {
	if ratio > 0.6 {
		return 10
	}
	return 0
}

// SuggestionType identifies the rule that produced a suggestion
type SuggestionType string

const (
	SuggestionOverspend          SuggestionType = "OVERSPEND"
	SuggestionProjectedOverspend SuggestionType = "PROJECTED_OVERSPEND"
	SuggestionHighEMI            SuggestionType = "HIGH_EMI"
	SuggestionHighUtilization    SuggestionType = "HIGH_UTILIZATION"
	SuggestionLowSavings         SuggestionType = "LOW_SAVINGS"
	SuggestionNoIncome           SuggestionType = "NO_INCOME"
	SuggestionOnTrack            SuggestionType = "ON_TRACK"
)

// Suggestion priorities, lower sorts first
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Suggestion is an actionable recommendation
type Suggestion struct {
	Type       SuggestionType `json:"type"`
	Priority   int            `json:"priority"`
	Message    string         `json:"message"`
	Categories []string       `json:"categories,omitempty"`
}

func suggest(in Input, emiRatio, savingsRate float64) []Suggestion {
	var out []Suggestion
	if len(in.OverBudget) > 0 {
		out = append(out, Suggestion{
			Type:       SuggestionOverspend,
			Priority:   PriorityHigh,
			Message:    "Some categories are already over budget, pause discretionary spending there",
			Categories: in.OverBudget,
		})
	}
	if len(in.ProjectedOverBudget) > 0 {
		out = append(out, Suggestion{
			Type:       SuggestionProjectedOverspend,
			Priority:   PriorityMedium,
			Message:    "At the current pace these categories will exceed their budget by month end",
			Categories: in.ProjectedOverBudget,
		})
	}
	if emiRatio > 0.4 {
		out = append(out, Suggestion{
			Type:     SuggestionHighEMI,
			Priority: PriorityHigh,
			Message:  "Loan installments take over 40% of income, consider prepaying or refinancing the costliest loan",
		})
	}
	if in.CardUtilization > 0.3 {
		out = append(out, Suggestion{
			Type:     SuggestionHighUtilization,
			Priority: PriorityMedium,
			Message:  "Card utilization is above 30%, pay balances down before the statement date",
		})
	}
	if savingsRate < 10 {
		out = append(out, Suggestion{
			Type:     SuggestionLowSavings,
			Priority: PriorityHigh,
			Message:  "You are saving less than 10% of income, automate a transfer to savings on payday",
		})
	}
	if len(out) == 0 {
		out = append(out, Suggestion{
			Type:     SuggestionOnTrack,
			Priority: PriorityLow,
			Message:  "Your finances look healthy this month, keep it up",
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
