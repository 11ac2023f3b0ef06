package planning

import (
	"github.com/Dan9191/finhealth/internal/utils"
)

// WhatIfInput is the current month and the proposed change to it. Expenses include
// existing installments; NewEMI is an additional installment on top.
type WhatIfInput struct {
	Income        float64 `json:"income"`
	Expenses      float64 `json:"expenses"`
	IncomeChange  float64 `json:"income_change"`
	ExpenseChange float64 `json:"expense_change"`
	NewEMI        float64 `json:"new_emi"`
	CurrentScore  float64 `json:"current_score"`
}

// WhatIfResult compares the month before and after the change
type WhatIfResult struct {
	CurrentSavings     float64 `json:"current_savings"`
	NewSavings         float64 `json:"new_savings"`
	SavingsChange      float64 `json:"savings_change"`
	CurrentSavingsRate float64 `json:"current_savings_rate"` // percent
	NewSavingsRate     float64 `json:"new_savings_rate"`     // percent
	NewEMIRatio        float64 `json:"new_emi_ratio"`
	ScoreDelta         float64 `json:"score_delta"`
	CurrentScore       float64 `json:"current_score"`
	ProjectedScore     float64 `json:"projected_score"`
	Recommendation     string  `json:"recommendation"`
}

// WhatIf estimates the effect of an income, expense or new-loan change. The score
// delta is savingsRateChange*50 - newEMIRatio*30 with rates as fractions.
func WhatIf(in WhatIfInput) WhatIfResult {
	income := utils.NonNegative(in.Income + in.IncomeChange)
	expenses := utils.NonNegative(in.Expenses+in.ExpenseChange) + utils.NonNegative(in.NewEMI)

	currentSavings := in.Income - in.Expenses
	newSavings := income - expenses
	currentRate := utils.Ratio(currentSavings, in.Income)
	newRate := utils.Ratio(newSavings, income)
	emiRatio := utils.Ratio(utils.NonNegative(in.NewEMI), income)

	delta := (newRate-currentRate)*50 - emiRatio*30
	projected := utils.Clamp(in.CurrentScore+delta, 0, 100)

	return WhatIfResult{
		CurrentSavings:     utils.Round2(currentSavings),
		NewSavings:         utils.Round2(newSavings),
		SavingsChange:      utils.Round2(newSavings - currentSavings),
		CurrentSavingsRate: utils.Round2(currentRate * 100),
		NewSavingsRate:     utils.Round2(newRate * 100),
		NewEMIRatio:        utils.Round(emiRatio, 4),
		ScoreDelta:         utils.Round2(delta),
		CurrentScore:       utils.Round2(in.CurrentScore),
		ProjectedScore:     utils.Round2(projected),
		Recommendation:     whatIfRecommendation(newSavings, delta),
	}
}

func whatIfRecommendation(newSavings, delta float64) string {
	switch {
	case newSavings < 0:
		return "This change would leave you spending more than you earn each month, avoid it or offset it elsewhere"
	case delta <= -10:
		return "This change significantly weakens your financial health, reconsider the amount or timing"
	case delta < 0:
		return "This change slightly reduces your financial health, make sure the benefit is worth it"
	case delta >= 5:
		return "This change clearly improves your financial health"
	default:
		return "This change has little impact on your financial health"
	}
}
