package planning

import (
	"fmt"
	"math"

	"github.com/Dan9191/finhealth/internal/utils"
)

// DefaultShockPercent is the income drop applied when none is given
const DefaultShockPercent = 30.0

// StressInput is the current budget and the shock to apply
type StressInput struct {
	Income           float64  `json:"income"`
	FixedExpenses    float64  `json:"fixed_expenses"`
	VariableExpenses float64  `json:"variable_expenses"`
	EMI              float64  `json:"emi"`
	EmergencyFund    float64  `json:"emergency_fund"`
	ShockPercent     *float64 `json:"shock_percent,omitempty"` // nil applies DefaultShockPercent
}

// StressResult reports how long the emergency fund lasts after an income shock
type StressResult struct {
	ShockPercent    float64  `json:"shock_percent"`
	ReducedIncome   float64  `json:"reduced_income"`
	TotalExpenses   float64  `json:"total_expenses"`
	Shortfall       float64  `json:"shortfall"`
	SurvivalMonths  int      `json:"survival_months"`
	Indefinite      bool     `json:"indefinite"`
	Survival        string   `json:"survival"`
	Risk            Risk     `json:"risk"`
	Recommendations []string `json:"recommendations"`
}

// StressTest cuts income by the shock percentage and measures the resulting monthly
// shortfall against the emergency fund
func StressTest(in StressInput) StressResult {
	shock := DefaultShockPercent
	if in.ShockPercent != nil {
		shock = utils.Clamp(*in.ShockPercent, 0, 100)
	}

	reduced := in.Income * (1 - shock/100)
	expenses := in.FixedExpenses + in.VariableExpenses + in.EMI
	shortfall := utils.Round2(utils.NonNegative(expenses - reduced))

	r := StressResult{
		ShockPercent:  shock,
		ReducedIncome: utils.Round2(reduced),
		TotalExpenses: utils.Round2(expenses),
		Shortfall:     shortfall,
	}
	if shortfall == 0 {
		r.Indefinite = true
		r.Survival = "indefinite"
		r.Risk = RiskLow
	} else {
		r.SurvivalMonths = int(math.Floor(utils.NonNegative(in.EmergencyFund) / shortfall))
		r.Survival = fmt.Sprintf("%d months", r.SurvivalMonths)
		r.Risk = survivalRisk(r.SurvivalMonths)
	}
	r.Recommendations = stressRecommendations(in, r)
	return r
}

func survivalRisk(months int) Risk {
	switch {
	case months >= 6:
		return RiskLow
	case months >= 3:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func stressRecommendations(in StressInput, r StressResult) []string {
	if r.Indefinite {
		return []string{fmt.Sprintf("Your income covers all expenses even after a %.0f%% drop", r.ShockPercent)}
	}
	var out []string
	switch {
	case r.SurvivalMonths < 3:
		out = append(out, fmt.Sprintf("Build your emergency fund to at least %.2f to cover three months of shortfall", r.Shortfall*3))
	case r.SurvivalMonths < 6:
		out = append(out, fmt.Sprintf("Grow your emergency fund toward %.2f to cover six months of shortfall", r.Shortfall*6))
	}
	if in.VariableExpenses > 0 {
		if r.Shortfall <= in.VariableExpenses {
			out = append(out, fmt.Sprintf("Cutting variable spending by %.2f a month would close the gap entirely", r.Shortfall))
		} else {
			out = append(out, "Trim variable spending first, it is the fastest lever in a downturn")
		}
	}
	if in.EMI > 0 && r.ReducedIncome > 0 && in.EMI/r.ReducedIncome > 0.4 {
		out = append(out, "Ask your lenders about restructuring options before a shock happens")
	}
	if len(out) == 0 {
		out = append(out, "Your emergency fund comfortably absorbs this shock")
	}
	return out
}
