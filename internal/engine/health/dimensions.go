package health

import (
	"github.com/Dan9191/finhealth/internal/models"
	"github.com/Dan9191/finhealth/internal/utils"
)

// Dimension weights
const (
	WeightLiquidity  = 0.2
	WeightStability  = 0.2
	WeightRisk       = 0.25
	WeightDiscipline = 0.15
	WeightGrowth     = 0.2
)

// DimensionInput is the data the five-axis score needs
type DimensionInput struct {
	Income           float64              `json:"income"`
	FixedExpenses    float64              `json:"fixed_expenses"`
	VariableExpenses float64              `json:"variable_expenses"`
	EMI              float64              `json:"emi"`
	LiquidAssets     float64              `json:"liquid_assets"`
	Savings          float64              `json:"savings"` // balance held in savings goals
	CardUtilization  float64              `json:"card_utilization"`
	Budgets          []models.BudgetUsage `json:"budgets"`
}

// Dimensions is the five-axis score and its weighted overall value
type Dimensions struct {
	Liquidity  float64 `json:"liquidity"`
	Stability  float64 `json:"stability"`
	Risk       float64 `json:"risk"`
	Discipline float64 `json:"discipline"`
	Growth     float64 `json:"growth"`
	Overall    float64 `json:"overall"`
	Band       Risk    `json:"band"`
}

// CalculateDimensions scores each axis on 0-100 and combines them
func CalculateDimensions(in DimensionInput) Dimensions {
	d := Dimensions{
		Liquidity:  Liquidity(in.LiquidAssets+in.Savings, in.FixedExpenses+in.VariableExpenses+in.EMI),
		Stability:  Stability(in.FixedExpenses+in.EMI, in.Income),
		Risk:       RiskDimension(in.CardUtilization, utils.Ratio(in.EMI, in.Income)),
		Discipline: Discipline(in.Budgets),
		Growth:     Growth(utils.Ratio(in.Income-in.FixedExpenses-in.VariableExpenses-in.EMI, in.Income) * 100),
	}
	overall := d.Liquidity*WeightLiquidity +
		d.Stability*WeightStability +
		d.Risk*WeightRisk +
		d.Discipline*WeightDiscipline +
		d.Growth*WeightGrowth
	d.Overall = utils.Round2(utils.Clamp(overall, 0, maxScore))
	d.Band = RiskFor(d.Overall)
	return d
}

// Liquidity scores the months of expenses the buffer covers
func Liquidity(buffer, monthlyExpenses float64) float64 {
	if monthlyExpenses <= 0 {
		if buffer > 0 {
			return 100
		}
		return NeutralScore
	}
	months := buffer / monthlyExpenses
	switch {
	case months >= 6:
		return 100
	case months >= 3:
		return 75
	case months >= 1:
		return 50
	case months > 0:
		return 25
	default:
		return 0
	}
}

// Stability scores the share of income committed to fixed costs and installments
func Stability(committed, income float64) float64 {
	if income <= 0 {
		return NeutralScore
	}
	ratio := committed / income
	switch {
	case ratio <= 0.3:
		return 100
	case ratio <= 0.5:
		return 75
	case ratio <= 0.7:
		return 50
	default:
		return 25
	}
}

// RiskDimension deducts for card utilization and installment load
func RiskDimension(cardUtilization, emiRatio float64) float64 {
	score := maxScore
	switch {
	case cardUtilization > 0.7:
		score -= 40
	case cardUtilization > 0.5:
		score -= 25
	case cardUtilization > 0.3:
		score -= 10
	}
	switch {
	case emiRatio > 0.5:
		score -= 40
	case emiRatio > 0.4:
		score -= 25
	case emiRatio > 0.3:
		score -= 10
	}
	return utils.Clamp(score, 0, maxScore)
}

// Discipline averages per-category adherence. A category over its limit loses a
// point per percent of overspend, and when more than half the categories are over
// the average is cut by a fifth.
func Discipline(budgets []models.BudgetUsage) float64 {
	var (
		total float64
		n     int
		over  int
	)
	for _, b := range budgets {
		if b.Limit <= 0 {
			continue
		}
		n++
		used := b.Used()
		if used > 100 {
			over++
			total += utils.NonNegative(200 - used)
			continue
		}
		total += 100
	}
	if n == 0 {
		return NeutralScore
	}
	avg := total / float64(n)
	if float64(over) > float64(n)/2 {
		avg *= 0.8
	}
	return utils.Round2(avg)
}

// Growth scores the savings rate in percent
func Growth(savingsRate float64) float64 {
	switch {
	case savingsRate >= 30:
		return 100
	case savingsRate >= 20:
		return 80
	case savingsRate >= 10:
		return 60
	case savingsRate > 0:
		return 40
	default:
		return 20
	}
}
