// Package planning projects cash flow forward and answers goal, freedom-date,
// stress and what-if questions.
package planning

import (
	"time"

	"github.com/Dan9191/finhealth/internal/utils"
)

// MaxSimulationMonths bounds every forward projection
const MaxSimulationMonths = 600

// Risk is a planning risk level
type Risk string

const (
	RiskLow    Risk = "LOW"
	RiskMedium Risk = "MEDIUM"
	RiskHigh   Risk = "HIGH"
)

// FlowStatus is the sign of a month's net flow
type FlowStatus string

const (
	FlowPositive FlowStatus = "POSITIVE"
	FlowNegative FlowStatus = "NEGATIVE"
)

// IncomeChange sets monthly income from Month (1-based) onward
type IncomeChange struct {
	Month  int     `json:"month"`
	Income float64 `json:"income"`
}

// PlannedExpense is a one-off outflow in Month
type PlannedExpense struct {
	Month       int     `json:"month"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// MonthOverride replaces a month's income and total expenses outright
type MonthOverride struct {
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// CashFlowInput describes the recurring budget and the scheduled deviations from it
type CashFlowInput struct {
	Income           float64          `json:"income"`
	FixedExpenses    float64          `json:"fixed_expenses"`
	VariableExpenses float64          `json:"variable_expenses"`
	EMI              float64          `json:"emi"`
	StartingBalance  float64          `json:"starting_balance"`
	Months           int              `json:"months"`
	Start            time.Time        `json:"start"`
	IncomeChanges    []IncomeChange   `json:"income_changes,omitempty"`
	PlannedExpenses  []PlannedExpense `json:"planned_expenses,omitempty"`
	Overrides        []MonthOverride  `json:"overrides,omitempty"`
}

// MonthFlow is one simulated month
type MonthFlow struct {
	Month    int        `json:"month"`
	Date     *time.Time `json:"date,omitempty"`
	Income   float64    `json:"income"`
	Expenses float64    `json:"expenses"`
	NetFlow  float64    `json:"net_flow"`
	Balance  float64    `json:"balance"`
	Status   FlowStatus `json:"status"`
}

// CashFlow is the simulation result
type CashFlow struct {
	Months         []MonthFlow `json:"months"`
	NegativeMonths int         `json:"negative_months"`
	LowestBalance  float64     `json:"lowest_balance"`
	FinalBalance   float64     `json:"final_balance"`
	Risk           Risk        `json:"risk"`
}

// SimulateCashFlow runs month 1..N carrying a running balance. An override for a month
// takes precedence over income changes and planned expenses for that month.
func SimulateCashFlow(in CashFlowInput) CashFlow {
	months := in.Months
	if months > MaxSimulationMonths {
		months = MaxSimulationMonths
	}
	result := CashFlow{
		Months:        make([]MonthFlow, 0, max(months, 0)),
		LowestBalance: utils.Round2(in.StartingBalance),
		FinalBalance:  utils.Round2(in.StartingBalance),
		Risk:          RiskLow,
	}
	if months <= 0 {
		return result
	}

	overrides := make(map[int]MonthOverride, len(in.Overrides))
	for _, o := range in.Overrides {
		overrides[o.Month] = o
	}
	planned := map[int]float64{}
	for _, p := range in.PlannedExpenses {
		planned[p.Month] += utils.NonNegative(p.Amount)
	}

	recurring := in.FixedExpenses + in.VariableExpenses + in.EMI
	income := in.Income
	balance := in.StartingBalance
	for m := 1; m <= months; m++ {
		for _, c := range in.IncomeChanges {
			if c.Month == m {
				income = c.Income
			}
		}

		monthIncome, expenses := income, recurring+planned[m]
		if o, ok := overrides[m]; ok {
			monthIncome, expenses = o.Income, o.Expenses
		}

		net := utils.Round2(monthIncome - expenses)
		balance = utils.Round2(balance + net)
		flow := MonthFlow{
			Month:    m,
			Income:   utils.Round2(monthIncome),
			Expenses: utils.Round2(expenses),
			NetFlow:  net,
			Balance:  balance,
			Status:   FlowPositive,
		}
		if !in.Start.IsZero() {
			d := utils.AddMonths(in.Start, m-1)
			flow.Date = &d
		}
		if net < 0 {
			flow.Status = FlowNegative
			result.NegativeMonths++
		}
		if balance < result.LowestBalance || m == 1 {
			result.LowestBalance = balance
		}
		result.Months = append(result.Months, flow)
	}
	result.FinalBalance = balance
	result.Risk = cashFlowRisk(result.NegativeMonths)
	return result
}

func cashFlowRisk(negative int) Risk {
	switch {
	case negative == 0:
		return RiskLow
	case negative <= 2:
		return RiskMedium
	default:
		return RiskHigh
	}
}
