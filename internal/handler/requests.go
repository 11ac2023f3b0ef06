package handler

import (
	"time"

	"github.com/Dan9191/finhealth/internal/engine/credit"
	"github.com/Dan9191/finhealth/internal/engine/health"
	"github.com/Dan9191/finhealth/internal/engine/planning"
	"github.com/Dan9191/finhealth/internal/models"
)

// Request payloads carry numbers as models.Amount so that strings, nulls and junk are
// normalized here and never reach the engines

func floats(in []models.Amount) []float64 {
	out := make([]float64, 0, len(in))
	for _, a := range in {
		if a.Valid {
			out = append(out, a.Float())
		}
	}
	return out
}

func floatMap(in map[string]models.Amount) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v.Float()
	}
	return out
}

func seriesMap(in map[string][]models.Amount) map[string][]float64 {
	out := make(map[string][]float64, len(in))
	for k, v := range in {
		out[k] = floats(v)
	}
	return out
}

type scheduleRequest struct {
	Principal  models.Amount `json:"principal"`
	AnnualRate models.Amount `json:"annual_rate"`
	Months     int           `json:"months"`
	StartDate  time.Time     `json:"start_date"`
	EMI        models.Amount `json:"emi"`
}

type interestRateRequest struct {
	Principal models.Amount `json:"principal"`
	EMI       models.Amount `json:"emi"`
	Months    int           `json:"months"`
}

type forecastRequest struct {
	Values          []models.Amount `json:"values"`
	ConfidenceLevel int             `json:"confidence_level"`
}

type utilizationRequest struct {
	CreditLimit models.Amount `json:"credit_limit"`
	Balance     models.Amount `json:"balance"`
	DaysElapsed int           `json:"days_elapsed"`
	CycleDays   int           `json:"cycle_days"`
}

type dtiRequest struct {
	MonthlyDebt   models.Amount `json:"monthly_debt"`
	MonthlyIncome models.Amount `json:"monthly_income"`
}

type anomalyRequest struct {
	History map[string][]models.Amount `json:"history"`
	Current map[string]models.Amount   `json:"current"`
}

type healthRequest struct {
	Income              models.Amount `json:"income"`
	FixedExpenses       models.Amount `json:"fixed_expenses"`
	VariableExpenses    models.Amount `json:"variable_expenses"`
	EMI                 models.Amount `json:"emi"`
	PendingBorrowed     models.Amount `json:"pending_borrowed"`
	CardUtilization     models.Amount `json:"card_utilization"`
	ProjectedSpend      models.Amount `json:"projected_spend"`
	OverBudget          []string      `json:"over_budget"`
	ProjectedOverBudget []string      `json:"projected_over_budget"`
}

func (r healthRequest) input() health.Input {
	return health.Input{
		Income:              r.Income.Float(),
		FixedExpenses:       r.FixedExpenses.Float(),
		VariableExpenses:    r.VariableExpenses.Float(),
		EMI:                 r.EMI.Float(),
		PendingBorrowed:     r.PendingBorrowed.Float(),
		CardUtilization:     r.CardUtilization.Float(),
		ProjectedSpend:      r.ProjectedSpend.Float(),
		OverBudget:          r.OverBudget,
		ProjectedOverBudget: r.ProjectedOverBudget,
	}
}

type budgetUsageRequest struct {
	Category  string        `json:"category"`
	Limit     models.Amount `json:"limit"`
	Spent     models.Amount `json:"spent"`
	Threshold models.Amount `json:"threshold"`
}

func usages(in []budgetUsageRequest) []models.BudgetUsage {
	out := make([]models.BudgetUsage, 0, len(in))
	for _, b := range in {
		out = append(out, models.BudgetUsage{
			Category:  b.Category,
			Limit:     b.Limit.Float(),
			Spent:     b.Spent.Float(),
			Threshold: b.Threshold.Float(),
		})
	}
	return out
}

type dimensionsRequest struct {
	Income           models.Amount        `json:"income"`
	FixedExpenses    models.Amount        `json:"fixed_expenses"`
	VariableExpenses models.Amount        `json:"variable_expenses"`
	EMI              models.Amount        `json:"emi"`
	LiquidAssets     models.Amount        `json:"liquid_assets"`
	Savings          models.Amount        `json:"savings"`
	CardUtilization  models.Amount        `json:"card_utilization"`
	Budgets          []budgetUsageRequest `json:"budgets"`
}

func (r dimensionsRequest) input() health.DimensionInput {
	return health.DimensionInput{
		Income:           r.Income.Float(),
		FixedExpenses:    r.FixedExpenses.Float(),
		VariableExpenses: r.VariableExpenses.Float(),
		EMI:              r.EMI.Float(),
		LiquidAssets:     r.LiquidAssets.Float(),
		Savings:          r.Savings.Float(),
		CardUtilization:  r.CardUtilization.Float(),
		Budgets:          usages(r.Budgets),
	}
}

type budgetSuggestionRequest struct {
	History map[string][]models.Amount `json:"history"`
	Limits  map[string]models.Amount   `json:"limits"`
}

type rebalanceRequest struct {
	Budgets   []budgetUsageRequest `json:"budgets"`
	Protected []string             `json:"protected"` // extends the configured registry
}

type cashFlowRequest struct {
	Income           models.Amount           `json:"income"`
	FixedExpenses    models.Amount           `json:"fixed_expenses"`
	VariableExpenses models.Amount           `json:"variable_expenses"`
	EMI              models.Amount           `json:"emi"`
	StartingBalance  models.Amount           `json:"starting_balance"`
	Months           int                     `json:"months"`
	Start            time.Time               `json:"start"`
	IncomeChanges    []incomeChangeRequest   `json:"income_changes"`
	PlannedExpenses  []plannedExpenseRequest `json:"planned_expenses"`
	Overrides        []monthOverrideRequest  `json:"overrides"`
}

type incomeChangeRequest struct {
	Month  int           `json:"month"`
	Income models.Amount `json:"income"`
}

type plannedExpenseRequest struct {
	Month       int           `json:"month"`
	Amount      models.Amount `json:"amount"`
	Description string        `json:"description"`
}

type monthOverrideRequest struct {
	Month    int           `json:"month"`
	Income   models.Amount `json:"income"`
	Expenses models.Amount `json:"expenses"`
}

func (r cashFlowRequest) input() planning.CashFlowInput {
	return planning.CashFlowInput{
		Income:           r.Income.Float(),
		FixedExpenses:    r.FixedExpenses.Float(),
		VariableExpenses: r.VariableExpenses.Float(),
		EMI:              r.EMI.Float(),
		StartingBalance:  r.StartingBalance.Float(),
		Months:           r.Months,
		Start:            r.Start,
		IncomeChanges:    r.incomeChanges(),
		PlannedExpenses:  r.plannedExpenses(),
		Overrides:        r.overrides(),
	}
}

func (r cashFlowRequest) incomeChanges() []planning.IncomeChange {
	out := make([]planning.IncomeChange, 0, len(r.IncomeChanges))
	for _, c := range r.IncomeChanges {
		out = append(out, planning.IncomeChange{Month: c.Month, Income: c.Income.Float()})
	}
	return out
}

func (r cashFlowRequest) plannedExpenses() []planning.PlannedExpense {
	out := make([]planning.PlannedExpense, 0, len(r.PlannedExpenses))
	for _, e := range r.PlannedExpenses {
		out = append(out, planning.PlannedExpense{Month: e.Month, Amount: e.Amount.Float(), Description: e.Description})
	}
	return out
}

func (r cashFlowRequest) overrides() []planning.MonthOverride {
	out := make([]planning.MonthOverride, 0, len(r.Overrides))
	for _, o := range r.Overrides {
		out = append(out, planning.MonthOverride{Month: o.Month, Income: o.Income.Float(), Expenses: o.Expenses.Float()})
	}
	return out
}

type goalRequest struct {
	Name                string        `json:"name"`
	TargetAmount        models.Amount `json:"target_amount"`
	CurrentAmount       models.Amount `json:"current_amount"`
	MonthlyContribution models.Amount `json:"monthly_contribution"`
	TargetDate          *time.Time    `json:"target_date"`
}

func (r goalRequest) goal() models.SavingsGoal {
	return models.SavingsGoal{
		Name:          r.Name,
		TargetAmount:  r.TargetAmount.Float(),
		CurrentAmount: r.CurrentAmount.Float(),
		Monthly:       r.MonthlyContribution.Float(),
		TargetDate:    r.TargetDate,
	}
}

type freedomRequest struct {
	MonthlyExpenses    models.Amount `json:"monthly_expenses"`
	EmergencyFund      models.Amount `json:"emergency_fund"`
	EmergencyTarget    models.Amount `json:"emergency_target"`
	MonthlySavings     models.Amount `json:"monthly_savings"`
	TotalDebt          models.Amount `json:"total_debt"`
	MonthlyDebtPayment models.Amount `json:"monthly_debt_payment"`
}

func (r freedomRequest) input(now time.Time) planning.FreedomInput {
	return planning.FreedomInput{
		MonthlyExpenses:    r.MonthlyExpenses.Float(),
		EmergencyFund:      r.EmergencyFund.Float(),
		EmergencyTarget:    r.EmergencyTarget.Float(),
		MonthlySavings:     r.MonthlySavings.Float(),
		TotalDebt:          r.TotalDebt.Float(),
		MonthlyDebtPayment: r.MonthlyDebtPayment.Float(),
		Now:                now,
	}
}

type stressRequest struct {
	Income           models.Amount `json:"income"`
	FixedExpenses    models.Amount `json:"fixed_expenses"`
	VariableExpenses models.Amount `json:"variable_expenses"`
	EMI              models.Amount `json:"emi"`
	EmergencyFund    models.Amount `json:"emergency_fund"`
	ShockPercent     models.Amount `json:"shock_percent"`
}

func (r stressRequest) input() planning.StressInput {
	return planning.StressInput{
		Income:           r.Income.Float(),
		FixedExpenses:    r.FixedExpenses.Float(),
		VariableExpenses: r.VariableExpenses.Float(),
		EMI:              r.EMI.Float(),
		EmergencyFund:    r.EmergencyFund.Float(),
		ShockPercent:     r.ShockPercent.Ptr(),
	}
}

type whatIfRequest struct {
	Income        models.Amount `json:"income"`
	Expenses      models.Amount `json:"expenses"`
	IncomeChange  models.Amount `json:"income_change"`
	ExpenseChange models.Amount `json:"expense_change"`
	NewEMI        models.Amount `json:"new_emi"`
	CurrentScore  models.Amount `json:"current_score"`
}

func (r whatIfRequest) input() planning.WhatIfInput {
	return planning.WhatIfInput{
		Income:        r.Income.Float(),
		Expenses:      r.Expenses.Float(),
		IncomeChange:  r.IncomeChange.Float(),
		ExpenseChange: r.ExpenseChange.Float(),
		NewEMI:        r.NewEMI.Float(),
		CurrentScore:  r.CurrentScore.Float(),
	}
}

type creditScoreRequest struct {
	OnTimePayments  int           `json:"on_time_payments"`
	TotalPayments   int           `json:"total_payments"`
	Utilization     models.Amount `json:"utilization"`
	CreditAgeMonths int           `json:"credit_age_months"`
	AccountTypes    []string      `json:"account_types"`
	AccountCount    int           `json:"account_count"`
	Inquiries       int           `json:"inquiries"`
}

func (r creditScoreRequest) input() credit.ScoreInput {
	return credit.ScoreInput{
		OnTimePayments:  r.OnTimePayments,
		TotalPayments:   r.TotalPayments,
		Utilization:     r.Utilization.Float(),
		CreditAgeMonths: r.CreditAgeMonths,
		AccountTypes:    r.AccountTypes,
		AccountCount:    r.AccountCount,
		Inquiries:       r.Inquiries,
	}
}
