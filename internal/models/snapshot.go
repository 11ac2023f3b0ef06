package models

import "time"

// Snapshot is a read-only view of one user's records for a reporting month.
// It is assembled by the repository and never mutated by the engines.
type Snapshot struct {
	UserID          int64          `json:"user_id"`
	Month           time.Time      `json:"month"`
	Incomes         []IncomeEntry  `json:"incomes"`
	Expenses        []ExpenseEntry `json:"expenses"` // current month and history
	FixedExpenses   []FixedExpense `json:"fixed_expenses"`
	Loans           []Loan         `json:"loans"`
	Cards           []CreditCard   `json:"cards"`
	Budgets         []Budget       `json:"budgets"`
	Goals           []SavingsGoal  `json:"goals"`
	LiquidAssets    float64        `json:"liquid_assets"`
	PendingBorrowed float64        `json:"pending_borrowed"` // money lent out and not yet returned
	CreditInquiries int            `json:"credit_inquiries"`
}

// CategoryAmount pairs a category label with an amount
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// DatedAmount pairs a date with an amount
type DatedAmount struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// BudgetUsage is a budget limit alongside what was spent against it this month
type BudgetUsage struct {
	Category  string  `json:"category"`
	Limit     float64 `json:"limit"`
	Spent     float64 `json:"spent"`
	Threshold float64 `json:"threshold,omitempty"` // alert threshold, percent
}

// Used returns spend as a percentage of the limit, 0 when there is no limit
func (u BudgetUsage) Used() float64 {
	if u.Limit <= 0 {
		return 0
	}
	return u.Spent / u.Limit * 100
}
