// Package aggregate reduces raw records into the per-month and per-category totals the
// engines consume.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/Dan9191/finhealth/internal/engine/amortization"
	"github.com/Dan9191/finhealth/internal/models"
	"github.com/Dan9191/finhealth/internal/utils"
)

// UncategorizedLabel is used for expenses recorded without a category
const UncategorizedLabel = "Uncategorized"

// Totals are one month's headline figures
type Totals struct {
	Income          float64 `json:"income"`
	Fixed           float64 `json:"fixed"`
	Variable        float64 `json:"variable"`
	EMI             float64 `json:"emi"`
	TotalExpenses   float64 `json:"total_expenses"`
	Savings         float64 `json:"savings"`
	SavingsRate     float64 `json:"savings_rate"` // percent
	DebtOutstanding float64 `json:"debt_outstanding"`
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func category(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return UncategorizedLabel
	}
	return c
}

// CategoryKey folds a category label for matching budgets against recorded spend
func CategoryKey(c string) string {
	return strings.ToLower(category(c))
}

// IncomeForMonth sums incomes dated in month
func IncomeForMonth(incomes []models.IncomeEntry, month time.Time) float64 {
	total := 0.0
	for _, in := range incomes {
		if sameMonth(in.Date, month) {
			total += utils.NonNegative(in.Amount)
		}
	}
	return total
}

// ExpensesForMonth returns the expenses dated in month
func ExpensesForMonth(expenses []models.ExpenseEntry, month time.Time) []models.ExpenseEntry {
	var out []models.ExpenseEntry
	for _, e := range expenses {
		if sameMonth(e.Date, month) {
			out = append(out, e)
		}
	}
	return out
}

// FixedTotal sums recurring monthly obligations
func FixedTotal(fixed []models.FixedExpense) float64 {
	total := 0.0
	for _, f := range fixed {
		total += utils.NonNegative(f.Amount)
	}
	return total
}

// LoanInstallment returns a loan's EMI, deriving it from principal, rate and term when
// it was not recorded
func LoanInstallment(l models.Loan) float64 {
	if emi := l.Installment(); emi > 0 {
		return emi
	}
	return amortization.CalculateEMI(l.Principal, l.Rate(), l.TermMonths)
}

// EMITotal sums installments of loans that still have months to pay
func EMITotal(loans []models.Loan) float64 {
	total := 0.0
	for _, l := range loans {
		if l.TermMonths > 0 && l.RemainingMonths() == 0 {
			continue
		}
		total += LoanInstallment(l)
	}
	return total
}

// DebtOutstanding approximates the principal still owed across loans
func DebtOutstanding(loans []models.Loan) float64 {
	total := 0.0
	for _, l := range loans {
		if l.Principal <= 0 || l.TermMonths <= 0 {
			continue
		}
		sch := amortization.CalculateAmortizationSchedule(l.Principal, l.Rate(), l.TermMonths, l.StartDate, l.Installment())
		total += amortization.OutstandingPrincipal(sch, l.PaidMonths)
	}
	return utils.Round2(total)
}

// MonthTotals computes the headline figures for the snapshot's month
func MonthTotals(s models.Snapshot) Totals {
	t := Totals{
		Income: IncomeForMonth(s.Incomes, s.Month),
		Fixed:  FixedTotal(s.FixedExpenses),
		EMI:    EMITotal(s.Loans),
	}
	for _, e := range ExpensesForMonth(s.Expenses, s.Month) {
		t.Variable += utils.NonNegative(e.Amount)
	}
	t.TotalExpenses = t.Fixed + t.Variable + t.EMI
	t.Savings = t.Income - t.TotalExpenses
	t.SavingsRate = utils.Round2(utils.Ratio(t.Savings, t.Income) * 100)
	t.DebtOutstanding = DebtOutstanding(s.Loans)

	t.Income = utils.Round2(t.Income)
	t.Fixed = utils.Round2(t.Fixed)
	t.Variable = utils.Round2(t.Variable)
	t.EMI = utils.Round2(t.EMI)
	t.TotalExpenses = utils.Round2(t.TotalExpenses)
	t.Savings = utils.Round2(t.Savings)
	return t
}

// ByCategory totals expenses per category, largest first
func ByCategory(expenses []models.ExpenseEntry) []models.CategoryAmount {
	totals := map[string]float64{}
	for _, e := range expenses {
		totals[category(e.Category)] += utils.NonNegative(e.Amount)
	}
	out := make([]models.CategoryAmount, 0, len(totals))
	for c, amount := range totals {
		out = append(out, models.CategoryAmount{Category: c, Amount: utils.Round2(amount)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount == out[j].Amount {
			return out[i].Category < out[j].Category
		}
		return out[i].Amount > out[j].Amount
	})
	return out
}

// CategoryMap totals expenses per category
func CategoryMap(expenses []models.ExpenseEntry) map[string]float64 {
	out := map[string]float64{}
	for _, c := range ByCategory(expenses) {
		out[c.Category] = c.Amount
	}
	return out
}

// CategoryHistory returns, per category, chronological monthly totals for the months
// before current. Each series starts at the category's first recorded month and has
// zero-filled gaps.
func CategoryHistory(expenses []models.ExpenseEntry, current time.Time) map[string][]float64 {
	cutoff := utils.MonthStart(current)
	byMonth := map[string]map[string]float64{}
	first := map[string]time.Time{}
	for _, e := range expenses {
		if !e.Date.Before(cutoff) {
			continue
		}
		c := category(e.Category)
		key := utils.MonthKey(e.Date)
		if byMonth[c] == nil {
			byMonth[c] = map[string]float64{}
		}
		byMonth[c][key] += utils.NonNegative(e.Amount)
		m := utils.MonthStart(e.Date)
		if f, ok := first[c]; !ok || m.Before(f) {
			first[c] = m
		}
	}

	out := make(map[string][]float64, len(byMonth))
	for c, months := range byMonth {
		var series []float64
		for m := first[c]; m.Before(cutoff); m = m.AddDate(0, 1, 0) {
			series = append(series, utils.Round2(months[utils.MonthKey(m)]))
		}
		out[c] = series
	}
	return out
}

// MonthlySeries totals dated amounts per calendar month, oldest first, zero-filling
// months without entries
func MonthlySeries(entries []models.DatedAmount) []float64 {
	if len(entries) == 0 {
		return nil
	}
	totals := map[string]float64{}
	first, last := utils.MonthStart(entries[0].Date), utils.MonthStart(entries[0].Date)
	for _, e := range entries {
		m := utils.MonthStart(e.Date)
		totals[utils.MonthKey(m)] += e.Amount
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}
	var out []float64
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, utils.Round2(totals[utils.MonthKey(m)]))
	}
	return out
}

// ExpenseSeries converts expenses to dated amounts
func ExpenseSeries(expenses []models.ExpenseEntry) []models.DatedAmount {
	out := make([]models.DatedAmount, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, models.DatedAmount{Date: e.Date, Amount: utils.NonNegative(e.Amount)})
	}
	return out
}
