package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finhealth/internal/alerts"
	"github.com/Dan9191/finhealth/internal/engine/aggregate"
	"github.com/Dan9191/finhealth/internal/engine/anomaly"
	"github.com/Dan9191/finhealth/internal/engine/budget"
	"github.com/Dan9191/finhealth/internal/engine/credit"
	"github.com/Dan9191/finhealth/internal/engine/forecast"
	"github.com/Dan9191/finhealth/internal/engine/health"
	"github.com/Dan9191/finhealth/internal/engine/planning"
	"github.com/Dan9191/finhealth/internal/models"
	"github.com/Dan9191/finhealth/internal/utils"
	"github.com/sirupsen/logrus"
)

// Report is the full monthly analysis for one user
type Report struct {
	UserID            int64                        `json:"user_id"`
	Month             string                       `json:"month"`
	GeneratedAt       time.Time                    `json:"generated_at"`
	Totals            aggregate.Totals             `json:"totals"`
	Health            health.Result                `json:"health"`
	Dimensions        health.Dimensions            `json:"dimensions"`
	Credit            credit.Score                 `json:"credit"`
	DTI               credit.DTIResult             `json:"dti"`
	Utilization       []credit.UtilizationForecast `json:"utilization"`
	SpendingForecast  forecast.IntervalForecast    `json:"spending_forecast"`
	Anomalies         []anomaly.Anomaly            `json:"anomalies"`
	Budgets           []models.BudgetUsage         `json:"budgets"`
	BudgetSuggestions []budget.Suggestion          `json:"budget_suggestions"`
	Rebalance         budget.Plan                  `json:"rebalance"`
	Goals             []planning.GoalTimeline      `json:"goals"`
	Freedom           planning.FreedomDate         `json:"freedom"`
	StressTest        planning.StressResult        `json:"stress_test"`
	Alerts            []alerts.Alert               `json:"alerts"`
}

// Report loads the user's records and runs every engine over them
func (s *Service) Report(ctx context.Context, userID int64, month time.Time) (*Report, error) {
	snap, err := s.store.LoadSnapshot(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for user %d: %w", userID, err)
	}

	at := s.referenceTime(snap.Month)
	report := Build(*snap, at, s.protected)

	s.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"month":     report.Month,
		"score":     report.Health.Score,
		"risk":      report.Health.Risk,
		"anomalies": len(report.Anomalies),
	}).Info("Report generated")
	return report, nil
}

// Build runs the engines over a snapshot evaluated at the given time
func Build(snap models.Snapshot, at time.Time, protected budget.ProtectedRegistry) *Report {
	totals := aggregate.MonthTotals(snap)
	current := aggregate.CategoryMap(aggregate.ExpensesForMonth(snap.Expenses, snap.Month))
	history := aggregate.CategoryHistory(snap.Expenses, snap.Month)

	day, daysInMonth := at.Day(), utils.DaysInMonth(snap.Month)
	if at.Year() != snap.Month.Year() || at.Month() != snap.Month.Month() {
		day = daysInMonth
	}

	// budgets match spend by folded category, so " food" tracks "Food"
	spent := make(map[string]float64, len(current))
	for c, v := range current {
		spent[aggregate.CategoryKey(c)] += v
	}
	labels := make(map[string]string, len(history))
	for c := range history {
		labels[aggregate.CategoryKey(c)] = c
	}

	usages := make([]models.BudgetUsage, 0, len(snap.Budgets))
	projected := make([]models.BudgetUsage, 0, len(snap.Budgets))
	limits := make(map[string]float64, len(snap.Budgets))
	var over, projectedOver []string
	for _, b := range snap.Budgets {
		key := aggregate.CategoryKey(b.Category)
		u := models.BudgetUsage{
			Category:  b.Category,
			Limit:     b.MonthlyLimit,
			Spent:     spent[key],
			Threshold: b.Threshold(),
		}
		usages = append(usages, u)
		p := u
		p.Spent = forecast.ProjectMonthEnd(u.Spent, day, daysInMonth)
		projected = append(projected, p)

		label, ok := labels[key]
		if !ok {
			label = b.Category
		}
		limits[label] = b.MonthlyLimit

		switch {
		case b.MonthlyLimit <= 0:
		case u.Spent > u.Limit:
			over = append(over, b.Category)
		case p.Spent > u.Limit:
			projectedOver = append(projectedOver, b.Category)
		}
	}

	var cardLimit, cardBalance float64
	utilization := make([]credit.UtilizationForecast, 0, len(snap.Cards))
	for _, card := range snap.Cards {
		cardLimit += card.CreditLimit
		cardBalance += credit.Balance(card.Transactions)
		utilization = append(utilization, credit.ForecastCard(card, at))
	}
	cardUtil := utils.Ratio(cardBalance, cardLimit)

	score := health.Calculate(health.Input{
		Income:              totals.Income,
		FixedExpenses:       totals.Fixed,
		VariableExpenses:    totals.Variable,
		EMI:                 totals.EMI,
		PendingBorrowed:     snap.PendingBorrowed,
		CardUtilization:     cardUtil,
		ProjectedSpend:      forecast.ProjectMonthEnd(totals.Variable, day, daysInMonth),
		OverBudget:          over,
		ProjectedOverBudget: projectedOver,
	})

	var goalSavings float64
	goals := make([]planning.GoalTimeline, 0, len(snap.Goals))
	for _, g := range snap.Goals {
		goalSavings += g.CurrentAmount
		goals = append(goals, planning.Timeline(g, at))
	}

	anomalies := anomaly.Detect(history, current)

	return &Report{
		UserID:      snap.UserID,
		Month:       utils.MonthKey(snap.Month),
		GeneratedAt: at,
		Totals:      totals,
		Health:      score,
		Dimensions: health.CalculateDimensions(health.DimensionInput{
			Income:           totals.Income,
			FixedExpenses:    totals.Fixed,
			VariableExpenses: totals.Variable,
			EMI:              totals.EMI,
			LiquidAssets:     snap.LiquidAssets,
			Savings:          goalSavings,
			CardUtilization:  cardUtil,
			Budgets:          usages,
		}),
		Credit:            credit.CalculateScore(credit.ProfileFromSnapshot(snap, at)),
		DTI:               credit.DebtToIncome(totals.EMI, totals.Income),
		Utilization:       utilization,
		SpendingForecast:  forecast.PredictWithConfidence(monthlySpendHistory(snap), forecast.DefaultConfidenceLevel),
		Anomalies:         anomalies,
		Budgets:           usages,
		BudgetSuggestions: budget.SuggestAll(history, limits),
		Rebalance:         budget.Rebalance(projected, protected),
		Goals:             goals,
		Freedom: planning.CalculateFreedomDate(planning.FreedomInput{
			MonthlyExpenses:    totals.TotalExpenses,
			EmergencyFund:      snap.LiquidAssets,
			MonthlySavings:     utils.NonNegative(totals.Savings),
			TotalDebt:          totals.DebtOutstanding + cardBalance,
			MonthlyDebtPayment: totals.EMI,
			Now:                at,
		}),
		StressTest: planning.StressTest(planning.StressInput{
			Income:           totals.Income,
			FixedExpenses:    totals.Fixed,
			VariableExpenses: totals.Variable,
			EMI:              totals.EMI,
			EmergencyFund:    snap.LiquidAssets,
		}),
		Alerts: alerts.Build(alerts.Input{
			Health:      score,
			Anomalies:   anomalies,
			Utilization: utilization,
			Budgets:     usages,
		}),
	}
}

// monthlySpendHistory totals variable spend for each month before the snapshot month
func monthlySpendHistory(snap models.Snapshot) []float64 {
	cutoff := utils.MonthStart(snap.Month)
	var past []models.ExpenseEntry
	for _, e := range snap.Expenses {
		if e.Date.Before(cutoff) {
			past = append(past, e)
		}
	}
	return aggregate.MonthlySeries(aggregate.ExpenseSeries(past))
}
