package models

import "time"

// IncomeEntry represents a single income record
type IncomeEntry struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"user_id"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Source string    `json:"source"`
}

// ExpenseEntry represents a variable (daily) expense
type ExpenseEntry struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method"`
	IsAnomaly     bool      `json:"is_anomaly"` // written back by the caller after anomaly detection
}

// FixedExpense represents a recurring monthly obligation
type FixedExpense struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Amount      float64 `json:"amount"`
	DayOfMonth  int     `json:"day_of_month"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// Budget is a monthly spending limit for a category
type Budget struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Category       string  `json:"category"`
	MonthlyLimit   float64 `json:"monthly_limit"`
	AlertThreshold float64 `json:"alert_threshold"` // percent, default 80
}

// DefaultAlertThreshold is applied when a budget has no threshold configured
const DefaultAlertThreshold = 80.0

// Threshold returns the alert threshold, falling back to the default
func (b Budget) Threshold() float64 {
	if b.AlertThreshold <= 0 {
		return DefaultAlertThreshold
	}
	return b.AlertThreshold
}

// SavingsGoal represents a savings target
type SavingsGoal struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	Monthly       float64    `json:"monthly_contribution"`
}
