package models

import "time"

// CreditCard represents a user's credit card
type CreditCard struct {
	ID           int64               `json:"id"`
	UserID       int64               `json:"user_id"`
	Name         string              `json:"name"`
	CreditLimit  float64             `json:"credit_limit"`
	BillingDay   int                 `json:"billing_day"` // 1-31
	OpenedAt     time.Time           `json:"opened_at"`
	Transactions []CreditTransaction `json:"transactions,omitempty"`
}

// CreditTransactionType distinguishes card spends from repayments
type CreditTransactionType string

const (
	CreditSpend   CreditTransactionType = "SPEND"
	CreditPayment CreditTransactionType = "PAYMENT"
)

// CreditTransaction represents a card spend or repayment
type CreditTransaction struct {
	ID     int64                 `json:"id"`
	CardID int64                 `json:"card_id"`
	Type   CreditTransactionType `json:"type"`
	Amount float64               `json:"amount"`
	Date   time.Time             `json:"date"`
	OnTime *bool                 `json:"on_time,omitempty"` // payments only
}
