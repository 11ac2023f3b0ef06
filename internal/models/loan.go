package models

import "time"

// Loan represents a borrower's loan as recorded by the user
type Loan struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Lender       string    `json:"lender"`
	Type         string    `json:"type"` // see LoanType* constants
	Principal    float64   `json:"principal"`
	InterestRate *float64  `json:"interest_rate,omitempty"` // annual, percent
	TermMonths   int       `json:"term_months"`
	EMI          *float64  `json:"emi,omitempty"` // derived when absent
	StartDate    time.Time `json:"start_date"`
	PaidMonths   int       `json:"paid_months"`
}

// Loan types recognised by the credit mix factor
const (
	LoanTypeSecured   = "SECURED"
	LoanTypeUnsecured = "UNSECURED"
)

// Rate returns the annual rate or 0 when unknown
func (l Loan) Rate() float64 {
	if l.InterestRate == nil {
		return 0
	}
	return *l.InterestRate
}

// Installment returns the recorded EMI or 0 when absent
func (l Loan) Installment() float64 {
	if l.EMI == nil {
		return 0
	}
	return *l.EMI
}

// RemainingMonths returns the number of unpaid installments
func (l Loan) RemainingMonths() int {
	if l.PaidMonths >= l.TermMonths {
		return 0
	}
	return l.TermMonths - l.PaidMonths
}
