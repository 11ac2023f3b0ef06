package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finhealth/internal/engine/amortization"
	"github.com/Dan9191/finhealth/internal/models"
	"github.com/sirupsen/logrus"
)

// RateSource tells where a schedule's interest rate came from
type RateSource string

const (
	RateRecorded RateSource = "RECORDED"
	RateInferred RateSource = "INFERRED"
	RateKeyRate  RateSource = "KEY_RATE"
	RateNone     RateSource = "NONE"
)

// LoanSchedule is a loan's amortization with its progress
type LoanSchedule struct {
	LoanID      int64                 `json:"loan_id"`
	Lender      string                `json:"lender"`
	RateSource  RateSource            `json:"rate_source"`
	Outstanding float64               `json:"outstanding"`
	Schedule    amortization.Schedule `json:"amortization"`
}

// LoanSchedules amortizes every loan of the user. Loans recorded with neither a rate
// nor an installment are priced at the reference key rate; if that is unavailable they
// amortize without interest.
func (s *Service) LoanSchedules(ctx context.Context, userID int64) ([]LoanSchedule, error) {
	snap, err := s.store.LoadSnapshot(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for user %d: %w", userID, err)
	}

	out := make([]LoanSchedule, 0, len(snap.Loans))
	for _, loan := range snap.Loans {
		rate, source := s.loanRate(ctx, loan)
		sch := amortization.CalculateAmortizationSchedule(loan.Principal, rate, loan.TermMonths, loan.StartDate, loan.Installment())
		out = append(out, LoanSchedule{
			LoanID:      loan.ID,
			Lender:      loan.Lender,
			RateSource:  source,
			Outstanding: amortization.OutstandingPrincipal(sch, loan.PaidMonths),
			Schedule:    sch,
		})
	}
	return out, nil
}

func (s *Service) loanRate(ctx context.Context, loan models.Loan) (float64, RateSource) {
	switch {
	case loan.InterestRate != nil:
		return *loan.InterestRate, RateRecorded
	case loan.EMI != nil:
		return 0, RateInferred
	}
	rate, err := s.KeyRate(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"loan_id": loan.ID,
			"error":   err,
		}).Warn("Key rate unavailable, amortizing without interest")
		return 0, RateNone
	}
	return rate, RateKeyRate
}

// Schedule amortizes an ad-hoc loan. A zero rate with no installment is priced at the
// reference key rate when available.
func (s *Service) Schedule(ctx context.Context, principal, annualRate float64, months int, start time.Time, emi float64) (amortization.Schedule, RateSource) {
	source := RateRecorded
	switch {
	case annualRate > 0:
	case emi > 0:
		source = RateInferred
	default:
		rate, err := s.KeyRate(ctx)
		if err != nil {
			s.log.WithError(err).Warn("Key rate unavailable, amortizing without interest")
			source = RateNone
		} else {
			annualRate, source = rate, RateKeyRate
		}
	}
	return amortization.CalculateAmortizationSchedule(principal, annualRate, months, start, emi), source
}
