package amortization

import (
	"time"

	"github.com/Dan9191/finhealth/internal/utils"
)

// Row is one month of an amortization schedule
type Row struct {
	Month     int       `json:"month"`
	Date      time.Time `json:"date"`
	EMI       float64   `json:"emi"`
	Interest  float64   `json:"interest"`
	Principal float64   `json:"principal"`
	Balance   float64   `json:"balance"`
}

// Schedule is a full amortization ledger with totals
type Schedule struct {
	Principal     float64 `json:"principal"`
	AnnualRate    float64 `json:"annual_rate"`
	RateInferred  bool    `json:"rate_inferred"`
	EMI           float64 `json:"emi"`
	Months        int     `json:"months"`
	TotalInterest float64 `json:"total_interest"`
	TotalPayment  float64 `json:"total_payment"`
	Rows          []Row   `json:"schedule"`
}

// CalculateAmortizationSchedule builds the month-by-month ledger for a loan.
//
// When emi is positive it is used as given, total interest is emi*months-principal and,
// if annualRate is not positive, the rate is inferred from the installment. Otherwise the
// installment is computed from annualRate. Payment dates fall one month apart starting a
// month after start. Terms longer than MaxTermMonths produce no rows.
func CalculateAmortizationSchedule(principal, annualRate float64, months int, start time.Time, emi float64) Schedule {
	sch := Schedule{Principal: principal, AnnualRate: annualRate, Months: months}
	if principal <= 0 || months <= 0 || months > MaxTermMonths {
		return sch
	}

	if emi > 0 {
		if annualRate <= 0 {
			sch.AnnualRate = CalculateInterestRate(principal, emi, months)
			sch.RateInferred = true
		}
	} else {
		emi = CalculateEMI(principal, annualRate, months)
	}
	sch.EMI = utils.Round2(emi)
	sch.TotalInterest = utils.Round2(emi*float64(months) - principal)
	sch.TotalPayment = utils.Round2(emi * float64(months))

	rate := MonthlyRate(sch.AnnualRate)
	if sch.RateInferred {
		// use the unrounded root so the ledger tracks the installment closely
		rate = inferMonthlyRate(principal, emi, months)
	}

	balance := principal
	paid := 0.0
	sch.Rows = make([]Row, 0, months)
	for m := 1; m <= months && balance > 0; m++ {
		interest := balance * rate
		principalPart := emi - interest
		payment := emi
		if m == months || principalPart >= balance {
			principalPart = balance
			payment = principalPart + interest
		}
		balance -= principalPart
		last := m == months || balance <= 0
		if last {
			balance = 0
		}

		row := Row{
			Month:     m,
			Date:      utils.AddMonths(start, m),
			EMI:       utils.Round2(payment),
			Interest:  utils.Round2(interest),
			Principal: utils.Round2(principalPart),
			Balance:   utils.Round2(balance),
		}
		if last {
			// rounded principal components must add back to the loan amount
			row.Principal = utils.Round2(principal - paid)
			row.EMI = utils.Round2(row.Principal + row.Interest)
		}
		paid += row.Principal
		sch.Rows = append(sch.Rows, row)
	}
	return sch
}

// OutstandingPrincipal returns the balance left after paidMonths installments. A
// schedule without rows leaves the whole principal outstanding.
func OutstandingPrincipal(sch Schedule, paidMonths int) float64 {
	if paidMonths <= 0 || len(sch.Rows) == 0 {
		return sch.Principal
	}
	if paidMonths > len(sch.Rows) {
		return 0
	}
	return sch.Rows[paidMonths-1].Balance
}
