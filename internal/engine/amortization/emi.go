// Package amortization implements reducing-balance loan math: installment
// calculation, implied-rate inference and month-by-month payment schedules.
package amortization

import (
	"math"

	"github.com/Dan9191/finhealth/internal/utils"
)

// Rate inference searches the monthly rate in [0, maxMonthlyRate] by bisection.
const (
	RateSearchIterations = 50
	RateSearchTolerance  = 0.001
	maxMonthlyRate       = 1.0
)

// MaxTermMonths is the longest loan term a schedule is generated for
const MaxTermMonths = 1200

// MonthlyRate converts an annual percentage rate to a monthly fraction
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 12 / 100
}

// CalculateEMI returns the equated monthly installment for a reducing-balance loan.
// A non-positive rate falls back to straight-line repayment.
func CalculateEMI(principal, annualRatePercent float64, months int) float64 {
	if principal <= 0 || months <= 0 {
		return 0
	}
	return utils.Round2(emiAt(principal, MonthlyRate(annualRatePercent), months))
}

func emiAt(principal, monthlyRate float64, months int) float64 {
	if monthlyRate <= 0 {
		return principal / float64(months)
	}
	// P*r / (1 - (1+r)^-n), with the denominator kept finite for long terms
	return principal * monthlyRate / -math.Expm1(-float64(months)*math.Log1p(monthlyRate))
}

// CalculateInterestRate infers the annual percentage rate implied by an installment.
// It returns 0 when any input is non-positive or the installment does not cover the principal.
func CalculateInterestRate(principal, emi float64, months int) float64 {
	if principal <= 0 || emi <= 0 || months <= 0 {
		return 0
	}
	if emi*float64(months) <= principal {
		return 0
	}
	return utils.Round(inferMonthlyRate(principal, emi, months)*12*100, 4)
}

func inferMonthlyRate(principal, emi float64, months int) float64 {
	lo, hi := 0.0, maxMonthlyRate
	mid := 0.0
	for i := 0; i < RateSearchIterations; i++ {
		mid = (lo + hi) / 2
		diff := emiAt(principal, mid, months) - emi
		if math.Abs(diff) < RateSearchTolerance {
			break
		}
		if diff > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return mid
}
