// Package credit estimates a credit-score proxy, forecasts card utilization and
// classifies debt-to-income.
package credit

import (
	"math"

	"github.com/Dan9191/finhealth/internal/utils"
)

const (
	MinScore  = 300
	MaxScore  = 900
	baseScore = 300
)

// Account kinds counted by the credit mix factor
const (
	AccountSecured   = "SECURED"
	AccountCard      = "CARD"
	AccountUnsecured = "UNSECURED"
)

// Rating is the band a score falls into
type Rating string

const (
	RatingExcellent Rating = "EXCELLENT"
	RatingVeryGood  Rating = "VERY_GOOD"
	RatingGood      Rating = "GOOD"
	RatingFair      Rating = "FAIR"
	RatingPoor      Rating = "POOR"
)

// ScoreInput is the normalized credit profile
type ScoreInput struct {
	OnTimePayments  int      `json:"on_time_payments"`
	TotalPayments   int      `json:"total_payments"`
	Utilization     float64  `json:"utilization"` // percent of total limit
	CreditAgeMonths int      `json:"credit_age_months"`
	AccountTypes    []string `json:"account_types"`
	AccountCount    int      `json:"account_count"`
	Inquiries       int      `json:"inquiries"`
}

// Factor is one component's contribution to the score
type Factor struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	Max    float64 `json:"max"`
}

// Score is the credit-score proxy with its breakdown
type Score struct {
	Score   int      `json:"score"`
	Rating  Rating   `json:"rating"`
	Factors []Factor `json:"factors"`
	Tips    []string `json:"tips"`
}

// Factor maxima
const (
	maxPaymentHistory = 210.0
	maxUtilization    = 180.0
	maxCreditAge      = 90.0
	maxCreditMix      = 60.0
	maxInquiries      = 60.0
)

// CalculateScore returns the score for the given profile
func CalculateScore(in ScoreInput) Score {
	factors := []Factor{
		{Name: "payment_history", Points: paymentHistoryPoints(in.OnTimePayments, in.TotalPayments), Max: maxPaymentHistory},
		{Name: "utilization", Points: utilizationPoints(in.Utilization), Max: maxUtilization},
		{Name: "credit_age", Points: creditAgePoints(in.CreditAgeMonths), Max: maxCreditAge},
		{Name: "credit_mix", Points: creditMixPoints(in.AccountTypes, in.AccountCount), Max: maxCreditMix},
		{Name: "inquiries", Points: inquiryPoints(in.Inquiries), Max: maxInquiries},
	}

	total := float64(baseScore)
	for i := range factors {
		factors[i].Points = utils.Round2(factors[i].Points)
		total += factors[i].Points
	}
	score := int(math.Round(utils.Clamp(total, MinScore, MaxScore)))

	return Score{
		Score:   score,
		Rating:  RatingFor(score),
		Factors: factors,
		Tips:    tips(in),
	}
}

// RatingFor maps a score to its band
func RatingFor(score int) Rating {
	switch {
	case score >= 800:
		return RatingExcellent
	case score >= 740:
		return RatingVeryGood
	case score >= 670:
		return RatingGood
	case score >= 580:
		return RatingFair
	default:
		return RatingPoor
	}
}

func paymentHistoryPoints(onTime, total int) float64 {
	if total <= 0 {
		return maxPaymentHistory / 2
	}
	rate := utils.Clamp(float64(onTime)/float64(total), 0, 1)
	return rate * rate * maxPaymentHistory
}

func utilizationPoints(utilization float64) float64 {
	switch {
	case utilization > 80:
		return 0
	case utilization > 60:
		return 40
	case utilization > 40:
		return 90
	case utilization > 10:
		return 150
	default:
		return maxUtilization
	}
}

func creditAgePoints(months int) float64 {
	switch {
	case months >= 84:
		return 90
	case months >= 60:
		return 75
	case months >= 36:
		return 60
	case months >= 24:
		return 45
	case months >= 12:
		return 30
	default:
		return 15
	}
}

func creditMixPoints(types []string, count int) float64 {
	if len(types) == 0 {
		return math.Min(float64(count)*10, maxCreditMix)
	}
	points := 0.0
	for _, t := range types {
		switch t {
		case AccountSecured:
			points += 30
		case AccountCard:
			points += 10
		case AccountUnsecured:
			points += 5
		}
	}
	return math.Min(points, maxCreditMix)
}

func inquiryPoints(n int) float64 {
	switch {
	case n <= 0:
		return 60
	case n == 1:
		return 50
	case n == 2:
		return 40
	case n == 3:
		return 25
	case n == 4:
		return 10
	default:
		return 0
	}
}

func tips(in ScoreInput) []string {
	var out []string
	if in.TotalPayments > 0 && in.OnTimePayments < in.TotalPayments {
		out = append(out, "Set up automatic payments so every due date is met")
	}
	if in.Utilization > 30 {
		out = append(out, "Bring card balances below 30% of your total limit")
	}
	if in.CreditAgeMonths < 24 {
		out = append(out, "Keep your oldest accounts open to build credit age")
	}
	if creditMixPoints(in.AccountTypes, in.AccountCount) < 40 {
		out = append(out, "A mix of secured and revolving credit improves your profile over time")
	}
	if in.Inquiries >= 3 {
		out = append(out, "Avoid new credit applications for the next few months")
	}
	if len(out) == 0 {
		out = append(out, "Your credit profile is in good shape, keep it up")
	}
	return out
}
