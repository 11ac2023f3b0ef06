package credit

import (
	"math"
	"time"

	"github.com/Dan9191/finhealth/internal/models"
	"github.com/Dan9191/finhealth/internal/utils"
)

// Utilization thresholds, percent of limit
const (
	TargetUtilization = 30.0
	MediumUtilization = 50.0
	HighUtilization   = 70.0
)

// Risk is a utilization risk level
type Risk string

const (
	RiskLow    Risk = "LOW"
	RiskMedium Risk = "MEDIUM"
	RiskHigh   Risk = "HIGH"
)

// Cycle is a card billing cycle relative to a point in time
type Cycle struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"` // exclusive
	Days        int       `json:"days"`
	DaysElapsed int       `json:"days_elapsed"`
}

// UtilizationForecast projects a card's end-of-cycle utilization
type UtilizationForecast struct {
	CardID               int64   `json:"card_id,omitempty"`
	CreditLimit          float64 `json:"credit_limit"`
	CurrentBalance       float64 `json:"current_balance"`
	CurrentUtilization   float64 `json:"current_utilization"`
	DailyRate            float64 `json:"daily_rate"`
	ProjectedBalance     float64 `json:"projected_balance"`
	ProjectedUtilization float64 `json:"projected_utilization"`
	DaysRemaining        int     `json:"days_remaining"`
	Risk                 Risk    `json:"risk"`
	SuggestedPayment     float64 `json:"suggested_payment"`
}

// BillingCycle returns the cycle containing now for a card billed on billingDay.
// Days past the end of a short month bill on its last day.
func BillingCycle(billingDay int, now time.Time) Cycle {
	if billingDay < 1 {
		billingDay = 1
	}
	start := cycleAnchor(now.Year(), now.Month(), billingDay, now.Location())
	if now.Before(start) {
		prev := utils.MonthStart(now).AddDate(0, -1, 0)
		start = cycleAnchor(prev.Year(), prev.Month(), billingDay, now.Location())
	}
	next := utils.MonthStart(start).AddDate(0, 1, 0)
	end := cycleAnchor(next.Year(), next.Month(), billingDay, now.Location())

	days := int(math.Round(end.Sub(start).Hours() / 24))
	elapsed := int(now.Sub(start).Hours()/24) + 1
	if elapsed > days {
		elapsed = days
	}
	return Cycle{Start: start, End: end, Days: days, DaysElapsed: elapsed}
}

func cycleAnchor(year int, month time.Month, day int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	if last := utils.DaysInMonth(first); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// CycleSpend returns spends minus payments dated within [start, end), floored at 0
func CycleSpend(txs []models.CreditTransaction, start, end time.Time) float64 {
	total := 0.0
	for _, tx := range txs {
		if tx.Date.Before(start) || !tx.Date.Before(end) {
			continue
		}
		switch tx.Type {
		case models.CreditSpend:
			total += tx.Amount
		case models.CreditPayment:
			total -= tx.Amount
		}
	}
	return utils.Round2(utils.NonNegative(total))
}

// ForecastUtilization extrapolates the balance at the current daily rate to the end of
// the cycle and suggests the payment that lands it at TargetUtilization
func ForecastUtilization(limit, balance float64, daysElapsed, cycleDays int) UtilizationForecast {
	balance = utils.NonNegative(balance)
	f := UtilizationForecast{CreditLimit: limit, CurrentBalance: utils.Round2(balance), Risk: RiskLow}
	if limit <= 0 || cycleDays <= 0 {
		return f
	}
	if daysElapsed < 1 {
		daysElapsed = 1
	}
	if daysElapsed > cycleDays {
		daysElapsed = cycleDays
	}

	daily := balance / float64(daysElapsed)
	projected := daily * float64(cycleDays)
	projectedUtil := projected / limit * 100

	f.CurrentUtilization = utils.Round2(balance / limit * 100)
	f.DailyRate = utils.Round2(daily)
	f.ProjectedBalance = utils.Round2(projected)
	f.ProjectedUtilization = utils.Round2(projectedUtil)
	f.DaysRemaining = cycleDays - daysElapsed
	f.Risk = utilizationRisk(projectedUtil)
	if projectedUtil > TargetUtilization {
		f.SuggestedPayment = utils.Round2(projected - limit*TargetUtilization/100)
	}
	return f
}

func utilizationRisk(pct float64) Risk {
	switch {
	case pct >= HighUtilization:
		return RiskHigh
	case pct >= MediumUtilization:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ForecastCard runs ForecastUtilization for a card's current billing cycle
func ForecastCard(card models.CreditCard, now time.Time) UtilizationForecast {
	cycle := BillingCycle(card.BillingDay, now)
	spend := CycleSpend(card.Transactions, cycle.Start, cycle.End)
	f := ForecastUtilization(card.CreditLimit, spend, cycle.DaysElapsed, cycle.Days)
	f.CardID = card.ID
	return f
}
