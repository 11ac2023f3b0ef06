package planning

import (
	"math"
	"time"

	"github.com/Dan9191/finhealth/internal/utils"
)

// EmergencyFundMonths is the default emergency target in months of expenses
const EmergencyFundMonths = 6

// FreedomInput describes savings capacity and outstanding debt
type FreedomInput struct {
	MonthlyExpenses    float64   `json:"monthly_expenses"`
	EmergencyFund      float64   `json:"emergency_fund"`
	EmergencyTarget    float64   `json:"emergency_target"` // defaults to 6 months of expenses
	MonthlySavings     float64   `json:"monthly_savings"`
	TotalDebt          float64   `json:"total_debt"`
	MonthlyDebtPayment float64   `json:"monthly_debt_payment"`
	Now                time.Time `json:"now"`
}

// FreedomDate is when the emergency fund is complete and all debt is paid
type FreedomDate struct {
	EmergencyTarget     float64    `json:"emergency_target"`
	EmergencyGap        float64    `json:"emergency_gap"`
	EmergencyFundMonths int        `json:"emergency_fund_months"`
	DebtFreeMonths      int        `json:"debt_free_months"`
	TotalMonths         int        `json:"total_months"`
	Date                *time.Time `json:"date,omitempty"`
	AlreadyFree         bool       `json:"already_free"`
	Achievable          bool       `json:"achievable"`
	Message             string     `json:"message"`
}

// CalculateFreedomDate runs two phases in sequence: fill the emergency fund from
// monthly savings, then clear debt at the monthly debt payment
func CalculateFreedomDate(in FreedomInput) FreedomDate {
	target := in.EmergencyTarget
	if target <= 0 {
		target = in.MonthlyExpenses * EmergencyFundMonths
	}
	gap := utils.NonNegative(target - in.EmergencyFund)
	debt := utils.NonNegative(in.TotalDebt)
	f := FreedomDate{
		EmergencyTarget: utils.Round2(target),
		EmergencyGap:    utils.Round2(gap),
		Achievable:      true,
	}

	if gap > 0 {
		if in.MonthlySavings <= 0 {
			f.Achievable = false
			f.Message = "The emergency fund cannot grow without monthly savings"
			return f
		}
		f.EmergencyFundMonths = int(math.Ceil(gap / in.MonthlySavings))
	}
	if debt > 0 {
		if in.MonthlyDebtPayment <= 0 {
			f.Achievable = false
			f.Message = "Debt cannot be cleared without a monthly payment"
			return f
		}
		f.DebtFreeMonths = int(math.Ceil(debt / in.MonthlyDebtPayment))
	}

	f.TotalMonths = f.EmergencyFundMonths + f.DebtFreeMonths
	if f.TotalMonths > MaxSimulationMonths {
		f.Achievable = false
		f.Message = "Financial freedom is more than 50 years away at the current pace"
		return f
	}
	if !in.Now.IsZero() {
		date := utils.AddMonths(in.Now, f.TotalMonths)
		f.Date = &date
	}
	if f.TotalMonths == 0 {
		f.AlreadyFree = true
		f.Message = "You are already financially free: the emergency fund is full and there is no debt"
		return f
	}
	f.Message = "Financial freedom is reachable on the projected date at the current pace"
	return f
}
