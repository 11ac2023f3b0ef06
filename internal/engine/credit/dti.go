package credit

import (
	"github.com/Dan9191/finhealth/internal/utils"
)

// DTICeiling is the ratio, percent, lenders commonly treat as the limit for new debt
const DTICeiling = 36.0

// DTIStatus is a debt-to-income band
type DTIStatus string

const (
	DTIExcellent DTIStatus = "EXCELLENT"
	DTIGood      DTIStatus = "GOOD"
	DTIFair      DTIStatus = "FAIR"
	DTIHigh      DTIStatus = "HIGH"
	DTICritical  DTIStatus = "CRITICAL"
	DTIUnknown   DTIStatus = "UNKNOWN"
)

// DTIResult is a debt-to-income classification
type DTIResult struct {
	Ratio       float64   `json:"ratio"` // percent
	Status      DTIStatus `json:"status"`
	RoomForDebt float64   `json:"room_for_debt"`
	Message     string    `json:"message"`
}

// DebtToIncome classifies monthly debt payments against monthly income
func DebtToIncome(monthlyDebt, monthlyIncome float64) DTIResult {
	monthlyDebt = utils.NonNegative(monthlyDebt)
	if monthlyIncome <= 0 {
		return DTIResult{Status: DTIUnknown, Message: "No income recorded for this month"}
	}
	ratio := monthlyDebt / monthlyIncome * 100
	res := DTIResult{
		Ratio:       utils.Round2(ratio),
		RoomForDebt: utils.Round2(utils.NonNegative(monthlyIncome*DTICeiling/100 - monthlyDebt)),
	}
	switch {
	case ratio <= 28:
		res.Status, res.Message = DTIExcellent, "Debt load is comfortably low"
	case ratio <= 36:
		res.Status, res.Message = DTIGood, "Debt load is within the usual lending limit"
	case ratio <= 43:
		res.Status, res.Message = DTIFair, "Debt load is above the usual limit, avoid new borrowing"
	case ratio <= 50:
		res.Status, res.Message = DTIHigh, "Debt load is high, prioritise paying down balances"
	default:
		res.Status, res.Message = DTICritical, "More than half of income goes to debt"
	}
	return res
}
