package credit

import (
	"time"

	"github.com/Dan9191/finhealth/internal/models"
	"github.com/Dan9191/finhealth/internal/utils"
)

// ProfileFromSnapshot derives the score input from a user's cards and loans
func ProfileFromSnapshot(s models.Snapshot, now time.Time) ScoreInput {
	in := ScoreInput{Inquiries: s.CreditInquiries}

	var oldest time.Time
	track := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if oldest.IsZero() || t.Before(oldest) {
			oldest = t
		}
	}

	var limit, balance float64
	for _, card := range s.Cards {
		in.AccountTypes = append(in.AccountTypes, AccountCard)
		track(card.OpenedAt)
		limit += card.CreditLimit
		balance += Balance(card.Transactions)
		for _, tx := range card.Transactions {
			if tx.Type != models.CreditPayment || tx.OnTime == nil {
				continue
			}
			in.TotalPayments++
			if *tx.OnTime {
				in.OnTimePayments++
			}
		}
	}
	for _, loan := range s.Loans {
		if loan.Type == models.LoanTypeSecured {
			in.AccountTypes = append(in.AccountTypes, AccountSecured)
		} else {
			in.AccountTypes = append(in.AccountTypes, AccountUnsecured)
		}
		track(loan.StartDate)
	}
	in.AccountCount = len(in.AccountTypes)
	in.Utilization = utils.Round2(utils.Ratio(balance, limit) * 100)
	if !oldest.IsZero() && now.After(oldest) {
		in.CreditAgeMonths = monthsBetween(oldest, now)
	}
	return in
}

// Balance returns the outstanding card balance, spends minus payments, floored at 0
func Balance(txs []models.CreditTransaction) float64 {
	total := 0.0
	for _, tx := range txs {
		switch tx.Type {
		case models.CreditSpend:
			total += tx.Amount
		case models.CreditPayment:
			total -= tx.Amount
		}
	}
	return utils.NonNegative(total)
}

func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
