package budget

import (
	"fmt"
	"sort"

	"github.com/Dan9191/finhealth/internal/models"
	"github.com/Dan9191/finhealth/internal/utils"
)

const (
	// UnderusedPercent is the usage below which a budget donates allowance
	UnderusedPercent = 50.0
	// SurplusShare is the part of an underused limit offered to the pool
	SurplusShare = 0.3
	// MinAdjustment is the smallest change worth proposing
	MinAdjustment = 50.0
)

// ActionType is the direction of a limit change
type ActionType string

const (
	ActionDecrease ActionType = "DECREASE"
	ActionIncrease ActionType = "INCREASE"
)

// Action is a proposed change to one budget's limit
type Action struct {
	Category     string     `json:"category"`
	Type         ActionType `json:"type"`
	Amount       float64    `json:"amount"`
	CurrentLimit float64    `json:"current_limit"`
	NewLimit     float64    `json:"new_limit"`
	Reason       string     `json:"reason"`
}

// Plan is the rebalancing proposal for a month
type Plan struct {
	Actions     []Action `json:"actions"`
	Underused   []string `json:"underused"`
	Overused    []string `json:"overused"`
	Protected   []string `json:"protected"`
	Surplus     float64  `json:"surplus"`
	Shortfall   float64  `json:"shortfall"`
	Reallocated float64  `json:"reallocated"`
}

// Rebalance moves part of the unused allowance of underused budgets to budgets that
// ran over. Protected categories never donate but may receive. The amount moved is the
// smaller of the donors' surplus and the receivers' total shortfall, split
// proportionally on both sides. A donor or receiver whose share falls under
// MinAdjustment is dropped and the split is recomputed over the rest, so the decreases
// always add up to the increases.
func Rebalance(usages []models.BudgetUsage, registry ProtectedRegistry) Plan {
	plan := Plan{Actions: []Action{}}

	var (
		under, over        []models.BudgetUsage
		surplus, shortfall float64
	)
	for _, u := range usages {
		if u.Limit <= 0 {
			continue
		}
		used := u.Used()
		switch {
		case used > 100:
			over = append(over, u)
			plan.Overused = append(plan.Overused, u.Category)
			shortfall += u.Spent - u.Limit
		case used < UnderusedPercent && registry.IsProtected(u.Category):
			plan.Protected = append(plan.Protected, u.Category)
		case used < UnderusedPercent:
			under = append(under, u)
			plan.Underused = append(plan.Underused, u.Category)
			surplus += u.Limit * SurplusShare
		}
	}
	plan.Surplus = utils.Round2(surplus)
	plan.Shortfall = utils.Round2(shortfall)

	donors := weigh(under, func(u models.BudgetUsage) float64 { return u.Limit * SurplusShare })
	receivers := weigh(over, func(u models.BudgetUsage) float64 { return u.Spent - u.Limit })
	moved := settle(&donors, &receivers)
	if moved <= 0 {
		return plan
	}

	for i, amount := range split(moved, donors) {
		u := donors[i].usage
		plan.Actions = append(plan.Actions, Action{
			Category:     u.Category,
			Type:         ActionDecrease,
			Amount:       amount,
			CurrentLimit: u.Limit,
			NewLimit:     utils.Round2(u.Limit - amount),
			Reason:       fmt.Sprintf("Only %.0f%% of the limit was used", u.Used()),
		})
	}
	for i, amount := range split(moved, receivers) {
		u := receivers[i].usage
		plan.Actions = append(plan.Actions, Action{
			Category:     u.Category,
			Type:         ActionIncrease,
			Amount:       amount,
			CurrentLimit: u.Limit,
			NewLimit:     utils.Round2(u.Limit + amount),
			Reason:       fmt.Sprintf("Spending exceeded the limit by %.2f", u.Spent-u.Limit),
		})
	}
	plan.Reallocated = moved

	sort.SliceStable(plan.Actions, func(i, j int) bool {
		if plan.Actions[i].Type != plan.Actions[j].Type {
			return plan.Actions[i].Type == ActionDecrease
		}
		return plan.Actions[i].Amount > plan.Actions[j].Amount
	})
	return plan
}

// weighted is a budget with its capacity to give or need to receive
type weighted struct {
	usage  models.BudgetUsage
	weight float64
}

func weigh(usages []models.BudgetUsage, weight func(models.BudgetUsage) float64) []weighted {
	out := make([]weighted, 0, len(usages))
	for _, u := range usages {
		out = append(out, weighted{usage: u, weight: weight(u)})
	}
	return out
}

func total(ws []weighted) float64 {
	var t float64
	for _, w := range ws {
		t += w.weight
	}
	return t
}

// settle drops donors and receivers whose proportional share of the transfer is under
// MinAdjustment until both sides are stable, and returns the rounded transfer. Each
// pass only removes entries, so it ends after at most len(donors)+len(receivers) passes.
func settle(donors, receivers *[]weighted) float64 {
	for {
		give, need := total(*donors), total(*receivers)
		moved := min(give, need)
		if moved <= 0 {
			*donors, *receivers = nil, nil
			return 0
		}
		d := keepShares(*donors, moved, give)
		r := keepShares(*receivers, moved, need)
		if len(d) == len(*donors) && len(r) == len(*receivers) {
			return utils.Round2(moved)
		}
		*donors, *receivers = d, r
	}
}

func keepShares(ws []weighted, moved, sum float64) []weighted {
	kept := ws[:0:0]
	for _, w := range ws {
		if moved*w.weight/sum >= MinAdjustment {
			kept = append(kept, w)
		}
	}
	return kept
}

// split divides amount proportionally to the weights, rounded to cents. The last
// share takes the rounding remainder so the shares add up to amount exactly.
func split(amount float64, ws []weighted) []float64 {
	sum := total(ws)
	out := make([]float64, len(ws))
	var given float64
	for i, w := range ws {
		if i == len(ws)-1 {
			out[i] = utils.Round2(amount - given)
			break
		}
		out[i] = utils.Round2(amount * w.weight / sum)
		given += out[i]
	}
	return out
}
