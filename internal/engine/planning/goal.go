package planning

import (
	"fmt"
	"math"
	"time"

	"github.com/Dan9191/finhealth/internal/models"
	"github.com/Dan9191/finhealth/internal/utils"
)

// GoalStatus describes whether a goal can be reached
type GoalStatus string

const (
	GoalAchieved      GoalStatus = "ACHIEVED"
	GoalInProgress    GoalStatus = "IN_PROGRESS"
	GoalNotAchievable GoalStatus = "NOT_ACHIEVABLE"
)

// GoalTimeline is the projection for one savings goal
type GoalTimeline struct {
	Name            string     `json:"name"`
	Status          GoalStatus `json:"status"`
	Remaining       float64    `json:"remaining"`
	PercentComplete float64    `json:"percent_complete"`
	MonthsRemaining int        `json:"months_remaining"`
	ProjectedDate   *time.Time `json:"projected_date,omitempty"`
	RequiredMonthly float64    `json:"required_monthly,omitempty"`
	OnTrack         *bool      `json:"on_track,omitempty"`
	Message         string     `json:"message"`
}

// Timeline projects when a goal will be reached at its monthly contribution. When the
// goal has a target date it also reports the contribution needed to meet it.
func Timeline(goal models.SavingsGoal, now time.Time) GoalTimeline {
	remaining := utils.NonNegative(goal.TargetAmount - goal.CurrentAmount)
	t := GoalTimeline{
		Name:            goal.Name,
		Remaining:       utils.Round2(remaining),
		PercentComplete: utils.Round2(utils.Clamp(utils.Ratio(goal.CurrentAmount, goal.TargetAmount)*100, 0, 100)),
	}

	if goal.TargetAmount <= 0 || remaining == 0 {
		t.Status = GoalAchieved
		t.PercentComplete = 100
		t.Message = fmt.Sprintf("%s is already achieved", goal.Name)
		return t
	}

	if goal.TargetDate != nil {
		months := monthsUntil(now, *goal.TargetDate)
		t.RequiredMonthly = utils.Round2(remaining / float64(months))
		onTrack := goal.Monthly >= t.RequiredMonthly
		t.OnTrack = &onTrack
	}

	if goal.Monthly <= 0 {
		t.Status = GoalNotAchievable
		t.Message = fmt.Sprintf("%s is not achievable without a monthly contribution", goal.Name)
		return t
	}

	t.Status = GoalInProgress
	t.MonthsRemaining = int(math.Ceil(remaining / goal.Monthly))
	date := utils.AddMonths(now, t.MonthsRemaining)
	t.ProjectedDate = &date
	t.Message = fmt.Sprintf("%s will be reached in %d months", goal.Name, t.MonthsRemaining)
	if t.OnTrack != nil && !*t.OnTrack {
		t.Message = fmt.Sprintf("%s needs %.2f a month to meet its target date", goal.Name, t.RequiredMonthly)
	}
	return t
}

// monthsUntil counts whole months from now to target, at least 1
func monthsUntil(now, target time.Time) int {
	months := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if target.Day() > now.Day() {
		months++
	}
	if months < 1 {
		return 1
	}
	return months
}
