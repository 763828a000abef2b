// Package progress is the single source of truth for completion
// percentages. Every caller — handlers, the client SDK, analytics — derives
// progress through these functions instead of reimplementing the formulas.
//
// Rounding policy: weekly progress rounds half away from zero to the
// nearest integer; goal progress is the arithmetic mean of the weekly
// progress values rounded to two decimal places.
package progress

import (
	"math"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

// WeeklyGoalProgress returns round(100 * completed / total) over the given
// tasks, or 0 when there are none.
func WeeklyGoalProgress(tasks []models.DailyTask) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(tasks))))
}

// GoalProgress returns the mean of the weekly goals' stored progress
// values, rounded to 2 decimals, or 0 when there are none. It deliberately
// reads the stored progress field rather than recounting tasks, so callers
// must keep weekly progress current via WeeklyGoalProgress first.
func GoalProgress(weeklyGoals []models.WeeklyGoal) float64 {
	if len(weeklyGoals) == 0 {
		return 0
	}
	sum := 0
	for _, wg := range weeklyGoals {
		sum += wg.Progress
	}
	mean := float64(sum) / float64(len(weeklyGoals))
	return math.Round(mean*100) / 100
}

// DeriveStatus maps a progress value to a status: 100 is completed, any
// progress is active, otherwise the fallback.
func DeriveStatus(progress float64, fallback string) string {
	switch {
	case progress >= 100:
		return models.WeeklyStatusCompleted
	case progress > 0:
		return models.WeeklyStatusActive
	default:
		return fallback
	}
}

// DeriveGoalStatus is DeriveStatus with the goal-level twist: a paused
// goal stays paused no matter what its progress says.
func DeriveGoalStatus(prog float64, current string) string {
	if current == models.GoalStatusPaused {
		return models.GoalStatusPaused
	}
	switch {
	case prog >= 100:
		return models.GoalStatusCompleted
	case prog > 0:
		return models.GoalStatusActive
	default:
		return models.GoalStatusActive
	}
}
