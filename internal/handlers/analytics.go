package handlers

import (
	"math"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/middleware"
	"github.com/smartgoals/smartgoals-api/internal/models"
)

// GetStats returns the dashboard headline numbers.
func GetStats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var activeGoals int64
	database.DB.Model(&models.Goal{}).
		Where("user_id = ? AND status = ?", userID, models.GoalStatusActive).
		Count(&activeGoals)

	var totalTasks, completedTasks int64
	database.DB.Model(&models.DailyTask{}).
		Joins("JOIN goals ON goals.id = daily_tasks.goal_id").
		Where("goals.user_id = ? AND goals.deleted_at IS NULL", userID).
		Count(&totalTasks)
	database.DB.Model(&models.DailyTask{}).
		Joins("JOIN goals ON goals.id = daily_tasks.goal_id").
		Where("goals.user_id = ? AND goals.deleted_at IS NULL AND daily_tasks.completed = ?", userID, true).
		Count(&completedTasks)

	successRate := 0
	if totalTasks > 0 {
		successRate = int(math.Round(float64(completedTasks) / float64(totalTasks) * 100))
	}

	return c.JSON(fiber.Map{
		"activeGoalsCount":    activeGoals,
		"completedTasksCount": completedTasks,
		"totalTasksCount":     totalTasks,
		"successRate":         successRate,
	})
}

type categoryStats struct {
	Category    string  `json:"category"`
	GoalCount   int     `json:"goalCount"`
	AvgProgress float64 `json:"avgProgress"`
	Completed   int     `json:"completed"`
}

type weekdayStats struct {
	Weekday        string `json:"weekday"`
	CompletedTasks int    `json:"completedTasks"`
}

// GetDetailedAnalytics aggregates category performance, weekday
// productivity patterns, and completion streaks.
func GetDetailedAnalytics(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var goals []models.Goal
	if err := database.DB.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch analytics",
		})
	}

	totalGoals := len(goals)
	completedGoals := 0
	byCategory := map[string]*categoryStats{}
	for _, g := range goals {
		if g.Status == models.GoalStatusCompleted {
			completedGoals++
		}
		cat := g.Category
		if cat == "" {
			cat = "uncategorized"
		}
		cs, ok := byCategory[cat]
		if !ok {
			cs = &categoryStats{Category: cat}
			byCategory[cat] = cs
		}
		cs.GoalCount++
		cs.AvgProgress += g.Progress
		if g.Status == models.GoalStatusCompleted {
			cs.Completed++
		}
	}

	categories := make([]categoryStats, 0, len(byCategory))
	for _, cs := range byCategory {
		cs.AvgProgress = math.Round(cs.AvgProgress/float64(cs.GoalCount)*100) / 100
		categories = append(categories, *cs)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})

	completionDays := taskCompletionDays(userID)
	weekdays := weekdayBreakdown(userID)
	current, longest := streaks(completionDays)

	return c.JSON(fiber.Map{
		"totalGoals":          totalGoals,
		"completedGoals":      completedGoals,
		"categoryPerformance": categories,
		"weekdayProductivity": weekdays,
		"currentStreak":       current,
		"longestStreak":       longest,
	})
}

// taskCompletionDays collects the distinct UTC days on which the user
// completed at least one task, sorted ascending.
func taskCompletionDays(userID uuid.UUID) []time.Time {
	var activities []models.Activity
	database.DB.Where("user_id = ? AND type = ?", userID, "task_completed").
		Order("created_at ASC").
		Find(&activities)

	seen := map[time.Time]bool{}
	days := []time.Time{}
	for _, a := range activities {
		day := a.CreatedAt.UTC().Truncate(24 * time.Hour)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}

// weekdayBreakdown counts every completion per weekday, not just
// distinct days, so busy Saturdays show up as busy.
func weekdayBreakdown(userID uuid.UUID) []weekdayStats {
	var activities []models.Activity
	database.DB.Where("user_id = ? AND type = ?", userID, "task_completed").Find(&activities)

	counts := map[time.Weekday]int{}
	for _, a := range activities {
		counts[a.CreatedAt.UTC().Weekday()]++
	}

	out := make([]weekdayStats, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		out = append(out, weekdayStats{
			Weekday:        wd.String(),
			CompletedTasks: counts[wd],
		})
	}
	return out
}

// streaks derives the current and longest run of consecutive completion
// days. The current streak tolerates no completion yet today.
func streaks(days []time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	last := days[len(days)-1]
	if last.Equal(today) || last.Equal(today.Add(-24*time.Hour)) {
		current = run
	}
	return current, longest
}
