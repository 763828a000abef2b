package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

func tasksWith(completed ...bool) []models.DailyTask {
	tasks := make([]models.DailyTask, len(completed))
	for i, c := range completed {
		tasks[i] = models.DailyTask{Completed: c}
	}
	return tasks
}

func TestWeeklyGoalProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed []bool
		want      int
	}{
		{"no tasks", nil, 0},
		{"none completed", []bool{false, false}, 0},
		{"all completed", []bool{true, true, true}, 100},
		{"two of three", []bool{true, false, true}, 67},
		{"order does not matter", []bool{true, true, false}, 67},
		// 5/6 = 83.33 → 83 under the documented round-to-nearest rule.
		{"five of six", []bool{true, true, true, true, true, false}, 83},
		{"one of two is exactly half", []bool{true, false}, 50},
		// 1/8 = 12.5: half rounds away from zero.
		{"half boundary rounds up", []bool{true, false, false, false, false, false, false, false}, 13},
		{"one of three", []bool{true, false, false}, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeeklyGoalProgress(tasksWith(tt.completed...)))
		})
	}
}

func TestWeeklyGoalProgressIdempotent(t *testing.T) {
	tasks := tasksWith(true, false, true)
	before := WeeklyGoalProgress(tasks)

	// Re-assigning the same completion value must not move the needle.
	tasks[0].Completed = true
	assert.Equal(t, before, WeeklyGoalProgress(tasks))
}

func TestGoalProgress(t *testing.T) {
	assert.Equal(t, float64(0), GoalProgress(nil))
	assert.Equal(t, float64(0), GoalProgress([]models.WeeklyGoal{}))

	weekly := []models.WeeklyGoal{{Progress: 100}, {Progress: 50}, {Progress: 0}}
	assert.Equal(t, 50.0, GoalProgress(weekly))

	// Mean of 100 and 67 is 83.5, kept at two decimals.
	weekly = []models.WeeklyGoal{{Progress: 100}, {Progress: 67}}
	assert.Equal(t, 83.5, GoalProgress(weekly))

	// 33+33+34 / 3 = 33.333... → 33.33
	weekly = []models.WeeklyGoal{{Progress: 33}, {Progress: 33}, {Progress: 34}}
	assert.Equal(t, 33.33, GoalProgress(weekly))
}

// One weekly goal with two tasks, one completed: weekly 50, goal 50.
func TestRoundTripOneWeekTwoTasks(t *testing.T) {
	tasks := tasksWith(true, false)
	wp := WeeklyGoalProgress(tasks)
	assert.Equal(t, 50, wp)

	gp := GoalProgress([]models.WeeklyGoal{{Progress: wp}})
	assert.Equal(t, 50.0, gp)
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, models.WeeklyStatusCompleted, DeriveStatus(100, models.WeeklyStatusPending))
	assert.Equal(t, models.WeeklyStatusActive, DeriveStatus(1, models.WeeklyStatusPending))
	assert.Equal(t, models.WeeklyStatusPending, DeriveStatus(0, models.WeeklyStatusPending))
}

func TestDeriveGoalStatus(t *testing.T) {
	assert.Equal(t, models.GoalStatusCompleted, DeriveGoalStatus(100, models.GoalStatusActive))
	assert.Equal(t, models.GoalStatusActive, DeriveGoalStatus(40, models.GoalStatusActive))
	assert.Equal(t, models.GoalStatusActive, DeriveGoalStatus(0, models.GoalStatusActive))

	// Paused wins over any progress value.
	assert.Equal(t, models.GoalStatusPaused, DeriveGoalStatus(100, models.GoalStatusPaused))
	assert.Equal(t, models.GoalStatusPaused, DeriveGoalStatus(0, models.GoalStatusPaused))
}
