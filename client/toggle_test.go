package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

func seedGoal() models.Goal {
	goalID := uuid.New()
	weeklyID := uuid.New()
	return models.Goal{
		ID:       goalID,
		Title:    "Learn Spanish",
		Status:   models.GoalStatusActive,
		Progress: 0,
		WeeklyGoals: []models.WeeklyGoal{
			{
				ID:         weeklyID,
				GoalID:     goalID,
				Title:      "Week 1",
				WeekNumber: 1,
				Status:     models.WeeklyStatusPending,
				Tasks: []models.DailyTask{
					{ID: uuid.New(), WeeklyGoalID: weeklyID, GoalID: goalID, Title: "Alphabet", Day: 1},
					{ID: uuid.New(), WeeklyGoalID: weeklyID, GoalID: goalID, Title: "Greetings", Day: 2},
				},
			},
		},
	}
}

func TestToggleTaskOptimisticUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	goal := seedGoal()
	c.Store().Put(&goal)
	taskID := goal.WeeklyGoals[0].Tasks[0].ID

	err := c.ToggleTask(context.Background(), goal.ID, taskID)
	require.NoError(t, err)

	got, ok := c.Store().Goal(goal.ID)
	require.True(t, ok)
	assert.True(t, got.WeeklyGoals[0].Tasks[0].Completed)
	assert.Equal(t, 50, got.WeeklyGoals[0].Progress)
	assert.Equal(t, models.WeeklyStatusActive, got.WeeklyGoals[0].Status)
	assert.Equal(t, 50.0, got.Progress)
}

func TestToggleTaskRollsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to update task"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	goal := seedGoal()
	c.Store().Put(&goal)
	taskID := goal.WeeklyGoals[0].Tasks[0].ID

	err := c.ToggleTask(context.Background(), goal.ID, taskID)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

	got, ok := c.Store().Goal(goal.ID)
	require.True(t, ok)
	assert.False(t, got.WeeklyGoals[0].Tasks[0].Completed)
	assert.Equal(t, 0, got.WeeklyGoals[0].Progress)
	assert.Equal(t, 0.0, got.Progress)
}

func TestToggleTaskSerializedPerTask(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	var once sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(arrived) })
		<-release
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	goal := seedGoal()
	c.Store().Put(&goal)
	taskID := goal.WeeklyGoals[0].Tasks[0].ID

	done := make(chan error, 1)
	go func() {
		done <- c.ToggleTask(context.Background(), goal.ID, taskID)
	}()

	<-arrived
	err := c.ToggleTask(context.Background(), goal.ID, taskID)
	assert.ErrorIs(t, err, ErrToggleInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestToggleTaskDemotesWeekBackToPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	goalID := uuid.New()
	weeklyID := uuid.New()
	taskID := uuid.New()
	goal := models.Goal{
		ID:     goalID,
		Title:  "Learn Spanish",
		Status: models.GoalStatusActive,
		WeeklyGoals: []models.WeeklyGoal{
			{
				ID:         weeklyID,
				GoalID:     goalID,
				Title:      "Week 1",
				WeekNumber: 1,
				Status:     models.WeeklyStatusPending,
				Tasks: []models.DailyTask{
					{ID: taskID, WeeklyGoalID: weeklyID, GoalID: goalID, Title: "Only task", Day: 1},
				},
			},
		},
	}
	c.Store().Put(&goal)

	require.NoError(t, c.ToggleTask(context.Background(), goalID, taskID))
	got, ok := c.Store().Goal(goalID)
	require.True(t, ok)
	require.Equal(t, 100, got.WeeklyGoals[0].Progress)
	require.Equal(t, models.WeeklyStatusCompleted, got.WeeklyGoals[0].Status)

	// Undoing the only task takes the week back to pending, not a
	// completed week at 0%.
	require.NoError(t, c.ToggleTask(context.Background(), goalID, taskID))
	got, ok = c.Store().Goal(goalID)
	require.True(t, ok)
	assert.Equal(t, 0, got.WeeklyGoals[0].Progress)
	assert.Equal(t, models.WeeklyStatusPending, got.WeeklyGoals[0].Status)
}

func TestToggleTaskUnknownTask(t *testing.T) {
	c := New("http://127.0.0.1:0")
	goal := seedGoal()
	c.Store().Put(&goal)

	err := c.ToggleTask(context.Background(), goal.ID, uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
