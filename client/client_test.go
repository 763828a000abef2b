package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

func TestWrappersSetLoadingFlag(t *testing.T) {
	var c *Client

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Observed mid-request: every wrapper must have raised the flag.
		assert.True(t, c.Store().Loading(), "loading not set during %s %s", r.Method, r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/goals/detailed"):
			w.Write([]byte(`[]`))
		case strings.HasPrefix(r.URL.Path, "/api/goals/breakdown"):
			w.Write([]byte(`{"weeklyGoals":[]}`))
		case strings.HasPrefix(r.URL.Path, "/api/activities"):
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	c = New(srv.URL)
	ctx := context.Background()
	id := uuid.New()

	_, err := c.FetchGoals(ctx)
	require.NoError(t, err)
	_, err = c.FetchGoal(ctx, id)
	require.NoError(t, err)
	_, err = c.CreateGoal(ctx, models.CreateGoalRequest{}, false)
	require.NoError(t, err)
	require.NoError(t, c.DeleteGoal(ctx, id))
	_, err = c.GenerateBreakdown(ctx, models.BreakdownRequest{})
	require.NoError(t, err)
	_, err = c.CompleteGoal(ctx, models.CompleteGoalRequest{})
	require.NoError(t, err)
	_, err = c.FetchStats(ctx)
	require.NoError(t, err)
	_, err = c.FetchActivities(ctx, 5)
	require.NoError(t, err)

	// And cleared again once each call returns.
	assert.False(t, c.Store().Loading())
}

func TestLoadingClearedOnError(t *testing.T) {
	var c *Client

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, c.Store().Loading())
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to fetch goals"}`))
	}))
	defer srv.Close()

	c = New(srv.URL)
	_, err := c.FetchGoals(context.Background())
	require.Error(t, err)
	assert.False(t, c.Store().Loading())
}
