package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

func breakdownRequest() models.BreakdownRequest {
	return models.BreakdownRequest{
		Specific:   "Hold a 10 minute conversation in Spanish",
		Measurable: "Complete 4 conversation sessions",
		Achievable: "30 minutes of practice per day",
		Relevant:   "Moving to Madrid next year",
		Timebound:  "Two weeks",
		Exciting:   "Ordering tapas like a local",
		Deadline:   "2026-12-31",
	}
}

func sseHandler(t *testing.T, lines []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/goals/breakdown/stream", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			w.Write([]byte(line + "\n\n"))
		}
	}
}

func TestStreamBreakdown(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"type":"progress","message":"Generating week 1 of 2...","chunkIndex":0,"totalChunks":2}`,
		`data: {"type":"chunk","week":{"title":"Week 1","weekNumber":1,"tasks":[]}}`,
		`data: {"type":"progress","message":"Generating week 2 of 2...","chunkIndex":1,"totalChunks":2}`,
		`data: {"type":"chunk","week":{"title":"Week 2","weekNumber":2,"tasks":[]}}`,
		`data: {"type":"complete","breakdown":{"weeklyGoals":[{"title":"Week 1","weekNumber":1,"tasks":[]},{"title":"Week 2","weekNumber":2,"tasks":[]}]}}`,
		`data: [DONE]`,
	}))
	defer srv.Close()

	c := New(srv.URL)

	var progress []string
	var chunks []string
	breakdown, err := c.StreamBreakdown(context.Background(), breakdownRequest(), StreamHandler{
		OnProgress: func(msg string, idx, total int) {
			progress = append(progress, msg)
			assert.Equal(t, 2, total)
		},
		OnChunk: func(week models.BreakdownWeek) {
			chunks = append(chunks, week.Title)
		},
	})
	require.NoError(t, err)
	require.NotNil(t, breakdown)
	assert.Len(t, breakdown.WeeklyGoals, 2)
	assert.Equal(t, []string{"Generating week 1 of 2...", "Generating week 2 of 2..."}, progress)
	assert.Equal(t, []string{"Week 1", "Week 2"}, chunks)
}

func TestStreamBreakdownSkipsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`: keep-alive comment`,
		`data: not-json`,
		`data: {"type":"chunk","week":{"title":"Week 1","weekNumber":1,"tasks":[]}}`,
		`data: {"type":"complete","breakdown":{"weeklyGoals":[{"title":"Week 1","weekNumber":1,"tasks":[]}]}}`,
		`data: [DONE]`,
	}))
	defer srv.Close()

	c := New(srv.URL)
	breakdown, err := c.StreamBreakdown(context.Background(), breakdownRequest(), StreamHandler{})
	require.NoError(t, err)
	assert.Len(t, breakdown.WeeklyGoals, 1)
}

func TestStreamBreakdownErrorEvent(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"type":"error","message":"Failed to generate breakdown"}`,
		`data: [DONE]`,
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.StreamBreakdown(context.Background(), breakdownRequest(), StreamHandler{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to generate breakdown")
}

func TestStreamBreakdownEndsWithoutComplete(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"type":"chunk","week":{"title":"Week 1","weekNumber":1,"tasks":[]}}`,
		`data: [DONE]`,
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.StreamBreakdown(context.Background(), breakdownRequest(), StreamHandler{})
	assert.ErrorIs(t, err, ErrStreamIncomplete)
}

func TestStreamBreakdownNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"AI breakdown service is not configured"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.StreamBreakdown(context.Background(), breakdownRequest(), StreamHandler{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "AI breakdown service is not configured", apiErr.Message)
}
