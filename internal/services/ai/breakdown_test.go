package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

func sampleRequest() *models.BreakdownRequest {
	return &models.BreakdownRequest{
		Specific:   "Run a half marathon",
		Measurable: "Finish under 2 hours",
		Achievable: "Already running 10k",
		Relevant:   "Health",
		Timebound:  "Three months",
		Exciting:   "First race",
		Deadline:   time.Now().Add(21 * 24 * time.Hour).Format(time.RFC3339),
	}
}

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestGenerateBreakdown(t *testing.T) {
	breakdownJSON := `{"weeklyGoals":[{"title":"Base week","description":"Build base","weekNumber":1,"tasks":[{"title":"Easy run","description":"5k easy","day":1,"priority":"medium","estimatedHours":1}]}]}`

	var gotReq chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(t, breakdownJSON))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL)
	breakdown, err := client.GenerateBreakdown(context.Background(), sampleRequest())
	require.NoError(t, err)

	require.Len(t, breakdown.WeeklyGoals, 1)
	assert.Equal(t, "Base week", breakdown.WeeklyGoals[0].Title)
	require.Len(t, breakdown.WeeklyGoals[0].Tasks, 1)
	assert.Equal(t, 1, breakdown.WeeklyGoals[0].Tasks[0].Day)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "Run a half marathon")
	assert.Contains(t, gotReq.Messages[1].Content, "weeklyGoals")
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)
	assert.InDelta(t, 0.7, gotReq.Temperature, 0.001)
}

func TestRegenerateBreakdownIncludesFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Messages[1].Content, "USER FEEDBACK: more rest days")
		assert.InDelta(t, 0.8, req.Temperature, 0.001)
		w.Write(completionBody(t, `{"weeklyGoals":[]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL)
	breakdown, err := client.RegenerateBreakdown(context.Background(), sampleRequest(), "more rest days")
	require.NoError(t, err)
	assert.Empty(t, breakdown.WeeklyGoals)
}

func TestGenerateBreakdownMalformedUpstream(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "sorry, I cannot do that"},
		{"missing weeklyGoals", `{"plan":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write(completionBody(t, tt.content))
			}))
			defer srv.Close()

			client := NewClient("test-key", srv.URL)
			_, err := client.GenerateBreakdown(context.Background(), sampleRequest())
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestGenerateBreakdownUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL)
	_, err := client.GenerateBreakdown(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGenerateBreakdownNotConfigured(t *testing.T) {
	client := NewClient("", "https://api.deepseek.com")
	_, err := client.GenerateBreakdown(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestWeeksUntil(t *testing.T) {
	assert.Equal(t, 3, WeeksUntil(time.Now().Add(20*24*time.Hour).Format(time.RFC3339)))
	assert.Equal(t, 1, WeeksUntil(time.Now().Add(2*24*time.Hour).Format(time.RFC3339)))
	// Past deadlines and garbage both clamp to one week.
	assert.Equal(t, 1, WeeksUntil("2000-01-01"))
	assert.Equal(t, 1, WeeksUntil("not-a-date"))
}
