// Package client is a Go SDK for the SmartGoals API. It keeps a local
// Store of goals, applies task toggles optimistically, and reads the
// breakdown SSE stream.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

// Client talks to a SmartGoals API server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	store   *Store

	mu       sync.Mutex
	inFlight map[uuid.UUID]bool // task toggles currently on the wire
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		store:    NewStore(),
		inFlight: make(map[uuid.UUID]bool),
	}
}

// Store exposes the client's local goal cache.
func (c *Client) Store() *Store {
	return c.store
}

// SetToken installs the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Register creates an account and installs the returned token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Login authenticates and installs the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// FetchGoals loads every goal with its full tree into the store.
func (c *Client) FetchGoals(ctx context.Context) ([]models.Goal, error) {
	c.store.setLoading(true)
	defer c.store.setLoading(false)

	var goals []models.Goal
	if err := c.do(ctx, http.MethodGet, "/api/goals/detailed", nil, &goals); err != nil {
		return nil, err
	}
	c.store.ReplaceAll(goals)
	return goals, nil
}

// FetchGoal refreshes a single goal in the store.
func (c *Client) FetchGoal(ctx context.Context, id uuid.UUID) (*models.Goal, error) {
	c.store.setLoading(true)
	defer c.store.setLoading(false)

	var goal models.Goal
	if err := c.do(ctx, http.MethodGet, "/api/goals/"+id.String(), nil, &goal); err != nil {
		return nil, err
	}
	c.store.Put(&goal)
	return &goal, nil
}

// CreateGoal creates a goal. Set draft to save it as paused.
func (c *Client) CreateGoal(ctx context.Context, req models.CreateGoalRequest, draft bool) (*models.Goal, error) {
	c.store.setLoading(true)
	defer c.store.setLoading(false)

	path := "/api/goals/"
	if draft {
		path += "?draft=true"
	}
	var goal models.Goal
	if err := c.do(ctx, http.MethodPost, path, req, &goal); err != nil {
		return nil, err
	}
	c.store.Put(&goal)
	return &goal, nil
}

// DeleteGoal removes a goal server-side and from the store.
func (c *Client) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	c.store.setLoading(true)
	defer c.store.setLoading(false)

	if err := c.do(ctx, http.MethodDelete, "/api/goals/"+id.String(), nil, nil); err != nil {
		return err
	}
	c.store.Remove(id)
	return nil
}

// GenerateBreakdown requests a full plan in one shot.
func (c *Client) GenerateBreakdown(ctx context.Context, req models.BreakdownRequest) (*models.Breakdown, error) {
	c.store.setLoading(true)
	defer c.store.setLoading(false)

	var out models.Breakdown
	if err := c.do(ctx, http.MethodPost, "/api/goals/breakdown", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteGoal persists a goal together with its accepted breakdown.
func (c *Client) CompleteGoal(ctx context.Context, req models.CompleteGoalRequest) (*models.Goal, error) {
	c.store.setLoading(true)
	defer c.store.setLoading(false)

	var goal models.Goal
	if err := c.do(ctx, http.MethodPost, "/api/goals/complete", req, &goal); err != nil {
		return nil, err
	}
	c.store.Put(&goal)
	return &goal, nil
}

// Stats mirrors the dashboard headline numbers.
type Stats struct {
	ActiveGoalsCount    int `json:"activeGoalsCount"`
	CompletedTasksCount int `json:"completedTasksCount"`
	TotalTasksCount     int `json:"totalTasksCount"`
	SuccessRate         int `json:"successRate"`
}

func (c *Client) FetchStats(ctx context.Context) (*Stats, error) {
	c.store.setLoading(true)
	defer c.store.setLoading(false)

	var out Stats
	if err := c.do(ctx, http.MethodGet, "/api/analytics/stats", nil, &out); err != nil {
		return nil, err
	}
	c.store.setStats(&out)
	return &out, nil
}

// FetchActivities refreshes the recent-activity feed in the store.
func (c *Client) FetchActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	c.store.setLoading(true)
	defer c.store.setLoading(false)

	path := "/api/activities"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out []models.Activity
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	c.store.setActivities(out)
	return out, nil
}
