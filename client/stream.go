package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

// ErrStreamIncomplete means the SSE stream ended before a complete event.
var ErrStreamIncomplete = errors.New("client: stream ended without a complete breakdown")

// StreamHandler receives breakdown stream events as they arrive. Either
// callback may be nil.
type StreamHandler struct {
	OnProgress func(message string, chunkIndex, totalChunks int)
	OnChunk    func(week models.BreakdownWeek)
}

type streamEvent struct {
	Type        string                `json:"type"`
	Message     string                `json:"message"`
	ChunkIndex  int                   `json:"chunkIndex"`
	TotalChunks int                   `json:"totalChunks"`
	Week        *models.BreakdownWeek `json:"week"`
	Breakdown   *models.Breakdown     `json:"breakdown"`
}

// StreamBreakdown asks the server to generate a plan and reads the SSE
// stream as it comes in. Lines that are not well-formed events are
// skipped; an error event or a stream that ends without a complete event
// yields an error.
func (c *Client) StreamBreakdown(ctx context.Context, req models.BreakdownRequest, handler StreamHandler) (*models.Breakdown, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/goals/breakdown/stream", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			msg = payload.Error
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			break
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			continue
		}

		switch ev.Type {
		case "progress":
			if handler.OnProgress != nil {
				handler.OnProgress(ev.Message, ev.ChunkIndex, ev.TotalChunks)
			}
		case "chunk":
			if ev.Week != nil && handler.OnChunk != nil {
				handler.OnChunk(*ev.Week)
			}
		case "complete":
			if ev.Breakdown != nil {
				return ev.Breakdown, nil
			}
		case "error":
			return nil, fmt.Errorf("client: stream error: %s", ev.Message)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, ErrStreamIncomplete
}
