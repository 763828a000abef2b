package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

var (
	// ErrToggleInFlight means a toggle for the same task has not been
	// acknowledged yet. Serializing per task keeps rollbacks coherent.
	ErrToggleInFlight = errors.New("client: toggle already in flight for this task")
	// ErrTaskNotFound means the store holds no such task under that goal.
	ErrTaskNotFound = errors.New("client: task not found in store")
)

// ToggleTask flips a task's completed state optimistically: the store
// updates (with recomputed progress) before the request is sent, and rolls
// back to the pre-toggle snapshot if the server rejects it.
func (c *Client) ToggleTask(ctx context.Context, goalID, taskID uuid.UUID) error {
	c.mu.Lock()
	if c.inFlight[taskID] {
		c.mu.Unlock()
		return ErrToggleInFlight
	}
	c.inFlight[taskID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, taskID)
		c.mu.Unlock()
	}()

	snapshot, completed, ok := c.store.toggleTask(goalID, taskID)
	if !ok {
		return ErrTaskNotFound
	}

	req := models.UpdateDailyTaskRequest{Completed: &completed}
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+taskID.String(), req, nil); err != nil {
		c.store.restore(snapshot)
		return err
	}
	return nil
}
