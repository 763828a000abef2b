package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/middleware"
	"github.com/smartgoals/smartgoals-api/internal/models"
	"github.com/smartgoals/smartgoals-api/internal/services"
)

// GenerateBreakdown asks the AI coach for a full weekly plan in one shot.
func GenerateBreakdown(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.BreakdownRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "All SMART(ER) fields and a deadline are required",
		})
	}

	if !services.Coach.Configured() {
		middleware.CountBreakdown("generate", "unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "AI breakdown service is not configured",
		})
	}

	breakdown, err := services.Coach.GenerateBreakdown(c.Context(), &req)
	if err != nil {
		middleware.CountBreakdown("generate", "error")
		log.Printf("Breakdown generation failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to generate breakdown",
		})
	}

	middleware.CountBreakdown("generate", "ok")
	return c.JSON(breakdown)
}

// RegenerateBreakdown produces a fresh plan, steered by optional feedback.
func RegenerateBreakdown(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.RegenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil || req.GoalData == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "goalData with all SMART(ER) fields is required",
		})
	}

	if !services.Coach.Configured() {
		middleware.CountBreakdown("regenerate", "unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "AI breakdown service is not configured",
		})
	}

	breakdown, err := services.Coach.RegenerateBreakdown(c.Context(), req.GoalData, req.Feedback)
	if err != nil {
		middleware.CountBreakdown("regenerate", "error")
		log.Printf("Breakdown regeneration failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to regenerate breakdown",
		})
	}

	middleware.CountBreakdown("regenerate", "ok")
	return c.JSON(breakdown)
}

// StreamBreakdown generates a plan and streams it to the client as SSE
// events: one progress/chunk pair per week, then a complete event with the
// whole breakdown, then the [DONE] sentinel. Errors become an error event
// so the client never has to guess from a dropped connection.
func StreamBreakdown(c *fiber.Ctx) error {
	var req models.BreakdownRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "All SMART(ER) fields and a deadline are required",
		})
	}

	if !services.Coach.Configured() {
		middleware.CountBreakdown("stream", "unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "AI breakdown service is not configured",
		})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		breakdown, err := services.Coach.GenerateBreakdown(ctx, &req)
		if err != nil {
			middleware.CountBreakdown("stream", "error")
			writeSSE(w, fiber.Map{"type": "error", "message": "Failed to generate breakdown"})
			writeDone(w)
			return
		}

		total := len(breakdown.WeeklyGoals)
		for i, week := range breakdown.WeeklyGoals {
			writeSSE(w, fiber.Map{
				"type":        "progress",
				"message":     fmt.Sprintf("Generating week %d of %d...", i+1, total),
				"chunkIndex":  i,
				"totalChunks": total,
			})
			writeSSE(w, fiber.Map{"type": "chunk", "week": week})
		}

		writeSSE(w, fiber.Map{"type": "complete", "breakdown": breakdown})
		writeDone(w)
		middleware.CountBreakdown("stream", "ok")
	}))

	return nil
}

func writeSSE(w *bufio.Writer, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.Flush()
}

func writeDone(w *bufio.Writer) {
	fmt.Fprint(w, "data: [DONE]\n\n")
	w.Flush()
}

// CompleteGoal persists a goal together with an accepted breakdown as one
// tree. Everything lands or nothing does.
func CompleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CompleteGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil || req.GoalData == nil || req.Breakdown == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "goalData and breakdown are required",
		})
	}
	if err := validate.Struct(req.GoalData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal data: " + err.Error(),
		})
	}

	goal := models.Goal{
		UserID:      userID,
		Title:       req.GoalData.Title,
		Description: req.GoalData.Description,
		Category:    req.GoalData.Category,
		Specific:    req.GoalData.Specific,
		Measurable:  req.GoalData.Measurable,
		Achievable:  req.GoalData.Achievable,
		Relevant:    req.GoalData.Relevant,
		Timebound:   req.GoalData.Timebound,
		Exciting:    req.GoalData.Exciting,
		Deadline:    req.GoalData.Deadline,
		Status:      models.GoalStatusActive,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&goal).Error; err != nil {
			return err
		}
		for _, week := range req.Breakdown.WeeklyGoals {
			weekly := models.WeeklyGoal{
				GoalID:      goal.ID,
				Title:       week.Title,
				Description: week.Description,
				WeekNumber:  week.WeekNumber,
				StartDate:   week.StartDate,
				EndDate:     week.EndDate,
				Status:      models.WeeklyStatusPending,
			}
			if err := tx.Create(&weekly).Error; err != nil {
				return err
			}
			for _, t := range week.Tasks {
				task := models.DailyTask{
					WeeklyGoalID:   weekly.ID,
					GoalID:         goal.ID,
					Title:          t.Title,
					Description:    t.Description,
					Day:            t.Day,
					Priority:       t.Priority,
					EstimatedHours: t.EstimatedHours,
				}
				if err := tx.Create(&task).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save goal with breakdown",
		})
	}

	LogActivity(userID, "goal_created", "Created new goal: "+goal.Title, map[string]interface{}{
		"goalId":    goal.ID.String(),
		"goalTitle": goal.Title,
		"weeks":     len(req.Breakdown.WeeklyGoals),
	})

	var saved models.Goal
	if err := database.DB.
		Preload("WeeklyGoals", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC")
		}).
		Preload("WeeklyGoals.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("day ASC")
		}).
		First(&saved, "id = ?", goal.ID).Error; err != nil {
		return c.Status(fiber.StatusCreated).JSON(goal)
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}
