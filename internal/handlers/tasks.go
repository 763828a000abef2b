package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/middleware"
	"github.com/smartgoals/smartgoals-api/internal/models"
	"github.com/smartgoals/smartgoals-api/internal/progress"
)

func CreateDailyTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateDailyTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task data: " + err.Error(),
		})
	}

	var weekly models.WeeklyGoal
	if err := database.DB.First(&weekly, "id = ?", req.WeeklyGoalID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Weekly goal not found",
		})
	}
	if _, err := ownedGoal(userID, weekly.GoalID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Weekly goal not found",
		})
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	hours := req.EstimatedHours
	if hours == 0 {
		hours = 1
	}

	task := models.DailyTask{
		WeeklyGoalID:   req.WeeklyGoalID,
		GoalID:         weekly.GoalID,
		Title:          req.Title,
		Description:    req.Description,
		Day:            req.Day,
		Date:           req.Date,
		Priority:       priority,
		EstimatedHours: hours,
	}

	if err := database.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create task",
		})
	}

	// A new incomplete task dilutes the week's progress.
	recalculateFromTask(userID, &task)

	return c.Status(fiber.StatusCreated).JSON(task)
}

func UpdateDailyTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.DailyTask
	if err := database.DB.First(&task, "id = ?", taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	if _, err := ownedGoal(userID, task.GoalID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	var req models.UpdateDailyTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task data: " + err.Error(),
		})
	}

	wasCompleted := task.Completed

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Day != nil {
		task.Day = *req.Day
	}
	if req.Date != nil {
		task.Date = *req.Date
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}

	if err := database.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	if req.Completed != nil && *req.Completed != wasCompleted {
		if task.Completed {
			LogActivity(userID, "task_completed", "Completed task: "+task.Title, map[string]interface{}{
				"taskId": task.ID.String(),
				"goalId": task.GoalID.String(),
			})
		}
		recalculateFromTask(userID, &task)
	}

	return c.JSON(task)
}

func DeleteDailyTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.DailyTask
	if err := database.DB.First(&task, "id = ?", taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	if _, err := ownedGoal(userID, task.GoalID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	if err := database.DB.Delete(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete task",
		})
	}

	recalculateFromTask(userID, &task)

	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}

// recalculateFromTask rolls progress up from a task's siblings to its
// weekly goal and then to the parent goal, inside one transaction, and
// broadcasts the new numbers to connected clients.
func recalculateFromTask(userID uuid.UUID, task *models.DailyTask) {
	var weekly models.WeeklyGoal
	var goal models.Goal
	var prevGoalStatus string

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&weekly, "id = ?", task.WeeklyGoalID).Error; err != nil {
			return err
		}

		var siblings []models.DailyTask
		if err := tx.Where("weekly_goal_id = ?", weekly.ID).Find(&siblings).Error; err != nil {
			return err
		}
		weekly.Progress = progress.WeeklyGoalProgress(siblings)
		weekly.Status = progress.DeriveStatus(float64(weekly.Progress), models.WeeklyStatusPending)
		if err := tx.Save(&weekly).Error; err != nil {
			return err
		}

		if err := tx.First(&goal, "id = ?", weekly.GoalID).Error; err != nil {
			return err
		}
		prevGoalStatus = goal.Status
		var weeklies []models.WeeklyGoal
		if err := tx.Where("goal_id = ?", goal.ID).Find(&weeklies).Error; err != nil {
			return err
		}
		goal.Progress = progress.GoalProgress(weeklies)
		goal.Status = progress.DeriveGoalStatus(goal.Progress, goal.Status)
		return tx.Save(&goal).Error
	})
	if err != nil {
		log.Printf("Progress recompute failed for task %s: %v", task.ID, err)
		return
	}

	WS.Broadcast(goal.ID, WSEvent{
		Type:   EventTaskUpdated,
		GoalID: goal.ID.String(),
		UserID: userID.String(),
		Data: fiber.Map{
			"taskId":    task.ID.String(),
			"completed": task.Completed,
		},
	})
	WS.Broadcast(goal.ID, WSEvent{
		Type:   EventProgressUpdated,
		GoalID: goal.ID.String(),
		UserID: userID.String(),
		Data: fiber.Map{
			"weeklyGoalId":   weekly.ID.String(),
			"weeklyProgress": weekly.Progress,
			"weeklyStatus":   weekly.Status,
			"goalProgress":   goal.Progress,
			"goalStatus":     goal.Status,
		},
	})

	if goal.Status == models.GoalStatusCompleted && prevGoalStatus != models.GoalStatusCompleted {
		WS.Broadcast(goal.ID, WSEvent{
			Type:   EventGoalCompleted,
			GoalID: goal.ID.String(),
			UserID: userID.String(),
		})
		LogActivity(userID, "goal_completed", "Completed goal: "+goal.Title, map[string]interface{}{
			"goalId":    goal.ID.String(),
			"goalTitle": goal.Title,
		})
	}
}
