package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/middleware"
	"github.com/smartgoals/smartgoals-api/internal/models"
	"github.com/smartgoals/smartgoals-api/internal/progress"
)

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal data: " + err.Error(),
		})
	}

	draft := c.QueryBool("draft", false)
	status := models.GoalStatusActive
	if draft {
		status = models.GoalStatusPaused
	}

	goal := models.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Specific:    req.Specific,
		Measurable:  req.Measurable,
		Achievable:  req.Achievable,
		Relevant:    req.Relevant,
		Timebound:   req.Timebound,
		Exciting:    req.Exciting,
		Deadline:    req.Deadline,
		Status:      status,
	}

	if err := database.DB.Create(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create goal",
		})
	}

	activityType := "goal_created"
	description := "Created new goal: " + goal.Title
	if draft {
		activityType = "goal_draft_created"
		description = "Saved draft goal: " + goal.Title
	}
	LogActivity(userID, activityType, description, map[string]interface{}{
		"goalId":    goal.ID.String(),
		"goalTitle": goal.Title,
		"status":    goal.Status,
	})

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var goals []models.Goal
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch goals",
		})
	}

	return c.JSON(goals)
}

// GetGoalsDetailed returns every goal with its full weekly/task tree.
func GetGoalsDetailed(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var goals []models.Goal
	if err := database.DB.Where("user_id = ?", userID).
		Preload("WeeklyGoals", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC")
		}).
		Preload("WeeklyGoals.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("day ASC")
		}).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch goals",
		})
	}

	return c.JSON(goals)
}

func GetGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.
		Where("id = ? AND user_id = ?", goalID, userID).
		Preload("WeeklyGoals", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC")
		}).
		Preload("WeeklyGoals.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("day ASC")
		}).
		First(&goal).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	return c.JSON(goal)
}

func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal data: " + err.Error(),
		})
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Category != nil {
		goal.Category = *req.Category
	}
	if req.Specific != nil {
		goal.Specific = *req.Specific
	}
	if req.Measurable != nil {
		goal.Measurable = *req.Measurable
	}
	if req.Achievable != nil {
		goal.Achievable = *req.Achievable
	}
	if req.Relevant != nil {
		goal.Relevant = *req.Relevant
	}
	if req.Timebound != nil {
		goal.Timebound = *req.Timebound
	}
	if req.Exciting != nil {
		goal.Exciting = *req.Exciting
	}
	if req.Deadline != nil {
		goal.Deadline = *req.Deadline
	}
	if req.Progress != nil {
		goal.Progress = *req.Progress
		goal.Status = progress.DeriveGoalStatus(goal.Progress, goal.Status)
	}
	if req.Status != nil {
		// Explicit status updates win: pausing and resuming are user actions.
		goal.Status = *req.Status
	}

	if err := database.DB.Save(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update goal",
		})
	}

	return c.JSON(goal)
}

// DeleteGoal removes a goal and its whole weekly/task tree in one
// transaction. Orphans would be unreachable through every read path.
func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goalID).Delete(&models.DailyTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", goalID).Delete(&models.WeeklyGoal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&goal).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete goal",
		})
	}

	LogActivity(userID, "goal_deleted", "Deleted goal: "+goal.Title, map[string]interface{}{
		"goalId":    goalID.String(),
		"goalTitle": goal.Title,
		"status":    goal.Status,
	})

	return c.JSON(fiber.Map{"message": "Goal deleted successfully"})
}
