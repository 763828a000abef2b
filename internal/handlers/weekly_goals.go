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

// ownedGoal loads a goal only when it belongs to the requesting user.
func ownedGoal(userID, goalID uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func CreateWeeklyGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateWeeklyGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid weekly goal data: " + err.Error(),
		})
	}

	if _, err := ownedGoal(userID, req.GoalID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	weekly := models.WeeklyGoal{
		GoalID:      req.GoalID,
		Title:       req.Title,
		Description: req.Description,
		WeekNumber:  req.WeekNumber,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.WeeklyStatusPending,
	}

	if err := database.DB.Create(&weekly).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create weekly goal",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(weekly)
}

func GetWeeklyGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Query("goalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "goalId query parameter is required",
		})
	}

	if _, err := ownedGoal(userID, goalID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	var weeklies []models.WeeklyGoal
	if err := database.DB.Where("goal_id = ?", goalID).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("day ASC")
		}).
		Order("week_number ASC").
		Find(&weeklies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch weekly goals",
		})
	}

	return c.JSON(weeklies)
}

func UpdateWeeklyGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	weeklyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid weekly goal ID",
		})
	}

	var weekly models.WeeklyGoal
	if err := database.DB.First(&weekly, "id = ?", weeklyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Weekly goal not found",
		})
	}
	if _, err := ownedGoal(userID, weekly.GoalID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Weekly goal not found",
		})
	}

	var req models.UpdateWeeklyGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid weekly goal data: " + err.Error(),
		})
	}

	if req.Title != nil {
		weekly.Title = *req.Title
	}
	if req.Description != nil {
		weekly.Description = *req.Description
	}
	if req.WeekNumber != nil {
		weekly.WeekNumber = *req.WeekNumber
	}
	if req.StartDate != nil {
		weekly.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		weekly.EndDate = *req.EndDate
	}
	if req.Status != nil {
		weekly.Status = *req.Status
	}

	if err := database.DB.Save(&weekly).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update weekly goal",
		})
	}

	return c.JSON(weekly)
}

func DeleteWeeklyGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	weeklyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid weekly goal ID",
		})
	}

	var weekly models.WeeklyGoal
	if err := database.DB.First(&weekly, "id = ?", weeklyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Weekly goal not found",
		})
	}
	if _, err := ownedGoal(userID, weekly.GoalID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Weekly goal not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("weekly_goal_id = ?", weeklyID).Delete(&models.DailyTask{}).Error; err != nil {
			return err
		}
		return tx.Delete(&weekly).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete weekly goal",
		})
	}

	// The goal's progress depends on its remaining weeks.
	recalculateGoalProgress(weekly.GoalID)

	return c.JSON(fiber.Map{"message": "Weekly goal deleted successfully"})
}

// recalculateGoalProgress rolls the stored weekly progress values up into
// the parent goal and derives its status. Paused goals stay paused.
func recalculateGoalProgress(goalID uuid.UUID) {
	var goal models.Goal
	if err := database.DB.First(&goal, "id = ?", goalID).Error; err != nil {
		return
	}

	var weeklies []models.WeeklyGoal
	database.DB.Where("goal_id = ?", goalID).Find(&weeklies)

	goal.Progress = progress.GoalProgress(weeklies)
	goal.Status = progress.DeriveGoalStatus(goal.Progress, goal.Status)
	database.DB.Save(&goal)
}
