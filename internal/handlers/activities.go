package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/middleware"
	"github.com/smartgoals/smartgoals-api/internal/models"
)

// GetActivities returns the user's most recent activity entries.
// limit defaults to 10 and is clamped to 1-100.
func GetActivities(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	limit := c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	var activities []models.Activity
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activities",
		})
	}

	return c.JSON(activities)
}
