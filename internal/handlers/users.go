package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/middleware"
	"github.com/smartgoals/smartgoals-api/internal/models"
)

func GetProfile(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid profile data: " + err.Error(),
		})
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	updatedFields := []string{}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
		updatedFields = append(updatedFields, "firstName")
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
		updatedFields = append(updatedFields, "lastName")
	}
	if req.Email != nil {
		user.Email = *req.Email
		updatedFields = append(updatedFields, "email")
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
		updatedFields = append(updatedFields, "bio")
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	LogActivity(userID, "profile_updated", "Updated profile information", map[string]interface{}{
		"updatedFields": updatedFields,
	})

	return c.JSON(user)
}

func GetSettings(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var settings models.UserSettings
	if err := database.DB.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User settings not found",
		})
	}

	return c.JSON(settings)
}

func UpdateSettings(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var settings models.UserSettings
	if err := database.DB.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		// Settings normally exist from registration; recreate if missing.
		settings = models.UserSettings{UserID: userID}
		if err := database.DB.Create(&settings).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create user settings",
			})
		}
	}

	updatedSettings := []string{}
	if req.EmailNotifications != nil {
		settings.EmailNotifications = *req.EmailNotifications
		updatedSettings = append(updatedSettings, "emailNotifications")
	}
	if req.PushNotifications != nil {
		settings.PushNotifications = *req.PushNotifications
		updatedSettings = append(updatedSettings, "pushNotifications")
	}
	if req.WeeklyDigest != nil {
		settings.WeeklyDigest = *req.WeeklyDigest
		updatedSettings = append(updatedSettings, "weeklyDigest")
	}
	if req.GoalReminders != nil {
		settings.GoalReminders = *req.GoalReminders
		updatedSettings = append(updatedSettings, "goalReminders")
	}
	if req.DefaultGoalDuration != nil {
		settings.DefaultGoalDuration = *req.DefaultGoalDuration
		updatedSettings = append(updatedSettings, "defaultGoalDuration")
	}
	if req.AIBreakdownDetail != nil {
		settings.AIBreakdownDetail = *req.AIBreakdownDetail
		updatedSettings = append(updatedSettings, "aiBreakdownDetail")
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
		updatedSettings = append(updatedSettings, "theme")
	}
	if req.Language != nil {
		settings.Language = *req.Language
		updatedSettings = append(updatedSettings, "language")
	}

	if err := database.DB.Save(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	LogActivity(userID, "settings_updated", "Updated account settings", map[string]interface{}{
		"updatedSettings": updatedSettings,
	})

	return c.JSON(settings)
}
