package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/middleware"
	"github.com/smartgoals/smartgoals-api/internal/models"
	"github.com/smartgoals/smartgoals-api/internal/services"
)

// GetVAPIDPublicKey hands the browser the key it needs to subscribe.
func GetVAPIDPublicKey(c *fiber.Ctx) error {
	if !services.Push.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Web push is not configured",
		})
	}
	return c.JSON(fiber.Map{"publicKey": services.Push.PublicKey()})
}

type subscribeRequest struct {
	Endpoint     string          `json:"endpoint" validate:"required"`
	Subscription json.RawMessage `json:"subscription" validate:"required"`
}

// Subscribe stores (or refreshes) a browser push subscription. Upserts on
// the user+endpoint pair so re-subscribing the same browser is idempotent.
func Subscribe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "endpoint and subscription are required",
		})
	}

	var sub models.PushSubscription
	err := database.DB.Where("user_id = ? AND endpoint = ?", userID, req.Endpoint).First(&sub).Error
	if err == nil {
		sub.Subscription = string(req.Subscription)
		if err := database.DB.Save(&sub).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update subscription",
			})
		}
		return c.JSON(sub)
	}

	sub = models.PushSubscription{
		UserID:       userID,
		Endpoint:     req.Endpoint,
		Subscription: string(req.Subscription),
	}
	if err := database.DB.Create(&sub).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save subscription",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}

func Unsubscribe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req unsubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "endpoint is required",
		})
	}

	if err := database.DB.Where("user_id = ? AND endpoint = ?", userID, req.Endpoint).
		Delete(&models.PushSubscription{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove subscription",
		})
	}

	return c.JSON(fiber.Map{"message": "Unsubscribed successfully"})
}

// SendTestPush delivers a test notification to the caller's own devices.
func SendTestPush(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	if !services.Push.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Web push is not configured",
		})
	}

	payload, _ := json.Marshal(map[string]string{
		"title": "SmartGoals",
		"body":  "Test notification. Push is working!",
	})

	delivered := services.Push.SendToUser(userID, payload)
	return c.JSON(fiber.Map{
		"message":   "Test push sent",
		"delivered": delivered,
	})
}

// SendTestEmail sends a test email to the caller's address.
func SendTestEmail(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	if !services.Mail.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Email is not configured",
		})
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	err := services.Mail.Send(user.Email,
		"SmartGoals test email",
		"This is a test email from SmartGoals. Email delivery is working.",
		"<p>This is a test email from <strong>SmartGoals</strong>. Email delivery is working.</p>",
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send test email",
		})
	}

	return c.JSON(fiber.Map{"message": "Test email sent to " + user.Email})
}

// TriggerWeeklyDigest runs the digest job on demand, for development.
func TriggerWeeklyDigest(c *fiber.Ctx) error {
	go services.RunWeeklyDigest()
	return c.JSON(fiber.Map{"message": "Weekly digest job triggered"})
}

// TriggerDailyReminders runs the reminder job on demand, for development.
func TriggerDailyReminders(c *fiber.Ctx) error {
	go services.RunDailyReminders()
	return c.JSON(fiber.Map{"message": "Daily reminders job triggered"})
}
