package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartgoals/smartgoals-api/internal/config"
	"github.com/smartgoals/smartgoals-api/internal/handlers"
	"github.com/smartgoals/smartgoals-api/internal/middleware"
)

func Setup(app *fiber.App, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	metrics := adaptor.HTTPHandler(promhttp.Handler())
	if cfg.MetricsUser != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{cfg.MetricsUser: cfg.MetricsPass},
		}), metrics)
	} else {
		app.Get("/metrics", metrics)
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", handlers.Logout)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/auth/me", handlers.GetMe)

	// Profile & settings
	protected.Get("/user/profile", handlers.GetProfile)
	protected.Patch("/user/profile", handlers.UpdateProfile)
	protected.Get("/user/settings", handlers.GetSettings)
	protected.Patch("/user/settings", handlers.UpdateSettings)

	// Goals
	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Post("/", handlers.CreateGoal)
	goals.Get("/detailed", handlers.GetGoalsDetailed)

	// AI breakdown (before /:id so the paths don't collide)
	goals.Post("/breakdown", handlers.GenerateBreakdown)
	goals.Post("/breakdown/regenerate", handlers.RegenerateBreakdown)
	goals.Post("/breakdown/stream", handlers.StreamBreakdown)
	goals.Post("/complete", handlers.CompleteGoal)

	goals.Get("/:id", handlers.GetGoal)
	goals.Patch("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)

	// Weekly goals
	weekly := protected.Group("/weekly-goals")
	weekly.Get("/", handlers.GetWeeklyGoals)
	weekly.Post("/", handlers.CreateWeeklyGoal)
	weekly.Patch("/:id", handlers.UpdateWeeklyGoal)
	weekly.Delete("/:id", handlers.DeleteWeeklyGoal)

	// Daily tasks
	tasks := protected.Group("/tasks")
	tasks.Post("/", handlers.CreateDailyTask)
	tasks.Patch("/:id", handlers.UpdateDailyTask)
	tasks.Delete("/:id", handlers.DeleteDailyTask)

	// Activity feed
	protected.Get("/activities", handlers.GetActivities)

	// Analytics
	protected.Get("/analytics/stats", handlers.GetStats)
	protected.Get("/analytics/detailed", handlers.GetDetailedAnalytics)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/vapid-public-key", handlers.GetVAPIDPublicKey)
	notifications.Post("/subscribe", handlers.Subscribe)
	notifications.Post("/unsubscribe", handlers.Unsubscribe)
	notifications.Post("/push/test", handlers.SendTestPush)
	notifications.Post("/email/test", handlers.SendTestEmail)
	notifications.Post("/jobs/weekly-digest", handlers.TriggerWeeklyDigest)
	notifications.Post("/jobs/daily-reminders", handlers.TriggerDailyReminders)

	// WebSocket for real-time goal updates
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws/goals/:id", websocket.New(handlers.HandleWebSocket))
}
