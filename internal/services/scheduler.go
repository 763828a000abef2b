package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/models"
)

var scheduler *cron.Cron

// StartScheduler registers the digest and reminder jobs. 01:00 UTC is
// 09:00 China Standard Time, matching the original schedule.
func StartScheduler() {
	if scheduler != nil {
		return
	}

	c := cron.New(cron.WithLocation(time.UTC))
	c.AddFunc("0 1 * * MON", RunWeeklyDigest)
	c.AddFunc("0 1 * * *", RunDailyReminders)
	c.Start()

	scheduler = c
	log.Println("Scheduler started: weekly_digest (Mon 01:00 UTC), daily_goal_reminders (01:00 UTC)")
}

func StopScheduler() {
	if scheduler != nil {
		scheduler.Stop()
		scheduler = nil
	}
}

// RunWeeklyDigest emails a digest to every user who opted in.
func RunWeeklyDigest() {
	var settings []models.UserSettings
	database.DB.Where("weekly_digest = ? AND email_notifications = ?", true, true).Find(&settings)

	for _, us := range settings {
		var user models.User
		if err := database.DB.First(&user, us.UserID).Error; err != nil || user.Email == "" {
			continue
		}
		err := Mail.Send(user.Email,
			"Your SmartGoals weekly digest",
			"Here is your weekly digest. Keep pushing your goals!",
			"<p>Here is your <strong>weekly digest</strong>. Keep pushing your goals!</p>",
		)
		if err != nil {
			log.Printf("Digest email skipped or failed for user %s: %v", us.UserID, err)
		}
	}
}

// RunDailyReminders pushes (and optionally emails) a gentle daily nudge.
func RunDailyReminders() {
	var settings []models.UserSettings
	database.DB.Where("goal_reminders = ?", true).Find(&settings)

	payload, _ := json.Marshal(map[string]string{
		"title": "SmartGoals",
		"body":  "Daily reminder: review today's tasks and goals.",
	})

	for _, us := range settings {
		if us.PushNotifications {
			Push.SendToUser(us.UserID, payload)
		}
		if us.EmailNotifications {
			var user models.User
			if err := database.DB.First(&user, us.UserID).Error; err != nil || user.Email == "" {
				continue
			}
			if err := Mail.Send(user.Email,
				"SmartGoals daily reminder",
				"Review today's tasks and goals in SmartGoals.",
				"<p>Review today's tasks and goals in <strong>SmartGoals</strong>.</p>",
			); err != nil {
				log.Printf("Reminder email failed for user %s: %v", us.UserID, err)
			}
		}
	}
}
