package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserSettings struct {
	ID                  uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID      `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	EmailNotifications  bool           `json:"emailNotifications" gorm:"default:true"`
	PushNotifications   bool           `json:"pushNotifications" gorm:"default:false"`
	WeeklyDigest        bool           `json:"weeklyDigest" gorm:"default:true"`
	GoalReminders       bool           `json:"goalReminders" gorm:"default:true"`
	DefaultGoalDuration string         `json:"defaultGoalDuration" gorm:"default:'3-months'"`
	AIBreakdownDetail   string         `json:"aiBreakdownDetail" gorm:"column:ai_breakdown_detail;default:'detailed'"`
	Theme               string         `json:"theme" gorm:"default:'light'"`
	Language            string         `json:"language" gorm:"default:'en'"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

func (s *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type UpdateSettingsRequest struct {
	EmailNotifications  *bool   `json:"emailNotifications"`
	PushNotifications   *bool   `json:"pushNotifications"`
	WeeklyDigest        *bool   `json:"weeklyDigest"`
	GoalReminders       *bool   `json:"goalReminders"`
	DefaultGoalDuration *string `json:"defaultGoalDuration"`
	AIBreakdownDetail   *string `json:"aiBreakdownDetail"`
	Theme               *string `json:"theme"`
	Language            *string `json:"language"`
}
