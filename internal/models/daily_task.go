package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DailyTask carries a denormalized GoalID so analytics can group tasks by
// goal without walking through weekly goals. It must always match the
// parent weekly goal's GoalID.
type DailyTask struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	WeeklyGoalID   uuid.UUID      `json:"weeklyGoalId" gorm:"type:uuid;index;not null"`
	GoalID         uuid.UUID      `json:"goalId" gorm:"type:uuid;index;not null"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description"`
	Day            int            `json:"day" gorm:"not null"` // 1-7
	Date           string         `json:"date"`
	Completed      bool           `json:"completed" gorm:"default:false"`
	Priority       string         `json:"priority" gorm:"default:'medium'"` // low, medium, high
	EstimatedHours int            `json:"estimatedHours" gorm:"default:1"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (t *DailyTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type CreateDailyTaskRequest struct {
	WeeklyGoalID   uuid.UUID `json:"weeklyGoalId" validate:"required"`
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	Day            int       `json:"day" validate:"required,min=1,max=7"`
	Date           string    `json:"date"`
	Priority       string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedHours int       `json:"estimatedHours" validate:"omitempty,min=1"`
}

type UpdateDailyTaskRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Day            *int    `json:"day" validate:"omitempty,min=1,max=7"`
	Date           *string `json:"date"`
	Completed      *bool   `json:"completed"`
	Priority       *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedHours *int    `json:"estimatedHours" validate:"omitempty,min=1"`
}
