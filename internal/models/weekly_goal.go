package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WeeklyStatusPending   = "pending"
	WeeklyStatusActive    = "active"
	WeeklyStatusCompleted = "completed"
)

type WeeklyGoal struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID      uuid.UUID      `json:"goalId" gorm:"type:uuid;index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	WeekNumber  int            `json:"weekNumber" gorm:"not null"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	Progress    int            `json:"progress" gorm:"default:0"`
	Status      string         `json:"status" gorm:"not null;default:'pending'"` // pending, active, completed
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Tasks       []DailyTask    `json:"tasks,omitempty" gorm:"foreignKey:WeeklyGoalID"`
}

func (w *WeeklyGoal) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type CreateWeeklyGoalRequest struct {
	GoalID      uuid.UUID `json:"goalId" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	WeekNumber  int       `json:"weekNumber" validate:"required,min=1"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
}

type UpdateWeeklyGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	WeekNumber  *int    `json:"weekNumber" validate:"omitempty,min=1"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending active completed"`
}
