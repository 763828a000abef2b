package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal statuses. Progress recomputation derives status from progress but
// never overrides a paused goal; pausing and resuming are explicit updates.
const (
	GoalStatusActive    = "active"
	GoalStatusPaused    = "paused"
	GoalStatusCompleted = "completed"
)

type Goal struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Category    string         `json:"category" gorm:"not null"`
	Specific    string         `json:"specific" gorm:"not null"`
	Measurable  string         `json:"measurable" gorm:"not null"`
	Achievable  string         `json:"achievable" gorm:"not null"`
	Relevant    string         `json:"relevant" gorm:"not null"`
	Timebound   string         `json:"timebound" gorm:"not null"`
	Exciting    string         `json:"exciting" gorm:"not null"`
	Deadline    string         `json:"deadline" gorm:"not null"`
	Progress    float64        `json:"progress" gorm:"default:0"`
	Status      string         `json:"status" gorm:"not null;default:'active'"` // active, paused, completed
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	WeeklyGoals []WeeklyGoal   `json:"weeklyGoals,omitempty" gorm:"foreignKey:GoalID"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type CreateGoalRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
	Specific    string `json:"specific" validate:"required"`
	Measurable  string `json:"measurable" validate:"required"`
	Achievable  string `json:"achievable" validate:"required"`
	Relevant    string `json:"relevant" validate:"required"`
	Timebound   string `json:"timebound" validate:"required"`
	Exciting    string `json:"exciting" validate:"required"`
	Deadline    string `json:"deadline" validate:"required"`
}

type UpdateGoalRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Specific    *string  `json:"specific"`
	Measurable  *string  `json:"measurable"`
	Achievable  *string  `json:"achievable"`
	Relevant    *string  `json:"relevant"`
	Timebound   *string  `json:"timebound"`
	Exciting    *string  `json:"exciting"`
	Deadline    *string  `json:"deadline"`
	Progress    *float64 `json:"progress"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active paused completed"`
}
