package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PushSubscription stores a browser Web Push subscription. Subscription is
// the raw JSON blob the browser handed out, replayed verbatim on send.
type PushSubscription struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null;uniqueIndex:idx_user_endpoint"`
	Endpoint     string         `json:"endpoint" gorm:"not null;uniqueIndex:idx_user_endpoint"`
	Subscription string         `json:"subscription" gorm:"not null"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *PushSubscription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
