package handlers

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/models"
)

var validate = validator.New()

// LogActivity creates an activity entry from other handlers.
func LogActivity(userID uuid.UUID, activityType, description string, metadata map[string]interface{}) {
	activity := models.Activity{
		UserID:      userID,
		Type:        activityType,
		Description: description,
	}

	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			s := string(data)
			activity.Metadata = &s
		}
	}

	database.DB.Create(&activity)
}
