package services

import (
	"log"

	"github.com/smartgoals/smartgoals-api/internal/config"
	"github.com/smartgoals/smartgoals-api/internal/services/ai"
)

// Coach is the shared AI breakdown client.
var Coach *ai.Client

// InitCoach wires the AI client from configuration. Without an API key
// the breakdown endpoints return 503 instead of failing at startup.
func InitCoach(cfg *config.Config) {
	Coach = ai.NewClient(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL)
	if !Coach.Configured() {
		log.Println("AI coach disabled: DEEPSEEK_API_KEY not set")
	}
}
