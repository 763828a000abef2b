package services

import (
	"encoding/json"
	"log"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"

	"github.com/smartgoals/smartgoals-api/internal/config"
	"github.com/smartgoals/smartgoals-api/internal/database"
	"github.com/smartgoals/smartgoals-api/internal/models"
)

// PushService sends Web Push notifications to stored browser subscriptions.
type PushService struct {
	publicKey  string
	privateKey string
	subject    string
}

// Global push service instance
var Push *PushService

// InitPush initializes Web Push. Degrades to a no-op when VAPID keys are
// not configured (dev mode).
func InitPush(cfg *config.Config) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		log.Println("Push: No VAPID keys configured, web push disabled")
		Push = &PushService{}
		return
	}

	Push = &PushService{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subject:    cfg.VAPIDSubject,
	}
	log.Println("Push: Web push enabled")
}

func (p *PushService) Configured() bool {
	return p != nil && p.publicKey != ""
}

func (p *PushService) PublicKey() string {
	return p.publicKey
}

// SendToUser pushes a payload to every subscription the user registered.
// Returns how many sends succeeded. Dead subscriptions (410) are pruned.
func (p *PushService) SendToUser(userID uuid.UUID, payload []byte) int {
	if !p.Configured() {
		return 0
	}

	var subs []models.PushSubscription
	database.DB.Where("user_id = ?", userID).Find(&subs)

	delivered := 0
	for _, sub := range subs {
		s := &webpush.Subscription{}
		if err := json.Unmarshal([]byte(sub.Subscription), s); err != nil {
			log.Printf("Push: bad subscription %s: %v", sub.ID, err)
			continue
		}

		resp, err := webpush.SendNotification(payload, s, &webpush.Options{
			Subscriber:      p.subject,
			VAPIDPublicKey:  p.publicKey,
			VAPIDPrivateKey: p.privateKey,
			TTL:             60,
		})
		if err != nil {
			log.Printf("Push: send failed for %s: %v", sub.ID, err)
			continue
		}
		if resp.StatusCode == 404 || resp.StatusCode == 410 {
			database.DB.Delete(&sub)
			resp.Body.Close()
			continue
		}
		resp.Body.Close()
		delivered++
	}

	return delivered
}
