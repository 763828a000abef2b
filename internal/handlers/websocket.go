package handlers

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/smartgoals/smartgoals-api/internal/middleware"
)

// Event types sent over WebSocket
const (
	EventTaskUpdated     = "task_updated"
	EventProgressUpdated = "progress_updated"
	EventGoalCompleted   = "goal_completed"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type   string      `json:"type"`
	GoalID string      `json:"goalId"`
	UserID string      `json:"userId"`
	Data   interface{} `json:"data,omitempty"`
}

// messageWriter is the write side of a websocket connection.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// connection wraps a websocket connection with its user ID. The mutex
// serializes writes: the websocket library allows only one writer at a
// time, and two broadcasts can race on the same connection.
type connection struct {
	mu     sync.Mutex
	conn   messageWriter
	userID uuid.UUID
}

func (c *connection) send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub manages WebSocket connections per goal
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*connection]bool // goalID -> set of connections
}

// Global hub instance
var WS = &Hub{
	rooms: make(map[uuid.UUID]map[*connection]bool),
}

func (h *Hub) register(goalID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[goalID] == nil {
		h.rooms[goalID] = make(map[*connection]bool)
	}
	h.rooms[goalID][conn] = true
	log.Printf("WS register: user %s watching goal %s (total: %d)", conn.userID, goalID, len(h.rooms[goalID]))
}

func (h *Hub) unregister(goalID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[goalID]; ok {
		delete(conns, conn)
		log.Printf("WS unregister: user %s left goal %s (remaining: %d)", conn.userID, goalID, len(conns))
		if len(conns) == 0 {
			delete(h.rooms, goalID)
		}
	}
}

// Broadcast sends an event to every connection watching a goal. The same
// user's other tabs receive it too, so a toggle on one device shows up
// everywhere.
func (h *Hub) Broadcast(goalID uuid.UUID, event WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[goalID]
	if !ok {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("WS broadcast marshal error: %v", err)
		return
	}

	for c := range conns {
		if err := c.send(msg); err != nil {
			log.Printf("WS write error: %v", err)
		}
	}
}

// WebSocketUpgrade is the middleware that checks the upgrade request and validates JWT
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Authenticate via query param: ?token=<jwt>
		tokenString := c.Query("token")
		if tokenString == "" {
			// Also check Authorization header for non-browser clients
			authHeader := c.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			secret = "change-me-in-prod"
		}

		token, err := jwt.ParseWithClaims(tokenString, &middleware.Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*middleware.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}

// HandleWebSocket handles a WebSocket connection for a specific goal
func HandleWebSocket(c *websocket.Conn) {
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Close()
		return
	}

	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	if _, err := ownedGoal(userID, goalID); err != nil {
		c.Close()
		return
	}

	conn := &connection{conn: c, userID: userID}
	WS.register(goalID, conn)
	defer WS.unregister(goalID, conn)

	// Keep connection alive; clients send pings/keepalives.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
