package handlers

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// countingWriter flags overlapping WriteMessage calls, which the websocket
// library forbids.
type countingWriter struct {
	active     int32
	overlapped int32
	writes     int32
}

func (w *countingWriter) WriteMessage(messageType int, data []byte) error {
	if atomic.AddInt32(&w.active, 1) > 1 {
		atomic.StoreInt32(&w.overlapped, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&w.active, -1)
	atomic.AddInt32(&w.writes, 1)
	return nil
}

func TestHubBroadcastSerializesWrites(t *testing.T) {
	hub := &Hub{rooms: make(map[uuid.UUID]map[*connection]bool)}
	goalID := uuid.New()

	writer := &countingWriter{}
	conn := &connection{conn: writer, userID: uuid.New()}
	hub.register(goalID, conn)

	const broadcasts = 16
	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(goalID, WSEvent{
				Type:   EventProgressUpdated,
				GoalID: goalID.String(),
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), atomic.LoadInt32(&writer.overlapped), "concurrent WriteMessage calls on one connection")
	assert.Equal(t, int32(broadcasts), atomic.LoadInt32(&writer.writes))
}

func TestHubUnregisterDropsEmptyRoom(t *testing.T) {
	hub := &Hub{rooms: make(map[uuid.UUID]map[*connection]bool)}
	goalID := uuid.New()

	conn := &connection{conn: &countingWriter{}, userID: uuid.New()}
	hub.register(goalID, conn)
	hub.unregister(goalID, conn)

	hub.mu.RLock()
	_, ok := hub.rooms[goalID]
	hub.mu.RUnlock()
	assert.False(t, ok)

	// Broadcasting into a missing room is a no-op.
	hub.Broadcast(goalID, WSEvent{Type: EventTaskUpdated, GoalID: goalID.String()})
}
