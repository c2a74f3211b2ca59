// Package realtime implements the live notification channel: a room-based
// hub publishing events to connected subscribers over server-sent events.
// Delivery is at-most-once and never blocks the publisher.
package realtime

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

func UserRoom(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func PostRoom(postID int64) string {
	return fmt.Sprintf("post:%d", postID)
}

type Hub struct {
	logger *zap.Logger

	mu sync.RWMutex
	rooms map[string]map[chan Event]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a listener on a room. The returned function removes
// the subscription and closes the channel; it is safe to call once.
func (h *Hub) Subscribe(room string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	subscribers, exists := h.rooms[room]
	if !exists {
		subscribers = make(map[chan Event]struct{})
		h.rooms[room] = subscribers
	}
	subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if subscribers, exists := h.rooms[room]; exists {
			if _, subscribed := subscribers[ch]; subscribed {
				delete(subscribers, ch)
				close(ch)
			}
			if len(subscribers) == 0 {
				delete(h.rooms, room)
			}
		}
	}

	return ch, unsubscribe
}

// Publish delivers the event to every subscriber of the room. A slow
// subscriber with a full buffer is skipped; the write that triggered the
// event must never wait on delivery.
func (h *Hub) Publish(room string, event string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.rooms[room] {
		select {
		case ch <- Event{Event: event, Payload: payload}:
		default:
			h.logger.Sugar().Warnf("dropped event(%s) for a slow subscriber in room(%s)", event, room)
		}
	}
}
