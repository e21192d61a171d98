package sse

import (
	"sync"
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	UserID string
	Event  string
	Data   interface{}
}

type subscription struct {
	watched map[string]struct{}
}

// Hub fans events out to subscribers watching the user an event is about.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]subscription
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]subscription),
	}
}

// Subscribe registers a subscriber for events about the watched users and
// returns the event channel and cleanup function
func (h *Hub) Subscribe(watched []string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	sub := subscription{watched: make(map[string]struct{}, len(watched))}
	for _, id := range watched {
		sub.watched[id] = struct{}{}
	}
	h.subscribers[ch] = sub

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, ch)
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish sends an event to every subscriber watching event.UserID
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch, sub := range h.subscribers {
		if _, ok := sub.watched[event.UserID]; !ok {
			continue
		}
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// TotalSubscribers returns the number of open subscriptions
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
