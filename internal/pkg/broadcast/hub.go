package broadcast

import (
	"sync"
)

// SyncChannel is the channel name the remote-sync manager and its consumers
// coordinate on. Browser builds of the original client used a BroadcastChannel
// of the same name; here the hub is the single-process owner of that traffic.
const SyncChannel = "hader-remote-sync"

// Message types exchanged on SyncChannel.
const (
	TypeRequestSync  = "request-sync"
	TypeStateRequest = "state-request"
	TypeStatus       = "status"
)

// Message is a single broadcast envelope.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub manages named channels and fans messages out to their subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Message]struct{}
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Message]struct{}),
	}
}

// Subscribe registers a subscriber on a channel and returns the message
// stream and a cleanup function.
func (h *Hub) Subscribe(channel string) (chan Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Message, 16)

	if h.subscribers[channel] == nil {
		h.subscribers[channel] = make(map[chan Message]struct{})
	}
	h.subscribers[channel][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[channel][ch]; !ok {
			return
		}
		delete(h.subscribers[channel], ch)
		close(ch)
		if len(h.subscribers[channel]) == 0 {
			delete(h.subscribers, channel)
		}
	}

	return ch, cleanup
}

// Publish sends a message to every subscriber of a channel. Delivery is
// non-blocking; a subscriber with a full buffer misses the message rather
// than stalling the publisher.
func (h *Hub) Publish(channel string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[channel] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers on a channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[channel])
}
