// Package broadcast fans change events out to every connected viewer.
// Delivery is best-effort: there is no persistence or replay, and a
// subscriber that disconnects (or falls behind) reconciles by fetching a
// fresh snapshot.
package broadcast

import (
	"log/slog"
	"sync"

	"pasteboard/internal/models"
)

// EventType names the three mutation events viewers receive.
type EventType string

const (
	EventCreated    EventType = "created"
	EventDeleted    EventType = "deleted"
	EventAllDeleted EventType = "all-deleted"
)

// Event is one broadcast mutation. Entry is set for created events, ID
// for deleted events; all-deleted carries no payload.
type Event struct {
	Type  EventType     `json:"type"`
	Entry *models.Entry `json:"entry,omitempty"`
	ID    int64         `json:"id,omitempty"`
}

// subscriberBuffer bounds how many undelivered events one subscriber may
// hold before it starts losing events.
const subscriberBuffer = 16

// Subscriber is one connected viewer's handle on the event stream.
type Subscriber struct {
	ch chan Event
}

// Events returns the subscriber's event channel.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Hub owns the registry of currently connected subscribers. Handles are
// added on connect and removed on disconnect; nothing reaches into the
// registry ad hoc.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new viewer and returns its handle.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()
	h.logger.Debug("subscriber connected", "subscribers", count)
	return sub
}

// Unsubscribe removes a viewer from the registry. Safe to call more than
// once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	_, present := h.subs[sub]
	delete(h.subs, sub)
	count := len(h.subs)
	h.mu.Unlock()
	if present {
		h.logger.Debug("subscriber disconnected", "subscribers", count)
	}
}

// SubscriberCount reports how many viewers are currently connected.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish delivers an event to every current subscriber. Sends never
// block: a subscriber whose buffer is full loses this event and only this
// subscriber is affected.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn("dropping event for slow subscriber", "event", event.Type)
		}
	}
}

// PublishCreated broadcasts a freshly stored entry.
func (h *Hub) PublishCreated(entry *models.Entry) {
	h.Publish(Event{Type: EventCreated, Entry: entry})
}

// PublishDeleted broadcasts removal of one entry.
func (h *Hub) PublishDeleted(id int64) {
	h.Publish(Event{Type: EventDeleted, ID: id})
}

// PublishAllDeleted broadcasts a bulk removal.
func (h *Hub) PublishAllDeleted() {
	h.Publish(Event{Type: EventAllDeleted})
}
