package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// EventTypeTaskAssigned is the single event type currently pushed over the
// realtime channel, emitted when a task is created for someone other than
// its creator.
const EventTypeTaskAssigned = "taskAssigned"

// Event is a realtime message addressed to one user. Field names match the
// wire format consumed by clients.
type Event struct {
	Type       string    `json:"type"`
	TaskID     uuid.UUID `json:"taskId"`
	AssignedTo uuid.UUID `json:"assignedTo"`
	Message    string    `json:"message"`
}

// Subscription is a live registration of one client connection for one
// user. Events arrive on the channel returned by Events; the channel is
// closed when the subscription is cancelled or the hub shuts down.
type Subscription struct {
	userID uuid.UUID

	// mu serializes sends against close. A publish that snapshots this
	// subscription just before it is unsubscribed must never send on a
	// closed channel.
	mu     sync.Mutex
	events chan Event
	closed bool
}

// UserID returns the user this subscription belongs to.
func (s *Subscription) UserID() uuid.UUID {
	return s.userID
}

// Events returns the channel delivering events for this subscription.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}

// trySend delivers the event unless the subscription is closed or its
// buffer is full. Reports whether the event was accepted.
func (s *Subscription) trySend(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.events <- event:
		return true
	default:
		return false
	}
}

// Hub maps user identities to their live subscriptions and fans published
// events out to them. Delivery is at-most-once and best-effort: a user with
// no subscriptions silently receives nothing, and a subscription whose
// buffer is full has the event dropped rather than blocking the publisher.
//
// The registry is the only shared mutable state in the delivery path. The
// mutex guards registry mutations and the snapshot taken by Publish; it is
// never held across a channel send, so one slow consumer cannot stall
// another's delivery.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*Subscription]struct{}
	closed bool

	sendBuffer int
	logger     *slog.Logger
}

// NewHub creates a Hub whose subscriptions buffer up to sendBuffer events.
func NewHub(sendBuffer int, logger *slog.Logger) *Hub {
	if sendBuffer < 1 {
		sendBuffer = 1
	}
	return &Hub{
		subs:       make(map[uuid.UUID]map[*Subscription]struct{}),
		sendBuffer: sendBuffer,
		logger:     logger.With("component", "realtime_hub"),
	}
}

// Subscribe registers a new live connection for userID. Multiple concurrent
// subscriptions per user are allowed; each receives every published event.
// Returns nil if the hub has been closed.
func (h *Hub) Subscribe(userID uuid.UUID) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	sub := &Subscription{
		userID: userID,
		events: make(chan Event, h.sendBuffer),
	}

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}

	h.logger.Debug("subscription added",
		"user_id", userID,
		"connection_count", len(h.subs[userID]))

	return sub
}

// Unsubscribe deregisters a subscription and closes its event channel.
// Safe to call more than once and safe to call with a subscription already
// removed by Close.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	if conns, ok := h.subs[sub.userID]; ok {
		delete(conns, sub)
		if len(conns) == 0 {
			delete(h.subs, sub.userID)
		}
	}
	h.mu.Unlock()

	sub.close()
}

// Publish delivers the event to every current subscription for userID.
// If the user has no live subscriptions the event is dropped silently
// (no queuing, no retry). A subscription with a full buffer is skipped.
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	conns := make([]*Subscription, 0, len(h.subs[userID]))
	for sub := range h.subs[userID] {
		conns = append(conns, sub)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return
	}

	for _, sub := range conns {
		if !sub.trySend(event) {
			h.logger.Warn("dropping realtime event",
				"user_id", userID,
				"event_type", event.Type)
		}
	}
}

// Close shuts the hub down: all subscription channels are closed and
// further Subscribe calls return nil. Intended for service shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	all := make([]*Subscription, 0)
	for _, conns := range h.subs {
		for sub := range conns {
			all = append(all, sub)
		}
	}
	h.subs = make(map[uuid.UUID]map[*Subscription]struct{})
	h.mu.Unlock()

	for _, sub := range all {
		sub.close()
	}
}
