// Package realtime is the change-event feed for waste reports: every
// store mutation is published as an event carrying the post-update
// snapshot, and consumers subscribe with a buffered channel. Delivery is
// best effort; a consumer that falls behind misses events and no replay
// is performed.
package realtime

import (
	"fmt"
	"strings"
	"sync"

	"github.com/techagentng/cleancity/models"
)

const reportsChannel = "collections.waste_reports.documents"

// Event name patterns consumers match against.
var (
	CreatePattern = reportsChannel + ".*.create"
	UpdatePattern = reportsChannel + ".*.update"
)

// Event is one change notification. Events carries both the concrete
// and the wildcard name for the mutation, Payload the full post-image
// of the report.
type Event struct {
	Events  []string           `json:"events"`
	Payload models.WasteReport `json:"payload"`
}

// Matches reports whether any of the event's names equals the given
// pattern, honoring "*" as a single-segment wildcard.
func (e Event) Matches(pattern string) bool {
	for _, name := range e.Events {
		if matchSegments(name, pattern) {
			return true
		}
	}
	return false
}

func matchSegments(name, pattern string) bool {
	nameParts := strings.Split(name, ".")
	patternParts := strings.Split(pattern, ".")
	if len(nameParts) != len(patternParts) {
		return false
	}
	for i, p := range patternParts {
		if p != "*" && p != nameParts[i] {
			return false
		}
	}
	return true
}

// Subscription is one consumer's handle on the feed. Events arrive on C;
// Unsubscribe detaches the consumer and closes C.
type Subscription struct {
	C chan Event

	hub  *Hub
	once sync.Once
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub fans report change events out to all active subscriptions.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

const subscriptionBuffer = 16

func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		C:   make(chan Event, subscriptionBuffer),
		hub: h,
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		// Closing under the lock keeps Publish from racing a send
		// against the close.
		close(sub.C)
	}
}

// Publish delivers the event to every subscriber without blocking.
// A full subscriber buffer drops the event for that subscriber only.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.C <- event:
		default:
		}
	}
}

// PublishCreate emits the creation event for a new report.
func (h *Hub) PublishCreate(report models.WasteReport) {
	h.Publish(Event{
		Events: []string{
			fmt.Sprintf("%s.%s.create", reportsChannel, report.ID),
			CreatePattern,
		},
		Payload: report,
	})
}

// PublishUpdate emits the update event carrying the post-update image.
func (h *Hub) PublishUpdate(report models.WasteReport) {
	h.Publish(Event{
		Events: []string{
			fmt.Sprintf("%s.%s.update", reportsChannel, report.ID),
			UpdatePattern,
		},
		Payload: report,
	})
}
