// Package bus provides an internal event bus for component communication
package bus

import (
	"sync"
)

// EventType identifies different event types
type EventType string

// Event types for avatarchat
const (
	// Playback lifecycle events. Exactly one of ended/errored follows a
	// started event for the handle that emitted it.
	EventTypePlaybackStarted EventType = "playback.started"
	EventTypePlaybackEnded   EventType = "playback.ended"
	EventTypePlaybackErrored EventType = "playback.errored"

	// Speech capture events
	EventTypeListeningStarted EventType = "speech.listening_started"
	EventTypeListeningStopped EventType = "speech.listening_stopped"
	EventTypeTranscript       EventType = "speech.transcript"

	// Session events
	EventTypeTurnAccepted EventType = "session.turn_accepted"
	EventTypeTurnResolved EventType = "session.turn_resolved"

	// Avatar events
	EventTypeAvatarModeChanged EventType = "avatar.mode_changed"
	EventTypeCharacterChanged  EventType = "avatar.character_changed"
)

// Event represents a bus event
type Event struct {
	Type EventType
	Data map[string]any
}

// Handler is a function that handles events
type Handler func(Event)

// EventBus is a simple pub/sub event bus. Publish delivers events on the
// caller's goroutine in subscription order, so a subscriber always observes
// playback lifecycle events in the order they were emitted.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for an event type
func (b *EventBus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeMultiple adds a handler for multiple event types
func (b *EventBus) SubscribeMultiple(eventTypes []EventType, handler Handler) {
	for _, et := range eventTypes {
		b.Subscribe(et, handler)
	}
}

// Publish delivers an event to all subscribed handlers, in order, on the
// caller's goroutine.
func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type]))
	copy(handlers, b.handlers[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// PublishAsync delivers an event without blocking the caller. Ordering
// relative to other events is not guaranteed; use Publish for lifecycle
// sequences.
func (b *EventBus) PublishAsync(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type]))
	copy(handlers, b.handlers[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go handler(event)
	}
}

// Clear removes all handlers
func (b *EventBus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[EventType][]Handler)
}
