// Package events carries the registry's lifecycle and warning channel.
// The rendering layer subscribes here to learn when the active plugin set
// changes; every published event is also written as a structured log entry.
package events

import (
	"sort"
	"sync"

	"github.com/atriumapp/atrium/internal/logger"
)

// Event types published by the plugin registry.
const (
	TypePluginActivated     = "plugin.activated"
	TypePluginDeactivated   = "plugin.deactivated"
	TypePluginMissing       = "plugin.missing"
	TypeActivationFailed    = "plugin.activation_failed"
	TypeDisposalFailed      = "plugin.disposal_failed"
	TypeDeactivationSkipped = "plugin.deactivation_skipped"
	TypeActiveSetChanged    = "plugin.active_set_changed"
)

// Event is a single lifecycle notification.
type Event struct {
	Type    string
	Payload map[string]any
}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(Event)

// Subscription cancels a handler registration.
type Subscription interface {
	Unsubscribe()
}

// Publisher fans events out to subscribers and mirrors each one into the
// structured log. All methods are safe on a nil receiver.
type Publisher struct {
	logger *logger.Logger
	mu     sync.RWMutex
	subs   map[string][]subscriptionEntry
	nextID int
}

type subscriptionEntry struct {
	id      int
	handler Handler
}

// NewPublisher creates a publisher that logs every event it delivers.
func NewPublisher(log *logger.Logger) *Publisher {
	return &Publisher{
		logger: log.WithComponent("events"),
		subs:   make(map[string][]subscriptionEntry),
	}
}

// Publish logs the event and invokes the handlers subscribed to its type.
func (p *Publisher) Publish(event Event) {
	if p == nil {
		return
	}

	p.mu.RLock()
	handlers := append([]subscriptionEntry(nil), p.subs[event.Type]...)
	p.mu.RUnlock()

	p.logEvent(event)

	for _, entry := range handlers {
		if entry.handler != nil {
			entry.handler(event)
		}
	}
}

// Subscribe registers a handler for the provided event type.
func (p *Publisher) Subscribe(eventType string, handler Handler) Subscription {
	if p == nil || handler == nil {
		return noopSubscription{}
	}

	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[eventType] = append(p.subs[eventType], subscriptionEntry{id: id, handler: handler})
	p.mu.Unlock()

	return subscription{cancel: func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		handlers := p.subs[eventType]
		for i, entry := range handlers {
			if entry.id == id {
				p.subs[eventType] = append(handlers[:i], handlers[i+1:]...)
				break
			}
		}
	}}
}

func (p *Publisher) logEvent(event Event) {
	if p.logger == nil {
		return
	}

	fields := map[string]any{"event_type": event.Type}
	keys := make([]string, 0, len(event.Payload))
	for key := range event.Payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fields[key] = event.Payload[key]
	}

	p.logger.WithFields(fields).Info("lifecycle event")
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}
