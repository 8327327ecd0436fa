package event

import (
	"slices"
	"sync"

	"github.com/shop/backend/internal/domain/shared"
)

type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{} // nil means every event type
}

func (s subscription) matches(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// HandlerRegistry keeps event subscriptions in the order they were made.
// Events are delivered to matching handlers in that same order.
type HandlerRegistry struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

// Register subscribes handler to eventTypes, or to every event when none
// are given.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	sub := subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = struct{}{}
		}
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
}

// Unregister drops every subscription of handler
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	r.subs = slices.DeleteFunc(r.subs, func(s subscription) bool { return s.handler == handler })
	r.mu.Unlock()
}

// GetHandlers returns a snapshot of the handlers subscribed to eventType.
// A handler subscribed more than once appears once.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]shared.EventHandler, 0, len(r.subs))
	for _, s := range r.subs {
		if s.matches(eventType) && !slices.Contains(result, s.handler) {
			result = append(result, s.handler)
		}
	}
	return result
}
