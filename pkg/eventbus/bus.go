// Package eventbus provides the process-wide publish/subscribe channel that
// handlers use to announce side effects. Delivery is synchronous and in
// subscription order. Publishing is best-effort by contract: a failing
// subscriber never prevents delivery to later subscribers, never reaches the
// publisher, and never alters the outcome of the operation that published.
package eventbus

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/contextworks/mcp-gateway/pkg/logging"
)

// Handler consumes one published event.
type Handler func(ctx context.Context, payload interface{})

// Bus is a synchronous fan-out event bus. Subscriptions last for the process
// lifetime; the subscriber list is expected to be complete before traffic
// starts, so Publish takes only a read lock.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]Handler
	logger logging.Logger
}

// New creates an event bus. A nil logger discards delivery diagnostics.
func New(logger logging.Logger) *Bus {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Bus{
		subs:   make(map[string][]Handler),
		logger: logger.WithFields(logging.String("component", "eventbus")),
	}
}

// Subscribe registers a handler for event. Handlers are invoked in
// subscription order and stay registered for the process lifetime.
func (b *Bus) Subscribe(event string, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[event] = append(b.subs[event], handler)
}

// Publish delivers payload to every subscriber of event, synchronously and in
// subscription order. A panicking subscriber is recovered and logged; it does
// not stop delivery and it does not propagate to the caller. Publish never
// returns an error.
func (b *Bus) Publish(ctx context.Context, event string, payload interface{}) {
	b.mu.RLock()
	handlers := b.subs[event]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	eventID := uuid.NewString()
	for i, handler := range handlers {
		b.deliver(ctx, event, eventID, i, handler, payload)
	}
}

func (b *Bus) deliver(ctx context.Context, event, eventID string, index int, handler Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("subscriber panicked during delivery",
				logging.String("event", event),
				logging.String("event_id", eventID),
				logging.Int("subscriber", index),
				logging.Any("panic", r),
			)
		}
	}()
	handler(ctx, payload)
}
