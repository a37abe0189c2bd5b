package event

import (
	"context"
	"slices"
	"sync"

	"github.com/freightops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// subscription pairs a handler with its event type filter. An empty
// filter means the handler receives all events.
type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{}
}

func (s *subscription) wants(eventType string) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// InMemoryEventBus implements shared.EventBus with synchronous in-memory
// pub/sub. Delivery is ordered by subscription order; a handler that
// errors or panics never prevents delivery to later handlers. There is
// no event history and no replay.
type InMemoryEventBus struct {
	mu     sync.RWMutex
	subs   []*subscription
	logger *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		subs:   make([]*subscription, 0),
		logger: logger,
	}
}

// Publish delivers events synchronously to all subscribed handlers in
// subscription order. Handler failures are isolated and logged, never
// returned to the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, sub := range b.snapshot() {
			if !sub.wants(event.EventType()) {
				continue
			}
			if err := b.dispatch(ctx, sub.handler, event); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types. If no event
// types are provided, the handler's own EventTypes are used; an empty
// result subscribes the handler to all events.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	sub := &subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = struct{}{}
		}
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler. It receives no further events.
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	b.subs = slices.DeleteFunc(b.subs, func(s *subscription) bool {
		return s.handler == handler
	})
	b.mu.Unlock()

	b.logger.Debug("handler unsubscribed")
}

// snapshot copies the subscription list so handlers can subscribe or
// unsubscribe during delivery without corrupting iteration
func (b *InMemoryEventBus) snapshot() []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.subs)
}

// dispatch invokes a single handler, converting panics into logged errors
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
