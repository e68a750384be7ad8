package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pharmapos/backend/internal/domain/shared"
)

// InMemoryEventBus delivers domain events to subscribed handlers within
// the process. Delivery is synchronous; a failing handler is logged and
// does not block the others.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	catchAll []shared.EventHandler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates an empty bus.
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		byType: make(map[string][]shared.EventHandler),
		logger: logger,
	}
}

// Subscribe registers a handler for the event types it declares. A
// handler declaring no types receives every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	types := handler.EventTypes()
	if len(types) == 0 {
		b.catchAll = append(b.catchAll, handler)
		b.logger.Debug("handler subscribed to all events")
		return
	}
	for _, eventType := range types {
		b.byType[eventType] = append(b.byType[eventType], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", types))
}

// Unsubscribe removes a handler from every subscription.
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, handlers := range b.byType {
		b.byType[eventType] = removeHandler(handlers, handler)
	}
	b.catchAll = removeHandler(b.catchAll, handler)
}

// Publish dispatches each event to its subscribed handlers.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.handlersFor(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := make([]shared.EventHandler, 0, len(b.byType[eventType])+len(b.catchAll))
	handlers = append(handlers, b.byType[eventType]...)
	handlers = append(handlers, b.catchAll...)
	return handlers
}

// dispatch shields the bus from a panicking handler.
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return handler.Handle(ctx, event)
}

func removeHandler(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	kept := handlers[:0]
	for _, h := range handlers {
		if h != target {
			kept = append(kept, h)
		}
	}
	return kept
}

var _ shared.EventPublisher = (*InMemoryEventBus)(nil)
