package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/freightops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, uuid.New(), map[string]any{
			"test": true,
		}),
	}
}

type testHandler struct {
	mu       sync.Mutex
	name     string
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
	onHandle func()
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.received = append(h.received, event)
	h.mu.Unlock()
	if h.onHandle != nil {
		h.onHandle()
	}
	if h.panics {
		panic("handler exploded")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.types
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func TestInMemoryEventBus_PublishAndSubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{name: "h1", types: []string{"pod.matched"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("pod.matched"))
	require.NoError(t, err)

	require.Equal(t, 1, handler.count())
	assert.Equal(t, "pod.matched", handler.received[0].EventType())
}

func TestInMemoryEventBus_TypeFilter(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{name: "h1", types: []string{"booking.confirmed"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		newTestEvent("booking.created"),
		newTestEvent("booking.confirmed"),
		newTestEvent("pod.matched"),
	)
	require.NoError(t, err)

	require.Equal(t, 1, handler.count())
	assert.Equal(t, "booking.confirmed", handler.received[0].EventType())
}

func TestInMemoryEventBus_WildcardSubscription(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{name: "audit"}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		newTestEvent("booking.created"),
		newTestEvent("pod.matched"),
		newTestEvent("invoice.batch_completed"),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, handler.count())
}

func TestInMemoryEventBus_DeliveryOrder(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	var mu sync.Mutex
	var order []string
	newOrdered := func(name string) *testHandler {
		h := &testHandler{name: name, types: []string{"booking.created"}}
		h.onHandle = func() {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
		return h
	}

	first := newOrdered("first")
	second := newOrdered("second")
	third := newOrdered("third")
	bus.Subscribe(first)
	bus.Subscribe(second)
	bus.Subscribe(third)

	err := bus.Publish(context.Background(), newTestEvent("booking.created"))
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &testHandler{name: "failing", types: []string{"booking.created"}, err: errors.New("handler error")}
	healthy := &testHandler{name: "healthy", types: []string{"booking.created"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("booking.created"))
	require.NoError(t, err)

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_HandlerPanicDoesNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &testHandler{name: "panicking", types: []string{"booking.created"}, panics: true}
	healthy := &testHandler{name: "healthy", types: []string{"booking.created"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		err := bus.Publish(context.Background(), newTestEvent("booking.created"))
		require.NoError(t, err)
	})

	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{name: "h1", types: []string{"booking.created"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("booking.created")))
	require.Equal(t, 1, handler.count())

	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("booking.created")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{name: "h1", types: []string{"booking.created"}}
	bus.Subscribe(handler, "pod.matched")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("booking.created")))
	assert.Equal(t, 0, handler.count())

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("pod.matched")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{name: "h1", types: []string{"booking.created"}}
	bus.Subscribe(handler)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), newTestEvent("booking.created"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, handler.count())
}
