package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedEvent struct {
	shared.BaseDomainEvent
	Payload string `json:"payload"`
}

func newRecordedEvent(eventType string) *recordedEvent {
	return &recordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, uuid.New(), "Invoice", uuid.New()),
		Payload:         "payload",
	}
}

type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryBusPublish(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())

	handler := newRecordingHandler("invoice.sent")
	bus.Subscribe(handler)

	evt := newRecordedEvent("invoice.sent")
	require.NoError(t, bus.Publish(context.Background(), evt))

	got := handler.received()
	require.Len(t, got, 1)
	assert.Equal(t, evt, got[0])
}

func TestInMemoryBusRoutesByEventType(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())

	sentHandler := newRecordingHandler("invoice.sent")
	paidHandler := newRecordingHandler("invoice.paid")
	bus.Subscribe(sentHandler)
	bus.Subscribe(paidHandler)

	require.NoError(t, bus.Publish(context.Background(), newRecordedEvent("invoice.sent")))

	assert.Len(t, sentHandler.received(), 1)
	assert.Empty(t, paidHandler.received())
}

func TestInMemoryBusWildcardHandler(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())

	all := newRecordingHandler()
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newRecordedEvent("invoice.sent"),
		newRecordedEvent("quote.accepted"),
	))

	assert.Len(t, all.received(), 2)
}

func TestInMemoryBusHandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())

	failing := newRecordingHandler("invoice.sent")
	failing.err = errors.New("boom")
	healthy := newRecordingHandler("invoice.sent")
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newRecordedEvent("invoice.sent")))

	assert.Len(t, failing.received(), 1)
	assert.Len(t, healthy.received(), 1)
}

func TestInMemoryBusUnsubscribe(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())

	handler := newRecordingHandler("invoice.sent")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newRecordedEvent("invoice.sent")))

	assert.Empty(t, handler.received())
}

func TestInMemoryBusRecoversFromHandlerPanic(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())

	bus.Subscribe(panicHandler{}, "invoice.sent")
	healthy := newRecordingHandler("invoice.sent")
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newRecordedEvent("invoice.sent"))
	})
	assert.Len(t, healthy.received(), 1)
}

type panicHandler struct{}

func (panicHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	panic("handler exploded")
}

func (panicHandler) EventTypes() []string { return nil }
