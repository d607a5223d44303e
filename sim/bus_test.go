package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_Publish_InvokesSubscribersInOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int

	bus.Subscribe(func(DomainEvent) { order = append(order, 1) })
	bus.Subscribe(func(DomainEvent) { order = append(order, 2) })

	bus.Publish(NewRunStartedEvent(0, "test", 1, 1, 1, 1, "s", "1.0"))

	assert.Equal(t, []int{1, 2}, order)
}

func TestEventBus_Unsubscribe_StopsDelivery(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	sub := bus.Subscribe(func(DomainEvent) { calls++ })

	bus.Publish(NewRunStartedEvent(0, "test", 1, 1, 1, 1, "s", "1.0"))
	sub.Unsubscribe()
	bus.Publish(NewRunStartedEvent(0, "test", 1, 1, 1, 1, "s", "1.0"))

	assert.Equal(t, 1, calls)
}

func TestEventBus_Unsubscribe_Idempotent(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(func(DomainEvent) {})
	sub.Unsubscribe()
	assert.NotPanics(t, func() { sub.Unsubscribe() })
}

func TestEventBus_HandlerCanSubscribeDuringDispatch(t *testing.T) {
	// GIVEN a handler that subscribes a new handler mid-publish
	bus := NewEventBus()
	secondCalled := false
	bus.Subscribe(func(DomainEvent) {
		bus.Subscribe(func(DomainEvent) { secondCalled = true })
	})

	// WHEN two publishes occur
	bus.Publish(NewRunStartedEvent(0, "test", 1, 1, 1, 1, "s", "1.0"))
	bus.Publish(NewRunStartedEvent(0, "test", 1, 1, 1, 1, "s", "1.0"))

	// THEN the newly-subscribed handler fires on the second publish, not the first
	assert.True(t, secondCalled)
}
