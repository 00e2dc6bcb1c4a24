package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublish_DeliversToTypedSubscriber(t *testing.T) {
	bus := NewEventBus()

	var received []ScheduleImported
	unsub := SubscribeTyped[ScheduleImported](bus, ScheduleImportedType, func(e EventT[ScheduleImported]) error {
		received = append(received, e.Data)
		return nil
	})
	defer unsub()

	payload := ScheduleImported{CourseName: "CS 2200", EventCount: 12, DroppedCount: 1}
	err := bus.Publish(NewEvent(context.Background(), ScheduleImportedType, payload))

	assert.NoError(t, err)
	assert.Len(t, received, 1)
	assert.Equal(t, payload, received[0])
}

func TestPublish_TypeMismatchIsSkipped(t *testing.T) {
	bus := NewEventBus()

	called := false
	SubscribeTyped[ScheduleImported](bus, ScheduleImportedType, func(e EventT[ScheduleImported]) error {
		called = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), ScheduleImportedType, "not a struct"))

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestPublish_CollectsHandlerErrors(t *testing.T) {
	bus := NewEventBus()

	bus.Subscribe(ScheduleImportedType, func(e Event) error {
		return errors.New("boom")
	})

	err := bus.Publish(NewEvent(context.Background(), ScheduleImportedType, ScheduleImported{}))
	assert.Error(t, err)
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	bus := NewEventBus()

	count := 0
	unsub := bus.Subscribe(ScheduleImportedType, func(e Event) error {
		count++
		return nil
	})

	assert.NoError(t, bus.Publish(NewEvent(context.Background(), ScheduleImportedType, ScheduleImported{})))
	unsub()
	assert.NoError(t, bus.Publish(NewEvent(context.Background(), ScheduleImportedType, ScheduleImported{})))

	assert.Equal(t, 1, count)
}
