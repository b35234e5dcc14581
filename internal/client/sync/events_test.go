package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch1, cancel1 := bus.Subscribe()
	defer cancel1()
	ch2, cancel2 := bus.Subscribe()
	defer cancel2()

	bus.Publish(Event{Type: EventSyncStarted, Total: 3})

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, EventSyncStarted, ev1.Type)
	assert.Equal(t, 3, ev1.Total)
	assert.Equal(t, EventSyncStarted, ev2.Type)
	assert.False(t, ev1.Time.IsZero(), "publish stamps the event time")
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	cancel()

	// Channel is closed; publish must not panic.
	bus.Publish(Event{Type: EventSyncComplete})

	_, open := <-ch
	assert.False(t, open)
}

func TestBus_SlowConsumerDoesNotBlock(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	defer cancel()

	// Overflow the buffer; excess events are dropped, not queued.
	for i := 0; i < eventBuffer*2; i++ {
		bus.Publish(Event{Type: EventSyncProgress, Current: i})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, eventBuffer, received)
}

func TestBus_CloseTerminatesSubscribers(t *testing.T) {
	bus := NewBus()

	ch, _ := bus.Subscribe()
	bus.Close()

	_, open := <-ch
	require.False(t, open)

	// Subscribing after close yields a closed channel.
	late, cancelLate := bus.Subscribe()
	defer cancelLate()
	_, open = <-late
	assert.False(t, open)

	// Publish after close is a no-op.
	bus.Publish(Event{Type: EventSyncError})
}
