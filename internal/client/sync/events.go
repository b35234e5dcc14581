package sync

import (
	"sync"
	"time"
)

// EventType identifies one sync event.
type EventType string

const (
	EventSyncStarted  EventType = "sync_started"
	EventSyncProgress EventType = "sync_progress"
	EventSyncComplete EventType = "sync_complete"
	EventSyncError    EventType = "sync_error"
	EventPullComplete EventType = "pull_complete"
)

// Event is one entry in the engine's event stream. Progress events carry
// Current/Total; terminal events carry Stats or Err.
type Event struct {
	Time    time.Time
	Type    EventType
	Err     string
	Stats   *PushStats
	Current int
	Total   int
}

// subscriber channels are buffered; a slow consumer loses events rather than
// blocking the sync loop.
const eventBuffer = 32

// Bus is a typed publish/subscribe channel connecting the engine to the
// orchestrator, CLI and agent.
type Bus struct {
	subs   map[int]chan Event
	nextID int
	mu     sync.Mutex
	closed bool
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new consumer. The returned cancel func must be called
// to release the subscription.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	ch := make(chan Event, eventBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish fans the event out to all subscribers without blocking.
func (b *Bus) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close terminates the bus and all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
