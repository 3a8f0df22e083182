// Package event provides the pub/sub channel between the change watcher,
// the sync coordinator, and the status server, using watermill.
package event

import (
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Type identifies an event.
type Type string

const (
	// WorkspaceChanged fires when the workspace document was modified on
	// disk.
	WorkspaceChanged Type = "workspace.changed"
	// ArtifactChanged fires when a folder's settings artifact was modified
	// on disk.
	ArtifactChanged Type = "artifact.changed"
	// ForwardCompleted fires after a forward sync pass finished.
	ForwardCompleted Type = "sync.forward.completed"
	// ReverseCompleted fires after a reverse sync pass finished.
	ReverseCompleted Type = "sync.reverse.completed"
)

// Event is a published event.
type Event struct {
	Type Type `json:"type"`
	Data any  `json:"data"`
}

// Subscriber receives events.
type Subscriber func(event Event)

type subscriberEntry struct {
	id uint64
	fn Subscriber
}

// Bus is a typed pub/sub bus. Watermill's gochannel provides the transport
// infrastructure; subscriber dispatch stays direct so events keep their Go
// types.
type Bus struct {
	mu sync.RWMutex

	pubsub      *gochannel.GoChannel
	subscribers map[Type][]subscriberEntry
	global      []subscriberEntry

	nextID uint64
	closed bool
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 64,
				Persistent:          false,
			},
			watermill.NopLogger{},
		),
		subscribers: make(map[Type][]subscriberEntry),
	}
}

// Subscribe registers a subscriber for one event type and returns an
// unsubscribe function.
func (b *Bus) Subscribe(t Type, fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	id := atomic.AddUint64(&b.nextID, 1)
	b.subscribers[t] = append(b.subscribers[t], subscriberEntry{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[t]
		for i, entry := range subs {
			if entry.id == id {
				b.subscribers[t] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// SubscribeAll registers a subscriber for every event type and returns an
// unsubscribe function.
func (b *Bus) SubscribeAll(fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	id := atomic.AddUint64(&b.nextID, 1)
	b.global = append(b.global, subscriberEntry{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, entry := range b.global {
			if entry.id == id {
				b.global = append(b.global[:i], b.global[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers an event to all matching subscribers, each in its own
// goroutine.
func (b *Bus) Publish(event Event) {
	for _, sub := range b.collect(event.Type) {
		go sub(event)
	}
}

// PublishSync delivers an event to all matching subscribers in the calling
// goroutine before returning.
func (b *Bus) PublishSync(event Event) {
	for _, sub := range b.collect(event.Type) {
		sub(event)
	}
}

func (b *Bus) collect(t Type) []Subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}
	subs := make([]Subscriber, 0, len(b.subscribers[t])+len(b.global))
	for _, entry := range b.subscribers[t] {
		subs = append(subs, entry.fn)
	}
	for _, entry := range b.global {
		subs = append(subs, entry.fn)
	}
	return subs
}

// Close shuts the bus down; further publishes and subscribes are no-ops.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.subscribers = make(map[Type][]subscriberEntry)
	b.global = nil
	b.mu.Unlock()

	return b.pubsub.Close()
}
