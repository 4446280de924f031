package eventbus

import (
	"context"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/schema"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventSession carries session transitions.
	EventSession EventType = "session"
	// EventOperation carries operation status changes.
	EventOperation EventType = "operation"
)

// Event represents a client state change observed by UI-facing callers.
type Event struct {
	Type      EventType
	Session   schema.SessionEvent
	Operation schema.OperationEvent
}

// Bus fans events out to subscribers without blocking publishers.
type Bus struct {
	mu    sync.Mutex
	subs  map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[chan Event]struct{}),
		log:   logger,
		depth: 64,
	}
}

// Subscribe registers a subscriber and returns a channel + cancel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.Debug("eventbus subscribe", "subs", count)
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
			if b.log != nil {
				b.log.Debug("eventbus unsubscribe")
			}
		})
	}
}

// OnSession publishes a session event.
func (b *Bus) OnSession(event schema.SessionEvent) {
	b.publish(Event{Type: EventSession, Session: event})
}

// OnOperation publishes an operation event.
func (b *Bus) OnOperation(event schema.OperationEvent) {
	b.publish(Event{Type: EventOperation, Operation: event})
}

func (b *Bus) publish(event Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.subs) == 0 {
		return
	}
	dropped := 0
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 && b.log != nil {
		b.log.Trace("eventbus dropped", "type", event.Type, "count", dropped)
	}
}
