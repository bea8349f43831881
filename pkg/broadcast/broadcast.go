package broadcast

import (
	"sync"
)

// Broadcaster fans out events of type E to all subscribers.
// New subscribers receive the last broadcasted value immediately.
// Slow subscribers miss intermediate events instead of blocking the sender,
// the latest event is kept.
type Broadcaster[E any] struct {
	mu          sync.Mutex
	subscribers []chan E
	lastValue   *E
	closed      bool
}

func NewBroadcaster[E any]() *Broadcaster[E] {
	return &Broadcaster[E]{
		subscribers: make([]chan E, 0),
	}
}

func (b *Broadcaster[E]) Subscribe() <-chan E {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan E, 1)
	if b.closed {
		close(ch)
		return ch
	}
	if b.lastValue != nil {
		// the channel is new and buffered, this never blocks
		ch <- *b.lastValue
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

func (b *Broadcaster[E]) Unsubscribe(ch <-chan E) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, subscriber := range b.subscribers {
		if subscriber == ch {
			close(subscriber)
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

func (b *Broadcaster[E]) Broadcast(event E) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.lastValue = &event
	for _, subscriber := range b.subscribers {
		select {
		case subscriber <- event:
		default:
			// replace the stale value, the subscriber only needs the latest one
			select {
			case <-subscriber:
			default:
			}
			select {
			case subscriber <- event:
			default:
			}
		}
	}
}

// Last returns the last broadcasted value
func (b *Broadcaster[E]) Last() (E, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastValue == nil {
		var zero E
		return zero, false
	}
	return *b.lastValue, true
}

// Close closes all subscriber channels. Later broadcasts are ignored.
func (b *Broadcaster[E]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, subscriber := range b.subscribers {
		close(subscriber)
	}
	b.subscribers = nil
}
