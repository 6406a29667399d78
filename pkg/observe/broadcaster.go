package observe

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is a handle to one registered observer. Cancel removes the
// observer from its broadcast point; cancelling twice is a no-op.
type Subscription interface {
	Cancel()
}

type subscriber[T any] struct {
	id uuid.UUID
	fn func(T)
}

// Broadcaster fans a value out to an ordered list of observers. Observers are
// notified synchronously, on the calling goroutine, in subscription order.
// There is no batching, deduplication, or delivery confirmation; notifying
// with zero subscribers is a no-op.
type Broadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers []subscriber[T]
}

// NewBroadcaster constructs an empty broadcast point.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{}
}

// Subscribe appends fn to the observer list and returns its handle. A nil fn
// still produces a valid handle but is never invoked.
func (b *Broadcaster[T]) Subscribe(fn func(T)) Subscription {
	entry := subscriber[T]{id: uuid.New(), fn: fn}
	b.mu.Lock()
	b.subscribers = append(b.subscribers, entry)
	b.mu.Unlock()
	return &subscription[T]{broadcaster: b, id: entry.id}
}

// Notify delivers value to every observer in subscription order.
func (b *Broadcaster[T]) Notify(value T) {
	b.mu.RLock()
	subscribers := make([]subscriber[T], len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	for _, entry := range subscribers {
		if entry.fn != nil {
			entry.fn(value)
		}
	}
}

// Len reports the number of registered observers.
func (b *Broadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *Broadcaster[T]) remove(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, entry := range b.subscribers {
		if entry.id == id {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

type subscription[T any] struct {
	broadcaster *Broadcaster[T]
	id          uuid.UUID
	once        sync.Once
}

func (s *subscription[T]) Cancel() {
	s.once.Do(func() {
		s.broadcaster.remove(s.id)
	})
}
