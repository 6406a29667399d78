package state

import (
	"context"
	"fmt"

	"github.com/goliatone/go-binding/pkg/activity"
	"github.com/goliatone/go-binding/pkg/observe"
)

// ContainerOption configures a Container instance.
type ContainerOption[T any] func(*Container[T])

// WithStore attaches a persistence seam used by Checkpoint and Restore.
func WithStore[T any](store Store[T], key string) ContainerOption[T] {
	return func(c *Container[T]) {
		c.store = store
		c.storeKey = key
	}
}

// WithEmitter attaches a lifecycle activity emitter; every replacement emits
// a state.replaced event after the broadcast completes.
func WithEmitter[T any](emitter *activity.Emitter, name string) ContainerOption[T] {
	return func(c *Container[T]) {
		c.emitter = emitter
		c.name = name
	}
}

// Container is the reference Observable implementation: one snapshot field,
// one ordered change broadcast. It provides no mutual exclusion between
// writers; the owning service is the single writer.
type Container[T any] struct {
	snapshot T
	changed  observe.Broadcaster[T]

	store    Store[T]
	storeKey string
	meta     Meta

	emitter *activity.Emitter
	name    string
}

// New constructs a container holding initial as its first snapshot. No
// broadcast fires for the initial value.
func New[T any](initial T, opts ...ContainerOption[T]) *Container[T] {
	c := &Container[T]{snapshot: initial}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// State returns the current snapshot.
func (c *Container[T]) State() T {
	return c.snapshot
}

// OnStateChanged registers fn for every subsequent replacement. Observers are
// notified in subscription order; removal is the subscriber's responsibility
// via the returned handle.
func (c *Container[T]) OnStateChanged(fn func(T)) observe.Subscription {
	return c.changed.Subscribe(fn)
}

// Set replaces the snapshot wholesale and broadcasts the new value exactly
// once, synchronously. The field is assigned before the broadcast fires.
func (c *Container[T]) Set(next T) {
	c.snapshot = next
	c.changed.Notify(next)
	if c.emitter.Enabled() {
		_ = c.emitter.Emit(context.Background(), activity.BuildStateReplacedEvent(activity.EventInput{
			ObjectID: c.name,
		}))
	}
}

// Mutate derives the next snapshot from the current one and replaces it. The
// function receives a copy; mutating shared reference fields inside prior
// snapshots breaks the immutability contract.
func (c *Container[T]) Mutate(fn func(T) T) {
	if fn == nil {
		return
	}
	c.Set(fn(c.snapshot))
}

// Checkpoint saves the current snapshot through the configured store.
func (c *Container[T]) Checkpoint(ctx context.Context) error {
	if c.store == nil {
		return ErrNoStore
	}
	meta, err := c.store.Save(ctx, c.storeKey, c.snapshot, c.meta)
	if err != nil {
		return fmt.Errorf("state: checkpoint %q: %w", c.storeKey, err)
	}
	c.meta = meta
	return nil
}

// Restore loads the stored snapshot, replaces the current one, and
// broadcasts it. A missing record leaves the container untouched and reports
// ok=false without error.
func (c *Container[T]) Restore(ctx context.Context) (bool, error) {
	if c.store == nil {
		return false, ErrNoStore
	}
	snapshot, meta, ok, err := c.store.Load(ctx, c.storeKey)
	if err != nil {
		return false, fmt.Errorf("state: restore %q: %w", c.storeKey, err)
	}
	if !ok {
		return false, nil
	}
	c.meta = meta
	c.Set(snapshot)
	return true, nil
}
