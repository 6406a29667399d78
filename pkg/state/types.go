package state

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-binding/pkg/observe"
)

var ErrNotImplemented = errors.New("state: not implemented")

// ErrNoStore is returned by checkpoint/restore operations on containers
// constructed without a backing store.
var ErrNoStore = errors.New("state: store not configured")

// Observable is the capability a stateful service exposes to its observers:
// read the current snapshot, subscribe to replacements.
//
// Implementations must assign the backing value before broadcasting, so an
// observer that reads State inside its handler sees the new snapshot, never
// the old one. Replacement is atomic from the observer's point of view: no
// intermediate state is visible between two broadcasts. The broadcast runs
// on whichever goroutine performed the mutation; marshaling to a UI-affine
// goroutine is the subscriber's responsibility.
type Observable[T any] interface {
	State() T
	OnStateChanged(fn func(T)) observe.Subscription
}

// Meta is storage-owned metadata used for audit and concurrency control when
// snapshots are checkpointed through a Store.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one snapshot under one key. Implementations own all
// persistence details; this package never defines a wire or file format.
type Store[T any] interface {
	Load(ctx context.Context, key string) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, key string, snapshot T, meta Meta) (Meta, error)
}
