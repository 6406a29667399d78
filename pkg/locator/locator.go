// Package locator defines the service-locator boundary the binding-context
// resolver depends on: a single "lookup instance by type descriptor" call
// answered by the host application's dependency-injection container. The
// in-memory Registry is intended for tests, examples, and hosts without a
// container of their own; anything beyond that stays on the host's side of
// the boundary.
package locator

import (
	"fmt"
	"reflect"
	"sync"
)

// Key is a type descriptor: the canonical name of the service type to
// resolve. Keys are derived, not hand-written, so a registration and a later
// lookup of the same Go type always agree.
type Key string

// KeyFor derives the canonical key for a reflect type.
func KeyFor(t reflect.Type) Key {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return Key(t.String())
	}
	return Key(t.PkgPath() + "." + t.Name())
}

// KeyOf derives the canonical key for a compile-time type.
func KeyOf[T any]() Key {
	return KeyFor(reflect.TypeOf((*T)(nil)).Elem())
}

// Locator answers one question: which instance, if any, is registered under
// a type descriptor. The resolver issues exactly one Lookup per binding.
type Locator interface {
	Lookup(key Key) (any, bool)
}

// LookupFunc adapts a plain function to Locator.
type LookupFunc func(key Key) (any, bool)

// Lookup dispatches to the underlying function.
func (fn LookupFunc) Lookup(key Key) (any, bool) {
	if fn == nil {
		return nil, false
	}
	return fn(key)
}

// Registry is a minimal in-memory Locator implementation.
type Registry struct {
	mu        sync.RWMutex
	instances map[Key]any
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{instances: map[Key]any{}}
}

// Register stores instance under key, guarding against duplicates.
func (r *Registry) Register(key Key, instance any) error {
	if key == "" {
		return fmt.Errorf("locator: key is required")
	}
	if instance == nil {
		return fmt.Errorf("locator: instance for %q is nil", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.instances == nil {
		r.instances = map[Key]any{}
	}
	if _, exists := r.instances[key]; exists {
		return fmt.Errorf("locator: %q already registered", key)
	}
	r.instances[key] = instance
	return nil
}

// Lookup implements Locator.
func (r *Registry) Lookup(key Key) (any, bool) {
	r.mu.RLock()
	instance, ok := r.instances[key]
	r.mu.RUnlock()
	return instance, ok
}

// Set registers instance under its derived type key.
func Set[T any](r *Registry, instance T) error {
	return r.Register(KeyOf[T](), instance)
}

// Get looks up the instance registered for T, reporting absence or a
// registration of an incompatible concrete type via ok=false.
func Get[T any](l Locator) (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}
	instance, ok := l.Lookup(KeyOf[T]())
	if !ok {
		return zero, false
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
