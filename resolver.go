package binding

import (
	"context"
	"sync"

	"github.com/goliatone/go-binding/pkg/activity"
	"github.com/goliatone/go-binding/pkg/locator"
	"github.com/goliatone/go-binding/pkg/observe"
)

// Element is the UI lifecycle boundary the resolver depends on: a readiness
// query, a cancellable "ready for display" subscription, and a
// binding-context slot. Host frameworks adapt their own element type to this
// interface.
type Element interface {
	IsReady() bool
	OnReady(fn func()) (cancel func())
	SetBindingContext(ctx any)
}

type bindConfig struct {
	onError func(error)
	emitter *activity.Emitter
}

// BindOption configures a single Bind call.
type BindOption func(*bindConfig)

// BindWithErrorHandler receives lookup failures that occur on the deferred
// path, after Bind has already returned.
func BindWithErrorHandler(fn func(error)) BindOption {
	return func(cfg *bindConfig) {
		cfg.onError = fn
	}
}

// BindWithEmitter attaches a lifecycle activity emitter.
func BindWithEmitter(emitter *activity.Emitter) BindOption {
	return func(cfg *bindConfig) {
		cfg.emitter = emitter
	}
}

// Bind resolves descriptor against loc and assigns the result as element's
// binding context, deferring until the element is ready for display.
//
// If the element is already ready, exactly one lookup and one assignment
// happen synchronously before Bind returns, and any failure is returned
// directly. Otherwise both are deferred until the first ready event; the
// ready subscription is cancelled immediately after firing once, so repeated
// ready events never re-resolve or re-assign. A lookup miss is fatal to that
// element's setup: the binding context stays unset, with no retry or default.
func Bind(element Element, descriptor locator.Key, loc locator.Locator, opts ...BindOption) error {
	if element == nil {
		return ErrNilElement
	}
	if descriptor == "" {
		return ErrEmptyDescriptor
	}
	if loc == nil {
		return ErrNilLocator
	}
	cfg := bindConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if element.IsReady() {
		return resolveAndAssign(element, descriptor, loc, cfg)
	}

	var once sync.Once
	var cancel func()
	cancel = element.OnReady(func() {
		once.Do(func() {
			if cancel != nil {
				cancel()
			}
			if err := resolveAndAssign(element, descriptor, loc, cfg); err != nil && cfg.onError != nil {
				cfg.onError(err)
			}
		})
	})
	return nil
}

func resolveAndAssign(element Element, descriptor locator.Key, loc locator.Locator, cfg bindConfig) error {
	instance, ok := loc.Lookup(descriptor)
	if !ok {
		return &ResolutionError{Key: string(descriptor), Err: ErrNotFound}
	}
	element.SetBindingContext(instance)
	if cfg.emitter.Enabled() {
		_ = cfg.emitter.Emit(context.Background(), activity.BuildContextResolvedEvent(activity.EventInput{
			ObjectID: string(descriptor),
		}))
	}
	return nil
}

// ElementBase is a minimal embeddable Element implementation for hosts
// without a native lifecycle: a readiness flag, a ready broadcast, and a
// binding-context slot. MarkReady flips the flag before broadcasting, so
// IsReady reports true inside ready handlers.
type ElementBase struct {
	ready      bool
	readyEvent observe.Broadcaster[struct{}]
	bindingCtx any
}

// IsReady reports whether the element is ready for display.
func (e *ElementBase) IsReady() bool {
	return e.ready
}

// OnReady registers fn for ready events and returns a cancel function.
func (e *ElementBase) OnReady(fn func()) func() {
	sub := e.readyEvent.Subscribe(func(struct{}) {
		if fn != nil {
			fn()
		}
	})
	return sub.Cancel
}

// SetBindingContext assigns the element's data-binding source.
func (e *ElementBase) SetBindingContext(ctx any) {
	e.bindingCtx = ctx
}

// BindingContext returns the currently assigned data-binding source.
func (e *ElementBase) BindingContext() any {
	return e.bindingCtx
}

// MarkReady marks the element ready and broadcasts a ready event. Hosts may
// call it more than once; observers decide whether repeats matter.
func (e *ElementBase) MarkReady() {
	e.ready = true
	e.readyEvent.Notify(struct{}{})
}
