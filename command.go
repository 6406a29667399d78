package binding

import (
	"context"

	"github.com/goliatone/go-binding/pkg/activity"
	"github.com/goliatone/go-binding/pkg/observe"
)

type commandConfig struct {
	name    string
	emitter *activity.Emitter
}

// CommandOption configures a command instance.
type CommandOption func(*commandConfig)

// CommandWithName labels the command in lifecycle events.
func CommandWithName(name string) CommandOption {
	return func(cfg *commandConfig) {
		cfg.name = name
	}
}

// CommandWithEmitter attaches a lifecycle activity emitter.
func CommandWithEmitter(emitter *activity.Emitter) CommandOption {
	return func(cfg *commandConfig) {
		cfg.emitter = emitter
	}
}

// Command binds a UI action to an execute function and a live enablement
// predicate. Upon construction it subscribes to the notifier's
// property-change broadcast; every property change, regardless of which
// property, re-announces the command's enablement to its own observers.
// There is no per-property filtering and no unsubscription: the command's
// subscription lives as long as the notifier, so command lifetime must not
// exceed notifier lifetime.
type Command struct {
	execute    func(any) error
	canExecute func(any) bool
	enablement observe.Broadcaster[struct{}]
	name       string
	emitter    *activity.Emitter
}

// NewCommand constructs a command from an execute action, an enablement
// predicate, and a property-change notifier. Construction fails when execute
// or canExecute is nil. A nil notifier is permitted: enablement then changes
// only via RaiseCanExecuteChanged.
func NewCommand(execute func(any) error, canExecute func(any) bool, notifier observe.Notifier, opts ...CommandOption) (*Command, error) {
	if execute == nil {
		return nil, ErrNilExecute
	}
	if canExecute == nil {
		return nil, ErrNilCanExecute
	}
	cfg := commandConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c := &Command{
		execute:    execute,
		canExecute: canExecute,
		name:       cfg.name,
		emitter:    cfg.emitter,
	}
	if notifier != nil {
		notifier.OnPropertyChanged(func(observe.PropertyChange) {
			c.RaiseCanExecuteChanged()
		})
	}
	return c, nil
}

// CanExecute reports the live predicate result. It has no side effects and is
// safe to call at arbitrary frequency; the UI layer may poll it after every
// keystroke.
func (c *Command) CanExecute(parameter any) bool {
	return c.canExecute(parameter)
}

// Execute invokes the bound action. The command does not gate on CanExecute;
// callers are expected to do so.
func (c *Command) Execute(parameter any) error {
	err := c.execute(parameter)
	if c.emitter.Enabled() {
		metadata := map[string]any{}
		if err != nil {
			metadata["error"] = err.Error()
		}
		_ = c.emitter.Emit(context.Background(), activity.BuildCommandExecutedEvent(activity.EventInput{
			ObjectID: c.name,
			Metadata: metadata,
		}))
	}
	return err
}

// OnCanExecuteChanged registers fn for every enablement re-announcement.
// Observers typically re-query CanExecute in response.
func (c *Command) OnCanExecuteChanged(fn func()) observe.Subscription {
	return c.enablement.Subscribe(func(struct{}) {
		if fn != nil {
			fn()
		}
	})
}

// RaiseCanExecuteChanged announces that the command's enablement may have
// changed. It fires exactly once per call.
func (c *Command) RaiseCanExecuteChanged() {
	c.enablement.Notify(struct{}{})
	if c.emitter.Enabled() {
		_ = c.emitter.Emit(context.Background(), activity.BuildEnablementChangedEvent(activity.EventInput{
			ObjectID: c.name,
		}))
	}
}
