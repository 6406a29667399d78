package activity

import "time"

// EventInput describes the common fields for binding lifecycle events.
type EventInput struct {
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildCommandExecutedEvent constructs a normalized event for a command invocation.
func BuildCommandExecutedEvent(input EventInput) Event {
	return buildEvent("command.executed", "command", input)
}

// BuildEnablementChangedEvent constructs an event for a command re-announcing
// its enablement.
func BuildEnablementChangedEvent(input EventInput) Event {
	return buildEvent("command.enablement.changed", "command", input)
}

// BuildStateReplacedEvent constructs an event for an observable snapshot replacement.
func BuildStateReplacedEvent(input EventInput) Event {
	return buildEvent("state.replaced", "state", input)
}

// BuildContextResolvedEvent constructs an event for a binding-context resolution.
func BuildContextResolvedEvent(input EventInput) Event {
	return buildEvent("context.resolved", "element", input)
}

func buildEvent(verb, objectType string, input EventInput) Event {
	return NormalizeEvent(Event{
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   input.ObjectID,
		Channel:    input.Channel,
		Metadata:   input.Metadata,
		OccurredAt: input.OccurredAt,
	})
}
