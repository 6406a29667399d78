package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:       " command.executed ",
		ObjectType: " command ",
		ObjectID:   " save ",
		Channel:    " binding ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "command.executed" || got.ObjectType != "command" || got.ObjectID != "save" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.Channel != "binding" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	hooks := Hooks{&CaptureHook{}}
	if err := hooks.Notify(context.Background(), Event{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	capture := hooks[0].(*CaptureHook)
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyJoinsFailures(t *testing.T) {
	errOne := errors.New("sink one down")
	errTwo := errors.New("sink two down")
	working := &CaptureHook{}
	hooks := Hooks{&CaptureHook{Err: errOne}, working, &CaptureHook{Err: errTwo}, nil}

	err := hooks.Notify(nil, Event{Verb: "state.replaced", ObjectType: "state"})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if !errors.Is(err, errOne) || !errors.Is(err, errTwo) {
		t.Fatalf("expected both failures joined, got %v", err)
	}
	if len(working.Events) != 1 {
		t.Fatalf("expected working hook notified despite sibling failures, got %d", len(working.Events))
	}
}

func TestHookFuncAdapter(t *testing.T) {
	var fn HookFunc
	if err := fn.Notify(context.Background(), Event{}); err != nil {
		t.Fatalf("expected nil func to be a no-op, got %v", err)
	}
	called := false
	fn = func(context.Context, Event) error {
		called = true
		return nil
	}
	if err := fn.Notify(context.Background(), Event{}); err != nil || !called {
		t.Fatalf("expected adapter dispatch, called=%v err=%v", called, err)
	}
}

func TestEmitterAppliesDefaultChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})

	err := emitter.Emit(context.Background(), Event{Verb: "context.resolved", ObjectType: "element", ObjectID: "k"})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != "binding" {
		t.Fatalf("expected default channel applied, got %q", capture.Events[0].Channel)
	}
}

func TestEmitterDisabledOrEmpty(t *testing.T) {
	capture := &CaptureHook{}
	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected disabled emitter")
	}
	if err := disabled.Emit(context.Background(), Event{Verb: "x", ObjectType: "y"}); err != nil {
		t.Fatalf("emit on disabled emitter: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(capture.Events))
	}

	empty := NewEmitter(nil, Config{Enabled: true})
	if empty.Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}
	var nilEmitter *Emitter
	if nilEmitter.Enabled() {
		t.Fatalf("expected nil emitter to be disabled")
	}
}

func TestBuildEventsCarryVerbAndObjectType(t *testing.T) {
	cases := []struct {
		name       string
		build      func(EventInput) Event
		verb       string
		objectType string
	}{
		{"command executed", BuildCommandExecutedEvent, "command.executed", "command"},
		{"enablement changed", BuildEnablementChangedEvent, "command.enablement.changed", "command"},
		{"state replaced", BuildStateReplacedEvent, "state.replaced", "state"},
		{"context resolved", BuildContextResolvedEvent, "context.resolved", "element"},
	}
	occurred := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		evt := tc.build(EventInput{ObjectID: "obj", OccurredAt: occurred})
		if evt.Verb != tc.verb || evt.ObjectType != tc.objectType {
			t.Fatalf("%s: unexpected event %+v", tc.name, evt)
		}
		if !evt.OccurredAt.Equal(occurred) {
			t.Fatalf("%s: expected provided timestamp preserved", tc.name)
		}
	}
}
