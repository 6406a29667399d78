package binding

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-binding/pkg/observe"
)

// TypedCommand is the parameterized command variant: it downcasts the
// parameter the UI supplies before delegating to the typed execute/canExecute
// pair. An incompatible parameter fails Execute with a TypeMismatchError
// without invoking the action, and reports false from CanExecute.
type TypedCommand[P any] struct {
	*Command
}

// NewTypedCommand constructs a command whose action and predicate take a
// typed parameter. A nil parameter maps to P's zero value.
func NewTypedCommand[P any](execute func(P) error, canExecute func(P) bool, notifier observe.Notifier, opts ...CommandOption) (*TypedCommand[P], error) {
	if execute == nil {
		return nil, ErrNilExecute
	}
	if canExecute == nil {
		return nil, ErrNilCanExecute
	}

	inner, err := NewCommand(
		func(parameter any) error {
			typed, convErr := convertParameter[P](parameter)
			if convErr != nil {
				return convErr
			}
			return execute(typed)
		},
		func(parameter any) bool {
			typed, convErr := convertParameter[P](parameter)
			if convErr != nil {
				return false
			}
			return canExecute(typed)
		},
		notifier,
		opts...,
	)
	if err != nil {
		return nil, err
	}
	return &TypedCommand[P]{Command: inner}, nil
}

func convertParameter[P any](parameter any) (P, error) {
	var zero P
	if parameter == nil {
		return zero, nil
	}
	typed, ok := parameter.(P)
	if !ok {
		return zero, &TypeMismatchError{
			Expected: reflect.TypeOf((*P)(nil)).Elem().String(),
			Actual:   fmt.Sprintf("%T", parameter),
		}
	}
	return typed, nil
}
