package binding

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilExecute reports a command constructed without an execute action.
	ErrNilExecute = errors.New("binding: execute action is required")
	// ErrNilCanExecute reports a command constructed without an enablement predicate.
	ErrNilCanExecute = errors.New("binding: canExecute predicate is required")
	// ErrNilElement reports a bind call against a nil element.
	ErrNilElement = errors.New("binding: element is required")
	// ErrNilLocator reports a bind call without a service locator.
	ErrNilLocator = errors.New("binding: locator is required")
	// ErrEmptyDescriptor reports a bind call without a type descriptor.
	ErrEmptyDescriptor = errors.New("binding: type descriptor is required")
	// ErrNotFound reports a type descriptor the service locator cannot supply.
	ErrNotFound = errors.New("binding: instance not found")
)

// ResolutionError captures the descriptor that failed to resolve alongside
// the originating error.
type ResolutionError struct {
	Key string
	Err error
}

func (e *ResolutionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("binding: resolve %q: %v", e.Key, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TypeMismatchError reports a command parameter incompatible with the
// parameter type the command was constructed for.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("binding: parameter type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// PredicateError captures predicate-engine metadata alongside the
// originating error.
type PredicateError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *PredicateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("binding: %s predicate %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *PredicateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEngineError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var predErr *PredicateError
	if errors.As(err, &predErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "binding:") {
		return err
	}
	return fmt.Errorf("binding: %s predicate: %w", engine, err)
}

func wrapPredicateError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}

	var predErr *PredicateError
	if errors.As(err, &predErr) {
		if predErr.Engine == "" {
			predErr.Engine = engine
		}
		if predErr.Expr == "" {
			predErr.Expr = expr
		}
		return predErr
	}

	return &PredicateError{
		Engine: engine,
		Expr:   expr,
		Err:    err,
	}
}
