package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PostHook lets callers adjust the flattened map after encoding.
type PostHook func(map[string]any) (map[string]any, error)

// CustomEncoder replaces the default JSON flattening when provided.
type CustomEncoder func(any) (map[string]any, error)

// EncoderOption configures an Encoder instance.
type EncoderOption func(*Encoder)

// Encoder flattens typed snapshot values into string-keyed maps suitable for
// expression-evaluator environments.
type Encoder struct {
	postHooks []PostHook
	custom    CustomEncoder
}

// WithPostHook applies hook after encoding.
func WithPostHook(hook PostHook) EncoderOption {
	return func(e *Encoder) {
		e.postHooks = append(e.postHooks, hook)
	}
}

// WithCustomEncoder replaces the default JSON round-trip.
func WithCustomEncoder(custom CustomEncoder) EncoderOption {
	return func(e *Encoder) {
		e.custom = custom
	}
}

// NewEncoder constructs an encoder with the provided options.
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Map flattens value into a map. nil values produce an empty map; values that
// are already map[string]any pass through untouched. Field names follow the
// value's JSON tags.
func (e *Encoder) Map(value any) (map[string]any, error) {
	flattened, err := e.flatten(value)
	if err != nil {
		return nil, err
	}
	for _, hook := range e.postHooks {
		if hook == nil {
			continue
		}
		flattened, err = hook(flattened)
		if err != nil {
			return nil, fmt.Errorf("hydrate: post hook: %w", err)
		}
	}
	return flattened, nil
}

func (e *Encoder) flatten(value any) (map[string]any, error) {
	if value == nil {
		return map[string]any{}, nil
	}
	if m, ok := value.(map[string]any); ok {
		return m, nil
	}
	if e.custom != nil {
		return e.custom(value)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("hydrate: encode snapshot: %w", err)
	}

	dec := json.NewDecoder(&buf)
	out := map[string]any{}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("hydrate: snapshot is not map-shaped: %w", err)
	}
	return out, nil
}

// Map flattens value using a default encoder.
func Map(value any) (map[string]any, error) {
	return NewEncoder().Map(value)
}
