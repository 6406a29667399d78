package binding

import (
	"fmt"
	"time"
)

// PredicateContext carries inputs needed when evaluating an enablement
// expression: the notifier's current snapshot, the command parameter, and
// optional caller-supplied arguments.
type PredicateContext struct {
	Snapshot  any
	Parameter any
	Now       *time.Time
	Args      map[string]any
}

func (ctx PredicateContext) withDefaultNow() PredicateContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx PredicateContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx PredicateContext) withDefaultArgs() PredicateContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

// PredicateEvaluator executes enablement expressions against a predicate
// context. Implementations must be safe for concurrent use.
type PredicateEvaluator interface {
	Evaluate(ctx PredicateContext, expression string) (any, error)
	Compile(expression string) (CompiledPredicate, error)
}

// CompiledPredicate evaluates a pre-compiled expression per invocation.
type CompiledPredicate interface {
	Evaluate(ctx PredicateContext) (any, error)
}

// SnapshotSource supplies the live snapshot an enablement expression reads.
type SnapshotSource func() any

type canExecuteConfig struct {
	logger PredicateLogger
	source SnapshotSource
	args   map[string]any
}

// CanExecuteOption configures an expression-backed enablement predicate.
type CanExecuteOption func(*canExecuteConfig)

// CanExecuteWithSource wires the snapshot source the expression evaluates
// against. Without one, the expression sees an empty snapshot.
func CanExecuteWithSource(source SnapshotSource) CanExecuteOption {
	return func(cfg *canExecuteConfig) {
		cfg.source = source
	}
}

// CanExecuteWithArgs supplies static arguments exposed to the expression.
func CanExecuteWithArgs(args map[string]any) CanExecuteOption {
	return func(cfg *canExecuteConfig) {
		cfg.args = args
	}
}

// CanExecuteWithLogger attaches a predicate logger.
func CanExecuteWithLogger(logger PredicateLogger) CanExecuteOption {
	return func(cfg *canExecuteConfig) {
		if logger == nil {
			cfg.logger = noopPredicateLogger{}
			return
		}
		cfg.logger = logger
	}
}

// NewCanExecute compiles expression with evaluator and returns an enablement
// predicate suitable for NewCommand. The predicate is live: every call
// re-reads the snapshot source and re-evaluates. A failing or non-boolean
// evaluation reports false; failures surface through the configured logger,
// never to the polling UI layer.
func NewCanExecute(evaluator PredicateEvaluator, expression string, opts ...CanExecuteOption) (func(any) bool, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("binding: predicate evaluator is required")
	}
	cfg := canExecuteConfig{logger: noopPredicateLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	compiled, err := evaluator.Compile(expression)
	if err != nil {
		return nil, err
	}
	engine := engineName(evaluator)

	return func(parameter any) bool {
		ctx := PredicateContext{Parameter: parameter, Args: cfg.args}
		if cfg.source != nil {
			ctx.Snapshot = cfg.source()
		}
		ctx = ctx.withDefaultNow().withDefaultArgs()

		start := time.Now()
		result, evalErr := compiled.Evaluate(ctx)
		duration := time.Since(start)

		allowed, ok := result.(bool)
		if evalErr == nil && !ok {
			evalErr = fmt.Errorf("binding: expression yielded %T, want bool", result)
		}
		evalErr = wrapPredicateError(engine, expression, evalErr)

		cfg.logger.LogPredicate(PredicateLogEvent{
			Engine:   engine,
			Expr:     expression,
			Duration: duration,
			Err:      evalErr,
		})
		if evalErr != nil {
			return false
		}
		return allowed
	}, nil
}

func engineName(evaluator PredicateEvaluator) string {
	if named, ok := evaluator.(interface{ EngineName() string }); ok {
		return named.EngineName()
	}
	return fmt.Sprintf("%T", evaluator)
}
