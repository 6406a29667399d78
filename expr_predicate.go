package binding

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-binding/internal/hydrate"
)

// ExprPredicateOption configures an expr predicate evaluator instance.
type ExprPredicateOption func(*exprPredicate)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprPredicateOption {
	return func(e *exprPredicate) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr evaluator.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprPredicateOption {
	return func(e *exprPredicate) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprPredicate executes enablement expressions using github.com/expr-lang/expr.
type exprPredicate struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprPredicate constructs a PredicateEvaluator backed by expr-lang/expr.
func NewExprPredicate(opts ...ExprPredicateOption) PredicateEvaluator {
	e := &exprPredicate{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprPredicate) EngineName() string { return "expr" }

// Evaluate compiles and runs expression against ctx.
func (e *exprPredicate) Evaluate(ctx PredicateContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEngineError("expr", fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaultNow().withDefaultArgs()
	env, err := e.environment(ctx)
	if err != nil {
		return nil, wrapPredicateError("expr", expression, err)
	}
	if e.cache == nil {
		result, err := exprlang.Eval(expression, env)
		if err != nil {
			return nil, wrapPredicateError("expr", expression, err)
		}
		return result, nil
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	result, err := exprlang.Run(program, env)
	if err != nil {
		return nil, wrapPredicateError("expr", expression, err)
	}
	return result, nil
}

// Compile returns a compiled predicate that evaluates expression per invocation.
func (e *exprPredicate) Compile(expression string) (CompiledPredicate, error) {
	if expression == "" {
		return nil, wrapEngineError("expr", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &exprCompiledPredicate{
		evaluator:  e,
		program:    program,
		expression: expression,
	}, nil
}

func (e *exprPredicate) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registryNames() {
		fn := e.registryFunction(name)
		options = append(options, exprlang.Function(name, fn))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapPredicateError("expr", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

type exprCompiledPredicate struct {
	evaluator  *exprPredicate
	program    *exprvm.Program
	expression string
}

func (p *exprCompiledPredicate) Evaluate(ctx PredicateContext) (any, error) {
	if p.evaluator == nil {
		return nil, wrapEngineError("expr", fmt.Errorf("compiled predicate missing evaluator"))
	}
	ctx = ctx.withDefaultNow().withDefaultArgs()
	if p.program == nil {
		return p.evaluator.Evaluate(ctx, p.expression)
	}
	env, err := p.evaluator.environment(ctx)
	if err != nil {
		return nil, wrapPredicateError("expr", p.expression, err)
	}
	result, err := exprlang.Run(p.program, env)
	if err != nil {
		return nil, wrapPredicateError("expr", p.expression, err)
	}
	return result, nil
}

func (e *exprPredicate) environment(ctx PredicateContext) (map[string]any, error) {
	env := map[string]any{
		"now":   ctx.timestamp(),
		"args":  ctx.Args,
		"param": ctx.Parameter,
	}
	snapshot, err := hydrate.Map(ctx.Snapshot)
	if err != nil {
		return nil, err
	}
	for key, value := range snapshot {
		env[key] = value
	}
	if e.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		for _, name := range e.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}
		}
	}
	return env, nil
}

func (e *exprPredicate) registryNames() []string {
	if e == nil || e.registry == nil {
		return nil
	}
	return e.registry.Names()
}

func (e *exprPredicate) registryFunction(name string) func(...any) (any, error) {
	if e == nil || e.registry == nil {
		return nil
	}
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
