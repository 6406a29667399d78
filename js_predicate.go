//go:build js_eval

package binding

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/goliatone/go-binding/internal/hydrate"
)

type jsPredicate struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSPredicate constructs a PredicateEvaluator backed by goja.
func NewJSPredicate(opts ...JSPredicateOption) PredicateEvaluator {
	cfg := applyJSPredicateOptions(opts)
	return &jsPredicate{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

func (e *jsPredicate) EngineName() string { return "js" }

func (e *jsPredicate) Evaluate(ctx PredicateContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEngineError("js", fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaultNow().withDefaultArgs()
	if e.cache == nil {
		return e.run(ctx, expression, nil)
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, expression, program)
}

func (e *jsPredicate) Compile(expression string) (CompiledPredicate, error) {
	if expression == "" {
		return nil, wrapEngineError("js", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &jsCompiledPredicate{
		evaluator:  e,
		expression: expression,
		program:    program,
	}, nil
}

func (e *jsPredicate) loadOrCompile(expression string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", e.wrapExpression(expression), false)
	if err != nil {
		return nil, wrapPredicateError("js", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

func (e *jsPredicate) run(ctx PredicateContext, expression string, program *goja.Program) (any, error) {
	vm := goja.New()
	if err := e.injectContext(vm, ctx); err != nil {
		return nil, wrapPredicateError("js", expression, err)
	}
	if program != nil {
		value, err := vm.RunProgram(program)
		if err != nil {
			return nil, wrapPredicateError("js", expression, err)
		}
		return value.Export(), nil
	}
	value, err := vm.RunString(e.wrapExpression(expression))
	if err != nil {
		return nil, wrapPredicateError("js", expression, err)
	}
	return value.Export(), nil
}

func (e *jsPredicate) injectContext(vm *goja.Runtime, ctx PredicateContext) error {
	vm.Set("now", ctx.timestamp())
	vm.Set("args", ctx.Args)
	vm.Set("param", ctx.Parameter)
	snapshot, err := hydrate.Map(ctx.Snapshot)
	if err != nil {
		return err
	}
	for key, value := range snapshot {
		vm.Set(key, value)
	}
	if e.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
		for _, name := range e.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
	return nil
}

func (e *jsPredicate) wrapExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

type jsCompiledPredicate struct {
	evaluator  *jsPredicate
	expression string
	program    *goja.Program
}

func (p *jsCompiledPredicate) Evaluate(ctx PredicateContext) (any, error) {
	if p.evaluator == nil {
		return nil, wrapEngineError("js", fmt.Errorf("compiled predicate missing evaluator"))
	}
	ctx = ctx.withDefaultNow().withDefaultArgs()
	return p.evaluator.run(ctx, p.expression, p.program)
}

func jsPredicateAvailable() bool {
	return true
}
