package binding

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/goliatone/go-binding/internal/hydrate"
)

// CELPredicateOption configures the CEL predicate evaluator.
type CELPredicateOption func(*celPredicate)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELPredicateOption {
	return func(e *celPredicate) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELPredicateOption {
	return func(e *celPredicate) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celPredicate struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELPredicate constructs a PredicateEvaluator backed by cel-go.
func NewCELPredicate(opts ...CELPredicateOption) PredicateEvaluator {
	e := &celPredicate{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celPredicate) EngineName() string { return "cel" }

func (e *celPredicate) Evaluate(ctx PredicateContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEngineError("cel", fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaultNow().withDefaultArgs()
	snapshot, err := hydrate.Map(ctx.Snapshot)
	if err != nil {
		return nil, wrapPredicateError("cel", expression, err)
	}
	program, err := e.loadOrCompile(expression, snapshot)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(e.activation(ctx, snapshot))
	if err != nil {
		return nil, wrapPredicateError("cel", expression, err)
	}
	return out.Value(), nil
}

func (e *celPredicate) Compile(expression string) (CompiledPredicate, error) {
	if expression == "" {
		return nil, wrapEngineError("cel", fmt.Errorf("expression must not be empty"))
	}
	return &celCompiledPredicate{
		evaluator:  e,
		expression: expression,
	}, nil
}

func (e *celPredicate) loadOrCompile(expression string, snapshot map[string]any) (*celProgram, error) {
	if snapshot == nil {
		snapshot = map[string]any{}
	}
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(snapshot)
	if err != nil {
		return nil, wrapPredicateError("cel", expression, err)
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapPredicateError("cel", expression, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapPredicateError("cel", expression, issues.Err())
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, wrapPredicateError("cel", expression, err)
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(expression, bundle)
	}
	return bundle, nil
}

func (e *celPredicate) buildEnv(snapshot map[string]any) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("param", celgo.DynType),
	}
	if e.registry != nil {
		binding := e.callBinding()
		opts = append(opts, celgo.Function("call", celgo.Overload(
			"call_dyn",
			[]*celgo.Type{celgo.StringType, celgo.DynType},
			celgo.DynType,
			celgo.FunctionBinding(func(values ...ref.Val) ref.Val {
				return binding(values)
			}),
		)))
	}
	for key := range snapshot {
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func (e *celPredicate) activation(ctx PredicateContext, snapshot map[string]any) map[string]any {
	activation := map[string]any{
		"now":   ctx.timestamp(),
		"args":  ctx.Args,
		"param": ctx.Parameter,
	}
	for key, value := range snapshot {
		activation[key] = value
	}
	return activation
}

type celCompiledPredicate struct {
	evaluator  *celPredicate
	expression string
}

func (p *celCompiledPredicate) Evaluate(ctx PredicateContext) (any, error) {
	if p.evaluator == nil {
		return nil, wrapEngineError("cel", fmt.Errorf("compiled predicate missing evaluator"))
	}
	return p.evaluator.Evaluate(ctx, p.expression)
}

func (e *celPredicate) callBinding() func([]ref.Val) ref.Val {
	return func(values []ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("binding: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("binding: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("binding: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr(err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
