//go:build !js_eval

package binding

// NewJSPredicate is unavailable without the js_eval build tag.
func NewJSPredicate(opts ...JSPredicateOption) PredicateEvaluator {
	_ = applyJSPredicateOptions(opts)
	return nil
}

func jsPredicateAvailable() bool {
	return false
}
