package binding

import "time"

// PredicateLogEvent describes an enablement evaluation attempt for logging.
type PredicateLogEvent struct {
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
}

// PredicateLogger records predicate events.
type PredicateLogger interface {
	LogPredicate(PredicateLogEvent)
}

// PredicateLoggerFunc adapts a function to PredicateLogger.
type PredicateLoggerFunc func(PredicateLogEvent)

// LogPredicate implements PredicateLogger.
func (f PredicateLoggerFunc) LogPredicate(event PredicateLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopPredicateLogger struct{}

func (noopPredicateLogger) LogPredicate(PredicateLogEvent) {}
