package validation

// Rule is a named predicate over a request value.
type Rule[T any] struct {
	// Field names the input(s) the rule inspects, for logs.
	Field string

	// Message is shown to the client verbatim when Check fails.
	Message string

	// Check returns true when v satisfies the rule.
	Check func(v T) bool
}

// RuleError is the failure of a single Rule.
type RuleError struct {
	Field   string
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// ApplyRules evaluates rules in order and returns the first failure.
func ApplyRules[T any](v T, rules []Rule[T]) error {
	for _, rule := range rules {
		if !rule.Check(v) {
			return &RuleError{Field: rule.Field, Message: rule.Message}
		}
	}
	return nil
}
