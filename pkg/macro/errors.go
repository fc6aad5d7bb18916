package macro

import "fmt"

// PatternError reports a macro pattern that is not a valid regular expression.
type PatternError struct {
	Index   int    // position of the definition in the macro list
	Pattern string // offending source
	Err     error  // error from regexp/syntax
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("macro %d: invalid pattern %q: %v", e.Index, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// StepLimitError reports a rule that kept producing unprotected matches
// past the configured substitution budget. This usually means the
// replacement reintroduces its own pattern.
type StepLimitError struct {
	Index   int
	Pattern string
	Steps   int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("macro %d (%q) did not reach a fixpoint after %d substitutions", e.Index, e.Pattern, e.Steps)
}
