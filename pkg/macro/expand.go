package macro

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// DefaultMaxSteps is the per-rule substitution budget used by New.
const DefaultMaxSteps = 10000

// Expander applies macro rules to source text. Its configuration is
// immutable, so a single Expander may be shared between goroutines.
type Expander struct {
	maxSteps int
	logger   *slog.Logger
}

// Option configures an Expander.
type Option func(*Expander)

// WithMaxSteps limits the number of substitutions a single rule may make.
// Zero removes the limit, in which case a self-reproducing macro never
// returns.
func WithMaxSteps(n int) Option {
	return func(e *Expander) {
		if n < 0 {
			n = 0
		}
		e.maxSteps = n
	}
}

// WithLogger sets the logger used for per-match debug events.
func WithLogger(l *slog.Logger) Option {
	return func(e *Expander) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Expander.
func New(opts ...Option) *Expander {
	e := &Expander{
		maxSteps: DefaultMaxSteps,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// MaxSteps returns the configured substitution budget.
func (e *Expander) MaxSteps() int {
	return e.maxSteps
}

// Expand compiles defs and applies them to text in order. No rule runs if
// any pattern fails to compile.
func Expand(text string, defs []Definition) (string, error) {
	return New().Expand(text, defs)
}

// Expand compiles defs and applies them to text in order.
func (e *Expander) Expand(text string, defs []Definition) (string, error) {
	rules, err := Compile(defs)
	if err != nil {
		return "", err
	}
	return e.ExpandRules(text, rules)
}

// ExpandRules applies precompiled rules to text. Each rule runs to its
// fixpoint before the next one sees the result.
func (e *Expander) ExpandRules(text string, rules []*Rule) (string, error) {
	for _, r := range rules {
		var err error
		text, err = e.apply(text, r)
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

// apply rewrites text until no unprotected match of r remains.
//
// out holds text that is final for this rule; rest is still being
// scanned. A match that starts inside brackets moves the protected run
// into out and scanning resumes on what follows, with the nesting level
// starting again from zero. A match outside brackets is replaced and
// scanning restarts from the beginning of rest, so the replacement itself
// can match again.
func (e *Expander) apply(text string, r *Rule) (string, error) {
	var out strings.Builder
	rest := text
	steps := 0

	for {
		loc := r.re.FindStringSubmatchIndex(rest)
		if loc == nil {
			out.WriteString(rest)
			return out.String(), nil
		}

		protected := ScanBrackets(rest)
		idx := utf8.RuneCountInString(rest[:loc[0]])

		if protected.Contains(idx) {
			cut := byteOffset(rest, protected.skipEnd(idx))
			e.logger.Debug("macro match inside brackets, skipping",
				"macro", r.index, "offset", idx, "skipped", rest[:cut])
			out.WriteString(rest[:cut])
			rest = rest[cut:]
			continue
		}

		if e.maxSteps > 0 && steps >= e.maxSteps {
			return "", &StepLimitError{Index: r.index, Pattern: r.Pattern, Steps: steps}
		}
		steps++
		e.logger.Debug("macro substitution",
			"macro", r.index, "offset", idx, "match", rest[loc[0]:loc[1]])
		rest = r.replaceFirst(rest, loc)
	}
}

// byteOffset converts a rune offset into a byte offset of s, clamping at
// len(s).
func byteOffset(s string, runes int) int {
	n := 0
	for i := range s {
		if n == runes {
			return i
		}
		n++
	}
	return len(s)
}
