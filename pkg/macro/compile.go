package macro

import "regexp"

// Rule is a compiled Definition.
type Rule struct {
	Definition
	index int
	re    *regexp.Regexp
}

// Compile compiles every pattern in defs, stopping at the first one that
// fails with a *PatternError.
func Compile(defs []Definition) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(defs))
	for i, d := range defs {
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return nil, &PatternError{Index: i, Pattern: d.Pattern, Err: err}
		}
		rules = append(rules, &Rule{Definition: d, index: i, re: re})
	}
	return rules, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(defs []Definition) []*Rule {
	rules, err := Compile(defs)
	if err != nil {
		panic(err)
	}
	return rules
}

// replaceFirst substitutes the match at loc (as returned by
// FindStringSubmatchIndex) with the expanded replacement template.
func (r *Rule) replaceFirst(s string, loc []int) string {
	buf := make([]byte, 0, len(s)+len(r.Replacement))
	buf = append(buf, s[:loc[0]]...)
	buf = r.re.ExpandString(buf, r.Replacement, s, loc)
	buf = append(buf, s[loc[1]:]...)
	return string(buf)
}
