// definition.go defines macro definitions and their extract rendering.
package macro

import (
	"fmt"
	"strings"
)

// Definition is a single macro rule.
type Definition struct {
	Pattern     string `json:"pattern"`     // RE2 source, unanchored
	Replacement string `json:"replacement"` // regexp.Expand template
}

// String renders the definition as `/pattern/ → 'replacement'`, the way a
// JavaScript console shows a RegExp and a string: slashes in the pattern
// are escaped and the replacement picks the quote it does not contain.
func (d Definition) String() string {
	return "/" + regexpSource(d.Pattern) + "/ → " + quote(d.Replacement)
}

// Format renders one definition per line, in order.
func Format(defs []Definition) string {
	lines := make([]string, len(defs))
	for i, d := range defs {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// regexpSource escapes pattern for display between slashes. A / outside a
// character class gets a backslash, and line terminators are written as
// escapes.
func regexpSource(pattern string) string {
	if pattern == "" {
		return "(?:)"
	}

	var b strings.Builder
	escaped, inClass := false, false
	for _, r := range pattern {
		if lt, ok := lineTerminators[r]; ok {
			if !escaped {
				b.WriteByte('\\')
			}
			b.WriteString(lt)
			escaped = false
			continue
		}
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

var lineTerminators = map[rune]string{
	'\n':     "n",
	'\r':     "r",
	'\u2028': "u2028",
	'\u2029': "u2029",
}

// quote wraps s in single quotes, or in double quotes or backticks when s
// contains a single quote and the other quote is free. Only the single
// quote is ever escaped.
func quote(s string) string {
	q := byte('\'')
	if strings.Contains(s, "'") {
		switch {
		case !strings.Contains(s, `"`):
			q = '"'
		case !strings.Contains(s, "`") && !strings.Contains(s, "${"):
			q = '`'
		}
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\'' && q == '\'':
			b.WriteString(`\'`)
		case r == '\\':
			b.WriteString(`\\`)
		case r < 0x20 || (r >= 0x7f && r <= 0x9f):
			b.WriteString(controlEscape(r))
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func controlEscape(r rune) string {
	switch r {
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	}
	return fmt.Sprintf(`\x%02X`, r)
}
