// jstable.go reads macro tables produced by the JavaScript compiler.
package wenyan

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
)

// FromJSTable decodes a JSON list of [pattern, replacement] pairs, as the
// compiler reports through its log callback. Replacement templates are
// converted from String.prototype.replace syntax to regexp.Expand syntax.
func FromJSTable(data []byte) ([]macro.Definition, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || len(items) == 0 {
		return nil, ErrNotMacroTable
	}

	defs := make([]macro.Definition, 0, len(items))
	for _, item := range items {
		var pair []string
		if err := json.Unmarshal(item, &pair); err != nil || len(pair) != 2 {
			return nil, ErrNotMacroTable
		}
		groups := -1
		if re, err := regexp.Compile(pair[0]); err == nil {
			groups = re.NumSubexp()
		}
		defs = append(defs, macro.Definition{
			Pattern:     pair[0],
			Replacement: TranslateJSReplacement(pair[1], groups),
		})
	}
	return defs, nil
}

// IsMacroTable reports whether data decodes as a macro table.
func IsMacroTable(data []byte) bool {
	_, err := FromJSTable(data)
	return err == nil
}

// TranslateJSReplacement rewrites a JavaScript replacement template for
// regexp.Expand. groups is the number of capture groups in the pattern;
// a negative value treats every $n as a group reference.
//
// $n and $nn become ${n}, $& becomes ${0}, $<name> becomes ${name} and $$
// stays $$. Anything JavaScript would leave as a literal dollar, including
// $` and $', is escaped so it stays literal.
func TranslateJSReplacement(s string, groups int) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '$' || i+1 >= len(s) {
			if c == '$' {
				b.WriteString("$$")
			} else {
				b.WriteByte(c)
			}
			continue
		}

		next := s[i+1]
		switch {
		case next == '$':
			b.WriteString("$$")
			i++
		case next == '&':
			b.WriteString("${0}")
			i++
		case next == '<':
			end := strings.IndexByte(s[i+2:], '>')
			if end < 0 {
				b.WriteString("$$")
				continue
			}
			b.WriteString("${" + s[i+2:i+2+end] + "}")
			i += end + 2
		case isDigit(next):
			n, width := groupRef(s[i+1:], groups)
			if n == 0 {
				b.WriteString("$$")
				continue
			}
			b.WriteString("${" + strconv.Itoa(n) + "}")
			i += width
		default:
			b.WriteString("$$")
		}
	}
	return b.String()
}

// groupRef reads a one or two digit group reference. A two digit
// reference wins when that group exists. It returns 0 when neither does.
func groupRef(s string, groups int) (int, int) {
	exists := func(n int) bool { return n >= 1 && (groups < 0 || n <= groups) }

	if len(s) >= 2 && isDigit(s[1]) {
		if n := int(s[0]-'0')*10 + int(s[1]-'0'); exists(n) {
			return n, 2
		}
	}
	if n := int(s[0] - '0'); exists(n) {
		return n, 1
	}
	return 0, 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
