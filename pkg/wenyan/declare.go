// declare.go extracts macro declarations from wenyan source.
package wenyan

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
)

// Keywords of the macro declaration construct.
const (
	MacroStart = "或云"
	MacroEnd   = "蓋謂"
)

var placeholderRe = regexp.MustCompile(`「[^「」]+」`)

// ParseMacros returns the macro definitions declared in src, in source
// order. Occurrences of 或云 inside string literals are ignored.
//
// Each 「name」 placeholder in the pattern becomes a lazy capture group and
// its occurrences in the replacement refer back to that group. Everything
// else matches literally.
func ParseMacros(src string) ([]macro.Definition, error) {
	protected := macro.ScanBrackets(src)

	var defs []macro.Definition
	pos := 0
	for {
		i := strings.Index(src[pos:], MacroStart)
		if i < 0 {
			return defs, nil
		}
		start := pos + i
		if protected.Contains(utf8.RuneCountInString(src[:start])) {
			pos = start + len(MacroStart)
			continue
		}

		def, end, err := parseDeclaration(src, start)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
		pos = end
	}
}

// parseDeclaration parses one declaration starting at the 或云 keyword and
// returns the definition and the byte offset just past it.
func parseDeclaration(src string, start int) (macro.Definition, int, error) {
	pos := start + len(MacroStart)

	from, pos, err := readLiteral(src, skipSpace(src, pos))
	if err != nil {
		return macro.Definition{}, pos, err
	}
	// 蓋謂 usually starts a new line after the 。
	pos = skipSpace(src, skipStop(src, skipSpace(src, pos)))

	if !strings.HasPrefix(src[pos:], MacroEnd) {
		return macro.Definition{}, pos, declError(src, pos, "expected "+MacroEnd+" after macro pattern")
	}
	pos += len(MacroEnd)

	to, pos, err := readLiteral(src, skipSpace(src, pos))
	if err != nil {
		return macro.Definition{}, pos, err
	}
	pos = skipStop(src, pos)

	pattern, replacement := translate(from, to)
	return macro.Definition{Pattern: pattern, Replacement: replacement}, pos, nil
}

// readLiteral reads a bracketed string literal at pos and returns its
// content without the outer quotes. 「「…」」 and 『…』 are both accepted.
func readLiteral(src string, pos int) (string, int, error) {
	var open, closing string
	switch {
	case strings.HasPrefix(src[pos:], "「「"):
		open, closing = "「「", "」」"
	case strings.HasPrefix(src[pos:], "『"):
		open, closing = "『", "』"
	default:
		return "", pos, declError(src, pos, "expected string literal")
	}

	level := 0
	for i, r := range src[pos:] {
		switch r {
		case macro.NarrowOpen:
			level++
		case macro.NarrowClose:
			level--
		case macro.WideOpen:
			level += 2
		case macro.WideClose:
			level -= 2
		}
		if level <= 0 {
			end := pos + i + utf8.RuneLen(r)
			if !strings.HasSuffix(src[:end], closing) {
				return "", end, declError(src, pos, "mismatched string literal quotes")
			}
			return src[pos+len(open) : end-len(closing)], end, nil
		}
	}
	return "", len(src), declError(src, pos, "unterminated string literal")
}

// translate turns the declared pattern and replacement into a regexp and
// an Expand template.
func translate(from, to string) (string, string) {
	groups := make(map[string]int)
	var pattern strings.Builder
	last := 0
	for _, loc := range placeholderRe.FindAllStringIndex(from, -1) {
		pattern.WriteString(regexp.QuoteMeta(from[last:loc[0]]))
		pattern.WriteString("(.+?)")
		name := from[loc[0]:loc[1]]
		if _, ok := groups[name]; !ok {
			groups[name] = len(groups) + 1
		}
		last = loc[1]
	}
	pattern.WriteString(regexp.QuoteMeta(from[last:]))

	var replacement strings.Builder
	last = 0
	for _, loc := range placeholderRe.FindAllStringIndex(to, -1) {
		n, ok := groups[to[loc[0]:loc[1]]]
		if !ok {
			continue
		}
		replacement.WriteString(escapeDollar(to[last:loc[0]]))
		replacement.WriteString("${" + strconv.Itoa(n) + "}")
		last = loc[1]
	}
	replacement.WriteString(escapeDollar(to[last:]))

	return pattern.String(), replacement.String()
}

func escapeDollar(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

func skipSpace(src string, pos int) int {
	for pos < len(src) {
		r, size := utf8.DecodeRuneInString(src[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

// skipStop skips an optional 。 terminator.
func skipStop(src string, pos int) int {
	if strings.HasPrefix(src[pos:], "。") {
		return pos + len("。")
	}
	return pos
}

func declError(src string, pos int, msg string) *DeclarationError {
	return &DeclarationError{Pos: position(src, pos), Msg: msg}
}

// position converts a byte offset into a line and column.
func position(src string, offset int) Position {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndex(before, "\n") + 1
	return Position{Line: line, Column: utf8.RuneCountInString(before[lineStart:]) + 1}
}
