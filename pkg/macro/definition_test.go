package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinition_String(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want string
	}{
		{"plain", Definition{"A", "B"}, "/A/ → 'B'"},
		{"group", Definition{"書(.+?)焉", "吾有一言。曰${1}。書之"}, "/書(.+?)焉/ → '吾有一言。曰${1}。書之'"},
		{"single quote switches to double", Definition{"x", "it's"}, `/x/ → "it's"`},
		{"both quotes switch to backtick", Definition{"x", `it's "so"`}, "/x/ → `it's \"so\"`"},
		{"all quotes escape the single", Definition{"x", "`it's` \"so\""}, "/x/ → '`it\\'s` \"so\"'"},
		{"template marker rules out backticks", Definition{"x", `'${1}' "a"`}, `/x/ → '\'${1}\' "a"'`},
		{"backslash escaped", Definition{"x", `a\b`}, `/x/ → 'a\\b'`},
		{"newline escaped", Definition{"x", "a\nb"}, `/x/ → 'a\nb'`},
		{"control character", Definition{"x", "a\x01"}, `/x/ → 'a\x01'`},
		{"empty replacement", Definition{"x", ""}, "/x/ → ''"},
		{"slash in pattern", Definition{"a/b", "it's"}, `/a\/b/ → "it's"`},
		{"escaped slash kept", Definition{`a\/b`, "c"}, `/a\/b/ → 'c'`},
		{"slash in class", Definition{"[/]", "c"}, "/[/]/ → 'c'"},
		{"newline in pattern", Definition{"a\nb", "c"}, `/a\nb/ → 'c'`},
		{"empty pattern", Definition{"", "c"}, "/(?:)/ → 'c'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.def.String())
		})
	}
}

func TestFormat(t *testing.T) {
	defs := []Definition{{"a", "b"}, {"c", "d"}}
	assert.Equal(t, "/a/ → 'b'\n/c/ → 'd'", Format(defs))
	assert.Equal(t, "", Format(nil))
}
