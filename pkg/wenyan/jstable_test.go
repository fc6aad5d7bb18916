package wenyan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
)

func TestFromJSTable(t *testing.T) {
	data := []byte(`[["書(.+?)焉","吾有一言。曰$1。書之"],["夫子","子"]]`)

	defs, err := FromJSTable(data)
	require.NoError(t, err)
	assert.Equal(t, []macro.Definition{
		{Pattern: "書(.+?)焉", Replacement: "吾有一言。曰${1}。書之"},
		{Pattern: "夫子", Replacement: "子"},
	}, defs)
	assert.True(t, IsMacroTable(data))
}

func TestFromJSTable_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "或云"},
		{"object", `{"a":"b"}`},
		{"empty list", `[]`},
		{"short pair", `[["a"]]`},
		{"long pair", `[["a","b","c"]]`},
		{"non string", `[["a",1]]`},
		{"flat list", `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSTable([]byte(tt.data))
			assert.ErrorIs(t, err, ErrNotMacroTable)
			assert.False(t, IsMacroTable([]byte(tt.data)))
		})
	}
}

func TestTranslateJSReplacement(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		groups int
		want   string
	}{
		{"plain", "子曰", 0, "子曰"},
		{"group", "曰$1。", 1, "曰${1}。"},
		{"group followed by han", "$1書", 1, "${1}書"},
		{"whole match", "<$&>", 0, "<${0}>"},
		{"escaped dollar", "$$5", 0, "$$5"},
		{"named", "$<word>!", 1, "${word}!"},
		{"unclosed named", "$<word", 1, "$$<word"},
		{"two digit group", "$12", 12, "${12}"},
		{"two digit falls back to one", "$12", 1, "${1}2"},
		{"missing group is literal", "$3", 1, "$$3"},
		{"dollar zero is literal", "$0", 2, "$$0"},
		{"unknown groups count", "$12", -1, "${12}"},
		{"prefix and suffix are literal", "$`$'", 0, "$$`$$'"},
		{"trailing dollar", "a$", 0, "a$$"},
		{"lone dollar", "$x", 0, "$$x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateJSReplacement(tt.input, tt.groups))
		})
	}
}

func TestTranslateJSReplacement_ExpandsLikeJS(t *testing.T) {
	defs, err := FromJSTable([]byte(`[["(\\d+)元","$$$1"]]`))
	require.NoError(t, err)

	got, err := macro.Expand("價三元。價10元。", defs)
	require.NoError(t, err)
	assert.Equal(t, "價三元。價$10。", got)
}
