package minify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJS(t *testing.T) {
	code := `var 甲 = 3;
// 書之
function add(a, b) {
  /* sum */
  return a + b;
}
console.log(add(甲, 2));
`
	got, err := JS(code)
	require.NoError(t, err)

	assert.NotContains(t, got, "書之")
	assert.NotContains(t, got, "sum")
	assert.Contains(t, got, "function add(a,b)")
	assert.Contains(t, got, "甲")
	assert.Less(t, len(got), len(code))
}

func TestJS_Empty(t *testing.T) {
	got, err := JS("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJS_SyntaxError(t *testing.T) {
	_, err := JS("function (")
	require.Error(t, err)

	var minErr *Error
	require.True(t, errors.As(err, &minErr))
	require.NotEmpty(t, minErr.Messages)
	assert.Contains(t, err.Error(), "esbuild errors")
	assert.Contains(t, minErr.Messages[0], "1:")
}
