// Package minify shrinks compiled JavaScript using esbuild.
package minify

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Error collects the messages esbuild reported for a failed transform.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "esbuild errors:\n" + strings.Join(e.Messages, "\n")
}

// JS minifies code. Whitespace and syntax are compressed but identifiers
// keep their names, and all comments are dropped.
func JS(code string) (string, error) {
	result := api.Transform(code, api.TransformOptions{
		Loader: api.LoaderJS,
		Target: api.ES2020,

		MinifyWhitespace: true,
		MinifySyntax:     true,
		// Compiled wenyan refers to its identifiers by name; leave them alone.
		MinifyIdentifiers: false,

		LegalComments: api.LegalCommentsNone,
		Charset:       api.CharsetUTF8,
		LogLevel:      api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			if m.Location != nil {
				msgs = append(msgs, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
			} else {
				msgs = append(msgs, m.Text)
			}
		}
		return "", &Error{Messages: msgs}
	}

	return string(result.Code), nil
}
