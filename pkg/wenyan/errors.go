package wenyan

import (
	"errors"
	"fmt"
)

// Position is a 1-based line and column (in runes) within source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// DeclarationError reports a malformed macro declaration.
type DeclarationError struct {
	Pos Position
	Msg string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// CompileError reports a failed run of the external compiler.
type CompileError struct {
	Stderr string
	Err    error
}

func (e *CompileError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("compiler failed: %v", e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// ErrNotMacroTable is returned by FromJSTable when the payload is not a
// non-empty list of [pattern, replacement] string pairs.
var ErrNotMacroTable = errors.New("not a macro table")
