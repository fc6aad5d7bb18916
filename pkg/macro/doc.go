// Package macro implements regex-driven macro expansion for wenyan source.
//
// Each macro is a (pattern, replacement) pair. Rules are applied in order,
// each one to its fixpoint, and a match that begins inside a bracketed
// literal (「…」 or 『…』) is never rewritten.
package macro
