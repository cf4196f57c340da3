/*
File    : rmc/diag/diag.go
*/

// Package diag implements the diagnostic chain used by every stage of
// the compiler. A diagnostic carries a source position (row, column,
// file) and a message; wrapping an existing diagnostic forms a cause
// chain which is rendered one frame per line, outer frame first.
package diag

import (
	"fmt"
	"io"

	"github.com/rm-lang/rmc/lexer"
)

// Error is one frame of the diagnostic chain.
//
// Fields:
//   - Row, Col: the 1-indexed source position the frame points at
//   - File: the source file name
//   - Message: the human-readable description
//   - Errored: whether this frame carries a real error; a zero Error is
//     an empty frame that stages fill in on failure
//   - Inner: the cause this frame wraps, or nil
type Error struct {
	Row     int    // Row of the offending token or statement
	Col     int    // Column of the offending token or statement
	File    string // Source file the position refers to
	Message string // Description of the failure
	Errored bool   // Whether this frame carries a real error
	Inner   *Error // Wrapped cause, rendered after this frame
}

// Add records an error at an explicit source position. When the target
// already carries an error, the existing frame becomes the inner cause
// of the new one, preserving the chain.
//
// Parameters:
//   - row, col: 1-indexed position of the failure
//   - file: source file name
//   - out: the diagnostic being built up
//   - message: description of the failure
func Add(row int, col int, file string, out *Error, message string) {
	var inner *Error
	if out.Errored {
		boxed := *out
		inner = &boxed
	}

	*out = Error{
		Row:     row,
		Col:     col,
		File:    file,
		Message: message,
		Errored: true,
		Inner:   inner,
	}
}

// AddToken records an error anchored at a token's metadata.
func AddToken(tok lexer.Token, out *Error, message string) {
	Add(tok.Row, tok.Col, tok.File, out, message)
}

// Write renders the diagnostic chain to w, one frame per line in
// `FILE:ROW:COL: error: MESSAGE` form, outer frame first. Empty frames
// render nothing.
func (e *Error) Write(w io.Writer) {
	if !e.Errored {
		return
	}

	fmt.Fprintf(w, "%s:%d:%d: error: %s\n", e.File, e.Row, e.Col, e.Message)
	if e.Inner != nil {
		e.Inner.Write(w)
	}
}

// Error implements the error interface with the same single-frame
// format Write uses, so a diagnostic can flow through APIs that expect
// a plain error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: error: %s", e.File, e.Row, e.Col, e.Message)
}
