/*
File    : rmc/parser/parser.go
*/

/*
Package parser implements a recursive-descent parser with speculative
(backtracking) alternatives for the rm language.

The parser converts the token stream from the lexer into an Abstract
Syntax Tree (AST). It handles:
- Types (primitives, structs, enums, function types, modifier lists)
- Expressions (literals, unary, binary, calls, member access, grouping)
- Statements (bindings, control flow, blocks, switch/case, raw C)
- Top-level declarations (type declarations, includes)

Key features:
- Explicit cursor save/restore for backtracking (no exceptions)
- Alternatives attempted in a fixed, documented order; first success wins
- A precedence-climbing expression grammar with a dedicated
  member-access node
- Stable ids on every expression and statement, used as keys into the
  context tables built later
- Fatal parse errors anchored at the offending token's metadata;
  rejected alternatives rewind silently
*/
package parser

import (
	"github.com/rm-lang/rmc/diag"
	"github.com/rm-lang/rmc/lexer"
)

// Parser holds the parsing state: the token cursor, the id counter and
// the diagnostic being built. A Parser is good for one file.
type Parser struct {
	Toks  *lexer.TokenBuffer // Token cursor with Mark/Reset backtracking
	Error *diag.Error        // Fatal parse diagnostic, empty until a failure

	nextId int // Next stable node id to hand out
}

// NewParser creates a parser over the given source.
//
// Parameters:
//
//	src  - The rm source code to parse
//	file - The file name stamped into token and statement metadata
//
// Returns:
//
//	A parser ready for Parse.
func NewParser(src string, file string) *Parser {
	return &Parser{
		Toks:  lexer.NewTokenBuffer(src, file),
		Error: &diag.Error{},
	}
}

// try runs one speculative alternative. The token cursor is saved
// before the attempt; on failure it is restored so the next
// alternative sees the same tokens. Failed alternatives abandon any
// AST fragments they allocated.
//
// A fatal error recorded by the alternative survives the rewind - the
// cursor resets, the diagnostic does not.
func (par *Parser) try(parse func() bool) bool {
	mark := par.Toks.Mark()
	if !parse() {
		par.Toks.Reset(mark)
		return false
	}
	return true
}

// newId hands out the next stable node id.
func (par *Parser) newId() int {
	par.nextId++
	return par.nextId
}

// meta captures the metadata of the token under the cursor; statements
// record it before their first token is consumed.
func (par *Parser) meta() Metadata {
	tok, ok := par.Toks.Peek()
	if !ok {
		tok = par.Toks.Last()
	}
	return Metadata{Row: tok.Row, Col: tok.Col, File: tok.File}
}

// fatal attaches a parse error anchored at the most recently consumed
// token. Fatal errors mark failures that are not mere alternative
// rejections: a missing `=` in a binding, a missing semicolon, a
// missing closing brace, an annotation without a type.
func (par *Parser) fatal(message string) {
	diag.AddToken(par.Toks.Last(), par.Error, message)
}

// HasError reports whether a fatal parse error has been recorded.
func (par *Parser) HasError() bool {
	return par.Error.Errored
}

// Parse is the entry point: it parses the whole file into a ParsedFile.
// At the top level only type declarations and include statements are
// accepted. On a fatal error Parse stops and the caller inspects
// par.Error; the partial ParsedFile is not meaningful in that case.
func (par *Parser) Parse() *ParsedFile {
	file := &ParsedFile{
		FileName:   par.Toks.File,
		Statements: make([]StatementNode, 0),
	}

	for !par.Toks.Exhausted() {
		stmt, ok := par.parseTopLevelStatement()
		if !ok {
			if !par.HasError() {
				par.fatal("expected a top-level type declaration")
			}
			break
		}
		file.Statements = append(file.Statements, stmt)
	}

	return file
}

// parseTopLevelStatement attempts the top-level alternatives in order:
// type declaration, then include.
func (par *Parser) parseTopLevelStatement() (StatementNode, bool) {
	var stmt StatementNode

	if par.try(func() bool {
		s, ok := par.parseTypeDeclaration()
		stmt = s
		return ok
	}) {
		return stmt, true
	}
	if par.HasError() {
		return nil, false
	}

	if par.try(func() bool {
		s, ok := par.parseIncludeStatement()
		stmt = s
		return ok
	}) {
		return stmt, true
	}

	return nil, false
}
