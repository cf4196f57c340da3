/*
File    : rmc/lexer/lexer_test.go
*/
package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// represents a test case for ConsumeTokens
// Input: source code
// ExpectedTokens: list of expected tokens
type TestConsumeToken struct {
	Input          string
	ExpectedTokens []Token
}

// stripMetadata drops position info so token streams can be compared
// structurally in table-driven tests.
func stripMetadata(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, Token{Type: t.Type, Literal: t.Literal, Numeric: t.Numeric})
	}
	return out
}

// TestLexer_ConsumeTokens tests the ConsumeTokens method of the Lexer
func TestLexer_ConsumeTokens(t *testing.T) {

	tests := []TestConsumeToken{
		{
			Input: ` 123 + 2 31 - 12 `,
			ExpectedTokens: []Token{
				{Type: NUMERIC_LIT, Literal: "123", Numeric: 123},
				{Type: PLUS_OP, Literal: "+"},
				{Type: NUMERIC_LIT, Literal: "2", Numeric: 2},
				{Type: NUMERIC_LIT, Literal: "31", Numeric: 31},
				{Type: MINUS_OP, Literal: "-"},
				{Type: NUMERIC_LIT, Literal: "12", Numeric: 12},
			},
		},
		{
			Input: ` { } [ ] abc _ a12 `,
			ExpectedTokens: []Token{
				{Type: LEFT_BRACE, Literal: "{"},
				{Type: RIGHT_BRACE, Literal: "}"},
				{Type: LEFT_BRACKET, Literal: "["},
				{Type: RIGHT_BRACKET, Literal: "]"},
				{Type: IDENTIFIER_ID, Literal: "abc"},
				{Type: IDENTIFIER_ID, Literal: "_"},
				{Type: IDENTIFIER_ID, Literal: "a12"},
			},
		},
		{
			Input: `fn add(a: i32, b: i32) -> i32`,
			ExpectedTokens: []Token{
				{Type: FN_KEY, Literal: "fn"},
				{Type: IDENTIFIER_ID, Literal: "add"},
				{Type: LEFT_PAREN, Literal: "("},
				{Type: IDENTIFIER_ID, Literal: "a"},
				{Type: COLON_DELIM, Literal: ":"},
				{Type: IDENTIFIER_ID, Literal: "i32"},
				{Type: COMMA_DELIM, Literal: ","},
				{Type: IDENTIFIER_ID, Literal: "b"},
				{Type: COLON_DELIM, Literal: ":"},
				{Type: IDENTIFIER_ID, Literal: "i32"},
				{Type: RIGHT_PAREN, Literal: ")"},
				{Type: RIGHT_ARROW_OP, Literal: "->"},
				{Type: IDENTIFIER_ID, Literal: "i32"},
			},
		},
		{
			// `>` and `->` both lex to the right arrow; `<` to the left.
			Input: `a > b -> c < d`,
			ExpectedTokens: []Token{
				{Type: IDENTIFIER_ID, Literal: "a"},
				{Type: RIGHT_ARROW_OP, Literal: ">"},
				{Type: IDENTIFIER_ID, Literal: "b"},
				{Type: RIGHT_ARROW_OP, Literal: "->"},
				{Type: IDENTIFIER_ID, Literal: "c"},
				{Type: LEFT_ARROW_OP, Literal: "<"},
				{Type: IDENTIFIER_ID, Literal: "d"},
			},
		},
		{
			// `-` not followed by `>` stays a minus.
			Input: `a - b-c`,
			ExpectedTokens: []Token{
				{Type: IDENTIFIER_ID, Literal: "a"},
				{Type: MINUS_OP, Literal: "-"},
				{Type: IDENTIFIER_ID, Literal: "b"},
				{Type: MINUS_OP, Literal: "-"},
				{Type: IDENTIFIER_ID, Literal: "c"},
			},
		},
		{
			Input: `"This is a long string  " nowAnIdentifier_234 "12"`,
			ExpectedTokens: []Token{
				{Type: STR_LIT, Literal: "This is a long string  "},
				{Type: IDENTIFIER_ID, Literal: "nowAnIdentifier_234"},
				{Type: STR_LIT, Literal: "12"},
			},
		},
		{
			Input: `'a' 'z' '0'`,
			ExpectedTokens: []Token{
				{Type: CHAR_LIT, Literal: "a"},
				{Type: CHAR_LIT, Literal: "z"},
				{Type: CHAR_LIT, Literal: "0"},
			},
		},
		{
			Input: `fn enum struct if else while return break true false mut null switch case let then`,
			ExpectedTokens: []Token{
				{Type: FN_KEY, Literal: "fn"},
				{Type: ENUM_KEY, Literal: "enum"},
				{Type: STRUCT_KEY, Literal: "struct"},
				{Type: IF_KEY, Literal: "if"},
				{Type: ELSE_KEY, Literal: "else"},
				{Type: WHILE_KEY, Literal: "while"},
				{Type: RETURN_KEY, Literal: "return"},
				{Type: BREAK_KEY, Literal: "break"},
				{Type: TRUE_KEY, Literal: "true"},
				{Type: FALSE_KEY, Literal: "false"},
				{Type: MUT_KEY, Literal: "mut"},
				{Type: NULL_KEY, Literal: "null"},
				{Type: SWITCH_KEY, Literal: "switch"},
				{Type: CASE_KEY, Literal: "case"},
				{Type: LET_KEY, Literal: "let"},
				{Type: IDENTIFIER_ID, Literal: "then"},
			},
		},
		{
			// Bytes outside the token set produce no token.
			Input: `a / b % c`,
			ExpectedTokens: []Token{
				{Type: IDENTIFIER_ID, Literal: "a"},
				{Type: IDENTIFIER_ID, Literal: "b"},
				{Type: IDENTIFIER_ID, Literal: "c"},
			},
		},
		{
			Input: `* ? [ 4 ] mut ; : , . # ! = & | +`,
			ExpectedTokens: []Token{
				{Type: STAR_OP, Literal: "*"},
				{Type: QUESTION_OP, Literal: "?"},
				{Type: LEFT_BRACKET, Literal: "["},
				{Type: NUMERIC_LIT, Literal: "4", Numeric: 4},
				{Type: RIGHT_BRACKET, Literal: "]"},
				{Type: MUT_KEY, Literal: "mut"},
				{Type: SEMICOLON_DELIM, Literal: ";"},
				{Type: COLON_DELIM, Literal: ":"},
				{Type: COMMA_DELIM, Literal: ","},
				{Type: DOT_OP, Literal: "."},
				{Type: HASH_OP, Literal: "#"},
				{Type: BANG_OP, Literal: "!"},
				{Type: ASSIGN_OP, Literal: "="},
				{Type: AMP_OP, Literal: "&"},
				{Type: PIPE_OP, Literal: "|"},
				{Type: PLUS_OP, Literal: "+"},
			},
		},
	}

	for _, test := range tests {
		lex := NewLexer(test.Input, "test.rm")
		tokens := lex.ConsumeTokens()
		assert.Equal(t, test.ExpectedTokens, stripMetadata(tokens), "input: %s", test.Input)
	}
}

// TestLexer_Positions verifies row/column metadata across newlines.
func TestLexer_Positions(t *testing.T) {
	src := "fn f() -> i32 {\n  return 1;\n}"
	lex := NewLexer(src, "pos.rm")
	tokens := lex.ConsumeTokens()
	require.NotEmpty(t, tokens)

	// first token sits at 1:1
	assert.Equal(t, FN_KEY, tokens[0].Type)
	assert.Equal(t, 1, tokens[0].Row)
	assert.Equal(t, 1, tokens[0].Col)
	assert.Equal(t, "pos.rm", tokens[0].File)

	// `return` sits on row 2, column 3
	var returnTok Token
	for _, tok := range tokens {
		if tok.Type == RETURN_KEY {
			returnTok = tok
		}
	}
	assert.Equal(t, 2, returnTok.Row)
	assert.Equal(t, 3, returnTok.Col)

	// closing brace on row 3
	last := tokens[len(tokens)-1]
	assert.Equal(t, RIGHT_BRACE, last.Type)
	assert.Equal(t, 3, last.Row)
}

// TestTokenBuffer exercises read, expected-type read, and backtracking.
func TestTokenBuffer(t *testing.T) {
	buf := NewTokenBuffer("x : i32 = 1 ;", "buf.rm")

	tok, ok := buf.Read()
	require.True(t, ok)
	assert.Equal(t, IDENTIFIER_ID, tok.Type)
	assert.Equal(t, "x", tok.Literal)

	// ReadType rewinds on mismatch
	_, ok = buf.ReadType(SEMICOLON_DELIM)
	assert.False(t, ok)
	tok, ok = buf.ReadType(COLON_DELIM)
	require.True(t, ok)
	assert.Equal(t, ":", tok.Literal)

	// Mark/Reset restores the cursor for speculative parsing
	mark := buf.Mark()
	_, _ = buf.Read()
	_, _ = buf.Read()
	buf.Reset(mark)
	tok, ok = buf.Read()
	require.True(t, ok)
	assert.Equal(t, "i32", tok.Literal)

	// Last returns the most recently consumed token
	assert.Equal(t, "i32", buf.Last().Literal)

	_, _ = buf.Read() // =
	_, _ = buf.Read() // 1
	_, _ = buf.Read() // ;
	assert.True(t, buf.Exhausted())
	_, ok = buf.Read()
	assert.False(t, ok)
}
