/*
File    : rmc/lexer/token.go
*/
package lexer

import "fmt"

// TokenType represents the type of a lexical token in the rm language.
// It is defined as a string to allow for easy comparison and debugging.
// Each token type corresponds to a specific syntactic element of the
// language: punctuation, brackets, arrows, literals, or keywords.
type TokenType string

// TokenType Constants:
// These constants define all possible token types in the rm language.
// They are organized into logical groups for clarity and maintainability.
const (
	// Special Types
	// EOF_TYPE marks the end of the input stream
	EOF_TYPE TokenType = "EOF"

	// Punctuation
	SEMICOLON_DELIM TokenType = ";" // Statement terminator
	COLON_DELIM     TokenType = ":" // Type annotation separator
	COMMA_DELIM     TokenType = "," // Separates fields, params, arguments
	DOT_OP          TokenType = "." // Member access / rest pattern component
	QUESTION_OP     TokenType = "?" // Nullable type modifier
	BANG_OP         TokenType = "!" // Logical NOT operator
	ASSIGN_OP       TokenType = "=" // Assignment / field initialiser
	STAR_OP         TokenType = "*" // Pointer modifier, dereference, multiply
	AMP_OP          TokenType = "&" // Bitwise AND (doubled: logical AND)
	PIPE_OP         TokenType = "|" // Bitwise OR (doubled: logical OR)
	HASH_OP         TokenType = "#" // Include statements and raw C blocks
	PLUS_OP         TokenType = "+" // Addition operator
	MINUS_OP        TokenType = "-" // Subtraction / unary minus

	// Arrows
	// RIGHT_ARROW_OP covers both `->` (function return) and `>` (greater
	// than); the parser decides from position. LEFT_ARROW_OP covers `<`.
	RIGHT_ARROW_OP TokenType = "->"
	LEFT_ARROW_OP  TokenType = "<-"

	// Brackets
	LEFT_PAREN    TokenType = "(" // Parameter lists, call arguments, grouping
	RIGHT_PAREN   TokenType = ")"
	LEFT_BRACE    TokenType = "{" // Blocks, struct/enum bodies, literals
	RIGHT_BRACE   TokenType = "}"
	LEFT_BRACKET  TokenType = "[" // Array type modifiers, array patterns
	RIGHT_BRACKET TokenType = "]"

	// Literals
	IDENTIFIER_ID TokenType = "Identifier"     // User-defined name
	NUMERIC_LIT   TokenType = "NumericLiteral" // Decimal number (e.g. 42); a `.` ends the run
	CHAR_LIT      TokenType = "CharLiteral"    // Single-byte character ('c')
	STR_LIT       TokenType = "StringLiteral"  // Byte string ("hello")

	// Keywords
	FN_KEY     TokenType = "fn"     // Function type keyword
	ENUM_KEY   TokenType = "enum"   // Enum (tagged union) keyword
	STRUCT_KEY TokenType = "struct" // Struct keyword
	IF_KEY     TokenType = "if"     // Conditional if keyword
	ELSE_KEY   TokenType = "else"   // Conditional else keyword
	WHILE_KEY  TokenType = "while"  // While loop keyword
	RETURN_KEY TokenType = "return" // Return statement keyword
	BREAK_KEY  TokenType = "break"  // Loop break keyword
	TRUE_KEY   TokenType = "true"   // Boolean true literal
	FALSE_KEY  TokenType = "false"  // Boolean false literal
	MUT_KEY    TokenType = "mut"    // Mutable type modifier
	NULL_KEY   TokenType = "null"   // Null literal
	SWITCH_KEY TokenType = "switch" // Switch statement keyword
	CASE_KEY   TokenType = "case"   // Case clause keyword
	LET_KEY    TokenType = "let"    // Optional binding prefix
)

// KEYWORDS_MAP is a lookup table that maps keyword strings to their
// token types. It is used during lexical analysis to distinguish
// between keywords (reserved words with special meaning) and regular
// identifiers (user-defined names).
//
// Usage:
//
//	When the lexer has read an identifier-like run, it checks this map
//	to determine whether the run is a keyword or a plain identifier.
var KEYWORDS_MAP = map[string]TokenType{
	"fn":     FN_KEY,     // Function type
	"enum":   ENUM_KEY,   // Tagged union
	"struct": STRUCT_KEY, // Struct
	"if":     IF_KEY,     // Conditional if
	"else":   ELSE_KEY,   // Conditional else
	"while":  WHILE_KEY,  // While loop
	"return": RETURN_KEY, // Return from function
	"break":  BREAK_KEY,  // Break from loop
	"true":   TRUE_KEY,   // Boolean true
	"false":  FALSE_KEY,  // Boolean false
	"mut":    MUT_KEY,    // Mutable modifier
	"null":   NULL_KEY,   // Null value
	"switch": SWITCH_KEY, // Switch statement
	"case":   CASE_KEY,   // Case clause
	"let":    LET_KEY,    // Binding prefix
}

// Token represents a single lexical token of rm source code.
// It contains the token's type, its literal string representation from
// the source, the parsed numeric value for numeric literals, and
// metadata about its position in the source file. The position metadata
// is carried verbatim into diagnostics.
//
// Fields:
//   - Type: The category of the token (punctuation, keyword, literal)
//   - Literal: The actual text from the source (identifier text, string
//     payload, character payload)
//   - Numeric: The parsed value of a NUMERIC_LIT token
//   - Row: The row where the token starts (1-indexed)
//   - Col: The column where the token starts (1-indexed)
//   - Length: The number of source bytes the token spans
//   - File: The name of the source file the token was read from
type Token struct {
	Type    TokenType // The type/category of this token
	Literal string    // The actual text from source code
	Numeric float64   // Parsed value for numeric literals
	Row     int       // Row in source file (1-indexed)
	Col     int       // Column in source file (1-indexed)
	Length  int       // Number of bytes spanned in the source
	File    string    // Source file name
}

// NewToken creates a new Token with the specified type and literal
// value but no position metadata. It exists for tests and for building
// expected token streams; the lexer itself always records positions.
func NewToken(tokenType TokenType, literal string) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
	}
}

// NewTokenWithMetadata creates a new Token with full metadata including
// position. This constructor is used during lexical analysis to
// preserve source location information for error reporting.
func NewTokenWithMetadata(tokenType TokenType, literal string, row int, col int, file string) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Row:     row,
		Col:     col,
		Length:  len(literal),
		File:    file,
	}
}

// Print outputs a human-readable representation of the token to
// standard output in "literal:type" form. Debugging aid.
func (tok *Token) Print() {
	fmt.Printf("%s:%v\n", tok.Literal, tok.Type)
}

// lookupIdent determines the token type for an identifier run.
// It returns the keyword token type when the run is a reserved word,
// otherwise IDENTIFIER_ID.
//
// Example:
//
//	lookupIdent("fn")    -> FN_KEY
//	lookupIdent("myVar") -> IDENTIFIER_ID
func lookupIdent(ident string) TokenType {
	if tok, ok := KEYWORDS_MAP[ident]; ok {
		return tok
	}
	return IDENTIFIER_ID
}
