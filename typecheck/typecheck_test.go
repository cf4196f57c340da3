/*
File    : rmc/typecheck/typecheck_test.go
*/
package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-lang/rmc/context"
	"github.com/rm-lang/rmc/parser"
)

// runCheck parses src, builds its context, and runs the type checker.
func runCheck(t *testing.T, src string) *diagResult {
	t.Helper()
	par := parser.NewParser(src, "check.rm")
	file := par.Parse()
	require.False(t, par.HasError(), "parse error: %v", par.Error)
	ctx, ctxErr := context.Contextualise(file)
	require.False(t, ctxErr.Errored, "context error: %v", ctxErr)
	err := Check(file, ctx)
	return &diagResult{Errored: err.Errored, Message: err.Message, Row: err.Row, File: err.File}
}

type diagResult struct {
	Errored bool
	Message string
	Row     int
	File    string
}

// primitive builds a bare primitive type for equality tests.
func primitive(p parser.PrimitiveType) *parser.Type {
	return &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: p}
}

// TestTypeEq covers the structural equality rules.
func TestTypeEq(t *testing.T) {
	assert.True(t, TypeEq(primitive(parser.I32_PRIMITIVE), primitive(parser.I32_PRIMITIVE)))
	assert.False(t, TypeEq(primitive(parser.I32_PRIMITIVE), primitive(parser.BOOL_PRIMITIVE)))
	assert.False(t, TypeEq(nil, primitive(parser.I32_PRIMITIVE)))

	// structs and enums compare by name, not by body
	a := &parser.Type{Kind: parser.STRUCT_TYPE, Name: "P", Fields: []parser.FieldPair{{Name: "x", Type: primitive(parser.I32_PRIMITIVE)}}}
	b := &parser.Type{Kind: parser.STRUCT_TYPE, Name: "P", Predefined: true}
	c := &parser.Type{Kind: parser.STRUCT_TYPE, Name: "Q"}
	assert.True(t, TypeEq(a, b))
	assert.False(t, TypeEq(a, c))
	assert.False(t, TypeEq(a, &parser.Type{Kind: parser.ENUM_TYPE, Name: "P"}))

	// modifier lists must agree in length, kind and literal sizes
	ptr := &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: parser.U8_PRIMITIVE,
		Modifiers: []parser.TypeModifier{{Kind: parser.POINTER_MODIFIER}}}
	assert.False(t, TypeEq(ptr, primitive(parser.U8_PRIMITIVE)))
	assert.True(t, TypeEq(ptr, &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: parser.U8_PRIMITIVE,
		Modifiers: []parser.TypeModifier{{Kind: parser.POINTER_MODIFIER}}}))

	fourWide := &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: parser.U8_PRIMITIVE,
		Modifiers: []parser.TypeModifier{{Kind: parser.ARRAY_MODIFIER, Array: parser.ArrayModifier{LiterallySized: true, LiteralSize: 4}}}}
	fiveWide := &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: parser.U8_PRIMITIVE,
		Modifiers: []parser.TypeModifier{{Kind: parser.ARRAY_MODIFIER, Array: parser.ArrayModifier{LiterallySized: true, LiteralSize: 5}}}}
	assert.False(t, TypeEq(fourWide, fiveWide))

	// functions compare by parameter types and return type
	f1 := &parser.Type{Kind: parser.FUNCTION_TYPE, Name: "f",
		Params:     []parser.FieldPair{{Name: "a", Type: primitive(parser.I32_PRIMITIVE)}},
		ReturnType: primitive(parser.I32_PRIMITIVE)}
	f2 := &parser.Type{Kind: parser.FUNCTION_TYPE, Name: "g",
		Params:     []parser.FieldPair{{Name: "b", Type: primitive(parser.I32_PRIMITIVE)}},
		ReturnType: primitive(parser.I32_PRIMITIVE)}
	f3 := &parser.Type{Kind: parser.FUNCTION_TYPE,
		Params:     []parser.FieldPair{{Name: "a", Type: primitive(parser.BOOL_PRIMITIVE)}},
		ReturnType: primitive(parser.I32_PRIMITIVE)}
	assert.True(t, TypeEq(f1, f2))
	assert.False(t, TypeEq(f1, f3))
}

// represents a type checking test case
// Input: source text
// ExpectedMessage: empty when the input must pass
type TestTypeCheck struct {
	Input           string
	ExpectedMessage string
}

// TestCheck_Bindings covers annotation/inference agreement.
func TestCheck_Bindings(t *testing.T) {
	tests := []TestTypeCheck{
		{
			Input: "fn f() -> i32 { x: i32 = 1; return x; }",
		},
		{
			Input:           "fn f() -> i32 { x: i32 = true; return x; }",
			ExpectedMessage: "mismatch types; expected `i32` but got `bool`.",
		},
		{
			// a null right-hand side with an annotation is fine
			Input: "fn f() -> i32 { x: i32 = null; return x; }",
		},
		{
			// neither annotation nor inferable type
			Input:           "fn f() -> i32 { x = null; return 1; }",
			ExpectedMessage: "type annotations needed for `x`.",
		},
		{
			Input: "struct P { x: i32 } fn f() -> i32 { p: struct P = struct P { x = 1 }; return p.x; }",
		},
	}

	for _, test := range tests {
		result := runCheck(t, test.Input)
		if test.ExpectedMessage == "" {
			assert.False(t, result.Errored, "input: %s, got: %s", test.Input, result.Message)
		} else {
			require.True(t, result.Errored, "input: %s", test.Input)
			assert.Equal(t, test.ExpectedMessage, result.Message, "input: %s", test.Input)
		}
	}
}

// TestCheck_Conditions covers boolean-condition enforcement.
func TestCheck_Conditions(t *testing.T) {
	tests := []TestTypeCheck{
		{
			Input: "fn f(c: bool) -> i32 { if (c) { return 0; } return 1; }",
		},
		{
			Input:           "fn f() -> i32 { if (1) { return 0; } return 1; }",
			ExpectedMessage: "the condition of an if statement must be a boolean.",
		},
		{
			Input: "fn f(c: bool) -> i32 { while (c) { break; } return 1; }",
		},
		{
			Input:           "fn f() -> i32 { while (42) { break; } return 1; }",
			ExpectedMessage: "the condition of a while loop must be a boolean.",
		},
		{
			Input: "fn f(a: i32) -> i32 { if (a > 1 && a < 5) { return 0; } return 1; }",
		},
	}

	for _, test := range tests {
		result := runCheck(t, test.Input)
		if test.ExpectedMessage == "" {
			assert.False(t, result.Errored, "input: %s, got: %s", test.Input, result.Message)
		} else {
			require.True(t, result.Errored, "input: %s", test.Input)
			assert.Equal(t, test.ExpectedMessage, result.Message, "input: %s", test.Input)
		}
	}
}

// TestCheck_Returns covers return type agreement, including returns
// nested in control flow.
func TestCheck_Returns(t *testing.T) {
	tests := []TestTypeCheck{
		{
			Input: "fn f() -> i32 { return 1; }",
		},
		{
			Input:           "fn f() -> i32 { return true; }",
			ExpectedMessage: "mismatch types; expected `i32` but got `bool`.",
		},
		{
			// nested in an else arm and an inner block
			Input:           "fn f(c: bool) -> i32 { if (c) { return 1; } else { { return false; } } }",
			ExpectedMessage: "mismatch types; expected `i32` but got `bool`.",
		},
		{
			Input: "fn f() -> void { return; }",
		},
		{
			Input:           "fn f() -> i32 { return; }",
			ExpectedMessage: "mismatch types; expected `i32` but got `void`.",
		},
		{
			Input: "struct P { x: i32 } fn mk() -> struct P { return struct P { x = 1 }; }",
		},
	}

	for _, test := range tests {
		result := runCheck(t, test.Input)
		if test.ExpectedMessage == "" {
			assert.False(t, result.Errored, "input: %s, got: %s", test.Input, result.Message)
		} else {
			require.True(t, result.Errored, "input: %s", test.Input)
			assert.Equal(t, test.ExpectedMessage, result.Message, "input: %s", test.Input)
		}
	}
}

// TestCheck_CallSites covers argument/parameter agreement.
func TestCheck_CallSites(t *testing.T) {
	prelude := "fn add(a: i32, b: i32) -> i32 { return a + b; } "

	tests := []TestTypeCheck{
		{
			Input: prelude + "fn f() -> i32 { return add(1, 2); }",
		},
		{
			Input:           prelude + "fn f() -> i32 { return add(1, true); }",
			ExpectedMessage: "mismatch types; expected `i32` for parameter 'b' but got `bool` (in function 'add').",
		},
		{
			// calls in action position are checked too
			Input:           prelude + "fn f() -> i32 { add(true, 2); return 0; }",
			ExpectedMessage: "mismatch types; expected `i32` for parameter 'a' but got `bool` (in function 'add').",
		},
		{
			// a partially applied call is legal at the type level
			Input: prelude + "fn f() -> i32 { rest: fn(b: i32) -> i32 = add(1); return 0; }",
		},
	}

	for _, test := range tests {
		result := runCheck(t, test.Input)
		if test.ExpectedMessage == "" {
			assert.False(t, result.Errored, "input: %s, got: %s", test.Input, result.Message)
		} else {
			require.True(t, result.Errored, "input: %s", test.Input)
			assert.Equal(t, test.ExpectedMessage, result.Message, "input: %s", test.Input)
		}
	}
}

// TestCheck_ErrorMetadata checks diagnostics anchor at the offending
// statement's position.
func TestCheck_ErrorMetadata(t *testing.T) {
	result := runCheck(t, "fn f() -> i32 {\n  x: i32 = true;\n  return x;\n}")
	require.True(t, result.Errored)
	assert.Equal(t, "check.rm", result.File)
	assert.Equal(t, 2, result.Row)
}
