/*
File    : rmc/soundness/soundness_test.go
*/
package soundness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-lang/rmc/context"
	"github.com/rm-lang/rmc/parser"
)

// check parses src and fails the test on a parse error.
func check(t *testing.T, src string) *parser.ParsedFile {
	t.Helper()
	par := parser.NewParser(src, "sound.rm")
	file := par.Parse()
	require.False(t, par.HasError(), "parse error: %v", par.Error)
	return file
}

// represents a soundness test case
// Input: source text
// ExpectedMessage: empty when the input must pass, else the diagnostic
type TestSoundness struct {
	Input           string
	ExpectedMessage string
}

// TestSoundness_DataTypes covers the struct/enum shape rules: unique
// names, unique fields, and the array modifier invariants.
func TestSoundness_DataTypes(t *testing.T) {
	tests := []TestSoundness{
		{
			Input: "struct Point { x: i32, y: i32 }",
		},
		{
			Input:           "struct P { x: i32 } struct P { y: i32 }",
			ExpectedMessage: "`struct P` already exists.",
		},
		{
			Input:           "struct P { x: i32, x: u8 }",
			ExpectedMessage: "field `x` already exists on struct.",
		},
		{
			Input:           "enum E { ok: i32 } enum E { err: u8 }",
			ExpectedMessage: "`enum E` already exists.",
		},
		{
			// literal array size is fine
			Input: "struct Buf { data: [16]u8 }",
		},
		{
			// reference-sized array resolving to a usize sibling is fine,
			// in either declaration order
			Input: "struct Buf { data: *[n]u8, n: usize }",
		},
		{
			Input: "struct Buf { n: usize, data: *[n]u8 }",
		},
		{
			// reference to a non-usize sibling
			Input:           "struct Buf { data: *[n]u8, n: i32 }",
			ExpectedMessage: "`n` must be bound to a field of type `usize`",
		},
		{
			// reference that resolves to nothing
			Input:           "struct Buf { data: *[n]u8 }",
			ExpectedMessage: "`n` is unbounded within `data`",
		},
		{
			// a resolved reference size still demands the pointer
			Input:           "struct Buf { data: [n]u8, n: usize }",
			ExpectedMessage: "`data` must have a pointer modifier",
		},
		{
			// unsized array demands an enclosing pointer
			Input:           "struct Raw { data: []u8 }",
			ExpectedMessage: "`data` must have a pointer modifier",
		},
		{
			// unsized but pointer-enclosed is fine
			Input: "struct Raw { data: *[]u8 }",
		},
	}

	for _, test := range tests {
		file := check(t, test.Input)
		ctx, ctxErr := context.Contextualise(file)
		require.False(t, ctxErr.Errored, "input: %s", test.Input)
		err := Check(file, ctx)
		if test.ExpectedMessage == "" {
			assert.False(t, err.Errored, "input: %s, got: %v", test.Input, err)
		} else {
			require.True(t, err.Errored, "input: %s", test.Input)
			assert.Equal(t, test.ExpectedMessage, err.Message, "input: %s", test.Input)
		}
	}
}

// TestSoundness_Bindings covers binding name collisions.
func TestSoundness_Bindings(t *testing.T) {
	tests := []TestSoundness{
		{
			Input: "fn f(a: i32) -> i32 { x = 1; return x; }",
		},
		{
			Input:           "fn f(a: i32) -> i32 { a = 1; return a; }",
			ExpectedMessage: "the binding name `a` is already defined in this scope.",
		},
		{
			Input:           "fn f() -> i32 { x = 1; x = 2; return x; }",
			ExpectedMessage: "the binding name `x` is already defined in this scope.",
		},
		{
			Input:           "fn g() -> i32 { return 1; } fn f() -> i32 { g = 2; return g; }",
			ExpectedMessage: "the binding name `g` conflicts with a function in this scope.",
		},
		{
			// sibling branches have separate scopes; re-using a name in
			// the other branch is legal
			Input: "fn f(c: bool) -> i32 { if (c) { v = 1; return v; } else { v = 2; return v; } }",
		},
	}

	for _, test := range tests {
		file := check(t, test.Input)
		ctx, ctxErr := context.Contextualise(file)
		require.False(t, ctxErr.Errored, "input: %s", test.Input)
		err := Check(file, ctx)
		if test.ExpectedMessage == "" {
			assert.False(t, err.Errored, "input: %s, got: %v", test.Input, err)
		} else {
			require.True(t, err.Errored, "input: %s", test.Input)
			assert.Equal(t, test.ExpectedMessage, err.Message, "input: %s", test.Input)
		}
	}
}

// TestSoundness_StructLiterals covers literal field coverage.
func TestSoundness_StructLiterals(t *testing.T) {
	prelude := "struct Point { x: i32, y: i32 } enum R { ok: i32, err: u8 } "

	tests := []TestSoundness{
		{
			Input: prelude + "fn f() -> i32 { p = struct Point { x = 1, y = 2 }; return 0; }",
		},
		{
			Input:           prelude + "fn f() -> i32 { p = struct Point { x = 1 }; return 0; }",
			ExpectedMessage: "required field `y` is missing.",
		},
		{
			Input:           prelude + "fn f() -> i32 { p = struct Point { x = 1, y = 2, z = 3 }; return 0; }",
			ExpectedMessage: "too many fields provided.",
		},
		{
			Input: prelude + "fn f() -> i32 { r = enum R { ok = 1 }; return 0; }",
		},
		{
			Input:           prelude + "fn f() -> i32 { r = enum R { nope = 1 }; return 0; }",
			ExpectedMessage: "variant `nope` does not exist on `enum R`.",
		},
	}

	for _, test := range tests {
		file := check(t, test.Input)
		ctx, ctxErr := context.Contextualise(file)
		require.False(t, ctxErr.Errored, "input: %s", test.Input)
		err := Check(file, ctx)
		if test.ExpectedMessage == "" {
			assert.False(t, err.Errored, "input: %s, got: %v", test.Input, err)
		} else {
			require.True(t, err.Errored, "input: %s", test.Input)
			assert.Equal(t, test.ExpectedMessage, err.Message, "input: %s", test.Input)
		}
	}
}

// TestSoundness_ErrorMetadata checks diagnostics anchor at the failing
// statement.
func TestSoundness_ErrorMetadata(t *testing.T) {
	src := "fn f() -> i32 {\n  x = 1;\n  x = 2;\n  return x;\n}"
	file := check(t, src)
	ctx, ctxErr := context.Contextualise(file)
	require.False(t, ctxErr.Errored)

	err := Check(file, ctx)
	require.True(t, err.Errored)
	assert.Equal(t, "sound.rm", err.File)
	assert.Equal(t, 3, err.Row)
	assert.Equal(t, 3, err.Col)
}
