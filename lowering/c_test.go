/*
File    : rmc/lowering/c_test.go
*/
package lowering

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-lang/rmc/context"
	"github.com/rm-lang/rmc/parser"
	"github.com/rm-lang/rmc/soundness"
	"github.com/rm-lang/rmc/typecheck"
)

// emit runs the full pipeline over src and returns the generated
// header and implementation text.
func emit(t *testing.T, src string) (string, string) {
	t.Helper()
	par := parser.NewParser(src, "emit.rm")
	file := par.Parse()
	require.False(t, par.HasError(), "parse error: %v", par.Error)

	ctx, ctxErr := context.Contextualise(file)
	require.False(t, ctxErr.Errored, "context error: %v", ctxErr)
	soundErr := soundness.Check(file, ctx)
	require.False(t, soundErr.Errored, "soundness error: %v", soundErr)
	checkErr := typecheck.Check(file, ctx)
	require.False(t, checkErr.Errored, "type error: %v", checkErr)

	var header bytes.Buffer
	GenerateHeader(&header, ctx)
	var impl bytes.Buffer
	GenerateImplementation(&impl, file, ctx)
	return header.String(), impl.String()
}

// assertCEqual compares generated C against the expected text and
// renders a unified diff on mismatch.
func assertCEqual(t *testing.T, expected string, actual string) {
	t.Helper()
	if expected == actual {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		text = "expected:\n" + expected + "\nactual:\n" + actual
	}
	t.Errorf("generated C mismatch:\n%s", text)
}

const headerPrelude = "#ifndef C_OUTPUT_H\n#define C_OUTPUT_H\n" +
	"#include <stdio.h>\n#include <stdlib.h>\n#include <unistd.h>\n"

// readFile loads one generated artifact from dir.
func readFile(dir string, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	return string(data), err
}

// TestGenerate_Function covers the end-to-end shape of a plain
// function: prototype in the header, body in the implementation.
func TestGenerate_Function(t *testing.T) {
	header, impl := emit(t, "fn add(a: i32, b: i32) -> i32 { return a + b; }")

	assertCEqual(t, headerPrelude+"int add(int a, int b);\n#endif\n", header)
	assertCEqual(t, "#include \"c_output.h\"\nint add(int a, int b){return a + b;}\n", impl)
}

// TestGenerate_Struct covers struct layout and struct literals.
func TestGenerate_Struct(t *testing.T) {
	src := `
struct Point { x: i32, y: i32 }
fn mk() -> struct Point {
	p: struct Point = struct Point { x = 1, y = 2 };
	return p;
}
`
	header, impl := emit(t, src)

	assertCEqual(t, headerPrelude+
		"struct Point {int x;int y;};\n"+
		"struct Point mk();\n#endif\n", header)
	assertCEqual(t, "#include \"c_output.h\"\n"+
		"struct Point mk(){struct Point p = (struct Point) {.x = 1,.y = 2};return p;}\n", impl)
}

// TestGenerate_Enum covers the synthesised tagged-union layout.
func TestGenerate_Enum(t *testing.T) {
	header, _ := emit(t, "enum R { ok: i32, err: u8 }")

	assertCEqual(t, headerPrelude+
		"enum R_kind {R_kind_ok,R_kind_err}; "+
		"struct R_type { enum R_kind R_kind; union {int R_type_ok;unsigned char R_type_err;};};\n"+
		"#endif\n", header)
}

// TestGenerate_EnumLiteral covers the tagged compound literal an enum
// construction lowers to.
func TestGenerate_EnumLiteral(t *testing.T) {
	src := `
enum R { ok: i32, err: u8 }
fn f() -> enum R {
	r: enum R = enum R { ok = 3 };
	return r;
}
`
	_, impl := emit(t, src)

	assertCEqual(t, "#include \"c_output.h\"\n"+
		"struct R_type f(){struct R_type r = (struct R_type) {.R_kind = R_kind_ok,.R_type_ok = 3};return r;}\n", impl)
}

// TestGenerate_MemberAccess covers the `->` versus `.` choice driven
// by the pointer-ness of the accessed operand.
func TestGenerate_MemberAccess(t *testing.T) {
	src := `
struct P { x: i32 }
fn byValue(p: struct P) -> i32 { return p.x; }
fn byPointer(p: *struct P) -> i32 { return p.x; }
`
	_, impl := emit(t, src)

	assert.Contains(t, impl, "int byValue(struct P p){return p.x;}")
	assert.Contains(t, impl, "int byPointer(struct P (*p)){return p->x;}")
}

// represents a modifier application test case
// Input: a struct declaration
// Expected: the header line for it
type TestModifierOutput struct {
	Input    string
	Expected string
}

// TestGenerate_ModifierApplication covers outside-in modifier
// composition on declared names.
func TestGenerate_ModifierApplication(t *testing.T) {
	tests := []TestModifierOutput{
		{
			Input:    "struct S { p: *u8 }",
			Expected: "struct S {unsigned char (*p);};",
		},
		{
			Input:    "struct S { b: [4]u8 }",
			Expected: "struct S {unsigned char (b[4]);};",
		},
		{
			// pointer outside an unsized array
			Input:    "struct S { d: *[]u8 }",
			Expected: "struct S {unsigned char ((*d)[]);};",
		},
		{
			// nullable passes through, mutable is erased
			Input:    "struct S { q: ?mut i32 }",
			Expected: "struct S {int q;};",
		},
	}

	for _, test := range tests {
		header, _ := emit(t, test.Input)
		assert.Contains(t, header, test.Expected, "input: %s", test.Input)
	}
}

// TestGenerate_Statements covers control flow, null bindings, unary
// and grouped expressions.
func TestGenerate_Statements(t *testing.T) {
	src := `
fn f(a: i32, c: bool) -> i32 {
	x: i32 = null;
	if (a > 1) { return 1; } else { return 0; }
}
`
	_, impl := emit(t, src)
	assert.Contains(t, impl, "int f(int a, char c){int x = 0;if (a > 1){return 1;} else {return 0;}}")

	src = `
fn g(c: bool) -> i32 {
	n = 0;
	while (c) {
		break;
	}
	return !n - (1 + 2) * 3;
}
`
	_, impl = emit(t, src)
	assert.Contains(t, impl, "int g(char c){int n = 0;while (c){break;}return !n - (1 + 2) * 3;}")
}

// TestGenerate_NullStructBinding covers the struct zero value.
func TestGenerate_NullStructBinding(t *testing.T) {
	src := `
struct P { x: i32 }
fn f() -> i32 {
	p: struct P = null;
	return 0;
}
`
	_, impl := emit(t, src)
	assert.Contains(t, impl, "struct P p = {0};")
}

// TestGenerate_Switch covers the temporary-pointer guard chain.
func TestGenerate_Switch(t *testing.T) {
	src := `
fn f(x: i32) -> i32 {
	switch (x) {
		case 1: { return 1; }
		case _: { return 0; }
	}
}
`
	_, impl := emit(t, src)
	assert.Contains(t, impl, "{int *t = &x;if (*t == 1){{return 1;}}if (1){{return 0;}}}")
}

// TestGenerate_SwitchString covers string patterns via strcmp.
func TestGenerate_SwitchString(t *testing.T) {
	src := `
fn f(s: *u8) -> i32 {
	switch (s) {
		case "go": { return 1; }
		case _: { return 0; }
	}
}
`
	_, impl := emit(t, src)
	assert.Contains(t, impl, `if (strcmp(t, "go") == 0){{return 1;}}`)
}

// TestGenerate_IncludesAndRawC covers include statements and raw C
// blocks passing through verbatim.
func TestGenerate_IncludesAndRawC(t *testing.T) {
	src := `
# include <string.h>
# include "local.h"
fn f() -> void {
	# "fflush(stdout);"
	return;
}
`
	_, impl := emit(t, src)
	assert.True(t, strings.HasPrefix(impl,
		"#include \"c_output.h\"\n#include <string.h>\n#include \"local.h\"\n"))
	assert.Contains(t, impl, "void f(){fflush(stdout);\nreturn;}")
}

// TestGenerate_CharAndStringLiterals covers literal emission.
func TestGenerate_CharAndStringLiterals(t *testing.T) {
	src := `
fn f() -> u8 {
	c = 'x';
	s = "hey";
	ok = true;
	no = false;
	return c;
}
`
	_, impl := emit(t, src)
	assert.Contains(t, impl, "unsigned char c = 'x';")
	assert.Contains(t, impl, "unsigned char (s[3]) = \"hey\";")
	assert.Contains(t, impl, "char ok = 1;")
	assert.Contains(t, impl, "char no = 0;")
}

// TestGenerate_Idempotent checks that lowering the same input twice
// yields byte-identical output.
func TestGenerate_Idempotent(t *testing.T) {
	src := `
struct Point { x: i32, y: i32 }
fn mk() -> struct Point {
	p: struct Point = struct Point { x = 1, y = 2 };
	return p;
}
fn use(p: *struct Point) -> i32 { return p.x; }
`
	firstHeader, firstImpl := emit(t, src)
	secondHeader, secondImpl := emit(t, src)
	assert.Equal(t, firstHeader, secondHeader)
	assert.Equal(t, firstImpl, secondImpl)
}

// TestGenerate_Files checks the two artifacts land under the target
// directory.
func TestGenerate_Files(t *testing.T) {
	src := "fn f() -> i32 { return 1; }"
	par := parser.NewParser(src, "files.rm")
	file := par.Parse()
	require.False(t, par.HasError())
	ctx, ctxErr := context.Contextualise(file)
	require.False(t, ctxErr.Errored)

	dir := t.TempDir()
	require.NoError(t, Generate(file, ctx, dir))

	header, err := readFile(dir, HeaderFileName)
	require.NoError(t, err)
	assert.Contains(t, header, "int f();")
	impl, err := readFile(dir, ImplFileName)
	require.NoError(t, err)
	assert.Contains(t, impl, "int f(){return 1;}")
}
