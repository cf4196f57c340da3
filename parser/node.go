/*
File    : rmc/parser/node.go
*/
package parser

import (
	"fmt"
	"strings"
)

// Node is the base interface for all nodes of the AST.
// Literal() returns the string representation of the node, which is
// used by tests and debugging output.
type Node interface {
	Literal() string
}

// StatementNode is the base interface for all statement nodes.
// Every statement carries a stable identifier (the key into the
// context tables) and source-position metadata.
type StatementNode interface {
	Node
	Statement()
	ID() int
	Meta() Metadata
}

// ExpressionNode is the base interface for all expression nodes.
// Every expression carries a stable identifier used as the key into
// the expression-type table.
type ExpressionNode interface {
	Node
	Expression()
	ID() int
}

// Metadata is the source position attached to every statement.
// It is taken verbatim from the token at which the statement starts
// and is used unchanged by diagnostics.
type Metadata struct {
	Row  int    // Row in the source file (1-indexed)
	Col  int    // Column in the source file (1-indexed)
	File string // Source file name
}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

// PrimitiveType names one of the built-in value types.
type PrimitiveType string

// The closed set of primitive types.
const (
	VOID_PRIMITIVE  PrimitiveType = "void"
	BOOL_PRIMITIVE  PrimitiveType = "bool"
	I8_PRIMITIVE    PrimitiveType = "i8"
	U8_PRIMITIVE    PrimitiveType = "u8"
	I16_PRIMITIVE   PrimitiveType = "i16"
	U16_PRIMITIVE   PrimitiveType = "u16"
	I32_PRIMITIVE   PrimitiveType = "i32"
	U32_PRIMITIVE   PrimitiveType = "u32"
	I64_PRIMITIVE   PrimitiveType = "i64"
	U64_PRIMITIVE   PrimitiveType = "u64"
	USIZE_PRIMITIVE PrimitiveType = "usize"
	F32_PRIMITIVE   PrimitiveType = "f32"
	F64_PRIMITIVE   PrimitiveType = "f64"
)

// PRIMITIVES_MAP maps source spellings to primitive types. The lexer
// produces plain identifiers for these; the type parser reclassifies
// them through this table.
var PRIMITIVES_MAP = map[string]PrimitiveType{
	"void":  VOID_PRIMITIVE,
	"bool":  BOOL_PRIMITIVE,
	"i8":    I8_PRIMITIVE,
	"u8":    U8_PRIMITIVE,
	"i16":   I16_PRIMITIVE,
	"u16":   U16_PRIMITIVE,
	"i32":   I32_PRIMITIVE,
	"u32":   U32_PRIMITIVE,
	"i64":   I64_PRIMITIVE,
	"u64":   U64_PRIMITIVE,
	"usize": USIZE_PRIMITIVE,
	"f32":   F32_PRIMITIVE,
	"f64":   F64_PRIMITIVE,
}

// ModifierKind classifies a type modifier.
type ModifierKind string

// The four modifier kinds. Modifiers compose outside-in in declaration
// order: `*?u8` is a pointer to a nullable u8.
const (
	POINTER_MODIFIER  ModifierKind = "pointer"
	NULLABLE_MODIFIER ModifierKind = "nullable"
	ARRAY_MODIFIER    ModifierKind = "array"
	MUTABLE_MODIFIER  ModifierKind = "mutable"
)

// ArrayModifier carries the sizing of an array modifier. Exactly one
// of the three states holds: literally sized (`[4]`), reference sized
// (`[n]`, where n must resolve to a sibling usize field), or unsized
// (`[]`, which demands an enclosing pointer modifier).
type ArrayModifier struct {
	LiterallySized bool   // `[4]`
	LiteralSize    int    // the 4 above
	ReferenceSized bool   // `[n]`
	ReferenceName  string // the n above
}

// TypeModifier is one outside-in qualifier applied to an inner type.
type TypeModifier struct {
	Kind  ModifierKind
	Array ArrayModifier // populated only for ARRAY_MODIFIER
}

// Literal returns the source spelling of the modifier.
func (m TypeModifier) Literal() string {
	switch m.Kind {
	case POINTER_MODIFIER:
		return "*"
	case NULLABLE_MODIFIER:
		return "?"
	case MUTABLE_MODIFIER:
		return "mut "
	case ARRAY_MODIFIER:
		if m.Array.LiterallySized {
			return fmt.Sprintf("[%d]", m.Array.LiteralSize)
		}
		if m.Array.ReferenceSized {
			return fmt.Sprintf("[%s]", m.Array.ReferenceName)
		}
		return "[]"
	}
	return ""
}

// TypeKind classifies the four variant shapes a type can take.
type TypeKind string

const (
	PRIMITIVE_TYPE TypeKind = "primitive"
	STRUCT_TYPE    TypeKind = "struct"
	ENUM_TYPE      TypeKind = "enum"
	FUNCTION_TYPE  TypeKind = "function"
)

// FieldPair is one (name, type) entry of a struct field list, an enum
// variant list, or a function parameter list. Declaration order is
// preserved everywhere.
type FieldPair struct {
	Name string
	Type *Type
}

// Type is the single type representation used across the compiler.
//
// Fields:
//   - Kind: which of the four variant shapes this type takes
//   - Name: the declared name (structs, enums, named functions)
//   - Modifiers: outside-in qualifier list
//   - Primitive: the primitive, for PRIMITIVE_TYPE
//   - Fields: struct fields or enum variants, in declaration order
//   - Predefined: a by-name reference whose body lives in the global
//     table (resolved on demand at use time)
//   - Params: function parameters, in declaration order
//   - ReturnType: function return type
type Type struct {
	Kind       TypeKind
	Name       string
	Modifiers  []TypeModifier
	Primitive  PrimitiveType
	Fields     []FieldPair
	Predefined bool
	Params     []FieldPair
	ReturnType *Type
}

// Literal returns the source-facing spelling of the type, modifiers
// first. This is the string diagnostics print.
func (ty *Type) Literal() string {
	if ty == nil {
		return ""
	}

	var sb strings.Builder
	for _, m := range ty.Modifiers {
		sb.WriteString(m.Literal())
	}

	switch ty.Kind {
	case PRIMITIVE_TYPE:
		sb.WriteString(string(ty.Primitive))
	case STRUCT_TYPE:
		sb.WriteString("struct " + ty.Name)
	case ENUM_TYPE:
		sb.WriteString("enum " + ty.Name)
	case FUNCTION_TYPE:
		sb.WriteString("fn(")
		for i, p := range ty.Params {
			sb.WriteString(p.Type.Literal())
			if i < len(ty.Params)-1 {
				sb.WriteString(", ")
			}
		}
		sb.WriteString(") -> ")
		sb.WriteString(ty.ReturnType.Literal())
	}
	return sb.String()
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// UnaryOperator is the spelling of a unary operator.
type UnaryOperator string

const (
	BANG_UNARY  UnaryOperator = "!"
	STAR_UNARY  UnaryOperator = "*"
	MINUS_UNARY UnaryOperator = "-"
)

// BinaryOperator is the spelling of a binary operator.
type BinaryOperator string

const (
	PLUS_BINARY        BinaryOperator = "+"
	MINUS_BINARY       BinaryOperator = "-"
	MULTIPLY_BINARY    BinaryOperator = "*"
	OR_BINARY          BinaryOperator = "||"
	AND_BINARY         BinaryOperator = "&&"
	BITWISE_OR_BINARY  BinaryOperator = "|"
	BITWISE_AND_BINARY BinaryOperator = "&"
	GREATER_BINARY     BinaryOperator = ">"
	LESS_BINARY        BinaryOperator = "<"
	EQUAL_BINARY       BinaryOperator = "=="
	ASSIGN_BINARY      BinaryOperator = "="
)

// KeyExpression is one `field = value` entry of a struct or enum
// literal.
type KeyExpression struct {
	Key   string
	Value ExpressionNode
}

// BooleanLiteralNode represents `true` or `false`.
type BooleanLiteralNode struct {
	Id    int
	Value bool
}

func (node *BooleanLiteralNode) Literal() string {
	if node.Value {
		return "true"
	}
	return "false"
}
func (node *BooleanLiteralNode) Expression() {}
func (node *BooleanLiteralNode) ID() int     { return node.Id }

// CharLiteralNode represents a single-byte character literal: 'c'.
type CharLiteralNode struct {
	Id    int
	Value byte
}

func (node *CharLiteralNode) Literal() string { return fmt.Sprintf("'%c'", node.Value) }
func (node *CharLiteralNode) Expression()     {}
func (node *CharLiteralNode) ID() int         { return node.Id }

// StringLiteralNode represents a byte-string literal: "hello".
type StringLiteralNode struct {
	Id    int
	Value string
}

func (node *StringLiteralNode) Literal() string { return fmt.Sprintf("%q", node.Value) }
func (node *StringLiteralNode) Expression()     {}
func (node *StringLiteralNode) ID() int         { return node.Id }

// NumericLiteralNode represents a decimal number literal: 42. The lexer
// splits `3.5` at the dot, so fractional literals do not reach it.
type NumericLiteralNode struct {
	Id    int
	Value float64
}

func (node *NumericLiteralNode) Literal() string { return fmt.Sprintf("%v", node.Value) }
func (node *NumericLiteralNode) Expression()     {}
func (node *NumericLiteralNode) ID() int         { return node.Id }

// NameLiteralNode represents an identifier in expression position.
type NameLiteralNode struct {
	Id   int
	Name string
}

func (node *NameLiteralNode) Literal() string { return node.Name }
func (node *NameLiteralNode) Expression()     {}
func (node *NameLiteralNode) ID() int         { return node.Id }

// HoleLiteralNode represents the hole `_`, which does not constrain
// inference.
type HoleLiteralNode struct {
	Id int
}

func (node *HoleLiteralNode) Literal() string { return "_" }
func (node *HoleLiteralNode) Expression()     {}
func (node *HoleLiteralNode) ID() int         { return node.Id }

// NullLiteralNode represents `null`.
type NullLiteralNode struct {
	Id int
}

func (node *NullLiteralNode) Literal() string { return "null" }
func (node *NullLiteralNode) Expression()     {}
func (node *NullLiteralNode) ID() int         { return node.Id }

// StructLiteralNode represents `struct Name { field = expr, ... }`.
type StructLiteralNode struct {
	Id    int
	Name  string
	Pairs []KeyExpression
}

func (node *StructLiteralNode) Literal() string {
	return literalPairs("struct", node.Name, node.Pairs)
}
func (node *StructLiteralNode) Expression() {}
func (node *StructLiteralNode) ID() int     { return node.Id }

// EnumLiteralNode represents `enum Name { variant = expr }`,
// constructing one variant of a sum type.
type EnumLiteralNode struct {
	Id    int
	Name  string
	Pairs []KeyExpression
}

func (node *EnumLiteralNode) Literal() string {
	return literalPairs("enum", node.Name, node.Pairs)
}
func (node *EnumLiteralNode) Expression() {}
func (node *EnumLiteralNode) ID() int     { return node.Id }

// literalPairs renders the shared struct/enum literal shape.
func literalPairs(kind string, name string, pairs []KeyExpression) string {
	var sb strings.Builder
	sb.WriteString(kind + " " + name + " { ")
	for i, p := range pairs {
		sb.WriteString(p.Key + " = " + p.Value.Literal())
		if i < len(pairs)-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteString(" }")
	return sb.String()
}

// UnaryExpressionNode represents `!expr`, `*expr`, or `-expr`.
type UnaryExpressionNode struct {
	Id       int
	Operator UnaryOperator
	Operand  ExpressionNode
}

func (node *UnaryExpressionNode) Literal() string {
	return string(node.Operator) + node.Operand.Literal()
}
func (node *UnaryExpressionNode) Expression() {}
func (node *UnaryExpressionNode) ID() int     { return node.Id }

// BinaryExpressionNode represents `left OP right`.
type BinaryExpressionNode struct {
	Id       int
	Operator BinaryOperator
	Left     ExpressionNode
	Right    ExpressionNode
}

func (node *BinaryExpressionNode) Literal() string {
	return node.Left.Literal() + " " + string(node.Operator) + " " + node.Right.Literal()
}
func (node *BinaryExpressionNode) Expression() {}
func (node *BinaryExpressionNode) ID() int     { return node.Id }

// GroupExpressionNode represents a parenthesised expression.
type GroupExpressionNode struct {
	Id    int
	Inner ExpressionNode
}

func (node *GroupExpressionNode) Literal() string { return "(" + node.Inner.Literal() + ")" }
func (node *GroupExpressionNode) Expression()     {}
func (node *GroupExpressionNode) ID() int         { return node.Id }

// CallExpressionNode represents `name(arg, arg, ...)`.
type CallExpressionNode struct {
	Id           int
	FunctionName string
	Arguments    []ExpressionNode
}

func (node *CallExpressionNode) Literal() string {
	args := make([]string, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		args = append(args, a.Literal())
	}
	return node.FunctionName + "(" + strings.Join(args, ", ") + ")"
}
func (node *CallExpressionNode) Expression() {}
func (node *CallExpressionNode) ID() int     { return node.Id }

// MemberAccessExpressionNode represents `accessed.member`.
type MemberAccessExpressionNode struct {
	Id         int
	Accessed   ExpressionNode
	MemberName string
}

func (node *MemberAccessExpressionNode) Literal() string {
	return node.Accessed.Literal() + "." + node.MemberName
}
func (node *MemberAccessExpressionNode) Expression() {}
func (node *MemberAccessExpressionNode) ID() int     { return node.Id }

// VoidExpressionNode is the empty expression of type void.
type VoidExpressionNode struct {
	Id int
}

func (node *VoidExpressionNode) Literal() string { return "" }
func (node *VoidExpressionNode) Expression()     {}
func (node *VoidExpressionNode) ID() int         { return node.Id }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// BindingStatementNode represents `name[: type] = expr;`, optionally
// prefixed with `let`.
type BindingStatementNode struct {
	Id            int
	Metadata      Metadata
	Name          string
	Annotation    *Type
	HasAnnotation bool
	Value         ExpressionNode
}

func (node *BindingStatementNode) Literal() string {
	if node.HasAnnotation {
		return node.Name + ": " + node.Annotation.Literal() + " = " + node.Value.Literal() + ";"
	}
	return node.Name + " = " + node.Value.Literal() + ";"
}
func (node *BindingStatementNode) Statement()     {}
func (node *BindingStatementNode) ID() int        { return node.Id }
func (node *BindingStatementNode) Meta() Metadata { return node.Metadata }

// IfStatementNode represents `if (cond) block [else (if|block)]`.
// Else is nil when absent.
type IfStatementNode struct {
	Id        int
	Metadata  Metadata
	Condition ExpressionNode
	Success   StatementNode
	Else      StatementNode
}

func (node *IfStatementNode) Literal() string {
	out := "if (" + node.Condition.Literal() + ") " + node.Success.Literal()
	if node.Else != nil {
		out += " else " + node.Else.Literal()
	}
	return out
}
func (node *IfStatementNode) Statement()     {}
func (node *IfStatementNode) ID() int        { return node.Id }
func (node *IfStatementNode) Meta() Metadata { return node.Metadata }

// WhileStatementNode represents `while (cond) block`.
type WhileStatementNode struct {
	Id        int
	Metadata  Metadata
	Condition ExpressionNode
	Do        StatementNode
}

func (node *WhileStatementNode) Literal() string {
	return "while (" + node.Condition.Literal() + ") " + node.Do.Literal()
}
func (node *WhileStatementNode) Statement()     {}
func (node *WhileStatementNode) ID() int        { return node.Id }
func (node *WhileStatementNode) Meta() Metadata { return node.Metadata }

// ReturnStatementNode represents `return expr;`.
type ReturnStatementNode struct {
	Id       int
	Metadata Metadata
	Value    ExpressionNode
}

func (node *ReturnStatementNode) Literal() string { return "return " + node.Value.Literal() + ";" }
func (node *ReturnStatementNode) Statement()      {}
func (node *ReturnStatementNode) ID() int         { return node.Id }
func (node *ReturnStatementNode) Meta() Metadata  { return node.Metadata }

// BreakStatementNode represents `break;`.
type BreakStatementNode struct {
	Id       int
	Metadata Metadata
}

func (node *BreakStatementNode) Literal() string { return "break;" }
func (node *BreakStatementNode) Statement()      {}
func (node *BreakStatementNode) ID() int         { return node.Id }
func (node *BreakStatementNode) Meta() Metadata  { return node.Metadata }

// BlockStatementNode represents `{ stmt... }`. Entering a block opens
// a new scope.
type BlockStatementNode struct {
	Id         int
	Metadata   Metadata
	Statements []StatementNode
}

func (node *BlockStatementNode) Literal() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, s := range node.Statements {
		sb.WriteString(s.Literal() + " ")
	}
	sb.WriteString("}")
	return sb.String()
}
func (node *BlockStatementNode) Statement()     {}
func (node *BlockStatementNode) ID() int        { return node.Id }
func (node *BlockStatementNode) Meta() Metadata { return node.Metadata }

// ActionStatementNode represents an expression statement: `expr;`.
type ActionStatementNode struct {
	Id         int
	Metadata   Metadata
	Expression ExpressionNode
}

func (node *ActionStatementNode) Literal() string { return node.Expression.Literal() + ";" }
func (node *ActionStatementNode) Statement()      {}
func (node *ActionStatementNode) ID() int         { return node.Id }
func (node *ActionStatementNode) Meta() Metadata  { return node.Metadata }

// CBlockStatementNode holds an opaque C payload emitted verbatim.
type CBlockStatementNode struct {
	Id       int
	Metadata Metadata
	RawC     string
}

func (node *CBlockStatementNode) Literal() string { return "# " + fmt.Sprintf("%q", node.RawC) }
func (node *CBlockStatementNode) Statement()      {}
func (node *CBlockStatementNode) ID() int         { return node.Id }
func (node *CBlockStatementNode) Meta() Metadata  { return node.Metadata }

// IncludeStatementNode represents `# include <a.b>` (external) or
// `# include "x.h"` (local) at the top level.
type IncludeStatementNode struct {
	Id       int
	Metadata Metadata
	Include  string
	External bool
}

func (node *IncludeStatementNode) Literal() string {
	if node.External {
		return "# include <" + node.Include + ">"
	}
	return "# include \"" + node.Include + "\""
}
func (node *IncludeStatementNode) Statement()     {}
func (node *IncludeStatementNode) ID() int        { return node.Id }
func (node *IncludeStatementNode) Meta() Metadata { return node.Metadata }

// TypeDeclarationNode is a top-level type declaration. For function
// types the declaration is coupled with its block body.
type TypeDeclarationNode struct {
	Id           int
	Metadata     Metadata
	DeclaredType *Type
	Body         *BlockStatementNode
}

func (node *TypeDeclarationNode) Literal() string {
	out := node.DeclaredType.Literal()
	if node.Body != nil {
		out += " " + node.Body.Literal()
	}
	return out
}
func (node *TypeDeclarationNode) Statement()     {}
func (node *TypeDeclarationNode) ID() int        { return node.Id }
func (node *TypeDeclarationNode) Meta() Metadata { return node.Metadata }

// ---------------------------------------------------------------------
// Switch statements and patterns
// ---------------------------------------------------------------------

// SwitchPattern is the base interface for case patterns.
type SwitchPattern interface {
	Node
	Pattern()
}

// KeyPatternPair is one `key: pattern` entry of an object pattern.
type KeyPatternPair struct {
	Key     string
	Pattern SwitchPattern
}

// ObjectPatternNode matches on named parts: `{ key: pattern, .. }`.
type ObjectPatternNode struct {
	Pairs []KeyPatternPair
}

func (node *ObjectPatternNode) Literal() string {
	parts := make([]string, 0, len(node.Pairs))
	for _, p := range node.Pairs {
		if p.Key == "" {
			parts = append(parts, p.Pattern.Literal())
		} else {
			parts = append(parts, p.Key+": "+p.Pattern.Literal())
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (node *ObjectPatternNode) Pattern() {}

// ArrayPatternNode matches on positional parts: `[pattern, ..]`.
type ArrayPatternNode struct {
	Patterns []SwitchPattern
}

func (node *ArrayPatternNode) Literal() string {
	parts := make([]string, 0, len(node.Patterns))
	for _, p := range node.Patterns {
		parts = append(parts, p.Literal())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (node *ArrayPatternNode) Pattern() {}

// NumberPatternNode matches a numeric value exactly.
type NumberPatternNode struct {
	Number float64
}

func (node *NumberPatternNode) Literal() string { return fmt.Sprintf("%v", node.Number) }
func (node *NumberPatternNode) Pattern()        {}

// StringPatternNode matches a string value exactly.
type StringPatternNode struct {
	Str string
}

func (node *StringPatternNode) Literal() string { return fmt.Sprintf("%q", node.Str) }
func (node *StringPatternNode) Pattern()        {}

// VariablePatternNode matches anything and names it.
type VariablePatternNode struct {
	Name string
}

func (node *VariablePatternNode) Literal() string { return node.Name }
func (node *VariablePatternNode) Pattern()        {}

// UnderscorePatternNode is the wildcard `_`.
type UnderscorePatternNode struct{}

func (node *UnderscorePatternNode) Literal() string { return "_" }
func (node *UnderscorePatternNode) Pattern()        {}

// RestPatternNode is the rest marker `..`.
type RestPatternNode struct{}

func (node *RestPatternNode) Literal() string { return ".." }
func (node *RestPatternNode) Pattern()        {}

// CaseClause pairs a pattern with the statement it guards.
type CaseClause struct {
	Pattern SwitchPattern
	Body    StatementNode
}

// SwitchStatementNode represents `switch (expr) { case pattern: stmt ... }`.
type SwitchStatementNode struct {
	Id        int
	Metadata  Metadata
	Scrutinee ExpressionNode
	Cases     []CaseClause
}

func (node *SwitchStatementNode) Literal() string {
	var sb strings.Builder
	sb.WriteString("switch (" + node.Scrutinee.Literal() + ") { ")
	for _, c := range node.Cases {
		sb.WriteString("case " + c.Pattern.Literal() + ": " + c.Body.Literal() + " ")
	}
	sb.WriteString("}")
	return sb.String()
}
func (node *SwitchStatementNode) Statement()     {}
func (node *SwitchStatementNode) ID() int        { return node.Id }
func (node *SwitchStatementNode) Meta() Metadata { return node.Metadata }

// ---------------------------------------------------------------------
// File
// ---------------------------------------------------------------------

// ParsedFile is the file-level representation returned by the parser.
// It owns every AST node; the context tables reference nodes by id and
// do not own them.
type ParsedFile struct {
	FileName   string
	Statements []StatementNode
}

// Literal renders the whole file, one statement per line.
func (f *ParsedFile) Literal() string {
	var sb strings.Builder
	for _, s := range f.Statements {
		sb.WriteString(s.Literal())
		sb.WriteString("\n")
	}
	return sb.String()
}
