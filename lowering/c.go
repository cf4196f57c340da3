/*
File    : rmc/lowering/c.go
*/

/*
Package lowering prints the verified AST into C: a header declaring
every data type and function prototype, and an implementation file
defining the function bodies.

The pass reads the AST and the context tables; it mutates neither, so
re-running it over an unchanged input yields byte-identical output.
Iteration over the global tables follows insertion order, which is
declaration order.
*/
package lowering

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rm-lang/rmc/context"
	"github.com/rm-lang/rmc/parser"
)

// HeaderFileName and ImplFileName are the two output artifacts.
const (
	HeaderFileName = "c_output.h"
	ImplFileName   = "c_output.c"
)

// Emitter prints types, expressions and statements into C. It holds
// the context tables so member accesses can consult the inferred type
// of their left operand.
type Emitter struct {
	Ctx *context.Context
}

// NewEmitter creates an emitter over the given context.
func NewEmitter(ctx *context.Context) *Emitter {
	return &Emitter{Ctx: ctx}
}

// writePrimitiveType prints the C keyword for a primitive.
func (em *Emitter) writePrimitiveType(w io.Writer, ty *parser.Type) {
	switch ty.Primitive {
	case parser.VOID_PRIMITIVE:
		fmt.Fprint(w, "void")
	case parser.BOOL_PRIMITIVE:
		fmt.Fprint(w, "char")
	case parser.I8_PRIMITIVE:
		fmt.Fprint(w, "char")
	case parser.U8_PRIMITIVE:
		fmt.Fprint(w, "unsigned char")
	case parser.I16_PRIMITIVE:
		fmt.Fprint(w, "int")
	case parser.U16_PRIMITIVE:
		fmt.Fprint(w, "unsigned int")
	case parser.I32_PRIMITIVE:
		fmt.Fprint(w, "int")
	case parser.U32_PRIMITIVE:
		fmt.Fprint(w, "unsigned int")
	case parser.I64_PRIMITIVE:
		fmt.Fprint(w, "long")
	case parser.U64_PRIMITIVE:
		fmt.Fprint(w, "unsigned long")
	case parser.USIZE_PRIMITIVE:
		fmt.Fprint(w, "size_t")
	case parser.F32_PRIMITIVE:
		fmt.Fprint(w, "float")
	case parser.F64_PRIMITIVE:
		fmt.Fprint(w, "double")
	}
}

// applyTypeModifier wraps a declared name in the C spelling of one
// modifier. Pointer wraps in `(*name)`, array in `(name[N])`, nullable
// passes through, and mutable is erased in C.
func applyTypeModifier(modifier parser.TypeModifier, input string) string {
	switch modifier.Kind {
	case parser.POINTER_MODIFIER:
		return "(*" + input + ")"
	case parser.NULLABLE_MODIFIER:
		return input
	case parser.ARRAY_MODIFIER:
		if modifier.Array.LiterallySized {
			return fmt.Sprintf("(%s[%d])", input, modifier.Array.LiteralSize)
		}
		return "(" + input + "[])"
	case parser.MUTABLE_MODIFIER:
		return input
	}
	return input
}

// applyTypeModifiers folds the modifier list over the declared name,
// outermost modifier first, so the outermost sits closest to the name:
// `*[]u8` on d becomes `((*d)[])`, a pointer to an array.
func applyTypeModifiers(modifiers []parser.TypeModifier, input string) string {
	output := input
	for _, modifier := range modifiers {
		output = applyTypeModifier(modifier, output)
	}
	return output
}

// writeType prints the leaf form of a type: the primitive keyword,
// `struct NAME`, `struct NAME_type` for enums, or a function
// signature. Modifiers are applied separately to the declared name.
func (em *Emitter) writeType(w io.Writer, ty *parser.Type) {
	switch ty.Kind {
	case parser.PRIMITIVE_TYPE:
		em.writePrimitiveType(w, ty)
	case parser.STRUCT_TYPE:
		fmt.Fprintf(w, "struct %s", ty.Name)
	case parser.ENUM_TYPE:
		fmt.Fprintf(w, "struct %s_type", ty.Name)
	case parser.FUNCTION_TYPE:
		em.writeFunctionType(w, ty)
	}
}

// writeStructType prints a full struct definition. Each field's type
// is written outside-in, with the modifiers applied to the field name.
func (em *Emitter) writeStructType(w io.Writer, ty *parser.Type) {
	fmt.Fprintf(w, "struct %s {", ty.Name)
	for _, field := range ty.Fields {
		em.writeType(w, field.Type)
		fmt.Fprintf(w, " %s;", applyTypeModifiers(field.Type.Modifiers, field.Name))
	}
	fmt.Fprint(w, "};")
}

// writeEnumType prints the tagged-union layout synthesised for a sum
// type: the kind enumeration, then a struct holding the kind and a
// union with one payload field per variant.
func (em *Emitter) writeEnumType(w io.Writer, ty *parser.Type) {
	fmt.Fprintf(w, "enum %s_kind {", ty.Name)
	for i, variant := range ty.Fields {
		fmt.Fprintf(w, "%s_kind_%s", ty.Name, variant.Name)
		if i < len(ty.Fields)-1 {
			fmt.Fprint(w, ",")
		}
	}
	fmt.Fprint(w, "}; ")

	fmt.Fprintf(w, "struct %s_type { enum %s_kind %s_kind; union {", ty.Name, ty.Name, ty.Name)
	for _, variant := range ty.Fields {
		em.writeType(w, variant.Type)
		unionName := ty.Name + "_type_" + variant.Name
		fmt.Fprintf(w, " %s;", applyTypeModifiers(variant.Type.Modifiers, unionName))
	}
	fmt.Fprint(w, "};};")
}

// writeFunctionType prints a function signature: return type (with its
// pointer modifiers as stars), the name, and the parameter list with
// modifiers applied to the parameter names.
func (em *Emitter) writeFunctionType(w io.Writer, ty *parser.Type) {
	em.writeType(w, ty.ReturnType)
	for _, modifier := range ty.ReturnType.Modifiers {
		if modifier.Kind == parser.POINTER_MODIFIER {
			fmt.Fprint(w, "*")
		}
	}
	fmt.Fprintf(w, " %s(", ty.Name)
	for i, param := range ty.Params {
		em.writeType(w, param.Type)
		fmt.Fprintf(w, " %s", applyTypeModifiers(param.Type.Modifiers, param.Name))
		if i < len(ty.Params)-1 {
			fmt.Fprint(w, ", ")
		}
	}
	fmt.Fprint(w, ")")
}

// writeExpression prints one expression.
func (em *Emitter) writeExpression(w io.Writer, e parser.ExpressionNode) {
	switch expr := e.(type) {
	case *parser.BooleanLiteralNode:
		if expr.Value {
			fmt.Fprint(w, "1")
		} else {
			fmt.Fprint(w, "0")
		}
	case *parser.CharLiteralNode:
		fmt.Fprintf(w, "'%c'", expr.Value)
	case *parser.StringLiteralNode:
		fmt.Fprintf(w, "\"%s\"", expr.Value)
	case *parser.NumericLiteralNode:
		// Numeric literals are truncated to int before printing.
		fmt.Fprintf(w, "%d", int(expr.Value))
	case *parser.NameLiteralNode:
		fmt.Fprint(w, expr.Name)
	case *parser.HoleLiteralNode:
		fmt.Fprint(w, "0")
	case *parser.NullLiteralNode:
		fmt.Fprint(w, "NULL")
	case *parser.StructLiteralNode:
		fmt.Fprintf(w, "(struct %s) {", expr.Name)
		for i, pair := range expr.Pairs {
			fmt.Fprintf(w, ".%s = ", pair.Key)
			em.writeExpression(w, pair.Value)
			if i+1 < len(expr.Pairs) {
				fmt.Fprint(w, ",")
			}
		}
		fmt.Fprint(w, "}")
	case *parser.EnumLiteralNode:
		em.writeEnumLiteral(w, expr)
	case *parser.UnaryExpressionNode:
		fmt.Fprint(w, string(expr.Operator))
		em.writeExpression(w, expr.Operand)
	case *parser.BinaryExpressionNode:
		em.writeExpression(w, expr.Left)
		fmt.Fprintf(w, " %s ", string(expr.Operator))
		em.writeExpression(w, expr.Right)
	case *parser.GroupExpressionNode:
		fmt.Fprint(w, "(")
		em.writeExpression(w, expr.Inner)
		fmt.Fprint(w, ")")
	case *parser.CallExpressionNode:
		fmt.Fprintf(w, "%s(", expr.FunctionName)
		for i, arg := range expr.Arguments {
			em.writeExpression(w, arg)
			if i < len(expr.Arguments)-1 {
				fmt.Fprint(w, ", ")
			}
		}
		fmt.Fprint(w, ")")
	case *parser.MemberAccessExpressionNode:
		em.writeExpression(w, expr.Accessed)
		if em.expressionIsPointer(expr.Accessed) {
			fmt.Fprint(w, "->")
		} else {
			fmt.Fprint(w, ".")
		}
		fmt.Fprint(w, expr.MemberName)
	case *parser.VoidExpressionNode:
		// nothing
	}
}

// writeEnumLiteral prints a tagged compound literal selecting one
// variant of the union layout.
func (em *Emitter) writeEnumLiteral(w io.Writer, expr *parser.EnumLiteralNode) {
	fmt.Fprintf(w, "(struct %s_type) {", expr.Name)
	for _, pair := range expr.Pairs {
		fmt.Fprintf(w, ".%s_kind = %s_kind_%s,", expr.Name, expr.Name, pair.Key)
		fmt.Fprintf(w, ".%s_type_%s = ", expr.Name, pair.Key)
		em.writeExpression(w, pair.Value)
	}
	fmt.Fprint(w, "}")
}

// expressionIsPointer reports whether an expression's inferred type
// carries a pointer modifier at the outermost position. It drives the
// `->` versus `.` choice for member access.
func (em *Emitter) expressionIsPointer(e parser.ExpressionNode) bool {
	ty := em.Ctx.TypeOf(e.ID())
	if ty == nil || len(ty.Modifiers) == 0 {
		return false
	}
	return ty.Modifiers[0].Kind == parser.POINTER_MODIFIER
}

// writeBindingStatement prints a C declaration: the inferred type when
// known, else the annotation, with modifiers applied to the name. A
// null right-hand side becomes the type's zero value.
func (em *Emitter) writeBindingStatement(w io.Writer, s *parser.BindingStatementNode) {
	ty := em.Ctx.TypeOf(s.Value.ID())
	if ty == nil {
		ty = s.Annotation
	}

	if ty != nil {
		em.writeType(w, ty)
		fmt.Fprintf(w, " %s = ", applyTypeModifiers(ty.Modifiers, s.Name))
	} else {
		fmt.Fprintf(w, " %s = ", s.Name)
	}

	if _, isNull := s.Value.(*parser.NullLiteralNode); isNull {
		em.writeTypeDefault(w, ty)
	} else {
		em.writeExpression(w, s.Value)
	}
	fmt.Fprint(w, ";")
}

// writeTypeDefault prints the zero value for a type: `{0}` for struct
// shapes, `0` otherwise.
func (em *Emitter) writeTypeDefault(w io.Writer, ty *parser.Type) {
	if ty != nil && (ty.Kind == parser.STRUCT_TYPE || ty.Kind == parser.ENUM_TYPE) && len(ty.Modifiers) == 0 {
		fmt.Fprint(w, "{0}")
		return
	}
	fmt.Fprint(w, "0")
}

// writeCasePredicate prints the guard derived from a case pattern.
// Numeric patterns compare the dereferenced scrutinee, string patterns
// use strcmp, and every other pattern guards unconditionally.
func (em *Emitter) writeCasePredicate(w io.Writer, p parser.SwitchPattern, switchName string) {
	switch pattern := p.(type) {
	case *parser.NumberPatternNode:
		fmt.Fprintf(w, "if (*%s == %d)", switchName, int(pattern.Number))
	case *parser.StringPatternNode:
		fmt.Fprintf(w, "if (strcmp(%s, \"%s\") == 0)", switchName, pattern.Str)
	default:
		fmt.Fprint(w, "if (1)")
	}
}

// writeSwitchStatement lowers a switch as a chain of if guards over a
// temporary scrutinee pointer. The whole lowering sits in its own
// block so the temporary cannot collide with a sibling switch.
func (em *Emitter) writeSwitchStatement(w io.Writer, s *parser.SwitchStatementNode) {
	fmt.Fprint(w, "{")
	scrutineeType := em.Ctx.TypeOf(s.Scrutinee.ID())
	if scrutineeType != nil {
		em.writeType(w, scrutineeType)
		fmt.Fprint(w, " *t = &")
		em.writeExpression(w, s.Scrutinee)
		fmt.Fprint(w, ";")
	}

	for _, clause := range s.Cases {
		em.writeCasePredicate(w, clause.Pattern, "t")
		fmt.Fprint(w, "{")
		em.writeStatement(w, clause.Body)
		fmt.Fprint(w, "}")
	}
	fmt.Fprint(w, "}")
}

// writeStatement prints one statement.
func (em *Emitter) writeStatement(w io.Writer, s parser.StatementNode) {
	switch stmt := s.(type) {
	case *parser.BindingStatementNode:
		em.writeBindingStatement(w, stmt)

	case *parser.IfStatementNode:
		fmt.Fprint(w, "if (")
		em.writeExpression(w, stmt.Condition)
		fmt.Fprint(w, ")")
		em.writeStatement(w, stmt.Success)
		if stmt.Else != nil {
			fmt.Fprint(w, " else ")
			em.writeStatement(w, stmt.Else)
		}

	case *parser.WhileStatementNode:
		fmt.Fprint(w, "while (")
		em.writeExpression(w, stmt.Condition)
		fmt.Fprint(w, ")")
		em.writeStatement(w, stmt.Do)

	case *parser.ReturnStatementNode:
		if _, isVoid := stmt.Value.(*parser.VoidExpressionNode); isVoid {
			fmt.Fprint(w, "return;")
			return
		}
		fmt.Fprint(w, "return ")
		em.writeExpression(w, stmt.Value)
		fmt.Fprint(w, ";")

	case *parser.BreakStatementNode:
		fmt.Fprint(w, "break;")

	case *parser.BlockStatementNode:
		fmt.Fprint(w, "{")
		for _, inner := range stmt.Statements {
			em.writeStatement(w, inner)
		}
		fmt.Fprint(w, "}")

	case *parser.ActionStatementNode:
		em.writeExpression(w, stmt.Expression)
		fmt.Fprint(w, ";")

	case *parser.SwitchStatementNode:
		em.writeSwitchStatement(w, stmt)

	case *parser.CBlockStatementNode:
		fmt.Fprintf(w, "%s\n", stmt.RawC)

	case *parser.IncludeStatementNode:
		if stmt.External {
			fmt.Fprintf(w, "#include <%s>\n", stmt.Include)
		} else {
			fmt.Fprintf(w, "#include \"%s\"\n", stmt.Include)
		}

	case *parser.TypeDeclarationNode:
		em.writeFunctionType(w, stmt.DeclaredType)
		em.writeStatement(w, stmt.Body)
	}
}

// GenerateHeader prints the header: the guard, the fixed includes,
// every data type in declaration order, then every function prototype.
func GenerateHeader(w io.Writer, ctx *context.Context) {
	em := NewEmitter(ctx)

	fmt.Fprint(w, "#ifndef C_OUTPUT_H\n#define C_OUTPUT_H\n")
	fmt.Fprint(w, "#include <stdio.h>\n")
	fmt.Fprint(w, "#include <stdlib.h>\n")
	fmt.Fprint(w, "#include <unistd.h>\n")

	for _, dataType := range ctx.Global.DataTypes {
		switch dataType.Kind {
		case parser.STRUCT_TYPE:
			em.writeStructType(w, dataType)
		case parser.ENUM_TYPE:
			em.writeEnumType(w, dataType)
		}
		fmt.Fprint(w, "\n")
	}

	for _, fnType := range ctx.Global.FnTypes {
		em.writeFunctionType(w, fnType)
		fmt.Fprint(w, ";\n")
	}

	fmt.Fprint(w, "#endif\n")
}

// GenerateImplementation prints the implementation: the header
// include, the source file's own includes, then every function body,
// all in source order.
func GenerateImplementation(w io.Writer, file *parser.ParsedFile, ctx *context.Context) {
	em := NewEmitter(ctx)

	fmt.Fprintf(w, "#include \"%s\"\n", HeaderFileName)

	for _, stmt := range file.Statements {
		if s, ok := stmt.(*parser.IncludeStatementNode); ok {
			em.writeStatement(w, s)
		}
	}
	for _, stmt := range file.Statements {
		if s, ok := stmt.(*parser.TypeDeclarationNode); ok && s.DeclaredType.Kind == parser.FUNCTION_TYPE {
			em.writeStatement(w, s)
			fmt.Fprint(w, "\n")
		}
	}
}

// Generate writes both artifacts under targetDir.
func Generate(file *parser.ParsedFile, ctx *context.Context, targetDir string) error {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	header, err := os.Create(filepath.Join(targetDir, HeaderFileName))
	if err != nil {
		return fmt.Errorf("creating header: %w", err)
	}
	GenerateHeader(header, ctx)
	if err := header.Close(); err != nil {
		return err
	}

	impl, err := os.Create(filepath.Join(targetDir, ImplFileName))
	if err != nil {
		return fmt.Errorf("creating implementation: %w", err)
	}
	GenerateImplementation(impl, file, ctx)
	return impl.Close()
}
