/*
File    : rmc/typecheck/typecheck.go
*/

/*
Package typecheck verifies type equality at every site that demands
it, with soundness already established and expression types inferred:

- call sites: each supplied argument equals the declared parameter type
- conditions: if and while conditions are booleans
- returns: every return (including those nested in if/block/while/
  switch arms) equals the enclosing function's return type
- bindings: an annotation and an inferable right-hand side must agree,
  and a binding with neither is an error

Type equality is structural: same kind, equal modifier lists, and
kind-specific equality - primitives by primitive, structs and enums by
name, functions by parameter-type list and return type.
*/
package typecheck

import (
	"fmt"

	"github.com/rm-lang/rmc/context"
	"github.com/rm-lang/rmc/diag"
	"github.com/rm-lang/rmc/parser"
)

// modifierEq compares one modifier pair. Two literally sized arrays
// must agree on the size; reference-sized and unsized arrays compare
// equal by kind alone.
func modifierEq(l, r parser.TypeModifier) bool {
	if l.Kind != r.Kind {
		return false
	}
	if l.Kind == parser.ARRAY_MODIFIER {
		if l.Array.LiterallySized && r.Array.LiterallySized &&
			l.Array.LiteralSize != r.Array.LiteralSize {
			return false
		}
	}
	return true
}

// fnTypeEq compares function types by parameter-type list and return
// type; parameter names do not participate.
func fnTypeEq(l, r *parser.Type) bool {
	if len(l.Params) != len(r.Params) {
		return false
	}
	if !TypeEq(l.ReturnType, r.ReturnType) {
		return false
	}
	for i := range l.Params {
		if !TypeEq(l.Params[i].Type, r.Params[i].Type) {
			return false
		}
	}
	return true
}

// TypeEq is the structural type equality of the language.
func TypeEq(l, r *parser.Type) bool {
	if l == nil || r == nil {
		return false
	}
	if l.Kind != r.Kind {
		return false
	}
	if len(l.Modifiers) != len(r.Modifiers) {
		return false
	}
	for i := range l.Modifiers {
		if !modifierEq(l.Modifiers[i], r.Modifiers[i]) {
			return false
		}
	}

	switch l.Kind {
	case parser.PRIMITIVE_TYPE:
		return l.Primitive == r.Primitive
	case parser.STRUCT_TYPE:
		return l.Name == r.Name
	case parser.ENUM_TYPE:
		return l.Name == r.Name
	case parser.FUNCTION_TYPE:
		return fnTypeEq(l, r)
	}

	return false
}

// isBoolean reports whether a type is the bool primitive.
func isBoolean(ty *parser.Type) bool {
	return ty != nil && ty.Kind == parser.PRIMITIVE_TYPE && ty.Primitive == parser.BOOL_PRIMITIVE
}

// showType renders a type for diagnostics.
func showType(ty *parser.Type) string {
	return ty.Literal()
}

// addError anchors a type error at a statement's metadata.
func addError(metadata parser.Metadata, message string, out *diag.Error) {
	diag.Add(metadata.Row, metadata.Col, metadata.File, out, message)
}

// mismatchMessage is the generic expected/actual rendering.
func mismatchMessage(expected, actual *parser.Type) string {
	return fmt.Sprintf("mismatch types; expected `%s` but got `%s`.", showType(expected), showType(actual))
}

// Check verifies the whole file; the first failure stops the stage.
func Check(file *parser.ParsedFile, ctx *context.Context) *diag.Error {
	outErr := &diag.Error{}

	for _, stmt := range file.Statements {
		decl, ok := stmt.(*parser.TypeDeclarationNode)
		if !ok || decl.DeclaredType.Kind != parser.FUNCTION_TYPE {
			continue
		}

		// Body statements are checked in source order; after each one,
		// the returns inside it are discovered by walking it including
		// nested if/block/while/switch arms.
		for _, inner := range decl.Body.Statements {
			if !checkStatement(inner, ctx, outErr) {
				return outErr
			}
			for _, ret := range allReturnStatements(inner) {
				if !checkReturnStatement(ret, decl.DeclaredType.ReturnType, ctx, outErr) {
					return outErr
				}
			}
		}
	}

	return outErr
}

// allReturnStatements collects every return reachable through nested
// control flow, in source order.
func allReturnStatements(s parser.StatementNode) []*parser.ReturnStatementNode {
	out := make([]*parser.ReturnStatementNode, 0)
	collectReturns(s, &out)
	return out
}

func collectReturns(s parser.StatementNode, out *[]*parser.ReturnStatementNode) {
	switch stmt := s.(type) {
	case *parser.ReturnStatementNode:
		*out = append(*out, stmt)
	case *parser.IfStatementNode:
		collectReturns(stmt.Success, out)
		if stmt.Else != nil {
			collectReturns(stmt.Else, out)
		}
	case *parser.BlockStatementNode:
		for _, inner := range stmt.Statements {
			collectReturns(inner, out)
		}
	case *parser.WhileStatementNode:
		collectReturns(stmt.Do, out)
	case *parser.SwitchStatementNode:
		for _, clause := range stmt.Cases {
			collectReturns(clause.Body, out)
		}
	}
}

// checkReturnStatement verifies one return against the enclosing
// function's return type. An unconstrained value (null, hole) passes.
func checkReturnStatement(ret *parser.ReturnStatementNode, expected *parser.Type, ctx *context.Context, outErr *diag.Error) bool {
	actual := ctx.TypeOf(ret.Value.ID())
	if actual == nil {
		return true
	}
	if !TypeEq(expected, actual) {
		addError(ret.Metadata, mismatchMessage(expected, actual), outErr)
		return false
	}
	return true
}

// checkStatement runs the per-statement checks and recurses through
// control flow.
func checkStatement(s parser.StatementNode, ctx *context.Context, outErr *diag.Error) bool {
	switch stmt := s.(type) {
	case *parser.BindingStatementNode:
		return checkBindingStatement(stmt, ctx, outErr)

	case *parser.IfStatementNode:
		if !isBoolean(ctx.TypeOf(stmt.Condition.ID())) {
			addError(stmt.Metadata, "the condition of an if statement must be a boolean.", outErr)
			return false
		}
		if !checkExpression(stmt.Condition, stmt.Meta(), ctx.ScopeAt(stmt.ID()), ctx, outErr) {
			return false
		}
		if !checkStatement(stmt.Success, ctx, outErr) {
			return false
		}
		if stmt.Else != nil && !checkStatement(stmt.Else, ctx, outErr) {
			return false
		}
		return true

	case *parser.WhileStatementNode:
		if !isBoolean(ctx.TypeOf(stmt.Condition.ID())) {
			addError(stmt.Metadata, "the condition of a while loop must be a boolean.", outErr)
			return false
		}
		if !checkExpression(stmt.Condition, stmt.Meta(), ctx.ScopeAt(stmt.ID()), ctx, outErr) {
			return false
		}
		return checkStatement(stmt.Do, ctx, outErr)

	case *parser.BlockStatementNode:
		for _, inner := range stmt.Statements {
			if !checkStatement(inner, ctx, outErr) {
				return false
			}
		}
		return true

	case *parser.ReturnStatementNode:
		return checkExpression(stmt.Value, stmt.Meta(), ctx.ScopeAt(stmt.ID()), ctx, outErr)

	case *parser.ActionStatementNode:
		return checkExpression(stmt.Expression, stmt.Meta(), ctx.ScopeAt(stmt.ID()), ctx, outErr)

	case *parser.SwitchStatementNode:
		if !checkExpression(stmt.Scrutinee, stmt.Meta(), ctx.ScopeAt(stmt.ID()), ctx, outErr) {
			return false
		}
		for _, clause := range stmt.Cases {
			if !checkStatement(clause.Body, ctx, outErr) {
				return false
			}
		}
		return true

	case *parser.BreakStatementNode, *parser.CBlockStatementNode:
		return true
	}

	return true
}

// checkBindingStatement verifies annotation/inference agreement. A
// binding with neither an annotation nor an inferable right-hand side
// cannot be lowered and is rejected.
func checkBindingStatement(stmt *parser.BindingStatementNode, ctx *context.Context, outErr *diag.Error) bool {
	inferred := ctx.TypeOf(stmt.Value.ID())

	if !stmt.HasAnnotation && inferred == nil {
		addError(stmt.Metadata,
			fmt.Sprintf("type annotations needed for `%s`.", stmt.Name),
			outErr)
		return false
	}

	if stmt.HasAnnotation && inferred != nil {
		annotation := resolveAnnotation(stmt.Annotation, ctx)
		if !TypeEq(annotation, inferred) {
			addError(stmt.Metadata, mismatchMessage(annotation, inferred), outErr)
			return false
		}
	}

	return checkExpression(stmt.Value, stmt.Meta(), ctx.ScopeAt(stmt.ID()), ctx, outErr)
}

// resolveAnnotation swaps a predefined struct/enum annotation for its
// full definition, so it compares equal to inferred types which are
// always fully resolved.
func resolveAnnotation(annotation *parser.Type, ctx *context.Context) *parser.Type {
	if annotation == nil || !annotation.Predefined {
		return annotation
	}
	switch annotation.Kind {
	case parser.STRUCT_TYPE:
		if found, ok := ctx.FindStructDefinition(annotation.Name); ok && len(annotation.Modifiers) == 0 {
			return found
		}
	case parser.ENUM_TYPE:
		if found, ok := ctx.FindEnumDefinition(annotation.Name); ok && len(annotation.Modifiers) == 0 {
			return found
		}
	}
	return annotation
}

// checkExpression walks an expression and verifies every call site in
// it: each argument's inferred type must equal the declared parameter
// type. Errors anchor at the enclosing statement's metadata.
func checkExpression(e parser.ExpressionNode, metadata parser.Metadata, scoped []context.ScopedVariable, ctx *context.Context, outErr *diag.Error) bool {
	switch expr := e.(type) {
	case *parser.UnaryExpressionNode:
		return checkExpression(expr.Operand, metadata, scoped, ctx, outErr)

	case *parser.GroupExpressionNode:
		return checkExpression(expr.Inner, metadata, scoped, ctx, outErr)

	case *parser.BinaryExpressionNode:
		return checkExpression(expr.Left, metadata, scoped, ctx, outErr) &&
			checkExpression(expr.Right, metadata, scoped, ctx, outErr)

	case *parser.MemberAccessExpressionNode:
		return checkExpression(expr.Accessed, metadata, scoped, ctx, outErr)

	case *parser.StructLiteralNode:
		for _, pair := range expr.Pairs {
			if !checkExpression(pair.Value, metadata, scoped, ctx, outErr) {
				return false
			}
		}
		return true

	case *parser.EnumLiteralNode:
		for _, pair := range expr.Pairs {
			if !checkExpression(pair.Value, metadata, scoped, ctx, outErr) {
				return false
			}
		}
		return true

	case *parser.CallExpressionNode:
		return checkCallExpression(expr, metadata, scoped, ctx, outErr)
	}

	return true
}

// checkCallExpression verifies one call site.
func checkCallExpression(call *parser.CallExpressionNode, metadata parser.Metadata, scoped []context.ScopedVariable, ctx *context.Context, outErr *diag.Error) bool {
	for _, arg := range call.Arguments {
		if !checkExpression(arg, metadata, scoped, ctx, outErr) {
			return false
		}
	}

	fn, ok := ctx.FindFunctionDefinition(call.FunctionName)
	if !ok {
		// A scoped variable of function type can be the callee.
		for i := len(scoped) - 1; i >= 0; i-- {
			variable := scoped[i]
			if variable.Name == call.FunctionName && variable.Type != nil && variable.Type.Kind == parser.FUNCTION_TYPE {
				fn = variable.Type
				ok = true
				break
			}
		}
	}
	if !ok {
		addError(metadata, fmt.Sprintf("the function `%s` does not exist.", call.FunctionName), outErr)
		return false
	}

	// The argument list is ordered as written; the parameter list is
	// ordered as declared. Inference already rejected surplus
	// arguments.
	for i, arg := range call.Arguments {
		if i >= len(fn.Params) {
			break
		}
		actual := ctx.TypeOf(arg.ID())
		if actual == nil {
			continue
		}
		expected := fn.Params[i].Type
		if !TypeEq(actual, expected) {
			name := call.FunctionName
			if fn.Name != "" {
				name = fn.Name
			}
			addError(metadata,
				fmt.Sprintf("mismatch types; expected `%s` for parameter '%s' but got `%s` (in function '%s').",
					showType(expected), fn.Params[i].Name, showType(actual), name),
				outErr)
			return false
		}
	}

	return true
}
