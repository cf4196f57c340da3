/*
File    : rmc/soundness/soundness.go
*/

/*
Package soundness verifies name and shape validity independently of
type equality: unique data type names, unique struct fields, the array
modifier sizing rules, binding-name collisions, identifier resolution,
and struct/enum literal field coverage. Everything that needs two
types to be compared is the type checker's job, not this package's.
*/
package soundness

import (
	"fmt"

	"github.com/rm-lang/rmc/context"
	"github.com/rm-lang/rmc/diag"
	"github.com/rm-lang/rmc/parser"
)

// addError anchors a soundness failure at a statement's metadata.
func addError(metadata parser.Metadata, message string, out *diag.Error) {
	diag.Add(metadata.Row, metadata.Col, metadata.File, out, message)
}

// Check verifies the whole file. It walks top-level declarations in
// source order; the first failure stops the stage.
func Check(file *parser.ParsedFile, ctx *context.Context) *diag.Error {
	outErr := &diag.Error{}

	for _, stmt := range file.Statements {
		decl, ok := stmt.(*parser.TypeDeclarationNode)
		if !ok {
			continue
		}

		switch decl.DeclaredType.Kind {
		case parser.FUNCTION_TYPE:
			for _, inner := range decl.Body.Statements {
				if !checkStatement(inner, ctx, outErr) {
					return outErr
				}
			}
		case parser.STRUCT_TYPE, parser.ENUM_TYPE:
			if err := checkDataType(decl.DeclaredType, ctx); err != nil {
				addError(decl.Metadata, err.Error(), outErr)
				return outErr
			}
		}
	}

	return outErr
}

// checkDataType runs the shape rules shared by structs and enums:
// a unique name in the global table, unique field names, and the
// array modifier invariants on every field.
func checkDataType(ty *parser.Type, ctx *context.Context) error {
	kindWord := "struct"
	if ty.Kind == parser.ENUM_TYPE {
		kindWord = "enum"
	}

	count := 0
	for _, other := range ctx.Global.DataTypes {
		if other.Name == ty.Name {
			count++
			if count > 1 {
				return fmt.Errorf("`%s %s` already exists.", kindWord, ty.Name)
			}
		}
	}

	visited := make(map[string]bool)
	for _, field := range ty.Fields {
		if visited[field.Name] {
			return fmt.Errorf("field `%s` already exists on %s.", field.Name, kindWord)
		}
		visited[field.Name] = true
	}

	for _, field := range ty.Fields {
		if err := checkArrayModifiers(field, ty.Fields); err != nil {
			return err
		}
	}

	return nil
}

// checkArrayModifiers enforces the three legal array states on one
// field: a literal size; a reference size resolving to a sibling field
// of type usize; or unsized. The last two must each be immediately
// preceded (outside-in) by a pointer modifier.
func checkArrayModifiers(field parser.FieldPair, siblings []parser.FieldPair) error {
	modifiers := field.Type.Modifiers
	for m, modifier := range modifiers {
		if modifier.Kind != parser.ARRAY_MODIFIER {
			continue
		}

		if modifier.Array.LiterallySized {
			continue
		}

		if modifier.Array.ReferenceSized {
			refName := modifier.Array.ReferenceName
			found := false
			for _, sibling := range siblings {
				if sibling.Name != refName {
					continue
				}
				if sibling.Type.Kind == parser.PRIMITIVE_TYPE && sibling.Type.Primitive == parser.USIZE_PRIMITIVE {
					found = true
				} else {
					return fmt.Errorf("`%s` must be bound to a field of type `usize`", refName)
				}
			}
			if !found {
				return fmt.Errorf("`%s` is unbounded within `%s`", refName, field.Name)
			}
			// A runtime size has no in-place C layout; the array must
			// sit behind a pointer just like the unsized form.
			if m >= 1 && modifiers[m-1].Kind == parser.POINTER_MODIFIER {
				continue
			}
			return fmt.Errorf("`%s` must have a pointer modifier", field.Name)
		}

		// Unsized: the modifier just outside must be a pointer.
		if m >= 1 && modifiers[m-1].Kind == parser.POINTER_MODIFIER {
			continue
		}
		return fmt.Errorf("`%s` must have a pointer modifier", field.Name)
	}

	return nil
}

// checkStatement dispatches on statement kind, recursing through
// control flow. The scope each statement was recorded with drives the
// name checks.
func checkStatement(s parser.StatementNode, ctx *context.Context, outErr *diag.Error) bool {
	switch stmt := s.(type) {
	case *parser.BindingStatementNode:
		return checkBindingStatement(stmt, ctx, outErr)

	case *parser.ReturnStatementNode:
		if err := checkExpression(stmt.Value, ctx.ScopeAt(stmt.ID()), ctx); err != nil {
			addError(stmt.Metadata, err.Error(), outErr)
			return false
		}
		return true

	case *parser.ActionStatementNode:
		if err := checkExpression(stmt.Expression, ctx.ScopeAt(stmt.ID()), ctx); err != nil {
			addError(stmt.Metadata, err.Error(), outErr)
			return false
		}
		return true

	case *parser.IfStatementNode:
		if err := checkExpression(stmt.Condition, ctx.ScopeAt(stmt.ID()), ctx); err != nil {
			addError(stmt.Metadata, err.Error(), outErr)
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
		if err := checkExpression(stmt.Condition, ctx.ScopeAt(stmt.ID()), ctx); err != nil {
			addError(stmt.Metadata, err.Error(), outErr)
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

	case *parser.SwitchStatementNode:
		if err := checkExpression(stmt.Scrutinee, ctx.ScopeAt(stmt.ID()), ctx); err != nil {
			addError(stmt.Metadata, err.Error(), outErr)
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

// checkBindingStatement verifies the binding name is fresh in its
// scope, does not shadow a global function, and binds a sound
// expression.
func checkBindingStatement(stmt *parser.BindingStatementNode, ctx *context.Context, outErr *diag.Error) bool {
	scoped := ctx.ScopeAt(stmt.ID())

	for _, variable := range scoped {
		if variable.Name == stmt.Name {
			addError(stmt.Metadata,
				fmt.Sprintf("the binding name `%s` is already defined in this scope.", stmt.Name),
				outErr)
			return false
		}
	}

	for _, fn := range ctx.Global.FnTypes {
		if fn.Name == stmt.Name {
			addError(stmt.Metadata,
				fmt.Sprintf("the binding name `%s` conflicts with a function in this scope.", stmt.Name),
				outErr)
			return false
		}
	}

	if err := checkExpression(stmt.Value, scoped, ctx); err != nil {
		addError(stmt.Metadata, err.Error(), outErr)
		return false
	}

	return true
}

// checkExpression verifies every identifier resolves and every
// struct/enum literal names a known type and covers its required
// fields exactly once.
func checkExpression(e parser.ExpressionNode, scoped []context.ScopedVariable, ctx *context.Context) error {
	switch expr := e.(type) {
	case *parser.UnaryExpressionNode:
		return checkExpression(expr.Operand, scoped, ctx)

	case *parser.GroupExpressionNode:
		return checkExpression(expr.Inner, scoped, ctx)

	case *parser.BinaryExpressionNode:
		if err := checkExpression(expr.Left, scoped, ctx); err != nil {
			return err
		}
		return checkExpression(expr.Right, scoped, ctx)

	case *parser.CallExpressionNode:
		for _, arg := range expr.Arguments {
			if err := checkExpression(arg, scoped, ctx); err != nil {
				return err
			}
		}
		return nil

	case *parser.MemberAccessExpressionNode:
		return checkExpression(expr.Accessed, scoped, ctx)

	case *parser.NameLiteralNode:
		for _, variable := range scoped {
			if variable.Name == expr.Name {
				return nil
			}
		}
		for _, fn := range ctx.Global.FnTypes {
			if fn.Name == expr.Name {
				return nil
			}
		}
		return fmt.Errorf("`%s` is not in the current scope.", expr.Name)

	case *parser.StructLiteralNode:
		return checkStructEnumLiteral(expr.Name, expr.Pairs, false, scoped, ctx)

	case *parser.EnumLiteralNode:
		return checkStructEnumLiteral(expr.Name, expr.Pairs, true, scoped, ctx)
	}

	// booleans, chars, strings, numerics, holes, nulls, void
	return nil
}

// checkStructEnumLiteral verifies a struct literal covers every
// declared field exactly once (an enum literal constructs exactly one
// variant), with sound field values.
func checkStructEnumLiteral(name string, pairs []parser.KeyExpression, isEnum bool, scoped []context.ScopedVariable, ctx *context.Context) error {
	for _, dataType := range ctx.Global.DataTypes {
		if dataType.Name != name {
			continue
		}

		declared := dataType.Fields
		if len(pairs) > len(declared) {
			return fmt.Errorf("too many fields provided.")
		}

		if isEnum {
			// A sum is one variant at a time.
			if len(pairs) != 1 {
				return fmt.Errorf("an enum literal must construct exactly one variant.")
			}
			for _, variant := range declared {
				if variant.Name == pairs[0].Key {
					return checkExpression(pairs[0].Value, scoped, ctx)
				}
			}
			return fmt.Errorf("variant `%s` does not exist on `enum %s`.", pairs[0].Key, name)
		}

		for _, field := range declared {
			found := false
			for _, pair := range pairs {
				if pair.Key != field.Name {
					continue
				}
				found = true
				if err := checkExpression(pair.Value, scoped, ctx); err != nil {
					return err
				}
				break
			}
			if !found {
				return fmt.Errorf("required field `%s` is missing.", field.Name)
			}
		}

		return nil
	}

	if isEnum {
		return fmt.Errorf("`enum %s` does not exist.", name)
	}
	return fmt.Errorf("`struct %s` does not exist.", name)
}
