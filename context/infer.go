/*
File    : rmc/context/infer.go
*/
package context

import (
	"fmt"

	"github.com/rm-lang/rmc/parser"
)

// The type inferencer works bottom-up over expressions. Every
// intermediate result is recorded in the expression-type table, so the
// later stages (and in particular the member-access lowering, which
// needs the type of the left operand of every `.`) can look any
// subexpression up by id.
//
// Null and hole literals are unconstrained: they infer successfully
// but record no type.

// FindStructDefinition resolves a struct name against the global data
// types, in declaration order.
func (ctx *Context) FindStructDefinition(name string) (*parser.Type, bool) {
	for _, ty := range ctx.Global.DataTypes {
		if ty.Kind != parser.STRUCT_TYPE {
			continue
		}
		if ty.Name == name {
			return ty, true
		}
	}
	return nil, false
}

// FindEnumDefinition resolves an enum name against the global data
// types, in declaration order.
func (ctx *Context) FindEnumDefinition(name string) (*parser.Type, bool) {
	for _, ty := range ctx.Global.DataTypes {
		if ty.Kind != parser.ENUM_TYPE {
			continue
		}
		if ty.Name == name {
			return ty, true
		}
	}
	return nil, false
}

// FindFunctionDefinition resolves a function name against the global
// function types.
func (ctx *Context) FindFunctionDefinition(name string) (*parser.Type, bool) {
	for _, ty := range ctx.Global.FnTypes {
		if ty.Name == name {
			return ty, true
		}
	}
	return nil, false
}

// resolvePredefined swaps a predefined struct/enum reference for its
// full definition from the global table. Other types pass through.
func (ctx *Context) resolvePredefined(ty *parser.Type) *parser.Type {
	if ty == nil || !ty.Predefined {
		return ty
	}

	var found *parser.Type
	var ok bool
	switch ty.Kind {
	case parser.STRUCT_TYPE:
		found, ok = ctx.FindStructDefinition(ty.Name)
	case parser.ENUM_TYPE:
		found, ok = ctx.FindEnumDefinition(ty.Name)
	default:
		return ty
	}
	if !ok {
		return ty
	}

	// The reference's own modifiers survive; the body comes from the
	// definition.
	if len(ty.Modifiers) == 0 {
		return found
	}
	resolved := *found
	resolved.Modifiers = ty.Modifiers
	return &resolved
}

// GetFieldType looks a field name up in a field list, resolving
// predefined struct/enum references to their full definitions.
func (ctx *Context) GetFieldType(pairs []parser.FieldPair, fieldName string) (*parser.Type, bool) {
	for _, pair := range pairs {
		if pair.Name == fieldName {
			return ctx.resolvePredefined(pair.Type), true
		}
	}
	return nil, false
}

// inferLiteralType infers the type of a literal expression.
func (ctx *Context) inferLiteralType(e parser.ExpressionNode, scoped []ScopedVariable) (*parser.Type, error) {
	switch literal := e.(type) {
	case *parser.BooleanLiteralNode:
		return &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: parser.BOOL_PRIMITIVE}, nil

	case *parser.CharLiteralNode:
		return &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: parser.U8_PRIMITIVE}, nil

	case *parser.NumericLiteralNode:
		return &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: parser.I32_PRIMITIVE}, nil

	case *parser.StringLiteralNode:
		return &parser.Type{
			Kind:      parser.PRIMITIVE_TYPE,
			Primitive: parser.U8_PRIMITIVE,
			Modifiers: []parser.TypeModifier{{
				Kind: parser.ARRAY_MODIFIER,
				Array: parser.ArrayModifier{
					LiterallySized: true,
					LiteralSize:    len(literal.Value),
				},
			}},
		}, nil

	case *parser.StructLiteralNode:
		found, ok := ctx.FindStructDefinition(literal.Name)
		if !ok {
			return nil, fmt.Errorf("`struct %s` does not exist.", literal.Name)
		}
		for _, pair := range literal.Pairs {
			if _, err := ctx.inferExpressionType(pair.Value, scoped); err != nil {
				return nil, err
			}
		}
		return found, nil

	case *parser.EnumLiteralNode:
		found, ok := ctx.FindEnumDefinition(literal.Name)
		if !ok {
			return nil, fmt.Errorf("`enum %s` does not exist.", literal.Name)
		}
		for _, pair := range literal.Pairs {
			if _, err := ctx.inferExpressionType(pair.Value, scoped); err != nil {
				return nil, err
			}
		}
		return found, nil

	case *parser.NameLiteralNode:
		// Most-recent-wins: the scoped list is searched back to front.
		for i := len(scoped) - 1; i >= 0; i-- {
			if scoped[i].Name == literal.Name {
				return ctx.resolvePredefined(scoped[i].Type), nil
			}
		}
		for _, ty := range ctx.Global.DataTypes {
			if ty.Name == literal.Name {
				return ty, nil
			}
		}
		for _, ty := range ctx.Global.FnTypes {
			if ty.Name == literal.Name {
				return ty, nil
			}
		}
		return nil, fmt.Errorf("`%s` is not in the current scope.", literal.Name)

	case *parser.HoleLiteralNode, *parser.NullLiteralNode:
		// Unconstrained: infer successfully with no type.
		return nil, nil
	}

	return nil, fmt.Errorf("unhandled literal expression")
}

// inferCallType infers the type of a call. With N supplied arguments
// and M parameters: N>M fails, N==M yields the return type, N<M yields
// a function type of the remaining M-N parameters (partial application
// of the type).
func (ctx *Context) inferCallType(call *parser.CallExpressionNode, matched *parser.Type, scoped []ScopedVariable) (*parser.Type, error) {
	valueCount := len(call.Arguments)
	params := matched.Params

	if len(params) < valueCount {
		return nil, fmt.Errorf("too many values provided to `%s`", call.FunctionName)
	}

	if len(params) == valueCount {
		return ctx.resolvePredefined(matched.ReturnType), nil
	}

	remaining := make([]parser.FieldPair, 0, len(params)-valueCount)
	remaining = append(remaining, params[valueCount:]...)
	return &parser.Type{
		Kind:       parser.FUNCTION_TYPE,
		Params:     remaining,
		ReturnType: matched.ReturnType,
	}, nil
}

// inferExpressionType infers the type of an expression bottom-up and
// records every intermediate result in the expression-type table.
func (ctx *Context) inferExpressionType(e parser.ExpressionNode, scoped []ScopedVariable) (*parser.Type, error) {
	ty, err := ctx.inferExpressionTypeInner(e, scoped)
	if err != nil {
		return nil, err
	}
	if ty != nil {
		ctx.ExpressionTypes[e.ID()] = ty
	}
	return ty, nil
}

func (ctx *Context) inferExpressionTypeInner(e parser.ExpressionNode, scoped []ScopedVariable) (*parser.Type, error) {
	switch expr := e.(type) {
	case *parser.UnaryExpressionNode:
		return ctx.inferExpressionType(expr.Operand, scoped)

	case *parser.GroupExpressionNode:
		return ctx.inferExpressionType(expr.Inner, scoped)

	case *parser.BinaryExpressionNode:
		left, err := ctx.inferExpressionType(expr.Left, scoped)
		if err != nil {
			return nil, err
		}
		if _, err := ctx.inferExpressionType(expr.Right, scoped); err != nil {
			return nil, err
		}
		// Comparisons and equality yield booleans; every other binary
		// expression takes the type of its left operand. The type
		// checker owns any equality constraints.
		switch expr.Operator {
		case parser.GREATER_BINARY, parser.LESS_BINARY, parser.EQUAL_BINARY:
			return &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: parser.BOOL_PRIMITIVE}, nil
		}
		return left, nil

	case *parser.CallExpressionNode:
		for _, arg := range expr.Arguments {
			if _, err := ctx.inferExpressionType(arg, scoped); err != nil {
				return nil, err
			}
		}

		if fn, ok := ctx.FindFunctionDefinition(expr.FunctionName); ok {
			return ctx.inferCallType(expr, fn, scoped)
		}
		for i := len(scoped) - 1; i >= 0; i-- {
			variable := scoped[i]
			if variable.Type != nil && variable.Type.Kind == parser.FUNCTION_TYPE && variable.Name == expr.FunctionName {
				return ctx.inferCallType(expr, variable.Type, scoped)
			}
		}
		return nil, fmt.Errorf("the function `%s` does not exist.", expr.FunctionName)

	case *parser.MemberAccessExpressionNode:
		accessed, err := ctx.inferExpressionType(expr.Accessed, scoped)
		if err != nil {
			return nil, err
		}
		if accessed == nil || accessed.Kind != parser.STRUCT_TYPE {
			return nil, fmt.Errorf("can only access fields of structs.")
		}
		resolved := ctx.resolvePredefined(accessed)
		fieldType, ok := ctx.GetFieldType(resolved.Fields, expr.MemberName)
		if !ok {
			return nil, fmt.Errorf("field `%s` does not exist on `struct %s`.", expr.MemberName, resolved.Name)
		}
		return fieldType, nil

	case *parser.VoidExpressionNode:
		return &parser.Type{Kind: parser.PRIMITIVE_TYPE, Primitive: parser.VOID_PRIMITIVE}, nil
	}

	return ctx.inferLiteralType(e, scoped)
}
