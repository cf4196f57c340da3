/*
File    : rmc/context/context.go
*/

/*
Package context builds the derived tables the later stages work from:
the global context (function and data types in declaration order), the
per-statement scope table, and the per-expression type table.

The builder is a single pre-order walk of the statement tree. Scoped
variable lists are copied at every scope boundary - function body
entry, each block, each branch of if/while and each switch case - so
sibling branches never see each other's bindings. Appending a binding
to one list never mutates an ancestor list.

A binding contributes its (name, type) pair to sibling visibility only
after the binding statement itself: earlier siblings in the same block
do not see it, later siblings do.
*/
package context

import (
	"github.com/rm-lang/rmc/diag"
	"github.com/rm-lang/rmc/parser"
)

// ScopedVariable is one (name, type) pair visible at a statement.
type ScopedVariable struct {
	Name string
	Type *parser.Type
}

// GlobalContext holds the two ordered sequences populated from
// top-level declarations in source order, plus the statement-id to
// metadata mapping.
type GlobalContext struct {
	FnTypes   []*parser.Type          // Function types, declaration order
	DataTypes []*parser.Type          // Struct and enum types, declaration order
	Metadata  map[int]parser.Metadata // Statement id -> source metadata
}

// Context holds the scope and type tables keyed by the stable node
// ids the parser assigned. It references AST nodes; it does not own
// them.
type Context struct {
	Global          *GlobalContext
	StatementScopes map[int][]ScopedVariable // Statement id -> variables visible there
	ExpressionTypes map[int]*parser.Type     // Expression id -> inferred type
}

// ScopeAt returns the scoped-variable list recorded for a statement.
func (ctx *Context) ScopeAt(statementId int) []ScopedVariable {
	return ctx.StatementScopes[statementId]
}

// TypeOf returns the inferred type recorded for an expression, or nil
// when the expression is unconstrained (null, hole).
func (ctx *Context) TypeOf(expressionId int) *parser.Type {
	return ctx.ExpressionTypes[expressionId]
}

// copyScopedVariables clones a scoped-variable list. Every new scope
// works on its own copy.
func copyScopedVariables(scoped []ScopedVariable) []ScopedVariable {
	out := make([]ScopedVariable, len(scoped))
	copy(out, scoped)
	return out
}

// Contextualise walks a parsed file and produces its context tables.
// The returned diagnostic is non-empty when inference fails anywhere;
// the failing statement's metadata anchors the error.
func Contextualise(file *parser.ParsedFile) (*Context, *diag.Error) {
	ctx := &Context{
		Global: &GlobalContext{
			FnTypes:   make([]*parser.Type, 0),
			DataTypes: make([]*parser.Type, 0),
			Metadata:  make(map[int]parser.Metadata),
		},
		StatementScopes: make(map[int][]ScopedVariable),
		ExpressionTypes: make(map[int]*parser.Type),
	}
	outErr := &diag.Error{}

	// Global pass first: every top-level type declaration lands in the
	// appropriate list, in source order.
	for _, stmt := range file.Statements {
		decl, ok := stmt.(*parser.TypeDeclarationNode)
		if !ok {
			continue
		}
		switch decl.DeclaredType.Kind {
		case parser.STRUCT_TYPE, parser.ENUM_TYPE:
			ctx.Global.DataTypes = append(ctx.Global.DataTypes, decl.DeclaredType)
		case parser.FUNCTION_TYPE:
			ctx.Global.FnTypes = append(ctx.Global.FnTypes, decl.DeclaredType)
		}
	}

	scoped := make([]ScopedVariable, 0)
	for _, stmt := range file.Statements {
		if !ctx.contextualiseStatement(stmt, scoped, outErr) {
			return ctx, outErr
		}
	}

	return ctx, outErr
}

// addError anchors an inference failure at a statement's metadata.
func addError(metadata parser.Metadata, err error, out *diag.Error) {
	diag.Add(metadata.Row, metadata.Col, metadata.File, out, err.Error())
}

// bindingVariable is the (name, type) pair a binding contributes to
// the statements after it: the inferred type when inference produced
// one, else the annotation.
func bindingVariable(binding *parser.BindingStatementNode, inferred *parser.Type) ScopedVariable {
	ty := inferred
	if ty == nil && binding.HasAnnotation {
		ty = binding.Annotation
	}
	return ScopedVariable{Name: binding.Name, Type: ty}
}

// contextualiseStatement records the scope for one statement, infers
// the types of every expression embedded in it, and recurses into
// substatements with fresh scope copies.
func (ctx *Context) contextualiseStatement(s parser.StatementNode, scoped []ScopedVariable, outErr *diag.Error) bool {
	ctx.Global.Metadata[s.ID()] = s.Meta()
	ctx.StatementScopes[s.ID()] = copyScopedVariables(scoped)

	switch stmt := s.(type) {
	case *parser.BindingStatementNode:
		if _, err := ctx.inferExpressionType(stmt.Value, scoped); err != nil {
			addError(stmt.Metadata, err, outErr)
			return false
		}
		return true

	case *parser.ReturnStatementNode:
		if _, err := ctx.inferExpressionType(stmt.Value, scoped); err != nil {
			addError(stmt.Metadata, err, outErr)
			return false
		}
		return true

	case *parser.ActionStatementNode:
		if _, err := ctx.inferExpressionType(stmt.Expression, scoped); err != nil {
			addError(stmt.Metadata, err, outErr)
			return false
		}
		return true

	case *parser.TypeDeclarationNode:
		if stmt.DeclaredType.Kind != parser.FUNCTION_TYPE {
			return true
		}

		// Function body entry: copy the scope, then make each
		// parameter visible.
		fnScoped := copyScopedVariables(scoped)
		for _, param := range stmt.DeclaredType.Params {
			fnScoped = append(fnScoped, ScopedVariable{Name: param.Name, Type: param.Type})
		}

		ctx.StatementScopes[stmt.Body.ID()] = copyScopedVariables(fnScoped)
		ctx.Global.Metadata[stmt.Body.ID()] = stmt.Body.Meta()
		for _, inner := range stmt.Body.Statements {
			if !ctx.contextualiseStatement(inner, fnScoped, outErr) {
				return false
			}
			if binding, ok := inner.(*parser.BindingStatementNode); ok {
				fnScoped = append(fnScoped, bindingVariable(binding, ctx.TypeOf(binding.Value.ID())))
			}
		}
		ctx.StatementScopes[stmt.ID()] = copyScopedVariables(fnScoped)
		return true

	case *parser.BlockStatementNode:
		blockScoped := copyScopedVariables(scoped)
		for _, inner := range stmt.Statements {
			if !ctx.contextualiseStatement(inner, blockScoped, outErr) {
				return false
			}
			if binding, ok := inner.(*parser.BindingStatementNode); ok {
				blockScoped = append(blockScoped, bindingVariable(binding, ctx.TypeOf(binding.Value.ID())))
			}
		}
		return true

	case *parser.IfStatementNode:
		if _, err := ctx.inferExpressionType(stmt.Condition, scoped); err != nil {
			addError(stmt.Metadata, err, outErr)
			return false
		}
		if !ctx.contextualiseStatement(stmt.Success, copyScopedVariables(scoped), outErr) {
			return false
		}
		if stmt.Else != nil {
			if !ctx.contextualiseStatement(stmt.Else, copyScopedVariables(scoped), outErr) {
				return false
			}
		}
		return true

	case *parser.WhileStatementNode:
		if _, err := ctx.inferExpressionType(stmt.Condition, scoped); err != nil {
			addError(stmt.Metadata, err, outErr)
			return false
		}
		return ctx.contextualiseStatement(stmt.Do, copyScopedVariables(scoped), outErr)

	case *parser.SwitchStatementNode:
		if _, err := ctx.inferExpressionType(stmt.Scrutinee, scoped); err != nil {
			addError(stmt.Metadata, err, outErr)
			return false
		}
		for _, clause := range stmt.Cases {
			if !ctx.contextualiseStatement(clause.Body, copyScopedVariables(scoped), outErr) {
				return false
			}
		}
		return true

	case *parser.BreakStatementNode,
		*parser.CBlockStatementNode,
		*parser.IncludeStatementNode:
		return true
	}

	return true
}
