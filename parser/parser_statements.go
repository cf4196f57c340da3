/*
File    : rmc/parser/parser_statements.go
*/
package parser

import "github.com/rm-lang/rmc/lexer"

// parseStatement attempts the statement alternatives in a fixed order;
// the first success wins. Bindings are attempted before actions so
// that `x = 5;` declares x rather than parsing as a bare assignment
// expression (assignment still exists as an operator for member and
// dereference targets).
//
// A fatal error recorded by any alternative aborts the whole cascade.
func (par *Parser) parseStatement() (StatementNode, bool) {
	alternatives := []func() (StatementNode, bool){
		par.parseReturnStatement,
		par.parseBreakStatement,
		par.parseBindingStatement,
		par.parseActionStatement,
		par.parseIfStatement,
		par.parseBlockStatement,
		par.parseWhileStatement,
		par.parseSwitchStatement,
		par.parseCBlockStatement,
	}

	for _, alternative := range alternatives {
		var stmt StatementNode
		if par.try(func() bool {
			s, ok := alternative()
			stmt = s
			return ok
		}) {
			return stmt, true
		}
		if par.HasError() {
			return nil, false
		}
	}

	return nil, false
}

// parseReturnStatement parses `return expr;` or the bare `return;`
// (a void return).
func (par *Parser) parseReturnStatement() (StatementNode, bool) {
	metadata := par.meta()
	if _, ok := par.Toks.ReadType(lexer.RETURN_KEY); !ok {
		return nil, false
	}

	var value ExpressionNode
	expr, ok := par.parseExpression()
	if ok {
		value = expr
	} else {
		if par.HasError() {
			return nil, false
		}
		value = &VoidExpressionNode{Id: par.newId()}
	}

	if _, ok := par.Toks.ReadType(lexer.SEMICOLON_DELIM); !ok {
		par.fatal("a statement must end with a semicolon.")
		return nil, false
	}

	return &ReturnStatementNode{
		Id:       par.newId(),
		Metadata: metadata,
		Value:    value,
	}, true
}

// parseBreakStatement parses `break;`.
func (par *Parser) parseBreakStatement() (StatementNode, bool) {
	metadata := par.meta()
	if _, ok := par.Toks.ReadType(lexer.BREAK_KEY); !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.SEMICOLON_DELIM); !ok {
		par.fatal("a statement must end with a semicolon.")
		return nil, false
	}

	return &BreakStatementNode{Id: par.newId(), Metadata: metadata}, true
}

// parseBindingStatement parses `name[: type] = expr;`, optionally
// prefixed with `let`. A `:` with no type behind it, a missing `=`
// after an annotation, a bad right-hand side and a missing semicolon
// are all fatal; an identifier followed by neither `:` nor `=` is a
// neutral rejection so later alternatives can claim it.
func (par *Parser) parseBindingStatement() (StatementNode, bool) {
	metadata := par.meta()
	_, _ = par.Toks.ReadType(lexer.LET_KEY)

	name, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
	if !ok {
		return nil, false
	}

	var annotation *Type
	hasAnnotation := false
	if _, ok := par.Toks.ReadType(lexer.COLON_DELIM); ok {
		ty, ok := par.parseType(false, false)
		if !ok {
			par.fatal("a type annotation is required after a `:` in a binding statement.")
			return nil, false
		}
		annotation = ty
		hasAnnotation = true
	}

	if _, ok := par.Toks.ReadType(lexer.ASSIGN_OP); !ok {
		if hasAnnotation {
			par.fatal("expected a `=`")
		}
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.ASSIGN_OP); ok {
		// `==` - an equality expression, not a binding.
		if hasAnnotation {
			par.fatal("expected a `=`")
		}
		return nil, false
	}

	value, ok := par.parseExpression()
	if !ok {
		if !par.HasError() {
			par.fatal("the variable `" + name.Literal + "` must be bound to a valid expression.")
		}
		return nil, false
	}

	if _, ok := par.Toks.ReadType(lexer.SEMICOLON_DELIM); !ok {
		par.fatal("a statement must end with a semicolon.")
		return nil, false
	}

	return &BindingStatementNode{
		Id:            par.newId(),
		Metadata:      metadata,
		Name:          name.Literal,
		Annotation:    annotation,
		HasAnnotation: hasAnnotation,
		Value:         value,
	}, true
}

// parseActionStatement parses an expression statement: `expr;`.
func (par *Parser) parseActionStatement() (StatementNode, bool) {
	metadata := par.meta()
	expr, ok := par.parseExpression()
	if !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.SEMICOLON_DELIM); !ok {
		par.fatal("a statement must end with a semicolon.")
		return nil, false
	}

	return &ActionStatementNode{
		Id:         par.newId(),
		Metadata:   metadata,
		Expression: expr,
	}, true
}

// parseIfStatement parses `if (cond) block [else (if | block)]`.
func (par *Parser) parseIfStatement() (StatementNode, bool) {
	metadata := par.meta()
	if _, ok := par.Toks.ReadType(lexer.IF_KEY); !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.LEFT_PAREN); !ok {
		return nil, false
	}
	condition, ok := par.parseExpression()
	if !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.RIGHT_PAREN); !ok {
		par.fatal("expected a closing `)`")
		return nil, false
	}

	success, ok := par.parseBlockStatement()
	if !ok {
		return nil, false
	}

	var elseStatement StatementNode
	if _, ok := par.Toks.ReadType(lexer.ELSE_KEY); ok {
		var parsed StatementNode
		if par.try(func() bool {
			s, ok := par.parseIfStatement()
			parsed = s
			return ok
		}) {
			elseStatement = parsed
		} else if par.HasError() {
			return nil, false
		} else if par.try(func() bool {
			s, ok := par.parseBlockStatement()
			parsed = s
			return ok
		}) {
			elseStatement = parsed
		} else {
			return nil, false
		}
	}

	return &IfStatementNode{
		Id:        par.newId(),
		Metadata:  metadata,
		Condition: condition,
		Success:   success,
		Else:      elseStatement,
	}, true
}

// parseBlockStatement parses `{ stmt... }`. A statement failure inside
// the block, or an unterminated block, is fatal: the closing brace is
// required.
func (par *Parser) parseBlockStatement() (StatementNode, bool) {
	metadata := par.meta()
	if _, ok := par.Toks.ReadType(lexer.LEFT_BRACE); !ok {
		return nil, false
	}

	statements := make([]StatementNode, 0)
	for {
		if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACE); ok {
			break
		}
		if par.Toks.Exhausted() {
			par.fatal("expected a closing `}`")
			return nil, false
		}

		stmt, ok := par.parseStatement()
		if !ok {
			if !par.HasError() {
				par.fatal("expected a closing `}`")
			}
			return nil, false
		}
		statements = append(statements, stmt)
	}

	return &BlockStatementNode{
		Id:         par.newId(),
		Metadata:   metadata,
		Statements: statements,
	}, true
}

// parseWhileStatement parses `while (cond) block`.
func (par *Parser) parseWhileStatement() (StatementNode, bool) {
	metadata := par.meta()
	if _, ok := par.Toks.ReadType(lexer.WHILE_KEY); !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.LEFT_PAREN); !ok {
		return nil, false
	}
	condition, ok := par.parseExpression()
	if !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.RIGHT_PAREN); !ok {
		par.fatal("expected a closing `)`")
		return nil, false
	}

	do, ok := par.parseBlockStatement()
	if !ok {
		return nil, false
	}

	return &WhileStatementNode{
		Id:        par.newId(),
		Metadata:  metadata,
		Condition: condition,
		Do:        do,
	}, true
}

// parseCBlockStatement parses a raw C block: `#` followed by a string
// literal whose payload is emitted into the output verbatim.
func (par *Parser) parseCBlockStatement() (StatementNode, bool) {
	metadata := par.meta()
	if _, ok := par.Toks.ReadType(lexer.HASH_OP); !ok {
		return nil, false
	}
	raw, ok := par.Toks.ReadType(lexer.STR_LIT)
	if !ok {
		return nil, false
	}

	return &CBlockStatementNode{
		Id:       par.newId(),
		Metadata: metadata,
		RawC:     raw.Literal,
	}, true
}

// parseIncludeStatement parses a top-level include:
// `# include <name.ext>` (external) or `# include "file.h"` (local).
func (par *Parser) parseIncludeStatement() (StatementNode, bool) {
	metadata := par.meta()
	if _, ok := par.Toks.ReadType(lexer.HASH_OP); !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID); !ok {
		return nil, false
	}

	if _, ok := par.Toks.ReadType(lexer.LEFT_ARROW_OP); ok {
		base, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
		if !ok {
			return nil, false
		}
		if _, ok := par.Toks.ReadType(lexer.DOT_OP); !ok {
			return nil, false
		}
		ext, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
		if !ok {
			return nil, false
		}
		arrow, ok := par.Toks.ReadType(lexer.RIGHT_ARROW_OP)
		if !ok || arrow.Literal != ">" {
			return nil, false
		}

		return &IncludeStatementNode{
			Id:       par.newId(),
			Metadata: metadata,
			Include:  base.Literal + "." + ext.Literal,
			External: true,
		}, true
	}

	if raw, ok := par.Toks.ReadType(lexer.STR_LIT); ok {
		return &IncludeStatementNode{
			Id:       par.newId(),
			Metadata: metadata,
			Include:  raw.Literal,
			External: false,
		}, true
	}

	return nil, false
}

// parseTypeDeclaration parses a top-level type declaration: a named
// function type coupled with its body, or a struct/enum definition.
func (par *Parser) parseTypeDeclaration() (StatementNode, bool) {
	metadata := par.meta()
	declared, ok := par.parseType(true, true)
	if !ok {
		return nil, false
	}

	if declared.Kind != FUNCTION_TYPE {
		if declared.Kind == PRIMITIVE_TYPE {
			return nil, false
		}
		return &TypeDeclarationNode{
			Id:           par.newId(),
			Metadata:     metadata,
			DeclaredType: declared,
		}, true
	}

	body, ok := par.parseBlockStatement()
	if !ok {
		if !par.HasError() {
			par.fatal("expected a function body")
		}
		return nil, false
	}

	return &TypeDeclarationNode{
		Id:           par.newId(),
		Metadata:     metadata,
		DeclaredType: declared,
		Body:         body.(*BlockStatementNode),
	}, true
}
