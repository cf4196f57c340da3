/*
File    : rmc/parser/parser_expressions.go
*/
package parser

import "github.com/rm-lang/rmc/lexer"

// Binary operator precedence levels, lowest binding first. Member
// access and calls bind tighter than any of these and are handled by
// the postfix/primary productions.
const (
	LOWEST_PRECEDENCE = iota
	ASSIGN_PRECEDENCE
	LOGICAL_PRECEDENCE
	BITWISE_PRECEDENCE
	EQUALITY_PRECEDENCE
	COMPARISON_PRECEDENCE
	ADDITIVE_PRECEDENCE
	MULTIPLICATIVE_PRECEDENCE
)

// parseExpression parses a full expression at the lowest precedence.
func (par *Parser) parseExpression() (ExpressionNode, bool) {
	return par.parseBinaryExpression(LOWEST_PRECEDENCE)
}

// readBinaryOperator reads the binary operator under the cursor, if
// any, and returns its spelling and precedence. Doubled tokens (`||`,
// `&&`, `==`) are fused here; a lone `=` is assignment. The cursor is
// rewound when no binary operator is present.
//
// `>` arrives as a right-arrow token from the lexer; only the `>`
// spelling acts as an operator - a true `->` ends the expression.
func (par *Parser) readBinaryOperator() (BinaryOperator, int, bool) {
	mark := par.Toks.Mark()
	tok, ok := par.Toks.Read()
	if !ok {
		return "", 0, false
	}

	switch tok.Type {
	case lexer.PLUS_OP:
		return PLUS_BINARY, ADDITIVE_PRECEDENCE, true
	case lexer.MINUS_OP:
		return MINUS_BINARY, ADDITIVE_PRECEDENCE, true
	case lexer.STAR_OP:
		return MULTIPLY_BINARY, MULTIPLICATIVE_PRECEDENCE, true
	case lexer.PIPE_OP:
		if _, ok := par.Toks.ReadType(lexer.PIPE_OP); ok {
			return OR_BINARY, LOGICAL_PRECEDENCE, true
		}
		return BITWISE_OR_BINARY, BITWISE_PRECEDENCE, true
	case lexer.AMP_OP:
		if _, ok := par.Toks.ReadType(lexer.AMP_OP); ok {
			return AND_BINARY, LOGICAL_PRECEDENCE, true
		}
		return BITWISE_AND_BINARY, BITWISE_PRECEDENCE, true
	case lexer.RIGHT_ARROW_OP:
		if tok.Literal == ">" {
			return GREATER_BINARY, COMPARISON_PRECEDENCE, true
		}
	case lexer.LEFT_ARROW_OP:
		return LESS_BINARY, COMPARISON_PRECEDENCE, true
	case lexer.ASSIGN_OP:
		if _, ok := par.Toks.ReadType(lexer.ASSIGN_OP); ok {
			return EQUAL_BINARY, EQUALITY_PRECEDENCE, true
		}
		return ASSIGN_BINARY, ASSIGN_PRECEDENCE, true
	}

	par.Toks.Reset(mark)
	return "", 0, false
}

// parseBinaryExpression is the precedence climb. It parses a unary
// expression, then folds in operators whose precedence is at least
// minPrecedence. Operators are left-associative except assignment,
// which associates to the right.
func (par *Parser) parseBinaryExpression(minPrecedence int) (ExpressionNode, bool) {
	left, ok := par.parseUnaryExpression()
	if !ok {
		return nil, false
	}

	for {
		mark := par.Toks.Mark()
		op, precedence, ok := par.readBinaryOperator()
		if !ok || precedence < minPrecedence {
			par.Toks.Reset(mark)
			break
		}

		next := precedence + 1
		if op == ASSIGN_BINARY {
			next = precedence
		}

		right, ok := par.parseBinaryExpression(next)
		if !ok {
			par.Toks.Reset(mark)
			break
		}

		left = &BinaryExpressionNode{
			Id:       par.newId(),
			Operator: op,
			Left:     left,
			Right:    right,
		}
	}

	return left, true
}

// parseUnaryExpression parses prefix operators (`! * -`), which bind
// tighter than every binary operator but looser than member access.
func (par *Parser) parseUnaryExpression() (ExpressionNode, bool) {
	var operator UnaryOperator
	if _, ok := par.Toks.ReadType(lexer.BANG_OP); ok {
		operator = BANG_UNARY
	} else if _, ok := par.Toks.ReadType(lexer.STAR_OP); ok {
		operator = STAR_UNARY
	} else if _, ok := par.Toks.ReadType(lexer.MINUS_OP); ok {
		operator = MINUS_UNARY
	} else {
		return par.parsePostfixExpression()
	}

	operand, ok := par.parseUnaryExpression()
	if !ok {
		par.Toks.SeekBack(1)
		return nil, false
	}

	return &UnaryExpressionNode{
		Id:       par.newId(),
		Operator: operator,
		Operand:  operand,
	}, true
}

// parsePostfixExpression parses a primary expression followed by any
// number of member accesses: `a.b.c`, `f(x).y`.
func (par *Parser) parsePostfixExpression() (ExpressionNode, bool) {
	inner, ok := par.parsePrimaryExpression()
	if !ok {
		return nil, false
	}

	for {
		mark := par.Toks.Mark()
		if _, ok := par.Toks.ReadType(lexer.DOT_OP); !ok {
			break
		}
		member, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
		if !ok {
			par.Toks.Reset(mark)
			break
		}
		inner = &MemberAccessExpressionNode{
			Id:         par.newId(),
			Accessed:   inner,
			MemberName: member.Literal,
		}
	}

	return inner, true
}

// parsePrimaryExpression attempts, in order: a grouped expression, a
// function call, a literal.
func (par *Parser) parsePrimaryExpression() (ExpressionNode, bool) {
	if _, ok := par.Toks.ReadType(lexer.LEFT_PAREN); ok {
		inner, ok := par.parseExpression()
		if !ok {
			par.Toks.SeekBack(1)
			return nil, false
		}
		if _, ok := par.Toks.ReadType(lexer.RIGHT_PAREN); !ok {
			par.fatal("expected a closing `)`")
			return nil, false
		}
		return &GroupExpressionNode{Id: par.newId(), Inner: inner}, true
	}

	var call ExpressionNode
	if par.try(func() bool {
		c, ok := par.parseCallExpression()
		call = c
		return ok
	}) {
		return call, true
	}
	if par.HasError() {
		return nil, false
	}

	return par.parseLiteralExpression()
}

// parseCallExpression parses `name(arg, arg, ...)`.
func (par *Parser) parseCallExpression() (ExpressionNode, bool) {
	name, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
	if !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.LEFT_PAREN); !ok {
		return nil, false
	}

	arguments := make([]ExpressionNode, 0)
	if _, ok := par.Toks.ReadType(lexer.RIGHT_PAREN); !ok {
		for {
			arg, ok := par.parseExpression()
			if !ok {
				return nil, false
			}
			arguments = append(arguments, arg)
			if _, ok := par.Toks.ReadType(lexer.COMMA_DELIM); !ok {
				break
			}
		}
		if _, ok := par.Toks.ReadType(lexer.RIGHT_PAREN); !ok {
			return nil, false
		}
	}

	return &CallExpressionNode{
		Id:           par.newId(),
		FunctionName: name.Literal,
		Arguments:    arguments,
	}, true
}

// parseLiteralExpression attempts the literal alternatives in order:
// char, string, numeric, boolean, identifier (which also yields the
// hole `_`), struct/enum literal, null.
func (par *Parser) parseLiteralExpression() (ExpressionNode, bool) {
	if tok, ok := par.Toks.ReadType(lexer.CHAR_LIT); ok {
		return &CharLiteralNode{Id: par.newId(), Value: tok.Literal[0]}, true
	}
	if tok, ok := par.Toks.ReadType(lexer.STR_LIT); ok {
		return &StringLiteralNode{Id: par.newId(), Value: tok.Literal}, true
	}
	if tok, ok := par.Toks.ReadType(lexer.NUMERIC_LIT); ok {
		return &NumericLiteralNode{Id: par.newId(), Value: tok.Numeric}, true
	}
	if _, ok := par.Toks.ReadType(lexer.TRUE_KEY); ok {
		return &BooleanLiteralNode{Id: par.newId(), Value: true}, true
	}
	if _, ok := par.Toks.ReadType(lexer.FALSE_KEY); ok {
		return &BooleanLiteralNode{Id: par.newId(), Value: false}, true
	}
	if tok, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID); ok {
		if tok.Literal == "_" {
			return &HoleLiteralNode{Id: par.newId()}, true
		}
		return &NameLiteralNode{Id: par.newId(), Name: tok.Literal}, true
	}

	var structEnum ExpressionNode
	if par.try(func() bool {
		e, ok := par.parseStructEnumLiteral()
		structEnum = e
		return ok
	}) {
		return structEnum, true
	}
	if par.HasError() {
		return nil, false
	}

	if _, ok := par.Toks.ReadType(lexer.NULL_KEY); ok {
		return &NullLiteralNode{Id: par.newId()}, true
	}

	return nil, false
}

// parseStructEnumLiteral parses `struct Name { field = expr, ... }` or
// `enum Name { variant = expr }`.
func (par *Parser) parseStructEnumLiteral() (ExpressionNode, bool) {
	isStruct := false
	if _, ok := par.Toks.ReadType(lexer.STRUCT_KEY); ok {
		isStruct = true
	} else if _, ok := par.Toks.ReadType(lexer.ENUM_KEY); !ok {
		return nil, false
	}

	name, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
	if !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.LEFT_BRACE); !ok {
		return nil, false
	}

	pairs := make([]KeyExpression, 0)
	if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACE); !ok {
		for {
			key, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
			if !ok {
				return nil, false
			}
			if _, ok := par.Toks.ReadType(lexer.ASSIGN_OP); !ok {
				return nil, false
			}
			value, ok := par.parseExpression()
			if !ok {
				return nil, false
			}
			pairs = append(pairs, KeyExpression{Key: key.Literal, Value: value})
			if _, ok := par.Toks.ReadType(lexer.COMMA_DELIM); !ok {
				break
			}
		}
		if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACE); !ok {
			return nil, false
		}
	}

	if isStruct {
		return &StructLiteralNode{Id: par.newId(), Name: name.Literal, Pairs: pairs}, true
	}
	return &EnumLiteralNode{Id: par.newId(), Name: name.Literal, Pairs: pairs}, true
}
