/*
File    : rmc/parser/parser_patterns.go
*/
package parser

import "github.com/rm-lang/rmc/lexer"

// parseSwitchStatement parses
// `switch (expr) { case pattern: stmt ... }`.
func (par *Parser) parseSwitchStatement() (StatementNode, bool) {
	metadata := par.meta()
	if _, ok := par.Toks.ReadType(lexer.SWITCH_KEY); !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.LEFT_PAREN); !ok {
		return nil, false
	}
	scrutinee, ok := par.parseExpression()
	if !ok {
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.RIGHT_PAREN); !ok {
		par.fatal("expected a closing `)`")
		return nil, false
	}
	if _, ok := par.Toks.ReadType(lexer.LEFT_BRACE); !ok {
		return nil, false
	}

	cases := make([]CaseClause, 0)
	for {
		if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACE); ok {
			break
		}
		if par.Toks.Exhausted() {
			par.fatal("expected a closing `}`")
			return nil, false
		}

		clause, ok := par.parseCaseStatement()
		if !ok {
			if !par.HasError() {
				par.fatal("expected a closing `}`")
			}
			return nil, false
		}
		cases = append(cases, clause)
	}

	return &SwitchStatementNode{
		Id:        par.newId(),
		Metadata:  metadata,
		Scrutinee: scrutinee,
		Cases:     cases,
	}, true
}

// parseCaseStatement parses one `case pattern: stmt` clause.
func (par *Parser) parseCaseStatement() (CaseClause, bool) {
	if _, ok := par.Toks.ReadType(lexer.CASE_KEY); !ok {
		return CaseClause{}, false
	}
	pattern, ok := par.parseSwitchPattern()
	if !ok {
		return CaseClause{}, false
	}
	if _, ok := par.Toks.ReadType(lexer.COLON_DELIM); !ok {
		return CaseClause{}, false
	}
	body, ok := par.parseStatement()
	if !ok {
		return CaseClause{}, false
	}

	return CaseClause{Pattern: pattern, Body: body}, true
}

// parseSwitchPattern attempts the pattern alternatives in order:
// object, array, rest, number, string, variable/underscore.
func (par *Parser) parseSwitchPattern() (SwitchPattern, bool) {
	var pattern SwitchPattern

	alternatives := []func() (SwitchPattern, bool){
		par.parseObjectPattern,
		par.parseArrayPattern,
		par.parseRestPattern,
		par.parseNumberPattern,
		par.parseStringPattern,
		par.parseVariableOrUnderscorePattern,
	}

	for _, alternative := range alternatives {
		if par.try(func() bool {
			p, ok := alternative()
			pattern = p
			return ok
		}) {
			return pattern, true
		}
	}

	return nil, false
}

// parseObjectPattern parses `{ key: pattern, ..., .. }`. A bare `..`
// entry is the rest marker.
func (par *Parser) parseObjectPattern() (SwitchPattern, bool) {
	if _, ok := par.Toks.ReadType(lexer.LEFT_BRACE); !ok {
		return nil, false
	}

	pairs := make([]KeyPatternPair, 0)
	if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACE); !ok {
		for {
			if rest, ok := par.parseRestPattern(); ok {
				pairs = append(pairs, KeyPatternPair{Pattern: rest})
			} else {
				key, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
				if !ok {
					return nil, false
				}
				if _, ok := par.Toks.ReadType(lexer.COLON_DELIM); !ok {
					return nil, false
				}
				nested, ok := par.parseSwitchPattern()
				if !ok {
					return nil, false
				}
				pairs = append(pairs, KeyPatternPair{Key: key.Literal, Pattern: nested})
			}

			if _, ok := par.Toks.ReadType(lexer.COMMA_DELIM); !ok {
				break
			}
		}
		if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACE); !ok {
			return nil, false
		}
	}

	return &ObjectPatternNode{Pairs: pairs}, true
}

// parseArrayPattern parses `[pattern, pattern, ..]`.
func (par *Parser) parseArrayPattern() (SwitchPattern, bool) {
	if _, ok := par.Toks.ReadType(lexer.LEFT_BRACKET); !ok {
		return nil, false
	}

	patterns := make([]SwitchPattern, 0)
	if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACKET); !ok {
		for {
			nested, ok := par.parseSwitchPattern()
			if !ok {
				return nil, false
			}
			patterns = append(patterns, nested)
			if _, ok := par.Toks.ReadType(lexer.COMMA_DELIM); !ok {
				break
			}
		}
		if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACKET); !ok {
			return nil, false
		}
	}

	return &ArrayPatternNode{Patterns: patterns}, true
}

// parseRestPattern parses the rest marker `..`.
func (par *Parser) parseRestPattern() (SwitchPattern, bool) {
	var pattern SwitchPattern
	ok := par.try(func() bool {
		if _, ok := par.Toks.ReadType(lexer.DOT_OP); !ok {
			return false
		}
		if _, ok := par.Toks.ReadType(lexer.DOT_OP); !ok {
			return false
		}
		pattern = &RestPatternNode{}
		return true
	})
	return pattern, ok
}

// parseNumberPattern parses a numeric literal pattern.
func (par *Parser) parseNumberPattern() (SwitchPattern, bool) {
	tok, ok := par.Toks.ReadType(lexer.NUMERIC_LIT)
	if !ok {
		return nil, false
	}
	return &NumberPatternNode{Number: tok.Numeric}, true
}

// parseStringPattern parses a string literal pattern.
func (par *Parser) parseStringPattern() (SwitchPattern, bool) {
	tok, ok := par.Toks.ReadType(lexer.STR_LIT)
	if !ok {
		return nil, false
	}
	return &StringPatternNode{Str: tok.Literal}, true
}

// parseVariableOrUnderscorePattern parses an identifier pattern; the
// identifier `_` is the wildcard.
func (par *Parser) parseVariableOrUnderscorePattern() (SwitchPattern, bool) {
	tok, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
	if !ok {
		return nil, false
	}
	if tok.Literal == "_" {
		return &UnderscorePatternNode{}, true
	}
	return &VariablePatternNode{Name: tok.Literal}, true
}
