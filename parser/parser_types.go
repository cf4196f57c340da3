/*
File    : rmc/parser/parser_types.go
*/
package parser

import "github.com/rm-lang/rmc/lexer"

// parseTypeModifier attempts the four modifier alternatives in order:
// pointer `*`, nullable `?`, array `[..]`, mutable `mut`.
func (par *Parser) parseTypeModifier() (TypeModifier, bool) {
	if _, ok := par.Toks.ReadType(lexer.STAR_OP); ok {
		return TypeModifier{Kind: POINTER_MODIFIER}, true
	}
	if _, ok := par.Toks.ReadType(lexer.QUESTION_OP); ok {
		return TypeModifier{Kind: NULLABLE_MODIFIER}, true
	}
	if _, ok := par.Toks.ReadType(lexer.MUT_KEY); ok {
		return TypeModifier{Kind: MUTABLE_MODIFIER}, true
	}

	var modifier TypeModifier
	ok := par.try(func() bool {
		if _, ok := par.Toks.ReadType(lexer.LEFT_BRACKET); !ok {
			return false
		}

		array := ArrayModifier{}
		if tok, ok := par.Toks.ReadType(lexer.NUMERIC_LIT); ok {
			array.LiterallySized = true
			array.LiteralSize = int(tok.Numeric)
		} else if tok, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID); ok {
			array.ReferenceSized = true
			array.ReferenceName = tok.Literal
		}

		if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACKET); !ok {
			return false
		}

		modifier = TypeModifier{Kind: ARRAY_MODIFIER, Array: array}
		return true
	})

	return modifier, ok
}

// parseModifiers greedily parses the outside-in modifier list.
func (par *Parser) parseModifiers() []TypeModifier {
	modifiers := make([]TypeModifier, 0)
	for {
		modifier, ok := par.parseTypeModifier()
		if !ok {
			break
		}
		modifiers = append(modifiers, modifier)
	}
	return modifiers
}

// parseKeyTypePairs parses a comma-separated `name: type` list (struct
// fields, enum variants, function parameters). Field types are parsed
// with allowBody false, so struct/enum mentions inside them are always
// predefined references.
func (par *Parser) parseKeyTypePairs() ([]FieldPair, bool) {
	pairs := make([]FieldPair, 0)

	for {
		name, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
		if !ok {
			return nil, false
		}
		if _, ok := par.Toks.ReadType(lexer.COLON_DELIM); !ok {
			return nil, false
		}
		fieldType, ok := par.parseType(false, false)
		if !ok {
			return nil, false
		}

		pairs = append(pairs, FieldPair{Name: name.Literal, Type: fieldType})

		if _, ok := par.Toks.ReadType(lexer.COMMA_DELIM); !ok {
			break
		}
	}

	return pairs, true
}

// parseFunctionType parses `fn NAME? ( params ) -> type`. The fn
// keyword has already been consumed. Named is true at the top level,
// where function declarations must carry a name.
func (par *Parser) parseFunctionType(named bool, modifiers []TypeModifier) (*Type, bool) {
	name := ""
	if named {
		tok, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
		if !ok {
			return nil, false
		}
		name = tok.Literal
	}

	if _, ok := par.Toks.ReadType(lexer.LEFT_PAREN); !ok {
		return nil, false
	}

	params := make([]FieldPair, 0)
	if _, ok := par.Toks.ReadType(lexer.RIGHT_PAREN); !ok {
		parsed, ok := par.parseKeyTypePairs()
		if !ok {
			return nil, false
		}
		params = parsed
		if _, ok := par.Toks.ReadType(lexer.RIGHT_PAREN); !ok {
			return nil, false
		}
	}

	arrow, ok := par.Toks.ReadType(lexer.RIGHT_ARROW_OP)
	if !ok || arrow.Literal != "->" {
		return nil, false
	}

	returnType, ok := par.parseType(false, false)
	if !ok {
		return nil, false
	}

	return &Type{
		Kind:       FUNCTION_TYPE,
		Name:       name,
		Modifiers:  modifiers,
		Params:     params,
		ReturnType: returnType,
	}, true
}

// parseStructOrEnumType parses `struct NAME { fields }`, bare
// `struct NAME` (a predefined reference), or the enum equivalents.
// The struct/enum keyword has already been consumed. When allowBody is
// false the body form is not attempted, so the mention is always a
// reference.
func (par *Parser) parseStructOrEnumType(kind TypeKind, allowBody bool, modifiers []TypeModifier) (*Type, bool) {
	name, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
	if !ok {
		return nil, false
	}

	if allowBody {
		if _, ok := par.Toks.ReadType(lexer.LEFT_BRACE); ok {
			pairs, ok := par.parseKeyTypePairs()
			if !ok {
				return nil, false
			}
			if _, ok := par.Toks.ReadType(lexer.RIGHT_BRACE); !ok {
				return nil, false
			}
			return &Type{
				Kind:      kind,
				Name:      name.Literal,
				Modifiers: modifiers,
				Fields:    pairs,
			}, true
		}
	}

	return &Type{
		Kind:       kind,
		Name:       name.Literal,
		Modifiers:  modifiers,
		Predefined: true,
	}, true
}

// parsePrimitiveType parses one of the primitive keywords, which the
// lexer delivers as plain identifiers.
func (par *Parser) parsePrimitiveType(modifiers []TypeModifier) (*Type, bool) {
	var ty *Type
	ok := par.try(func() bool {
		tok, ok := par.Toks.ReadType(lexer.IDENTIFIER_ID)
		if !ok {
			return false
		}
		primitive, ok := PRIMITIVES_MAP[tok.Literal]
		if !ok {
			return false
		}
		ty = &Type{
			Kind:      PRIMITIVE_TYPE,
			Modifiers: modifiers,
			Primitive: primitive,
		}
		return true
	})
	return ty, ok
}

// parseType parses a full type: the greedy modifier list, then one of
// the four variant shapes.
//
// Parameters:
//
//	namedFn   - whether a function type at this position carries a name
//	allowBody - whether struct/enum mentions may carry a body here
func (par *Parser) parseType(namedFn bool, allowBody bool) (*Type, bool) {
	modifiers := par.parseModifiers()

	if tok, ok := par.Toks.Read(); ok {
		switch tok.Type {
		case lexer.FN_KEY:
			return par.parseFunctionType(namedFn, modifiers)
		case lexer.STRUCT_KEY:
			return par.parseStructOrEnumType(STRUCT_TYPE, allowBody, modifiers)
		case lexer.ENUM_KEY:
			return par.parseStructOrEnumType(ENUM_TYPE, allowBody, modifiers)
		default:
			par.Toks.SeekBack(1)
		}
	}

	return par.parsePrimitiveType(modifiers)
}
