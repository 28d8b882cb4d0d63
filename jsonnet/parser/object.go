// Copyright 2026 The JLS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"github.com/jsonnet-lang/jls/jsonnet/ast"
	"github.com/jsonnet-lang/jls/jsonnet/errors"
	"github.com/jsonnet-lang/jls/jsonnet/token"
)

// parseObjectOrComprehension parses an object body (the current token
// must be `{`) and returns either an *ast.Object or an *ast.ObjectComp.
func (p *parser) parseObjectOrComprehension() (ast.Node, *errors.StaticError) {
	begin := p.peek().Loc
	p.advance() // '{'

	var fields []*ast.ObjectField
	trailingComma := false
	heading := p.takeHeadingComments()

	for {
		if p.isKind(token.BraceR) {
			break
		}
		if p.peek().Kind == token.For {
			return p.finishObjectComprehension(begin, fields)
		}

		field, err := p.parseObjectField(heading)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		p.best = ast.NewObject(field.Loc, fields, false)

		p.skipComments() // trailing pre-comma comments: discarded

		if !p.isKind(token.Comma) {
			if !p.isKind(token.BraceR) && p.peek().Kind != token.For {
				return nil, p.errf(p.peek().Loc, "Expected a comma before next field")
			}
			if p.peek().Kind == token.For {
				return p.finishObjectComprehension(begin, fields)
			}
			break
		}
		p.advance() // ','
		heading = p.takeHeadingComments()

		if p.isKind(token.BraceR) {
			trailingComma = true
			break
		}
		if p.peek().Kind == token.For {
			return p.finishObjectComprehension(begin, fields)
		}
	}

	if err := p.checkDuplicateFields(fields); err != nil {
		return nil, err
	}

	closeTok, err := p.expect(token.BraceR)
	if err != nil {
		return nil, err
	}
	n := ast.NewObject(token.Span(begin, closeTok.Loc), fields, trailingComma)
	p.best = n
	return n, nil
}

// checkDuplicateFields rejects two fields or two object-locals sharing
// a statically known name (e.g. `{foo: 1, foo: 2}`). Computed `[expr]`
// keys are never checked, since their names are not known until
// evaluation.
func (p *parser) checkDuplicateFields(fields []*ast.ObjectField) *errors.StaticError {
	seenField := map[string]bool{}
	seenLocal := map[string]bool{}
	for _, f := range fields {
		if f.Kind == ast.ObjectLocal {
			if seenLocal[f.Id.Name] {
				return p.errf(f.Id.Loc(), "Duplicate local var: %s", f.Id.Name)
			}
			seenLocal[f.Id.Name] = true
			continue
		}
		if name, ok := f.Name(); ok {
			if seenField[name] {
				nameLoc := f.Loc
				switch f.Kind {
				case ast.ObjectFieldID:
					nameLoc = f.Id.Loc()
				case ast.ObjectFieldStr:
					nameLoc = f.Expr1.Loc()
				}
				return p.errf(nameLoc, "Duplicate field: %s", name)
			}
			seenField[name] = true
		}
	}
	return nil
}

// parseObject parses an object body that must be a plain object, not a
// comprehension, for use as the right-hand side of the `e {...}`
// brace-apply sugar.
func (p *parser) parseObject() (*ast.Object, *errors.StaticError) {
	n, err := p.parseObjectOrComprehension()
	if err != nil {
		return nil, err
	}
	obj, ok := n.(*ast.Object)
	if !ok {
		return nil, p.errf(n.Loc(), "Expected token %s but got %s", token.BraceR, p.peek())
	}
	return obj, nil
}

// finishObjectComprehension validates the fields accumulated so far
// against the object-comprehension rules (exactly one non-local,
// non-assert field, unhidden and without `+:` sugar), then parses the
// trailing compSpecs and closing brace.
func (p *parser) finishObjectComprehension(begin token.LocationRange, fields []*ast.ObjectField) (ast.Node, *errors.StaticError) {
	var locals []*ast.LocalBind
	var nonLocal []*ast.ObjectField
	for _, f := range fields {
		switch f.Kind {
		case ast.ObjectAssert:
			return nil, p.errf(f.Loc, "Object comprehension cannot have asserts.")
		case ast.ObjectLocal:
			locals = append(locals, ast.NewLocalBind(f.Loc, f.Id, f.Expr2, f.MethodSugar, f.Params, f.TrailingComma))
		default:
			nonLocal = append(nonLocal, f)
		}
	}
	if len(nonLocal) != 1 {
		return nil, p.errf(p.peek().Loc, "Object comprehension can only have one field.")
	}
	field := nonLocal[0]
	if field.Hide != ast.ObjectFieldInherit {
		return nil, p.errf(field.Loc, "Object comprehensions cannot have hidden fields.")
	}
	if field.Kind != ast.ObjectFieldExpr || field.PlusSugar {
		return nil, p.errf(field.Loc, "Object comprehensions can only have [e] fields.")
	}

	specs, err := p.parseCompSpecs(token.BraceR)
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expect(token.BraceR)
	if err != nil {
		return nil, err
	}
	n := ast.NewObjectComp(token.Span(begin, closeTok.Loc), locals, field, specs)
	p.best = n
	return n, nil
}

// parseCompSpecs parses one or more `for id in expr` / `if expr`
// clauses, as used by both array and object comprehensions. end names
// the token that is expected to terminate the comprehension, for the
// "Expected for, if or %s after for clause, got: %s" error.
func (p *parser) parseCompSpecs(end token.Kind) ([]ast.CompSpec, *errors.StaticError) {
	var specs []ast.CompSpec

	forTok, err := p.expect(token.For)
	if err != nil {
		return nil, err
	}
	idTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.In); err != nil {
		return nil, err
	}
	expr, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}
	id := ast.NewIdentifier(idTok.Loc, idTok.Data)
	specs = append(specs, ast.CompSpec{
		Loc:     token.Span(forTok.Loc, expr.Loc()),
		Kind:    ast.CompFor,
		VarName: idTok.Data,
		VarId:   id,
		Expr:    expr,
	})

	for {
		switch p.peek().Kind {
		case token.For:
			forTok := p.advance()
			idTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.In); err != nil {
				return nil, err
			}
			expr, err := p.parse(precMax)
			if err != nil {
				return nil, err
			}
			id := ast.NewIdentifier(idTok.Loc, idTok.Data)
			specs = append(specs, ast.CompSpec{
				Loc:     token.Span(forTok.Loc, expr.Loc()),
				Kind:    ast.CompFor,
				VarName: idTok.Data,
				VarId:   id,
				Expr:    expr,
			})
		case token.If:
			ifTok := p.advance()
			expr, err := p.parse(precMax)
			if err != nil {
				return nil, err
			}
			specs = append(specs, ast.CompSpec{
				Loc:  token.Span(ifTok.Loc, expr.Loc()),
				Kind: ast.CompIf,
				Expr: expr,
			})
		case end:
			return specs, nil
		default:
			return nil, p.errf(p.peek().Loc, "Expected for, if or %s after for clause, got: %s", end, p.peek())
		}
	}
}

// parseObjectField parses one field/local/assert entry of an object
// body: a local bind, an assert, or a field in one of its three label
// forms (plain identifier, string, or computed `[expr]`).
func (p *parser) parseObjectField(heading []*ast.Comment) (*ast.ObjectField, *errors.StaticError) {
	t := p.peek()

	switch t.Kind {
	case token.Local:
		p.advance()
		nameTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		id := ast.NewIdentifier(nameTok.Loc, nameTok.Data)

		var params []*ast.FunctionParam
		trailingComma := false
		methodSugar := false
		if p.isKind(token.ParenL) {
			methodSugar = true
			p.advance()
			params, trailingComma, err = p.parseParams()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expectOperator("="); err != nil {
			return nil, err
		}
		body, err := p.parse(precMax)
		if err != nil {
			return nil, err
		}
		return &ast.ObjectField{
			Loc:             token.Span(t.Loc, body.Loc()),
			Kind:            ast.ObjectLocal,
			Hide:            ast.ObjectFieldInherit,
			MethodSugar:     methodSugar,
			Id:              id,
			Params:          params,
			TrailingComma:   trailingComma,
			Expr2:           body,
			HeadingComments: heading,
		}, nil

	case token.Assert:
		p.advance()
		cond, err := p.parse(precMax)
		if err != nil {
			return nil, err
		}
		var msg ast.Node
		if p.isOperator(":") {
			p.advance()
			msg, err = p.parse(precMax)
			if err != nil {
				return nil, err
			}
		}
		end := cond.Loc()
		if msg != nil {
			end = msg.Loc()
		}
		return &ast.ObjectField{
			Loc:             token.Span(t.Loc, end),
			Kind:            ast.ObjectAssert,
			Hide:            ast.ObjectFieldInherit,
			Expr2:           cond,
			Expr3:           msg,
			HeadingComments: heading,
		}, nil

	case token.Ident:
		return p.parseIDOrMethodField(t, heading)

	case token.StringSingle, token.StringDouble, token.StringBlock:
		return p.parseStrOrMethodField(t, heading)

	case token.BracketL:
		return p.parseExprField(t, heading)
	}

	return nil, p.errf(t.Loc, "Expected token %s but got %s", token.Ident, t)
}

func (p *parser) parseIDOrMethodField(t token.Token, heading []*ast.Comment) (*ast.ObjectField, *errors.StaticError) {
	p.advance()
	id := ast.NewIdentifier(t.Loc, t.Data)

	var params []*ast.FunctionParam
	trailingComma := false
	methodSugar := false
	if p.isKind(token.ParenL) {
		methodSugar = true
		p.advance()
		var err *errors.StaticError
		params, trailingComma, err = p.parseParams()
		if err != nil {
			return nil, err
		}
	}

	hide, plusSugar, err := p.parseFieldSeparator()
	if err != nil {
		return nil, err
	}
	if methodSugar && plusSugar {
		return nil, p.errf(t.Loc, "Cannot use +: syntax sugar in a method: %s", t.Data)
	}

	body, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}

	return &ast.ObjectField{
		Loc:             token.Span(t.Loc, body.Loc()),
		Kind:            ast.ObjectFieldID,
		Hide:            hide,
		PlusSugar:       plusSugar,
		MethodSugar:     methodSugar,
		Id:              id,
		Params:          params,
		TrailingComma:   trailingComma,
		Expr2:           body,
		HeadingComments: heading,
	}, nil
}

func (p *parser) parseStrOrMethodField(t token.Token, heading []*ast.Comment) (*ast.ObjectField, *errors.StaticError) {
	p.advance()
	var key ast.Node
	switch t.Kind {
	case token.StringSingle:
		key = ast.NewLiteralString(t.Loc, ast.StringSingle, t.Data, "")
	case token.StringDouble:
		key = ast.NewLiteralString(t.Loc, ast.StringDouble, t.Data, "")
	case token.StringBlock:
		key = ast.NewLiteralString(t.Loc, ast.StringBlock, t.Data, t.StringBlockIndent)
	}

	var params []*ast.FunctionParam
	trailingComma := false
	methodSugar := false
	if p.isKind(token.ParenL) {
		methodSugar = true
		p.advance()
		var err *errors.StaticError
		params, trailingComma, err = p.parseParams()
		if err != nil {
			return nil, err
		}
	}

	hide, plusSugar, err := p.parseFieldSeparator()
	if err != nil {
		return nil, err
	}
	if methodSugar && plusSugar {
		return nil, p.errf(t.Loc, "Cannot use +: syntax sugar in a method: %s", t.Data)
	}

	body, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}

	return &ast.ObjectField{
		Loc:             token.Span(t.Loc, body.Loc()),
		Kind:            ast.ObjectFieldStr,
		Hide:            hide,
		PlusSugar:       plusSugar,
		MethodSugar:     methodSugar,
		Expr1:           key,
		Params:          params,
		TrailingComma:   trailingComma,
		Expr2:           body,
		HeadingComments: heading,
	}, nil
}

func (p *parser) parseExprField(t token.Token, heading []*ast.Comment) (*ast.ObjectField, *errors.StaticError) {
	p.advance() // '['
	key, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.BracketR); err != nil {
		return nil, err
	}

	hide, plusSugar, err := p.parseFieldSeparator()
	if err != nil {
		return nil, err
	}

	body, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}

	return &ast.ObjectField{
		Loc:             token.Span(t.Loc, body.Loc()),
		Kind:            ast.ObjectFieldExpr,
		Hide:            hide,
		PlusSugar:       plusSugar,
		Expr1:           key,
		Expr2:           body,
		HeadingComments: heading,
	}, nil
}

// parseFieldSeparator consumes one of the six field-separator operator
// spellings (`:`, `::`, `:::`, `+:`, `+::`, `+:::`), all lexed as a
// single [token.Operator] whose Data the parser disambiguates here: the
// lexer treats colon forms as plain operator text, not distinct token
// kinds.
func (p *parser) parseFieldSeparator() (ast.HideKind, bool, *errors.StaticError) {
	t := p.peek()
	if t.Kind != token.Operator {
		return 0, false, p.errf(t.Loc, "Expected token %s but got %s", token.Operator, t)
	}

	plusSugar := false
	data := t.Data
	if len(data) > 0 && data[0] == '+' {
		plusSugar = true
		data = data[1:]
	}

	var hide ast.HideKind
	switch data {
	case ":":
		hide = ast.ObjectFieldInherit
	case "::":
		hide = ast.ObjectFieldHidden
	case ":::":
		hide = ast.ObjectFieldVisible
	default:
		return 0, false, p.errf(t.Loc, "Expected operator %s but got %s", ":", t)
	}

	p.advance()
	return hide, plusSugar, nil
}

// parseArrayOrComprehension parses an array literal or comprehension
// (the current token must be `[`).
func (p *parser) parseArrayOrComprehension() (ast.Node, *errors.StaticError) {
	begin := p.peek().Loc
	p.advance() // '['

	if p.isKind(token.BracketR) {
		closeTok := p.advance()
		return ast.NewArray(token.Span(begin, closeTok.Loc), nil, false), nil
	}

	first, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}

	if p.peek().Kind == token.For {
		specs, err := p.parseCompSpecs(token.BracketR)
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(token.BracketR)
		if err != nil {
			return nil, err
		}
		n := ast.NewArrayComp(token.Span(begin, closeTok.Loc), first, specs)
		p.best = n
		return n, nil
	}

	elements := []ast.Node{first}
	trailingComma := false
	for p.isKind(token.Comma) {
		p.advance()
		if p.isKind(token.BracketR) {
			trailingComma = true
			break
		}
		elem, err := p.parse(precMax)
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
	}

	if !p.isKind(token.BracketR) {
		return nil, p.errf(p.peek().Loc, "Expected a comma before next array element")
	}
	closeTok, err := p.expect(token.BracketR)
	if err != nil {
		return nil, err
	}
	n := ast.NewArray(token.Span(begin, closeTok.Loc), elements, trailingComma)
	p.best = n
	return n, nil
}
