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

// Package parser implements a Pratt, precedence-climbing parser: token
// stream in, an annotated [ast.Node] out. It is structured after
// cuelang.org/go's cue/parser (a single parser struct advancing
// through a token slice, open-ended error reporting via a shared error
// type) but the grammar itself follows Jsonnet's, not CUE's.
package parser

import (
	"strconv"

	"github.com/jsonnet-lang/jls/jsonnet/ast"
	"github.com/jsonnet-lang/jls/jsonnet/errors"
	"github.com/jsonnet-lang/jls/jsonnet/lexer"
	"github.com/jsonnet-lang/jls/jsonnet/token"
)

// Parse lexes and parses text in its entirety, then runs [ast.Annotate]
// on the result. The returned error's Rest field, when non-nil, is the
// deepest complete subtree parsed before the failure.
func Parse(fileName, text string) (ast.Node, *errors.StaticError) {
	return parse(fileName, text, token.Unbounded)
}

// ParseRange behaves like Parse but lexes only up to rangeMax, for
// callers that only need a tree valid up to an editor cursor — notably
// internal/analyzer's completion fallback when the full document
// currently fails to parse past that point.
func ParseRange(fileName, text string, rangeMax token.Location) (ast.Node, *errors.StaticError) {
	return parse(fileName, text, rangeMax)
}

// ParseDocument is like Parse but also returns the full token stream,
// which internal/compiler needs to build a ParsedDocument and which the
// cursor finder (ast.FindNode) needs to classify a cursor that touches
// no token (in whitespace, or outside every node's range).
func ParseDocument(fileName, text string) (ast.Node, []token.Token, *errors.StaticError) {
	tokens, err := lexer.Lex(fileName, text, token.Unbounded)
	if err != nil {
		return nil, tokens, err
	}

	p := &parser{fileName: fileName, tokens: tokens}
	root, perr := p.parseDocument()
	if perr != nil {
		return nil, tokens, perr
	}
	ast.Annotate(root)
	return root, tokens, nil
}

func parse(fileName, text string, rangeMax token.Location) (ast.Node, *errors.StaticError) {
	tokens, err := lexer.Lex(fileName, text, rangeMax)
	if err != nil {
		return nil, err
	}

	p := &parser{fileName: fileName, tokens: tokens}
	root, perr := p.parseDocument()
	if perr != nil {
		return nil, perr
	}
	ast.Annotate(root)
	return root, nil
}

type parser struct {
	fileName string
	tokens   []token.Token
	pos      int

	// best is the deepest complete subtree parsed so far, attached to a
	// failure as its Rest field.
	best ast.Node
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EndOfFile
	}
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errf(loc token.LocationRange, format string, args ...interface{}) *errors.StaticError {
	e := errors.New(loc, format, args...)
	e.Rest = p.best
	return e
}

// expect consumes the current token if it has kind k, else reports
// "Expected token %s but got %s".
func (p *parser) expect(k token.Kind) (token.Token, *errors.StaticError) {
	t := p.peek()
	if t.Kind != k {
		return token.Token{}, p.errf(t.Loc, "Expected token %s but got %s", k, t)
	}
	return p.advance(), nil
}

// expectOperator consumes the current token if it is an Operator token
// with the given text, else reports "Expected operator %s but got %s".
func (p *parser) expectOperator(text string) (token.Token, *errors.StaticError) {
	t := p.peek()
	if t.Kind != token.Operator || t.Data != text {
		return token.Token{}, p.errf(t.Loc, "Expected operator %s but got %s", text, t)
	}
	return p.advance(), nil
}

func (p *parser) isOperator(text string) bool {
	t := p.peek()
	return t.Kind == token.Operator && t.Data == text
}

// takeHeadingComments consumes a run of leading CommentCpp tokens and
// returns them as [ast.Comment] nodes, for attachment as an
// [ast.ObjectField]'s HeadingComments. At non-object-field call sites
// the result is simply discarded: a leading comment is consumed and
// attached to the next node only where that's meaningful.
func (p *parser) takeHeadingComments() []*ast.Comment {
	var out []*ast.Comment
	for p.peek().Kind == token.CommentCpp {
		t := p.advance()
		out = append(out, ast.NewComment(t.Loc, t.Data))
	}
	return out
}

// skipComments discards a run of leading CommentCpp tokens without
// retaining them, used for the trailing comments between a field's
// value and its comma, which never become a heading comment: a comment
// after the comma takes priority as the heading for the next field.
func (p *parser) skipComments() {
	for p.peek().Kind == token.CommentCpp {
		p.advance()
	}
}

func (p *parser) parseDocument() (ast.Node, *errors.StaticError) {
	p.takeHeadingComments()
	root, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EndOfFile); err != nil {
		return nil, err
	}
	return root, nil
}

// parse implements the precedence-climbing core of the grammar.
func (p *parser) parse(prec precedence) (ast.Node, *errors.StaticError) {
	p.takeHeadingComments()

	switch p.peek().Kind {
	case token.Assert:
		return p.parseAssert()
	case token.Error:
		return p.parseError()
	case token.If:
		return p.parseIf()
	case token.Function:
		return p.parseFunction()
	case token.Import:
		return p.parseImport(false)
	case token.ImportStr:
		return p.parseImport(true)
	case token.Local:
		return p.parseLocal()
	}

	if prec == precUnary {
		if t := p.peek(); t.Kind == token.Operator && len(t.Data) == 1 {
			if op, ok := unaryOpByText[t.Data]; ok {
				p.advance()
				// Recurse at the same precedence, not prec-1: this lets a
				// run of unary prefixes stack (`- -x`) before eventually
				// bottoming out through apply (postfix) and the terminal.
				expr, err := p.parse(precUnary)
				if err != nil {
					return nil, err
				}
				n := ast.NewUnary(token.Span(t.Loc, expr.Loc()), op, expr)
				p.best = n
				return n, nil
			}
		}
	}

	if prec == 0 {
		n, err := p.parseTerminal()
		if err != nil {
			return nil, err
		}
		p.best = n
		return n, nil
	}

	lhs, err := p.parse(prec - 1)
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()

		if t.Kind == token.Operator {
			if op, ok := binaryOpByText[t.Data]; ok {
				if opPrec := binaryPrecedence[op]; opPrec == prec {
					p.advance()
					rhs, err := p.parse(prec - 1)
					if err != nil {
						return nil, err
					}
					lhs = ast.NewBinary(spanFrom(lhs, rhs), lhs, op, rhs)
					p.best = lhs
					continue
				}
			}
		} else if t.Kind == token.In && binaryPrecedence[ast.OpIn] == prec {
			p.advance()
			rhs, err := p.parse(prec - 1)
			if err != nil {
				return nil, err
			}
			lhs = ast.NewBinary(spanFrom(lhs, rhs), lhs, ast.OpIn, rhs)
			p.best = lhs
			continue
		}

		if prec == precApply {
			next, applied, err := p.parseSuffix(lhs)
			if err != nil {
				return nil, err
			}
			if applied {
				lhs = next
				p.best = lhs
				continue
			}
		}

		break
	}

	// At the top of the climb, an operator token that survived every
	// level is not a binary operator at all. ":"-family spellings are
	// exempt: they terminate the expression for the caller (an assert's
	// message separator, or an object field separator).
	if prec == precMax {
		if t := p.peek(); t.Kind == token.Operator && !isExprTerminator(t.Data) {
			if _, ok := binaryOpByText[t.Data]; !ok {
				return nil, p.errf(t.Loc, "Not a binary operator: %s", t.Data)
			}
		}
	}

	return lhs, nil
}

// isExprTerminator reports whether an operator spelling legitimately
// follows a complete expression: ":" (assert message separator) and the
// field-separator forms consumed by the object-body parser.
func isExprTerminator(data string) bool {
	switch data {
	case ":", "::", ":::", "+:", "+::", "+:::":
		return true
	}
	return false
}

// parseSuffix attempts to consume one postfix form immediately
// following target. Returns applied == false if the current token
// starts no such form.
func (p *parser) parseSuffix(target ast.Node) (ast.Node, bool, *errors.StaticError) {
	t := p.peek()
	switch {
	case t.Kind == token.Dot:
		p.advance()
		idTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, false, err
		}
		id := ast.NewIdentifier(idTok.Loc, idTok.Data)
		return ast.NewIndexDot(token.Span(target.Loc(), idTok.Loc), target, id), true, nil

	case t.Kind == token.BracketL:
		p.advance()
		index, err := p.parse(precMax)
		if err != nil {
			return nil, false, err
		}
		closeTok, err := p.expect(token.BracketR)
		if err != nil {
			return nil, false, err
		}
		return ast.NewIndexSubscript(token.Span(target.Loc(), closeTok.Loc), target, index), true, nil

	case t.Kind == token.ParenL:
		return p.parseCallSuffix(target)

	case t.Kind == token.BraceL:
		obj, err := p.parseObject()
		if err != nil {
			return nil, false, err
		}
		return ast.NewApplyBrace(token.Span(target.Loc(), obj.Loc()), target, obj), true, nil
	}
	return nil, false, nil
}

func (p *parser) parseCallSuffix(target ast.Node) (ast.Node, bool, *errors.StaticError) {
	p.advance() // '('
	var args []ast.Argument
	first := true
	for !p.isKind(token.ParenR) {
		if !first {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, false, p.errf(p.peek().Loc, "Expected a comma before next function argument")
			}
			if p.isKind(token.ParenR) {
				break
			}
		}
		first = false

		arg, err := p.parseArgument()
		if err != nil {
			return nil, false, err
		}
		args = append(args, arg)
	}
	closeTok, err := p.expect(token.ParenR)
	if err != nil {
		return nil, false, err
	}

	end := closeTok.Loc
	tailStrict := false
	if p.peek().Kind == token.TailStrict {
		tailStrict = true
		end = p.advance().Loc
	}

	return ast.NewApply(token.Span(target.Loc(), end), target, args, tailStrict), true, nil
}

func (p *parser) parseArgument() (ast.Argument, *errors.StaticError) {
	if p.peek().Kind == token.Ident && p.peekAt(1).Kind == token.Operator && p.peekAt(1).Data == "=" {
		nameTok := p.advance()
		p.advance() // '='
		expr, err := p.parse(precMax)
		if err != nil {
			return ast.Argument{}, err
		}
		return ast.Argument{Name: nameTok.Data, Expr: expr}, nil
	}
	expr, err := p.parse(precMax)
	if err != nil {
		return ast.Argument{}, err
	}
	return ast.Argument{Expr: expr}, nil
}

func (p *parser) isKind(k token.Kind) bool { return p.peek().Kind == k }

func spanFrom(a, b ast.Node) token.LocationRange {
	return token.Span(a.Loc(), b.Loc())
}

// parseTerminal parses the grammar's precedence-0 alternatives:
// parenthesized expressions, literals, `{`, `[`, `self`, `$`,
// `super.X`/`super[X]`, and identifiers.
func (p *parser) parseTerminal() (ast.Node, *errors.StaticError) {
	t := p.peek()

	switch t.Kind {
	case token.ParenL:
		p.advance()
		inner, err := p.parse(precMax)
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(token.ParenR)
		if err != nil {
			return nil, err
		}
		n := ast.NewParenExpr(token.Span(t.Loc, closeTok.Loc), inner)
		p.best = n
		return n, nil

	case token.BraceL:
		n, err := p.parseObjectOrComprehension()
		if err != nil {
			return nil, err
		}
		p.best = n
		return n, nil

	case token.BracketL:
		n, err := p.parseArrayOrComprehension()
		if err != nil {
			return nil, err
		}
		p.best = n
		return n, nil

	case token.Self:
		p.advance()
		n := ast.NewSelf(t.Loc)
		p.best = n
		return n, nil

	case token.Dollar:
		p.advance()
		n := ast.NewDollar(t.Loc)
		p.best = n
		return n, nil

	case token.Super:
		p.advance()
		nt := p.peek()
		switch nt.Kind {
		case token.Dot:
			p.advance()
			idTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			id := ast.NewIdentifier(idTok.Loc, idTok.Data)
			n := ast.NewSuperIndex(token.Span(t.Loc, idTok.Loc), ast.SuperDot, id, nil)
			p.best = n
			return n, nil
		case token.BracketL:
			p.advance()
			index, err := p.parse(precMax)
			if err != nil {
				return nil, err
			}
			closeTok, err := p.expect(token.BracketR)
			if err != nil {
				return nil, err
			}
			n := ast.NewSuperIndex(token.Span(t.Loc, closeTok.Loc), ast.SuperSubscript, nil, index)
			p.best = n
			return n, nil
		default:
			return nil, p.errf(nt.Loc, "Expected . or [ after super.")
		}

	case token.Ident:
		p.advance()
		id := ast.NewIdentifier(t.Loc, t.Data)
		n := ast.NewVar(t.Loc, id)
		p.best = n
		return n, nil

	case token.Number:
		p.advance()
		v, _ := strconv.ParseFloat(t.Data, 64)
		n := ast.NewLiteralNumber(t.Loc, t.Data, v)
		p.best = n
		return n, nil

	case token.StringSingle:
		p.advance()
		n := ast.NewLiteralString(t.Loc, ast.StringSingle, t.Data, "")
		p.best = n
		return n, nil

	case token.StringDouble:
		p.advance()
		n := ast.NewLiteralString(t.Loc, ast.StringDouble, t.Data, "")
		p.best = n
		return n, nil

	case token.StringBlock:
		p.advance()
		n := ast.NewLiteralString(t.Loc, ast.StringBlock, t.Data, t.StringBlockIndent)
		p.best = n
		return n, nil

	case token.True:
		p.advance()
		n := ast.NewLiteralBoolean(t.Loc, true)
		p.best = n
		return n, nil

	case token.False:
		p.advance()
		n := ast.NewLiteralBoolean(t.Loc, false)
		p.best = n
		return n, nil

	case token.Null:
		p.advance()
		n := ast.NewLiteralNull(t.Loc)
		p.best = n
		return n, nil

	case token.Operator:
		// A unary-operator run reaching the terminal was already passed
		// over by the unary branch (it only consumes single-character
		// runs), so whatever is here is not usable as a prefix.
		return nil, p.errf(t.Loc, "Not a unary operator: %s", t.Data)
	}

	return nil, p.errf(t.Loc, "Expected token %s but got %s", token.Ident, t)
}

func (p *parser) parseAssert() (ast.Node, *errors.StaticError) {
	begin := p.peek().Loc
	p.advance() // 'assert'
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
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	rest, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}
	n := ast.NewAssertExpr(token.Span(begin, rest.Loc()), cond, msg, rest)
	p.best = n
	return n, nil
}

func (p *parser) parseError() (ast.Node, *errors.StaticError) {
	begin := p.peek().Loc
	p.advance() // 'error'
	expr, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}
	n := ast.NewErrorExpr(token.Span(begin, expr.Loc()), expr)
	p.best = n
	return n, nil
}

func (p *parser) parseIf() (ast.Node, *errors.StaticError) {
	begin := p.peek().Loc
	p.advance() // 'if'
	cond, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Then); err != nil {
		return nil, err
	}
	branchTrue, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}
	var branchFalse ast.Node
	end := branchTrue.Loc()
	if p.peek().Kind == token.Else {
		p.advance()
		branchFalse, err = p.parse(precMax)
		if err != nil {
			return nil, err
		}
		end = branchFalse.Loc()
	}
	n := ast.NewConditional(token.Span(begin, end), cond, branchTrue, branchFalse)
	p.best = n
	return n, nil
}

func (p *parser) parseFunction() (ast.Node, *errors.StaticError) {
	begin := p.peek().Loc
	p.advance() // 'function'
	if _, err := p.expect(token.ParenL); err != nil {
		return nil, err
	}
	params, trailingComma, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}
	n := ast.NewFunction(token.Span(begin, body.Loc()), params, body, trailingComma)
	p.best = n
	return n, nil
}

// parseParams parses a `(` already-consumed parameter list up to and
// including the closing `)`. Every parameter must be a simple
// identifier, optionally followed by `= default`; a non-identifier
// parameter reports "Expected simple identifier but got a complex
// expression."
func (p *parser) parseParams() ([]*ast.FunctionParam, bool, *errors.StaticError) {
	var params []*ast.FunctionParam
	first := true
	trailingComma := false
	for !p.isKind(token.ParenR) {
		if !first {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, false, p.errf(p.peek().Loc, "Expected a comma before next function parameter")
			}
			if p.isKind(token.ParenR) {
				trailingComma = true
				break
			}
		}
		first = false

		t := p.peek()
		if t.Kind != token.Ident {
			return nil, false, p.errf(t.Loc, "Expected simple identifier but got a complex expression.")
		}
		p.advance()
		id := ast.NewIdentifier(t.Loc, t.Data)
		var def ast.Node
		if p.isOperator("=") {
			p.advance()
			var err *errors.StaticError
			def, err = p.parse(precMax - 1)
			if err != nil {
				return nil, false, err
			}
		}
		loc := t.Loc
		if def != nil {
			loc = token.Span(t.Loc, def.Loc())
		}
		params = append(params, ast.NewFunctionParam(loc, id, def))
	}
	if _, err := p.expect(token.ParenR); err != nil {
		return nil, false, err
	}
	return params, trailingComma, nil
}

func (p *parser) parseImport(str bool) (ast.Node, *errors.StaticError) {
	begin := p.peek().Loc
	p.advance() // 'import' / 'importstr'
	t := p.peek()
	if t.Kind != token.StringSingle && t.Kind != token.StringDouble && t.Kind != token.StringBlock {
		return nil, p.errf(t.Loc, "Computed imports are not allowed")
	}
	p.advance()
	if str {
		n := ast.NewImportStr(token.Span(begin, t.Loc), t.Data)
		p.best = n
		return n, nil
	}
	n := ast.NewImport(token.Span(begin, t.Loc), t.Data)
	p.best = n
	return n, nil
}

func (p *parser) parseLocal() (ast.Node, *errors.StaticError) {
	begin := p.peek().Loc
	p.advance() // 'local'
	binds, err := p.parseBindList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	body, err := p.parse(precMax)
	if err != nil {
		return nil, err
	}
	n := ast.NewLocal(token.Span(begin, body.Loc()), binds, body)
	p.best = n
	return n, nil
}

// parseBindList parses one or more comma-separated `id [(params)] =
// body` binds, as used by the `local` expression (a `local` object
// field holds a single bind, parsed by parseObjectField). Duplicate
// names within one bind list are
// rejected ("Duplicate local var: %s").
func (p *parser) parseBindList() ([]*ast.LocalBind, *errors.StaticError) {
	var binds []*ast.LocalBind
	seen := map[string]bool{}
	for {
		bind, err := p.parseBind()
		if err != nil {
			return nil, err
		}
		if seen[bind.Variable.Name] {
			return nil, p.errf(bind.Variable.Loc(), "Duplicate local var: %s", bind.Variable.Name)
		}
		seen[bind.Variable.Name] = true
		binds = append(binds, bind)

		if !p.isKind(token.Comma) {
			break
		}
		p.advance()
	}
	return binds, nil
}

func (p *parser) parseBind() (*ast.LocalBind, *errors.StaticError) {
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	variable := ast.NewIdentifier(nameTok.Loc, nameTok.Data)

	var params []*ast.FunctionParam
	trailingComma := false
	functionSugar := false
	if p.isKind(token.ParenL) {
		functionSugar = true
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

	return ast.NewLocalBind(token.Span(nameTok.Loc, body.Loc()), variable, body, functionSugar, params, trailingComma), nil
}
