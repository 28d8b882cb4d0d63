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

// Package ast declares the types used to represent the abstract syntax
// tree of a Jsonnet document. The traversal and annotation machinery
// (parent/env/rootObject threading, the cursor finder) is modeled on
// cuelang.org/go's cue/ast package (Walk, WalkVisitor) adapted to this
// language's scoping rules.
package ast

import (
	"github.com/jsonnet-lang/jls/jsonnet/token"
)

// Node is implemented by every AST node. parent/env/rootObject are
// mutable: they start nil at construction and are populated by exactly
// one call to [Annotate] after a successful parse. Node itself never
// grows methods for operations that only apply to some variants (e.g.
// ResolveFields) — those live on the variant itself, not on a
// base-class method.
type Node interface {
	Loc() token.LocationRange

	Parent() Node
	SetParent(Node)

	Env() *Environment
	SetEnv(*Environment)

	RootObject() Node
	SetRootObject(Node)
}

// base is embedded by every concrete node type and supplies the shared
// parent/env/rootObject bookkeeping, so each node type only has to
// declare its own semantic fields.
type base struct {
	loc        token.LocationRange
	parent     Node
	env        *Environment
	rootObject Node
}

func (b *base) Loc() token.LocationRange { return b.loc }
func (b *base) Parent() Node             { return b.parent }
func (b *base) SetParent(n Node)         { b.parent = n }
func (b *base) Env() *Environment        { return b.env }
func (b *base) SetEnv(e *Environment)    { b.env = e }
func (b *base) RootObject() Node         { return b.rootObject }
func (b *base) SetRootObject(n Node)     { b.rootObject = n }

func newBase(loc token.LocationRange) base { return base{loc: loc} }

// ---------------------------------------------------------------------
// Comments

// Comment is a single retained `//` comment line, used exclusively as a
// heading comment attached to an [ObjectField]. It is not a general
// expression node and never appears as a child in an expression
// position.
type Comment struct {
	base
	Text string
}

func NewComment(loc token.LocationRange, text string) *Comment {
	return &Comment{base: newBase(loc), Text: text}
}

// ---------------------------------------------------------------------
// Literals

type LiteralBoolean struct {
	base
	Value bool
}

type LiteralNull struct {
	base
}

type LiteralNumber struct {
	base
	// OriginalString preserves the exact source text of the literal
	// (e.g. "3", "1.5e10") for hover display; Value is its parsed form.
	OriginalString string
	Value          float64
}

// StringKind distinguishes the three lexical forms of string literal.
type StringKind int

const (
	StringSingle StringKind = iota
	StringDouble
	StringBlock
)

type LiteralString struct {
	base
	Kind StringKind
	// Value is the literal's content with escapes left exactly as
	// written in source (lex time does not interpret escapes); for
	// StringBlock it is the dedented body.
	Value string
	// BlockIndent is set only for StringKind == StringBlock; it is the
	// common whitespace prefix stripped from every content line.
	BlockIndent string
}

// ---------------------------------------------------------------------
// Identifiers, Self, Dollar, Super

// Identifier is a bare name appearing in a binding or label position
// (a local's bound name, a function parameter, an object field's
// fixed-name label, the target of .foo). It never itself resolves to a
// value; [Var] is the node that does.
type Identifier struct {
	base
	Name string
}

type Self struct{ base }

// Dollar resolves, via the resolver, to the nearest enclosing
// [RootObject].
type Dollar struct{ base }

// SuperIndexKind distinguishes `super.x` from `super[x]`.
type SuperIndexKind int

const (
	SuperDot SuperIndexKind = iota
	SuperSubscript
)

type SuperIndex struct {
	base
	Kind SuperIndexKind
	// Id is set when Kind == SuperDot.
	Id *Identifier
	// Index is set when Kind == SuperSubscript.
	Index Node
}

// Var is a use of a name in expression position; it is what the
// resolver chases through an [Environment].
type Var struct {
	base
	Id *Identifier
}

// ---------------------------------------------------------------------
// Composite expressions

type Array struct {
	base
	Elements      []Node
	TrailingComma bool
}

// CompSpecKind distinguishes the two clause forms of a comprehension.
type CompSpecKind int

const (
	CompFor CompSpecKind = iota
	CompIf
)

// CompSpec is one `for x in e` or `if e` clause of an array or object
// comprehension.
type CompSpec struct {
	Loc token.LocationRange
	Kind CompSpecKind
	// VarName is set when Kind == CompFor.
	VarName string
	// VarId is the identifier node that introduces VarName as a binding
	// (needed so the visitor has a concrete node to attach env to).
	VarId *Identifier
	Expr  Node
}

type ArrayComp struct {
	base
	Body  Node
	Specs []CompSpec
}

// IndexDot is `target.id`.
type IndexDot struct {
	base
	Target Node
	Id     *Identifier
}

// IndexSubscript is `target[index]`.
type IndexSubscript struct {
	base
	Target Node
	Index  Node
}

// Argument is one argument of a call: either positional (Name == "") or
// named (`f(x=1)`).
type Argument struct {
	Name string
	Expr Node
}

// Apply is a function call `target(args...)`, optionally followed by
// `tailstrict`.
type Apply struct {
	base
	Target     Node
	Arguments  []Argument
	TailStrict bool
}

// ApplyBrace is the object-apply postfix sugar `e {...}`, which
// desugars to `e + {...}`; kept as a distinct node so that source
// ranges and hover on the brace itself stay accurate, but the resolver
// treats it exactly like a [Binary] with [OpAdd].
type ApplyBrace struct {
	base
	Left  Node
	Right *Object
}

type FunctionParam struct {
	base
	Id *Identifier
	// DefaultValue is nil for a required parameter.
	DefaultValue Node
}

type Function struct {
	base
	Params        []*FunctionParam
	Body          Node
	TrailingComma bool
}

type LocalBind struct {
	base
	Variable *Identifier
	Body     Node
	// FunctionSugar is true for `local f(x) = e;` binds.
	FunctionSugar bool
	Params        []*FunctionParam
	TrailingComma bool
}

type Local struct {
	base
	Binds []*LocalBind
	Body  Node
}

// AssertExpr is a standalone `assert cond: msg; rest` expression (as
// opposed to an ObjectAssert field, which uses the same Cond/Message
// shape inside an object body).
type AssertExpr struct {
	base
	Cond    Node
	Message Node // nil if no ": msg" was given
	Rest    Node
}

type ErrorExpr struct {
	base
	Expr Node
}

type Conditional struct {
	base
	Cond        Node
	BranchTrue  Node
	BranchFalse Node // nil if no else clause
}

type Import struct {
	base
	File string
}

type ImportStr struct {
	base
	File string
}

// UnaryOp enumerates the unary operators `- + ! ~`.
type UnaryOp int

const (
	UnaryMinus UnaryOp = iota
	UnaryPlus
	UnaryNot
	UnaryBitwiseNot
)

var unaryOpNames = map[UnaryOp]string{
	UnaryMinus:      "-",
	UnaryPlus:       "+",
	UnaryNot:        "!",
	UnaryBitwiseNot: "~",
}

func (op UnaryOp) String() string { return unaryOpNames[op] }

type Unary struct {
	base
	Op   UnaryOp
	Expr Node
}

// BinaryOp enumerates every binary operator, ordered to match the
// precedence table in jsonnet/parser.
type BinaryOp int

const (
	OpMul BinaryOp = iota
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpShiftL
	OpShiftR
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpIn
	OpEqEq
	OpNotEq
	OpBitAnd
	OpBitXor
	OpBitOr
	OpAnd
	OpOr
)

var binaryOpNames = map[BinaryOp]string{
	OpMul: "*", OpDiv: "/", OpMod: "%",
	OpAdd: "+", OpSub: "-",
	OpShiftL: "<<", OpShiftR: ">>",
	OpLess: "<", OpLessEq: "<=", OpGreater: ">", OpGreaterEq: ">=",
	OpIn:      "in",
	OpEqEq:    "==", OpNotEq: "!=",
	OpBitAnd: "&", OpBitXor: "^", OpBitOr: "|",
	OpAnd: "&&", OpOr: "||",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

type Binary struct {
	base
	Left  Node
	Op    BinaryOp
	Right Node
}

// ParenExpr is a parenthesized expression, kept as its own node (rather
// than collapsed away) so that source ranges over `(e)` remain accurate
// for hover/cursor purposes.
type ParenExpr struct {
	base
	Expr Node
}

// ---------------------------------------------------------------------
// Objects

// ObjectFieldKind discriminates the four field forms plus the assert
// form.
type ObjectFieldKind int

const (
	ObjectFieldID ObjectFieldKind = iota
	ObjectFieldStr
	ObjectFieldExpr
	ObjectLocal
	ObjectAssert
)

// HideKind is a field's visibility marker.
type HideKind int

const (
	ObjectFieldVisible HideKind = iota // :::
	ObjectFieldInherit                 // :
	ObjectFieldHidden                  // ::
)

// ObjectField is one member of an object body, in any of its five
// forms.
type ObjectField struct {
	Loc token.LocationRange

	Kind ObjectFieldKind
	Hide HideKind

	// PlusSugar is true for the `+:`/`+::`/`+:::` inherit-and-merge
	// forms; meaningless when Kind == ObjectAssert.
	PlusSugar bool

	// MethodSugar is true for `id(params): body` fields, which desugar
	// to a field whose value is a [Function].
	MethodSugar bool

	// Id is set when Kind == ObjectFieldID; Expr1 is set when Kind is
	// ObjectFieldStr or ObjectFieldExpr (the field-name expression).
	Id    *Identifier
	Expr1 Node

	Params        []*FunctionParam // only when MethodSugar
	TrailingComma bool

	// Expr2 is the field's value (nil only for ObjectAssert).
	Expr2 Node
	// Expr3 is the assert message (ObjectAssert only, may be nil).
	Expr3 Node

	// HeadingComments are the `//` comment lines immediately preceding
	// this field; used as hover documentation by the resolver/analyzer.
	HeadingComments []*Comment
}

// Name returns the field's static name and whether one could be
// determined without evaluation: always true for ObjectFieldID, true
// for ObjectFieldStr when Expr1 is a plain string literal, and false
// otherwise (computed `[expr]` keys, or ObjectAssert which has none).
func (f *ObjectField) Name() (string, bool) {
	switch f.Kind {
	case ObjectFieldID:
		if f.Id != nil {
			return f.Id.Name, true
		}
	case ObjectFieldStr:
		if lit, ok := f.Expr1.(*LiteralString); ok {
			return lit.Value, true
		}
	}
	return "", false
}

type Object struct {
	base
	Fields        []*ObjectField
	TrailingComma bool
}

// DesugaredObject is the normalized form of an [Object] or [ApplyBrace]
// produced on demand by the resolver when it needs to merge mixin
// fields: asserts, locals, and named fields are split into separate
// slices so merging two objects is a simple map union keyed by field
// name.
type DesugaredObject struct {
	base
	Asserts []*ObjectField
	Locals  []*LocalBind
	Fields  map[string]*ObjectField
}

// ObjectComp is an object comprehension `{ [k]: v for x in e ... }`; it
// is produced only when the parser has verified exactly one
// ObjectFieldExpr field with no asserts, no `+:` sugar, and
// ObjectFieldInherit visibility.
type ObjectComp struct {
	base
	// Locals are the comprehension's ObjectLocal fields: permitted
	// alongside the single value field, but excluded when counting
	// toward the "exactly one field" rule.
	Locals []*LocalBind
	Field  *ObjectField
	Specs  []CompSpec
}

// ---------------------------------------------------------------------
// Builtin placeholder

// Builtin represents a reference to a standard-library builtin
// function. The parser never constructs one directly (there is no
// surface syntax for it); it exists so that a future desugaring pass
// (e.g. expanding `std.foo` shorthand) has a node to target. Resolution
// of a Builtin always fails with Unresolvable("builtin") since this
// core does not model the standard library's signatures.
type Builtin struct {
	base
	Name   string
	Params []string
}
