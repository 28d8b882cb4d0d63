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

package ast

import "github.com/jsonnet-lang/jls/jsonnet/token"

// Constructors for every node type that embeds base. base's fields are
// unexported (parent/env/rootObject are populated later, by Annotate),
// so code outside this package — chiefly jsonnet/parser — builds nodes
// through these rather than struct literals.

func NewLiteralBoolean(loc token.LocationRange, v bool) *LiteralBoolean {
	return &LiteralBoolean{base: newBase(loc), Value: v}
}

func NewLiteralNull(loc token.LocationRange) *LiteralNull {
	return &LiteralNull{base: newBase(loc)}
}

func NewLiteralNumber(loc token.LocationRange, originalString string, value float64) *LiteralNumber {
	return &LiteralNumber{base: newBase(loc), OriginalString: originalString, Value: value}
}

func NewLiteralString(loc token.LocationRange, kind StringKind, value, blockIndent string) *LiteralString {
	return &LiteralString{base: newBase(loc), Kind: kind, Value: value, BlockIndent: blockIndent}
}

func NewIdentifier(loc token.LocationRange, name string) *Identifier {
	return &Identifier{base: newBase(loc), Name: name}
}

func NewSelf(loc token.LocationRange) *Self { return &Self{base: newBase(loc)} }

func NewDollar(loc token.LocationRange) *Dollar { return &Dollar{base: newBase(loc)} }

func NewSuperIndex(loc token.LocationRange, kind SuperIndexKind, id *Identifier, index Node) *SuperIndex {
	return &SuperIndex{base: newBase(loc), Kind: kind, Id: id, Index: index}
}

func NewVar(loc token.LocationRange, id *Identifier) *Var {
	return &Var{base: newBase(loc), Id: id}
}

func NewArray(loc token.LocationRange, elements []Node, trailingComma bool) *Array {
	return &Array{base: newBase(loc), Elements: elements, TrailingComma: trailingComma}
}

func NewArrayComp(loc token.LocationRange, body Node, specs []CompSpec) *ArrayComp {
	return &ArrayComp{base: newBase(loc), Body: body, Specs: specs}
}

func NewIndexDot(loc token.LocationRange, target Node, id *Identifier) *IndexDot {
	return &IndexDot{base: newBase(loc), Target: target, Id: id}
}

func NewIndexSubscript(loc token.LocationRange, target, index Node) *IndexSubscript {
	return &IndexSubscript{base: newBase(loc), Target: target, Index: index}
}

func NewApply(loc token.LocationRange, target Node, args []Argument, tailStrict bool) *Apply {
	return &Apply{base: newBase(loc), Target: target, Arguments: args, TailStrict: tailStrict}
}

func NewApplyBrace(loc token.LocationRange, left Node, right *Object) *ApplyBrace {
	return &ApplyBrace{base: newBase(loc), Left: left, Right: right}
}

func NewFunctionParam(loc token.LocationRange, id *Identifier, defaultValue Node) *FunctionParam {
	return &FunctionParam{base: newBase(loc), Id: id, DefaultValue: defaultValue}
}

func NewFunction(loc token.LocationRange, params []*FunctionParam, body Node, trailingComma bool) *Function {
	return &Function{base: newBase(loc), Params: params, Body: body, TrailingComma: trailingComma}
}

func NewLocalBind(loc token.LocationRange, variable *Identifier, body Node, functionSugar bool, params []*FunctionParam, trailingComma bool) *LocalBind {
	return &LocalBind{
		base:          newBase(loc),
		Variable:      variable,
		Body:          body,
		FunctionSugar: functionSugar,
		Params:        params,
		TrailingComma: trailingComma,
	}
}

func NewLocal(loc token.LocationRange, binds []*LocalBind, body Node) *Local {
	return &Local{base: newBase(loc), Binds: binds, Body: body}
}

func NewAssertExpr(loc token.LocationRange, cond, message, rest Node) *AssertExpr {
	return &AssertExpr{base: newBase(loc), Cond: cond, Message: message, Rest: rest}
}

func NewErrorExpr(loc token.LocationRange, expr Node) *ErrorExpr {
	return &ErrorExpr{base: newBase(loc), Expr: expr}
}

func NewConditional(loc token.LocationRange, cond, branchTrue, branchFalse Node) *Conditional {
	return &Conditional{base: newBase(loc), Cond: cond, BranchTrue: branchTrue, BranchFalse: branchFalse}
}

func NewImport(loc token.LocationRange, file string) *Import {
	return &Import{base: newBase(loc), File: file}
}

func NewImportStr(loc token.LocationRange, file string) *ImportStr {
	return &ImportStr{base: newBase(loc), File: file}
}

func NewUnary(loc token.LocationRange, op UnaryOp, expr Node) *Unary {
	return &Unary{base: newBase(loc), Op: op, Expr: expr}
}

func NewBinary(loc token.LocationRange, left Node, op BinaryOp, right Node) *Binary {
	return &Binary{base: newBase(loc), Left: left, Op: op, Right: right}
}

func NewParenExpr(loc token.LocationRange, expr Node) *ParenExpr {
	return &ParenExpr{base: newBase(loc), Expr: expr}
}

func NewObject(loc token.LocationRange, fields []*ObjectField, trailingComma bool) *Object {
	return &Object{base: newBase(loc), Fields: fields, TrailingComma: trailingComma}
}

func NewObjectComp(loc token.LocationRange, locals []*LocalBind, field *ObjectField, specs []CompSpec) *ObjectComp {
	return &ObjectComp{base: newBase(loc), Locals: locals, Field: field, Specs: specs}
}

// NewDesugaredObject is used only by jsonnet/resolver, which builds a
// DesugaredObject on the fly when merging mixin fields; the parser
// never produces one directly.
func NewDesugaredObject(loc token.LocationRange, asserts []*ObjectField, locals []*LocalBind, fields map[string]*ObjectField) *DesugaredObject {
	return &DesugaredObject{base: newBase(loc), Asserts: asserts, Locals: locals, Fields: fields}
}
