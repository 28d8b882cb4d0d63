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

import "github.com/jsonnet-lang/jls/jsonnet/ast"

// Precedence levels. Parsing starts at precMax and recurses downward;
// apply (postfix call/index/brace-apply) and unary are fixed numeric
// levels rather than entries in the binary table, matching Jsonnet's
// reference grammar.
const (
	precApply precedence = 2
	precUnary precedence = 4
	precMax   precedence = 16
)

type precedence int

// binaryPrecedence gives each operator's binding level; lower binds
// tighter. Multiple operators may share a level (e.g. * / %).
var binaryPrecedence = map[ast.BinaryOp]precedence{
	ast.OpMul: 5, ast.OpDiv: 5, ast.OpMod: 5,
	ast.OpAdd: 6, ast.OpSub: 6,
	ast.OpShiftL: 7, ast.OpShiftR: 7,
	ast.OpLess: 8, ast.OpLessEq: 8, ast.OpGreater: 8, ast.OpGreaterEq: 8, ast.OpIn: 8,
	ast.OpEqEq: 9, ast.OpNotEq: 9,
	ast.OpBitAnd: 10,
	ast.OpBitXor: 11,
	ast.OpBitOr:  12,
	ast.OpAnd:    13,
	ast.OpOr:     14,
}

// binaryOpByText maps an Operator token's literal text to its BinaryOp,
// for every binary operator except `in`, which lexes as the keyword
// token.In rather than an Operator.
var binaryOpByText = map[string]ast.BinaryOp{
	"*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod,
	"+": ast.OpAdd, "-": ast.OpSub,
	"<<": ast.OpShiftL, ">>": ast.OpShiftR,
	"<": ast.OpLess, "<=": ast.OpLessEq, ">": ast.OpGreater, ">=": ast.OpGreaterEq,
	"==": ast.OpEqEq, "!=": ast.OpNotEq,
	"&": ast.OpBitAnd, "^": ast.OpBitXor, "|": ast.OpBitOr,
	"&&": ast.OpAnd, "||": ast.OpOr,
}

var unaryOpByText = map[string]ast.UnaryOp{
	"-": ast.UnaryMinus, "+": ast.UnaryPlus, "!": ast.UnaryNot, "~": ast.UnaryBitwiseNot,
}
