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

// Walk traverses node in depth-first order. It calls before(node) first
// (node must not be nil); if before returns true, Walk recurses into
// each non-nil child, then calls after(node). Either callback may be
// nil (treated as always-true / no-op respectively). Modeled directly
// on cuelang.org/go's cue/ast.Walk, adapted to this language's node set.
func Walk(node Node, before func(Node) bool, after func(Node)) {
	if node == nil {
		return
	}
	if before != nil && !before(node) {
		return
	}

	for _, child := range Children(node) {
		Walk(child, before, after)
	}

	if after != nil {
		after(node)
	}
}

// Children returns the immediate non-nil child nodes of n, in source
// order, skipping fields that don't hold expression/decl children
// (identifiers used purely as labels, etc., are still included since
// they are themselves Nodes that may be the cursor's target).
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addSpecs := func(specs []CompSpec) {
		for _, s := range specs {
			if s.Kind == CompFor {
				add(s.VarId)
			}
			add(s.Expr)
		}
	}

	switch n := n.(type) {
	case *Comment, *LiteralBoolean, *LiteralNull, *LiteralNumber, *LiteralString,
		*Self, *Dollar, *Identifier, *Builtin:
		// leaves

	case *Var:
		add(n.Id)

	case *SuperIndex:
		if n.Id != nil {
			add(n.Id)
		}
		add(n.Index)

	case *Array:
		for _, e := range n.Elements {
			add(e)
		}

	case *ArrayComp:
		add(n.Body)
		addSpecs(n.Specs)

	case *IndexDot:
		add(n.Target)
		add(n.Id)

	case *IndexSubscript:
		add(n.Target)
		add(n.Index)

	case *Apply:
		add(n.Target)
		for _, a := range n.Arguments {
			add(a.Expr)
		}

	case *ApplyBrace:
		add(n.Left)
		add(n.Right)

	case *FunctionParam:
		add(n.Id)
		add(n.DefaultValue)

	case *Function:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)

	case *LocalBind:
		add(n.Variable)
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)

	case *Local:
		for _, b := range n.Binds {
			add(b)
		}
		add(n.Body)

	case *AssertExpr:
		add(n.Cond)
		add(n.Message)
		add(n.Rest)

	case *ErrorExpr:
		add(n.Expr)

	case *Conditional:
		add(n.Cond)
		add(n.BranchTrue)
		add(n.BranchFalse)

	case *Import, *ImportStr:
		// the import path is a raw string, not a sub-node

	case *Unary:
		add(n.Expr)

	case *Binary:
		add(n.Left)
		add(n.Right)

	case *ParenExpr:
		add(n.Expr)

	case *Object:
		for _, f := range n.Fields {
			if f.Id != nil {
				add(f.Id)
			}
			add(f.Expr1)
			for _, p := range f.Params {
				add(p)
			}
			add(f.Expr2)
			add(f.Expr3)
		}

	case *DesugaredObject:
		for _, a := range n.Asserts {
			add(a.Expr2)
			add(a.Expr3)
		}
		for _, b := range n.Locals {
			add(b)
		}
		for _, f := range n.Fields {
			add(f.Expr2)
		}

	case *ObjectComp:
		for _, b := range n.Locals {
			add(b)
		}
		f := n.Field
		add(f.Expr1)
		add(f.Expr2)
		addSpecs(n.Specs)

	default:
		// Unknown node kind: nothing to recurse into. This keeps Walk
		// total rather than panicking on a forward-declared node type
		// that hasn't grown a case yet.
	}

	return out
}
