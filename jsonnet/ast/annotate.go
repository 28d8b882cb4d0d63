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

// Annotate performs a single depth-first visitor pass: it sets Parent,
// Env, and RootObject on every node reachable from root. It must be
// called exactly once, immediately after a successful parse; nodes are
// treated as immutable afterwards.
//
// Unlike [Walk], which is a generic, environment-agnostic traversal,
// Annotate needs to change what "current environment" and "current
// root object" mean at specific nodes (Local, Function, object bodies,
// comprehension clauses), so it is implemented as its own recursive
// descent rather than built on top of Walk.
func Annotate(root Node) {
	annotate(root, nil, NewEnvironment(), nil)
}

func annotate(n Node, parent Node, env *Environment, rootObj Node) {
	if n == nil {
		return
	}
	n.SetParent(parent)
	n.SetEnv(env)
	n.SetRootObject(rootObj)

	switch n := n.(type) {
	case *Comment, *LiteralBoolean, *LiteralNull, *LiteralNumber, *LiteralString,
		*Self, *Dollar, *Identifier, *Builtin, *Import, *ImportStr:
		// leaves; nothing further to annotate

	case *Var:
		annotate(n.Id, n, env, rootObj)

	case *SuperIndex:
		if n.Id != nil {
			annotate(n.Id, n, env, rootObj)
		}
		annotate(n.Index, n, env, rootObj)

	case *Array:
		for _, e := range n.Elements {
			annotate(e, n, env, rootObj)
		}

	case *ArrayComp:
		bodyEnv := annotateCompSpecs(n.Specs, n, env, rootObj)
		annotate(n.Body, n, bodyEnv, rootObj)

	case *IndexDot:
		annotate(n.Target, n, env, rootObj)
		annotate(n.Id, n, env, rootObj)

	case *IndexSubscript:
		annotate(n.Target, n, env, rootObj)
		annotate(n.Index, n, env, rootObj)

	case *Apply:
		annotate(n.Target, n, env, rootObj)
		for _, a := range n.Arguments {
			annotate(a.Expr, n, env, rootObj)
		}

	case *ApplyBrace:
		annotate(n.Left, n, env, rootObj)
		annotate(n.Right, n, env, rootObj)

	case *FunctionParam:
		annotate(n.Id, n, env, rootObj)
		if n.DefaultValue != nil {
			annotate(n.DefaultValue, n, env, rootObj)
		}

	case *Function:
		paramEnv := env.Child(paramBindings(n.Params))
		for _, p := range n.Params {
			annotate(p, n, env, rootObj)
		}
		annotate(n.Body, n, paramEnv, rootObj)

	case *Local:
		bindEnv := env.Child(bindBindings(n.Binds))
		for _, b := range n.Binds {
			annotate(b, n, bindEnv, rootObj)
		}
		annotate(n.Body, n, bindEnv, rootObj)

	case *LocalBind:
		annotate(n.Variable, n, env, rootObj)
		bodyEnv := env
		if n.FunctionSugar {
			bodyEnv = env.Child(paramBindings(n.Params))
		}
		for _, p := range n.Params {
			annotate(p, n, env, rootObj)
		}
		annotate(n.Body, n, bodyEnv, rootObj)

	case *AssertExpr:
		annotate(n.Cond, n, env, rootObj)
		if n.Message != nil {
			annotate(n.Message, n, env, rootObj)
		}
		annotate(n.Rest, n, env, rootObj)

	case *ErrorExpr:
		annotate(n.Expr, n, env, rootObj)

	case *Conditional:
		annotate(n.Cond, n, env, rootObj)
		annotate(n.BranchTrue, n, env, rootObj)
		if n.BranchFalse != nil {
			annotate(n.BranchFalse, n, env, rootObj)
		}

	case *Unary:
		annotate(n.Expr, n, env, rootObj)

	case *Binary:
		annotate(n.Left, n, env, rootObj)
		annotate(n.Right, n, env, rootObj)

	case *ParenExpr:
		annotate(n.Expr, n, env, rootObj)

	case *Object:
		objEnv := env.Child(objectLocalBindings(n.Fields))
		annotateObjectFields(n.Fields, n, objEnv, n)

	case *DesugaredObject:
		bindings := make(map[string]Binding, len(n.Locals))
		for _, b := range n.Locals {
			bindings[b.Variable.Name] = b
		}
		objEnv := env.Child(bindings)
		for _, b := range n.Locals {
			annotate(b, n, objEnv, rootObj)
		}
		for _, a := range n.Asserts {
			annotate(a.Expr2, n, objEnv, n)
			if a.Expr3 != nil {
				annotate(a.Expr3, n, objEnv, n)
			}
		}
		for _, f := range n.Fields {
			annotate(f.Expr2, n, objEnv, n)
		}

	case *ObjectComp:
		localEnv := env.Child(bindBindings(n.Locals))
		for _, b := range n.Locals {
			annotate(b, n, localEnv, rootObj)
		}
		f := n.Field
		bodyEnv := annotateCompSpecs(n.Specs, n, localEnv, rootObj)
		if f.Expr1 != nil {
			annotate(f.Expr1, n, bodyEnv, rootObj)
		}
		annotate(f.Expr2, n, bodyEnv, n)
	}
}

// annotateCompSpecs threads a new binding into env for each `for`
// clause (visible to every later clause and to the comprehension body),
// leaving `if` clauses non-binding.
func annotateCompSpecs(specs []CompSpec, parent Node, env *Environment, rootObj Node) *Environment {
	cur := env
	for i := range specs {
		s := &specs[i]
		annotate(s.Expr, parent, cur, rootObj)
		if s.Kind == CompFor {
			annotate(s.VarId, parent, cur, rootObj)
			cur = cur.Child(map[string]Binding{s.VarName: s.VarId})
		}
	}
	return cur
}

func annotateObjectFields(fields []*ObjectField, parent Node, env *Environment, rootObj Node) {
	for _, f := range fields {
		if f.Id != nil {
			annotate(f.Id, parent, env, rootObj)
		}
		if f.Expr1 != nil {
			annotate(f.Expr1, parent, env, rootObj)
		}
		fieldEnv := env
		if f.MethodSugar {
			fieldEnv = env.Child(paramBindings(f.Params))
		}
		for _, p := range f.Params {
			annotate(p, parent, env, rootObj)
		}
		if f.Expr2 != nil {
			annotate(f.Expr2, parent, fieldEnv, rootObj)
		}
		if f.Expr3 != nil {
			annotate(f.Expr3, parent, fieldEnv, rootObj)
		}
	}
}

func paramBindings(params []*FunctionParam) map[string]Binding {
	if len(params) == 0 {
		return nil
	}
	m := make(map[string]Binding, len(params))
	for _, p := range params {
		m[p.Id.Name] = p
	}
	return m
}

func bindBindings(binds []*LocalBind) map[string]Binding {
	if len(binds) == 0 {
		return nil
	}
	m := make(map[string]Binding, len(binds))
	for _, b := range binds {
		m[b.Variable.Name] = b
	}
	return m
}

// objectLocalBindings collects every ObjectLocal field of an object
// body into a binding map; this enriched env is installed for every
// field's sub-expressions.
func objectLocalBindings(fields []*ObjectField) map[string]Binding {
	var m map[string]Binding
	for _, f := range fields {
		if f.Kind != ObjectLocal {
			continue
		}
		if m == nil {
			m = make(map[string]Binding)
		}
		m[f.Id.Name] = &LocalBind{
			base:          newBase(f.Loc),
			Variable:      f.Id,
			Body:          f.Expr2,
			FunctionSugar: f.MethodSugar,
			Params:        f.Params,
			TrailingComma: f.TrailingComma,
		}
	}
	return m
}
