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

package resolver

import (
	"context"

	"github.com/jsonnet-lang/jls/jsonnet/ast"
)

// resolveFields enumerates the completable fields of node, which must
// directly or transitively
// (through Var/Index/Import/Local indirection, or a `+` mixin chain)
// denote an object. ok is false when node cannot be reduced to one.
func (r *Resolver) resolveFields(ctx context.Context, node ast.Node, visited map[ast.Node]bool) (map[string]*ast.ObjectField, bool) {
	switch n := node.(type) {
	case *ast.Object:
		return fieldsOfObject(n), true

	case *ast.DesugaredObject:
		return n.Fields, true

	case *ast.ApplyBrace:
		// `e {...}` desugars to `e + {...}`.
		left, lok := r.resolveFields(ctx, n.Left, visited)
		right, _ := r.resolveFields(ctx, n.Right, visited)
		return mergeFields(left, lok, right, true), true

	case *ast.Binary:
		if n.Op != ast.OpAdd {
			return nil, false
		}
		left, lok := r.resolveFields(ctx, n.Left, visited)
		right, rok := r.resolveFields(ctx, n.Right, visited)
		if !lok && !rok {
			return nil, false
		}
		return mergeFields(left, lok, right, rok), true

	case *ast.Local:
		return r.resolveFields(ctx, n.Body, visited)

	case *ast.ParenExpr:
		return r.resolveFields(ctx, n.Expr, visited)

	default:
		// Var, IndexDot, IndexSubscript, Import, Dollar and any other
		// indirection: resolve one step (resolve itself guards against
		// cycles) and, on success, keep peeling.
		res := r.resolve(ctx, node, visited)
		switch res.Kind {
		case ResolvesToIndexedObjectFields:
			return res.Fields, true
		case ResolvedValue:
			if res.Node != nil && res.Node != node {
				return r.resolveFields(ctx, res.Node, visited)
			}
		}
		return nil, false
	}
}

// fieldsOfObject collects the statically named fields of a plain
// [ast.Object] literal, skipping locals, asserts, and computed keys
// whose name cannot be determined without evaluation.
func fieldsOfObject(obj *ast.Object) map[string]*ast.ObjectField {
	out := make(map[string]*ast.ObjectField, len(obj.Fields))
	for _, f := range obj.Fields {
		if name, ok := f.Name(); ok {
			out[name] = f
		}
	}
	return out
}

// mergeFields unions two field maps, right overriding left on a name
// collision.
func mergeFields(left map[string]*ast.ObjectField, lok bool, right map[string]*ast.ObjectField, rok bool) map[string]*ast.ObjectField {
	out := make(map[string]*ast.ObjectField)
	if lok {
		for k, v := range left {
			out[k] = v
		}
	}
	if rok {
		for k, v := range right {
			out[k] = v
		}
	}
	return out
}
