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

// Package resolver implements static resolution: chasing an
// Identifier, Var, Index, Import, or Dollar node to whatever statically
// defines its value, and enumerating the completable fields of an
// object-like node. It is deliberately a direct, eager recursive-descent
// resolver rather than the lazy call-by-need scope graph
// cuelang.org/go's internal/lsp/definitions package builds for CUE's
// far richer unification semantics — Jsonnet's lexical scoping needs
// none of that, so the extra machinery would only obscure a
// straightforward chase up the environment chain.
package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/jsonnet-lang/jls/jsonnet/ast"
)

// Kind tags the shape of a resolution result. Resolution never errors;
// every outcome, including failure, is one of these tagged results.
type Kind int

const (
	ResolvedValue Kind = iota
	ResolvesToFunctionParam
	ResolvesToFunction
	ResolvesToIndexedObjectFields
	Unresolvable
)

// Result is the outcome of a [Resolver.Resolve] call.
type Result struct {
	Kind Kind

	// Node is set for ResolvedValue, ResolvesToFunctionParam, and
	// ResolvesToFunction.
	Node ast.Node

	// Fields is set for ResolvesToIndexedObjectFields.
	Fields map[string]*ast.ObjectField

	// Reason is set for Unresolvable; a short, loggable explanation
	// (internal/analyzer suppresses resolution failures from
	// user-visible output, so this is never shown to the end user).
	Reason string
}

func unresolvable(reason string) Result { return Result{Kind: Unresolvable, Reason: reason} }

// ImportFetcher is the collaborator that turns an `import`/`importstr`
// file spec, relative to the file that contains it, into a parsed and
// annotated root node. It is implemented by internal/compiler.Service
// wired to a DocumentManager and LibPathResolver. ok is false when the
// target cannot be found or fails to parse; the resolver never
// distinguishes the two beyond that.
type ImportFetcher interface {
	FetchImport(ctx context.Context, fromFile, spec string) (root ast.Node, ok bool)
}

// Resolver answers two questions: what does this node resolve to, and
// what can follow it at the cursor.
type Resolver struct {
	imports ImportFetcher
}

// New constructs a Resolver. imports may be nil if the caller knows no
// document under analysis uses import/importstr; any Import/ImportStr
// node then resolves to Unresolvable.
func New(imports ImportFetcher) *Resolver {
	return &Resolver{imports: imports}
}

// Resolve chases node to whatever statically defines its value. ctx is
// checked at each import boundary, the only place resolution can block
// on I/O; a cancelled context makes the remaining imports resolve as
// Unresolvable rather than aborting the whole call.
func (r *Resolver) Resolve(ctx context.Context, node ast.Node) Result {
	return r.resolve(ctx, node, map[ast.Node]bool{})
}

func (r *Resolver) resolve(ctx context.Context, node ast.Node, visited map[ast.Node]bool) Result {
	if node == nil {
		return unresolvable("nil node")
	}
	if visited[node] {
		return unresolvable("cyclic reference")
	}
	visited[node] = true

	switch n := node.(type) {
	case *ast.Identifier:
		switch parent := n.Parent().(type) {
		case *ast.Var:
			return r.resolve(ctx, parent, visited)
		case *ast.IndexDot:
			if parent.Id == n {
				return r.resolve(ctx, parent, visited)
			}
		}
		return unresolvable("identifier is not in a resolvable position")

	case *ast.Var:
		binding, ok := n.Env().Lookup(n.Id.Name)
		if !ok {
			return unresolvable("unbound variable: " + n.Id.Name)
		}
		return r.resolveBinding(ctx, binding, visited)

	case *ast.Dollar:
		root := n.RootObject()
		if root == nil {
			return unresolvable("$ used outside any object")
		}
		return Result{Kind: ResolvedValue, Node: root}

	case *ast.Import:
		return r.resolveImport(ctx, n.Loc().FileName, n.File, visited)

	case *ast.ImportStr:
		return unresolvable("importstr does not resolve to a structured value")

	case *ast.IndexDot:
		return r.resolveIndex(ctx, n.Target, n.Id.Name, visited)

	case *ast.IndexSubscript:
		name, ok := staticIndexName(n.Index)
		if !ok {
			return unresolvable("computed index is not statically resolvable")
		}
		return r.resolveIndex(ctx, n.Target, name, visited)

	case *ast.Local:
		return r.resolve(ctx, n.Body, visited)

	case *ast.ParenExpr:
		return r.resolve(ctx, n.Expr, visited)

	case *ast.Function:
		return Result{Kind: ResolvesToFunction, Node: n}

	case *ast.Builtin:
		// Standard-library signatures are not modeled here.
		return unresolvable("builtin")

	case *ast.Object, *ast.DesugaredObject, *ast.ApplyBrace, *ast.Binary:
		if fields, ok := r.resolveFields(ctx, n, visited); ok {
			return Result{Kind: ResolvesToIndexedObjectFields, Fields: fields}
		}
		return unresolvable("expression is not a resolvable object")

	default:
		return Result{Kind: ResolvedValue, Node: n}
	}
}

// resolveBinding dispatches on the kind of node an [ast.Environment]
// binding points to.
func (r *Resolver) resolveBinding(ctx context.Context, binding ast.Binding, visited map[ast.Node]bool) Result {
	switch b := binding.(type) {
	case *ast.FunctionParam:
		return Result{Kind: ResolvesToFunctionParam, Node: b}
	case *ast.LocalBind:
		if b.FunctionSugar {
			return Result{Kind: ResolvesToFunction, Node: b}
		}
		return r.resolve(ctx, b.Body, visited)
	case *ast.Identifier:
		// A comprehension `for` variable: opaque, like a function
		// parameter, since its value only exists per iteration.
		return Result{Kind: ResolvesToFunctionParam, Node: b}
	default:
		return unresolvable("unsupported binding")
	}
}

func (r *Resolver) resolveIndex(ctx context.Context, target ast.Node, name string, visited map[ast.Node]bool) Result {
	fields, ok := r.resolveFields(ctx, target, visited)
	if !ok {
		return unresolvable("index target is not an object")
	}
	field, ok := fields[name]
	if !ok {
		return unresolvable("no field named " + name)
	}
	return r.resolve(ctx, field.Expr2, visited)
}

// resolveImport fetches the target file's parsed root through the
// ImportFetcher, then strips any enclosing Local wrappers before
// continuing resolution.
func (r *Resolver) resolveImport(ctx context.Context, fromFile, spec string, visited map[ast.Node]bool) Result {
	if r.imports == nil {
		return unresolvable("import resolution unavailable")
	}
	if ctx.Err() != nil {
		return unresolvable("cancelled: " + ctx.Err().Error())
	}
	root, ok := r.imports.FetchImport(ctx, fromFile, spec)
	if !ok {
		return unresolvable("import not found: " + spec)
	}
	for {
		loc, ok := root.(*ast.Local)
		if !ok {
			break
		}
		root = loc.Body
	}
	return r.resolve(ctx, root, visited)
}

// ResolveField resolves an IndexDot or IndexSubscript node to the
// specific ObjectField it denotes, for hover's field signature and
// heading-comment documentation. ok is false if the target cannot be
// reduced to an object or has no field of that name.
func (r *Resolver) ResolveField(ctx context.Context, node ast.Node) (field *ast.ObjectField, ok bool) {
	var target ast.Node
	var name string
	switch n := node.(type) {
	case *ast.IndexDot:
		target, name = n.Target, n.Id.Name
	case *ast.IndexSubscript:
		idxName, ok := staticIndexName(n.Index)
		if !ok {
			return nil, false
		}
		target, name = n.Target, idxName
	default:
		return nil, false
	}
	fields, ok := r.resolveFields(ctx, target, map[ast.Node]bool{})
	if !ok {
		return nil, false
	}
	field, ok = fields[name]
	return field, ok
}

// staticIndexName reports the literal string an IndexSubscript's index
// expression denotes, if any (e.g. `o["x"]` but not `o[computed()]`).
func staticIndexName(index ast.Node) (string, bool) {
	if lit, ok := index.(*ast.LiteralString); ok {
		return lit.Value, true
	}
	return "", false
}

// CompletionKind classifies one entry of a completion list.
type CompletionKind int

const (
	CompletionField CompletionKind = iota
	CompletionVariable
)

// Item is one entry of a completion list.
type Item struct {
	Label         string
	Kind          CompletionKind
	Documentation string
}

// Complete lists the completions available at a node found by the
// cursor finder. It returns nil for anything other than a lone
// Identifier in variable or `.id` position.
func (r *Resolver) Complete(ctx context.Context, node ast.Node) []Item {
	id, ok := node.(*ast.Identifier)
	if !ok {
		return nil
	}

	switch parent := id.Parent().(type) {
	case *ast.IndexDot:
		if parent.Id != id {
			return nil
		}
		fields, ok := r.resolveFields(ctx, parent.Target, map[ast.Node]bool{})
		if !ok {
			return nil
		}
		items := make([]Item, 0, len(fields))
		for name, f := range fields {
			items = append(items, Item{
				Label:         name,
				Kind:          CompletionField,
				Documentation: ast.HeadingCommentText(f.HeadingComments),
			})
		}
		sortItems(items)
		return items

	case *ast.Var:
		names := id.Env().Names()
		items := make([]Item, 0, len(names))
		for _, name := range names {
			items = append(items, Item{Label: name, Kind: CompletionVariable})
		}
		sortItems(items)
		return items
	}

	return nil
}

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		return strings.Compare(items[i].Label, items[j].Label) < 0
	})
}
