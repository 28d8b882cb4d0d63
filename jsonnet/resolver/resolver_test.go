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

package resolver_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jsonnet-lang/jls/jsonnet/ast"
	"github.com/jsonnet-lang/jls/jsonnet/parser"
	"github.com/jsonnet-lang/jls/jsonnet/resolver"
)

func mustParse(t *testing.T, fileName, src string) ast.Node {
	t.Helper()
	root, err := parser.Parse(fileName, src)
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	return root
}

// findVarByName locates the first *ast.Var whose identifier has the
// given name, walking depth-first.
func findVarByName(root ast.Node, name string) *ast.Var {
	var found *ast.Var
	ast.Walk(root, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if v, ok := n.(*ast.Var); ok && v.Id.Name == name {
			found = v
			return false
		}
		return true
	}, nil)
	return found
}

func TestResolveLocalToLiteral(t *testing.T) {
	src := "{\n  local x = 3,\n  y: x,\n}\n"
	root := mustParse(t, "test.jsonnet", src)

	v := findVarByName(root, "x")
	if v == nil {
		t.Fatal("no Var named x found")
	}

	r := resolver.New(nil)
	res := r.Resolve(context.Background(), v)
	if res.Kind != resolver.ResolvedValue {
		t.Fatalf("Kind = %v, want ResolvedValue (reason %q)", res.Kind, res.Reason)
	}
	lit, ok := res.Node.(*ast.LiteralNumber)
	if !ok {
		t.Fatalf("Node is %T, want *ast.LiteralNumber", res.Node)
	}
	if lit.OriginalString != "3" {
		t.Errorf("OriginalString = %q, want %q", lit.OriginalString, "3")
	}
}

func TestResolveFieldsThroughMixin(t *testing.T) {
	src := `local foo = {bar: "bar"} + {baz: "baz"}; foo.b`
	root := mustParse(t, "test.jsonnet", src)

	local, ok := root.(*ast.Local)
	if !ok {
		t.Fatalf("root is %T, want *ast.Local", root)
	}
	indexDot, ok := local.Body.(*ast.IndexDot)
	if !ok {
		t.Fatalf("body is %T, want *ast.IndexDot", local.Body)
	}

	r := resolver.New(nil)
	items := r.Complete(context.Background(), indexDot.Id)
	want := []resolver.Item{
		{Label: "bar", Kind: resolver.CompletionField},
		{Label: "baz", Kind: resolver.CompletionField},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("Complete mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCyclicLocalTerminates(t *testing.T) {
	src := "local foo = foo; foo"
	root := mustParse(t, "test.jsonnet", src)
	v := findVarByName(root, "foo")
	if v == nil {
		t.Fatal("no Var named foo found")
	}

	r := resolver.New(nil)
	res := r.Resolve(context.Background(), v)
	if res.Kind != resolver.Unresolvable {
		t.Fatalf("Kind = %v, want Unresolvable", res.Kind)
	}
}

type fakeImports struct {
	files map[string]string
}

func (f *fakeImports) FetchImport(_ context.Context, fromFile, spec string) (ast.Node, bool) {
	src, ok := f.files[spec]
	if !ok {
		return nil, false
	}
	root, err := parser.Parse(spec, src)
	if err != nil {
		return nil, false
	}
	return root, true
}

func TestResolveAcrossImport(t *testing.T) {
	imports := &fakeImports{files: map[string]string{
		"a.jsonnet": `{ foo: 99 }`,
	}}
	src := `(import "a.jsonnet").foo`
	root := mustParse(t, "b.jsonnet", src)

	indexDot, ok := root.(*ast.IndexDot)
	if !ok {
		t.Fatalf("root is %T, want *ast.IndexDot", root)
	}

	r := resolver.New(imports)
	res := r.Resolve(context.Background(), indexDot)
	if res.Kind != resolver.ResolvedValue {
		t.Fatalf("Kind = %v, want ResolvedValue (reason %q)", res.Kind, res.Reason)
	}
	lit, ok := res.Node.(*ast.LiteralNumber)
	if !ok {
		t.Fatalf("Node is %T, want *ast.LiteralNumber", res.Node)
	}
	if lit.Value != 99 {
		t.Errorf("Value = %v, want 99", lit.Value)
	}
}

func TestResolveDollarToEnclosingObjectField(t *testing.T) {
	src := "{ a: $.b, b: 2 }"
	root := mustParse(t, "test.jsonnet", src)

	var dollarIndex *ast.IndexDot
	ast.Walk(root, func(n ast.Node) bool {
		if idx, ok := n.(*ast.IndexDot); ok {
			if _, isDollar := idx.Target.(*ast.Dollar); isDollar {
				dollarIndex = idx
				return false
			}
		}
		return true
	}, nil)
	if dollarIndex == nil {
		t.Fatal("no $.b IndexDot found")
	}

	r := resolver.New(nil)
	res := r.Resolve(context.Background(), dollarIndex)
	if res.Kind != resolver.ResolvedValue {
		t.Fatalf("Kind = %v, want ResolvedValue (reason %q)", res.Kind, res.Reason)
	}
	lit, ok := res.Node.(*ast.LiteralNumber)
	if !ok || lit.OriginalString != "2" {
		t.Errorf("Node = %+v, want the literal 2", res.Node)
	}
}

func TestResolveVarToFunctionParam(t *testing.T) {
	src := "function(a, b=1) a"
	root := mustParse(t, "test.jsonnet", src)
	v := findVarByName(root, "a")
	if v == nil {
		t.Fatal("no Var named a found")
	}

	r := resolver.New(nil)
	res := r.Resolve(context.Background(), v)
	if res.Kind != resolver.ResolvesToFunctionParam {
		t.Fatalf("Kind = %v, want ResolvesToFunctionParam", res.Kind)
	}
	param, ok := res.Node.(*ast.FunctionParam)
	if !ok {
		t.Fatalf("Node is %T, want *ast.FunctionParam", res.Node)
	}
	if param.DefaultValue != nil {
		t.Error("param a has a default, want none")
	}
}

func TestResolveThroughApplyBrace(t *testing.T) {
	src := "local base = {a: 1}; (base { b: 2 }).b"
	root := mustParse(t, "test.jsonnet", src)

	local := root.(*ast.Local)
	indexDot, ok := local.Body.(*ast.IndexDot)
	if !ok {
		t.Fatalf("body is %T, want *ast.IndexDot", local.Body)
	}

	r := resolver.New(nil)
	res := r.Resolve(context.Background(), indexDot)
	if res.Kind != resolver.ResolvedValue {
		t.Fatalf("Kind = %v, want ResolvedValue (reason %q)", res.Kind, res.Reason)
	}
	lit, ok := res.Node.(*ast.LiteralNumber)
	if !ok || lit.OriginalString != "2" {
		t.Errorf("Node = %+v, want the literal 2", res.Node)
	}
}

func TestResolveSubscriptWithLiteralStringKey(t *testing.T) {
	src := `{x: 1}["x"]`
	root := mustParse(t, "test.jsonnet", src)

	r := resolver.New(nil)
	res := r.Resolve(context.Background(), root)
	if res.Kind != resolver.ResolvedValue {
		t.Fatalf("Kind = %v, want ResolvedValue (reason %q)", res.Kind, res.Reason)
	}
	if lit, ok := res.Node.(*ast.LiteralNumber); !ok || lit.OriginalString != "1" {
		t.Errorf("Node = %+v, want the literal 1", res.Node)
	}
}

func TestResolveImportStripsLocalWrappers(t *testing.T) {
	imports := &fakeImports{files: map[string]string{
		"a.jsonnet": "local k = 99;\n{ foo: k }",
	}}
	src := `(import "a.jsonnet").foo`
	root := mustParse(t, "b.jsonnet", src)
	indexDot := root.(*ast.IndexDot)

	r := resolver.New(imports)
	res := r.Resolve(context.Background(), indexDot)
	if res.Kind != resolver.ResolvedValue {
		t.Fatalf("Kind = %v, want ResolvedValue (reason %q)", res.Kind, res.Reason)
	}
	lit, ok := res.Node.(*ast.LiteralNumber)
	if !ok || lit.Value != 99 {
		t.Errorf("Node = %+v, want the literal 99 from the imported file", res.Node)
	}

	// The importing file's own environment has no binding for foo: it
	// is reached through the import, not the lexical scope.
	if _, found := indexDot.Env().Lookup("foo"); found {
		t.Error("env at the use site binds foo, want no such binding")
	}
}

func TestResolveImportCancelledContext(t *testing.T) {
	imports := &fakeImports{files: map[string]string{
		"a.jsonnet": "{ foo: 1 }",
	}}
	src := `import "a.jsonnet"`
	root := mustParse(t, "b.jsonnet", src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := resolver.New(imports)
	res := r.Resolve(ctx, root)
	if res.Kind != resolver.Unresolvable {
		t.Fatalf("Kind = %v, want Unresolvable after cancellation", res.Kind)
	}
}

func TestCompleteVariableEnumeratesEnv(t *testing.T) {
	src := "local a = 1, b = 2; a"
	root := mustParse(t, "test.jsonnet", src)
	v := findVarByName(root, "a")
	if v == nil {
		t.Fatal("no Var named a found")
	}

	r := resolver.New(nil)
	items := r.Complete(context.Background(), v.Id)
	if len(items) != 2 {
		t.Fatalf("got %d completions, want 2: %+v", len(items), items)
	}
	for _, it := range items {
		if it.Kind != resolver.CompletionVariable {
			t.Errorf("item %+v has kind %v, want Variable", it, it.Kind)
		}
	}
}
