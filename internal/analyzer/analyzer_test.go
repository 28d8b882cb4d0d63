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

package analyzer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jsonnet-lang/jls/internal/analyzer"
	"github.com/jsonnet-lang/jls/internal/compiler"
	"github.com/jsonnet-lang/jls/internal/docs"
	"github.com/jsonnet-lang/jls/internal/libpath"
)

func newAnalyzer() (*analyzer.Analyzer, *docs.MemoryManager) {
	mem := docs.NewMemoryManager()
	svc := compiler.New(mem, libpath.New(nil), nil)
	return analyzer.New(mem, svc, nil), mem
}

func TestHoverOnLocalVariable(t *testing.T) {
	a, _ := newAnalyzer()
	src := "{\n  local x = 3,\n  y: x,\n}\n"
	a.OnDocumentOpen("test.jsonnet", src, 1)

	info := a.OnHover(context.Background(), "test.jsonnet", 3, 6)
	if len(info.Contents) == 0 {
		t.Fatal("OnHover: no contents, want a signature for x")
	}
	if info.Contents[0].Value != "(variable) x" {
		t.Errorf("Contents[0].Value = %q, want %q", info.Contents[0].Value, "(variable) x")
	}
}

func TestCompleteOnMixinField(t *testing.T) {
	a, _ := newAnalyzer()
	src := `local foo = {bar: "bar"} + {baz: "baz"}; foo.b`
	a.OnDocumentOpen("test.jsonnet", src, 1)

	col := strings.Index(src, "foo.b") + len("foo.b") + 1
	items := a.OnComplete(context.Background(), "test.jsonnet", 1, col)
	want := []analyzer.CompletionInfo{
		{Label: "bar", Kind: analyzer.CompletionField},
		{Label: "baz", Kind: analyzer.CompletionField},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("OnComplete mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteFallsBackToPartialParseOnLiveEditError(t *testing.T) {
	a, _ := newAnalyzer()
	// The text is broken (an unterminated string) past the cursor, so
	// the full-document parse fails and caches a FailedParsedDocument;
	// completion at "foo.b" should still work off a range-limited parse
	// of the valid prefix.
	src := `local foo = {bar: "bar"} + {baz: "baz"}; foo.b + "unterminated`
	a.OnDocumentOpen("test.jsonnet", src, 1)

	if diags := a.Diagnostics(context.Background(), "test.jsonnet"); len(diags) != 1 || diags[0].Severity != analyzer.SeverityError {
		t.Fatalf("Diagnostics: want one parse-failure diagnostic, got %+v", diags)
	}

	col := strings.Index(src, "foo.b") + len("foo.b") + 1
	items := a.OnComplete(context.Background(), "test.jsonnet", 1, col)
	if len(items) != 2 {
		t.Fatalf("got %d completions, want 2: %+v", len(items), items)
	}
	if items[0].Label != "bar" || items[1].Label != "baz" {
		t.Errorf("items = %+v, want labels bar, baz", items)
	}
}

func TestHoverOnFieldAccessShowsFieldSignature(t *testing.T) {
	a, _ := newAnalyzer()
	src := `local o = { foo:: 1 }; o.foo`
	a.OnDocumentOpen("test.jsonnet", src, 1)

	// Cursor on the "foo" of the use site "o.foo" (1-based column of
	// the 'f'); strings.LastIndex skips the declaration's "foo::".
	col := strings.LastIndex(src, "foo") + 1
	info := a.OnHover(context.Background(), "test.jsonnet", 1, col)
	if len(info.Contents) == 0 {
		t.Fatal("OnHover: no contents")
	}
	if info.Contents[0].Value != "(field) foo::" {
		t.Errorf("Contents[0].Value = %q, want %q", info.Contents[0].Value, "(field) foo::")
	}
}

func TestHoverOnMethodFieldShowsParamsAndDocs(t *testing.T) {
	a, _ := newAnalyzer()
	src := "local o = {\n  // Doubles a value.\n  f(a, b):: a,\n};\no.f(1, 2)"
	a.OnDocumentOpen("test.jsonnet", src, 1)

	info := a.OnHover(context.Background(), "test.jsonnet", 5, 3)
	if len(info.Contents) != 2 {
		t.Fatalf("got %d content elements, want signature plus documentation: %+v", len(info.Contents), info.Contents)
	}
	if info.Contents[0].Value != "(method) f(a, b)::" {
		t.Errorf("signature = %q, want %q", info.Contents[0].Value, "(method) f(a, b)::")
	}
	if info.Contents[1].Value != "Doubles a value." {
		t.Errorf("documentation = %q, want %q", info.Contents[1].Value, "Doubles a value.")
	}
}

func TestHoverOnUndocumentedFieldOmitsDocumentation(t *testing.T) {
	a, _ := newAnalyzer()
	src := `local o = { foo: 1 }; o.foo`
	a.OnDocumentOpen("test.jsonnet", src, 1)

	col := strings.LastIndex(src, "foo") + 1
	info := a.OnHover(context.Background(), "test.jsonnet", 1, col)
	if len(info.Contents) != 1 {
		t.Fatalf("got %d content elements, want just the signature: %+v", len(info.Contents), info.Contents)
	}
}

func TestHoverOnLiteralIsEmpty(t *testing.T) {
	a, _ := newAnalyzer()
	a.OnDocumentOpen("test.jsonnet", "{ a: 12345 }", 1)

	info := a.OnHover(context.Background(), "test.jsonnet", 1, 7)
	if len(info.Contents) != 0 {
		t.Errorf("Contents = %+v, want none for a number literal", info.Contents)
	}
}

func TestCompleteVariablesFromEnvironment(t *testing.T) {
	a, _ := newAnalyzer()
	src := "local alpha = 1, beta = 2; a"
	a.OnDocumentOpen("test.jsonnet", src, 1)

	items := a.OnComplete(context.Background(), "test.jsonnet", 1, len(src))
	want := []analyzer.CompletionInfo{
		{Label: "alpha", Kind: analyzer.CompletionVariable},
		{Label: "beta", Kind: analyzer.CompletionVariable},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("OnComplete mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnosticsPositionsAreZeroBased(t *testing.T) {
	a, _ := newAnalyzer()
	a.OnDocumentOpen("bad.jsonnet", "{foo: 1, foo: 2}", 1)

	diags := a.Diagnostics(context.Background(), "bad.jsonnet")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	// The duplicate "foo" starts at 1-based [1:10], so the protocol
	// range starts at 0-based (0, 9).
	if diags[0].Start.Line != 0 || diags[0].Start.Character != 9 {
		t.Errorf("Start = %+v, want line 0 character 9", diags[0].Start)
	}
	if diags[0].Source != "Jsonnet" {
		t.Errorf("Source = %q, want %q", diags[0].Source, "Jsonnet")
	}
}

func TestDiagnosticsReportsParseFailure(t *testing.T) {
	a, _ := newAnalyzer()
	a.OnDocumentOpen("bad.jsonnet", "{foo: 1, foo: 2}", 1)

	diags := a.Diagnostics(context.Background(), "bad.jsonnet")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	if diags[0].Severity != analyzer.SeverityError {
		t.Errorf("Severity = %v, want SeverityError", diags[0].Severity)
	}
}

func TestDiagnosticsReportsUnresolvedImport(t *testing.T) {
	a, _ := newAnalyzer()
	a.OnDocumentOpen("main.jsonnet", `import "missing.jsonnet"`, 1)

	diags := a.Diagnostics(context.Background(), "main.jsonnet")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	if diags[0].Severity != analyzer.SeverityWarning {
		t.Errorf("Severity = %v, want SeverityWarning", diags[0].Severity)
	}
}

func TestDefinitionOfLocalVariable(t *testing.T) {
	a, _ := newAnalyzer()
	src := "local value = 3;\nvalue + 1"
	a.OnDocumentOpen("test.jsonnet", src, 1)

	def, ok := a.OnDefinition(context.Background(), "test.jsonnet", 2, 1)
	if !ok {
		t.Fatal("OnDefinition: not found")
	}
	if def.URI != "test.jsonnet" {
		t.Errorf("URI = %q, want %q", def.URI, "test.jsonnet")
	}
	if def.Loc.Begin.Line != 1 || def.Loc.Begin.Column != 7 {
		t.Errorf("Loc.Begin = %v, want 1:7 (the bound name)", def.Loc.Begin)
	}
}

func TestDefinitionOfFunctionParam(t *testing.T) {
	a, _ := newAnalyzer()
	src := "function(count) count"
	a.OnDocumentOpen("test.jsonnet", src, 1)

	col := strings.LastIndex(src, "count") + 1
	def, ok := a.OnDefinition(context.Background(), "test.jsonnet", 1, col)
	if !ok {
		t.Fatal("OnDefinition: not found")
	}
	if def.Loc.Begin.Column != 10 {
		t.Errorf("Loc.Begin = %v, want column 10 (the parameter)", def.Loc.Begin)
	}
}

func TestDefinitionOfFieldAcrossImport(t *testing.T) {
	a, mem := newAnalyzer()
	mem.Set("a.jsonnet", "{ foo: 99 }", nil)
	src := `(import "a.jsonnet").foo`
	a.OnDocumentOpen("b.jsonnet", src, 1)

	col := strings.LastIndex(src, "foo") + 1
	def, ok := a.OnDefinition(context.Background(), "b.jsonnet", 1, col)
	if !ok {
		t.Fatal("OnDefinition: not found")
	}
	if def.URI != "a.jsonnet" {
		t.Errorf("URI = %q, want the imported file", def.URI)
	}
	if def.Loc.Begin.Line != 1 || def.Loc.Begin.Column != 3 {
		t.Errorf("Loc.Begin = %v, want 1:3 (the field name in a.jsonnet)", def.Loc.Begin)
	}
}

func TestOnDocumentCloseClearsState(t *testing.T) {
	a, mem := newAnalyzer()
	a.OnDocumentOpen("x.jsonnet", "1 + 1", 1)
	a.OnDocumentClose("x.jsonnet")

	if _, ok := mem.Get("x.jsonnet"); ok {
		t.Error("document manager still has the document after close")
	}
	if diags := a.Diagnostics(context.Background(), "x.jsonnet"); diags != nil {
		t.Errorf("Diagnostics after close = %v, want nil", diags)
	}
}
