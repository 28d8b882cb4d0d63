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

// Package analyzer implements the Analyzer façade: the editor-facing
// surface that assembles hover and completion answers out of the
// lexer/parser/resolver core, modeled on cuelang.org/go's
// internal/lsp/cache.Instance — a thin orchestration layer that never
// itself implements scanning, parsing, or resolution, only wires
// those collaborators together and shapes their output for a protocol
// client.
package analyzer

import (
	"context"
	"log/slog"

	"github.com/jsonnet-lang/jls/internal/compiler"
	"github.com/jsonnet-lang/jls/internal/docs"
	"github.com/jsonnet-lang/jls/jsonnet/ast"
	"github.com/jsonnet-lang/jls/jsonnet/errors"
	"github.com/jsonnet-lang/jls/jsonnet/parser"
	"github.com/jsonnet-lang/jls/jsonnet/resolver"
	"github.com/jsonnet-lang/jls/jsonnet/token"
)

// Analyzer is the editor-facing façade. It owns no document state of
// its own: the DocumentManager and CompilerService
// passed to New hold all of it, so multiple Analyzer values may share
// one underlying cache if ever needed.
type Analyzer struct {
	docs     *docs.MemoryManager
	compiler *compiler.Service
	resolver *resolver.Resolver
	log      *slog.Logger
}

// New constructs an Analyzer over an in-memory DocumentManager for
// editor-owned buffers, wired into compilerSvc (which should already
// layer that manager ahead of a filesystem one for imports — see
// internal/docs.NewLayered).
func New(docsManager *docs.MemoryManager, compilerSvc *compiler.Service, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{
		docs:     docsManager,
		compiler: compilerSvc,
		resolver: resolver.New(compilerSvc),
		log:      log,
	}
}

// OnDocumentOpen forwards to CompilerService.Cache.
func (a *Analyzer) OnDocumentOpen(uri, text string, version int) {
	a.docs.Set(uri, text, &version)
	a.compiler.Cache(uri, text, &version)
}

// OnDocumentSave forwards to CompilerService.Cache.
func (a *Analyzer) OnDocumentSave(uri, text string, version int) {
	a.docs.Set(uri, text, &version)
	a.compiler.Cache(uri, text, &version)
}

// OnDocumentClose forwards to CompilerService.Delete.
func (a *Analyzer) OnDocumentClose(uri string) {
	a.docs.Delete(uri)
	a.compiler.Delete(uri)
}

// LanguageString is one element of a HoverInfo's Contents, tagged with
// a language for the client to syntax-highlight.
type LanguageString struct {
	Language string
	Value    string
}

// HoverInfo is the result of OnHover.
type HoverInfo struct {
	Contents []LanguageString
}

// CompletionKind mirrors resolver.CompletionKind at the API boundary:
// "Field" | "Variable".
type CompletionKind string

const (
	CompletionField    CompletionKind = "Field"
	CompletionVariable CompletionKind = "Variable"
)

// CompletionInfo is one entry of OnComplete's result.
type CompletionInfo struct {
	Label         string
	Kind          CompletionKind
	Documentation string
}

// Severity is a diagnostic's severity level.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one diagnostic record. Range is 0-based, unlike the
// 1-based [token.Location] the rest of the core uses internally; the
// conversion happens at this boundary only.
type Diagnostic struct {
	Severity Severity
	Start    ZeroBasedPosition
	End      ZeroBasedPosition
	Message  string
	Source   string
}

// ZeroBasedPosition is a (line, character) pair in the editor
// protocol's 0-based convention, distinct from [token.Location]'s
// 1-based one.
type ZeroBasedPosition struct {
	Line      int
	Character int
}

func toZeroBased(l token.Location) ZeroBasedPosition {
	return ZeroBasedPosition{Line: l.Line - 1, Character: l.Column - 1}
}

// Diagnostics converts the current cache state for uri into diagnostic
// records: a parse failure yields one Error diagnostic; unresolved
// imports anywhere in a successful parse yield Warning diagnostics
// naming the missing path. ctx bounds the import resolution each
// import diagnostic requires.
func (a *Analyzer) Diagnostics(ctx context.Context, uri string) []Diagnostic {
	doc, failed, ok := a.compiler.Get(uri)
	if !ok {
		return nil
	}
	if failed != nil {
		return []Diagnostic{diagnosticFromError(uri, failed.Failure)}
	}
	if doc == nil {
		return nil
	}
	return a.importDiagnostics(ctx, doc)
}

func diagnosticFromError(uri string, err *errors.StaticError) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Start:    toZeroBased(err.Loc.Begin),
		End:      toZeroBased(err.Loc.End),
		Message:  err.Msg,
		Source:   "Jsonnet",
	}
}

func (a *Analyzer) importDiagnostics(ctx context.Context, doc *compiler.ParsedDocument) []Diagnostic {
	var diags []Diagnostic
	ast.Walk(doc.Root, func(n ast.Node) bool {
		imp, ok := n.(*ast.Import)
		if !ok {
			return true
		}
		if res := a.resolver.Resolve(ctx, imp); res.Kind == resolver.Unresolvable {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Start:    toZeroBased(imp.Loc().Begin),
				End:      toZeroBased(imp.Loc().End),
				Message:  "unresolved import: " + imp.File,
				Source:   "Jsonnet",
			})
		}
		return true
	}, nil)
	return diags
}

// cursorNode locates the document and cursor node shared by OnHover and
// OnComplete. When the current cache entry is a parse failure (the
// document is mid-edit and not currently valid Jsonnet), it first tries
// a range-limited re-parse of the live text up to the cursor, since the
// breakage is often past the cursor and shouldn't deny completion at
// the cursor itself; only if that also fails does it fall back to the
// last successful parse.
func (a *Analyzer) cursorNode(uri string, line, column int) (*compiler.ParsedDocument, ast.CursorResult, bool) {
	loc := token.Location{Line: line, Column: column}

	doc, failed, ok := a.compiler.Get(uri)
	if !ok {
		return nil, ast.CursorResult{}, false
	}
	if doc == nil && failed != nil {
		if partial, pok := parsePartial(uri, failed.Text, loc); pok {
			doc = partial
		} else if last, lok := a.compiler.GetLastSuccess(uri); lok {
			doc = last
		}
	}
	if doc == nil {
		return nil, ast.CursorResult{}, false
	}
	return doc, ast.FindNode(doc.Root, doc.Tokens, loc), true
}

// parsePartial re-lexes and re-parses text up to loc only, for a
// document whose full parse currently fails. A later lex/parse error,
// past the cursor, is simply never reached.
func parsePartial(uri, text string, loc token.Location) (*compiler.ParsedDocument, bool) {
	root, perr := parser.ParseRange(uri, text, loc)
	if perr != nil {
		return nil, false
	}
	tokens, lerr := compiler.Lex(uri, text, loc)
	if lerr != nil {
		return nil, false
	}
	return &compiler.ParsedDocument{Text: text, Tokens: tokens, Root: root}, true
}

// OnHover resolves the identifier at the cursor, if any, into a hover
// signature. Cursor is 1-based (line, column). Resolution failures are
// suppressed: an unresolvable cursor yields a HoverInfo with no
// contents, never an error. ctx is checked between import fetches, the
// only point where a hover can block.
func (a *Analyzer) OnHover(ctx context.Context, uri string, line, column int) HoverInfo {
	_, cursor, ok := a.cursorNode(uri, line, column)
	if !ok || cursor.Outcome != ast.CursorFound {
		return HoverInfo{}
	}

	id, ok := cursor.Node.(*ast.Identifier)
	if !ok {
		return HoverInfo{}
	}

	switch parent := id.Parent().(type) {
	case *ast.IndexDot:
		if parent.Id != id {
			return HoverInfo{}
		}
		field, ok := a.resolver.ResolveField(ctx, parent)
		if !ok {
			a.log.Debug("hover target did not resolve to a field", "uri", uri, "name", id.Name)
			return HoverInfo{}
		}
		contents := []LanguageString{
			{Language: "jsonnet", Value: ast.FieldSignature(field)},
		}
		if doc := ast.HeadingCommentText(field.HeadingComments); doc != "" {
			contents = append(contents, LanguageString{Value: doc})
		}
		return HoverInfo{Contents: contents}

	case *ast.Var:
		return HoverInfo{Contents: []LanguageString{
			{Language: "jsonnet", Value: hoverSignatureForVar(ctx, a.resolver, id.Name, parent)},
		}}
	}

	return HoverInfo{}
}

func hoverSignatureForVar(ctx context.Context, r *resolver.Resolver, name string, v *ast.Var) string {
	res := r.Resolve(ctx, v)
	switch res.Kind {
	case resolver.ResolvesToFunctionParam:
		return "(parameter) " + name
	case resolver.ResolvesToFunction:
		if fn, ok := res.Node.(*ast.Function); ok {
			return "(function) " + name + functionParamList(fn.Params)
		}
		return "(function) " + name
	default:
		return ast.VariableSignature(name)
	}
}

func functionParamList(params []*ast.FunctionParam) string {
	s := "("
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += p.Id.Name
	}
	return s + ")"
}

// DefinitionInfo is the result of OnDefinition: the URI of the file
// holding the definition (which may differ from the queried URI when
// the definition is reached through an import) and the definition's
// range, 1-based like the rest of the core.
type DefinitionInfo struct {
	URI string
	Loc token.LocationRange
}

// OnDefinition locates the defining occurrence of the identifier at
// the cursor: the bound name of a local or function parameter for a
// variable use, or the field declaration for a `.name` use. ok is
// false when the cursor is not on a resolvable identifier.
func (a *Analyzer) OnDefinition(ctx context.Context, uri string, line, column int) (DefinitionInfo, bool) {
	_, cursor, ok := a.cursorNode(uri, line, column)
	if !ok || cursor.Outcome != ast.CursorFound {
		return DefinitionInfo{}, false
	}
	id, ok := cursor.Node.(*ast.Identifier)
	if !ok {
		return DefinitionInfo{}, false
	}

	switch parent := id.Parent().(type) {
	case *ast.Var:
		binding, ok := parent.Env().Lookup(parent.Id.Name)
		if !ok {
			return DefinitionInfo{}, false
		}
		loc := bindingLoc(binding)
		return DefinitionInfo{URI: loc.FileName, Loc: loc}, true

	case *ast.IndexDot:
		if parent.Id != id {
			return DefinitionInfo{}, false
		}
		field, ok := a.resolver.ResolveField(ctx, parent)
		if !ok {
			a.log.Debug("definition target did not resolve to a field", "uri", uri, "name", id.Name)
			return DefinitionInfo{}, false
		}
		loc := field.Loc
		if field.Id != nil {
			loc = field.Id.Loc()
		} else if field.Expr1 != nil {
			loc = field.Expr1.Loc()
		}
		return DefinitionInfo{URI: loc.FileName, Loc: loc}, true
	}

	return DefinitionInfo{}, false
}

// bindingLoc picks the declaration range for a binding: the bound
// identifier itself, not the whole bind.
func bindingLoc(binding ast.Binding) token.LocationRange {
	switch b := binding.(type) {
	case *ast.LocalBind:
		return b.Variable.Loc()
	case *ast.FunctionParam:
		return b.Id.Loc()
	default:
		return binding.Loc()
	}
}

// OnComplete resolves the node at the cursor, if any, into a list of
// completion candidates. Like OnHover, ctx is checked between import
// fetches.
func (a *Analyzer) OnComplete(ctx context.Context, uri string, line, column int) []CompletionInfo {
	_, cursor, ok := a.cursorNode(uri, line, column)
	if !ok {
		return nil
	}

	var node ast.Node
	switch cursor.Outcome {
	case ast.CursorFound:
		node = cursor.Node
	case ast.CursorAfterLineEnd, ast.CursorInsideWhitespace:
		node = cursor.PrecedingTerminal
	default:
		return nil
	}

	items := a.resolver.Complete(ctx, node)
	if items == nil {
		return nil
	}
	out := make([]CompletionInfo, len(items))
	for i, it := range items {
		kind := CompletionVariable
		if it.Kind == resolver.CompletionField {
			kind = CompletionField
		}
		out[i] = CompletionInfo{Label: it.Label, Kind: kind, Documentation: it.Documentation}
	}
	return out
}
