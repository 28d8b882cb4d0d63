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

// Package compiler implements a process-wide, version-keyed parse
// cache sitting in front of the lexer, parser, and annotation pass,
// modeled on cuelang.org/go's
// internal/lsp/fscache cueFileParser — a cached *ast.File that is
// replaced atomically on every successful re-parse and never evicted
// by a failed one.
package compiler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jsonnet-lang/jls/internal/docs"
	"github.com/jsonnet-lang/jls/internal/libpath"
	"github.com/jsonnet-lang/jls/jsonnet/ast"
	"github.com/jsonnet-lang/jls/jsonnet/errors"
	"github.com/jsonnet-lang/jls/jsonnet/lexer"
	"github.com/jsonnet-lang/jls/jsonnet/parser"
	"github.com/jsonnet-lang/jls/jsonnet/token"
)

// ParsedDocument is a successful parse: the source text, its full
// token stream (fodder and all, needed by the cursor finder), the
// annotated root node, and the editor version it was parsed at, if
// any.
type ParsedDocument struct {
	Text    string
	Tokens  []token.Token
	Root    ast.Node
	Version *int
}

// FailedParsedDocument is a lex or parse failure.
type FailedParsedDocument struct {
	Text    string
	Failure *errors.StaticError
	Version *int
}

// entry is the cache's unit of storage: exactly one of Doc or Failed
// is non-nil at any time, and replacement is atomic (the service never
// mutates an entry in place).
type entry struct {
	doc         *ParsedDocument
	failed      *FailedParsedDocument
	lastSuccess *ParsedDocument
}

// Service caches parses across concurrent callers. It is safe for
// concurrent use: callers may parallelize parse caching across files,
// and the service serializes writes per URI so that at most one parse
// is ever in flight for a given (URI, version).
type Service struct {
	docs    docs.Manager
	libpath *libpath.Resolver
	log     *slog.Logger

	mu       sync.Mutex
	entries  map[string]*entry
	inFlight map[string]*sync.WaitGroup
}

// New constructs a Service. docsManager supplies text+version for a
// URI; lib resolves import specifiers to URIs — its
// existence check is rebound to docsManager.Get so that imports
// resolve against whatever the DocumentManager actually serves
// (in-memory editor buffers included), not only files already on
// disk. log may be nil, in which case a discarding logger is used.
func New(docsManager docs.Manager, lib *libpath.Resolver, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(discard{}, nil))
	}
	if lib != nil {
		lib.SetExists(func(path string) bool {
			_, ok := docsManager.Get(path)
			return ok
		})
	}
	return &Service{
		docs:     docsManager,
		libpath:  lib,
		log:      log,
		entries:  make(map[string]*entry),
		inFlight: make(map[string]*sync.WaitGroup),
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Cache returns the cached parse of uri if an entry already exists
// with a matching version (idempotent); otherwise the text is lexed,
// parsed, and annotated, and the new result atomically replaces any
// prior entry. version == nil means "always re-parse" (filesystem
// sources, which have no editor version to key on).
func (s *Service) Cache(uri, text string, version *int) any {
	s.mu.Lock()
	for {
		wg, busy := s.inFlight[uri]
		if !busy {
			break
		}
		s.mu.Unlock()
		wg.Wait()
		s.mu.Lock()
	}

	if e, ok := s.entries[uri]; ok && version != nil {
		if v := currentVersion(e); v != nil && *v == *version {
			s.mu.Unlock()
			return resultOf(e)
		}
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	s.inFlight[uri] = wg
	s.mu.Unlock()

	result := s.parse(uri, text, version)

	s.mu.Lock()
	prev := s.entries[uri]
	next := &entry{lastSuccess: lastSuccessOf(prev)}
	switch v := result.(type) {
	case *ParsedDocument:
		next.doc = v
		next.lastSuccess = v
	case *FailedParsedDocument:
		next.failed = v
	}
	s.entries[uri] = next
	delete(s.inFlight, uri)
	wg.Done()
	s.mu.Unlock()

	return result
}

func currentVersion(e *entry) *int {
	if e.doc != nil {
		return e.doc.Version
	}
	if e.failed != nil {
		return e.failed.Version
	}
	return nil
}

func resultOf(e *entry) any {
	if e.doc != nil {
		return e.doc
	}
	return e.failed
}

func lastSuccessOf(e *entry) *ParsedDocument {
	if e == nil {
		return nil
	}
	return e.lastSuccess
}

func (s *Service) parse(uri, text string, version *int) any {
	root, tokens, err := parser.ParseDocument(uri, text)
	if err != nil {
		s.log.Debug("parse failed", "uri", uri, "error", err)
		return &FailedParsedDocument{Text: text, Failure: err, Version: version}
	}
	return &ParsedDocument{Text: text, Tokens: tokens, Root: root, Version: version}
}

// GetLastSuccess returns the last successful parse for uri regardless
// of whether the most recent attempt failed.
func (s *Service) GetLastSuccess(uri string) (*ParsedDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[uri]
	if !ok || e.lastSuccess == nil {
		return nil, false
	}
	return e.lastSuccess, true
}

// Get returns the most recent cache entry for uri, successful or not.
func (s *Service) Get(uri string) (doc *ParsedDocument, failed *FailedParsedDocument, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[uri]
	if !ok {
		return nil, nil, false
	}
	return e.doc, e.failed, true
}

// Delete removes all state for uri.
func (s *Service) Delete(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, uri)
}

// FetchAndCache fetches uri's text through the DocumentManager and
// caches the parse, the path taken when a request names a document
// directly (onDocumentOpen etc. already hold the text; imports use
// FetchImport below, which routes through this too).
func (s *Service) FetchAndCache(uri string) any {
	d, ok := s.docs.Get(uri)
	if !ok {
		return &FailedParsedDocument{Failure: errors.New(token.LocationRange{FileName: uri}, "document not found: %s", uri)}
	}
	return s.Cache(uri, d.Text, d.Version)
}

// FetchImport implements resolver.ImportFetcher: resolve spec against
// fromFile's directory and the configured library path, fetch and
// cache the target, and hand back its root node. ok is false if the
// file cannot be found, fails to parse, or ctx was cancelled — an
// import fetch is the one place a resolution can block on I/O, so it
// is where cancellation is honored.
func (s *Service) FetchImport(ctx context.Context, fromFile, spec string) (ast.Node, bool) {
	if s.libpath == nil || ctx.Err() != nil {
		return nil, false
	}
	uri, ok := s.libpath.Resolve(fromFile, spec)
	if !ok {
		return nil, false
	}
	switch result := s.FetchAndCache(uri).(type) {
	case *ParsedDocument:
		return result.Root, true
	default:
		return nil, false
	}
}

// Lex is exposed for callers (internal/analyzer's partial re-parse of a
// document whose cached parse failed) that need a raw range-limited
// token stream without going through the cache.
func Lex(uri, text string, rangeMax token.Location) ([]token.Token, *errors.StaticError) {
	return lexer.Lex(uri, text, rangeMax)
}
