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

// Package errors defines the static-error type shared by the lexer and
// parser, modeled on cuelang.org/go's cue/errors package: a single
// positioned error carrying a human-readable message, plus a List for
// callers that need to accumulate and sort diagnostics from more than
// one file.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsonnet-lang/jls/jsonnet/ast"
	"github.com/jsonnet-lang/jls/jsonnet/token"
)

// StaticError is a lex or parse failure: a location, a message, and
// (for parse errors only) a partial AST reflecting everything parsed up
// to the failure, so that completion can still make use of it.
type StaticError struct {
	Loc token.LocationRange
	Msg string
	// Rest is the partial tree parsed before the error, or nil. Only
	// ever populated by the parser, never the lexer.
	Rest ast.Node
}

func (e *StaticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

// New constructs a StaticError with no partial tree.
func New(loc token.LocationRange, format string, args ...interface{}) *StaticError {
	return &StaticError{Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// List is an accumulating, sortable collection of static errors. The
// lexer and parser proper never produce more than one, since the first
// lex/parse error aborts; List exists for callers that merge
// diagnostics gathered across several files or passes into one sorted
// report (internal/analyzer builds its own []Diagnostic instead).
type List []*StaticError

// Add appends err, ignoring a nil error.
func (l *List) Add(err *StaticError) {
	if err == nil {
		return
	}
	*l = append(*l, err)
}

// AddNewf formats and appends a new error.
func (l *List) AddNewf(loc token.LocationRange, format string, args ...interface{}) {
	l.Add(New(loc, format, args...))
}

// Sort orders the list by file name, then begin line, then begin
// column.
func (l List) Sort() {
	sort.Slice(l, func(i, j int) bool {
		a, b := l[i].Loc, l[j].Loc
		if a.FileName != b.FileName {
			return a.FileName < b.FileName
		}
		return a.Begin.Before(b.Begin)
	})
}

// Error implements the error interface by joining every message with a
// newline, sorted for determinism.
func (l List) Error() string {
	sorted := make(List, len(l))
	copy(sorted, l)
	sorted.Sort()
	msgs := make([]string, len(sorted))
	for i, e := range sorted {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}
