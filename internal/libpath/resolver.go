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

// Package libpath implements the LibPathResolver collaborator: turning
// an import specifier plus the importing file's URI into an absolute
// URI, trying direct resolution, then relative resolution, then an
// ordered library-path list — the same three-tier order
// cuelang.org/go's cue/load package uses to resolve an import path
// against the package's own directory before falling back to the
// module cache.
package libpath

import (
	"os"
	"path/filepath"
)

// Resolver resolves an import specifier to an absolute file path.
// Paths, not load.Instances: this core only ever needs "where is the
// text for this import", never CUE-style package loading.
type Resolver struct {
	// LibPaths is the ordered list of directories searched after
	// direct and relative resolution both fail.
	LibPaths []string

	// exists is overridable in tests; defaults to checking the real
	// filesystem.
	exists func(path string) bool
}

// New returns a Resolver that searches libPaths, in order, as its
// last-resort tier, checking candidate existence on the real
// filesystem. Use [Resolver.SetExists] when imports should instead be
// checked against a DocumentManager (e.g. one serving in-memory editor
// buffers that were never written to disk).
func New(libPaths []string) *Resolver {
	return &Resolver{LibPaths: libPaths, exists: fileExists}
}

// SetExists overrides how Resolve decides a candidate path exists.
// internal/compiler.Service wires this to its DocumentManager, so that
// imports resolve against whatever documents the core actually has —
// open editor buffers as well as disk files — not just bare os.Stat.
func (r *Resolver) SetExists(exists func(path string) bool) {
	r.exists = exists
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Resolve tries, in order: (1) spec is already absolute and exists,
// (2) spec resolved against fromFile's directory exists, (3) spec
// resolved against each LibPaths entry, in order, exists. ok is false
// if none of the three tiers finds a file.
func (r *Resolver) Resolve(fromFile, spec string) (uri string, ok bool) {
	if filepath.IsAbs(spec) {
		if r.exists(spec) {
			return filepath.Clean(spec), true
		}
		return "", false
	}

	rel := filepath.Join(filepath.Dir(fromFile), spec)
	if r.exists(rel) {
		return rel, true
	}

	for _, dir := range r.LibPaths {
		candidate := filepath.Join(dir, spec)
		if r.exists(candidate) {
			return candidate, true
		}
	}

	return "", false
}
