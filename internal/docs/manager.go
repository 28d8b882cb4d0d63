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

// Package docs implements the DocumentManager collaborator: something
// that turns a URI into source text and an optional version. Two
// implementations are provided, mirroring cuelang.org/go's
// internal/lsp/fscache split between editor-owned overlays and the
// bare filesystem: an in-memory Manager for editor buffers, and a
// Filesystem manager for plain file reads (version is always nil,
// meaning "always re-parse").
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Document is one entry of a DocumentManager: text plus an optional
// editor-assigned version.
type Document struct {
	Text    string
	Version *int
}

// Manager is the DocumentManager contract consumed by
// internal/compiler (and jsonnet/resolver through it): Get
// retrieves a document by URI, returning ok=false if the URI is
// unrecognized.
type Manager interface {
	Get(uri string) (Document, bool)
}

// MemoryManager is an in-memory DocumentManager backing editor-owned
// buffers: onDocumentOpen/onDocumentSave populate it directly, so no
// disk I/O is involved for documents the editor has open. The editor
// is the source of truth for these.
type MemoryManager struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryManager returns an empty MemoryManager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{docs: make(map[string]Document)}
}

// Set installs or replaces the document at uri. version is nil for
// sources that don't carry editor versioning.
func (m *MemoryManager) Set(uri, text string, version *int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[uri] = Document{Text: text, Version: version}
}

// Delete removes the document at uri, if present.
func (m *MemoryManager) Delete(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, uri)
}

// Get implements Manager.
func (m *MemoryManager) Get(uri string) (Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[uri]
	return d, ok
}

// FilesystemManager reads documents straight off disk, for imported
// files an editor never opened. URIs are plain filesystem paths;
// version is always nil, so CompilerService.Cache always re-reads and
// re-parses.
type FilesystemManager struct{}

// NewFilesystemManager returns a FilesystemManager.
func NewFilesystemManager() *FilesystemManager {
	return &FilesystemManager{}
}

// Get implements Manager by reading the file at uri.
func (f *FilesystemManager) Get(uri string) (Document, bool) {
	data, err := os.ReadFile(uri)
	if err != nil {
		return Document{}, false
	}
	return Document{Text: string(data)}, true
}

// Layered tries each Manager in order, returning the first hit. It lets
// a caller put a MemoryManager (editor overlays) ahead of a
// FilesystemManager (everything else) before handing the result to
// internal/compiler.New, matching the teacher's fscache precedence of
// in-memory overlays over disk.
type Layered struct {
	layers []Manager
}

// NewLayered returns a Manager that consults layers in order.
func NewLayered(layers ...Manager) *Layered {
	return &Layered{layers: layers}
}

func (l *Layered) Get(uri string) (Document, bool) {
	for _, layer := range l.layers {
		if d, ok := layer.Get(uri); ok {
			return d, true
		}
	}
	return Document{}, false
}

// PathToURI resolves filePath relative to currentPath into an
// absolute URI, an optional DocumentManager operation. Both managers
// here use plain filesystem paths as URIs, so this is just
// filepath.Abs relative to currentPath's directory.
func PathToURI(filePath, currentPath string) (string, error) {
	if filepath.IsAbs(filePath) {
		return filepath.Clean(filePath), nil
	}
	dir := filepath.Dir(currentPath)
	abs, err := filepath.Abs(filepath.Join(dir, filePath))
	if err != nil {
		return "", fmt.Errorf("resolving %q relative to %q: %w", filePath, currentPath, err)
	}
	return abs, nil
}
