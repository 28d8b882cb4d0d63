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

package libpath_test

import (
	"testing"

	"github.com/jsonnet-lang/jls/internal/libpath"
)

func TestResolveRelativeToImportingFile(t *testing.T) {
	r := libpath.New(nil)
	r.SetExists(func(path string) bool { return path == "dir/a.jsonnet" })

	uri, ok := r.Resolve("dir/main.jsonnet", "a.jsonnet")
	if !ok {
		t.Fatal("Resolve: not found")
	}
	if uri != "dir/a.jsonnet" {
		t.Errorf("uri = %q, want %q", uri, "dir/a.jsonnet")
	}
}

func TestResolveSearchesLibPathInOrder(t *testing.T) {
	r := libpath.New([]string{"/lib1", "/lib2"})
	r.SetExists(func(path string) bool { return path == "/lib2/vendor/a.jsonnet" })

	uri, ok := r.Resolve("main.jsonnet", "vendor/a.jsonnet")
	if !ok {
		t.Fatal("Resolve: not found")
	}
	if uri != "/lib2/vendor/a.jsonnet" {
		t.Errorf("uri = %q, want %q", uri, "/lib2/vendor/a.jsonnet")
	}
}

func TestResolveAbsoluteSpec(t *testing.T) {
	r := libpath.New(nil)
	r.SetExists(func(path string) bool { return path == "/abs/a.jsonnet" })

	uri, ok := r.Resolve("main.jsonnet", "/abs/a.jsonnet")
	if !ok {
		t.Fatal("Resolve: not found")
	}
	if uri != "/abs/a.jsonnet" {
		t.Errorf("uri = %q, want %q", uri, "/abs/a.jsonnet")
	}
}

func TestResolveNotFoundAnywhere(t *testing.T) {
	r := libpath.New([]string{"/lib"})
	r.SetExists(func(string) bool { return false })

	_, ok := r.Resolve("main.jsonnet", "missing.jsonnet")
	if ok {
		t.Fatal("Resolve found a file that exists() always rejects")
	}
}
