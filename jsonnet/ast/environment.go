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

package ast

// Binding is a [*LocalBind], a [*FunctionParam], or (for a
// comprehension's `for x in e` variable) the [*Identifier] that
// introduces the name; it is what a name in an [Environment] maps to.
// The node types already carry everything the resolver needs, so
// Binding is simply the Node interface narrowed by convention rather
// than a new interface with marker methods — callers type-switch on the
// concrete type, exactly as [Resolver] does.
type Binding = Node

// Environment is an immutable mapping from identifier name to binding.
// It is represented as a parent-pointer chain of small frames rather
// than a copied map, so that creating a child environment that only
// adds a handful of names (the common case for both `local` and
// function parameter scopes) is O(number of new names) rather than
// O(size of parent).
type Environment struct {
	parent   *Environment
	bindings map[string]Binding
}

// NewEnvironment returns the empty (root) environment.
func NewEnvironment() *Environment {
	return nil
}

// Child returns a new environment that shadows e with the given
// bindings; e itself (and any environment derived from it) is
// unaffected, making Environment safe to share across nodes.
func (e *Environment) Child(bindings map[string]Binding) *Environment {
	if len(bindings) == 0 {
		return e
	}
	return &Environment{parent: e, bindings: bindings}
}

// Lookup searches the environment chain, innermost first, returning
// the binding for name and whether it was found.
func (e *Environment) Lookup(name string) (Binding, bool) {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Names returns every name visible in e, innermost binding winning on
// shadowing, for use by completion.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for f := e; f != nil; f = f.parent {
		for name := range f.bindings {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
