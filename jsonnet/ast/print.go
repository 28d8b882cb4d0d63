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

import "strings"

// FieldSignature renders the small, single-line signature used for
// hover tooltips: "(field) name:", "(method) name(a, b)::", and so on.
// This is deliberately not a general pretty-printer.
func FieldSignature(f *ObjectField) string {
	var b strings.Builder

	kind := "field"
	if f.MethodSugar {
		kind = "method"
	}
	b.WriteString("(")
	b.WriteString(kind)
	b.WriteString(") ")

	name, ok := f.Name()
	if !ok {
		name = "<computed>"
	}
	b.WriteString(name)

	if f.MethodSugar {
		b.WriteString("(")
		for i, p := range f.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Id.Name)
			if p.DefaultValue != nil {
				b.WriteString("=...")
			}
		}
		b.WriteString(")")
	}

	b.WriteString(hideMarker(f.Hide, f.PlusSugar))

	return b.String()
}

func hideMarker(h HideKind, plus bool) string {
	marker := ":"
	switch h {
	case ObjectFieldHidden:
		marker = "::"
	case ObjectFieldVisible:
		marker = ":::"
	}
	if plus {
		marker = "+" + marker
	}
	return marker
}

// VariableSignature renders the hover signature for a free variable or
// local binding: "(variable) name".
func VariableSignature(name string) string {
	return "(variable) " + name
}

// HeadingCommentText joins a field's heading comments into the
// documentation string used by hover and completion, one comment per
// line with the leading "//" marker and a single space trimmed.
func HeadingCommentText(comments []*Comment) string {
	if len(comments) == 0 {
		return ""
	}
	lines := make([]string, len(comments))
	for i, c := range comments {
		text := strings.TrimPrefix(c.Text, "//")
		lines[i] = strings.TrimPrefix(text, " ")
	}
	return strings.Join(lines, "\n")
}
