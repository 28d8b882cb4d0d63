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

import "github.com/jsonnet-lang/jls/jsonnet/token"

// CursorOutcome classifies the result of [FindNode].
type CursorOutcome int

const (
	// CursorFound means exactly one tightest enclosing node was
	// identified.
	CursorFound CursorOutcome = iota
	// CursorAfterLineEnd means the cursor lies after the last
	// non-whitespace token on its line.
	CursorAfterLineEnd
	// CursorInsideWhitespace means the cursor lies inside whitespace
	// between two tokens (on the same line or spanning a line break).
	CursorInsideWhitespace
	// CursorUnanalyzable means the cursor lies outside any node (e.g.
	// before the first token, or inside leading fodder) with no usable
	// context at all.
	CursorUnanalyzable
)

// CursorResult is the outcome of querying [FindNode].
type CursorResult struct {
	Outcome CursorOutcome

	// Node is set only when Outcome == CursorFound: the tightest node
	// whose range encloses the cursor.
	Node Node

	// PrecedingTerminal and EnclosingNonLeaf are set only for the two
	// "analyzable failure" outcomes, giving completion enough context to
	// work with mid-typing input.
	PrecedingTerminal Node
	EnclosingNonLeaf  Node
}

// contains reports whether loc falls within r, inclusive of both
// endpoints, using a line-aware rule: on the first line, column must be
// >= Begin.Column; on the last, <= End.Column; any column on interior
// lines.
func contains(r token.LocationRange, loc token.Location) bool {
	if loc.Line < r.Begin.Line || loc.Line > r.End.Line {
		return false
	}
	if loc.Line == r.Begin.Line && loc.Column < r.Begin.Column {
		return false
	}
	if loc.Line == r.End.Line && loc.Column > r.End.Column {
		return false
	}
	return true
}

// ordinal gives a total order over locations cheap enough to compare
// range "width" without re-deriving line lengths; it is only ever used
// to compare two ranges that are already known to both contain the
// same cursor, so the precise scale doesn't matter, only monotonicity.
func ordinal(l token.Location) int64 {
	return int64(l.Line)*1_000_000 + int64(l.Column)
}

func width(r token.LocationRange) int64 {
	return ordinal(r.End) - ordinal(r.Begin)
}

// FindNode returns the tightest AST node enclosing loc. tokens is the
// full token stream for the document, needed to classify the two
// "analyzable failure" outcomes when the cursor touches no token (it
// sits in whitespace, or past the last token) even if some node's
// range spans it.
func FindNode(root Node, tokens []token.Token, loc token.Location) CursorResult {
	var best Node
	var bestWidth int64

	Walk(root, func(n Node) bool {
		if !contains(n.Loc(), loc) {
			return false
		}
		w := width(n.Loc())
		if best == nil || w <= bestWidth {
			best = n
			bestWidth = w
		}
		return true
	}, nil)

	if best != nil && len(tokens) > 0 {
		// A cursor that touches no token lies in whitespace between
		// tokens: an analyzable failure, not a hit on whichever node
		// happens to span the gap.
		onToken := false
		for _, t := range tokens {
			if t.Kind != token.EndOfFile && contains(t.Loc, loc) {
				onToken = true
				break
			}
		}
		if !onToken {
			best = nil
		}
	}

	if best != nil {
		return CursorResult{Outcome: CursorFound, Node: best}
	}

	return findFailure(root, tokens, loc)
}

func findFailure(root Node, tokens []token.Token, loc token.Location) CursorResult {
	precedingIdx := -1
	for i, t := range tokens {
		if t.Kind == token.EndOfFile {
			break
		}
		if !loc.Before(t.Loc.End) {
			precedingIdx = i
		} else {
			break
		}
	}

	if precedingIdx < 0 {
		return CursorResult{Outcome: CursorUnanalyzable}
	}

	preceding := tokens[precedingIdx]
	var next *token.Token
	if precedingIdx+1 < len(tokens) {
		next = &tokens[precedingIdx+1]
	}

	outcome := CursorInsideWhitespace
	if next == nil || next.Loc.Begin.Line > preceding.Loc.End.Line {
		outcome = CursorAfterLineEnd
	} else if next.Loc.Begin.Line == loc.Line && loc.Line != preceding.Loc.End.Line {
		// Cursor is on a line of its own between two tokens: treat as
		// whitespace, not "after line end", since there is a following
		// token still to come on a later line than the preceding token.
		outcome = CursorInsideWhitespace
	} else if preceding.Loc.End.Line == loc.Line && (next == nil || next.Loc.Begin.Line != loc.Line) {
		outcome = CursorAfterLineEnd
	}

	precedingNode := findLeafAt(root, preceding.Loc.Begin)
	result := CursorResult{Outcome: outcome, PrecedingTerminal: precedingNode}
	if precedingNode != nil {
		result.EnclosingNonLeaf = nearestNonLeafAncestor(precedingNode)
	}
	return result
}

// findLeafAt returns the innermost node whose range begins exactly at
// loc, used to identify "the terminal the cursor follows" as an AST
// node rather than a bare token.
func findLeafAt(root Node, loc token.Location) Node {
	var best Node
	var bestWidth int64
	Walk(root, func(n Node) bool {
		r := n.Loc()
		if r.Begin != loc {
			return true
		}
		w := width(r)
		if best == nil || w <= bestWidth {
			best = n
			bestWidth = w
		}
		return true
	}, nil)
	return best
}

func nearestNonLeafAncestor(n Node) Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if len(Children(cur)) > 0 {
			return cur
		}
	}
	return nil
}
