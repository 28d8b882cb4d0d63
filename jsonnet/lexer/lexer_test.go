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

package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jsonnet-lang/jls/jsonnet/lexer"
	"github.com/jsonnet-lang/jls/jsonnet/token"
)

func mustLex(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := lexer.Lex("test.jsonnet", src, token.Unbounded)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	return toks
}

func TestLexLocalAssignment(t *testing.T) {
	toks := mustLex(t, "local foo = 3; foo")

	want := []struct {
		kind token.Kind
		data string
	}{
		{token.Local, ""},
		{token.Ident, "foo"},
		{token.Operator, "="},
		{token.Number, "3"},
		{token.Semicolon, ""},
		{token.Ident, "foo"},
		{token.EndOfFile, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind {
			t.Errorf("token %d: kind = %v, want %v", i, toks[i].Kind, w.kind)
		}
		if w.data != "" && toks[i].Data != w.data {
			t.Errorf("token %d: data = %q, want %q", i, toks[i].Data, w.data)
		}
	}

	last := toks[len(toks)-1]
	if last.Kind != token.EndOfFile {
		t.Fatalf("last token = %v, want EndOfFile", last.Kind)
	}
}

func TestLexEndOfFileLocation(t *testing.T) {
	toks := mustLex(t, "1 + 1")
	last := toks[len(toks)-1]
	if last.Kind != token.EndOfFile {
		t.Fatalf("last token kind = %v, want EndOfFile", last.Kind)
	}
	if last.Loc.Begin != last.Loc.End {
		t.Errorf("EndOfFile range = %v, want a zero-width range at EOF", last.Loc)
	}
}

func TestLexLeadingZeroSplitsIntoTwoNumbers(t *testing.T) {
	toks := mustLex(t, "0100")
	if toks[0].Kind != token.Number || toks[0].Data != "0" {
		t.Errorf("first token = %+v, want Number \"0\"", toks[0])
	}
	if toks[1].Kind != token.Number || toks[1].Data != "100" {
		t.Errorf("second token = %+v, want Number \"100\"", toks[1])
	}
}

func TestLexNumberWithExponent(t *testing.T) {
	toks := mustLex(t, "1.5e10")
	if toks[0].Kind != token.Number || toks[0].Data != "1.5e10" {
		t.Errorf("token = %+v, want Number \"1.5e10\"", toks[0])
	}
}

func TestLexMissingDigitAfterDotIsError(t *testing.T) {
	_, err := lexer.Lex("test.jsonnet", "1.", token.Unbounded)
	if err == nil {
		t.Fatal("expected a lex error for \"1.\"")
	}
}

func TestLexUnterminatedStringIsError(t *testing.T) {
	_, err := lexer.Lex("test.jsonnet", `"abc`, token.Unbounded)
	if err == nil {
		t.Fatal("expected a lex error for an unterminated string")
	}
}

func TestLexUnterminatedCCommentIsError(t *testing.T) {
	_, err := lexer.Lex("test.jsonnet", "/* abc", token.Unbounded)
	if err == nil {
		t.Fatal("expected a lex error for an unterminated /* comment")
	}
}

func TestLexBlockString(t *testing.T) {
	src := "|||\n  hello\n  world\n|||\n"
	toks := mustLex(t, src)
	if toks[0].Kind != token.StringBlock {
		t.Fatalf("first token kind = %v, want StringBlock", toks[0].Kind)
	}
	if toks[0].StringBlockIndent != "  " {
		t.Errorf("StringBlockIndent = %q, want %q", toks[0].StringBlockIndent, "  ")
	}
	want := "hello\nworld"
	if toks[0].Data != want {
		t.Errorf("Data = %q, want %q", toks[0].Data, want)
	}
}

func TestLexBlockStringBadFirstLineIsError(t *testing.T) {
	src := "|||\nhello\n|||\n"
	_, err := lexer.Lex("test.jsonnet", src, token.Unbounded)
	if err == nil {
		t.Fatal("expected a lex error: first line of a block string must start with whitespace")
	}
}

func TestLexBlockStringUnterminatedIsError(t *testing.T) {
	src := "|||\n  hello\n"
	_, err := lexer.Lex("test.jsonnet", src, token.Unbounded)
	if err == nil {
		t.Fatal("expected a lex error: unterminated block string")
	}
}

func TestLexLoneDollarIsDollarNotOperator(t *testing.T) {
	toks := mustLex(t, "$.foo")
	if toks[0].Kind != token.Dollar {
		t.Errorf("kind = %v, want Dollar", toks[0].Kind)
	}
}

func TestLexOperatorRunStopsAtCommentStart(t *testing.T) {
	// An adjacent "//" ends the operator run: "a+//c" lexes as a, +,
	// and a CommentCpp token. Trimming of trailing unary characters is
	// covered by TestLexWindbackSplitsTrailingUnaryChars.
	toks := mustLex(t, "a+//c\n")
	if toks[0].Kind != token.Ident {
		t.Fatalf("token 0 = %v, want Ident", toks[0].Kind)
	}
	if toks[1].Kind != token.Operator || toks[1].Data != "+" {
		t.Fatalf("token 1 = %+v, want Operator \"+\"", toks[1])
	}
	if toks[2].Kind != token.CommentCpp {
		t.Fatalf("token 2 = %v, want CommentCpp", toks[2].Kind)
	}
}

func TestLexHashCommentIsFodder(t *testing.T) {
	toks := mustLex(t, "# hello\nfoo")
	if len(toks) != 2 { // foo, EOF
		t.Fatalf("got %d tokens, want 2: %+v", len(toks), toks)
	}
	if toks[0].Kind != token.Ident || toks[0].Data != "foo" {
		t.Fatalf("token 0 = %+v, want Ident \"foo\"", toks[0])
	}
	if len(toks[0].Fodder) != 1 || toks[0].Fodder[0].Kind != token.CommentHash {
		t.Fatalf("Fodder = %+v, want one CommentHash element", toks[0].Fodder)
	}
}

func TestLexKeywordsRecognized(t *testing.T) {
	for kw, kind := range map[string]token.Kind{
		"assert":     token.Assert,
		"local":      token.Local,
		"function":   token.Function,
		"if":         token.If,
		"then":       token.Then,
		"else":       token.Else,
		"self":       token.Self,
		"super":      token.Super,
		"import":     token.Import,
		"importstr":  token.ImportStr,
		"error":      token.Error,
		"for":        token.For,
		"in":         token.In,
		"null":       token.Null,
		"true":       token.True,
		"false":      token.False,
		"tailstrict": token.TailStrict,
	} {
		toks := mustLex(t, kw)
		if toks[0].Kind != kind {
			t.Errorf("Lex(%q)[0].Kind = %v, want %v", kw, toks[0].Kind, kind)
		}
	}
}

func TestLexTokenLocationsExact(t *testing.T) {
	toks := mustLex(t, "local foo = 3; foo")

	type tokLoc struct {
		Kind token.Kind
		Loc  token.LocationRange
	}
	rng := func(bl, bc, el, ec int) token.LocationRange {
		return token.LocationRange{
			FileName: "test.jsonnet",
			Begin:    token.Location{Line: bl, Column: bc},
			End:      token.Location{Line: el, Column: ec},
		}
	}
	want := []tokLoc{
		{token.Local, rng(1, 1, 1, 6)},
		{token.Ident, rng(1, 7, 1, 10)},
		{token.Operator, rng(1, 11, 1, 12)},
		{token.Number, rng(1, 13, 1, 14)},
		{token.Semicolon, rng(1, 14, 1, 15)},
		{token.Ident, rng(1, 16, 1, 19)},
		{token.EndOfFile, rng(1, 19, 1, 19)},
	}
	got := make([]tokLoc, len(toks))
	for i, tok := range toks {
		got[i] = tokLoc{tok.Kind, tok.Loc}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token locations mismatch (-want +got):\n%s", diff)
	}
}

func TestLexUTF8ColumnsCountCodePoints(t *testing.T) {
	// Each code point advances the column by exactly one, regardless of
	// its UTF-8 byte width.
	toks := mustLex(t, `"αβγ" + x`)

	if toks[0].Kind != token.StringDouble || toks[0].Data != "αβγ" {
		t.Fatalf("token 0 = %+v, want StringDouble %q", toks[0], "αβγ")
	}
	wantStr := token.LocationRange{
		FileName: "test.jsonnet",
		Begin:    token.Location{Line: 1, Column: 1},
		End:      token.Location{Line: 1, Column: 6},
	}
	if toks[0].Loc != wantStr {
		t.Errorf("string loc = %v, want %v", toks[0].Loc, wantStr)
	}
	if got := toks[2].Loc.Begin; got != (token.Location{Line: 1, Column: 9}) {
		t.Errorf("x begins at %v, want 1:9", got)
	}
}

func TestLexAdjacentTokenRangesDoNotOverlap(t *testing.T) {
	src := "local x = {a: [1, 2.5e1]};  // c\nx.a[0] + $"
	toks := mustLex(t, src)
	for i, tok := range toks {
		if tok.Loc.End.Before(tok.Loc.Begin) {
			t.Errorf("token %d (%v): End %v before Begin %v", i, tok.Kind, tok.Loc.End, tok.Loc.Begin)
		}
		if i > 0 {
			prev := toks[i-1]
			if tok.Loc.Begin.Before(prev.Loc.End) {
				t.Errorf("token %d (%v) begins at %v, inside token %d (%v) ending at %v",
					i, tok.Kind, tok.Loc.Begin, i-1, prev.Kind, prev.Loc.End)
			}
		}
	}
}

func TestLexWindbackSplitsTrailingUnaryChars(t *testing.T) {
	toks := mustLex(t, "1+-2")

	want := []struct {
		kind token.Kind
		data string
	}{
		{token.Number, "1"},
		{token.Operator, "+"},
		{token.Operator, "-"},
		{token.Number, "2"},
		{token.EndOfFile, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Data != w.data {
			t.Errorf("token %d = %+v, want %v %q", i, toks[i], w.kind, w.data)
		}
	}
}

func TestLexMissingDigitAfterExponentIsError(t *testing.T) {
	for _, src := range []string{"1e", "1e+", "1e-"} {
		if _, err := lexer.Lex("test.jsonnet", src, token.Unbounded); err == nil {
			t.Errorf("Lex(%q): expected an error for a missing exponent digit", src)
		}
	}
}

func TestLexBlockStringTermIndent(t *testing.T) {
	src := "|||\n    hello\n  |||"
	toks := mustLex(t, src)
	tok := toks[0]
	if tok.Kind != token.StringBlock {
		t.Fatalf("kind = %v, want StringBlock", tok.Kind)
	}
	if tok.StringBlockIndent != "    " {
		t.Errorf("StringBlockIndent = %q, want 4 spaces", tok.StringBlockIndent)
	}
	if tok.StringBlockTermIndent != "  " {
		t.Errorf("StringBlockTermIndent = %q, want 2 spaces", tok.StringBlockTermIndent)
	}
}

func TestLexBlockStringAllowsBlankLines(t *testing.T) {
	src := "|||\n  a\n\n  b\n|||"
	toks := mustLex(t, src)
	if got, want := toks[0].Data, "a\n\nb"; got != want {
		t.Errorf("Data = %q, want %q", got, want)
	}
}

func TestLexRangeLimitedIsPrefix(t *testing.T) {
	src := "local foo = 3; foo + bar"
	full := mustLex(t, src)

	limited, err := lexer.Lex("test.jsonnet", src, token.Location{Line: 1, Column: 16})
	if err != nil {
		t.Fatalf("Lex with rangeMax: %v", err)
	}
	if len(limited) == 0 || len(limited) > len(full) {
		t.Fatalf("got %d limited tokens, full has %d", len(limited), len(full))
	}
	if last := limited[len(limited)-1]; last.Kind != token.EndOfFile {
		t.Fatalf("limited stream ends with %v, want EndOfFile", last.Kind)
	}
	for i, tok := range limited[:len(limited)-1] {
		if tok.Kind != full[i].Kind || tok.Data != full[i].Data {
			t.Fatalf("limited[%d] = %+v, full[%d] = %+v, want limited to be a prefix of full", i, tok, i, full[i])
		}
	}
}

func TestLexRangeLimitedStopsBeforeLaterLexError(t *testing.T) {
	// The breakage sits past the range limit, so it is never scanned:
	// an editor mid-edit can still lex the prefix its cursor sits in.
	src := `local s = "ok"; s + "unterminated`
	toks, err := lexer.Lex("test.jsonnet", src, token.Location{Line: 1, Column: 17})
	if err != nil {
		t.Fatalf("Lex with rangeMax before the bad string: %v", err)
	}
	if last := toks[len(toks)-1]; last.Kind != token.EndOfFile {
		t.Fatalf("stream ends with %v, want EndOfFile", last.Kind)
	}
}
