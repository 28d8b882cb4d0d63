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

package token

import "fmt"

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	// ILLEGAL marks a token the lexer could not classify; lexing of a
	// well-formed document never produces one (a lex error is returned
	// instead), but parser error-recovery tests may construct one.
	ILLEGAL Kind = iota

	EndOfFile

	// Punctuation: single-purpose characters that are never absorbed
	// into an operator run, distinct from the
	// "! $ : ~ + - & | ^ = < > * / %" symbol charset below.
	BraceL
	BraceR
	BracketL
	BracketR
	Comma
	Dollar // a lone '$', special-cased out of the operator charset
	Dot
	ParenL
	ParenR
	Semicolon

	Ident
	Number

	// Operator is a run of one or more characters from the symbol
	// charset. The parser, not the lexer, disambiguates its Data text
	// into the field separators (":", "::", ":::", "+:", "+::",
	// "+:::") and the unary/binary operator tables.
	Operator

	// String literal forms
	StringSingle
	StringDouble
	StringBlock

	CommentCpp // // ... tokenized (not folded into fodder)

	// Keywords
	Assert
	Else
	Error
	False
	For
	Function
	If
	Import
	ImportStr
	In
	Local
	Null
	Self
	Super
	TailStrict
	Then
	True
)

var kindNames = map[Kind]string{
	ILLEGAL:         "ILLEGAL",
	EndOfFile:       "end of file",
	BraceL:          "{",
	BraceR:          "}",
	BracketL:        "[",
	BracketR:        "]",
	Comma:           ",",
	Dollar:          "$",
	Dot:             ".",
	ParenL:          "(",
	ParenR:          ")",
	Semicolon:       ";",
	Ident:           "IDENTIFIER",
	Number:          "NUMBER",
	Operator:        "OPERATOR",
	StringSingle:    "STRING",
	StringDouble:    "STRING",
	StringBlock:     "STRING_BLOCK",
	CommentCpp:      "COMMENT",
	Assert:          "assert",
	Else:            "else",
	Error:           "error",
	False:           "false",
	For:             "for",
	Function:        "function",
	If:              "if",
	Import:          "import",
	ImportStr:       "importstr",
	In:              "in",
	Local:           "local",
	Null:            "null",
	Self:            "self",
	Super:           "super",
	TailStrict:      "tailstrict",
	Then:            "then",
	True:            "true",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps the fixed keyword table to their token kind. Anything
// not in this table that otherwise looks like an identifier lexes as
// [Ident].
var Keywords = map[string]Kind{
	"assert":     Assert,
	"else":       Else,
	"error":      Error,
	"false":      False,
	"for":        For,
	"function":   Function,
	"if":         If,
	"import":     Import,
	"importstr":  ImportStr,
	"in":         In,
	"local":      Local,
	"null":       Null,
	"self":       Self,
	"super":      Super,
	"tailstrict": TailStrict,
	"then":       Then,
	"true":       True,
}

// FodderKind classifies one element of a token's leading [Fodder].
type FodderKind int

const (
	// Whitespace is a coalesced run of spaces/tabs/CR/LF.
	Whitespace FodderKind = iota
	// CommentC is a /* ... */ comment.
	CommentC
	// CommentCppFodder is a // ... comment held as fodder. jsonnet/lexer
	// never produces it: every // comment becomes a [CommentCpp] token.
	CommentCppFodder
	// CommentHash is a # ... comment.
	CommentHash
)

// FodderElement is one whitespace-or-comment element preceding a token.
type FodderElement struct {
	Kind FodderKind
	// Text is the comment text (including the comment markers), or for
	// Whitespace the run's own characters.
	Text string
	// Blanks is the number of blank lines between this element and the
	// previous one (or the start of the fodder run); used to decide
	// whether two adjacent comments belong to the same "heading" block.
	Blanks int
}

// Fodder is the ordered run of whitespace/comments preceding a token.
type Fodder []FodderElement

// Token is one lexical token together with its leading fodder and exact
// source range.
type Token struct {
	Kind Kind
	// Fodder is the whitespace/comments immediately preceding this
	// token.
	Fodder Fodder
	// Data is the lexeme content: identifier/keyword text, the digits
	// of a number, the unescaped-at-lex-time body of a string (without
	// delimiters), or the run of characters forming an [Operator]. Empty
	// for purely symbolic tokens ({, }, comma, ...).
	Data string

	// StringBlockIndent is the whitespace prefix shared by every line of
	// a |||-block string (set only when Kind == StringBlock).
	StringBlockIndent string
	// StringBlockTermIndent is the whitespace prefix of the terminating
	// ||| line (set only when Kind == StringBlock).
	StringBlockTermIndent string

	Loc LocationRange
}

// String renders the token the way parser error messages refer to it:
// fixed-spelling tokens (keywords, operator runs) print their lexeme
// alone, free-form tokens print kind plus quoted data.
func (t Token) String() string {
	if t.Data == "" {
		return t.Kind.String()
	}
	if t.Kind == Operator || Keywords[t.Data] == t.Kind {
		return t.Data
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Data)
}
