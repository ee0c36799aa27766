// Package token holds the source-location metadata carried by every AST
// node: a Span (file, start line/col, end line/col) and the Token that
// anchors a node for diagnostics.
package token

import "fmt"

// Span is a source range: (StartLine, StartCol) through (EndLine, EndCol),
// both inclusive, 1-indexed.
type Span struct {
	File string
	StartLine int
	StartCol int
	EndLine int
	EndCol int
}

// Valid reports whether the span is non-degenerate: start does not come
// after end, and it names a file.
func (s Span) Valid() bool {
	if s.File == "" {
		return false
	}
	if s.StartLine > s.EndLine {
		return false
	}
	if s.StartLine == s.EndLine && s.StartCol > s.EndCol {
		return false
	}
	return true
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartCol)
}

// Join returns the smallest span covering both a and b. Either may be the
// zero Span, in which case the other is returned unchanged.
func Join(a, b Span) Span {
	if a.File == "" {
		return b
	}
	if b.File == "" {
		return a
	}
	out := a
	if b.StartLine < out.StartLine || (b.StartLine == out.StartLine && b.StartCol < out.StartCol) {
		out.StartLine, out.StartCol = b.StartLine, b.StartCol
	}
	if b.EndLine > out.EndLine || (b.EndLine == out.EndLine && b.EndCol > out.EndCol) {
		out.EndLine, out.EndCol = b.EndLine, b.EndCol
	}
	return out
}

// Kind distinguishes the lexical category of a Token. The lexer that
// produces these is an excluded collaborator ; the core only
// needs enough of a token to carry a span and a lexeme for diagnostics.
type Kind int

const (
	EOF Kind = iota
	Ident
	Int
	Float
	Char
	String
	Keyword
	Operator
	Punct
)

// Token anchors an AST node to the source text for error reporting. A
// zero-value Token is safe to use (e.g. for synthesized nodes produced by
// the monomorphizer or desugaring passes).
type Token struct {
	Kind Kind
	Lexeme string
	Span Span
}

// GetSpan returns the token's span, or the zero Span if the token itself is
// the zero value.
func (t Token) GetSpan() Span {
	return t.Span
}

func (t Token) String() string {
	if t.Lexeme == "" {
		return t.Span.String()
	}
	return fmt.Sprintf("%s %q", t.Span.String(), t.Lexeme)
}

// Synthetic returns a Token with no real source position, used for nodes
// introduced by desugaring or monomorphization.
func Synthetic(lexeme string) Token {
	return Token{Kind: Ident, Lexeme: lexeme}
}
