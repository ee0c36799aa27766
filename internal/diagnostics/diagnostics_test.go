package diagnostics

import (
	"testing"

	"github.com/funvibe/pyrite/internal/token"
)

func tok(line int) token.Token {
	return token.Token{Lexeme: "x", Span: token.Span{File: "t.pyr", StartLine: line, StartCol: 1, EndLine: line, EndCol: 2}}
}

func TestBagAccumulatesUpToSoftCap(t *testing.T) {
	b := NewBag()
	b.SoftCap = 3
	for i := 0; i < 10; i++ {
		b.Add(New(ErrUndefinedName, tok(i), "undefined"))
	}
	if got := b.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3 (soft cap)", got)
	}
}

func TestBagEmpty(t *testing.T) {
	b := NewBag()
	if !b.Empty() {
		t.Fatal("fresh bag should be empty")
	}
	b.Add(New(ErrRedeclaration, tok(1), "dup"))
	if b.Empty() {
		t.Fatal("bag with an item should not be empty")
	}
}

func TestDiagnosticErrorIncludesSpanAndCode(t *testing.T) {
	d := New(ErrTypeMismatch, tok(5), "want Int32, got Bool")
	got := d.Error()
	want := "t.pyr:5:1: [T001] want Int32, got Bool"
	if got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestExplainKnownAndUnknownCodes(t *testing.T) {
	if Explain(ErrUseAfterMove) == "" {
		t.Fatal("expected a non-empty explanation for O001")
	}
	if Explain(ErrorCode("Z999")) != "" {
		t.Fatal("expected no explanation for an unknown code")
	}
}

func TestNewAtUsesGivenSpanDirectly(t *testing.T) {
	span := token.Span{File: "a.pyr", StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 4}
	d := NewAt(ErrInternalCompilerError, span, "bug")
	if d.Span != span {
		t.Fatalf("Span = %+v, want %+v", d.Span, span)
	}
}
