package symbols

import (
	"testing"

	"github.com/funvibe/pyrite/internal/token"
	"github.com/funvibe/pyrite/internal/typesystem"
)

func tok(lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, Span: token.Span{File: "t.pyr", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}}
}

func TestDefineAndLookupInSameScope(t *testing.T) {
	r := New()
	sym, diag := r.Define("x", VariableSymbol, typesystem.Int{Width: 32}, false, tok("x"))
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	got, ok := r.Lookup("x")
	if !ok || got != sym {
		t.Fatalf("Lookup(\"x\") = %v, %v; want %v, true", got, ok, sym)
	}
}

func TestRedeclarationOfFunctionIsRejected(t *testing.T) {
	r := New()
	if _, diag := r.Define("f", FunctionSymbol, nil, false, tok("f")); diag != nil {
		t.Fatalf("first Define unexpectedly failed: %v", diag)
	}
	_, diag := r.Define("f", FunctionSymbol, nil, false, tok("f"))
	if diag == nil {
		t.Fatal("expected a redeclaration diagnostic")
	}
	if diag.Code != "R002" {
		t.Fatalf("diag.Code = %s, want R002", diag.Code)
	}
}

func TestVariableShadowingIsAllowed(t *testing.T) {
	r := New()
	if _, diag := r.Define("x", VariableSymbol, nil, false, tok("x")); diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if _, diag := r.Define("x", VariableSymbol, nil, true, tok("x")); diag != nil {
		t.Fatalf("shadowing a variable with another variable should be allowed, got: %v", diag)
	}
}

func TestScopeExitFallsBackToParentBinding(t *testing.T) {
	r := New()
	outer, _ := r.Define("x", VariableSymbol, typesystem.Bool{}, false, tok("x"))
	r.EnterScope()
	r.Define("x", VariableSymbol, typesystem.Int{Width: 64}, true, tok("x"))
	if sym, _ := r.Lookup("x"); sym.Type != (typesystem.Int{Width: 64}) {
		t.Fatalf("inner scope should see its own shadow, got %v", sym.Type)
	}
	r.ExitScope()
	if sym, _ := r.Lookup("x"); sym != outer {
		t.Fatal("leaving the inner scope should reveal the outer binding again")
	}
}

func TestLookupFunctionFiltersByKind(t *testing.T) {
	r := New()
	r.Define("count", VariableSymbol, typesystem.Int{Width: 32}, true, tok("count"))
	if _, ok := r.LookupFunction("count"); ok {
		t.Fatal("a variable named count should not resolve as a function")
	}
	r.Define("sum", FunctionSymbol, nil, false, tok("sum"))
	if _, ok := r.LookupFunction("sum"); !ok {
		t.Fatal("expected sum to resolve as a function")
	}
}
