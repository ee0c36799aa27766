package borrowck

import (
	"testing"

	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/token"
)

func tok(lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, Span: token.Span{File: "t.pyr", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}}
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Token: tok(name), Name: name} }

func fn(params []*ast.Param, body *ast.BlockStatement) *ast.FunctionDecl {
	return &ast.FunctionDecl{Token: tok("f"), Name: "f", Params: params, Body: body}
}

func block(stmts ...ast.Statement) *ast.BlockStatement {
	return &ast.BlockStatement{Token: tok("{"), Statements: stmts}
}

func hasCode(diags []*diagnostics.Diagnostic, code diagnostics.ErrorCode) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestSharedBorrowThenWriteIsRejected(t *testing.T) {
	// let a = &x; x = 1;
	body := block(
		&ast.LetStatement{Token: tok("let"), Name: "a", Value: &ast.RefExpression{Token: tok("&"), Mutable: false, Operand: ident("x")}},
		&ast.AssignStatement{Token: tok("="), Target: ident("x"), Value: ident("_")},
	)
	c := New()
	c.CheckFunction(fn(nil, body))
	if !hasCode(c.Diagnostics(), diagnostics.ErrBorrowWhileExclusivelyBorrowed) {
		t.Fatalf("diagnostics = %v, want B001 for writing to a shared-borrowed variable", c.Diagnostics())
	}
}

func TestExclusiveBorrowTakenTwiceIsRejected(t *testing.T) {
	// let a = &mut x; let b = &mut x;
	body := block(
		&ast.LetStatement{Token: tok("let"), Name: "a", Value: &ast.RefExpression{Token: tok("&"), Mutable: true, Operand: ident("x")}},
		&ast.LetStatement{Token: tok("let"), Name: "b", Value: &ast.RefExpression{Token: tok("&"), Mutable: true, Operand: ident("x")}},
	)
	c := New()
	c.CheckFunction(fn(nil, body))
	if !hasCode(c.Diagnostics(), diagnostics.ErrExclusiveBorrowWhileAliased) {
		t.Fatalf("diagnostics = %v, want B002 for a second exclusive borrow", c.Diagnostics())
	}
}

func TestExclusiveBorrowWhileSharedIsRejected(t *testing.T) {
	// let a = &x; let b = &mut x;
	body := block(
		&ast.LetStatement{Token: tok("let"), Name: "a", Value: &ast.RefExpression{Token: tok("&"), Mutable: false, Operand: ident("x")}},
		&ast.LetStatement{Token: tok("let"), Name: "b", Value: &ast.RefExpression{Token: tok("&"), Mutable: true, Operand: ident("x")}},
	)
	c := New()
	c.CheckFunction(fn(nil, body))
	if !hasCode(c.Diagnostics(), diagnostics.ErrExclusiveBorrowWhileAliased) {
		t.Fatalf("diagnostics = %v, want B002 for exclusively borrowing an already shared-borrowed variable", c.Diagnostics())
	}
}

func TestReturnedReferenceToLocalOutlivesScope(t *testing.T) {
	// let x = 1; return &x;
	body := block(
		&ast.LetStatement{Token: tok("let"), Name: "x", Value: &ast.IntegerLiteral{Token: tok("1"), Value: 1}},
		&ast.ReturnStatement{Token: tok("return"), Value: &ast.RefExpression{Token: tok("&"), Operand: ident("x")}},
	)
	c := New()
	c.CheckFunction(fn(nil, body))
	if !hasCode(c.Diagnostics(), diagnostics.ErrReferenceOutlivesReferent) {
		t.Fatalf("diagnostics = %v, want B003 for a reference to a local outliving its scope", c.Diagnostics())
	}
}

func TestReturnedReferenceToParameterIsAllowed(t *testing.T) {
	// fn f(x: Int32) { return &x; }
	body := block(
		&ast.ReturnStatement{Token: tok("return"), Value: &ast.RefExpression{Token: tok("&"), Operand: ident("x")}},
	)
	params := []*ast.Param{{Name: "x"}}
	c := New()
	c.CheckFunction(fn(params, body))
	if len(c.Diagnostics()) != 0 {
		t.Fatalf("diagnostics = %v, want none for a reference to a parameter", c.Diagnostics())
	}
}

func TestCleanFunctionProducesNoDiagnostics(t *testing.T) {
	// let x = 1; let a = &x; x;
	body := block(
		&ast.LetStatement{Token: tok("let"), Name: "x", Value: &ast.IntegerLiteral{Token: tok("1"), Value: 1}},
		&ast.LetStatement{Token: tok("let"), Name: "a", Value: &ast.RefExpression{Token: tok("&"), Operand: ident("x")}},
		&ast.ExpressionStatement{Token: tok("x"), Expression: ident("x")},
	)
	c := New()
	c.CheckFunction(fn(nil, body))
	if len(c.Diagnostics()) != 0 {
		t.Fatalf("diagnostics = %v, want none", c.Diagnostics())
	}
}

func TestBorrowReleasedAtScopeExitAllowsLaterWrite(t *testing.T) {
	// { let a = &x; } x = 1;
	body := block(
		block(&ast.LetStatement{Token: tok("let"), Name: "a", Value: &ast.RefExpression{Token: tok("&"), Operand: ident("x")}}),
		&ast.AssignStatement{Token: tok("="), Target: ident("x"), Value: ident("_")},
	)
	c := New()
	c.CheckFunction(fn(nil, body))
	if len(c.Diagnostics()) != 0 {
		t.Fatalf("diagnostics = %v, want none once the inner scope's borrow is released", c.Diagnostics())
	}
}
