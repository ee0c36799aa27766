package checker

import (
	"testing"

	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/symbols"
	"github.com/funvibe/pyrite/internal/token"
)

func tok(lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, Span: token.Span{File: "t.pyr", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}}
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Token: tok(name), Name: name} }

func namedType(name string) *ast.NamedTypeExpr { return &ast.NamedTypeExpr{Token: tok(name), Name: name} }

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

func newChecker() *Checker {
	r := symbols.New()
	r.RegisterBuiltins()
	return New(r)
}

func TestReturnTypeMismatchIsRejected(t *testing.T) {
	// fn f() -> Int32 { return "oops"; }
	fn := &ast.FunctionDecl{
		Token:      tok("f"),
		Name:       "f",
		ReturnType: namedType("Int32"),
		Body: block(
			&ast.ReturnStatement{Token: tok("return"), Value: &ast.StringLiteral{Token: tok(`"oops"`), Value: "oops"}},
		),
	}
	prog := &ast.Program{Items: []ast.Statement{fn}}
	c := newChecker()
	diags := c.Check(prog)
	if !hasCode(diags, diagnostics.ErrTypeMismatch) {
		t.Fatalf("diagnostics = %v, want T001 for a String returned where Int32 is declared", diags)
	}
}

func TestWellTypedFunctionProducesNoDiagnostics(t *testing.T) {
	// fn f(x: Int32) -> Int32 { return x + 1; }
	fn := &ast.FunctionDecl{
		Token:      tok("f"),
		Name:       "f",
		Params:     []*ast.Param{{Name: "x", Type: namedType("Int32")}},
		ReturnType: namedType("Int32"),
		Body: block(
			&ast.ReturnStatement{Token: tok("return"), Value: &ast.BinaryExpression{
				Token: tok("+"), Op: "+",
				Left:  ident("x"),
				Right: &ast.IntegerLiteral{Token: tok("1"), Value: 1},
			}},
		),
	}
	prog := &ast.Program{Items: []ast.Statement{fn}}
	c := newChecker()
	diags := c.Check(prog)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none", diags)
	}
}

func TestBinaryOperandMismatchIsRejected(t *testing.T) {
	// fn f() -> Int32 { return 1 + "a"; }
	fn := &ast.FunctionDecl{
		Token:      tok("f"),
		Name:       "f",
		ReturnType: namedType("Int32"),
		Body: block(
			&ast.ReturnStatement{Token: tok("return"), Value: &ast.BinaryExpression{
				Token: tok("+"), Op: "+",
				Left:  &ast.IntegerLiteral{Token: tok("1"), Value: 1},
				Right: &ast.StringLiteral{Token: tok(`"a"`), Value: "a"},
			}},
		),
	}
	prog := &ast.Program{Items: []ast.Statement{fn}}
	c := newChecker()
	diags := c.Check(prog)
	if !hasCode(diags, diagnostics.ErrTypeMismatch) {
		t.Fatalf("diagnostics = %v, want T001 for mismatched binary operands", diags)
	}
}

func TestUnresolvedIdentifierIsNotAnInternalError(t *testing.T) {
	// fn f() -> Int32 { return y; }
	fn := &ast.FunctionDecl{
		Token:      tok("f"),
		Name:       "f",
		ReturnType: namedType("Int32"),
		Body: block(
			&ast.ReturnStatement{Token: tok("return"), Value: ident("y")},
		),
	}
	prog := &ast.Program{Items: []ast.Statement{fn}}
	r := symbols.New()
	r.RegisterBuiltins()
	c := New(r)
	diags := c.Check(prog)
	// the resolver never ran over this hand-built program, so `y` never
	// entered scope; the checker still reports it as Void and moves on
	// rather than panicking.
	if hasCode(diags, diagnostics.ErrInternalCompilerError) {
		t.Fatalf("diagnostics = %v, want no internal-compiler-error for an unresolved identifier", diags)
	}
}

func TestBreakOutsideLoopIsRejected(t *testing.T) {
	fn := &ast.FunctionDecl{
		Token: tok("f"),
		Name:  "f",
		Body:  block(&ast.BreakStatement{Token: tok("break")}),
	}
	prog := &ast.Program{Items: []ast.Statement{fn}}
	c := newChecker()
	diags := c.Check(prog)
	if !hasCode(diags, diagnostics.ErrTypeMismatch) {
		t.Fatalf("diagnostics = %v, want a diagnostic for break outside of a loop", diags)
	}
}

func TestBreakInsideWhileLoopIsAccepted(t *testing.T) {
	fn := &ast.FunctionDecl{
		Token: tok("f"),
		Name:  "f",
		Body: block(&ast.WhileStatement{
			Token: tok("while"),
			Cond:  &ast.BoolLiteral{Token: tok("true"), Value: true},
			Body:  block(&ast.BreakStatement{Token: tok("break")}),
		}),
	}
	prog := &ast.Program{Items: []ast.Statement{fn}}
	c := newChecker()
	diags := c.Check(prog)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none for break inside a while loop", diags)
	}
}

func TestTypeOfRecordsInferredExpressionType(t *testing.T) {
	lit := &ast.IntegerLiteral{Token: tok("1"), Value: 1}
	fn := &ast.FunctionDecl{
		Token:      tok("f"),
		Name:       "f",
		ReturnType: namedType("Int32"),
		Body:       block(&ast.ReturnStatement{Token: tok("return"), Value: lit}),
	}
	prog := &ast.Program{Items: []ast.Statement{fn}}
	c := newChecker()
	c.Check(prog)
	got := c.TypeOf(lit)
	if got == nil || got.String() != "Int32" {
		t.Fatalf("TypeOf(1) = %v, want Int32", got)
	}
}
