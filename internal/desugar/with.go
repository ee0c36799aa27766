// Package desugar rewrites the AST after ownership and borrow checking and
// before monomorphization: `with` statements become `let` plus
// `defer`, and `must-inline` parameter closures are spliced into their
// call expressions. Both passes run after those checks so the later stages
// (mono, codegen) only ever see the desugared form.
package desugar

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/token"
)

// WithPass rewrites `with name = resource: body` into
//
//	let name = resource
//	defer: name.close
//	body
//
// Grounded on original_source/forge's WithDesugarPass, whose Python
// docstring names this exact transformation.
type WithPass struct{}

func NewWithPass() *WithPass { return &WithPass{} }

func (p *WithPass) DesugarProgram(prog *ast.Program) {
	for _, item := range prog.Items {
		p.desugarItem(item)
	}
}

func (p *WithPass) desugarItem(item ast.Statement) {
	switch it := item.(type) {
	case *ast.FunctionDecl:
		if it.Body != nil {
			it.Body = p.desugarBlock(it.Body)
		}
	case *ast.TraitDecl:
		for _, m := range it.Methods {
			if m.Body != nil {
				m.Body = p.desugarBlock(m.Body)
			}
		}
	case *ast.ImplDecl:
		for _, m := range it.Methods {
			if m.Body != nil {
				m.Body = p.desugarBlock(m.Body)
			}
		}
	}
}

func (p *WithPass) desugarBlock(block *ast.BlockStatement) *ast.BlockStatement {
	var out []ast.Statement
	for _, stmt := range block.Statements {
		out = append(out, p.desugarStatement(stmt)...)
	}
	return &ast.BlockStatement{Token: block.Token, Statements: out}
}

func (p *WithPass) desugarStatement(stmt ast.Statement) []ast.Statement {
	switch s := stmt.(type) {
	case *ast.WithStatement:
		return p.desugarWith(s)
	case *ast.IfStatement:
		s.Then = p.desugarBlock(s.Then)
		for _, elif := range s.ElifClauses {
			elif.Body = p.desugarBlock(elif.Body)
		}
		if s.Else != nil {
			s.Else = p.desugarBlock(s.Else)
		}
		return []ast.Statement{s}
	case *ast.WhileStatement:
		s.Body = p.desugarBlock(s.Body)
		return []ast.Statement{s}
	case *ast.ForRangeStatement:
		s.Body = p.desugarBlock(s.Body)
		return []ast.Statement{s}
	case *ast.BlockStatement:
		return []ast.Statement{p.desugarBlock(s)}
	default:
		return []ast.Statement{stmt}
	}
}

// desugarWith implements the rewrite itself: a WithStatement's body
// becomes the tail of the enclosing block, preceded by a let binding and
// a defer of the resource's close method.
func (p *WithPass) desugarWith(s *ast.WithStatement) []ast.Statement {
	letStmt := &ast.LetStatement{
		Token: s.Token,
		Name: s.Name,
		Value: s.Resource,
	}
	deferStmt := &ast.DeferStatement{
		Token: s.Token,
		Call: &ast.MethodCallExpression{
			Token: s.Token,
			Receiver: &ast.Identifier{Token: synthTok(s.Token, s.Name), Name: s.Name},
			Method: "close",
		},
	}
	body := p.desugarBlock(s.Body)
	out := []ast.Statement{letStmt, deferStmt}
	out = append(out, body.Statements...)
	return out
}

func synthTok(base token.Token, lexeme string) token.Token {
	t := token.Synthetic(lexeme)
	t.Span = base.Span
	return t
}
