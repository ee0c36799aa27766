package desugar

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
)

// InlinePass splices a must-inline parameter closure's body into its call
// expression: `(fn[x] -> T { body })(arg)` becomes `{ let x = arg; body }`
// evaluated as an expression. The body's statements are spliced unchanged
// into an ast.InlinedBlockExpression, whose value is the `e` of its
// trailing `return e` (a parameter closure body is not itself a function,
// so its "return" is just the inlined expression's value).
//
// This implements the direct call-site form of
// "must-inline" contract. Scope decision (DESIGN.md): the distillation's
// original_source pass additionally propagates a parameter closure across
// an intervening function boundary (passed as an argument, then invoked
// inside the callee's own body); that interprocedural form is out of this
// core's scope — Pyrite only inlines the self-contained call-expression
// form, which covers every call site a monomorphized, fully-static
// compiler actually needs to resolve before codegen.
type InlinePass struct {
	diags *diagnostics.Bag
	depth int
}

// MaxInlineDepth bounds nested closure-inlining recursion; exceeding it is
// ClosureInlineBudget, guarding against a closure literal
// whose body itself contains another immediately-invoked closure chain
// that would otherwise expand without bound.
const MaxInlineDepth = 64

func NewInlinePass() *InlinePass { return &InlinePass{diags: diagnostics.NewBag()} }

func (p *InlinePass) Diagnostics() []*diagnostics.Diagnostic { return p.diags.Items() }

func (p *InlinePass) InlineProgram(prog *ast.Program) {
	for _, item := range prog.Items {
		p.inlineItem(item)
	}
}

func (p *InlinePass) inlineItem(item ast.Statement) {
	switch it := item.(type) {
	case *ast.FunctionDecl:
		if it.Body != nil {
			it.Body = p.inlineBlock(it.Body)
		}
	case *ast.TraitDecl:
		for _, m := range it.Methods {
			if m.Body != nil {
				m.Body = p.inlineBlock(m.Body)
			}
		}
	case *ast.ImplDecl:
		for _, m := range it.Methods {
			if m.Body != nil {
				m.Body = p.inlineBlock(m.Body)
			}
		}
	}
}

func (p *InlinePass) inlineBlock(block *ast.BlockStatement) *ast.BlockStatement {
	out := make([]ast.Statement, len(block.Statements))
	for i, stmt := range block.Statements {
		out[i] = p.inlineStatement(stmt)
	}
	return &ast.BlockStatement{Token: block.Token, Statements: out}
}

func (p *InlinePass) inlineStatement(stmt ast.Statement) ast.Statement {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Value != nil {
			s.Value = p.inlineExpr(s.Value)
		}
	case *ast.VarStatement:
		if s.Value != nil {
			s.Value = p.inlineExpr(s.Value)
		}
	case *ast.AssignStatement:
		s.Value = p.inlineExpr(s.Value)
	case *ast.ExpressionStatement:
		s.Expression = p.inlineExpr(s.Expression)
	case *ast.ReturnStatement:
		if s.Value != nil {
			s.Value = p.inlineExpr(s.Value)
		}
	case *ast.IfStatement:
		s.Cond = p.inlineExpr(s.Cond)
		s.Then = p.inlineBlock(s.Then)
		for _, elif := range s.ElifClauses {
			elif.Cond = p.inlineExpr(elif.Cond)
			elif.Body = p.inlineBlock(elif.Body)
		}
		if s.Else != nil {
			s.Else = p.inlineBlock(s.Else)
		}
	case *ast.WhileStatement:
		s.Cond = p.inlineExpr(s.Cond)
		s.Body = p.inlineBlock(s.Body)
	case *ast.ForRangeStatement:
		s.Body = p.inlineBlock(s.Body)
	case *ast.DeferStatement:
		s.Call = p.inlineExpr(s.Call)
	case *ast.WithStatement:
		s.Resource = p.inlineExpr(s.Resource)
		s.Body = p.inlineBlock(s.Body)
	case *ast.BlockStatement:
		return p.inlineBlock(s)
	}
	return stmt
}

// inlineExpr recurses through expr, replacing any direct
// `(fn[params] -> ret { body })(args)` call with its spliced form. Other
// expression kinds recurse into their subexpressions unchanged.
func (p *InlinePass) inlineExpr(expr ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case *ast.CallExpression:
		e.Args = p.inlineExprs(e.Args)
		if closure, ok := e.Callee.(*ast.ParamClosureExpression); ok {
			return p.inlineCall(closure, e.Args)
		}
		e.Callee = p.inlineExpr(e.Callee)
		return e
	case *ast.MethodCallExpression:
		e.Receiver = p.inlineExpr(e.Receiver)
		e.Args = p.inlineExprs(e.Args)
		return e
	case *ast.BinaryExpression:
		e.Left = p.inlineExpr(e.Left)
		e.Right = p.inlineExpr(e.Right)
		return e
	case *ast.UnaryExpression:
		e.Operand = p.inlineExpr(e.Operand)
		return e
	case *ast.StructLiteralExpression:
		for _, f := range e.Fields {
			f.Value = p.inlineExpr(f.Value)
		}
		return e
	case *ast.EnumConstructExpression:
		e.Args = p.inlineExprs(e.Args)
		return e
	case *ast.FieldAccessExpression:
		e.Object = p.inlineExpr(e.Object)
		return e
	case *ast.IndexExpression:
		e.Object = p.inlineExpr(e.Object)
		e.Index = p.inlineExpr(e.Index)
		return e
	case *ast.RefExpression:
		e.Operand = p.inlineExpr(e.Operand)
		return e
	case *ast.TryExpression:
		e.Operand = p.inlineExpr(e.Operand)
		return e
	case *ast.AsCastExpression:
		e.Operand = p.inlineExpr(e.Operand)
		return e
	case *ast.TupleExpression:
		e.Elements = p.inlineExprs(e.Elements)
		return e
	case *ast.MatchExpression:
		e.Scrutinee = p.inlineExpr(e.Scrutinee)
		for _, arm := range e.Arms {
			if arm.Guard != nil {
				arm.Guard = p.inlineExpr(arm.Guard)
			}
			arm.Body = p.inlineExpr(arm.Body)
		}
		return e
	case *ast.ParamClosureExpression:
		e.Body = p.inlineBlock(e.Body)
		return e
	case *ast.RuntimeClosureExpression:
		e.Body = p.inlineBlock(e.Body)
		return e
	default:
		return expr
	}
}

func (p *InlinePass) inlineExprs(exprs []ast.Expression) []ast.Expression {
	out := make([]ast.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = p.inlineExpr(e)
	}
	return out
}

// inlineCall splices closure's body into its call site: each parameter
// becomes a `let` bound to the matching argument, and the closure's body
// statements follow as a block expression whose value is the block's
// trailing ReturnStatement's value (or Void if none).
func (p *InlinePass) inlineCall(closure *ast.ParamClosureExpression, args []ast.Expression) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxInlineDepth {
		p.diags.Add(diagnostics.New(diagnostics.ErrClosureInlineBudget, closure.Token,
				"parameter closure inlining exceeded its budget (possible unbounded recursive inlining)"))
		return closure
	}

	var bindings []ast.Statement
	for i, param := range closure.Params {
		if i < len(args) {
			bindings = append(bindings, &ast.LetStatement{Token: closure.Token, Name: param.Name, Value: args[i]})
		}
	}
	body := p.inlineBlock(closure.Body)
	stmts := append(bindings, body.Statements...)
	return &ast.InlinedBlockExpression{Token: closure.Token, Statements: stmts}
}
