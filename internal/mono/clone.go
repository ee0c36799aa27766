package mono

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/token"
)

// literalFor materializes v (int64 or bool) as a literal expression anchored
// at tok, replacing a compile-time-parameter identifier use.
func literalFor(tok token.Token, v interface{}) ast.Expression {
	switch val := v.(type) {
	case int64:
		return &ast.IntegerLiteral{Token: tok, Value: val}
	case bool:
		return &ast.BoolLiteral{Token: tok, Value: val}
	default:
		return &ast.IntegerLiteral{Token: tok, Value: 0}
	}
}

// Bindings is a monomorphization call's compile-time-parameter substitution:
// identifier name -> literal value (int64 or bool). Cloning the original
// function body under a Bindings is how internal/mono deep-clones the
// source definition and substitutes each compile-time-parameter
// identifier with its literal.
type Bindings struct {
	Const map[string]interface{}
}

func (b *Bindings) cloneBlock(block *ast.BlockStatement) *ast.BlockStatement {
	if block == nil {
		return nil
	}
	out := make([]ast.Statement, len(block.Statements))
	for i, s := range block.Statements {
		out[i] = b.cloneStatement(s)
	}
	return &ast.BlockStatement{Token: block.Token, Statements: out}
}

func (b *Bindings) cloneStatement(stmt ast.Statement) ast.Statement {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		return &ast.LetStatement{
			Token: s.Token,
			Name: s.Name,
			Pattern: b.clonePattern(s.Pattern),
			TypeAnnotation: b.cloneTypeExpr(s.TypeAnnotation),
			Value: b.cloneExpr(s.Value),
		}
	case *ast.VarStatement:
		return &ast.VarStatement{
			Token: s.Token,
			Name: s.Name,
			TypeAnnotation: b.cloneTypeExpr(s.TypeAnnotation),
			Value: b.cloneExpr(s.Value),
		}
	case *ast.AssignStatement:
		return &ast.AssignStatement{Token: s.Token, Target: b.cloneExpr(s.Target), Value: b.cloneExpr(s.Value)}
	case *ast.ExpressionStatement:
		return &ast.ExpressionStatement{Token: s.Token, Expression: b.cloneExpr(s.Expression)}
	case *ast.ReturnStatement:
		return &ast.ReturnStatement{Token: s.Token, Value: b.cloneExpr(s.Value)}
	case *ast.IfStatement:
		elifs := make([]*ast.ElifClause, len(s.ElifClauses))
		for i, el := range s.ElifClauses {
			elifs[i] = &ast.ElifClause{Token: el.Token, Cond: b.cloneExpr(el.Cond), Body: b.cloneBlock(el.Body)}
		}
		return &ast.IfStatement{
			Token: s.Token,
			Cond: b.cloneExpr(s.Cond),
			Then: b.cloneBlock(s.Then),
			ElifClauses: elifs,
			Else: b.cloneBlock(s.Else),
		}
	case *ast.WhileStatement:
		return &ast.WhileStatement{Token: s.Token, Cond: b.cloneExpr(s.Cond), Body: b.cloneBlock(s.Body)}
	case *ast.ForRangeStatement:
		return &ast.ForRangeStatement{
			Token: s.Token, Var: s.Var,
			Start: b.cloneExpr(s.Start), End: b.cloneExpr(s.End),
			Body: b.cloneBlock(s.Body),
		}
	case *ast.BreakStatement:
		return &ast.BreakStatement{Token: s.Token}
	case *ast.ContinueStatement:
		return &ast.ContinueStatement{Token: s.Token}
	case *ast.DeferStatement:
		return &ast.DeferStatement{Token: s.Token, Call: b.cloneExpr(s.Call)}
	case *ast.WithStatement:
		// Mono runs after desugaring; a surviving WithStatement means only
		// nested items (e.g. a closure body desugar missed) still carry one.
		return &ast.WithStatement{Token: s.Token, Name: s.Name, Resource: b.cloneExpr(s.Resource), Body: b.cloneBlock(s.Body)}
	case *ast.BlockStatement:
		return b.cloneBlock(s)
	default:
		return stmt
	}
}

func (b *Bindings) cloneExprs(exprs []ast.Expression) []ast.Expression {
	out := make([]ast.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = b.cloneExpr(e)
	}
	return out
}

func (b *Bindings) cloneExpr(expr ast.Expression) ast.Expression {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		if v, ok := b.Const[e.Name]; ok {
			return literalFor(e.Token, v)
		}
		return &ast.Identifier{Token: e.Token, Name: e.Name}
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.CharLiteral, *ast.StringLiteral:
		return expr
	case *ast.BinaryExpression:
		left := b.cloneExpr(e.Left)
		right := b.cloneExpr(e.Right)
		if folded := foldBinary(e.Token, e.Op, left, right); folded != nil {
			return folded
		}
		return &ast.BinaryExpression{Token: e.Token, Op: e.Op, Left: left, Right: right}
	case *ast.UnaryExpression:
		return &ast.UnaryExpression{Token: e.Token, Op: e.Op, Operand: b.cloneExpr(e.Operand)}
	case *ast.CallExpression:
		return &ast.CallExpression{
			Token: e.Token, Callee: b.cloneExpr(e.Callee),
			TypeArgs: e.TypeArgs,
			ConstArgs: b.cloneExprs(e.ConstArgs),
			Args: b.cloneExprs(e.Args),
		}
	case *ast.MethodCallExpression:
		return &ast.MethodCallExpression{
			Token: e.Token, Receiver: b.cloneExpr(e.Receiver), Method: e.Method,
			TypeArgs: e.TypeArgs,
			ConstArgs: b.cloneExprs(e.ConstArgs),
			Args: b.cloneExprs(e.Args),
		}
	case *ast.StructLiteralExpression:
		fields := make([]*ast.FieldInit, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = &ast.FieldInit{Name: f.Name, Value: b.cloneExpr(f.Value)}
		}
		return &ast.StructLiteralExpression{Token: e.Token, TypeName: e.TypeName, Fields: fields}
	case *ast.EnumConstructExpression:
		return &ast.EnumConstructExpression{Token: e.Token, EnumName: e.EnumName, Variant: e.Variant, Args: b.cloneExprs(e.Args)}
	case *ast.FieldAccessExpression:
		return &ast.FieldAccessExpression{Token: e.Token, Object: b.cloneExpr(e.Object), Field: e.Field}
	case *ast.IndexExpression:
		return &ast.IndexExpression{Token: e.Token, Object: b.cloneExpr(e.Object), Index: b.cloneExpr(e.Index)}
	case *ast.RefExpression:
		return &ast.RefExpression{Token: e.Token, Mutable: e.Mutable, Operand: b.cloneExpr(e.Operand)}
	case *ast.TryExpression:
		return &ast.TryExpression{Token: e.Token, Operand: b.cloneExpr(e.Operand)}
	case *ast.AsCastExpression:
		return &ast.AsCastExpression{Token: e.Token, Operand: b.cloneExpr(e.Operand), TargetType: b.cloneTypeExpr(e.TargetType)}
	case *ast.TupleExpression:
		return &ast.TupleExpression{Token: e.Token, Elements: b.cloneExprs(e.Elements)}
	case *ast.MatchExpression:
		arms := make([]*ast.MatchArm, len(e.Arms))
		for i, arm := range e.Arms {
			arms[i] = &ast.MatchArm{Pattern: b.clonePattern(arm.Pattern), Guard: b.cloneExpr(arm.Guard), Body: b.cloneExpr(arm.Body)}
		}
		return &ast.MatchExpression{Token: e.Token, Scrutinee: b.cloneExpr(e.Scrutinee), Arms: arms}
	case *ast.ParamClosureExpression:
		return &ast.ParamClosureExpression{Token: e.Token, Params: b.cloneParams(e.Params), ReturnType: b.cloneTypeExpr(e.ReturnType), Body: b.cloneBlock(e.Body)}
	case *ast.RuntimeClosureExpression:
		return &ast.RuntimeClosureExpression{
			Token: e.Token, Params: b.cloneParams(e.Params), ReturnType: b.cloneTypeExpr(e.ReturnType),
			Body: b.cloneBlock(e.Body), Captures: e.Captures,
		}
	case *ast.InlinedBlockExpression:
		stmts := make([]ast.Statement, len(e.Statements))
		for i, s := range e.Statements {
			stmts[i] = b.cloneStatement(s)
		}
		return &ast.InlinedBlockExpression{Token: e.Token, Statements: stmts}
	default:
		return expr
	}
}

func (b *Bindings) cloneParams(params []*ast.Param) []*ast.Param {
	out := make([]*ast.Param, len(params))
	for i, p := range params {
		out[i] = &ast.Param{Name: p.Name, Type: b.cloneTypeExpr(p.Type), Mutable: p.Mutable}
	}
	return out
}

// cloneTypeExpr clones a TypeExpr, substituting compile-time-parameter
// identifiers that appear inside an array size expression (`[T; N]`); named
// type references themselves carry no compile-time value and pass through
// unchanged (step 1: type parameters alone are instantiated by
// argument type, not by AST cloning).
func (b *Bindings) cloneTypeExpr(te ast.TypeExpr) ast.TypeExpr {
	if te == nil {
		return nil
	}
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		return t
	case *ast.AssociatedTypeExpr:
		return t
	case *ast.ReferenceTypeExpr:
		return &ast.ReferenceTypeExpr{Token: t.Token, Mutable: t.Mutable, Inner: b.cloneTypeExpr(t.Inner)}
	case *ast.PointerTypeExpr:
		return &ast.PointerTypeExpr{Token: t.Token, Mutable: t.Mutable, Inner: b.cloneTypeExpr(t.Inner)}
	case *ast.ArrayTypeExpr:
		return &ast.ArrayTypeExpr{Token: t.Token, Element: b.cloneTypeExpr(t.Element), Size: b.cloneExpr(t.Size)}
	case *ast.SliceTypeExpr:
		return &ast.SliceTypeExpr{Token: t.Token, Element: b.cloneTypeExpr(t.Element)}
	case *ast.TupleTypeExpr:
		elems := make([]ast.TypeExpr, len(t.Elements))
		for i, el := range t.Elements {
			elems[i] = b.cloneTypeExpr(el)
		}
		return &ast.TupleTypeExpr{Token: t.Token, Elements: elems}
	case *ast.FunctionTypeExpr:
		params := make([]ast.TypeExpr, len(t.Params))
		for i, p := range t.Params {
			params[i] = b.cloneTypeExpr(p)
		}
		return &ast.FunctionTypeExpr{Token: t.Token, Params: params, ReturnType: b.cloneTypeExpr(t.ReturnType)}
	case *ast.GenericTypeExpr:
		args := make([]ast.TypeExpr, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = b.cloneTypeExpr(a)
		}
		return &ast.GenericTypeExpr{Token: t.Token, Name: t.Name, TypeArgs: args, ConstArgs: b.cloneExprs(t.ConstArgs)}
	default:
		return te
	}
}

func (b *Bindings) clonePattern(pat ast.Pattern) ast.Pattern {
	if pat == nil {
		return nil
	}
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return p
	case *ast.IdentifierPattern:
		return p
	case *ast.LiteralPattern:
		return &ast.LiteralPattern{Token: p.Token, Value: b.cloneExpr(p.Value)}
	case *ast.EnumPattern:
		subs := make([]ast.Pattern, len(p.SubPatterns))
		for i, sp := range p.SubPatterns {
			subs[i] = b.clonePattern(sp)
		}
		return &ast.EnumPattern{Token: p.Token, EnumName: p.EnumName, Variant: p.Variant, SubPatterns: subs}
	case *ast.TuplePattern:
		elems := make([]ast.Pattern, len(p.Elements))
		for i, el := range p.Elements {
			elems[i] = b.clonePattern(el)
		}
		return &ast.TuplePattern{Token: p.Token, Elements: elems}
	default:
		return pat
	}
}

