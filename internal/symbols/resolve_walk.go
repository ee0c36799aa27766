package symbols

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
)

// RegisterBuiltins defines the prelude's primitive type names so they
// resolve as TypeSymbols (Int8..Int64, Float32/64, Bool, Char, String,
// Void) before any user declarations are seen.
func (r *Resolver) RegisterBuiltins() {
	for _, name := range []string{"Int8", "Int16", "Int32", "Int64", "Float32", "Float64", "Bool", "Char", "String", "Void"} {
		r.current.defineLocal(&Symbol{Name: name, Kind: TypeSymbol})
	}
}

// ResolveProgram runs name resolution over an entire file: it first
// pre-declares every top-level item (so forward references between
// functions/types work), then walks each item's body.
func (r *Resolver) ResolveProgram(prog *ast.Program) []*diagnostics.Diagnostic {
	for _, item := range prog.Items {
		r.predeclare(item)
	}
	for _, item := range prog.Items {
		r.resolveItem(item)
	}
	return r.diags.Items()
}

func (r *Resolver) predeclare(item ast.Statement) {
	switch it := item.(type) {
	case *ast.FunctionDecl:
		if _, diag := r.Define(it.Name, FunctionSymbol, nil, false, it.Token); diag != nil {
			r.diags.Add(diag)
		}
	case *ast.StructDecl:
		if _, diag := r.Define(it.Name, TypeSymbol, nil, false, it.Token); diag != nil {
			r.diags.Add(diag)
		}
	case *ast.EnumDecl:
		if _, diag := r.Define(it.Name, TypeSymbol, nil, false, it.Token); diag != nil {
			r.diags.Add(diag)
		}
	case *ast.TraitDecl:
		if _, diag := r.Define(it.Name, TraitSymbol, nil, false, it.Token); diag != nil {
			r.diags.Add(diag)
		}
	case *ast.ConstDecl:
		if _, diag := r.Define(it.Name, ConstSymbol, nil, false, it.Token); diag != nil {
			r.diags.Add(diag)
		}
	case *ast.ImplDecl:
		if !r.Impls.Add(it) {
			r.diags.Add(diagnostics.New(diagnostics.ErrRedeclaration, it.Token,
				"duplicate impl for this type/trait pair"))
		}
	}
}

func (r *Resolver) resolveItem(item ast.Statement) {
	switch it := item.(type) {
	case *ast.FunctionDecl:
		r.resolveFunctionBody(it, "")
	case *ast.StructDecl, *ast.EnumDecl, *ast.ConstDecl:
		// field/variant type expressions are resolved by the type checker,
		// which owns the syntactic-TypeExpr -> typesystem.Type mapping.
	case *ast.TraitDecl:
		for _, m := range it.Methods {
			if m.Body != nil {
				r.resolveFunctionBody(m, it.Name)
			}
		}
	case *ast.ImplDecl:
		for _, m := range it.Methods {
			r.resolveFunctionBody(m, "Self")
		}
	}
}

func (r *Resolver) resolveFunctionBody(fn *ast.FunctionDecl, selfTypeName string) {
	r.EnterScope()
	defer r.ExitScope()

	for _, tp := range fn.TypeParams {
		r.current.defineLocal(&Symbol{Name: tp.Name, Kind: TypeSymbol})
	}
	if selfTypeName != "" {
		r.current.defineLocal(&Symbol{Name: "self", Kind: ParameterSymbol})
	}
	for _, p := range fn.Params {
		if _, diag := r.Define(p.Name, ParameterSymbol, nil, p.Mutable, fn.Token); diag != nil {
			r.diags.Add(diag)
		}
	}
	if fn.Body != nil {
		r.resolveBlock(fn.Body)
	}
}

func (r *Resolver) resolveBlock(block *ast.BlockStatement) {
	r.EnterScope()
	defer r.ExitScope()
	for _, stmt := range block.Statements {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
		if s.Pattern != nil {
			r.definePattern(s.Pattern, false)
		} else {
			if _, diag := r.Define(s.Name, VariableSymbol, nil, false, s.Token); diag != nil {
				r.diags.Add(diag)
			}
		}
	case *ast.VarStatement:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
		if _, diag := r.Define(s.Name, VariableSymbol, nil, true, s.Token); diag != nil {
			r.diags.Add(diag)
		}
	case *ast.AssignStatement:
		r.resolveExpr(s.Target)
		r.resolveExpr(s.Value)
	case *ast.ExpressionStatement:
		r.resolveExpr(s.Expression)
	case *ast.ReturnStatement:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *ast.IfStatement:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Then)
		for _, elif := range s.ElifClauses {
			r.resolveExpr(elif.Cond)
			r.resolveBlock(elif.Body)
		}
		if s.Else != nil {
			r.resolveBlock(s.Else)
		}
	case *ast.WhileStatement:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Body)
	case *ast.ForRangeStatement:
		r.resolveExpr(s.Start)
		r.resolveExpr(s.End)
		r.EnterScope()
		r.current.defineLocal(&Symbol{Name: s.Var, Kind: VariableSymbol, Mutable: true})
		for _, inner := range s.Body.Statements {
			r.resolveStatement(inner)
		}
		r.ExitScope()
	case *ast.DeferStatement:
		r.resolveExpr(s.Call)
	case *ast.WithStatement:
		r.resolveExpr(s.Resource)
		r.EnterScope()
		r.current.defineLocal(&Symbol{Name: s.Name, Kind: VariableSymbol})
		for _, inner := range s.Body.Statements {
			r.resolveStatement(inner)
		}
		r.ExitScope()
	case *ast.BlockStatement:
		r.resolveBlock(s)
	case *ast.BreakStatement, *ast.ContinueStatement:
		// no references
	}
}

func (r *Resolver) definePattern(pat ast.Pattern, mutable bool) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		if _, diag := r.Define(p.Name, VariableSymbol, nil, mutable, p.Token); diag != nil {
			r.diags.Add(diag)
		}
	case *ast.TuplePattern:
		for _, el := range p.Elements {
			r.definePattern(el, mutable)
		}
	case *ast.EnumPattern:
		for _, el := range p.SubPatterns {
			r.definePattern(el, mutable)
		}
	case *ast.WildcardPattern, *ast.LiteralPattern:
		// nothing to bind
	}
}

func (r *Resolver) resolveExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		r.resolveIdent(e, e.Name, e.Token)
	case *ast.BinaryExpression:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.UnaryExpression:
		r.resolveExpr(e.Operand)
	case *ast.CallExpression:
		r.resolveExpr(e.Callee)
		for _, a := range e.ConstArgs {
			r.resolveExpr(a)
		}
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.MethodCallExpression:
		r.resolveExpr(e.Receiver)
		for _, a := range e.ConstArgs {
			r.resolveExpr(a)
		}
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.StructLiteralExpression:
		for _, f := range e.Fields {
			r.resolveExpr(f.Value)
		}
	case *ast.EnumConstructExpression:
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.FieldAccessExpression:
		r.resolveExpr(e.Object)
	case *ast.IndexExpression:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Index)
	case *ast.RefExpression:
		r.resolveExpr(e.Operand)
	case *ast.TryExpression:
		r.resolveExpr(e.Operand)
	case *ast.AsCastExpression:
		r.resolveExpr(e.Operand)
	case *ast.TupleExpression:
		for _, el := range e.Elements {
			r.resolveExpr(el)
		}
	case *ast.MatchExpression:
		r.resolveExpr(e.Scrutinee)
		for _, arm := range e.Arms {
			r.EnterScope()
			r.definePattern(arm.Pattern, false)
			if arm.Guard != nil {
				r.resolveExpr(arm.Guard)
			}
			r.resolveExpr(arm.Body)
			r.ExitScope()
		}
	case *ast.ParamClosureExpression:
		r.EnterScope()
		for _, p := range e.Params {
			r.current.defineLocal(&Symbol{Name: p.Name, Kind: ParameterSymbol, Mutable: p.Mutable})
		}
		r.resolveBlock(e.Body)
		r.ExitScope()
	case *ast.RuntimeClosureExpression:
		r.EnterScope()
		for _, p := range e.Params {
			r.current.defineLocal(&Symbol{Name: p.Name, Kind: ParameterSymbol, Mutable: p.Mutable})
		}
		r.resolveBlock(e.Body)
		r.ExitScope()
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.CharLiteral, *ast.StringLiteral:
		// no references
	}
}
