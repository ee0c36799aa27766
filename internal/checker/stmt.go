package checker

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/symbols"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// checkItem type-checks one top-level item's body (function, impl methods,
// trait default method bodies); struct/enum/trait/const *declarations* are
// already fully handled by declareItem.
func (c *Checker) checkItem(item ast.Statement) {
	switch it := item.(type) {
	case *ast.FunctionDecl:
		c.checkFunctionDecl(it, nil)
	case *ast.TraitDecl:
		for _, m := range it.Methods {
			if m.Body != nil {
				c.checkFunctionDecl(m, nil)
			}
		}
	case *ast.ImplDecl:
		target := c.resolveType(it.TargetType)
		for _, m := range it.Methods {
			c.checkFunctionDecl(m, target)
		}
	case *ast.ConstDecl:
		if it.Value != nil {
			c.check(it.Value, c.constTypes[it.Name])
		}
	}
}

func (c *Checker) checkFunctionDecl(fn *ast.FunctionDecl, selfType typesystem.Type) {
	if fn.Body == nil {
		return
	}
	savedSelf := c.selfType
	c.selfType = selfType

	c.withTypeParams(fn.TypeParams, func() {
		retType := c.resolveType(fn.ReturnType)
		savedReturn := c.returnType
		c.returnType = retType

		c.resolver.EnterScope()
		if selfType != nil {
			_, _ = c.resolver.Define("self", symbols.ParameterSymbol, selfType, false, fn.Token)
		}
		for _, p := range fn.Params {
			_, _ = c.resolver.Define(p.Name, symbols.ParameterSymbol, c.resolveType(p.Type), p.Mutable, fn.Token)
		}
		c.checkBlock(fn.Body)
		c.resolver.ExitScope()

		c.returnType = savedReturn
	})

	c.selfType = savedSelf
}

func (c *Checker) checkBlock(block *ast.BlockStatement) {
	c.resolver.EnterScope()
	for _, stmt := range block.Statements {
		c.checkStatement(stmt)
	}
	c.resolver.ExitScope()
}

func (c *Checker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		c.checkLet(s)
	case *ast.VarStatement:
		var t typesystem.Type
		if s.TypeAnnotation != nil {
			t = c.resolveType(s.TypeAnnotation)
			if s.Value != nil {
				c.check(s.Value, t)
			}
		} else if s.Value != nil {
			t = c.infer(s.Value)
		} else {
			t = typesystem.Void{}
		}
		_, _ = c.resolver.Define(s.Name, symbols.VariableSymbol, t, true, s.Token)
	case *ast.AssignStatement:
		targetType := c.infer(s.Target)
		c.check(s.Value, targetType)
	case *ast.ExpressionStatement:
		c.infer(s.Expression)
	case *ast.ReturnStatement:
		if s.Value != nil {
			c.check(s.Value, c.returnType)
		} else if c.returnType != nil {
			if _, ok := c.returnType.(typesystem.Void); !ok {
				c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, s.Token,
					"missing return value, expected "+c.returnType.String()))
			}
		}
	case *ast.IfStatement:
		c.check(s.Cond, typesystem.Bool{})
		c.checkBlock(s.Then)
		for _, elif := range s.ElifClauses {
			c.check(elif.Cond, typesystem.Bool{})
			c.checkBlock(elif.Body)
		}
		if s.Else != nil {
			c.checkBlock(s.Else)
		}
	case *ast.WhileStatement:
		c.check(s.Cond, typesystem.Bool{})
		c.loopDepth++
		c.checkBlock(s.Body)
		c.loopDepth--
	case *ast.ForRangeStatement:
		c.check(s.Start, typesystem.Int{Width: 32})
		c.check(s.End, typesystem.Int{Width: 32})
		c.resolver.EnterScope()
		_, _ = c.resolver.Define(s.Var, symbols.VariableSymbol, typesystem.Int{Width: 32}, false, s.Token)
		c.loopDepth++
		for _, inner := range s.Body.Statements {
			c.checkStatement(inner)
		}
		c.loopDepth--
		c.resolver.ExitScope()
	case *ast.BreakStatement:
		if c.loopDepth == 0 {
			c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, s.Token, "break outside of a loop"))
		}
	case *ast.ContinueStatement:
		if c.loopDepth == 0 {
			c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, s.Token, "continue outside of a loop"))
		}
	case *ast.DeferStatement:
		c.infer(s.Call)
	case *ast.WithStatement:
		resourceType := c.infer(s.Resource)
		c.resolver.EnterScope()
		_, _ = c.resolver.Define(s.Name, symbols.VariableSymbol, resourceType, false, s.Token)
		for _, inner := range s.Body.Statements {
			c.checkStatement(inner)
		}
		c.resolver.ExitScope()
	case *ast.BlockStatement:
		c.checkBlock(s)
	}
}

func (c *Checker) checkLet(s *ast.LetStatement) {
	var t typesystem.Type
	if s.TypeAnnotation != nil {
		t = c.resolveType(s.TypeAnnotation)
		if s.Value != nil {
			c.check(s.Value, t)
		}
	} else if s.Value != nil {
		t = c.infer(s.Value)
	} else {
		t = typesystem.Void{}
	}
	if s.Pattern != nil {
		c.bindPattern(s.Pattern, t)
	} else {
		_, _ = c.resolver.Define(s.Name, symbols.VariableSymbol, t, false, s.Token)
	}
}

// bindPattern defines every identifier bound by an irrefutable let-pattern
// (tuple destructuring) with the corresponding component's type.
func (c *Checker) bindPattern(pat ast.Pattern, t typesystem.Type) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		_, _ = c.resolver.Define(p.Name, symbols.VariableSymbol, t, false, p.Token)
	case *ast.TuplePattern:
		tup, ok := t.(typesystem.Tuple)
		if !ok {
			return
		}
		for i, sub := range p.Elements {
			if i < len(tup.Elements) {
				c.bindPattern(sub, tup.Elements[i])
			}
		}
	case *ast.WildcardPattern:
		// binds nothing
	}
}
