package ssa

import (
	"github.com/funvibe/pyrite/internal/ast"
)

// genFunction lowers one function/method body. selfTypeName is "" for a
// free function, the receiver's type name for a method (used to resolve
// `Self`-typed parameters/return and FieldAccess on the implicit receiver).
func (g *Gen) genFunction(name, selfTypeName string, decl *ast.FunctionDecl) {
	var params []FuncParam
	for _, p := range decl.Params {
		params = append(params, FuncParam{Name: p.Name, Typ: g.lowerParamType(p.Type, selfTypeName)})
	}
	retType := TypeVoid
	if decl.ReturnType != nil {
		retType = g.lowerTypeExprAsSelf(decl.ReturnType, selfTypeName)
	}

	fn := NewFunction(name, params, retType)
	g.fn = fn
	g.funcName = name
	g.env = newGenEnv(nil)
	g.deferScopes = nil

	entry := fn.NewBlock("entry")
	fn.SetCurrent(entry)

	for _, p := range decl.Params {
		// Parameters are referenced directly by name in the textual IR; a
		// dedicated paramRef operand keeps their printed form `%name`
		// distinct from a numbered temporary register.
		g.env.set(p.Name, paramRef{name: p.Name, typ: g.lowerParamType(p.Type, selfTypeName)})
	}

	g.pushScope()
	g.genBlock(decl.Body)
	if !fn.Terminated() {
		g.runDefers(g.currentScopeDepth())
		if retType == TypeVoid {
			fn.SetTerm(&Ret{})
		} else {
			fn.SetTerm(&Ret{Val: zeroValue(retType)})
		}
	}
	g.popScope()

	g.module.Functions = append(g.module.Functions, fn)
}

// paramRef is a formal parameter referenced by name rather than by a
// numbered register.
type paramRef struct {
	name string
	typ Type
}

func (p paramRef) String() string { return "%" + p.name }
func (p paramRef) Type() Type { return p.typ }

func zeroValue(t Type) Operand {
	switch t {
	case TypeI1:
		return ConstBool{Value: false}
	case TypeF32, TypeF64:
		return ConstFloat{Typ: t, Value: 0}
	case TypeVoid:
		return nil
	default:
		return ConstInt{Typ: t, Value: 0}
	}
}

func (g *Gen) lowerParamType(te ast.TypeExpr, selfTypeName string) Type {
	return g.lowerTypeExprAsSelf(te, selfTypeName)
}

func (g *Gen) lowerTypeExprAsSelf(te ast.TypeExpr, selfTypeName string) Type {
	if n, ok := te.(*ast.NamedTypeExpr); ok && n.Name == "Self" && selfTypeName != "" {
		return NamedType(selfTypeName)
	}
	return lowerType(g.chk.ResolveTypeExpr(te))
}

// --- scope / defer bookkeeping ---

func (g *Gen) pushScope() { g.deferScopes = append(g.deferScopes, nil) }
func (g *Gen) popScope() { g.deferScopes = g.deferScopes[:len(g.deferScopes)-1] }

func (g *Gen) currentScopeDepth() int { return len(g.deferScopes) - 1 }

func (g *Gen) addDefer(call ast.Expression) {
	top := len(g.deferScopes) - 1
	g.deferScopes[top] = append(g.deferScopes[top], call)
}

// runDefers runs, in LIFO order, every defer registered in scopes
// [fromDepth, top] — every scope the exit unwinds through — or the whole
// function's still-live defers when fromDepth is 0.
func (g *Gen) runDefers(fromDepth int) {
	for i := len(g.deferScopes) - 1; i >= fromDepth; i-- {
		calls := g.deferScopes[i]
		for j := len(calls) - 1; j >= 0; j-- {
			g.genExpr(calls[j])
		}
	}
}

func (g *Gen) genBlock(block *ast.BlockStatement) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if g.fn.Terminated() {
			return
		}
		g.genStatement(stmt)
	}
}

func (g *Gen) genStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		val := g.genExpr(s.Value)
		if s.Pattern != nil {
			g.bindLetPattern(s.Pattern, val)
		} else {
			g.env.set(s.Name, val)
		}
	case *ast.VarStatement:
		var typ Type
		switch {
		case s.TypeAnnotation != nil:
			typ = g.lowerTypeExprAsSelf(s.TypeAnnotation, "")
		case s.Value != nil:
			typ = lowerType(g.chk.TypeOf(s.Value))
		default:
			typ = TypeVoid
		}
		slot := g.fn.NewReg(TypePtr)
		g.fn.Emit(&Alloca{Dst: slot, Typ: typ})
		if s.Value != nil {
			val := g.genExpr(s.Value)
			g.fn.Emit(&Store{Addr: slot, Val: val})
		}
		g.env.set(s.Name, &stackSlot{ptr: slot, elem: typ})
	case *ast.AssignStatement:
		val := g.genExpr(s.Value)
		g.genAssignTo(s.Target, val)
	case *ast.ExpressionStatement:
		g.genExpr(s.Expression)
	case *ast.ReturnStatement:
		var val Operand
		if s.Value != nil {
			val = g.genExpr(s.Value)
		}
		g.runDefers(0)
		if val == nil {
			g.fn.SetTerm(&Ret{})
		} else {
			g.fn.SetTerm(&Ret{Val: val})
		}
	case *ast.IfStatement:
		g.genIf(s)
	case *ast.WhileStatement:
		g.genWhile(s)
	case *ast.ForRangeStatement:
		g.genForRange(s)
	case *ast.BreakStatement:
		depth := g.loopDeferDepth[len(g.loopDeferDepth)-1]
		g.runDefers(depth)
		g.fn.SetTerm(&Br{Target: g.loopBreakTarget[len(g.loopBreakTarget)-1]})
	case *ast.ContinueStatement:
		depth := g.loopDeferDepth[len(g.loopDeferDepth)-1]
		g.runDefers(depth)
		g.fn.SetTerm(&Br{Target: g.loopContTarget[len(g.loopContTarget)-1]})
	case *ast.DeferStatement:
		g.addDefer(s.Call)
	case *ast.WithStatement:
		// Lowered away by internal/desugar before this pass ever runs; kept
		// only so a directly-constructed (e.g. test) AST doesn't panic.
		g.pushScope()
		g.genBlock(s.Body)
		g.runDefers(g.currentScopeDepth())
		g.popScope()
	case *ast.BlockStatement:
		g.pushScope()
		g.genBlock(s)
		g.runDefers(g.currentScopeDepth())
		g.popScope()
	}
}

// stackSlot is a `var` binding's alloca pointer; reading it through genExpr
// loads, writing through genAssignTo stores.
type stackSlot struct {
	ptr *Reg
	elem Type
}

func (s *stackSlot) String() string { return s.ptr.String() }
func (s *stackSlot) Type() Type { return s.elem }

func (g *Gen) bindLetPattern(pat ast.Pattern, val Operand) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		g.env.set(p.Name, val)
	case *ast.WildcardPattern:
	case *ast.TuplePattern:
		for i, sub := range p.Elements {
			field := g.fn.NewReg(TypePtr)
			g.fn.Emit(&GetFieldPtr{Dst: field, Base: val, Index: i, Field: "t" + itoa(i)})
			loaded := g.fn.NewReg(TypePtr)
			g.fn.Emit(&Load{Dst: loaded, Addr: field})
			g.bindLetPattern(sub, loaded)
		}
	default:
		g.env.set("_", val)
	}
}

func (g *Gen) genIf(s *ast.IfStatement) {
	merge := g.fn.NewBlock("if.merge")

	g.genIfBranch(s.Cond, s.Then, s.ElifClauses, s.Else, merge)

	g.fn.SetCurrent(merge)
}

func (g *Gen) genIfBranch(cond ast.Expression, then *ast.BlockStatement, elifs []*ast.ElifClause, els *ast.BlockStatement, merge *BasicBlock) {
	condVal := g.genExpr(cond)
	thenBlock := g.fn.NewBlock("if.then")
	elseBlock := g.fn.NewBlock("if.else")
	g.fn.SetTerm(&CondBr{Cond: condVal, TrueTarget: thenBlock.Name, FalseTarget: elseBlock.Name})

	g.fn.SetCurrent(thenBlock)
	g.pushScope()
	g.genBlock(then)
	g.runDefers(g.currentScopeDepth())
	g.popScope()
	if !g.fn.Terminated() {
		g.fn.SetTerm(&Br{Target: merge.Name})
	}

	g.fn.SetCurrent(elseBlock)
	if len(elifs) > 0 {
		next := elifs[0]
		g.genIfBranch(next.Cond, next.Body, elifs[1:], els, merge)
		return
	}
	g.pushScope()
	g.genBlock(els)
	g.runDefers(g.currentScopeDepth())
	g.popScope()
	if !g.fn.Terminated() {
		g.fn.SetTerm(&Br{Target: merge.Name})
	}
}

func (g *Gen) genWhile(s *ast.WhileStatement) {
	cond := g.fn.NewBlock("while.cond")
	body := g.fn.NewBlock("while.body")
	end := g.fn.NewBlock("while.end")

	g.fn.SetTerm(&Br{Target: cond.Name})

	g.fn.SetCurrent(cond)
	condVal := g.genExpr(s.Cond)
	g.fn.SetTerm(&CondBr{Cond: condVal, TrueTarget: body.Name, FalseTarget: end.Name})

	g.fn.SetCurrent(body)
	g.pushScope()
	g.loopDeferDepth = append(g.loopDeferDepth, g.currentScopeDepth())
	g.loopContTarget = append(g.loopContTarget, cond.Name)
	g.loopBreakTarget = append(g.loopBreakTarget, end.Name)

	g.genBlock(s.Body)
	g.runDefers(g.currentScopeDepth())

	g.loopDeferDepth = g.loopDeferDepth[:len(g.loopDeferDepth)-1]
	g.loopContTarget = g.loopContTarget[:len(g.loopContTarget)-1]
	g.loopBreakTarget = g.loopBreakTarget[:len(g.loopBreakTarget)-1]
	g.popScope()
	if !g.fn.Terminated() {
		g.fn.SetTerm(&Br{Target: cond.Name})
	}

	g.fn.SetCurrent(end)
}

func (g *Gen) genForRange(s *ast.ForRangeStatement) {
	startVal := g.genExpr(s.Start)
	endVal := g.genExpr(s.End)

	induction := g.fn.NewReg(TypePtr)
	g.fn.Emit(&Alloca{Dst: induction, Typ: TypeI32})
	g.fn.Emit(&Store{Addr: induction, Val: startVal})

	cond := g.fn.NewBlock("for.cond")
	body := g.fn.NewBlock("for.body")
	inc := g.fn.NewBlock("for.inc")
	end := g.fn.NewBlock("for.end")

	g.fn.SetTerm(&Br{Target: cond.Name})

	g.fn.SetCurrent(cond)
	cur := g.fn.NewReg(TypeI32)
	g.fn.Emit(&Load{Dst: cur, Addr: induction})
	test := g.fn.NewReg(TypeI1)
	g.fn.Emit(&BinOp{Dst: test, Op: "slt", Left: cur, Right: endVal})
	g.fn.SetTerm(&CondBr{Cond: test, TrueTarget: body.Name, FalseTarget: end.Name})

	g.fn.SetCurrent(body)
	g.pushScope()
	g.loopDeferDepth = append(g.loopDeferDepth, g.currentScopeDepth())
	g.loopContTarget = append(g.loopContTarget, inc.Name)
	g.loopBreakTarget = append(g.loopBreakTarget, end.Name)

	g.env.set(s.Var, &stackSlot{ptr: induction, elem: TypeI32})
	g.genBlock(s.Body)
	g.runDefers(g.currentScopeDepth())

	g.loopDeferDepth = g.loopDeferDepth[:len(g.loopDeferDepth)-1]
	g.loopContTarget = g.loopContTarget[:len(g.loopContTarget)-1]
	g.loopBreakTarget = g.loopBreakTarget[:len(g.loopBreakTarget)-1]
	g.popScope()
	if !g.fn.Terminated() {
		g.fn.SetTerm(&Br{Target: inc.Name})
	}

	g.fn.SetCurrent(inc)
	cur2 := g.fn.NewReg(TypeI32)
	g.fn.Emit(&Load{Dst: cur2, Addr: induction})
	next := g.fn.NewReg(TypeI32)
	g.fn.Emit(&BinOp{Dst: next, Op: "add", Left: cur2, Right: ConstInt{Typ: TypeI32, Value: 1}})
	g.fn.Emit(&Store{Addr: induction, Val: next})
	g.fn.SetTerm(&Br{Target: cond.Name})

	g.fn.SetCurrent(end)
}

// genAssignTo lowers an assignment's lvalue: identifier (var stack slot),
// field access, or index expression.
func (g *Gen) genAssignTo(target ast.Expression, val Operand) {
	switch t := target.(type) {
	case *ast.Identifier:
		if op, ok := g.env.get(t.Name); ok {
			if slot, ok := op.(*stackSlot); ok {
				g.fn.Emit(&Store{Addr: slot.ptr, Val: val})
				return
			}
		}
		g.bug(t.Token, "assignment target \""+t.Name+"\" is not a mutable binding")
	case *ast.FieldAccessExpression:
		base := g.genExpr(t.Object)
		idx, fieldName := g.fieldIndex(t.Object, t.Field)
		addr := g.fn.NewReg(TypePtr)
		g.fn.Emit(&GetFieldPtr{Dst: addr, Base: base, Index: idx, Field: fieldName})
		g.fn.Emit(&Store{Addr: addr, Val: val})
	case *ast.IndexExpression:
		base := g.genExpr(t.Object)
		index := g.genExpr(t.Index)
		g.emitBoundsCheck(t, base, index)
		addr := g.fn.NewReg(TypePtr)
		g.fn.Emit(&GetElementPtr{Dst: addr, Base: base, Index: index})
		g.fn.Emit(&Store{Addr: addr, Val: val})
	}
}

// fieldIndex resolves Field to its declaration-order index within Object's
// struct type, for GetFieldPtr.
func (g *Gen) fieldIndex(object ast.Expression, field string) (int, string) {
	name := typeNameOf(g.chk.TypeOf(object))
	if s := g.structLayout[name]; s != nil {
		for i, f := range s.Fields {
			if f.Name == field {
				return i, field
			}
		}
	}
	return 0, field
}
