package ssa

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/typesystem"
)

func (g *Gen) internString(value string) GlobalString {
	name := "str." + itoa(g.anonCounter)
	g.anonCounter++
	gs := &GlobalString{Name: name, Value: value}
	g.module.Globals = append(g.module.Globals, gs)
	return *gs
}

func (g *Gen) emitBoundsCheck(ie *ast.IndexExpression, base, index Operand) {
	objType := g.chk.TypeOf(ie.Object)
	var size Operand
	if arr, ok := objType.(typesystem.Array); ok {
		size = ConstInt{Typ: TypeI64, Value: arr.Size}
	} else {
		lenPtr := g.fn.NewReg(TypePtr)
		g.fn.Emit(&GetFieldPtr{Dst: lenPtr, Base: base, Index: 1, Field: "len"})
		lenVal := g.fn.NewReg(TypeI64)
		g.fn.Emit(&Load{Dst: lenVal, Addr: lenPtr})
		size = lenVal
	}
	inBounds := g.fn.NewReg(TypeI1)
	g.fn.Emit(&BoundsCheck{Dst: inBounds, Index: index, Size: size})

	panicBlock := g.fn.NewBlock("bounds.panic")
	okBlock := g.fn.NewBlock("bounds.ok")
	g.fn.SetTerm(&CondBr{Cond: inBounds, TrueTarget: okBlock.Name, FalseTarget: panicBlock.Name})

	g.fn.SetCurrent(panicBlock)
	g.runDefers(0)
	msg := g.internString("index out of bounds")
	g.fn.Emit(&Call{Callee: "pyrite_panic", Args: []Operand{msg}})
	g.fn.SetTerm(&Unreachable{})

	g.fn.SetCurrent(okBlock)
}

// genExpr lowers expr to the operand holding its value, emitting whatever
// instructions are needed into the current block.
func (g *Gen) genExpr(expr ast.Expression) Operand {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return ConstInt{Typ: lowerType(g.chk.TypeOf(e)), Value: e.Value}
	case *ast.FloatLiteral:
		return ConstFloat{Typ: lowerType(g.chk.TypeOf(e)), Value: e.Value}
	case *ast.BoolLiteral:
		return ConstBool{Value: e.Value}
	case *ast.CharLiteral:
		return ConstInt{Typ: TypeI32, Value: int64(e.Value)}
	case *ast.StringLiteral:
		return g.internString(e.Value)
	case *ast.Identifier:
		if op, ok := g.env.get(e.Name); ok {
			return g.readOperand(op)
		}
		g.bug(e.Token, "unresolved identifier \""+e.Name+"\" reached codegen")
		return ConstInt{Typ: TypeI32, Value: 0}
	case *ast.BinaryExpression:
		return g.genBinary(e)
	case *ast.UnaryExpression:
		return g.genUnary(e)
	case *ast.CallExpression:
		return g.genCall(e)
	case *ast.MethodCallExpression:
		return g.genMethodCall(e)
	case *ast.StructLiteralExpression:
		return g.genStructLiteral(e)
	case *ast.EnumConstructExpression:
		return g.genEnumConstruct(e)
	case *ast.FieldAccessExpression:
		return g.genFieldAccess(e)
	case *ast.IndexExpression:
		return g.genIndex(e)
	case *ast.RefExpression:
		return g.genRef(e)
	case *ast.TryExpression:
		return g.genTry(e)
	case *ast.AsCastExpression:
		return g.genCast(e)
	case *ast.TupleExpression:
		return g.genTuple(e)
	case *ast.MatchExpression:
		return g.genMatch(e)
	case *ast.ParamClosureExpression:
		g.bug(e.Token, "parameter closure reached codegen unsplicized (internal/desugar should have inlined it)")
		return ConstInt{Typ: TypeI32, Value: 0}
	case *ast.RuntimeClosureExpression:
		return g.genRuntimeClosure(e)
	case *ast.InlinedBlockExpression:
		return g.genInlinedBlock(e)
	default:
		return ConstInt{Typ: TypeI32, Value: 0}
	}
}

func (g *Gen) readOperand(op Operand) Operand {
	if slot, ok := op.(*stackSlot); ok {
		dst := g.fn.NewReg(slot.elem)
		g.fn.Emit(&Load{Dst: dst, Addr: slot.ptr})
		return dst
	}
	return op
}

var binOpName = map[string]string{
	"+": "add", "-": "sub", "*": "mul", "/": "sdiv", "%": "srem",
	"==": "eq", "!=": "ne", "<": "slt", "<=": "sle", ">": "sgt", ">=": "sge",
	"&&": "and", "||": "or",
}

func (g *Gen) genBinary(e *ast.BinaryExpression) Operand {
	left := g.genExpr(e.Left)
	right := g.genExpr(e.Right)
	op, ok := binOpName[e.Op]
	if !ok {
		op = e.Op
	}
	resultType := TypeI1
	switch e.Op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		resultType = TypeI1
	default:
		resultType = left.Type()
	}
	dst := g.fn.NewReg(resultType)
	g.fn.Emit(&BinOp{Dst: dst, Op: op, Left: left, Right: right})
	return dst
}

func (g *Gen) genUnary(e *ast.UnaryExpression) Operand {
	operand := g.genExpr(e.Operand)
	op := "neg"
	resultType := operand.Type()
	if e.Op == "!" {
		op = "not"
		resultType = TypeI1
	}
	dst := g.fn.NewReg(resultType)
	g.fn.Emit(&UnOp{Dst: dst, Op: op, Operand: operand})
	return dst
}

func (g *Gen) genArgs(args []ast.Expression) []Operand {
	out := make([]Operand, len(args))
	for i, a := range args {
		out[i] = g.genExpr(a)
	}
	return out
}

func (g *Gen) genCall(e *ast.CallExpression) Operand {
	args := g.genArgs(e.Args)
	if id, ok := e.Callee.(*ast.Identifier); ok {
		if op, isVar := g.env.get(id.Name); isVar {
			// A call through a stored closure value, not a direct function
			// name — indirect dispatch through {fnptr, envptr}.
			return g.genIndirectClosureCall(g.readOperand(op), args)
		}
		retType := TypeVoid
		if t := g.chk.TypeOf(e); t != nil {
			retType = lowerType(t)
		}
		var dst *Reg
		if retType != TypeVoid {
			dst = g.fn.NewReg(retType)
		}
		g.fn.Emit(&Call{Dst: dst, Callee: id.Name, Args: args})
		if dst == nil {
			return ConstInt{Typ: TypeI32, Value: 0}
		}
		return dst
	}
	closure := g.genExpr(e.Callee)
	return g.genIndirectClosureCall(closure, args)
}

func (g *Gen) genIndirectClosureCall(closure Operand, args []Operand) Operand {
	fnPtrField := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: fnPtrField, Base: closure, Index: 0, Field: "fn"})
	fnPtr := g.fn.NewReg(TypePtr)
	g.fn.Emit(&Load{Dst: fnPtr, Addr: fnPtrField})
	envPtrField := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: envPtrField, Base: closure, Index: 1, Field: "env"})
	envPtr := g.fn.NewReg(TypePtr)
	g.fn.Emit(&Load{Dst: envPtr, Addr: envPtrField})
	dst := g.fn.NewReg(TypeI64)
	g.fn.Emit(&IndirectCall{Dst: dst, FnPtr: fnPtr, EnvPtr: envPtr, Args: args})
	return dst
}

// genMethodCall implements static dispatch: inherent T_method first,
// then T_Trait_method for each trait impl, resolved via the same
// ImplTable.ResolveMethod order the checker used.
func (g *Gen) genMethodCall(e *ast.MethodCallExpression) Operand {
	recv := g.genExpr(e.Receiver)
	args := g.genArgs(e.Args)

	typeName := typeNameOf(g.chk.TypeOf(e.Receiver))
	callee := typeName + "_" + e.Method
	if _, fromTrait, _ := g.chk.Impls().ResolveMethod(typeName, e.Method); fromTrait != "" {
		callee = typeName + "_" + fromTrait + "_" + e.Method
	} else if _, ok := g.chk.Impls().Inherent(typeName); !ok {
		// No inherent override found by resolution; fall back to a trait
		// default body compiled under this type's name (genDefaultMethods).
		for _, trait := range g.chk.Impls().TraitsFor(typeName) {
			callee = typeName + "_" + trait + "_" + e.Method
		}
	}

	allArgs := append([]Operand{recv}, args...)
	retType := TypeVoid
	if t := g.chk.TypeOf(e); t != nil {
		retType = lowerType(t)
	}
	var dst *Reg
	if retType != TypeVoid {
		dst = g.fn.NewReg(retType)
	}
	g.fn.Emit(&Call{Dst: dst, Callee: callee, Args: allArgs})
	if dst == nil {
		return ConstInt{Typ: TypeI32, Value: 0}
	}
	return dst
}

func (g *Gen) genStructLiteral(e *ast.StructLiteralExpression) Operand {
	typ := NamedType(e.TypeName)
	slot := g.fn.NewReg(TypePtr)
	g.fn.Emit(&Alloca{Dst: slot, Typ: typ})
	layout := g.structLayout[e.TypeName]
	for _, f := range e.Fields {
		idx := 0
		if layout != nil {
			for i, lf := range layout.Fields {
				if lf.Name == f.Name {
					idx = i
					break
				}
			}
		}
		val := g.genExpr(f.Value)
		if layout != nil {
			if ft, ok := layout.FieldType(f.Name); ok && !isCopyType(ft) {
				g.cost.RecordCopy(ft.String(), g.funcName, e.Token.Span)
			}
		}
		addr := g.fn.NewReg(TypePtr)
		g.fn.Emit(&GetFieldPtr{Dst: addr, Base: slot, Index: idx, Field: f.Name})
		g.fn.Emit(&Store{Addr: addr, Val: val})
	}
	out := g.fn.NewReg(typ)
	g.fn.Emit(&Load{Dst: out, Addr: slot})
	return out
}

func isCopyType(t typesystem.Type) bool {
	switch t.(type) {
	case typesystem.Int, typesystem.Float, typesystem.Bool, typesystem.Char, typesystem.Void:
		return true
	default:
		return false
	}
}

// genEnumConstruct materializes the tagged union directly — never a call
//.
func (g *Gen) genEnumConstruct(e *ast.EnumConstructExpression) Operand {
	enumType := g.chk.TypeOf(e)
	enumName := e.EnumName
	if en, ok := enumType.(typesystem.Enum); ok {
		enumName = en.Name
	}
	en := g.enumLayout[enumName]

	var tag int
	var payloadSlots int
	if en != nil {
		tag = en.VariantIndex(e.Variant)
		payloadSlots = en.MaxPayloadFields()
	}

	if en == nil || !en.HasPayload() {
		return ConstInt{Typ: TypeI32, Value: int64(tag)}
	}

	typ := NamedType(enumName)
	slot := g.fn.NewReg(TypePtr)
	g.fn.Emit(&Alloca{Dst: slot, Typ: typ})
	tagAddr := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: tagAddr, Base: slot, Index: 0, Field: "tag"})
	g.fn.Emit(&Store{Addr: tagAddr, Val: ConstInt{Typ: TypeI32, Value: int64(tag)}})

	for i, arg := range e.Args {
		if i >= payloadSlots {
			break
		}
		val := g.genExpr(arg)
		widened := g.fn.NewReg(TypeI64)
		g.fn.Emit(&Cast{Dst: widened, Operand: val})
		fieldAddr := g.fn.NewReg(TypePtr)
		g.fn.Emit(&GetFieldPtr{Dst: fieldAddr, Base: slot, Index: i + 1, Field: "f" + itoa(i)})
		g.fn.Emit(&Store{Addr: fieldAddr, Val: widened})
	}
	out := g.fn.NewReg(typ)
	g.fn.Emit(&Load{Dst: out, Addr: slot})
	return out
}

func (g *Gen) genFieldAccess(e *ast.FieldAccessExpression) Operand {
	base := g.genExpr(e.Object)
	idx, fieldName := g.fieldIndex(e.Object, e.Field)
	addr := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: addr, Base: base, Index: idx, Field: fieldName})
	resultType := lowerType(g.chk.TypeOf(e))
	dst := g.fn.NewReg(resultType)
	g.fn.Emit(&Load{Dst: dst, Addr: addr})
	return dst
}

func (g *Gen) genIndex(e *ast.IndexExpression) Operand {
	base := g.genExpr(e.Object)
	index := g.genExpr(e.Index)
	g.emitBoundsCheck(e, base, index)
	addr := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetElementPtr{Dst: addr, Base: base, Index: index})
	resultType := lowerType(g.chk.TypeOf(e))
	dst := g.fn.NewReg(resultType)
	g.fn.Emit(&Load{Dst: dst, Addr: addr})
	return dst
}

// genRef lowers a borrow expression: references lower to pointers.
// If Operand is an identifier bound to a `var` stack slot, its address is
// already a pointer and is returned directly rather than re-loaded.
func (g *Gen) genRef(e *ast.RefExpression) Operand {
	if id, ok := e.Operand.(*ast.Identifier); ok {
		if op, ok := g.env.get(id.Name); ok {
			if slot, ok := op.(*stackSlot); ok {
				return slot.ptr
			}
		}
	}
	return g.genExpr(e.Operand)
}

// genTry lowers `try e` per: evaluate e (a Result); on Err, run all
// function-scope defers and return the whole Result as-is; otherwise
// decode and continue with the Ok payload.
func (g *Gen) genTry(e *ast.TryExpression) Operand {
	result := g.genExpr(e.Operand)
	operandType := g.chk.TypeOf(e.Operand)
	en, _ := operandType.(typesystem.Enum)

	okTag, errTag := 0, 1
	if len(en.Variants) > 0 {
		okTag = en.VariantIndex("Ok")
		errTag = en.VariantIndex("Err")
		if okTag < 0 {
			okTag = 0
		}
		if errTag < 0 {
			errTag = 1
		}
	}

	tagAddrSlot := g.fn.NewReg(TypePtr)
	g.fn.Emit(&Alloca{Dst: tagAddrSlot, Typ: NamedType(en.Name)})
	g.fn.Emit(&Store{Addr: tagAddrSlot, Val: result})
	tagAddr := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: tagAddr, Base: tagAddrSlot, Index: 0, Field: "tag"})
	tagVal := g.fn.NewReg(TypeI32)
	g.fn.Emit(&Load{Dst: tagVal, Addr: tagAddr})

	isErr := g.fn.NewReg(TypeI1)
	g.fn.Emit(&BinOp{Dst: isErr, Op: "eq", Left: tagVal, Right: ConstInt{Typ: TypeI32, Value: int64(errTag)}})

	errBlock := g.fn.NewBlock("try.err")
	okBlock := g.fn.NewBlock("try.ok")
	g.fn.SetTerm(&CondBr{Cond: isErr, TrueTarget: errBlock.Name, FalseTarget: okBlock.Name})

	g.fn.SetCurrent(errBlock)
	g.runDefers(0)
	g.fn.SetTerm(&Ret{Val: result})

	g.fn.SetCurrent(okBlock)
	_ = okTag
	if len(en.Variants) == 0 || len(en.Variants[0].Fields) == 0 {
		return ConstInt{Typ: TypeVoid, Value: 0}
	}
	payloadAddr := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: payloadAddr, Base: tagAddrSlot, Index: 1, Field: "f0"})
	widened := g.fn.NewReg(TypeI64)
	g.fn.Emit(&Load{Dst: widened, Addr: payloadAddr})
	payloadType := lowerType(en.Variants[okTag].Fields[0])
	narrowed := g.fn.NewReg(payloadType)
	g.fn.Emit(&Cast{Dst: narrowed, Operand: widened})
	return narrowed
}

func (g *Gen) genCast(e *ast.AsCastExpression) Operand {
	operand := g.genExpr(e.Operand)
	target := lowerType(g.chk.ResolveTypeExpr(e.TargetType))
	dst := g.fn.NewReg(target)
	g.fn.Emit(&Cast{Dst: dst, Operand: operand})
	return dst
}

func (g *Gen) genTuple(e *ast.TupleExpression) Operand {
	var elems []Type
	for _, el := range e.Elements {
		elems = append(elems, lowerType(g.chk.TypeOf(el)))
	}
	typ := tupleType(elems)
	slot := g.fn.NewReg(TypePtr)
	g.fn.Emit(&Alloca{Dst: slot, Typ: typ})
	for i, el := range e.Elements {
		val := g.genExpr(el)
		addr := g.fn.NewReg(TypePtr)
		g.fn.Emit(&GetFieldPtr{Dst: addr, Base: slot, Index: i, Field: "t" + itoa(i)})
		g.fn.Emit(&Store{Addr: addr, Val: val})
	}
	out := g.fn.NewReg(typ)
	g.fn.Emit(&Load{Dst: out, Addr: slot})
	return out
}

// genRuntimeClosure synthesizes a fresh top-level function for the closure
// body and packages {fnptr, envptr}. The environment is heap-
// allocated only when the closure actually captures something, else the
// environment pointer is null.
func (g *Gen) genRuntimeClosure(e *ast.RuntimeClosureExpression) Operand {
	fnName := g.funcName + ".closure" + itoa(g.anonCounter)
	g.anonCounter++

	params := []FuncParam{{Name: "env", Typ: TypePtr}}
	for _, p := range e.Params {
		params = append(params, FuncParam{Name: p.Name, Typ: g.lowerParamType(p.Type, "")})
	}
	retType := TypeVoid
	if e.ReturnType != nil {
		retType = g.lowerTypeExprAsSelf(e.ReturnType, "")
	}
	closureFn := NewFunction(fnName, params, retType)

	outerEnv := g.env
	savedFn, savedFuncName, savedEnv, savedDefers := g.fn, g.funcName, g.env, g.deferScopes
	g.fn = closureFn
	g.funcName = fnName
	g.env = newGenEnv(nil)
	g.deferScopes = nil

	entry := closureFn.NewBlock("entry")
	closureFn.SetCurrent(entry)

	envParam := paramRef{name: "env", typ: TypePtr}
	for i, cap := range e.Captures {
		fieldAddr := g.fn.NewReg(TypePtr)
		g.fn.Emit(&GetFieldPtr{Dst: fieldAddr, Base: envParam, Index: i, Field: cap.Name})
		if cap.ByRef {
			g.env.set(cap.Name, &stackSlot{ptr: fieldAddr, elem: TypeI64})
		} else {
			loaded := g.fn.NewReg(TypeI64)
			g.fn.Emit(&Load{Dst: loaded, Addr: fieldAddr})
			g.env.set(cap.Name, loaded)
		}
	}
	for _, p := range e.Params {
		g.env.set(p.Name, paramRef{name: p.Name, typ: g.lowerParamType(p.Type, "")})
	}

	g.pushScope()
	g.genBlock(e.Body)
	if !g.fn.Terminated() {
		g.runDefers(g.currentScopeDepth())
		if retType == TypeVoid {
			g.fn.SetTerm(&Ret{})
		} else {
			g.fn.SetTerm(&Ret{Val: zeroValue(retType)})
		}
	}
	g.popScope()
	g.module.Functions = append(g.module.Functions, closureFn)

	g.fn, g.funcName, g.env, g.deferScopes = savedFn, savedFuncName, savedEnv, savedDefers

	var envPtr Operand = Null{Typ: TypePtr}
	if len(e.Captures) > 0 {
		raw := g.fn.NewReg(TypePtr)
		g.fn.Emit(&Malloc{Dst: raw, Size: ConstInt{Typ: TypeI64, Value: int64(len(e.Captures) * 8)}})
		g.cost.RecordAllocation(AllocClosureEnv, g.funcName, e.Token.Span)
		for i, cap := range e.Captures {
			var capVal Operand = ConstInt{Typ: TypeI64, Value: 0}
			if bound, ok := outerEnv.get(cap.Name); ok {
				if cap.ByRef {
					if slot, isSlot := bound.(*stackSlot); isSlot {
						capVal = slot.ptr
					} else {
						capVal = g.readOperand(bound)
					}
				} else {
					capVal = g.readOperand(bound)
				}
			}
			fieldAddr := g.fn.NewReg(TypePtr)
			g.fn.Emit(&GetFieldPtr{Dst: fieldAddr, Base: raw, Index: i, Field: cap.Name})
			g.fn.Emit(&Store{Addr: fieldAddr, Val: capVal})
		}
		envPtr = raw
	}

	closureType := ClosureType(functionPointerSigFromFunc(closureFn))
	slot := g.fn.NewReg(TypePtr)
	g.fn.Emit(&Alloca{Dst: slot, Typ: closureType})
	fnField := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: fnField, Base: slot, Index: 0, Field: "fn"})
	g.fn.Emit(&Store{Addr: fnField, Val: GlobalRef{Name: fnName, Typ: TypePtr}})
	envField := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: envField, Base: slot, Index: 1, Field: "env"})
	g.fn.Emit(&Store{Addr: envField, Val: envPtr})
	out := g.fn.NewReg(closureType)
	g.fn.Emit(&Load{Dst: out, Addr: slot})
	return out
}

func functionPointerSigFromFunc(fn *Function) string {
	sig := string(fn.ReturnType) + " ("
	for i, p := range fn.Params {
		if i > 0 {
			sig += ", "
		}
		sig += string(p.Typ)
	}
	return sig + ")"
}

// genMatch lowers a match expression through a chain of pattern-test
// branches into a result stack slot, rather than phi nodes (instr.go) — the
// one value-producing control construct in this AST.
func (g *Gen) genMatch(e *ast.MatchExpression) Operand {
	scrutinee := g.genExpr(e.Scrutinee)
	scrutType := g.chk.TypeOf(e.Scrutinee)
	resultType := lowerType(g.chk.TypeOf(e))

	var resultSlot *Reg
	if resultType != TypeVoid {
		resultSlot = g.fn.NewReg(TypePtr)
		g.fn.Emit(&Alloca{Dst: resultSlot, Typ: resultType})
	}

	merge := g.fn.NewBlock("match.merge")
	g.genMatchArms(scrutinee, scrutType, e.Arms, resultSlot, resultType, merge)
	g.fn.SetCurrent(merge)

	if resultSlot == nil {
		return ConstInt{Typ: TypeVoid, Value: 0}
	}
	out := g.fn.NewReg(resultType)
	g.fn.Emit(&Load{Dst: out, Addr: resultSlot})
	return out
}

func (g *Gen) genMatchArms(scrutinee Operand, scrutType typesystem.Type, arms []*ast.MatchArm, resultSlot *Reg, resultType Type, merge *BasicBlock) {
	if len(arms) == 0 {
		// Exhaustiveness is enforced by the checker; reaching here at
		// runtime would be a compiler bug, not a user-reachable case.
		msg := g.internString("non-exhaustive match")
		g.fn.Emit(&Call{Callee: "pyrite_panic", Args: []Operand{msg}})
		g.fn.SetTerm(&Unreachable{})
		return
	}
	arm := arms[0]
	armBlock := g.fn.NewBlock("match.arm")
	nextBlock := g.fn.NewBlock("match.next")

	cond := g.genPatternTest(scrutinee, scrutType, arm.Pattern)
	g.fn.SetTerm(&CondBr{Cond: cond, TrueTarget: armBlock.Name, FalseTarget: nextBlock.Name})

	g.fn.SetCurrent(armBlock)
	savedEnv := g.env
	g.env = newGenEnv(savedEnv)
	g.bindPattern(scrutinee, scrutType, arm.Pattern)

	target := nextBlock
	if arm.Guard != nil {
		guardVal := g.genExpr(arm.Guard)
		guardTrue := g.fn.NewBlock("match.guard")
		g.fn.SetTerm(&CondBr{Cond: guardVal, TrueTarget: guardTrue.Name, FalseTarget: target.Name})
		g.fn.SetCurrent(guardTrue)
	}

	bodyVal := g.genExpr(arm.Body)
	if resultSlot != nil && !g.fn.Terminated() {
		g.fn.Emit(&Store{Addr: resultSlot, Val: bodyVal})
	}
	g.env = savedEnv
	if !g.fn.Terminated() {
		g.fn.SetTerm(&Br{Target: merge.Name})
	}

	g.fn.SetCurrent(nextBlock)
	g.genMatchArms(scrutinee, scrutType, arms[1:], resultSlot, resultType, merge)
}

func (g *Gen) genPatternTest(scrutinee Operand, scrutType typesystem.Type, pat ast.Pattern) Operand {
	switch p := pat.(type) {
	case *ast.WildcardPattern, *ast.IdentifierPattern:
		return ConstBool{Value: true}
	case *ast.LiteralPattern:
		lit := g.genExpr(p.Value)
		dst := g.fn.NewReg(TypeI1)
		g.fn.Emit(&BinOp{Dst: dst, Op: "eq", Left: scrutinee, Right: lit})
		return dst
	case *ast.TuplePattern:
		tup, _ := scrutType.(typesystem.Tuple)
		var result Operand = ConstBool{Value: true}
		for i, sub := range p.Elements {
			var elemType typesystem.Type
			if i < len(tup.Elements) {
				elemType = tup.Elements[i]
			}
			fieldAddr := g.fn.NewReg(TypePtr)
			g.fn.Emit(&GetFieldPtr{Dst: fieldAddr, Base: scrutinee, Index: i, Field: "t" + itoa(i)})
			loaded := g.fn.NewReg(lowerType(elemType))
			g.fn.Emit(&Load{Dst: loaded, Addr: fieldAddr})
			subTest := g.genPatternTest(loaded, elemType, sub)
			and := g.fn.NewReg(TypeI1)
			g.fn.Emit(&BinOp{Dst: and, Op: "and", Left: result, Right: subTest})
			result = and
		}
		return result
	case *ast.EnumPattern:
		en, _ := scrutType.(typesystem.Enum)
		tag := en.VariantIndex(p.Variant)
		tagVal, slotPtr := g.enumTag(scrutinee, en)
		dst := g.fn.NewReg(TypeI1)
		g.fn.Emit(&BinOp{Dst: dst, Op: "eq", Left: tagVal, Right: ConstInt{Typ: TypeI32, Value: int64(tag)}})
		if len(p.SubPatterns) == 0 || tag < 0 || tag >= len(en.Variants) || slotPtr == nil {
			return dst
		}
		variant := en.Variants[tag]
		result := Operand(dst)
		for i, sub := range p.SubPatterns {
			if i >= len(variant.Fields) {
				break
			}
			payload := g.loadEnumPayload(slotPtr, i, variant.Fields[i])
			subTest := g.genPatternTest(payload, variant.Fields[i], sub)
			and := g.fn.NewReg(TypeI1)
			g.fn.Emit(&BinOp{Dst: and, Op: "and", Left: result, Right: subTest})
			result = and
		}
		return result
	default:
		return ConstBool{Value: true}
	}
}

func (g *Gen) bindPattern(scrutinee Operand, scrutType typesystem.Type, pat ast.Pattern) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		g.env.set(p.Name, scrutinee)
	case *ast.WildcardPattern, *ast.LiteralPattern:
	case *ast.TuplePattern:
		tup, _ := scrutType.(typesystem.Tuple)
		for i, sub := range p.Elements {
			var elemType typesystem.Type
			if i < len(tup.Elements) {
				elemType = tup.Elements[i]
			}
			fieldAddr := g.fn.NewReg(TypePtr)
			g.fn.Emit(&GetFieldPtr{Dst: fieldAddr, Base: scrutinee, Index: i, Field: "t" + itoa(i)})
			loaded := g.fn.NewReg(lowerType(elemType))
			g.fn.Emit(&Load{Dst: loaded, Addr: fieldAddr})
			g.bindPattern(loaded, elemType, sub)
		}
	case *ast.EnumPattern:
		en, _ := scrutType.(typesystem.Enum)
		tag := en.VariantIndex(p.Variant)
		if tag < 0 || tag >= len(en.Variants) || len(p.SubPatterns) == 0 {
			return
		}
		_, slotPtr := g.enumTag(scrutinee, en)
		if slotPtr == nil {
			return
		}
		variant := en.Variants[tag]
		for i, sub := range p.SubPatterns {
			if i >= len(variant.Fields) {
				break
			}
			payload := g.loadEnumPayload(slotPtr, i, variant.Fields[i])
			g.bindPattern(payload, variant.Fields[i], sub)
		}
	}
}

// enumTag materializes scrutinee into an addressable slot (enum values are
// otherwise passed by value) and returns its tag plus that slot, or just the
// bare i32 tag and a nil slot for a unit-only enum.
func (g *Gen) enumTag(scrutinee Operand, en typesystem.Enum) (Operand, *Reg) {
	if !en.HasPayload() {
		return scrutinee, nil
	}
	slot := g.fn.NewReg(TypePtr)
	g.fn.Emit(&Alloca{Dst: slot, Typ: NamedType(en.Name)})
	g.fn.Emit(&Store{Addr: slot, Val: scrutinee})
	tagAddr := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: tagAddr, Base: slot, Index: 0, Field: "tag"})
	tagVal := g.fn.NewReg(TypeI32)
	g.fn.Emit(&Load{Dst: tagVal, Addr: tagAddr})
	return tagVal, slot
}

func (g *Gen) loadEnumPayload(slotPtr *Reg, index int, fieldType typesystem.Type) Operand {
	fieldAddr := g.fn.NewReg(TypePtr)
	g.fn.Emit(&GetFieldPtr{Dst: fieldAddr, Base: slotPtr, Index: index + 1, Field: "f" + itoa(index)})
	widened := g.fn.NewReg(TypeI64)
	g.fn.Emit(&Load{Dst: widened, Addr: fieldAddr})
	target := lowerType(fieldType)
	narrowed := g.fn.NewReg(target)
	g.fn.Emit(&Cast{Dst: narrowed, Operand: widened})
	return narrowed
}

// genInlinedBlock runs a desugar-spliced closure body in its own scope,
// producing its trailing ReturnStatement's value (or Void) the same way a
// function body would — it's never a real function boundary, just a
// straight-line splice (internal/desugar).
func (g *Gen) genInlinedBlock(e *ast.InlinedBlockExpression) Operand {
	savedEnv := g.env
	g.env = newGenEnv(savedEnv)
	g.pushScope()

	var result Operand = ConstInt{Typ: TypeVoid, Value: 0}
	for _, stmt := range e.Statements {
		if g.fn.Terminated() {
			break
		}
		if rs, ok := stmt.(*ast.ReturnStatement); ok {
			if rs.Value != nil {
				result = g.genExpr(rs.Value)
			}
			continue
		}
		g.genStatement(stmt)
	}

	g.runDefers(g.currentScopeDepth())
	g.popScope()
	g.env = savedEnv
	return result
}
