package checker

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/token"
	"github.com/funvibe/pyrite/internal/typesystem"
)

func (c *Checker) inferCall(e *ast.CallExpression) typesystem.Type {
	callee, ok := e.Callee.(*ast.Identifier)
	if !ok {
		// A call through a first-class function value, e.g. a stored closure.
		ft, ok := c.infer(e.Callee).(typesystem.Function)
		if !ok {
			c.diags.Add(diagnostics.New(diagnostics.ErrNotAFunction, e.Token, "callee is not callable"))
			for _, a := range e.Args {
				c.infer(a)
			}
			return typesystem.Void{}
		}
		return c.checkArgsAgainst(e.Token, ft.ParamTypes, ft.ReturnType, e.Args)
	}

	fn, ok := c.funcDecls[callee.Name]
	if !ok {
		c.diags.Add(diagnostics.New(diagnostics.ErrNotAFunction, e.Token, "\""+callee.Name+"\" is not a function"))
		for _, a := range e.Args {
			c.infer(a)
		}
		return typesystem.Void{}
	}
	return c.checkGenericCall(e.Token, fn, e.TypeArgs, e.ConstArgs, e.Args)
}

// checkGenericCall handles both ordinary and generic calls. When fn has
// type parameters and the call site supplies no explicit type arguments,
// it infers them by unifying formal parameter types against argument types
// (single-pass, first-match; a TypeVariable binds to the
// argument's type, two concretes must be structurally equal).
func (c *Checker) checkGenericCall(tok token.Token, fn *ast.FunctionDecl, explicitTypeArgs []ast.TypeExpr, constArgs, args []ast.Expression) typesystem.Type {
	if len(fn.TypeParams) == 0 {
		sig := c.functionType(fn)
		return c.checkArgsAgainst(tok, sig.ParamTypes, sig.ReturnType, args)
	}

	bindings := make(map[string]typesystem.Type)
	if len(explicitTypeArgs) > 0 {
		i := 0
		for _, tp := range fn.TypeParams {
			if tp.IsConst {
				continue
			}
			if i < len(explicitTypeArgs) {
				bindings[tp.Name] = c.resolveType(explicitTypeArgs[i])
				i++
			}
		}
	}

	var paramTypes []typesystem.Type
	var retType typesystem.Type
	c.withTypeParams(fn.TypeParams, func() {
		for _, p := range fn.Params {
			paramTypes = append(paramTypes, c.resolveType(p.Type))
		}
		retType = c.resolveType(fn.ReturnType)
	})

	if len(bindings) == 0 {
		for i, pt := range paramTypes {
			if i >= len(args) {
				break
			}
			argType := c.infer(args[i])
			unify(pt, argType, bindings)
		}
	} else {
		for i, a := range args {
			if i < len(paramTypes) {
				c.infer(a)
			}
		}
	}

	for _, tp := range fn.TypeParams {
		if tp.IsConst {
			continue
		}
		bound, ok := bindings[tp.Name]
		if !ok {
			c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, tok,
					"could not infer type parameter \""+tp.Name+"\""))
			continue
		}
		for _, traitName := range tp.Bounds {
			if !c.satisfiesTraitBound(bound, traitName) {
				c.diags.Add(diagnostics.New(diagnostics.ErrTraitBoundUnsatisfied, tok,
						bound.String()+" does not implement "+traitName))
			}
		}
	}

	substituted := make([]typesystem.Type, len(paramTypes))
	for i, pt := range paramTypes {
		substituted[i] = substituteBindings(pt, bindings)
	}
	return c.checkArgsAgainstResolved(tok, substituted, substituteBindings(retType, bindings), args)
}

// satisfiesTraitBound reports whether concrete, a named struct, enum, or
// generic type, has an impl of traitName in the trait_implementations
// table. Any other type, primitives included, never satisfies a bound.
func (c *Checker) satisfiesTraitBound(concrete typesystem.Type, traitName string) bool {
	name, ok := typeNameOf(concrete)
	if !ok {
		return false
	}
	return c.Impls().Implements(name, traitName)
}

func typeNameOf(t typesystem.Type) (string, bool) {
	switch v := t.(type) {
	case typesystem.Struct:
		return v.Name, true
	case typesystem.Enum:
		return v.Name, true
	case typesystem.Generic:
		return v.Name, true
	default:
		return "", false
	}
}

// unify implements the first-match unification-lite of : a
// TypeVariable on the formal side binds to the argument's type; otherwise
// the two must already be structurally equal (mismatches are reported by
// the arity/type check that follows, not here).
func unify(formal, actual typesystem.Type, bindings map[string]typesystem.Type) {
	switch f := formal.(type) {
	case typesystem.TypeVariable:
		if _, bound := bindings[f.Name]; !bound {
			bindings[f.Name] = actual
		}
	case typesystem.Reference:
		if a, ok := actual.(typesystem.Reference); ok {
			unify(f.Inner, a.Inner, bindings)
		}
	case typesystem.Slice:
		if a, ok := actual.(typesystem.Slice); ok {
			unify(f.Element, a.Element, bindings)
		}
	case typesystem.Array:
		if a, ok := actual.(typesystem.Array); ok {
			unify(f.Element, a.Element, bindings)
		}
	case typesystem.Generic:
		if a, ok := actual.(typesystem.Generic); ok && a.Name == f.Name {
			for i := range f.TypeArgs {
				if i < len(a.TypeArgs) {
					unify(f.TypeArgs[i], a.TypeArgs[i], bindings)
				}
			}
		}
	}
}

func substituteBindings(t typesystem.Type, bindings map[string]typesystem.Type) typesystem.Type {
	switch v := t.(type) {
	case typesystem.TypeVariable:
		if bound, ok := bindings[v.Name]; ok {
			return bound
		}
		return v
	case typesystem.Reference:
		return typesystem.Reference{Mutable: v.Mutable, Inner: substituteBindings(v.Inner, bindings)}
	case typesystem.Pointer:
		return typesystem.Pointer{Mutable: v.Mutable, Inner: substituteBindings(v.Inner, bindings)}
	case typesystem.Slice:
		return typesystem.Slice{Element: substituteBindings(v.Element, bindings)}
	case typesystem.Array:
		return typesystem.Array{Element: substituteBindings(v.Element, bindings), Size: v.Size}
	case typesystem.Generic:
		args := make([]typesystem.Type, len(v.TypeArgs))
		for i, a := range v.TypeArgs {
			args[i] = substituteBindings(a, bindings)
		}
		return typesystem.Generic{Name: v.Name, Base: v.Base, TypeArgs: args}
	default:
		return t
	}
}

func (c *Checker) checkArgsAgainst(tok token.Token, paramTypes []typesystem.Type, ret typesystem.Type, args []ast.Expression) typesystem.Type {
	return c.checkArgsAgainstResolved(tok, paramTypes, ret, args)
}

func (c *Checker) checkArgsAgainstResolved(tok token.Token, paramTypes []typesystem.Type, ret typesystem.Type, args []ast.Expression) typesystem.Type {
	if len(args) != len(paramTypes) {
		c.diags.Add(diagnostics.New(diagnostics.ErrWrongArity, tok,
				"expected "+diagArity(len(paramTypes), len(args))))
		for _, a := range args {
			c.infer(a)
		}
		return ret
	}
	for i, a := range args {
		c.check(a, paramTypes[i])
	}
	return ret
}

func (c *Checker) inferMethodCall(e *ast.MethodCallExpression) typesystem.Type {
	recvType := c.infer(e.Receiver)
	typeName, ok := typeNameOf(recvType)
	if !ok {
		if ref, ok := recvType.(typesystem.Reference); ok {
			typeName, ok = typeNameOf(ref.Inner)
			if !ok {
				c.diags.Add(diagnostics.New(diagnostics.ErrNoSuchMethod, e.Token, recvType.String()+" has no methods"))
				return typesystem.Void{}
			}
		} else {
			c.diags.Add(diagnostics.New(diagnostics.ErrNoSuchMethod, e.Token, recvType.String()+" has no methods"))
			return typesystem.Void{}
		}
	}

	fn, fromTrait, ambiguous := c.Impls().ResolveMethod(typeName, e.Method)
	if ambiguous {
		c.diags.Add(diagnostics.New(diagnostics.ErrAmbiguousMethod, e.Token,
				"call to \""+e.Method+"\" on "+typeName+" is ambiguous between multiple trait impls"))
	}
	if fn == nil {
		fn = c.traitDefaultMethod(typeName, e.Method)
		if fn == nil {
			c.diags.Add(diagnostics.New(diagnostics.ErrNoSuchMethod, e.Token,
					"no method \""+e.Method+"\" on "+typeName))
			for _, a := range e.Args {
				c.infer(a)
			}
			return typesystem.Void{}
		}
	}
	_ = fromTrait

	var paramTypes []typesystem.Type
	var retType typesystem.Type
	savedSelf := c.selfType
	c.selfType = recvType
	c.withTypeParams(fn.TypeParams, func() {
		for _, p := range fn.Params {
			paramTypes = append(paramTypes, c.resolveType(p.Type))
		}
		retType = c.resolveType(fn.ReturnType)
	})
	c.selfType = savedSelf

	return c.checkArgsAgainstResolved(e.Token, paramTypes, retType, e.Args)
}

// traitDefaultMethod is step 3 of method resolution order:
// if T implements a trait that declares method but supplies no override,
// fall back to that trait's default body.
func (c *Checker) traitDefaultMethod(typeName, method string) *ast.FunctionDecl {
	for _, traitName := range c.Impls().TraitsFor(typeName) {
		td, ok := c.traitDecls[traitName]
		if !ok {
			continue
		}
		for _, m := range td.Methods {
			if m.Name == method && m.Body != nil {
				return m
			}
		}
	}
	return nil
}
