package checker

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/token"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// resolveType turns a syntactic TypeExpr into a typesystem.Type, per
// "Resolution of a named type": primitives map directly,
// user declarations resolve through c.types, Self substitutes the current
// impl's target type, and Trait::Item resolves through the associated-type
// bindings of Self's impl of Trait (see resolveAssociatedType).
func (c *Checker) resolveType(te ast.TypeExpr) typesystem.Type {
	if te == nil {
		return typesystem.Void{}
	}
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		return c.resolveNamedType(t.Name, t.Token)
	case *ast.AssociatedTypeExpr:
		return c.resolveAssociatedType(t)
	case *ast.ReferenceTypeExpr:
		return typesystem.Reference{Mutable: t.Mutable, Inner: c.resolveType(t.Inner)}
	case *ast.PointerTypeExpr:
		return typesystem.Pointer{Mutable: t.Mutable, Inner: c.resolveType(t.Inner)}
	case *ast.ArrayTypeExpr:
		size := c.constEvalInt(t.Size)
		return typesystem.Array{Element: c.resolveType(t.Element), Size: size}
	case *ast.SliceTypeExpr:
		return typesystem.Slice{Element: c.resolveType(t.Element)}
	case *ast.TupleTypeExpr:
		elems := make([]typesystem.Type, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = c.resolveType(e)
		}
		return typesystem.Tuple{Elements: elems}
	case *ast.FunctionTypeExpr:
		params := make([]typesystem.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.resolveType(p)
		}
		return typesystem.Function{ParamTypes: params, ReturnType: c.resolveType(t.ReturnType)}
	case *ast.GenericTypeExpr:
		return c.resolveGenericTypeExpr(t)
	default:
		c.diags.Add(diagnostics.New(diagnostics.ErrNotAType, te.GetToken(), "unrecognized type expression"))
		return typesystem.Void{}
	}
}

// resolveNamedType resolves a bare name: Self, an in-scope generic
// parameter, a primitive, or a user-declared struct/enum/trait.
func (c *Checker) resolveNamedType(name string, tok token.Token) typesystem.Type {
	if name == "Self" {
		if c.selfType != nil {
			return c.selfType
		}
		return typesystem.Self{}
	}
	if tv, ok := c.typeParams[name]; ok {
		return tv
	}
	if typ, ok := c.types[name]; ok {
		return typ
	}
	c.diags.Add(diagnostics.New(diagnostics.ErrNotAType, tok, "\""+name+"\" is not a known type"))
	return typesystem.Void{}
}

// resolveAssociatedType resolves Trait::Item through the bindings of the
// impl of Trait for the current Self, which must be a named struct or enum
// (i.e. inside an impl body). Any other reference (no Self bound, no such
// impl, no binding for Item) is rejected with NotAType rather than
// defaulting to a concrete type; a binding chain that loops back on itself
// is CycleInTypeAlias.
func (c *Checker) resolveAssociatedType(t *ast.AssociatedTypeExpr) typesystem.Type {
	return c.resolveAssociatedTypeVisiting(t, map[string]bool{})
}

func (c *Checker) resolveAssociatedTypeVisiting(t *ast.AssociatedTypeExpr, visiting map[string]bool) typesystem.Type {
	key := t.Trait + "::" + t.Name
	if visiting[key] {
		c.diags.Add(diagnostics.New(diagnostics.ErrCycleInTypeAlias, t.Token,
				"cyclic associated-type binding for \""+key+"\""))
		return typesystem.Void{}
	}
	visiting[key] = true
	if c.selfType != nil {
		if named, ok := c.selfTypeName(); ok {
			if impl, found := c.Impls().TraitImpl(named, t.Trait); found {
				if bound, ok := impl.AssociatedTypeBindings[t.Name]; ok {
					if inner, ok := bound.(*ast.AssociatedTypeExpr); ok {
						return c.resolveAssociatedTypeVisiting(inner, visiting)
					}
					return c.resolveType(bound)
				}
			}
		}
	}
	c.diags.Add(diagnostics.New(diagnostics.ErrNotAType, t.Token,
			"cannot resolve associated type \""+key+"\" in this context"))
	return typesystem.Void{}
}

func (c *Checker) selfTypeName() (string, bool) {
	switch st := c.selfType.(type) {
	case typesystem.Struct:
		return st.Name, true
	case typesystem.Enum:
		return st.Name, true
	default:
		return "", false
	}
}

// resolveGenericTypeExpr resolves Name<Args...>, e.g. List<Int32> or a
// user struct/enum instantiated with its type parameters substituted.
func (c *Checker) resolveGenericTypeExpr(t *ast.GenericTypeExpr) typesystem.Type {
	args := make([]typesystem.Type, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = c.resolveType(a)
	}
	for _, ca := range t.ConstArgs {
		args = append(args, typesystem.Int{Width: 64})
		_ = c.constEvalInt(ca)
	}
	if _, ok := c.types[t.Name]; !ok {
		c.diags.Add(diagnostics.New(diagnostics.ErrNotAType, t.Token, "\""+t.Name+"\" is not a known generic type"))
		return typesystem.Void{}
	}
	// Base stays nil until monomorphization resolves the concrete
	// specialization ; the checker only records which generic
	// and which arguments a use site names.
	return typesystem.Generic{Name: t.Name, TypeArgs: args}
}

// constEvalInt evaluates a compile-time integer expression (array sizes,
// const generic arguments). Only integer literals are supported; anything
// else is rejected with NonLiteralCompileTimeArgument, matching the
// monomorphizer's own restriction (Monomorphization key).
func (c *Checker) constEvalInt(expr ast.Expression) int64 {
	if lit, ok := expr.(*ast.IntegerLiteral); ok {
		return lit.Value
	}
	if expr != nil {
		c.diags.Add(diagnostics.New(diagnostics.ErrNonLiteralCompileTimeArgument, expr.GetToken(),
				"compile-time argument must be an integer or boolean literal"))
	}
	return 0
}
