package checker

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// declareItem registers a top-level declaration's *type* (struct layout,
// enum variants, trait signature, function signature, const type) so that
// forward and mutually-recursive references resolve during body checking.
func (c *Checker) declareItem(item ast.Statement) {
	switch it := item.(type) {
	case *ast.StructDecl:
		c.declareStruct(it)
	case *ast.EnumDecl:
		c.declareEnum(it)
	case *ast.TraitDecl:
		c.declareTrait(it)
	case *ast.FunctionDecl:
		c.funcDecls[it.Name] = it
	case *ast.ConstDecl:
		c.constTypes[it.Name] = c.resolveType(it.TypeAnnotation)
	case *ast.ImplDecl:
		// impl registration (trait_implementations) already happened during
		// name resolution (symbols.Resolver.predeclare); nothing to do here.
	}
}

func (c *Checker) withTypeParams(params []*ast.GenericParam, fn func()) {
	saved := c.typeParams
	c.typeParams = make(map[string]typesystem.Type, len(saved)+len(params))
	for k, v := range saved {
		c.typeParams[k] = v
	}
	for _, p := range params {
		if p.IsConst {
			c.typeParams[p.Name] = typesystem.Int{Width: 64}
		} else {
			c.typeParams[p.Name] = typesystem.TypeVariable{Name: p.Name}
		}
	}
	fn()
	c.typeParams = saved
}

func (c *Checker) declareStruct(sd *ast.StructDecl) {
	var st typesystem.Struct
	c.withTypeParams(sd.TypeParams, func() {
		fields := make([]typesystem.Field, len(sd.Fields))
		for i, f := range sd.Fields {
			fields[i] = typesystem.Field{Name: f.Name, Type: c.resolveType(f.Type)}
		}
		st = typesystem.Struct{Name: sd.Name, Fields: fields}
	})
	c.types[sd.Name] = st
}

func (c *Checker) declareEnum(ed *ast.EnumDecl) {
	var en typesystem.Enum
	c.withTypeParams(ed.TypeParams, func() {
		variants := make([]typesystem.Variant, len(ed.Variants))
		for i, v := range ed.Variants {
			fields := make([]typesystem.Type, len(v.Fields))
			for j, f := range v.Fields {
				fields[j] = c.resolveType(f)
			}
			variants[i] = typesystem.Variant{Name: v.Name, Fields: fields}
		}
		en = typesystem.Enum{Name: ed.Name, Variants: variants}
	})
	c.types[ed.Name] = en
}

func (c *Checker) declareTrait(td *ast.TraitDecl) {
	c.traitDecls[td.Name] = td
	assoc := make([]typesystem.AssociatedType, len(td.AssociatedTypes))
	for i, a := range td.AssociatedTypes {
		assoc[i] = typesystem.AssociatedType{Name: a}
	}
	methods := make([]typesystem.Function, len(td.Methods))
	names := make([]string, len(td.Methods))
	for i, m := range td.Methods {
		params := make([]typesystem.Type, len(m.Params))
		for j, p := range m.Params {
			params[j] = c.resolveType(p.Type)
		}
		methods[i] = typesystem.Function{ParamTypes: params, ReturnType: c.resolveType(m.ReturnType)}
		names[i] = m.Name
	}
	c.types[td.Name] = typesystem.Trait{Name: td.Name, AssociatedTypes: assoc, Methods: methods, MethodNames: names}
}
