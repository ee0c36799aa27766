// Package checker implements the bidirectional type checker: it walks the
// resolver's annotated AST, assigns a type to every expression, validates
// every statement, and populates the
// trait_implementations table consulted by codegen for static dispatch.
//
// Grounded on the shape of funxy/internal/analyzer (a walker holding a
// TypeMap keyed by ast.Node plus an accumulating diagnostics set), trimmed
// of funxy's module-loader/package-group/re-export machinery, which sits
// outside this core's scope.
package checker

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/symbols"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// Checker walks a resolved AST and annotates it with types.
type Checker struct {
	resolver *symbols.Resolver
	diags *diagnostics.Bag

	// TypeMap records the resolved type of every expression node (mirrors
	// funxy's Analyzer.TypeMap).
	TypeMap map[ast.Expression]typesystem.Type

	// types holds every named type declared in the program: structs, enums,
	// traits, and generic-parameter placeholders currently in scope.
	types map[string]typesystem.Type

	traitDecls map[string]*ast.TraitDecl
	funcDecls map[string]*ast.FunctionDecl
	constTypes map[string]typesystem.Type

	// selfType is the receiver type bound to `Self` while checking the body
	// of an impl block's method; nil outside one.
	selfType typesystem.Type

	// typeParams maps in-scope generic parameter names to placeholder
	// TypeVariables, pushed/popped per function or impl.
	typeParams map[string]typesystem.Type

	// loopDepth lets break/continue validity be a simple counter check.
	loopDepth int

	// returnType is the declared return type of the function currently being
	// checked, consulted by ReturnStatement checking.
	returnType typesystem.Type
}

// New creates a Checker bound to an already name-resolved program.
func New(resolver *symbols.Resolver) *Checker {
	return &Checker{
		resolver: resolver,
		diags: diagnostics.NewBag(),
		TypeMap: make(map[ast.Expression]typesystem.Type),
		types: builtinTypes(),
		traitDecls: make(map[string]*ast.TraitDecl),
		funcDecls: make(map[string]*ast.FunctionDecl),
		constTypes: make(map[string]typesystem.Type),
		typeParams: make(map[string]typesystem.Type),
	}
}

func builtinTypes() map[string]typesystem.Type {
	return map[string]typesystem.Type{
		"Int8": typesystem.Int{Width: 8}, "Int16": typesystem.Int{Width: 16},
		"Int32": typesystem.Int{Width: 32}, "Int64": typesystem.Int{Width: 64},
		"Float32": typesystem.Float{Width: 32}, "Float64": typesystem.Float{Width: 64},
		"Bool": typesystem.Bool{}, "Char": typesystem.Char{}, "String": typesystem.String{},
		"Void": typesystem.Void{},
	}
}

// Impls exposes the trait_implementations table populated while declaring
// impl blocks, for ownership/borrowck/codegen to consult.
func (c *Checker) Impls() *symbols.ImplTable { return c.resolver.Impls }

// Diagnostics returns every diagnostic accumulated so far.
func (c *Checker) Diagnostics() []*diagnostics.Diagnostic { return c.diags.Items() }

// TypeOf returns the type previously assigned to expr, or nil if it was
// never checked (a bug in the checker, not a user-facing error).
func (c *Checker) TypeOf(expr ast.Expression) typesystem.Type { return c.TypeMap[expr] }

// ResolveTypeExpr exposes resolveType for codegen, which needs to turn an
// ImplDecl's TargetType (and other syntactic type references) into the
// same typesystem.Type the checker itself resolved against.
func (c *Checker) ResolveTypeExpr(te ast.TypeExpr) typesystem.Type { return c.resolveType(te) }

// ResolvedStruct returns name's declared field layout, or nil if name
// isn't a struct.
func (c *Checker) ResolvedStruct(name string) *typesystem.Struct {
	if s, ok := c.types[name].(typesystem.Struct); ok {
		return &s
	}
	return nil
}

// ResolvedEnum returns name's declared variant layout, or nil if name
// isn't an enum.
func (c *Checker) ResolvedEnum(name string) *typesystem.Enum {
	if e, ok := c.types[name].(typesystem.Enum); ok {
		return &e
	}
	return nil
}

// FuncDecl returns the top-level function declaration named name, if any.
func (c *Checker) FuncDecl(name string) (*ast.FunctionDecl, bool) {
	fn, ok := c.funcDecls[name]
	return fn, ok
}

// Check runs the full checking pass over prog: declaring every struct,
// enum, trait, and impl's types first (so mutually-recursive and
// forward-referenced declarations resolve), then checking every function
// and method body. It stops accumulating past diagnostics.DefaultSoftCap
// diagnostics (accumulate-then-stop policy).
func (c *Checker) Check(prog *ast.Program) []*diagnostics.Diagnostic {
	for _, item := range prog.Items {
		c.declareItem(item)
	}
	for _, item := range prog.Items {
		if c.diags.Len() >= diagnostics.DefaultSoftCap {
			break
		}
		c.checkItem(item)
	}
	return c.diags.Items()
}
