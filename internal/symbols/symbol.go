// Package symbols implements the lexically scoped name resolver of
// : a tree of Scopes holding Symbols, with shadowing rules
// (variables may shadow; functions may not) and the trait_implementations
// table hangs off the same table for downstream static dispatch.
//
// Grounded on the shape of funxy/internal/symbols (Symbol/SymbolKind/Scope
// split across focused files), simplified: funxy's symbol table backs a
// rich HM-inference/trait-dictionary system; Pyrite's resolver only needs
// scoped definition/lookup plus a flat trait-impl index.
package symbols

import (
	"github.com/funvibe/pyrite/internal/token"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// SymbolKind classifies what a Symbol names.
type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	FunctionSymbol
	ParameterSymbol
	TypeSymbol
	ConstSymbol
	TraitSymbol
	ImplMethodSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case VariableSymbol:
		return "variable"
	case FunctionSymbol:
		return "function"
	case ParameterSymbol:
		return "parameter"
	case TypeSymbol:
		return "type"
	case ConstSymbol:
		return "const"
	case TraitSymbol:
		return "trait"
	case ImplMethodSymbol:
		return "impl-method"
	default:
		return "unknown"
	}
}

// Symbol is a named, typed binding recorded in a Scope.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type typesystem.Type
	Span token.Span
	Mutable bool
}
