package symbols

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/token"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// Resolver performs the name-resolution pass of : given an
// AST, it annotates every identifier-bearing node with the symbol it
// references, builds the per-scope symbol maps, and checks redeclaration
// within a scope.
type Resolver struct {
	root *Scope
	current *Scope
	diags *diagnostics.Bag

	// ResolutionMap records, for each identifier-like node, the symbol it
	// was resolved to (mirrors funxy's ctx.ResolutionMap pattern).
	ResolutionMap map[ast.Node]*Symbol
	Impls *ImplTable
}

// New creates a Resolver with an empty root (prelude) scope.
func New() *Resolver {
	root := NewScope(nil)
	return &Resolver{
		root: root,
		current: root,
		diags: diagnostics.NewBag(),
		ResolutionMap: make(map[ast.Node]*Symbol),
		Impls: NewImplTable(),
	}
}

// Diagnostics returns the diagnostics accumulated so far.
func (r *Resolver) Diagnostics() []*diagnostics.Diagnostic { return r.diags.Items() }

// EnterScope pushes a new child scope, returning it as the new current scope.
func (r *Resolver) EnterScope() *Scope {
	r.current = NewScope(r.current)
	return r.current
}

// ExitScope pops back to the current scope's parent. It is a no-op (and
// never panics) at the root.
func (r *Resolver) ExitScope() {
	if r.current.parent != nil {
		r.current = r.current.parent
	}
}

// CurrentScope returns the scope resolution is presently operating in.
func (r *Resolver) CurrentScope() *Scope { return r.current }

// shadowable reports whether a SymbolKind is allowed to shadow an existing
// binding of the same name in the same scope: variables may shadow;
// functions may not).
func shadowable(kind SymbolKind) bool {
	switch kind {
	case VariableSymbol, ParameterSymbol:
		return true
	default:
		return false
	}
}

// Define adds name to the current scope. It fails with Redeclaration when a
// symbol of the same name already exists directly in this scope and neither
// it nor the new symbol is a variable or parameter (those kinds may shadow
// and be shadowed).
func (r *Resolver) Define(name string, kind SymbolKind, typ typesystem.Type, mutable bool, tok token.Token) (*Symbol, *diagnostics.Diagnostic) {
	if existing, ok := r.current.localLookup(name); ok && !shadowable(existing.Kind) && !shadowable(kind) {
		return nil, diagnostics.New(diagnostics.ErrRedeclaration, tok,
			"\""+name+"\" is already declared in this scope")
	}
	sym := &Symbol{Name: name, Kind: kind, Type: typ, Span: tok.Span, Mutable: mutable}
	r.current.defineLocal(sym)
	return sym, nil
}

// Lookup resolves name from the current scope outward.
func (r *Resolver) Lookup(name string) (*Symbol, bool) {
	return r.current.Lookup(name)
}

// LookupType is Lookup filtered to TypeSymbol / TraitSymbol kinds (either
// may appear where a type name is expected, e.g. as a trait bound).
func (r *Resolver) LookupType(name string) (*Symbol, bool) {
	sym, ok := r.current.Lookup(name)
	if !ok || (sym.Kind != TypeSymbol && sym.Kind != TraitSymbol) {
		return nil, false
	}
	return sym, true
}

// LookupVariable is Lookup filtered to VariableSymbol / ParameterSymbol / ConstSymbol.
func (r *Resolver) LookupVariable(name string) (*Symbol, bool) {
	sym, ok := r.current.Lookup(name)
	if !ok {
		return nil, false
	}
	switch sym.Kind {
	case VariableSymbol, ParameterSymbol, ConstSymbol:
		return sym, true
	default:
		return nil, false
	}
}

// LookupFunction is Lookup filtered to FunctionSymbol.
func (r *Resolver) LookupFunction(name string) (*Symbol, bool) {
	return r.current.LookupKind(name, FunctionSymbol)
}

// resolveIdent looks a name up and records a diagnostic plus nil result on
// failure, recording the hit in ResolutionMap on success.
func (r *Resolver) resolveIdent(node ast.Node, name string, tok token.Token) *Symbol {
	sym, ok := r.Lookup(name)
	if !ok {
		r.diags.Add(diagnostics.New(diagnostics.ErrUndefinedName, tok, "undefined name \""+name+"\""))
		return nil
	}
	r.ResolutionMap[node] = sym
	return sym
}
