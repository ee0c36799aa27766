package symbols

import "github.com/funvibe/pyrite/internal/ast"

// ImplTable is the trait_implementations table of : for each
// concrete type name it holds the inherent impl (TraitName == "") plus one
// entry per trait implemented for that type, keyed by trait name. The
// checker consults it for method resolution order (inherent impl first,
// then trait impls, falling back to a trait's default body) and to decide
// TraitBoundUnsatisfied / AmbiguousMethod.
type ImplTable struct {
	// byType[typeName][traitName] == "" is the inherent impl slot.
	byType map[string]map[string]*ast.ImplDecl
}

// NewImplTable returns an empty table.
func NewImplTable() *ImplTable {
	return &ImplTable{byType: make(map[string]map[string]*ast.ImplDecl)}
}

// typeKey turns a TypeExpr naming the impl target into its lookup key.
// Only NamedTypeExpr and GenericTypeExpr (keyed on the base name, ignoring
// type arguments) name an impl target in Pyrite.
func typeKey(t ast.TypeExpr) string {
	switch te := t.(type) {
	case *ast.NamedTypeExpr:
		return te.Name
	case *ast.GenericTypeExpr:
		return te.Name
	default:
		return ""
	}
}

// Add registers impl in the table, keyed by its target type and trait name
// ("" for inherent). Reports ok == false if an impl of the same trait (or a
// second inherent impl) already exists for that type — the caller turns
// this into a Redeclaration diagnostic.
func (t *ImplTable) Add(impl *ast.ImplDecl) bool {
	key := typeKey(impl.TargetType)
	if key == "" {
		return false
	}
	traits, ok := t.byType[key]
	if !ok {
		traits = make(map[string]*ast.ImplDecl)
		t.byType[key] = traits
	}
	if _, exists := traits[impl.TraitName]; exists {
		return false
	}
	traits[impl.TraitName] = impl
	return true
}

// Inherent returns typeName's inherent impl block, if any.
func (t *ImplTable) Inherent(typeName string) (*ast.ImplDecl, bool) {
	traits, ok := t.byType[typeName]
	if !ok {
		return nil, false
	}
	impl, ok := traits[""]
	return impl, ok
}

// TraitImpl returns typeName's impl of traitName, if any.
func (t *ImplTable) TraitImpl(typeName, traitName string) (*ast.ImplDecl, bool) {
	traits, ok := t.byType[typeName]
	if !ok {
		return nil, false
	}
	impl, ok := traits[traitName]
	return impl, ok
}

// Implements reports whether typeName has an impl of traitName.
func (t *ImplTable) Implements(typeName, traitName string) bool {
	_, ok := t.TraitImpl(typeName, traitName)
	return ok
}

// TraitsFor returns the names of every trait implemented by typeName
// (excluding the inherent impl).
func (t *ImplTable) TraitsFor(typeName string) []string {
	traits, ok := t.byType[typeName]
	if !ok {
		return nil
	}
	var names []string
	for name := range traits {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ResolveMethod implements the first two steps of the method resolution
// order: (1) the inherent impl's own method, (2) each trait impl's own
// method override. It returns the method decl and, for step (2), the name
// of the trait whose impl supplied it. decl is nil when neither step finds
// the method; step (3), the trait's default body, is left to the caller
// (the checker's traitDefaultMethod). ambiguous reports true when more than
// one trait impl supplies method and there is no inherent method, so the
// checker can raise AmbiguousMethod.
func (t *ImplTable) ResolveMethod(typeName, method string) (decl *ast.FunctionDecl, fromTrait string, ambiguous bool) {
	if inherent, ok := t.Inherent(typeName); ok {
		if fn := findMethod(inherent.Methods, method); fn != nil {
			return fn, "", false
		}
	}
	var candidates []struct {
		trait string
		fn *ast.FunctionDecl
	}
	traits, ok := t.byType[typeName]
	if !ok {
		return nil, "", false
	}
	for traitName, impl := range traits {
		if traitName == "" {
			continue
		}
		if fn := findMethod(impl.Methods, method); fn != nil {
			candidates = append(candidates, struct {
					trait string
					fn *ast.FunctionDecl
				}{traitName, fn})
		}
	}
	if len(candidates) == 1 {
		return candidates[0].fn, candidates[0].trait, false
	}
	if len(candidates) > 1 {
		return candidates[0].fn, candidates[0].trait, true
	}
	return nil, "", false
}

// TraitsImplementedBy returns every type name with an impl of traitName —
// the reverse of TraitsFor, used by codegen to emit one default-method
// function per (type, unoverridden default) pair: dispatch is by
// name, not a v-table, so every instantiating type needs its own copy).
func (t *ImplTable) TraitsImplementedBy(traitName string) []string {
	var names []string
	for typeName, traits := range t.byType {
		if _, ok := traits[traitName]; ok {
			names = append(names, typeName)
		}
	}
	return names
}

func findMethod(methods []*ast.FunctionDecl, name string) *ast.FunctionDecl {
	for _, m := range methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}
