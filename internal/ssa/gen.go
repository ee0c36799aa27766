package ssa

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/checker"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/token"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// genEnv is the outer-chained name -> operand environment a function body
// is generated against, the same shape internal/ownership.Env and
// internal/borrowck's scope use for their own per-function state.
type genEnv struct {
	vars  map[string]Operand
	outer *genEnv
}

func newGenEnv(outer *genEnv) *genEnv { return &genEnv{vars: make(map[string]Operand), outer: outer} }

func (e *genEnv) get(name string) (Operand, bool) {
	for cur := e; cur != nil; cur = cur.outer {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (e *genEnv) set(name string, v Operand) { e.vars[name] = v }

// Gen lowers one already-resolved, checked, desugared, monomorphized
// *ast.Program into a *Module.
type Gen struct {
	chk   *checker.Checker
	diags *diagnostics.Bag
	cost  *CostReport

	module *Module

	structLayout map[string]*typesystem.Struct
	enumLayout   map[string]*typesystem.Enum

	fn          *Function
	funcName    string
	env         *genEnv
	deferScopes [][]ast.Expression

	loopDeferDepth  []int
	loopContTarget  []string
	loopBreakTarget []string

	anonCounter int
}

// NewGen creates a generator bound to chk, whose TypeMap and Impls table
// supply every type and method-resolution fact this pass needs
// assumes a fully type-checked, desugared, monomorphized input and reports
// only internal-compiler-error bugs, never user diagnostics).
func NewGen(chk *checker.Checker, moduleName string) *Gen {
	return &Gen{
		chk:          chk,
		diags:        diagnostics.NewBag(),
		cost:         NewCostReport(),
		module:       NewModule(moduleName),
		structLayout: make(map[string]*typesystem.Struct),
		enumLayout:   make(map[string]*typesystem.Enum),
	}
}

func (g *Gen) Diagnostics() []*diagnostics.Diagnostic { return g.diags.Items() }
func (g *Gen) CostReport() *CostReport                { return g.cost }

func (g *Gen) bug(tok token.Token, msg string) {
	g.diags.Add(diagnostics.New(diagnostics.ErrInternalCompilerError, tok, msg))
}

// Generate runs the whole lowering pass, returning the built Module.
func (g *Gen) Generate(prog *ast.Program) *Module {
	for _, item := range prog.Items {
		g.declareLayout(item)
	}
	for _, name := range sortedKeys(g.structLayout) {
		g.module.Structs = append(g.module.Structs, g.lowerStructLayout(g.structLayout[name]))
	}
	for _, name := range sortedKeys(g.enumLayout) {
		g.module.Enums = append(g.module.Enums, g.lowerEnumLayout(g.enumLayout[name]))
	}
	for _, item := range prog.Items {
		g.genItem(item)
	}
	return g.module
}

func sortedKeys(m interface{}) []string {
	var keys []string
	switch v := m.(type) {
	case map[string]*typesystem.Struct:
		for k := range v {
			keys = append(keys, k)
		}
	case map[string]*typesystem.Enum:
		for k := range v {
			keys = append(keys, k)
		}
	}
	insertionSort(keys)
	return keys
}

func insertionSort(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func (g *Gen) declareLayout(item ast.Statement) {
	switch it := item.(type) {
	case *ast.StructDecl:
		s := g.chk.ResolvedStruct(it.Name)
		if s != nil {
			g.structLayout[it.Name] = s
		}
	case *ast.EnumDecl:
		e := g.chk.ResolvedEnum(it.Name)
		if e != nil {
			g.enumLayout[it.Name] = e
		}
	}
}

func (g *Gen) lowerStructLayout(s *typesystem.Struct) *StructType {
	fields := s.Fields
	out := &StructType{Name: s.Name}
	for _, f := range fields {
		out.Fields = append(out.Fields, FieldLayout{Name: f.Name, Typ: lowerType(f.Type)})
	}
	return out
}

func (g *Gen) lowerEnumLayout(e *typesystem.Enum) *EnumType {
	out := &EnumType{Name: e.Name, IsUnitOnly: !e.HasPayload(), PayloadSlots: e.MaxPayloadFields()}
	for i, v := range e.Variants {
		n := len(v.Fields)
		if n > MaxEnumPayloadFields {
			n = MaxEnumPayloadFields
		}
		out.Variants = append(out.Variants, EnumVariant{Name: v.Name, Tag: i, PayloadLen: n})
	}
	return out
}

func (g *Gen) genItem(item ast.Statement) {
	switch it := item.(type) {
	case *ast.FunctionDecl:
		if it.Body != nil {
			g.genFunction(it.Name, "", it)
		}
	case *ast.ImplDecl:
		typeName := typeNameOf(g.chk.ResolveTypeExpr(it.TargetType))
		if typeName == "" {
			typeName = namedTypeExprName(it.TargetType)
		}
		for _, m := range it.Methods {
			if m.Body == nil {
				continue
			}
			name := typeName + "_" + m.Name
			if it.TraitName != "" {
				name = typeName + "_" + it.TraitName + "_" + m.Name
			}
			g.genFunction(name, typeName, m)
		}
	case *ast.TraitDecl:
		// Default method bodies are only emitted per concrete implementer by
		// ImplDecl when that impl doesn't override them; see genDefaultMethods.
		g.genDefaultMethods(it)
	}
}

func namedTypeExprName(t ast.TypeExpr) string {
	if n, ok := t.(*ast.NamedTypeExpr); ok {
		return n.Name
	}
	return ""
}

// genDefaultMethods emits TypeName_TraitName_method for every (type, trait
// default method) pair where the impl didn't supply its own override,
// since the resolver's ImplTable already folds defaults into its
// resolution order but codegen still needs one concrete function per
// instantiating type (method dispatch, is name-based, not a
// v-table).
func (g *Gen) genDefaultMethods(trait *ast.TraitDecl) {
	for _, typeName := range g.chk.Impls().TraitsImplementedBy(trait.Name) {
		for _, m := range trait.Methods {
			if m.Body == nil {
				continue
			}
			if _, ok := g.chk.Impls().TraitImpl(typeName, trait.Name); ok {
				if impl, _ := g.chk.Impls().TraitImpl(typeName, trait.Name); impl != nil {
					if hasOverride(impl, m.Name) {
						continue
					}
				}
			}
			name := typeName + "_" + trait.Name + "_" + m.Name
			g.genFunction(name, typeName, m)
		}
	}
}

func hasOverride(impl *ast.ImplDecl, method string) bool {
	for _, m := range impl.Methods {
		if m.Name == method {
			return true
		}
	}
	return false
}
