// Package modules implements module-file resolution: given a
// main source file, recursively discover imported modules, de-duplicate,
// and present the set to the type checker so it can merge their top-level
// symbols.
//
// Adapted from funvibe-funxy's internal/modules/loader.go (Loader,
// dedup-by-absolute-path cache, cycle detection via a Processing set) with
// its lexer/parser/package-export-list machinery stripped: Pyrite's lexer
// and parser are excluded collaborators, so this package takes
// a ParseFile callback instead of invoking a parser directly, and a
// module's "exports" are simply every top-level declaration in its files —
// the contract is "merge their top-level symbols", not a privacy model.
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/pyrite/internal/ast"
)

// Module is one resolved source file together with the modules it imports.
type Module struct {
	Path string // absolute filesystem path of the primary file
	Program *ast.Program
	Imports []*Module
}

// ParseFile turns file contents at path into an AST. The driver supplies
// this (Pyrite's lexer/parser live outside this core, per).
type ParseFile func(path string) (*ast.Program, error)

// Loader discovers and de-duplicates a program's import graph.
type Loader struct {
	Roots []string // search roots an import path is resolved against, in order
	Ext string // source file extension, e.g. ".pyr"
	Parse ParseFile
	loaded map[string]*Module // absolute path -> Module, dedup cache
	visiting map[string]bool // cycle guard during one Load call
}

func NewLoader(roots []string, ext string, parse ParseFile) *Loader {
	return &Loader{
		Roots: roots,
		Ext: ext,
		Parse: parse,
		loaded: make(map[string]*Module),
		visiting: make(map[string]bool),
	}
}

// Load resolves mainFile and its full transitive import graph, returning
// the de-duplicated module set in dependency order (a module's imports
// always precede it) so the type checker can merge top-level symbols one
// module at a time without forward references.
func (l *Loader) Load(mainFile string) ([]*Module, error) {
	root, err := l.load(mainFile)
	if err != nil {
		return nil, err
	}
	var order []*Module
	seen := make(map[string]bool)
	var visit func(m *Module)
	visit = func(m *Module) {
		if seen[m.Path] {
			return
		}
		seen[m.Path] = true
		for _, dep := range m.Imports {
			visit(dep)
		}
		order = append(order, m)
	}
	visit(root)
	return order, nil
}

func (l *Loader) load(file string) (*Module, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	if mod, ok := l.loaded[abs]; ok {
		return mod, nil
	}
	if l.visiting[abs] {
		return nil, fmt.Errorf("circular import detected at %s", abs)
	}
	l.visiting[abs] = true
	defer delete(l.visiting, abs)

	prog, err := l.Parse(abs)
	if err != nil {
		return nil, err
	}
	prog.File = abs

	mod := &Module{Path: abs, Program: prog}

	deps := make([]*ast.ImportStatement, len(prog.Imports))
	copy(deps, prog.Imports)
	sort.Slice(deps, func(i, j int) bool { return strings.Join(deps[i].Path, ".") < strings.Join(deps[j].Path, ".") })

	for _, imp := range deps {
		depPath, err := l.resolve(imp)
		if err != nil {
			return nil, err
		}
		depMod, err := l.load(depPath)
		if err != nil {
			return nil, err
		}
		mod.Imports = append(mod.Imports, depMod)
	}
	l.loaded[abs] = mod
	return mod, nil
}

// resolve turns an import path's dotted or double-colon token sequence
// into a filesystem path by trying each search root in order (
// "resolution to filesystem paths is the driver's responsibility" — this
// is the driver's default, overridable strategy).
func (l *Loader) resolve(imp *ast.ImportStatement) (string, error) {
	rel := filepath.Join(imp.Path...) + l.Ext
	for _, root := range l.Roots {
		candidate := filepath.Join(root, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cannot resolve import \"%s\": not found under any of %v",
		strings.Join(imp.Path, "."), l.Roots)
}

// MergedProgram concatenates every module's top-level items into one
// aggregate Program, in dependency order, for a single resolver/checker
// run over the whole graph ("merge their top-level symbols").
func MergedProgram(modules []*Module) *ast.Program {
	merged := &ast.Program{}
	for _, m := range modules {
		merged.Items = append(merged.Items, m.Program.Items...)
	}
	return merged
}
