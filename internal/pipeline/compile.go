package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/pyrite/internal/config"
	"github.com/funvibe/pyrite/internal/modules"
)

// moduleNameFor derives the generated SSA module's name from its main
// source file: the base name with its extension stripped, the same
// "file stem as module name" convention funxy's own backend uses for its
// chunk names.
func moduleNameFor(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// stages is the fixed processor order:
// resolve, check (stop on error), ownership (stop on error), borrow check
// (stop on error), desugar (stop on error), monomorphize (stop on error),
// codegen.
func stages() []Processor {
	return []Processor{
		&ResolverProcessor{},
		&CheckerProcessor{},
		&OwnershipProcessor{},
		&BorrowProcessor{},
		&DesugarProcessor{},
		&MonoProcessor{},
		&CodegenProcessor{},
	}
}

// Compile is the core's entry point:
// `compile(source_text, filename, options) -> success | failures`. The
// mods slice is the already-parsed, dependency-ordered import graph for
// mainFile (internal/modules.Loader.Load's result) — Pyrite's lexer and
// parser sit outside this core so by the time Compile
// is called, "source_text" has already become an ast.Program per module.
func Compile(mainFile string, mods []*modules.Module, options config.Options) *PipelineContext {
	program := modules.MergedProgram(mods)
	ctx := NewPipelineContext(mainFile, mods, program, options)
	pipe := New(stages()...)
	return pipe.Run(ctx)
}
