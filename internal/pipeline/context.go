package pipeline

import (
	"github.com/google/uuid"

	"github.com/funvibe/pyrite/internal/borrowck"
	"github.com/funvibe/pyrite/internal/checker"
	"github.com/funvibe/pyrite/internal/config"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/modules"
	"github.com/funvibe/pyrite/internal/mono"
	"github.com/funvibe/pyrite/internal/ownership"
	"github.com/funvibe/pyrite/internal/ssa"
	"github.com/funvibe/pyrite/internal/symbols"

	"github.com/funvibe/pyrite/internal/ast"
)

// PipelineContext is the single object every Processor reads from and
// writes to, mirroring funxy's PipelineContext (AstRoot/SymbolTable/
// TypeMap/Errors threaded stage to stage) with the fields swapped for
// this core's own stages.
type PipelineContext struct {
	// SessionID is a random identifier generated once per Compile call,
	// not per module. No stage and no package reads it.
	SessionID string

	FilePath string
	Options config.Options

	// Modules is the de-duplicated import graph resolved by
	// internal/modules, in dependency order; Program is their merge, the
	// single AST every later stage walks.
	Modules []*modules.Module
	Program *ast.Program

	Resolver *symbols.Resolver
	Checker *checker.Checker
	Owner *ownership.Checker
	Borrow *borrowck.Checker
	Mono *mono.Context

	// SSAModule and Cost are populated once codegen runs.
	SSAModule *ssa.Module
	Cost *ssa.CostReport

	// IRText is SSAModule.String(), cached here once codegen completes so
	// a driver doesn't need to re-stringify on its own.
	IRText string

	// Diagnostics accumulates every stage's diagnostics in pipeline order,
	// the ordered list promises on failure.
	Diagnostics []*diagnostics.Diagnostic

	// Stopped is set by a stage whose accumulated diagnostics must block
	// further progress ; Pipeline.Run checks it between
	// stages.
	Stopped bool
}

// NewPipelineContext seeds a context for a single compile(source, filename,
// options) call. The caller is responsible for having already
// parsed and module-resolved the source into Modules/Program — Pyrite's
// lexer and parser are excluded collaborators of this core (
//: "lexer/parser errors halt compilation immediately, outside the
// core").
func NewPipelineContext(filePath string, modules []*modules.Module, program *ast.Program, options config.Options) *PipelineContext {
	return &PipelineContext{
		SessionID: uuid.NewString(),
		FilePath: filePath,
		Options: options,
		Modules: modules,
		Program: program,
	}
}

func (ctx *PipelineContext) addDiagnostics(ds []*diagnostics.Diagnostic) {
	ctx.Diagnostics = append(ctx.Diagnostics, ds...)
}

// Ok reports whether the compile succeeded: the pipeline ran to
// completion without any stage stopping it and without leftover
// diagnostics.
func (ctx *PipelineContext) Ok() bool {
	return !ctx.Stopped && len(ctx.Diagnostics) == 0
}
