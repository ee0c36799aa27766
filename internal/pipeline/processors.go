package pipeline

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/borrowck"
	"github.com/funvibe/pyrite/internal/checker"
	"github.com/funvibe/pyrite/internal/desugar"
	"github.com/funvibe/pyrite/internal/mono"
	"github.com/funvibe/pyrite/internal/ownership"
	"github.com/funvibe/pyrite/internal/ssa"
	"github.com/funvibe/pyrite/internal/symbols"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// ResolverProcessor runs name resolution over ctx.Program,
// the first stage, mirroring funxy's SemanticAnalyzerProcessor shape: run
// the pass, fold its diagnostics into the shared bag, stop the pipeline if
// it found anything (every later stage assumes a fully-resolved AST).
type ResolverProcessor struct{}

func (p *ResolverProcessor) Process(ctx *PipelineContext) *PipelineContext {
	r := symbols.New()
	r.RegisterBuiltins()
	diags := r.ResolveProgram(ctx.Program)
	ctx.Resolver = r
	ctx.addDiagnostics(diags)
	if len(diags) > 0 {
		ctx.Stopped = true
	}
	return ctx
}

// CheckerProcessor runs the bidirectional type checker.
// Per, accumulated type-check errors stop the pipeline before
// ownership checking.
type CheckerProcessor struct{}

func (p *CheckerProcessor) Process(ctx *PipelineContext) *PipelineContext {
	chk := checker.New(ctx.Resolver)
	diags := chk.Check(ctx.Program)
	ctx.Checker = chk
	ctx.addDiagnostics(diags)
	if len(diags) > 0 {
		ctx.Stopped = true
	}
	return ctx
}

// DesugarProcessor lowers with-statements and splices must-inline
// parameter-closure bodies after ownership/borrow checking and before
// monomorphization and codegen, so those two stages only see the
// desugared program.
type DesugarProcessor struct{}

func (p *DesugarProcessor) Process(ctx *PipelineContext) *PipelineContext {
	withPass := desugar.NewWithPass()
	withPass.DesugarProgram(ctx.Program)

	inlinePass := desugar.NewInlinePass()
	inlinePass.InlineProgram(ctx.Program)
	ctx.addDiagnostics(inlinePass.Diagnostics())

	if len(ctx.Diagnostics) > 0 {
		ctx.Stopped = true
	}
	return ctx
}

// funcUnit is one function or method body together with the receiver type
// bound to `self` inside it (nil for a free function or a trait's generic
// default method), flattening FunctionDecl/ImplDecl/TraitDecl into the
// uniform shape the ownership and borrow passes walk one body at a time.
type funcUnit struct {
	decl *ast.FunctionDecl
	selfType typesystem.Type
}

// collectFuncUnits walks every top-level item collecting every checkable
// function body: free functions, impl methods (selfType bound to the
// impl's target type), and trait default methods (selfType left nil —
// they're checked once in the abstract, per concrete impl already
// covered via the impl-method case when a type doesn't override them).
func collectFuncUnits(prog *ast.Program, chk *checker.Checker) []funcUnit {
	var units []funcUnit
	for _, item := range prog.Items {
		switch decl := item.(type) {
		case *ast.FunctionDecl:
			units = append(units, funcUnit{decl: decl})
		case *ast.ImplDecl:
			self := chk.ResolveTypeExpr(decl.TargetType)
			for _, m := range decl.Methods {
				units = append(units, funcUnit{decl: m, selfType: self})
			}
		case *ast.TraitDecl:
			for _, m := range decl.Methods {
				if m.Body != nil {
					units = append(units, funcUnit{decl: m})
				}
			}
		}
	}
	return units
}

func paramTypesOf(chk *checker.Checker, fn *ast.FunctionDecl) []typesystem.Type {
	types := make([]typesystem.Type, len(fn.Params))
	for i, param := range fn.Params {
		if param.Type != nil {
			types[i] = chk.ResolveTypeExpr(param.Type)
		}
	}
	return types
}

// OwnershipProcessor runs the move/borrow-state dataflow pass over every
// function body in the program.
type OwnershipProcessor struct{}

func (p *OwnershipProcessor) Process(ctx *PipelineContext) *PipelineContext {
	owner := ownership.New(ctx.Checker)
	owner.Trace = ctx.Options.OwnershipTimeline
	for _, unit := range collectFuncUnits(ctx.Program, ctx.Checker) {
		owner.CheckFunction(unit.decl, unit.selfType, paramTypesOf(ctx.Checker, unit.decl))
	}
	ctx.Owner = owner
	diags := owner.Diagnostics()
	ctx.addDiagnostics(diags)
	if len(diags) > 0 {
		ctx.Stopped = true
	}
	return ctx
}

// BorrowProcessor runs the lexical borrow checker. Like
// ownership errors, accumulated borrow errors prevent progression to
// monomorphization and codegen.
type BorrowProcessor struct{}

func (p *BorrowProcessor) Process(ctx *PipelineContext) *PipelineContext {
	b := borrowck.New()
	for _, unit := range collectFuncUnits(ctx.Program, ctx.Checker) {
		b.CheckFunction(unit.decl)
	}
	ctx.Borrow = b
	diags := b.Diagnostics()
	ctx.addDiagnostics(diags)
	if len(diags) > 0 {
		ctx.Stopped = true
	}
	return ctx
}

// MonoProcessor expands every generic call site into a concrete
// specialization. Monomorphization errors are hard: a bad
// compile-time-parameter literal stops the whole run.
type MonoProcessor struct{}

func (p *MonoProcessor) Process(ctx *PipelineContext) *PipelineContext {
	m := mono.NewContext()
	m.Run(ctx.Program)
	ctx.Mono = m
	diags := m.Diagnostics()
	ctx.addDiagnostics(diags)
	if len(diags) > 0 {
		ctx.Stopped = true
	}
	return ctx
}

// CodegenProcessor lowers the checked, monomorphized program to the
// textual SSA module of / Internal-compiler-error
// diagnostics from this stage are bugs, not user mistakes, but they still
// flow through the same Diagnostics list so a driver reports them
// uniformly.
type CodegenProcessor struct{}

func (p *CodegenProcessor) Process(ctx *PipelineContext) *PipelineContext {
	gen := ssa.NewGen(ctx.Checker, moduleNameFor(ctx.FilePath))
	module := gen.Generate(ctx.Program)
	ctx.SSAModule = module
	ctx.Cost = gen.CostReport()
	diags := gen.Diagnostics()
	ctx.addDiagnostics(diags)
	if len(diags) > 0 {
		ctx.Stopped = true
		return ctx
	}
	ctx.IRText = module.String()
	return ctx
}
