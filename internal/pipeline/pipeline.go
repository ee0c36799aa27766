// Package pipeline chains the compiler's stages (resolver,
// checker, ownership tracker, borrow checker, desugaring, monomorphizer,
// and SSA codegen) behind the single Compile entry point of
//
// Grounded on funxy's own internal/pipeline.Pipeline/New/Run shape (a
// slice of Processor run in order over a shared context). funxy's
// Processor and PipelineContext types live in files this retrieval pack
// never included — their shape is reconstructed here from the calling
// convention visible at funxy's call sites and from
// internal/analyzer/processor.go's "mutate fields on a shared context,
// keep going on error so every stage gets a chance to report" pattern,
// with PipelineContext's fields swapped for Pyrite's own stages.
package pipeline

// Processor is one stage of the compile pipeline: it consumes and
// mutates a PipelineContext, returning it (possibly the same pointer)
// for the next stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline, short-circuiting once a stage sets
// ctx.Stopped (propagation policy: accumulated type-check,
// ownership, or borrow errors prevent progression to the next stage).
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if ctx.Stopped {
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}
