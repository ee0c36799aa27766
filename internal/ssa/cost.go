package ssa

import "github.com/funvibe/pyrite/internal/token"

// AllocationKind names what triggered a heap allocation site in CostReport.
type AllocationKind string

const (
	AllocClosureEnv AllocationKind = "closure_env"
	AllocList AllocationKind = "list"
	AllocMap AllocationKind = "map"
	AllocSet AllocationKind = "set"
)

// AllocationSite is one heap allocation the generator emitted, for the
// cost report. Only closure environments (AllocClosureEnv) are recorded;
// no generator path records AllocList, AllocMap or AllocSet.
type AllocationSite struct {
	Kind AllocationKind
	Function string
	Span token.Span
}

// CopySite is one non-Copy value copy the generator recorded. Only
// struct-literal field initializers whose value type is not Copy are
// recorded; `let`/`var`, assignment and argument passing record nothing.
type CopySite struct {
	TypeName string
	Function string
	Span token.Span
}

// CostReport accumulates every allocation and copy site across one
// codegen run, in emission order.
type CostReport struct {
	Allocations []AllocationSite
	Copies []CopySite
}

func NewCostReport() *CostReport { return &CostReport{} }

func (r *CostReport) RecordAllocation(kind AllocationKind, function string, span token.Span) {
	r.Allocations = append(r.Allocations, AllocationSite{Kind: kind, Function: function, Span: span})
}

func (r *CostReport) RecordCopy(typeName, function string, span token.Span) {
	r.Copies = append(r.Copies, CopySite{TypeName: typeName, Function: function, Span: span})
}
