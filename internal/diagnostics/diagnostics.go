// Package diagnostics defines the (kind, span, message) diagnostic triple
// produced by every core subsystem, following the shape consumed by
// funxy's internal/analyzer (diagnostics.NewError(code, token, message)).
package diagnostics

import (
	"fmt"

	"github.com/funvibe/pyrite/internal/token"
)

// ErrorCode identifies a diagnostic kind. Codes are grouped by subsystem
// prefix: R (resolver), T (type checker), O (ownership), B (borrow),
// M (monomorphizer), C (codegen-internal).
type ErrorCode string

const (
	// Resolver
	ErrUndefinedName ErrorCode = "R001"
	ErrRedeclaration ErrorCode = "R002"
	ErrNotAType ErrorCode = "R003"
	ErrNotACallable ErrorCode = "R004"

	// Type checker
	ErrTypeMismatch ErrorCode = "T001"
	ErrNotAFunction ErrorCode = "T002"
	ErrWrongArity ErrorCode = "T003"
	ErrNoSuchField ErrorCode = "T004"
	ErrNoSuchMethod ErrorCode = "T005"
	ErrAmbiguousMethod ErrorCode = "T006"
	ErrNonExhaustiveMatch ErrorCode = "T007"
	ErrTraitBoundUnsatisfied ErrorCode = "T008"
	ErrCycleInTypeAlias ErrorCode = "T009"

	// Ownership tracker
	ErrUseAfterMove ErrorCode = "O001"
	ErrAssignToImmutable ErrorCode = "O002"
	ErrMoveOutOfBorrowed ErrorCode = "O003"

	// Borrow checker
	ErrBorrowWhileExclusivelyBorrowed ErrorCode = "B001"
	ErrExclusiveBorrowWhileAliased ErrorCode = "B002"
	ErrReferenceOutlivesReferent ErrorCode = "B003"

	// Monomorphizer
	ErrNonLiteralCompileTimeArgument ErrorCode = "M001"
	ErrMonomorphizationNonTermination ErrorCode = "M002"

	// Desugaring
	ErrClosureInlineBudget ErrorCode = "M003"

	// Codegen-internal assertions — bugs, not user errors.
	ErrInternalCompilerError ErrorCode = "C001"
)

// Diagnostic is the (kind, primary span, message) triple of
type Diagnostic struct {
	Code ErrorCode
	Span token.Span
	Message string
}

func (d *Diagnostic) Error() string {
	if d.Span.Valid() {
		return fmt.Sprintf("%s: [%s] %s", d.Span.String(), d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// New builds a Diagnostic anchored at tok's span.
func New(code ErrorCode, tok token.Token, message string) *Diagnostic {
	return &Diagnostic{Code: code, Span: tok.Span, Message: message}
}

// NewAt builds a Diagnostic anchored directly at a span, for cases (e.g.
// monomorphization, codegen) where no single token is the natural anchor.
func NewAt(code ErrorCode, span token.Span, message string) *Diagnostic {
	return &Diagnostic{Code: code, Span: span, Message: message}
}

// Bag accumulates diagnostics across a single pass, matching the
// accumulate-then-stop policy of : a pass keeps walking after the
// first error so later ones can surface too, up to SoftCap.
type Bag struct {
	items []*Diagnostic
	SoftCap int
}

// DefaultSoftCap bounds how many diagnostics a single pass accumulates
// before it stops adding new ones (it still finishes the walk).
const DefaultSoftCap = 200

// NewBag returns an empty Bag with the default soft cap.
func NewBag() *Bag {
	return &Bag{SoftCap: DefaultSoftCap}
}

func (b *Bag) Add(d *Diagnostic) {
	if b.SoftCap > 0 && len(b.items) >= b.SoftCap {
		return
	}
	b.items = append(b.items, d)
}

func (b *Bag) Addf(code ErrorCode, tok token.Token, format string, args...interface{}) {
	b.Add(New(code, tok, fmt.Sprintf(format, args...)))
}

func (b *Bag) Extend(other []*Diagnostic) {
	for _, d := range other {
		b.Add(d)
	}
}

func (b *Bag) Items() []*Diagnostic { return b.items }
func (b *Bag) Empty() bool { return len(b.items) == 0 }
func (b *Bag) Len() int { return len(b.items) }
