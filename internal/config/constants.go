// Package config holds the driver-facing compile Options,
// project-file loading, and the builtin name tables the checker and
// codegen consult for the language's prelude types and runtime entry
// points.
//
// Grounded on funxy/internal/config/constants.go for the shape (a small
// package of exported constants plus a couple of pure helpers, no state
// machine), trimmed of funxy's test/LSP-mode globals and file-extension
// juggling that belonged to its own driver, not this core.
package config

// SourceFileExt is the canonical extension for a Pyrite source file.
const SourceFileExt = ".pyr"

// Built-in trait and method names of the language prelude.
const (
	IterTraitName = "Iter"
	IterMethodName = "iter"
	DisplayTraitName = "Display"
)

// Built-in container type names, opaque to the SSA layout (internal/ssa's
// isOpaqueContainer) and backed by the list_*/map_*/set_* runtime family
// (internal/ssa.StandardRuntime).
const (
	ListTypeName = "List"
	MapTypeName = "Map"
	SetTypeName = "Set"
)

// Built-in sum-type names and constructors making up the language's
// prelude (Result/Option propagation and the `try` contract).
const (
	OptionTypeName = "Option"
	ResultTypeName = "Result"
	SomeCtorName = "Some"
	NoneCtorName = "None"
	OkCtorName = "Ok"
	ErrCtorName = "Err"
)

// Runtime entry points the generated module declares but never defines
// (internal/ssa.StandardRuntime), with the same spelling codegen uses
// there as literals.
const (
	PanicFuncName = "pyrite_panic"
	PrintFuncName = "pyrite_print_int"
)
