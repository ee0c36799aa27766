package diagnostics

// explanations backs the driver's `--explain <code>` command
// grounded on forge/src/utils/error_explanations.py in original_source.
var explanations = map[ErrorCode]string{
	ErrUndefinedName: "No symbol with this name is visible from the current scope. " +
		"Check for a typo, a missing import, or a declaration that appears after this use.",
	ErrRedeclaration: "A symbol with this name already exists in the same scope. " +
		"Variables may shadow an outer binding; functions and types may not be redeclared in the same scope.",
	ErrNotAType: "This name resolves to a symbol that is not a type, but was used where a type was expected.",
	ErrNotACallable: "This name does not resolve to a function or callable value.",

	ErrTypeMismatch: "The two sides of this operation, assignment, or call do not have compatible types.",
	ErrNotAFunction: "An attempt was made to call a value whose type is not a function type.",
	ErrWrongArity: "This call passes a different number of arguments than the callee's parameter list declares.",
	ErrNoSuchField: "The named field does not exist on this struct type.",
	ErrNoSuchMethod: "No inherent method or trait implementation provides a method with this name for this type.",
	ErrAmbiguousMethod: "More than one trait implementation provides a method with this name for this type; " +
		"qualify the call with the trait name to disambiguate.",
	ErrNonExhaustiveMatch: "This match expression does not cover every variant of the scrutinee's enum type, " +
		"and has no wildcard arm to cover the rest.",
	ErrTraitBoundUnsatisfied: "A generic parameter's trait bound is not satisfied by the inferred or supplied type argument.",
	ErrCycleInTypeAlias: "This type alias refers to itself, directly or through a chain of other aliases.",

	ErrUseAfterMove: "This variable's value was already moved out (transferred to another binding or consumed " +
		"by a non-Copy argument position) and can no longer be used by name.",
	ErrAssignToImmutable: "This variable was not declared mutable and cannot be assigned to, or a &mut borrow was " +
		"taken of a variable that is not declared mutable.",
	ErrMoveOutOfBorrowed: "A move is not permitted out of a variable that is currently borrowed.",

	ErrBorrowWhileExclusivelyBorrowed: "A shared borrow was requested, or the variable was read by name, while an " +
		"exclusive borrow of the same variable is still alive; or the variable was assigned to while shared " +
		"borrows of it are still alive.",
	ErrExclusiveBorrowWhileAliased: "An exclusive borrow was requested while one or more shared borrows, or another " +
		"exclusive borrow, of the same variable are still alive; or the variable was assigned to while it is " +
		"exclusively borrowed.",
	ErrReferenceOutlivesReferent: "A reference value would outlive the scope of the variable it borrows from.",

	ErrNonLiteralCompileTimeArgument: "A compile-time generic argument must be an integer or boolean literal known " +
		"at compile time.",
	ErrMonomorphizationNonTermination: "Monomorphizing this compile-time-parameterized recursive call did not " +
		"terminate within the implementation's depth cap; the argument set reached by the call graph is unbounded.",

	ErrClosureInlineBudget: "Inlining this parameter closure would exceed the implementation's inline depth or " +
		"body-size budget.",

	ErrInternalCompilerError: "The code generator's internal invariant checks failed on a program that passed type " +
		"checking, ownership checking, and borrow checking. This is a compiler bug, not a program error.",
}

// Explain returns the long-form explanation for a diagnostic code, or the
// empty string if the code is unknown.
func Explain(code ErrorCode) string {
	return explanations[code]
}
