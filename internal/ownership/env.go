// Package ownership implements the per-function ownership dataflow of
// : it simulates the Owned/Moved/Borrowed/Uninitialized state
// of every local variable through a function body's control flow and
// rejects use-after-move, assignment-to-immutable, and moves out of a
// borrowed variable.
//
// Grounded on the outer/store-chain shape of
// funxy/internal/evaluator/environment.go (NewEnvironment/
// NewEnclosedEnvironment/Get/Set), adapted to hold mutable per-variable
// ownership records instead of runtime values, and to need no mutex since
// mandates a single-threaded cooperative compiler core.
package ownership

import "github.com/funvibe/pyrite/internal/token"

// State is a variable's ownership state at a given program point.
type State int

const (
	Uninitialized State = iota
	Owned
	Moved
	BorrowedShared
	BorrowedExclusive
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Owned:
		return "owned"
	case Moved:
		return "moved"
	case BorrowedShared:
		return "borrowed (shared)"
	case BorrowedExclusive:
		return "borrowed (exclusive)"
	default:
		return "unknown"
	}
}

// varRecord is one local variable's dataflow-tracked record.
type varRecord struct {
	state State
	mutable bool
	isCopy bool
	declaredAt token.Token
	movedAt token.Token // valid only when state == Moved
}

func (r *varRecord) clone() *varRecord {
	cp := *r
	return &cp
}

// Env is one lexical scope's variable-record store, chained to its
// enclosing scope (mirrors funxy's Environment outer chain).
type Env struct {
	store map[string]*varRecord
	outer *Env
}

func NewEnv() *Env { return &Env{store: make(map[string]*varRecord)} }

func NewEnclosedEnv(outer *Env) *Env {
	e := NewEnv()
	e.outer = outer
	return e
}

func (e *Env) define(name string, rec *varRecord) { e.store[name] = rec }

// get returns the record for name, searching outward, and the Env frame
// that actually owns it (so mutations land on the declaring frame, not a
// stale copy).
func (e *Env) get(name string) (*varRecord, *Env) {
	if rec, ok := e.store[name]; ok {
		return rec, e
	}
	if e.outer != nil {
		return e.outer.get(name)
	}
	return nil, nil
}

// snapshot captures the state of every variable visible from e, by name,
// for control-flow join comparison (join rule).
func (e *Env) snapshot() map[string]State {
	out := make(map[string]State)
	for env := e; env != nil; env = env.outer {
		for name, rec := range env.store {
			if _, seen := out[name]; !seen {
				out[name] = rec.state
			}
		}
	}
	return out
}

// restore applies a snapshot's states back onto the records visible from e
// (used after a branch to set the meet-of-branches state).
func (e *Env) restore(snap map[string]State) {
	for name, st := range snap {
		if rec, _ := e.get(name); rec != nil {
			rec.state = st
		}
	}
}
