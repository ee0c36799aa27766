package ssa

import (
	"fmt"
	"strconv"
)

// Operand is anything an instruction can read: a register, a literal
// constant, a named global, or the null pointer.
type Operand interface {
	String() string
	Type() Type
}

// Reg is a virtual register produced by some earlier instruction in the
// same function — the unit of value an SSA register binds to exactly once.
type Reg struct {
	ID int
	Typ Type
}

func (r *Reg) String() string { return "%r" + strconv.Itoa(r.ID) }
func (r *Reg) Type() Type { return r.Typ }

// ConstInt is an integer literal operand.
type ConstInt struct {
	Typ Type
	Value int64
}

func (c ConstInt) String() string { return strconv.FormatInt(c.Value, 10) }
func (c ConstInt) Type() Type { return c.Typ }

// ConstFloat is a float literal operand.
type ConstFloat struct {
	Typ Type
	Value float64
}

func (c ConstFloat) String() string { return strconv.FormatFloat(c.Value, 'g', -1, 64) }
func (c ConstFloat) Type() Type { return c.Typ }

// ConstBool is a boolean literal operand (i1).
type ConstBool struct{ Value bool }

func (c ConstBool) String() string {
	if c.Value {
		return "true"
	}
	return "false"
}
func (c ConstBool) Type() Type { return TypeI1 }

// GlobalString is a reference to a module-level interned string constant.
type GlobalString struct {
	Name string
	Value string
}

func (g GlobalString) String() string { return "@" + g.Name }
func (g GlobalString) Type() Type { return StringType() }

// GlobalRef names a module-level function or global by symbol name, e.g.
// the callee of a direct Call.
type GlobalRef struct {
	Name string
	Typ Type
}

func (g GlobalRef) String() string { return "@" + g.Name }
func (g GlobalRef) Type() Type { return g.Typ }

// Null is the nil pointer, used as a runtime closure's environment pointer
// when it captures nothing.
type Null struct{ Typ Type }

func (n Null) String() string { return "null" }
func (n Null) Type() Type { return n.Typ }

// Undef stands for a value deliberately not yet produced (e.g. a `var`
// binding with no initializer).
type Undef struct{ Typ Type }

func (u Undef) String() string { return fmt.Sprintf("undef %s", u.Typ) }
func (u Undef) Type() Type { return u.Typ }
