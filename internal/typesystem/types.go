// Package typesystem implements the closed type algebra of : a
// tagged union of primitive, reference, pointer, array, slice, tuple,
// struct, enum, generic, function, trait, opaque, type-variable, and Self
// types, with structural equality and display.
//
// This mirrors the shape of funxy's internal/typesystem (a Type interface
// implemented by a family of structs with String), but drops funxy's
// Hindley-Milner machinery (Apply/FreeTypeVariables/Kind, unification with
// substitution) since Pyrite's type checker is bidirectional with
// single-pass first-match unification-lite not full inference.
package typesystem

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface for all types in the Pyrite type algebra.
type Type interface {
	String() string
	// Equals reports structural equality: two type instances are equal iff
	// their structural representation is equal (invariant).
	Equals(other Type) bool
}

// Int is a fixed-width signed integer type.
type Int struct{ Width int } // 8, 16, 32, 64

func (t Int) String() string { return fmt.Sprintf("Int%d", t.Width) }
func (t Int) Equals(o Type) bool {
	other, ok := o.(Int)
	return ok && other.Width == t.Width
}

// Float is a fixed-width floating point type.
type Float struct{ Width int } // 32, 64

func (t Float) String() string { return fmt.Sprintf("Float%d", t.Width) }
func (t Float) Equals(o Type) bool {
	other, ok := o.(Float)
	return ok && other.Width == t.Width
}

// Bool is the boolean type.
type Bool struct{}

func (t Bool) String() string { return "Bool" }
func (t Bool) Equals(o Type) bool { _, ok := o.(Bool); return ok }

// Char is a 32-bit scalar value type.
type Char struct{}

func (t Char) String() string { return "Char" }
func (t Char) Equals(o Type) bool { _, ok := o.(Char); return ok }

// String is the pointer+length string type.
type String struct{}

func (t String) String() string { return "String" }
func (t String) Equals(o Type) bool { _, ok := o.(String); return ok }

// Void is the absence of a value (no return type).
type Void struct{}

func (t Void) String() string { return "Void" }
func (t Void) Equals(o Type) bool { _, ok := o.(Void); return ok }

// Reference is a borrowed pointer, tagged with whether it permits mutation.
type Reference struct {
	Mutable bool
	Inner Type
}

func (t Reference) String() string {
	if t.Mutable {
		return "&mut " + t.Inner.String()
	}
	return "&" + t.Inner.String()
}
func (t Reference) Equals(o Type) bool {
	other, ok := o.(Reference)
	return ok && other.Mutable == t.Mutable && other.Inner.Equals(t.Inner)
}

// Pointer is a raw, unchecked pointer.
type Pointer struct {
	Mutable bool
	Inner Type
}

func (t Pointer) String() string {
	if t.Mutable {
		return "*mut " + t.Inner.String()
	}
	return "*" + t.Inner.String()
}
func (t Pointer) Equals(o Type) bool {
	other, ok := o.(Pointer)
	return ok && other.Mutable == t.Mutable && other.Inner.Equals(t.Inner)
}

// Array is a fixed-size, compile-time-sized sequence.
type Array struct {
	Element Type
	Size int64
}

func (t Array) String() string { return fmt.Sprintf("[%s; %d]", t.Element.String(), t.Size) }
func (t Array) Equals(o Type) bool {
	other, ok := o.(Array)
	return ok && other.Size == t.Size && other.Element.Equals(t.Element)
}

// Slice is a pointer+length view over an Element type.
type Slice struct{ Element Type }

func (t Slice) String() string { return "[" + t.Element.String() + "]" }
func (t Slice) Equals(o Type) bool {
	other, ok := o.(Slice)
	return ok && other.Element.Equals(t.Element)
}

// Tuple is an ordered, fixed-arity sequence of element types.
type Tuple struct{ Elements []Type }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t Tuple) Equals(o Type) bool {
	other, ok := o.(Tuple)
	if !ok || len(other.Elements) != len(t.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].Equals(other.Elements[i]) {
			return false
		}
	}
	return true
}

// Field is one named field of a Struct, preserving declaration order.
type Field struct {
	Name string
	Type Type
}

// Struct is a nominal product type. Fields preserve declaration order;
// SortedFields returns a name-sorted copy, which no stage of the compiler
// calls (codegen lays fields out in declaration order).
type Struct struct {
	Name string
	Fields []Field
}

func (t Struct) String() string { return t.Name }
func (t Struct) Equals(o Type) bool {
	other, ok := o.(Struct)
	return ok && other.Name == t.Name
}

// FieldType returns the type of a named field, or nil if absent.
func (t Struct) FieldType(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// SortedFields returns a copy of Fields sorted by name.
func (t Struct) SortedFields() []Field {
	out := append([]Field(nil), t.Fields...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Variant is one case of an Enum. Fields is nil for a unit variant.
type Variant struct {
	Name string
	Fields []Type // ordered payload field types; nil/empty => unit variant
}

// Enum is a nominal sum type. The variant's tag is its index in
// declaration order invariant).
type Enum struct {
	Name string
	Variants []Variant
}

func (t Enum) String() string { return t.Name }
func (t Enum) Equals(o Type) bool {
	other, ok := o.(Enum)
	return ok && other.Name == t.Name
}

// VariantIndex returns the declaration-order tag of a variant, or -1.
func (t Enum) VariantIndex(name string) int {
	for i, v := range t.Variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// MaxPayloadFields returns the largest payload-field count across all
// variants, capped at 8 per tagged-union layout rule.
func (t Enum) MaxPayloadFields() int {
	max := 0
	for _, v := range t.Variants {
		if len(v.Fields) > max {
			max = len(v.Fields)
		}
	}
	if max > 8 {
		max = 8
	}
	return max
}

// HasPayload reports whether any variant carries fields; a no-payload enum
// lowers to a bare i32 otherwise to a tagged struct.
func (t Enum) HasPayload() bool {
	for _, v := range t.Variants {
		if len(v.Fields) > 0 {
			return true
		}
	}
	return false
}

// Generic is a named generic type applied to TypeArgs. Base is the
// underlying concrete type; no stage of the compiler sets it
// (internal/mono specializes functions on the AST and leaves types alone),
// so it is nil in every Generic the checker builds.
type Generic struct {
	Name string
	Base Type // nil in every Generic the checker builds
	TypeArgs []Type
}

func (t Generic) String() string {
	if len(t.TypeArgs) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}
func (t Generic) Equals(o Type) bool {
	other, ok := o.(Generic)
	if !ok || other.Name != t.Name || len(other.TypeArgs) != len(t.TypeArgs) {
		return false
	}
	for i := range t.TypeArgs {
		if !t.TypeArgs[i].Equals(other.TypeArgs[i]) {
			return false
		}
	}
	return true
}

// Function is a function's signature type.
type Function struct {
	ParamTypes []Type
	ReturnType Type // nil means Void
}

func (t Function) String() string {
	parts := make([]string, len(t.ParamTypes))
	for i, p := range t.ParamTypes {
		parts[i] = p.String()
	}
	ret := "Void"
	if t.ReturnType != nil {
		ret = t.ReturnType.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), ret)
}
func (t Function) Equals(o Type) bool {
	other, ok := o.(Function)
	if !ok || len(other.ParamTypes) != len(t.ParamTypes) {
		return false
	}
	for i := range t.ParamTypes {
		if !t.ParamTypes[i].Equals(other.ParamTypes[i]) {
			return false
		}
	}
	if (t.ReturnType == nil) != (other.ReturnType == nil) {
		return false
	}
	if t.ReturnType != nil && !t.ReturnType.Equals(other.ReturnType) {
		return false
	}
	return true
}

// AssociatedType is one `type Item` declaration inside a Trait.
type AssociatedType struct {
	Name string
}

// Trait is a named set of method signatures and associated types.
type Trait struct {
	Name string
	AssociatedTypes []AssociatedType
	Methods []Function
	MethodNames []string // parallel to Methods, preserves declaration order
}

func (t Trait) String() string { return t.Name }
func (t Trait) Equals(o Type) bool {
	other, ok := o.(Trait)
	return ok && other.Name == t.Name
}

// MethodSignature returns the declared signature of a trait method by name.
func (t Trait) MethodSignature(name string) (Function, bool) {
	for i, n := range t.MethodNames {
		if n == name {
			return t.Methods[i], true
		}
	}
	return Function{}, false
}

// Opaque is a nominal type with no known structure (e.g. Map/Set/List
// handles manipulated entirely through runtime calls,.
type Opaque struct{ Name string }

func (t Opaque) String() string { return t.Name }
func (t Opaque) Equals(o Type) bool {
	other, ok := o.(Opaque)
	return ok && other.Name == t.Name
}

// TypeVariable stands in for an as-yet-unresolved generic parameter. It
// never appears in a program that has been fully monomorphized.
type TypeVariable struct{ Name string }

func (t TypeVariable) String() string { return t.Name }
func (t TypeVariable) Equals(o Type) bool {
	other, ok := o.(TypeVariable)
	return ok && other.Name == t.Name
}

// Self stands for the target type of the enclosing impl block, substituted
// away by the type checker before any type comparison happens outside it.
type Self struct{}

func (t Self) String() string { return "Self" }
func (t Self) Equals(o Type) bool { _, ok := o.(Self); return ok }

// ContainsTypeVariable reports whether t (or any of its constituents)
// is or contains a TypeVariable. Used by the post-monomorphization
// invariant check.
func ContainsTypeVariable(t Type) bool {
	switch v := t.(type) {
	case TypeVariable:
		return true
	case Reference:
		return ContainsTypeVariable(v.Inner)
	case Pointer:
		return ContainsTypeVariable(v.Inner)
	case Array:
		return ContainsTypeVariable(v.Element)
	case Slice:
		return ContainsTypeVariable(v.Element)
	case Tuple:
		for _, e := range v.Elements {
			if ContainsTypeVariable(e) {
				return true
			}
		}
		return false
	case Generic:
		for _, a := range v.TypeArgs {
			if ContainsTypeVariable(a) {
				return true
			}
		}
		if v.Base != nil {
			return ContainsTypeVariable(v.Base)
		}
		return false
	case Function:
		for _, p := range v.ParamTypes {
			if ContainsTypeVariable(p) {
				return true
			}
		}
		if v.ReturnType != nil {
			return ContainsTypeVariable(v.ReturnType)
		}
		return false
	default:
		return false
	}
}

// IsNumeric reports whether t is an Int or Float of any width.
func IsNumeric(t Type) bool {
	switch t.(type) {
	case Int, Float:
		return true
	default:
		return false
	}
}
