// Package ssa implements the code generator of : it lowers a
// desugared, monomorphized, type-checked AST into a single SSA module —
// function/basic-block/instruction declarations plus the struct, enum, and
// runtime-library declarations the module references — and accumulates a
// SPEC_FULL.md cost report of allocation and copy sites alongside it.
//
// Grounded on forge/src/backend/codegen.py (original_source) for the
// lowering conventions themselves (block/defer/closure-env shapes,
// enum tagged-union layout, bounds-checked indexing), and on
// funxy/internal/vm/{chunk.go,opcodes.go} for how the teacher repo shapes a
// low-level instruction assembler in Go — a builder type that owns a
// growing instruction sequence and hands out well-formed references into
// it, with disassembly-friendly String methods standing in here for the
// teacher's bytecode printer.
package ssa

import "strings"

// Type is a textual SSA type: "i32", "i1", "i8*", a struct/enum name
// prefixed "%", or a braced aggregate like "{i8*, i64}" (String).
type Type string

const (
	TypeI32 Type = "i32"
	TypeI64 Type = "i64"
	TypeI8 Type = "i8"
	TypeI1 Type = "i1"
	TypeF32 Type = "f32"
	TypeF64 Type = "f64"
	TypeVoid Type = "void"
	TypePtr Type = "ptr"
)

// StringType is the two-word {i8*, i64} (pointer, length) string layout.
func StringType() Type { return "{i8*, i64}" }

// SliceTypeOf is {T*, i64}.
func SliceTypeOf(elem Type) Type { return Type("{" + string(elem) + "*, i64}") }

// ListTypeOf is {T*, i64, i64} (pointer, length, capacity).
func ListTypeOf(elem Type) Type { return Type("{" + string(elem) + "*, i64, i64}") }

// ClosureType is the two-word {function-pointer, environment-pointer}
// struct a runtime closure expression produces.
func ClosureType(fnSig string) Type { return Type("{" + fnSig + "*, i8*}") }

// NamedType refers to a declared struct or enum by name.
func NamedType(name string) Type { return Type("%" + name) }

// FieldLayout is one field of a StructType, in layout order.
type FieldLayout struct {
	Name string
	Typ Type
}

// StructType is a lowered struct declaration with its fields in
// declaration order.
type StructType struct {
	Name string
	Fields []FieldLayout
}

func (s *StructType) String() string {
	var b strings.Builder
	b.WriteString("%" + s.Name + " = type { ")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(f.Typ) + " " + f.Name)
	}
	b.WriteString(" }")
	return b.String()
}

// EnumVariant is one lowered variant: its tag (declaration index) and the
// SSA types its payload fields widen to (i64 each).
type EnumVariant struct {
	Name string
	Tag int
	PayloadLen int // number of i64 payload slots this variant actually uses
}

// MaxEnumPayloadFields caps the tagged-union's payload width at 8 fields.
const MaxEnumPayloadFields = 8

// EnumType is a lowered enum declaration. Unit-only enums collapse to a
// bare i32 tag (IsUnitOnly); any payload-bearing variant promotes the whole
// enum to the tagged struct {i32 tag, i64 f0,..., i64 f_{n-1}}.
type EnumType struct {
	Name string
	Variants []EnumVariant
	IsUnitOnly bool
	PayloadSlots int // max(variant payload length) across variants, capped at 8
}

func (e *EnumType) String() string {
	if e.IsUnitOnly {
		return "%" + e.Name + " = type i32"
	}
	var b strings.Builder
	b.WriteString("%" + e.Name + " = type { i32 tag")
	for i := 0; i < e.PayloadSlots; i++ {
		b.WriteString(", i64 f")
		b.WriteString(itoa(i))
	}
	b.WriteString(" }")
	return b.String()
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// RuntimeDecl is an external C-callable symbol the generated module calls
// but never defines (runtime interface).
type RuntimeDecl struct {
	Name string
	ParamTypes []Type
	ReturnType Type
}

func (r *RuntimeDecl) String() string {
	var b strings.Builder
	b.WriteString("declare " + string(r.ReturnType) + " @" + r.Name + "(")
	for i, p := range r.ParamTypes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(p))
	}
	b.WriteString(")")
	return b.String()
}

// StandardRuntime returns the fixed runtime-interface declarations of
// : printf/malloc/free, the pyrite_* helpers, and the
// list_*/map_*/set_* container families.
func StandardRuntime() []*RuntimeDecl {
	decls := []*RuntimeDecl{
		{Name: "printf", ParamTypes: []Type{TypePtr}, ReturnType: TypeI32},
		{Name: "malloc", ParamTypes: []Type{TypeI64}, ReturnType: TypePtr},
		{Name: "free", ParamTypes: []Type{TypePtr}, ReturnType: TypeVoid},
		{Name: "pyrite_print_int", ParamTypes: []Type{TypeI64}, ReturnType: TypeVoid},
		{Name: "pyrite_panic", ParamTypes: []Type{TypePtr}, ReturnType: TypeVoid},
		{Name: "pyrite_check_bounds", ParamTypes: []Type{TypeI64, TypeI64}, ReturnType: TypeI1},
		{Name: "pyrite_assert", ParamTypes: []Type{TypeI1, TypePtr}, ReturnType: TypeVoid},
		{Name: "pyrite_fail", ParamTypes: []Type{TypePtr}, ReturnType: TypeVoid},
	}
	for _, container := range []string{"list", "map", "set"} {
		decls = append(decls,
			&RuntimeDecl{Name: container + "_new", ParamTypes: []Type{TypeI64}, ReturnType: TypePtr},
			&RuntimeDecl{Name: container + "_len", ParamTypes: []Type{TypePtr}, ReturnType: TypeI64},
			&RuntimeDecl{Name: container + "_free", ParamTypes: []Type{TypePtr}, ReturnType: TypeVoid})
		switch container {
		case "list":
			decls = append(decls,
				&RuntimeDecl{Name: "list_push", ParamTypes: []Type{TypePtr, TypeI64}, ReturnType: TypeVoid},
				&RuntimeDecl{Name: "list_get", ParamTypes: []Type{TypePtr, TypeI64}, ReturnType: TypeI64})
		case "map":
			decls = append(decls,
				&RuntimeDecl{Name: "map_put", ParamTypes: []Type{TypePtr, TypeI64, TypeI64}, ReturnType: TypeVoid},
				&RuntimeDecl{Name: "map_get", ParamTypes: []Type{TypePtr, TypeI64}, ReturnType: TypeI64})
		case "set":
			decls = append(decls,
				&RuntimeDecl{Name: "set_add", ParamTypes: []Type{TypePtr, TypeI64}, ReturnType: TypeVoid},
				&RuntimeDecl{Name: "set_contains", ParamTypes: []Type{TypePtr, TypeI64}, ReturnType: TypeI1})
		}
	}
	return decls
}

// Module is the whole generated unit handed back to the driver: a single
// SSA module per contract ("a single SSA module containing
// declarations for every function, struct type, and runtime library symbol
// used, and a definition body for every non-extern function").
type Module struct {
	Name string
	Structs []*StructType
	Enums []*EnumType
	Runtime []*RuntimeDecl
	Globals []*GlobalString
	Functions []*Function
}

func NewModule(name string) *Module {
	return &Module{Name: name, Runtime: StandardRuntime()}
}

func (m *Module) String() string {
	var b strings.Builder
	b.WriteString("; module " + m.Name + "\n\n")
	for _, s := range m.Structs {
		b.WriteString(s.String() + "\n")
	}
	for _, e := range m.Enums {
		b.WriteString(e.String() + "\n")
	}
	if len(m.Structs) > 0 || len(m.Enums) > 0 {
		b.WriteString("\n")
	}
	for _, r := range m.Runtime {
		b.WriteString(r.String() + "\n")
	}
	b.WriteString("\n")
	for _, s := range m.Globals {
		b.WriteString("@" + s.Name + " = constant " + string(StringType()) + " " + quoteString(s.Value) + "\n")
	}
	if len(m.Globals) > 0 {
		b.WriteString("\n")
	}
	for _, fn := range m.Functions {
		b.WriteString(fn.String() + "\n\n")
	}
	return b.String()
}
