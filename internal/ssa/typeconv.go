package ssa

import "github.com/funvibe/pyrite/internal/typesystem"

// lowerType converts a checked typesystem.Type to its SSA representation
// per layout conventions.
func lowerType(t typesystem.Type) Type {
	switch v := t.(type) {
	case nil:
		return TypeVoid
	case typesystem.Int:
		switch v.Width {
		case 8:
			return TypeI8
		case 16:
			return Type("i16")
		case 64:
			return TypeI64
		default:
			return TypeI32
		}
	case typesystem.Float:
		if v.Width == 32 {
			return TypeF32
		}
		return TypeF64
	case typesystem.Bool:
		return TypeI1
	case typesystem.Char:
		return Type("i32")
	case typesystem.String:
		return StringType()
	case typesystem.Void:
		return TypeVoid
	case typesystem.Reference:
		return TypePtr
	case typesystem.Pointer:
		return TypePtr
	case typesystem.Array:
		return Type("[" + itoa(int(v.Size)) + " x " + string(lowerType(v.Element)) + "]")
	case typesystem.Slice:
		return SliceTypeOf(lowerType(v.Element))
	case typesystem.Tuple:
		var parts []Type
		for _, e := range v.Elements {
			parts = append(parts, lowerType(e))
		}
		return tupleType(parts)
	case typesystem.Struct:
		return NamedType(v.Name)
	case typesystem.Enum:
		return NamedType(v.Name)
	case typesystem.Generic:
		if isOpaqueContainer(v.Name) {
			return TypePtr
		}
		if v.Base != nil {
			return lowerType(v.Base)
		}
		return NamedType(v.Name)
	case typesystem.Opaque:
		return TypePtr
	case typesystem.Function:
		return ClosureType(functionPointerSig(v))
	default:
		return TypePtr
	}
}

func tupleType(elems []Type) Type {
	s := "{"
	for i, e := range elems {
		if i > 0 {
			s += ", "
		}
		s += string(e)
	}
	return Type(s + "}")
}

func isOpaqueContainer(name string) bool {
	switch name {
	case "List", "Map", "Set":
		return true
	default:
		return false
	}
}

func functionPointerSig(f typesystem.Function) string {
	ret := string(lowerType(f.ReturnType))
	sig := ret + " (i8*"
	for _, p := range f.ParamTypes {
		sig += ", " + string(lowerType(p))
	}
	return sig + ")"
}

// typeNameOf returns the nominal name of a Struct/Enum/Generic type, or
// "" if t has none (mirrors internal/checker's private helper of the same
// purpose, needed here for method-dispatch and enum-layout lookups).
func typeNameOf(t typesystem.Type) string {
	switch v := t.(type) {
	case typesystem.Struct:
		return v.Name
	case typesystem.Enum:
		return v.Name
	case typesystem.Generic:
		return v.Name
	case typesystem.Reference:
		return typeNameOf(v.Inner)
	case typesystem.Pointer:
		return typeNameOf(v.Inner)
	default:
		return ""
	}
}
