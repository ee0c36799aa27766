package typesystem

// IsCopy reports whether a type is Copy : all constituents
// Copy. Primitives, shared references, raw pointers, and tuples/arrays of
// Copy types are Copy. String, Struct, Enum (with any non-Copy field),
// Slice, exclusive references, and function values with captures are Move.
//
// structCopy and enumCopy let the caller (the ownership tracker, which
// knows each struct/enum's field types from the symbol table) resolve the
// recursive Copy-ness of named aggregate types; a nil lookup always
// answers false (conservative: Move).
func IsCopy(t Type, structCopy func(Struct) bool, enumCopy func(Enum) bool) bool {
	switch v := t.(type) {
	case Int, Float, Bool, Char:
		return true
	case Reference:
		return !v.Mutable
	case Pointer:
		return true
	case Tuple:
		for _, e := range v.Elements {
			if !IsCopy(e, structCopy, enumCopy) {
				return false
			}
		}
		return true
	case Array:
		return IsCopy(v.Element, structCopy, enumCopy)
	case Struct:
		if structCopy != nil {
			return structCopy(v)
		}
		return false
	case Enum:
		if enumCopy != nil {
			return enumCopy(v)
		}
		return false
	case String, Slice, Opaque:
		return false
	case Function:
		// A captureless function value (inlined parameter closure) never
		// reaches codegen as a value; a runtime closure value always
		// carries a possibly-empty environment and is Move.
		return false
	case Generic:
		if v.Base != nil {
			return IsCopy(v.Base, structCopy, enumCopy)
		}
		return false
	default:
		return false
	}
}

// StructIsCopy determines Copy-ness of a Struct from its field types, given
// a resolver for any nested named types.
func StructIsCopy(s Struct, structCopy func(Struct) bool, enumCopy func(Enum) bool) bool {
	for _, f := range s.Fields {
		if !IsCopy(f.Type, structCopy, enumCopy) {
			return false
		}
	}
	return true
}

// EnumIsCopy determines Copy-ness of an Enum: Copy iff every variant's
// payload fields are all Copy (a Move field in any variant makes the whole
// enum Move, per).
func EnumIsCopy(e Enum, structCopy func(Struct) bool, enumCopy func(Enum) bool) bool {
	for _, variant := range e.Variants {
		for _, f := range variant.Fields {
			if !IsCopy(f, structCopy, enumCopy) {
				return false
			}
		}
	}
	return true
}
