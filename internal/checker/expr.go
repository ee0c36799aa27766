package checker

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// infer assigns and returns expr's type, recording it in c.TypeMap.
func (c *Checker) infer(expr ast.Expression) typesystem.Type {
	t := c.inferRaw(expr)
	c.TypeMap[expr] = t
	return t
}

// check verifies expr against an expected type, reporting TypeMismatch on
// disagreement. It still records and returns the inferred type so callers
// can continue using it even after an error (best-effort recovery, per
// accumulate-then-stop policy).
func (c *Checker) check(expr ast.Expression, expected typesystem.Type) typesystem.Type {
	got := c.infer(expr)
	if expected != nil && !typesAssignable(expected, got) {
		c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, expr.GetToken(),
				"expected "+expected.String()+", found "+got.String()))
	}
	return got
}

// typesAssignable reports whether a value of type `got` may be used where
// `want` is expected. Beyond structural equality, a TypeVariable on either
// side is provisionally compatible (it is bound by unification elsewhere;
// a mismatch there is caught once monomorphization substitutes concretes).
func typesAssignable(want, got typesystem.Type) bool {
	if want.Equals(got) {
		return true
	}
	if _, ok := want.(typesystem.TypeVariable); ok {
		return true
	}
	if _, ok := got.(typesystem.TypeVariable); ok {
		return true
	}
	return false
}

func (c *Checker) inferRaw(expr ast.Expression) typesystem.Type {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return typesystem.Int{Width: 32}
	case *ast.FloatLiteral:
		return typesystem.Float{Width: 64}
	case *ast.BoolLiteral:
		return typesystem.Bool{}
	case *ast.CharLiteral:
		return typesystem.Char{}
	case *ast.StringLiteral:
		return typesystem.String{}
	case *ast.Identifier:
		return c.inferIdentifier(e)
	case *ast.BinaryExpression:
		return c.inferBinary(e)
	case *ast.UnaryExpression:
		return c.inferUnary(e)
	case *ast.CallExpression:
		return c.inferCall(e)
	case *ast.MethodCallExpression:
		return c.inferMethodCall(e)
	case *ast.StructLiteralExpression:
		return c.inferStructLiteral(e)
	case *ast.EnumConstructExpression:
		return c.inferEnumConstruct(e)
	case *ast.FieldAccessExpression:
		return c.inferFieldAccess(e)
	case *ast.IndexExpression:
		return c.inferIndex(e)
	case *ast.RefExpression:
		return typesystem.Reference{Mutable: e.Mutable, Inner: c.infer(e.Operand)}
	case *ast.TryExpression:
		return c.inferTry(e)
	case *ast.AsCastExpression:
		c.infer(e.Operand)
		return c.resolveType(e.TargetType)
	case *ast.TupleExpression:
		elems := make([]typesystem.Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = c.infer(el)
		}
		return typesystem.Tuple{Elements: elems}
	case *ast.MatchExpression:
		return c.inferMatch(e)
	case *ast.ParamClosureExpression:
		return c.inferParamClosure(e)
	case *ast.RuntimeClosureExpression:
		return c.inferRuntimeClosure(e)
	default:
		c.diags.Add(diagnostics.New(diagnostics.ErrInternalCompilerError, expr.GetToken(), "unhandled expression kind"))
		return typesystem.Void{}
	}
}

func (c *Checker) inferIdentifier(e *ast.Identifier) typesystem.Type {
	sym, ok := c.resolver.Lookup(e.Name)
	if !ok {
		// resolver already reported UndefinedName during name resolution.
		return typesystem.Void{}
	}
	if sym.Type != nil {
		return sym.Type
	}
	if fn, ok := c.funcDecls[e.Name]; ok {
		return c.functionType(fn)
	}
	if t, ok := c.constTypes[e.Name]; ok {
		return t
	}
	return typesystem.Void{}
}

func (c *Checker) functionType(fn *ast.FunctionDecl) typesystem.Function {
	var ft typesystem.Function
	c.withTypeParams(fn.TypeParams, func() {
		params := make([]typesystem.Type, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = c.resolveType(p.Type)
		}
		ft = typesystem.Function{ParamTypes: params, ReturnType: c.resolveType(fn.ReturnType)}
	})
	return ft
}

func (c *Checker) inferBinary(e *ast.BinaryExpression) typesystem.Type {
	lt := c.infer(e.Left)
	rt := c.infer(e.Right)
	switch e.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		if !typesAssignable(lt, rt) {
			c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, e.Token,
					"cannot compare "+lt.String()+" with "+rt.String()))
		}
		return typesystem.Bool{}
	case "&&", "||":
		return typesystem.Bool{}
	default:
		if !typesAssignable(lt, rt) {
			c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, e.Token,
					"mismatched operand types "+lt.String()+" and "+rt.String()))
		}
		return lt
	}
}

func (c *Checker) inferUnary(e *ast.UnaryExpression) typesystem.Type {
	t := c.infer(e.Operand)
	if e.Op == "!" {
		return typesystem.Bool{}
	}
	return t
}

func (c *Checker) inferTry(e *ast.TryExpression) typesystem.Type {
	operandType := c.infer(e.Operand)
	en, ok := operandType.(typesystem.Enum)
	if !ok || en.Name != "Result" {
		c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, e.Token, "\"?\" requires a Result operand"))
		return typesystem.Void{}
	}
	if len(en.Variants) > 0 && len(en.Variants[0].Fields) > 0 {
		return en.Variants[0].Fields[0]
	}
	return typesystem.Void{}
}

func (c *Checker) inferIndex(e *ast.IndexExpression) typesystem.Type {
	objType := c.infer(e.Object)
	c.infer(e.Index)
	switch t := objType.(type) {
	case typesystem.Array:
		return t.Element
	case typesystem.Slice:
		return t.Element
	default:
		c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, e.Token, objType.String()+" cannot be indexed"))
		return typesystem.Void{}
	}
}

func (c *Checker) inferFieldAccess(e *ast.FieldAccessExpression) typesystem.Type {
	objType := c.infer(e.Object)
	st, ok := unwrapStruct(objType)
	if !ok {
		c.diags.Add(diagnostics.New(diagnostics.ErrNoSuchField, e.Token, objType.String()+" has no fields"))
		return typesystem.Void{}
	}
	ft, ok := st.FieldType(e.Field)
	if !ok {
		c.diags.Add(diagnostics.New(diagnostics.ErrNoSuchField, e.Token,
				"no field \""+e.Field+"\" on "+st.Name))
		return typesystem.Void{}
	}
	return ft
}

// unwrapStruct strips a Reference to reach the underlying Struct, if any.
func unwrapStruct(t typesystem.Type) (typesystem.Struct, bool) {
	if ref, ok := t.(typesystem.Reference); ok {
		return unwrapStruct(ref.Inner)
	}
	st, ok := t.(typesystem.Struct)
	return st, ok
}

func (c *Checker) inferStructLiteral(e *ast.StructLiteralExpression) typesystem.Type {
	typ, ok := c.types[e.TypeName]
	if !ok {
		c.diags.Add(diagnostics.New(diagnostics.ErrNotAType, e.Token, "\""+e.TypeName+"\" is not a known struct"))
		for _, f := range e.Fields {
			c.infer(f.Value)
		}
		return typesystem.Void{}
	}
	st, ok := typ.(typesystem.Struct)
	if !ok {
		c.diags.Add(diagnostics.New(diagnostics.ErrNotAType, e.Token, "\""+e.TypeName+"\" is not a struct type"))
		return typesystem.Void{}
	}
	for _, f := range e.Fields {
		ft, ok := st.FieldType(f.Name)
		if !ok {
			c.diags.Add(diagnostics.New(diagnostics.ErrNoSuchField, e.Token, "no field \""+f.Name+"\" on "+st.Name))
			c.infer(f.Value)
			continue
		}
		c.check(f.Value, ft)
	}
	return st
}

func (c *Checker) inferEnumConstruct(e *ast.EnumConstructExpression) typesystem.Type {
	typ, ok := c.types[e.EnumName]
	if !ok {
		c.diags.Add(diagnostics.New(diagnostics.ErrNotAType, e.Token, "\""+e.EnumName+"\" is not a known enum"))
		for _, a := range e.Args {
			c.infer(a)
		}
		return typesystem.Void{}
	}
	en, ok := typ.(typesystem.Enum)
	if !ok {
		c.diags.Add(diagnostics.New(diagnostics.ErrNotAType, e.Token, "\""+e.EnumName+"\" is not an enum type"))
		return typesystem.Void{}
	}
	idx := en.VariantIndex(e.Variant)
	if idx < 0 {
		c.diags.Add(diagnostics.New(diagnostics.ErrNoSuchField, e.Token,
				"enum "+en.Name+" has no variant \""+e.Variant+"\""))
		return en
	}
	fields := en.Variants[idx].Fields
	if len(e.Args) != len(fields) {
		c.diags.Add(diagnostics.New(diagnostics.ErrWrongArity, e.Token,
				"variant expects "+diagArity(len(fields), len(e.Args))))
		for _, a := range e.Args {
			c.infer(a)
		}
		return en
	}
	for i, a := range e.Args {
		c.check(a, fields[i])
	}
	return en
}

func diagArity(want, got int) string {
	return itoa(want) + " argument(s), found " + itoa(got)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
