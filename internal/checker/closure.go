package checker

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/symbols"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// inferParamClosure checks a zero-cost parameter closure (`fn[params] ->
// ret {... }`): inlined at every use site by the desugarer,
// so the checker treats its body exactly like a function body.
func (c *Checker) inferParamClosure(e *ast.ParamClosureExpression) typesystem.Type {
	return c.checkClosureBody(e.Token, e.Params, e.ReturnType, e.Body)
}

// inferRuntimeClosure checks a heap-allocated first-class closure with an
// explicit capture list. Each captured name is looked up in the current
// scope; the capture list itself is taken as supplied on the node, and
// by-reference captures are not checked against any escape rule.
func (c *Checker) inferRuntimeClosure(e *ast.RuntimeClosureExpression) typesystem.Type {
	for _, cap := range e.Captures {
		c.resolver.Lookup(cap.Name)
	}
	return c.checkClosureBody(e.Token, e.Params, e.ReturnType, e.Body)
}

func (c *Checker) checkClosureBody(tok ast.Node, params []*ast.Param, retType ast.TypeExpr, body *ast.BlockStatement) typesystem.Type {
	paramTypes := make([]typesystem.Type, len(params))
	for i, p := range params {
		paramTypes[i] = c.resolveType(p.Type)
	}
	ret := c.resolveType(retType)

	c.resolver.EnterScope()
	savedReturn := c.returnType
	c.returnType = ret
	for i, p := range params {
		_, _ = c.resolver.Define(p.Name, symbols.ParameterSymbol, paramTypes[i], p.Mutable, tok.GetToken())
	}
	c.checkBlock(body)
	c.returnType = savedReturn
	c.resolver.ExitScope()

	return typesystem.Function{ParamTypes: paramTypes, ReturnType: ret}
}
