// Package mono implements the monomorphizer of : it rewrites a
// desugared program so no function body is left referring to a compile-time
// value parameter, replacing every call that supplied one with a call to a
// deterministically-named specialization, then drops the original generic
// definition.
//
// Grounded on forge/src/backend/monomorphization.py (original_source) for
// the clone/substitute/mangle shape, and on
// funxy/internal/typesystem/types.go's ApplyWithCycleCheck for the
// depth-guarded substitution this package's recursive Specialize needs
// (MonomorphizationNonTermination scenario: a self-recursive
// compile-time-parameterized call whose argument never reaches a base
// case).
package mono

import (
	"sort"
	"strconv"
	"strings"

	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/token"
)

// MaxSpecializationDepth bounds recursive specialization: a generic
// function whose body calls itself with a compile-time argument derived
// from its own parameter (e.g. `f[N-1]` inside `f[N]`) could otherwise
// recurse without ever reaching a cached key.
const MaxSpecializationDepth = 256

// Context carries the monomorphizer's state across one program's pass:
// which functions have compile-time parameters, and every specialization
// produced so far, keyed by its mangled name so repeat call sites with the
// same arguments share one specialized function (step 2/3 of.
type Context struct {
	diags *diagnostics.Bag
	originals map[string]*ast.FunctionDecl
	specialized map[string]*ast.FunctionDecl
	depth int
}

func NewContext() *Context {
	return &Context{
		diags: diagnostics.NewBag(),
		originals: make(map[string]*ast.FunctionDecl),
		specialized: make(map[string]*ast.FunctionDecl),
	}
}

func (c *Context) Diagnostics() []*diagnostics.Diagnostic { return c.diags.Items() }

// Run performs the whole monomorphization pass over prog in place: scan,
// rewrite call sites, then delete the unspecialized originals steps
// 1-6).
func (c *Context) Run(prog *ast.Program) {
	c.collectOriginals(prog)
	for _, item := range prog.Items {
		c.rewriteItem(item)
	}
	c.spliceSpecializations(prog)
}

// collectOriginals implements step 1: record every function with one or
// more compile-time parameters. Type parameters alone don't register a
// function here — they're instantiated by the call's argument types
// elsewhere in the pipeline, not by AST cloning.
func (c *Context) collectOriginals(prog *ast.Program) {
	for _, item := range prog.Items {
		if fd, ok := item.(*ast.FunctionDecl); ok && len(fd.ConstParamNames()) > 0 {
			c.originals[fd.Name] = fd
		}
	}
}

func (c *Context) rewriteItem(item ast.Statement) {
	switch it := item.(type) {
	case *ast.FunctionDecl:
		if it.Body != nil {
			c.rewriteBlock(it.Body)
		}
	case *ast.TraitDecl:
		for _, m := range it.Methods {
			if m.Body != nil {
				c.rewriteBlock(m.Body)
			}
		}
	case *ast.ImplDecl:
		for _, m := range it.Methods {
			if m.Body != nil {
				c.rewriteBlock(m.Body)
			}
		}
	}
}

// spliceSpecializations implements step 6: delete every original generic
// function definition, appending the specializations that were actually
// instantiated in sorted (deterministic) order.
func (c *Context) spliceSpecializations(prog *ast.Program) {
	out := make([]ast.Statement, 0, len(prog.Items))
	for _, item := range prog.Items {
		if fd, ok := item.(*ast.FunctionDecl); ok {
			if _, isGeneric := c.originals[fd.Name]; isGeneric {
				continue
			}
		}
		out = append(out, item)
	}
	names := make([]string, 0, len(c.specialized))
	for name := range c.specialized {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, c.specialized[name])
	}
	prog.Items = out
}

// MangledName implements step 4's deterministic naming: base_<arg1>_<arg2>…,
// booleans spelled true/false, negative integers prefixed "neg".
func MangledName(base string, constArgs []interface{}) string {
	if len(constArgs) == 0 {
		return base
	}
	parts := make([]string, 0, len(constArgs)+1)
	parts = append(parts, base)
	for _, a := range constArgs {
		parts = append(parts, constArgString(a))
	}
	return strings.Join(parts, "_")
}

func constArgString(a interface{}) string {
	switch v := a.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int64:
		return strings.Replace(strconv.FormatInt(v, 10), "-", "neg", 1)
	default:
		return ""
	}
}

// evalConstArg accepts only an integer or boolean literal
// NonLiteralCompileTimeArgument contract: anything else, including a named
// constant or an expression, is rejected).
func evalConstArg(expr ast.Expression) (interface{}, bool) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return e.Value, true
	case *ast.BoolLiteral:
		return e.Value, true
	default:
		return nil, false
	}
}

// Specialize returns fn's specialization for constArgExprs, creating and
// caching it on first use. callTok anchors any diagnostic.
func (c *Context) Specialize(fn *ast.FunctionDecl, constArgExprs []ast.Expression, callTok token.Token) *ast.FunctionDecl {
	names := fn.ConstParamNames()
	vals := make([]interface{}, 0, len(names))
	bindings := &Bindings{Const: make(map[string]interface{}, len(names))}
	for i, name := range names {
		if i >= len(constArgExprs) {
			break
		}
		v, ok := evalConstArg(constArgExprs[i])
		if !ok {
			c.diags.Add(diagnostics.New(diagnostics.ErrNonLiteralCompileTimeArgument, callTok,
					"compile-time argument for \""+name+"\" of \""+fn.Name+"\" must be an integer or boolean literal"))
			return fn
		}
		bindings.Const[name] = v
		vals = append(vals, v)
	}

	mangled := MangledName(fn.Name, vals)
	if existing, ok := c.specialized[mangled]; ok {
		return existing
	}

	c.depth++
	defer func() { c.depth-- }()
	if c.depth > MaxSpecializationDepth {
		c.diags.Add(diagnostics.New(diagnostics.ErrMonomorphizationNonTermination, callTok,
				"monomorphizing \""+fn.Name+"\" did not terminate within the specialization budget"))
		return fn
	}

	var remainingParams []*ast.GenericParam
	for _, tp := range fn.TypeParams {
		if !tp.IsConst {
			remainingParams = append(remainingParams, tp)
		}
	}

	specialized := &ast.FunctionDecl{
		Token: fn.Token,
		Name: mangled,
		TypeParams: remainingParams,
		Params: bindings.cloneParams(fn.Params),
		ReturnType: bindings.cloneTypeExpr(fn.ReturnType),
		Body: bindings.cloneBlock(fn.Body),
	}
	// Cache before rewriting its own body: a self-recursive call inside
	// specialized.Body resolving back to this exact (name, args) key must
	// see the entry already present, or it would re-specialize forever.
	c.specialized[mangled] = specialized
	c.rewriteBlock(specialized.Body)
	return specialized
}

func (c *Context) rewriteBlock(block *ast.BlockStatement) {
	if block == nil {
		return
	}
	for i, stmt := range block.Statements {
		block.Statements[i] = c.rewriteStatement(stmt)
	}
}

func (c *Context) rewriteStatement(stmt ast.Statement) ast.Statement {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		s.Value = c.rewriteExpr(s.Value)
	case *ast.VarStatement:
		s.Value = c.rewriteExpr(s.Value)
	case *ast.AssignStatement:
		s.Target = c.rewriteExpr(s.Target)
		s.Value = c.rewriteExpr(s.Value)
	case *ast.ExpressionStatement:
		s.Expression = c.rewriteExpr(s.Expression)
	case *ast.ReturnStatement:
		if s.Value != nil {
			s.Value = c.rewriteExpr(s.Value)
		}
	case *ast.IfStatement:
		s.Cond = c.rewriteExpr(s.Cond)
		c.rewriteBlock(s.Then)
		for _, elif := range s.ElifClauses {
			elif.Cond = c.rewriteExpr(elif.Cond)
			c.rewriteBlock(elif.Body)
		}
		c.rewriteBlock(s.Else)
	case *ast.WhileStatement:
		s.Cond = c.rewriteExpr(s.Cond)
		c.rewriteBlock(s.Body)
	case *ast.ForRangeStatement:
		s.Start = c.rewriteExpr(s.Start)
		s.End = c.rewriteExpr(s.End)
		c.rewriteBlock(s.Body)
	case *ast.DeferStatement:
		s.Call = c.rewriteExpr(s.Call)
	case *ast.WithStatement:
		s.Resource = c.rewriteExpr(s.Resource)
		c.rewriteBlock(s.Body)
	case *ast.BlockStatement:
		c.rewriteBlock(s)
	}
	return stmt
}

func (c *Context) rewriteExprs(exprs []ast.Expression) {
	for i, e := range exprs {
		exprs[i] = c.rewriteExpr(e)
	}
}

func (c *Context) rewriteExpr(expr ast.Expression) ast.Expression {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *ast.CallExpression:
		e.Callee = c.rewriteExpr(e.Callee)
		c.rewriteExprs(e.Args)
		if id, ok := e.Callee.(*ast.Identifier); ok && len(e.ConstArgs) > 0 {
			if fn, ok := c.originals[id.Name]; ok {
				specialized := c.Specialize(fn, e.ConstArgs, e.Token)
				return &ast.CallExpression{
					Token: e.Token,
					Callee: &ast.Identifier{Token: id.Token, Name: specialized.Name},
					Args: e.Args,
				}
			}
		}
		return e
	case *ast.MethodCallExpression:
		e.Receiver = c.rewriteExpr(e.Receiver)
		c.rewriteExprs(e.Args)
		return e
	case *ast.BinaryExpression:
		e.Left = c.rewriteExpr(e.Left)
		e.Right = c.rewriteExpr(e.Right)
		return e
	case *ast.UnaryExpression:
		e.Operand = c.rewriteExpr(e.Operand)
		return e
	case *ast.StructLiteralExpression:
		for _, f := range e.Fields {
			f.Value = c.rewriteExpr(f.Value)
		}
		return e
	case *ast.EnumConstructExpression:
		c.rewriteExprs(e.Args)
		return e
	case *ast.FieldAccessExpression:
		e.Object = c.rewriteExpr(e.Object)
		return e
	case *ast.IndexExpression:
		e.Object = c.rewriteExpr(e.Object)
		e.Index = c.rewriteExpr(e.Index)
		return e
	case *ast.RefExpression:
		e.Operand = c.rewriteExpr(e.Operand)
		return e
	case *ast.TryExpression:
		e.Operand = c.rewriteExpr(e.Operand)
		return e
	case *ast.AsCastExpression:
		e.Operand = c.rewriteExpr(e.Operand)
		return e
	case *ast.TupleExpression:
		c.rewriteExprs(e.Elements)
		return e
	case *ast.MatchExpression:
		e.Scrutinee = c.rewriteExpr(e.Scrutinee)
		for _, arm := range e.Arms {
			if arm.Guard != nil {
				arm.Guard = c.rewriteExpr(arm.Guard)
			}
			arm.Body = c.rewriteExpr(arm.Body)
		}
		return e
	case *ast.ParamClosureExpression:
		c.rewriteBlock(e.Body)
		return e
	case *ast.RuntimeClosureExpression:
		c.rewriteBlock(e.Body)
		return e
	case *ast.InlinedBlockExpression:
		for i, st := range e.Statements {
			e.Statements[i] = c.rewriteStatement(st)
		}
		return e
	default:
		return expr
	}
}
