// Package borrowck enforces the aliasing rules over the borrow records a
// function body produces: at any point a variable has either any number
// of shared borrows or exactly one exclusive borrow, never both; a
// borrow's lifetime is confined to the lexical scope of the binding that
// names it; the source variable is unreadable (exclusive) or
// unwritable-by-name (either kind) while borrowed.
//
// Structured the same way as internal/ownership: a recursive walk over
// structured control flow, maintaining an outer-chained scope of borrow
// records (grounded on funxy/internal/evaluator/environment.go's
// NewEnvironment/NewEnclosedEnvironment shape, as internal/ownership
// already adapts it).
package borrowck

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/token"
)

// borrowState tracks the live borrows against one variable.
type borrowState struct {
	sharedCount int
	exclusive bool
	exclusiveAt token.Token
}

// scope is one lexical scope's borrow table, chained to its parent; a
// borrow taken in this scope is released (popped) when the scope exits,
// confining its lifetime to that scope.
type scope struct {
	parent *scope
	owned map[string]*borrowState // only the entries this scope introduced
}

func newScope(parent *scope) *scope { return &scope{parent: parent, owned: make(map[string]*borrowState)} }

// find returns the live borrowState for name anywhere in the chain,
// creating one in s itself on first use, so a borrow first taken in s is
// released when s exits.
func (s *scope) find(name string) *borrowState {
	for cur := s; cur != nil; cur = cur.parent {
		if st, ok := cur.owned[name]; ok {
			return st
		}
	}
	st := &borrowState{}
	s.owned[name] = st
	return st
}

// release clears every borrow this scope itself introduced (mutable
// within this scope's own map, not inherited ones) — the lifetime-confined
// release point of rule 2.
func (s *scope) release(diags *diagnostics.Bag) {
	for name := range s.owned {
		delete(s.owned, name)
	}
}

// Checker runs the borrow-checking pass over one function body at a time.
type Checker struct {
	diags *diagnostics.Bag
	params map[string]bool
}

func New() *Checker { return &Checker{diags: diagnostics.NewBag()} }

func (c *Checker) Diagnostics() []*diagnostics.Diagnostic { return c.diags.Items() }

func (c *Checker) CheckFunction(fn *ast.FunctionDecl) {
	if fn.Body == nil {
		return
	}
	c.params = map[string]bool{"self": true}
	for _, p := range fn.Params {
		c.params[p.Name] = true
	}
	root := newScope(nil)
	c.walkBlock(fn.Body, root)
}

// checkReturnedReference implements rule 2/"references are not
// first-class values outliving their source scope": returning `&local` or
// `&mut local` for a local (non-parameter) binding would hand the caller a
// reference to storage that is about to be dropped.
func (c *Checker) checkReturnedReference(value ast.Expression) {
	ref, ok := value.(*ast.RefExpression)
	if !ok {
		return
	}
	id, ok := ref.Operand.(*ast.Identifier)
	if !ok {
		return
	}
	if !c.params[id.Name] {
		c.diags.Add(diagnostics.New(diagnostics.ErrReferenceOutlivesReferent, ref.Token,
				"returned reference to \""+id.Name+"\" would outlive its scope"))
	}
}

func (c *Checker) walkBlock(block *ast.BlockStatement, parent *scope) {
	s := newScope(parent)
	for _, stmt := range block.Statements {
		c.walkStatement(stmt, s)
	}
	s.release(c.diags)
}

func (c *Checker) walkStatement(stmt ast.Statement, s *scope) {
	switch st := stmt.(type) {
	case *ast.LetStatement:
		if st.Value != nil {
			c.walkExpr(st.Value, s)
		}
	case *ast.VarStatement:
		if st.Value != nil {
			c.walkExpr(st.Value, s)
		}
	case *ast.AssignStatement:
		c.checkWrite(st.Target, s)
		c.walkExpr(st.Value, s)
	case *ast.ExpressionStatement:
		c.walkExpr(st.Expression, s)
	case *ast.ReturnStatement:
		if st.Value != nil {
			c.checkReturnedReference(st.Value)
			c.walkExpr(st.Value, s)
		}
	case *ast.IfStatement:
		c.walkExpr(st.Cond, s)
		c.walkBlock(st.Then, s)
		for _, elif := range st.ElifClauses {
			c.walkExpr(elif.Cond, s)
			c.walkBlock(elif.Body, s)
		}
		if st.Else != nil {
			c.walkBlock(st.Else, s)
		}
	case *ast.WhileStatement:
		c.walkExpr(st.Cond, s)
		c.walkBlock(st.Body, s)
	case *ast.ForRangeStatement:
		c.walkExpr(st.Start, s)
		c.walkExpr(st.End, s)
		c.walkBlock(st.Body, s)
	case *ast.DeferStatement:
		c.walkExpr(st.Call, s)
	case *ast.WithStatement:
		c.walkExpr(st.Resource, s)
		c.walkBlock(st.Body, s)
	case *ast.BlockStatement:
		c.walkBlock(st, s)
	}
}

// checkWrite enforces rules 3/4: a variable named directly as an
// assignment target must not be currently borrowed, shared or exclusive.
func (c *Checker) checkWrite(target ast.Expression, s *scope) {
	id, ok := target.(*ast.Identifier)
	if !ok {
		c.walkExpr(target, s)
		return
	}
	st := s.find(id.Name)
	if st.exclusive {
		c.diags.Add(diagnostics.New(diagnostics.ErrExclusiveBorrowWhileAliased, id.Token,
				"cannot write to \""+id.Name+"\" while it is exclusively borrowed"))
	} else if st.sharedCount > 0 {
		c.diags.Add(diagnostics.New(diagnostics.ErrBorrowWhileExclusivelyBorrowed, id.Token,
				"cannot write to \""+id.Name+"\" while it has outstanding shared borrows"))
	}
}

func (c *Checker) walkExpr(expr ast.Expression, s *scope) {
	switch e := expr.(type) {
	case *ast.Identifier:
		// rule 3: no read by name while an exclusive borrow is live.
		if s.find(e.Name).exclusive {
			c.diags.Add(diagnostics.New(diagnostics.ErrBorrowWhileExclusivelyBorrowed, e.Token,
				"cannot read \""+e.Name+"\" while it is exclusively borrowed"))
		}
	case *ast.RefExpression:
		c.takeBorrow(e, s)
	case *ast.BinaryExpression:
		c.walkExpr(e.Left, s)
		c.walkExpr(e.Right, s)
	case *ast.UnaryExpression:
		c.walkExpr(e.Operand, s)
	case *ast.CallExpression:
		c.walkExpr(e.Callee, s)
		for _, a := range e.Args {
			c.walkExpr(a, s)
		}
	case *ast.MethodCallExpression:
		c.walkExpr(e.Receiver, s)
		for _, a := range e.Args {
			c.walkExpr(a, s)
		}
	case *ast.StructLiteralExpression:
		for _, f := range e.Fields {
			c.walkExpr(f.Value, s)
		}
	case *ast.EnumConstructExpression:
		for _, a := range e.Args {
			c.walkExpr(a, s)
		}
	case *ast.FieldAccessExpression:
		c.walkExpr(e.Object, s)
	case *ast.IndexExpression:
		c.walkExpr(e.Object, s)
		c.walkExpr(e.Index, s)
	case *ast.TryExpression:
		c.walkExpr(e.Operand, s)
	case *ast.AsCastExpression:
		c.walkExpr(e.Operand, s)
	case *ast.TupleExpression:
		for _, el := range e.Elements {
			c.walkExpr(el, s)
		}
	case *ast.MatchExpression:
		c.walkExpr(e.Scrutinee, s)
		for _, arm := range e.Arms {
			if arm.Guard != nil {
				c.walkExpr(arm.Guard, s)
			}
			c.walkExpr(arm.Body, s)
		}
	case *ast.ParamClosureExpression:
		c.walkBlock(e.Body, s)
	case *ast.RuntimeClosureExpression:
		c.walkBlock(e.Body, s)
	case *ast.InlinedBlockExpression:
		inner := newScope(s)
		for _, st := range e.Statements {
			c.walkStatement(st, inner)
		}
		inner.release(c.diags)
	}
}

// takeBorrow applies rule 1 at the point a borrow is taken: shared
// and exclusive may never coexist.
func (c *Checker) takeBorrow(e *ast.RefExpression, s *scope) {
	id, ok := e.Operand.(*ast.Identifier)
	if !ok {
		c.walkExpr(e.Operand, s)
		return
	}
	st := s.find(id.Name)
	if e.Mutable {
		if st.exclusive {
			c.diags.Add(diagnostics.New(diagnostics.ErrExclusiveBorrowWhileAliased, e.Token,
					"\""+id.Name+"\" is already exclusively borrowed"))
			return
		}
		if st.sharedCount > 0 {
			c.diags.Add(diagnostics.New(diagnostics.ErrExclusiveBorrowWhileAliased, e.Token,
					"cannot exclusively borrow \""+id.Name+"\" while it has outstanding shared borrows"))
			return
		}
		st.exclusive = true
		st.exclusiveAt = e.Token
	} else {
		if st.exclusive {
			c.diags.Add(diagnostics.New(diagnostics.ErrBorrowWhileExclusivelyBorrowed, e.Token,
					"cannot share-borrow \""+id.Name+"\" while it is exclusively borrowed"))
			return
		}
		st.sharedCount++
	}
}
