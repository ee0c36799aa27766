package ownership

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/token"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// TypeOracle supplies the type the checker package already assigned to
// every expression and declared for every struct/enum, so this pass never
// has to re-derive types of its own.
type TypeOracle interface {
	TypeOf(expr ast.Expression) typesystem.Type
}

// MoveEvent describes a completed move: the variable, the token of the
// move and the moving node. No pass produces or reads MoveEvent values;
// the ownership pass records its transitions as TimelineEvent.
type MoveEvent struct {
	Var string
	At token.Token
	Node ast.Node
}

// Checker runs the ownership pass over one function body at a time.
type Checker struct {
	types TypeOracle
	diags *diagnostics.Bag

	// TraceEvents records every state transition in program order when
	// Trace is enabled, backing the supplemented "ownership-timeline trace"
	// feature (SPEC_FULL.md).
	Trace bool
	TraceEvents []TimelineEvent
}

// TimelineEvent is one state transition recorded for --ownership-timeline.
type TimelineEvent struct {
	Var string
	From State
	To State
	At token.Token
}

func New(types TypeOracle) *Checker {
	return &Checker{types: types, diags: diagnostics.NewBag()}
}

func (c *Checker) Diagnostics() []*diagnostics.Diagnostic { return c.diags.Items() }

// CheckFunction simulates fn's body, reporting UseAfterMove,
// AssignToImmutable, and MoveOutOfBorrowed diagnostics. paramTypes is
// fn.Params' resolved types in order, supplied by the caller (the type
// checker already computed them); selfType is non-nil for a method body.
func (c *Checker) CheckFunction(fn *ast.FunctionDecl, selfType typesystem.Type, paramTypes []typesystem.Type) {
	if fn.Body == nil {
		return
	}
	env := NewEnv()
	if selfType != nil {
		env.define("self", &varRecord{state: Owned, mutable: false, isCopy: c.isCopy(selfType), declaredAt: fn.Token})
	}
	for i, p := range fn.Params {
		var isCopy bool
		if i < len(paramTypes) && paramTypes[i] != nil {
			isCopy = c.isCopy(paramTypes[i])
		}
		env.define(p.Name, &varRecord{state: Owned, mutable: p.Mutable, isCopy: isCopy, declaredAt: fn.Token})
	}
	c.walkBlock(fn.Body, env)
}

func (c *Checker) isCopy(t typesystem.Type) bool {
	var structCopy func(typesystem.Struct) bool
	var enumCopy func(typesystem.Enum) bool
	enumCopy = func(e typesystem.Enum) bool { return typesystem.EnumIsCopy(e, structCopy, enumCopy) }
	return typesystem.IsCopy(t, structCopy, enumCopy)
}

func (c *Checker) transition(env *Env, name string, to State, tok token.Token) {
	rec, _ := env.get(name)
	if rec == nil {
		return
	}
	if c.Trace && rec.state != to {
		c.TraceEvents = append(c.TraceEvents, TimelineEvent{Var: name, From: rec.state, To: to, At: tok})
	}
	rec.state = to
	if to == Moved {
		rec.movedAt = tok
	}
}

func (c *Checker) walkBlock(block *ast.BlockStatement, parent *Env) {
	env := NewEnclosedEnv(parent)
	for _, stmt := range block.Statements {
		c.walkStatement(stmt, env)
	}
}

func (c *Checker) walkStatement(stmt ast.Statement, env *Env) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		c.declareLet(s, env)
	case *ast.VarStatement:
		c.declareVar(s, env)
	case *ast.AssignStatement:
		c.walkAssign(s, env)
	case *ast.ExpressionStatement:
		c.walkExpr(s.Expression, env)
	case *ast.ReturnStatement:
		if s.Value != nil {
			c.walkExpr(s.Value, env)
		}
	case *ast.IfStatement:
		c.walkIf(s, env)
	case *ast.WhileStatement:
		c.walkExpr(s.Cond, env)
		c.walkLoopBody(s.Body, env)
	case *ast.ForRangeStatement:
		c.walkExpr(s.Start, env)
		c.walkExpr(s.End, env)
		inner := NewEnclosedEnv(env)
		inner.define(s.Var, &varRecord{state: Owned, mutable: true, isCopy: true, declaredAt: s.Token})
		before := inner.snapshot()
		for _, st := range s.Body.Statements {
			c.walkStatement(st, inner)
		}
		c.joinInto(inner, before, inner.snapshot())
	case *ast.DeferStatement:
		c.walkExpr(s.Call, env)
	case *ast.WithStatement:
		c.walkExpr(s.Resource, env)
		inner := NewEnclosedEnv(env)
		inner.define(s.Name, &varRecord{state: Owned, mutable: false, declaredAt: s.Token})
		for _, st := range s.Body.Statements {
			c.walkStatement(st, inner)
		}
	case *ast.BlockStatement:
		c.walkBlock(s, env)
	case *ast.BreakStatement, *ast.ContinueStatement:
	}
}

func (c *Checker) walkLoopBody(body *ast.BlockStatement, env *Env) {
	inner := NewEnclosedEnv(env)
	before := inner.snapshot()
	for _, st := range body.Statements {
		c.walkStatement(st, inner)
	}
	// A loop may run zero or more times: the state visible after it is the
	// meet of "never entered" and "ran to completion" (join
	// rule, applied to the loop's own back-edge).
	c.joinInto(inner, before, inner.snapshot())
}

func (c *Checker) walkIf(s *ast.IfStatement, env *Env) {
	c.walkExpr(s.Cond, env)
	before := env.snapshot()

	thenEnv := NewEnclosedEnv(env)
	for _, st := range s.Then.Statements {
		c.walkStatement(st, thenEnv)
	}
	thenAfter := thenEnv.snapshot()
	env.restore(before)

	branches := []map[string]State{thenAfter}
	for _, elif := range s.ElifClauses {
		c.walkExpr(elif.Cond, env)
		elifEnv := NewEnclosedEnv(env)
		for _, st := range elif.Body.Statements {
			c.walkStatement(st, elifEnv)
		}
		branches = append(branches, elifEnv.snapshot())
		env.restore(before)
	}
	if s.Else != nil {
		elseEnv := NewEnclosedEnv(env)
		for _, st := range s.Else.Statements {
			c.walkStatement(st, elseEnv)
		}
		branches = append(branches, elseEnv.snapshot())
	} else {
		branches = append(branches, before)
	}

	env.restore(before)
	c.joinBranches(env, branches)
}

// joinBranches applies control-flow join: if any branch
// moved a variable, the joined state is Moved (a later use is flagged at
// its actual use site, carrying the branch's own move location).
func (c *Checker) joinBranches(env *Env, branches []map[string]State) {
	merged := map[string]State{}
	for _, b := range branches {
		for name, st := range b {
			if existing, ok := merged[name]; !ok {
				merged[name] = st
			} else if existing != st {
				if st == Moved || existing == Moved {
					merged[name] = Moved
				}
			}
		}
	}
	env.restore(merged)
}

func (c *Checker) joinInto(env *Env, before, after map[string]State) {
	c.joinBranches(env, []map[string]State{before, after})
}

func (c *Checker) declareLet(s *ast.LetStatement, env *Env) {
	var isCopy bool
	if s.Value != nil {
		isCopy = c.isCopy(c.types.TypeOf(s.Value))
		c.useArgument(s.Value, env)
	}
	state := Uninitialized
	if s.Value != nil {
		state = Owned
	}
	if s.Pattern != nil {
		c.bindPattern(s.Pattern, env, state, isCopy, s.Token)
	} else {
		env.define(s.Name, &varRecord{state: state, mutable: false, isCopy: isCopy, declaredAt: s.Token})
	}
}

func (c *Checker) bindPattern(pat ast.Pattern, env *Env, state State, isCopy bool, tok token.Token) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		env.define(p.Name, &varRecord{state: state, mutable: false, isCopy: isCopy, declaredAt: tok})
	case *ast.TuplePattern:
		for _, sub := range p.Elements {
			c.bindPattern(sub, env, state, isCopy, tok)
		}
	}
}

func (c *Checker) declareVar(s *ast.VarStatement, env *Env) {
	var isCopy bool
	if s.Value != nil {
		isCopy = c.isCopy(c.types.TypeOf(s.Value))
		c.useArgument(s.Value, env)
	}
	state := Uninitialized
	if s.Value != nil {
		state = Owned
	}
	env.define(s.Name, &varRecord{state: state, mutable: true, isCopy: isCopy, declaredAt: s.Token})
}

func (c *Checker) walkAssign(s *ast.AssignStatement, env *Env) {
	c.useArgument(s.Value, env)
	target, ok := s.Target.(*ast.Identifier)
	if !ok {
		c.walkExpr(s.Target, env)
		return
	}
	rec, _ := env.get(target.Name)
	if rec == nil {
		return
	}
	if !rec.mutable {
		c.diags.Add(diagnostics.New(diagnostics.ErrAssignToImmutable, s.Token,
				"cannot assign to immutable variable \""+target.Name+"\""))
		return
	}
	if rec.state == BorrowedExclusive || rec.state == BorrowedShared {
		c.diags.Add(diagnostics.New(diagnostics.ErrMoveOutOfBorrowed, s.Token,
				"cannot assign to \""+target.Name+"\" while it is borrowed"))
		return
	}
	c.transition(env, target.Name, Owned, s.Token)
}

// walkExpr traverses expr for nested moves/uses without itself consuming
// expr's own "top-level" ownership effect (the caller — a let/assign/call
// argument context — decides whether the top-level value is moved).
func (c *Checker) walkExpr(expr ast.Expression, env *Env) {
	switch e := expr.(type) {
	case *ast.Identifier:
		c.useIdentifier(e, env, false)
	case *ast.BinaryExpression:
		c.walkExpr(e.Left, env)
		c.walkExpr(e.Right, env)
	case *ast.UnaryExpression:
		c.walkExpr(e.Operand, env)
	case *ast.CallExpression:
		c.walkExpr(e.Callee, env)
		for _, a := range e.Args {
			c.useArgument(a, env)
		}
	case *ast.MethodCallExpression:
		c.walkExpr(e.Receiver, env)
		for _, a := range e.Args {
			c.useArgument(a, env)
		}
	case *ast.StructLiteralExpression:
		for _, f := range e.Fields {
			c.useArgument(f.Value, env)
		}
	case *ast.EnumConstructExpression:
		for _, a := range e.Args {
			c.useArgument(a, env)
		}
	case *ast.FieldAccessExpression:
		c.walkExpr(e.Object, env)
	case *ast.IndexExpression:
		c.walkExpr(e.Object, env)
		c.walkExpr(e.Index, env)
	case *ast.RefExpression:
		c.walkBorrow(e, env)
	case *ast.TryExpression:
		c.walkExpr(e.Operand, env)
	case *ast.AsCastExpression:
		c.walkExpr(e.Operand, env)
	case *ast.TupleExpression:
		for _, el := range e.Elements {
			c.useArgument(el, env)
		}
	case *ast.MatchExpression:
		c.walkMatch(e, env)
	case *ast.ParamClosureExpression:
		c.walkBlock(e.Body, env)
	case *ast.RuntimeClosureExpression:
		c.walkBlock(e.Body, env)
	case *ast.InlinedBlockExpression:
		c.walkInlinedBlock(e, env)
	}
}

// walkInlinedBlock runs an already-inlined closure splice (internal/desugar)
// in its own enclosed scope, the same join-free straight-line shape as
// walkBlock gives a function body.
func (c *Checker) walkInlinedBlock(e *ast.InlinedBlockExpression, env *Env) {
	inner := NewEnclosedEnv(env)
	for _, st := range e.Statements {
		c.walkStatement(st, inner)
	}
}

// useArgument is walkExpr plus the move-on-use rule: passing a non-Copy
// identifier by value moves it out of its source variable.
func (c *Checker) useArgument(expr ast.Expression, env *Env) {
	if id, ok := expr.(*ast.Identifier); ok {
		c.useIdentifier(id, env, true)
		return
	}
	c.walkExpr(expr, env)
}

func (c *Checker) useIdentifier(id *ast.Identifier, env *Env, consumes bool) {
	rec, _ := env.get(id.Name)
	if rec == nil {
		return
	}
	switch rec.state {
	case Moved:
		msg := "use of moved value \"" + id.Name + "\""
		if rec.movedAt.Span.File != "" {
			msg += " (moved at " + rec.movedAt.Span.String() + ")"
		}
		c.diags.Add(diagnostics.New(diagnostics.ErrUseAfterMove, id.Token, msg))
		return
	case Uninitialized:
		c.diags.Add(diagnostics.New(diagnostics.ErrUseAfterMove, id.Token,
				"use of uninitialized variable \""+id.Name+"\""))
		return
	}
	if consumes && !rec.isCopy {
		if rec.state == BorrowedExclusive || rec.state == BorrowedShared {
			c.diags.Add(diagnostics.New(diagnostics.ErrMoveOutOfBorrowed, id.Token,
					"cannot move \""+id.Name+"\" while it is borrowed"))
			return
		}
		c.transition(env, id.Name, Moved, id.Token)
	}
}

func (c *Checker) walkBorrow(e *ast.RefExpression, env *Env) {
	id, ok := e.Operand.(*ast.Identifier)
	if !ok {
		c.walkExpr(e.Operand, env)
		return
	}
	rec, _ := env.get(id.Name)
	if rec == nil {
		return
	}
	if e.Mutable {
		if rec.state != Owned || !rec.mutable {
			c.diags.Add(diagnostics.New(diagnostics.ErrAssignToImmutable, e.Token,
					"cannot take an exclusive borrow of \""+id.Name+"\": not owned and mutable"))
			return
		}
		c.transition(env, id.Name, BorrowedExclusive, e.Token)
	} else {
		if rec.state == Moved || rec.state == Uninitialized {
			c.diags.Add(diagnostics.New(diagnostics.ErrUseAfterMove, e.Token,
					"cannot borrow moved or uninitialized value \""+id.Name+"\""))
			return
		}
		if rec.state != BorrowedShared {
			c.transition(env, id.Name, BorrowedShared, e.Token)
		}
	}
}

func (c *Checker) walkMatch(e *ast.MatchExpression, env *Env) {
	c.walkExpr(e.Scrutinee, env)
	before := env.snapshot()
	var branches []map[string]State
	for _, arm := range e.Arms {
		armEnv := NewEnclosedEnv(env)
		c.bindMatchPattern(arm.Pattern, armEnv)
		if arm.Guard != nil {
			c.walkExpr(arm.Guard, armEnv)
		}
		c.walkExpr(arm.Body, armEnv)
		branches = append(branches, armEnv.snapshot())
		env.restore(before)
	}
	if len(branches) > 0 {
		c.joinBranches(env, branches)
	}
}

func (c *Checker) bindMatchPattern(pat ast.Pattern, env *Env) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		env.define(p.Name, &varRecord{state: Owned, mutable: false, declaredAt: p.Token})
	case *ast.EnumPattern:
		for _, sub := range p.SubPatterns {
			c.bindMatchPattern(sub, env)
		}
	case *ast.TuplePattern:
		for _, sub := range p.Elements {
			c.bindMatchPattern(sub, env)
		}
	}
}
