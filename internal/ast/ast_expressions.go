package ast

import "github.com/funvibe/pyrite/internal/token"

// Identifier references a name resolved by internal/symbols.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}
func (i *Identifier) expressionNode() {}

// IntegerLiteral is an integer literal expression; integer literals default
// to 32-bit signed unless context demands another width.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}
func (il *IntegerLiteral) expressionNode() {}

// FloatLiteral is a float literal expression.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}
func (fl *FloatLiteral) expressionNode() {}

// BoolLiteral is a boolean literal expression.
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BoolLiteral) TokenLiteral() string { return bl.Token.Lexeme }
func (bl *BoolLiteral) GetToken() token.Token {
	if bl == nil {
		return token.Token{}
	}
	return bl.Token
}
func (bl *BoolLiteral) expressionNode() {}

// CharLiteral is a 32-bit scalar character literal.
type CharLiteral struct {
	Token token.Token
	Value rune
}

func (cl *CharLiteral) TokenLiteral() string { return cl.Token.Lexeme }
func (cl *CharLiteral) GetToken() token.Token {
	if cl == nil {
		return token.Token{}
	}
	return cl.Token
}
func (cl *CharLiteral) expressionNode() {}

// StringLiteral is a string literal expression.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}
func (sl *StringLiteral) expressionNode() {}

// BinaryExpression is `Left Op Right`.
type BinaryExpression struct {
	Token token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (be *BinaryExpression) TokenLiteral() string { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token {
	if be == nil {
		return token.Token{}
	}
	return be.Token
}
func (be *BinaryExpression) expressionNode() {}

// UnaryExpression is `Op Operand` (e.g. `-x`, `not x`).
type UnaryExpression struct {
	Token   token.Token
	Op      string
	Operand Expression
}

func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Lexeme }
func (ue *UnaryExpression) GetToken() token.Token {
	if ue == nil {
		return token.Token{}
	}
	return ue.Token
}
func (ue *UnaryExpression) expressionNode() {}

// CallExpression calls Callee with Args. TypeArgs/ConstArgs carry explicit
// generic instantiation `f[N](args)`; both are nil when arguments are to be
// inferred generics).
type CallExpression struct {
	Token     token.Token
	Callee    Expression
	TypeArgs  []TypeExpr
	ConstArgs []Expression
	Args      []Expression
}

func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *CallExpression) expressionNode() {}

// MethodCallExpression is `Receiver.Method(Args)`, dispatched statically by
// the type checker/codegen per/ resolution order.
type MethodCallExpression struct {
	Token     token.Token
	Receiver  Expression
	Method    string
	TypeArgs  []TypeExpr
	ConstArgs []Expression
	Args      []Expression
}

func (mc *MethodCallExpression) TokenLiteral() string { return mc.Token.Lexeme }
func (mc *MethodCallExpression) GetToken() token.Token {
	if mc == nil {
		return token.Token{}
	}
	return mc.Token
}
func (mc *MethodCallExpression) expressionNode() {}

// FieldInit is one `name: value` field assignment in a struct literal.
type FieldInit struct {
	Name  string
	Value Expression
}

// StructLiteralExpression constructs a struct value.
type StructLiteralExpression struct {
	Token    token.Token
	TypeName string
	Fields   []*FieldInit
}

func (sl *StructLiteralExpression) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StructLiteralExpression) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}
func (sl *StructLiteralExpression) expressionNode() {}

// EnumConstructExpression constructs an enum value, `T.V(args)` (EnumName
// may be empty when inferred from context,.
type EnumConstructExpression struct {
	Token    token.Token
	EnumName string
	Variant  string
	Args     []Expression
}

func (ec *EnumConstructExpression) TokenLiteral() string { return ec.Token.Lexeme }
func (ec *EnumConstructExpression) GetToken() token.Token {
	if ec == nil {
		return token.Token{}
	}
	return ec.Token
}
func (ec *EnumConstructExpression) expressionNode() {}

// FieldAccessExpression is `Object.Field`.
type FieldAccessExpression struct {
	Token  token.Token
	Object Expression
	Field  string
}

func (fa *FieldAccessExpression) TokenLiteral() string { return fa.Token.Lexeme }
func (fa *FieldAccessExpression) GetToken() token.Token {
	if fa == nil {
		return token.Token{}
	}
	return fa.Token
}
func (fa *FieldAccessExpression) expressionNode() {}

// IndexExpression is `Object[Index]`, bounds-checked for fixed-size arrays
// at codegen time.
type IndexExpression struct {
	Token  token.Token
	Object Expression
	Index  Expression
}

func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *IndexExpression) expressionNode() {}

// RefExpression borrows Operand: `&x` (shared) or `&mut x` (exclusive).
type RefExpression struct {
	Token   token.Token
	Mutable bool
	Operand Expression
}

func (re *RefExpression) TokenLiteral() string { return re.Token.Lexeme }
func (re *RefExpression) GetToken() token.Token {
	if re == nil {
		return token.Token{}
	}
	return re.Token
}
func (re *RefExpression) expressionNode() {}

// TryExpression is `try e`: unwraps a Result, propagating Err early
//.
type TryExpression struct {
	Token   token.Token
	Operand Expression
}

func (te *TryExpression) TokenLiteral() string { return te.Token.Lexeme }
func (te *TryExpression) GetToken() token.Token {
	if te == nil {
		return token.Token{}
	}
	return te.Token
}
func (te *TryExpression) expressionNode() {}

// AsCastExpression is `Operand as TargetType`.
type AsCastExpression struct {
	Token      token.Token
	Operand    Expression
	TargetType TypeExpr
}

func (ac *AsCastExpression) TokenLiteral() string { return ac.Token.Lexeme }
func (ac *AsCastExpression) GetToken() token.Token {
	if ac == nil {
		return token.Token{}
	}
	return ac.Token
}
func (ac *AsCastExpression) expressionNode() {}

// ParamClosureExpression is `fn[Params] -> Ret: Body`, a compile-time-only
// callable that internal/desugar inlines at its call site.
type ParamClosureExpression struct {
	Token      token.Token
	Params     []*Param
	ReturnType TypeExpr
	Body       *BlockStatement
}

func (pc *ParamClosureExpression) TokenLiteral() string { return pc.Token.Lexeme }
func (pc *ParamClosureExpression) GetToken() token.Token {
	if pc == nil {
		return token.Token{}
	}
	return pc.Token
}
func (pc *ParamClosureExpression) expressionNode() {}

// RuntimeClosureExpression is `fn(Params) -> Ret: Body`, a first-class
// callable whose free-variable captures are carried on the node for
// codegen's environment packaging. The type checker reads Captures but
// does not compute it.
type RuntimeClosureExpression struct {
	Token      token.Token
	Params     []*Param
	ReturnType TypeExpr
	Body       *BlockStatement
	Captures   []*CapturedVariable // supplied with the node
}

// CapturedVariable names one free variable captured by a runtime closure,
// and whether it is captured by reference or by value/move.
type CapturedVariable struct {
	Name       string
	ByRef      bool
	RefMutable bool
}

func (rc *RuntimeClosureExpression) TokenLiteral() string { return rc.Token.Lexeme }
func (rc *RuntimeClosureExpression) GetToken() token.Token {
	if rc == nil {
		return token.Token{}
	}
	return rc.Token
}
func (rc *RuntimeClosureExpression) expressionNode() {}

// MatchArm is one `case Pattern [if Guard]: Body` arm of a match.
type MatchArm struct {
	Pattern Pattern
	Guard   Expression // nil if unguarded
	Body    Expression
}

// MatchExpression evaluates Scrutinee and runs the first matching arm's
// Body; exhaustiveness is enforced by the type checker.
type MatchExpression struct {
	Token     token.Token
	Scrutinee Expression
	Arms      []*MatchArm
}

func (me *MatchExpression) TokenLiteral() string { return me.Token.Lexeme }
func (me *MatchExpression) GetToken() token.Token {
	if me == nil {
		return token.Token{}
	}
	return me.Token
}
func (me *MatchExpression) expressionNode() {}

// TupleExpression constructs a tuple value.
type TupleExpression struct {
	Token    token.Token
	Elements []Expression
}

func (te *TupleExpression) TokenLiteral() string { return te.Token.Lexeme }
func (te *TupleExpression) GetToken() token.Token {
	if te == nil {
		return token.Token{}
	}
	return te.Token
}
func (te *TupleExpression) expressionNode() {}

// InlinedBlockExpression is the splice site internal/desugar substitutes for
// a direct parameter-closure call: Statements runs as a block whose value is
// its trailing ReturnStatement's Value (or Void if the block has none). It
// never appears before desugaring and is never produced by the parser.
type InlinedBlockExpression struct {
	Token      token.Token
	Statements []Statement
}

func (ib *InlinedBlockExpression) TokenLiteral() string { return ib.Token.Lexeme }
func (ib *InlinedBlockExpression) GetToken() token.Token {
	if ib == nil {
		return token.Token{}
	}
	return ib.Token
}
func (ib *InlinedBlockExpression) expressionNode() {}
