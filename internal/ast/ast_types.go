package ast

import "github.com/funvibe/pyrite/internal/token"

// NamedTypeExpr references a primitive or user-declared type by name, or
// `Self` inside an impl block.
type NamedTypeExpr struct {
	Token token.Token
	Name  string
}

func (t *NamedTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *NamedTypeExpr) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
func (t *NamedTypeExpr) typeExprNode() {}

// AssociatedTypeExpr references `Trait::Item`.
type AssociatedTypeExpr struct {
	Token token.Token
	Trait string
	Name  string
}

func (t *AssociatedTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *AssociatedTypeExpr) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
func (t *AssociatedTypeExpr) typeExprNode() {}

// ReferenceTypeExpr is `&T` or `&mut T`.
type ReferenceTypeExpr struct {
	Token   token.Token
	Mutable bool
	Inner   TypeExpr
}

func (t *ReferenceTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *ReferenceTypeExpr) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
func (t *ReferenceTypeExpr) typeExprNode() {}

// PointerTypeExpr is `*T` or `*mut T` (raw pointer).
type PointerTypeExpr struct {
	Token   token.Token
	Mutable bool
	Inner   TypeExpr
}

func (t *PointerTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *PointerTypeExpr) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
func (t *PointerTypeExpr) typeExprNode() {}

// ArrayTypeExpr is `[T; Size]`, Size a compile-time integer expression.
type ArrayTypeExpr struct {
	Token   token.Token
	Element TypeExpr
	Size    Expression
}

func (t *ArrayTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *ArrayTypeExpr) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
func (t *ArrayTypeExpr) typeExprNode() {}

// SliceTypeExpr is `[T]`.
type SliceTypeExpr struct {
	Token   token.Token
	Element TypeExpr
}

func (t *SliceTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *SliceTypeExpr) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
func (t *SliceTypeExpr) typeExprNode() {}

// TupleTypeExpr is `(T1, T2, ...)`.
type TupleTypeExpr struct {
	Token    token.Token
	Elements []TypeExpr
}

func (t *TupleTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *TupleTypeExpr) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
func (t *TupleTypeExpr) typeExprNode() {}

// FunctionTypeExpr is `(P1, P2) -> R`.
type FunctionTypeExpr struct {
	Token      token.Token
	Params     []TypeExpr
	ReturnType TypeExpr // nil => Void
}

func (t *FunctionTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *FunctionTypeExpr) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
func (t *FunctionTypeExpr) typeExprNode() {}

// GenericTypeExpr is `Name<TypeArgs>` or `Name[ConstArgs]` or a mix, e.g.
// `List<Int>` or `f[3]`'s callee-side annotation.
type GenericTypeExpr struct {
	Token     token.Token
	Name      string
	TypeArgs  []TypeExpr
	ConstArgs []Expression
}

func (t *GenericTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *GenericTypeExpr) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
func (t *GenericTypeExpr) typeExprNode() {}
