// Package ast defines the tagged node set the parser (an excluded
// collaborator) is assumed to produce: items, statements,
// expressions, patterns, and syntactic type references. Every node carries
// a token.Token for its primary span, following the shape of
// funxy/internal/ast/ast_core.go (one struct per node kind, a TokenLiteral
// and GetToken accessor on each, nil-receiver-safe).
package ast

import (
	"github.com/funvibe/pyrite/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node that represents a statement or top-level item.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is a Node that represents a match/binding pattern.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is a Node representing a syntactic (pre-resolution) type
// reference, as written in source (e.g. "List<T>", "&mut Foo").
type TypeExpr interface {
	Node
	typeExprNode()
}

// Program is the root node of a single source file's AST.
type Program struct {
	File string
	Package string // declared package/module name, if any
	Imports []*ImportStatement
	Items []Statement // top-level FunctionDecl/StructDecl/EnumDecl/TraitDecl/ImplDecl/ConstDecl
}

func (p *Program) TokenLiteral() string {
	if len(p.Items) > 0 {
		return p.Items[0].TokenLiteral()
	}
	return ""
}
func (p *Program) GetToken() token.Token {
	if p == nil || len(p.Items) == 0 {
		return token.Token{}
	}
	return p.Items[0].GetToken()
}

// SpanOf returns the span of any node's primary token, or the zero Span if
// node is nil.
func SpanOf(node Node) token.Span {
	if node == nil {
		return token.Span{}
	}
	return node.GetToken().Span
}

// ImportStatement names a module to merge into the type checker's
// top-level symbols "module file resolution" hands the resolved set
// to the type checker; path-to-filesystem resolution is the driver's job).
type ImportStatement struct {
	Token token.Token
	Path []string // dotted or double-colon path tokens
	Alias string
}

func (is *ImportStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *ImportStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}
func (is *ImportStatement) statementNode() {}

// GenericParam is one type or compile-time ("const") parameter of a
// generic function or struct/enum.
type GenericParam struct {
	Name string
	IsConst bool // compile-time value parameter, e.g. N: int
	ConstKind string // "int" | "bool", meaningful only when IsConst
	Bounds []string // trait names this type parameter must satisfy
}

// Param is one formal parameter of a function, method, or closure.
type Param struct {
	Name string
	Type TypeExpr
	Mutable bool
}

// FieldDecl is one field of a struct declaration, in parse order.
type FieldDecl struct {
	Name string
	Type TypeExpr
}

// VariantDecl is one variant of an enum declaration. Fields is nil for a
// unit variant.
type VariantDecl struct {
	Name string
	Fields []TypeExpr
}

// FunctionDecl declares a function, method, or trait method signature
// (Body is nil for a trait method with no default implementation).
type FunctionDecl struct {
	Token token.Token
	Name string
	TypeParams []*GenericParam
	Params []*Param
	ReturnType TypeExpr // nil => Void
	Body *BlockStatement
	IsMustInline bool // true for `fn[...]` parameter-closure literals reused as decls
}

func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FunctionDecl) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}
func (fd *FunctionDecl) statementNode() {}

// ConstParamNames returns the names of fd's compile-time (const) generic
// parameters, in declaration order.
func (fd *FunctionDecl) ConstParamNames() []string {
	var names []string
	for _, p := range fd.TypeParams {
		if p.IsConst {
			names = append(names, p.Name)
		}
	}
	return names
}

// StructDecl declares a struct type.
type StructDecl struct {
	Token token.Token
	Name string
	TypeParams []*GenericParam
	Fields []*FieldDecl
}

func (sd *StructDecl) TokenLiteral() string { return sd.Token.Lexeme }
func (sd *StructDecl) GetToken() token.Token {
	if sd == nil {
		return token.Token{}
	}
	return sd.Token
}
func (sd *StructDecl) statementNode() {}

// EnumDecl declares an enum (algebraic sum) type.
type EnumDecl struct {
	Token token.Token
	Name string
	TypeParams []*GenericParam
	Variants []*VariantDecl
}

func (ed *EnumDecl) TokenLiteral() string { return ed.Token.Lexeme }
func (ed *EnumDecl) GetToken() token.Token {
	if ed == nil {
		return token.Token{}
	}
	return ed.Token
}
func (ed *EnumDecl) statementNode() {}

// TraitDecl declares a trait: a set of method signatures, optional default
// bodies, and associated type names.
type TraitDecl struct {
	Token token.Token
	Name string
	AssociatedTypes []string
	Methods []*FunctionDecl // Body non-nil => has a default implementation
}

func (td *TraitDecl) TokenLiteral() string { return td.Token.Lexeme }
func (td *TraitDecl) GetToken() token.Token {
	if td == nil {
		return token.Token{}
	}
	return td.Token
}
func (td *TraitDecl) statementNode() {}

// ImplDecl declares an impl block: either inherent (TraitName == "") or a
// trait implementation for TargetType.
type ImplDecl struct {
	Token token.Token
	TraitName string // "" for an inherent impl
	TargetType TypeExpr
	AssociatedTypeBindings map[string]TypeExpr // Trait::Item = Concrete
	Methods []*FunctionDecl
}

func (id *ImplDecl) TokenLiteral() string { return id.Token.Lexeme }
func (id *ImplDecl) GetToken() token.Token {
	if id == nil {
		return token.Token{}
	}
	return id.Token
}
func (id *ImplDecl) statementNode() {}

// ConstDecl declares a module-level constant.
type ConstDecl struct {
	Token token.Token
	Name string
	TypeAnnotation TypeExpr
	Value Expression
}

func (cd *ConstDecl) TokenLiteral() string { return cd.Token.Lexeme }
func (cd *ConstDecl) GetToken() token.Token {
	if cd == nil {
		return token.Token{}
	}
	return cd.Token
}
func (cd *ConstDecl) statementNode() {}
