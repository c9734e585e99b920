package ast

import "hirlower/internal/source"

// LitKind is the token class of a literal.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitStr
	LitBool
	LitChar
)

// Lit is a literal with its source spelling.
type Lit struct {
	Kind  LitKind
	Value string
	Span  source.Span
}

// ExprKind is the shape of an expression.
type ExprKind uint8

const (
	ExprErr ExprKind = iota
	ExprLit
	ExprPath
	ExprCall
	ExprMethodCall
	ExprBinary
	ExprUnary
	ExprField
	ExprTuple
	ExprBlock
	ExprIf
	ExprReturn
	ExprAssign
	ExprAddrOf
	ExprAwait
	ExprParen
)

// Expr is a surface expression. Resolution of a path expression is keyed by ID.
//
// Field usage per kind:
//
//	ExprCall        Callee(Args...)
//	ExprMethodCall  Args[0].Method(Args[1:]...)
//	ExprBinary      Lhs Op Rhs
//	ExprUnary       Op Operand
//	ExprField       Operand.Field
//	ExprIf          if Operand Block else Else
//	ExprReturn      return Operand (may be nil)
//	ExprAssign      Lhs = Rhs
//	ExprAddrOf      &[mut] Operand
//	ExprAwait       Operand.await
//	ExprParen       (Operand)
type Expr struct {
	ID    NodeID
	Kind  ExprKind
	Span  source.Span
	Attrs []Attribute

	Lit     *Lit
	Path    *Path
	Callee  *Expr
	Method  *PathSegment
	Args    []*Expr
	Op      string
	Lhs     *Expr
	Rhs     *Expr
	Operand *Expr
	Field   Ident
	Elems   []*Expr
	Block   *Block
	Else    *Expr
	Mut     bool
}
