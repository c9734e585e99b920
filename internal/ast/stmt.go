package ast

import "hirlower/internal/source"

// StmtKind is the shape of a statement.
type StmtKind uint8

const (
	StmtLocal StmtKind = iota
	// StmtItem is an item declared inside a block; it is lowered as its own owner.
	StmtItem
	// StmtExpr is a trailing expression without `;`.
	StmtExpr
	StmtSemi
	StmtEmpty
)

// Stmt is a block statement.
type Stmt struct {
	ID    NodeID
	Kind  StmtKind
	Span  source.Span
	Local *Local
	Item  *Item
	Expr  *Expr
}

// Local is `let pat: ty = init;`.
type Local struct {
	ID    NodeID
	Attrs []Attribute
	Pat   *Pat
	Ty    *Ty
	Init  *Expr
	Span  source.Span
}

// Block is `{ stmts }`.
type Block struct {
	ID     NodeID
	Stmts  []Stmt
	Unsafe bool
	Span   source.Span
}
