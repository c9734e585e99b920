package hir

import (
	"hirlower/internal/ast"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// Lit is a literal carried over from the surface tree.
type Lit = ast.Lit

// ExprKind is the shape of a lowered expression.
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
	ExprTup
	ExprBlock
	ExprIf
	ExprRet
	ExprAssign
	ExprAddrOf
	ExprAwait
	// ExprDropTemps drops every temporary of Operand before the enclosing
	// scope's locals.
	ExprDropTemps
	// ExprClosure is a closure or generator whose body lives in the body table.
	ExprClosure
)

var exprKindNames = [...]string{
	ExprErr:        "err",
	ExprLit:        "lit",
	ExprPath:       "path",
	ExprCall:       "call",
	ExprMethodCall: "method-call",
	ExprBinary:     "binary",
	ExprUnary:      "unary",
	ExprField:      "field",
	ExprTup:        "tuple",
	ExprBlock:      "block",
	ExprIf:         "if",
	ExprRet:        "return",
	ExprAssign:     "assign",
	ExprAddrOf:     "addr-of",
	ExprAwait:      "await",
	ExprDropTemps:  "drop-temps",
	ExprClosure:    "closure",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "?"
}

// GeneratorKind marks bodies that produce a generator.
type GeneratorKind uint8

const (
	NotGenerator GeneratorKind = iota
	// GeneratorAsyncFn is the body of an `async fn`.
	GeneratorAsyncFn
)

// Closure is the payload of ExprClosure.
type Closure struct {
	CaptureByValue bool
	Body           BodyID
	Generator      GeneratorKind
}

// Expr is a lowered expression. Field usage follows ast.Expr; parentheses are
// removed during lowering.
type Expr struct {
	HirID HirID
	Kind  ExprKind
	Span  source.Span

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
	Closure *Closure
}

// LocalSource tells whether a `let` was written or synthesized.
type LocalSource uint8

const (
	LocalNormal LocalSource = iota
	// LocalAsyncFn is a capture statement of an async fn parameter.
	LocalAsyncFn
)

type Local struct {
	HirID  HirID
	Pat    *Pat
	Ty     *Ty
	Init   *Expr
	Span   source.Span
	Source LocalSource
}

// StmtKind is the shape of a lowered statement.
type StmtKind uint8

const (
	StmtLocal StmtKind = iota
	// StmtItem refers to an item declared in a block.
	StmtItem
	StmtExpr
	StmtSemi
)

type Stmt struct {
	HirID HirID
	Kind  StmtKind
	Span  source.Span
	Local *Local
	Item  resolve.DefID // StmtItem
	Expr  *Expr
}

// Block holds statements and an optional trailing expression.
type Block struct {
	HirID  HirID
	Stmts  []Stmt
	Expr   *Expr
	Unsafe bool
	Span   source.Span
}

// BindingMode of a binding pattern.
type BindingMode uint8

const (
	BindUnannotated BindingMode = iota
	BindMutable
	BindRef
	BindRefMut
)

// PatKind is the shape of a lowered pattern.
type PatKind uint8

const (
	PatWild PatKind = iota
	PatBinding
	PatTuple
	PatTupleStruct
	PatRef
	PatLit
	PatPath
	PatRest
)

type Pat struct {
	HirID HirID
	Kind  PatKind
	Span  source.Span

	Binding BindingMode // PatBinding
	Ident   Ident       // PatBinding
	Sub     *Pat        // PatBinding, PatRef
	Elems   []*Pat      // PatTuple, PatTupleStruct
	Path    *Path       // PatTupleStruct, PatPath
	Lit     *Lit        // PatLit
	Mut     bool        // PatRef
}

// Param is a body parameter.
type Param struct {
	HirID  HirID
	Pat    *Pat
	TySpan source.Span
	Span   source.Span
}

// Body is a parameter list plus a value expression.
type Body struct {
	Params    []Param
	Value     *Expr
	Generator GeneratorKind
}

// ID returns the id the body is stored under.
func (b *Body) ID() BodyID { return BodyID{HirID: b.Value.HirID} }
