package ast

import "hirlower/internal/source"

// Param is one function parameter.
type Param struct {
	ID    NodeID
	Attrs []Attribute
	Pat   *Pat
	Ty    *Ty
	Span  source.Span
}

// FnRetTy is the declared return type. Ty is nil for the default `()` return,
// in which case Span points where the type would be.
type FnRetTy struct {
	Ty   *Ty
	Span source.Span
}

// FnDecl is the parameter list and return type.
type FnDecl struct {
	Inputs []Param
	Output FnRetTy
}

// HasSelf reports whether the first parameter is `self`.
func (d *FnDecl) HasSelf() bool {
	if len(d.Inputs) == 0 {
		return false
	}
	p := d.Inputs[0].Pat
	return p != nil && p.Kind == PatIdent && p.Ident.Name == KwSelfLower
}

// ExternKind says how a function or block names its calling convention.
type ExternKind uint8

const (
	ExternNone ExternKind = iota
	// ExternImplicit is `extern fn` without a string.
	ExternImplicit
	// ExternExplicit is `extern "abi" fn`.
	ExternExplicit
)

// StrLit is a string literal token such as an ABI name.
type StrLit struct {
	Symbol string
	Span   source.Span
}

// Extern is the calling-convention marker of a function header.
type Extern struct {
	Kind ExternKind
	Abi  StrLit
}

// Async marks an `async fn`. ClosureID names the generator expression and
// ReturnID the synthesized opaque return type.
type Async struct {
	ClosureID NodeID
	ReturnID  NodeID
	Span      source.Span
}

// FnHeader holds the qualifiers before `fn`.
type FnHeader struct {
	Unsafe bool
	Async  *Async
	Const  bool
	Ext    Extern
}

// FnSig is a header with its declaration.
type FnSig struct {
	Header FnHeader
	Decl   FnDecl
	Span   source.Span
}

// Defaultness of an associated item.
type Defaultness uint8

const (
	Final Defaultness = iota
	// Default is `default fn` inside a specializing impl.
	Default
)

// Fn is a function declaration with an optional body.
type Fn struct {
	Defaultness Defaultness
	Generics    Generics
	Sig         FnSig
	Body        *Block
}
