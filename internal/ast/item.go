package ast

import "hirlower/internal/source"

// ItemKind enumerates surface item kinds.
type ItemKind uint8

const (
	ItemExternCrate ItemKind = iota
	ItemUse
	ItemStatic
	ItemConst
	ItemFn
	ItemMod
	ItemForeignMod
	ItemGlobalAsm
	ItemTyAlias
	ItemEnum
	ItemStruct
	ItemUnion
	ItemTrait
	ItemTraitAlias
	ItemImpl
	ItemMacroDef
	// ItemMacCall is an unexpanded macro invocation; it must not reach lowering.
	ItemMacCall
)

var itemKindNames = [...]string{
	ItemExternCrate: "extern crate",
	ItemUse:         "use",
	ItemStatic:      "static",
	ItemConst:       "const",
	ItemFn:          "fn",
	ItemMod:         "mod",
	ItemForeignMod:  "extern block",
	ItemGlobalAsm:   "global_asm",
	ItemTyAlias:     "type",
	ItemEnum:        "enum",
	ItemStruct:      "struct",
	ItemUnion:       "union",
	ItemTrait:       "trait",
	ItemTraitAlias:  "trait alias",
	ItemImpl:        "impl",
	ItemMacroDef:    "macro",
	ItemMacCall:     "macro call",
}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "?"
}

// Item is a top-level or nested item. Exactly one payload pointer matching
// Kind is set; Struct and Union share the Adt payload.
type Item struct {
	ID    NodeID
	Ident Ident
	Vis   Visibility
	Attrs []Attribute
	Span  source.Span
	Kind  ItemKind

	ExternCrate *ExternCrate
	Use         *UseTree
	Static      *Static
	Const       *Const
	Fn          *Fn
	Mod         *Mod
	ForeignMod  *ForeignMod
	GlobalAsm   *GlobalAsm
	TyAlias     *TyAlias
	Enum        *Enum
	Adt         *Adt
	Trait       *Trait
	TraitAlias  *TraitAlias
	Impl        *Impl
	MacroDef    *MacroDef
	MacCall     *MacCall
}

// ExternCrate is `extern crate orig as name;`; Orig is empty without a rename.
type ExternCrate struct {
	Orig string
}

// Static is `static [mut] NAME: Ty = expr;`.
type Static struct {
	Ty   *Ty
	Mut  bool
	Expr *Expr
}

// Const is `const NAME: Ty = expr;`. Expr is nil for a trait const without a default.
type Const struct {
	Defaultness Defaultness
	Ty          *Ty
	Expr        *Expr
}

// Mod is a module. Unloaded marks an out-of-line module whose file was never
// read; such a module must not reach lowering.
type Mod struct {
	Inline   bool
	Unloaded bool
	Items    []*Item
	Span     source.Span
}

// ForeignMod is `extern "abi" { ... }`. Abi is nil when no string was written.
type ForeignMod struct {
	Unsafe bool
	Abi    *StrLit
	Items  []*ForeignItem
}

// GlobalAsm is a module-level assembly block.
type GlobalAsm struct {
	Template string
}

// TyAlias is `type Name<G>: Bounds = Ty;`. Ty is nil when no type is given.
type TyAlias struct {
	Defaultness Defaultness
	Generics    Generics
	Bounds      []GenericBound
	Ty          *Ty
}

// Enum is `enum Name<G> { variants }`.
type Enum struct {
	Generics Generics
	Variants []Variant
}

// Adt is the payload of a struct or a union.
type Adt struct {
	Generics Generics
	Data     VariantData
}

// Trait is `[unsafe] [auto] trait Name<G>: Bounds { items }`.
type Trait struct {
	Unsafe   bool
	IsAuto   bool
	Generics Generics
	Bounds   []GenericBound
	Items    []*AssocItem
}

// TraitAlias is `trait Name<G> = Bounds;`.
type TraitAlias struct {
	Generics Generics
	Bounds   []GenericBound
}

// Impl is `impl<G> [!]Trait for SelfTy { items }`; OfTrait is nil for an inherent impl.
type Impl struct {
	Unsafe      bool
	Negative    bool
	Defaultness Defaultness
	Const       bool
	Generics    Generics
	OfTrait     *TraitRef
	SelfTy      *Ty
	Items       []*AssocItem
}

// MacroDef is `macro_rules! name { ... }` or `macro name { ... }`.
type MacroDef struct {
	Body       string
	MacroRules bool
}

// MacCall is an unexpanded macro invocation.
type MacCall struct {
	Path Path
}

// VariantDataKind is the shape of a struct body.
type VariantDataKind uint8

const (
	VariantStruct VariantDataKind = iota
	VariantTuple
	VariantUnit
)

// VariantData is the field list of a struct, union or enum variant. CtorID
// names the constructor of tuple and unit shapes.
type VariantData struct {
	Kind   VariantDataKind
	Fields []FieldDef
	CtorID NodeID
}

// FieldDef is a named or positional field. Ident is nil for positional fields.
type FieldDef struct {
	ID    NodeID
	Ident *Ident
	Vis   Visibility
	Attrs []Attribute
	Ty    *Ty
	Span  source.Span
}

// Variant is one enum variant.
type Variant struct {
	ID    NodeID
	Ident Ident
	Vis   Visibility
	Attrs []Attribute
	Data  VariantData
	Disr  *AnonConst
	Span  source.Span
}

// AssocItemKind enumerates trait and impl members.
type AssocItemKind uint8

const (
	AssocConst AssocItemKind = iota
	AssocFn
	AssocTyAlias
	AssocMacCall
)

// AssocItem is a trait or impl member.
type AssocItem struct {
	ID    NodeID
	Ident Ident
	Vis   Visibility
	Attrs []Attribute
	Span  source.Span
	Kind  AssocItemKind

	Const   *Const
	Fn      *Fn
	TyAlias *TyAlias
	MacCall *MacCall
}

// ForeignItemKind enumerates items of an extern block.
type ForeignItemKind uint8

const (
	ForeignFn ForeignItemKind = iota
	ForeignStatic
	ForeignTy
	ForeignMacCall
)

// ForeignItem is an item of an extern block.
type ForeignItem struct {
	ID    NodeID
	Ident Ident
	Vis   Visibility
	Attrs []Attribute
	Span  source.Span
	Kind  ForeignItemKind

	Fn      *Fn
	Static  *Static
	TyAlias *TyAlias
	MacCall *MacCall
}
