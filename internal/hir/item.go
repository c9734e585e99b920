package hir

import (
	"hirlower/internal/abi"
	"hirlower/internal/ast"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// Attribute is carried over from the surface tree unchanged.
type Attribute = ast.Attribute

// Ident is an interned name with its location.
type Ident struct {
	Name source.StringID
	Span source.Span
}

// ItemKind enumerates lowered item kinds.
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
)

var itemKindNames = [...]string{
	ItemExternCrate: "extern crate",
	ItemUse:         "use",
	ItemStatic:      "static",
	ItemConst:       "const",
	ItemFn:          "fn",
	ItemMod:         "mod",
	ItemForeignMod:  "extern",
	ItemGlobalAsm:   "global_asm",
	ItemTyAlias:     "type",
	ItemEnum:        "enum",
	ItemStruct:      "struct",
	ItemUnion:       "union",
	ItemTrait:       "trait",
	ItemTraitAlias:  "trait alias",
	ItemImpl:        "impl",
}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "?"
}

// Item is a lowered item. Exactly one payload matching Kind is set.
type Item struct {
	DefID resolve.DefID
	Ident Ident
	Vis   Visibility
	Span  source.Span
	Kind  ItemKind

	ExternCrate *ExternCrate
	Use         *Use
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
}

// HirID returns the owner node id of the item.
func (it *Item) HirID() HirID { return OwnerHirID(it.DefID) }

// Generics returns the item's generics, or nil for kinds without them.
func (it *Item) Generics() *Generics {
	switch it.Kind {
	case ItemFn:
		return it.Fn.Generics
	case ItemTyAlias:
		return it.TyAlias.Generics
	case ItemEnum:
		return it.Enum.Generics
	case ItemStruct, ItemUnion:
		return it.Adt.Generics
	case ItemTrait:
		return it.Trait.Generics
	case ItemTraitAlias:
		return it.TraitAlias.Generics
	case ItemImpl:
		return it.Impl.Generics
	}
	return nil
}

// ExternCrate keeps the original crate name when renamed.
type ExternCrate struct {
	Orig source.StringID
}

// UseKind distinguishes the records a flattened import produces.
type UseKind uint8

const (
	// UseSingle imports one name.
	UseSingle UseKind = iota
	// UseGlob imports everything under a prefix.
	UseGlob
	// UseListStem anchors a nested group `prefix::{...}`.
	UseListStem
)

func (k UseKind) String() string {
	switch k {
	case UseGlob:
		return "glob"
	case UseListStem:
		return "list-stem"
	default:
		return "single"
	}
}

// Use is one flattened import record.
type Use struct {
	Path *Path
	Kind UseKind
}

type Static struct {
	Ty   *Ty
	Mut  bool
	Body BodyID
}

type Const struct {
	Ty   *Ty
	Body BodyID
}

type Fn struct {
	Sig      FnSig
	Generics *Generics
	Body     BodyID
}

// Mod lists the ids of the items a module declares.
type Mod struct {
	Inner   source.Span
	ItemIDs []resolve.DefID
}

type ForeignMod struct {
	Abi   abi.Abi
	Items []ForeignItemRef
}

type GlobalAsm struct {
	Template string
}

type TyAlias struct {
	Ty       *Ty
	Generics *Generics
}

type Enum struct {
	Variants []Variant
	Generics *Generics
}

// Adt is the payload of a struct or union.
type Adt struct {
	Data     VariantData
	Generics *Generics
}

type Trait struct {
	IsAuto   bool
	Unsafe   bool
	Generics *Generics
	Bounds   []GenericBound
	Items    []TraitItemRef
}

type TraitAlias struct {
	Generics *Generics
	Bounds   []GenericBound
}

type Impl struct {
	Unsafe      bool
	Negative    bool
	Defaultness Defaultness
	Const       bool
	Generics    *Generics
	OfTrait     *TraitRef
	SelfTy      *Ty
	Items       []ImplItemRef
}

// VisibilityKind mirrors the surface visibility forms.
type VisibilityKind uint8

const (
	VisInherited VisibilityKind = iota
	VisPublic
	VisCrate
	VisRestricted
)

func (k VisibilityKind) String() string {
	switch k {
	case VisPublic:
		return "pub"
	case VisCrate:
		return "pub(crate)"
	case VisRestricted:
		return "pub(in)"
	default:
		return "inherited"
	}
}

// Visibility of a lowered item. Restricted visibility owns HirID and Path.
type Visibility struct {
	Kind  VisibilityKind
	Path  *Path
	HirID HirID
	Span  source.Span
}

// VariantDataKind is the shape of a field list.
type VariantDataKind uint8

const (
	VariantStruct VariantDataKind = iota
	VariantTuple
	VariantUnit
)

// VariantData is the field list of a struct, union or variant. CtorHirID is
// set for tuple and unit shapes.
type VariantData struct {
	Kind      VariantDataKind
	Fields    []FieldDef
	CtorHirID HirID
}

type FieldDef struct {
	HirID HirID
	Ident Ident
	Vis   Visibility
	Ty    *Ty
	Span  source.Span
}

type Variant struct {
	HirID HirID
	Ident Ident
	Data  VariantData
	Disr  *AnonConst
	Span  source.Span
}

// AnonConst is a constant expression lowered into a body of its own.
type AnonConst struct {
	HirID HirID
	Body  BodyID
}

// MacroDef is an exported macro definition.
type MacroDef struct {
	Ident      Ident
	Vis        Visibility
	DefID      resolve.DefID
	Span       source.Span
	Body       string
	MacroRules bool
}
