package resolve

// DefID identifies a definition across the whole crate.
type DefID uint32

const (
	// NoDefID marks the absence of a definition.
	NoDefID DefID = 0
	// CrateDefID is the definition of the crate root module.
	CrateDefID DefID = 1
)

// IsValid reports whether the id refers to an allocated definition.
func (id DefID) IsValid() bool { return id != NoDefID }

// DefKind classifies a definition.
type DefKind uint8

const (
	DefUnknown DefKind = iota
	DefMod
	DefStruct
	DefUnion
	DefEnum
	DefVariant
	DefCtor
	DefField
	DefTrait
	DefTraitAlias
	DefTyAlias
	DefForeignTy
	DefTyParam
	DefLifetimeParam
	DefConstParam
	DefFn
	DefConst
	DefStatic
	DefAssocFn
	DefAssocConst
	DefAssocTy
	DefMacro
	DefUse
	DefExternCrate
	DefForeignMod
	DefGlobalAsm
	DefImpl
	DefOpaqueTy
	DefAnonConst
	DefClosure
)

var defKindNames = [...]string{
	DefUnknown:       "unknown",
	DefMod:           "mod",
	DefStruct:        "struct",
	DefUnion:         "union",
	DefEnum:          "enum",
	DefVariant:       "variant",
	DefCtor:          "ctor",
	DefField:         "field",
	DefTrait:         "trait",
	DefTraitAlias:    "trait-alias",
	DefTyAlias:       "type",
	DefForeignTy:     "foreign-type",
	DefTyParam:       "ty-param",
	DefLifetimeParam: "lifetime-param",
	DefConstParam:    "const-param",
	DefFn:            "fn",
	DefConst:         "const",
	DefStatic:        "static",
	DefAssocFn:       "assoc-fn",
	DefAssocConst:    "assoc-const",
	DefAssocTy:       "assoc-type",
	DefMacro:         "macro",
	DefUse:           "use",
	DefExternCrate:   "extern-crate",
	DefForeignMod:    "foreign-mod",
	DefGlobalAsm:     "global-asm",
	DefImpl:          "impl",
	DefOpaqueTy:      "opaque",
	DefAnonConst:     "anon-const",
	DefClosure:       "closure",
}

func (k DefKind) String() string {
	if int(k) < len(defKindNames) {
		return defKindNames[k]
	}
	return "?"
}
