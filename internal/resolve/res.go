package resolve

import (
	"fmt"

	"hirlower/internal/ast"
)

// ResKind is the category of a resolution.
type ResKind uint8

const (
	// ResErr is the explicit "unresolved" marker. Downstream treats it as
	// already diagnosed.
	ResErr ResKind = iota
	ResDef
	ResPrimTy
	ResSelfTy
	ResLocal
)

// Res is what a path resolved to.
type Res struct {
	Kind  ResKind
	Def   DefKind
	ID    DefID      // ResDef, ResSelfTy (impl or trait)
	Prim  string     // ResPrimTy
	Local ast.NodeID // ResLocal: binding pattern id
}

// Err is the unresolved marker.
var Err = Res{Kind: ResErr}

// Def builds a definition resolution.
func Def(kind DefKind, id DefID) Res { return Res{Kind: ResDef, Def: kind, ID: id} }

// Prim builds a primitive type resolution.
func Prim(name string) Res { return Res{Kind: ResPrimTy, Prim: name} }

// Local builds a resolution to a local binding.
func Local(binding ast.NodeID) Res { return Res{Kind: ResLocal, Local: binding} }

// SelfTy builds a resolution of `Self` inside the item id.
func SelfTy(id DefID) Res { return Res{Kind: ResSelfTy, ID: id} }

func (r Res) IsErr() bool { return r.Kind == ResErr }

// IsTyParam reports whether r names a generic type parameter.
func (r Res) IsTyParam() bool { return r.Kind == ResDef && r.Def == DefTyParam }

func (r Res) String() string {
	switch r.Kind {
	case ResDef:
		return fmt.Sprintf("%s#%d", r.Def, r.ID)
	case ResPrimTy:
		return "prim(" + r.Prim + ")"
	case ResSelfTy:
		return fmt.Sprintf("Self#%d", r.ID)
	case ResLocal:
		return fmt.Sprintf("local(%d)", r.Local)
	default:
		return "err"
	}
}
