// Package hir is the lowered tree produced from the surface AST.
//
// Every node that later phases may refer to carries a HirID: the definition
// that owns it plus a dense local index. Items, trait/impl/foreign members and
// bodies are stored in side tables of Crate rather than nested in their
// parents; parents keep short references.
package hir

import (
	"fmt"

	"hirlower/internal/resolve"
)

// ItemLocalID indexes a node inside its owner. Zero is the owner itself.
type ItemLocalID uint32

// HirID identifies a lowered node.
type HirID struct {
	Owner resolve.DefID
	Local ItemLocalID
}

// DummyHirID marks "no node" (zero is sentinel).
var DummyHirID = HirID{}

// IsValid reports whether the id belongs to some owner.
func (id HirID) IsValid() bool { return id.Owner.IsValid() }

// IsOwner reports whether the id is the owner node itself.
func (id HirID) IsOwner() bool { return id.IsValid() && id.Local == 0 }

func (id HirID) String() string {
	return fmt.Sprintf("%d.%d", id.Owner, id.Local)
}

// OwnerHirID returns the HirID of an owner's own node.
func OwnerHirID(def resolve.DefID) HirID { return HirID{Owner: def} }

// BodyID names a body by the HirID of its value expression.
type BodyID struct {
	HirID HirID
}

func (id BodyID) IsValid() bool { return id.HirID.IsValid() }
