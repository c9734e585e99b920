// Package ast holds the surface tree consumed by the lowering pass.
//
// The tree is already macro-expanded and name-resolved: every node that can be
// referenced by a later phase carries a NodeID, and resolution results are kept
// outside the tree (see internal/resolve) keyed by those ids. All types are plain
// structs with exported fields so a crate can be stored in a msgpack pack.
package ast

// NodeID identifies a surface node. Ids are unique inside one crate.
type NodeID uint32

const (
	// DummyNodeID marks "no node" (zero is sentinel).
	DummyNodeID NodeID = 0
	// CrateNodeID is the id of the crate root module.
	CrateNodeID NodeID = 1
)

func (id NodeID) IsValid() bool { return id != DummyNodeID }
