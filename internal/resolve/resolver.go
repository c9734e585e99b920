// Package resolve is the name-resolution service consumed by lowering.
//
// Resolution itself happens upstream. This package only exposes its results,
// keyed by surface node id, and allocates definition ids for the items that
// lowering turns into owners.
package resolve

import "hirlower/internal/ast"

// Resolver answers resolution queries for a single crate.
type Resolver interface {
	// PathRes returns the resolution of the path owned by node id, or Err.
	PathRes(id ast.NodeID) Res
	// ImportRes returns up to two per-namespace resolutions of a simple
	// import leaf (type namespace first).
	ImportRes(id ast.NodeID) []Res
	// DefID returns the definition id of node id, allocating one with the
	// given kind on first request.
	DefID(id ast.NodeID, kind DefKind) DefID
	// LookupDef returns the definition id of node id when one exists.
	LookupDef(id ast.NodeID) (DefID, bool)
	// DefKind returns the kind recorded for def.
	DefKind(def DefID) DefKind
	// NextNodeID returns a surface id that no existing node uses.
	NextNodeID() ast.NodeID
}
