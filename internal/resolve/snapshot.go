package resolve

import "hirlower/internal/ast"

// DefEntry is one serialized definition.
type DefEntry struct {
	Node ast.NodeID
	Kind DefKind
}

// Snapshot is the serializable form of a Table. Defs are listed in DefID order
// starting at CrateDefID so ids survive a round trip.
type Snapshot struct {
	NextNodeID ast.NodeID
	Defs       []DefEntry
	Paths      map[ast.NodeID]Res
	Imports    map[ast.NodeID][]Res
}

// Snapshot captures the table contents.
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		NextNodeID: t.nextNode,
		Defs:       make([]DefEntry, len(t.kinds)-1),
		Paths:      make(map[ast.NodeID]Res, len(t.paths)),
		Imports:    make(map[ast.NodeID][]Res, len(t.imports)),
	}
	for node, def := range t.defs {
		s.Defs[def-1] = DefEntry{Node: node, Kind: t.kinds[def]}
	}
	for k, v := range t.paths {
		s.Paths[k] = v
	}
	for k, v := range t.imports {
		s.Imports[k] = append([]Res(nil), v...)
	}
	return s
}

// FromSnapshot rebuilds a table.
func FromSnapshot(s Snapshot) *Table {
	t := &Table{
		nextNode: s.NextNodeID,
		defs:     make(map[ast.NodeID]DefID, len(s.Defs)),
		kinds:    make([]DefKind, 1, len(s.Defs)+1),
		paths:    make(map[ast.NodeID]Res, len(s.Paths)),
		imports:  make(map[ast.NodeID][]Res, len(s.Imports)),
	}
	for _, d := range s.Defs {
		t.Define(d.Node, d.Kind)
	}
	if _, ok := t.defs[ast.CrateNodeID]; !ok {
		t.Define(ast.CrateNodeID, DefMod)
	}
	if t.nextNode <= ast.CrateNodeID {
		t.nextNode = ast.CrateNodeID + 1
	}
	for k, v := range s.Paths {
		t.paths[k] = v
	}
	for k, v := range s.Imports {
		t.SetImport(k, v...)
	}
	return t
}
