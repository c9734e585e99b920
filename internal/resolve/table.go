package resolve

import (
	"fmt"

	"fortio.org/safecast"

	"hirlower/internal/ast"
)

// Table is a map-backed Resolver. It is not safe for concurrent use; every
// lowering run owns its table.
type Table struct {
	nextNode ast.NodeID
	defs     map[ast.NodeID]DefID
	kinds    []DefKind // index 0 reserved for NoDefID
	paths    map[ast.NodeID]Res
	imports  map[ast.NodeID][]Res
}

// NewTable creates a table whose fresh node ids start at next. The crate root
// always gets CrateDefID.
func NewTable(next ast.NodeID) *Table {
	if next <= ast.CrateNodeID {
		next = ast.CrateNodeID + 1
	}
	t := &Table{
		nextNode: next,
		defs:     make(map[ast.NodeID]DefID),
		kinds:    make([]DefKind, 1, 64),
		paths:    make(map[ast.NodeID]Res),
		imports:  make(map[ast.NodeID][]Res),
	}
	t.Define(ast.CrateNodeID, DefMod)
	return t
}

// Define registers node id as a definition of kind and returns its id.
// Defining an already known node returns the existing id.
func (t *Table) Define(id ast.NodeID, kind DefKind) DefID {
	if def, ok := t.defs[id]; ok {
		return def
	}
	n, err := safecast.Conv[uint32](len(t.kinds))
	if err != nil {
		panic(fmt.Errorf("def table overflow: %w", err))
	}
	def := DefID(n)
	t.kinds = append(t.kinds, kind)
	t.defs[id] = def
	return def
}

// SetPath records the resolution of the path owned by node id.
func (t *Table) SetPath(id ast.NodeID, res Res) { t.paths[id] = res }

// SetImport records per-namespace resolutions of an import leaf. At most two
// are kept.
func (t *Table) SetImport(id ast.NodeID, res ...Res) {
	if len(res) > 2 {
		res = res[:2]
	}
	t.imports[id] = append([]Res(nil), res...)
}

func (t *Table) PathRes(id ast.NodeID) Res {
	if res, ok := t.paths[id]; ok {
		return res
	}
	return Err
}

func (t *Table) ImportRes(id ast.NodeID) []Res {
	return t.imports[id]
}

func (t *Table) DefID(id ast.NodeID, kind DefKind) DefID {
	return t.Define(id, kind)
}

func (t *Table) LookupDef(id ast.NodeID) (DefID, bool) {
	def, ok := t.defs[id]
	return def, ok
}

func (t *Table) DefKind(def DefID) DefKind {
	if !def.IsValid() || int(def) >= len(t.kinds) {
		return DefUnknown
	}
	return t.kinds[def]
}

func (t *Table) NextNodeID() ast.NodeID {
	id := t.nextNode
	t.nextNode++
	return id
}

// Len reports the number of definitions, the crate root included.
func (t *Table) Len() int { return len(t.kinds) - 1 }

var _ Resolver = (*Table)(nil)
