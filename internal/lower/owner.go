package lower

import (
	"fortio.org/safecast"

	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
)

type ownerState uint8

const (
	// ownerIdle has a counter but was never entered.
	ownerIdle ownerState = iota
	// ownerActive is being lowered; its counter is locked for out-of-band use.
	ownerActive
	// ownerClosed was fully lowered; no id may be issued for it any more.
	ownerClosed
)

// ownerCounter numbers the nodes of one owner densely from zero.
type ownerCounter struct {
	node  ast.NodeID
	def   resolve.DefID
	next  uint32
	state ownerState
}

func (c *ownerCounter) issue() hir.ItemLocalID {
	local := hir.ItemLocalID(c.next)
	n, err := safecast.Conv[uint32](uint64(c.next) + 1)
	if err != nil {
		ice("owner %d: local id overflow: %v", c.def, err)
	}
	c.next = n
	return local
}

// allocateHirIDCounter creates the counter of owner node, reserving local id
// zero for the owner itself. Calling it again returns the existing counter.
func (l *lowerer) allocateHirIDCounter(node ast.NodeID, kind resolve.DefKind) *ownerCounter {
	if c, ok := l.counters[node]; ok {
		return c
	}
	def := l.resolver.DefID(node, kind)
	c := &ownerCounter{node: node, def: def}
	if prev, ok := l.nodeToHir[node]; ok {
		ice("owner node %d already lowered as %s", node, prev)
	}
	l.nodeToHir[node] = hir.HirID{Owner: def, Local: c.issue()}
	l.counters[node] = c
	return c
}

// withHirIDOwner makes node the current owner while f runs.
func (l *lowerer) withHirIDOwner(node ast.NodeID, kind resolve.DefKind, f func()) {
	c := l.allocateHirIDCounter(node, kind)
	switch c.state {
	case ownerActive:
		ice("owner %d entered twice", c.def)
	case ownerClosed:
		ice("owner %d reopened after it was closed", c.def)
	}
	c.state = ownerActive
	l.owners = append(l.owners, c)
	defer func() {
		l.owners = l.owners[:len(l.owners)-1]
		c.state = ownerClosed
		l.out.OwnerCounters[c.def] = c.next
	}()
	f()
}

func (l *lowerer) currentOwner() *ownerCounter {
	if len(l.owners) == 0 {
		ice("no hir id owner is active")
	}
	return l.owners[len(l.owners)-1]
}

// expectCurrentDef returns the definition of the active owner.
func (l *lowerer) expectCurrentDef() resolve.DefID {
	return l.currentOwner().def
}

// ownerDef allocates the counter of a member or nested item before it is
// entered and returns its definition.
func (l *lowerer) ownerDef(node ast.NodeID, kind resolve.DefKind) resolve.DefID {
	return l.allocateHirIDCounter(node, kind).def
}

// lowerNodeID returns the HirID of node, issuing one in the current owner on
// first use.
func (l *lowerer) lowerNodeID(node ast.NodeID) hir.HirID {
	if node == ast.DummyNodeID {
		ice("lowering the dummy node id")
	}
	if id, ok := l.nodeToHir[node]; ok {
		return id
	}
	c := l.currentOwner()
	id := hir.HirID{Owner: c.def, Local: c.issue()}
	l.nodeToHir[node] = id
	return id
}

// lowerNodeIDWithOwner issues the id of node in owner instead of the current
// owner. The owner must not have been entered yet.
func (l *lowerer) lowerNodeIDWithOwner(node, owner ast.NodeID, kind resolve.DefKind) hir.HirID {
	if id, ok := l.nodeToHir[node]; ok {
		return id
	}
	c := l.allocateHirIDCounter(owner, kind)
	switch c.state {
	case ownerActive:
		ice("owner %d counter is locked", c.def)
	case ownerClosed:
		ice("owner %d is closed, cannot issue an id for node %d", c.def, node)
	}
	id := hir.HirID{Owner: c.def, Local: c.issue()}
	l.nodeToHir[node] = id
	return id
}

// nextID issues a HirID for a synthesized node.
func (l *lowerer) nextID() hir.HirID {
	return l.lowerNodeID(l.resolver.NextNodeID())
}

// expectOwner returns the definition id of an owner's HirID.
func expectOwner(id hir.HirID) resolve.DefID {
	if !id.IsOwner() {
		ice("%s is not an owner", id)
	}
	return id.Owner
}

// finishCounters records counters of owners that were allocated but never
// entered.
func (l *lowerer) finishCounters() {
	for _, c := range l.counters {
		if _, ok := l.out.OwnerCounters[c.def]; !ok {
			l.out.OwnerCounters[c.def] = c.next
		}
	}
}
