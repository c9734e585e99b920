package hir

import (
	"errors"
	"fmt"
	"sort"

	"hirlower/internal/resolve"
)

// Validate checks that the HirIDs reachable from every owner's records form
// exactly the range 0..counter, that every item a module or a statement
// refers to has a record, and that member reference lists agree with the
// member tables. Violations mean lowering itself is broken.
func Validate(c *Crate) error {
	var errs []error

	seen := make(map[resolve.DefID]map[ItemLocalID]struct{}, len(c.OwnerCounters))
	for owner := range c.OwnerCounters {
		// local 0 is the owner node itself, even for owners without a record
		seen[owner] = map[ItemLocalID]struct{}{0: {}}
	}
	w := &idWalker{visit: func(id HirID) {
		locals, ok := seen[id.Owner]
		if !ok {
			errs = append(errs, fmt.Errorf("hir id %s belongs to unknown owner", id))
			return
		}
		locals[id.Local] = struct{}{}
	}, itemRef: func(id resolve.DefID) {
		if _, ok := c.Items[id]; !ok {
			errs = append(errs, fmt.Errorf("item %d is referenced but was never lowered", id))
		}
	}}
	w.crate(c)

	owners := make([]resolve.DefID, 0, len(seen))
	for owner := range seen {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	for _, owner := range owners {
		n := c.OwnerCounters[owner]
		locals := seen[owner]
		for local := range locals {
			if uint32(local) >= n {
				errs = append(errs, fmt.Errorf("owner %d: local id %d beyond counter %d", owner, local, n))
			}
		}
		for i := uint32(0); i < n; i++ {
			if _, ok := locals[ItemLocalID(i)]; !ok {
				errs = append(errs, fmt.Errorf("owner %d: local id %d issued but unused", owner, i))
			}
		}
	}

	errs = append(errs, checkMembers(c)...)
	return errors.Join(errs...)
}

func checkMembers(c *Crate) []error {
	var errs []error
	traitChildren := make(map[resolve.DefID][]resolve.DefID)
	for _, id := range c.TraitItemOrder {
		p := c.TraitItems[id].Parent
		traitChildren[p] = append(traitChildren[p], id)
	}
	implChildren := make(map[resolve.DefID][]resolve.DefID)
	for _, id := range c.ImplItemOrder {
		p := c.ImplItems[id].Parent
		implChildren[p] = append(implChildren[p], id)
	}
	foreignChildren := make(map[resolve.DefID][]resolve.DefID)
	for _, id := range c.ForeignItemOrder {
		p := c.ForeignItems[id].Parent
		foreignChildren[p] = append(foreignChildren[p], id)
	}

	for _, id := range c.ItemOrder {
		it := c.Items[id]
		var refs []resolve.DefID
		var records []resolve.DefID
		switch it.Kind {
		case ItemTrait:
			for _, r := range it.Trait.Items {
				refs = append(refs, r.ID)
			}
			records = traitChildren[id]
		case ItemImpl:
			for _, r := range it.Impl.Items {
				refs = append(refs, r.ID)
			}
			records = implChildren[id]
		case ItemForeignMod:
			for _, r := range it.ForeignMod.Items {
				refs = append(refs, r.ID)
			}
			records = foreignChildren[id]
		default:
			continue
		}
		if !sameIDs(refs, records) {
			errs = append(errs, fmt.Errorf("%s %d: member refs %v disagree with records %v", it.Kind, id, refs, records))
		}
	}
	return errs
}

func sameIDs(a, b []resolve.DefID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
