package ast

import "hirlower/internal/source"

// Crate is the root of a surface tree.
type Crate struct {
	Attrs  []Attribute
	Module Mod
	Span   source.Span
}

// Walk calls fn for every module-level item in declaration order, descending
// into inline modules. Walking stops early when fn returns false.
func (c *Crate) Walk(fn func(*Item) bool) {
	walkItems(c.Module.Items, fn)
}

func walkItems(items []*Item, fn func(*Item) bool) bool {
	for _, it := range items {
		if !fn(it) {
			return false
		}
		if it.Kind == ItemMod && it.Mod != nil {
			if !walkItems(it.Mod.Items, fn) {
				return false
			}
		}
	}
	return true
}
