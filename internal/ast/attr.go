package ast

import "hirlower/internal/source"

// Attribute is an outer attribute like `#[macro_export]` or `#[inline(always)]`.
// Args keeps the raw token text between the brackets after the name.
type Attribute struct {
	ID   NodeID
	Name string
	Args string
	Span source.Span
}

// ContainsName reports whether attrs include one named name.
func ContainsName(attrs []Attribute, name string) bool {
	for i := range attrs {
		if attrs[i].Name == name {
			return true
		}
	}
	return false
}
