package hir

import (
	"fmt"

	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// ModuleItems lists what a module declares, by table.
type ModuleItems struct {
	Items        []resolve.DefID
	TraitItems   []resolve.DefID
	ImplItems    []resolve.DefID
	ForeignItems []resolve.DefID
}

// Crate is the output of one lowering run. Tables are filled once and are
// read-only afterwards.
type Crate struct {
	Root *Mod

	Items        map[resolve.DefID]*Item
	TraitItems   map[resolve.DefID]*TraitItem
	ImplItems    map[resolve.DefID]*ImplItem
	ForeignItems map[resolve.DefID]*ForeignItem
	Bodies       map[BodyID]*Body

	// Insertion order of the tables above.
	ItemOrder        []resolve.DefID
	TraitItemOrder   []resolve.DefID
	ImplItemOrder    []resolve.DefID
	ForeignItemOrder []resolve.DefID
	BodyOrder        []BodyID

	ExportedMacros        []MacroDef
	NonExportedMacroAttrs []Attribute
	Attrs                 map[HirID][]Attribute
	Modules               map[resolve.DefID]*ModuleItems
	TraitImpls            map[resolve.DefID][]resolve.DefID

	// OwnerCounters holds the number of local ids issued per owner.
	OwnerCounters map[resolve.DefID]uint32

	Strings *source.Interner
}

// NewCrate creates empty tables sharing strings.
func NewCrate(strings *source.Interner) *Crate {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Crate{
		Items:         make(map[resolve.DefID]*Item),
		TraitItems:    make(map[resolve.DefID]*TraitItem),
		ImplItems:     make(map[resolve.DefID]*ImplItem),
		ForeignItems:  make(map[resolve.DefID]*ForeignItem),
		Bodies:        make(map[BodyID]*Body),
		Attrs:         make(map[HirID][]Attribute),
		Modules:       make(map[resolve.DefID]*ModuleItems),
		TraitImpls:    make(map[resolve.DefID][]resolve.DefID),
		OwnerCounters: make(map[resolve.DefID]uint32),
		Strings:       strings,
	}
}

// InsertItem stores it; a second item with the same id is an error.
func (c *Crate) InsertItem(it *Item) error {
	if _, dup := c.Items[it.DefID]; dup {
		return fmt.Errorf("item %d inserted twice", it.DefID)
	}
	c.Items[it.DefID] = it
	c.ItemOrder = append(c.ItemOrder, it.DefID)
	return nil
}

func (c *Crate) InsertTraitItem(it *TraitItem) error {
	if _, dup := c.TraitItems[it.DefID]; dup {
		return fmt.Errorf("trait item %d inserted twice", it.DefID)
	}
	c.TraitItems[it.DefID] = it
	c.TraitItemOrder = append(c.TraitItemOrder, it.DefID)
	return nil
}

func (c *Crate) InsertImplItem(it *ImplItem) error {
	if _, dup := c.ImplItems[it.DefID]; dup {
		return fmt.Errorf("impl item %d inserted twice", it.DefID)
	}
	c.ImplItems[it.DefID] = it
	c.ImplItemOrder = append(c.ImplItemOrder, it.DefID)
	return nil
}

func (c *Crate) InsertForeignItem(it *ForeignItem) error {
	if _, dup := c.ForeignItems[it.DefID]; dup {
		return fmt.Errorf("foreign item %d inserted twice", it.DefID)
	}
	c.ForeignItems[it.DefID] = it
	c.ForeignItemOrder = append(c.ForeignItemOrder, it.DefID)
	return nil
}

func (c *Crate) InsertBody(b *Body) (BodyID, error) {
	id := b.ID()
	if _, dup := c.Bodies[id]; dup {
		return id, fmt.Errorf("body %s inserted twice", id.HirID)
	}
	c.Bodies[id] = b
	c.BodyOrder = append(c.BodyOrder, id)
	return id, nil
}

// Module returns the entry of module def, creating it on first use.
func (c *Crate) Module(def resolve.DefID) *ModuleItems {
	m := c.Modules[def]
	if m == nil {
		m = &ModuleItems{}
		c.Modules[def] = m
	}
	return m
}

// Name returns the spelling of an identifier.
func (c *Crate) Name(id Ident) string {
	if s, ok := c.Strings.Lookup(id.Name); ok {
		return s
	}
	return ""
}

// Body returns the body stored under id, or nil.
func (c *Crate) Body(id BodyID) *Body { return c.Bodies[id] }

// ItemsOf returns the items of kind in insertion order.
func (c *Crate) ItemsOf(kind ItemKind) []*Item {
	var out []*Item
	for _, id := range c.ItemOrder {
		if it := c.Items[id]; it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// FindItem returns the first item with the given kind and name.
func (c *Crate) FindItem(kind ItemKind, name string) *Item {
	for _, it := range c.ItemsOf(kind) {
		if c.Name(it.Ident) == name {
			return it
		}
	}
	return nil
}
