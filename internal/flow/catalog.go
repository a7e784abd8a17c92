package flow

import "sort"

// Catalog holds the flows hosted by one server process. It is populated once
// at startup and never mutated afterwards, so concurrent reads need no
// synchronization.
type Catalog struct {
	byID  map[string]*Flow
	metas []Meta
}

// NewCatalog builds a catalog from loaded flows. The listing is ordered by
// relative path so catalog output is stable across restarts.
func NewCatalog(flows []*Flow) *Catalog {
	c := &Catalog{
		byID:  make(map[string]*Flow, len(flows)),
		metas: make([]Meta, 0, len(flows)),
	}
	for _, f := range flows {
		c.byID[f.Meta.ID] = f
		c.metas = append(c.metas, f.Meta)
	}
	sort.Slice(c.metas, func(i, j int) bool {
		return c.metas[i].RelativePath < c.metas[j].RelativePath
	})
	return c
}

// Get returns the flow with the given ID, or nil if it is not hosted here.
func (c *Catalog) Get(id string) *Flow {
	return c.byID[id]
}

// List returns catalog metadata for every hosted flow.
func (c *Catalog) List() []Meta {
	return c.metas
}

// Len returns the number of hosted flows.
func (c *Catalog) Len() int {
	return len(c.byID)
}
