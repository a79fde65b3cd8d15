package lib

/*
	Catalog is the ordered set of components written to one library file.
	Names are unique and insertion order is emission order. A catalog is not
	safe for concurrent mutation; build one per worker and Merge them.
*/
type Catalog struct {
	name       string
	components []*Component
	index      map[string]int
}

func NewCatalog(name string) *Catalog {
	return &Catalog{
		name:  name,
		index: make(map[string]int),
	}
}

func (cat *Catalog) Name() string { return cat.name }

// Add appends c. On failure the catalog is unchanged.
func (cat *Catalog) Add(c *Component) error {
	if c.owner != nil && c.owner != cat {
		return &EntityError{Symbol: c.Name(), Err: ErrOwned}
	}
	if _, ok := cat.index[c.Name()]; ok {
		return &EntityError{Symbol: c.Name(), Err: ErrDuplicateName}
	}

	cat.index[c.Name()] = len(cat.components)
	cat.components = append(cat.components, c)
	c.owner = cat
	return nil
}

// Remove drops the named component and releases it. Unknown names are
// ignored.
func (cat *Catalog) Remove(name string) {
	i, ok := cat.index[name]
	if !ok {
		return
	}

	cat.components[i].owner = nil
	cat.components = append(cat.components[:i], cat.components[i+1:]...)
	delete(cat.index, name)
	for j := i; j < len(cat.components); j++ {
		cat.index[cat.components[j].Name()] = j
	}
}

func (cat *Catalog) Get(name string) (*Component, bool) {
	i, ok := cat.index[name]
	if !ok {
		return nil, false
	}
	return cat.components[i], true
}

func (cat *Catalog) Len() int {
	return len(cat.components)
}

// Components returns the components in insertion order.
func (cat *Catalog) Components() []*Component {
	return append([]*Component(nil), cat.components...)
}

/*
	Merge moves every component of other into cat, keeping other's order.
	It stops at the first name clash; components moved before that stay
	moved.
*/
func (cat *Catalog) Merge(other *Catalog) error {
	for _, c := range other.Components() {
		if _, ok := cat.index[c.Name()]; ok {
			return &EntityError{Symbol: c.Name(), Err: ErrDuplicateName}
		}
		other.Remove(c.Name())
		if err := cat.Add(c); err != nil {
			return err
		}
	}
	return nil
}
