package lib

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"unicode"

	"github.com/vmihailenco/msgpack/v5"
)

// Purpose selects which attribute kinds a component must carry.
type Purpose int

const (
	ForSymbol Purpose = iota
	ForFootprint
	ForDatabase
)

func (p Purpose) String() string {
	switch p {
	case ForSymbol:
		return "symbol"
	case ForFootprint:
		return "footprint"
	case ForDatabase:
		return "database"
	}
	return "unknown"
}

// State is where a component sits in its generate cycle.
type State int

const (
	Draft State = iota
	Valid
	Generated
	Emitted
)

func (s State) String() string {
	return [...]string{"draft", "valid", "generated", "emitted"}[s]
}

const disallowedNameChars = "\"()':/\\"

/*
	Component is one part to generate: a name plus an unordered set of
	attributes, at most one per kind. Everything the layout engine and the
	emitters produce is derived from that set.
*/
type Component struct {
	name  string
	attrs map[Kind]Value
	reg   *Registry
	owner *Catalog

	symbol    *SymbolGeometry
	footprint *FootprintGeometry
	cacheKey  string
	emitted   bool
}

// NewComponent creates an empty component.
func NewComponent(reg *Registry, name string) (*Component, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return &Component{
		name:  name,
		attrs: make(map[Kind]Value),
		reg:   reg,
	}, nil
}

func checkName(name string) error {
	if name == "" {
		return &EntityError{Symbol: name, Err: ErrInvalidName}
	}
	if strings.ContainsAny(name, disallowedNameChars) || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return &EntityError{Symbol: name, Err: ErrInvalidName}
	}
	return nil
}

func (c *Component) Name() string { return c.name }

func (c *Component) Registry() *Registry { return c.reg }

// Set validates value and replaces any prior value of kind.
func (c *Component) Set(kind Kind, value Value) error {
	if err := c.reg.Validate(kind, value); err != nil {
		return err
	}
	c.attrs[kind] = c.reg.normalize(kind, value)
	c.invalidate()
	return nil
}

// SetString parses raw according to the kind's shape, then sets it.
func (c *Component) SetString(kind Kind, raw string) error {
	v, err := c.reg.Parse(kind, raw)
	if err != nil {
		return err
	}
	c.attrs[kind] = v
	c.invalidate()
	return nil
}

// Remove drops kind. Removing an absent kind does nothing.
func (c *Component) Remove(kind Kind) {
	if _, ok := c.attrs[kind]; !ok {
		return
	}
	delete(c.attrs, kind)
	c.invalidate()
}

// Get returns the value of kind.
func (c *Component) Get(kind Kind) (Value, bool) {
	v, ok := c.attrs[kind]
	return v, ok
}

// Has reports whether kind is set.
func (c *Component) Has(kind Kind) bool {
	_, ok := c.attrs[kind]
	return ok
}

func (c *Component) text(kind Kind) string {
	if v, ok := c.attrs[kind]; ok {
		return v.String()
	}
	return ""
}

func (c *Component) number(kind Kind) (float64, bool) {
	v, ok := c.attrs[kind]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Role returns the electrical role, or "" when unset.
func (c *Component) Role() string { return c.text(KindRole) }

// Package returns the package name, or "" when unset.
func (c *Component) Package() string { return c.text(KindPackage) }

// PinCount returns the pin count, or 0 when unset.
func (c *Component) PinCount() int {
	if v, ok := c.attrs[KindPinCount]; ok {
		n, _ := v.Int()
		return n
	}
	return 0
}

// Attributes lists the attribute set ordered by registration order.
func (c *Component) Attributes() []Attribute {
	kinds := make([]Kind, 0, len(c.attrs))
	for k := range c.attrs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		ri, rj := c.reg.rank(kinds[i]), c.reg.rank(kinds[j])
		if ri != rj {
			return ri < rj
		}
		return kinds[i] < kinds[j]
	})

	attrs := make([]Attribute, len(kinds))
	for i, k := range kinds {
		attrs[i] = Attribute{Kind: k, Value: c.attrs[k]}
	}
	return attrs
}

// Missing lists the kinds mandated for purpose that are not set. Without a
// role nothing can be mandated, so the role itself is reported.
func (c *Component) Missing(purpose Purpose) []Kind {
	role, ok := roleSpecs[c.Role()]
	if !ok {
		return []Kind{KindRole}
	}

	var missing []Kind
	for _, k := range role.required(purpose) {
		if !c.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// RequiredAttributesPresent reports whether every kind the role mandates for
// purpose is set.
func (c *Component) RequiredAttributesPresent(purpose Purpose) bool {
	return len(c.Missing(purpose)) == 0
}

func (c *Component) requireFor(purpose Purpose) error {
	missing := c.Missing(purpose)
	if len(missing) == 0 {
		return nil
	}
	return &MissingAttributeError{Symbol: c.name, Purpose: purpose, Kinds: missing}
}

// State derives the lifecycle state from the cache and emission flags.
func (c *Component) State() State {
	switch {
	case c.emitted:
		return Emitted
	case c.symbol != nil || c.footprint != nil:
		return Generated
	case c.RequiredAttributesPresent(ForSymbol):
		return Valid
	}
	return Draft
}

func (c *Component) invalidate() {
	c.symbol = nil
	c.footprint = nil
	c.cacheKey = ""
	c.emitted = false
}

type attributeRecord struct {
	Kind   string  `msgpack:"k"`
	Text   string  `msgpack:"t,omitempty"`
	Number float64 `msgpack:"n,omitempty"`
	IsNum  bool    `msgpack:"i,omitempty"`
}

// Hash identifies the attribute set. The name does not take part, so two
// components with equal attributes share a hash.
func (c *Component) Hash() string {
	attrs := c.Attributes()
	list := make([]attributeRecord, len(attrs))
	for i, a := range attrs {
		list[i] = attributeRecord{
			Kind:   string(a.Kind),
			Text:   a.Value.text,
			Number: a.Value.number,
			IsNum:  a.Value.isNum,
		}
	}

	// encoding a slice of flat structs cannot fail
	b, _ := msgpack.Marshal(list)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Clone copies the attribute set under a new name. The copy has no owner.
func (c *Component) Clone(name string) (*Component, error) {
	clone, err := NewComponent(c.reg, name)
	if err != nil {
		return nil, err
	}
	for k, v := range c.attrs {
		clone.attrs[k] = v
	}
	return clone, nil
}

// Owner returns the catalog holding the component, if any.
func (c *Component) Owner() *Catalog {
	return c.owner
}
