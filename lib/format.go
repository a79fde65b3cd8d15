package lib

import (
	"fmt"
	"strings"
)

/*
	Part bundles a component with the geometry computed for it. Footprint is
	nil when the footprint could not be laid out.
*/
type Part struct {
	Component *Component
	Symbol    *SymbolGeometry
	Footprint *FootprintGeometry
}

/*
	Emitter renders geometry in one CAD format. All format and version
	differences live behind this interface.
*/
type Emitter interface {
	Name() string
	Extension() string
	EmitSymbol(c *Component, g *SymbolGeometry) (string, error)
	EmitFootprint(c *Component, g *FootprintGeometry) (string, error)
	EmitLibrary(name string, parts []Part) (string, error)
}

// SymbolParser is implemented by emitters that can read their own output.
type SymbolParser interface {
	ParseSymbol(reg *Registry, text string) (*Component, error)
	ParseLibrary(reg *Registry, text string) ([]*Component, error)
}

// NewEmitter picks an emitter by format name.
func NewEmitter(format string, kicadVersion int) (Emitter, error) {
	switch strings.ToLower(format) {
	case "", "kicad":
		return NewKiCad(kicadVersion)
	case "eagle":
		return NewEagle(), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", ErrUnsupported, format)
}

// DisplayValue is the text of a symbol's Value field.
func DisplayValue(c *Component) string {
	spec := roleSpecs[c.Role()]
	if spec.valueKind != "" {
		if v, ok := c.number(spec.valueKind); ok {
			return FormatEngineering(v)
		}
	}
	if v, ok := c.Get(KindMPN); ok {
		return v.String()
	}
	return c.Name()
}

// DefaultDescription summarises the component when no description is set.
func DefaultDescription(c *Component) string {
	spec := roleSpecs[c.Role()]
	title := spec.title
	if title == "" {
		title = "Component"
	}

	parts := []string{}
	if spec.valueKind != "" {
		if _, ok := c.number(spec.valueKind); ok {
			parts = append(parts, DisplayValue(c))
		}
	}
	if pkg := c.Package(); pkg != "" {
		parts = append(parts, pkg)
	}
	if v, ok := c.number(KindTolerance); ok {
		parts = append(parts, formatNumber(v)+"%")
	}
	if v, ok := c.number(KindPower); ok {
		parts = append(parts, FormatEngineering(v)+"W")
	}
	if v, ok := c.number(KindVoltage); ok {
		parts = append(parts, FormatEngineering(v)+"V")
	}
	if v, ok := c.Get(KindDielectric); ok {
		parts = append(parts, v.String())
	}

	if len(parts) == 0 {
		return title
	}
	return title + " " + strings.Join(parts, ", ")
}

// Description returns the description attribute or the default one.
func Description(c *Component) string {
	if v, ok := c.Get(KindDescription); ok {
		return v.String()
	}
	return DefaultDescription(c)
}

// Keywords returns the keywords attribute or the role's defaults.
func Keywords(c *Component) string {
	if v, ok := c.Get(KindKeywords); ok {
		return v.String()
	}
	return roleSpecs[c.Role()].keywords
}

// Datasheet returns the datasheet link, "~" when there is none.
func Datasheet(c *Component) string {
	if v, ok := c.Get(KindDatasheet); ok {
		return v.String()
	}
	return "~"
}

// ReferencePrefix returns the designator prefix of the role.
func ReferencePrefix(c *Component) string {
	if p := roleSpecs[c.Role()].prefix; p != "" {
		return p
	}
	return "U"
}

// kinds written by the standard fields rather than as their own property
var derivedKinds = map[Kind]bool{
	KindDatasheet:   true,
	KindDescription: true,
	KindKeywords:    true,
}
