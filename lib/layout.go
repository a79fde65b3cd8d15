package lib

import (
	"fmt"
	"strconv"
	"strings"
)

// Pin is a symbol pin. At is the connection point; the pin runs from there
// towards the body along Angle for Length.
type Pin struct {
	Number string
	Name   string
	Type   string
	At     Point
	Angle  int
	Length float64
}

type GraphicKind int

const (
	GraphicRect GraphicKind = iota
	GraphicPolyline
	GraphicArc
	GraphicCircle
)

/*
	Graphic is one body primitive. Rectangles use two corner points,
	polylines any number, arcs start/mid/end and circles a centre plus
	Radius.
*/
type Graphic struct {
	Kind   GraphicKind
	Points []Point
	Radius float64
	Width  float64
	Fill   string
}

// Label anchors a text field.
type Label struct {
	At      Point
	Angle   int
	Justify string
}

/*
	SymbolGeometry is the schematic side of a component, in mm with Y up.
*/
type SymbolGeometry struct {
	Style      string
	Family     string
	Footprint  string
	Pins       []Pin
	Body       Rect
	Graphics   []Graphic
	Reference  Label
	Value      Label
	ShowNames  bool
	ShowNums   bool
	NameOffset float64
}

type Pad struct {
	Number string
	Type   string
	Shape  string
	At     Point
	Size   Point
	Drill  float64
	RRatio float64
	Layers []string
}

func (p Pad) Bounds() Rect {
	return RectAround(p.At, p.Size.X, p.Size.Y)
}

/*
	FootprintGeometry is the board side of a component, in mm with Y down.
*/
type FootprintGeometry struct {
	Name        string
	Description string
	Tags        string
	SMD         bool
	Pads        []Pad
	Body        Rect
	Courtyard   Rect
	Silk        []Segment
	Fab         []Segment
	Crtyd       []Segment
	Reference   Label
	Value       Label
	Model       string
}

// Drawing constants, mm.
const (
	grid             = 2.54
	halfGrid         = 1.27
	pinLength        = 2.54
	connPinLength    = 3.81
	symbolLineWidth  = 0.254
	courtyardMargin  = 0.25
	courtyardStep    = 0.01
	silkOffset       = 0.11
	silkClearance    = 0.2
	silkWidth        = 0.12
	fabWidth         = 0.1
	courtyardWidth   = 0.05
	roundRectRatio   = 0.25
	labelGap         = 0.7
	twoTerminalPin   = 1.27
	twoTerminalWidth = 1.016
)

/*
	ComputeSymbolGeometry lays out the symbol of c. It is a pure function of
	the attribute set and the rule table.
*/
func ComputeSymbolGeometry(rules *Rules, c *Component) (*SymbolGeometry, error) {
	f, err := matchFamily(rules, c, ForSymbol)
	if err != nil {
		return nil, err
	}

	pins := symbolPins(c)
	var g *SymbolGeometry
	switch f.Symbol.Style {
	case StyleTwoTerminal:
		g = twoTerminalSymbol(f, c, pins)
	case StyleConnector:
		g = connectorSymbol(f, pins)
	default:
		g = boxSymbol(f, pins)
	}
	g.Style = f.Symbol.Style
	g.Family = f.Name + "@" + f.Version
	g.Footprint = f.FootprintName(c.Role(), c.PinCount())
	return g, nil
}

// ComputeFootprintGeometry lays out the footprint of c.
func ComputeFootprintGeometry(rules *Rules, c *Component) (*FootprintGeometry, error) {
	f, err := matchFamily(rules, c, ForFootprint)
	if err != nil {
		return nil, err
	}

	n := c.PinCount()
	var g *FootprintGeometry
	switch f.Footprint.Pattern {
	case PatternChip:
		g = chipFootprint(f)
	case PatternDual:
		g = dualFootprint(f, n)
	case PatternQuad:
		g = quadFootprint(f, n)
	default:
		g = headerFootprint(f, n)
	}

	pads := len(g.Pads)
	if f.Footprint.Pattern == PatternQuad && f.Footprint.ExposedPad > 0 {
		pads--
	}
	if pads != n {
		return nil, invalidValue(KindPinCount, strconv.Itoa(n),
			fmt.Sprintf("family %s places %d pads", f.Name, pads))
	}

	role := c.Role()
	spec := roleSpecs[role]
	g.Name = f.FootprintName(role, n)
	g.Description = fmt.Sprintf("%s %s, %d pins", spec.title, f.Package, n)
	g.Tags = strings.TrimSpace(spec.prefix + " " + f.Package + " " + f.Footprint.Pattern)
	g.Model = f.modelPath(role, n)
	finishFootprint(g)
	return g, nil
}

func matchFamily(rules *Rules, c *Component, purpose Purpose) (*Family, error) {
	if err := c.requireFor(purpose); err != nil {
		return nil, err
	}
	f, err := rules.Match(c.Role(), c.Package())
	if err != nil {
		return nil, err
	}
	if n := c.PinCount(); !f.Pins.Accepts(n) {
		return nil, invalidValue(KindPinCount, strconv.Itoa(n),
			fmt.Sprintf("family %s accepts %d..%d", f.Name, f.Pins.Min, f.Pins.Max))
	}
	return f, nil
}

// symbolPins numbers the pins and fills in names and electrical types.
func symbolPins(c *Component) []Pin {
	n := c.PinCount()
	spec := roleSpecs[c.Role()]

	typ := spec.pinType
	if v, ok := c.Get(KindPinType); ok {
		typ = v.String()
	}

	var names []string
	if v, ok := c.Get(KindPinNames); ok {
		names = strings.Split(v.String(), ",")
	}

	pins := make([]Pin, n)
	for i := range pins {
		num := strconv.Itoa(i + 1)
		name := "~"
		if spec.body == "box" || spec.body == "connector" {
			name = "Pin_" + num
		}
		if i < len(names) {
			name = names[i]
		}
		pins[i] = Pin{Number: num, Name: name, Type: typ}
	}
	return pins
}
