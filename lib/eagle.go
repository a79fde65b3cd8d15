package lib

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"
)

/*
	Eagle .lbr documents. The structs follow the eagle.dtd element names; only
	the parts a generated library needs are modelled.
*/

type EagleLibrary struct {
	XMLName     xml.Name                 `xml:"eagle"`
	Version     string                   `xml:"version,attr"`
	Settings    []*EagleLibrarySetting   `xml:"drawing>settings>setting"`
	Grid        *EagleLibraryGrid        `xml:"drawing>grid"`
	Layers      []*EagleLibraryLayer     `xml:"drawing>layers>layer"`
	Description string                   `xml:"drawing>library>description"`
	Packages    []*EagleLibraryPackage   `xml:"drawing>library>packages>package"`
	Symbols     []*EagleLibrarySymbol    `xml:"drawing>library>symbols>symbol"`
	DevicesSets []*EagleLibraryDeviceSet `xml:"drawing>library>devicesets>deviceset"`
}

type EagleLibrarySetting struct {
	Attr xml.Attr `xml:",any,attr"`
}

type EagleLibraryGrid struct {
	Distance    string `xml:"distance,attr"`
	Unitdist    string `xml:"unitdist,attr"`
	Unit        string `xml:"unit,attr"`
	Style       string `xml:"style,attr"`
	Multiple    string `xml:"multiple,attr"`
	Display     string `xml:"display,attr"`
	Altdistance string `xml:"altdistance,attr"`
	Altunitdist string `xml:"altunitdist,attr"`
	Altunit     string `xml:"altunit,attr"`
}

type EagleLibraryLayer struct {
	Number  string `xml:"number,attr"`
	Name    string `xml:"name,attr"`
	Color   string `xml:"color,attr"`
	Fill    string `xml:"fill,attr"`
	Visible string `xml:"visible,attr"`
	Active  string `xml:"active,attr"`
}

type EagleLibraryPackage struct {
	Name        string                    `xml:"name,attr"`
	Description string                    `xml:"description"`
	SMDs        []*EagleLibrarySMD        `xml:"smd"`
	Pads        []*EagleLibraryPackagePad `xml:"pad"`
	Wires       []*EagleLibraryWire       `xml:"wire"`
	Texts       []*EagleLibraryText       `xml:"text"`
	Rectangles  []*EagleLibraryRectangle  `xml:"rectangle"`
	Polygons    []*EagleLibraryPolygon    `xml:"polygon"`
	Circles     []*EagleLibraryCircle     `xml:"circle"`
}

type EagleLibrarySMD struct {
	Name      string `xml:"name,attr"`
	X         string `xml:"x,attr"`
	Y         string `xml:"y,attr"`
	Dx        string `xml:"dx,attr"`
	Dy        string `xml:"dy,attr"`
	Layer     string `xml:"layer,attr"`
	Roundness string `xml:"roundness,attr,omitempty"`
}

type EagleLibraryText struct {
	X     string `xml:"x,attr"`
	Y     string `xml:"y,attr"`
	Size  string `xml:"size,attr"`
	Layer string `xml:"layer,attr"`
	Rot   string `xml:"rot,attr,omitempty"`
	Align string `xml:"align,attr,omitempty"`
	Text  string `xml:",chardata"`
}

type EagleLibraryWire struct {
	X1    string `xml:"x1,attr"`
	Y1    string `xml:"y1,attr"`
	X2    string `xml:"x2,attr"`
	Y2    string `xml:"y2,attr"`
	Width string `xml:"width,attr"`
	Layer string `xml:"layer,attr"`
	Curve string `xml:"curve,attr,omitempty"`
}

type EagleLibraryRectangle struct {
	X1    string `xml:"x1,attr"`
	Y1    string `xml:"y1,attr"`
	X2    string `xml:"x2,attr"`
	Y2    string `xml:"y2,attr"`
	Layer string `xml:"layer,attr"`
}

type EagleLibraryPackagePad struct {
	Name     string `xml:"name,attr"`
	X        string `xml:"x,attr"`
	Y        string `xml:"y,attr"`
	Drill    string `xml:"drill,attr"`
	Diameter string `xml:"diameter,attr"`
	Shape    string `xml:"shape,attr,omitempty"`
}

type EagleLibraryPolygon struct {
	Width    string                `xml:"width,attr"`
	Layer    string                `xml:"layer,attr"`
	Vertices []*EagleLibraryVertex `xml:"vertex"`
}

type EagleLibraryVertex struct {
	X     string `xml:"x,attr"`
	Y     string `xml:"y,attr"`
	Curve string `xml:"curve,attr,omitempty"`
}

type EagleLibraryCircle struct {
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Radius string `xml:"radius,attr"`
	Width  string `xml:"width,attr"`
	Layer  string `xml:"layer,attr"`
}

type EagleLibraryPin struct {
	Name      string `xml:"name,attr"`
	X         string `xml:"x,attr"`
	Y         string `xml:"y,attr"`
	Visible   string `xml:"visible,attr"`
	Length    string `xml:"length,attr"`
	Direction string `xml:"direction,attr"`
	Swaplevel string `xml:"swaplevel,attr"`
	Rot       string `xml:"rot,attr"`
}

type EagleLibrarySymbol struct {
	Name        string                   `xml:"name,attr"`
	Description string                   `xml:"description,omitempty"`
	Wires       []*EagleLibraryWire      `xml:"wire"`
	Circles     []*EagleLibraryCircle    `xml:"circle"`
	Polygons    []*EagleLibraryPolygon   `xml:"polygon"`
	Rectangles  []*EagleLibraryRectangle `xml:"rectangle"`
	Texts       []*EagleLibraryText      `xml:"text"`
	Pins        []*EagleLibraryPin       `xml:"pin"`
}

type EagleLibraryDeviceSet struct {
	Name        string                `xml:"name,attr"`
	Prefix      string                `xml:"prefix,attr"`
	Description string                `xml:"description"`
	Gates       []*EagleLibraryGate   `xml:"gates>gate"`
	Devices     []*EagleLibraryDevice `xml:"devices>device"`
}

type EagleLibraryGate struct {
	Name   string `xml:"name,attr"`
	Symbol string `xml:"symbol,attr"`
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
}

type EagleLibraryDevice struct {
	Name         string                    `xml:"name,attr"`
	Package      string                    `xml:"package,attr,omitempty"`
	Connects     []*EagleLibraryConnect    `xml:"connects>connect"`
	Technologies []*EagleLibraryTechnology `xml:"technologies>technology"`
}

type EagleLibraryConnect struct {
	Gate string `xml:"gate,attr"`
	Pin  string `xml:"pin,attr"`
	Pad  string `xml:"pad,attr"`
}

type EagleLibraryTechnology struct {
	Name       string                   `xml:"name,attr"`
	Attributes []*EagleLibraryAttribute `xml:"attribute"`
}

type EagleLibraryAttribute struct {
	Name     string `xml:"name,attr"`
	Value    string `xml:"value,attr"`
	Constant string `xml:"constant,attr,omitempty"`
}

// Eagle layer numbers used by generated libraries.
const (
	eagleTop      = "1"
	eagleTPlace   = "21"
	eagleTNames   = "25"
	eagleTValues  = "27"
	eagleTKeepout = "39"
	eagleTDocu    = "51"
	eagleNets     = "91"
	eagleSymbols  = "94"
	eagleNames    = "95"
	eagleValues   = "96"
)

/*
	NewEagleLibrary returns an empty library with the layers the generated
	symbols and packages draw on.
*/
func NewEagleLibrary() *EagleLibrary {
	layer := func(num, name, color string) *EagleLibraryLayer {
		return &EagleLibraryLayer{Number: num, Name: name, Color: color, Fill: "1", Visible: "yes", Active: "yes"}
	}
	return &EagleLibrary{
		Version: "9.6.2",
		Settings: []*EagleLibrarySetting{
			{Attr: xml.Attr{Name: xml.Name{Local: "alwaysvectorfont"}, Value: "no"}},
			{Attr: xml.Attr{Name: xml.Name{Local: "verticaltext"}, Value: "up"}},
		},
		Grid: &EagleLibraryGrid{
			Distance: "0.1", Unitdist: "inch", Unit: "inch", Style: "lines", Multiple: "1",
			Display: "no", Altdistance: "0.01", Altunitdist: "inch", Altunit: "inch",
		},
		Layers: []*EagleLibraryLayer{
			layer(eagleTop, "Top", "4"),
			layer("16", "Bottom", "1"),
			layer("17", "Pads", "2"),
			layer("18", "Vias", "2"),
			layer("20", "Dimension", "24"),
			layer(eagleTPlace, "tPlace", "7"),
			layer(eagleTNames, "tNames", "7"),
			layer(eagleTValues, "tValues", "7"),
			layer("29", "tStop", "7"),
			layer("31", "tCream", "7"),
			layer(eagleTKeepout, "tKeepout", "4"),
			layer(eagleTDocu, "tDocu", "7"),
			layer(eagleNets, "Nets", "2"),
			layer(eagleSymbols, "Symbols", "4"),
			layer(eagleNames, "Names", "7"),
			layer(eagleValues, "Values", "7"),
		},
	}
}

// Eagle writes .lbr XML libraries.
type Eagle struct{}

func NewEagle() *Eagle {
	return &Eagle{}
}

func (e *Eagle) Name() string      { return "eagle" }
func (e *Eagle) Extension() string { return ".lbr" }

func (e *Eagle) EmitSymbol(c *Component, g *SymbolGeometry) (string, error) {
	if g == nil {
		return "", fmt.Errorf("%s: no symbol geometry", c.Name())
	}
	return marshalEagle(eagleSymbol(c, g))
}

func (e *Eagle) EmitFootprint(c *Component, g *FootprintGeometry) (string, error) {
	if g == nil {
		return "", fmt.Errorf("%s: no footprint geometry", c.Name())
	}
	return marshalEagle(eaglePackage(g))
}

/*
	EmitLibrary writes one deviceset per part. Packages are shared by name,
	so parts using the same footprint reference one package.
*/
func (e *Eagle) EmitLibrary(name string, parts []Part) (string, error) {
	lib := NewEagleLibrary()
	lib.Description = name

	seen := map[string]bool{}
	for _, p := range parts {
		c := p.Component
		sym := eagleSymbol(c, p.Symbol)
		lib.Symbols = append(lib.Symbols, sym)

		device := &EagleLibraryDevice{
			Technologies: []*EagleLibraryTechnology{{Attributes: eagleAttributes(c)}},
		}
		if p.Footprint != nil {
			if !seen[p.Footprint.Name] {
				seen[p.Footprint.Name] = true
				lib.Packages = append(lib.Packages, eaglePackage(p.Footprint))
			}
			device.Package = p.Footprint.Name
			for i, pin := range sym.Pins {
				device.Connects = append(device.Connects, &EagleLibraryConnect{
					Gate: "G$1",
					Pin:  pin.Name,
					Pad:  p.Symbol.Pins[i].Number,
				})
			}
		}

		lib.DevicesSets = append(lib.DevicesSets, &EagleLibraryDeviceSet{
			Name:        c.Name(),
			Prefix:      ReferencePrefix(c),
			Description: Description(c),
			Gates: []*EagleLibraryGate{
				{Name: "G$1", Symbol: sym.Name, X: "0", Y: "0"},
			},
			Devices: []*EagleLibraryDevice{device},
		})
	}

	body, err := marshalEagle(lib)
	if err != nil {
		return "", err
	}
	return xml.Header + "<!DOCTYPE eagle SYSTEM \"eagle.dtd\">\n" + body + "\n", nil
}

func marshalEagle(v interface{}) (string, error) {
	b, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode eagle xml: %w", err)
	}
	return string(b), nil
}

var eagleDirections = map[string]string{
	"input":          "in",
	"output":         "out",
	"bidirectional":  "io",
	"tri_state":      "hiz",
	"passive":        "pas",
	"power_in":       "pwr",
	"power_out":      "sup",
	"open_collector": "oc",
	"open_emitter":   "oc",
	"no_connect":     "nc",
}

func eagleLength(l float64) string {
	switch {
	case l <= 0:
		return "point"
	case l <= 2.54:
		return "short"
	case l <= 5.08:
		return "middle"
	}
	return "long"
}

/*
	eaglePinNames makes pin names unique within a symbol. Unnamed pins take
	their number; repeated names get the @n suffix Eagle uses for that.
*/
func eaglePinNames(pins []Pin) []string {
	names := make([]string, len(pins))
	count := map[string]int{}
	for i, p := range pins {
		name := p.Name
		if name == "~" || name == "" {
			name = p.Number
		}
		count[name]++
		names[i] = name
	}
	seen := map[string]int{}
	for i, name := range names {
		if count[name] > 1 {
			seen[name]++
			names[i] = fmt.Sprintf("%s@%d", name, seen[name])
		}
	}
	return names
}

func eagleSymbol(c *Component, g *SymbolGeometry) *EagleLibrarySymbol {
	sym := &EagleLibrarySymbol{Name: c.Name()}
	width := formatNumber(symbolLineWidth)

	for _, gr := range g.Graphics {
		switch gr.Kind {
		case GraphicRect:
			r := Rect{Min: gr.Points[0], Max: gr.Points[1]}
			for _, s := range r.Outline(gr.Width, eagleSymbols) {
				sym.Wires = append(sym.Wires, eagleWire(s, 1))
			}
		case GraphicCircle:
			sym.Circles = append(sym.Circles, &EagleLibraryCircle{
				X: formatNumber(gr.Points[0].X), Y: formatNumber(gr.Points[0].Y),
				Radius: formatNumber(gr.Radius), Width: width, Layer: eagleSymbols,
			})
		case GraphicArc:
			w := eagleWire(Segment{Start: gr.Points[0], End: gr.Points[2], Width: gr.Width, Layer: eagleSymbols}, 1)
			w.Curve = formatNumber(arcSweep(gr.Points[0], gr.Points[1], gr.Points[2]))
			sym.Wires = append(sym.Wires, w)
		default:
			for i := 1; i < len(gr.Points); i++ {
				sym.Wires = append(sym.Wires, eagleWire(Segment{
					Start: gr.Points[i-1], End: gr.Points[i], Width: gr.Width, Layer: eagleSymbols,
				}, 1))
			}
		}
	}

	sym.Texts = []*EagleLibraryText{
		eagleLabel(g.Reference, ">NAME", eagleNames, 1),
		eagleLabel(g.Value, ">VALUE", eagleValues, 1),
	}

	visible := "both"
	switch {
	case !g.ShowNames && !g.ShowNums:
		visible = "off"
	case !g.ShowNames:
		visible = "pad"
	case !g.ShowNums:
		visible = "pin"
	}

	names := eaglePinNames(g.Pins)
	for i, p := range g.Pins {
		dir, ok := eagleDirections[p.Type]
		if !ok {
			dir = "pas"
		}
		sym.Pins = append(sym.Pins, &EagleLibraryPin{
			Name:      names[i],
			X:         formatNumber(p.At.X),
			Y:         formatNumber(p.At.Y),
			Visible:   visible,
			Length:    eagleLength(p.Length),
			Direction: dir,
			Swaplevel: "0",
			Rot:       fmt.Sprintf("R%d", p.Angle),
		})
	}
	return sym
}

// eaglePackage converts a footprint; Eagle's Y axis points up, so Y flips.
func eaglePackage(g *FootprintGeometry) *EagleLibraryPackage {
	pkg := &EagleLibraryPackage{Name: g.Name, Description: g.Description}

	for _, p := range g.Pads {
		if p.Type == "smd" {
			smd := &EagleLibrarySMD{
				Name:  p.Number,
				X:     formatNumber(p.At.X),
				Y:     formatNumber(-p.At.Y),
				Dx:    formatNumber(p.Size.X),
				Dy:    formatNumber(p.Size.Y),
				Layer: eagleTop,
			}
			if p.RRatio > 0 {
				smd.Roundness = formatNumber(math.Round(p.RRatio * 200))
			}
			pkg.SMDs = append(pkg.SMDs, smd)
			continue
		}

		shape := "round"
		switch {
		case p.Shape == "rect":
			shape = "square"
		case p.Size.X != p.Size.Y:
			shape = "long"
		}
		pkg.Pads = append(pkg.Pads, &EagleLibraryPackagePad{
			Name:     p.Number,
			X:        formatNumber(p.At.X),
			Y:        formatNumber(-p.At.Y),
			Drill:    formatNumber(p.Drill),
			Diameter: formatNumber(math.Min(p.Size.X, p.Size.Y)),
			Shape:    shape,
		})
	}

	for _, s := range g.Silk {
		pkg.Wires = append(pkg.Wires, eagleWire(withLayer(s, eagleTPlace), -1))
	}
	for _, s := range g.Fab {
		pkg.Wires = append(pkg.Wires, eagleWire(withLayer(s, eagleTDocu), -1))
	}
	for _, s := range g.Crtyd {
		pkg.Wires = append(pkg.Wires, eagleWire(withLayer(s, eagleTKeepout), -1))
	}

	pkg.Texts = []*EagleLibraryText{
		eagleLabel(g.Reference, ">NAME", eagleTNames, -1),
		eagleLabel(g.Value, ">VALUE", eagleTValues, -1),
	}
	return pkg
}

func withLayer(s Segment, layer string) Segment {
	s.Layer = layer
	return s
}

func eagleWire(s Segment, ySign float64) *EagleLibraryWire {
	return &EagleLibraryWire{
		X1:    formatNumber(s.Start.X),
		Y1:    formatNumber(ySign * s.Start.Y),
		X2:    formatNumber(s.End.X),
		Y2:    formatNumber(ySign * s.End.Y),
		Width: formatNumber(s.Width),
		Layer: s.Layer,
	}
}

func eagleLabel(l Label, text, layer string, ySign float64) *EagleLibraryText {
	t := &EagleLibraryText{
		X:     formatNumber(l.At.X),
		Y:     formatNumber(ySign * l.At.Y),
		Size:  "1.778",
		Layer: layer,
		Text:  text,
	}
	if l.Angle != 0 {
		t.Rot = fmt.Sprintf("R%d", l.Angle)
	}
	if l.Justify == "" {
		t.Align = "center"
	}
	return t
}

func eagleAttributes(c *Component) []*EagleLibraryAttribute {
	attrs := []*EagleLibraryAttribute{{Name: "VALUE", Value: DisplayValue(c)}}
	for _, a := range c.Attributes() {
		name := strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_").Replace(c.Registry().Field(a.Kind)))
		attrs = append(attrs, &EagleLibraryAttribute{Name: name, Value: a.Value.String(), Constant: "no"})
	}
	return attrs
}

/*
	arcSweep returns the signed angle in degrees of the arc through s, m and
	e. Positive sweeps run counter-clockwise.
*/
func arcSweep(s, m, e Point) float64 {
	d := 2 * (s.X*(m.Y-e.Y) + m.X*(e.Y-s.Y) + e.X*(s.Y-m.Y))
	if d == 0 {
		return 0
	}
	ss, mm, ee := s.X*s.X+s.Y*s.Y, m.X*m.X+m.Y*m.Y, e.X*e.X+e.Y*e.Y
	cx := (ss*(m.Y-e.Y) + mm*(e.Y-s.Y) + ee*(s.Y-m.Y)) / d
	cy := (ss*(e.X-m.X) + mm*(s.X-e.X) + ee*(m.X-s.X)) / d

	a0 := math.Atan2(s.Y-cy, s.X-cx)
	a1 := math.Atan2(e.Y-cy, e.X-cx)
	sweep := math.Mod(a1-a0+4*math.Pi, 2*math.Pi) * 180 / math.Pi

	cross := (m.X-s.X)*(e.Y-s.Y) - (m.Y-s.Y)*(e.X-s.X)
	if cross < 0 {
		sweep -= 360
	}
	return math.Round(sweep*100) / 100
}
