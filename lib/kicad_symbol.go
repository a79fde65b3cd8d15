package lib

import (
	"fmt"
	"strconv"
	"strings"

	vlib "github.com/mcuadros/go-version"
)

// KiCad symbol library file versions.
const (
	KiCad6 = 20211014
	KiCad7 = 20220914
	KiCad8 = 20231120
)

const generatorName = "libgen"

// GeneratorVersion is written into files that carry a generator version.
var GeneratorVersion = "1.0"

/*
	kicadFeatures is every difference between the file versions we write.
	Nothing outside this struct looks at the version number.
*/
type kicadFeatures struct {
	symbolVersion    int
	footprintVersion int
	propertyIDs      bool
	strokeColor      bool
	quotedGenerator  bool
	excludeFromSim   bool
	descriptionField bool
	fpProperties     bool
	fpStroke         bool
	fpUUID           bool
}

func featuresFor(version int) (kicadFeatures, error) {
	switch version {
	case KiCad6:
		return kicadFeatures{
			symbolVersion:    KiCad6,
			footprintVersion: 20211014,
			propertyIDs:      true,
			strokeColor:      true,
		}, nil
	case KiCad7:
		return kicadFeatures{
			symbolVersion:    KiCad7,
			footprintVersion: 20221018,
			propertyIDs:      true,
			fpStroke:         true,
		}, nil
	case KiCad8:
		return kicadFeatures{
			symbolVersion:    KiCad8,
			footprintVersion: 20240108,
			quotedGenerator:  true,
			excludeFromSim:   true,
			descriptionField: true,
			fpProperties:     true,
			fpStroke:         true,
			fpUUID:           true,
		}, nil
	}
	return kicadFeatures{}, fmt.Errorf("%w: kicad file version %d", ErrUnsupported, version)
}

/*
	KiCadVersionFor maps a KiCad application version such as "7.0.10" to the
	symbol library file version it reads natively.
*/
func KiCadVersionFor(app string) (int, error) {
	app = vlib.Normalize(strings.TrimPrefix(strings.TrimSpace(app), "v"))
	switch {
	case vlib.Compare(app, "6.0", "<"):
		return 0, fmt.Errorf("%w: kicad %s is older than 6.0", ErrUnsupported, app)
	case vlib.Compare(app, "7.0", "<"):
		return KiCad6, nil
	case vlib.Compare(app, "8.0", "<"):
		return KiCad7, nil
	}
	return KiCad8, nil
}

// KiCad writes .kicad_sym libraries and .kicad_mod footprints.
type KiCad struct {
	features kicadFeatures

	// FootprintLib is the library nickname used in symbol Footprint fields.
	FootprintLib string
}

// NewKiCad returns an emitter for a symbol file version; 0 picks KiCad 8.
func NewKiCad(version int) (*KiCad, error) {
	if version == 0 {
		version = KiCad8
	}
	f, err := featuresFor(version)
	if err != nil {
		return nil, err
	}
	return &KiCad{features: f, FootprintLib: "libgen"}, nil
}

func (k *KiCad) Name() string      { return "kicad" }
func (k *KiCad) Extension() string { return ".kicad_sym" }

func (k *KiCad) Version() int { return k.features.symbolVersion }

func (k *KiCad) generator() string {
	if k.features.quotedGenerator {
		return fmt.Sprintf("(generator %s) (generator_version %s)", quote(generatorName), quote(GeneratorVersion))
	}
	return "(generator " + generatorName + ")"
}

// EmitLibrary wraps the symbols of parts in the library header and footer.
func (k *KiCad) EmitLibrary(name string, parts []Part) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "(kicad_symbol_lib (version %d) %s\n", k.features.symbolVersion, k.generator())
	for _, p := range parts {
		k.writeSymbol(&b, p.Component, p.Symbol)
	}
	b.WriteString(")\n")
	return b.String(), nil
}

// EmitSymbol renders one symbol block as it appears inside a library.
func (k *KiCad) EmitSymbol(c *Component, g *SymbolGeometry) (string, error) {
	if g == nil {
		return "", fmt.Errorf("%s: no symbol geometry", c.Name())
	}
	var b strings.Builder
	k.writeSymbol(&b, c, g)
	return b.String(), nil
}

type kicadProperty struct {
	key    string
	value  string
	label  Label
	hidden bool
}

func (k *KiCad) properties(c *Component, g *SymbolGeometry) []kicadProperty {
	footprint := ""
	if g.Footprint != "" {
		footprint = k.FootprintLib + ":" + g.Footprint
	}

	props := []kicadProperty{
		{key: "Reference", value: ReferencePrefix(c), label: g.Reference},
		{key: "Value", value: DisplayValue(c), label: g.Value},
		{key: "Footprint", value: footprint, hidden: true},
		{key: "Datasheet", value: Datasheet(c), hidden: true},
	}

	if k.features.descriptionField {
		props = append(props, kicadProperty{key: "Description", value: Description(c), hidden: true})
	}
	if kw := Keywords(c); kw != "" {
		props = append(props, kicadProperty{key: "ki_keywords", value: kw, hidden: true})
	}
	if !k.features.descriptionField {
		props = append(props, kicadProperty{key: "ki_description", value: Description(c), hidden: true})
	}
	if filter := roleSpecs[c.Role()].fpFilter; filter != "" {
		props = append(props, kicadProperty{key: "ki_fp_filters", value: filter, hidden: true})
	}

	for _, a := range c.Attributes() {
		if derivedKinds[a.Kind] {
			continue
		}
		props = append(props, kicadProperty{
			key:    c.Registry().Field(a.Kind),
			value:  a.Value.String(),
			hidden: true,
		})
	}
	return props
}

func (k *KiCad) writeSymbol(b *strings.Builder, c *Component, g *SymbolGeometry) {
	name := c.Name()
	fmt.Fprintf(b, "  (symbol %s", quote(name))
	if !g.ShowNums {
		b.WriteString(" (pin_numbers hide)")
	}
	fmt.Fprintf(b, " (pin_names (offset %s)", formatNumber(g.NameOffset))
	if !g.ShowNames {
		b.WriteString(" hide")
	}
	b.WriteString(")")
	if k.features.excludeFromSim {
		b.WriteString(" (exclude_from_sim no)")
	}
	b.WriteString(" (in_bom yes) (on_board yes)\n")

	for i, p := range k.properties(c, g) {
		fmt.Fprintf(b, "    (property %s %s", quote(p.key), quote(p.value))
		if k.features.propertyIDs {
			fmt.Fprintf(b, " (id %d)", i)
		}
		fmt.Fprintf(b, " (at %s %s %d)\n", formatNumber(p.label.At.X), formatNumber(p.label.At.Y), p.label.Angle)
		fmt.Fprintf(b, "      %s\n", effects(1.27, p.label.Justify, p.hidden))
		b.WriteString("    )\n")
	}

	fmt.Fprintf(b, "    (symbol %s\n", quote(name+"_0_1"))
	for _, gr := range g.Graphics {
		k.writeGraphic(b, gr)
	}
	b.WriteString("    )\n")

	fmt.Fprintf(b, "    (symbol %s\n", quote(name+"_1_1"))
	for _, p := range g.Pins {
		fmt.Fprintf(b, "      (pin %s line (at %s %s %d) (length %s)\n",
			p.Type, formatNumber(p.At.X), formatNumber(p.At.Y), p.Angle, formatNumber(p.Length))
		fmt.Fprintf(b, "        (name %s %s)\n", quote(p.Name), effects(1.27, "", false))
		fmt.Fprintf(b, "        (number %s %s)\n", quote(p.Number), effects(1.27, "", false))
		b.WriteString("      )\n")
	}
	b.WriteString("    )\n")
	b.WriteString("  )\n")
}

func (k *KiCad) writeGraphic(b *strings.Builder, g Graphic) {
	switch g.Kind {
	case GraphicRect:
		fmt.Fprintf(b, "      (rectangle (start %s) (end %s)\n", xy(g.Points[0]), xy(g.Points[1]))
	case GraphicArc:
		fmt.Fprintf(b, "      (arc (start %s) (mid %s) (end %s)\n", xy(g.Points[0]), xy(g.Points[1]), xy(g.Points[2]))
	case GraphicCircle:
		fmt.Fprintf(b, "      (circle (center %s) (radius %s)\n", xy(g.Points[0]), formatNumber(g.Radius))
	default:
		b.WriteString("      (polyline\n")
		b.WriteString("        (pts\n")
		pts := make([]string, len(g.Points))
		for i, p := range g.Points {
			pts[i] = "(xy " + xy(p) + ")"
		}
		fmt.Fprintf(b, "          %s\n", strings.Join(pts, " "))
		b.WriteString("        )\n")
	}
	fmt.Fprintf(b, "        %s\n", k.stroke(g.Width))
	fmt.Fprintf(b, "        (fill (type %s))\n", g.Fill)
	b.WriteString("      )\n")
}

func (k *KiCad) stroke(width float64) string {
	if k.features.strokeColor {
		return fmt.Sprintf("(stroke (width %s) (type default) (color 0 0 0 0))", formatNumber(width))
	}
	return fmt.Sprintf("(stroke (width %s) (type default))", formatNumber(width))
}

func effects(size float64, justify string, hidden bool) string {
	s := fmt.Sprintf("(effects (font (size %s %s))", formatNumber(size), formatNumber(size))
	if justify != "" {
		s += " (justify " + justify + ")"
	}
	if hidden {
		s += " hide"
	}
	return s + ")"
}

func xy(p Point) string {
	return formatNumber(p.X) + " " + formatNumber(p.Y)
}

var kicadEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quote(s string) string {
	return `"` + kicadEscaper.Replace(s) + `"`
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
