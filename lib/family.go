package lib

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	vlib "github.com/mcuadros/go-version"
	"gopkg.in/yaml.v3"
)

//go:embed families.yaml
var defaultFamilies []byte

// Symbol styles.
const (
	StyleTwoTerminal = "two-terminal"
	StyleBox         = "box"
	StyleConnector   = "connector"
)

// Footprint patterns.
const (
	PatternChip   = "chip"
	PatternDual   = "dual"
	PatternQuad   = "quad"
	PatternHeader = "header"
)

type PinRange struct {
	Min  int `yaml:"min"`
	Max  int `yaml:"max"`
	Step int `yaml:"step"`
}

// Accepts reports whether n pins fit the range.
func (p PinRange) Accepts(n int) bool {
	step := p.Step
	if step < 1 {
		step = 1
	}
	return n >= p.Min && n <= p.Max && (n-p.Min)%step == 0
}

type SymbolRule struct {
	Style         string  `yaml:"style"`
	Spacing       float64 `yaml:"spacing"`
	QuadThreshold int     `yaml:"quad_threshold"`
	Columns       int     `yaml:"columns"`
}

/*
	FootprintRule holds the dimensions of one footprint pattern, in mm.
	Which fields matter depends on the pattern.
*/
type FootprintRule struct {
	Pattern    string  `yaml:"pattern"`
	Name       string  `yaml:"name"`
	Pitch      float64 `yaml:"pitch"`
	Span       float64 `yaml:"span"`
	PadWidth   float64 `yaml:"pad_width"`
	PadHeight  float64 `yaml:"pad_height"`
	PadShape   string  `yaml:"pad_shape"`
	Drill      float64 `yaml:"drill"`
	BodyLength float64 `yaml:"body_length"`
	BodyWidth  float64 `yaml:"body_width"`
	EndMargin  float64 `yaml:"end_margin"`
	PadOffset  float64 `yaml:"pad_offset"`
	ExposedPad float64 `yaml:"exposed_pad"`
	Rows       int     `yaml:"rows"`
	Model      string  `yaml:"model"`
}

/*
	Family is a package family rule: for the listed roles and package it
	fixes the accepted pin counts, the symbol style and the footprint
	pattern.
*/
type Family struct {
	Name      string        `yaml:"name"`
	Version   string        `yaml:"version"`
	Roles     []string      `yaml:"roles"`
	Package   string        `yaml:"package"`
	Aliases   []string      `yaml:"aliases"`
	Pins      PinRange      `yaml:"pins"`
	Symbol    SymbolRule    `yaml:"symbol"`
	Footprint FootprintRule `yaml:"footprint"`
}

func (f *Family) matches(role, pkg string) bool {
	if !contains(f.Roles, role) {
		return false
	}
	return f.Package == pkg || contains(f.Aliases, pkg)
}

func (f *Family) validate() error {
	if f.Name == "" || f.Package == "" {
		return fmt.Errorf("family needs a name and a package")
	}
	if f.Version == "" {
		f.Version = "1.0"
	}
	if len(f.Roles) == 0 {
		return fmt.Errorf("family %s: no roles", f.Name)
	}
	for _, role := range f.Roles {
		if _, ok := roleSpecs[role]; !ok {
			return fmt.Errorf("family %s: unknown role %q", f.Name, role)
		}
	}
	if f.Pins.Min < 1 || f.Pins.Max < f.Pins.Min {
		return fmt.Errorf("family %s: bad pin range %d..%d", f.Name, f.Pins.Min, f.Pins.Max)
	}

	switch f.Symbol.Style {
	case StyleTwoTerminal, StyleBox, StyleConnector:
	default:
		return fmt.Errorf("family %s: unknown symbol style %q", f.Name, f.Symbol.Style)
	}
	switch f.Footprint.Pattern {
	case PatternChip, PatternDual, PatternQuad, PatternHeader:
	default:
		return fmt.Errorf("family %s: unknown footprint pattern %q", f.Name, f.Footprint.Pattern)
	}
	if f.Footprint.PadWidth <= 0 || f.Footprint.PadHeight <= 0 {
		return fmt.Errorf("family %s: pad size must be positive", f.Name)
	}
	return f.checkPinMultiple()
}

/*
	checkPinMultiple rejects pin ranges a footprint pattern cannot place
	every pin of: chips have two pads, dual rows an even count and quads a
	multiple of four.
*/
func (f *Family) checkPinMultiple() error {
	switch f.Footprint.Pattern {
	case PatternChip:
		if f.Pins.Min != 2 || f.Pins.Max != 2 {
			return fmt.Errorf("family %s: chip pattern has exactly 2 pins", f.Name)
		}
	case PatternDual, PatternQuad:
		m := 2
		if f.Footprint.Pattern == PatternQuad {
			m = 4
		}
		step := f.Pins.Step
		if step < 1 {
			step = 1
		}
		if f.Pins.Min%m != 0 || (f.Pins.Max > f.Pins.Min && step%m != 0) {
			return fmt.Errorf("family %s: %s pattern needs pin counts in multiples of %d", f.Name, f.Footprint.Pattern, m)
		}
	}
	return nil
}

// FootprintName expands the name template for a pin count and role.
func (f *Family) FootprintName(role string, pins int) string {
	return f.expand(f.Footprint.Name, role, pins, "")
}

func (f *Family) modelPath(role string, pins int) string {
	if f.Footprint.Model == "" {
		return ""
	}
	name := f.FootprintName(role, pins)
	return "${KICAD6_3DMODEL_DIR}/" + f.expand(f.Footprint.Model, role, pins, name)
}

func (f *Family) expand(tmpl, role string, pins int, name string) string {
	spec := roleSpecs[role]
	rows := pins
	if f.Footprint.Rows > 1 {
		rows = pins / f.Footprint.Rows
	}
	return strings.NewReplacer(
		"{prefix}", spec.prefix,
		"{pins}", strconv.Itoa(pins),
		"{rows}", strconv.Itoa(rows),
		"{length}", formatNumber(f.bodyLength(pins)),
		"{lib}", spec.modelLib,
		"{name}", name,
	).Replace(tmpl)
}

// bodyLength is the body extent along the pin rows.
func (f *Family) bodyLength(pins int) float64 {
	fp := f.Footprint
	switch fp.Pattern {
	case PatternDual:
		return roundTo(float64(pins/2-1)*fp.Pitch+2*fp.EndMargin, 0.01)
	case PatternQuad:
		return roundTo(float64(pins/4-1)*fp.Pitch+2*fp.EndMargin, 0.01)
	}
	return fp.BodyLength
}

type rulesFile struct {
	Families []*Family `yaml:"families"`
}

/*
	Rules is the package family table. Like the registry it is filled,
	sealed and then shared read-only by every generator.
*/
type Rules struct {
	families []*Family
	sealed   bool
}

func NewRules() *Rules {
	return &Rules{}
}

// DefaultRules returns the built-in families, sealed.
func DefaultRules() (*Rules, error) {
	return LoadRules()
}

// LoadRules returns the built-in families followed by those of files, sealed.
func LoadRules(files ...string) (*Rules, error) {
	r := NewRules()
	if err := r.Load(strings.NewReader(string(defaultFamilies))); err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := r.LoadFile(f); err != nil {
			return nil, err
		}
	}
	r.Seal()
	return r, nil
}

// Load adds the families of a YAML document.
func (r *Rules) Load(rd io.Reader) error {
	var file rulesFile
	if err := yaml.NewDecoder(rd).Decode(&file); err != nil {
		return fmt.Errorf("failed to decode family rules: %w", err)
	}
	for _, f := range file.Families {
		if err := r.Add(f); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile adds the families of a YAML file.
func (r *Rules) LoadFile(path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	return r.Load(fp)
}

func (r *Rules) Add(f *Family) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if err := f.validate(); err != nil {
		return err
	}
	r.families = append(r.families, f)
	return nil
}

func (r *Rules) Seal() {
	r.sealed = true
}

// Families lists the rules in load order.
func (r *Rules) Families() []*Family {
	return append([]*Family(nil), r.families...)
}

/*
	Match selects the family for a role and package. When several match,
	the highest version wins; on equal versions the one loaded last wins,
	so a user file can override a built-in entry.
*/
func (r *Rules) Match(role, pkg string) (*Family, error) {
	var best *Family
	for _, f := range r.families {
		if !f.matches(role, pkg) {
			continue
		}
		if best == nil || vlib.CompareSimple(f.Version, best.Version) >= 0 {
			best = f
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w for %s in %s", ErrNoRule, role, pkg)
	}
	return best, nil
}

// Packages lists the package names known for a role.
func (r *Rules) Packages(role string) []string {
	seen := map[string]bool{}
	var pkgs []string
	for _, f := range r.families {
		if contains(f.Roles, role) && !seen[f.Package] {
			seen[f.Package] = true
			pkgs = append(pkgs, f.Package)
		}
	}
	return pkgs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

/*
	roleSpec describes what an electrical role brings to a symbol: its
	reference prefix, the default pin type, the body it is drawn with and
	the kind that carries its value.
*/
type roleSpec struct {
	prefix    string
	pinType   string
	body      string
	valueKind Kind
	dbKinds   []Kind
	keywords  string
	fpFilter  string
	modelLib  string
	title     string
}

var roleSpecs = map[string]roleSpec{
	RoleResistor: {
		prefix: "R", pinType: "passive", body: "resistor", valueKind: KindResistance,
		dbKinds: []Kind{KindResistance}, keywords: "R res resistor", fpFilter: "R_*",
		modelLib: "Resistor", title: "Resistor",
	},
	RoleCapacitor: {
		prefix: "C", pinType: "passive", body: "capacitor", valueKind: KindCapacitance,
		dbKinds: []Kind{KindCapacitance}, keywords: "cap capacitor", fpFilter: "C_*",
		modelLib: "Capacitor", title: "Capacitor",
	},
	RoleInductor: {
		prefix: "L", pinType: "passive", body: "inductor", valueKind: KindInductance,
		dbKinds: []Kind{KindInductance}, keywords: "L inductor choke coil", fpFilter: "L_*",
		modelLib: "Inductor", title: "Inductor",
	},
	RoleConnector: {
		prefix: "J", pinType: "passive", body: "connector",
		keywords: "connector", fpFilter: "Connector*:*_1x?? Connector*:*_2x??",
		modelLib: "Connector", title: "Connector",
	},
	RoleIC: {
		prefix: "U", pinType: "unspecified", body: "box",
		dbKinds: []Kind{KindMPN}, modelLib: "Package", title: "IC",
	},
}

func (r roleSpec) required(purpose Purpose) []Kind {
	kinds := []Kind{KindRole, KindPackage, KindPinCount}
	if purpose == ForDatabase {
		kinds = append(kinds, r.dbKinds...)
	}
	return kinds
}
