package lib

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type kindDef struct {
	kind  Kind
	shape Shape
	field string
}

// KindOption adjusts a kind at registration.
type KindOption func(*kindDef)

// WithField sets the display name used for the kind in library files.
func WithField(field string) KindOption {
	return func(d *kindDef) {
		d.field = field
	}
}

/*
	Registry is the table of known attribute kinds. It is filled once at
	startup, sealed, and then only read, so any number of generators may
	share it without locking.
*/
type Registry struct {
	kinds  map[Kind]*kindDef
	fields map[string]Kind
	order  []Kind
	sealed bool
}

func NewRegistry() *Registry {
	return &Registry{
		kinds:  make(map[Kind]*kindDef),
		fields: make(map[string]Kind),
	}
}

// Register defines kind with the values it accepts.
func (r *Registry) Register(kind Kind, shape Shape, opts ...KindOption) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if kind == "" {
		return invalidValue(kind, "", "empty kind name")
	}
	if _, ok := r.kinds[kind]; ok {
		return &AttributeError{Kind: kind, Reason: "already registered", err: ErrDuplicateKind}
	}

	def := &kindDef{
		kind:  kind,
		shape: shape,
		field: fieldName(kind),
	}
	for _, opt := range opts {
		opt(def)
	}
	if other, ok := r.fields[def.field]; ok {
		return &AttributeError{Kind: kind, Reason: "field name taken by " + string(other), err: ErrDuplicateKind}
	}

	r.kinds[kind] = def
	r.fields[def.field] = kind
	r.order = append(r.order, kind)
	return nil
}

// Seal ends the registration phase.
func (r *Registry) Seal() {
	r.sealed = true
}

func (r *Registry) Sealed() bool {
	return r.sealed
}

// Validate checks value against the shape registered for kind.
func (r *Registry) Validate(kind Kind, value Value) error {
	def, ok := r.kinds[kind]
	if !ok {
		return unknownKind(kind)
	}
	return def.shape.check(kind, value)
}

// Parse converts raw caller text into a validated Value for kind.
func (r *Registry) Parse(kind Kind, raw string) (Value, error) {
	def, ok := r.kinds[kind]
	if !ok {
		return Value{}, unknownKind(kind)
	}
	v, err := def.shape.parse(kind, strings.TrimSpace(raw))
	if err != nil {
		return Value{}, err
	}
	return v, def.shape.check(kind, v)
}

// Shape returns the shape of kind.
func (r *Registry) Shape(kind Kind) (Shape, bool) {
	def, ok := r.kinds[kind]
	if !ok {
		return Shape{}, false
	}
	return def.shape, true
}

// Field returns the display name of kind.
func (r *Registry) Field(kind Kind) string {
	if def, ok := r.kinds[kind]; ok {
		return def.field
	}
	return string(kind)
}

// KindForField maps a display name back to its kind.
func (r *Registry) KindForField(field string) (Kind, bool) {
	kind, ok := r.fields[field]
	return kind, ok
}

// Kinds lists kinds in registration order.
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.order...)
}

func (r *Registry) rank(kind Kind) int {
	for i, k := range r.order {
		if k == kind {
			return i
		}
	}
	return len(r.order)
}

func (r *Registry) normalize(kind Kind, v Value) Value {
	def, ok := r.kinds[kind]
	if !ok || def.shape.typ != shapeRange || v.isNum {
		return v
	}
	if f, ok := v.Float(); ok {
		return Number(f)
	}
	return v
}

var titleCaser = cases.Title(language.English)

func fieldName(kind Kind) string {
	return titleCaser.String(strings.ReplaceAll(string(kind), "_", " "))
}

// KiCad pin electrical types.
var pinTypes = []string{
	"input", "output", "bidirectional", "tri_state", "passive", "free",
	"unspecified", "power_in", "power_out", "open_collector", "open_emitter",
	"no_connect",
}

/*
	DefaultRegistry returns a sealed registry holding the standard kinds.
*/
func DefaultRegistry() *Registry {
	r := NewRegistry()

	line := `^\S(?:[^\n]*\S)?$`
	defs := []struct {
		kind  Kind
		shape Shape
		opts  []KindOption
	}{
		{KindRole, Enum(RoleResistor, RoleCapacitor, RoleInductor, RoleConnector, RoleIC), nil},
		{KindPackage, Pattern(`^[A-Za-z0-9][A-Za-z0-9._-]*$`), nil},
		{KindPinCount, IntRange(1, 1024), nil},
		{KindResistance, Range(0, 1e12), nil},
		{KindCapacitance, Range(0, 10), nil},
		{KindInductance, Range(0, 100), nil},
		{KindTolerance, Range(0, 100), nil},
		{KindPower, Range(0, 1000), nil},
		{KindVoltage, Range(0, 1e5), nil},
		{KindCurrent, Range(0, 1e4), nil},
		{KindDielectric, Enum("C0G", "NP0", "X5R", "X6S", "X7R", "X7S", "Y5V", "Z5U"), nil},
		{KindPinType, Enum(pinTypes...), nil},
		{KindPinNames, Pattern(`^[^,\s"()]+(,[^,\s"()]+)*$`), nil},
		{KindSymbolStyle, Enum("european", "american"), nil},
		{KindESeries, Enum("E3", "E6", "E12", "E24", "E48", "E96", "E192"), []KindOption{WithField("E-Series")}},
		{KindManufacturer, Pattern(line), nil},
		{KindMPN, Pattern(`^[^\s"]+$`), []KindOption{WithField("MPN")}},
		{KindSupplier, Pattern(line), nil},
		{KindSupplierPN, Pattern(`^[^\s"]+$`), []KindOption{WithField("SupplierPN")}},
		{KindSupplierURL, Pattern(`^https?://\S+$`), []KindOption{WithField("SupplierURL")}},
		{KindDatasheet, Pattern(`^\S+$`), nil},
		{KindDescription, Pattern(line), nil},
		{KindKeywords, Pattern(line), nil},
	}

	for _, d := range defs {
		// the table above is static; a failure here is a programming error
		if err := r.Register(d.kind, d.shape, d.opts...); err != nil {
			panic(err)
		}
	}

	r.Seal()
	return r
}
